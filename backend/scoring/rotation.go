// Copyright (c) 2026 TTBT Enterprises LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package scoring

// rotatePair replaces the batting pair once it has faced its quota of legal
// balls. The bowler is kept; striker and non-striker must be chosen again.
func rotatePair(inn *Innings, s Settings) bool {
	if inn.PairBalls < s.PairBalls() {
		return false
	}
	inn.PairIndex++
	inn.PairBalls = 0
	inn.Striker = ""
	inn.NonStriker = ""
	return true
}

// PairBallsRemaining is the number of legal balls before the current pair is replaced.
func PairBallsRemaining(inn *Innings, s Settings) int {
	return s.PairBalls() - inn.PairBalls
}
