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

package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/JayGriffiths12/piss-up-cup-score/backend/scoring"
)

func TestWriteScorecard(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteScorecard(&buf, playedMatch(t)); err != nil {
		t.Fatalf("WriteScorecard failed: %v", err)
	}
	got := buf.String()
	for _, want := range []string{
		"Innings 1: Dusty Boots 0/1 (1.0 ov, 1 extra balls)",
		"Innings 2: Red Dirt 1/1 (1.0 ov, 0 extra balls)",
		"Batter",
		"Bowler",
		"Caught",
		"Run Out",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected scorecard to contain %q, got:\n%s", want, got)
		}
	}
	// Ben never faced a ball.
	first := got[:strings.Index(got, "Innings 2")]
	if strings.Contains(first, "Ben") {
		t.Errorf("Did not expect Ben in the first innings tables:\n%s", first)
	}
}

func TestWriteScorecardNotStarted(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteScorecard(&buf, scoring.NewMatch("n", time.Now())); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "Team A v Team B: awaiting toss\n" {
		t.Errorf("Unexpected output %q", got)
	}
}

func TestWriteCareerTable(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCareerTable(&buf, sampleRecords()); err != nil {
		t.Fatal(err)
	}
	got := buf.String()
	if !strings.Contains(got, "2 players") {
		t.Errorf("Expected footer with player count, got:\n%s", got)
	}
	if strings.Index(got, "Zed") > strings.Index(got, "Ava, Jr") {
		t.Errorf("Expected Zed (0 runs) above Ava (-2 runs):\n%s", got)
	}
}
