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

// Rebuild folds a delivery ledger into a fresh innings. Each delivery is
// replayed with the selections recorded on it, so strike changes and pair
// rotations come out exactly as they were scored.
func Rebuild(battingTeam, bowlingTeam int, ledger []Delivery, s Settings) Innings {
	inn := NewInnings(battingTeam, bowlingTeam)
	for _, d := range ledger {
		inn.Striker = d.Striker
		inn.NonStriker = d.NonStriker
		inn.Bowler = d.Bowler
		inn.touchSelections()
		apply(&inn, d, s)
	}
	return inn
}

// Retract removes the most recent delivery of the match and refolds the
// owning innings from its remaining ledger. The selections that were in force
// for the removed delivery are restored. Retracting while the second innings
// is still empty steps back into the first, and a completed match is
// reopened.
func Retract(m *Match) (Delivery, error) {
	if !m.Started() {
		return Delivery{}, ErrAwaitingSetup
	}

	idx := m.CurrentInnings
	if len(m.Innings[idx].Deliveries) == 0 {
		if idx == 0 || len(m.Innings[0].Deliveries) == 0 {
			return Delivery{}, ErrNothingToUndo
		}
		idx = 0
	}

	inn := &m.Innings[idx]
	last := inn.Deliveries[len(inn.Deliveries)-1]
	ledger := inn.Deliveries[:len(inn.Deliveries)-1]

	rebuilt := Rebuild(inn.BattingTeam, inn.BowlingTeam, ledger, m.Settings)
	rebuilt.Striker = last.Striker
	rebuilt.NonStriker = last.NonStriker
	rebuilt.Bowler = last.Bowler
	rebuilt.touchSelections()
	m.Innings[idx] = rebuilt

	for m.Phase() == PhaseCompleted || m.CurrentInnings > idx {
		if _, err := Fire(m, EventRetract); err != nil {
			return Delivery{}, err
		}
	}
	return last, nil
}
