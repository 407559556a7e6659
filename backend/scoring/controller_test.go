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

import (
	"errors"
	"testing"
	"time"
)

func scoreLegal(t *testing.T, m *Match, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if _, err := ScoreBatRun(m, 0); err != nil {
			t.Fatalf("ScoreBatRun #%d failed: %v", i+1, err)
		}
	}
}

func TestPhaseFlow(t *testing.T) {
	m := NewMatch("10000000-0000-4000-8000-000000000002", time.Now())
	if p := m.Phase(); p != PhaseAwaitingSetup {
		t.Fatalf("Expected %s, got %s", PhaseAwaitingSetup, p)
	}
	if _, err := ScoreBatRun(m, 1); !errors.Is(err, ErrAwaitingSetup) {
		t.Errorf("Expected ErrAwaitingSetup before start, got %v", err)
	}
	if err := Start(m, 2); !errors.Is(err, ErrInvalidTeam) {
		t.Errorf("Expected ErrInvalidTeam, got %v", err)
	}

	m = newTestMatch(t, 1, 1)
	if p := m.Phase(); p != PhaseInnings1 {
		t.Fatalf("Expected %s, got %s", PhaseInnings1, p)
	}
	if err := Start(m, 1); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("Expected ErrAlreadyStarted, got %v", err)
	}

	scoreLegal(t, m, 5)
	if p := m.Phase(); p != PhaseInnings1 {
		t.Fatalf("Expected %s after 5 balls, got %s", PhaseInnings1, p)
	}
	if _, err := ScoreWide(m); err != nil {
		t.Fatal(err)
	}
	if p := m.Phase(); p != PhaseInnings1 {
		t.Fatalf("Extras must not end the innings, got %s", p)
	}
	scoreLegal(t, m, 1)
	if p := m.Phase(); p != PhaseInnings2 {
		t.Fatalf("Expected %s, got %s", PhaseInnings2, p)
	}

	inn := m.Active()
	if inn.BattingTeam != 1 || inn.BowlingTeam != 0 {
		t.Errorf("Expected sides swapped, got batting=%d bowling=%d", inn.BattingTeam, inn.BowlingTeam)
	}
	if _, err := ScoreBatRun(m, 1); !errors.Is(err, ErrSelectionMissing) {
		t.Errorf("Expected ErrSelectionMissing in a fresh innings, got %v", err)
	}
	if err := SelectBatters(m, "Ava", "Ben"); !errors.Is(err, ErrUnknownPlayer) {
		t.Errorf("Expected ErrUnknownPlayer for the fielding side, got %v", err)
	}
	selectAll(t, m, "Eli", "Fay", "Ava")

	scoreLegal(t, m, 6)
	if p := m.Phase(); p != PhaseCompleted {
		t.Fatalf("Expected %s, got %s", PhaseCompleted, p)
	}
	if !m.Completed {
		t.Error("Expected match to be flagged completed")
	}
	if _, err := ScoreBatRun(m, 1); !errors.Is(err, ErrMatchComplete) {
		t.Errorf("Expected ErrMatchComplete, got %v", err)
	}
	if err := SelectBowler(m, "Ava"); !errors.Is(err, ErrMatchComplete) {
		t.Errorf("Expected ErrMatchComplete for selection, got %v", err)
	}
	if _, err := Fire(m, EventStart); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Expected ErrInvalidTransition, got %v", err)
	}
}

func TestStart(t *testing.T) {
	for _, batting := range []int{0, 1} {
		m := NewMatch("10000000-0000-4000-8000-000000000003", time.Now())
		if err := Start(m, batting); err != nil {
			t.Fatalf("Start(%d) failed: %v", batting, err)
		}
		if p := m.Phase(); p != PhaseInnings1 {
			t.Errorf("Expected %s, got %s", PhaseInnings1, p)
		}
		if len(m.Innings) != 2 || m.CurrentInnings != 0 {
			t.Fatalf("Expected two innings with the first active, got %d (current %d)", len(m.Innings), m.CurrentInnings)
		}
		if m.Innings[0].BattingTeam != batting || m.Innings[1].BattingTeam != 1-batting {
			t.Errorf("Expected team %d to bat first, got %+v", batting, m.Innings)
		}
	}
}

func TestNoAllOut(t *testing.T) {
	m := newTestMatch(t, 1, 1)
	for i := 0; i < 5; i++ {
		if _, err := ScoreWicket(m, Bowled, "Eli"); err != nil {
			t.Fatal(err)
		}
	}
	if m.Phase() != PhaseInnings1 {
		t.Errorf("Wickets alone must not close the innings, got %s", m.Phase())
	}
	if got := m.Active().TotalRuns; got != -25 {
		t.Errorf("Expected -25 runs, got %d", got)
	}
}

func TestTransitionsTable(t *testing.T) {
	seen := make(map[Phase]map[Event]bool)
	for _, tr := range Transitions() {
		if seen[tr.From] == nil {
			seen[tr.From] = make(map[Event]bool)
		}
		if seen[tr.From][tr.Event] {
			t.Errorf("Duplicate transition from %s on %s", tr.From, tr.Event)
		}
		seen[tr.From][tr.Event] = true
	}
	if !seen[PhaseInnings2][EventRetract] || !seen[PhaseCompleted][EventRetract] {
		t.Error("Expected retract edges out of innings 2 and completed")
	}
	if len(seen[PhaseAwaitingSetup]) != 1 {
		t.Errorf("Expected a single edge out of setup, got %v", seen[PhaseAwaitingSetup])
	}
}

func TestWinner(t *testing.T) {
	m := newTestMatch(t, 1, 1)
	if _, err := ScoreBatRun(m, 6); err != nil {
		t.Fatal(err)
	}
	scoreLegal(t, m, 5)
	selectAll(t, m, "Eli", "Fay", "Ava")
	if _, err := ScoreBatRun(m, 4); err != nil {
		t.Fatal(err)
	}
	scoreLegal(t, m, 5)

	if team, ok := m.Winner(); !ok || team != 0 {
		t.Errorf("Expected team 0 to win, got %d (%v)", team, ok)
	}
	if err := SetBonusRuns(m, 1, 2); err != nil {
		t.Fatal(err)
	}
	if _, ok := m.Winner(); ok {
		t.Errorf("Expected a tie at %d-%d", m.TeamTotal(0), m.TeamTotal(1))
	}
	if err := SetBonusRuns(m, 1, 3); err != nil {
		t.Fatal(err)
	}
	if team, ok := m.Winner(); !ok || team != 1 {
		t.Errorf("Expected team 1 to win on bonus runs, got %d (%v)", team, ok)
	}
	if got := m.BaseRuns(1); got != 4 {
		t.Errorf("Expected base runs 4, got %d", got)
	}
}
