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

package backend

import (
	"testing"
	"time"

	"github.com/c2FmZQ/storage"

	"github.com/JayGriffiths12/piss-up-cup-score/backend/scoring"
)

const testMatchID = "30000000-0000-4000-8000-000000000001"

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	dir := t.TempDir()
	return NewFileStore(dir, storage.New(dir, nil))
}

func mustOK(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}

// setupMatch returns a one-over match with Ava/Ben facing Eli, ready to score.
func setupMatch(t *testing.T) *scoring.Match {
	t.Helper()
	m := scoring.NewMatch(testMatchID, time.Date(2026, 3, 7, 18, 0, 0, 0, time.UTC))
	teams := [2]scoring.TeamSetup{
		{Name: "Dusty Boots", Players: []string{"Ava", "Ben", "Cal"}},
		{Name: "Red Dirt", Players: []string{"Eli", "Fay", "Gus"}},
	}
	s := scoring.DefaultSettings()
	s.OversPerInnings = 1
	s.PairOvers = 1
	mustOK(t, scoring.Setup(m, teams, s))
	mustOK(t, scoring.Start(m, 0))
	mustOK(t, scoring.SelectBatters(m, "Ava", "Ben"))
	mustOK(t, scoring.SelectBowler(m, "Eli"))
	return m
}

// completedMatch plays both innings: Dusty Boots 4 - 5 + 0 = -1, Red Dirt 6.
func completedMatch(t *testing.T) *scoring.Match {
	t.Helper()
	m := setupMatch(t)
	_, err := scoring.ScoreBatRun(m, 4)
	mustOK(t, err)
	_, err = scoring.TakeWicket(m, scoring.Bowled, "Eli")
	mustOK(t, err)
	for range 4 {
		_, err = scoring.ScoreBatRun(m, 0)
		mustOK(t, err)
	}
	mustOK(t, scoring.SelectBatters(m, "Eli", "Fay"))
	mustOK(t, scoring.SelectBowler(m, "Cal"))
	_, err = scoring.ScoreBatRun(m, 6)
	mustOK(t, err)
	for range 5 {
		_, err = scoring.ScoreBatRun(m, 0)
		mustOK(t, err)
	}
	if !m.Completed {
		t.Fatalf("Expected completed match, got phase %s", m.Phase())
	}
	return m
}
