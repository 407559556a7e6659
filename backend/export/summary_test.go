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
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/JayGriffiths12/piss-up-cup-score/backend/scoring"
)

// verifyGolden compares actual against testdata/<name>. With
// UPDATE_GOLDENS=true it rewrites the file instead.
func verifyGolden(t *testing.T, name, actual string) {
	t.Helper()
	actual = strings.TrimSpace(actual)
	goldenPath := filepath.Join("testdata", name)

	if os.Getenv("UPDATE_GOLDENS") == "true" {
		if err := os.WriteFile(goldenPath, []byte(actual+"\n"), 0644); err != nil {
			t.Fatalf("Failed to write golden file %s: %v", goldenPath, err)
		}
		t.Logf("Updated golden file: %s", goldenPath)
		return
	}

	expectedBytes, err := os.ReadFile(goldenPath)
	if err != nil {
		if os.IsNotExist(err) {
			t.Errorf("Golden file missing: %s.\nActual Content:\n%s", goldenPath, actual)
			return
		}
		t.Fatalf("Failed to read golden file %s: %v", goldenPath, err)
	}
	expected := strings.TrimSpace(string(expectedBytes))
	if actual != expected {
		diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(expected),
			B:        difflib.SplitLines(actual),
			FromFile: "Expected",
			ToFile:   "Actual",
			Context:  3,
		})
		t.Errorf("Mismatch for %s:\n%s", name, diff)
	}
}

func playedMatch(t *testing.T) *scoring.Match {
	t.Helper()
	m := scoring.NewMatch("30000000-0000-4000-8000-000000000001", time.Date(2026, 3, 7, 15, 0, 0, 0, time.UTC))
	teams := [2]scoring.TeamSetup{
		{Name: "Dusty Boots", Players: []string{"Ava", "Ben", "Cal"}},
		{Name: "Red Dirt", Players: []string{"Eli", "Fay", "Ava"}},
	}
	s := scoring.DefaultSettings()
	s.OversPerInnings = 1
	s.PairOvers = 1
	must := func(_ scoring.Delivery, err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	check := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	check(scoring.Setup(m, teams, s))
	check(scoring.Start(m, 0))
	check(scoring.SelectBatters(m, "Ava", "Ben"))
	check(scoring.SelectBowler(m, "Eli"))
	must(scoring.ScoreBatRun(m, 4))
	must(scoring.ScoreWide(m))
	must(scoring.TakeWicket(m, scoring.Caught, "Fay"))
	for i := 0; i < 4; i++ {
		must(scoring.ScoreBatRun(m, 0))
	}

	check(scoring.SelectBatters(m, "Eli", "Fay"))
	check(scoring.SelectBowler(m, "Cal"))
	must(scoring.ScoreBatRun(m, 6))
	must(scoring.TakeWicket(m, scoring.RunOut, "Ben"))
	for i := 0; i < 4; i++ {
		must(scoring.ScoreBatRun(m, 0))
	}
	check(scoring.SetBonusRuns(m, 0, 3))
	return m
}

func TestSummaryGolden(t *testing.T) {
	verifyGolden(t, "summary.golden", Summary(playedMatch(t)))
}

func TestSummaryTie(t *testing.T) {
	m := scoring.NewMatch("tie", time.Now())
	got := Summary(m)
	for _, want := range []string{
		"Team A: base 0 + beers 0 = TOTAL 0",
		"Winner: Tie",
		"  - not started",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected summary to contain %q, got:\n%s", want, got)
		}
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed pipe") }

func TestWriteSummary(t *testing.T) {
	m := playedMatch(t)
	var b strings.Builder
	if err := WriteSummary(&b, m); err != nil {
		t.Fatal(err)
	}
	if b.String() != Summary(m) {
		t.Errorf("Expected written summary to equal Summary, got:\n%s", b.String())
	}
	if err := WriteSummary(failingWriter{}, m); err == nil {
		t.Error("Expected write error to be returned")
	}
}
