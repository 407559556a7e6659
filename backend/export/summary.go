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

// Package export renders matches and career totals for sharing: a plain
// text summary, the career CSV and text scorecards.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/JayGriffiths12/piss-up-cup-score/backend/scoring"
)

const summaryTitle = "Piss Up Cup Scorer - Match Summary"

// WriteSummary writes the shareable match summary.
func WriteSummary(w io.Writer, m *scoring.Match) error {
	_, err := io.WriteString(w, Summary(m))
	return err
}

// Summary renders the match summary: totals with bonus runs, the winner and
// the wicket log of each innings.
func Summary(m *scoring.Match) string {
	var b strings.Builder
	b.WriteString(summaryTitle + "\n")
	s := m.Settings
	fmt.Fprintf(&b, "Format: %d overs, pairs bat %d overs, bin closes after %d min\n",
		s.OversPerInnings, s.PairOvers, s.BinCloseMinutes)
	for i, t := range m.Teams {
		fmt.Fprintf(&b, "%s: base %d + beers %d = TOTAL %d\n", t.Name, m.BaseRuns(i), t.BonusRuns, m.TeamTotal(i))
	}
	winner := "Tie"
	if team, ok := m.Winner(); ok {
		winner = m.Teams[team].Name
	}
	fmt.Fprintf(&b, "Winner: %s\n", winner)

	b.WriteString("\nWickets log:\n")
	if !m.Started() {
		b.WriteString("  - not started\n")
	}
	for i := range m.Innings {
		inn := &m.Innings[i]
		fmt.Fprintf(&b, "Innings %d (%s):\n", i+1, m.Teams[inn.BattingTeam].Name)
		if len(inn.WicketLog) == 0 {
			b.WriteString("  - none\n")
		}
		for _, w := range inn.WicketLog {
			fmt.Fprintf(&b, "  %s %s - %s (taker: %s, bowler: %s)\n", w.Position, w.Batter, w.Dismissal, w.Taker, w.Bowler)
		}
	}
	return b.String()
}
