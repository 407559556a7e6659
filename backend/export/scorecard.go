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
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/JayGriffiths12/piss-up-cup-score/backend/career"
	"github.com/JayGriffiths12/piss-up-cup-score/backend/scoring"
)

func newTable() table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Format.Header = text.FormatDefault
	tbl.Style().Format.Footer = text.FormatDefault
	return tbl
}

// rosterOrder lists the figure holders in roster order, followed by anyone
// not on the roster in name order.
func rosterOrder[V any](roster []string, figures map[string]V) []string {
	var out []string
	for _, p := range roster {
		if _, ok := figures[p]; ok && !slices.Contains(out, p) {
			out = append(out, p)
		}
	}
	for _, p := range slices.Sorted(maps.Keys(figures)) {
		if !slices.Contains(out, p) {
			out = append(out, p)
		}
	}
	return out
}

// WriteScorecard renders batting, bowling and wicket tables for every
// innings that has started.
func WriteScorecard(w io.Writer, m *scoring.Match) error {
	var b strings.Builder
	if !m.Started() {
		fmt.Fprintf(&b, "%s v %s: awaiting toss\n", m.Teams[0].Name, m.Teams[1].Name)
	}
	for i := range m.Innings {
		if i > 0 {
			b.WriteString("\n")
		}
		writeInnings(&b, m, i)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeInnings(b *strings.Builder, m *scoring.Match, idx int) {
	inn := &m.Innings[idx]
	fmt.Fprintf(b, "Innings %d: %s %d/%d (%s ov, %d extra balls)\n",
		idx+1, m.Teams[inn.BattingTeam].Name, inn.TotalRuns, inn.Wickets,
		scoring.OversString(inn.LegalBalls), inn.ExtraBalls)

	bat := newTable()
	bat.AppendHeader(table.Row{"Batter", "R", "B", "4s", "6s", "Out"})
	for _, name := range rosterOrder(m.Teams[inn.BattingTeam].Players, inn.Batting) {
		f := inn.Batting[name]
		if f.IsZero() {
			continue
		}
		bat.AppendRow(table.Row{name, f.Runs, f.Balls, f.Fours, f.Sixes, f.Outs})
	}
	b.WriteString(bat.Render() + "\n")

	bowl := newTable()
	bowl.AppendHeader(table.Row{"Bowler", "O", "R", "W", "Wd", "Nb"})
	for _, name := range rosterOrder(m.Teams[inn.BowlingTeam].Players, inn.Bowling) {
		f := inn.Bowling[name]
		if f.IsZero() {
			continue
		}
		bowl.AppendRow(table.Row{name, scoring.OversString(f.Balls), f.Runs, f.Wickets, f.Wides, f.NoBalls})
	}
	b.WriteString(bowl.Render() + "\n")

	if len(inn.WicketLog) == 0 {
		return
	}
	wk := newTable()
	wk.AppendHeader(table.Row{"Ball", "Batter", "How", "Taker", "Bowler"})
	for _, e := range inn.WicketLog {
		wk.AppendRow(table.Row{e.Position, e.Batter, string(e.Dismissal), e.Taker, e.Bowler})
	}
	b.WriteString(wk.Render() + "\n")
}

// WriteCareerTable renders the career leaderboard, highest run scorers first.
func WriteCareerTable(w io.Writer, records career.Records) error {
	tbl := newTable()
	tbl.AppendHeader(table.Row{"Player", "M", "Inns", "Runs", "Overs", "Wkts", "Field"})
	for _, r := range records.Leaderboard() {
		tbl.AppendRow(table.Row{r.Name, r.Matches, r.BatInnings, r.BatRuns, scoring.OversString(r.BowlBalls), r.BowlWickets, r.FieldWickets})
	}
	tbl.AppendFooter(table.Row{fmt.Sprintf("%d players", len(records))})
	_, err := io.WriteString(w, tbl.Render()+"\n")
	return err
}
