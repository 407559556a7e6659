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

// Package career keeps per-player totals across finalized matches.
package career

import (
	"cmp"
	"slices"
	"strings"
)

// Totals is the additive part of a career record. The same shape is used for
// the per-match contributions folded into it.
type Totals struct {
	Matches int `json:"matches"`

	BatInnings int `json:"bat_innings"`
	BatRuns    int `json:"bat_runs"`
	BatBalls   int `json:"bat_balls"`
	BatFours   int `json:"bat_fours"`
	BatSixes   int `json:"bat_sixes"`
	BatOuts    int `json:"bat_outs"`

	BowlBalls   int `json:"bowl_overs_balls"`
	BowlRuns    int `json:"bowl_runs"`
	BowlWickets int `json:"bowl_wkts"`
	BowlWides   int `json:"bowl_wd"`
	BowlNoBalls int `json:"bowl_nb"`

	FieldWickets   int `json:"field_wkts"`
	FieldRunOuts   int `json:"field_runouts"`
	FieldCatches   int `json:"field_catches"`
	FieldStumpings int `json:"field_stumpings"`
}

// Add accumulates d into t field by field.
func (t *Totals) Add(d Totals) {
	t.Matches += d.Matches

	t.BatInnings += d.BatInnings
	t.BatRuns += d.BatRuns
	t.BatBalls += d.BatBalls
	t.BatFours += d.BatFours
	t.BatSixes += d.BatSixes
	t.BatOuts += d.BatOuts

	t.BowlBalls += d.BowlBalls
	t.BowlRuns += d.BowlRuns
	t.BowlWickets += d.BowlWickets
	t.BowlWides += d.BowlWides
	t.BowlNoBalls += d.BowlNoBalls

	t.FieldWickets += d.FieldWickets
	t.FieldRunOuts += d.FieldRunOuts
	t.FieldCatches += d.FieldCatches
	t.FieldStumpings += d.FieldStumpings
}

// Record is one player's career.
type Record struct {
	Name string `json:"name"`
	Totals
}

// Records is the whole career store keyed by trimmed player name.
type Records map[string]*Record

// Key normalizes a player name into a store key.
func Key(name string) string {
	return strings.TrimSpace(name)
}

// Sorted returns the records ordered by name.
func (r Records) Sorted() []Record {
	out := make([]Record, 0, len(r))
	for _, rec := range r {
		out = append(out, *rec)
	}
	slices.SortFunc(out, func(a, b Record) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}

// Leaderboard returns the records ordered by batting runs, highest first.
// Ties fall back to name order.
func (r Records) Leaderboard() []Record {
	out := r.Sorted()
	slices.SortStableFunc(out, func(a, b Record) int {
		return cmp.Compare(b.BatRuns, a.BatRuns)
	})
	return out
}
