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

const recentDeliveries = 8

// Scoreboard is a read-only view of the live state, the same shape the
// scoring screen and spectators render.
type Scoreboard struct {
	MatchID     string          `json:"matchId"`
	Phase       Phase           `json:"phase"`
	Innings     int             `json:"innings"`
	BattingTeam string          `json:"battingTeam"`
	BowlingTeam string          `json:"bowlingTeam"`
	Runs        int             `json:"runs"`
	Wickets     int             `json:"wickets"`
	Overs       string          `json:"overs"`
	ExtraBalls  int             `json:"extraBalls"`
	Pair        int             `json:"pair"`
	PairOvers   int             `json:"pairOvers"`
	// PairBallsLeft counts legal balls until the pair is replaced.
	PairBallsLeft int `json:"pairBallsLeft"`
	Striker     string          `json:"striker"`
	NonStriker  string          `json:"nonStriker"`
	Bowler      string          `json:"bowler"`
	FreeHit     bool            `json:"freeHit"`
	Last        string          `json:"last"`
	Recent      []string        `json:"recent"`
	Dismissals  []DismissalType `json:"dismissals"`
	// SuggestedTakers pre-selects the taker for dismissals the bowler
	// effects alone.
	SuggestedTakers map[DismissalType]string `json:"suggestedTakers,omitempty"`
	Target      int             `json:"target,omitempty"`
}

// Scoreboard builds the live view of the match.
func (m *Match) Scoreboard() Scoreboard {
	sb := Scoreboard{
		MatchID:   m.ID,
		Phase:     m.Phase(),
		PairOvers: m.Settings.PairOvers,
		Recent:    []string{},
	}
	inn := m.Active()
	if inn == nil {
		return sb
	}
	sb.Innings = m.CurrentInnings + 1
	sb.BattingTeam = m.Teams[inn.BattingTeam].Name
	sb.BowlingTeam = m.Teams[inn.BowlingTeam].Name
	sb.Runs = inn.TotalRuns
	sb.Wickets = inn.Wickets
	sb.Overs = OversString(inn.LegalBalls)
	sb.ExtraBalls = inn.ExtraBalls
	sb.Pair = inn.PairIndex + 1
	sb.Striker = inn.Striker
	sb.NonStriker = inn.NonStriker
	sb.Bowler = inn.Bowler
	sb.FreeHit = inn.FreeHit
	sb.PairBallsLeft = PairBallsRemaining(inn, m.Settings)
	sb.Dismissals = AllowedDismissals(inn)
	for _, d := range sb.Dismissals {
		if taker := DefaultTaker(d, inn.Bowler); taker != "" {
			if sb.SuggestedTakers == nil {
				sb.SuggestedTakers = map[DismissalType]string{}
			}
			sb.SuggestedTakers[d] = taker
		}
	}
	if last, ok := inn.LastDelivery(); ok {
		sb.Last = last.Label
	}
	start := max(0, len(inn.Deliveries)-recentDeliveries)
	for _, d := range inn.Deliveries[start:] {
		sb.Recent = append(sb.Recent, d.Label)
	}
	if m.CurrentInnings == 1 {
		sb.Target = m.Innings[0].TotalRuns + 1
	}
	return sb
}
