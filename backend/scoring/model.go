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

// Package scoring implements the match scoring engine: the per-innings
// delivery ledger, pair rotation, wicket attribution and the innings/match
// state machine.
package scoring

import (
	"strconv"
	"time"
)

// Fixed rule constants.
const (
	BallsPerOver   = 6
	WicketPenalty  = 5
	MaxRunsPerBall = 6
)

// Setting defaults and bounds.
const (
	DefaultOversPerInnings = 20
	DefaultPairOvers       = 4
	DefaultPlayersPerSide  = 12
	DefaultBinCloseMinutes = 15

	MinOversPerInnings = 1
	MaxOversPerInnings = 50
	MinPairOvers       = 1
	MaxPairOvers       = 10
	MaxBinCloseMinutes = 120
	MaxBonusRuns       = 9999
)

// CurrentSchemaVersion is stamped on every match snapshot.
const CurrentSchemaVersion = 1

// Settings is the per-match configuration chosen during setup.
type Settings struct {
	OversPerInnings int `json:"oversPerInnings"`
	BallsPerOver    int `json:"ballsPerOver"`
	PairOvers       int `json:"pairOvers"`
	PlayersPerSide  int `json:"playersPerSide"`
	BinCloseMinutes int `json:"binCloseMinutes"`
}

// DefaultSettings returns the settings of a freshly created match.
func DefaultSettings() Settings {
	return Settings{
		OversPerInnings: DefaultOversPerInnings,
		BallsPerOver:    BallsPerOver,
		PairOvers:       DefaultPairOvers,
		PlayersPerSide:  DefaultPlayersPerSide,
		BinCloseMinutes: DefaultBinCloseMinutes,
	}
}

func (s *Settings) normalize() {
	s.OversPerInnings = clamp(s.OversPerInnings, MinOversPerInnings, MaxOversPerInnings)
	s.PairOvers = clamp(s.PairOvers, MinPairOvers, MaxPairOvers)
	s.BinCloseMinutes = clamp(s.BinCloseMinutes, 0, MaxBinCloseMinutes)
	s.BallsPerOver = BallsPerOver
	if s.PlayersPerSide <= 0 {
		s.PlayersPerSide = DefaultPlayersPerSide
	}
}

// InningsBalls is the legal-ball quota of one innings.
func (s Settings) InningsBalls() int {
	return s.OversPerInnings * BallsPerOver
}

// PairBalls is the number of legal balls a batting pair faces before rotation.
func (s Settings) PairBalls() int {
	return s.PairOvers * BallsPerOver
}

// Team is one side of the match.
type Team struct {
	Name      string   `json:"name"`
	Players   []string `json:"players"`
	BonusRuns int      `json:"bonusRuns"`
}

// BattingFigures are a batter's figures within one innings.
type BattingFigures struct {
	Runs  int `json:"runsOffBat"`
	Balls int `json:"balls"`
	Fours int `json:"fours"`
	Sixes int `json:"sixes"`
	Outs  int `json:"outs"`
}

// IsZero reports whether the batter has nothing to carry into a career.
func (f BattingFigures) IsZero() bool {
	return f.Balls == 0 && f.Runs == 0 && f.Outs == 0
}

// BowlingFigures are a bowler's figures within one innings.
type BowlingFigures struct {
	Balls   int `json:"balls"`
	Runs    int `json:"runs"`
	Wickets int `json:"wkts"`
	Wides   int `json:"wd"`
	NoBalls int `json:"nb"`
}

// IsZero reports whether the bowler has nothing to carry into a career.
func (f BowlingFigures) IsZero() bool {
	return f.Balls == 0 && f.Runs == 0 && f.Wickets == 0 && f.Wides == 0 && f.NoBalls == 0
}

// FieldingFigures are the dismissal credits earned by a "taker" in one innings.
type FieldingFigures struct {
	Wickets   int `json:"wkts"`
	RunOuts   int `json:"runouts"`
	Catches   int `json:"catches"`
	Stumpings int `json:"stumpings"`
}

// WicketLogEntry records one dismissal.
type WicketLogEntry struct {
	Position  string        `json:"overBall"`
	Dismissal DismissalType `json:"type"`
	Taker     string        `json:"taker"`
	Batter    string        `json:"batter"`
	Bowler    string        `json:"bowler"`
}

// Innings is one side's turn at the crease. The delivery ledger is the
// source of truth; every other counter can be rebuilt by folding it.
type Innings struct {
	BattingTeam int `json:"battingTeam"`
	BowlingTeam int `json:"bowlingTeam"`

	TotalRuns  int  `json:"totalRuns"`
	Wickets    int  `json:"wickets"`
	LegalBalls int  `json:"legalBalls"`
	ExtraBalls int  `json:"extraBalls"`
	PairIndex  int  `json:"pairIndex"`
	PairBalls  int  `json:"pairBalls"`
	FreeHit    bool `json:"freeHit"`

	// Empty string means "not selected".
	Striker    string `json:"striker,omitempty"`
	NonStriker string `json:"nonStriker,omitempty"`
	Bowler     string `json:"bowler,omitempty"`

	Deliveries []Delivery                  `json:"deliveries"`
	Batting    map[string]*BattingFigures  `json:"battingStats"`
	Bowling    map[string]*BowlingFigures  `json:"bowlingStats"`
	Fielding   map[string]*FieldingFigures `json:"fieldingStats"`
	WicketLog  []WicketLogEntry            `json:"wicketLog"`
}

// NewInnings returns an empty innings for the given batting and bowling sides.
func NewInnings(battingTeam, bowlingTeam int) Innings {
	inn := Innings{
		BattingTeam: battingTeam,
		BowlingTeam: bowlingTeam,
	}
	inn.normalize()
	return inn
}

func (inn *Innings) normalize() {
	if inn.Deliveries == nil {
		inn.Deliveries = make([]Delivery, 0)
	}
	if inn.Batting == nil {
		inn.Batting = make(map[string]*BattingFigures)
	}
	if inn.Bowling == nil {
		inn.Bowling = make(map[string]*BowlingFigures)
	}
	if inn.Fielding == nil {
		inn.Fielding = make(map[string]*FieldingFigures)
	}
	if inn.WicketLog == nil {
		inn.WicketLog = make([]WicketLogEntry, 0)
	}
}

// Over is the number of completed overs.
func (inn *Innings) Over() int {
	return inn.LegalBalls / BallsPerOver
}

// BallInOver is the number of legal balls bowled in the current over.
func (inn *Innings) BallInOver() int {
	return inn.LegalBalls % BallsPerOver
}

// HasSelections reports whether striker, non-striker and bowler are all chosen.
func (inn *Innings) HasSelections() bool {
	return inn.Striker != "" && inn.NonStriker != "" && inn.Bowler != ""
}

// LastDelivery returns the most recent ledger entry, if any.
func (inn *Innings) LastDelivery() (Delivery, bool) {
	if len(inn.Deliveries) == 0 {
		return Delivery{}, false
	}
	return inn.Deliveries[len(inn.Deliveries)-1], true
}

func (inn *Innings) batter(name string) *BattingFigures {
	f, ok := inn.Batting[name]
	if !ok {
		f = &BattingFigures{}
		inn.Batting[name] = f
	}
	return f
}

func (inn *Innings) bowler(name string) *BowlingFigures {
	f, ok := inn.Bowling[name]
	if !ok {
		f = &BowlingFigures{}
		inn.Bowling[name] = f
	}
	return f
}

func (inn *Innings) fielder(name string) *FieldingFigures {
	f, ok := inn.Fielding[name]
	if !ok {
		f = &FieldingFigures{}
		inn.Fielding[name] = f
	}
	return f
}

// touchSelections creates empty figures for the selected players so they
// show up on the scorecard before they face or bowl a ball.
func (inn *Innings) touchSelections() {
	if inn.Striker != "" {
		inn.batter(inn.Striker)
	}
	if inn.NonStriker != "" {
		inn.batter(inn.NonStriker)
	}
	if inn.Bowler != "" {
		inn.bowler(inn.Bowler)
	}
}

func (inn *Innings) swapStrike() {
	inn.Striker, inn.NonStriker = inn.NonStriker, inn.Striker
}

// Match is the whole scoring context. It is the sole owner of its teams and
// innings and is passed explicitly to every engine operation.
type Match struct {
	ID             string     `json:"id"`
	SchemaVersion  int        `json:"schemaVersion"`
	CreatedAt      time.Time  `json:"createdAt"`
	Settings       Settings   `json:"settings"`
	Teams          [2]Team    `json:"teams"`
	Innings        []Innings  `json:"innings"`
	CurrentInnings int        `json:"currentInnings"`
	Completed      bool       `json:"completed"`
	FinalizedAt    *time.Time `json:"finalizedAt,omitempty"`
}

// NewMatch returns a match awaiting setup, with default settings and team names.
func NewMatch(id string, now time.Time) *Match {
	m := &Match{
		ID:            id,
		SchemaVersion: CurrentSchemaVersion,
		CreatedAt:     now.UTC(),
		Settings:      DefaultSettings(),
		Teams: [2]Team{
			{Name: "Team A", Players: []string{}},
			{Name: "Team B", Players: []string{}},
		},
		Innings: []Innings{},
	}
	return m
}

// Normalize fills in nil collections and defaults after decoding a snapshot.
func (m *Match) Normalize() {
	if m.SchemaVersion == 0 {
		m.SchemaVersion = CurrentSchemaVersion
	}
	m.Settings.normalize()
	for i := range m.Teams {
		if m.Teams[i].Players == nil {
			m.Teams[i].Players = []string{}
		}
	}
	if m.Innings == nil {
		m.Innings = []Innings{}
	}
	for i := range m.Innings {
		m.Innings[i].normalize()
	}
}

// Started reports whether the batting order has been decided.
func (m *Match) Started() bool {
	return len(m.Innings) == 2
}

// Active returns the innings currently being scored, or nil before the start.
func (m *Match) Active() *Innings {
	if !m.Started() {
		return nil
	}
	return &m.Innings[m.CurrentInnings]
}

// Finalized reports whether the match has been folded into career totals.
func (m *Match) Finalized() bool {
	return m.FinalizedAt != nil
}

// BaseRuns returns the runs a team scored while batting, before bonus runs.
func (m *Match) BaseRuns(team int) int {
	for i := range m.Innings {
		if m.Innings[i].BattingTeam == team {
			return m.Innings[i].TotalRuns
		}
	}
	return 0
}

// TeamTotal returns base runs plus the team's bonus runs.
func (m *Match) TeamTotal(team int) int {
	return m.BaseRuns(team) + m.Teams[team].BonusRuns
}

// Winner returns the index of the team with the higher total. ok is false on a tie.
func (m *Match) Winner() (team int, ok bool) {
	a, b := m.TeamTotal(0), m.TeamTotal(1)
	switch {
	case a > b:
		return 0, true
	case b > a:
		return 1, true
	}
	return 0, false
}

// Players returns every distinct roster name across both teams, in roster order.
func (m *Match) Players() []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range m.Teams {
		for _, p := range t.Players {
			if seen[p] {
				continue
			}
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

// OversString renders a ball count as "overs.balls", e.g. 14 -> "2.2".
func OversString(balls int) string {
	return strconv.Itoa(balls/BallsPerOver) + "." + strconv.Itoa(balls%BallsPerOver)
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
