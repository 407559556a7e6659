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
	"slices"
	"strings"
)

// ParsePlayers splits a one-name-per-line roster, trimming each name and
// dropping blank lines.
func ParsePlayers(text string) []string {
	return CleanRoster(strings.Split(text, "\n"))
}

// CleanRoster trims names and drops blanks. Duplicates are kept.
func CleanRoster(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// TeamSetup is the editable part of a team before the toss.
type TeamSetup struct {
	Name    string
	Players []string
}

// Setup replaces team names, rosters and settings. It is only allowed before
// the match starts.
func Setup(m *Match, teams [2]TeamSetup, s Settings) error {
	if m.Started() {
		return ErrAlreadyStarted
	}
	for i, t := range teams {
		name := strings.TrimSpace(t.Name)
		if name == "" {
			name = defaultTeamName(i)
		}
		m.Teams[i].Name = name
		m.Teams[i].Players = CleanRoster(t.Players)
	}
	s.normalize()
	m.Settings = s
	return nil
}

func defaultTeamName(i int) string {
	if i == 0 {
		return "Team 1"
	}
	return "Team 2"
}

// SetBonusRuns sets a team's post-match bonus, clamped to 0..MaxBonusRuns.
func SetBonusRuns(m *Match, team, runs int) error {
	if team != 0 && team != 1 {
		return ErrInvalidTeam
	}
	m.Teams[team].BonusRuns = clamp(runs, 0, MaxBonusRuns)
	return nil
}

func selectable(m *Match) (*Innings, error) {
	if !m.Started() {
		return nil, ErrAwaitingSetup
	}
	if m.Completed {
		return nil, ErrMatchComplete
	}
	return m.Active(), nil
}

// SelectBatters chooses the striker and non-striker from the batting roster.
func SelectBatters(m *Match, striker, nonStriker string) error {
	inn, err := selectable(m)
	if err != nil {
		return err
	}
	roster := m.Teams[inn.BattingTeam].Players
	if len(roster) == 0 {
		return ErrRosterEmpty
	}
	if !slices.Contains(roster, striker) || !slices.Contains(roster, nonStriker) {
		return ErrUnknownPlayer
	}
	if striker == nonStriker {
		return ErrSamePlayer
	}
	inn.Striker = striker
	inn.NonStriker = nonStriker
	inn.touchSelections()
	return nil
}

// SelectBowler chooses the bowler from the fielding roster.
func SelectBowler(m *Match, bowler string) error {
	inn, err := selectable(m)
	if err != nil {
		return err
	}
	roster := m.Teams[inn.BowlingTeam].Players
	if len(roster) == 0 {
		return ErrRosterEmpty
	}
	if !slices.Contains(roster, bowler) {
		return ErrUnknownPlayer
	}
	inn.Bowler = bowler
	inn.touchSelections()
	return nil
}

// AllowedDismissals lists the dismissal types that may be chosen now.
func AllowedDismissals(inn *Innings) []DismissalType {
	if inn.FreeHit {
		return []DismissalType{RunOut}
	}
	return slices.Clone(Dismissals)
}

// CheckDismissal rejects dismissal types that are not allowed in the
// innings' current state.
func CheckDismissal(inn *Innings, d DismissalType) error {
	if !d.Valid() {
		return ErrUnknownDismissal
	}
	if inn.FreeHit && d != RunOut {
		return ErrFreeHitDismissal
	}
	return nil
}

// TakeWicket is the caller-facing wicket flow: it checks the taker against
// the fielding roster and the dismissal against the free-hit rule before
// handing over to ScoreWicket.
func TakeWicket(m *Match, d DismissalType, taker string) (Delivery, error) {
	inn, err := Scorable(m)
	if err != nil {
		return Delivery{}, err
	}
	fielders := m.Teams[inn.BowlingTeam].Players
	if len(fielders) == 0 {
		return Delivery{}, ErrRosterEmpty
	}
	if !slices.Contains(fielders, taker) {
		return Delivery{}, ErrUnknownPlayer
	}
	if err := CheckDismissal(inn, d); err != nil {
		return Delivery{}, err
	}
	return ScoreWicket(m, d, taker)
}
