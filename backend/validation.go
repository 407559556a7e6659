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
	"encoding/json"
	"fmt"
	"net/mail"

	"github.com/google/uuid"

	"github.com/JayGriffiths12/piss-up-cup-score/backend/scoring"
)

// isValidUUID checks for the canonical 36-character form.
func isValidUUID(id string) bool {
	return len(id) == 36 && uuid.Validate(id) == nil
}

// isValidEmail checks if the string is a valid email address.
func isValidEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

// Action types.
const (
	ActionNewMatch      = "NEW_MATCH"
	ActionMatchSetup    = "MATCH_SETUP"
	ActionMatchStart    = "MATCH_START"
	ActionSelectBatters = "SELECT_BATTERS"
	ActionSelectBowler  = "SELECT_BOWLER"
	ActionScoreRun      = "SCORE_RUN"
	ActionScoreLegBye   = "SCORE_LEG_BYE"
	ActionScoreWide     = "SCORE_WIDE"
	ActionScoreNoBall   = "SCORE_NO_BALL"
	ActionScoreWicket   = "SCORE_WICKET"
	ActionUndo          = "UNDO"
	ActionSetBonusRuns  = "SET_BONUS_RUNS"
	ActionFinalize      = "FINALIZE"
	ActionClearMatch    = "CLEAR_MATCH"
	ActionResetCareer   = "RESET_CAREER"
)

// BaseAction is the envelope every scorer action arrives in.
type BaseAction struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// TeamSetupPayload is one team as entered on the setup screen. Players may
// be sent as a list or as one-name-per-line text.
type TeamSetupPayload struct {
	Name        string   `json:"name"`
	Players     []string `json:"players"`
	PlayersText string   `json:"playersText"`
}

type SetupPayload struct {
	Teams    [2]TeamSetupPayload `json:"teams"`
	Settings json.RawMessage     `json:"settings,omitempty"`
}

type StartPayload struct {
	BattingTeam int `json:"battingTeam"`
}

type SelectBattersPayload struct {
	Striker    string `json:"striker"`
	NonStriker string `json:"nonStriker"`
}

type SelectBowlerPayload struct {
	Bowler string `json:"bowler"`
}

type RunsPayload struct {
	Runs int `json:"runs"`
}

type NoBallPayload struct {
	BatRuns int `json:"batRuns"`
}

type WicketPayload struct {
	Dismissal string `json:"dismissal"`
	Taker     string `json:"taker"`
}

type BonusRunsPayload struct {
	Team int `json:"team"`
	Runs int `json:"runs"`
}

type FinalizePayload struct {
	Confirm bool `json:"confirm"`
}

// ValidateAction validates a single action from raw JSON.
func ValidateAction(raw json.RawMessage) (BaseAction, error) {
	var action BaseAction
	if err := json.Unmarshal(raw, &action); err != nil {
		return action, fmt.Errorf("malformed action JSON")
	}
	if !isValidUUID(action.ID) {
		return action, fmt.Errorf("invalid action ID: %s", action.ID)
	}
	if action.Type == "" {
		return action, fmt.Errorf("missing action type")
	}
	return action, validateActionPayload(action.Type, action.Payload)
}

// validateActionPayload validates the payload based on the action type.
func validateActionPayload(actionType string, payload json.RawMessage) error {
	switch actionType {
	case ActionMatchSetup:
		return validateSetup(payload)
	case ActionMatchStart:
		return validateStart(payload)
	case ActionSelectBatters:
		return validateSelectBatters(payload)
	case ActionSelectBowler:
		return validateSelectBowler(payload)
	case ActionScoreRun, ActionScoreLegBye:
		return validateRuns(payload)
	case ActionScoreNoBall:
		return validateNoBall(payload)
	case ActionScoreWicket:
		return validateWicket(payload)
	case ActionSetBonusRuns:
		return validateBonusRuns(payload)
	case ActionFinalize:
		return validateFinalize(payload)
	case ActionNewMatch, ActionScoreWide, ActionUndo, ActionClearMatch, ActionResetCareer:
		return nil
	default:
		return fmt.Errorf("unknown action type: %s", actionType)
	}
}

// decodePayload unmarshals a payload, treating an absent payload as empty.
func decodePayload(payload json.RawMessage, v any) error {
	if len(payload) == 0 || string(payload) == "null" {
		return nil
	}
	return json.Unmarshal(payload, v)
}

// validateStringLen checks if the string length is within the limit.
func validateStringLen(s string, max int, name string) error {
	if len(s) > max {
		return fmt.Errorf("%s too long (max %d chars)", name, max)
	}
	return nil
}

func validateTeamIndex(team int) error {
	if team != 0 && team != 1 {
		return fmt.Errorf("invalid team index: %d", team)
	}
	return nil
}

func validateRunCount(n int, name string) error {
	if n < 0 || n > scoring.MaxRunsPerBall {
		return fmt.Errorf("%s out of range: %d", name, n)
	}
	return nil
}

const (
	maxNameLen    = 50
	maxRosterSize = 40
)

func validateSetup(payload json.RawMessage) error {
	var p SetupPayload
	if err := decodePayload(payload, &p); err != nil {
		return err
	}
	if len(p.Settings) > 0 {
		var s scoring.Settings
		if err := json.Unmarshal(p.Settings, &s); err != nil {
			return fmt.Errorf("invalid settings: %w", err)
		}
	}
	for i, t := range p.Teams {
		if err := validateStringLen(t.Name, maxNameLen, fmt.Sprintf("team %d name", i+1)); err != nil {
			return err
		}
		players := t.Players
		if t.PlayersText != "" {
			players = scoring.ParsePlayers(t.PlayersText)
		}
		if len(players) > maxRosterSize {
			return fmt.Errorf("team %d roster too large (max %d)", i+1, maxRosterSize)
		}
		for _, name := range players {
			if err := validateStringLen(name, maxNameLen, "player name"); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateStart(payload json.RawMessage) error {
	var p StartPayload
	if err := decodePayload(payload, &p); err != nil {
		return err
	}
	return validateTeamIndex(p.BattingTeam)
}

func validateSelectBatters(payload json.RawMessage) error {
	var p SelectBattersPayload
	if err := decodePayload(payload, &p); err != nil {
		return err
	}
	if p.Striker == "" || p.NonStriker == "" {
		return fmt.Errorf("missing striker or non-striker")
	}
	return nil
}

func validateSelectBowler(payload json.RawMessage) error {
	var p SelectBowlerPayload
	if err := decodePayload(payload, &p); err != nil {
		return err
	}
	if p.Bowler == "" {
		return fmt.Errorf("missing bowler")
	}
	return nil
}

func validateRuns(payload json.RawMessage) error {
	var p RunsPayload
	if err := decodePayload(payload, &p); err != nil {
		return err
	}
	return validateRunCount(p.Runs, "runs")
}

func validateNoBall(payload json.RawMessage) error {
	var p NoBallPayload
	if err := decodePayload(payload, &p); err != nil {
		return err
	}
	return validateRunCount(p.BatRuns, "batRuns")
}

func validateWicket(payload json.RawMessage) error {
	var p WicketPayload
	if err := decodePayload(payload, &p); err != nil {
		return err
	}
	if _, err := scoring.ParseDismissal(p.Dismissal); err != nil {
		return fmt.Errorf("unknown dismissal: %q", p.Dismissal)
	}
	if p.Taker == "" {
		return fmt.Errorf("missing taker")
	}
	return nil
}

func validateBonusRuns(payload json.RawMessage) error {
	var p BonusRunsPayload
	if err := decodePayload(payload, &p); err != nil {
		return err
	}
	if err := validateTeamIndex(p.Team); err != nil {
		return err
	}
	if p.Runs < 0 {
		return fmt.Errorf("bonus runs must not be negative")
	}
	return nil
}

func validateFinalize(payload json.RawMessage) error {
	var p FinalizePayload
	return decodePayload(payload, &p)
}

// seenAction reports whether id is among the most recent action IDs. Only
// the last maxRecentActions entries are scanned.
func seenAction(recent []string, id string) bool {
	for i, count := len(recent)-1, 0; i >= 0 && count < maxRecentActions; i, count = i-1, count+1 {
		if recent[i] == id {
			return true
		}
	}
	return false
}

// rememberAction appends id to the window, dropping the oldest entries.
func rememberAction(recent []string, id string) []string {
	recent = append(recent, id)
	if over := len(recent) - maxRecentActions; over > 0 {
		recent = append(recent[:0], recent[over:]...)
	}
	return recent
}
