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
	"strings"
	"testing"
)

func TestValidateAction(t *testing.T) {
	validUUID := "aaaaaaaa-aaaa-4aaa-aaaa-aaaaaaaaaaaa"
	action := func(actionType, payload string) string {
		return fmt.Sprintf(`{"id":"%s","type":"%s","timestamp":123,"payload":%s}`, validUUID, actionType, payload)
	}

	tests := []struct {
		name    string
		action  string
		wantErr bool
	}{
		{
			name: "Valid MATCH_SETUP",
			action: action(ActionMatchSetup, `{
				"teams": [
					{"name": "Dusty Boots", "playersText": "Ava\nBen\n\n Cal "},
					{"name": "Red Dirt", "players": ["Eli", "Fay"]}
				],
				"settings": {"oversPerInnings": 8, "pairOvers": 2, "binCloseMinutes": 30}
			}`),
			wantErr: false,
		},
		{
			name:    "Setup with malformed settings",
			action:  action(ActionMatchSetup, `{"teams":[{"name":"A"},{"name":"B"}],"settings":{"pairOvers":"two"}}`),
			wantErr: true,
		},
		{
			name:    "Setup with long team name",
			action:  action(ActionMatchSetup, fmt.Sprintf(`{"teams":[{"name":"%s"},{"name":"B"}]}`, strings.Repeat("x", 51))),
			wantErr: true,
		},
		{
			name:    "Valid SCORE_RUN",
			action:  action(ActionScoreRun, `{"runs": 6}`),
			wantErr: false,
		},
		{
			name:    "SCORE_RUN out of range",
			action:  action(ActionScoreRun, `{"runs": 7}`),
			wantErr: true,
		},
		{
			name:    "Negative leg byes",
			action:  action(ActionScoreLegBye, `{"runs": -1}`),
			wantErr: true,
		},
		{
			name:    "Valid SCORE_NO_BALL",
			action:  action(ActionScoreNoBall, `{"batRuns": 4}`),
			wantErr: false,
		},
		{
			name:    "SCORE_WIDE without payload",
			action:  fmt.Sprintf(`{"id":"%s","type":"SCORE_WIDE"}`, validUUID),
			wantErr: false,
		},
		{
			name:    "Valid SCORE_WICKET alias",
			action:  action(ActionScoreWicket, `{"dismissal": "run-out", "taker": "Fay"}`),
			wantErr: false,
		},
		{
			name:    "Unknown dismissal",
			action:  action(ActionScoreWicket, `{"dismissal": "Retired Hurt", "taker": "Fay"}`),
			wantErr: true,
		},
		{
			name:    "Wicket without taker",
			action:  action(ActionScoreWicket, `{"dismissal": "Caught"}`),
			wantErr: true,
		},
		{
			name:    "Select batters missing non-striker",
			action:  action(ActionSelectBatters, `{"striker": "Ava"}`),
			wantErr: true,
		},
		{
			name:    "Start with bad team",
			action:  action(ActionMatchStart, `{"battingTeam": 2}`),
			wantErr: true,
		},
		{
			name:    "Negative bonus runs",
			action:  action(ActionSetBonusRuns, `{"team": 0, "runs": -3}`),
			wantErr: true,
		},
		{
			name:    "Payload of wrong shape",
			action:  action(ActionScoreRun, `{"runs": "four"}`),
			wantErr: true,
		},
		{
			name:    "Invalid Action ID",
			action:  `{"id": "invalid", "type": "UNDO"}`,
			wantErr: true,
		},
		{
			name:    "Missing type",
			action:  fmt.Sprintf(`{"id":"%s"}`, validUUID),
			wantErr: true,
		},
		{
			name:    "Unknown Action Type",
			action:  action("PITCH", `{}`),
			wantErr: true,
		},
		{
			name:    "Not JSON",
			action:  `{"id":`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateAction(json.RawMessage(tt.action))
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAction() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRecentActions(t *testing.T) {
	var recent []string
	for i := range maxRecentActions + 20 {
		recent = rememberAction(recent, fmt.Sprintf("id-%d", i))
	}
	if len(recent) != maxRecentActions {
		t.Fatalf("Expected window of %d, got %d", maxRecentActions, len(recent))
	}
	if seenAction(recent, "id-0") {
		t.Error("Expected the oldest IDs to fall out of the window")
	}
	if !seenAction(recent, fmt.Sprintf("id-%d", maxRecentActions+19)) || !seenAction(recent, "id-20") {
		t.Error("Expected recent IDs to be found")
	}
}
