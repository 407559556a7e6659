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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/JayGriffiths12/piss-up-cup-score/backend/export"
)

const testScorer = "scorer@example.com"

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	if opts.DataDir == "" {
		opts.DataDir = t.TempDir()
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	_, handler := NewServerHandler(ctx, opts)
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func request(t *testing.T, method, url, user string, body io.Reader, header ...string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatal(err)
	}
	if user != "" {
		req.AddCookie(&http.Cookie{Name: mockAuthCookieName, Value: user})
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp, string(data)
}

func postAction(t *testing.T, baseURL, user, actionType string, payload any) (*http.Response, string) {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"id":        uuid.NewString(),
		"type":      actionType,
		"timestamp": 123,
		"payload":   payload,
	})
	if err != nil {
		t.Fatal(err)
	}
	return request(t, "POST", baseURL+"/api/action", user, bytes.NewReader(body))
}

func mustPost(t *testing.T, baseURL, actionType string, payload any) {
	t.Helper()
	resp, body := postAction(t, baseURL, testScorer, actionType, payload)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("%s: expected 200, got %d: %s", actionType, resp.StatusCode, body)
	}
}

func TestHTTPHandlers(t *testing.T) {
	server := newTestServer(t, Options{
		UseMockAuth: true,
		Scorers:     []string{"Scorer@Example.com"},
	})
	url := server.URL

	t.Run("NoMatch", func(t *testing.T) {
		resp, _ := request(t, "GET", url+"/api/match", "", nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", resp.StatusCode)
		}
	})

	t.Run("ActionAccess", func(t *testing.T) {
		resp, _ := postAction(t, url, "", ActionNewMatch, nil)
		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("Expected 403 for anonymous scorer, got %d", resp.StatusCode)
		}
		resp, _ = postAction(t, url, "fan@example.com", ActionNewMatch, nil)
		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("Expected 403 for non-scorer, got %d", resp.StatusCode)
		}
		_, body := request(t, "GET", url+"/api/me", "fan@example.com", nil)
		if !strings.Contains(body, `"canScore":false`) {
			t.Errorf("Expected fan to be read-only, got %s", body)
		}
		_, body = request(t, "GET", url+"/api/me", testScorer, nil)
		if !strings.Contains(body, `"canScore":true`) {
			t.Errorf("Expected scorer to be able to score, got %s", body)
		}
	})

	t.Run("Malformed", func(t *testing.T) {
		resp, _ := request(t, "POST", url+"/api/action", testScorer, strings.NewReader(`{"id":"nope","type":"UNDO"}`))
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", resp.StatusCode)
		}
		resp, _ = postAction(t, url, testScorer, ActionScoreRun, RunsPayload{Runs: 9})
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("Expected 400 for 9 runs, got %d", resp.StatusCode)
		}
	})

	mustPost(t, url, ActionNewMatch, nil)
	mustPost(t, url, ActionMatchSetup, SetupPayload{Teams: [2]TeamSetupPayload{
		{Name: "Dusty Boots", PlayersText: "Ava\nBen"},
		{Name: "Red Dirt", PlayersText: "Eli\nFay"},
	}})
	mustPost(t, url, ActionMatchStart, StartPayload{BattingTeam: 1})

	t.Run("RuleViolation", func(t *testing.T) {
		resp, body := postAction(t, url, testScorer, ActionScoreRun, RunsPayload{Runs: 1})
		if resp.StatusCode != http.StatusConflict {
			t.Errorf("Expected 409 without selections, got %d: %s", resp.StatusCode, body)
		}
	})

	mustPost(t, url, ActionSelectBatters, SelectBattersPayload{Striker: "Eli", NonStriker: "Fay"})
	mustPost(t, url, ActionSelectBowler, SelectBowlerPayload{Bowler: "Ava"})
	mustPost(t, url, ActionScoreRun, RunsPayload{Runs: 6})
	mustPost(t, url, ActionScoreWicket, WicketPayload{Dismissal: "Caught", Taker: "Ben"})

	t.Run("MatchETag", func(t *testing.T) {
		resp, body := request(t, "GET", url+"/api/match", "", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected 200, got %d", resp.StatusCode)
		}
		etag := resp.Header.Get("ETag")
		if etag == "" || !strings.Contains(body, `"Red Dirt"`) {
			t.Fatalf("Expected ETag and match body, got %q %s", etag, body)
		}
		resp, _ = request(t, "GET", url+"/api/match", "", nil, "If-None-Match", etag)
		if resp.StatusCode != http.StatusNotModified {
			t.Errorf("Expected 304, got %d", resp.StatusCode)
		}
		if resp.Header.Get("X-Content-Type-Options") != "nosniff" || resp.Header.Get("Cache-Control") == "" {
			t.Error("Expected security and cache headers")
		}
	})

	t.Run("Scoreboard", func(t *testing.T) {
		_, body := request(t, "GET", url+"/api/scoreboard", "", nil)
		var sb struct {
			Runs    int    `json:"runs"`
			Wickets int    `json:"wickets"`
			Overs   string `json:"overs"`
		}
		if err := json.Unmarshal([]byte(body), &sb); err != nil {
			t.Fatal(err)
		}
		if sb.Runs != 1 || sb.Wickets != 1 || sb.Overs != "0.2" {
			t.Errorf("Expected 1/1 after 0.2 overs, got %+v", sb)
		}
	})

	t.Run("TextExports", func(t *testing.T) {
		_, summary := request(t, "GET", url+"/api/summary.txt", "", nil)
		for _, want := range []string{"Piss Up Cup Scorer - Match Summary", "Red Dirt: base 1 + beers 0 = TOTAL 1", "0.2 Eli - Caught (taker: Ben, bowler: Ava)"} {
			if !strings.Contains(summary, want) {
				t.Errorf("Expected %q in summary:\n%s", want, summary)
			}
		}
		_, card := request(t, "GET", url+"/api/scorecard.txt", "", nil)
		if !strings.Contains(card, "Innings 1: Red Dirt 1/1") {
			t.Errorf("Unexpected scorecard:\n%s", card)
		}
	})

	t.Run("History", func(t *testing.T) {
		_, body := request(t, "GET", url+"/api/history", "", nil)
		if strings.TrimSpace(body) != "[]" {
			t.Errorf("Expected empty history, got %s", body)
		}
		resp, body := request(t, "GET", url+"/api/history?q=is:tie", "", nil)
		if resp.StatusCode != http.StatusOK || strings.TrimSpace(body) != "[]" {
			t.Errorf("Expected empty search result, got %d %s", resp.StatusCode, body)
		}
		resp, _ = request(t, "GET", url+"/api/history/not-a-uuid", "", nil)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", resp.StatusCode)
		}
		resp, _ = request(t, "GET", url+"/api/history/"+uuid.NewString(), "", nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", resp.StatusCode)
		}
	})

	t.Run("CareerCSV", func(t *testing.T) {
		csv := strings.Join(export.CareerHeader, ",") + "\n" +
			"Ava,3,2,40,30,4,1,2,18,3.0,25,2,1,0,1,1,0,0\n"
		resp, body := request(t, "POST", url+"/api/career.csv", testScorer, strings.NewReader(csv))
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected import to succeed, got %d: %s", resp.StatusCode, body)
		}
		resp, body = request(t, "POST", url+"/api/career.csv", "fan@example.com", strings.NewReader(csv))
		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("Expected 403 for non-scorer import, got %d", resp.StatusCode)
		}

		resp, body = request(t, "GET", url+"/api/career.csv", "", nil)
		if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
			t.Errorf("Expected CSV content type, got %s", ct)
		}
		if !strings.Contains(body, "Ava,3,2,40,30,4,1,2,18,3.0,25,2,1,0,1,1,0,0") {
			t.Errorf("Expected imported row in export, got:\n%s", body)
		}

		_, body = request(t, "GET", url+"/api/career", "", nil)
		if !strings.Contains(body, `"bat_runs":40`) {
			t.Errorf("Expected Ava in leaderboard, got %s", body)
		}
		_, body = request(t, "GET", url+"/api/career.txt", "", nil)
		if !strings.Contains(body, "Ava") || !strings.Contains(body, "1 players") {
			t.Errorf("Unexpected career table:\n%s", body)
		}
	})

	t.Run("Metrics", func(t *testing.T) {
		_, body := request(t, "GET", url+"/metrics", "", nil)
		want := fmt.Sprintf(`puc_actions_total{result="rejected",type="%s"} 1`, ActionScoreRun)
		if !strings.Contains(body, want) {
			t.Errorf("Expected %q in metrics output", want)
		}
	})
}

func TestCORS(t *testing.T) {
	server := newTestServer(t, Options{
		UseMockAuth:    true,
		AllowedOrigins: []string{"https://scorer.example.com"},
	})
	resp, _ := request(t, "OPTIONS", server.URL+"/api/action", "", nil,
		"Origin", "https://scorer.example.com",
		"Access-Control-Request-Method", "POST")
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "https://scorer.example.com" {
		t.Errorf("Expected allowed origin header, got %q", got)
	}
}

func TestActionStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{ErrBusy, http.StatusTooManyRequests},
		{ErrNoMatch, http.StatusNotFound},
		{fmt.Errorf("%w: x", ErrInvalidAction), http.StatusBadRequest},
		{ErrDoubleFinalization, http.StatusConflict},
		{fmt.Errorf("finalize: %w", ErrMatchInProgress), http.StatusConflict},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if got := actionStatus(tt.err); got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}
}
