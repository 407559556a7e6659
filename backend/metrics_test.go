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
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	m.observeAction(ActionScoreRun, "ok", time.Millisecond)
	m.observeAction(ActionScoreRun, "ok", time.Millisecond)
	m.observeAction(ActionScoreWicket, "rejected", time.Millisecond)
	m.observeDelivery("run")
	m.finalizations.Inc()
	m.spectators.Inc()
	m.spectators.Inc()
	m.spectators.Dec()

	if got := testutil.ToFloat64(m.actions.WithLabelValues(ActionScoreRun, "ok")); got != 2 {
		t.Errorf("Expected 2 accepted runs, got %v", got)
	}
	if got := testutil.ToFloat64(m.actions.WithLabelValues(ActionScoreWicket, "rejected")); got != 1 {
		t.Errorf("Expected 1 rejected wicket, got %v", got)
	}
	if got := testutil.ToFloat64(m.spectators); got != 1 {
		t.Errorf("Expected 1 spectator, got %v", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()
	for _, want := range []string{"puc_actions_total", "puc_deliveries_total", "puc_finalizations_total 1", "puc_action_duration_seconds_count 3"} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected %q in scrape output", want)
		}
	}
}
