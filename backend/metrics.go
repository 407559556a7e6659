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
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	actions       *prometheus.CounterVec
	deliveries    *prometheus.CounterVec
	finalizations prometheus.Counter
	spectators    prometheus.Gauge
	latency       prometheus.Histogram
}

// NewMetrics creates and registers the collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "puc",
			Name:      "actions_total",
			Help:      "Scoring actions handled, by type and result.",
		}, []string{"type", "result"}),
		deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "puc",
			Name:      "deliveries_total",
			Help:      "Deliveries recorded, by kind.",
		}, []string{"kind"}),
		finalizations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "puc",
			Name:      "finalizations_total",
			Help:      "Matches folded into career totals.",
		}),
		spectators: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "puc",
			Name:      "spectators",
			Help:      "Connected scoreboard websocket clients.",
		}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "puc",
			Name:      "action_duration_seconds",
			Help:      "Time spent applying an action inside the session.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
	}
	m.registry.MustRegister(m.actions, m.deliveries, m.finalizations, m.spectators, m.latency)
	return m
}

// Handler serves the /metrics scrape endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) observeAction(actionType, result string, d time.Duration) {
	m.actions.WithLabelValues(actionType, result).Inc()
	m.latency.Observe(d.Seconds())
}

func (m *Metrics) observeDelivery(kind string) {
	m.deliveries.WithLabelValues(kind).Inc()
}
