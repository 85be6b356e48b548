/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Tabula Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Render outcomes used as label values.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics instruments grid renders. A nil *Metrics records nothing.
type Metrics struct {
	renders  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the render metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		renders: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tabula_grid_renders_total",
				Help: "Number of grid renders by outcome.",
			},
			[]string{"grid", "outcome"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tabula_grid_render_seconds",
				Help:    "Latency of grid renders, data source access included.",
				Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
			[]string{"grid"},
		),
	}
}

// Start times one render of grid. The returned func records the outcome.
func (m *Metrics) Start(grid string) func(err error) {
	if m == nil {
		return func(error) {}
	}
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		m.duration.WithLabelValues(grid).Observe(v)
	}))
	return func(err error) {
		timer.ObserveDuration()
		outcome := OutcomeOK
		if err != nil {
			outcome = OutcomeError
		}
		m.renders.WithLabelValues(grid, outcome).Inc()
	}
}

