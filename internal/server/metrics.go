// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declo Labs

package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

// metrics holds the instruments the validation endpoint records.
type metrics struct {
	validations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		validations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "declo_validations_total",
				Help: "Total number of validation requests by shape and outcome.",
			},
			[]string{"shape", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "declo_validation_duration_seconds",
				Help: "Duration of validation requests by shape.",
			},
			[]string{"shape"},
		),
	}
	reg.MustRegister(m.validations, m.duration)
	return m
}
