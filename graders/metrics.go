/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package graders

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exports grading outcomes as Prometheus series.
type Metrics struct {
	evaluations *prometheus.CounterVec
	failures    *prometheus.CounterVec
	grades      *prometheus.GaugeVec
	scenarios   *prometheus.CounterVec
	gates       *prometheus.GaugeVec
}

// NewMetrics registers the grading series with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		evaluations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intake_grader_evaluations_total",
				Help: "Total number of grader invocations",
			},
			[]string{"grader", "kind"},
		),
		failures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intake_grader_failures_total",
				Help: "Total number of failed grader invocations",
			},
			[]string{"grader", "kind"},
		),
		grades: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "intake_grader_score",
				Help: "Most recent grader score (0.0-1.0)",
			},
			[]string{"grader", "kind", "scenario"},
		),
		scenarios: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intake_scenarios_total",
				Help: "Total number of scenario runs by outcome",
			},
			[]string{"passed", "needs_review"},
		),
		gates: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "intake_quality_gate_value",
				Help: "Aggregated value of each quality gate metric",
			},
			[]string{"metric", "passed"},
		),
	}
}

// ObserveGrade records one grader result for a scenario.
func (m *Metrics) ObserveGrade(scenarioID string, kind Kind, r *Result) {
	if m == nil || r == nil {
		return
	}
	labels := prometheus.Labels{"grader": r.GraderName, "kind": kind.String()}
	m.evaluations.With(labels).Inc()
	if !r.Passed {
		m.failures.With(labels).Inc()
	}
	m.grades.With(prometheus.Labels{
		"grader":   r.GraderName,
		"kind":     kind.String(),
		"scenario": scenarioID,
	}).Set(r.Score)
}

// ObserveScenario records the verdict of one scenario run.
func (m *Metrics) ObserveScenario(passed, needsReview bool) {
	if m == nil {
		return
	}
	m.scenarios.With(prometheus.Labels{
		"passed":       strconv.FormatBool(passed),
		"needs_review": strconv.FormatBool(needsReview),
	}).Inc()
}

// ObserveGate records the aggregated value of a quality gate.
func (m *Metrics) ObserveGate(metric string, value float64, passed bool) {
	if m == nil {
		return
	}
	m.gates.With(prometheus.Labels{
		"metric": metric,
		"passed": strconv.FormatBool(passed),
	}).Set(value)
}
