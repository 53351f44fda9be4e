/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package gates aggregates grader scores across a batch of scenario results
// and checks them against suite-wide thresholds.
package gates

import (
	"chainguard.dev/intakeevals/graders"
	"chainguard.dev/intakeevals/graders/codebased"
	"chainguard.dev/intakeevals/graders/modelbased"
	"chainguard.dev/intakeevals/runner"
)

// QualityGate is a minimum average score for one metric.
type QualityGate struct {
	Metric      string  `json:"metric" yaml:"metric"`
	Threshold   float64 `json:"threshold" yaml:"threshold"`
	Description string  `json:"description" yaml:"description"`
}

// Result is a gate together with the value observed for it.
type Result struct {
	Gate   QualityGate
	Actual float64
	Passed bool
}

// Report is the outcome of every configured gate, in configuration order.
type Report struct {
	Results []Result
}

// AllPassed reports whether every gate passed. A report with no gates passes.
func (r *Report) AllPassed() bool {
	for _, gr := range r.Results {
		if !gr.Passed {
			return false
		}
	}
	return true
}

// Defaults returns the built-in gates.
func Defaults() []QualityGate {
	return []QualityGate{{
		Metric:      "compliance_gap_detection_recall",
		Threshold:   0.95,
		Description: "Agent must detect >= 95% of compliance gaps",
	}, {
		Metric:      "compliance_remediation_success",
		Threshold:   0.85,
		Description: "Agent must offer remediation >= 85% of the time",
	}, {
		Metric:      "safe_area_suggestion_quality",
		Threshold:   0.80,
		Description: "Safety area suggestion quality >= 80%",
	}}
}

var metricGraders = map[string]string{
	"compliance_gap_detection_recall": codebased.ComplianceGapName,
	"compliance_remediation_success":  codebased.ComplianceRemediationName,
	"safe_area_suggestion_quality":    modelbased.SafeAreaSuggestionQualityName,
}

// GraderFor returns the grader whose scores feed metric. Metrics without a
// mapping name their grader directly.
func GraderFor(metric string) string {
	if name, ok := metricGraders[metric]; ok {
		return name
	}
	return metric
}

// Evaluator checks a fixed list of gates.
type Evaluator struct {
	gates   []QualityGate
	metrics *graders.Metrics
}

// NewEvaluator returns an evaluator over gates, or over Defaults when none are given.
func NewEvaluator(gates ...QualityGate) *Evaluator {
	if len(gates) == 0 {
		return NewEvaluatorFrom(Defaults())
	}
	return NewEvaluatorFrom(gates)
}

// NewEvaluatorFrom returns an evaluator over exactly gates; an empty slice
// means no gates.
func NewEvaluatorFrom(gates []QualityGate) *Evaluator {
	return &Evaluator{gates: append([]QualityGate{}, gates...)}
}

// WithMetrics records each gate value to m and returns the evaluator.
func (e *Evaluator) WithMetrics(m *graders.Metrics) *Evaluator {
	e.metrics = m
	return e
}

// Gates returns a copy of the configured gates.
func (e *Evaluator) Gates() []QualityGate {
	return append([]QualityGate{}, e.gates...)
}

// Evaluate averages the matching grader scores across results for every gate.
// A gate with no matching scores is satisfied with an actual value of 1.
func (e *Evaluator) Evaluate(results []*runner.ScenarioResult) *Report {
	report := &Report{Results: make([]Result, 0, len(e.gates))}
	for _, g := range e.gates {
		actual := average(results, GraderFor(g.Metric))
		passed := actual >= g.Threshold
		e.metrics.ObserveGate(g.Metric, actual, passed)
		report.Results = append(report.Results, Result{
			Gate:   g,
			Actual: actual,
			Passed: passed,
		})
	}
	return report
}

func average(results []*runner.ScenarioResult, grader string) float64 {
	var sum float64
	var n int
	for _, sr := range results {
		for _, gr := range sr.GraderResults {
			if gr.GraderName == grader {
				sum += gr.Score
				n++
			}
		}
	}
	if n == 0 {
		return 1.0
	}
	return sum / float64(n)
}
