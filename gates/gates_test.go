/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package gates_test

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"chainguard.dev/intakeevals/gates"
	"chainguard.dev/intakeevals/graders"
	"chainguard.dev/intakeevals/runner"
)

func scenario(id string, scores map[string]float64) *runner.ScenarioResult {
	sr := &runner.ScenarioResult{ScenarioID: id}
	for name, score := range scores {
		sr.GraderResults = append(sr.GraderResults, &graders.Result{GraderName: name, Score: score, Passed: score >= 0.5})
	}
	return sr
}

func TestGraderFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		metric string
		want   string
	}{
		{"compliance_gap_detection_recall", "compliance_gap_detection"},
		{"compliance_remediation_success", "compliance_remediation"},
		{"safe_area_suggestion_quality", "safe_area_suggestion_quality"},
		{"geo_restriction_detection", "geo_restriction_detection"},
	}
	for _, tt := range tests {
		if got := gates.GraderFor(tt.metric); got != tt.want {
			t.Errorf("GraderFor(%q): got = %q, wanted = %q", tt.metric, got, tt.want)
		}
	}
}

func TestEvaluate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		gates   []gates.QualityGate
		results []*runner.ScenarioResult
		actual  []float64
		passed  []bool
		all     bool
	}{{
		name:  "mean below threshold fails",
		gates: gates.Defaults()[:1],
		results: []*runner.ScenarioResult{
			scenario("a", map[string]float64{"compliance_gap_detection": 1.0}),
			scenario("b", map[string]float64{"compliance_gap_detection": 0.5}),
		},
		actual: []float64{0.75},
		passed: []bool{false},
	}, {
		name:   "no matching scores is vacuously satisfied",
		gates:  gates.Defaults(),
		actual: []float64{1, 1, 1},
		passed: []bool{true, true, true},
		all:    true,
	}, {
		name:  "threshold is inclusive",
		gates: []gates.QualityGate{{Metric: "geo_restriction_detection", Threshold: 0.8}},
		results: []*runner.ScenarioResult{
			scenario("a", map[string]float64{"geo_restriction_detection": 0.8}),
		},
		actual: []float64{0.8},
		passed: []bool{true},
		all:    true,
	}, {
		name:  "unrelated graders are ignored",
		gates: gates.Defaults()[1:2],
		results: []*runner.ScenarioResult{
			scenario("a", map[string]float64{"compliance_remediation": 1, "compliance_gap_detection": 0}),
			scenario("b", map[string]float64{"compliance_gap_detection": 0}),
		},
		actual: []float64{1},
		passed: []bool{true},
		all:    true,
	}, {
		name:   "no gates",
		gates:  []gates.QualityGate{},
		actual: []float64{},
		passed: []bool{},
		all:    true,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			report := gates.NewEvaluatorFrom(tt.gates).Evaluate(tt.results)
			actual := make([]float64, 0, len(report.Results))
			passed := make([]bool, 0, len(report.Results))
			for _, r := range report.Results {
				actual = append(actual, r.Actual)
				passed = append(passed, r.Passed)
			}
			approx := cmp.Comparer(func(a, b float64) bool { return math.Abs(a-b) < 1e-9 })
			if diff := cmp.Diff(tt.actual, actual, approx); diff != "" {
				t.Errorf("actual (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.passed, passed); diff != "" {
				t.Errorf("passed (-want +got):\n%s", diff)
			}
			if got := report.AllPassed(); got != tt.all {
				t.Errorf("AllPassed(): got = %t, wanted = %t", got, tt.all)
			}
		})
	}
}

func TestNewEvaluatorDefaults(t *testing.T) {
	t.Parallel()

	if diff := cmp.Diff(gates.Defaults(), gates.NewEvaluator().Gates()); diff != "" {
		t.Errorf("NewEvaluator() gates (-want +got):\n%s", diff)
	}
	custom := gates.QualityGate{Metric: "x", Threshold: 0.5}
	if diff := cmp.Diff([]gates.QualityGate{custom}, gates.NewEvaluator(custom).Gates()); diff != "" {
		t.Errorf("NewEvaluator(custom) gates (-want +got):\n%s", diff)
	}
	if got := len(gates.NewEvaluatorFrom(nil).Gates()); got != 0 {
		t.Errorf("NewEvaluatorFrom(nil) gates: got = %d, wanted = 0", got)
	}
}

func TestEvaluateRecordsMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	e := gates.NewEvaluator().WithMetrics(graders.NewMetrics(reg))
	report := e.Evaluate([]*runner.ScenarioResult{
		scenario("a", map[string]float64{"compliance_gap_detection": 0}),
	})
	require.False(t, report.AllPassed(), "expected the recall gate to fail")

	n, err := testutil.GatherAndCount(reg, "intake_quality_gate_value")
	require.NoError(t, err, "failed to gather metrics")
	if n != 3 {
		t.Errorf("intake_quality_gate_value series: got = %d, wanted = 3", n)
	}
}
