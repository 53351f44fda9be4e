/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package graders_test

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"chainguard.dev/intakeevals/graders"
)

func TestMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := graders.NewMetrics(reg)

	m.ObserveGrade("compliance_cpr_missing", graders.CodeBased, &graders.Result{GraderName: "compliance_gap_detection", Passed: true, Score: 1})
	m.ObserveGrade("compliance_cpr_unknown", graders.CodeBased, &graders.Result{GraderName: "compliance_gap_detection", Passed: false, Score: 0})
	m.ObserveScenario(false, true)
	m.ObserveGate("compliance_gap_detection_recall", 0.5, false)

	expected := `
# HELP intake_grader_evaluations_total Total number of grader invocations
# TYPE intake_grader_evaluations_total counter
intake_grader_evaluations_total{grader="compliance_gap_detection",kind="code"} 2
# HELP intake_grader_failures_total Total number of failed grader invocations
# TYPE intake_grader_failures_total counter
intake_grader_failures_total{grader="compliance_gap_detection",kind="code"} 1
# HELP intake_scenarios_total Total number of scenario runs by outcome
# TYPE intake_scenarios_total counter
intake_scenarios_total{needs_review="true",passed="false"} 1
# HELP intake_quality_gate_value Aggregated value of each quality gate metric
# TYPE intake_quality_gate_value gauge
intake_quality_gate_value{metric="compliance_gap_detection_recall",passed="false"} 0.5
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"intake_grader_evaluations_total",
		"intake_grader_failures_total",
		"intake_scenarios_total",
		"intake_quality_gate_value",
	); err != nil {
		t.Errorf("GatherAndCompare(): %v", err)
	}

	got, err := testutil.GatherAndCount(reg, "intake_grader_score")
	if err != nil {
		t.Fatalf("GatherAndCount(): %v", err)
	}
	if got != 2 {
		t.Errorf("intake_grader_score series: got = %d, wanted = 2", got)
	}
}

func TestMetricsNilSafe(t *testing.T) {
	t.Parallel()

	var m *graders.Metrics
	m.ObserveGrade("s", graders.CodeBased, &graders.Result{GraderName: "g"})
	m.ObserveScenario(true, false)
	m.ObserveGate("metric", 1, true)
}
