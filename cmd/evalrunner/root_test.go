/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestRunDeterministic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	output := filepath.Join(dir, "out", "eval_report.json")
	reviews := filepath.Join(dir, "reviews")
	metrics := filepath.Join(dir, "metrics.prom")

	stdout, err := execute(t,
		"--no-model-graders",
		"--scorecard",
		"--tree",
		"--concurrency", "3",
		"-o", output,
		"--review-dir", reviews,
		"--metrics-file", metrics,
	)
	require.NoError(t, err)

	for _, want := range []string{
		"JSON report written to: " + output,
		"CAREGIVER INTAKE AGENT EVALUATION SCORECARD",
		"OVERALL: PASS",
		"geo_no_alternatives",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout is missing %q:\n%s", want, stdout)
		}
	}

	_, err = os.Stat(output)
	require.NoError(t, err, "expected the JSON report")
	_, err = os.Stat(filepath.Join(reviews, "review_geo_no_alternatives.json"))
	require.NoError(t, err, "expected a review for the failing scenario")
	if _, err := os.Stat(filepath.Join(reviews, "review_compliance_cpr_present.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("review for a passing scenario: got err = %v, wanted not exist", err)
	}

	b, err := os.ReadFile(metrics)
	require.NoError(t, err)
	if !strings.Contains(string(b), "intake_grader_evaluations_total") {
		t.Errorf("metrics file is missing grader evaluations:\n%s", b)
	}
}

func TestRunGateFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	gatesFile := filepath.Join(dir, "gates.yaml")
	require.NoError(t, os.WriteFile(gatesFile, []byte(`gates:
  - metric: geo_restriction_detection
    threshold: 0.9
    description: Geo recall
`), 0o600))

	_, err := execute(t,
		"--no-model-graders",
		"-c", "geo_over_restriction_cases",
		"--gates", gatesFile,
		"-o", filepath.Join(dir, "eval_report.json"),
		"--review-dir", "",
	)
	if got := exitCodeOf(err); got != exitGatesFailed {
		t.Errorf("exit code: got = %d (%v), wanted = %d", got, err, exitGatesFailed)
	}
}

func TestRunUsageErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want string
	}{{
		name: "unknown collection",
		args: []string{"-c", "nope"},
		want: `unknown collection "nope"`,
	}, {
		name: "unknown scenario",
		args: []string{"-s", "compliance_cpr_missing", "-s", "nope"},
		want: `unknown scenario "nope"`,
	}, {
		name: "bad gates file",
		args: []string{"--gates", "does-not-exist.yaml"},
		want: "failed to load quality gates",
	}, {
		name: "bad concurrency",
		args: []string{"--concurrency", "0"},
		want: "concurrency must be at least 1",
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			args := append([]string{"--no-model-graders", "-o", filepath.Join(dir, "r.json"), "--review-dir", ""}, tt.args...)
			_, err := execute(t, args...)
			if got := exitCodeOf(err); got != exitUsage {
				t.Errorf("exit code: got = %d, wanted = %d", got, exitUsage)
			}
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error: got = %v, wanted it to contain %q", err, tt.want)
			}
		})
	}
}

// Runs that need the judge stop before any scenario when it cannot be configured.
func TestRunJudgeConfigError(t *testing.T) {
	t.Setenv("JUDGE_MAX_TOKENS", "0")

	dir := t.TempDir()
	output := filepath.Join(dir, "r.json")
	_, err := execute(t, "-o", output, "--review-dir", "")
	if got := exitCodeOf(err); got != exitUsage {
		t.Errorf("exit code: got = %d, wanted = %d", got, exitUsage)
	}
	if err == nil || !strings.Contains(err.Error(), "--no-model-graders") {
		t.Errorf("error: got = %v, wanted it to suggest --no-model-graders", err)
	}
	if _, err := os.Stat(output); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("report: got err = %v, wanted not exist", err)
	}

	_, err = execute(t, "--no-model-graders", "-o", output, "--review-dir", "")
	require.NoError(t, err, "deterministic runs do not need a judge")
}

func TestList(t *testing.T) {
	t.Parallel()

	stdout, err := execute(t, "list")
	require.NoError(t, err)
	for _, want := range []string{
		"compliance_missing_cases: ",
		"  geo_no_alternatives (optional) [geo_restriction_detection]",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("list output is missing %q:\n%s", want, stdout)
		}
	}
}

func TestExitCodeOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{errors.New("plain"), exitUsage},
		{&exitError{code: exitGatesFailed, msg: "quality gates failed"}, exitGatesFailed},
		{usageError("bad flag", errors.New("cause")), exitUsage},
	}
	for _, tt := range tests {
		if got := exitCodeOf(tt.err); got != tt.want {
			t.Errorf("exitCodeOf(%v): got = %d, wanted = %d", tt.err, got, tt.want)
		}
	}
}
