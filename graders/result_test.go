/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package graders_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"chainguard.dev/intakeevals/graders"
)

func TestFailure(t *testing.T) {
	t.Parallel()

	r := graders.Failure("scheduling_helpfulness", errors.New("judge unreachable"))
	if r.Passed {
		t.Error("Passed: got = true, wanted = false")
	}
	if r.Score != 0 {
		t.Errorf("Score: got = %v, wanted = 0", r.Score)
	}
	if want := "grader error: judge unreachable"; r.Details != want {
		t.Errorf("Details: got = %q, wanted = %q", r.Details, want)
	}
	if err := r.Validate(); err != nil {
		t.Errorf("Validate(): unexpected error: %v", err)
	}
}

func TestResultValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		result  graders.Result
		wantErr string
	}{{
		name:   "plain score",
		result: graders.Result{GraderName: "g", Score: 0.5},
	}, {
		name: "consistent criterion scores",
		result: graders.Result{GraderName: "g", Score: 4.0 / 6.0, CriterionScores: []graders.CriterionScore{
			{Criterion: "a", Score: 2, MaxScore: 2},
			{Criterion: "b", Score: 1, MaxScore: 2},
			{Criterion: "c", Score: 1, MaxScore: 2},
		}},
	}, {
		name:    "missing name",
		result:  graders.Result{Score: 1},
		wantErr: "grader_name",
	}, {
		name:    "score above one",
		result:  graders.Result{GraderName: "g", Score: 1.5},
		wantErr: "outside [0, 1]",
	}, {
		name:    "negative score",
		result:  graders.Result{GraderName: "g", Score: -0.1},
		wantErr: "outside [0, 1]",
	}, {
		name:    "nan score",
		result:  graders.Result{GraderName: "g", Score: math.NaN()},
		wantErr: "outside [0, 1]",
	}, {
		name: "criterion above max",
		result: graders.Result{GraderName: "g", Score: 1, CriterionScores: []graders.CriterionScore{
			{Criterion: "a", Score: 3, MaxScore: 2},
		}},
		wantErr: "outside 0..2",
	}, {
		name: "zero max",
		result: graders.Result{GraderName: "g", Score: 0, CriterionScores: []graders.CriterionScore{
			{Criterion: "a", Score: 0, MaxScore: 0},
		}},
		wantErr: "non-positive max_score",
	}, {
		name: "inconsistent score",
		result: graders.Result{GraderName: "g", Score: 0.9, CriterionScores: []graders.CriterionScore{
			{Criterion: "a", Score: 1, MaxScore: 2},
		}},
		wantErr: "does not match",
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.result.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate(): unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate(): got = %v, wanted error containing %q", err, tt.wantErr)
			}
		})
	}
}
