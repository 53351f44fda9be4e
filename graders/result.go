/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package graders

import (
	"errors"
	"fmt"
	"math"
)

// CriterionScore is the judge's score for one rubric criterion.
type CriterionScore struct {
	Criterion string `json:"criterion"`
	Score     int    `json:"score"`
	MaxScore  int    `json:"max_score"`
	Rationale string `json:"rationale"`
}

// Result is the outcome of one grader invocation.
type Result struct {
	GraderName string  `json:"grader_name"`
	Passed     bool    `json:"passed"`
	Score      float64 `json:"score"`
	Details    string  `json:"details"`

	// CriterionScores is only populated by rubric-based graders.
	CriterionScores []CriterionScore `json:"criterion_scores,omitempty"`
}

// Failure builds the failing result recorded when a grader could not produce
// a verdict.
func Failure(graderName string, err error) *Result {
	return &Result{
		GraderName: graderName,
		Passed:     false,
		Score:      0,
		Details:    fmt.Sprintf("grader error: %v", err),
	}
}

// scoreTolerance bounds floating point drift between Score and the criterion sums.
const scoreTolerance = 1e-9

// Validate checks that the score is normalized and, when criterion scores are
// present, that it equals their sum over the sum of maxima.
func (r *Result) Validate() error {
	if r.GraderName == "" {
		return errors.New("grader_name is required")
	}
	if math.IsNaN(r.Score) || r.Score < 0 || r.Score > 1 {
		return fmt.Errorf("%s: score %v is outside [0, 1]", r.GraderName, r.Score)
	}
	if len(r.CriterionScores) == 0 {
		return nil
	}
	var awarded, possible int
	for _, cs := range r.CriterionScores {
		if cs.MaxScore <= 0 {
			return fmt.Errorf("%s: criterion %q has non-positive max_score %d", r.GraderName, cs.Criterion, cs.MaxScore)
		}
		if cs.Score < 0 || cs.Score > cs.MaxScore {
			return fmt.Errorf("%s: criterion %q score %d is outside 0..%d", r.GraderName, cs.Criterion, cs.Score, cs.MaxScore)
		}
		awarded += cs.Score
		possible += cs.MaxScore
	}
	if want := float64(awarded) / float64(possible); math.Abs(want-r.Score) > scoreTolerance {
		return fmt.Errorf("%s: score %v does not match criterion scores %d/%d", r.GraderName, r.Score, awarded, possible)
	}
	return nil
}
