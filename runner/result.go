/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package runner

import (
	"context"

	"chainguard.dev/intakeevals/graders"
	"chainguard.dev/intakeevals/intake"
)

// ScenarioResult is the verdict for one scenario run. It is not modified
// after the executor returns it.
type ScenarioResult struct {
	ScenarioID   string `json:"scenario_id"`
	ScenarioName string `json:"scenario_name"`

	// GraderResults are in the order the scenario declares its graders.
	GraderResults []*graders.Result `json:"grader_results"`

	// Passed is the AND of every grader result; true when no grader ran.
	Passed bool `json:"passed"`

	NeedsManualReview bool     `json:"needs_manual_review"`
	ReviewReasons     []string `json:"review_reasons"`
}

// OverallScore is the mean grader score, or 0 when no grader ran.
func (r *ScenarioResult) OverallScore() float64 {
	if len(r.GraderResults) == 0 {
		return 0
	}
	var sum float64
	for _, gr := range r.GraderResults {
		sum += gr.Score
	}
	return sum / float64(len(r.GraderResults))
}

// ReviewSink receives scenarios flagged for manual review. Implementations
// used with WithConcurrency above 1 must be safe for concurrent use.
type ReviewSink interface {
	// Generate records the review material and returns where it was written.
	Generate(ctx context.Context, scenario *intake.Scenario, output *intake.AgentOutput, result *ScenarioResult) (string, error)
}
