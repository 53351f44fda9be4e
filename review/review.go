/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package review writes the material a human needs to label a scenario that
// the executor flagged for manual review.
package review

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"chainguard.dev/intakeevals/graders"
	"chainguard.dev/intakeevals/intake"
	"chainguard.dev/intakeevals/runner"
)

// Turn is one transcript turn as it appears in a review file.
type Turn struct {
	Role    intake.Role `json:"role"`
	Content string      `json:"content"`
	Turn    int         `json:"turn"`
}

// GraderSummary is one grader verdict as it appears in a review file.
type GraderSummary struct {
	Grader  string  `json:"grader"`
	Passed  bool    `json:"passed"`
	Score   float64 `json:"score"`
	Details string  `json:"details"`
}

// Review is the document handed to a human reviewer. HumanLabel and
// HumanNotes are left for the reviewer to fill in.
type Review struct {
	ScenarioID          string          `json:"scenario_id"`
	ScenarioName        string          `json:"scenario_name"`
	ScenarioDescription string          `json:"scenario_description"`
	ReviewReasons       []string        `json:"review_reasons"`
	Transcript          []Turn          `json:"transcript"`
	GraderResults       []GraderSummary `json:"grader_results"`
	HumanLabel          *string         `json:"human_label"`
	HumanNotes          string          `json:"human_notes"`
}

// Build assembles the review document for a flagged scenario.
func Build(scenario *intake.Scenario, output *intake.AgentOutput, result *runner.ScenarioResult) *Review {
	r := &Review{
		ScenarioID:          scenario.ID,
		ScenarioName:        scenario.Name,
		ScenarioDescription: scenario.Description,
		ReviewReasons:       append([]string{}, result.ReviewReasons...),
		Transcript:          []Turn{},
		GraderResults:       make([]GraderSummary, 0, len(result.GraderResults)),
	}
	if output != nil && output.Transcript != nil {
		for _, t := range output.Transcript.Turns {
			r.Transcript = append(r.Transcript, Turn{Role: t.Role, Content: t.Content, Turn: t.Number})
		}
	}
	for _, gr := range result.GraderResults {
		r.GraderResults = append(r.GraderResults, summarize(gr))
	}
	return r
}

func summarize(r *graders.Result) GraderSummary {
	return GraderSummary{
		Grader:  r.GraderName,
		Passed:  r.Passed,
		Score:   r.Score,
		Details: r.Details,
	}
}

// FileName is the name a review is stored under.
func FileName(scenarioID string) string {
	return "review_" + scenarioID + ".json"
}

func encode(r *Review) ([]byte, error) {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal review: %w", err)
	}
	return append(b, '\n'), nil
}

// New returns the sink for location: a gs://bucket/prefix URL selects
// Cloud Storage and anything else is a local directory.
func New(ctx context.Context, location string) (runner.ReviewSink, error) {
	if strings.HasPrefix(location, gcsScheme) {
		return NewGCSSink(ctx, location)
	}
	return NewFileSink(location)
}
