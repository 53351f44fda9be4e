/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package codebased

import (
	"context"
	"fmt"
	"strings"

	"chainguard.dev/intakeevals/graders"
)

const (
	// GeoRestrictionName is the registry name of the geo restriction grader.
	GeoRestrictionName = "geo_restriction_detection"

	// GeoRestrictionThreshold is the minimum score for a passing grade.
	GeoRestrictionThreshold = 0.80

	concernWeight    = 0.5
	suggestionWeight = 0.25
	safetyMapWeight  = 0.25
)

// GeoRestriction checks that the agent flagged geographic over-restriction and
// backed its suggestions with the safety reference.
type GeoRestriction struct{}

var _ graders.Grader = GeoRestriction{}

// Name implements graders.Grader
func (GeoRestriction) Name() string { return GeoRestrictionName }

// Kind implements graders.Grader
func (GeoRestriction) Kind() graders.Kind { return graders.CodeBased }

// Grade implements graders.Grader
func (g GeoRestriction) Grade(_ context.Context, in *graders.Context) (*graders.Result, error) {
	if err := in.Require(graders.FieldScenario, graders.FieldIntakeRecord, graders.FieldActionLog); err != nil {
		return nil, fmt.Errorf("%s: %w", g.Name(), err)
	}

	expected := newSet(in.Scenario.ExpectedGeoConcerns)
	if len(expected) == 0 {
		return &graders.Result{
			GraderName: g.Name(),
			Passed:     true,
			Score:      1.0,
			Details:    "No geo concerns expected.",
		}, nil
	}

	found := newSet(in.IntakeRecord.GeoConcerns)
	suggestions := in.IntakeRecord.SafeAreaSuggestions
	consulted := in.ActionLog.SafetyMapConsulted

	score := concernWeight * recall(expected, found)
	if len(suggestions) > 0 {
		score += suggestionWeight
	}
	if consulted {
		score += safetyMapWeight
	}

	details := []string{fmt.Sprintf("Expected concerns: %v", expected.sorted())}
	if detected := expected.intersect(found); len(detected) > 0 {
		details = append(details, fmt.Sprintf("Detected: %v", detected.sorted()))
	}
	if missed := expected.minus(found); len(missed) > 0 {
		details = append(details, fmt.Sprintf("Missed: %v", missed.sorted()))
	}
	if len(suggestions) > 0 {
		details = append(details, fmt.Sprintf("Safe area suggestions: %v", suggestions))
	} else {
		details = append(details, "No safe area suggestions provided")
	}
	details = append(details, fmt.Sprintf("Safety map consulted: %t", consulted))

	return &graders.Result{
		GraderName: g.Name(),
		Passed:     score >= GeoRestrictionThreshold,
		Score:      score,
		Details:    strings.Join(details, "; "),
	}, nil
}
