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
	// ComplianceGapName is the registry name of the gap detection grader.
	ComplianceGapName = "compliance_gap_detection"

	// ComplianceGapThreshold is the minimum recall for a passing grade.
	ComplianceGapThreshold = 0.95
)

// ComplianceGap checks that the agent identified every expected compliance gap.
// Extra gaps reported by the agent are not penalized.
type ComplianceGap struct{}

var _ graders.Grader = ComplianceGap{}

// Name implements graders.Grader
func (ComplianceGap) Name() string { return ComplianceGapName }

// Kind implements graders.Grader
func (ComplianceGap) Kind() graders.Kind { return graders.CodeBased }

// Grade implements graders.Grader
func (g ComplianceGap) Grade(_ context.Context, in *graders.Context) (*graders.Result, error) {
	if err := in.Require(graders.FieldScenario, graders.FieldIntakeRecord); err != nil {
		return nil, fmt.Errorf("%s: %w", g.Name(), err)
	}

	expected := newSet(in.Scenario.ExpectedComplianceGaps)
	if len(expected) == 0 {
		return &graders.Result{
			GraderName: g.Name(),
			Passed:     true,
			Score:      1.0,
			Details:    "No compliance gaps expected; none required.",
		}, nil
	}

	found := newSet(in.IntakeRecord.ComplianceGaps)
	score := recall(expected, found)

	details := []string{
		fmt.Sprintf("Expected: %v", expected.sorted()),
		fmt.Sprintf("Found: %v", found.sorted()),
	}
	if missed := expected.minus(found); len(missed) > 0 {
		details = append(details, fmt.Sprintf("Missed: %v", missed.sorted()))
	}

	return &graders.Result{
		GraderName: g.Name(),
		Passed:     score >= ComplianceGapThreshold,
		Score:      score,
		Details:    strings.Join(details, "; "),
	}, nil
}
