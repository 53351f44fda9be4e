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
	// ComplianceRemediationName is the registry name of the remediation grader.
	ComplianceRemediationName = "compliance_remediation"

	// ComplianceRemediationThreshold is the minimum score for a passing grade.
	ComplianceRemediationThreshold = 0.85
)

// ComplianceRemediation checks that the agent offered remediation for the
// expected compliance gaps. The score is the unweighted mean of three signals:
// remediation actions in the intake record, scheduling offered, and
// remediation steps in the action log.
type ComplianceRemediation struct{}

var _ graders.Grader = ComplianceRemediation{}

// Name implements graders.Grader
func (ComplianceRemediation) Name() string { return ComplianceRemediationName }

// Kind implements graders.Grader
func (ComplianceRemediation) Kind() graders.Kind { return graders.CodeBased }

// Grade implements graders.Grader
func (g ComplianceRemediation) Grade(_ context.Context, in *graders.Context) (*graders.Result, error) {
	if err := in.Require(graders.FieldScenario, graders.FieldIntakeRecord, graders.FieldActionLog); err != nil {
		return nil, fmt.Errorf("%s: %w", g.Name(), err)
	}

	if len(in.Scenario.ExpectedComplianceGaps) == 0 {
		return &graders.Result{
			GraderName: g.Name(),
			Passed:     true,
			Score:      1.0,
			Details:    "No compliance gaps expected; remediation not required.",
		}, nil
	}

	record, log := in.IntakeRecord, in.ActionLog
	signals := []bool{
		len(record.RemediationActions) > 0,
		log.SchedulingOffered,
		len(log.RemediationStepsOffered) > 0,
	}

	var details []string
	if signals[0] {
		details = append(details, fmt.Sprintf("Remediation actions: %v", record.RemediationActions))
	} else {
		details = append(details, "No remediation actions in intake record")
	}
	if signals[1] {
		details = append(details, "Scheduling was offered")
	} else {
		details = append(details, "Scheduling was NOT offered")
	}
	if signals[2] {
		details = append(details, fmt.Sprintf("Remediation steps: %v", log.RemediationStepsOffered))
	} else {
		details = append(details, "No remediation steps offered")
	}

	var hits int
	for _, ok := range signals {
		if ok {
			hits++
		}
	}
	score := float64(hits) / float64(len(signals))

	return &graders.Result{
		GraderName: g.Name(),
		Passed:     score >= ComplianceRemediationThreshold,
		Score:      score,
		Details:    strings.Join(details, "; "),
	}, nil
}
