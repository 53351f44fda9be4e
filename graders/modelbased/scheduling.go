/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package modelbased

import (
	"chainguard.dev/intakeevals/graders"
	"chainguard.dev/intakeevals/judge"
	"chainguard.dev/intakeevals/rubric"
)

// SchedulingHelpfulnessName is the registry name of the scheduling grader.
const SchedulingHelpfulnessName = "scheduling_helpfulness"

// SchedulingHelpfulnessRubric judges how the agent handled compliance gap
// discovery and remediation scheduling.
func SchedulingHelpfulnessRubric() *rubric.Rubric {
	return &rubric.Rubric{
		GraderName: SchedulingHelpfulnessName,
		Context:    "Evaluate how the agent handled compliance gap discovery and scheduling remediation.",
		Criteria: []rubric.Criterion{{
			Name:        "clarity",
			Description: "Agent clearly explained what compliance item is missing and why it matters. 0=not mentioned, 1=mentioned but vague, 2=clearly explained.",
			MaxScore:    2,
		}, {
			Name:        "options",
			Description: "Agent offered concrete scheduling options or next steps. 0=no options, 1=vague suggestion, 2=specific actionable options.",
			MaxScore:    2,
		}, {
			Name:        "empathy",
			Description: "Agent showed empathy and reassurance (not punitive). 0=cold/robotic, 1=neutral, 2=warm and reassuring.",
			MaxScore:    2,
		}},
	}
}

// NewSchedulingHelpfulness returns the scheduling helpfulness grader backed by j.
func NewSchedulingHelpfulness(j judge.Interface) (graders.Grader, error) {
	return newGrader(j, SchedulingHelpfulnessRubric())
}
