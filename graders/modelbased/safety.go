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

// SafeAreaSuggestionQualityName is the registry name of the safety suggestion grader.
const SafeAreaSuggestionQualityName = "safe_area_suggestion_quality"

// SafeAreaSuggestionQualityRubric judges how the agent used safety map data to
// steer an over-restricted caregiver toward workable zones.
func SafeAreaSuggestionQualityRubric() *rubric.Rubric {
	return &rubric.Rubric{
		GraderName: SafeAreaSuggestionQualityName,
		Context:    "Evaluate how the agent used safety map data to suggest alternative geographic areas to an over-restricted caregiver.",
		Criteria: []rubric.Criterion{{
			Name:        "map_referenced",
			Description: "Agent referenced the safety map or safety data when discussing zones. 0=no reference, 1=implied, 2=explicitly referenced.",
			MaxScore:    2,
		}, {
			Name:        "nearby_safe_areas",
			Description: "Agent identified and suggested nearby safe areas with specific details. 0=no suggestions, 1=vague suggestions, 2=specific zones with risk levels.",
			MaxScore:    2,
		}, {
			Name:        "next_step",
			Description: "Agent provided a clear next step (e.g., revisit preferences, try a zone). 0=no next step, 1=vague, 2=specific actionable next step.",
			MaxScore:    2,
		}},
	}
}

// NewSafeAreaSuggestionQuality returns the safe area suggestion grader backed by j.
func NewSafeAreaSuggestionQuality(j judge.Interface) (graders.Grader, error) {
	return newGrader(j, SafeAreaSuggestionQualityRubric())
}
