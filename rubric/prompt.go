/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package rubric

import (
	"fmt"
	"strings"

	"chainguard.dev/intakeevals/judge"
)

var evaluationPrompt = judge.MustNewPrompt(`You are an expert evaluator for a caregiver intake agent. Evaluate the following conversation against the rubric criteria below.

## Context
{{context}}

## Conversation Transcript
<transcript>
{{transcript}}
</transcript>

## Rubric Criteria
{{criteria}}

## Instructions
For each criterion, provide:
1. An integer score from 0 to the maximum for that criterion
2. A brief rationale explaining the score

Score every criterion listed above exactly once, using its name verbatim.

Respond with a single JSON object matching this schema:
{{schema}}

Example:
{"scores": [{"criterion": "<name>", "score": <int>, "rationale": "<explanation>"}]}

Respond ONLY with the JSON object, no other text.`)

func buildPrompt(r *Rubric, transcript string) (string, error) {
	lines := make([]string, 0, len(r.Criteria))
	for _, c := range r.Criteria {
		lines = append(lines, fmt.Sprintf("- %s (0-%d): %s", c.Name, c.max(), c.Description))
	}

	p, err := evaluationPrompt.BindText("context", r.Context)
	if err != nil {
		return "", err
	}
	if p, err = p.BindText("transcript", transcript); err != nil {
		return "", err
	}
	if p, err = p.BindText("criteria", strings.Join(lines, "\n")); err != nil {
		return "", err
	}
	if p, err = p.BindJSON("schema", judge.ResponseSchema()); err != nil {
		return "", err
	}
	return p.Build()
}
