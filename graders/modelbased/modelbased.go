/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package modelbased provides graders judged by an LLM against a fixed rubric.
package modelbased

import (
	"context"
	"errors"
	"fmt"

	"chainguard.dev/intakeevals/graders"
	"chainguard.dev/intakeevals/judge"
	"chainguard.dev/intakeevals/rubric"
)

// grader adapts a fixed rubric to the graders.Grader contract.
type grader struct {
	rubric *rubric.Rubric
	judge  judge.Interface
}

var _ graders.Grader = (*grader)(nil)

func newGrader(j judge.Interface, r *rubric.Rubric) (*grader, error) {
	if j == nil {
		return nil, errors.New("judge is required")
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &grader{rubric: r, judge: j}, nil
}

// Name implements graders.Grader
func (g *grader) Name() string { return g.rubric.GraderName }

// Kind implements graders.Grader
func (*grader) Kind() graders.Kind { return graders.ModelBased }

// Grade implements graders.Grader
func (g *grader) Grade(ctx context.Context, in *graders.Context) (*graders.Result, error) {
	if err := in.Require(graders.FieldTranscript); err != nil {
		return nil, fmt.Errorf("%s: %w", g.Name(), err)
	}
	return rubric.Evaluate(ctx, g.judge, g.rubric, in.Transcript.FullText())
}
