/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package rubric scores a transcript against a set of named criteria using an
// LLM judge.
package rubric

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chainguard-dev/clog"

	"chainguard.dev/intakeevals/graders"
	"chainguard.dev/intakeevals/judge"
)

const (
	// DefaultMaxScore is the maximum of a criterion that does not set one.
	DefaultMaxScore = 2

	// PassThreshold is the minimum normalized score for a passing result.
	PassThreshold = 0.6
)

// ErrCriteriaMismatch is returned when the judge's scores do not line up with the declared criteria.
var ErrCriteriaMismatch = errors.New("judge scores do not match rubric criteria")

// Criterion is one scored dimension of a rubric.
type Criterion struct {
	Name        string
	Description string

	// MaxScore is the highest score the judge may award; zero means DefaultMaxScore.
	MaxScore int
}

func (c Criterion) max() int {
	if c.MaxScore == 0 {
		return DefaultMaxScore
	}
	return c.MaxScore
}

// Rubric is a named set of criteria and the context the judge is given about them.
type Rubric struct {
	// GraderName attributes the result.
	GraderName string

	// Context tells the judge what aspect of the conversation is being evaluated.
	Context string

	// Criteria are scored in order.
	Criteria []Criterion
}

// Validate checks the rubric is usable.
func (r *Rubric) Validate() error {
	if r.GraderName == "" {
		return errors.New("rubric grader name is required")
	}
	if len(r.Criteria) == 0 {
		return fmt.Errorf("rubric %s has no criteria", r.GraderName)
	}
	seen := make(map[string]struct{}, len(r.Criteria))
	for _, c := range r.Criteria {
		if c.Name == "" {
			return fmt.Errorf("rubric %s has a criterion without a name", r.GraderName)
		}
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("rubric %s declares criterion %q twice", r.GraderName, c.Name)
		}
		seen[c.Name] = struct{}{}
		if c.MaxScore < 0 {
			return fmt.Errorf("rubric %s: criterion %q has negative max score %d", r.GraderName, c.Name, c.MaxScore)
		}
	}
	return nil
}

// Evaluate asks j to score transcript against r. Invalid rubrics are
// reported as errors. A judge that fails, answers malformed or scores a
// different set of criteria yields a failing result with score 0.
func Evaluate(ctx context.Context, j judge.Interface, r *Rubric, transcript string) (*graders.Result, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	prompt, err := buildPrompt(r, transcript)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s prompt: %w", r.GraderName, err)
	}

	log := clog.FromContext(ctx).With("grader", r.GraderName)

	judgement, err := j.Judge(ctx, &judge.Request{Prompt: prompt})
	if err == nil && judgement == nil {
		err = fmt.Errorf("%w: judge returned no judgement", judge.ErrMalformedResponse)
	}
	if err != nil {
		log.With("error", err).Warn("Judge call failed")
		return graders.Failure(r.GraderName, err), nil
	}

	scores, err := match(r, judgement.Scores)
	if err != nil {
		log.With("error", err).Warn("Judge scores rejected")
		return graders.Failure(r.GraderName, err), nil
	}

	var awarded, possible int
	for _, s := range scores {
		awarded += s.Score
		possible += s.MaxScore
	}
	score := float64(awarded) / float64(possible)

	return &graders.Result{
		GraderName:      r.GraderName,
		Passed:          score >= PassThreshold,
		Score:           score,
		Details:         fmt.Sprintf("LLM judge score: %d/%d", awarded, possible),
		CriterionScores: scores,
	}, nil
}

// match pairs every declared criterion with exactly one judge score, in
// declaration order.
func match(r *Rubric, scores []judge.Score) ([]graders.CriterionScore, error) {
	byName := make(map[string]judge.Score, len(scores))
	var problems []string
	for _, s := range scores {
		if _, dup := byName[s.Criterion]; dup {
			problems = append(problems, fmt.Sprintf("criterion %q scored more than once", s.Criterion))
			continue
		}
		byName[s.Criterion] = s
	}

	declared := make(map[string]struct{}, len(r.Criteria))
	out := make([]graders.CriterionScore, 0, len(r.Criteria))
	for _, c := range r.Criteria {
		declared[c.Name] = struct{}{}
		s, ok := byName[c.Name]
		if !ok {
			problems = append(problems, fmt.Sprintf("criterion %q was not scored", c.Name))
			continue
		}
		if s.Score < 0 || s.Score > c.max() {
			problems = append(problems, fmt.Sprintf("criterion %q score %d is outside 0..%d", c.Name, s.Score, c.max()))
			continue
		}
		out = append(out, graders.CriterionScore{
			Criterion: c.Name,
			Score:     s.Score,
			MaxScore:  c.max(),
			Rationale: s.Rationale,
		})
	}
	for _, s := range scores {
		if _, ok := declared[s.Criterion]; !ok {
			problems = append(problems, fmt.Sprintf("criterion %q is not in the rubric", s.Criterion))
		}
	}

	if len(problems) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrCriteriaMismatch, strings.Join(problems, "; "))
	}
	return out, nil
}
