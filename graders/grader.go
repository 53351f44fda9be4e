/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package graders defines the contract shared by every check applied to an
// agent run, whether it is computed in code or judged by a model.
package graders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"chainguard.dev/intakeevals/intake"
)

// Kind discriminates deterministic graders from model-judged ones.
type Kind int

const (
	// CodeBased graders are pure functions over the scenario and agent output.
	CodeBased Kind = iota
	// ModelBased graders delegate to an external judge.
	ModelBased
)

// String implements fmt.Stringer
func (k Kind) String() string {
	if k == ModelBased {
		return "model"
	}
	return "code"
}

// Grader evaluates one aspect of an agent run.
type Grader interface {
	// Name is the stable identifier used by scenarios and quality gates.
	Name() string

	// Kind reports whether the grader is code-based or model-based.
	Kind() Kind

	// Grade evaluates the run described by in. It returns an error wrapping
	// ErrMissingContext when a field it needs is nil.
	Grade(ctx context.Context, in *Context) (*Result, error)
}

// IsModelBased reports whether g is judged by a model.
func IsModelBased(g Grader) bool {
	return g.Kind() == ModelBased
}

// ErrMissingContext is returned when a grader is invoked without a field it requires.
var ErrMissingContext = errors.New("missing grading context")

// Field names one member of a Context.
type Field string

const (
	FieldScenario     Field = "scenario"
	FieldTranscript   Field = "transcript"
	FieldIntakeRecord Field = "intake_record"
	FieldActionLog    Field = "action_log"
)

// Context carries everything a grader may look at. Graders read only the
// fields they need and never modify them.
type Context struct {
	Scenario     *intake.Scenario
	Transcript   *intake.Transcript
	IntakeRecord *intake.IntakeRecord
	ActionLog    *intake.ActionLog
}

// NewContext assembles a Context for a scenario run.
func NewContext(scenario *intake.Scenario, out *intake.AgentOutput) *Context {
	c := &Context{Scenario: scenario}
	if out != nil {
		c.Transcript = out.Transcript
		c.IntakeRecord = out.IntakeRecord
		c.ActionLog = out.ActionLog
	}
	return c
}

// Require returns an error naming every requested field that is nil.
func (c *Context) Require(fields ...Field) error {
	if c == nil {
		return fmt.Errorf("%w: context is nil", ErrMissingContext)
	}
	var missing []string
	for _, f := range fields {
		var present bool
		switch f {
		case FieldScenario:
			present = c.Scenario != nil
		case FieldTranscript:
			present = c.Transcript != nil
		case FieldIntakeRecord:
			present = c.IntakeRecord != nil
		case FieldActionLog:
			present = c.ActionLog != nil
		default:
			return fmt.Errorf("unknown context field %q", f)
		}
		if !present {
			missing = append(missing, string(f))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingContext, strings.Join(missing, ", "))
	}
	return nil
}
