/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package runner drives scenarios through an agent and its graders and
// decides which runs need a human to look at them.
package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chainguard-dev/clog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"chainguard.dev/intakeevals/agent"
	"chainguard.dev/intakeevals/graders"
	"chainguard.dev/intakeevals/intake"
)

const tracerName = "chainguard.dev/intakeevals/runner"

// DisagreementReason is recorded when code-based and model-based graders reach different verdicts.
const DisagreementReason = "Disagreement between code-based and model-based graders"

// Option configures an Executor.
type Option func(*Executor) error

// WithSkipModelBased skips every model-based grader when skip is true.
func WithSkipModelBased(skip bool) Option {
	return func(e *Executor) error {
		e.skipModelBased = skip
		return nil
	}
}

// WithReviewSink hands scenarios that need manual review to sink.
func WithReviewSink(sink ReviewSink) Option {
	return func(e *Executor) error {
		e.sink = sink
		return nil
	}
}

// WithConcurrency runs up to n scenarios at once in RunScenarios. Results
// keep the input order.
func WithConcurrency(n int) Option {
	return func(e *Executor) error {
		if n < 1 {
			return fmt.Errorf("concurrency must be at least 1, got %d", n)
		}
		e.concurrency = n
		return nil
	}
}

// WithMetrics records grading outcomes to m.
func WithMetrics(m *graders.Metrics) Option {
	return func(e *Executor) error {
		e.metrics = m
		return nil
	}
}

// Executor runs scenarios. It holds no per-run state and is safe for
// concurrent use when its agent and graders are.
type Executor struct {
	agent    agent.Interface
	registry *graders.Registry

	skipModelBased bool
	sink           ReviewSink
	concurrency    int
	metrics        *graders.Metrics
}

// New creates an Executor over a and the graders in registry.
func New(a agent.Interface, registry *graders.Registry, opts ...Option) (*Executor, error) {
	if a == nil {
		return nil, errors.New("agent is required")
	}
	if registry == nil {
		return nil, errors.New("grader registry is required")
	}
	e := &Executor{
		agent:       a,
		registry:    registry,
		concurrency: 1,
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	return e, nil
}

// RunScenarios runs every scenario and returns their results in input order.
// An agent error aborts the batch; grader errors never do.
func (e *Executor) RunScenarios(ctx context.Context, scenarios []*intake.Scenario) ([]*ScenarioResult, error) {
	results := make([]*ScenarioResult, len(scenarios))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, s := range scenarios {
		g.Go(func() error {
			r, err := e.RunScenario(ctx, s)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// RunScenario drives one scenario through the agent and its declared graders.
func (e *Executor) RunScenario(ctx context.Context, scenario *intake.Scenario) (*ScenarioResult, error) {
	if scenario == nil {
		return nil, errors.New("scenario is required")
	}

	ctx, span := otel.Tracer(tracerName, oteltrace.WithInstrumentationVersion("1.0.0")).
		Start(ctx, "scenario.run", oteltrace.WithAttributes(
			attribute.String("scenario.id", scenario.ID),
			attribute.String("scenario.collection", scenario.Collection),
		))
	defer span.End()

	log := clog.FromContext(ctx).With("scenario", scenario.ID)
	ctx = clog.WithLogger(ctx, log)
	log.Info("Running scenario")

	output, err := e.agent.Run(ctx, scenario)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to run agent for scenario %s: %w", scenario.ID, err)
	}

	in := graders.NewContext(scenario, output)
	result := &ScenarioResult{
		ScenarioID:    scenario.ID,
		ScenarioName:  scenario.Name,
		GraderResults: []*graders.Result{},
		ReviewReasons: []string{},
	}

	var codeRan, modelRan bool
	codePassed, modelPassed := true, true
	for _, name := range scenario.GraderNames {
		g, ok := e.registry.Lookup(name)
		if !ok {
			log.With("grader", name).Debug("Skipping unregistered grader")
			continue
		}
		if e.skipModelBased && graders.IsModelBased(g) {
			log.With("grader", name).Debug("Skipping model-based grader")
			continue
		}

		r := e.grade(ctx, g, in)
		result.GraderResults = append(result.GraderResults, r)
		e.metrics.ObserveGrade(scenario.ID, g.Kind(), r)

		if graders.IsModelBased(g) {
			modelRan = true
			modelPassed = modelPassed && r.Passed
		} else {
			codeRan = true
			codePassed = codePassed && r.Passed
		}
	}

	result.Passed = true
	var failed []string
	for _, r := range result.GraderResults {
		if !r.Passed {
			result.Passed = false
			failed = append(failed, r.GraderName)
		}
	}
	if len(failed) > 0 {
		result.ReviewReasons = append(result.ReviewReasons,
			fmt.Sprintf("%d grader(s) failed: %s", len(failed), strings.Join(failed, ", ")))
	}
	if codeRan && modelRan && codePassed != modelPassed {
		result.ReviewReasons = append(result.ReviewReasons, DisagreementReason)
	}
	result.NeedsManualReview = len(result.ReviewReasons) > 0

	span.SetAttributes(
		attribute.Bool("scenario.passed", result.Passed),
		attribute.Bool("scenario.needs_review", result.NeedsManualReview),
		attribute.Float64("scenario.score", result.OverallScore()),
	)
	e.metrics.ObserveScenario(result.Passed, result.NeedsManualReview)
	log.With("passed", result.Passed).
		With("score", result.OverallScore()).
		With("needs_review", result.NeedsManualReview).
		Info("Scenario complete")

	if result.NeedsManualReview && e.sink != nil {
		if location, err := e.sink.Generate(ctx, scenario, output, result); err != nil {
			log.With("error", err).Warn("Failed to generate review")
		} else {
			log.With("location", location).Info("Review generated")
		}
	}
	return result, nil
}

// grade invokes g, converting errors and invalid results into a failing result.
func (e *Executor) grade(ctx context.Context, g graders.Grader, in *graders.Context) *graders.Result {
	ctx, span := otel.Tracer(tracerName, oteltrace.WithInstrumentationVersion("1.0.0")).
		Start(ctx, "grader.grade", oteltrace.WithAttributes(
			attribute.String("grader.name", g.Name()),
			attribute.String("grader.kind", g.Kind().String()),
		))
	defer span.End()

	log := clog.FromContext(ctx).With("grader", g.Name())

	r, err := g.Grade(ctx, in)
	if err == nil && r == nil {
		err = errors.New("grader returned no result")
	}
	if err == nil && r.GraderName != g.Name() {
		err = fmt.Errorf("grader %s returned a result named %q", g.Name(), r.GraderName)
	}
	if err == nil {
		err = r.Validate()
	}
	if err != nil {
		log.With("error", err).Error("Grader failed")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return graders.Failure(g.Name(), err)
	}

	span.SetAttributes(
		attribute.Bool("grader.passed", r.Passed),
		attribute.Float64("grader.score", r.Score),
	)
	span.SetStatus(codes.Ok, "")
	return r
}
