/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"context"

	"github.com/chainguard-dev/clog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "chainguard.dev/intakeevals/judge"

// tokenMetrics counts prompt and completion tokens per model. Counters that
// cannot be created degrade to no-ops.
type tokenMetrics struct {
	prompt     metric.Int64Counter
	completion metric.Int64Counter
	calls      metric.Int64Counter
	retries    metric.Int64Counter
}

func newTokenMetrics(ctx context.Context) *tokenMetrics {
	meter := otel.Meter(meterName, metric.WithInstrumentationVersion("1.0.0"))
	log := clog.FromContext(ctx)

	prompt, err := meter.Int64Counter("genai.token.prompt",
		metric.WithDescription("The number of prompt tokens used"),
		metric.WithUnit("{tokens}"))
	if err != nil {
		log.With("error", err).Warn("Failed to create prompt tokens counter, metrics will be disabled")
		prompt = noop.Int64Counter{}
	}

	completion, err := meter.Int64Counter("genai.token.completion",
		metric.WithDescription("The number of completion tokens used"),
		metric.WithUnit("{tokens}"))
	if err != nil {
		log.With("error", err).Warn("Failed to create completion tokens counter, metrics will be disabled")
		completion = noop.Int64Counter{}
	}

	calls, err := meter.Int64Counter("judge.calls",
		metric.WithDescription("The number of judge calls by outcome"),
		metric.WithUnit("{calls}"))
	if err != nil {
		log.With("error", err).Warn("Failed to create judge call counter, metrics will be disabled")
		calls = noop.Int64Counter{}
	}

	retries, err := meter.Int64Counter("judge.retries",
		metric.WithDescription("The number of judge calls retried after a transient error"),
		metric.WithUnit("{retries}"))
	if err != nil {
		log.With("error", err).Warn("Failed to create judge retry counter, metrics will be disabled")
		retries = noop.Int64Counter{}
	}

	return &tokenMetrics{prompt: prompt, completion: completion, calls: calls, retries: retries}
}

func (m *tokenMetrics) recordTokens(ctx context.Context, model string, u usage) {
	attrs := metric.WithAttributes(attribute.String("model", model))
	m.prompt.Add(ctx, u.promptTokens, attrs)
	m.completion.Add(ctx, u.completionTokens, attrs)
}

func (m *tokenMetrics) recordCall(ctx context.Context, model, outcome string) {
	m.calls.Add(ctx, 1, metric.WithAttributes(
		attribute.String("model", model),
		attribute.String("outcome", outcome),
	))
}

func (m *tokenMetrics) recordRetry(ctx context.Context, model string) {
	m.retries.Add(ctx, 1, metric.WithAttributes(attribute.String("model", model)))
}
