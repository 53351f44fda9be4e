/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chainguard-dev/clog"
)

// usage is the token accounting reported by a backend for one call.
type usage struct {
	promptTokens     int64
	completionTokens int64
}

type completion struct {
	text  string
	usage usage
}

// backend is a single model transport.
type backend interface {
	complete(ctx context.Context, prompt string) (completion, error)
	retryable(err error) bool
}

// Option configures a judge created by New.
type Option func(*judge) error

// WithRetryConfig overrides the retry policy for transient transport errors.
func WithRetryConfig(cfg RetryConfig) Option {
	return func(j *judge) error {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid retry config: %w", err)
		}
		j.retry = cfg
		return nil
	}
}

type judge struct {
	model   string
	backend backend
	retry   RetryConfig
	metrics *tokenMetrics
}

var _ Interface = (*judge)(nil)

func newJudge(ctx context.Context, model string, b backend, retries int, opts ...Option) (*judge, error) {
	retry := DefaultRetryConfig()
	retry.MaxRetries = retries
	j := &judge{
		model:   model,
		backend: b,
		retry:   retry,
		metrics: newTokenMetrics(ctx),
	}
	for _, opt := range opts {
		if err := opt(j); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	if err := j.retry.Validate(); err != nil {
		return nil, fmt.Errorf("invalid retry config: %w", err)
	}
	return j, nil
}

// Judge implements Interface
func (j *judge) Judge(ctx context.Context, request *Request) (*Judgement, error) {
	if request == nil || strings.TrimSpace(request.Prompt) == "" {
		return nil, errors.New("prompt is required")
	}
	log := clog.FromContext(ctx).With("model", j.model)

	resp, err := j.completeWithRetry(ctx, request.Prompt)
	if err != nil {
		j.metrics.recordCall(ctx, j.model, "error")
		return nil, fmt.Errorf("failed to call judge model %s: %w", j.model, err)
	}
	j.metrics.recordTokens(ctx, j.model, resp.usage)

	out, err := Parse(resp.text)
	if err != nil {
		j.metrics.recordCall(ctx, j.model, "malformed")
		log.With("error", err).Warn("Judge returned a malformed response")
		return nil, err
	}
	j.metrics.recordCall(ctx, j.model, "ok")
	log.With("scores", len(out.Scores)).Debug("Judge responded")
	return out, nil
}
