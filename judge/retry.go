/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/chainguard-dev/clog"
)

// RetryConfig configures retries of transient transport errors.
type RetryConfig struct {
	// MaxRetries is the maximum number of retry attempts; 0 disables retries.
	MaxRetries int
	// BaseBackoff is the delay before the first retry; it doubles per attempt.
	BaseBackoff time.Duration
	// MaxBackoff caps the delay between attempts.
	MaxBackoff time.Duration
	// MaxJitter is the maximum random jitter added to each delay.
	MaxJitter time.Duration
}

// Validate checks that the retry configuration has valid values.
func (c RetryConfig) Validate() error {
	if c.MaxRetries < 0 {
		return errors.New("max retries cannot be negative")
	}
	if c.BaseBackoff < 0 || c.MaxBackoff < 0 || c.MaxJitter < 0 {
		return errors.New("backoff durations cannot be negative")
	}
	return nil
}

// DefaultRetryConfig returns the retry configuration used for judge calls.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:  3,
		BaseBackoff: 1 * time.Second,
		MaxBackoff:  30 * time.Second,
		MaxJitter:   500 * time.Millisecond,
	}
}

// delay returns the wait before retry number attempt (zero based).
func (c RetryConfig) delay(attempt int) time.Duration {
	d := min(c.BaseBackoff<<attempt, c.MaxBackoff)
	if c.MaxJitter > 0 {
		if n, err := rand.Int(rand.Reader, big.NewInt(int64(c.MaxJitter))); err == nil {
			d += time.Duration(n.Int64())
		}
	}
	return d
}

// completeWithRetry sends prompt to the backend, retrying errors the backend
// classifies as transient (rate limits, overload) until the retry budget is
// spent. Each retry is counted against the judge model.
func (j *judge) completeWithRetry(ctx context.Context, prompt string) (completion, error) {
	log := clog.FromContext(ctx).With("model", j.model)

	var lastErr error
	for attempt := 0; ; attempt++ {
		resp, err := j.backend.complete(ctx, prompt)
		if err == nil {
			return resp, nil
		}
		if !j.backend.retryable(err) {
			return completion{}, err
		}
		lastErr = err
		if attempt >= j.retry.MaxRetries {
			break
		}

		wait := j.retry.delay(attempt)
		j.metrics.recordRetry(ctx, j.model)
		log.With("attempt", attempt+1).
			With("max_retries", j.retry.MaxRetries).
			With("backoff", wait).
			With("error", err.Error()).
			Warn("Judge model is throttled, retrying")

		select {
		case <-ctx.Done():
			return completion{}, ctx.Err()
		case <-time.After(wait):
		}
	}

	return completion{}, fmt.Errorf("gave up after %d retries: %w", j.retry.MaxRetries, lastErr)
}
