/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"context"
	"errors"
)

// Request is a single judgement request.
type Request struct {
	// Prompt is the rendered text sent to the model, including the response
	// format instructions.
	Prompt string `json:"prompt"`
}

// Score is the judge's verdict on one criterion.
type Score struct {
	Criterion string `json:"criterion" jsonschema:"required,minLength=1" jsonschema_description:"Name of the rubric criterion being scored"`
	Score     int    `json:"score" jsonschema:"required,minimum=0" jsonschema_description:"Integer score between 0 and the criterion maximum"`
	Rationale string `json:"rationale" jsonschema:"required" jsonschema_description:"One or two sentences explaining the score"`
}

// Judgement is the parsed response of a judge.
type Judgement struct {
	Scores []Score `json:"scores" jsonschema:"required" jsonschema_description:"One entry per rubric criterion"`
}

// Interface defines the contract for judge implementations
type Interface interface {
	// Judge scores the request. Errors wrapping ErrMalformedResponse mean the
	// model answered, but not in the required shape.
	Judge(ctx context.Context, request *Request) (*Judgement, error)
}

// ErrUnavailable is returned by the judge that stands in when no model backend is configured.
var ErrUnavailable = errors.New("judge unavailable")

// Unavailable returns a judge that fails every request with ErrUnavailable.
func Unavailable() Interface {
	return unavailable{}
}

type unavailable struct{}

// Judge implements Interface
func (unavailable) Judge(context.Context, *Request) (*Judgement, error) {
	return nil, ErrUnavailable
}
