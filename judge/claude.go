/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/vertex"
)

// claude calls Claude through the Anthropic Messages API, directly or via Vertex AI.
type claude struct {
	client      anthropic.Client
	model       string
	maxTokens   int64
	temperature float64
}

func newClaude(ctx context.Context, cfg *Config) (*claude, error) {
	var opt option.RequestOption
	switch {
	case cfg.AnthropicAPIKey != "":
		opt = option.WithAPIKey(cfg.AnthropicAPIKey)
	case cfg.Project != "":
		opt = vertex.WithGoogleAuth(ctx, cfg.Region, cfg.Project)
	default:
		return nil, errors.New("claude models require ANTHROPIC_API_KEY or GOOGLE_CLOUD_PROJECT")
	}
	return &claude{
		client:      anthropic.NewClient(opt),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}, nil
}

func (c *claude) complete(ctx context.Context, prompt string) (completion, error) {
	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   c.maxTokens,
		Temperature: anthropic.Float(c.temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return completion{}, err
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return completion{
		text: text.String(),
		usage: usage{
			promptTokens:     msg.Usage.InputTokens,
			completionTokens: msg.Usage.OutputTokens,
		},
	}, nil
}

// retryable reports rate limit, overloaded and transient server errors.
func (*claude) retryable(err error) bool {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 429, 503, 504, 529:
			return true
		}
	}
	return false
}
