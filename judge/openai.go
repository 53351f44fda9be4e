/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"context"
	"errors"
	"strings"

	"github.com/openai/openai-go"
	oaioption "github.com/openai/openai-go/option"
)

// openAI calls the OpenAI Chat Completions API.
type openAI struct {
	client      openai.Client
	model       string
	maxTokens   int64
	temperature float64
}

func newOpenAI(cfg *Config) (*openAI, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, errors.New("openai models require OPENAI_API_KEY")
	}
	return &openAI{
		client:      openai.NewClient(oaioption.WithAPIKey(cfg.OpenAIAPIKey)),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}, nil
}

func (o *openAI) complete(ctx context.Context, prompt string) (completion, error) {
	params := openai.ChatCompletionNewParams{
		Model: o.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxCompletionTokens: openai.Int(o.maxTokens),
	}
	// Reasoning models only accept the default temperature.
	if !isReasoningModel(o.model) {
		params.Temperature = openai.Float(o.temperature)
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return completion{}, err
	}
	if len(resp.Choices) == 0 {
		return completion{}, errors.New("openai returned no choices")
	}
	return completion{
		text: resp.Choices[0].Message.Content,
		usage: usage{
			promptTokens:     resp.Usage.PromptTokens,
			completionTokens: resp.Usage.CompletionTokens,
		},
	}, nil
}

func (*openAI) retryable(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 429, 500, 502, 503, 504:
			return true
		}
	}
	return false
}

func isReasoningModel(model string) bool {
	m := strings.ToLower(model)
	return len(m) > 1 && m[0] == 'o' && m[1] >= '0' && m[1] <= '9'
}
