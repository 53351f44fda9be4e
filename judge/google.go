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

	"google.golang.org/genai"
)

// google calls Gemini through Vertex AI or the Gemini API.
type google struct {
	client *genai.Client
	model  string
	config *genai.GenerateContentConfig
}

// responseSchema mirrors ResponseSchema in the form Gemini's structured output expects.
var responseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"scores": {
			Type:        genai.TypeArray,
			Description: "One entry per rubric criterion",
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"criterion": {
						Type:        genai.TypeString,
						Description: "Name of the rubric criterion being scored",
					},
					"score": {
						Type:        genai.TypeInteger,
						Description: "Integer score between 0 and the criterion maximum",
					},
					"rationale": {
						Type:        genai.TypeString,
						Description: "One or two sentences explaining the score",
					},
				},
				Required: []string{"criterion", "score", "rationale"},
			},
		},
	},
	Required: []string{"scores"},
}

func newGoogle(ctx context.Context, cfg *Config) (*google, error) {
	cc := &genai.ClientConfig{}
	switch {
	case cfg.Project != "":
		cc.Project = cfg.Project
		cc.Location = cfg.Region
		cc.Backend = genai.BackendVertexAI
	case cfg.GeminiAPIKey != "":
		cc.APIKey = cfg.GeminiAPIKey
		cc.Backend = genai.BackendGeminiAPI
	default:
		return nil, errors.New("gemini models require GOOGLE_CLOUD_PROJECT or GEMINI_API_KEY")
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google AI client: %w", err)
	}
	return &google{
		client: client,
		model:  cfg.Model,
		config: &genai.GenerateContentConfig{
			Temperature:      genai.Ptr(float32(cfg.Temperature)),
			MaxOutputTokens:  int32(cfg.MaxTokens),
			ResponseMIMEType: "application/json",
			ResponseSchema:   responseSchema,
		},
	}, nil
}

func (g *google) complete(ctx context.Context, prompt string) (completion, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), g.config)
	if err != nil {
		return completion{}, err
	}
	out := completion{text: resp.Text()}
	if resp.UsageMetadata != nil {
		out.usage = usage{
			promptTokens:     int64(resp.UsageMetadata.PromptTokenCount),
			completionTokens: int64(resp.UsageMetadata.CandidatesTokenCount),
		}
	}
	return out, nil
}

// retryable reports quota exhaustion and transient server errors. The genai
// client does not expose typed status errors, so this matches on the message.
func (*google) retryable(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, marker := range []string{"Resource exhausted", "RESOURCE_EXHAUSTED", "429", "rate limit", "Overloaded", "503", "quota exceeded", "Internal error", "server error"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
