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

	"cloud.google.com/go/compute/metadata"
	"github.com/chainguard-dev/clog"
	"github.com/sethvargo/go-envconfig"
)

// DefaultModel is the judge model used when JUDGE_MODEL is unset.
const DefaultModel = "claude-opus-4-6"

// Config selects and parameterizes the judge backend.
type Config struct {
	Model       string  `env:"JUDGE_MODEL,default=claude-opus-4-6"`
	MaxTokens   int64   `env:"JUDGE_MAX_TOKENS,default=1024"`
	Temperature float64 `env:"JUDGE_TEMPERATURE,default=0"`
	MaxRetries  int     `env:"JUDGE_MAX_RETRIES,default=3"`

	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	GeminiAPIKey    string `env:"GEMINI_API_KEY"`

	// Project and Region select Vertex AI for Claude and Gemini models.
	Project string `env:"GOOGLE_CLOUD_PROJECT"`
	Region  string `env:"GOOGLE_CLOUD_REGION,default=us-east5"`
}

// LoadConfig reads the judge configuration from the process environment.
// With no credentials configured on GCE, the project comes from the
// metadata server.
func LoadConfig(ctx context.Context) (*Config, error) {
	cfg, err := LoadConfigFrom(ctx, envconfig.OsLookuper())
	if err != nil {
		return nil, err
	}
	if !cfg.hasCredentials() && metadata.OnGCE() {
		project, err := metadata.ProjectIDWithContext(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read project from metadata server: %w", err)
		}
		clog.FromContext(ctx).With("project", project).Info("Using project from GCE metadata")
		cfg.Project = project
	}
	return cfg, nil
}

func (c *Config) hasCredentials() bool {
	return c.Project != "" || c.AnthropicAPIKey != "" || c.OpenAIAPIKey != "" || c.GeminiAPIKey != ""
}

// LoadConfigFrom reads the judge configuration from l.
func LoadConfigFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, fmt.Errorf("failed to process judge environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the numeric settings.
func (c *Config) Validate() error {
	if c.Model == "" {
		return errors.New("judge model is required")
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("JUDGE_MAX_TOKENS must be positive, got %d", c.MaxTokens)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("JUDGE_TEMPERATURE must be within [0, 2], got %v", c.Temperature)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("JUDGE_MAX_RETRIES cannot be negative, got %d", c.MaxRetries)
	}
	return nil
}

// Provider identifies a model vendor.
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderGoogle    Provider = "google"
	ProviderOpenAI    Provider = "openai"
)

// ProviderFor returns the vendor serving model.
func ProviderFor(model string) (Provider, error) {
	m := strings.ToLower(model)
	switch {
	case strings.HasPrefix(m, "claude-"):
		return ProviderAnthropic, nil
	case strings.HasPrefix(m, "gemini-"):
		return ProviderGoogle, nil
	case strings.HasPrefix(m, "gpt-"), isReasoningModel(m):
		return ProviderOpenAI, nil
	}
	return "", fmt.Errorf("unsupported model: %s (expected claude-*, gemini-*, gpt-* or o-series)", model)
}

// New creates a judge for cfg.Model using the backend its provider requires.
func New(ctx context.Context, cfg *Config, opts ...Option) (Interface, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	provider, err := ProviderFor(cfg.Model)
	if err != nil {
		return nil, err
	}

	var b backend
	switch provider {
	case ProviderAnthropic:
		b, err = newClaude(ctx, cfg)
	case ProviderGoogle:
		b, err = newGoogle(ctx, cfg)
	case ProviderOpenAI:
		b, err = newOpenAI(cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s judge: %w", provider, err)
	}

	clog.FromContext(ctx).With("model", cfg.Model).With("provider", provider).Info("Judge configured")
	return newJudge(ctx, cfg.Model, b, cfg.MaxRetries, opts...)
}
