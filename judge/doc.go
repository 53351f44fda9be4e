/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package judge sends rubric prompts to an LLM and returns the per-criterion
// scores it awards.
//
// # Overview
//
// A judge receives a fully rendered prompt and must answer with exactly one
// JSON object of the form:
//
//	{"scores": [{"criterion": "clarity", "score": 2, "rationale": "..."}]}
//
// Anything else, including prose around the object, unknown fields or
// non-integer scores, is rejected with ErrMalformedResponse. Parse failures
// are never retried: a judge that answers badly has failed that grading.
// Transport errors that look transient (rate limits, overloaded backends) are
// retried with exponential backoff.
//
// # Backends
//
// New selects a backend from the configured model name:
//
//   - claude-* models use the Anthropic API directly when ANTHROPIC_API_KEY
//     is set, and Vertex AI otherwise.
//   - gemini-* models use Vertex AI when GOOGLE_CLOUD_PROJECT is set, and the
//     Gemini API with GEMINI_API_KEY otherwise.
//   - gpt-* and o-series models use the OpenAI API.
//
// # Prompts
//
// Prompt templates use {{name}} placeholders. Each placeholder must be bound
// exactly once, as literal text or as structured data rendered to JSON or
// YAML, before Build succeeds:
//
//	p := judge.MustNewPrompt("Context: {{context}}\n\n{{schema}}")
//	p, err := p.BindText("context", "Evaluate the agent.")
//	...
//	p, err = p.BindJSON("schema", judge.ResponseSchema())
//	...
//	text, err := p.Build()
//
// # Metrics
//
// Token usage is recorded through OpenTelemetry counters
// (genai.token.prompt and genai.token.completion) labelled with the model.
package judge
