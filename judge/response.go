/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/invopop/jsonschema"
)

// ErrMalformedResponse is returned when a judge answers with anything other
// than a single well-formed scores payload.
var ErrMalformedResponse = errors.New("malformed judge response")

// ResponseSchema returns the JSON schema of the payload a judge must produce.
func ResponseSchema() *jsonschema.Schema {
	r := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		DoNotReference:             true,
	}
	return r.Reflect(&Judgement{})
}

// Parse decodes a judge's raw text into a Judgement. A single ```json fence
// around the object is tolerated; any other text outside the object is not.
func Parse(text string) (*Judgement, error) {
	body := stripFence(text)
	if body == "" {
		return nil, fmt.Errorf("%w: empty response", ErrMalformedResponse)
	}

	dec := json.NewDecoder(strings.NewReader(body))
	dec.DisallowUnknownFields()

	var raw struct {
		Scores *[]Score `json:"scores"`
	}
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: unexpected content after JSON object", ErrMalformedResponse)
	}
	if raw.Scores == nil {
		return nil, fmt.Errorf("%w: missing \"scores\"", ErrMalformedResponse)
	}
	for i, s := range *raw.Scores {
		if s.Criterion == "" {
			return nil, fmt.Errorf("%w: scores[%d] has no criterion", ErrMalformedResponse, i)
		}
	}
	return &Judgement{Scores: *raw.Scores}, nil
}

// stripFence removes a ```json (or bare ```) fence wrapping the whole response.
func stripFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") || !strings.HasSuffix(text, "```") || len(text) < 6 {
		return text
	}
	inner := text[3 : len(text)-3]
	if nl := strings.IndexByte(inner, '\n'); nl >= 0 {
		if lang := strings.TrimSpace(inner[:nl]); lang == "" || lang == "json" {
			inner = inner[nl+1:]
		}
	}
	return strings.TrimSpace(inner)
}
