/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// Prompt is a template with {{name}} placeholders. Binding returns a new
// Prompt and leaves the receiver untouched, so a parsed template can be shared
// by concurrent graders.
type Prompt struct {
	template string
	bindings map[string]binding
}

// NewPrompt parses the placeholders of template.
func NewPrompt(template string) (*Prompt, error) {
	bindings := make(map[string]binding)
	if _, err := walkTemplate(template, func(name string) (string, error) {
		if _, exists := bindings[name]; !exists {
			bindings[name] = nil
		}
		return "", nil
	}); err != nil {
		return nil, err
	}
	return &Prompt{template: template, bindings: bindings}, nil
}

// MustNewPrompt is NewPrompt for package-level templates; it panics on a malformed template.
func MustNewPrompt(template string) *Prompt {
	p, err := NewPrompt(template)
	if err != nil {
		panic(err)
	}
	return p
}

// Placeholders returns the placeholder names in sorted order.
func (p *Prompt) Placeholders() []string {
	return slices.Sorted(maps.Keys(p.bindings))
}

// BindText binds value verbatim.
func (p *Prompt) BindText(name, value string) (*Prompt, error) {
	return p.bind(name, func() (string, error) { return value, nil })
}

// BindJSON binds data marshaled as indented JSON.
func (p *Prompt) BindJSON(name string, data any) (*Prompt, error) {
	return p.bind(name, func() (string, error) {
		b, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal JSON for %q: %w", name, err)
		}
		return string(b), nil
	})
}

// BindXML binds data marshaled as indented XML.
func (p *Prompt) BindXML(name string, data any) (*Prompt, error) {
	return p.bind(name, func() (string, error) {
		b, err := xml.MarshalIndent(data, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal XML for %q: %w", name, err)
		}
		return string(b), nil
	})
}

// BindYAML binds data marshaled as YAML.
func (p *Prompt) BindYAML(name string, data any) (*Prompt, error) {
	return p.bind(name, func() (string, error) {
		b, err := yaml.Marshal(data)
		if err != nil {
			return "", fmt.Errorf("failed to marshal YAML for %q: %w", name, err)
		}
		return strings.TrimRight(string(b), "\n"), nil
	})
}

// Build renders the prompt. Every placeholder must be bound.
func (p *Prompt) Build() (string, error) {
	values := make(map[string]string, len(p.bindings))
	for name, b := range p.bindings {
		if b == nil {
			return "", fmt.Errorf("unbound placeholder: %s", name)
		}
		v, err := b()
		if err != nil {
			return "", err
		}
		values[name] = v
	}
	return walkTemplate(p.template, func(name string) (string, error) {
		v, ok := values[name]
		if !ok {
			return "", fmt.Errorf("internal error: binding %q not found", name)
		}
		return v, nil
	})
}

// binding produces the text substituted for a placeholder; nil means unbound.
type binding func() (string, error)

func (p *Prompt) bind(name string, b binding) (*Prompt, error) {
	current, exists := p.bindings[name]
	if !exists {
		return nil, fmt.Errorf("binding %q not found in template", name)
	}
	if current != nil {
		return nil, fmt.Errorf("binding %q already bound", name)
	}
	bindings := maps.Clone(p.bindings)
	bindings[name] = b
	return &Prompt{template: p.template, bindings: bindings}, nil
}

// walkTemplate copies template, replacing each {{name}} with resolve(name).
// Substituted values are not rescanned.
func walkTemplate(template string, resolve func(name string) (string, error)) (string, error) {
	var out strings.Builder
	for len(template) > 0 {
		start := strings.Index(template, "{{")
		if start == -1 {
			out.WriteString(template)
			break
		}
		out.WriteString(template[:start])

		end := strings.Index(template[start:], "}}")
		if end == -1 {
			return "", errors.New("unclosed binding: missing '}}'")
		}
		end += start + 2

		name := strings.TrimSpace(template[start+2 : end-2])
		if !isIdentifier(name) {
			return "", fmt.Errorf("invalid binding identifier %q", name)
		}
		v, err := resolve(name)
		if err != nil {
			return "", err
		}
		out.WriteString(v)
		template = template[end:]
	}
	return out.String(), nil
}

// isIdentifier reports whether s starts with a letter and continues with letters, digits or underscores.
func isIdentifier(s string) bool {
	for i, r := range s {
		if i == 0 && !unicode.IsLetter(r) {
			return false
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return s != ""
}
