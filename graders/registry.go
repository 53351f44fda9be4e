/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package graders

import (
	"fmt"
	"maps"
	"slices"
)

// Registry maps grader names to instances. It is built once by the caller
// and is read-only afterwards.
type Registry struct {
	graders map[string]Grader
}

// NewRegistry indexes the given graders by name. Duplicate or empty names are rejected.
func NewRegistry(gs ...Grader) (*Registry, error) {
	r := &Registry{graders: make(map[string]Grader, len(gs))}
	for _, g := range gs {
		name := g.Name()
		if name == "" {
			return nil, fmt.Errorf("grader %T has an empty name", g)
		}
		if _, exists := r.graders[name]; exists {
			return nil, fmt.Errorf("duplicate grader name %q", name)
		}
		r.graders[name] = g
	}
	return r, nil
}

// Lookup returns the grader registered under name.
func (r *Registry) Lookup(name string) (Grader, bool) {
	g, ok := r.graders[name]
	return g, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.graders))
}

// Len returns the number of registered graders.
func (r *Registry) Len() int {
	return len(r.graders)
}
