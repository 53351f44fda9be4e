/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package agent defines the boundary to the intake agent under evaluation and
// a mock implementation that replays canned responses.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/chainguard-dev/clog"

	"chainguard.dev/intakeevals/intake"
)

// Interface is an agent that can be driven through a scenario.
type Interface interface {
	// Run plays scenario and returns everything the agent produced. An
	// unknown scenario is reported with an error wrapping ErrUnknownScenario.
	Run(ctx context.Context, scenario *intake.Scenario) (*intake.AgentOutput, error)
}

// ErrUnknownScenario is returned when the agent has no behavior for a scenario.
var ErrUnknownScenario = errors.New("no response registered")

// Builder produces the output for one scenario.
type Builder func(scenarioID string) (*intake.AgentOutput, error)

// Mock answers each scenario with a registered builder or a canned response.
type Mock struct {
	mu        sync.RWMutex
	responses map[string]*intake.AgentOutput
	builders  map[string]Builder
}

var _ Interface = (*Mock)(nil)

// NewMock returns a mock that replays responses, keyed by scenario id.
func NewMock(responses map[string]*intake.AgentOutput) *Mock {
	return &Mock{
		responses: maps.Clone(responses),
		builders:  make(map[string]Builder),
	}
}

// Register installs a builder for scenarioID, taking precedence over any canned response.
func (m *Mock) Register(scenarioID string, b Builder) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.builders[scenarioID] = b
}

// Known returns every scenario id the mock can answer, sorted.
func (m *Mock) Known() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make(map[string]struct{}, len(m.responses)+len(m.builders))
	for id := range m.responses {
		ids[id] = struct{}{}
	}
	for id := range m.builders {
		ids[id] = struct{}{}
	}
	return slices.Sorted(maps.Keys(ids))
}

// Run implements Interface
func (m *Mock) Run(ctx context.Context, scenario *intake.Scenario) (*intake.AgentOutput, error) {
	if scenario == nil {
		return nil, errors.New("scenario is required")
	}
	log := clog.FromContext(ctx).With("scenario", scenario.ID)

	m.mu.RLock()
	b, hasBuilder := m.builders[scenario.ID]
	canned, hasCanned := m.responses[scenario.ID]
	m.mu.RUnlock()

	switch {
	case hasBuilder:
		log.Debug("Running registered builder")
		out, err := b(scenario.ID)
		if err != nil {
			return nil, fmt.Errorf("builder for scenario_id=%s failed: %w", scenario.ID, err)
		}
		return out, nil
	case hasCanned:
		log.Debug("Replaying canned response")
		return clone(canned)
	default:
		return nil, fmt.Errorf("%w for scenario_id=%q. Known scenarios: %v", ErrUnknownScenario, scenario.ID, m.Known())
	}
}

// clone deep copies out so callers can never mutate the canned fixtures.
func clone(out *intake.AgentOutput) (*intake.AgentOutput, error) {
	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("failed to copy response: %w", err)
	}
	var cp intake.AgentOutput
	if err := json.Unmarshal(data, &cp); err != nil {
		return nil, fmt.Errorf("failed to copy response: %w", err)
	}
	return &cp, nil
}
