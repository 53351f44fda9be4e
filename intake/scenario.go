/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package intake

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Scenario is a single named test case for the intake agent.
type Scenario struct {
	// ID is the unique scenario key.
	ID string `json:"scenario_id"`

	// Name is the human-readable scenario name.
	Name string `json:"name"`

	// Description explains what the scenario exercises.
	Description string `json:"description"`

	// Collection is the identifier of the owning collection.
	Collection string `json:"collection"`

	// Required marks scenarios that must pass for the suite to pass.
	Required bool `json:"required"`

	// GraderNames lists the graders to apply, in order.
	GraderNames []string `json:"grader_names"`

	// CaregiverSetup is free-form setup data; the harness never interprets it.
	CaregiverSetup map[string]any `json:"caregiver_setup,omitempty"`

	// ExpectedComplianceGaps are the gaps the agent should identify (set semantics).
	ExpectedComplianceGaps []string `json:"expected_compliance_gaps"`

	// ExpectedGeoConcerns are the geographic concerns the agent should flag (set semantics).
	ExpectedGeoConcerns []string `json:"expected_geo_concerns"`
}

// UnmarshalJSON decodes a scenario, defaulting Required to true when absent.
func (s *Scenario) UnmarshalJSON(data []byte) error {
	type plain Scenario
	aux := struct {
		*plain
		Required *bool `json:"required"`
	}{plain: (*plain)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	s.Required = aux.Required == nil || *aux.Required
	return nil
}

// Validate checks the fields every scenario must carry.
func (s *Scenario) Validate() error {
	if s.ID == "" {
		return errors.New("scenario_id is required")
	}
	if strings.ContainsAny(s.ID, `/\`) || strings.Contains(s.ID, "..") || s.ID == "." {
		return fmt.Errorf("scenario %q: scenario_id must not contain path separators or dot segments", s.ID)
	}
	if s.Name == "" {
		return fmt.Errorf("scenario %q: name is required", s.ID)
	}
	if s.Collection == "" {
		return fmt.Errorf("scenario %q: collection is required", s.ID)
	}
	if s.GraderNames == nil {
		return fmt.Errorf("scenario %q: grader_names is required", s.ID)
	}
	return nil
}

// ScenarioCollection is a named group of related scenarios.
type ScenarioCollection struct {
	ID          string     `json:"collection_id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Scenarios   []Scenario `json:"scenarios"`
}

// Validate checks the collection and the back-reference of each scenario.
func (c *ScenarioCollection) Validate() error {
	if c.ID == "" {
		return errors.New("collection_id is required")
	}
	if c.Name == "" {
		return fmt.Errorf("collection %q: name is required", c.ID)
	}
	if len(c.Scenarios) == 0 {
		return fmt.Errorf("collection %q: has no scenarios", c.ID)
	}
	seen := make(map[string]struct{}, len(c.Scenarios))
	for i := range c.Scenarios {
		s := &c.Scenarios[i]
		if err := s.Validate(); err != nil {
			return fmt.Errorf("collection %q: %w", c.ID, err)
		}
		if s.Collection != c.ID {
			return fmt.Errorf("scenario %q has collection=%q but is in collection %q", s.ID, s.Collection, c.ID)
		}
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("collection %q: duplicate scenario %q", c.ID, s.ID)
		}
		seen[s.ID] = struct{}{}
	}
	return nil
}
