/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package intake

import (
	"fmt"
	"strings"
)

// Role identifies who spoke a conversation turn.
type Role string

const (
	// RoleAgent is the intake agent.
	RoleAgent Role = "agent"
	// RoleCaregiver is the caregiver being onboarded.
	RoleCaregiver Role = "caregiver"
)

// UnmarshalText rejects roles other than agent and caregiver.
func (r *Role) UnmarshalText(text []byte) error {
	switch v := Role(text); v {
	case RoleAgent, RoleCaregiver:
		*r = v
		return nil
	default:
		return fmt.Errorf("unknown role %q", string(text))
	}
}

// Turn is one message in a transcript.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
	// Number is the 1-indexed position of the turn.
	Number int `json:"turn_number"`
}

// Transcript is the ordered conversation between agent and caregiver.
type Transcript struct {
	ScenarioID string `json:"scenario_id"`
	Turns      []Turn `json:"turns"`
}

// FullText renders the conversation as labelled paragraphs, the form sent to
// model-based graders.
func (t *Transcript) FullText() string {
	lines := make([]string, 0, len(t.Turns))
	for _, turn := range t.Turns {
		label := "Caregiver"
		if turn.Role == RoleAgent {
			label = "Agent"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", label, turn.Content))
	}
	return strings.Join(lines, "\n\n")
}

// ActionLog records what the agent did during a scenario.
type ActionLog struct {
	ScenarioID             string   `json:"scenario_id"`
	Actions                []string `json:"actions"`
	ComplianceItemsChecked []string `json:"compliance_items_checked"`

	// SafetyMapConsulted is set when the agent looked up the safety reference.
	SafetyMapConsulted bool `json:"safety_map_consulted"`

	// SchedulingOffered is set when the agent offered to schedule remediation.
	SchedulingOffered bool `json:"scheduling_offered"`

	RemediationStepsOffered []string `json:"remediation_steps_offered"`
}

// AgentOutput is everything an agent produced for one scenario run.
type AgentOutput struct {
	Transcript   *Transcript   `json:"transcript"`
	IntakeRecord *IntakeRecord `json:"intake_record"`
	ActionLog    *ActionLog    `json:"action_log"`
}
