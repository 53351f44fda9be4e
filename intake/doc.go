/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package intake defines the records exchanged between the caregiver intake
// agent and the evaluation harness.
//
// Scenarios describe what an evaluation expects. AgentOutput is what an agent
// produced for one scenario run: a conversation transcript, the structured
// intake record extracted from it, and a log of the actions the agent took.
//
// All types round-trip through JSON using snake_case field names so the
// embedded fixtures and external agents share one wire shape.
package intake
