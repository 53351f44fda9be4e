/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package codebased provides the deterministic graders. Each compares an
// expected set drawn from the scenario against what the agent recorded and
// scores the overlap without any I/O.
//
// A scenario that expects nothing always passes with a score of 1.0: the
// absence of an expectation is not a test.
package codebased
