/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"errors"
	"fmt"
)

const (
	exitGatesFailed = 1
	exitUsage       = 2
)

// exitError carries the process exit code for an error.
type exitError struct {
	code  int
	msg   string
	cause error
}

func (e *exitError) Error() string {
	if e.cause == nil {
		return e.msg
	}
	return fmt.Sprintf("%s: %v", e.msg, e.cause)
}

func (e *exitError) Unwrap() error { return e.cause }

// usageError marks cause as a usage or configuration problem.
func usageError(msg string, cause error) error {
	return &exitError{code: exitUsage, msg: msg, cause: cause}
}

// exitCodeOf maps err to a process exit code. Untyped errors are usage errors.
func exitCodeOf(err error) int {
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUsage
}
