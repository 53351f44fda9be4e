/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package review

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chainguard-dev/clog"

	"chainguard.dev/intakeevals/intake"
	"chainguard.dev/intakeevals/runner"
)

// FileSink writes review files into a local directory.
type FileSink struct {
	dir string
}

var _ runner.ReviewSink = (*FileSink)(nil)

// NewFileSink returns a sink rooted at dir. The directory is created on first
// write.
func NewFileSink(dir string) (*FileSink, error) {
	if dir == "" {
		return nil, errors.New("review directory is required")
	}
	return &FileSink{dir: dir}, nil
}

// Generate implements runner.ReviewSink
func (s *FileSink) Generate(ctx context.Context, scenario *intake.Scenario, output *intake.AgentOutput, result *runner.ScenarioResult) (string, error) {
	b, err := encode(Build(scenario, output, result))
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create review directory: %w", err)
	}
	path := filepath.Join(s.dir, FileName(scenario.ID))
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", fmt.Errorf("failed to write review: %w", err)
	}
	clog.FromContext(ctx).With("path", path).Debug("Wrote review file")
	return path, nil
}
