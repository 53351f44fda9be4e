/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package gates

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// config is the YAML layout of a gate file.
type config struct {
	Gates []QualityGate `yaml:"gates"`
}

// LoadFile reads gates from the YAML file at path.
func LoadFile(path string) ([]QualityGate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open gate config: %w", err)
	}
	defer f.Close()

	gates, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return gates, nil
}

// Parse decodes and validates a YAML gate document:
//
//	gates:
//	  - metric: compliance_gap_detection_recall
//	    threshold: 0.95
//	    description: Agent must detect >= 95% of compliance gaps
func Parse(r io.Reader) ([]QualityGate, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var cfg config
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode gate config: %w", err)
	}

	seen := make(map[string]bool, len(cfg.Gates))
	for i, g := range cfg.Gates {
		switch {
		case g.Metric == "":
			return nil, fmt.Errorf("gate %d: metric is required", i)
		case seen[g.Metric]:
			return nil, fmt.Errorf("gate %d: duplicate metric %q", i, g.Metric)
		case g.Threshold < 0 || g.Threshold > 1:
			return nil, fmt.Errorf("gate %q: threshold %v is outside [0, 1]", g.Metric, g.Threshold)
		}
		seen[g.Metric] = true
	}
	if cfg.Gates == nil {
		cfg.Gates = []QualityGate{}
	}
	return cfg.Gates, nil
}
