/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"chainguard.dev/intakeevals/gates"
	"chainguard.dev/intakeevals/graders"
	"chainguard.dev/intakeevals/runner"
)

// Document is the JSON report layout.
type Document struct {
	Summary      Summary         `json:"summary"`
	QualityGates []GateEntry     `json:"quality_gates"`
	Scenarios    []ScenarioEntry `json:"scenarios"`
}

// Summary holds suite-wide counts.
type Summary struct {
	TotalScenarios     int  `json:"total_scenarios"`
	Passed             int  `json:"passed"`
	Failed             int  `json:"failed"`
	NeedsReview        int  `json:"needs_review"`
	QualityGatesPassed bool `json:"quality_gates_passed"`
}

// GateEntry is one evaluated gate.
type GateEntry struct {
	Metric      string  `json:"metric"`
	Threshold   float64 `json:"threshold"`
	Actual      float64 `json:"actual"`
	Passed      bool    `json:"passed"`
	Description string  `json:"description"`
}

// ScenarioEntry is one scenario verdict.
type ScenarioEntry struct {
	ScenarioID        string        `json:"scenario_id"`
	ScenarioName      string        `json:"scenario_name"`
	Passed            bool          `json:"passed"`
	OverallScore      float64       `json:"overall_score"`
	NeedsManualReview bool          `json:"needs_manual_review"`
	ReviewReasons     []string      `json:"review_reasons"`
	Graders           []GraderEntry `json:"graders"`
}

// GraderEntry is one grader verdict within a scenario.
type GraderEntry struct {
	GraderName      string                   `json:"grader_name"`
	Passed          bool                     `json:"passed"`
	Score           float64                  `json:"score"`
	Details         string                   `json:"details"`
	CriterionScores []graders.CriterionScore `json:"criterion_scores"`
}

// Build assembles the JSON report document.
func Build(results []*runner.ScenarioResult, gateReport *gates.Report) *Document {
	doc := &Document{
		Summary: Summary{
			TotalScenarios:     len(results),
			QualityGatesPassed: gateReport.AllPassed(),
		},
		QualityGates: make([]GateEntry, 0, len(gateReport.Results)),
		Scenarios:    make([]ScenarioEntry, 0, len(results)),
	}

	for _, gr := range gateReport.Results {
		doc.QualityGates = append(doc.QualityGates, GateEntry{
			Metric:      gr.Gate.Metric,
			Threshold:   gr.Gate.Threshold,
			Actual:      round4(gr.Actual),
			Passed:      gr.Passed,
			Description: gr.Gate.Description,
		})
	}

	for _, r := range results {
		if r.Passed {
			doc.Summary.Passed++
		} else {
			doc.Summary.Failed++
		}
		if r.NeedsManualReview {
			doc.Summary.NeedsReview++
		}

		entry := ScenarioEntry{
			ScenarioID:        r.ScenarioID,
			ScenarioName:      r.ScenarioName,
			Passed:            r.Passed,
			OverallScore:      round4(r.OverallScore()),
			NeedsManualReview: r.NeedsManualReview,
			ReviewReasons:     append([]string{}, r.ReviewReasons...),
			Graders:           make([]GraderEntry, 0, len(r.GraderResults)),
		}
		for _, gr := range r.GraderResults {
			entry.Graders = append(entry.Graders, GraderEntry{
				GraderName:      gr.GraderName,
				Passed:          gr.Passed,
				Score:           round4(gr.Score),
				Details:         gr.Details,
				CriterionScores: append([]graders.CriterionScore{}, gr.CriterionScores...),
			})
		}
		doc.Scenarios = append(doc.Scenarios, entry)
	}
	return doc
}

// WriteJSON writes the indented JSON report to w.
func WriteJSON(w io.Writer, results []*runner.ScenarioResult, gateReport *gates.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Build(results, gateReport)); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// WriteJSONFile writes the JSON report to path, creating parent directories.
func WriteJSONFile(path string, results []*runner.ScenarioResult, gateReport *gates.Report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	if err := WriteJSON(f, results, gateReport); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close report: %w", err)
	}
	return nil
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
