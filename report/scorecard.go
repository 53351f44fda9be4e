/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"chainguard.dev/intakeevals/gates"
	"chainguard.dev/intakeevals/runner"
)

const ruleWidth = 70

// Scorecard writes the human-readable scorecard to w.
func Scorecard(w io.Writer, results []*runner.ScenarioResult, gateReport *gates.Report) error {
	var passed, needsReview int
	for _, r := range results {
		if r.Passed {
			passed++
		}
		if r.NeedsManualReview {
			needsReview++
		}
	}

	heavy := strings.Repeat("=", ruleWidth)
	light := strings.Repeat("-", ruleWidth)

	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\n  CAREGIVER INTAKE AGENT EVALUATION SCORECARD\n%s\n\n", heavy, heavy)
	fmt.Fprintf(&b, "  Scenarios: %d total, %d passed, %d failed\n", len(results), passed, len(results)-passed)
	if needsReview > 0 {
		fmt.Fprintf(&b, "  Manual review needed: %d\n", needsReview)
	}
	fmt.Fprintf(&b, "\n%s\n", light)

	for _, r := range results {
		fmt.Fprintf(&b, "  %s %s (%s)\n", marker(r.Passed), r.ScenarioName, r.ScenarioID)
		fmt.Fprintf(&b, "      Status: %s  |  Score: %.2f\n", status(r.Passed), r.OverallScore())
		for _, gr := range r.GraderResults {
			grStatus := "pass"
			if !gr.Passed {
				grStatus = "FAIL"
			}
			fmt.Fprintf(&b, "      - %s: %s (%.2f)\n", gr.GraderName, grStatus, gr.Score)
			for _, cs := range gr.CriterionScores {
				fmt.Fprintf(&b, "        %s: %d/%d\n", cs.Criterion, cs.Score, cs.MaxScore)
			}
		}
		if r.NeedsManualReview {
			fmt.Fprintf(&b, "      >> Manual review: %s\n", strings.Join(r.ReviewReasons, ", "))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "%s\n  QUALITY GATES\n%s\n", light, light)
	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write scorecard: %w", err)
	}

	table := gateTable(w)
	for _, gr := range gateReport.Results {
		if err := table.Append([]string{
			marker(gr.Passed),
			gr.Gate.Metric,
			fmt.Sprintf("%.2f", gr.Gate.Threshold),
			fmt.Sprintf("%.4f", gr.Actual),
			status(gr.Passed),
		}); err != nil {
			return fmt.Errorf("failed to add gate row: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render gates: %w", err)
	}

	footer := fmt.Sprintf("\n%s\n  OVERALL: %s\n%s\n\n", light, status(gateReport.AllPassed()), heavy)
	if _, err := io.WriteString(w, footer); err != nil {
		return fmt.Errorf("failed to write scorecard: %w", err)
	}
	return nil
}

// gateTable is a markdown table of gates with the numeric columns right aligned.
func gateTable(w io.Writer) *tablewriter.Table {
	columns := []tw.Align{tw.AlignLeft, tw.AlignLeft, tw.AlignRight, tw.AlignRight, tw.AlignLeft}
	cfg := tablewriter.Config{
		Header: tw.CellConfig{
			Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			Formatting: tw.CellFormatting{AutoFormat: tw.Off},
		},
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignLeft, PerColumn: columns},
		},
		MaxWidth: 100,
		Behavior: tw.Behavior{TrimSpace: tw.Off},
	}
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(cfg),
		tablewriter.WithHeader([]string{"", "Metric", "Threshold", "Actual", "Status"}),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRendition(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleMarkdown),
			Borders: tw.Border{Left: tw.On, Top: tw.Off, Right: tw.On, Bottom: tw.Off},
		}),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)
}

func marker(passed bool) string {
	if passed {
		return "[+]"
	}
	return "[-]"
}

func status(passed bool) string {
	if passed {
		return "PASS"
	}
	return "FAIL"
}
