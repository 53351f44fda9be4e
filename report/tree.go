/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package report

import (
	"fmt"

	"chainguard.dev/sdk/pathtree"

	"chainguard.dev/intakeevals/gates"
	"chainguard.dev/intakeevals/runner"
)

// Tree renders a hierarchical summary: each scenario with its graders under
// /scenarios and each gate under /gates. Failing entries are marked.
func Tree(results []*runner.ScenarioResult, gateReport *gates.Report) string {
	tree := pathtree.New()
	tree.PrintOption = pathtree.KeyValueLabel

	for _, r := range results {
		path := "/scenarios/" + r.ScenarioID
		value := fmt.Sprintf("%s %.2f", status(r.Passed), r.OverallScore())
		label := fmt.Sprintf("(%d graders)", len(r.GraderResults))
		if r.NeedsManualReview {
			label += " needs review"
		}
		_ = tree.Add(path, value, label)

		for _, gr := range r.GraderResults {
			_ = tree.Add(path+"/"+gr.GraderName, fmt.Sprintf("%s %.2f", status(gr.Passed), gr.Score), gr.Details)
		}
	}

	for _, gr := range gateReport.Results {
		value := fmt.Sprintf("%s %.4f", status(gr.Passed), gr.Actual)
		label := fmt.Sprintf(">= %.2f", gr.Gate.Threshold)
		_ = tree.Add("/gates/"+gr.Gate.Metric, value, label)
	}
	return tree.String()
}
