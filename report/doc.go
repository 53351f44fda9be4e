/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package report renders scenario results and the quality gate report.

# Formats

  - WriteJSON / WriteJSONFile: the machine-readable report with a summary,
    every gate and every scenario. Scores are rounded to four decimals.
  - Scorecard: a terminal scorecard listing each scenario and its graders,
    followed by a markdown table of the quality gates.
  - Tree: a compact hierarchical summary keyed by scenario and grader.

# Usage

	results, err := executor.RunScenarios(ctx, scenarios)
	if err != nil {
		return err
	}
	gateReport := gates.NewEvaluator().Evaluate(results)

	if err := report.WriteJSONFile("output/eval_report.json", results, gateReport); err != nil {
		return err
	}
	report.Scorecard(os.Stdout, results, gateReport)

Renderers only read runner.ScenarioResult and gates.Report and never modify them.
*/
package report
