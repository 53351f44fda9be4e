/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/chainguard-dev/clog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"chainguard.dev/intakeevals/agent"
	"chainguard.dev/intakeevals/fixtures"
	"chainguard.dev/intakeevals/gates"
	"chainguard.dev/intakeevals/graders"
	"chainguard.dev/intakeevals/graders/codebased"
	"chainguard.dev/intakeevals/graders/modelbased"
	"chainguard.dev/intakeevals/intake"
	"chainguard.dev/intakeevals/judge"
	"chainguard.dev/intakeevals/report"
	"chainguard.dev/intakeevals/review"
	"chainguard.dev/intakeevals/runner"
)

type options struct {
	scorecard      bool
	tree           bool
	noModelGraders bool
	collection     string
	scenarios      []string
	output         string
	reviewDir      string
	gatesFile      string
	dataDir        string
	concurrency    int
	metricsFile    string
	verbose        bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "evalrunner",
		Short:         "Run the caregiver intake agent evaluation suite",
		Long:          "evalrunner drives every scenario through the intake agent, grades the results, checks the quality gates and writes the reports. It exits 1 when a quality gate fails.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := withLogger(cmd.Context(), cmd.ErrOrStderr(), opts.verbose)
			return run(ctx, opts, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.BoolVar(&opts.scorecard, "scorecard", false, "print the human-readable scorecard")
	f.BoolVar(&opts.tree, "tree", false, "print a tree summary of scenarios and gates")
	f.BoolVar(&opts.noModelGraders, "no-model-graders", false, "skip model-based (LLM) graders for fast deterministic runs")
	f.StringVarP(&opts.collection, "collection", "c", "", "run only scenarios from this collection id")
	f.StringArrayVarP(&opts.scenarios, "scenario", "s", nil, "run only this scenario id (repeatable)")
	f.StringVarP(&opts.output, "output", "o", "output/eval_report.json", "path for the JSON report")
	f.StringVar(&opts.reviewDir, "review-dir", "output/reviews", "directory or gs://bucket/prefix for manual review files; empty disables them")
	f.StringVar(&opts.gatesFile, "gates", "", "YAML file of quality gates (default built-in gates)")
	cmd.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "load scenarios and responses from this directory instead of the embedded fixtures")
	f.IntVar(&opts.concurrency, "concurrency", 1, "number of scenarios to run at once")
	f.StringVar(&opts.metricsFile, "metrics-file", "", "write grading metrics in Prometheus text format to this file")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	cmd.MarkFlagsMutuallyExclusive("collection", "scenario")

	cmd.AddCommand(newListCmd(opts))
	return cmd
}

func withLogger(ctx context.Context, w io.Writer, verbose bool) context.Context {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return clog.WithLogger(ctx, clog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

func loadCatalog(dataDir string) (*fixtures.Catalog, error) {
	if dataDir == "" {
		return fixtures.Default()
	}
	return fixtures.LoadDir(dataDir)
}

func selectScenarios(c *fixtures.Catalog, opts *options) ([]*intake.Scenario, error) {
	switch {
	case len(opts.scenarios) > 0:
		out := make([]*intake.Scenario, 0, len(opts.scenarios))
		for _, id := range opts.scenarios {
			s, err := c.Scenario(id)
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
		return out, nil
	case opts.collection != "":
		coll, err := c.Collection(opts.collection)
		if err != nil {
			return nil, err
		}
		out := make([]*intake.Scenario, 0, len(coll.Scenarios))
		for i := range coll.Scenarios {
			out = append(out, &coll.Scenarios[i])
		}
		return out, nil
	default:
		return c.Scenarios(), nil
	}
}

func newJudge(ctx context.Context, skip bool) (judge.Interface, error) {
	if skip {
		return judge.Unavailable(), nil
	}
	cfg, err := judge.LoadConfig(ctx)
	if err != nil {
		return nil, err
	}
	return judge.New(ctx, cfg)
}

// newRegistry returns every grader the suite knows about.
func newRegistry(j judge.Interface) (*graders.Registry, error) {
	scheduling, err := modelbased.NewSchedulingHelpfulness(j)
	if err != nil {
		return nil, err
	}
	safeArea, err := modelbased.NewSafeAreaSuggestionQuality(j)
	if err != nil {
		return nil, err
	}
	return graders.NewRegistry(
		codebased.ComplianceGap{},
		codebased.ComplianceRemediation{},
		codebased.GeoRestriction{},
		scheduling,
		safeArea,
	)
}

func loadGates(path string) (*gates.Evaluator, error) {
	if path == "" {
		return gates.NewEvaluator(), nil
	}
	gs, err := gates.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return gates.NewEvaluatorFrom(gs), nil
}

func run(ctx context.Context, opts *options, stdout io.Writer) error {
	log := clog.FromContext(ctx)

	catalog, err := loadCatalog(opts.dataDir)
	if err != nil {
		return usageError("failed to load scenarios", err)
	}
	scenarios, err := selectScenarios(catalog, opts)
	if err != nil {
		return usageError("failed to select scenarios", err)
	}
	evaluator, err := loadGates(opts.gatesFile)
	if err != nil {
		return usageError("failed to load quality gates", err)
	}
	j, err := newJudge(ctx, opts.noModelGraders)
	if err != nil {
		return usageError("failed to configure judge (pass --no-model-graders to run without one)", err)
	}
	registry, err := newRegistry(j)
	if err != nil {
		return usageError("failed to build grader registry", err)
	}

	reg := prometheus.NewRegistry()
	metrics := graders.NewMetrics(reg)

	execOpts := []runner.Option{
		runner.WithSkipModelBased(opts.noModelGraders),
		runner.WithConcurrency(opts.concurrency),
		runner.WithMetrics(metrics),
	}
	if opts.reviewDir != "" {
		sink, err := review.New(ctx, opts.reviewDir)
		if err != nil {
			return usageError("failed to configure review sink", err)
		}
		execOpts = append(execOpts, runner.WithReviewSink(sink))
	}
	executor, err := runner.New(agent.NewMock(catalog.Responses()), registry, execOpts...)
	if err != nil {
		return usageError("failed to create executor", err)
	}

	log.With("scenarios", len(scenarios)).With("graders", registry.Names()).Info("Starting evaluation")
	results, err := executor.RunScenarios(ctx, scenarios)
	if err != nil {
		return usageError("evaluation aborted", err)
	}
	gateReport := evaluator.WithMetrics(metrics).Evaluate(results)

	if err := report.WriteJSONFile(opts.output, results, gateReport); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "JSON report written to: %s\n", opts.output)

	if opts.scorecard {
		if err := report.Scorecard(stdout, results, gateReport); err != nil {
			return err
		}
	}
	if opts.tree {
		fmt.Fprintln(stdout, report.Tree(results, gateReport))
	}
	if opts.metricsFile != "" {
		if err := prometheus.WriteToTextfile(opts.metricsFile, reg); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}

	if !gateReport.AllPassed() {
		return &exitError{code: exitGatesFailed, msg: "quality gates failed"}
	}
	log.Info("All quality gates passed")
	return nil
}
