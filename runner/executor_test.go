/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package runner_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"chainguard.dev/intakeevals/agent"
	"chainguard.dev/intakeevals/fixtures"
	"chainguard.dev/intakeevals/graders"
	"chainguard.dev/intakeevals/graders/codebased"
	"chainguard.dev/intakeevals/intake"
	"chainguard.dev/intakeevals/runner"
)

type stubGrader struct {
	name   string
	kind   graders.Kind
	passed bool
	err    error

	// resultName overrides the name stamped on the returned result.
	resultName string
}

func (s stubGrader) Name() string       { return s.name }
func (s stubGrader) Kind() graders.Kind { return s.kind }
func (s stubGrader) Grade(context.Context, *graders.Context) (*graders.Result, error) {
	if s.err != nil {
		return nil, s.err
	}
	score := 0.0
	if s.passed {
		score = 1
	}
	name := s.name
	if s.resultName != "" {
		name = s.resultName
	}
	return &graders.Result{GraderName: name, Passed: s.passed, Score: score}, nil
}

type recordingSink struct {
	mu  sync.Mutex
	ids []string
	err error
}

func (r *recordingSink) Generate(_ context.Context, s *intake.Scenario, _ *intake.AgentOutput, _ *runner.ScenarioResult) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, s.ID)
	return "review_" + s.ID + ".json", r.err
}

func echoAgent() agent.Interface {
	m := agent.NewMock(nil)
	return runFunc(func(ctx context.Context, s *intake.Scenario) (*intake.AgentOutput, error) {
		if s.ID == "broken" {
			return m.Run(ctx, s)
		}
		return &intake.AgentOutput{
			Transcript:   &intake.Transcript{ScenarioID: s.ID},
			IntakeRecord: &intake.IntakeRecord{},
			ActionLog:    &intake.ActionLog{ScenarioID: s.ID},
		}, nil
	})
}

type runFunc func(context.Context, *intake.Scenario) (*intake.AgentOutput, error)

func (f runFunc) Run(ctx context.Context, s *intake.Scenario) (*intake.AgentOutput, error) {
	return f(ctx, s)
}

func newExecutor(t *testing.T, a agent.Interface, gs []graders.Grader, opts ...runner.Option) *runner.Executor {
	t.Helper()
	reg, err := graders.NewRegistry(gs...)
	if err != nil {
		t.Fatalf("NewRegistry(): %v", err)
	}
	e, err := runner.New(a, reg, opts...)
	if err != nil {
		t.Fatalf("New(): %v", err)
	}
	return e
}

func TestNew(t *testing.T) {
	t.Parallel()

	reg, err := graders.NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry(): %v", err)
	}
	if _, err := runner.New(nil, reg); err == nil {
		t.Error("New(nil agent): got = nil, wanted error")
	}
	if _, err := runner.New(echoAgent(), nil); err == nil {
		t.Error("New(nil registry): got = nil, wanted error")
	}
	if _, err := runner.New(echoAgent(), reg, runner.WithConcurrency(0)); err == nil {
		t.Error("WithConcurrency(0): got = nil, wanted error")
	}
}

func TestRunScenarioVerdicts(t *testing.T) {
	t.Parallel()

	gs := []graders.Grader{
		stubGrader{name: "code_pass", passed: true},
		stubGrader{name: "code_fail"},
		stubGrader{name: "model_pass", kind: graders.ModelBased, passed: true},
		stubGrader{name: "model_fail", kind: graders.ModelBased},
		stubGrader{name: "code_error", err: errors.New("boom")},
	}

	tests := []struct {
		name        string
		graders     []string
		skipModel   bool
		wantGraders []string
		wantPassed  bool
		wantReasons []string
	}{{
		name:        "no graders passes vacuously",
		wantGraders: []string{},
		wantPassed:  true,
		wantReasons: []string{},
	}, {
		name:        "all pass",
		graders:     []string{"code_pass", "model_pass"},
		wantGraders: []string{"code_pass", "model_pass"},
		wantPassed:  true,
		wantReasons: []string{},
	}, {
		name:        "unregistered graders are skipped",
		graders:     []string{"code_pass", "not_registered"},
		wantGraders: []string{"code_pass"},
		wantPassed:  true,
		wantReasons: []string{},
	}, {
		name:        "code fails, model passes",
		graders:     []string{"code_fail", "model_pass"},
		wantGraders: []string{"code_fail", "model_pass"},
		wantReasons: []string{"1 grader(s) failed: code_fail", runner.DisagreementReason},
	}, {
		name:        "both groups fail agree",
		graders:     []string{"code_fail", "model_fail"},
		wantGraders: []string{"code_fail", "model_fail"},
		wantReasons: []string{"2 grader(s) failed: code_fail, model_fail"},
	}, {
		name:        "only code graders cannot disagree",
		graders:     []string{"code_pass", "code_fail"},
		wantGraders: []string{"code_pass", "code_fail"},
		wantReasons: []string{"1 grader(s) failed: code_fail"},
	}, {
		name:        "model graders skipped",
		graders:     []string{"code_pass", "model_fail"},
		skipModel:   true,
		wantGraders: []string{"code_pass"},
		wantPassed:  true,
		wantReasons: []string{},
	}, {
		name:        "grader error becomes failure",
		graders:     []string{"code_error"},
		wantGraders: []string{"code_error"},
		wantReasons: []string{"1 grader(s) failed: code_error"},
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := newExecutor(t, echoAgent(), gs, runner.WithSkipModelBased(tt.skipModel))
			got, err := e.RunScenario(context.Background(), &intake.Scenario{ID: "s", Name: "S", GraderNames: tt.graders})
			if err != nil {
				t.Fatalf("RunScenario(): %v", err)
			}

			names := make([]string, 0, len(got.GraderResults))
			for _, r := range got.GraderResults {
				names = append(names, r.GraderName)
			}
			if diff := cmp.Diff(tt.wantGraders, names); diff != "" {
				t.Errorf("graders (-want +got):\n%s", diff)
			}
			if got.Passed != tt.wantPassed {
				t.Errorf("Passed: got = %t, wanted = %t", got.Passed, tt.wantPassed)
			}
			if diff := cmp.Diff(tt.wantReasons, got.ReviewReasons); diff != "" {
				t.Errorf("ReviewReasons (-want +got):\n%s", diff)
			}
			if want := len(tt.wantReasons) > 0; got.NeedsManualReview != want {
				t.Errorf("NeedsManualReview: got = %t, wanted = %t", got.NeedsManualReview, want)
			}
		})
	}
}

func TestRunScenarioGraderErrorDetails(t *testing.T) {
	t.Parallel()

	e := newExecutor(t, echoAgent(), []graders.Grader{stubGrader{name: "code_error", err: errors.New("boom")}})
	got, err := e.RunScenario(context.Background(), &intake.Scenario{ID: "s", GraderNames: []string{"code_error"}})
	if err != nil {
		t.Fatalf("RunScenario(): %v", err)
	}
	r := got.GraderResults[0]
	if r.Score != 0 || r.Passed {
		t.Errorf("result: got = (%v, %t), wanted = (0, false)", r.Score, r.Passed)
	}
	if !strings.Contains(r.Details, "boom") {
		t.Errorf("Details: got = %q, wanted it to mention the error", r.Details)
	}
}

func TestRunScenarioMisnamedResult(t *testing.T) {
	t.Parallel()

	e := newExecutor(t, echoAgent(), []graders.Grader{
		stubGrader{name: "code_pass", passed: true, resultName: "model_pass"},
	})
	got, err := e.RunScenario(context.Background(), &intake.Scenario{ID: "s", GraderNames: []string{"code_pass"}})
	if err != nil {
		t.Fatalf("RunScenario(): %v", err)
	}
	r := got.GraderResults[0]
	if r.GraderName != "code_pass" {
		t.Errorf("GraderName: got = %q, wanted = %q", r.GraderName, "code_pass")
	}
	if r.Passed || r.Score != 0 {
		t.Errorf("result: got = (%v, %t), wanted = (0, false)", r.Score, r.Passed)
	}
	if !strings.Contains(r.Details, `"model_pass"`) {
		t.Errorf("Details: got = %q, wanted it to name the mismatched result", r.Details)
	}
	if got.Passed {
		t.Error("Passed: got = true, wanted = false")
	}
}

func TestRunScenarioAgentError(t *testing.T) {
	t.Parallel()

	e := newExecutor(t, echoAgent(), nil)
	_, err := e.RunScenario(context.Background(), &intake.Scenario{ID: "broken"})
	if !errors.Is(err, agent.ErrUnknownScenario) {
		t.Errorf("RunScenario(): got = %v, wanted %v", err, agent.ErrUnknownScenario)
	}
	if _, err := e.RunScenario(context.Background(), nil); err == nil {
		t.Error("RunScenario(nil): got = nil, wanted error")
	}
}

func TestReviewSink(t *testing.T) {
	t.Parallel()

	gs := []graders.Grader{
		stubGrader{name: "good", passed: true},
		stubGrader{name: "bad"},
	}
	for _, sinkErr := range []error{nil, errors.New("disk full")} {
		sink := &recordingSink{err: sinkErr}
		e := newExecutor(t, echoAgent(), gs, runner.WithReviewSink(sink))

		scenarios := []*intake.Scenario{
			{ID: "clean", GraderNames: []string{"good"}},
			{ID: "flagged", GraderNames: []string{"good", "bad"}},
		}
		results, err := e.RunScenarios(context.Background(), scenarios)
		if err != nil {
			t.Fatalf("RunScenarios(): %v", err)
		}
		if diff := cmp.Diff([]string{"flagged"}, sink.ids); diff != "" {
			t.Errorf("sink calls (-want +got):\n%s", diff)
		}
		if !results[1].NeedsManualReview {
			t.Error("flagged: got NeedsManualReview = false, wanted true")
		}
	}
}

func TestRunScenariosOrderAndIdempotence(t *testing.T) {
	t.Parallel()

	catalog, err := fixtures.Default()
	if err != nil {
		t.Fatalf("fixtures.Default(): %v", err)
	}
	gs := []graders.Grader{codebased.ComplianceGap{}, codebased.ComplianceRemediation{}, codebased.GeoRestriction{}}
	scenarios := catalog.Scenarios()

	sequential := newExecutor(t, agent.NewMock(catalog.Responses()), gs, runner.WithSkipModelBased(true))
	parallel := newExecutor(t, agent.NewMock(catalog.Responses()), gs, runner.WithSkipModelBased(true), runner.WithConcurrency(4))

	first, err := sequential.RunScenarios(context.Background(), scenarios)
	if err != nil {
		t.Fatalf("RunScenarios(): %v", err)
	}
	second, err := parallel.RunScenarios(context.Background(), scenarios)
	if err != nil {
		t.Fatalf("RunScenarios(): %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("concurrent run differs (-sequential +parallel):\n%s", diff)
	}
	for i, r := range second {
		if r.ScenarioID != scenarios[i].ID {
			t.Errorf("result %d: got = %q, wanted = %q", i, r.ScenarioID, scenarios[i].ID)
		}
	}
}

func TestRunScenariosFixtures(t *testing.T) {
	t.Parallel()

	catalog, err := fixtures.Default()
	if err != nil {
		t.Fatalf("fixtures.Default(): %v", err)
	}
	e := newExecutor(t, agent.NewMock(catalog.Responses()),
		[]graders.Grader{codebased.ComplianceGap{}, codebased.ComplianceRemediation{}, codebased.GeoRestriction{}},
		runner.WithSkipModelBased(true))

	results, err := e.RunScenarios(context.Background(), catalog.Scenarios())
	if err != nil {
		t.Fatalf("RunScenarios(): %v", err)
	}

	got := make(map[string]bool, len(results))
	for _, r := range results {
		got[r.ScenarioID] = r.Passed
		if r.ScenarioID == "geo_no_alternatives" {
			if score := r.OverallScore(); score != 0 {
				t.Errorf("geo_no_alternatives score: got = %v, wanted = 0", score)
			}
			if !r.NeedsManualReview {
				t.Error("geo_no_alternatives: got NeedsManualReview = false, wanted true")
			}
		}
	}
	want := map[string]bool{
		"compliance_cpr_missing": true,
		"compliance_cpr_unknown": true,
		"compliance_cpr_present": true,
		"geo_over_restricted":    true,
		"geo_no_alternatives":    false,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("passed (-want +got):\n%s", diff)
	}
}

func TestRunScenariosAgentErrorAborts(t *testing.T) {
	t.Parallel()

	e := newExecutor(t, echoAgent(), nil, runner.WithConcurrency(2))
	_, err := e.RunScenarios(context.Background(), []*intake.Scenario{{ID: "ok"}, {ID: "broken"}})
	if !errors.Is(err, agent.ErrUnknownScenario) {
		t.Errorf("RunScenarios(): got = %v, wanted %v", err, agent.ErrUnknownScenario)
	}
}

func TestOverallScore(t *testing.T) {
	t.Parallel()

	if got := (&runner.ScenarioResult{}).OverallScore(); got != 0 {
		t.Errorf("empty OverallScore(): got = %v, wanted = 0", got)
	}
	r := &runner.ScenarioResult{GraderResults: []*graders.Result{{Score: 1}, {Score: 0.5}}}
	if got := r.OverallScore(); got != 0.75 {
		t.Errorf("OverallScore(): got = %v, wanted = 0.75", got)
	}
}
