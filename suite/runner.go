package suite

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/segmentio/ksuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/studentrecords/conformance/checker"
	"github.com/studentrecords/conformance/conferrors"
	"github.com/studentrecords/conformance/invoker"
)

// MaxParallel is the upper bound on concurrent cases.
const MaxParallel = 64

// Invoker sends one GET request. *invoker.Session implements it.
type Invoker interface {
	Get(ctx context.Context, path string, query map[string]string) (*invoker.Response, error)
}

// RunnerOption configures a Runner.
type RunnerOption func(*runnerConfig) error

type runnerConfig struct {
	parallel int
	filters  []*regexp.Regexp
	logger   *zap.SugaredLogger
	checker  *checker.Checker
}

// WithParallel sets how many cases run at once. The default is 1.
func WithParallel(n int) RunnerOption {
	return func(cfg *runnerConfig) error {
		if n < 1 || n > MaxParallel {
			return &conferrors.ConfigError{
				Option:  "parallel",
				Value:   n,
				Message: fmt.Sprintf("must be between 1 and %d", MaxParallel),
			}
		}
		cfg.parallel = n
		return nil
	}
}

// WithFilters keeps only the cases whose name matches at least one of the
// regular expressions. No patterns keeps every case.
func WithFilters(patterns ...string) RunnerOption {
	return func(cfg *runnerConfig) error {
		for _, p := range patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				return &conferrors.ConfigError{
					Option:  "filter",
					Value:   p,
					Message: "invalid regular expression",
					Cause:   err,
				}
			}
			cfg.filters = append(cfg.filters, re)
		}
		return nil
	}
}

// WithLogger sets the logger for case progress.
func WithLogger(logger *zap.SugaredLogger) RunnerOption {
	return func(cfg *runnerConfig) error {
		if logger != nil {
			cfg.logger = logger
		}
		return nil
	}
}

// WithChecker replaces the checker built from the plan's error schema.
func WithChecker(c *checker.Checker) RunnerOption {
	return func(cfg *runnerConfig) error {
		cfg.checker = c
		return nil
	}
}

// Runner executes a TestPlan.
type Runner struct {
	invoker  Invoker
	parallel int
	filters  []*regexp.Regexp
	logger   *zap.SugaredLogger
	checker  *checker.Checker
}

// NewRunner creates a Runner that sends every request through inv.
func NewRunner(inv Invoker, opts ...RunnerOption) (*Runner, error) {
	if inv == nil {
		return nil, &conferrors.ConfigError{Option: "invoker", Message: "invoker is required"}
	}
	cfg := &runnerConfig{
		parallel: 1,
		logger:   zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	return &Runner{
		invoker:  inv,
		parallel: cfg.parallel,
		filters:  cfg.filters,
		logger:   cfg.logger,
		checker:  cfg.checker,
	}, nil
}

// Select returns the cases of plan that pass the runner's filters, in plan order.
func (r *Runner) Select(plan *TestPlan) []Case {
	if len(r.filters) == 0 {
		return plan.Cases
	}
	var selected []Case
	for _, tc := range plan.Cases {
		for _, re := range r.filters {
			if re.MatchString(tc.Name) {
				selected = append(selected, tc)
				break
			}
		}
	}
	return selected
}

// Run executes the selected cases and reports every outcome in plan order.
// Case failures and transport errors are recorded in the report; Run only
// returns an error when ctx ends before every case has run.
func (r *Runner) Run(ctx context.Context, plan *TestPlan) (*Report, error) {
	chk := r.checker
	if chk == nil {
		chk = checker.New(checker.WithErrorSchema(plan.ErrorSchema))
	}

	cases := r.Select(plan)
	report := &Report{
		RunID:     ksuid.New().String(),
		BaseURL:   plan.BaseURL,
		Contract:  plan.Contract,
		StartedAt: time.Now(),
		Skipped:   plan.Skipped,
	}
	r.logger.Infow("starting run", "run_id", report.RunID, "cases", len(cases), "parallel", r.parallel, "base_url", plan.BaseURL)

	results := make([]CaseResult, len(cases))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.parallel)
	for i, tc := range cases {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = r.runCase(gctx, chk, tc)
			return nil
		})
	}
	err := g.Wait()

	report.Duration = time.Since(report.StartedAt)
	report.Cases = results
	if err != nil {
		// Cases that never started have no name.
		report.Cases = make([]CaseResult, 0, len(results))
		for _, res := range results {
			if res.Name != "" {
				report.Cases = append(report.Cases, res)
			}
		}
	}
	report.tally()

	if err != nil {
		return report, fmt.Errorf("suite: run interrupted: %w", err)
	}
	r.logger.Infow("run finished", "run_id", report.RunID,
		"passed", report.Summary.Passed, "failed", report.Summary.Failed, "errored", report.Summary.Errored,
		"duration", report.Duration)
	return report, nil
}

func (r *Runner) runCase(ctx context.Context, chk *checker.Checker, tc Case) CaseResult {
	res := CaseResult{
		Name:           tc.Name,
		Endpoint:       tc.Endpoint,
		Kind:           tc.Kind,
		Path:           tc.Path,
		Query:          tc.Query,
		ExpectedStatus: tc.ExpectedStatus,
	}

	resp, err := r.invoker.Get(ctx, tc.Path, tc.Query)
	if err != nil {
		res.Outcome = OutcomeErrored
		res.Error = err.Error()
		r.logger.Errorw("case errored", "case", tc.Name, "error", err)
		return res
	}

	res.StatusCode = resp.StatusCode
	res.Duration = resp.Duration
	res.APIMessage = resp.ErrorMessage()

	result := chk.Validate(resp.StatusCode, tc.ExpectedStatus, resp.CheckerBody(), tc.Schema, tc.Nullable)
	res.Violations = result.Violations
	if result.Valid {
		res.Outcome = OutcomePassed
		r.logger.Debugw("case passed", "case", tc.Name, "status", resp.StatusCode, "duration", resp.Duration)
	} else {
		res.Outcome = OutcomeFailed
		r.logger.Warnw("case failed", "case", tc.Name, "status", resp.StatusCode, "violations", len(result.Violations))
	}
	return res
}
