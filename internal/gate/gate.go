// Package gate implements the readiness gate: it polls a set of named
// dependencies until every one reports healthy, a per-dependency attempt
// budget runs out, or a shared wall-clock deadline passes.
//
// Dependencies are polled concurrently and independently. The only
// cross-dependency coordination is the deadline instant, which is fixed at
// gate start and only ever read, so no locking is needed beyond the
// goroutine join.
package gate

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/wildme/testgate/internal/clock"
	"github.com/wildme/testgate/internal/probe"
)

// Dependency is one service the gate must see healthy before tests run.
// Built once from configuration at startup and never mutated.
type Dependency struct {
	Name           string
	Probe          probe.Spec
	MaxAttempts    int
	Interval       time.Duration
	AttemptTimeout time.Duration
}

// Reason explains why a dependency's retry loop stopped without success.
type Reason string

// Stop reasons for a failed dependency.
const (
	// ReasonAttemptsExhausted means the per-dependency attempt budget ran out.
	ReasonAttemptsExhausted Reason = "attempts_exhausted"

	// ReasonDeadlineExceeded means the shared gate deadline passed first.
	ReasonDeadlineExceeded Reason = "deadline_exceeded"

	// ReasonCanceled means the run was interrupted while waiting.
	ReasonCanceled Reason = "canceled"
)

// Status is the terminal state of one dependency: its final probe result
// plus, when it failed, why the loop gave up.
type Status struct {
	probe.Result
	Reason Reason `json:"reason,omitempty"`
}

// Report aggregates the terminal status of every dependency for one gate
// run. It is constructed once and never mutated.
type Report struct {
	AllReady bool          `json:"all_ready"`
	Statuses []Status      `json:"dependencies"`
	Elapsed  time.Duration `json:"elapsed"`
}

// Failed returns the statuses of dependencies that never became healthy,
// in configuration order.
func (r Report) Failed() []Status {
	var failed []Status
	for _, s := range r.Statuses {
		if !s.OK {
			failed = append(failed, s)
		}
	}
	return failed
}

// Status returns the terminal status for the named dependency.
func (r Report) Status(name string) (Status, bool) {
	for _, s := range r.Statuses {
		if s.Dependency == name {
			return s, true
		}
	}
	return Status{}, false
}

// Gate polls dependencies until they are all ready or the budget runs out.
type Gate struct {
	check  probe.CheckFunc
	clk    clock.Clock
	logger zerolog.Logger
}

// Option customizes a Gate.
type Option func(*Gate)

// WithChecker replaces the probe implementation. Used by tests to script
// per-attempt outcomes.
func WithChecker(check probe.CheckFunc) Option {
	return func(g *Gate) { g.check = check }
}

// WithClock replaces the time source. Used by tests to drive retry
// schedules without real sleeps.
func WithClock(clk clock.Clock) Option {
	return func(g *Gate) { g.clk = clk }
}

// New creates a Gate with the real probe implementation and system clock.
func New(logger zerolog.Logger, opts ...Option) *Gate {
	g := &Gate{
		check:  probe.Check,
		clk:    clock.RealClock{},
		logger: logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// WaitAll polls every dependency until it succeeds or permanently fails,
// and reports the aggregate. A deadline of zero means no shared deadline;
// only per-dependency attempt budgets apply.
//
// One dependency failing does not cancel the others: each loop runs to its
// own terminal state so the report shows the full picture, the way a CI
// operator wants to read it.
func (g *Gate) WaitAll(ctx context.Context, deps []Dependency, deadline time.Duration) Report {
	start := g.clk.Now()
	var deadlineAt time.Time
	if deadline > 0 {
		deadlineAt = start.Add(deadline)
	}

	g.logger.Info().
		Int("dependencies", len(deps)).
		Dur("deadline", deadline).
		Msg("waiting for dependencies")

	statuses := make([]Status, len(deps))
	var eg errgroup.Group
	for i, dep := range deps {
		eg.Go(func() error {
			statuses[i] = g.waitOne(ctx, dep, deadlineAt)
			return nil
		})
	}
	_ = eg.Wait()

	report := Report{
		AllReady: true,
		Statuses: statuses,
		Elapsed:  g.clk.Now().Sub(start),
	}
	for _, s := range statuses {
		if !s.OK {
			report.AllReady = false
			break
		}
	}

	g.logger.Info().
		Bool("all_ready", report.AllReady).
		Dur("elapsed", report.Elapsed).
		Msg("readiness gate finished")

	return report
}

// waitOne runs a single dependency's retry loop to its terminal state.
func (g *Gate) waitOne(ctx context.Context, dep Dependency, deadlineAt time.Time) Status {
	logger := g.logger.With().
		Str("dependency", dep.Name).
		Str("target", dep.Probe.Target()).
		Logger()

	for attempt := 1; ; attempt++ {
		res := g.check(ctx, dep.Probe, dep.AttemptTimeout)
		res.Dependency = dep.Name
		res.Attempt = attempt

		if res.OK {
			logger.Info().
				Int("attempt", attempt).
				Dur("latency", res.Latency).
				Msg("dependency ready")
			return Status{Result: res}
		}

		// Per-attempt failures are diagnostic only; the loop decides.
		logger.Debug().
			Int("attempt", attempt).
			Str("error", res.Err).
			Msg("probe attempt failed")

		// Attempt exhaustion is checked before the deadline so that a loop
		// hitting both on the same attempt reports exhausted attempts.
		if attempt >= dep.MaxAttempts {
			logger.Warn().
				Int("attempts", attempt).
				Str("error", res.Err).
				Msg("dependency failed: attempts exhausted")
			return Status{Result: res, Reason: ReasonAttemptsExhausted}
		}

		if !deadlineAt.IsZero() && !g.clk.Now().Before(deadlineAt) {
			logger.Warn().
				Int("attempts", attempt).
				Str("error", res.Err).
				Msg("dependency failed: gate deadline exceeded")
			return Status{Result: res, Reason: ReasonDeadlineExceeded}
		}

		select {
		case <-ctx.Done():
			logger.Warn().Int("attempts", attempt).Msg("dependency wait canceled")
			return Status{Result: res, Reason: ReasonCanceled}
		case <-g.clk.After(dep.Interval):
		}

		if !deadlineAt.IsZero() && !g.clk.Now().Before(deadlineAt) {
			logger.Warn().
				Int("attempts", attempt).
				Str("error", res.Err).
				Msg("dependency failed: gate deadline exceeded")
			return Status{Result: res, Reason: ReasonDeadlineExceeded}
		}
	}
}
