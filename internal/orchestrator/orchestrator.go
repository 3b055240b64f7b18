// Package orchestrator composes the readiness gate and the suite dispatcher
// into the entrypoint state machine: validate the selector, block until the
// stack is healthy, dispatch the suite, and surface the suite's own exit
// code to the caller.
package orchestrator

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/wildme/testgate/internal/constants"
	"github.com/wildme/testgate/internal/errors"
	"github.com/wildme/testgate/internal/gate"
	"github.com/wildme/testgate/internal/suite"
)

// State tracks where an orchestrator run is in its lifecycle. States only
// ever advance; there are no retries at this level.
type State string

// Orchestrator lifecycle states.
const (
	StateIdle              State = "idle"
	StateAwaitingReadiness State = "awaiting_readiness"
	StateReady             State = "ready"
	StateNotReady          State = "not_ready"
	StateDispatching       State = "dispatching"
	StateDone              State = "done"
	StateFailed            State = "failed"
)

// ReadinessWaiter is the gate contract the orchestrator depends on.
type ReadinessWaiter interface {
	WaitAll(ctx context.Context, deps []gate.Dependency, deadline time.Duration) gate.Report
}

// SuiteRunner is the dispatcher contract the orchestrator depends on.
type SuiteRunner interface {
	Resolve(sel suite.Selector, passthrough []string) (suite.Invocation, error)
	Run(ctx context.Context, inv suite.Invocation) (suite.Outcome, error)
}

// Orchestrator wires the gate and dispatcher together for one run. Each
// invocation builds its own Orchestrator and discards it; nothing is shared
// across runs.
type Orchestrator struct {
	gate       ReadinessWaiter
	dispatcher SuiteRunner
	logger     zerolog.Logger
	out        io.Writer
	state      State
}

// New creates an Orchestrator. out receives the human-readable readiness
// report on failure; it defaults to stderr so the report lands next to the
// diagnostics rather than in the captured test output.
func New(g ReadinessWaiter, d SuiteRunner, logger zerolog.Logger, out io.Writer) *Orchestrator {
	if out == nil {
		out = os.Stderr
	}
	return &Orchestrator{
		gate:       g,
		dispatcher: d,
		logger:     logger,
		out:        out,
		state:      StateIdle,
	}
}

// State returns the current lifecycle state.
func (o *Orchestrator) State() State {
	return o.state
}

// Run drives one full orchestration: resolve, gate, dispatch. The returned
// int is the process exit code; when readiness passes it is the dispatched
// runner's exit code verbatim.
//
// Selector resolution happens before any polling so a typo fails in
// milliseconds instead of after a five-minute wait.
func (o *Orchestrator) Run(ctx context.Context, sel suite.Selector, passthrough []string, deps []gate.Dependency, deadline time.Duration) (int, error) {
	runID := uuid.NewString()
	logger := o.logger.With().Str("run_id", runID).Logger()

	o.transition(logger, StateAwaitingReadiness)

	inv, err := o.dispatcher.Resolve(sel, passthrough)
	if err != nil {
		o.transition(logger, StateFailed)
		return constants.ExitUsage, errors.NewExitCodeError(constants.ExitUsage, err)
	}

	report := o.gate.WaitAll(ctx, deps, deadline)
	if !report.AllReady {
		o.transition(logger, StateNotReady)
		o.printReport(report)
		o.transition(logger, StateFailed)
		if ctx.Err() != nil {
			return constants.ExitNotReady, errors.NewExitCodeError(constants.ExitNotReady,
				errors.Wrap(errors.ErrInterrupted, "readiness gate"))
		}
		return constants.ExitNotReady, errors.NewExitCodeError(constants.ExitNotReady, o.notReadyError(report))
	}
	o.transition(logger, StateReady)

	o.transition(logger, StateDispatching)
	outcome, err := o.dispatcher.Run(ctx, inv)
	if err != nil {
		o.transition(logger, StateFailed)
		return outcome.ExitCode, errors.NewExitCodeError(outcome.ExitCode, err)
	}

	o.transition(logger, StateDone)
	logger.Info().
		Str("selector", outcome.Selector.String()).
		Int("exit_code", outcome.ExitCode).
		Dur("duration", outcome.Duration).
		Msg("run complete")

	if outcome.ExitCode != 0 {
		// Test failures are outcomes, not orchestrator errors: the code
		// passes through so CI sees the genuine result.
		return outcome.ExitCode, errors.NewExitCodeError(outcome.ExitCode,
			errors.Wrapf(errors.ErrSuiteFailed, "suite %q exited %d", outcome.Selector, outcome.ExitCode))
	}
	return constants.ExitSuccess, nil
}

// CheckOnly runs just the readiness gate and prints the report. Used by the
// check subcommand; exit code 0 when all dependencies are healthy.
func (o *Orchestrator) CheckOnly(ctx context.Context, deps []gate.Dependency, deadline time.Duration) (gate.Report, int) {
	report := o.gate.WaitAll(ctx, deps, deadline)
	if report.AllReady {
		return report, constants.ExitSuccess
	}
	return report, constants.ExitNotReady
}

// notReadyError summarizes failed dependencies for the terminal error.
func (o *Orchestrator) notReadyError(report gate.Report) error {
	failed := report.Failed()
	names := make([]string, 0, len(failed))
	for _, s := range failed {
		names = append(names, s.Dependency)
	}
	return errors.Wrapf(errors.ErrNotReady, "%d of %d dependencies failed (%v)",
		len(failed), len(report.Statuses), names)
}

// printReport writes the human-readable readiness report.
func (o *Orchestrator) printReport(report gate.Report) {
	_, _ = io.WriteString(o.out, gate.Render(report))
}

// transition advances the state machine, logging each edge.
func (o *Orchestrator) transition(logger zerolog.Logger, next State) {
	logger.Debug().
		Str("from", string(o.state)).
		Str("to", string(next)).
		Msg("state transition")
	o.state = next
}
