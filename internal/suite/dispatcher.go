package suite

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/wildme/testgate/internal/constants"
	"github.com/wildme/testgate/internal/errors"
)

// Invocation is a fully resolved runner command line. Resolution is a total
// function over selector kinds: every selector maps to exactly one
// invocation shape or fails validation before anything is spawned.
type Invocation struct {
	Selector   Selector
	Executable string
	Args       []string
	Dir        string
}

// Outcome is the terminal result of one dispatched suite run.
type Outcome struct {
	ExitCode int
	Selector Selector
	Duration time.Duration
}

// Options configures a Dispatcher.
type Options struct {
	// Runner is the test tool executable (behave by default).
	Runner string

	// BaseArgs are prepended to every invocation (e.g. the features dir).
	BaseArgs []string

	// Dir is the working directory for the runner; empty means inherit.
	Dir string

	// Timeout bounds the whole suite run; zero means unbounded.
	Timeout time.Duration

	// Stdout and Stderr receive the runner's output unmodified.
	// They default to the process's own stdout/stderr.
	Stdout io.Writer
	Stderr io.Writer
}

// Dispatcher resolves selectors against the registry and runs the test tool
// as an opaque child process. It never parses test results and never
// retries: the runner's output and exit code are authoritative.
type Dispatcher struct {
	opts     Options
	registry *Registry
	logger   zerolog.Logger
}

// NewDispatcher creates a Dispatcher for the given registry.
func NewDispatcher(registry *Registry, opts Options, logger zerolog.Logger) *Dispatcher {
	if opts.Runner == "" {
		opts.Runner = constants.DefaultSuiteRunner
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	return &Dispatcher{
		opts:     opts,
		registry: registry,
		logger:   logger,
	}
}

// Resolve maps sel to a concrete invocation, appending passthrough
// arguments untouched. It performs all selector validation: a missing
// feature file or unknown suite name fails here, before any dependency
// polling is wasted on a typo.
func (d *Dispatcher) Resolve(sel Selector, passthrough []string) (Invocation, error) {
	args := make([]string, 0, len(d.opts.BaseArgs)+len(passthrough)+2)
	args = append(args, d.opts.BaseArgs...)

	switch sel.Kind {
	case SelectAll:
		// Full suite, no filter.

	case SelectTag:
		args = append(args, "--tags="+sel.Tag)

	case SelectFeature:
		path := sel.Feature
		if d.opts.Dir != "" && !filepath.IsAbs(path) {
			path = filepath.Join(d.opts.Dir, path)
		}
		if _, err := os.Stat(path); err != nil {
			return Invocation{}, errors.Wrapf(errors.ErrFeatureNotFound, "%s", sel.Feature)
		}
		args = append(args, sel.Feature)

	case SelectNamed:
		def, ok := d.registry.Lookup(sel.Name)
		if !ok {
			return Invocation{}, errors.Wrapf(errors.ErrUnknownSuite,
				"%q (known suites: %s)", sel.Name, strings.Join(d.registry.Names(), ", "))
		}
		args = append(args, def.Args...)

	default:
		return Invocation{}, errors.Wrapf(errors.ErrInvalidSelector, "%q", sel.Kind)
	}

	args = append(args, passthrough...)

	return Invocation{
		Selector:   sel,
		Executable: d.opts.Runner,
		Args:       args,
		Dir:        d.opts.Dir,
	}, nil
}

// Run executes the resolved invocation as a child process, streaming its
// output through and capturing its exit code verbatim. A failing suite is a
// normal Outcome, not an error; errors mean the runner could not be run at
// all (spawn failure) or overran the suite timeout.
//
// If the context is canceled while the child runs, the child receives
// SIGTERM so it can shut tests down cleanly, then SIGKILL after a grace
// period.
func (d *Dispatcher) Run(ctx context.Context, inv Invocation) (Outcome, error) {
	runCtx := ctx
	if d.opts.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, d.opts.Timeout)
		defer cancel()
	}

	d.logger.Info().
		Str("selector", inv.Selector.String()).
		Str("runner", inv.Executable).
		Strs("args", inv.Args).
		Msg("dispatching suite")

	cmd := exec.CommandContext(runCtx, inv.Executable, inv.Args...) //nolint:gosec // Runner and args come from operator config
	cmd.Dir = inv.Dir
	cmd.Stdout = d.opts.Stdout
	cmd.Stderr = d.opts.Stderr
	cmd.Cancel = func() error {
		// Forward termination instead of the default SIGKILL so the runner
		// can finish writing reports and tear down scenario state.
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	cmd.WaitDelay = constants.RunnerStopGracePeriod

	start := time.Now()
	err := cmd.Run()
	outcome := Outcome{
		Selector: inv.Selector,
		Duration: time.Since(start),
	}

	// Suite-level timeout: the child was killed because the run overran its
	// budget, not because the user interrupted.
	if d.opts.Timeout > 0 && runCtx.Err() != nil && ctx.Err() == nil {
		outcome.ExitCode = constants.ExitSuiteTimeout
		return outcome, errors.Wrapf(errors.ErrSuiteTimeout,
			"suite %q exceeded %s", inv.Selector, d.opts.Timeout)
	}

	if err == nil {
		d.logger.Info().
			Str("selector", inv.Selector.String()).
			Dur("duration", outcome.Duration).
			Msg("suite passed")
		return outcome, nil
	}

	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		outcome.ExitCode = exitCodeFrom(exitErr)
		d.logger.Warn().
			Str("selector", inv.Selector.String()).
			Int("exit_code", outcome.ExitCode).
			Dur("duration", outcome.Duration).
			Msg("suite finished with non-zero exit")
		return outcome, nil
	}

	// The runner never started (missing binary, permissions).
	outcome.ExitCode = 1
	return outcome, errors.Wrapf(errors.ErrRunnerStart, "%s: %v", inv.Executable, err)
}

// exitCodeFrom extracts the child's exit code, translating a signal death
// into the conventional 128+N form so it survives pass-through.
func exitCodeFrom(exitErr *exec.ExitError) int {
	if code := exitErr.ExitCode(); code >= 0 {
		return code
	}
	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return constants.ExitSignalBase + int(ws.Signal())
	}
	return 1
}
