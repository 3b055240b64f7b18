// Package errors provides centralized error handling for testgate.
//
// This package defines sentinel errors used for programmatic error
// categorization throughout the application. All error types can be checked
// using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrConfigInvalidGate indicates an invalid readiness gate configuration value.
	ErrConfigInvalidGate = errors.New("invalid gate configuration")

	// ErrConfigInvalidDependency indicates an invalid dependency configuration value.
	ErrConfigInvalidDependency = errors.New("invalid dependency configuration")

	// ErrConfigInvalidSuite indicates an invalid suite runner configuration value.
	ErrConfigInvalidSuite = errors.New("invalid suite configuration")

	// ErrInvalidProbeSpec indicates a probe spec with a missing or
	// inconsistent variant.
	ErrInvalidProbeSpec = errors.New("invalid probe spec")

	// ErrUnknownProbeKind indicates an unrecognized probe kind.
	ErrUnknownProbeKind = errors.New("unknown probe kind")

	// ErrNotReady indicates that one or more dependencies never became
	// healthy before the gate gave up.
	ErrNotReady = errors.New("dependencies not ready")

	// ErrUnknownSuite indicates that a named suite was not found in the
	// suite registry.
	ErrUnknownSuite = errors.New("unknown suite")

	// ErrFeatureNotFound indicates that the requested feature file does not exist.
	ErrFeatureNotFound = errors.New("feature file not found")

	// ErrInvalidSelector indicates a malformed suite selector.
	ErrInvalidSelector = errors.New("invalid suite selector")

	// ErrRunnerStart indicates that the test runner process could not be spawned.
	ErrRunnerStart = errors.New("test runner failed to start")

	// ErrSuiteTimeout indicates that the dispatched suite exceeded the
	// configured suite-level timeout.
	ErrSuiteTimeout = errors.New("suite timeout exceeded")

	// ErrSuiteFailed indicates the dispatched suite exited non-zero. The
	// child's exit code passes through; this sentinel only keeps the error
	// chain descriptive.
	ErrSuiteFailed = errors.New("suite failed")

	// ErrInterrupted indicates the run was canceled by a termination signal.
	ErrInterrupted = errors.New("interrupted by signal")

	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrRegistryDuplicate indicates a suite with the same name was
	// registered twice.
	ErrRegistryDuplicate = errors.New("suite already registered")
)

// ExitCodeError carries an explicit process exit code up to main.
//
// The orchestrator propagates the dispatched test tool's exit code verbatim,
// so "the suite failed with code 7" must survive the trip through cobra's
// error plumbing without being flattened to a generic 1.
type ExitCodeError struct {
	Code int
	Err  error
}

// NewExitCodeError wraps err with an explicit exit code.
func NewExitCodeError(code int, err error) *ExitCodeError {
	return &ExitCodeError{Code: code, Err: err}
}

// Error implements the error interface.
func (e *ExitCodeError) Error() string {
	if e.Err == nil {
		return "exit code error"
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitCodeError) Unwrap() error {
	return e.Err
}

// ExitCode extracts an explicit exit code from err.
// The second return value reports whether err carried one.
func ExitCode(err error) (int, bool) {
	var e *ExitCodeError
	if errors.As(err, &e) {
		return e.Code, true
	}
	return 0, false
}
