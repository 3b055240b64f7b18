// Package probe performs single readiness checks against dependency
// endpoints. A probe is one check of one dependency: it either succeeds or
// fails with a descriptive error, and it never retries. Retry policy belongs
// to the readiness gate, which owns attempt counting and backoff.
package probe

import (
	"context"
	"time"

	"github.com/wildme/testgate/internal/errors"
	"github.com/wildme/testgate/internal/logging"
)

// Kind identifies the probe variant for a dependency.
type Kind string

// Probe kinds. Exactly one variant is active per dependency.
const (
	// KindHTTP issues a single idempotent GET and checks the status code.
	KindHTTP Kind = "http"

	// KindTCP checks that a TCP connection can be established.
	KindTCP Kind = "tcp"

	// KindExec runs a command and checks its exit code.
	KindExec Kind = "exec"

	// KindPostgres connects to a PostgreSQL server and pings it.
	KindPostgres Kind = "postgres"
)

// Spec describes one health check. Only the fields for the active Kind are
// consulted; Validate enforces that they are populated.
type Spec struct {
	Kind Kind

	// HTTP variant. StatusMin/StatusMax default to 200-299 when both zero.
	URL       string
	StatusMin int
	StatusMax int

	// TCP variant.
	Host string
	Port int

	// Exec variant. ExpectExit is the exit code treated as healthy.
	Command    []string
	ExpectExit int

	// Postgres variant. Connection URI, credentials included.
	ConnURI string
}

// Target returns a human-readable description of what the spec checks,
// with any embedded credentials redacted. Safe to log.
func (s Spec) Target() string {
	switch s.Kind {
	case KindHTTP:
		return s.URL
	case KindTCP:
		return netAddr(s.Host, s.Port)
	case KindExec:
		if len(s.Command) == 0 {
			return ""
		}
		return s.Command[0]
	case KindPostgres:
		return logging.RedactURI(s.ConnURI)
	default:
		return string(s.Kind)
	}
}

// Validate checks that the spec names a known kind and carries the fields
// that kind needs. Called once at startup so a typo in the config fails
// before any polling starts.
func (s Spec) Validate() error {
	switch s.Kind {
	case KindHTTP:
		if s.URL == "" {
			return errors.Wrap(errors.ErrInvalidProbeSpec, "http probe requires url")
		}
		if s.StatusMin != 0 || s.StatusMax != 0 {
			if s.StatusMin > s.StatusMax || s.StatusMin < 100 || s.StatusMax > 599 {
				return errors.Wrapf(errors.ErrInvalidProbeSpec,
					"http probe status range %d-%d is invalid", s.StatusMin, s.StatusMax)
			}
		}
	case KindTCP:
		if s.Host == "" {
			return errors.Wrap(errors.ErrInvalidProbeSpec, "tcp probe requires host")
		}
		if s.Port < 1 || s.Port > 65535 {
			return errors.Wrapf(errors.ErrInvalidProbeSpec, "tcp probe port %d out of range", s.Port)
		}
	case KindExec:
		if len(s.Command) == 0 {
			return errors.Wrap(errors.ErrInvalidProbeSpec, "exec probe requires a command")
		}
	case KindPostgres:
		if s.ConnURI == "" {
			return errors.Wrap(errors.ErrInvalidProbeSpec, "postgres probe requires a connection uri")
		}
	default:
		return errors.Wrapf(errors.ErrUnknownProbeKind, "%q", s.Kind)
	}
	return nil
}

// Result is the outcome of a single probe attempt. Dependency and Attempt
// are stamped by the readiness gate; the probe itself only knows about the
// check it performed.
type Result struct {
	Dependency string        `json:"dependency"`
	Attempt    int           `json:"attempt"`
	OK         bool          `json:"ok"`
	Latency    time.Duration `json:"latency"`
	Err        string        `json:"error,omitempty"`
}

// CheckFunc is the probe contract consumed by the readiness gate. Having it
// as a function type lets gate tests substitute scripted outcomes.
type CheckFunc func(ctx context.Context, spec Spec, timeout time.Duration) Result

// Check performs a single health check described by spec, bounded by
// timeout. It dispatches on spec.Kind and never retries.
func Check(ctx context.Context, spec Spec, timeout time.Duration) Result {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	var err error
	switch spec.Kind {
	case KindHTTP:
		err = checkHTTP(ctx, spec)
	case KindTCP:
		err = checkTCP(ctx, spec)
	case KindExec:
		err = checkExec(ctx, spec)
	case KindPostgres:
		err = checkPostgres(ctx, spec)
	default:
		err = errors.Wrapf(errors.ErrUnknownProbeKind, "%q", spec.Kind)
	}

	res := Result{
		OK:      err == nil,
		Latency: time.Since(start),
	}
	if err != nil {
		res.Err = logging.FilterSensitiveValue(err.Error())
	}
	return res
}

// Ensure Check satisfies the gate's contract.
var _ CheckFunc = Check
