// Package config loads and validates testgate configuration.
//
// Configuration is layered with the usual precedence (highest first):
//
//  1. Per-dependency environment overrides (WILDBOOK_URL, WBIA_URL, ...)
//  2. TESTGATE_* environment variables
//  3. Project config file (.testgate.yaml in the working directory)
//  4. Built-in defaults matching the docker-compose stack
//
// The loaded Config is built once at startup and passed down; nothing below
// this package reads the process environment.
package config

import (
	"time"

	"github.com/wildme/testgate/internal/errors"
	"github.com/wildme/testgate/internal/gate"
	"github.com/wildme/testgate/internal/probe"
)

// Config is the root configuration.
type Config struct {
	Gate         GateConfig         `mapstructure:"gate"`
	Suite        SuiteConfig        `mapstructure:"suite"`
	Dependencies []DependencyConfig `mapstructure:"dependencies"`
}

// GateConfig holds readiness-gate defaults. Per-dependency settings inherit
// from here when unset.
type GateConfig struct {
	// Deadline bounds the whole gate across all dependencies. Zero disables
	// the shared deadline.
	Deadline time.Duration `mapstructure:"deadline"`

	// MaxAttempts is the default per-dependency attempt budget.
	MaxAttempts int `mapstructure:"max_attempts"`

	// Interval is the default sleep between attempts.
	Interval time.Duration `mapstructure:"interval"`

	// ProbeTimeout is the default bound on a single attempt.
	ProbeTimeout time.Duration `mapstructure:"probe_timeout"`
}

// SuiteConfig holds test-runner settings.
type SuiteConfig struct {
	// Runner is the test tool executable.
	Runner string `mapstructure:"runner"`

	// BaseArgs are prepended to every runner invocation.
	BaseArgs []string `mapstructure:"base_args"`

	// Dir is the runner's working directory; empty means inherit.
	Dir string `mapstructure:"dir"`

	// Timeout bounds the whole suite run. Zero means unbounded: whether a
	// hung runner should be killed is the operator's call, so this stays an
	// explicit knob rather than a guessed default.
	Timeout time.Duration `mapstructure:"timeout"`

	// SuitesFile optionally names a YAML file of extra suite definitions
	// merged over the built-in registry.
	SuitesFile string `mapstructure:"suites_file"`
}

// DependencyConfig describes one dependency to gate on. Zero values for
// MaxAttempts, Interval and Timeout inherit the gate-level defaults.
type DependencyConfig struct {
	Name string `mapstructure:"name"`
	Kind string `mapstructure:"kind"`

	// http
	URL       string `mapstructure:"url"`
	StatusMin int    `mapstructure:"status_min"`
	StatusMax int    `mapstructure:"status_max"`

	// tcp
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`

	// exec
	Command    []string `mapstructure:"command"`
	ExpectExit int      `mapstructure:"expect_exit"`

	// postgres
	URI string `mapstructure:"uri"`

	MaxAttempts int           `mapstructure:"max_attempts"`
	Interval    time.Duration `mapstructure:"interval"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// probeSpec converts the flat config shape into a probe spec.
func (d DependencyConfig) probeSpec() probe.Spec {
	return probe.Spec{
		Kind:       probe.Kind(d.Kind),
		URL:        d.URL,
		StatusMin:  d.StatusMin,
		StatusMax:  d.StatusMax,
		Host:       d.Host,
		Port:       d.Port,
		Command:    d.Command,
		ExpectExit: d.ExpectExit,
		ConnURI:    d.URI,
	}
}

// GateDependencies converts the configured dependencies into the gate's
// immutable form, applying gate-level defaults and validating every probe
// spec. Called once at startup.
func (c *Config) GateDependencies() ([]gate.Dependency, error) {
	deps := make([]gate.Dependency, 0, len(c.Dependencies))
	for _, d := range c.Dependencies {
		spec := d.probeSpec()
		if err := spec.Validate(); err != nil {
			return nil, errors.Wrapf(err, "dependency %q", d.Name)
		}

		dep := gate.Dependency{
			Name:           d.Name,
			Probe:          spec,
			MaxAttempts:    d.MaxAttempts,
			Interval:       d.Interval,
			AttemptTimeout: d.Timeout,
		}
		if dep.MaxAttempts == 0 {
			dep.MaxAttempts = c.Gate.MaxAttempts
		}
		if dep.Interval == 0 {
			dep.Interval = c.Gate.Interval
		}
		if dep.AttemptTimeout == 0 {
			dep.AttemptTimeout = c.Gate.ProbeTimeout
		}
		deps = append(deps, dep)
	}
	return deps, nil
}
