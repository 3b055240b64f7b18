package config

import (
	"github.com/wildme/testgate/internal/errors"
)

// Validate checks the configuration for invalid or inconsistent values.
// It returns an error describing the first validation failure found.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}

	if err := validateGateConfig(&cfg.Gate); err != nil {
		return err
	}
	if err := validateSuiteConfig(&cfg.Suite); err != nil {
		return err
	}
	return validateDependencies(cfg.Dependencies)
}

// validateGateConfig checks the gate-level defaults.
func validateGateConfig(cfg *GateConfig) error {
	if cfg.Deadline < 0 {
		return errors.Wrapf(errors.ErrConfigInvalidGate,
			"gate.deadline must not be negative, got %s", cfg.Deadline)
	}
	if cfg.MaxAttempts < 1 {
		return errors.Wrapf(errors.ErrConfigInvalidGate,
			"gate.max_attempts must be at least 1, got %d", cfg.MaxAttempts)
	}
	if cfg.Interval <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidGate,
			"gate.interval must be positive, got %s", cfg.Interval)
	}
	if cfg.ProbeTimeout <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidGate,
			"gate.probe_timeout must be positive, got %s", cfg.ProbeTimeout)
	}
	return nil
}

// validateSuiteConfig checks the runner settings.
func validateSuiteConfig(cfg *SuiteConfig) error {
	if cfg.Runner == "" {
		return errors.Wrap(errors.ErrConfigInvalidSuite,
			"suite.runner must not be empty")
	}
	if cfg.Timeout < 0 {
		return errors.Wrapf(errors.ErrConfigInvalidSuite,
			"suite.timeout must not be negative, got %s", cfg.Timeout)
	}
	return nil
}

// validateDependencies checks names are present and unique. Probe-variant
// validation happens in GateDependencies where the specs are built.
func validateDependencies(deps []DependencyConfig) error {
	if len(deps) == 0 {
		return errors.Wrap(errors.ErrConfigInvalidDependency,
			"at least one dependency is required")
	}

	seen := make(map[string]struct{}, len(deps))
	for _, dep := range deps {
		if dep.Name == "" {
			return errors.Wrap(errors.ErrConfigInvalidDependency,
				"dependency name must not be empty")
		}
		if _, dup := seen[dep.Name]; dup {
			return errors.Wrapf(errors.ErrConfigInvalidDependency,
				"duplicate dependency name %q", dep.Name)
		}
		seen[dep.Name] = struct{}{}

		if dep.MaxAttempts < 0 {
			return errors.Wrapf(errors.ErrConfigInvalidDependency,
				"dependency %q max_attempts must not be negative", dep.Name)
		}
		if dep.Interval < 0 {
			return errors.Wrapf(errors.ErrConfigInvalidDependency,
				"dependency %q interval must not be negative", dep.Name)
		}
		if dep.Timeout < 0 {
			return errors.Wrapf(errors.ErrConfigInvalidDependency,
				"dependency %q timeout must not be negative", dep.Name)
		}
	}
	return nil
}
