package config

import (
	"github.com/wildme/testgate/internal/constants"
)

// DefaultConfig returns a Config targeting the standard docker-compose
// stack: the web frontend, the ML service, the search cluster and the
// database, all on their compose-file ports.
func DefaultConfig() *Config {
	return &Config{
		Gate: GateConfig{
			Deadline:     constants.DefaultGateDeadline,
			MaxAttempts:  constants.DefaultMaxAttempts,
			Interval:     constants.DefaultProbeInterval,
			ProbeTimeout: constants.DefaultProbeTimeout,
		},
		Suite: SuiteConfig{
			Runner:   constants.DefaultSuiteRunner,
			BaseArgs: []string{constants.DefaultFeaturesDir},
			Timeout:  constants.DefaultSuiteTimeout,
		},
		Dependencies: DefaultDependencies(),
	}
}

// DefaultDependencies returns the built-in dependency set. Each target can
// be overridden via its conventional environment variable (WILDBOOK_URL,
// WBIA_URL, OPENSEARCH_URL, WILDBOOK_DB_URI).
func DefaultDependencies() []DependencyConfig {
	return []DependencyConfig{
		{Name: "wildbook", Kind: "http", URL: constants.DefaultWildbookURL},
		{Name: "wbia", Kind: "http", URL: constants.DefaultWBIAURL},
		{Name: "opensearch", Kind: "http", URL: constants.DefaultOpenSearchURL},
		{Name: "wildbook-db", Kind: "postgres", URI: constants.DefaultWildbookDBURI},
	}
}
