package config

import (
	"context"
	stderrors "errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/wildme/testgate/internal/constants"
	"github.com/wildme/testgate/internal/errors"
)

// LoadEnvFile loads a dotenv file into the process environment, matching
// the compose-stack workflow where service endpoints live in .env.
// A missing file is not an error; variables already set win.
func LoadEnvFile(path string) error {
	if path == "" {
		path = constants.EnvFileName
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "stat env file %s", path)
	}
	return errors.Wrapf(godotenv.Load(path), "loading env file %s", path)
}

// newViperInstance creates a Viper instance with standard testgate setup:
// TESTGATE_ env prefix, key replacer and gate/suite defaults.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// setDefaults registers the scalar defaults. The default dependency list is
// applied after unmarshaling instead: a config file that declares its own
// dependencies replaces the built-ins outright rather than merging.
func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()
	v.SetDefault("gate.deadline", defaults.Gate.Deadline)
	v.SetDefault("gate.max_attempts", defaults.Gate.MaxAttempts)
	v.SetDefault("gate.interval", defaults.Gate.Interval)
	v.SetDefault("gate.probe_timeout", defaults.Gate.ProbeTimeout)
	v.SetDefault("suite.runner", defaults.Suite.Runner)
	v.SetDefault("suite.base_args", defaults.Suite.BaseArgs)
	v.SetDefault("suite.dir", defaults.Suite.Dir)
	v.SetDefault("suite.timeout", defaults.Suite.Timeout)
	v.SetDefault("suite.suites_file", defaults.Suite.SuitesFile)
}

// viperDecoderOption builds the decode hook for unmarshaling: duration
// strings ("2s") and comma-separated lists.
func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
}

// isConfigNotFoundError reports whether err is viper's missing-file error.
func isConfigNotFoundError(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return stderrors.As(err, &notFound)
}

// Load reads configuration from all sources with proper precedence and
// validates the result. path names the config file; empty means
// .testgate.yaml in the working directory, and a missing file is fine.
func Load(ctx context.Context, path string) (*Config, error) {
	v := newViperInstance()

	explicit := path != ""
	if !explicit {
		path = constants.ConfigFileName
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		// An explicitly named file must exist; the conventional one is
		// optional.
		if explicit || (!os.IsNotExist(err) && !isConfigNotFoundError(err)) {
			return nil, errors.Wrapf(err, "reading config file %s", path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	if len(cfg.Dependencies) == 0 {
		cfg.Dependencies = DefaultDependencies()
	}
	applyEnvOverrides(&cfg)

	logger := zerolog.Ctx(ctx).With().Str("component", "config").Logger()
	logger.Debug().
		Dur("gate.deadline", cfg.Gate.Deadline).
		Int("gate.max_attempts", cfg.Gate.MaxAttempts).
		Dur("gate.interval", cfg.Gate.Interval).
		Str("suite.runner", cfg.Suite.Runner).
		Int("dependencies", len(cfg.Dependencies)).
		Msg("configuration loaded")

	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return &cfg, nil
}

// envKey converts a dependency name to its environment prefix:
// "wildbook-db" -> "WILDBOOK_DB".
func envKey(name string) string {
	key := strings.ToUpper(name)
	return strings.Map(func(r rune) rune {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return '_'
	}, key)
}

// applyEnvOverrides applies the per-dependency environment conventions the
// stack has always used: <NAME>_URL, <NAME>_URI, <NAME>_MAX_ATTEMPTS,
// <NAME>_INTERVAL and <NAME>_TIMEOUT. These beat the config file, matching
// how docker-compose injects endpoints.
func applyEnvOverrides(cfg *Config) {
	for i := range cfg.Dependencies {
		dep := &cfg.Dependencies[i]
		key := envKey(dep.Name)

		if v, ok := os.LookupEnv(key + "_URL"); ok {
			dep.URL = v
		}
		if v, ok := os.LookupEnv(key + "_URI"); ok {
			dep.URI = v
		}
		if v, ok := os.LookupEnv(key + "_MAX_ATTEMPTS"); ok {
			if n, err := strconv.Atoi(v); err == nil {
				dep.MaxAttempts = n
			}
		}
		if v, ok := os.LookupEnv(key + "_INTERVAL"); ok {
			if d, err := time.ParseDuration(v); err == nil {
				dep.Interval = d
			}
		}
		if v, ok := os.LookupEnv(key + "_TIMEOUT"); ok {
			if d, err := time.ParseDuration(v); err == nil {
				dep.Timeout = d
			}
		}
	}
}
