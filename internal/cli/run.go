package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wildme/testgate/internal/config"
	"github.com/wildme/testgate/internal/errors"
	"github.com/wildme/testgate/internal/gate"
	"github.com/wildme/testgate/internal/orchestrator"
	"github.com/wildme/testgate/internal/signal"
	"github.com/wildme/testgate/internal/suite"
)

// AddRunCommand adds the run command to the root command.
func AddRunCommand(root *cobra.Command, flags *GlobalFlags) {
	cmd := &cobra.Command{
		Use:   "run [selector...] [-- runner-args...]",
		Short: "Wait for the stack to be ready, then dispatch a test suite",
		Long: `Run polls every configured dependency until healthy, then dispatches
the selected suite through the test runner and exits with the runner's
own exit code.

Selectors:
  (nothing) | all      run the full suite
  <tag>                run scenarios carrying a tag (or a registered suite of that name)
  feature <path>       run a single feature file
  suite <name>         run a registered suite, strict lookup

Everything after -- is passed to the test runner untouched.`,
		Example: `  testgate run
  testgate run health
  testgate run feature tests/features/login.feature
  testgate run suite integration -- --no-capture --stop`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Cobra strips the -- itself; ArgsLenAtDash marks where
			// selector arguments end and runner pass-through begins.
			selArgs := args
			var passthrough []string
			if at := cmd.ArgsLenAtDash(); at >= 0 {
				selArgs = args[:at]
				passthrough = args[at:]
			}
			return runSuite(cmd.Context(), flags, selArgs, passthrough)
		},
	}

	root.AddCommand(cmd)
}

// runtime bundles everything a gated run needs, built once per invocation.
type runtime struct {
	cfg      *config.Config
	registry *suite.Registry
	deps     []gate.Dependency
}

// loadRuntime loads the env file, configuration and suite registry in the
// order the stack has always used: .env first so endpoint variables are in
// place before config resolution.
func loadRuntime(ctx context.Context, flags *GlobalFlags) (*runtime, error) {
	if err := config.LoadEnvFile(flags.EnvFile); err != nil {
		return nil, err
	}

	cfg, err := config.Load(ctx, flags.ConfigFile)
	if err != nil {
		return nil, err
	}

	deps, err := cfg.GateDependencies()
	if err != nil {
		return nil, err
	}

	registry := suite.DefaultRegistry()
	if cfg.Suite.SuitesFile != "" {
		defs, err := suite.LoadDefinitions(cfg.Suite.SuitesFile)
		if err != nil {
			return nil, err
		}
		registry.Merge(defs)
	}

	return &runtime{cfg: cfg, registry: registry, deps: deps}, nil
}

// runSuite executes the run command logic.
func runSuite(ctx context.Context, flags *GlobalFlags, selArgs, passthrough []string) error {
	logger := GetLogger()
	ctx = logger.WithContext(ctx)

	rt, err := loadRuntime(ctx, flags)
	if err != nil {
		return err
	}

	sel, err := suite.ParseSelector(selArgs, rt.registry)
	if err != nil {
		return NewUsageErrorf("%v\n%s", err, suite.UsageHint(rt.registry))
	}

	h := signal.NewHandler(ctx)
	defer h.Stop()
	ctx = h.Context()

	g := gate.New(logger)
	d := suite.NewDispatcher(rt.registry, suite.Options{
		Runner:   rt.cfg.Suite.Runner,
		BaseArgs: rt.cfg.Suite.BaseArgs,
		Dir:      rt.cfg.Suite.Dir,
		Timeout:  rt.cfg.Suite.Timeout,
	}, logger)

	orch := orchestrator.New(g, d, logger, nil)
	code, err := orch.Run(ctx, sel, passthrough, rt.deps, rt.cfg.Gate.Deadline)

	// A signal during the run exits with the conventional 128+N code rather
	// than whatever the interrupted phase produced.
	select {
	case <-h.Interrupted():
		sig := h.Received()
		logger.Warn().Str("signal", fmt.Sprint(sig)).Msg("run interrupted")
		return errors.NewExitCodeError(signal.ExitCode(sig, code),
			errors.Wrapf(errors.ErrInterrupted, "%v", sig))
	default:
	}

	return err
}
