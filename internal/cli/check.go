package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wildme/testgate/internal/constants"
	"github.com/wildme/testgate/internal/errors"
	"github.com/wildme/testgate/internal/gate"
	"github.com/wildme/testgate/internal/orchestrator"
	"github.com/wildme/testgate/internal/signal"
)

// AddCheckCommand adds the check command to the root command.
func AddCheckCommand(root *cobra.Command, flags *GlobalFlags) {
	var wait bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check stack readiness without running any tests",
		Long: `Check probes every configured dependency and reports which are
healthy. By default each dependency is probed once; with --wait the full
readiness gate runs, retrying until healthy or the budget runs out.

Exits 0 when every dependency is healthy, 1 otherwise.`,
		Example: `  testgate check
  testgate check --wait
  testgate check -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd.Context(), flags, wait)
		},
	}

	cmd.Flags().BoolVar(&wait, "wait", false, "retry until ready instead of probing once")

	root.AddCommand(cmd)
}

// runCheck executes the check command logic.
func runCheck(ctx context.Context, flags *GlobalFlags, wait bool) error {
	logger := GetLogger()
	ctx = logger.WithContext(ctx)

	rt, err := loadRuntime(ctx, flags)
	if err != nil {
		return err
	}

	deps := rt.deps
	deadline := rt.cfg.Gate.Deadline
	if !wait {
		// Single-shot mode: one attempt per dependency, no shared deadline.
		for i := range deps {
			deps[i].MaxAttempts = 1
		}
		deadline = 0
	}

	h := signal.NewHandler(ctx)
	defer h.Stop()
	ctx = h.Context()

	orch := orchestrator.New(gate.New(logger), nil, logger, os.Stderr)
	report, code := orch.CheckOnly(ctx, deps, deadline)

	if err := printReport(flags.Output, report); err != nil {
		return err
	}

	if code != constants.ExitSuccess {
		return errors.NewExitCodeError(code, errors.ErrNotReady)
	}
	return nil
}

// printReport renders the readiness report in the selected output format.
func printReport(format string, report gate.Report) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case OutputText:
		fmt.Print(gate.Render(report))
		return nil
	default:
		return errors.Wrapf(errors.ErrInvalidOutputFormat, "%q", format)
	}
}
