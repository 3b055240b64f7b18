package cli

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wildme/testgate/internal/constants"
	"github.com/wildme/testgate/internal/errors"
)

// Output format constants.
const (
	// OutputText is the default human-readable output format.
	OutputText = "text"
	// OutputJSON is the machine-readable JSON output format.
	OutputJSON = "json"
)

// GlobalFlags holds flags available to all commands.
type GlobalFlags struct {
	// Output specifies the output format (text or json).
	Output string
	// Verbose enables debug-level logging.
	Verbose bool
	// Quiet suppresses non-essential output (warn level only).
	Quiet bool
	// ConfigFile names an explicit configuration file. Empty means the
	// conventional .testgate.yaml in the working directory, if present.
	ConfigFile string
	// EnvFile names the dotenv file loaded before configuration.
	EnvFile string
}

// AddGlobalFlags adds global flags to a command.
// These flags are available to all subcommands via PersistentFlags.
func AddGlobalFlags(cmd *cobra.Command, flags *GlobalFlags) {
	cmd.PersistentFlags().StringVarP(&flags.Output, "output", "o", OutputText, "output format (text|json)")
	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "enable verbose output")
	cmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false, "suppress non-essential output")
	cmd.PersistentFlags().StringVarP(&flags.ConfigFile, "config", "c", "", "config file (default "+constants.ConfigFileName+")")
	cmd.PersistentFlags().StringVar(&flags.EnvFile, "env-file", "", "dotenv file loaded before config (default "+constants.EnvFileName+")")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
}

// ValidOutputFormats returns the list of valid output format values.
func ValidOutputFormats() []string {
	return []string{OutputText, OutputJSON}
}

// IsValidOutputFormat checks if the given format is a valid output format.
func IsValidOutputFormat(format string) bool {
	for _, valid := range ValidOutputFormats() {
		if format == valid {
			return true
		}
	}
	return false
}

// NewUsageErrorf builds an error that exits with code 2, for invalid user
// input the dispatched suite never saw.
func NewUsageErrorf(format string, args ...any) error {
	return errors.NewExitCodeError(constants.ExitUsage, fmt.Errorf(format, args...))
}

// ExitCodeForError returns the appropriate process exit code for err.
//
// Precedence: nil errors exit 0; errors carrying an explicit exit code
// (suite pass-through, signal death, gate failure) exit with that code;
// usage-class sentinels and cobra's own flag errors exit 2; anything else
// exits 1.
func ExitCodeForError(err error) int {
	if err == nil {
		return constants.ExitSuccess
	}

	if code, ok := errors.ExitCode(err); ok {
		return code
	}

	if stderrors.Is(err, errors.ErrInvalidOutputFormat) ||
		stderrors.Is(err, errors.ErrInvalidSelector) ||
		stderrors.Is(err, errors.ErrUnknownSuite) ||
		stderrors.Is(err, errors.ErrFeatureNotFound) {
		return constants.ExitUsage
	}

	if stderrors.Is(err, errors.ErrNotReady) {
		return constants.ExitNotReady
	}

	// Cobra flag parsing errors (mutually exclusive flags, unknown flags,
	// unknown subcommands) surface as plain errors; match by message.
	if isInvalidInputError(err.Error()) {
		return constants.ExitUsage
	}

	return constants.ExitNotReady
}

// isInvalidInputError checks if an error message indicates invalid user input.
// This catches Cobra's built-in flag validation errors.
func isInvalidInputError(errMsg string) bool {
	invalidInputPatterns := []string{
		"unknown flag",
		"unknown shorthand flag",
		"flag needs an argument",
		"invalid argument",
		"if any flags in the group",
		"required flag",
		"unknown command",
	}

	for _, pattern := range invalidInputPatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}
	return false
}
