package probe

import (
	"context"
	stderrors "errors"
	"fmt"
	"os/exec"
	"strings"
)

// checkExec runs the spec's command and succeeds if it exits with the
// expected exit code before the context deadline. Output is discarded; only
// the exit code carries health information.
func checkExec(ctx context.Context, spec Spec) error {
	name := spec.Command[0]
	cmd := exec.CommandContext(ctx, name, spec.Command[1:]...)

	err := cmd.Run()

	// A deadline overrun kills the process and surfaces as an exit error;
	// report it as a timeout rather than a code mismatch.
	if ctx.Err() != nil {
		return fmt.Errorf("command %q: %w", strings.Join(spec.Command, " "), ctx.Err())
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		if spec.ExpectExit != 0 {
			return fmt.Errorf("command %q: exit code 0, expected %d", name, spec.ExpectExit)
		}
		return nil
	case stderrors.As(err, &exitErr):
		if code := exitErr.ExitCode(); code != spec.ExpectExit {
			return fmt.Errorf("command %q: exit code %d, expected %d", name, code, spec.ExpectExit)
		}
		return nil
	default:
		// Spawn failure (binary missing, permission denied).
		return fmt.Errorf("command %q: %w", name, err)
	}
}
