package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and captures its combined output.
// The testgate home is pointed at a temp dir so the logger never touches
// the real ~/.testgate.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("TESTGATE_HOME", t.TempDir())

	flags := &GlobalFlags{}
	cmd := newRootCmd(flags, BuildInfo{Version: "test"})

	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestRootCommand_Help(t *testing.T) {
	out, err := execute(t, "--help")
	require.NoError(t, err)

	assert.Contains(t, out, "testgate")
	assert.Contains(t, out, "run")
	assert.Contains(t, out, "check")
	assert.Contains(t, out, "list")
}

func TestRootCommand_NoArgsShowsHelp(t *testing.T) {
	out, err := execute(t)
	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")
}

func TestRootCommand_Version(t *testing.T) {
	out, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "test")
	assert.Contains(t, out, "commit")
}

func TestRootCommand_InvalidOutputFormat(t *testing.T) {
	_, err := execute(t, "--output", "yaml", "list")
	require.Error(t, err)
	assert.Equal(t, 2, ExitCodeForError(err))
}

func TestRootCommand_UnknownCommand(t *testing.T) {
	_, err := execute(t, "frobnicate")
	require.Error(t, err)
	assert.Equal(t, 2, ExitCodeForError(err))
}

func TestRootCommand_VerboseQuietMutuallyExclusive(t *testing.T) {
	_, err := execute(t, "--verbose", "--quiet", "list")
	require.Error(t, err)
	assert.Equal(t, 2, ExitCodeForError(err))
}

func TestFormatVersion(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1.2.3 (commit: abc123, built: 2026-01-01)",
		formatVersion(BuildInfo{Version: "1.2.3", Commit: "abc123", Date: "2026-01-01"}))
	assert.Equal(t, "dev (commit: none, built: unknown)", formatVersion(BuildInfo{}))
}
