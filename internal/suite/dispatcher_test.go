package suite

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildme/testgate/internal/constants"
	"github.com/wildme/testgate/internal/errors"
)

func newTestDispatcher(t *testing.T, opts Options) *Dispatcher {
	t.Helper()
	if opts.Stdout == nil {
		opts.Stdout = &bytes.Buffer{}
	}
	if opts.Stderr == nil {
		opts.Stderr = &bytes.Buffer{}
	}
	return NewDispatcher(DefaultRegistry(), opts, zerolog.Nop())
}

func TestResolve_MappingPerSelectorKind(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	featurePath := filepath.Join(dir, "health.feature")
	require.NoError(t, os.WriteFile(featurePath, []byte("Feature: health"), 0o600))

	d := newTestDispatcher(t, Options{Runner: "behave", BaseArgs: []string{"tests/features"}})

	tests := []struct {
		name     string
		sel      Selector
		pass     []string
		expected []string
	}{
		{
			name:     "all has no filter",
			sel:      Selector{Kind: SelectAll},
			expected: []string{"tests/features"},
		},
		{
			name:     "tag adds tag filter",
			sel:      Selector{Kind: SelectTag, Tag: "wbia"},
			expected: []string{"tests/features", "--tags=wbia"},
		},
		{
			name:     "named expands registry args",
			sel:      Selector{Kind: SelectNamed, Name: "health"},
			expected: []string{"tests/features", "--tags=health"},
		},
		{
			name:     "feature appends the path",
			sel:      Selector{Kind: SelectFeature, Feature: featurePath},
			expected: []string{"tests/features", featurePath},
		},
		{
			name:     "passthrough args survive unmodified",
			sel:      Selector{Kind: SelectTag, Tag: "health"},
			pass:     []string{"--no-capture", "-D", "env=ci"},
			expected: []string{"tests/features", "--tags=health", "--no-capture", "-D", "env=ci"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			inv, err := d.Resolve(tc.sel, tc.pass)
			require.NoError(t, err)
			assert.Equal(t, "behave", inv.Executable)
			assert.Equal(t, tc.expected, inv.Args)
			assert.Equal(t, tc.sel, inv.Selector)
		})
	}
}

func TestResolve_FeatureNotFound(t *testing.T) {
	t.Parallel()

	d := newTestDispatcher(t, Options{})
	_, err := d.Resolve(Selector{Kind: SelectFeature, Feature: "nonexistent.feature"}, nil)
	require.ErrorIs(t, err, errors.ErrFeatureNotFound)
}

func TestResolve_FeatureRelativeToDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.feature"), []byte("Feature: x"), 0o600))

	d := newTestDispatcher(t, Options{Dir: dir})
	inv, err := d.Resolve(Selector{Kind: SelectFeature, Feature: "x.feature"}, nil)
	require.NoError(t, err)
	assert.Contains(t, inv.Args, "x.feature")
}

func TestResolve_UnknownNamedSuite(t *testing.T) {
	t.Parallel()

	d := newTestDispatcher(t, Options{})
	_, err := d.Resolve(Selector{Kind: SelectNamed, Name: "nope"}, nil)
	require.ErrorIs(t, err, errors.ErrUnknownSuite)
	assert.Contains(t, err.Error(), "health")
}

func TestRun_ExitCodePassThrough(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		script   string
		expected int
	}{
		{"success", "exit 0", 0},
		{"test failure", "exit 1", 1},
		{"arbitrary code", "exit 7", 7},
		{"oom-style code", "exit 137", 137},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			d := newTestDispatcher(t, Options{Runner: "sh"})
			inv := Invocation{
				Selector:   Selector{Kind: SelectAll},
				Executable: "sh",
				Args:       []string{"-c", tc.script},
			}
			outcome, err := d.Run(context.Background(), inv)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, outcome.ExitCode)
			assert.Positive(t, outcome.Duration)
		})
	}
}

func TestRun_StreamsOutputUnmodified(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	d := newTestDispatcher(t, Options{Runner: "sh", Stdout: &stdout, Stderr: &stderr})

	inv := Invocation{
		Selector:   Selector{Kind: SelectAll},
		Executable: "sh",
		Args:       []string{"-c", "echo scenario passed; echo warning >&2"},
	}
	_, err := d.Run(context.Background(), inv)
	require.NoError(t, err)

	assert.Equal(t, "scenario passed\n", stdout.String())
	assert.Equal(t, "warning\n", stderr.String())
}

func TestRun_SpawnFailure(t *testing.T) {
	t.Parallel()

	d := newTestDispatcher(t, Options{Runner: "definitely-not-a-real-runner-xyz"})
	inv := Invocation{
		Selector:   Selector{Kind: SelectAll},
		Executable: "definitely-not-a-real-runner-xyz",
	}
	_, err := d.Run(context.Background(), inv)
	require.ErrorIs(t, err, errors.ErrRunnerStart)
}

func TestRun_SuiteTimeout(t *testing.T) {
	t.Parallel()

	d := newTestDispatcher(t, Options{Runner: "sleep", Timeout: 100 * time.Millisecond})
	// WaitDelay eventually SIGKILLs, but SIGTERM is enough for sleep.
	inv := Invocation{
		Selector:   Selector{Kind: SelectAll},
		Executable: "sleep",
		Args:       []string{"10"},
	}

	start := time.Now()
	outcome, err := d.Run(context.Background(), inv)
	require.ErrorIs(t, err, errors.ErrSuiteTimeout)
	assert.Equal(t, constants.ExitSuiteTimeout, outcome.ExitCode)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRun_CanceledContextForwardsSignal(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	d := newTestDispatcher(t, Options{Runner: "sh"})

	// A child that traps SIGTERM and exits 143 proves the signal was
	// forwarded rather than the default SIGKILL.
	inv := Invocation{
		Selector:   Selector{Kind: SelectAll},
		Executable: "sh",
		Args:       []string{"-c", `trap 'exit 143' TERM; sleep 10 & wait`},
	}

	go func() {
		time.Sleep(200 * time.Millisecond)
		cancel()
	}()

	outcome, err := d.Run(ctx, inv)
	require.NoError(t, err)
	assert.Equal(t, 143, outcome.ExitCode)
}
