package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loadRuntime touches the working directory and process env, so these tests
// do not run in parallel.

func TestLoadRuntime_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	rt, err := loadRuntime(context.Background(), &GlobalFlags{})
	require.NoError(t, err)

	assert.Len(t, rt.deps, 4)
	assert.Equal(t, []string{"health", "integration", "wbia"}, rt.registry.Names())
	assert.Equal(t, "behave", rt.cfg.Suite.Runner)
}

func TestLoadRuntime_SuitesFileMergesRegistry(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	suitesPath := filepath.Join(dir, "suites.yaml")
	require.NoError(t, os.WriteFile(suitesPath, []byte(`suites:
  - name: smoke
    description: fast sanity checks
    args: ["--tags=smoke"]
  - name: health
    args: ["--tags=health", "--stop"]
`), 0o600))

	configPath := filepath.Join(dir, ".testgate.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("suite:\n  suites_file: "+suitesPath+"\n"), 0o600))

	rt, err := loadRuntime(context.Background(), &GlobalFlags{})
	require.NoError(t, err)

	assert.Equal(t, []string{"health", "integration", "smoke", "wbia"}, rt.registry.Names())

	// The suites file overrides the built-in definition.
	def, ok := rt.registry.Lookup("health")
	require.True(t, ok)
	assert.Equal(t, []string{"--tags=health", "--stop"}, def.Args)
}

func TestLoadRuntime_EnvFileFeedsOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("WBIA_URL=http://wbia.test:5000\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("WBIA_URL") })

	rt, err := loadRuntime(context.Background(), &GlobalFlags{EnvFile: envPath})
	require.NoError(t, err)

	var found bool
	for _, dep := range rt.deps {
		if dep.Name == "wbia" {
			found = true
			assert.Equal(t, "http://wbia.test:5000", dep.Probe.URL)
		}
	}
	require.True(t, found, "wbia dependency must exist")
}

func TestLoadRuntime_MissingExplicitConfigFails(t *testing.T) {
	_, err := loadRuntime(context.Background(), &GlobalFlags{
		ConfigFile: filepath.Join(t.TempDir(), "nope.yaml"),
	})
	require.Error(t, err)
}

func TestLoadRuntime_MissingSuitesFileFails(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	configPath := filepath.Join(dir, ".testgate.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("suite:\n  suites_file: does-not-exist.yaml\n"), 0o600))

	_, err := loadRuntime(context.Background(), &GlobalFlags{})
	require.Error(t, err)
}
