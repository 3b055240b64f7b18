package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		verbose bool
		quiet   bool
		want    zerolog.Level
	}{
		{"default is info", false, false, zerolog.InfoLevel},
		{"verbose is debug", true, false, zerolog.DebugLevel},
		{"quiet is warn", false, true, zerolog.WarnLevel},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, selectLevel(tc.verbose, tc.quiet))
		})
	}
}

func TestInitLoggerWithWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := InitLoggerWithWriter(true, false, &buf)

	logger.Debug().Str("component", "test").Msg("debug visible in verbose mode")
	assert.Contains(t, buf.String(), "debug visible in verbose mode")

	buf.Reset()
	logger = InitLoggerWithWriter(false, true, &buf)
	logger.Info().Msg("info suppressed in quiet mode")
	assert.Empty(t, buf.String())
}

func TestLogFilePath_HonorsHomeOverride(t *testing.T) {
	home := t.TempDir()
	t.Setenv("TESTGATE_HOME", home)

	path, err := LogFilePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "logs", "testgate.log"), path)
}

func TestInitLogger_CreatesLogFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("TESTGATE_HOME", home)

	logger := InitLogger(false, false)
	logger.Info().Msg("hello")
	CloseLogFile()

	assert.FileExists(t, filepath.Join(home, "logs", "testgate.log"))
}
