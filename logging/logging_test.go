package logging

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/marquee/constants"
)

func TestSetup_DisabledByDefault(t *testing.T) {
	logger, closer, err := Setup(Options{})
	require.NoError(t, err)
	assert.Nil(t, closer)
	assert.Equal(t, zerolog.Disabled, logger.GetLevel())
}

func TestSetup_EnabledWritesFile(t *testing.T) {
	dir := t.TempDir()

	logger, closer, err := Setup(Options{Enabled: true, Dir: filepath.Join(dir, "logs"), Level: "debug"})
	require.NoError(t, err)
	require.NotNil(t, closer)

	logger.Debug().Str("text", "hello").Msg("session started")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(filepath.Join(dir, "logs", constants.LogFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "session started")
	assert.Contains(t, string(data), "text=hello")
}

func TestSetup_LevelFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.log")

	logger, closer, err := Setup(Options{Enabled: true, Path: path, Level: "warn"})
	require.NoError(t, err)

	logger.Info().Msg("quiet")
	logger.Warn().Msg("loud")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "quiet")
	assert.Contains(t, string(data), "loud")
}

func TestSetup_Rotation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, constants.LogFileName)

	// Write just over the limit
	require.NoError(t, os.WriteFile(path, make([]byte, constants.MaxLogSize+1), 0644))

	_, closer, err := Setup(Options{Enabled: true, Path: path})
	require.NoError(t, err)
	defer closer.Close()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	rotatedFound := false
	for _, entry := range entries {
		if entry.Name() != constants.LogFileName && filepath.Ext(entry.Name()) == ".log" {
			rotatedFound = true
		}
	}
	assert.True(t, rotatedFound, "expected rotated log file")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Less(t, info.Size(), int64(constants.MaxLogSize))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.TraceLevel, ParseLevel("trace"))
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zerolog.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("bogus"))
}

func TestRotatedPath(t *testing.T) {
	at := time.Date(2026, 10, 17, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, filepath.Join("logs", "marquee.20261017_150405.log"),
		RotatedPath(filepath.Join("logs", "marquee.log"), at))
}
