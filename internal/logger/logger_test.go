package logger_test

import (
	"os"
	"testing"
	"time"

	"mcq-generator/internal/config"
	"mcq-generator/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunLogName(t *testing.T) {
	ts := time.Date(2024, time.March, 7, 14, 5, 9, 0, time.UTC)
	assert.Equal(t, "03_07_2024-14_05_09.log", logger.RunLogName(ts))
}

func TestInitialize_WritesRunLog(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, logger.Initialize(config.LoggerConfig{Level: "debug", Env: "production", Dir: dir}))

	logger.Get().Info("pipeline started")
	_ = logger.Sync()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	content, err := os.ReadFile(dir + "/" + entries[0].Name())
	require.NoError(t, err)
	assert.Contains(t, string(content), "pipeline started")
}

func TestInitialize_InvalidLevel(t *testing.T) {
	err := logger.Initialize(config.LoggerConfig{Level: "chatty"})
	require.Error(t, err)
}
