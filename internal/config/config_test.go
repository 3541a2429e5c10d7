package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
env: local
log:
  level: debug
  format: json
store:
  path: /tmp/events.db
analysis:
  merge_gap_seconds: 5
  week_start: sunday
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "/tmp/events.db", cfg.Store.Path)
	assert.Equal(t, 5, cfg.Analysis.MergeGapSeconds)
	assert.Equal(t, "sunday", cfg.Analysis.WeekStart)
	// Unset fields keep their defaults.
	assert.Equal(t, 30, cfg.Analysis.FocusMinMinutes)
	assert.Equal(t, 10, cfg.Analysis.TopN)
}

func TestLoadConfigMissingFileUsesEnv(t *testing.T) {
	t.Setenv("AWLENS_LOG_LEVEL", "warn")
	t.Setenv("AWLENS_STORE_PATH", "/data/events.db")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "/data/events.db", cfg.Store.Path)
	assert.Equal(t, 120, cfg.Analysis.FocusGapTolerance)
}

func TestLoadConfigDefaultPaths(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.Store.Path)
	assert.NotEmpty(t, cfg.Analysis.ConfigPath)
}
