package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/existflow/timeline/internal/config"
	"github.com/existflow/timeline/internal/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromMissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.LoadFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "month-day", cfg.SortMode)
	assert.Equal(t, ledger.SortMonthDay, cfg.Sort())
	assert.True(t, cfg.ConfirmDelete)
	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Empty(t, cfg.SeedFile)
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := config.DefaultConfig()
	cfg.SeedFile = "/data/family.yaml"
	cfg.SortMode = "absolute"
	cfg.ConfirmDelete = false
	require.NoError(t, cfg.SaveTo(path))

	loaded, err := config.LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/family.yaml", loaded.SeedFile)
	assert.Equal(t, ledger.SortAbsolute, loaded.Sort())
	assert.False(t, loaded.ConfirmDelete)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: WARN\nserver_addr: \":9000\"\n"), 0644))

	t.Setenv("TIMELINE_LOG_LEVEL", "DEBUG")
	t.Setenv("TIMELINE_LOG_CONSOLE", "true")

	cfg, err := config.LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
	assert.True(t, cfg.LogConsole)
	assert.Equal(t, ":9000", cfg.ServerAddr)
}

func TestInvalidConfig(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("sort_mode: [unclosed"), 0644))
	_, err := config.LoadFrom(bad)
	assert.Error(t, err)

	unknown := filepath.Join(dir, "unknown.yaml")
	require.NoError(t, os.WriteFile(unknown, []byte("sort_mode: sideways\n"), 0644))
	_, err = config.LoadFrom(unknown)
	assert.ErrorContains(t, err, "sideways")
}
