package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.hcl"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadHCL(t *testing.T) {
	path := writeConfig(t, "ohh2stars.hcl", `
log_level     = "debug"
workers       = 4
extensions    = ["ohh", ".json"]
output_dir    = "converted"
output_suffix = ".ps.txt"
overwrite     = true

watch {
  interval   = "2s"
  state_file = "watch.db"
}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, []string{".ohh", ".json"}, cfg.Extensions)
	assert.Equal(t, "converted", cfg.OutputDir)
	assert.Equal(t, ".ps.txt", cfg.OutputSuffix)
	assert.True(t, cfg.Overwrite)
	assert.Equal(t, "watch.db", cfg.Watch.StateFile)

	interval, err := cfg.WatchInterval()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, interval)
}

func TestLoadTOML(t *testing.T) {
	path := writeConfig(t, "ohh2stars.toml", `
log_level = "warn"
json_logs = true
workers = 2

[watch]
interval = "1m"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.True(t, cfg.JSONLogs)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, Default().Extensions, cfg.Extensions)

	interval, err := cfg.WatchInterval()
	require.NoError(t, err)
	assert.Equal(t, time.Minute, interval)
}

func TestLoadAppliesDefaultsToPartialFile(t *testing.T) {
	path := writeConfig(t, "partial.hcl", `workers = 3`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, Default().OutputSuffix, cfg.OutputSuffix)
	require.NotNil(t, cfg.Watch)
	assert.Equal(t, "5s", cfg.Watch.Interval)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
	}{
		{"bad level", "a.hcl", `log_level = "loud"`},
		{"negative workers", "b.hcl", `workers = -1`},
		{"bad interval", "c.toml", "[watch]\ninterval = \"soon\"\n"},
		{"zero interval", "d.hcl", "watch {\n  interval = \"0s\"\n}\n"},
		{"syntax", "e.hcl", `workers = `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.file, tt.body))
			assert.Error(t, err)
		})
	}
}
