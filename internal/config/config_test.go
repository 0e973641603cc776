package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoadFormats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name:    "toml",
			file:    "cfg.toml",
			content: "[bus]\nbridge_to_host = true\n[log]\nlevel = \"debug\"\n[monitor]\ninterval = \"1s\"\n",
		},
		{
			name:    "yaml",
			file:    "cfg.yaml",
			content: "bus:\n  bridge_to_host: true\nlog:\n  level: debug\nmonitor:\n  interval: 1s\n",
		},
		{
			name:    "json",
			file:    "cfg.json",
			content: `{"bus":{"bridge_to_host":true},"log":{"level":"debug"},"monitor":{"interval":"1s"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := writeTempFile(t, t.TempDir(), tt.file, tt.content)

			cfg, err := LoadFromPath(p)
			require.NoError(t, err)

			assert.True(t, cfg.Bus.BridgeToHost)
			assert.Equal(t, "debug", cfg.Log.Level)
			assert.Equal(t, time.Second, cfg.Monitor.Interval.Std())
			// untouched values keep defaults
			assert.Equal(t, "console", cfg.Log.Format)
			assert.Equal(t, 500, cfg.Monitor.History)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	_, err := LoadFromPath("")
	assert.Error(t, err)

	d := t.TempDir()
	_, err = LoadFromPath(filepath.Join(d, "missing.toml"))
	assert.ErrorContains(t, err, "not found")

	p := writeTempFile(t, d, "cfg.txt", "not supported")
	_, err = LoadFromPath(p)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))

	p = writeTempFile(t, d, "bad.toml", "[log]\nlevel = \"loud\"\n")
	_, err = LoadFromPath(p)
	assert.ErrorContains(t, err, "invalid log level")

	p = writeTempFile(t, d, "bad_interval.yaml", "monitor:\n  interval: soon\n")
	_, err = LoadFromPath(p)
	assert.ErrorContains(t, err, "invalid duration")
}

func TestSaveRoundTrip(t *testing.T) {
	for _, name := range []string{"nested/config.toml", "config.yaml", "config.json"} {
		t.Run(name, func(t *testing.T) {
			p := filepath.Join(t.TempDir(), name)
			cfg := DefaultConfig()
			cfg.Bus.BridgeToHost = true
			cfg.Metrics.Addr = ":9464"

			require.NoError(t, SaveToPath(cfg, p))
			loaded, err := LoadFromPath(p)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}

	err := SaveToPath(DefaultConfig(), filepath.Join(t.TempDir(), "config.ini"))
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("EVENTBRIDGE_LOG_LEVEL", "warn")
	t.Setenv("EVENTBRIDGE_METRICS_ADDR", "127.0.0.1:9000")
	t.Setenv("EVENTBRIDGE_BRIDGE_TO_HOST", "true")

	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "127.0.0.1:9000", cfg.Metrics.Addr)
	assert.True(t, cfg.Bus.BridgeToHost)

	t.Setenv("EVENTBRIDGE_BRIDGE_TO_HOST", "maybe")
	assert.Error(t, DefaultConfig().ApplyEnv())
}

func TestDefaultPath(t *testing.T) {
	p := DefaultPath()
	assert.Equal(t, "config.toml", filepath.Base(p))
	assert.Equal(t, "eventbridge", filepath.Base(filepath.Dir(p)))
}
