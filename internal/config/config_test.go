package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cxd309/evasion-engine/internal/engine"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvLogLevel, EnvOutputFormat, EnvPretty} {
		t.Setenv(key, "")
	}
}

func writeDotenv(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadReadsDotenv(t *testing.T) {
	clearEnv(t)
	path := writeDotenv(t, "EVASION_LOG_LEVEL=debug\nEVASION_OUTPUT_FORMAT=msgpack\nEVASION_PRETTY=true\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Config{LogLevel: slog.LevelDebug, Format: engine.FormatMsgpack, Pretty: true}, cfg)
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeDotenv(t, "EVASION_LOG_LEVEL=debug\n")
	t.Setenv(EnvLogLevel, "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := map[string]string{
		EnvLogLevel:     "chatty",
		EnvOutputFormat: "xml",
		EnvPretty:       "sometimes",
	}
	for key, val := range tests {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, val)
			_, err := Load("")
			assert.ErrorContains(t, err, key)
		})
	}
}
