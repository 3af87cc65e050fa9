// Package config loads process settings for the command-line tools from the
// environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/cxd309/evasion-engine/internal/engine"
)

// Environment variables read by Load.
const (
	EnvLogLevel     = "EVASION_LOG_LEVEL"
	EnvOutputFormat = "EVASION_OUTPUT_FORMAT"
	EnvPretty       = "EVASION_PRETTY"
)

// Config holds process settings. Simulation parameters live in the input
// document, not here.
type Config struct {
	LogLevel slog.Level
	Format   engine.Format
	Pretty   bool
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{LogLevel: slog.LevelInfo, Format: engine.FormatJSON}
}

// Load reads settings from the dotenv file at path, then from the process
// environment, which takes precedence. A missing file is not an error.
func Load(path string) (Config, error) {
	file := map[string]string{}
	if path != "" {
		vals, err := godotenv.Read(path)
		switch {
		case err == nil:
			file = vals
		case !errors.Is(err, fs.ErrNotExist):
			return Config{}, fmt.Errorf("reading %s: %w", path, err)
		}
	}
	lookup := func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return file[key]
	}

	cfg := Default()
	if v := lookup(EnvLogLevel); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvLogLevel, err)
		}
	}
	if v := lookup(EnvOutputFormat); v != "" {
		f, err := engine.ParseFormat(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvOutputFormat, err)
		}
		cfg.Format = f
	}
	if v := lookup(EnvPretty); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvPretty, err)
		}
		cfg.Pretty = b
	}
	return cfg, nil
}
