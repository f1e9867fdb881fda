package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/mhoersch/hoursheet/internal/myhours"
)

// Config is the root configuration for hoursheet, stored in
// ~/.hoursheet/config.json. The file supports single-line // comments
// for documentation purposes. Environment variables (optionally loaded
// from a .env file) override the file.
type Config struct {
	API APIConfig `json:"api"`
}

// APIConfig holds the MyHours API settings.
type APIConfig struct {
	// BaseURL is the API root. Override for staging or tests.
	BaseURL string `json:"base_url"`
}

// defaultConfig returns a Config pre-filled with sensible defaults.
func defaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL: myhours.DefaultBaseURL,
		},
	}
}

// configTemplate is the annotated config written on first run.
// Lines whose trimmed content starts with // are stripped before JSON
// parsing, allowing human-readable documentation inside the file.
const configTemplate = `// hoursheet configuration – ~/.hoursheet/config.json
//
// All settings are optional; the built-in defaults shown below work out
// of the box. Edit this file to customise hoursheet behaviour.
{
  // ── MyHours API ──────────────────────────────────────────────────────────
  "api": {
    // API root URL. Only change this for a staging environment.
    // Can also be overridden with the HOURSHEET_BASE_URL environment variable
    // (a .env file next to the binary or in ~/.hoursheet/ is honoured).
    "base_url": "https://api2.myhours.com/api"
  }
}
`

// BaseDir returns the root data directory (~/.hoursheet).
func BaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".hoursheet"), nil
}

// configFilePath returns the path to ~/.hoursheet/config.json.
func configFilePath() (string, error) {
	base, err := BaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "config.json"), nil
}

// stripLineComments removes lines whose leading non-whitespace content
// starts with //. Only full-line comments are handled; inline comments
// are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// loadEnvOverrides merges environment variables into cfg. A .env file in
// the working directory or in ~/.hoursheet/ is loaded first, best-effort.
func loadEnvOverrides(cfg *Config) {
	_ = godotenv.Load()
	if base, err := BaseDir(); err == nil {
		_ = godotenv.Load(filepath.Join(base, ".env"))
	}

	if v := os.Getenv("HOURSHEET_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}
}

// Load reads ~/.hoursheet/config.json, creating it with annotated
// defaults on first run, then applies environment overrides.
func Load() (Config, error) {
	path, err := configFilePath()
	if err != nil {
		return defaultConfig(), err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
		cfg := defaultConfig()
		loadEnvOverrides(&cfg)
		return cfg, nil
	}
	if err != nil {
		return defaultConfig(), fmt.Errorf("reading config file %s: %w", path, err)
	}

	cleaned := stripLineComments(data)
	var cfg Config
	if err := json.Unmarshal(cleaned, &cfg); err != nil {
		return defaultConfig(), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}

	// Fill zero-value fields with built-in defaults so callers always get
	// a usable Config even if the user only partially fills in the file.
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = myhours.DefaultBaseURL
	}

	loadEnvOverrides(&cfg)
	return cfg, nil
}

// writeDefault creates the config directory and writes the annotated
// default config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
