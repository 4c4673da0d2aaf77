// Package config loads the application configuration from
// ~/.antar/config.toml, with built-in defaults and an environment
// override for the data directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Backend names accepted by the storage section.
const (
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config is the complete application configuration.
type Config struct {
	// DataDir holds the store and the log file. Overridden by ANTAR_DATA_DIR.
	DataDir string `toml:"data_dir"`
	// Storage selects the backend: "badger", "sqlite" or "memory".
	Storage string `toml:"storage"`

	DefaultPersona PersonaConfig `toml:"default_persona"`
}

// PersonaConfig describes the persona seeded on first run.
type PersonaConfig struct {
	Name   string `toml:"name"`
	Colour string `toml:"colour"`
}

// Default returns the built-in configuration.
func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		DataDir: filepath.Join(home, ".antar"),
		Storage: BackendBadger,
		DefaultPersona: PersonaConfig{
			Name:   "Me",
			Colour: "#495565",
		},
	}
}

// Path returns the config file location.
func Path() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".antar", "config.toml")
}

// Load reads the config at path, layering it over the defaults. A
// missing file yields the defaults; a malformed file is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return applyEnv(cfg), nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg = applyEnv(cfg)
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg Config) Config {
	if dir := os.Getenv("ANTAR_DATA_DIR"); dir != "" {
		cfg.DataDir = dir
	}
	return cfg
}

func (c Config) validate() error {
	switch c.Storage {
	case BackendBadger, BackendSQLite, BackendMemory:
		return nil
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage)
	}
}
