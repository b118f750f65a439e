// Package config loads the kutyus CLI configuration file.
//
// The file is TOML, defaulting to $XDG_CONFIG_HOME/kutyus/config.toml
// (falling back to ~/.config/kutyus/config.toml). Paths in the file may
// start with "~", which expands to the user's home directory.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ErrAlreadyInitialized is returned by Init when the config file exists and
// force was not requested.
var ErrAlreadyInitialized = errors.New("config: already initialized")

type Config struct {
	// Storage is the feed store root directory for the localfs backend.
	Storage string `toml:"storage"`

	// Key is the keystore identity name used for signing.
	Key string `toml:"key"`

	// Backend selects the feed store backend ("localfs" or "grpc").
	Backend string `toml:"backend"`
}

const defaultFile = `# kutyus configuration.

# Path of your feed storage.
# storage = "~/.kutyus/storage"

# Keystore identity used for signing.
# key = "my"

# Feed store backend: localfs or grpc.
# backend = "localfs"
`

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "kutyus", "config.toml"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "kutyus", "config.toml"), nil
}

// Load reads the config file at path, filling unset fields with defaults.
// A missing file yields the defaults without error.
func Load(path string) (Config, error) {
	cfg := Config{
		Storage: "~/.kutyus/storage",
		Key:     "my",
		Backend: "localfs",
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("config: %w", err)
		}
	}
	storage, err := ExpandPath(cfg.Storage)
	if err != nil {
		return Config{}, err
	}
	cfg.Storage = storage
	return cfg, nil
}

// Init writes the default config file at path. With force it overwrites an
// existing file.
func Init(path string, force bool) error {
	if path == "" {
		return errors.New("config: config path is required")
	}
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%w: %s (use --force to overwrite)", ErrAlreadyInitialized, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(defaultFile), 0o644)
}

// ExpandPath replaces a leading "~" with the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, strings.TrimPrefix(path, "~")), nil
}
