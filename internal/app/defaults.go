package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// Environment variables that override default locations.
const (
	EnvConfigPath = "STEADFAST_CONFIG_PATH"
	EnvHome       = "STEADFAST_HOME"
	EnvPassphrase = "STEADFAST_PASSPHRASE"
)

// Defaults holds the resolved default locations.
type Defaults struct {
	ConfigPath string
	BaseDir    string
	LogDir     string
}

// GetDefaults resolves default paths, letting the environment win:
//   - STEADFAST_CONFIG_PATH: config file (default ~/.config/steadfast.toml)
//   - STEADFAST_HOME: data directory (default ~/.local/share/steadfast)
func GetDefaults() (Defaults, error) {
	configPath, err := configPath()
	if err != nil {
		return Defaults{}, err
	}
	baseDir, err := baseDir()
	if err != nil {
		return Defaults{}, err
	}
	return Defaults{
		ConfigPath: configPath,
		BaseDir:    baseDir,
		LogDir:     filepath.Join(baseDir, "log"),
	}, nil
}

func configPath() (string, error) {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "steadfast.toml"), nil
}

func baseDir() (string, error) {
	if path := os.Getenv(EnvHome); path != "" {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "steadfast"), nil
}
