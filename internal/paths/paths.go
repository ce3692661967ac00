// Package paths resolves the configuration and data directories of the
// playnotes service.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

const (
	appName = "playnotes"

	// DefaultDataDirName is the CWD-relative data directory used when
	// nothing else is configured.
	DefaultDataDirName = ".playnotes-db"

	// ConfigFileName is the configuration file inside the config directory.
	ConfigFileName = "config.yaml"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "PLAYNOTES_CONFIG_DIR"
	EnvDataDir   = "PLAYNOTES_DATA_DIR"
)

// userDirs is swapped out in tests.
var userDirs = struct {
	home   func() (string, error)
	config func() (string, error)
}{
	home:   os.UserHomeDir,
	config: os.UserConfigDir,
}

// DefaultConfigDir returns the platform configuration directory:
// $XDG_CONFIG_HOME/playnotes or ~/.config/playnotes on Linux, and
// os.UserConfigDir()/playnotes elsewhere.
func DefaultConfigDir() (string, error) {
	if runtime.GOOS != "linux" {
		dir, err := userDirs.config()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appName), nil
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := userDirs.home()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// ResolveConfigDir picks the configuration directory: the flag, then
// $PLAYNOTES_CONFIG_DIR, then DefaultConfigDir.
func ResolveConfigDir(flag string) (string, error) {
	if dir, ok := firstSet(flag, os.Getenv(EnvConfigDir)); ok {
		return filepath.Abs(dir)
	}
	return DefaultConfigDir()
}

// ResolveDataDir picks the data directory: the flag, then data_dir from the
// config file, then $PLAYNOTES_DATA_DIR, then DefaultDataDirName under the
// working directory.
func ResolveDataDir(flag, configValue string) (string, error) {
	if dir, ok := firstSet(flag, configValue, os.Getenv(EnvDataDir)); ok {
		return filepath.Abs(dir)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}

// ConfigFile returns the path of the configuration file in configDir.
func ConfigFile(configDir string) string {
	return filepath.Join(configDir, ConfigFileName)
}

func firstSet(candidates ...string) (string, bool) {
	for _, c := range candidates {
		if c != "" {
			return c, true
		}
	}
	return "", false
}
