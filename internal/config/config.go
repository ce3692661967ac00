// Package config loads the playnotes configuration from config.yaml and the
// environment using Viper.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/playnotes/internal/paths"
	"github.com/mesh-intelligence/playnotes/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	// EnvPrefix prefixes environment overrides, e.g. PLAYNOTES_LISTEN.
	EnvPrefix = "PLAYNOTES"
)

// Config keys.
const (
	KeyBackend   = "backend"
	KeyDataDir   = "data_dir"
	KeyListen    = "listen"
	KeySheetName = "sheet_name"
	KeyTimezone  = "timezone"
	KeyLogLevel  = "log_level"
	KeyAPIKey    = "api_key"
	KeyUsers     = "users"
)

// envKeys may be overridden from the environment. data_dir is resolved by
// paths.ResolveDataDir, where the config file wins over the environment.
var envKeys = []string{KeyBackend, KeyListen, KeySheetName, KeyTimezone, KeyLogLevel, KeyAPIKey}

// DefaultConfigYAML is written to config.yaml on first run.
const DefaultConfigYAML = `# playnotes configuration

# Storage backend
backend: sqlite

# Data directory (optional; overridable by --data-dir flag)
# data_dir:

# HTTP listen address for "playnotes serve"
listen: ":8080"

# Sheet holding the notes inside each workbook
sheet_name: "Лист1"

# Time zone of default note timestamps ("Local" or an IANA name)
timezone: Local

# debug, info, warn or error
log_level: info

# When set, POST requests need "Authorization: Bearer <api_key>"
# api_key:

# Callers and the workbook holding each one's notes
users: []
#  - name: alice
#    workbook: alice-notes
`

// Load reads config.yaml from configDir, creating the directory and a default
// file on first run, and returns the resulting Config. dataDirFlag, when
// non-empty, overrides data_dir. The returned Config is not validated.
func Load(configDir, dataDirFlag string) (types.Config, error) {
	v, err := readConfig(configDir)
	if err != nil {
		return types.Config{}, err
	}

	dataDir, err := paths.ResolveDataDir(dataDirFlag, v.GetString(KeyDataDir))
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve data dir: %w", err)
	}

	cfg := types.Config{
		Backend:   v.GetString(KeyBackend),
		DataDir:   dataDir,
		Listen:    v.GetString(KeyListen),
		SheetName: v.GetString(KeySheetName),
		Timezone:  v.GetString(KeyTimezone),
		LogLevel:  v.GetString(KeyLogLevel),
		APIKey:    v.GetString(KeyAPIKey),
	}
	if err := v.UnmarshalKey(KeyUsers, &cfg.Users); err != nil {
		return types.Config{}, fmt.Errorf("read %s: %w", KeyUsers, err)
	}
	return cfg, nil
}

// readConfig builds the Viper instance for configDir. A missing config.yaml
// is not an error.
func readConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(KeyBackend, types.BackendSQLite)
	v.SetDefault(KeyListen, types.DefaultListen)
	v.SetDefault(KeySheetName, types.DefaultSheetName)
	v.SetDefault(KeyTimezone, types.DefaultTimezone)
	v.SetDefault(KeyLogLevel, types.DefaultLogLevel)

	v.SetEnvPrefix(EnvPrefix)
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// ensureDefaultConfigFile creates a default config.yaml if the file does not
// exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := paths.ConfigFile(configDir)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(DefaultConfigYAML), 0o644)
}
