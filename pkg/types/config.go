package types

import (
	"errors"
	"fmt"
	"time"
)

// Config holds backend selection, server settings, and the user to workbook
// mapping used by the dispatcher.
type Config struct {
	Backend   string       `json:"backend" yaml:"backend" mapstructure:"backend"`
	DataDir   string       `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`
	Listen    string       `json:"listen" yaml:"listen" mapstructure:"listen"`
	SheetName string       `json:"sheet_name" yaml:"sheet_name" mapstructure:"sheet_name"`
	Timezone  string       `json:"timezone" yaml:"timezone" mapstructure:"timezone"`
	LogLevel  string       `json:"log_level" yaml:"log_level" mapstructure:"log_level"`
	APIKey    string       `json:"api_key" yaml:"api_key,omitempty" mapstructure:"api_key"`
	Users     []UserConfig `json:"users" yaml:"users" mapstructure:"users"`
}

// UserConfig binds a caller-supplied user name to the workbook that holds
// that user's notes.
type UserConfig struct {
	Name     string `json:"name" yaml:"name" mapstructure:"name"`
	Workbook string `json:"workbook" yaml:"workbook" mapstructure:"workbook"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
)

// Defaults applied by the config loader when a key is not set.
const (
	DefaultListen    = ":8080"
	DefaultSheetName = "Лист1"
	DefaultTimezone  = "Local"
	DefaultLogLevel  = "info"
)

// Config validation errors.
var (
	ErrBackendEmpty    = errors.New("backend must not be empty")
	ErrBackendUnknown  = errors.New("unknown backend")
	ErrSheetNameEmpty  = errors.New("sheet name must not be empty")
	ErrTimezoneInvalid = errors.New("unknown timezone")
	ErrLogLevelInvalid = errors.New("unknown log level")
	ErrUserNameEmpty   = errors.New("user name must not be empty")
	ErrUserWorkbook    = errors.New("user workbook must not be empty")
	ErrUserDuplicate   = errors.New("duplicate user")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
}

var knownLogLevels = map[string]bool{
	"":      true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure, wrapped with the offending value where one
// exists.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return fmt.Errorf("%w: %q", ErrBackendUnknown, c.Backend)
	}
	if c.SheetName == "" {
		return ErrSheetNameEmpty
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if !knownLogLevels[c.LogLevel] {
		return fmt.Errorf("%w: %q", ErrLogLevelInvalid, c.LogLevel)
	}

	seen := make(map[string]bool, len(c.Users))
	for _, u := range c.Users {
		if u.Name == "" {
			return ErrUserNameEmpty
		}
		if u.Workbook == "" {
			return fmt.Errorf("%w: %q", ErrUserWorkbook, u.Name)
		}
		if seen[u.Name] {
			return fmt.Errorf("%w: %q", ErrUserDuplicate, u.Name)
		}
		seen[u.Name] = true
	}
	return nil
}

// Location resolves Timezone. An empty value or "Local" selects time.Local.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == DefaultTimezone {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrTimezoneInvalid, c.Timezone)
	}
	return loc, nil
}

// UserWorkbooks returns the user to workbook mapping as a map.
func (c Config) UserWorkbooks() map[string]string {
	m := make(map[string]string, len(c.Users))
	for _, u := range c.Users {
		m[u.Name] = u.Workbook
	}
	return m
}
