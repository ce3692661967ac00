package types

import (
	"errors"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Backend:   BackendSQLite,
		DataDir:   "/tmp/data",
		SheetName: DefaultSheetName,
		Timezone:  "UTC",
		Users:     []UserConfig{{Name: "alice", Workbook: "wb-alice"}},
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{
			name:    "empty backend returns ErrBackendEmpty",
			mutate:  func(c *Config) { c.Backend = "" },
			wantErr: ErrBackendEmpty,
		},
		{
			name:    "unknown backend returns ErrBackendUnknown",
			mutate:  func(c *Config) { c.Backend = "postgres" },
			wantErr: ErrBackendUnknown,
		},
		{
			name:    "empty sheet name returns ErrSheetNameEmpty",
			mutate:  func(c *Config) { c.SheetName = "" },
			wantErr: ErrSheetNameEmpty,
		},
		{
			name:    "bad timezone returns ErrTimezoneInvalid",
			mutate:  func(c *Config) { c.Timezone = "Mars/Olympus" },
			wantErr: ErrTimezoneInvalid,
		},
		{
			name:    "bad log level returns ErrLogLevelInvalid",
			mutate:  func(c *Config) { c.LogLevel = "loud" },
			wantErr: ErrLogLevelInvalid,
		},
		{
			name:    "user without name",
			mutate:  func(c *Config) { c.Users = append(c.Users, UserConfig{Workbook: "x"}) },
			wantErr: ErrUserNameEmpty,
		},
		{
			name:    "user without workbook",
			mutate:  func(c *Config) { c.Users = append(c.Users, UserConfig{Name: "bob"}) },
			wantErr: ErrUserWorkbook,
		},
		{
			name:    "duplicate user",
			mutate:  func(c *Config) { c.Users = append(c.Users, UserConfig{Name: "alice", Workbook: "other"}) },
			wantErr: ErrUserDuplicate,
		},
		{
			name:    "valid sqlite config",
			mutate:  func(c *Config) {},
			wantErr: nil,
		},
		{
			name:    "no users is valid at config level",
			mutate:  func(c *Config) { c.Users = nil },
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error %v, got nil", tt.wantErr)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfigLocation(t *testing.T) {
	cfg := validConfig()

	cfg.Timezone = ""
	loc, err := cfg.Location()
	if err != nil || loc != time.Local {
		t.Fatalf("empty timezone: got %v, %v", loc, err)
	}

	cfg.Timezone = "Asia/Yekaterinburg"
	loc, err = cfg.Location()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loc.String() != "Asia/Yekaterinburg" {
		t.Fatalf("expected Asia/Yekaterinburg, got %s", loc)
	}
}

func TestConfigUserWorkbooks(t *testing.T) {
	cfg := validConfig()
	cfg.Users = append(cfg.Users, UserConfig{Name: "Bob", Workbook: "wb-bob"})

	got := cfg.UserWorkbooks()
	if len(got) != 2 || got["alice"] != "wb-alice" || got["Bob"] != "wb-bob" {
		t.Fatalf("unexpected mapping: %v", got)
	}
}
