package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/playnotes/internal/paths"
	"github.com/mesh-intelligence/playnotes/pkg/types"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(EnvPrefix+"_"+strings.ToUpper(key), "")
	}
	t.Setenv(paths.EnvDataDir, "")
}

func TestLoad_FirstRunWritesDefaults(t *testing.T) {
	clearEnv(t)
	dir := filepath.Join(t.TempDir(), "conf")

	cfg, err := Load(dir, "/data")
	require.NoError(t, err)

	data, err := os.ReadFile(paths.ConfigFile(dir))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfigYAML, string(data))

	assert.Equal(t, types.BackendSQLite, cfg.Backend)
	assert.Equal(t, "/data", cfg.DataDir)
	assert.Equal(t, ":8080", cfg.Listen)
	assert.Equal(t, "Лист1", cfg.SheetName)
	assert.Equal(t, "Local", cfg.Timezone)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.APIKey)
	assert.Empty(t, cfg.Users)
	require.NoError(t, cfg.Validate())
}

func TestLoad_ReadsFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	content := `backend: sqlite
data_dir: /srv/playnotes
listen: "127.0.0.1:9000"
sheet_name: Notes
timezone: Europe/Moscow
log_level: debug
api_key: k
users:
  - name: alice
    workbook: wb-a
  - name: bob
    workbook: wb-b
`
	require.NoError(t, os.WriteFile(paths.ConfigFile(dir), []byte(content), 0o644))

	cfg, err := Load(dir, "")
	require.NoError(t, err)
	assert.Equal(t, "/srv/playnotes", cfg.DataDir)
	assert.Equal(t, "127.0.0.1:9000", cfg.Listen)
	assert.Equal(t, "Notes", cfg.SheetName)
	assert.Equal(t, "Europe/Moscow", cfg.Timezone)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "k", cfg.APIKey)
	assert.Equal(t, []types.UserConfig{{Name: "alice", Workbook: "wb-a"}, {Name: "bob", Workbook: "wb-b"}}, cfg.Users)
	assert.Equal(t, map[string]string{"alice": "wb-a", "bob": "wb-b"}, cfg.UserWorkbooks())
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(paths.ConfigFile(dir), []byte("listen: \":1\"\ndata_dir: /from/file\n"), 0o644))

	t.Setenv("PLAYNOTES_LISTEN", ":2")
	t.Setenv("PLAYNOTES_API_KEY", "env-key")
	t.Setenv("PLAYNOTES_DATA_DIR", "/from/env")

	cfg, err := Load(dir, "")
	require.NoError(t, err)
	assert.Equal(t, ":2", cfg.Listen)
	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, "/from/file", cfg.DataDir, "config file wins over env for data_dir")
}

func TestLoad_MalformedFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(paths.ConfigFile(dir), []byte("users: [\n"), 0o644))

	_, err := Load(dir, "")
	assert.Error(t, err)
}
