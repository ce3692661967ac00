package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/playnotes/internal/paths"
	"github.com/mesh-intelligence/playnotes/pkg/types"
)

// run executes the root command with args and returns its stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

// setupDirs initializes a config and data directory with user alice.
func setupDirs(t *testing.T) []string {
	t.Helper()
	for _, env := range []string{paths.EnvConfigDir, paths.EnvDataDir, "PLAYNOTES_LISTEN", "PLAYNOTES_TIMEZONE", "PLAYNOTES_LOG_LEVEL", "PLAYNOTES_SHEET_NAME", "PLAYNOTES_BACKEND", "PLAYNOTES_API_KEY"} {
		t.Setenv(env, "")
	}
	dir := t.TempDir()
	dirFlags := []string{
		"--config-dir", filepath.Join(dir, "conf"),
		"--data-dir", filepath.Join(dir, "data"),
	}
	_, err := run(t, "", append([]string{"init", "--user", "alice=wb-alice"}, dirFlags...)...)
	require.NoError(t, err)
	return dirFlags
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "playnotes v"+Version+"\nmodule: github.com/mesh-intelligence/playnotes\n", out)
}

func TestInit(t *testing.T) {
	t.Setenv(paths.EnvDataDir, "")
	dir := t.TempDir()
	confDir := filepath.Join(dir, "conf")
	dataDir := filepath.Join(dir, "data")

	out, err := run(t, "", "init", "--config-dir", confDir, "--data-dir", dataDir,
		"--user", "alice=wb-alice", "--user", "bob=wb-bob")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+paths.ConfigFile(confDir))
	assert.Contains(t, out, "(2 users)")

	data, err := os.ReadFile(paths.ConfigFile(confDir))
	require.NoError(t, err)
	var cfg types.Config
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Equal(t, types.BackendSQLite, cfg.Backend)
	assert.Equal(t, types.DefaultSheetName, cfg.SheetName)
	assert.Equal(t, []types.UserConfig{{Name: "alice", Workbook: "wb-alice"}, {Name: "bob", Workbook: "wb-bob"}}, cfg.Users)

	_, err = os.Stat(filepath.Join(dataDir, "playnotes.db"))
	require.NoError(t, err)

	// A second init keeps the existing file.
	out, err = run(t, "", "init", "--config-dir", confDir, "--data-dir", dataDir, "--user", "carol=wb-c")
	require.NoError(t, err)
	assert.NotContains(t, out, "wrote ")
	assert.Contains(t, out, "(2 users)")
}

func TestInit_InvalidUser(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, "", "init", "--config-dir", dir, "--user", "alice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "want name=workbook")
	assert.Equal(t, exitUserError, exitCode(err))
}

func TestCall(t *testing.T) {
	dirFlags := setupDirs(t)

	out, err := run(t, "", append([]string{"call", `{"action":"upsert_note","user":"alice","record":{"id":"7","when":"01.01.2026 10:00:00"}}`}, dirFlags...)...)
	require.NoError(t, err)
	assert.Equal(t, "{\"ok\":true}\n", out)

	out, err = run(t, `{"action":"add_track","user":"alice","id":"7","items":[{"link":"u","text":"Song"}]}`,
		append([]string{"call", "-"}, dirFlags...)...)
	require.NoError(t, err)
	assert.Equal(t, "{\"ok\":true,\"added\":1}\n", out)

	out, err = run(t, `{"action":"exists","user":"alice","id":"7"}`, append([]string{"call"}, dirFlags...)...)
	require.NoError(t, err)
	assert.Equal(t, "{\"ok\":true,\"exists\":true}\n", out)
}

func TestCall_FailureEnvelope(t *testing.T) {
	dirFlags := setupDirs(t)

	out, err := run(t, "", append([]string{"call", `{"action":"exists","user":"nobody","id":"1"}`}, dirFlags...)...)
	require.Error(t, err)
	assert.Equal(t, "{\"ok\":false,\"error\":\"Unknown user: nobody\"}\n", out)
	assert.Equal(t, exitUserError, exitCode(err))
}

func TestExportImport(t *testing.T) {
	dirFlags := setupDirs(t)
	_, err := run(t, "", append([]string{"call", `{"action":"upsert_note","user":"alice","record":{"id":"1","what":"first"}}`}, dirFlags...)...)
	require.NoError(t, err)

	file := filepath.Join(t.TempDir(), "alice.jsonl")
	out, err := run(t, "", append([]string{"export", "--user", "alice", "--out", file}, dirFlags...)...)
	require.NoError(t, err)
	assert.Equal(t, "exported 2 rows to "+file+"\n", out)

	_, err = run(t, "", append([]string{"call", `{"action":"upsert_note","user":"alice","record":{"id":"2"}}`}, dirFlags...)...)
	require.NoError(t, err)

	out, err = run(t, "", append([]string{"import", "--user", "alice", "--in", file}, dirFlags...)...)
	require.NoError(t, err)
	assert.Equal(t, "imported 2 rows from "+file+"\n", out)

	out, err = run(t, "", append([]string{"call", `{"action":"exists","user":"alice","id":"2"}`}, dirFlags...)...)
	require.NoError(t, err)
	assert.Equal(t, "{\"ok\":true,\"exists\":false}\n", out, "import replaced the sheet")
}

func TestExport_Errors(t *testing.T) {
	dirFlags := setupDirs(t)

	_, err := run(t, "", append([]string{"export", "--user", "alice"}, dirFlags...)...)
	assert.EqualError(t, err, "--out is required")

	_, err = run(t, "", append([]string{"export", "--out", "x.jsonl"}, dirFlags...)...)
	assert.EqualError(t, err, "--user is required")

	_, err = run(t, "", append([]string{"export", "--user", "zed", "--out", "x.jsonl"}, dirFlags...)...)
	assert.EqualError(t, err, `unknown user "zed"`)

	// alice has no sheet until the first request.
	_, err = run(t, "", append([]string{"export", "--user", "alice", "--out", filepath.Join(t.TempDir(), "x.jsonl")}, dirFlags...)...)
	assert.ErrorIs(t, err, types.ErrSheetNotFound)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", parseLevel("debug").String())
	assert.Equal(t, "WARN", parseLevel("WARN").String())
	assert.Equal(t, "ERROR", parseLevel("error").String())
	assert.Equal(t, "INFO", parseLevel("").String())
}
