package sqlite_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/playnotes/pkg/sqlite"
	"github.com/mesh-intelligence/playnotes/pkg/types"
)

func TestNewBackend(t *testing.T) {
	backend := sqlite.NewBackend()
	require.NoError(t, backend.Attach(types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}))
	defer backend.Detach()

	require.NoError(t, backend.Ping())
	require.NoError(t, backend.CreateWorkbook("notes"))

	wb, err := backend.OpenWorkbook("notes")
	require.NoError(t, err)
	assert.Equal(t, "notes", wb.ID())

	sheet, err := wb.InsertSheet("Лист1")
	require.NoError(t, err)
	row, err := sheet.AppendRow([]string{"id"})
	require.NoError(t, err)
	assert.Equal(t, 1, row)

	require.NoError(t, backend.Detach())
	assert.ErrorIs(t, backend.Ping(), types.ErrDetached)
}

func TestOpen(t *testing.T) {
	cfg := types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
		Users:   []types.UserConfig{{Name: "ann", Workbook: "ann-notes"}},
	}
	backend, err := sqlite.Open(cfg)
	require.NoError(t, err)
	defer backend.Detach()

	wb, err := backend.OpenWorkbook("ann-notes")
	require.NoError(t, err)
	assert.Equal(t, "ann-notes", wb.ID())

	_, err = backend.OpenWorkbook("bob-notes")
	assert.ErrorIs(t, err, types.ErrWorkbookNotFound)
}

func TestOpen_Errors(t *testing.T) {
	_, err := sqlite.Open(types.Config{DataDir: t.TempDir()})
	assert.ErrorIs(t, err, types.ErrBackendEmpty)

	_, err = sqlite.Open(types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
		Users:   []types.UserConfig{{Name: "ann"}},
	})
	assert.ErrorIs(t, err, types.ErrUserWorkbook)
}
