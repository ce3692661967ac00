// Tests for workbook sheets and cell operations.
package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/playnotes/pkg/types"
)

// setupBackend creates an attached Backend in a temp dir and detaches it when
// the test ends.
func setupBackend(t *testing.T) *Backend {
	t.Helper()
	b := NewBackend()
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}
	require.NoError(t, b.Attach(config))
	t.Cleanup(func() { b.Detach() })
	return b
}

// setupSheet returns an empty sheet in a fresh workbook.
func setupSheet(t *testing.T) (*Backend, *Sheet) {
	t.Helper()
	b := setupBackend(t)
	require.NoError(t, b.CreateWorkbook("wb"))
	wb, err := b.OpenWorkbook("wb")
	require.NoError(t, err)
	sheet, err := wb.InsertSheet("Sheet1")
	require.NoError(t, err)
	return b, sheet.(*Sheet)
}

func TestWorkbookSheets(t *testing.T) {
	b := setupBackend(t)
	require.NoError(t, b.CreateWorkbook("wb"))
	wb, err := b.OpenWorkbook("wb")
	require.NoError(t, err)

	_, err = wb.SheetByName("Лист1")
	assert.ErrorIs(t, err, types.ErrSheetNotFound)

	created, err := wb.InsertSheet("Лист1")
	require.NoError(t, err)
	assert.Equal(t, "Лист1", created.Name())

	_, err = wb.InsertSheet("Лист1")
	assert.ErrorIs(t, err, types.ErrSheetExists)

	_, err = wb.InsertSheet("Archive")
	require.NoError(t, err)

	found, err := wb.SheetByName("Лист1")
	require.NoError(t, err)
	assert.Equal(t, created.(*Sheet).id, found.(*Sheet).id)

	names, err := wb.(*Workbook).Sheets()
	require.NoError(t, err)
	assert.Equal(t, []string{"Лист1", "Archive"}, names)
}

func TestSheetNamesAreScopedToWorkbook(t *testing.T) {
	b := setupBackend(t)
	require.NoError(t, b.CreateWorkbook("a"))
	require.NoError(t, b.CreateWorkbook("b"))

	wa, err := b.OpenWorkbook("a")
	require.NoError(t, err)
	wbb, err := b.OpenWorkbook("b")
	require.NoError(t, err)

	sa, err := wa.InsertSheet("Sheet1")
	require.NoError(t, err)
	sb, err := wbb.InsertSheet("Sheet1")
	require.NoError(t, err)

	_, err = sa.AppendRow([]string{"only in a"})
	require.NoError(t, err)

	last, err := sb.LastRow()
	require.NoError(t, err)
	assert.Equal(t, 0, last)
}

func TestSheetValues(t *testing.T) {
	_, s := setupSheet(t)

	last, err := s.LastRow()
	require.NoError(t, err)
	assert.Equal(t, 0, last, "empty sheet")

	require.NoError(t, s.SetValues(1, 1, [][]string{{"a", "b", "c"}}))
	row, err := s.AppendRow([]string{"x", "", "z"})
	require.NoError(t, err)
	assert.Equal(t, 2, row)

	last, err = s.LastRow()
	require.NoError(t, err)
	assert.Equal(t, 2, last)

	grid, err := s.Values(1, 1, 3, 4)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"a", "b", "c", ""},
		{"x", "", "z", ""},
		{"", "", "", ""},
	}, grid)

	grid, err = s.Values(2, 3, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"z"}}, grid)

	_, err = s.Values(0, 1, 1, 1)
	assert.ErrorIs(t, err, types.ErrInvalidRange)
}

func TestSheetLastRowIgnoresEmptyCells(t *testing.T) {
	_, s := setupSheet(t)

	_, err := s.AppendRow([]string{"header"})
	require.NoError(t, err)
	require.NoError(t, s.SetWrap(5, 6, true))
	require.NoError(t, s.SetValues(4, 1, [][]string{{""}}))

	last, err := s.LastRow()
	require.NoError(t, err)
	assert.Equal(t, 1, last)

	row, err := s.AppendRow([]string{"next"})
	require.NoError(t, err)
	assert.Equal(t, 2, row)
}

func TestSheetRichText(t *testing.T) {
	_, s := setupSheet(t)

	rt, err := s.RichText(2, 6)
	require.NoError(t, err)
	assert.Nil(t, rt, "unwritten cell has no rich value")

	value := types.RichText{
		Text:  "A\nB",
		Links: []types.LinkSpan{{Start: 0, End: 1, URL: "u1"}, {Start: 2, End: 3, URL: "u2"}},
	}
	require.NoError(t, s.SetRichText(2, 6, value))
	require.NoError(t, s.SetWrap(2, 6, true))

	rt, err = s.RichText(2, 6)
	require.NoError(t, err)
	require.NotNil(t, rt)
	assert.Equal(t, value, *rt)

	display, err := s.DisplayValue(2, 6)
	require.NoError(t, err)
	assert.Equal(t, "A\nB", display)

	wrap, err := s.Wrap(2, 6)
	require.NoError(t, err)
	assert.True(t, wrap)

	// Plain writes to other cells of the row leave the rich cell alone.
	require.NoError(t, s.SetValues(2, 1, [][]string{{"id", "when", "what", "", ""}}))
	rt, err = s.RichText(2, 6)
	require.NoError(t, err)
	assert.Equal(t, value, *rt)

	// A plain write to the rich cell drops its links.
	require.NoError(t, s.SetValues(2, 6, [][]string{{"plain"}}))
	rt, err = s.RichText(2, 6)
	require.NoError(t, err)
	assert.Equal(t, types.RichText{Text: "plain"}, *rt)
}

func TestSheetFrozenRows(t *testing.T) {
	_, s := setupSheet(t)

	n, err := s.FrozenRows()
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	require.NoError(t, s.SetFrozenRows(1))
	n, err = s.FrozenRows()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.ErrorIs(t, s.SetFrozenRows(-1), types.ErrInvalidRange)
}

func TestSheetOperationsAfterDetach(t *testing.T) {
	b, s := setupSheet(t)
	require.NoError(t, b.Detach())

	_, err := s.LastRow()
	assert.ErrorIs(t, err, types.ErrDetached)
	_, err = s.AppendRow([]string{"x"})
	assert.ErrorIs(t, err, types.ErrDetached)
	assert.ErrorIs(t, s.SetRichText(1, 1, types.RichText{Text: "x"}), types.ErrDetached)
}
