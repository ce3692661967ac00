package types

import "time"

// Store opens workbooks by id. A workbook holds one user's sheets.
type Store interface {
	// OpenWorkbook returns the workbook with the given id.
	// Returns ErrWorkbookNotFound if it does not exist.
	OpenWorkbook(id string) (Workbook, error)
}

// Backend is a Store with a lifecycle. Attach opens the store described by a
// Config; after Detach every operation returns ErrDetached.
type Backend interface {
	Store

	Attach(config Config) error
	Detach() error

	// Ping verifies the store is reachable.
	Ping() error

	// CreateWorkbook registers a workbook id. Creating an existing workbook
	// is a no-op.
	CreateWorkbook(id string) error
}

// Workbook is a named collection of sheets.
type Workbook interface {
	ID() string

	// SheetByName returns ErrSheetNotFound if no sheet has that name.
	SheetByName(name string) (Sheet, error)

	// InsertSheet creates an empty sheet. Returns ErrSheetExists if the name
	// is taken.
	InsertSheet(name string) (Sheet, error)
}

// Sheet is a two-dimensional grid of string cells. Rows and columns are
// 1-based. Cells that were never written read as "".
type Sheet interface {
	Name() string

	// LastRow returns the index of the last row holding any non-empty cell,
	// or 0 for an empty sheet.
	LastRow() (int, error)

	// Values reads the numRows x numCols rectangle whose top-left cell is
	// (row, col).
	Values(row, col, numRows, numCols int) ([][]string, error)

	// SetValues writes a rectangle of plain values starting at (row, col).
	// Link annotations on the written cells are cleared.
	SetValues(row, col int, values [][]string) error

	// AppendRow writes values into the row after LastRow and returns its index.
	AppendRow(values []string) (int, error)

	// RichText returns the structured value of a cell, or nil when the cell
	// has never been written.
	RichText(row, col int) (*RichText, error)

	// DisplayValue returns the plain text shown in a cell.
	DisplayValue(row, col int) (string, error)

	// SetRichText replaces a cell's text and link spans.
	SetRichText(row, col int, value RichText) error

	// SetWrap toggles line wrapping for a cell.
	SetWrap(row, col int, wrap bool) error

	// SetFrozenRows freezes the first n rows.
	SetFrozenRows(n int) error
}

// Clock supplies the current time for default timestamps.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in a fixed location.
type SystemClock struct {
	Location *time.Location
}

// Now returns the current time in c.Location, or local time when unset.
func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}
