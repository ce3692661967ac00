package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/playnotes/pkg/types"
)

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// Sheet implements types.Sheet. Cells that were never written have no row in
// the cells table and read as "".
type Sheet struct {
	backend *Backend
	id      string
	name    string
}

// Name returns the sheet name.
func (s *Sheet) Name() string { return s.name }

// LastRow returns the last row holding a non-empty value, or 0.
func (s *Sheet) LastRow() (int, error) {
	s.backend.mu.RLock()
	defer s.backend.mu.RUnlock()

	if !s.backend.attached {
		return 0, types.ErrDetached
	}
	return s.lastRow(s.backend.db)
}

func (s *Sheet) lastRow(q querier) (int, error) {
	var last int
	err := q.QueryRow(
		"SELECT COALESCE(MAX(row_num), 0) FROM cells WHERE sheet_id = ? AND value <> ''", s.id).Scan(&last)
	if err != nil {
		return 0, fmt.Errorf("last row of %s: %w", s.name, err)
	}
	return last, nil
}

// Values reads a numRows x numCols rectangle starting at (row, col).
func (s *Sheet) Values(row, col, numRows, numCols int) ([][]string, error) {
	if row < 1 || col < 1 || numRows < 0 || numCols < 0 {
		return nil, fmt.Errorf("%w: row=%d col=%d rows=%d cols=%d", types.ErrInvalidRange, row, col, numRows, numCols)
	}
	s.backend.mu.RLock()
	defer s.backend.mu.RUnlock()

	if !s.backend.attached {
		return nil, types.ErrDetached
	}

	grid := make([][]string, numRows)
	for i := range grid {
		grid[i] = make([]string, numCols)
	}
	if numRows == 0 || numCols == 0 {
		return grid, nil
	}

	rows, err := s.backend.db.Query(
		`SELECT row_num, col_num, value FROM cells
		 WHERE sheet_id = ? AND row_num BETWEEN ? AND ? AND col_num BETWEEN ? AND ?`,
		s.id, row, row+numRows-1, col, col+numCols-1)
	if err != nil {
		return nil, fmt.Errorf("read range of %s: %w", s.name, err)
	}
	defer rows.Close()

	for rows.Next() {
		var r, c int
		var v string
		if err := rows.Scan(&r, &c, &v); err != nil {
			return nil, err
		}
		grid[r-row][c-col] = v
	}
	return grid, rows.Err()
}

// SetValues writes plain values starting at (row, col) in one transaction.
// Written cells lose any link spans.
func (s *Sheet) SetValues(row, col int, values [][]string) error {
	if row < 1 || col < 1 {
		return fmt.Errorf("%w: row=%d col=%d", types.ErrInvalidRange, row, col)
	}
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()

	if !s.backend.attached {
		return types.ErrDetached
	}
	return s.inTx(func(tx *sql.Tx) error {
		return s.writeValues(tx, row, col, values)
	})
}

// AppendRow writes values into the first row after LastRow.
func (s *Sheet) AppendRow(values []string) (int, error) {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()

	if !s.backend.attached {
		return 0, types.ErrDetached
	}

	var row int
	err := s.inTx(func(tx *sql.Tx) error {
		last, err := s.lastRow(tx)
		if err != nil {
			return err
		}
		row = last + 1
		return s.writeValues(tx, row, 1, [][]string{values})
	})
	if err != nil {
		return 0, err
	}
	return row, nil
}

func (s *Sheet) writeValues(q querier, row, col int, values [][]string) error {
	for i, line := range values {
		for j, v := range line {
			_, err := q.Exec(
				`INSERT INTO cells (sheet_id, row_num, col_num, value, links) VALUES (?, ?, ?, ?, NULL)
				 ON CONFLICT(sheet_id, row_num, col_num) DO UPDATE SET value = excluded.value, links = NULL`,
				s.id, row+i, col+j, v)
			if err != nil {
				return fmt.Errorf("write cell (%d,%d) of %s: %w", row+i, col+j, s.name, err)
			}
		}
	}
	return nil
}

// RichText returns the text and link spans of a cell, or nil when the cell
// has never been written.
func (s *Sheet) RichText(row, col int) (*types.RichText, error) {
	if row < 1 || col < 1 {
		return nil, fmt.Errorf("%w: row=%d col=%d", types.ErrInvalidRange, row, col)
	}
	s.backend.mu.RLock()
	defer s.backend.mu.RUnlock()

	if !s.backend.attached {
		return nil, types.ErrDetached
	}

	var (
		value string
		links sql.NullString
	)
	err := s.backend.db.QueryRow(
		"SELECT value, links FROM cells WHERE sheet_id = ? AND row_num = ? AND col_num = ?",
		s.id, row, col).Scan(&value, &links)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cell (%d,%d) of %s: %w", row, col, s.name, err)
	}

	spans, err := decodeLinks(links)
	if err != nil {
		return nil, fmt.Errorf("cell (%d,%d): %w", row, col, err)
	}
	return &types.RichText{Text: value, Links: spans}, nil
}

// DisplayValue returns the plain text of a cell.
func (s *Sheet) DisplayValue(row, col int) (string, error) {
	grid, err := s.Values(row, col, 1, 1)
	if err != nil {
		return "", err
	}
	return grid[0][0], nil
}

// SetRichText replaces the text and link spans of a cell. The wrap flag is
// left unchanged.
func (s *Sheet) SetRichText(row, col int, value types.RichText) error {
	if row < 1 || col < 1 {
		return fmt.Errorf("%w: row=%d col=%d", types.ErrInvalidRange, row, col)
	}

	links, err := encodeLinks(value.Links)
	if err != nil {
		return err
	}

	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()

	if !s.backend.attached {
		return types.ErrDetached
	}
	_, err = s.backend.db.Exec(
		`INSERT INTO cells (sheet_id, row_num, col_num, value, links) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(sheet_id, row_num, col_num) DO UPDATE SET value = excluded.value, links = excluded.links`,
		s.id, row, col, value.Text, links)
	if err != nil {
		return fmt.Errorf("write rich text (%d,%d) of %s: %w", row, col, s.name, err)
	}
	return nil
}

// SetWrap toggles line wrapping for a cell.
func (s *Sheet) SetWrap(row, col int, wrap bool) error {
	if row < 1 || col < 1 {
		return fmt.Errorf("%w: row=%d col=%d", types.ErrInvalidRange, row, col)
	}
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()

	if !s.backend.attached {
		return types.ErrDetached
	}
	_, err := s.backend.db.Exec(
		`INSERT INTO cells (sheet_id, row_num, col_num, wrap) VALUES (?, ?, ?, ?)
		 ON CONFLICT(sheet_id, row_num, col_num) DO UPDATE SET wrap = excluded.wrap`,
		s.id, row, col, wrap)
	if err != nil {
		return fmt.Errorf("set wrap (%d,%d) of %s: %w", row, col, s.name, err)
	}
	return nil
}

// Wrap reports whether line wrapping is enabled for a cell.
func (s *Sheet) Wrap(row, col int) (bool, error) {
	s.backend.mu.RLock()
	defer s.backend.mu.RUnlock()

	if !s.backend.attached {
		return false, types.ErrDetached
	}

	var wrap bool
	err := s.backend.db.QueryRow(
		"SELECT wrap FROM cells WHERE sheet_id = ? AND row_num = ? AND col_num = ?",
		s.id, row, col).Scan(&wrap)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return wrap, err
}

// SetFrozenRows freezes the first n rows.
func (s *Sheet) SetFrozenRows(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: frozen rows %d", types.ErrInvalidRange, n)
	}
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()

	if !s.backend.attached {
		return types.ErrDetached
	}
	if _, err := s.backend.db.Exec("UPDATE sheets SET frozen_rows = ? WHERE sheet_id = ?", n, s.id); err != nil {
		return fmt.Errorf("freeze rows of %s: %w", s.name, err)
	}
	return nil
}

// FrozenRows returns the number of frozen rows.
func (s *Sheet) FrozenRows() (int, error) {
	s.backend.mu.RLock()
	defer s.backend.mu.RUnlock()

	if !s.backend.attached {
		return 0, types.ErrDetached
	}

	var n int
	err := s.backend.db.QueryRow("SELECT frozen_rows FROM sheets WHERE sheet_id = ?", s.id).Scan(&n)
	return n, err
}

// inTx runs fn in a transaction. The caller must hold backend.mu.
func (s *Sheet) inTx(fn func(tx *sql.Tx) error) error {
	tx, err := s.backend.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
