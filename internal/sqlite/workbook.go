package sqlite

import (
	"fmt"

	"github.com/mesh-intelligence/playnotes/pkg/types"
)

// Workbook implements types.Workbook for one workbook row.
type Workbook struct {
	backend *Backend
	id      string
}

// ID returns the workbook id.
func (w *Workbook) ID() string { return w.id }

// SheetByName returns the sheet with the given name.
// Returns ErrSheetNotFound if the workbook has no such sheet.
func (w *Workbook) SheetByName(name string) (types.Sheet, error) {
	w.backend.mu.RLock()
	defer w.backend.mu.RUnlock()

	if !w.backend.attached {
		return nil, types.ErrDetached
	}

	sheetID, err := lookupSheet(w.backend.db, w.id, name)
	if err != nil {
		return nil, err
	}
	return &Sheet{backend: w.backend, id: sheetID, name: name}, nil
}

// InsertSheet creates an empty sheet.
// Returns ErrSheetExists if the name is already used in this workbook.
func (w *Workbook) InsertSheet(name string) (types.Sheet, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty sheet name", types.ErrInvalidRange)
	}
	w.backend.mu.Lock()
	defer w.backend.mu.Unlock()

	if !w.backend.attached {
		return nil, types.ErrDetached
	}

	var exists int
	err := w.backend.db.QueryRow(
		"SELECT COUNT(*) FROM sheets WHERE workbook_id = ? AND name = ?", w.id, name).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check sheet %s: %w", name, err)
	}
	if exists > 0 {
		return nil, fmt.Errorf("%w: %s", types.ErrSheetExists, name)
	}

	id := newUUID()
	_, err = w.backend.db.Exec(
		"INSERT INTO sheets (sheet_id, workbook_id, name, frozen_rows, created_at) VALUES (?, ?, ?, 0, ?)",
		id, w.id, name, now())
	if err != nil {
		return nil, fmt.Errorf("insert sheet %s: %w", name, err)
	}
	return &Sheet{backend: w.backend, id: id, name: name}, nil
}

// Sheets lists the sheet names of the workbook in creation order.
func (w *Workbook) Sheets() ([]string, error) {
	w.backend.mu.RLock()
	defer w.backend.mu.RUnlock()

	if !w.backend.attached {
		return nil, types.ErrDetached
	}

	rows, err := w.backend.db.Query(
		"SELECT name FROM sheets WHERE workbook_id = ? ORDER BY rowid", w.id)
	if err != nil {
		return nil, fmt.Errorf("list sheets: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
