// This file implements restoring a sheet from a JSONL export.
package sqlite

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/playnotes/pkg/types"
)

// ImportSheet replaces the cells of a sheet with the rows of a JSONL export
// and returns the number of rows loaded. The sheet is created when missing,
// and its frozen rows are restored when the export carries them. Loading is
// transactional: either every row is loaded or the sheet is left as it was.
// Malformed lines and rows with a non-positive row number are skipped;
// unknown fields are ignored.
func (b *Backend) ImportSheet(workbookID, sheetName, path string) (int, error) {
	records, err := readJSONL(path)
	if err != nil {
		return 0, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return 0, types.ErrDetached
	}

	tx, err := b.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning import transaction: %w", err)
	}
	defer tx.Rollback()

	sheetID, err := lookupSheet(tx, workbookID, sheetName)
	if errors.Is(err, types.ErrSheetNotFound) {
		sheetID = newUUID()
		_, err = tx.Exec(
			"INSERT INTO sheets (sheet_id, workbook_id, name, frozen_rows, created_at) VALUES (?, ?, ?, 0, ?)",
			sheetID, workbookID, sheetName, now())
		if err != nil {
			return 0, fmt.Errorf("create sheet %s: %w", sheetName, err)
		}
	} else if err != nil {
		return 0, err
	}

	if _, err := tx.Exec("DELETE FROM cells WHERE sheet_id = ?", sheetID); err != nil {
		return 0, fmt.Errorf("clear sheet %s: %w", sheetName, err)
	}

	loaded := 0
	for _, rec := range records {
		var row ExportRow
		if err := json.Unmarshal(rec, &row); err != nil {
			continue
		}
		if row.Row < 1 {
			if err := restoreSheetInfo(tx, sheetID, rec); err != nil {
				return 0, err
			}
			continue
		}
		if err := insertExportRow(tx, sheetID, row); err != nil {
			return 0, fmt.Errorf("loading row %d: %w", row.Row, err)
		}
		loaded++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing import transaction: %w", err)
	}
	return loaded, nil
}

// restoreSheetInfo applies an ExportSheetInfo record. Records without
// frozen_rows are ignored.
func restoreSheetInfo(q querier, sheetID string, rec []byte) error {
	var info ExportSheetInfo
	if err := json.Unmarshal(rec, &info); err != nil || info.FrozenRows == nil || *info.FrozenRows < 0 {
		return nil
	}
	if _, err := q.Exec("UPDATE sheets SET frozen_rows = ? WHERE sheet_id = ?", *info.FrozenRows, sheetID); err != nil {
		return fmt.Errorf("restore frozen rows: %w", err)
	}
	return nil
}

// insertExportRow writes one exported row's cells.
func insertExportRow(q querier, sheetID string, row ExportRow) error {
	wrapped := make(map[int]bool, len(row.Wrap))
	cols := len(row.Values)
	for _, c := range row.Wrap {
		if c < 1 {
			continue
		}
		wrapped[c] = true
		cols = max(cols, c)
	}

	for col := 1; col <= cols; col++ {
		var v string
		if col <= len(row.Values) {
			v = row.Values[col-1]
		}
		links, err := encodeLinks(row.Links[col])
		if err != nil {
			return err
		}
		_, err = q.Exec(
			`INSERT INTO cells (sheet_id, row_num, col_num, value, links, wrap) VALUES (?, ?, ?, ?, ?, ?)
			 ON CONFLICT(sheet_id, row_num, col_num) DO UPDATE
			 SET value = excluded.value, links = excluded.links, wrap = excluded.wrap`,
			sheetID, row.Row, col, v, links, wrapped[col])
		if err != nil {
			return err
		}
	}
	return nil
}
