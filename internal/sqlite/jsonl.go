// Sheet snapshots as JSONL: one ExportRow per line.
package sqlite

import (
	"bufio"
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/playnotes/pkg/types"
)

// maxJSONLLine bounds one exported row; playlist cells can be long.
const maxJSONLLine = 4 << 20

// readJSONL returns each parseable line of a JSONL file. Blank and malformed
// lines are skipped.
func readJSONL(path string) ([]json.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxJSONLLine)

	var records []json.RawMessage
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 || !json.Valid(line) {
			continue
		}
		records = append(records, json.RawMessage(bytes.Clone(line)))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return records, nil
}

// writeJSONL replaces path with records, one per line. The data is written
// to a temp file in the same directory, synced, and renamed over path, so
// readers see either the old file or the complete new one.
func writeJSONL(path string, records []json.RawMessage) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".export-*.jsonl")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		w.Write(rec)
		w.WriteByte('\n')
	}
	if err = w.Flush(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// ExportSheet writes a sheet to path as JSONL: an ExportSheetInfo line, then
// one ExportRow per row. It returns the number of rows written. The file is
// replaced atomically.
func (b *Backend) ExportSheet(workbookID, sheetName, path string) (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return 0, types.ErrDetached
	}

	sheetID, err := lookupSheet(b.db, workbookID, sheetName)
	if err != nil {
		return 0, err
	}

	var frozen int
	if err := b.db.QueryRow("SELECT frozen_rows FROM sheets WHERE sheet_id = ?", sheetID).Scan(&frozen); err != nil {
		return 0, fmt.Errorf("read settings of %s: %w", sheetName, err)
	}

	rows, err := b.db.Query(
		"SELECT row_num, col_num, value, links, wrap FROM cells WHERE sheet_id = ? ORDER BY row_num, col_num", sheetID)
	if err != nil {
		return 0, fmt.Errorf("read cells of %s: %w", sheetName, err)
	}
	defer rows.Close()

	var out []*ExportRow
	for rows.Next() {
		var (
			r, c  int
			value string
			links sql.NullString
			wrap  bool
		)
		if err := rows.Scan(&r, &c, &value, &links, &wrap); err != nil {
			return 0, err
		}
		if len(out) == 0 || out[len(out)-1].Row != r {
			out = append(out, &ExportRow{Row: r})
		}
		cur := out[len(out)-1]
		for len(cur.Values) < c {
			cur.Values = append(cur.Values, "")
		}
		cur.Values[c-1] = value
		if wrap {
			cur.Wrap = append(cur.Wrap, c)
		}

		spans, err := decodeLinks(links)
		if err != nil {
			return 0, fmt.Errorf("cell (%d,%d): %w", r, c, err)
		}
		if len(spans) > 0 {
			if cur.Links == nil {
				cur.Links = make(map[int][]types.LinkSpan)
			}
			cur.Links[c] = spans
		}
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	info, err := json.Marshal(ExportSheetInfo{FrozenRows: &frozen})
	if err != nil {
		return 0, err
	}
	records := make([]json.RawMessage, 0, len(out)+1)
	records = append(records, info)
	for _, row := range out {
		data, err := json.Marshal(row)
		if err != nil {
			return 0, fmt.Errorf("encode row %d: %w", row.Row, err)
		}
		records = append(records, data)
	}
	if err := writeJSONL(path, records); err != nil {
		return 0, err
	}
	return len(out), nil
}

// lookupSheet returns the id of a sheet. The caller must hold b.mu.
func lookupSheet(q querier, workbookID, sheetName string) (string, error) {
	var sheetID string
	err := q.QueryRow(
		"SELECT sheet_id FROM sheets WHERE workbook_id = ? AND name = ?", workbookID, sheetName).Scan(&sheetID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s/%s", types.ErrSheetNotFound, workbookID, sheetName)
	}
	if err != nil {
		return "", fmt.Errorf("find sheet %s: %w", sheetName, err)
	}
	return sheetID, nil
}
