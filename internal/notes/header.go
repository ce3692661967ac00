package notes

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/playnotes/pkg/types"
)

// OpenSheet returns the named sheet of wb, creating it when missing, with its
// header row in place.
func OpenSheet(wb types.Workbook, name string) (types.Sheet, error) {
	sheet, err := wb.SheetByName(name)
	if errors.Is(err, types.ErrSheetNotFound) {
		sheet, err = wb.InsertSheet(name)
	}
	if err != nil {
		return nil, fmt.Errorf("open sheet %s: %w", name, err)
	}
	if err := EnsureHeader(sheet); err != nil {
		return nil, err
	}
	return sheet, nil
}

// EnsureHeader rewrites row 1 with types.HeaderRow and freezes it when any
// header cell, trimmed, differs from the expected name. A correct header is
// left alone.
func EnsureHeader(sheet types.Sheet) error {
	got, err := sheet.Values(1, 1, 1, len(types.HeaderRow))
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	if headerMatches(got[0]) {
		return nil
	}

	header := append([]string(nil), types.HeaderRow...)
	if err := sheet.SetValues(1, 1, [][]string{header}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := sheet.SetFrozenRows(1); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}
	return nil
}

func headerMatches(row []string) bool {
	for i, name := range types.HeaderRow {
		if i >= len(row) || strings.TrimSpace(row[i]) != name {
			return false
		}
	}
	return true
}
