package notes

import (
	"errors"
	"fmt"

	"github.com/mesh-intelligence/playnotes/pkg/types"
)

// firstDataRow is the row below the header.
const firstDataRow = 2

// Locate scans the id column top to bottom and returns the first data row
// whose id equals id exactly. It returns types.ErrNotFound when no row
// matches.
func Locate(sheet types.Sheet, id string) (int, error) {
	last, err := sheet.LastRow()
	if err != nil {
		return 0, fmt.Errorf("locate %s: %w", id, err)
	}
	if last < firstDataRow {
		return 0, types.ErrNotFound
	}

	ids, err := sheet.Values(firstDataRow, types.ColID, last-firstDataRow+1, 1)
	if err != nil {
		return 0, fmt.Errorf("locate %s: %w", id, err)
	}
	for i, cells := range ids {
		if cells[0] == id {
			return firstDataRow + i, nil
		}
	}
	return 0, types.ErrNotFound
}

// Exists reports whether a row with the given id is present.
func Exists(sheet types.Sheet, id string) (bool, error) {
	_, err := Locate(sheet, id)
	if errors.Is(err, types.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
