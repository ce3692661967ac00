package notes

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/playnotes/pkg/types"
)

// Upsert writes rec into the row with its id, appending a new row when none
// exists. Only columns 1 to 5 are written; the playlist cell is never
// touched. An empty Timestamp is filled from clock.
func Upsert(sheet types.Sheet, rec types.Record, clock types.Clock) error {
	if rec.ID == "" {
		return types.Validationf("record.id required")
	}

	row, err := Locate(sheet, rec.ID)
	if err != nil && !errors.Is(err, types.ErrNotFound) {
		return err
	}

	values := recordValues(rec, clock)
	if row == 0 {
		if _, err := sheet.AppendRow(values); err != nil {
			return fmt.Errorf("append note %s: %w", rec.ID, err)
		}
		return nil
	}
	if err := sheet.SetValues(row, types.ColID, [][]string{values}); err != nil {
		return fmt.Errorf("update note %s: %w", rec.ID, err)
	}
	return nil
}

// recordValues renders the non-playlist columns of a record.
func recordValues(rec types.Record, clock types.Clock) []string {
	ts := rec.Timestamp
	if ts == "" {
		ts = clock.Now().Format(types.TimestampLayout)
	}
	return []string{
		rec.ID,
		ts,
		rec.FreeText,
		strings.Join(rec.Emotions, types.ListSeparator),
		strings.Join(rec.Tags, types.ListSeparator),
	}
}
