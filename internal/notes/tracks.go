package notes

import (
	"errors"
	"fmt"

	"github.com/mesh-intelligence/playnotes/internal/richtext"
	"github.com/mesh-intelligence/playnotes/pkg/types"
)

// AddTracks merges items into the playlist cell of the row with the given id
// and returns how many lines were added. The row must already exist. The
// cell is rewritten with wrapping enabled even when nothing was added.
func AddTracks(sheet types.Sheet, id string, items []types.IncomingItem) (int, error) {
	if id == "" {
		return 0, types.Validationf("id required")
	}

	row, err := Locate(sheet, id)
	if errors.Is(err, types.ErrNotFound) {
		return 0, types.NotFoundf("Row with id=%s not found", id)
	}
	if err != nil {
		return 0, err
	}

	if len(items) == 0 {
		return 0, types.Validationf("items[] required")
	}
	if len(richtext.Clean(items)) == 0 {
		return 0, types.Validationf("items[] must contain {link,text}")
	}

	current, err := playlist(sheet, row)
	if err != nil {
		return 0, err
	}
	merged, added := richtext.MergeCell(current, items)

	if err := sheet.SetRichText(row, types.ColPlaylist, merged); err != nil {
		return 0, fmt.Errorf("write playlist of %s: %w", id, err)
	}
	if err := sheet.SetWrap(row, types.ColPlaylist, true); err != nil {
		return 0, fmt.Errorf("wrap playlist of %s: %w", id, err)
	}
	return added, nil
}

// playlist reads the playlist cell of row. A cell without a rich value is
// read through its display text and carries no links.
func playlist(sheet types.Sheet, row int) (types.RichText, error) {
	rt, err := sheet.RichText(row, types.ColPlaylist)
	if err != nil {
		return types.RichText{}, fmt.Errorf("read playlist at row %d: %w", row, err)
	}
	if rt != nil {
		return *rt, nil
	}
	text, err := sheet.DisplayValue(row, types.ColPlaylist)
	if err != nil {
		return types.RichText{}, fmt.Errorf("read playlist at row %d: %w", row, err)
	}
	return types.RichText{Text: text}, nil
}
