// JSON structures of the SQLite store: the links column of the cells table
// and the records of a JSONL sheet export.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/mesh-intelligence/playnotes/pkg/types"
)

// ExportRow is one sheet row in a JSONL export. Values holds the row's cells
// from column 1 to its last written column; Links holds the link spans of
// rich-text cells keyed by column; Wrap lists the columns with wrapping on.
type ExportRow struct {
	Row    int                      `json:"row"`
	Values []string                 `json:"values"`
	Links  map[int][]types.LinkSpan `json:"links,omitempty"`
	Wrap   []int                    `json:"wrap,omitempty"`
}

// ExportSheetInfo is the first line of an export and carries the settings
// of the sheet itself. It has no "row" field.
type ExportSheetInfo struct {
	FrozenRows *int `json:"frozen_rows"`
}

// encodeLinks renders spans for the links column. No spans is stored as
// NULL.
func encodeLinks(spans []types.LinkSpan) (sql.NullString, error) {
	if len(spans) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(spans)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encode links: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// decodeLinks parses the links column.
func decodeLinks(col sql.NullString) ([]types.LinkSpan, error) {
	if !col.Valid || col.String == "" {
		return nil, nil
	}
	var spans []types.LinkSpan
	if err := json.Unmarshal([]byte(col.String), &spans); err != nil {
		return nil, fmt.Errorf("decode links: %w", err)
	}
	return spans, nil
}
