package types

import "encoding/json"

// Record is one note row. Emotions and Tags are stored joined by ", ".
type Record struct {
	ID        string   // External id (required, immutable once created).
	Timestamp string   // "DD.MM.YYYY HH:MM:SS"; filled from the clock when empty.
	FreeText  string   // Free text of the note.
	Emotions  []string // Emotion labels, in submitted order.
	Tags      []string // Tag labels, in submitted order.
}

// LinkedLine is one line of a playlist cell. An empty Link means the line is
// stored as plain text.
type LinkedLine struct {
	Text string `json:"text"`
	Link string `json:"link,omitempty"`
}

// IncomingItem is a track submitted by a caller for appending to a playlist
// cell.
type IncomingItem struct {
	Link string `json:"link"`
	Text string `json:"text"`
}

// UnmarshalJSON accepts scalar link and text values. An element that is not
// an object, or whose fields are not scalars, decodes as an empty item so
// that item validation rejects it instead of the whole request failing.
func (it *IncomingItem) UnmarshalJSON(data []byte) error {
	var wire struct {
		Link FlexString `json:"link"`
		Text FlexString `json:"text"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		*it = IncomingItem{}
		return nil
	}
	*it = IncomingItem{Link: string(wire.Link), Text: string(wire.Text)}
	return nil
}

// LinkSpan annotates the half-open rune range [Start, End) of a cell's text
// with a URL.
type LinkSpan struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	URL   string `json:"url"`
}

// RichText is the structured value of a cell: its text plus link spans.
type RichText struct {
	Text  string     `json:"text"`
	Links []LinkSpan `json:"links,omitempty"`
}

// LinkAt returns the URL of the first span covering rune offset pos, or ""
// when no span covers it.
func (r RichText) LinkAt(pos int) string {
	for _, s := range r.Links {
		if pos >= s.Start && pos < s.End {
			return s.URL
		}
	}
	return ""
}
