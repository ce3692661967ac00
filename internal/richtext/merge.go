package richtext

import (
	"strings"
	"unicode/utf8"

	"github.com/mesh-intelligence/playnotes/pkg/types"
)

const lineSeparator = "\n"

// lineBreaks flattens line breaks inside a submitted text so that one item
// always stays one line.
var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// Lines decomposes a cell value into its linked lines. A line takes the link
// covering its first character. Lines that are blank after trimming are
// dropped; the others keep their text exactly as stored. Lines are compared
// by their trimmed text, and when one repeats the first occurrence and its
// link win.
func Lines(v types.RichText) []types.LinkedLine {
	if v.Text == "" {
		return nil
	}

	var (
		lines []types.LinkedLine
		seen  = make(map[string]bool)
		pos   int
	)
	for _, raw := range strings.Split(v.Text, lineSeparator) {
		n := utf8.RuneCountInString(raw)
		var link string
		if n > 0 {
			link = v.LinkAt(pos)
		}
		pos += n + 1

		key := lineKey(raw)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		lines = append(lines, types.LinkedLine{Text: raw, Link: link})
	}
	return lines
}

// lineKey is the identity of a line for deduplication.
func lineKey(text string) string {
	return strings.TrimSpace(text)
}

// Clean trims every item and drops the ones whose text or link is empty.
// Line breaks inside a text are replaced by spaces.
func Clean(items []types.IncomingItem) []types.IncomingItem {
	out := make([]types.IncomingItem, 0, len(items))
	for _, it := range items {
		it.Text = strings.TrimSpace(lineBreaks.Replace(it.Text))
		it.Link = strings.TrimSpace(it.Link)
		if it.Text == "" || it.Link == "" {
			continue
		}
		out = append(out, it)
	}
	return out
}

// Merge appends items whose text is not yet present to existing, in
// submission order, and reports how many were added. Existing lines keep
// their position, stored text and link. The existing slice is not modified.
func Merge(existing []types.LinkedLine, items []types.IncomingItem) ([]types.LinkedLine, int) {
	out := make([]types.LinkedLine, len(existing), len(existing)+len(items))
	copy(out, existing)

	seen := make(map[string]bool, len(existing)+len(items))
	for _, l := range existing {
		seen[lineKey(l.Text)] = true
	}

	added := 0
	for _, it := range Clean(items) {
		if seen[it.Text] {
			continue
		}
		seen[it.Text] = true
		out = append(out, types.LinkedLine{Text: it.Text, Link: it.Link})
		added++
	}
	return out, added
}

// Flatten joins lines with newlines and annotates each linked line's span.
// Separators are never covered by a span.
func Flatten(lines []types.LinkedLine) types.RichText {
	var (
		b     strings.Builder
		links []types.LinkSpan
		pos   int
	)
	for i, l := range lines {
		if i > 0 {
			b.WriteString(lineSeparator)
			pos++
		}
		b.WriteString(l.Text)

		n := utf8.RuneCountInString(l.Text)
		if l.Link != "" && n > 0 {
			links = append(links, types.LinkSpan{Start: pos, End: pos + n, URL: l.Link})
		}
		pos += n
	}
	return types.RichText{Text: b.String(), Links: links}
}

// MergeCell merges items into a stored cell value and returns the rebuilt
// value and the number of lines added.
func MergeCell(v types.RichText, items []types.IncomingItem) (types.RichText, int) {
	lines, added := Merge(Lines(v), items)
	return Flatten(lines), added
}
