// Package richtext maintains a playlist cell: a list of unique text lines,
// each optionally hyperlinked.
//
// The canonical form is []types.LinkedLine. Lines decomposes a stored
// types.RichText into that form, Merge appends new unique items, and Flatten
// rebuilds the rich text with one link span per linked line. Offsets are
// counted in runes and exist only inside Lines and Flatten.
package richtext
