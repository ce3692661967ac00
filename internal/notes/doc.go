// Package notes implements note rows on a sheet: the header bootstrap, the
// row index keyed by the id column, the note upsert, and the playlist track
// append built on internal/richtext.
//
// Every function takes a types.Sheet and performs blocking store calls; none
// of them hold locks. Callers serialize access to a sheet.
package notes
