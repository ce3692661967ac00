package types

// Column positions of a note sheet (1-based).
const (
	ColID = iota + 1
	ColTimestamp
	ColFreeText
	ColEmotions
	ColTags
	ColPlaylist
)

// HeaderRow is the fixed first row of every note sheet, in column order.
var HeaderRow = []string{"id", "Когда", "Что", "Эмоции", "Теги", "Плейлист"}

// ListSeparator joins emotion and tag labels inside a single cell.
const ListSeparator = ", "

// TimestampLayout formats a note's default timestamp as DD.MM.YYYY HH:MM:SS.
const TimestampLayout = "02.01.2006 15:04:05"
