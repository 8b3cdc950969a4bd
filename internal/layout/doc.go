// Package layout renders a week of calendar records into document content.
//
// Two renderings are provided:
//
// Workbook builds a two-sheet spreadsheet (Russian first, then English) with
// a bordered header, one gray date row per weekday, red holiday rows and one
// row per event sorted by time.
//
// Lines and Content build the plain line blocks that are spliced into a word
// processing template: a heading per weekday followed by a holiday line and
// the event lines, or a "no data" line when the day is empty.
//
// Both renderings take the reference Monday from the caller so every section
// of a document describes the same week.
package layout
