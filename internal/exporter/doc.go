// Package exporter writes the received calendar and quotes as CSV.
//
// CSVWriter handles files, appends and the UTF-8 BOM spreadsheet
// applications need to read Cyrillic text. CalendarRecords and QuoteRecords
// flatten the domain data into rows.
//
//	w := exporter.NewCSVWriter(logger)
//	err := w.WriteSimpleCSV("calendar.csv", exporter.CalendarHeaders, exporter.CalendarRecords(split))
package exporter
