package testutil

import (
	"testing"
	"time"

	"econcal/internal/docx/docxtest"
	"econcal/internal/quotes"
)

// FixtureMonday is the Monday of the week covered by CalendarItems.
var FixtureMonday = time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

// FixtureNow is a clock value inside the fixture week.
var FixtureNow = time.Date(2024, time.January, 17, 10, 30, 0, 0, time.UTC)

// CalendarItems returns raw calendar items for the week of 2024-01-15 as
// they arrive in a receive request: two English events, two Russian events,
// one holiday per language and one item that is not an object.
func CalendarItems() []any {
	return []any{
		map[string]any{"date": "2024-01-16", "time": "8:30 AM", "country": "US", "event": "Retail Sales DEC", "Key": 1},
		map[string]any{"date": "2024-01-16", "time": "10:00 AM", "country": "EU", "event": "ZEW Economic Sentiment JAN", "Key": 0},
		map[string]any{"date": "16.01.2024", "time": "10:00", "country": "DE", "event": "Индекс ZEW JAN", "Key": "1"},
		map[string]any{"date": "2024-01-18", "time": "", "country": "CN", "event": "ВВП Q4"},
		map[string]any{"date": "2024-01-15", "country": "US", "holiday": "Martin Luther King Jr. Day"},
		map[string]any{"date": "2024-01-15", "country": "US", "holiday": "День Мартина Лютера Кинга"},
		"not an object",
	}
}

// QuoteItems returns raw quote items with a mix of numeric and localized
// string values.
func QuoteItems() []any {
	return []any{
		map[string]any{"symbol": "EURUSD", "old_price": 1.0800, "new_price": "1.0827", "pct_change": 0.25, "report_date": "2024-01-16"},
		map[string]any{"symbol": "Brent", "old_price": "80,00", "new_price": "79.2"},
		map[string]any{"symbol": "gold", "old_price": 2050, "new_price": "2050", "pct_change": "0%"},
		map[string]any{"symbol": "unknown", "new_price": "1"},
	}
}

// CalendarTemplate returns a calendar template holding the date stamp in the
// header and both content placeholders in the body.
func CalendarTemplate(tb testing.TB) []byte {
	tb.Helper()
	return docxtest.New().
		Header(docxtest.Run{Text: "Календарь {{CALENDAR_DATE}}"}).
		Text("Экономический календарь").
		Paragraph(docxtest.Run{Text: "{{CONTENT_RU}}", Font: "Times New Roman", HalfPoints: 24}).
		Text("Economic calendar").
		Paragraph(docxtest.Run{Text: "{{CONTENT_EN}}"}).
		Build(tb)
}

// QuotesTemplate returns a quotes template whose first table lists every
// known label with empty price and percent cells.
func QuotesTemplate(tb testing.TB) []byte {
	tb.Helper()
	rows := [][]string{{"Инструмент", "Цена", "Изм."}}
	for _, l := range quotes.Labels {
		rows = append(rows, []string{l.Text, "", ""})
	}
	return docxtest.New().Text("Котировки").Table(rows...).Build(tb)
}

// PlainDocx returns a valid document without placeholders or tables.
func PlainDocx(tb testing.TB) []byte {
	tb.Helper()
	return docxtest.New().Text("nothing to fill").Build(tb)
}
