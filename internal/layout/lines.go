package layout

import (
	"fmt"
	"strings"
	"time"

	"econcal/internal/calendar"
	"econcal/pkg/contracts/domain"
)

const (
	noDataRU = "Нет важных макроданных"
	noDataEN = "No important macroeconomic data"
)

func lineHolidayPhrase(lang calendar.Lang) string {
	if lang == calendar.LangRU {
		return "Праздник в"
	}
	return "Markets in"
}

// EventLine formats one event as "HH:MM – <country>: <event>". The time
// prefix is omitted when the record has no time.
func EventLine(rec domain.Record, lang calendar.Lang) string {
	country := calendar.CountryName(rec.Country, lang)
	if t := calendar.To24h(rec.Time); t != "" {
		return fmt.Sprintf("%s – %s: %s", t, country, rec.Event)
	}
	return fmt.Sprintf("%s: %s", country, rec.Event)
}

// Lines renders the week starting at monday as text lines. Every weekday
// produces a heading, an optional holiday line, its events in time order (or
// a "no data" line) and a blank separator.
func Lines(events, holidays []domain.Record, lang calendar.Lang, monday time.Time) []string {
	eventsByDate := calendar.GroupByDate(events)
	holidaysByDate := calendar.GroupByDate(holidays)

	noData := noDataEN
	if lang == calendar.LangRU {
		noData = noDataRU
	}

	var lines []string
	for _, d := range calendar.WeekDates(monday) {
		lines = append(lines, calendar.FormatDayHeader(d, lang))

		dayHolidays := holidaysByDate[d]
		dayEvents := eventsByDate[d]

		if len(dayHolidays) > 0 {
			lines = append(lines, calendar.HolidaySummary(dayHolidays, lineHolidayPhrase(lang), lang))
		}
		for _, ev := range calendar.SortByTime(dayEvents) {
			lines = append(lines, EventLine(ev, lang))
		}
		if len(dayHolidays) == 0 && len(dayEvents) == 0 {
			lines = append(lines, noData)
		}
		lines = append(lines, "")
	}
	return lines
}

// Content joins Lines with newlines and trims the surrounding whitespace.
func Content(events, holidays []domain.Record, lang calendar.Lang, monday time.Time) string {
	return strings.TrimSpace(strings.Join(Lines(events, holidays, lang, monday), "\n"))
}
