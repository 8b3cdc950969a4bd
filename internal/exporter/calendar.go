package exporter

import (
	"sort"
	"time"

	"econcal/internal/calendar"
	"econcal/pkg/contracts/domain"
)

// CalendarHeaders names the columns produced by CalendarRecords.
var CalendarHeaders = []string{"date", "time", "country", "category", "language", "text", "important"}

// CalendarRecords flattens split into CSV rows ordered by date. Within a date
// holidays come first, then events by time; Russian rows precede English
// ones. Records with an unparseable date are dropped.
func CalendarRecords(split domain.CalendarSplit) [][]string {
	type tagged struct {
		date     time.Time
		holiday  bool
		language string
		rec      domain.Record
	}

	var rows []tagged
	add := func(records []domain.Record, holiday bool, language string) {
		for date, recs := range calendar.GroupByDate(records) {
			for _, rec := range recs {
				rows = append(rows, tagged{date: date, holiday: holiday, language: language, rec: rec})
			}
		}
	}
	add(split.HolidaysRU, true, "ru")
	add(split.HolidaysEN, true, "en")
	add(split.WorkRU, false, "ru")
	add(split.WorkEN, false, "en")

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if !a.date.Equal(b.date) {
			return a.date.Before(b.date)
		}
		if a.holiday != b.holiday {
			return a.holiday
		}
		if a.language != b.language {
			return a.language == "ru"
		}
		if a.holiday {
			return false
		}
		ha, ma := calendar.ParseTimeForSort(a.rec.Time)
		hb, mb := calendar.ParseTimeForSort(b.rec.Time)
		if ha != hb {
			return ha < hb
		}
		return ma < mb
	})

	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		category, text := "event", row.rec.Event
		if row.holiday {
			category, text = "holiday", row.rec.HolidayName()
		}
		out = append(out, []string{
			row.date.Format(time.DateOnly),
			calendar.To24h(row.rec.Time),
			row.rec.Country,
			category,
			row.language,
			calendar.Sanitize(text),
			formatBool(row.rec.Important()),
		})
	}
	return out
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
