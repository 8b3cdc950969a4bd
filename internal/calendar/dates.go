package calendar

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"econcal/pkg/contracts/domain"
)

// UnparsedTime is the sort key given to blank or unparseable times.
const UnparsedTime = 99

// Clock returns the current time. It is injected so week selection is testable.
type Clock func() time.Time

// SystemClock is the wall clock.
func SystemClock() time.Time { return time.Now() }

// Buckets maps a civil date (UTC midnight) to the records on that date in input order.
type Buckets map[time.Time][]domain.Record

// ParseDate parses the first ten characters of s as YYYY-MM-DD when s
// contains a dash, or as DD.MM.YYYY when it contains a dot.
// The second result is false for blank or unparseable input.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	head := firstRunes(s, 10)
	var layout string
	switch {
	case strings.Contains(s, "-"):
		layout = "2006-1-2"
	case strings.Contains(s, "."):
		layout = "2.1.2006"
	default:
		return time.Time{}, false
	}
	t, err := time.Parse(layout, head)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func firstRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// GroupByDate buckets records by their parsed date. Records with an
// unparseable date are dropped.
func GroupByDate(records []domain.Record) Buckets {
	out := make(Buckets)
	for _, rec := range records {
		d, ok := ParseDate(rec.Date)
		if !ok {
			continue
		}
		out[d] = append(out[d], rec)
	}
	return out
}

// MondayOf returns the Monday of the week containing d, at UTC midnight.
func MondayOf(d time.Time) time.Time {
	d = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

func isWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// ChooseReferenceMonday picks the week a document should describe.
// Every weekday record adds one point to the Monday of its week; weekend
// dates are ignored. With no weekday records the current week is used.
func ChooseReferenceMonday(events, holidays Buckets, now time.Time) time.Time {
	scores := make(map[time.Time]int)
	for _, b := range []Buckets{events, holidays} {
		for d, recs := range b {
			if isWeekend(d) {
				continue
			}
			scores[MondayOf(d)] += len(recs)
		}
	}

	today := MondayOf(now)
	if len(scores) == 0 {
		return today
	}

	var (
		best      time.Time
		bestScore = -1
		bestDist  int64
	)
	for monday, score := range scores {
		dist := absDays(monday, today)
		switch {
		case score > bestScore,
			score == bestScore && dist < bestDist,
			score == bestScore && dist == bestDist && monday.Before(best):
			best, bestScore, bestDist = monday, score, dist
		}
	}
	return best
}

// absDays counts whole days between two UTC midnights. Unix seconds are used
// because time.Duration saturates at about 292 years.
func absDays(a, b time.Time) int64 {
	d := a.Unix()/86400 - b.Unix()/86400
	if d < 0 {
		return -d
	}
	return d
}

// WeekDates returns Monday through Friday of the week starting at monday.
func WeekDates(monday time.Time) [5]time.Time {
	var out [5]time.Time
	for i := range out {
		out[i] = monday.AddDate(0, 0, i)
	}
	return out
}

// ParseTimeForSort returns (hour, minute) on a 24 hour clock for strings
// like "9:00 AM", "2:30 PM" or "14:05". Blank or unparseable input yields
// (UnparsedTime, UnparsedTime) so it sorts after every valid time.
func ParseTimeForSort(s string) (int, int) {
	h, m, ok := parseClock(s)
	if !ok {
		return UnparsedTime, UnparsedTime
	}
	return h, m
}

func parseClock(s string) (int, int, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return 0, 0, false
	}
	isPM := strings.Contains(s, "PM")
	isAM := strings.Contains(s, "AM")
	clean := strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(s, "AM", ""), "PM", ""))
	if !strings.Contains(clean, ":") {
		return 0, 0, false
	}
	parts := strings.Split(clean, ":")
	hours, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, false
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, false
	}
	switch {
	case isPM && hours != 12:
		hours += 12
	case isAM && hours == 12:
		hours = 0
	}
	return hours, minutes, true
}

// To24h renders an AM/PM time as HH:MM. Input without an AM/PM marker is
// returned trimmed and upper-cased; unparseable AM/PM input is returned the same way.
func To24h(s string) string {
	up := strings.ToUpper(strings.TrimSpace(s))
	if up == "" {
		return ""
	}
	if !strings.Contains(up, "AM") && !strings.Contains(up, "PM") {
		return up
	}
	h, m, ok := parseClock(up)
	if !ok {
		return up
	}
	return fmt.Sprintf("%02d:%02d", h, m)
}

// SortByTime orders records by ParseTimeForSort, keeping input order for equal keys.
func SortByTime(records []domain.Record) []domain.Record {
	out := make([]domain.Record, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		hi, mi := ParseTimeForSort(out[i].Time)
		hj, mj := ParseTimeForSort(out[j].Time)
		if hi != hj {
			return hi < hj
		}
		return mi < mj
	})
	return out
}

// WeekOf chooses the reference Monday over every event and holiday of split,
// regardless of language.
func WeekOf(split domain.CalendarSplit, now time.Time) time.Time {
	return ChooseReferenceMonday(GroupByDate(split.Events()), GroupByDate(split.Holidays()), now)
}
