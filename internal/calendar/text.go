package calendar

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"econcal/pkg/contracts/domain"
)

// Lang selects the language of a rendered section.
type Lang string

const (
	LangEN Lang = "en"
	LangRU Lang = "ru"
)

var (
	daysRU = [7]string{"Понедельник", "Вторник", "Среда", "Четверг", "Пятница", "Суббота", "Воскресенье"}
	daysEN = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

	monthsGenitiveRU = [12]string{
		"января", "февраля", "марта", "апреля", "мая", "июня",
		"июля", "августа", "сентября", "октября", "ноября", "декабря",
	}
	monthsNominativeRU = [12]string{
		"январь", "февраль", "март", "апрель", "май", "июнь",
		"июль", "август", "сентябрь", "октябрь", "ноябрь", "декабрь",
	}
	monthsEN = [12]string{
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	}
)

var countryNames = map[Lang]map[string]string{
	LangEN: {
		"US": "US", "GB": "UK", "EU": "EU", "EA": "EU",
		"DE": "Germany", "JP": "Japan", "CN": "China", "CH": "Switzerland",
	},
	LangRU: {
		"US": "США", "GB": "Великобритания", "EU": "ЕС", "EA": "ЕС",
		"DE": "Германия", "JP": "Япония", "CN": "Китай", "CH": "Швейцария",
	},
}

// CountryName maps a country code to its display name. Unknown codes pass through.
func CountryName(code string, lang Lang) string {
	if name, ok := countryNames[lang][code]; ok {
		return name
	}
	return code
}

// weekdayIndex maps time.Weekday onto a Monday-first index.
func weekdayIndex(d time.Time) int {
	return (int(d.Weekday()) + 6) % 7
}

// DayName returns the weekday name of d.
func DayName(d time.Time, lang Lang) string {
	if lang == LangRU {
		return daysRU[weekdayIndex(d)]
	}
	return daysEN[weekdayIndex(d)]
}

// IsDayHeading reports whether line mentions a weekday name in either language.
func IsDayHeading(line string) bool {
	for i := range daysRU {
		if strings.Contains(line, daysRU[i]) || strings.Contains(line, daysEN[i]) {
			return true
		}
	}
	return false
}

// FormatGridDate formats the date row of the grid layout:
// "15.01.2024" in Russian and "Monday January 15 2024" in English.
func FormatGridDate(d time.Time, lang Lang) string {
	if lang == LangRU {
		return d.Format("02.01.2006")
	}
	return fmt.Sprintf("%s %s %d %d", daysEN[weekdayIndex(d)], monthsEN[d.Month()-1], d.Day(), d.Year())
}

// FormatDayHeader formats the day heading of the line layout:
// "Понедельник, 15 января" in Russian and "Monday, January 15" in English.
func FormatDayHeader(d time.Time, lang Lang) string {
	if lang == LangRU {
		return fmt.Sprintf("%s, %d %s", daysRU[weekdayIndex(d)], d.Day(), monthsGenitiveRU[d.Month()-1])
	}
	return fmt.Sprintf("%s, %s %d", daysEN[weekdayIndex(d)], monthsEN[d.Month()-1], d.Day())
}

// SheetName returns the worksheet title for the week starting at monday.
func SheetName(monday time.Time, lang Lang) string {
	if lang == LangRU {
		return "Календарь " + monday.Format("02.01.2006")
	}
	return "Economic calendar_" + monday.Format("02.01.06")
}

// StampDate formats the short DD.MM.YY stamp used by the {{CALENDAR_DATE}} token.
func StampDate(monday time.Time) string {
	return monday.Format("02.01.06")
}

// OutputFilename returns Calendar_DD.MM.YYYY.<ext> for the week starting at monday.
func OutputFilename(monday time.Time, ext string) string {
	return "Calendar_" + monday.Format("02.01.2006") + "." + ext
}

// Sanitize trims text, flattens tabs and line breaks to spaces and escapes a
// leading formula character with an apostrophe.
func Sanitize(text string) string {
	text = strings.TrimSpace(text)
	text = strings.NewReplacer("\n", " ", "\r", " ", "\t", " ").Replace(text)
	if text != "" && strings.ContainsRune("=+-@", rune(text[0])) {
		text = "'" + text
	}
	return text
}

var (
	monthIndex = map[string]int{
		"JAN": 0, "FEB": 1, "MAR": 2, "APR": 3, "MAY": 4, "JUN": 5,
		"JUL": 6, "AUG": 7, "SEP": 8, "OCT": 9, "NOV": 10, "DEC": 11,
	}
	monthSuffixRe   = regexp.MustCompile(`^(.*\S)\s+(JAN|FEB|MAR|APR|MAY|JUN|JUL|AUG|SEP|OCT|NOV|DEC)(?:/(\d{1,2}))?\s*$`)
	quarterSuffixRe = regexp.MustCompile(`^(.*\S)\s+Q([1-4])\s*$`)
)

// ConvertMonthSuffix rewrites an English month or quarter abbreviation at the
// end of an event title into Russian:
//
//	"Oil Inventories JAN/23" -> "Oil Inventories, 23 января"
//	"CPI NOV"                -> "CPI, ноябрь"
//	"GDP Q1"                 -> "GDP, 1 кв."
//
// Suffixes must be upper case. Text without a recognized suffix is returned
// unchanged.
func ConvertMonthSuffix(text string) string {
	if m := monthSuffixRe.FindStringSubmatch(text); m != nil {
		idx := monthIndex[m[2]]
		if m[3] != "" {
			day, _ := strconv.Atoi(m[3])
			return fmt.Sprintf("%s, %d %s", m[1], day, monthsGenitiveRU[idx])
		}
		return fmt.Sprintf("%s, %s", m[1], monthsNominativeRU[idx])
	}
	if m := quarterSuffixRe.FindStringSubmatch(text); m != nil {
		return fmt.Sprintf("%s, %s кв.", m[1], m[2])
	}
	return text
}

// HolidaySummary groups holidays by name in first-seen order and renders
// "<name>. <phrase> <countries>" per name, joined by "; ". Country codes are
// de-duplicated, sorted and mapped to display names.
func HolidaySummary(holidays []domain.Record, phrase string, lang Lang) string {
	var (
		order  []string
		byName = make(map[string]map[string]struct{})
	)
	for _, h := range holidays {
		name := h.HolidayName()
		if name == "" {
			continue
		}
		set, ok := byName[name]
		if !ok {
			set = make(map[string]struct{})
			byName[name] = set
			order = append(order, name)
		}
		set[h.Country] = struct{}{}
	}

	parts := make([]string, 0, len(order))
	for _, name := range order {
		codes := make([]string, 0, len(byName[name]))
		for c := range byName[name] {
			codes = append(codes, c)
		}
		sort.Strings(codes)
		display := make([]string, len(codes))
		for i, c := range codes {
			display[i] = CountryName(c, lang)
		}
		parts = append(parts, fmt.Sprintf("%s. %s %s", name, phrase, strings.Join(display, ", ")))
	}
	return strings.Join(parts, "; ")
}
