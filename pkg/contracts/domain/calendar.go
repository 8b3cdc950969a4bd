package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Importance is the importance flag carried by an economic calendar record.
// Only the value 1 marks an event as important.
type Importance int

// ImportanceHigh marks an event rendered in red.
const ImportanceHigh Importance = 1

// ParseImportance converts a loosely typed flag into an Importance.
// Strings count only when they are purely numeric with an optional
// leading minus sign; anything else yields 0.
func ParseImportance(v any) Importance {
	switch val := v.(type) {
	case nil:
		return 0
	case Importance:
		return val
	case int:
		return Importance(val)
	case int64:
		return Importance(val)
	case float64:
		if val != math.Trunc(val) {
			return 0
		}
		return Importance(int(val))
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return Importance(n)
		}
		if f, err := val.Float64(); err == nil && f == math.Trunc(f) {
			return Importance(int(f))
		}
		return 0
	case string:
		digits := strings.TrimPrefix(val, "-")
		if digits == "" {
			return 0
		}
		for _, r := range digits {
			if r < '0' || r > '9' {
				return 0
			}
		}
		n, err := strconv.Atoi(val)
		if err != nil {
			return 0
		}
		return Importance(n)
	default:
		return 0
	}
}

// Record is one economic calendar entry: either a work event or a market holiday.
type Record struct {
	Date     string     `json:"date" mapstructure:"date"`
	Time     string     `json:"time" mapstructure:"time"`
	Country  string     `json:"country" mapstructure:"country"`
	Event    string     `json:"event,omitempty" mapstructure:"event"`
	Holiday  string     `json:"holiday,omitempty" mapstructure:"holiday"`
	Key      Importance `json:"Key" mapstructure:"Key"`
	SourceID string     `json:"source_id,omitempty" mapstructure:"source_id"`
}

// IsHoliday reports whether the record describes a market holiday.
func (r Record) IsHoliday() bool {
	return r.Holiday != ""
}

// Important reports whether the record should be highlighted.
func (r Record) Important() bool {
	return r.Key == ImportanceHigh
}

// HolidayName returns the holiday name, falling back to the event text.
func (r Record) HolidayName() string {
	if r.Holiday != "" {
		return r.Holiday
	}
	return r.Event
}

// CalendarSplit holds records partitioned by category and language.
type CalendarSplit struct {
	WorkEN     []Record `json:"work_en"`
	WorkRU     []Record `json:"work_ru"`
	HolidaysEN []Record `json:"holidays_en"`
	HolidaysRU []Record `json:"holidays_ru"`
}

// Counts returns the size of each bucket keyed by bucket name.
func (s CalendarSplit) Counts() map[string]int {
	return map[string]int{
		"work_en":     len(s.WorkEN),
		"work_ru":     len(s.WorkRU),
		"holidays_en": len(s.HolidaysEN),
		"holidays_ru": len(s.HolidaysRU),
	}
}

// Events returns the work events of both languages, Russian first.
func (s CalendarSplit) Events() []Record {
	out := make([]Record, 0, len(s.WorkRU)+len(s.WorkEN))
	out = append(out, s.WorkRU...)
	return append(out, s.WorkEN...)
}

// Holidays returns the holidays of both languages, Russian first.
func (s CalendarSplit) Holidays() []Record {
	out := make([]Record, 0, len(s.HolidaysRU)+len(s.HolidaysEN))
	out = append(out, s.HolidaysRU...)
	return append(out, s.HolidaysEN...)
}

// IsEmpty reports whether every bucket is empty.
func (s CalendarSplit) IsEmpty() bool {
	return len(s.WorkEN)+len(s.WorkRU)+len(s.HolidaysEN)+len(s.HolidaysRU) == 0
}
