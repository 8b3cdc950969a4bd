package calendar

import (
	"fmt"
	"reflect"

	"github.com/go-viper/mapstructure/v2"

	"econcal/pkg/contracts/domain"
)

// HasCyrillic reports whether text contains a code point from the Cyrillic block.
func HasCyrillic(text string) bool {
	for _, r := range text {
		if r >= '\u0400' && r <= '\u04FF' {
			return true
		}
	}
	return false
}

// Split partitions records into work events and holidays per language.
// A holiday's language is taken from its holiday text, an event's from its
// event text. Input order is preserved inside every bucket.
func Split(records []domain.Record) domain.CalendarSplit {
	var out domain.CalendarSplit
	for _, rec := range records {
		if rec.IsHoliday() {
			if HasCyrillic(rec.Holiday) {
				out.HolidaysRU = append(out.HolidaysRU, rec)
			} else {
				out.HolidaysEN = append(out.HolidaysEN, rec)
			}
			continue
		}
		if HasCyrillic(rec.Event) {
			out.WorkRU = append(out.WorkRU, rec)
		} else {
			out.WorkEN = append(out.WorkEN, rec)
		}
	}
	return out
}

var importanceType = reflect.TypeOf(domain.Importance(0))

// importanceHook coerces numbers and numeric strings into domain.Importance.
func importanceHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != importanceType {
		return data, nil
	}
	return domain.ParseImportance(data), nil
}

// DecodeRecord converts one generic JSON object into a Record.
// Null fields decode to their zero value and unknown fields are ignored.
func DecodeRecord(raw map[string]any) (domain.Record, error) {
	var rec domain.Record
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       importanceHook,
		WeaklyTypedInput: true,
		Result:           &rec,
	})
	if err != nil {
		return rec, fmt.Errorf("create record decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return rec, fmt.Errorf("decode record: %w", err)
	}
	return rec, nil
}

// DecodeRecords converts generic items into records. Items that are not JSON
// objects are skipped; the first object that fails to decode aborts the batch.
func DecodeRecords(items []any) ([]domain.Record, error) {
	out := make([]domain.Record, 0, len(items))
	for i, item := range items {
		raw, ok := item.(map[string]any)
		if !ok {
			continue
		}
		rec, err := DecodeRecord(raw)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		out = append(out, rec)
	}
	return out, nil
}
