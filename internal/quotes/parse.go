package quotes

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/shopspring/decimal"

	"econcal/pkg/contracts/domain"
)

var hundred = decimal.NewFromInt(100)

// ToDecimal converts a loosely typed number. Strings may carry spaces,
// non-breaking spaces, a percent sign and a decimal comma. Anything that
// does not parse yields an invalid NullDecimal.
func ToDecimal(v any) decimal.NullDecimal {
	switch val := v.(type) {
	case nil:
		return decimal.NullDecimal{}
	case decimal.Decimal:
		return decimal.NewNullDecimal(val)
	case float64:
		return decimal.NewNullDecimal(decimal.NewFromFloat(val))
	case float32:
		return decimal.NewNullDecimal(decimal.NewFromFloat32(val))
	case int:
		return decimal.NewNullDecimal(decimal.NewFromInt(int64(val)))
	case int64:
		return decimal.NewNullDecimal(decimal.NewFromInt(val))
	case bool:
		if val {
			return decimal.NewNullDecimal(decimal.NewFromInt(1))
		}
		return decimal.NewNullDecimal(decimal.Zero)
	case json.Number:
		return ToDecimal(val.String())
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(val), "\u00a0", " ")
		s = strings.ReplaceAll(s, "%", "")
		s = strings.ReplaceAll(s, " ", "")
		s = strings.ReplaceAll(s, ",", ".")
		if s == "" {
			return decimal.NullDecimal{}
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.NullDecimal{}
		}
		return decimal.NewNullDecimal(d)
	default:
		return decimal.NullDecimal{}
	}
}

// rawString renders a scalar as received, trimmed. Nil stays nil.
func rawString(v any) *string {
	var s string
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		s = val
	case json.Number:
		s = val.String()
	case float64:
		s = strconv.FormatFloat(val, 'f', -1, 64)
	default:
		s = fmt.Sprint(val)
	}
	s = strings.TrimSpace(s)
	return &s
}

var reportDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
	"02.01.2006",
}

// ParseReportDate accepts an ISO-8601 date or date-time (with or without a
// zone, a trailing Z included) or DD.MM.YYYY and returns the civil date at
// UTC midnight.
func ParseReportDate(v any) (time.Time, bool) {
	raw := rawString(v)
	if raw == nil || *raw == "" {
		return time.Time{}, false
	}
	for _, layout := range reportDateLayouts {
		if t, err := time.Parse(layout, *raw); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// Parse converts inbound items into quotes. Items without a symbol are
// skipped. When the percent change is missing it is derived from the old and
// new price, provided the old price is not zero. The report date is the first
// item date that parses.
func Parse(items []domain.QuoteItem) ([]domain.Quote, *time.Time) {
	var (
		out    []domain.Quote
		report *time.Time
	)
	for _, item := range items {
		if report == nil {
			if d, ok := ParseReportDate(item.ReportDate); ok {
				report = &d
			}
		}

		symbol := strings.TrimSpace(item.Symbol)
		if symbol == "" {
			continue
		}

		q := domain.Quote{
			Symbol:      symbol,
			OldPrice:    ToDecimal(item.OldPrice),
			NewPriceRaw: rawString(item.NewPrice),
			PctChange:   ToDecimal(item.PctChange),
			ReportDate:  rawString(item.ReportDate),
		}
		if !q.PctChange.Valid && q.OldPrice.Valid && q.NewPriceRaw != nil {
			newPrice := ToDecimal(*q.NewPriceRaw)
			if newPrice.Valid && !q.OldPrice.Decimal.IsZero() {
				pct := newPrice.Decimal.Sub(q.OldPrice.Decimal).Div(q.OldPrice.Decimal).Mul(hundred)
				q.PctChange = decimal.NewNullDecimal(pct)
			}
		}
		out = append(out, q)
	}
	return out, report
}

// DecodeItems converts generic JSON values into quote items. Values that are
// not objects are skipped. Scalar symbols are rendered as strings.
func DecodeItems(values []any) ([]domain.QuoteItem, error) {
	out := make([]domain.QuoteItem, 0, len(values))
	for i, v := range values {
		raw, ok := v.(map[string]any)
		if !ok {
			continue
		}
		var item domain.QuoteItem
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &item,
		})
		if err != nil {
			return nil, fmt.Errorf("create quote decoder: %w", err)
		}
		if err := dec.Decode(raw); err != nil {
			return nil, fmt.Errorf("quote %d: %w", i, err)
		}
		out = append(out, item)
	}
	return out, nil
}
