package exporter

import (
	"econcal/internal/quotes"
	"econcal/pkg/contracts/domain"
)

// QuoteHeaders names the columns produced by QuoteRecords.
var QuoteHeaders = []string{"symbol", "old_price", "new_price", "pct_change"}

// QuoteRecords renders parsed quotes as CSV rows. Prices and the percent
// change use a decimal point; missing values are left blank.
func QuoteRecords(items []domain.QuoteItem) [][]string {
	parsed, _ := quotes.Parse(items)

	out := make([][]string, 0, len(parsed))
	for _, q := range parsed {
		row := []string{q.Symbol, "", "", ""}
		if q.OldPrice.Valid {
			row[1] = q.OldPrice.Decimal.String()
		}
		if price := quotes.ToDecimal(deref(q.NewPriceRaw)); price.Valid {
			row[2] = price.Decimal.String()
		}
		if q.PctChange.Valid {
			row[3] = q.PctChange.Decimal.StringFixed(2)
		}
		out = append(out, row)
	}
	return out
}

func deref(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
