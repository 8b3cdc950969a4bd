package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuoteItem is one inbound quote as received from upstream.
// Numeric fields stay loosely typed; they may arrive as JSON numbers or
// as localized strings such as "1 234,5" or "-0,25%".
type QuoteItem struct {
	Symbol     string `json:"symbol" mapstructure:"symbol"`
	OldPrice   any    `json:"old_price,omitempty" mapstructure:"old_price"`
	NewPrice   any    `json:"new_price,omitempty" mapstructure:"new_price"`
	PctChange  any    `json:"pct_change,omitempty" mapstructure:"pct_change"`
	ReportDate any    `json:"report_date,omitempty" mapstructure:"report_date"`
}

// Quote is a parsed market quote.
type Quote struct {
	Symbol      string
	OldPrice    decimal.NullDecimal
	NewPriceRaw *string
	PctChange   decimal.NullDecimal
	ReportDate  *string
}

// QuoteBatch is the last batch of quotes received, replaced wholesale on every receive.
type QuoteBatch struct {
	Items      []QuoteItem
	ReportDate *time.Time
	ReceivedAt time.Time
}
