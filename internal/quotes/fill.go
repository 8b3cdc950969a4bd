package quotes

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"econcal/internal/docx"
	"econcal/pkg/contracts/domain"
)

// ErrNoTable is returned when the template body has no table to fill.
var ErrNoTable = errors.New("template must contain at least one table")

const (
	ColorGreen = "00B050"
	ColorRed   = "FF0000"

	priceColumn = 1
	pctColumn   = 2
)

// Label binds a quote symbol (lower case) to the first-column text of its template row.
type Label struct {
	Symbol string
	Text   string
}

// Labels lists every symbol the template knows about.
var Labels = []Label{
	{"dxy", "Индекс USD"},
	{"eurusd", "EUR/USD"},
	{"gbpusd", "GBP/USD"},
	{"usdjpy", "USD/JPY"},
	{"usdrub", "USD/RUB"},
	{"usdcny", "USD/CNY"},
	{"usdinr", "USD/INR"},
	{"usdbrl", "USD/BRL"},

	{"brent", "Фьючерс на нефть Brent"},
	{"crude oil", "Фьючерсы на нефть WTI"},
	{"gold", "Фьючерс на золото"},
	{"silver", "Фьючерс на серебро"},
	{"copper", "Фьючерс на медь"},
	{"nickel", "Фьючерс на никель"},
	{"aluminum", "Алюминий"},
}

// FormatPrice renders the raw price with a decimal comma.
func FormatPrice(raw *string) string {
	if raw == nil {
		return ""
	}
	return strings.ReplaceAll(strings.TrimSpace(*raw), ".", ",")
}

// FormatPct renders a percent change with two decimals and a decimal comma,
// for example "-0,25%". No plus sign is added.
func FormatPct(pct decimal.NullDecimal) string {
	if !pct.Valid {
		return ""
	}
	return strings.ReplaceAll(pct.Decimal.StringFixed(2), ".", ",") + "%"
}

// PctColor returns green for a rise, red for a fall and "" otherwise.
func PctColor(pct decimal.NullDecimal) string {
	if !pct.Valid {
		return ""
	}
	switch pct.Decimal.Sign() {
	case 1:
		return ColorGreen
	case -1:
		return ColorRed
	}
	return ""
}

// LabelIndex maps the trimmed first-cell text of every row to its row
// index. Empty labels are ignored and a repeated label keeps its last row.
func LabelIndex(t docx.Table) map[string]int {
	index := make(map[string]int)
	for i, row := range t.Rows() {
		cell, ok := row.Cell(0)
		if !ok {
			continue
		}
		label := strings.TrimSpace(cell.Text())
		if label == "" {
			continue
		}
		index[label] = i
	}
	return index
}

// Fill writes quotes into the first table of doc: the price into column 1
// and the colored percent change into column 2 of the row whose label
// matches the quote's symbol. Symbols match case-insensitively and the last
// quote of a symbol wins. It returns the number of rows updated.
func Fill(doc *docx.Document, quotes []domain.Quote) (int, error) {
	tables := doc.Tables()
	if len(tables) == 0 {
		return 0, ErrNoTable
	}
	table := tables[0]
	rows := table.Rows()
	index := LabelIndex(table)

	bySymbol := make(map[string]domain.Quote, len(quotes))
	for _, q := range quotes {
		bySymbol[strings.ToLower(strings.TrimSpace(q.Symbol))] = q
	}

	updated := 0
	for _, l := range Labels {
		q, ok := bySymbol[l.Symbol]
		if !ok {
			continue
		}
		ri, ok := index[l.Text]
		if !ok {
			continue
		}
		priceCell, okPrice := rows[ri].Cell(priceColumn)
		pctCell, okPct := rows[ri].Cell(pctColumn)
		if !okPrice || !okPct {
			continue
		}
		priceCell.SetText(FormatPrice(q.NewPriceRaw), "")
		pctCell.SetText(FormatPct(q.PctChange), PctColor(q.PctChange))
		updated++
	}
	return updated, nil
}

// Filename returns Daily_quotes_DD.MM.YYYY.docx, or Daily_quotes.docx when
// the report date is unknown.
func Filename(report *time.Time) string {
	if report == nil {
		return "Daily_quotes.docx"
	}
	return "Daily_quotes_" + report.Format("02.01.2006") + ".docx"
}
