package layout

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"
)

// WidthTracker records the widest text written to each column.
// ASCII characters weigh 1.0 and every other character 1.3.
type WidthTracker struct {
	widths map[int]float64
}

// NewWidthTracker returns an empty tracker.
func NewWidthTracker() *WidthTracker {
	return &WidthTracker{widths: make(map[int]float64)}
}

// TextWidth returns the weighted width of text.
func TextWidth(text string) float64 {
	var width float64
	for _, r := range text {
		if r > 127 {
			width += 1.3
		} else {
			width += 1.0
		}
	}
	return width
}

// Update widens col to fit text. Empty text is ignored.
func (t *WidthTracker) Update(col int, text string) {
	if text == "" {
		return
	}
	if w := TextWidth(text); w > t.widths[col] {
		t.widths[col] = w
	}
}

// Width returns the tracked width of col, or 0 when nothing was written.
func (t *WidthTracker) Width(col int) float64 {
	return t.widths[col]
}

// Apply sets every tracked column of sheet to its width plus padding.
func (t *WidthTracker) Apply(f *excelize.File, sheet string, padding float64) error {
	cols := make([]int, 0, len(t.widths))
	for col := range t.widths {
		cols = append(cols, col)
	}
	sort.Ints(cols)

	for _, col := range cols {
		name, err := excelize.ColumnNumberToName(col)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, t.widths[col]+padding); err != nil {
			return fmt.Errorf("set width of column %s: %w", name, err)
		}
	}
	return nil
}
