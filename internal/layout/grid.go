package layout

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"econcal/internal/calendar"
	"econcal/pkg/contracts/domain"
)

// Border weights in excelize style numbering.
const (
	borderNone   = 0
	borderThin   = 1
	borderMedium = 2
)

const (
	fontFamily    = "Arial"
	fontSize      = 11
	colorRed      = "FF0000"
	colorText     = "333333"
	colorDateText = "212529"
	fillGray      = "F5F5F5"
	fillWhite     = "FFFFFF"

	firstColumn = 3 // C
	lastColumn  = 5 // E
	headerRow   = 2
	firstRow    = 3

	widthPadding = 2.0
)

var gridHeaders = map[calendar.Lang][3]string{
	calendar.LangEN: {"Date/time", "Country", "News"},
	calendar.LangRU: {"Дата/Время", "Страна", "Событие"},
}

func gridHolidayPhrase(lang calendar.Lang) string {
	if lang == calendar.LangRU {
		return "Праздники в"
	}
	return "Markets in"
}

// Section is the content of one worksheet.
type Section struct {
	Lang     calendar.Lang
	Events   []domain.Record
	Holidays []domain.Record
}

// Sections returns the Russian and English sections of split, in sheet order.
func Sections(split domain.CalendarSplit) []Section {
	return []Section{
		{Lang: calendar.LangRU, Events: split.WorkRU, Holidays: split.HolidaysRU},
		{Lang: calendar.LangEN, Events: split.WorkEN, Holidays: split.HolidaysEN},
	}
}

// Workbook renders split as an xlsx document for the week starting at monday.
func Workbook(split domain.CalendarSplit, monday time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	defaultSheet := f.GetSheetName(0)
	for i, sec := range Sections(split) {
		name := calendar.SheetName(monday, sec.Lang)
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, name); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("create sheet %q: %w", name, err)
		}
		if err := FillSheet(f, name, sec, monday); err != nil {
			return nil, fmt.Errorf("fill sheet %q: %w", name, err)
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return bytes.Clone(buf.Bytes()), nil
}

// FillSheet writes the header and the five weekday blocks of sec into sheet.
func FillSheet(f *excelize.File, sheet string, sec Section, monday time.Time) error {
	w := &sheetWriter{
		f:       f,
		sheet:   sheet,
		styles:  make(map[cellStyle]int),
		tracker: NewWidthTracker(),
	}
	if err := w.header(sec.Lang); err != nil {
		return err
	}

	eventsByDate := calendar.GroupByDate(sec.Events)
	holidaysByDate := calendar.GroupByDate(sec.Holidays)
	week := calendar.WeekDates(monday)

	row := firstRow
	for i, d := range week {
		lastDay := i == len(week)-1

		if err := w.dateRow(row, calendar.FormatGridDate(d, sec.Lang), i == 0); err != nil {
			return err
		}
		row++

		dayHolidays := holidaysByDate[d]
		dayEvents := calendar.SortByTime(eventsByDate[d])

		if len(dayHolidays) > 0 {
			text := calendar.HolidaySummary(dayHolidays, gridHolidayPhrase(sec.Lang), sec.Lang)
			if err := w.holidayRow(row, text, lastDay && len(dayEvents) == 0); err != nil {
				return err
			}
			row++
		}

		for j, ev := range dayEvents {
			if sec.Lang == calendar.LangRU {
				ev.Event = calendar.ConvertMonthSuffix(ev.Event)
			}
			if err := w.eventRow(row, ev, lastDay && j == len(dayEvents)-1); err != nil {
				return err
			}
			row++
		}

		if len(dayHolidays) == 0 && len(dayEvents) == 0 {
			if err := w.emptyRow(row, lastDay); err != nil {
				return err
			}
			row++
		}
	}

	return w.tracker.Apply(f, sheet, widthPadding)
}

type fontSpec struct {
	set   bool
	bold  bool
	color string
}

type cellStyle struct {
	font                     fontSpec
	fill                     string
	align                    string
	left, right, top, bottom int
}

type sheetWriter struct {
	f       *excelize.File
	sheet   string
	styles  map[cellStyle]int
	tracker *WidthTracker
}

func (w *sheetWriter) styleID(cs cellStyle) (int, error) {
	if id, ok := w.styles[cs]; ok {
		return id, nil
	}
	st := &excelize.Style{}
	if cs.font.set {
		st.Font = &excelize.Font{Family: fontFamily, Size: fontSize, Bold: cs.font.bold, Color: cs.font.color}
	}
	if cs.fill != "" {
		st.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{cs.fill}}
	}
	if cs.align != "" {
		st.Alignment = &excelize.Alignment{Horizontal: cs.align, Vertical: "center"}
	}
	for _, b := range []struct {
		side   string
		weight int
	}{{"left", cs.left}, {"right", cs.right}, {"top", cs.top}, {"bottom", cs.bottom}} {
		if b.weight != borderNone {
			st.Border = append(st.Border, excelize.Border{Type: b.side, Color: "000000", Style: b.weight})
		}
	}
	id, err := w.f.NewStyle(st)
	if err != nil {
		return 0, fmt.Errorf("create style: %w", err)
	}
	w.styles[cs] = id
	return id, nil
}

func (w *sheetWriter) put(col, row int, value string, cs cellStyle) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if value != "" {
		if err := w.f.SetCellStr(w.sheet, cell, value); err != nil {
			return fmt.Errorf("set %s: %w", cell, err)
		}
	}
	id, err := w.styleID(cs)
	if err != nil {
		return err
	}
	if err := w.f.SetCellStyle(w.sheet, cell, cell, id); err != nil {
		return fmt.Errorf("style %s: %w", cell, err)
	}
	return nil
}

func (w *sheetWriter) merge(row int) error {
	return w.f.MergeCell(w.sheet, fmt.Sprintf("C%d", row), fmt.Sprintf("E%d", row))
}

func (w *sheetWriter) header(lang calendar.Lang) error {
	for i, text := range gridHeaders[lang] {
		col := firstColumn + i
		cs := cellStyle{
			font:   fontSpec{set: true, bold: true},
			align:  "center",
			left:   borderThin,
			right:  borderThin,
			top:    borderMedium,
			bottom: borderMedium,
		}
		if col == firstColumn {
			cs.left = borderMedium
		}
		if col == lastColumn {
			cs.right = borderMedium
		}
		if err := w.put(col, headerRow, text, cs); err != nil {
			return err
		}
		w.tracker.Update(col, text)
	}
	return nil
}

func (w *sheetWriter) dateRow(row int, text string, first bool) error {
	if err := w.merge(row); err != nil {
		return err
	}
	top := borderThin
	if first {
		top = borderMedium
	}
	cells := []struct {
		col   int
		value string
		cs    cellStyle
	}{
		{3, text, cellStyle{
			font:  fontSpec{set: true, color: colorDateText},
			fill:  fillGray,
			align: "left",
			left:  borderMedium, right: borderMedium, top: top, bottom: borderThin,
		}},
		{4, "", cellStyle{fill: fillGray, top: top, bottom: borderThin}},
		{5, "", cellStyle{fill: fillGray, right: borderMedium, top: top, bottom: borderThin}},
	}
	for _, c := range cells {
		if err := w.put(c.col, row, c.value, c.cs); err != nil {
			return err
		}
	}
	w.tracker.Update(lastColumn, text)
	return nil
}

func (w *sheetWriter) holidayRow(row int, text string, last bool) error {
	if err := w.merge(row); err != nil {
		return err
	}
	text = calendar.Sanitize(text)
	bottom := borderThin
	if last {
		bottom = borderMedium
	}
	cells := []struct {
		col   int
		value string
		cs    cellStyle
	}{
		{3, text, cellStyle{
			font:  fontSpec{set: true, color: colorRed},
			align: "left",
			left:  borderMedium, right: borderMedium, top: borderThin, bottom: bottom,
		}},
		{4, "", cellStyle{top: borderThin, bottom: bottom}},
		{5, "", cellStyle{right: borderMedium, top: borderThin, bottom: bottom}},
	}
	for _, c := range cells {
		if err := w.put(c.col, row, c.value, c.cs); err != nil {
			return err
		}
	}
	w.tracker.Update(lastColumn, text)
	return nil
}

func (w *sheetWriter) eventRow(row int, ev domain.Record, last bool) error {
	timeText := strings.TrimSpace(ev.Time)
	country := calendar.Sanitize(ev.Country)
	event := calendar.Sanitize(ev.Event)

	color := colorText
	if ev.Important() {
		color = colorRed
	}
	bottom := borderThin
	if last {
		bottom = borderMedium
	}

	base := cellStyle{fill: fillWhite, align: "left", left: borderThin, right: borderThin, top: borderThin, bottom: bottom}

	timeStyle := base
	timeStyle.font = fontSpec{set: true, bold: true, color: color}
	timeStyle.left = borderMedium

	countryStyle := base
	countryStyle.font = fontSpec{set: true, color: color}

	eventStyle := base
	eventStyle.font = fontSpec{set: true, color: color}
	eventStyle.right = borderMedium

	if err := w.put(3, row, timeText, timeStyle); err != nil {
		return err
	}
	if err := w.put(4, row, country, countryStyle); err != nil {
		return err
	}
	if err := w.put(5, row, event, eventStyle); err != nil {
		return err
	}
	w.tracker.Update(3, timeText)
	w.tracker.Update(4, country)
	w.tracker.Update(5, event)
	return nil
}

func (w *sheetWriter) emptyRow(row int, last bool) error {
	bottom := borderThin
	if last {
		bottom = borderMedium
	}
	for col := firstColumn; col <= lastColumn; col++ {
		cs := cellStyle{left: borderThin, right: borderThin, top: borderThin, bottom: bottom}
		if col == firstColumn {
			cs.left = borderMedium
		}
		if col == lastColumn {
			cs.right = borderMedium
		}
		if err := w.put(col, row, "", cs); err != nil {
			return err
		}
	}
	return nil
}
