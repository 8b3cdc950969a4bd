package layout

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"econcal/internal/calendar"
	"econcal/pkg/contracts/domain"
)

var monday = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

func sampleSplit() domain.CalendarSplit {
	return domain.CalendarSplit{
		WorkEN: []domain.Record{
			{Date: "2024-01-15", Time: "2:30 PM", Country: "US", Event: "Retail Sales", Key: 1},
			{Date: "2024-01-15", Time: "9:00 AM", Country: "GB", Event: "=SUM(A1)"},
			{Date: "2024-01-16", Time: "", Country: "DE", Event: "ZEW"},
			{Date: "garbage", Country: "US", Event: "dropped"},
		},
		WorkRU: []domain.Record{
			{Date: "2024-01-15", Time: "10:00 AM", Country: "US", Event: "ИПЦ NOV"},
		},
		HolidaysEN: []domain.Record{
			{Date: "2024-01-17", Country: "US", Holiday: "MLK Day"},
			{Date: "2024-01-17", Country: "GB", Holiday: "MLK Day"},
			{Date: "2024-01-19", Country: "JP", Holiday: "Coming of Age Day"},
		},
		HolidaysRU: []domain.Record{
			{Date: "2024-01-17", Country: "US", Holiday: "День Мартина Лютера Кинга"},
		},
	}
}

func TestLines_English(t *testing.T) {
	split := sampleSplit()
	got := Lines(split.WorkEN, split.HolidaysEN, calendar.LangEN, monday)

	want := []string{
		"Monday, January 15",
		"09:00 – UK: =SUM(A1)",
		"14:30 – US: Retail Sales",
		"",
		"Tuesday, January 16",
		"Germany: ZEW",
		"",
		"Wednesday, January 17",
		"MLK Day. Markets in UK, US",
		"",
		"Thursday, January 18",
		"No important macroeconomic data",
		"",
		"Friday, January 19",
		"Coming of Age Day. Markets in Japan",
		"",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Lines() mismatch (-want +got):\n%s", diff)
	}
}

func TestContent_RussianKeepsEventText(t *testing.T) {
	split := sampleSplit()
	got := Content(split.WorkRU, split.HolidaysRU, calendar.LangRU, monday)

	lines := strings.Split(got, "\n")
	require.NotEmpty(t, lines)
	assert.Equal(t, "Понедельник, 15 января", lines[0])
	assert.Equal(t, "10:00 – США: ИПЦ NOV", lines[1])
	assert.Contains(t, got, "День Мартина Лютера Кинга. Праздник в США")
	assert.Contains(t, got, "Нет важных макроданных")
	assert.Equal(t, "Нет важных макроданных", lines[len(lines)-1], "content is trimmed")
}

func TestContent_EmptyWeek(t *testing.T) {
	got := Content(nil, nil, calendar.LangEN, monday)
	assert.Equal(t, 5, strings.Count(got, noDataEN))
	assert.False(t, strings.HasSuffix(got, "\n"))
}

func TestEventLine(t *testing.T) {
	assert.Equal(t, "ALL DAY – EU: Summit", EventLine(domain.Record{Time: "all day", Country: "EA", Event: "Summit"}, calendar.LangEN))
	assert.Equal(t, "ЕС: Саммит", EventLine(domain.Record{Country: "EU", Event: "Саммит"}, calendar.LangRU))
}

func TestTextWidth(t *testing.T) {
	assert.InDelta(t, 3.0, TextWidth("abc"), 1e-9)
	assert.InDelta(t, 3.9, TextWidth("абв"), 1e-9)
	assert.InDelta(t, 0.0, TextWidth(""), 1e-9)

	tr := NewWidthTracker()
	tr.Update(3, "abcd")
	tr.Update(3, "ab")
	tr.Update(3, "")
	assert.InDelta(t, 4.0, tr.Width(3), 1e-9)
	assert.InDelta(t, 0.0, tr.Width(4), 1e-9)
}

func openWorkbook(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func cellValue(t *testing.T, f *excelize.File, sheet, cell string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, cell)
	require.NoError(t, err)
	return v
}

func cellStyleOf(t *testing.T, f *excelize.File, sheet, cell string) *excelize.Style {
	t.Helper()
	id, err := f.GetCellStyle(sheet, cell)
	require.NoError(t, err)
	st, err := f.GetStyle(id)
	require.NoError(t, err)
	return st
}

func borderWeight(st *excelize.Style, side string) int {
	for _, b := range st.Border {
		if b.Type == side {
			return b.Style
		}
	}
	return borderNone
}

func TestWorkbook_SheetOrderAndNames(t *testing.T) {
	data, err := Workbook(sampleSplit(), monday)
	require.NoError(t, err)

	f := openWorkbook(t, data)
	assert.Equal(t, []string{"Календарь 15.01.2024", "Economic calendar_15.01.24"}, f.GetSheetList())
}

func TestWorkbook_EnglishSheet(t *testing.T) {
	data, err := Workbook(sampleSplit(), monday)
	require.NoError(t, err)

	f := openWorkbook(t, data)
	const sheet = "Economic calendar_15.01.24"

	assert.Equal(t, "Date/time", cellValue(t, f, sheet, "C2"))
	assert.Equal(t, "Country", cellValue(t, f, sheet, "D2"))
	assert.Equal(t, "News", cellValue(t, f, sheet, "E2"))

	rows := []struct {
		cell, want string
	}{
		{"C3", "Monday January 15 2024"},
		{"C4", "9:00 AM"},
		{"D4", "GB"},
		{"E4", "'=SUM(A1)"},
		{"C5", "2:30 PM"},
		{"E5", "Retail Sales"},
		{"C6", "Tuesday January 16 2024"},
		{"E7", "ZEW"},
		{"C8", "Wednesday January 17 2024"},
		{"C9", "MLK Day. Markets in UK, US"},
		{"C10", "Thursday January 18 2024"},
		{"C11", ""},
		{"C12", "Friday January 19 2024"},
		{"C13", "Coming of Age Day. Markets in Japan"},
	}
	for _, r := range rows {
		assert.Equal(t, r.want, cellValue(t, f, sheet, r.cell), "cell %s", r.cell)
	}

	merges, err := f.GetMergeCells(sheet)
	require.NoError(t, err)
	var merged []string
	for _, m := range merges {
		merged = append(merged, m.GetStartAxis()+":"+m.GetEndAxis())
	}
	for _, want := range []string{"C3:E3", "C6:E6", "C8:E8", "C9:E9", "C10:E10", "C12:E12", "C13:E13"} {
		assert.Contains(t, merged, want)
	}
	assert.NotContains(t, merged, "C4:E4")
}

func TestWorkbook_Styles(t *testing.T) {
	data, err := Workbook(sampleSplit(), monday)
	require.NoError(t, err)

	f := openWorkbook(t, data)
	const sheet = "Economic calendar_15.01.24"

	header := cellStyleOf(t, f, sheet, "C2")
	require.NotNil(t, header.Font)
	assert.True(t, header.Font.Bold)
	assert.Equal(t, "Arial", header.Font.Family)
	assert.Equal(t, borderMedium, borderWeight(header, "left"))
	assert.Equal(t, borderMedium, borderWeight(header, "top"))
	assert.Equal(t, borderThin, borderWeight(cellStyleOf(t, f, sheet, "D2"), "left"))

	firstDate := cellStyleOf(t, f, sheet, "C3")
	assert.Equal(t, borderMedium, borderWeight(firstDate, "top"))
	require.NotEmpty(t, firstDate.Fill.Color)
	assert.True(t, strings.HasSuffix(strings.ToUpper(firstDate.Fill.Color[0]), fillGray))
	assert.Equal(t, borderThin, borderWeight(cellStyleOf(t, f, sheet, "C6"), "top"))

	important := cellStyleOf(t, f, sheet, "C5")
	require.NotNil(t, important.Font)
	assert.True(t, important.Font.Bold)
	assert.True(t, strings.HasSuffix(strings.ToUpper(important.Font.Color), colorRed))

	plain := cellStyleOf(t, f, sheet, "E4")
	require.NotNil(t, plain.Font)
	assert.False(t, plain.Font.Bold)
	assert.True(t, strings.HasSuffix(strings.ToUpper(plain.Font.Color), colorText))

	holiday := cellStyleOf(t, f, sheet, "C9")
	require.NotNil(t, holiday.Font)
	assert.True(t, strings.HasSuffix(strings.ToUpper(holiday.Font.Color), colorRed))

	// Friday ends with a holiday and no events, so the holiday row closes the table.
	assert.Equal(t, borderMedium, borderWeight(cellStyleOf(t, f, sheet, "C13"), "bottom"))
	assert.Equal(t, borderMedium, borderWeight(cellStyleOf(t, f, sheet, "E13"), "bottom"))
	assert.Equal(t, borderThin, borderWeight(cellStyleOf(t, f, sheet, "C11"), "bottom"))
}

func TestWorkbook_RussianSheetRewritesMonths(t *testing.T) {
	data, err := Workbook(sampleSplit(), monday)
	require.NoError(t, err)

	f := openWorkbook(t, data)
	const sheet = "Календарь 15.01.2024"

	assert.Equal(t, "Дата/Время", cellValue(t, f, sheet, "C2"))
	assert.Equal(t, "15.01.2024", cellValue(t, f, sheet, "C3"))
	assert.Equal(t, "10:00 AM", cellValue(t, f, sheet, "C4"))
	assert.Equal(t, "США", cellValue(t, f, sheet, "D4"))
	assert.Equal(t, "ИПЦ, ноябрь", cellValue(t, f, sheet, "E4"))
}

func TestWorkbook_EmptyWeekLastRowClosesTable(t *testing.T) {
	data, err := Workbook(domain.CalendarSplit{}, monday)
	require.NoError(t, err)

	f := openWorkbook(t, data)
	const sheet = "Economic calendar_15.01.24"

	// Five date rows each followed by an empty bordered row.
	assert.Equal(t, "Friday January 19 2024", cellValue(t, f, sheet, "C11"))
	last := cellStyleOf(t, f, sheet, "D12")
	assert.Equal(t, borderMedium, borderWeight(last, "bottom"))
	assert.Equal(t, borderThin, borderWeight(last, "left"))
	assert.Equal(t, borderMedium, borderWeight(cellStyleOf(t, f, sheet, "E12"), "right"))
}

func TestWorkbook_ColumnWidths(t *testing.T) {
	data, err := Workbook(sampleSplit(), monday)
	require.NoError(t, err)

	f := openWorkbook(t, data)
	const sheet = "Economic calendar_15.01.24"

	widthE, err := f.GetColWidth(sheet, "E")
	require.NoError(t, err)
	assert.InDelta(t, TextWidth("Coming of Age Day. Markets in Japan")+widthPadding, widthE, 0.01)

	widthD, err := f.GetColWidth(sheet, "D")
	require.NoError(t, err)
	assert.InDelta(t, TextWidth("Country")+widthPadding, widthD, 0.01)
}
