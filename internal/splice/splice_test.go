package splice

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"econcal/internal/docx"
	"econcal/internal/docx/docxtest"
)

func open(t *testing.T, b *docxtest.Builder) *docx.Document {
	t.Helper()
	doc, err := docx.Open(b.Build(t))
	require.NoError(t, err)
	return doc
}

func paragraphTexts(doc *docx.Document) []string {
	var out []string
	for _, p := range doc.Paragraphs() {
		out = append(out, p.Text())
	}
	return out
}

func TestReplacePlaceholder(t *testing.T) {
	doc := open(t, docxtest.New().
		Text("Title").
		Paragraph(docxtest.Run{Text: "{{CONTENT_RU}}", Font: "Times New Roman", HalfPoints: 24}).
		Text("Tail"))

	content := "Monday, January 15\n09:00 – US: CPI\n\nTuesday, January 16\nNo important macroeconomic data"
	require.True(t, ReplacePlaceholder(doc, "{{CONTENT_RU}}", content))

	want := []string{
		"Title",
		"Monday, January 15",
		"09:00 – US: CPI",
		"",
		"Tuesday, January 16",
		"No important macroeconomic data",
		"Tail",
	}
	if diff := cmp.Diff(want, paragraphTexts(doc)); diff != "" {
		t.Errorf("paragraphs mismatch (-want +got):\n%s", diff)
	}

	paras := doc.Paragraphs()

	heading := paras[1]
	assert.Equal(t, docx.AlignCenter, heading.Alignment())
	require.Len(t, heading.Runs(), 1)
	assert.True(t, heading.Runs()[0].Bold())
	assert.Equal(t, docx.Font{Name: "Arial", HalfPoints: 22}, heading.Runs()[0].Font())

	event := paras[2]
	assert.Equal(t, docx.AlignLeft, event.Alignment())
	require.Len(t, event.Runs(), 1)
	assert.False(t, event.Runs()[0].Bold())
	assert.Equal(t, docx.Font{Name: "Times New Roman", HalfPoints: 24}, event.Runs()[0].Font())
}

func TestReplacePlaceholder_SplitRunsAndDefaults(t *testing.T) {
	doc := open(t, docxtest.New().Text("{{CONT", "ENT_EN}}"))

	require.True(t, ReplacePlaceholder(doc, "{{CONTENT_EN}}", "just one line"))

	paras := doc.Paragraphs()
	require.Len(t, paras, 1)
	assert.Equal(t, "just one line", paras[0].Text())
	assert.Equal(t, docx.DefaultFont, paras[0].Runs()[0].Font())
}

func TestReplacePlaceholder_OnlyFirstMatch(t *testing.T) {
	doc := open(t, docxtest.New().Text("{{CONTENT_EN}}").Text("{{CONTENT_EN}} again"))

	require.True(t, ReplacePlaceholder(doc, "{{CONTENT_EN}}", "a\nb"))
	assert.Equal(t, []string{"a", "b", "{{CONTENT_EN}} again"}, paragraphTexts(doc))
}

func TestReplacePlaceholder_InTableCell(t *testing.T) {
	doc := open(t, docxtest.New().Text("intro").Table([]string{"{{CONTENT_RU}}", "side"}))

	require.True(t, ReplacePlaceholder(doc, "{{CONTENT_RU}}", "Понедельник, 15 января\nСША: ИПЦ"))

	cell, ok := doc.Tables()[0].Rows()[0].Cell(0)
	require.True(t, ok)
	assert.Equal(t, "Понедельник, 15 января\nСША: ИПЦ", cell.Text())
}

func TestReplacePlaceholder_NotFound(t *testing.T) {
	doc := open(t, docxtest.New().Text("nothing here"))
	assert.False(t, ReplacePlaceholder(doc, "{{CONTENT_RU}}", "x"))
	assert.Equal(t, []string{"nothing here"}, paragraphTexts(doc))
}

func TestReplaceInline(t *testing.T) {
	doc := open(t, docxtest.New().
		Header(docxtest.Run{Text: "Week of {{CALENDAR_DATE}}", Font: "Calibri", HalfPoints: 20}).
		Paragraph(docxtest.Run{Text: "From {{CALENDAR_"}, docxtest.Run{Text: "DATE}} on"}).
		Text("untouched"))

	require.True(t, ReplaceInline(doc, "{{CALENDAR_DATE}}", "15.01.24"))
	assert.Equal(t, []string{"From 15.01.24 on", "untouched", "Week of 15.01.24"}, paragraphTexts(doc))

	header := doc.Paragraphs()[2]
	require.Len(t, header.Runs(), 1)
	assert.Equal(t, docx.Font{Name: "Calibri", HalfPoints: 20}, header.Runs()[0].Font())

	body := doc.Paragraphs()[0]
	require.Len(t, body.Runs(), 1)
	assert.Equal(t, docx.DefaultFont, body.Runs()[0].Font())
}

func TestReplaceInline_Absent(t *testing.T) {
	doc := open(t, docxtest.New().Text("plain"))
	assert.False(t, ReplaceInline(doc, "{{CALENDAR_DATE}}", "15.01.24"))
}
