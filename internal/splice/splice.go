// Package splice replaces placeholder tokens in a word processing content tree.
package splice

import (
	"strings"

	"econcal/internal/calendar"
	"econcal/internal/docx"
)

// Tree is the view of a document that the splicer edits.
type Tree interface {
	FindAll(match func(docx.Paragraph) bool) []docx.Paragraph
	InsertAfter(p docx.Paragraph) docx.Paragraph
	ReplaceText(p docx.Paragraph, text string, font docx.Font)
}

// headingFont is applied to weekday headings regardless of the template.
var headingFont = docx.Font{Name: "Arial", HalfPoints: 22}

func containing(token string) func(docx.Paragraph) bool {
	return func(p docx.Paragraph) bool {
		return strings.Contains(p.Text(), token)
	}
}

// ReplacePlaceholder replaces the first paragraph containing token with
// content, one paragraph per line. The first line reuses the matched
// paragraph; every further line gets a new paragraph after the previous one.
// Weekday headings are centered bold Arial 11; other lines are left aligned
// in the font of the matched paragraph's first run. It reports whether the
// token was found.
func ReplacePlaceholder(tree Tree, token, content string) bool {
	matches := tree.FindAll(containing(token))
	if len(matches) == 0 {
		return false
	}
	p := matches[0]
	font := p.Font().Or(docx.DefaultFont)
	p.Clear()

	lines := strings.Split(content, "\n")
	formatLine(p, lines[0], font)
	current := p
	for _, line := range lines[1:] {
		current = tree.InsertAfter(current)
		formatLine(current, line, font)
	}
	return true
}

func formatLine(p docx.Paragraph, line string, font docx.Font) {
	if calendar.IsDayHeading(line) {
		bold := true
		p.SetAlignment(docx.AlignCenter)
		p.AddRun(line, docx.RunProps{Font: headingFont, Bold: &bold})
		return
	}
	bold := false
	p.SetAlignment(docx.AlignLeft)
	p.AddRun(line, docx.RunProps{Font: font, Bold: &bold})
}

// ReplaceInline substitutes value for token inside every paragraph that
// contains it. Each rewritten paragraph keeps a single run in the font of its
// former first run. It reports whether any paragraph changed.
func ReplaceInline(tree Tree, token, value string) bool {
	matches := tree.FindAll(containing(token))
	for _, p := range matches {
		text := strings.ReplaceAll(p.Text(), token, value)
		tree.ReplaceText(p, text, p.Font().Or(docx.DefaultFont))
	}
	return len(matches) > 0
}
