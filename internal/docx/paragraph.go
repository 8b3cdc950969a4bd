package docx

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// Font is a run font. HalfPoints follows the w:sz convention, so 22 is 11pt.
type Font struct {
	Name       string
	HalfPoints int
}

// DefaultFont is used when a paragraph has no run to copy formatting from.
var DefaultFont = Font{Name: "Arial", HalfPoints: 22}

// Or fills the zero fields of f from fallback.
func (f Font) Or(fallback Font) Font {
	if f.Name == "" {
		f.Name = fallback.Name
	}
	if f.HalfPoints == 0 {
		f.HalfPoints = fallback.HalfPoints
	}
	return f
}

// Align is a paragraph justification value.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
)

// RunProps describes the formatting of a new run. Zero fields are omitted.
type RunProps struct {
	Font  Font
	Bold  *bool
	Color string
}

// Paragraph is a w:p element.
type Paragraph struct {
	el *etree.Element
}

// Text returns the concatenated text of the paragraph's runs, including
// runs nested in hyperlinks.
func (p Paragraph) Text() string {
	var sb strings.Builder
	for _, r := range p.Runs() {
		sb.WriteString(r.Text())
	}
	return sb.String()
}

// Runs returns the paragraph's runs in order.
func (p Paragraph) Runs() []Run {
	var out []Run
	for _, ch := range p.el.ChildElements() {
		switch {
		case isW(ch, "r"):
			out = append(out, Run{el: ch})
		case isW(ch, "hyperlink"):
			for _, r := range ch.SelectElements("w:r") {
				out = append(out, Run{el: r})
			}
		}
	}
	return out
}

// Font returns the font of the first direct run. Fields the run does not
// set are zero; a paragraph without runs yields DefaultFont.
func (p Paragraph) Font() Font {
	runs := p.el.SelectElements("w:r")
	if len(runs) == 0 {
		return DefaultFont
	}
	return Run{el: runs[0]}.Font()
}

// Clear removes all content except the paragraph properties.
func (p Paragraph) Clear() {
	for i := len(p.el.Child) - 1; i >= 0; i-- {
		if el, ok := p.el.Child[i].(*etree.Element); ok && isW(el, "pPr") {
			continue
		}
		p.el.RemoveChildAt(i)
	}
}

// AddRun appends a run holding text.
func (p Paragraph) AddRun(text string, props RunProps) Run {
	r := Run{el: p.el.CreateElement("w:r")}
	if props.Font.Name != "" {
		fonts := r.props().CreateElement("w:rFonts")
		fonts.CreateAttr("w:ascii", props.Font.Name)
		fonts.CreateAttr("w:hAnsi", props.Font.Name)
	}
	if props.Bold != nil {
		b := r.props().CreateElement("w:b")
		if !*props.Bold {
			b.CreateAttr("w:val", "0")
		}
	}
	if props.Color != "" {
		r.SetColor(props.Color)
	}
	if props.Font.HalfPoints > 0 {
		r.props().CreateElement("w:sz").CreateAttr("w:val", strconv.Itoa(props.Font.HalfPoints))
	}
	r.SetText(text)
	return r
}

// SetAlignment sets the paragraph justification.
func (p Paragraph) SetAlignment(a Align) {
	ppr := p.el.SelectElement("w:pPr")
	if ppr == nil {
		ppr = etree.NewElement("w:pPr")
		p.el.InsertChildAt(0, ppr)
	}
	jc := ppr.SelectElement("w:jc")
	if jc == nil {
		jc = etree.NewElement("w:jc")
		insertOrdered(ppr, jc, pPrAfterJc)
	}
	jc.CreateAttr("w:val", string(a))
}

// Alignment returns the paragraph justification, or "" when unset.
func (p Paragraph) Alignment() Align {
	if jc := p.el.FindElement("w:pPr/w:jc"); jc != nil {
		return Align(jc.SelectAttrValue("w:val", ""))
	}
	return ""
}

func (p Paragraph) insertAfter() Paragraph {
	np := etree.NewElement("w:p")
	parent := p.el.Parent()
	parent.InsertChildAt(p.el.Index()+1, np)
	return Paragraph{el: np}
}

// Run is a w:r element.
type Run struct {
	el *etree.Element
}

// Text returns the run text. Tabs and breaks are rendered as \t and \n.
func (r Run) Text() string {
	var sb strings.Builder
	for _, ch := range r.el.ChildElements() {
		switch {
		case isW(ch, "t"):
			sb.WriteString(ch.Text())
		case isW(ch, "tab"):
			sb.WriteByte('\t')
		case isW(ch, "br"), isW(ch, "cr"):
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// SetText replaces the run content with text, keeping its properties.
func (r Run) SetText(text string) {
	for i := len(r.el.Child) - 1; i >= 0; i-- {
		if el, ok := r.el.Child[i].(*etree.Element); ok && isW(el, "rPr") {
			continue
		}
		r.el.RemoveChildAt(i)
	}
	if text == "" {
		return
	}
	t := r.el.CreateElement("w:t")
	t.CreateAttr("xml:space", "preserve")
	t.SetText(text)
}

// Font returns the run's ASCII font family and size.
func (r Run) Font() Font {
	var f Font
	rpr := r.el.SelectElement("w:rPr")
	if rpr == nil {
		return f
	}
	if fonts := rpr.SelectElement("w:rFonts"); fonts != nil {
		f.Name = fonts.SelectAttrValue("w:ascii", "")
	}
	if sz := rpr.SelectElement("w:sz"); sz != nil {
		f.HalfPoints, _ = strconv.Atoi(sz.SelectAttrValue("w:val", ""))
	}
	return f
}

// Bold reports whether the run sets bold on.
func (r Run) Bold() bool {
	b := r.el.FindElement("w:rPr/w:b")
	if b == nil {
		return false
	}
	switch b.SelectAttrValue("w:val", "true") {
	case "0", "false", "off":
		return false
	}
	return true
}

// Color returns the run's RGB color, or "" when unset.
func (r Run) Color() string {
	if c := r.el.FindElement("w:rPr/w:color"); c != nil {
		return c.SelectAttrValue("w:val", "")
	}
	return ""
}

// SetColor sets the run's RGB color. An empty value removes it.
func (r Run) SetColor(rgb string) {
	rpr := r.el.SelectElement("w:rPr")
	if rgb == "" {
		if rpr != nil {
			if c := rpr.SelectElement("w:color"); c != nil {
				rpr.RemoveChild(c)
			}
		}
		return
	}
	rpr = r.props()
	c := rpr.SelectElement("w:color")
	if c == nil {
		c = etree.NewElement("w:color")
		insertOrdered(rpr, c, rPrAfterColor)
	}
	c.CreateAttr("w:val", rgb)
}

func (r Run) props() *etree.Element {
	if rpr := r.el.SelectElement("w:rPr"); rpr != nil {
		return rpr
	}
	rpr := etree.NewElement("w:rPr")
	r.el.InsertChildAt(0, rpr)
	return rpr
}

// Elements that must follow w:jc inside w:pPr and w:color inside w:rPr.
var (
	pPrAfterJc = []string{
		"textDirection", "textAlignment", "textboxTightWrap", "outlineLvl",
		"divId", "cnfStyle", "rPr", "sectPr", "pPrChange",
	}
	rPrAfterColor = []string{
		"spacing", "w", "kern", "position", "sz", "szCs", "highlight", "u",
		"effect", "bdr", "shd", "fitText", "vertAlign", "rtl", "cs", "em",
		"lang", "eastAsianLayout", "specVanish", "oMath",
	}
)

// insertOrdered inserts child before the first existing sibling whose tag
// is listed in following, or appends it.
func insertOrdered(parent, child *etree.Element, following []string) {
	for _, ch := range parent.ChildElements() {
		for _, tag := range following {
			if isW(ch, tag) {
				parent.InsertChildAt(ch.Index(), child)
				return
			}
		}
	}
	parent.AddChild(child)
}

func isW(el *etree.Element, tag string) bool {
	return el.Space == "w" && el.Tag == tag
}

// Table is a w:tbl element.
type Table struct {
	el *etree.Element
}

// Rows returns the table rows.
func (t Table) Rows() []Row {
	var out []Row
	for _, tr := range t.el.SelectElements("w:tr") {
		out = append(out, Row{el: tr})
	}
	return out
}

// Row is a w:tr element.
type Row struct {
	el *etree.Element
}

// Cells returns the cells of the row.
func (r Row) Cells() []Cell {
	var out []Cell
	for _, tc := range r.el.SelectElements("w:tc") {
		out = append(out, Cell{el: tc})
	}
	return out
}

// Cell returns the i-th cell and whether it exists.
func (r Row) Cell(i int) (Cell, bool) {
	cells := r.Cells()
	if i < 0 || i >= len(cells) {
		return Cell{}, false
	}
	return cells[i], true
}

// Cell is a w:tc element.
type Cell struct {
	el *etree.Element
}

// Paragraphs returns the paragraphs of the cell.
func (c Cell) Paragraphs() []Paragraph {
	var out []Paragraph
	for _, p := range c.el.SelectElements("w:p") {
		out = append(out, Paragraph{el: p})
	}
	return out
}

// Text returns the cell paragraphs' text joined by newlines.
func (c Cell) Text() string {
	paras := c.Paragraphs()
	texts := make([]string, len(paras))
	for i, p := range paras {
		texts[i] = p.Text()
	}
	return strings.Join(texts, "\n")
}

// SetText writes text into the first run of the first paragraph, blanks
// every other run of that paragraph and sets the run color. Missing
// paragraphs and runs are created. An empty color clears it.
func (c Cell) SetText(text, color string) {
	paras := c.Paragraphs()
	var p Paragraph
	if len(paras) == 0 {
		p = Paragraph{el: c.el.CreateElement("w:p")}
	} else {
		p = paras[0]
	}

	var first *Run
	for _, r := range p.Runs() {
		if first == nil {
			r := r
			first = &r
			continue
		}
		r.SetText("")
	}
	if first == nil {
		r := p.AddRun("", RunProps{})
		first = &r
	}
	first.SetText(text)
	first.SetColor(color)
}
