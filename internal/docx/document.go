package docx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/beevik/etree"
)

const (
	mainPart = "word/document.xml"
	relsPart = "word/_rels/document.xml.rels"
)

// ErrNotDocx is returned when the archive has no main document part.
var ErrNotDocx = errors.New("not a word processing document")

type entry struct {
	header zip.FileHeader
	data   []byte
}

// Document is an opened .docx package. The main document part and every
// header and footer part referenced by a section are parsed; all other
// parts are carried through unchanged.
type Document struct {
	entries []entry
	parts   map[string]*etree.Document
	body    *etree.Element
	// header and footer part names in section order
	hdrftr []string
}

// OpenFile reads and opens the .docx at path.
func OpenFile(name string) (*Document, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return Open(data)
}

// Open parses a .docx package held in memory.
func Open(data []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open docx archive: %w", err)
	}

	d := &Document{parts: make(map[string]*etree.Document)}
	raw := make(map[string][]byte, len(zr.File))
	for _, f := range zr.File {
		b, err := readZipFile(f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Name, err)
		}
		d.entries = append(d.entries, entry{header: f.FileHeader, data: b})
		raw[f.Name] = b
	}

	mainXML, ok := raw[mainPart]
	if !ok {
		return nil, ErrNotDocx
	}
	main, err := parsePart(mainPart, mainXML)
	if err != nil {
		return nil, err
	}
	d.parts[mainPart] = main

	root := main.Root()
	if root == nil {
		return nil, ErrNotDocx
	}
	d.body = root.SelectElement("w:body")
	if d.body == nil {
		return nil, fmt.Errorf("%w: missing body", ErrNotDocx)
	}

	targets, err := relationshipTargets(raw[relsPart])
	if err != nil {
		return nil, err
	}
	for _, name := range d.sectionParts(targets) {
		b, ok := raw[name]
		if !ok {
			continue
		}
		part, err := parsePart(name, b)
		if err != nil {
			return nil, err
		}
		d.parts[name] = part
		d.hdrftr = append(d.hdrftr, name)
	}
	return d, nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func parsePart(name string, data []byte) (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return doc, nil
}

// relationshipTargets maps relationship ids of the main part to package part names.
func relationshipTargets(data []byte) (map[string]string, error) {
	out := make(map[string]string)
	if len(data) == 0 {
		return out, nil
	}
	doc, err := parsePart(relsPart, data)
	if err != nil {
		return nil, err
	}
	root := doc.Root()
	if root == nil {
		return out, nil
	}
	for _, rel := range root.SelectElements("Relationship") {
		if rel.SelectAttrValue("TargetMode", "") == "External" {
			continue
		}
		target := rel.SelectAttrValue("Target", "")
		if strings.HasPrefix(target, "/") {
			target = strings.TrimPrefix(target, "/")
		} else {
			target = path.Join("word", target)
		}
		out[rel.SelectAttrValue("Id", "")] = target
	}
	return out, nil
}

// sectionParts lists the default header and footer of every section in
// document order. A section without its own definition inherits the one of
// the previous section.
func (d *Document) sectionParts(targets map[string]string) []string {
	var sections []*etree.Element
	for _, p := range d.body.SelectElements("w:p") {
		if ppr := p.SelectElement("w:pPr"); ppr != nil {
			if s := ppr.SelectElement("w:sectPr"); s != nil {
				sections = append(sections, s)
			}
		}
	}
	if s := d.body.SelectElement("w:sectPr"); s != nil {
		sections = append(sections, s)
	}

	var (
		out        []string
		seen       = make(map[string]bool)
		prevHeader string
		prevFooter string
	)
	for _, s := range sections {
		header := defaultReference(s, "w:headerReference", targets)
		if header == "" {
			header = prevHeader
		}
		footer := defaultReference(s, "w:footerReference", targets)
		if footer == "" {
			footer = prevFooter
		}
		for _, name := range []string{header, footer} {
			if name != "" && !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
		prevHeader, prevFooter = header, footer
	}
	return out
}

func defaultReference(sectPr *etree.Element, tag string, targets map[string]string) string {
	for _, ref := range sectPr.SelectElements(tag) {
		if ref.SelectAttrValue("w:type", "default") != "default" {
			continue
		}
		return targets[ref.SelectAttrValue("r:id", "")]
	}
	return ""
}

// Paragraphs returns every paragraph in traversal order: body paragraphs,
// then the cell paragraphs of top-level tables row by row, then the
// paragraphs of each section header and footer.
func (d *Document) Paragraphs() []Paragraph {
	var out []Paragraph
	for _, p := range d.body.SelectElements("w:p") {
		out = append(out, Paragraph{el: p})
	}
	for _, t := range d.Tables() {
		for _, row := range t.Rows() {
			for _, cell := range row.Cells() {
				out = append(out, cell.Paragraphs()...)
			}
		}
	}
	for _, name := range d.hdrftr {
		root := d.parts[name].Root()
		if root == nil {
			continue
		}
		for _, p := range root.SelectElements("w:p") {
			out = append(out, Paragraph{el: p})
		}
	}
	return out
}

// FindAll returns the paragraphs for which match reports true, in traversal order.
func (d *Document) FindAll(match func(Paragraph) bool) []Paragraph {
	var out []Paragraph
	for _, p := range d.Paragraphs() {
		if match(p) {
			out = append(out, p)
		}
	}
	return out
}

// InsertAfter inserts an empty paragraph directly after p in the same
// container and returns it.
func (d *Document) InsertAfter(p Paragraph) Paragraph {
	return p.insertAfter()
}

// ReplaceText clears p and writes text as a single run with the given font.
func (d *Document) ReplaceText(p Paragraph, text string, font Font) {
	p.Clear()
	p.AddRun(text, RunProps{Font: font})
}

// Tables returns the top-level tables of the body.
func (d *Document) Tables() []Table {
	var out []Table
	for _, t := range d.body.SelectElements("w:tbl") {
		out = append(out, Table{el: t})
	}
	return out
}

// Bytes serializes the package. Parsed parts are written from their
// current tree, all other parts byte for byte.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTo writes the package as a zip archive to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	zw := zip.NewWriter(cw)
	for _, e := range d.entries {
		data := e.data
		if part, ok := d.parts[e.header.Name]; ok {
			b, err := part.WriteToBytes()
			if err != nil {
				return cw.n, fmt.Errorf("serialize %s: %w", e.header.Name, err)
			}
			data = b
		}
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     e.header.Name,
			Method:   zip.Deflate,
			Modified: e.header.Modified,
		})
		if err != nil {
			return cw.n, fmt.Errorf("create %s: %w", e.header.Name, err)
		}
		if _, err := fw.Write(data); err != nil {
			return cw.n, fmt.Errorf("write %s: %w", e.header.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return cw.n, fmt.Errorf("close archive: %w", err)
	}
	return cw.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
