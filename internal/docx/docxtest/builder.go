// Package docxtest builds small .docx packages in memory for tests.
package docxtest

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strconv"
	"testing"

	"github.com/beevik/etree"
)

const (
	nsW = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"

	contentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
<Override PartName="/word/header1.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.header+xml"/>
<Override PartName="/word/footer1.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.footer+xml"/>
</Types>`

	packageRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`
)

// Run is the text and optional font of one run.
type Run struct {
	Text       string
	Font       string
	HalfPoints int
	Color      string
}

// Builder accumulates body content, one optional header and one optional footer.
type Builder struct {
	body   []func(parent *etree.Element)
	header [][]Run
	footer [][]Run
}

// New returns an empty builder.
func New() *Builder {
	return &Builder{}
}

// Paragraph appends a body paragraph made of runs.
func (b *Builder) Paragraph(runs ...Run) *Builder {
	b.body = append(b.body, func(parent *etree.Element) { writeParagraph(parent, runs) })
	return b
}

// Text appends a body paragraph holding one unformatted run per argument.
func (b *Builder) Text(texts ...string) *Builder {
	return b.Paragraph(plain(texts)...)
}

// Table appends a table; every cell holds one paragraph with one run per row value.
func (b *Builder) Table(rows ...[]string) *Builder {
	b.body = append(b.body, func(parent *etree.Element) {
		tbl := parent.CreateElement("w:tbl")
		for _, row := range rows {
			tr := tbl.CreateElement("w:tr")
			for _, value := range row {
				tc := tr.CreateElement("w:tc")
				var runs []Run
				if value != "" {
					runs = []Run{{Text: value}}
				}
				writeParagraph(tc, runs)
			}
		}
	})
	return b
}

// TableRuns appends a single-row table whose cells hold the given runs.
func (b *Builder) TableRuns(cells ...[]Run) *Builder {
	b.body = append(b.body, func(parent *etree.Element) {
		tr := parent.CreateElement("w:tbl").CreateElement("w:tr")
		for _, runs := range cells {
			writeParagraph(tr.CreateElement("w:tc"), runs)
		}
	})
	return b
}

// Header adds a header paragraph.
func (b *Builder) Header(runs ...Run) *Builder {
	b.header = append(b.header, runs)
	return b
}

// Footer adds a footer paragraph.
func (b *Builder) Footer(runs ...Run) *Builder {
	b.footer = append(b.footer, runs)
	return b
}

// Build serializes the package, failing the test on error.
func (b *Builder) Build(tb testing.TB) []byte {
	tb.Helper()
	data, err := b.Bytes()
	if err != nil {
		tb.Fatalf("build docx: %v", err)
	}
	return data
}

// Bytes serializes the package.
func (b *Builder) Bytes() ([]byte, error) {
	files := map[string][]byte{
		"[Content_Types].xml": []byte(contentTypes),
		"_rels/.rels":         []byte(packageRels),
	}

	rels := etree.NewDocument()
	rels.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	relsRoot := rels.CreateElement("Relationships")
	relsRoot.CreateAttr("xmlns", "http://schemas.openxmlformats.org/package/2006/relationships")

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	root := doc.CreateElement("w:document")
	root.CreateAttr("xmlns:w", nsW)
	root.CreateAttr("xmlns:r", nsR)
	body := root.CreateElement("w:body")
	for _, write := range b.body {
		write(body)
	}
	sect := body.CreateElement("w:sectPr")

	parts := []struct {
		name, tag, ref, relType string
		paras                   [][]Run
	}{
		{"header1.xml", "w:hdr", "w:headerReference", "header", b.header},
		{"footer1.xml", "w:ftr", "w:footerReference", "footer", b.footer},
	}
	for i, part := range parts {
		if len(part.paras) == 0 {
			continue
		}
		id := "rId" + strconv.Itoa(i+10)
		ref := sect.CreateElement(part.ref)
		ref.CreateAttr("w:type", "default")
		ref.CreateAttr("r:id", id)

		rel := relsRoot.CreateElement("Relationship")
		rel.CreateAttr("Id", id)
		rel.CreateAttr("Type", "http://schemas.openxmlformats.org/officeDocument/2006/relationships/"+part.relType)
		rel.CreateAttr("Target", part.name)

		hf := etree.NewDocument()
		hf.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
		hfRoot := hf.CreateElement(part.tag)
		hfRoot.CreateAttr("xmlns:w", nsW)
		hfRoot.CreateAttr("xmlns:r", nsR)
		for _, runs := range part.paras {
			writeParagraph(hfRoot, runs)
		}
		data, err := hf.WriteToBytes()
		if err != nil {
			return nil, fmt.Errorf("serialize %s: %w", part.name, err)
		}
		files["word/"+part.name] = data
	}

	docData, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("serialize document: %w", err)
	}
	files["word/document.xml"] = docData
	relsData, err := rels.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("serialize relationships: %w", err)
	}
	files["word/_rels/document.xml.rels"] = relsData

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range []string{
		"[Content_Types].xml", "_rels/.rels", "word/document.xml",
		"word/_rels/document.xml.rels", "word/header1.xml", "word/footer1.xml",
	} {
		data, ok := files[name]
		if !ok {
			continue
		}
		w, err := zw.Create(name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(data); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func plain(texts []string) []Run {
	runs := make([]Run, len(texts))
	for i, t := range texts {
		runs[i] = Run{Text: t}
	}
	return runs
}

func writeParagraph(parent *etree.Element, runs []Run) {
	p := parent.CreateElement("w:p")
	for _, run := range runs {
		r := p.CreateElement("w:r")
		if run.Font != "" || run.HalfPoints > 0 || run.Color != "" {
			rpr := r.CreateElement("w:rPr")
			if run.Font != "" {
				fonts := rpr.CreateElement("w:rFonts")
				fonts.CreateAttr("w:ascii", run.Font)
				fonts.CreateAttr("w:hAnsi", run.Font)
			}
			if run.Color != "" {
				rpr.CreateElement("w:color").CreateAttr("w:val", run.Color)
			}
			if run.HalfPoints > 0 {
				rpr.CreateElement("w:sz").CreateAttr("w:val", strconv.Itoa(run.HalfPoints))
			}
		}
		t := r.CreateElement("w:t")
		t.CreateAttr("xml:space", "preserve")
		t.SetText(run.Text)
	}
}
