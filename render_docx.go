package docmorph

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/docmorph/docmorph/internal/ooxml"
)

const xmlProlog = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

var docxContentTypes = xmlProlog + fmt.Sprintf(
	`<Types xmlns=%q>`+
		`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`+
		`<Default Extension="xml" ContentType="application/xml"/>`+
		`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>`+
		`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>`+
		`<Override PartName="/word/numbering.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml"/>`+
		`</Types>`, ooxml.NSContentTypes)

var docxPackageRels = xmlProlog + fmt.Sprintf(
	`<Relationships xmlns=%q>`+
		`<Relationship Id="rId1" Type=%q Target="word/document.xml"/>`+
		`</Relationships>`,
	ooxml.NSRelationships, ooxml.NSRelDoc+"/officeDocument")

var docxDocumentRels = xmlProlog + fmt.Sprintf(
	`<Relationships xmlns=%q>`+
		`<Relationship Id="rId1" Type=%q Target="styles.xml"/>`+
		`<Relationship Id="rId2" Type=%q Target="numbering.xml"/>`+
		`</Relationships>`,
	ooxml.NSRelationships, ooxml.NSRelDoc+"/styles", ooxml.NSRelDoc+"/numbering")

// One A4 section with uniform one-inch margins closes the body.
const docxSectPr = `<w:sectPr><w:pgSz w:w="11906" w:h="16838"/>` +
	`<w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440" w:header="720" w:footer="720" w:gutter="0"/></w:sectPr>`

// A thematic break renders as an empty paragraph with a bottom border.
const docxRuleParagraph = `<w:p><w:pPr><w:pBdr>` +
	`<w:bottom w:val="single" w:sz="8" w:space="1" w:color="BFBFBF"/>` +
	`</w:pBdr></w:pPr></w:p>`

// renderDocx builds a complete OOXML package from the document model. No
// template file is involved: styles and the two numbering definitions are
// registered up front and every body element references them.
func renderDocx(blocks []Block) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	parts := []struct {
		name string
		data string
	}{
		{"[Content_Types].xml", docxContentTypes},
		{"_rels/.rels", docxPackageRels},
		{"word/_rels/document.xml.rels", docxDocumentRels},
		{"word/document.xml", buildDocumentXML(blocks)},
		{"word/styles.xml", buildStylesXML()},
		{"word/numbering.xml", buildNumberingXML()},
	}

	for _, part := range parts {
		w, err := zw.Create(part.name)
		if err != nil {
			return nil, &RenderError{Format: "docx", Err: err}
		}
		if _, err := w.Write([]byte(part.data)); err != nil {
			return nil, &RenderError{Format: "docx", Err: err}
		}
	}
	if err := zw.Close(); err != nil {
		return nil, &RenderError{Format: "docx", Err: err}
	}
	return buf.Bytes(), nil
}

func buildDocumentXML(blocks []Block) string {
	var b strings.Builder
	b.WriteString(xmlProlog)
	fmt.Fprintf(&b, "<w:document xmlns:w=%q><w:body>", ooxml.NSWordprocessingML)
	writeBlocksXML(&b, blocks, docxContext{})
	b.WriteString(docxSectPr)
	b.WriteString("</w:body></w:document>")
	return b.String()
}

// docxContext carries block-level rendering state down the tree.
type docxContext struct {
	quoted bool
}

// runProps are the formatting flags accumulated while descending inline
// nodes.
type runProps struct {
	bold   bool
	italic bool
	strike bool
	code   bool
}

// listNumbering references one of the two registered numbering definitions.
type listNumbering struct {
	numID int
	level int
}

func writeBlocksXML(b *strings.Builder, blocks []Block, ctx docxContext) {
	for _, blk := range blocks {
		switch n := blk.(type) {
		case Heading:
			writeHeadingXML(b, n)
		case Paragraph:
			writeParagraphXML(b, n.Inlines, ctx, nil)
		case List:
			writeListXML(b, n, ctx)
		case Quote:
			writeBlocksXML(b, n.Blocks, docxContext{quoted: true})
		case CodeBlock:
			writeCodeBlockXML(b, n)
		case ThematicBreak:
			b.WriteString(docxRuleParagraph)
		case Table:
			writeTableXML(b, n)
		}
	}
}

func writeHeadingXML(b *strings.Builder, h Heading) {
	level := h.Level
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	b.WriteString(`<w:p><w:pPr><w:pStyle w:val="Heading` + strconv.Itoa(level) + `"/></w:pPr>`)
	writeInlinesXML(b, h.Inlines, runProps{})
	b.WriteString("</w:p>")
}

func writeParagraphXML(b *strings.Builder, inlines []Inline, ctx docxContext, num *listNumbering) {
	b.WriteString("<w:p>")

	var ppr strings.Builder
	if num != nil {
		level := num.level
		if level > 8 {
			level = 8
		}
		fmt.Fprintf(&ppr, `<w:numPr><w:ilvl w:val="%d"/><w:numId w:val="%d"/></w:numPr>`, level, num.numID)
	}
	if ctx.quoted {
		ppr.WriteString(`<w:ind w:left="720"/>`)
	}
	if ppr.Len() > 0 {
		b.WriteString("<w:pPr>" + ppr.String() + "</w:pPr>")
	}

	writeInlinesXML(b, inlines, runProps{italic: ctx.quoted})
	b.WriteString("</w:p>")
}

func writeListXML(b *strings.Builder, l List, ctx docxContext) {
	numID := docxBulletNumID
	if l.Ordered {
		numID = docxOrderedNumID
	}
	for _, item := range l.Items {
		rest := item
		if len(item) > 0 {
			if p, ok := item[0].(Paragraph); ok {
				writeParagraphXML(b, p.Inlines, ctx, &listNumbering{numID: numID, level: l.Level})
				rest = item[1:]
			}
		}
		if len(rest) > 0 {
			writeBlocksXML(b, rest, ctx)
		}
	}
}

func writeCodeBlockXML(b *strings.Builder, c CodeBlock) {
	b.WriteString(`<w:p><w:pPr><w:shd w:val="clear" w:color="auto" w:fill="F2F2F2"/></w:pPr>`)
	for i, line := range c.Lines {
		if i > 0 {
			b.WriteString("<w:r><w:br/></w:r>")
		}
		b.WriteString(`<w:r><w:rPr><w:rFonts w:ascii="Consolas" w:hAnsi="Consolas"/><w:sz w:val="20"/></w:rPr>`)
		b.WriteString(`<w:t xml:space="preserve">`)
		b.WriteString(ooxml.EscapeText(line))
		b.WriteString("</w:t></w:r>")
	}
	b.WriteString("</w:p>")
}

func writeTableXML(b *strings.Builder, t Table) {
	if len(t.Rows) == 0 || t.Columns == 0 {
		return
	}

	b.WriteString(`<w:tbl><w:tblPr><w:tblW w:w="5000" w:type="pct"/><w:tblBorders>`)
	for _, edge := range []string{"top", "left", "bottom", "right", "insideH", "insideV"} {
		fmt.Fprintf(b, `<w:%s w:val="single" w:sz="4" w:space="0" w:color="auto"/>`, edge)
	}
	b.WriteString(`</w:tblBorders></w:tblPr><w:tblGrid>`)

	colW := 9026 / t.Columns
	for i := 0; i < t.Columns; i++ {
		fmt.Fprintf(b, `<w:gridCol w:w="%d"/>`, colW)
	}
	b.WriteString("</w:tblGrid>")

	for i, cells := range t.Rows {
		header := t.HeaderRow && i == 0
		b.WriteString("<w:tr>")
		for _, cell := range cells {
			b.WriteString("<w:tc><w:tcPr>")
			fmt.Fprintf(b, `<w:tcW w:w="%d" w:type="dxa"/>`, colW)
			if header {
				b.WriteString(`<w:shd w:val="clear" w:color="auto" w:fill="D9D9D9"/>`)
			}
			b.WriteString("</w:tcPr><w:p>")
			writeRunXML(b, cell, runProps{bold: header})
			b.WriteString("</w:p></w:tc>")
		}
		b.WriteString("</w:tr>")
	}
	b.WriteString("</w:tbl>")

	// Word wants a paragraph between a table and whatever follows it
	b.WriteString("<w:p/>")
}

func writeInlinesXML(b *strings.Builder, inlines []Inline, props runProps) {
	for _, in := range inlines {
		switch n := in.(type) {
		case Text:
			writeRunXML(b, n.Value, props)
		case Emphasis:
			p := props
			if n.Strong {
				p.bold = true
			}
			if n.Italic {
				p.italic = true
			}
			writeInlinesXML(b, n.Children, p)
		case Strikethrough:
			p := props
			p.strike = true
			writeInlinesXML(b, n.Children, p)
		case Code:
			p := props
			p.code = true
			writeRunXML(b, n.Value, p)
		case Link:
			writeInlinesXML(b, n.Text, props)
		case LineBreak:
			b.WriteString("<w:r><w:br/></w:r>")
		}
	}
}

func writeRunXML(b *strings.Builder, text string, p runProps) {
	if text == "" {
		return
	}
	b.WriteString("<w:r>")

	var rpr strings.Builder
	if p.code {
		rpr.WriteString(`<w:rStyle w:val="CodeChar"/>`)
	}
	if p.bold {
		rpr.WriteString("<w:b/>")
	}
	if p.italic {
		rpr.WriteString("<w:i/>")
	}
	if p.strike {
		rpr.WriteString("<w:strike/>")
	}
	if rpr.Len() > 0 {
		b.WriteString("<w:rPr>" + rpr.String() + "</w:rPr>")
	}

	b.WriteString(`<w:t xml:space="preserve">`)
	b.WriteString(ooxml.EscapeText(text))
	b.WriteString("</w:t></w:r>")
}

// Numbering ids registered in word/numbering.xml.
const (
	docxBulletNumID  = 1
	docxOrderedNumID = 2
)

// headingHalfPoints are the Heading1-6 font sizes in half-points.
var headingHalfPoints = []int{32, 26, 24, 22, 20, 18}

func buildStylesXML() string {
	var b strings.Builder
	b.WriteString(xmlProlog)
	fmt.Fprintf(&b, "<w:styles xmlns:w=%q>", ooxml.NSWordprocessingML)

	b.WriteString(`<w:style w:type="paragraph" w:default="1" w:styleId="Normal">` +
		`<w:name w:val="Normal"/>` +
		`<w:rPr><w:rFonts w:ascii="Calibri" w:hAnsi="Calibri"/><w:sz w:val="22"/></w:rPr>` +
		`</w:style>`)

	for i, size := range headingHalfPoints {
		level := i + 1
		color := "2F5496"
		if level > 2 {
			color = "1F3864"
		}
		fmt.Fprintf(&b, `<w:style w:type="paragraph" w:styleId="Heading%d">`+
			`<w:name w:val="heading %d"/><w:basedOn w:val="Normal"/>`+
			`<w:pPr><w:spacing w:before="240" w:after="120"/><w:outlineLvl w:val="%d"/></w:pPr>`+
			`<w:rPr><w:b/><w:color w:val=%q/><w:sz w:val="%d"/></w:rPr>`+
			`</w:style>`, level, level, level-1, color, size)
	}

	b.WriteString(`<w:style w:type="character" w:styleId="CodeChar">` +
		`<w:name w:val="Code Char"/>` +
		`<w:rPr><w:rFonts w:ascii="Consolas" w:hAnsi="Consolas"/>` +
		`<w:shd w:val="clear" w:color="auto" w:fill="F2F2F2"/></w:rPr>` +
		`</w:style>`)

	b.WriteString("</w:styles>")
	return b.String()
}

func buildNumberingXML() string {
	var b strings.Builder
	b.WriteString(xmlProlog)
	fmt.Fprintf(&b, "<w:numbering xmlns:w=%q>", ooxml.NSWordprocessingML)

	bulletGlyphs := []string{"•", "◦", "▪"}
	b.WriteString(`<w:abstractNum w:abstractNumId="0">`)
	for i := 0; i < 9; i++ {
		fmt.Fprintf(&b, `<w:lvl w:ilvl="%d"><w:start w:val="1"/>`+
			`<w:numFmt w:val="bullet"/><w:lvlText w:val=%q/><w:lvlJc w:val="left"/>`+
			`<w:pPr><w:ind w:left="%d" w:hanging="360"/></w:pPr></w:lvl>`,
			i, bulletGlyphs[i%3], 720*(i+1))
	}
	b.WriteString(`</w:abstractNum>`)

	orderedFormats := []string{"decimal", "lowerLetter", "lowerRoman"}
	b.WriteString(`<w:abstractNum w:abstractNumId="1">`)
	for i := 0; i < 9; i++ {
		fmt.Fprintf(&b, `<w:lvl w:ilvl="%d"><w:start w:val="1"/>`+
			`<w:numFmt w:val=%q/><w:lvlText w:val="%%%d."/><w:lvlJc w:val="left"/>`+
			`<w:pPr><w:ind w:left="%d" w:hanging="360"/></w:pPr></w:lvl>`,
			i, orderedFormats[i%3], i+1, 720*(i+1))
	}
	b.WriteString(`</w:abstractNum>`)

	fmt.Fprintf(&b, `<w:num w:numId="%d"><w:abstractNumId w:val="0"/></w:num>`, docxBulletNumID)
	fmt.Fprintf(&b, `<w:num w:numId="%d"><w:abstractNumId w:val="1"/></w:num>`, docxOrderedNumID)

	b.WriteString("</w:numbering>")
	return b.String()
}
