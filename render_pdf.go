package docmorph

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"
)

const (
	pdfPageMargin  = 72.0
	pdfBodySize    = 12.0
	pdfLineHeight  = 17.0
	pdfListIndent  = 15.0
	pdfMarkerWidth = 18.0
	pdfMarkerGap   = 4.0
	pdfTableRowH   = 18.0
)

// headingFontSizes maps heading levels to point sizes; levels past 5 fall
// back to 11pt.
var headingFontSizes = map[int]float64{1: 24, 2: 20, 3: 16, 4: 14, 5: 12}

// renderPDF lays the document model out on A4 pages and returns the PDF
// bytes and the final page count.
func renderPDF(blocks []Block, title string) ([]byte, int, error) {
	pdf := fpdf.New("P", "pt", "A4", "")
	if title != "" {
		pdf.SetTitle(title, true)
	}
	pdf.SetMargins(pdfPageMargin, pdfPageMargin, pdfPageMargin)
	pdf.SetAutoPageBreak(true, pdfPageMargin)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-48)
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 12, fmt.Sprintf("Page %d / {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	r := &pdfRenderer{
		pdf: pdf,
		// Core fonts are cp1252; translate what we can represent
		tr: pdf.UnicodeTranslatorFromDescriptor(""),
	}
	r.renderBlocks(blocks)

	if pdf.Err() {
		return nil, 0, &RenderError{Format: "pdf", Err: pdf.Error()}
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, 0, &RenderError{Format: "pdf", Err: err}
	}
	return buf.Bytes(), pdf.PageCount(), nil
}

type pdfRenderer struct {
	pdf        *fpdf.Fpdf
	tr         func(string) string
	quoteDepth int
}

func (r *pdfRenderer) renderBlocks(blocks []Block) {
	for _, b := range blocks {
		switch blk := b.(type) {
		case Heading:
			r.heading(blk)
		case Paragraph:
			r.paragraph(blk)
		case List:
			r.list(blk)
		case Quote:
			r.quote(blk)
		case CodeBlock:
			r.codeBlock(blk)
		case ThematicBreak:
			r.rule()
		case Table:
			r.table(blk)
		}
	}
}

// bodyStyle selects the running text style; quoted content renders in
// muted italics.
func (r *pdfRenderer) bodyStyle() {
	if r.quoteDepth > 0 {
		r.pdf.SetFont("Helvetica", "I", pdfBodySize)
		r.pdf.SetTextColor(90, 90, 90)
	} else {
		r.pdf.SetFont("Helvetica", "", pdfBodySize)
		r.pdf.SetTextColor(0, 0, 0)
	}
}

func (r *pdfRenderer) heading(h Heading) {
	size, ok := headingFontSizes[h.Level]
	if !ok {
		size = 11
	}
	if h.Level <= 2 {
		r.pdf.Ln(8)
	}
	r.pdf.SetFont("Helvetica", "B", size)
	r.pdf.SetTextColor(0, 0, 0)
	r.pdf.MultiCell(0, size*1.3, r.tr(flattenInlines(h.Inlines)), "", "L", false)
	r.pdf.Ln(6)
}

func (r *pdfRenderer) paragraph(p Paragraph) {
	text := flattenInlines(p.Inlines)
	if strings.TrimSpace(text) == "" {
		return
	}
	r.bodyStyle()
	r.pdf.MultiCell(0, pdfLineHeight, r.tr(text), "", "L", false)
	r.pdf.Ln(8)
}

// listMarker formats one item marker: sequential "N." for ordered lists, a
// bullet otherwise.
func listMarker(ordered bool, n int) string {
	if ordered {
		return strconv.Itoa(n) + "."
	}
	return "•"
}

func (r *pdfRenderer) list(l List) {
	leftMargin, _, _, _ := r.pdf.GetMargins()
	indent := pdfListIndent * float64(l.Level)
	contentLeft := leftMargin + indent + pdfMarkerWidth + pdfMarkerGap

	counter := 0
	for _, item := range l.Items {
		counter++

		// The leading paragraph shares the marker line; everything after
		// it (nested lists included) renders below at its own indent.
		var lead string
		rest := item
		if len(item) > 0 {
			if p, ok := item[0].(Paragraph); ok {
				lead = flattenInlines(p.Inlines)
				rest = item[1:]
			}
		}

		r.bodyStyle()
		r.pdf.SetX(leftMargin + indent)
		r.pdf.CellFormat(pdfMarkerWidth, pdfLineHeight, r.tr(listMarker(l.Ordered, counter)), "", 0, "R", false, 0, "")
		r.pdf.SetLeftMargin(contentLeft)
		r.pdf.SetX(contentLeft)
		if lead == "" {
			lead = " "
		}
		r.pdf.MultiCell(0, pdfLineHeight, r.tr(lead), "", "L", false)
		r.pdf.SetLeftMargin(leftMargin)

		if len(rest) > 0 {
			r.renderBlocks(rest)
		}
	}
	if l.Level == 0 {
		r.pdf.Ln(6)
	}
}

func (r *pdfRenderer) quote(q Quote) {
	leftMargin, _, _, _ := r.pdf.GetMargins()
	startY := r.pdf.GetY()
	startPage := r.pdf.PageNo()

	r.quoteDepth++
	r.pdf.SetLeftMargin(leftMargin + 14)
	r.pdf.SetX(leftMargin + 14)
	r.renderBlocks(q.Blocks)
	r.quoteDepth--
	r.pdf.SetLeftMargin(leftMargin)

	// The border rule can only be drawn on the current page, so a quote
	// that crossed a page break goes without one.
	if r.pdf.PageNo() == startPage {
		endY := r.pdf.GetY()
		if endY > startY+2 {
			r.pdf.SetDrawColor(200, 200, 200)
			r.pdf.SetLineWidth(2)
			r.pdf.Line(leftMargin+4, startY+2, leftMargin+4, endY-2)
		}
	}
}

func (r *pdfRenderer) codeBlock(c CodeBlock) {
	r.pdf.SetFont("Courier", "", 10)
	r.pdf.SetTextColor(0, 0, 0)
	r.pdf.SetFillColor(242, 242, 242)
	for _, line := range c.Lines {
		if line == "" {
			line = " "
		}
		r.pdf.MultiCell(0, 14, r.tr(line), "", "L", true)
	}
	r.pdf.Ln(8)
}

func (r *pdfRenderer) rule() {
	pageW, _ := r.pdf.GetPageSize()
	leftMargin, _, rightMargin, _ := r.pdf.GetMargins()
	r.pdf.Ln(6)
	y := r.pdf.GetY()
	r.pdf.SetDrawColor(180, 180, 180)
	r.pdf.SetLineWidth(0.5)
	r.pdf.Line(leftMargin, y, pageW-rightMargin, y)
	r.pdf.Ln(12)
}

func (r *pdfRenderer) table(t Table) {
	if len(t.Rows) == 0 || t.Columns == 0 {
		return
	}
	pageW, _ := r.pdf.GetPageSize()
	leftMargin, _, rightMargin, _ := r.pdf.GetMargins()
	colW := (pageW - leftMargin - rightMargin) / float64(t.Columns)

	for i, cells := range t.Rows {
		header := t.HeaderRow && i == 0
		if header {
			r.pdf.SetFont("Helvetica", "B", 11)
			r.pdf.SetFillColor(217, 217, 217)
		} else {
			r.pdf.SetFont("Helvetica", "", 11)
		}
		r.pdf.SetTextColor(0, 0, 0)
		for _, cell := range cells {
			r.pdf.CellFormat(colW, pdfTableRowH, r.tr(cell), "1", 0, "L", header, 0, "")
		}
		r.pdf.Ln(pdfTableRowH)
	}
	r.pdf.Ln(8)
}
