package docmorph

import (
	"bytes"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

const (
	// Words within this vertical band join the current line.
	lineBandThreshold = 5.0
	// Assumed when the page reports no usable font size.
	defaultFontSize = 12.0
	// Average line font sizes above these emit level 1 / level 2 headings.
	headingSizeH1 = 20.0
	headingSizeH2 = 16.0
)

var (
	reListMarker      = regexp.MustCompile(`^(?:[•◦▪‣·]\s*|[-*]\s+|[a-z]\)\s*|\d+[.)]\s+)`)
	reNumberedSection = regexp.MustCompile(`^\d+(\.\d+)+\.?\s+\S`)
)

// Section keywords that mark a line as a heading, in the two document
// languages the classifier recognizes.
var sectionKeywords = []string{
	"chapter", "section", "article",
	"capitol", "sectiune", "articol",
}

// pdfWord is one positioned text chunk on a page.
type pdfWord struct {
	x    float64
	y    float64
	w    float64
	size float64
	text string
}

// pdfLine is a closed line: words sharing a vertical band, left to right.
type pdfLine struct {
	words []pdfWord
}

// extractPDF reconstructs Markdown structure from PDF bytes. It returns the
// raw Markdown text (cleanup runs later in the pipeline) and the page count.
func extractPDF(data []byte) (string, int, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, &ExtractionError{Format: "pdf", Err: err}
	}

	var md strings.Builder
	pages := r.NumPage()

	for i := 1; i <= pages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		for _, line := range clusterLines(pageWords(page)) {
			writeClassifiedLine(&md, line)
		}
		md.WriteString("\n")
	}

	out := md.String()
	if strings.TrimSpace(out) == "" {
		out = "[no readable text content]"
	}
	return out, pages, nil
}

// pageWords collects the page's positioned words in reading order. PDF
// coordinates grow upward, so top-of-page-first means Y descending, then X
// ascending.
func pageWords(page pdf.Page) []pdfWord {
	content := page.Content()
	words := make([]pdfWord, 0, len(content.Text))
	for _, t := range content.Text {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		words = append(words, pdfWord{x: t.X, y: t.Y, w: t.W, size: t.FontSize, text: t.S})
	}
	sort.SliceStable(words, func(i, j int) bool {
		if words[i].y != words[j].y {
			return words[i].y > words[j].y
		}
		return words[i].x < words[j].x
	})
	return words
}

// clusterLines groups reading-ordered words into lines: a word joins the
// current line while its vertical distance to the previous word stays under
// the band threshold. Closed lines re-sort their words left to right.
func clusterLines(words []pdfWord) []pdfLine {
	var lines []pdfLine
	var current []pdfWord

	for _, w := range words {
		if len(current) > 0 && math.Abs(w.y-current[len(current)-1].y) >= lineBandThreshold {
			lines = append(lines, closeLine(current))
			current = nil
		}
		current = append(current, w)
	}
	if len(current) > 0 {
		lines = append(lines, closeLine(current))
	}
	return lines
}

func closeLine(words []pdfWord) pdfLine {
	sorted := make([]pdfWord, len(words))
	copy(sorted, words)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].x < sorted[j].x })
	return pdfLine{words: sorted}
}

// text joins a line's words, inserting a space wherever the horizontal gap
// between chunks exceeds a font-size-relative threshold.
func (ln pdfLine) text() string {
	var b strings.Builder
	var lastEnd float64

	for i, w := range ln.words {
		if i > 0 {
			gap := w.x - lastEnd
			threshold := w.size * 0.2
			if threshold < 1.0 {
				threshold = 1.0
			}
			if gap > threshold {
				b.WriteString(" ")
			}
		}
		b.WriteString(w.text)

		width := w.w
		if width <= 0 {
			// Some producers omit widths; estimate from glyph count
			width = float64(utf8.RuneCountInString(w.text)) * w.size * 0.55
		}
		lastEnd = w.x + width
	}
	return strings.TrimSpace(b.String())
}

// avgFontSize is the mean point size across the line's words, defaulting
// when the page carries no size information.
func (ln pdfLine) avgFontSize() float64 {
	sum, n := 0.0, 0
	for _, w := range ln.words {
		if w.size > 0 {
			sum += w.size
			n++
		}
	}
	if n == 0 {
		return defaultFontSize
	}
	return sum / float64(n)
}

// writeClassifiedLine classifies one line and appends its Markdown form:
// headings by font size or heuristic, then list items by marker, then plain
// paragraph lines.
func writeClassifiedLine(md *strings.Builder, ln pdfLine) {
	text := ln.text()
	if text == "" {
		return
	}
	size := ln.avgFontSize()

	if size > headingSizeH2 || isHeadingLine(text) {
		level := 3
		switch {
		case size > headingSizeH1:
			level = 1
		case size > headingSizeH2:
			level = 2
		}
		md.WriteString("\n")
		md.WriteString(strings.Repeat("#", level))
		md.WriteString(" ")
		md.WriteString(text)
		md.WriteString("\n\n")
		return
	}

	if m := reListMarker.FindString(text); m != "" {
		if rest := strings.TrimSpace(text[len(m):]); rest != "" {
			md.WriteString("- ")
			md.WriteString(rest)
			md.WriteString("\n")
		}
		return
	}

	md.WriteString(text)
	md.WriteString("\n")
}

// isHeadingLine decides whether a line reads like a heading when font size
// alone is not conclusive: sane length, ALL-CAPS lines, section keywords, or
// dotted section numbering ("12.3 Title").
func isHeadingLine(text string) bool {
	n := utf8.RuneCountInString(text)
	if n < 3 || n > 150 {
		return false
	}
	if n < 100 && isAllCapsLine(text) {
		return true
	}
	lower := strings.ToLower(text)
	for _, kw := range sectionKeywords {
		if strings.HasPrefix(lower, kw+" ") {
			return true
		}
	}
	return n < 80 && reNumberedSection.MatchString(text)
}

func isAllCapsLine(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}
