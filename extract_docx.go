package docmorph

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"regexp"
	"strconv"
	"strings"

	"github.com/docmorph/docmorph/internal/ooxml"
)

// Style ids and style names that mark headings, tolerant of the document
// languages the style catalogs come in.
var reHeadingName = regexp.MustCompile(`(?i)^(?:heading|titre|titlu)\s*([0-9]+)`)

// monospaceFonts are the run fonts treated as code.
var monospaceFonts = map[string]bool{
	"consolas":       true,
	"courier":        true,
	"courier new":    true,
	"monaco":         true,
	"menlo":          true,
	"lucida console": true,
}

// runFormat carries one run's resolved formatting flags.
type runFormat struct {
	bold   bool
	italic bool
	strike bool
	mono   bool
}

// extractDocx reconstructs Markdown from a Word-style container: body
// elements walk in document order, runs wrap in emphasis markers per their
// flags, styles resolve to heading levels, numbered paragraphs become list
// items, tables become pipe tables.
func extractDocx(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &MalformedContainerError{Format: "docx", Reason: "not a zip archive"}
	}

	docData, err := ooxml.ReadFileFromZip(zr, "word/document.xml")
	if err != nil {
		return "", &MalformedContainerError{Format: "docx", Reason: "missing word/document.xml part"}
	}

	catalog := parseStyleCatalog(zr)
	rels, _ := ooxml.ParseRelationships(zr, "word/_rels/document.xml.rels")

	return walkDocumentBody(docData, catalog, rels), nil
}

// parseStyleCatalog maps style ids to their human-readable names from
// word/styles.xml. A missing or unreadable part yields an empty catalog.
func parseStyleCatalog(zr *zip.Reader) map[string]string {
	catalog := make(map[string]string)
	data, err := ooxml.ReadFileFromZip(zr, "word/styles.xml")
	if err != nil {
		return catalog
	}

	decoder := xml.NewDecoder(bytes.NewReader(data))
	var currentStyleID string

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "style":
				for _, attr := range t.Attr {
					if attr.Name.Local == "styleId" {
						currentStyleID = attr.Value
					}
				}
			case "name":
				if currentStyleID == "" {
					continue
				}
				for _, attr := range t.Attr {
					if attr.Name.Local == "val" {
						catalog[currentStyleID] = attr.Value
					}
				}
			}
		case xml.EndElement:
			if t.Name.Local == "style" {
				currentStyleID = ""
			}
		}
	}
	return catalog
}

// headingResolver attempts to resolve a style id to a heading level.
type headingResolver func(styleID string, catalog map[string]string) (int, bool)

// headingResolvers are tried in order; the first success wins.
var headingResolvers = []headingResolver{
	resolveHeadingByID,
	resolveHeadingByCatalogName,
	resolveHeadingByFixedName,
}

func resolveHeadingLevel(styleID string, catalog map[string]string) int {
	if styleID == "" {
		return 0
	}
	for _, resolve := range headingResolvers {
		if level, ok := resolve(styleID, catalog); ok {
			return level
		}
	}
	return 0
}

func resolveHeadingByID(styleID string, _ map[string]string) (int, bool) {
	return matchHeadingName(styleID)
}

func resolveHeadingByCatalogName(styleID string, catalog map[string]string) (int, bool) {
	name, ok := catalog[styleID]
	if !ok {
		return 0, false
	}
	return matchHeadingName(name)
}

func resolveHeadingByFixedName(styleID string, catalog map[string]string) (int, bool) {
	candidates := []string{styleID}
	if name, ok := catalog[styleID]; ok {
		candidates = append(candidates, name)
	}
	for _, c := range candidates {
		switch strings.ToLower(strings.TrimSpace(c)) {
		case "title":
			return 1, true
		case "subtitle":
			return 2, true
		}
	}
	return 0, false
}

// matchHeadingName extracts the level digit from a heading-like style id or
// name, capped at 6.
func matchHeadingName(s string) (int, bool) {
	m := reHeadingName.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, false
	}
	level, err := strconv.Atoi(m[1])
	if err != nil || level < 1 {
		return 0, false
	}
	if level > 6 {
		level = 6
	}
	return level, true
}

// walkDocumentBody streams document.xml and emits Markdown in document
// order.
func walkDocumentBody(docData []byte, catalog map[string]string, rels map[string]ooxml.Relationship) string {
	decoder := xml.NewDecoder(bytes.NewReader(docData))

	type state struct {
		styleID     string
		numID       string
		listLevel   int
		hasNum      bool
		run         runFormat
		inRun       bool
		inText      bool
		inHyper     bool
		hyperTarget string
		inTableCell bool
	}

	var (
		md       strings.Builder
		s        state
		runBuf   strings.Builder
		paraBuf  strings.Builder
		hyperBuf strings.Builder
		cellBuf  strings.Builder
		rows     [][]string
		row      []string
		prevList bool
	)

	// A blank line closes a run of list items before any other block
	endList := func() {
		if prevList {
			md.WriteString("\n")
			prevList = false
		}
	}

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				paraBuf.Reset()
				s.styleID = ""
				s.numID = ""
				s.listLevel = 0
				s.hasNum = false
				s.inHyper = false
				s.hyperTarget = ""

			case "pStyle":
				for _, attr := range t.Attr {
					if attr.Name.Local == "val" {
						s.styleID = attr.Value
					}
				}

			case "numPr":
				s.hasNum = true

			case "numId":
				for _, attr := range t.Attr {
					if attr.Name.Local == "val" {
						s.numID = attr.Value
					}
				}

			case "ilvl":
				for _, attr := range t.Attr {
					if attr.Name.Local == "val" {
						if level, err := strconv.Atoi(attr.Value); err == nil && level > 0 {
							s.listLevel = level
						}
					}
				}

			case "r":
				s.inRun = true
				s.run = runFormat{}
				runBuf.Reset()

			case "b":
				if s.inRun {
					s.run.bold = flagValue(t)
				}

			case "i":
				if s.inRun {
					s.run.italic = flagValue(t)
				}

			case "strike":
				if s.inRun {
					s.run.strike = flagValue(t)
				}

			case "rFonts":
				if s.inRun {
					for _, attr := range t.Attr {
						switch attr.Name.Local {
						case "ascii", "hAnsi", "cs":
							if monospaceFonts[strings.ToLower(attr.Value)] {
								s.run.mono = true
							}
						}
					}
				}

			case "t":
				s.inText = true

			case "tab":
				if s.inRun {
					runBuf.WriteString("\t")
				}

			case "br":
				if s.inRun {
					runBuf.WriteString("\n")
				}

			case "hyperlink":
				s.inHyper = true
				s.hyperTarget = ""
				hyperBuf.Reset()
				for _, attr := range t.Attr {
					if attr.Name.Space == ooxml.NSRelDoc && attr.Name.Local == "id" {
						if rel, ok := rels[attr.Value]; ok {
							s.hyperTarget = rel.Target
						}
					}
				}

			case "tbl":
				rows = nil

			case "tr":
				row = nil

			case "tc":
				s.inTableCell = true
				cellBuf.Reset()

			case "drawing", "pict":
				// Media is not extracted; skip so textbox content cannot leak
				skipElement(decoder)
			}

		case xml.CharData:
			if s.inText {
				runBuf.Write(t)
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				s.inText = false

			case "r":
				wrapped := wrapRun(runBuf.String(), s.run)
				if s.inHyper {
					hyperBuf.WriteString(wrapped)
				} else {
					paraBuf.WriteString(wrapped)
				}
				s.inRun = false
				runBuf.Reset()

			case "hyperlink":
				label := hyperBuf.String()
				if s.hyperTarget != "" && strings.TrimSpace(label) != "" {
					paraBuf.WriteString("[" + label + "](" + s.hyperTarget + ")")
				} else {
					paraBuf.WriteString(label)
				}
				s.inHyper = false

			case "p":
				text := strings.TrimSpace(paraBuf.String())
				level := resolveHeadingLevel(s.styleID, catalog)

				switch {
				case s.inTableCell:
					if text != "" {
						if cellBuf.Len() > 0 {
							cellBuf.WriteString(" ")
						}
						cellBuf.WriteString(text)
					}
				case text == "":
				case level > 0:
					endList()
					md.WriteString(strings.Repeat("#", level))
					md.WriteString(" ")
					md.WriteString(text)
					md.WriteString("\n\n")
				case s.hasNum && s.numID != "0":
					md.WriteString(strings.Repeat("  ", s.listLevel))
					md.WriteString("- ")
					md.WriteString(text)
					md.WriteString("\n")
					prevList = true
				default:
					endList()
					md.WriteString(text)
					md.WriteString("\n\n")
				}

			case "tc":
				row = append(row, strings.TrimSpace(cellBuf.String()))
				s.inTableCell = false

			case "tr":
				rows = append(rows, row)

			case "tbl":
				endList()
				writePipeTable(&md, rows)
			}
		}
	}

	return md.String()
}

// flagValue interprets a boolean run property element, where val="0" or
// val="false" negates the flag.
func flagValue(t xml.StartElement) bool {
	for _, attr := range t.Attr {
		if attr.Name.Local == "val" {
			v := strings.ToLower(attr.Value)
			return v != "0" && v != "false" && v != "none"
		}
	}
	return true
}

// wrapRun wraps run text in Markdown markers for its format flags. Edge
// whitespace moves outside the markers so they stay well-formed.
func wrapRun(text string, f runFormat) string {
	if strings.TrimSpace(text) == "" {
		return text
	}

	rtrimmed := strings.TrimRight(text, " \t")
	trail := text[len(rtrimmed):]
	core := strings.TrimLeft(rtrimmed, " \t")
	lead := rtrimmed[:len(rtrimmed)-len(core)]

	if f.mono {
		return lead + "`" + core + "`" + trail
	}
	switch {
	case f.bold && f.italic:
		core = "***" + core + "***"
	case f.bold:
		core = "**" + core + "**"
	case f.italic:
		core = "*" + core + "*"
	}
	if f.strike {
		core = "~~" + core + "~~"
	}
	return lead + core + trail
}

// writePipeTable emits rows as a Markdown pipe table. The first row is
// always the header, short rows pad to the widest row, and literal pipes
// escape.
func writePipeTable(md *strings.Builder, rows [][]string) {
	if len(rows) == 0 {
		return
	}
	rows, columns := padTableRows(rows)
	if columns == 0 {
		return
	}

	writeRow := func(cells []string) {
		md.WriteString("|")
		for _, cell := range cells {
			md.WriteString(" ")
			md.WriteString(escapeTableCell(cell))
			md.WriteString(" |")
		}
		md.WriteString("\n")
	}

	writeRow(rows[0])
	md.WriteString("|")
	for i := 0; i < columns; i++ {
		md.WriteString(" --- |")
	}
	md.WriteString("\n")
	for _, r := range rows[1:] {
		writeRow(r)
	}
	md.WriteString("\n")
}

func escapeTableCell(cell string) string {
	cell = strings.ReplaceAll(cell, "\n", " ")
	return strings.ReplaceAll(cell, "|", `\|`)
}

// skipElement consumes tokens until the element that just started closes.
func skipElement(decoder *xml.Decoder) {
	depth := 1
	for depth > 0 {
		tok, err := decoder.Token()
		if err != nil {
			return
		}
		switch tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
}
