package docmorph

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/docmorph/docmorph/internal/ooxml"
)

// extractODT reconstructs Markdown from an OpenDocument text container by
// walking content.xml in document order. Headings carry their outline level,
// lists nest by element depth, tables become pipe tables.
func extractODT(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &MalformedContainerError{Format: "odt", Reason: "not a zip archive"}
	}

	content, err := ooxml.ReadFileFromZip(zr, "content.xml")
	if err != nil {
		return "", &MalformedContainerError{Format: "odt", Reason: "missing content.xml part"}
	}

	return walkOpenDocumentText(content), nil
}

func walkOpenDocumentText(content []byte) string {
	decoder := xml.NewDecoder(bytes.NewReader(content))

	var (
		md           strings.Builder
		paraBuf      strings.Builder
		cellBuf      strings.Builder
		rows         [][]string
		row          []string
		inBody       bool
		inPara       bool
		headingLevel int
		listDepth    int
		inTableCell  bool
		prevList     bool
	)

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
			if !inBody {
				if t.Name.Local == "text" && strings.Contains(t.Name.Space, "office") {
					inBody = true
				}
				continue
			}

			switch t.Name.Local {
			case "h":
				inPara = true
				paraBuf.Reset()
				headingLevel = outlineLevel(t)

			case "p":
				inPara = true
				paraBuf.Reset()
				headingLevel = 0

			case "tab":
				if inPara {
					paraBuf.WriteString("\t")
				}

			case "s":
				if inPara {
					paraBuf.WriteString(strings.Repeat(" ", spaceCount(t)))
				}

			case "line-break":
				if inPara {
					paraBuf.WriteString("\n")
				}

			case "list":
				listDepth++

			case "table":
				rows = nil

			case "table-row":
				row = nil

			case "table-cell":
				inTableCell = true
				cellBuf.Reset()

			case "annotation", "note", "tracked-changes":
				// Not part of the document flow
				skipElement(decoder)
			}

		case xml.CharData:
			if inPara {
				paraBuf.Write(t)
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "text":
				if strings.Contains(t.Name.Space, "office") {
					inBody = false
				}

			case "h", "p":
				if !inPara {
					continue
				}
				inPara = false
				text := strings.TrimSpace(paraBuf.String())

				switch {
				case inTableCell:
					if text != "" {
						if cellBuf.Len() > 0 {
							cellBuf.WriteString(" ")
						}
						cellBuf.WriteString(text)
					}
				case text == "":
				case headingLevel > 0:
					endList()
					md.WriteString(strings.Repeat("#", headingLevel))
					md.WriteString(" ")
					md.WriteString(text)
					md.WriteString("\n\n")
				case listDepth > 0:
					md.WriteString(strings.Repeat("  ", listDepth-1))
					md.WriteString("- ")
					md.WriteString(text)
					md.WriteString("\n")
					prevList = true
				default:
					endList()
					md.WriteString(text)
					md.WriteString("\n\n")
				}

			case "list":
				if listDepth > 0 {
					listDepth--
				}

			case "table-cell":
				row = append(row, strings.TrimSpace(cellBuf.String()))
				inTableCell = false

			case "table-row":
				rows = append(rows, row)

			case "table":
				endList()
				writePipeTable(&md, rows)
			}
		}
	}

	return md.String()
}

// outlineLevel reads text:outline-level from a heading element, defaulting
// to 1 and capping at 6.
func outlineLevel(t xml.StartElement) int {
	level := 1
	for _, attr := range t.Attr {
		if attr.Name.Local == "outline-level" {
			if n, err := strconv.Atoi(attr.Value); err == nil && n > 0 {
				level = n
			}
		}
	}
	if level > 6 {
		level = 6
	}
	return level
}

// spaceCount reads the repeat count from a text:s element.
func spaceCount(t xml.StartElement) int {
	for _, attr := range t.Attr {
		if attr.Name.Local == "c" {
			if n, err := strconv.Atoi(attr.Value); err == nil && n > 0 {
				return n
			}
		}
	}
	return 1
}
