package docmorph

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/net/html"
)

var (
	reHTMLBreak = regexp.MustCompile(`(?i)\A<br\s*/?>\z`)
	reHTMLTag   = regexp.MustCompile(`<[^>]*>`)
)

// parseDocument parses Markdown source into the document model. The parser
// is built per call so concurrent conversions share nothing.
func parseDocument(source []byte) []Block {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	root := md.Parser().Parse(text.NewReader(source))
	return blocksFrom(root, source, 0)
}

// blocksFrom converts the children of n into model blocks. listLevel is the
// nesting depth assigned to lists encountered at this position.
func blocksFrom(n ast.Node, source []byte, listLevel int) []Block {
	var blocks []Block

	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch t := child.(type) {
		case *ast.Heading:
			level := t.Level
			if level < 1 {
				level = 1
			}
			if level > 6 {
				level = 6
			}
			blocks = append(blocks, Heading{Level: level, Inlines: inlinesFrom(t, source)})

		case *ast.Paragraph:
			blocks = append(blocks, Paragraph{Inlines: inlinesFrom(t, source)})

		case *ast.TextBlock:
			// Tight list items wrap their text in a TextBlock
			blocks = append(blocks, Paragraph{Inlines: inlinesFrom(t, source)})

		case *ast.List:
			blocks = append(blocks, listFrom(t, source, listLevel))

		case *ast.FencedCodeBlock:
			blocks = append(blocks, CodeBlock{Lines: rawLines(t, source)})

		case *ast.CodeBlock:
			blocks = append(blocks, CodeBlock{Lines: rawLines(t, source)})

		case *ast.Blockquote:
			blocks = append(blocks, Quote{Blocks: blocksFrom(t, source, listLevel)})

		case *ast.ThematicBreak:
			blocks = append(blocks, ThematicBreak{})

		case *extast.Table:
			blocks = append(blocks, tableFrom(t, source))

		case *ast.HTMLBlock:
			if txt := stripHTML(strings.Join(rawLines(t, source), " ")); txt != "" {
				blocks = append(blocks, Paragraph{Inlines: []Inline{Text{Value: txt}}})
			}
		}
	}
	return blocks
}

func listFrom(l *ast.List, source []byte, level int) List {
	list := List{Ordered: l.IsOrdered(), Level: level}
	for item := l.FirstChild(); item != nil; item = item.NextSibling() {
		list.Items = append(list.Items, blocksFrom(item, source, level+1))
	}
	return list
}

func tableFrom(t *extast.Table, source []byte) Table {
	var rows [][]string
	header := false

	for row := t.FirstChild(); row != nil; row = row.NextSibling() {
		switch row.(type) {
		case *extast.TableHeader, *extast.TableRow:
		default:
			continue
		}
		if _, ok := row.(*extast.TableHeader); ok {
			header = true
		}
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, flattenInlines(inlinesFrom(cell, source)))
		}
		rows = append(rows, cells)
	}

	rows, columns := padTableRows(rows)
	return Table{Rows: rows, HeaderRow: header, Columns: columns}
}

// inlinesFrom converts the children of n into model inlines.
func inlinesFrom(n ast.Node, source []byte) []Inline {
	var out []Inline

	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch t := child.(type) {
		case *ast.Text:
			if v := string(t.Segment.Value(source)); v != "" {
				out = append(out, Text{Value: v})
			}
			if t.HardLineBreak() {
				out = append(out, LineBreak{})
			} else if t.SoftLineBreak() {
				out = append(out, Text{Value: " "})
			}

		case *ast.String:
			if len(t.Value) > 0 {
				out = append(out, Text{Value: string(t.Value)})
			}

		case *ast.Emphasis:
			out = append(out, emphasisFrom(t, source))

		case *extast.Strikethrough:
			out = append(out, Strikethrough{Children: inlinesFrom(t, source)})

		case *ast.CodeSpan:
			out = append(out, Code{Value: codeSpanText(t, source)})

		case *ast.Link:
			out = append(out, Link{Text: inlinesFrom(t, source)})

		case *ast.AutoLink:
			out = append(out, Text{Value: string(t.URL(source))})

		case *ast.Image:
			// Media is not extracted; the alt text stands in for the image
			out = append(out, inlinesFrom(t, source)...)

		case *ast.RawHTML:
			out = append(out, rawHTMLInline(t, source)...)
		}
	}
	return out
}

// emphasisFrom maps delimiter metadata onto the model: a delimiter run of 2+
// is bold, a run of 1 is italic, and a directly nested emphasis collapses
// into a single node carrying both flags.
func emphasisFrom(e *ast.Emphasis, source []byte) Emphasis {
	em := Emphasis{Strong: e.Level >= 2, Italic: e.Level == 1 || e.Level >= 3}
	children := inlinesFrom(e, source)
	if len(children) == 1 {
		if inner, ok := children[0].(Emphasis); ok {
			em.Strong = em.Strong || inner.Strong
			em.Italic = em.Italic || inner.Italic
			children = inner.Children
		}
	}
	em.Children = children
	return em
}

func codeSpanText(n ast.Node, source []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			b.Write(t.Segment.Value(source))
		}
	}
	return b.String()
}

func rawHTMLInline(t *ast.RawHTML, source []byte) []Inline {
	var b strings.Builder
	for i := 0; i < t.Segments.Len(); i++ {
		seg := t.Segments.At(i)
		b.Write(seg.Value(source))
	}
	frag := strings.TrimSpace(b.String())
	if reHTMLBreak.MatchString(frag) {
		return []Inline{LineBreak{}}
	}
	if txt := stripHTML(frag); txt != "" {
		return []Inline{Text{Value: txt}}
	}
	return nil
}

// rawLines returns the node's source lines without trailing newlines.
func rawLines(n ast.Node, source []byte) []string {
	var out []string
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		out = append(out, strings.TrimRight(string(seg.Value(source)), "\n"))
	}
	return out
}

// stripHTML drops tags from an HTML fragment and decodes its entities,
// keeping only the readable text.
func stripHTML(fragment string) string {
	return strings.TrimSpace(html.UnescapeString(reHTMLTag.ReplaceAllString(fragment, "")))
}
