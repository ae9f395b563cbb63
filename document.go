// Copyright 2026 Docmorph Authors
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

package docmorph

import "strings"

// Block is a structural unit of a document. The set of implementations is
// closed: renderers switch exhaustively over it, so adding a block kind is a
// compile-time-visible change in every renderer.
type Block interface {
	block()
}

// Inline is a unit of formatted text within a block.
type Inline interface {
	inline()
}

// Heading is a section heading with level 1-6.
type Heading struct {
	Level   int
	Inlines []Inline
}

// Paragraph is a run of inline content.
type Paragraph struct {
	Inlines []Inline
}

// List is an ordered or unordered list. Items are block sequences so an item
// can hold its own paragraphs and nested lists. Level is the nesting depth,
// 0 for a top-level list.
type List struct {
	Ordered bool
	Items   [][]Block
	Level   int
}

// Table holds cell text rows. Every row has exactly Columns cells; short rows
// are right-padded with empty strings when the table is built.
type Table struct {
	Rows      [][]string
	HeaderRow bool
	Columns   int
}

// CodeBlock is a verbatim block; lines carry no inline formatting.
type CodeBlock struct {
	Lines []string
}

// Quote is a block quote wrapping nested blocks.
type Quote struct {
	Blocks []Block
}

// ThematicBreak is a horizontal rule.
type ThematicBreak struct{}

func (Heading) block()       {}
func (Paragraph) block()     {}
func (List) block()          {}
func (Table) block()         {}
func (CodeBlock) block()     {}
func (Quote) block()         {}
func (ThematicBreak) block() {}

// Text is plain text.
type Text struct {
	Value string
}

// Emphasis is emphasized inline content. Combined bold+italic is a single
// Emphasis with both flags set, never two nested wrappers.
type Emphasis struct {
	Strong   bool
	Italic   bool
	Children []Inline
}

// Strikethrough is struck-through inline content.
type Strikethrough struct {
	Children []Inline
}

// Code is an inline code span.
type Code struct {
	Value string
}

// Link keeps only the display text; destinations do not survive rendering to
// page-oriented targets.
type Link struct {
	Text []Inline
}

// LineBreak is a hard line break within a block.
type LineBreak struct{}

func (Text) inline()          {}
func (Emphasis) inline()      {}
func (Strikethrough) inline() {}
func (Code) inline()          {}
func (Link) inline()          {}
func (LineBreak) inline()     {}

// flattenInlines reduces inline content to plain text: emphasis and links
// dissolve into their children, inline code keeps its literal text, and line
// breaks become single spaces.
func flattenInlines(inlines []Inline) string {
	var b strings.Builder
	writeFlattened(&b, inlines)
	return b.String()
}

func writeFlattened(b *strings.Builder, inlines []Inline) {
	for _, in := range inlines {
		switch v := in.(type) {
		case Text:
			b.WriteString(v.Value)
		case Emphasis:
			writeFlattened(b, v.Children)
		case Strikethrough:
			writeFlattened(b, v.Children)
		case Code:
			b.WriteString(v.Value)
		case Link:
			writeFlattened(b, v.Text)
		case LineBreak:
			b.WriteString(" ")
		}
	}
}

// padTableRows right-pads every row to the max cell count across rows and
// returns the padded rows with the resolved column count. Rows are never
// truncated.
func padTableRows(rows [][]string) ([][]string, int) {
	columns := 0
	for _, row := range rows {
		if len(row) > columns {
			columns = len(row)
		}
	}
	for i, row := range rows {
		for len(row) < columns {
			row = append(row, "")
		}
		rows[i] = row
	}
	return rows, columns
}
