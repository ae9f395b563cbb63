package docmorph

import (
	"strings"
	"testing"
)

func TestClusterLines(t *testing.T) {
	// Reading order: Y descending, X ascending. Words within 5 units of the
	// previous word's Y share a line.
	words := []pdfWord{
		{x: 10, y: 700, size: 12, text: "first"},
		{x: 60, y: 698, size: 12, text: "line"},
		{x: 10, y: 680, size: 12, text: "second"},
		{x: 70, y: 681, size: 12, text: "line"},
	}
	lines := clusterLines(words)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if got := lines[0].text(); !strings.HasPrefix(got, "first") {
		t.Errorf("line 0 = %q, want it to start with %q", got, "first")
	}
	if got := lines[1].text(); !strings.HasPrefix(got, "second") {
		t.Errorf("line 1 = %q, want it to start with %q", got, "second")
	}
}

func TestClusterLinesReordersWithinLine(t *testing.T) {
	// Words arriving out of X order within one band re-sort left to right.
	words := []pdfWord{
		{x: 200, y: 500, size: 12, text: "world"},
		{x: 10, y: 501, size: 12, text: "hello"},
	}
	lines := clusterLines(words)
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	if lines[0].words[0].text != "hello" {
		t.Errorf("first word = %q, want %q", lines[0].words[0].text, "hello")
	}
}

func TestAvgFontSize(t *testing.T) {
	tests := []struct {
		name  string
		words []pdfWord
		want  float64
	}{
		{"mixed sizes", []pdfWord{{size: 10}, {size: 14}}, 12},
		{"no size information", []pdfWord{{size: 0}, {size: 0}}, defaultFontSize},
		{"partial size information", []pdfWord{{size: 18}, {size: 0}}, 18},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ln := pdfLine{words: tt.words}
			if got := ln.avgFontSize(); got != tt.want {
				t.Errorf("avgFontSize() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWriteClassifiedLine(t *testing.T) {
	tests := []struct {
		name string
		line pdfLine
		want string
	}{
		{
			name: "size 22 is a level 1 heading",
			line: pdfLine{words: []pdfWord{{size: 22, text: "Big Title"}}},
			want: "# Big Title",
		},
		{
			name: "size 18 is a level 2 heading",
			line: pdfLine{words: []pdfWord{{size: 18, text: "Subtitle"}}},
			want: "## Subtitle",
		},
		{
			name: "all caps line is a level 3 heading",
			line: pdfLine{words: []pdfWord{{size: 12, text: "INTRODUCTION"}}},
			want: "### INTRODUCTION",
		},
		{
			name: "bullet glyph becomes list item",
			line: pdfLine{words: []pdfWord{{size: 12, text: "• point one"}}},
			want: "- point one",
		},
		{
			name: "hyphen marker becomes list item",
			line: pdfLine{words: []pdfWord{{size: 12, text: "- point two"}}},
			want: "- point two",
		},
		{
			name: "numbered marker becomes list item",
			line: pdfLine{words: []pdfWord{{size: 12, text: "1. point three"}}},
			want: "- point three",
		},
		{
			name: "letter marker becomes list item",
			line: pdfLine{words: []pdfWord{{size: 12, text: "a) point four"}}},
			want: "- point four",
		},
		{
			name: "plain text stays a paragraph line",
			line: pdfLine{words: []pdfWord{{size: 12, text: "Just an ordinary sentence here."}}},
			want: "Just an ordinary sentence here.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var md strings.Builder
			writeClassifiedLine(&md, tt.line)
			got := strings.TrimSpace(md.String())
			if got != tt.want {
				t.Errorf("classified %q as %q, want %q", tt.line.text(), got, tt.want)
			}
		})
	}
}

func TestIsHeadingLine(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"INTRODUCTION", true},
		{"TABLE OF CONTENTS", true},
		{"Chapter 1: The Beginning", true},
		{"Section 2.1 Overview", true},
		{"Article 5", true},
		{"Capitol 3", true},
		{"1.2 Scoped Title", true},
		{"12.3.4 Deep Title", true},
		{"Just a normal sentence in the body of the text.", false},
		{"ab", false}, // too short
		{strings.Repeat("X", 151), false}, // too long
		{"lowercase line without markers", false},
	}
	for _, tt := range tests {
		if got := isHeadingLine(tt.text); got != tt.want {
			t.Errorf("isHeadingLine(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestIsAllCapsLine(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"ALL CAPS", true},
		{"CAPS WITH 123", true},
		{"Mixed Case", false},
		{"12345", false}, // no letters at all
		{"", false},
	}
	for _, tt := range tests {
		if got := isAllCapsLine(tt.text); got != tt.want {
			t.Errorf("isAllCapsLine(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestLineTextGapSpacing(t *testing.T) {
	// A wide gap between chunks inserts a space even when the producer
	// omitted one.
	ln := pdfLine{words: []pdfWord{
		{x: 10, y: 100, w: 30, size: 12, text: "left"},
		{x: 100, y: 100, w: 30, size: 12, text: "right"},
	}}
	if got := ln.text(); got != "left right" {
		t.Errorf("text() = %q, want %q", got, "left right")
	}
}

func TestExtractPDFRejectsGarbage(t *testing.T) {
	if _, _, err := extractPDF([]byte("not a pdf at all")); err == nil {
		t.Fatal("expected an error for non-PDF bytes")
	}
}
