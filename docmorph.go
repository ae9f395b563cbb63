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

// Package docmorph converts documents between PDF, Word-style XML
// containers, OpenDocument text, and Markdown. Non-Markdown inputs convert
// to Markdown; Markdown converts to PDF by default or to a Word-style
// container on request. Container conversions prefer an external pandoc
// binary when one is installed and fall back to the built-in converters.
package docmorph

import (
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
)

// Result is one converted document.
type Result struct {
	// Data is the converted output.
	Data []byte
	// Filename is the input name with the target extension swapped in.
	Filename string
	// MIME is the media type of Data.
	MIME string
	// Meta carries conversion statistics.
	Meta Meta
}

// Meta describes a finished conversion. Words and Chars always measure the
// Markdown side, whichever direction it sits on; Pages is real for PDF
// input and output and 1 for the flow formats.
type Meta struct {
	Pages    int
	Words    int
	Chars    int
	Duration time.Duration
	Source   string
	Target   string
}

// BatchInput names one in-memory document for batch conversion.
type BatchInput struct {
	Name string
	Data []byte
}

// BatchItem pairs a batch input with its outcome. Exactly one of Result
// and Err is set.
type BatchItem struct {
	Name   string
	Result *Result
	Err    error
}

// Engine converts documents between the supported formats. It is safe for
// concurrent use.
type Engine struct {
	tool    *pandocTool
	useTool bool
}

// New creates an Engine. The external tool path is enabled by default.
func New(opts ...Option) *Engine {
	e := &Engine{
		tool:    newPandocTool(),
		useTool: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Convert converts data according to its filename extension and the
// requested target format. The extension alone routes non-Markdown inputs;
// target selects between PDF (default) and a Word-style container for
// Markdown inputs.
func (e *Engine) Convert(data []byte, filename, target string) (*Result, error) {
	start := time.Now()

	ext := strings.ToLower(filepath.Ext(filename))
	op, err := ResolveOperation(ext, target)
	if err != nil {
		return nil, err
	}

	var (
		out    []byte
		pages  = 1
		mdSide string
	)

	switch op {
	case PdfToMarkdown:
		md, n, err := extractPDF(data)
		if err != nil {
			return nil, err
		}
		mdSide = normalizeMarkdown(md) + "\n"
		out = []byte(mdSide)
		pages = n

	case DocxToMarkdown, OdtToMarkdown:
		if err := sniffContainer(data, op.SourceLabel()); err != nil {
			return nil, err
		}
		md, err := e.containerToMarkdown(data, op)
		if err != nil {
			return nil, err
		}
		mdSide = normalizeMarkdown(md) + "\n"
		out = []byte(mdSide)

	case MarkdownToPdf:
		meta, body := splitFrontMatter(decodeMarkdown(data))
		mdSide = body
		pdfData, n, err := renderPDF(parseDocument([]byte(body)), meta.Title)
		if err != nil {
			return nil, err
		}
		out = pdfData
		pages = n

	case MarkdownToDocx:
		_, body := splitFrontMatter(decodeMarkdown(data))
		mdSide = body
		out, err = e.markdownToContainer([]byte(body))
		if err != nil {
			return nil, err
		}
	}

	return &Result{
		Data:     out,
		Filename: outputFilename(filename, op),
		MIME:     op.TargetMIME(),
		Meta: Meta{
			Pages:    pages,
			Words:    len(strings.Fields(mdSide)),
			Chars:    utf8.RuneCountInString(mdSide),
			Duration: time.Since(start),
			Source:   op.SourceLabel(),
			Target:   op.TargetLabel(),
		},
	}, nil
}

// ConvertFile reads path and converts it, routing on the file's extension.
func (e *Engine) ConvertFile(path, target string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return e.Convert(data, filepath.Base(path), target)
}

// ConvertBatch converts inputs sequentially with per-file isolation: one
// failing document never affects the others, and the returned slice always
// has one item per input, in input order.
func (e *Engine) ConvertBatch(inputs []BatchInput, target string) []BatchItem {
	items := make([]BatchItem, 0, len(inputs))
	for _, in := range inputs {
		res, err := e.Convert(in.Data, in.Name, target)
		items = append(items, BatchItem{Name: in.Name, Result: res, Err: err})
	}
	return items
}

// containerToMarkdown runs a container extraction, preferring the external
// tool and falling back to the native extractor on any tool error.
func (e *Engine) containerToMarkdown(data []byte, op Operation) (string, error) {
	if e.useTool && op.usesExternalTool() {
		if out, err := e.tool.convert(data, op); err == nil {
			return decodeMarkdown(out), nil
		}
	}
	if op == DocxToMarkdown {
		return extractDocx(data)
	}
	return extractODT(data)
}

// markdownToContainer renders Markdown to a Word-style container,
// preferring the external tool and falling back to the native renderer.
func (e *Engine) markdownToContainer(body []byte) ([]byte, error) {
	if e.useTool {
		if out, err := e.tool.convert(body, MarkdownToDocx); err == nil {
			return out, nil
		}
	}
	return renderDocx(parseDocument(body))
}

// containerMIMEs are the sniffed types accepted as container input.
var containerMIMEs = map[string]bool{
	"application/zip": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.oasis.opendocument.text":                                 true,
}

// sniffContainer verifies the bytes look like a zip-based container before
// any converter touches them. OLE-era .doc files and arbitrary binaries
// fail here with the detected type in the error.
func sniffContainer(data []byte, format string) error {
	detected := mimetype.Detect(data)
	for m := detected; m != nil; m = m.Parent() {
		if containerMIMEs[m.String()] {
			return nil
		}
	}
	return &MalformedContainerError{Format: format, Reason: "detected type " + detected.String()}
}

// outputFilename swaps the source extension for the operation's target
// extension, keeping only the base name.
func outputFilename(filename string, op Operation) string {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." {
		base = "output"
	}
	return base + op.TargetExtension()
}
