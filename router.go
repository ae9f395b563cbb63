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

// Operation identifies one of the five conversion directions.
type Operation int

const (
	// PdfToMarkdown extracts Markdown structure from a PDF.
	PdfToMarkdown Operation = iota
	// DocxToMarkdown extracts Markdown from a Word-style XML container.
	DocxToMarkdown
	// OdtToMarkdown extracts Markdown from an OpenDocument container.
	OdtToMarkdown
	// MarkdownToPdf renders Markdown to paginated PDF layout.
	MarkdownToPdf
	// MarkdownToDocx renders Markdown to a styled Word-style container.
	MarkdownToDocx
)

func (op Operation) String() string {
	switch op {
	case PdfToMarkdown:
		return "pdf-to-markdown"
	case DocxToMarkdown:
		return "docx-to-markdown"
	case OdtToMarkdown:
		return "odt-to-markdown"
	case MarkdownToPdf:
		return "markdown-to-pdf"
	case MarkdownToDocx:
		return "markdown-to-docx"
	}
	return "unknown"
}

// SupportedExtensions returns the input extensions the router accepts, in
// table order.
func SupportedExtensions() []string {
	return []string{".pdf", ".docx", ".doc", ".odt", ".md", ".markdown"}
}

// ResolveOperation maps a lowercased source extension and an optional
// requested target format to a conversion operation. The target only
// disambiguates Markdown sources; every other extension pins the operation.
// Unrecognized extensions fail with UnsupportedFormatError before any byte of
// the input is inspected.
func ResolveOperation(ext, target string) (Operation, error) {
	switch strings.ToLower(ext) {
	case ".pdf":
		return PdfToMarkdown, nil
	case ".docx", ".doc":
		return DocxToMarkdown, nil
	case ".odt":
		return OdtToMarkdown, nil
	case ".md", ".markdown":
		if strings.ToLower(strings.TrimPrefix(target, ".")) == "docx" {
			return MarkdownToDocx, nil
		}
		return MarkdownToPdf, nil
	}
	return 0, &UnsupportedFormatError{Extension: strings.ToLower(ext)}
}

// TargetExtension returns the extension of the operation's output file.
func (op Operation) TargetExtension() string {
	switch op {
	case MarkdownToPdf:
		return ".pdf"
	case MarkdownToDocx:
		return ".docx"
	}
	return ".md"
}

// TargetMIME returns the MIME type of the operation's output.
func (op Operation) TargetMIME() string {
	return mimeByExtension(op.TargetExtension())
}

// SourceLabel returns the short format label of the operation's input, used
// in result metadata.
func (op Operation) SourceLabel() string {
	switch op {
	case PdfToMarkdown:
		return "pdf"
	case DocxToMarkdown:
		return "docx"
	case OdtToMarkdown:
		return "odt"
	}
	return "markdown"
}

// TargetLabel returns the short format label of the operation's output.
func (op Operation) TargetLabel() string {
	switch op {
	case MarkdownToPdf:
		return "pdf"
	case MarkdownToDocx:
		return "docx"
	}
	return "markdown"
}

// usesExternalTool reports whether the operation is a container conversion
// the external tool adapter can take over.
func (op Operation) usesExternalTool() bool {
	switch op {
	case DocxToMarkdown, OdtToMarkdown, MarkdownToDocx:
		return true
	}
	return false
}

// mimeByExtension returns the MIME type for a supported extension.
func mimeByExtension(ext string) string {
	switch strings.ToLower(ext) {
	case ".md", ".markdown":
		return "text/markdown"
	case ".pdf":
		return "application/pdf"
	case ".docx", ".doc":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".odt":
		return "application/vnd.oasis.opendocument.text"
	}
	return "application/octet-stream"
}
