package docmorph

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	reTrailingWhitespace = regexp.MustCompile(`[ \t]+\n`)
	reCRLF               = regexp.MustCompile(`\r\n?`)
	// 4 or more blank lines (5+ newlines in a row) collapse to exactly 2.
	reBlankLineRun = regexp.MustCompile(`\n{5,}`)
	// 3 or more blank lines directly after a heading line collapse to exactly 1.
	reHeadingGap = regexp.MustCompile(`(?m)^(#{1,6} [^\n]*)\n{4,}`)
)

// normalizeMarkdown applies the output cleanup pass to extracted or generated
// Markdown:
//   - Ensure valid UTF-8
//   - Normalize line endings (CRLF -> LF)
//   - Strip non-printable/control characters (keep \n, \t)
//   - Strip trailing whitespace from each line
//   - Collapse 4+ consecutive blank lines to exactly 2
//   - Collapse 3+ blank lines after a heading line to exactly 1
//   - Trim leading/trailing whitespace from the final output
//
// The pass is idempotent: applying it twice yields the same text.
func normalizeMarkdown(s string) string {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}

	s = reCRLF.ReplaceAllString(s, "\n")

	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)

	// Trailing newline so the last line is covered by the line-level regexes
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	s = reTrailingWhitespace.ReplaceAllString(s, "\n")

	// Blank-line collapsing, general rule first, heading rule second
	s = reBlankLineRun.ReplaceAllString(s, "\n\n\n")
	s = reHeadingGap.ReplaceAllString(s, "$1\n\n")

	return strings.TrimSpace(s)
}
