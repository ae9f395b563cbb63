package docmorph

import (
	"strings"
	"testing"
)

func TestNormalizeMarkdown(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "crlf to lf",
			input: "line1\r\nline2\r\nline3",
			want:  "line1\nline2\nline3",
		},
		{
			name:  "bare cr to lf",
			input: "line1\rline2",
			want:  "line1\nline2",
		},
		{
			name:  "trailing spaces stripped",
			input: "hello   \nworld\t\n",
			want:  "hello\nworld",
		},
		{
			name:  "four blank lines collapse to two",
			input: "a\n\n\n\n\nb",
			want:  "a\n\n\nb",
		},
		{
			name:  "six blank lines collapse to two",
			input: "a\n\n\n\n\n\n\nb",
			want:  "a\n\n\nb",
		},
		{
			name:  "three blank lines survive the general rule",
			input: "a\n\n\n\nb",
			want:  "a\n\n\n\nb",
		},
		{
			name:  "three blank lines after heading collapse to one",
			input: "# Title\n\n\n\nbody",
			want:  "# Title\n\nbody",
		},
		{
			name:  "one blank line after heading untouched",
			input: "# Title\n\nbody",
			want:  "# Title\n\nbody",
		},
		{
			name:  "control characters dropped",
			input: "he\x00ll\x07o",
			want:  "hello",
		},
		{
			name:  "tabs survive",
			input: "col1\tcol2",
			want:  "col1\tcol2",
		},
		{
			name:  "outer whitespace trimmed",
			input: "\n\n  text  \n\n",
			want:  "text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeMarkdown(tt.input); got != tt.want {
				t.Errorf("normalizeMarkdown(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// Applying the cleanup twice must equal applying it once.
func TestNormalizeMarkdownIdempotent(t *testing.T) {
	inputs := []string{
		"# Title\n\n\n\n\n\nbody\n\n\n\n\n\nmore",
		"a\r\nb\r\n\r\n\r\n\r\n\r\nc",
		"## Sub\n\n\n\n\n- item\n- item\n",
		strings.Repeat("line\n\n\n\n\n", 10),
		"",
		"plain",
	}
	for _, in := range inputs {
		once := normalizeMarkdown(in)
		twice := normalizeMarkdown(once)
		if once != twice {
			t.Errorf("cleanup not idempotent for %q:\n once: %q\ntwice: %q", in, once, twice)
		}
	}
}

func TestNormalizeMarkdownInvalidUTF8(t *testing.T) {
	got := normalizeMarkdown("ok\xff\xfe text")
	if strings.ContainsRune(got, '\uFFFD') {
		t.Errorf("invalid bytes should be dropped, got %q", got)
	}
	if !strings.Contains(got, "ok") || !strings.Contains(got, "text") {
		t.Errorf("valid text lost: %q", got)
	}
}
