package docmorph

import (
	"strings"

	"github.com/goccy/go-yaml"
)

// docMeta holds the document metadata a leading YAML block can carry.
type docMeta struct {
	Title string `yaml:"title"`
}

// splitFrontMatter removes a leading YAML block ("---" fenced, starting on
// the first line) from Markdown text and returns the parsed metadata and the
// remaining body. Text without a well-formed block passes through untouched.
// A block that fails to parse as YAML is still stripped so stray metadata
// never renders as body content; its fields are simply ignored.
func splitFrontMatter(text string) (docMeta, string) {
	var meta docMeta

	rest, ok := strings.CutPrefix(text, "---\n")
	if !ok {
		if text == "---" {
			return meta, ""
		}
		return meta, text
	}

	body := ""
	block, after, found := strings.Cut(rest, "\n---\n")
	if found {
		body = after
	} else if trimmed, ok := strings.CutSuffix(rest, "\n---"); ok {
		block = trimmed
	} else {
		// No closing fence: not front matter, keep everything
		return meta, text
	}

	if err := yaml.Unmarshal([]byte(block), &meta); err != nil {
		meta = docMeta{}
	}
	meta.Title = strings.TrimSpace(meta.Title)
	return meta, strings.TrimPrefix(body, "\n")
}
