package ooxml

import (
	"archive/zip"
	"bytes"
	"testing"
)

func buildZip(t *testing.T, parts map[string]string) *zip.Reader {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, data := range parts {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(data)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("reopen zip: %v", err)
	}
	return zr
}

func TestReadFileFromZip(t *testing.T) {
	zr := buildZip(t, map[string]string{"word/document.xml": "<doc/>"})

	data, err := ReadFileFromZip(zr, "word/document.xml")
	if err != nil {
		t.Fatalf("ReadFileFromZip: %v", err)
	}
	if string(data) != "<doc/>" {
		t.Errorf("content = %q", data)
	}

	if _, err := ReadFileFromZip(zr, "missing.xml"); err == nil {
		t.Error("missing part should error")
	}
}

func TestParseRelationships(t *testing.T) {
	rels := `<?xml version="1.0"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://example/styles" Target="styles.xml"/>
  <Relationship Id="rId2" Type="http://example/hyperlink" Target="https://example.com" TargetMode="External"/>
</Relationships>`
	zr := buildZip(t, map[string]string{"word/_rels/document.xml.rels": rels})

	got, err := ParseRelationships(zr, "word/_rels/document.xml.rels")
	if err != nil {
		t.Fatalf("ParseRelationships: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("relationships = %d, want 2", len(got))
	}
	if got["rId2"].Target != "https://example.com" || got["rId2"].TargetMode != "External" {
		t.Errorf("rId2 = %+v", got["rId2"])
	}
}

func TestParseRelationshipsMissingPart(t *testing.T) {
	zr := buildZip(t, map[string]string{"other.xml": "<x/>"})
	got, err := ParseRelationships(zr, "word/_rels/document.xml.rels")
	if err != nil {
		t.Fatalf("missing part should yield empty map, got error %v", err)
	}
	if len(got) != 0 {
		t.Errorf("relationships = %d, want 0", len(got))
	}
}

func TestEscapeText(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{"a < b", "a &lt; b"},
		{"a & b > c", "a &amp; b &gt; c"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := EscapeText(tt.input); got != tt.want {
			t.Errorf("EscapeText(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
