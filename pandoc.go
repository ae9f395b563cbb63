// Copyright 2026 Docmorph Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package docmorph

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
)

// pandocMarkdown is the Markdown flavor spoken on both sides of the tool
// boundary: strict core plus the constructs the document model covers.
const pandocMarkdown = "markdown_strict+fenced_code_blocks+pipe_tables+raw_html"

// pandocProbePaths are checked when the binary is not on PATH. Package
// variable so tests can redirect probing.
var pandocProbePaths = []string{
	"/usr/local/bin/pandoc",
	"/usr/bin/pandoc",
	"/opt/homebrew/bin/pandoc",
}

// commandRunner abstracts subprocess execution so the adapter can be tested
// without a pandoc install.
type commandRunner interface {
	look(name string) (string, error)
	run(bin string, args ...string) (stderr string, err error)
}

type execRunner struct{}

func (execRunner) look(name string) (string, error) {
	return exec.LookPath(name)
}

func (execRunner) run(bin string, args ...string) (string, error) {
	cmd := exec.Command(bin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stderr.String(), err
}

// pandocTool shells conversions out to pandoc when a binary can be found.
type pandocTool struct {
	path         string // explicit binary path, trusted without probing
	referenceDoc string
	runner       commandRunner

	probeOnce sync.Once
	probed    string
	probeErr  error
}

func newPandocTool() *pandocTool {
	return &pandocTool{runner: execRunner{}}
}

// available resolves the pandoc binary: explicit path, then PATH lookup,
// then the well-known install locations. The probe result is cached.
func (t *pandocTool) available() (string, error) {
	if t.path != "" {
		return t.path, nil
	}
	t.probeOnce.Do(func() {
		if p, err := t.runner.look("pandoc"); err == nil {
			t.probed = p
			return
		}
		for _, p := range pandocProbePaths {
			if _, err := os.Stat(p); err == nil {
				t.probed = p
				return
			}
		}
		t.probeErr = &ToolUnavailableError{Tool: "pandoc"}
	})
	return t.probed, t.probeErr
}

// convert round-trips the input through temp files and one pandoc run.
func (t *pandocTool) convert(input []byte, op Operation) ([]byte, error) {
	bin, err := t.available()
	if err != nil {
		return nil, err
	}

	inExt, outExt, from, to, ok := pandocPlan(op)
	if !ok {
		return nil, fmt.Errorf("no tool mapping for %s", op)
	}

	dir, err := os.MkdirTemp("", "docmorph-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	inPath := filepath.Join(dir, "input"+inExt)
	outPath := filepath.Join(dir, "output"+outExt)
	if err := os.WriteFile(inPath, input, 0o600); err != nil {
		return nil, fmt.Errorf("write temp input: %w", err)
	}

	args := []string{"-f", from, "-t", to}
	if op == DocxToMarkdown || op == OdtToMarkdown {
		args = append(args, "--wrap=none")
	}
	if op == MarkdownToDocx && t.referenceDoc != "" {
		if _, err := os.Stat(t.referenceDoc); err == nil {
			args = append(args, "--reference-doc", t.referenceDoc)
		}
	}
	args = append(args, "-o", outPath, inPath)

	stderr, err := t.runner.run(bin, args...)
	if err != nil {
		return nil, &ToolFailedError{Tool: "pandoc", Stderr: strings.TrimSpace(stderr), Err: err}
	}

	out, err := os.ReadFile(outPath)
	if err != nil {
		return nil, &ToolFailedError{Tool: "pandoc", Stderr: "produced no output file", Err: err}
	}
	return out, nil
}

// pandocPlan maps an operation to its temp-file extensions and format
// arguments.
func pandocPlan(op Operation) (inExt, outExt, from, to string, ok bool) {
	switch op {
	case DocxToMarkdown:
		return ".docx", ".md", "docx", pandocMarkdown, true
	case OdtToMarkdown:
		return ".odt", ".md", "odt", pandocMarkdown, true
	case MarkdownToDocx:
		return ".md", ".docx", pandocMarkdown, "docx", true
	}
	return "", "", "", "", false
}
