package docmorph

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// stubRunner fakes subprocess execution for adapter tests.
type stubRunner struct {
	lookPath string
	lookErr  error

	gotBin  string
	gotArgs []string
	stderr  string
	runErr  error
	output  []byte // written to the -o target when the run "succeeds"
}

func (s *stubRunner) look(string) (string, error) {
	return s.lookPath, s.lookErr
}

func (s *stubRunner) run(bin string, args ...string) (string, error) {
	s.gotBin = bin
	s.gotArgs = args
	if s.runErr != nil {
		return s.stderr, s.runErr
	}
	for i, a := range args {
		if a == "-o" && i+1 < len(args) {
			if err := os.WriteFile(args[i+1], s.output, 0o600); err != nil {
				return "", err
			}
		}
	}
	return "", nil
}

func TestPandocUnavailable(t *testing.T) {
	orig := pandocProbePaths
	pandocProbePaths = nil
	defer func() { pandocProbePaths = orig }()

	tool := &pandocTool{runner: &stubRunner{lookErr: errors.New("not found")}}
	_, err := tool.convert([]byte("# hi"), MarkdownToDocx)
	var unavailable *ToolUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("err = %v, want ToolUnavailableError", err)
	}
	if unavailable.Tool != "pandoc" {
		t.Errorf("tool name = %q", unavailable.Tool)
	}
}

func TestPandocExplicitPathSkipsProbe(t *testing.T) {
	runner := &stubRunner{lookErr: errors.New("look must not be called"), output: []byte("ok")}
	tool := &pandocTool{path: "/custom/pandoc", runner: runner}

	out, err := tool.convert([]byte("# hi"), MarkdownToDocx)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if string(out) != "ok" {
		t.Errorf("output = %q", out)
	}
	if runner.gotBin != "/custom/pandoc" {
		t.Errorf("binary = %q, want the explicit path", runner.gotBin)
	}
}

func TestPandocArgumentTemplates(t *testing.T) {
	tests := []struct {
		op       Operation
		wantFrom string
		wantTo   string
		wantWrap bool
	}{
		{DocxToMarkdown, "docx", pandocMarkdown, true},
		{OdtToMarkdown, "odt", pandocMarkdown, true},
		{MarkdownToDocx, pandocMarkdown, "docx", false},
	}

	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			runner := &stubRunner{lookPath: "/usr/bin/pandoc", output: []byte("x")}
			tool := &pandocTool{runner: runner}

			if _, err := tool.convert([]byte("input"), tt.op); err != nil {
				t.Fatalf("convert: %v", err)
			}

			args := strings.Join(runner.gotArgs, " ")
			if !strings.Contains(args, "-f "+tt.wantFrom+" -t "+tt.wantTo) {
				t.Errorf("args %q missing format pair -f %s -t %s", args, tt.wantFrom, tt.wantTo)
			}
			if got := strings.Contains(args, "--wrap=none"); got != tt.wantWrap {
				t.Errorf("args %q: wrap flag present = %v, want %v", args, got, tt.wantWrap)
			}
		})
	}
}

func TestPandocReferenceTemplate(t *testing.T) {
	ref := filepath.Join(t.TempDir(), "reference.docx")
	if err := os.WriteFile(ref, []byte("template"), 0o600); err != nil {
		t.Fatal(err)
	}

	runner := &stubRunner{lookPath: "/usr/bin/pandoc", output: []byte("x")}
	tool := &pandocTool{runner: runner, referenceDoc: ref}
	if _, err := tool.convert([]byte("# hi"), MarkdownToDocx); err != nil {
		t.Fatalf("convert: %v", err)
	}
	args := strings.Join(runner.gotArgs, " ")
	if !strings.Contains(args, "--reference-doc "+ref) {
		t.Errorf("args %q missing reference template", args)
	}

	// A template that does not exist is silently skipped.
	runner2 := &stubRunner{lookPath: "/usr/bin/pandoc", output: []byte("x")}
	tool2 := &pandocTool{runner: runner2, referenceDoc: filepath.Join(t.TempDir(), "missing.docx")}
	if _, err := tool2.convert([]byte("# hi"), MarkdownToDocx); err != nil {
		t.Fatalf("convert: %v", err)
	}
	if strings.Contains(strings.Join(runner2.gotArgs, " "), "--reference-doc") {
		t.Error("missing template should not be passed to the tool")
	}
}

func TestPandocFailureCarriesStderr(t *testing.T) {
	runner := &stubRunner{
		lookPath: "/usr/bin/pandoc",
		runErr:   errors.New("exit status 1"),
		stderr:   "pandoc: unknown option\n",
	}
	tool := &pandocTool{runner: runner}

	_, err := tool.convert([]byte("input"), DocxToMarkdown)
	var failed *ToolFailedError
	if !errors.As(err, &failed) {
		t.Fatalf("err = %v, want ToolFailedError", err)
	}
	if failed.Stderr != "pandoc: unknown option" {
		t.Errorf("stderr = %q, want the captured stream", failed.Stderr)
	}
	if !strings.Contains(err.Error(), "unknown option") {
		t.Errorf("error message %q should include stderr text", err.Error())
	}
}

// Temp files must be gone after every exit path.
func TestPandocTempCleanup(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		runner := &stubRunner{lookPath: "/usr/bin/pandoc", output: []byte("x")}
		tool := &pandocTool{runner: runner}
		if _, err := tool.convert([]byte("input"), MarkdownToDocx); err != nil {
			t.Fatalf("convert: %v", err)
		}
		assertTempGone(t, runner.gotArgs)
	})

	t.Run("tool failure", func(t *testing.T) {
		runner := &stubRunner{lookPath: "/usr/bin/pandoc", runErr: errors.New("boom")}
		tool := &pandocTool{runner: runner}
		if _, err := tool.convert([]byte("input"), MarkdownToDocx); err == nil {
			t.Fatal("expected an error")
		}
		assertTempGone(t, runner.gotArgs)
	})
}

// assertTempGone checks that the scratch directory named in the argv has been
// removed.
func assertTempGone(t *testing.T, args []string) {
	t.Helper()
	if len(args) == 0 {
		t.Fatal("runner never invoked")
	}
	inPath := args[len(args)-1]
	if _, err := os.Stat(filepath.Dir(inPath)); !os.IsNotExist(err) {
		t.Errorf("temp dir %s still exists (stat err %v)", filepath.Dir(inPath), err)
	}
}

func TestPandocProbeCached(t *testing.T) {
	orig := pandocProbePaths
	pandocProbePaths = nil
	defer func() { pandocProbePaths = orig }()

	calls := 0
	runner := &countingLookRunner{onLook: func() { calls++ }}
	tool := &pandocTool{runner: runner}

	tool.available()
	tool.available()
	tool.available()
	if calls != 1 {
		t.Errorf("probe ran %d times, want 1", calls)
	}
}

type countingLookRunner struct {
	onLook func()
}

func (c *countingLookRunner) look(string) (string, error) {
	c.onLook()
	return "", errors.New("not found")
}

func (c *countingLookRunner) run(string, ...string) (string, error) {
	return "", errors.New("unexpected run")
}
