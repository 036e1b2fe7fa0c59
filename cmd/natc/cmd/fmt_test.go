package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFormatSourceCanonicalizesSpacing(t *testing.T) {
	out, err := formatSource(`program p
natural x
begin
x := 1 + 2 * 3
end`, "<test>")
	if err != nil {
		t.Fatalf("formatSource: %v", err)
	}
	if !strings.Contains(out, "(1 + (2 * 3))") {
		t.Errorf("expected fully parenthesized output, got:\n%s", out)
	}
}

func TestFormatSourceReportsParseErrors(t *testing.T) {
	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stdout = w

	_, formatErr := formatSource(`program p
begin
x :=
end`, "<test>")

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	buf.ReadFrom(r)

	if formatErr == nil {
		t.Fatal("expected a parse error, got nil")
	}
	if !strings.HasPrefix(buf.String(), "Line ") {
		t.Errorf("expected the one-line stdout diagnostic, got %q", buf.String())
	}
}

func TestFormatFileWriteRewritesOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "p.nat")
	src := "program p\nnatural x\nbegin\nx := 1+2\nend"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	fmtWrite, fmtList, fmtDiff = true, false, false
	defer func() { fmtWrite, fmtList, fmtDiff = false, false, false }()

	if err := formatFile(path); err != nil {
		t.Fatalf("formatFile: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(got), "(1 + 2)") {
		t.Errorf("expected rewritten file to contain parenthesized expression, got:\n%s", got)
	}
}
