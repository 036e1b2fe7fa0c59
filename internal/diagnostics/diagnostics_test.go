package diagnostics

import (
	"strings"
	"testing"

	"github.com/natc-lang/natc/internal/token"
)

func TestErrorLineFormat(t *testing.T) {
	err := New(UndefinedVariable, token.Position{Line: 7, Column: 3}, "undefined variable: x")
	got := err.Error()
	want := "Line 7: Error: undefined variable: x"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatIncludesCaret(t *testing.T) {
	err := &Error{
		Kind:    TypeMismatch,
		Message: "type mismatch",
		Pos:     token.Position{Line: 2, Column: 5},
		Source:  "natural x\nx := true",
	}
	out := err.Format(false)
	if !strings.Contains(out, "x := true") {
		t.Errorf("expected formatted output to include the source line, got %q", out)
	}
	if !strings.Contains(out, "^") {
		t.Errorf("expected formatted output to include a caret, got %q", out)
	}
}

func TestFormatAllMultiple(t *testing.T) {
	errs := []*Error{
		New(Redeclaration, token.Position{Line: 1}, "first"),
		New(TypeMismatch, token.Position{Line: 2}, "second"),
	}
	out := FormatAll(errs, false)
	if !strings.Contains(out, "2 error(s)") {
		t.Errorf("expected error count header, got %q", out)
	}
}
