// Package diagnostics formats compiler errors with source context and
// optional ANSI coloring, following the caret-pointing style of the
// go-dws compiler this project is modeled on.
package diagnostics

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/natc-lang/natc/internal/token"
)

// Kind classifies a compile-time error (spec.md §7). All are fatal: the
// first one ends compilation.
type Kind string

const (
	Redeclaration     Kind = "Redeclaration"
	UndefinedVariable Kind = "UndefinedVariable"
	TypeMismatch      Kind = "TypeMismatch"
	LexicalError      Kind = "LexicalError"
)

// Error is a single compile-time diagnostic with position and source
// context.
type Error struct {
	Kind    Kind
	Message string
	Pos     token.Position
	Source  string
	File    string
}

// New builds an Error of the given kind at pos.
func New(kind Kind, pos token.Position, message string) *Error {
	return &Error{Kind: kind, Message: message, Pos: pos}
}

// Error implements the error interface using spec.md §6's required
// one-line format: "Line <N>: Error: <message>". Unlike the bug
// preserved in the original prototype (which drops the line number by
// reusing the same format placeholder twice), both values are always
// substituted.
func (e *Error) Error() string {
	return fmt.Sprintf("Line %d: Error: %s", e.Pos.Line, e.Message)
}

// Format renders the error with a source line and a caret pointing at
// the offending column. When color is true, the caret and message are
// wrapped in ANSI styling via fatih/color; Format never writes directly
// to a terminal, so callers decide whether color is appropriate (e.g. by
// checking os.Stderr is a TTY) before passing true.
func (e *Error) Format(useColor bool) string {
	var sb strings.Builder

	if e.File != "" {
		fmt.Fprintf(&sb, "Error in %s:%d:%d\n", e.File, e.Pos.Line, e.Pos.Column)
	} else {
		fmt.Fprintf(&sb, "Error at line %d:%d\n", e.Pos.Line, e.Pos.Column)
	}

	if line := e.sourceLine(e.Pos.Line); line != "" {
		prefix := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(prefix)+e.Pos.Column-1))
		caret := "^"
		if useColor {
			caret = color.New(color.FgRed, color.Bold).Sprint(caret)
		}
		sb.WriteString(caret)
		sb.WriteString("\n")
	}

	msg := e.Message
	if useColor {
		msg = color.New(color.Bold).Sprint(msg)
	}
	sb.WriteString(msg)

	return sb.String()
}

func (e *Error) sourceLine(lineNum int) string {
	if e.Source == "" {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// FormatAll renders one or more errors, each with a "[Error i of n]"
// header when there is more than one.
func FormatAll(errs []*Error, useColor bool) string {
	if len(errs) == 0 {
		return ""
	}
	if len(errs) == 1 {
		return errs[0].Format(useColor)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Compilation failed with %d error(s):\n\n", len(errs))
	for i, e := range errs {
		fmt.Fprintf(&sb, "[Error %d of %d]\n", i+1, len(errs))
		sb.WriteString(e.Format(useColor))
		if i < len(errs)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}
