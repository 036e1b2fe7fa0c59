// Package symtab implements the while-language's flat, insertion-only
// symbol table and the monotonic label allocator shared between variable
// storage and control-flow targets.
package symtab

import (
	"fmt"

	"github.com/natc-lang/natc/internal/types"
)

// Symbol records one declared variable: its source line, name, primitive
// type, and generator-assigned storage label.
type Symbol struct {
	Line  int
	Name  string
	Type  types.Type
	Label string
}

// Table is the program's single, flat symbol table. Insertion happens
// only while the parser is recognizing declarations; every later stage
// treats it as read-only.
type Table struct {
	symbols map[string]*Symbol
	order   []string // declaration order, for the pretty-printer
	labels  *Labels
}

// New creates an empty symbol table backed by labels, the shared label
// counter also used for control-flow targets during code generation.
func New(labels *Labels) *Table {
	return &Table{symbols: make(map[string]*Symbol), labels: labels}
}

// Declare inserts a new symbol, assigning it the next label. It reports
// false if name is already declared (Redeclaration).
func (t *Table) Declare(line int, name string, typ types.Type) (*Symbol, bool) {
	if _, exists := t.symbols[name]; exists {
		return nil, false
	}
	sym := &Symbol{Line: line, Name: name, Type: typ, Label: t.labels.Next()}
	t.symbols[name] = sym
	t.order = append(t.order, name)
	return sym, true
}

// Lookup returns the symbol named name, or false if it was never
// declared (UndefinedVariable).
func (t *Table) Lookup(name string) (*Symbol, bool) {
	sym, ok := t.symbols[name]
	return sym, ok
}

// InOrder returns every symbol in declaration order.
func (t *Table) InOrder() []*Symbol {
	out := make([]*Symbol, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.symbols[name])
	}
	return out
}

// Labels is the single monotonic counter shared by symbol storage labels
// and by code-generation control-flow targets, so the order in which
// either draws a label is observable (and must be stable) in emitted
// assembly.
type Labels struct {
	next int
}

// NewLabels creates a counter that starts handing out label1.
func NewLabels() *Labels {
	return &Labels{next: 0}
}

// Next returns the next unique label, of the form "label<N>".
func (l *Labels) Next() string {
	l.next++
	return fmt.Sprintf("label%d", l.next)
}
