// Package semantic implements the post-order type checker described in
// spec.md §4.2, walking a parsed *ast.Program against its *symtab.Table.
// No errors are recovered (spec.md §7): the walk halts at the first
// diagnostic, so Check reports at most one diagnostics.Error, naming the
// earliest offending line.
//
// The walk shape — one check method per AST case, returning the
// expression's type or nil on failure — follows the teacher's semantic
// checker (internal/semantic/checker.go in go-dws).
package semantic

import (
	"fmt"

	"github.com/natc-lang/natc/internal/ast"
	"github.com/natc-lang/natc/internal/diagnostics"
	"github.com/natc-lang/natc/internal/symtab"
	"github.com/natc-lang/natc/internal/token"
	"github.com/natc-lang/natc/internal/types"
)

// Checker type-checks a program against its symbol table.
type Checker struct {
	syms   *symtab.Table
	errors []*diagnostics.Error
	source string
}

// New creates a Checker over syms. source is used to attach source-line
// context to formatted diagnostics.
func New(syms *symtab.Table, source string) *Checker {
	return &Checker{syms: syms, source: source}
}

// Check walks prog and halts at the first diagnostic: per spec.md §7,
// no errors are recovered, so the result holds at most one *diagnostics.Error
// naming the earliest offending line. An empty result means prog is
// well-typed.
func Check(prog *ast.Program, syms *symtab.Table, source string) []*diagnostics.Error {
	c := New(syms, source)
	for _, instr := range prog.Instructions {
		if c.halted() {
			break
		}
		c.checkInstruction(instr)
	}
	return c.errors
}

// halted reports whether a diagnostic has already been recorded, at
// which point the walk must stop descending and reporting further.
func (c *Checker) halted() bool {
	return len(c.errors) > 0
}

func (c *Checker) report(kind diagnostics.Kind, line int, format string, args ...interface{}) {
	if c.halted() {
		return
	}
	e := diagnostics.New(kind, token.Position{Line: line}, fmt.Sprintf(format, args...))
	e.Source = c.source
	c.errors = append(c.errors, e)
}

func (c *Checker) checkInstruction(instr ast.Instruction) {
	if c.halted() {
		return
	}
	switch n := instr.(type) {
	case *ast.Assign:
		c.checkAssign(n)
	case *ast.Read:
		c.checkRead(n)
	case *ast.Write:
		c.checkWrite(n)
	case *ast.If:
		c.checkIf(n)
	case *ast.While:
		c.checkWhile(n)
	case *ast.Repeat:
		c.checkRepeat(n)
	default:
		panic(fmt.Sprintf("semantic: unhandled instruction %T", instr))
	}
}

func (c *Checker) checkAssign(n *ast.Assign) {
	rhs := c.checkExpr(n.Value)
	sym, ok := c.syms.Lookup(n.Target)
	if !ok {
		c.report(diagnostics.UndefinedVariable, n.Pos().Line, "undefined variable: %s", n.Target)
		return
	}
	if rhs != nil && !types.Equal(sym.Type, rhs) {
		c.report(diagnostics.TypeMismatch, n.Pos().Line, "cannot assign %s to %s %s", rhs, sym.Type, n.Target)
	}
}

func (c *Checker) checkRead(n *ast.Read) {
	if _, ok := c.syms.Lookup(n.Target); !ok {
		c.report(diagnostics.UndefinedVariable, n.Pos().Line, "undefined variable: %s", n.Target)
	}
}

func (c *Checker) checkWrite(n *ast.Write) {
	t := c.checkExpr(n.Expr)
	n.Type = t
}

func (c *Checker) checkIf(n *ast.If) {
	c.expectType(n.Cond, types.BOOLEAN, "if condition")
	for _, instr := range n.Then {
		if c.halted() {
			return
		}
		c.checkInstruction(instr)
	}
	for _, instr := range n.Else {
		if c.halted() {
			return
		}
		c.checkInstruction(instr)
	}
}

func (c *Checker) checkWhile(n *ast.While) {
	c.expectType(n.Cond, types.BOOLEAN, "while condition")
	for _, instr := range n.Body {
		if c.halted() {
			return
		}
		c.checkInstruction(instr)
	}
}

func (c *Checker) checkRepeat(n *ast.Repeat) {
	c.expectType(n.Count, types.NATURAL, "repeat count")
	for _, instr := range n.Body {
		if c.halted() {
			return
		}
		c.checkInstruction(instr)
	}
}

func (c *Checker) expectType(e ast.Expression, want types.Type, what string) {
	got := c.checkExpr(e)
	if got != nil && !types.Equal(got, want) {
		c.report(diagnostics.TypeMismatch, e.Pos().Line, "%s must be %s, got %s", what, want, got)
	}
}

// checkExpr type-checks e post-order and returns its type, or nil if a
// diagnostic was already reported for it (callers must not cascade
// further errors from a nil type).
func (c *Checker) checkExpr(e ast.Expression) types.Type {
	if c.halted() {
		return nil
	}
	switch n := e.(type) {
	case *ast.Number:
		return types.NATURAL
	case *ast.Boolean:
		return types.BOOLEAN
	case *ast.Id:
		sym, ok := c.syms.Lookup(n.Name)
		if !ok {
			c.report(diagnostics.UndefinedVariable, n.Pos().Line, "undefined variable: %s", n.Name)
			return nil
		}
		return sym.Type
	case *ast.Binop:
		return c.checkBinop(n)
	case *ast.Not:
		operand := c.checkExpr(n.Operand)
		if operand != nil && !types.Equal(operand, types.BOOLEAN) {
			c.report(diagnostics.TypeMismatch, n.Pos().Line, "not requires BOOLEAN, got %s", operand)
			return nil
		}
		return types.BOOLEAN
	case *ast.Ternary:
		return c.checkTernary(n)
	default:
		panic(fmt.Sprintf("semantic: unhandled expression %T", e))
	}
}

func (c *Checker) checkBinop(n *ast.Binop) types.Type {
	left := c.checkExpr(n.Left)
	right := c.checkExpr(n.Right)

	switch {
	case n.Op.Arithmetic():
		c.mustBe(n.Left, left, types.NATURAL)
		c.mustBe(n.Right, right, types.NATURAL)
		return types.NATURAL
	case n.Op.Order():
		c.mustBe(n.Left, left, types.NATURAL)
		c.mustBe(n.Right, right, types.NATURAL)
		return types.BOOLEAN
	case n.Op.Logical():
		c.mustBe(n.Left, left, types.BOOLEAN)
		c.mustBe(n.Right, right, types.BOOLEAN)
		return types.BOOLEAN
	case n.Op == ast.Eq:
		if left != nil && right != nil && !types.Equal(left, right) {
			c.report(diagnostics.TypeMismatch, n.Pos().Line, "= requires matching types, got %s and %s", left, right)
		}
		return types.BOOLEAN
	default:
		panic(fmt.Sprintf("semantic: unhandled operator %s", n.Op))
	}
}

func (c *Checker) mustBe(e ast.Expression, got types.Type, want types.Type) {
	if got != nil && !types.Equal(got, want) {
		c.report(diagnostics.TypeMismatch, e.Pos().Line, "expected %s, got %s", want, got)
	}
}

func (c *Checker) checkTernary(n *ast.Ternary) types.Type {
	c.expectType(n.Cond, types.BOOLEAN, "ternary condition")
	thenType := c.checkExpr(n.Then)
	elseType := c.checkExpr(n.Else)
	if thenType != nil && elseType != nil && !types.Equal(thenType, elseType) {
		c.report(diagnostics.TypeMismatch, n.Pos().Line, "ternary branches must match, got %s and %s", thenType, elseType)
		return nil
	}
	return thenType
}
