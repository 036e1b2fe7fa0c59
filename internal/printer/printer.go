// Package printer renders a program back to its canonical textual form,
// per spec.md §4.5: 4-space indentation, one declaration per symbol in
// declaration order, and every Binop/Ternary fully parenthesized with no
// precedence awareness.
//
// The declaration-order iteration and fixed INDENT constant mirror
// original_source/src/implementation.py's print_program/print methods;
// the one-method-per-node-kind dispatch follows the teacher's own
// pkg/printer package shape (see printer_example_test.go).
package printer

import (
	"fmt"
	"strings"

	"github.com/natc-lang/natc/internal/ast"
	"github.com/natc-lang/natc/internal/symtab"
)

const indentUnit = "    "

// Printer renders a program and its symbol table back to source text.
type Printer struct {
	syms *symtab.Table
	out  strings.Builder
}

// New creates a Printer over syms.
func New(syms *symtab.Table) *Printer {
	return &Printer{syms: syms}
}

// Print renders prog deterministically.
func Print(prog *ast.Program, syms *symtab.Table) string {
	p := New(syms)
	return p.Print(prog)
}

func (p *Printer) Print(prog *ast.Program) string {
	fmt.Fprintf(&p.out, "program %s\n", prog.Name)
	for _, sym := range p.syms.InOrder() {
		fmt.Fprintf(&p.out, "%s %s\n", sym.Type, sym.Name)
	}
	p.out.WriteString("begin\n")
	for _, instr := range prog.Instructions {
		p.printInstruction(instr, 1)
	}
	p.out.WriteString("end\n")
	return p.out.String()
}

func (p *Printer) indent(level int) {
	p.out.WriteString(strings.Repeat(indentUnit, level))
}

func (p *Printer) printInstruction(instr ast.Instruction, level int) {
	switch n := instr.(type) {
	case *ast.Assign:
		p.indent(level)
		fmt.Fprintf(&p.out, "%s := %s\n", n.Target, p.expr(n.Value))
	case *ast.Read:
		p.indent(level)
		fmt.Fprintf(&p.out, "read(%s)\n", n.Target)
	case *ast.Write:
		p.indent(level)
		fmt.Fprintf(&p.out, "write(%s)\n", p.expr(n.Expr))
	case *ast.If:
		p.indent(level)
		fmt.Fprintf(&p.out, "if %s then\n", p.expr(n.Cond))
		for _, s := range n.Then {
			p.printInstruction(s, level+1)
		}
		if len(n.Else) > 0 {
			p.indent(level)
			p.out.WriteString("else\n")
			for _, s := range n.Else {
				p.printInstruction(s, level+1)
			}
		}
		p.indent(level)
		p.out.WriteString("endif\n")
	case *ast.While:
		p.indent(level)
		fmt.Fprintf(&p.out, "while %s do\n", p.expr(n.Cond))
		for _, s := range n.Body {
			p.printInstruction(s, level+1)
		}
		p.indent(level)
		p.out.WriteString("done\n")
	case *ast.Repeat:
		p.indent(level)
		fmt.Fprintf(&p.out, "repeat %s do\n", p.expr(n.Count))
		for _, s := range n.Body {
			p.printInstruction(s, level+1)
		}
		p.indent(level)
		p.out.WriteString("done\n")
	default:
		panic(fmt.Sprintf("printer: unhandled instruction %T", instr))
	}
}

// expr renders an expression with every Binop and Ternary fully
// parenthesized, matching spec.md §4.5's "no operator precedence
// awareness" rule.
func (p *Printer) expr(e ast.Expression) string {
	switch n := e.(type) {
	case *ast.Number:
		return fmt.Sprintf("%d", n.Value)
	case *ast.Boolean:
		if n.Value {
			return "true"
		}
		return "false"
	case *ast.Id:
		return n.Name
	case *ast.Not:
		return fmt.Sprintf("not %s", p.expr(n.Operand))
	case *ast.Binop:
		return fmt.Sprintf("(%s %s %s)", p.expr(n.Left), n.Op, p.expr(n.Right))
	case *ast.Ternary:
		return fmt.Sprintf("(%s ? %s : %s)", p.expr(n.Cond), p.expr(n.Then), p.expr(n.Else))
	default:
		panic(fmt.Sprintf("printer: unhandled expression %T", e))
	}
}
