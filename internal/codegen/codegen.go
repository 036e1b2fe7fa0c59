// Package codegen emits 32-bit x86 NASM assembly from a checked,
// optimized AST, per spec.md §4.4.
//
// One compileX method per node kind, accumulating into a
// strings.Builder, follows the teacher's syntax-directed code-emission
// style (internal/bytecode/compiler_expressions.go in go-dws); the
// instruction templates themselves come straight from spec.md §4.4,
// including its corrected operand convention (eax=left, ecx=right) for
// the push/pop sequence around a right-hand compile — see DESIGN.md's
// Open Question decision 1.
package codegen

import (
	"fmt"
	"strings"

	"github.com/natc-lang/natc/internal/ast"
	"github.com/natc-lang/natc/internal/symtab"
	"github.com/natc-lang/natc/internal/types"
)

// Generator emits assembly for a single compilation unit.
type Generator struct {
	syms   *symtab.Table
	labels *symtab.Labels
	out    strings.Builder
}

// New creates a Generator using syms for variable storage labels and
// labels for control-flow targets — the same counter the parser used
// while assigning storage labels, so the full sequence of draws is
// stable across a compilation (spec.md §4.1).
func New(syms *symtab.Table, labels *symtab.Labels) *Generator {
	return &Generator{syms: syms, labels: labels}
}

// Generate returns the full NASM source text for prog.
func (g *Generator) Generate(prog *ast.Program) string {
	g.emitPreamble()
	g.emitBSS()
	g.line("section .text")
	g.line("main:")
	for _, instr := range prog.Instructions {
		g.compileInstruction(instr)
	}
	g.line("\txor eax,eax")
	g.line("\tret")
	return g.out.String()
}

func (g *Generator) line(format string, args ...interface{}) {
	fmt.Fprintf(&g.out, format+"\n", args...)
}

func (g *Generator) emitPreamble() {
	g.line("global main")
	g.line("extern read_natural")
	g.line("extern write_natural")
	g.line("extern read_boolean")
	g.line("extern write_boolean")
	g.line("")
}

func (g *Generator) emitBSS() {
	g.line("section .bss")
	for _, sym := range g.syms.InOrder() {
		size := 4
		if sym.Type == types.BOOLEAN {
			size = 1
		}
		g.line("%s: resb %d\t; variable: %s", sym.Label, size, sym.Name)
	}
	g.line("")
}

func (g *Generator) nextLabel() string {
	return g.labels.Next()
}

func (g *Generator) compileInstruction(instr ast.Instruction) {
	switch n := instr.(type) {
	case *ast.Assign:
		g.compileAssign(n)
	case *ast.Read:
		g.compileRead(n)
	case *ast.Write:
		g.compileWrite(n)
	case *ast.If:
		g.compileIf(n)
	case *ast.While:
		g.compileWhile(n)
	case *ast.Repeat:
		g.compileRepeat(n)
	default:
		panic(fmt.Sprintf("codegen: unhandled instruction %T", instr))
	}
}

func (g *Generator) compileAssign(n *ast.Assign) {
	sym, ok := g.syms.Lookup(n.Target)
	if !ok {
		panic(fmt.Sprintf("codegen: assign to undeclared variable %s", n.Target))
	}
	g.compileExpr(n.Value)
	if sym.Type == types.BOOLEAN {
		g.line("\tmov [%s], al", sym.Label)
	} else {
		g.line("\tmov [%s], eax", sym.Label)
	}
}

func (g *Generator) compileRead(n *ast.Read) {
	sym, ok := g.syms.Lookup(n.Target)
	if !ok {
		panic(fmt.Sprintf("codegen: read of undeclared variable %s", n.Target))
	}
	if sym.Type == types.BOOLEAN {
		g.line("\tcall read_boolean")
		g.line("\tmov [%s], al", sym.Label)
	} else {
		g.line("\tcall read_natural")
		g.line("\tmov [%s], eax", sym.Label)
	}
}

func (g *Generator) compileWrite(n *ast.Write) {
	g.compileExpr(n.Expr)
	if n.Type == types.BOOLEAN {
		g.line("\tand eax,1")
		g.line("\tpush eax")
		g.line("\tcall write_boolean")
		return
	}
	g.line("\tpush eax")
	g.line("\tcall write_natural")
}

func (g *Generator) compileIf(n *ast.If) {
	elseLabel := g.nextLabel()
	endLabel := g.nextLabel()

	g.compileExpr(n.Cond)
	g.line("\tcmp al,1")
	g.line("\tjne near %s", elseLabel)
	for _, s := range n.Then {
		g.compileInstruction(s)
	}
	g.line("\tjmp %s", endLabel)
	g.line("%s:", elseLabel)
	for _, s := range n.Else {
		g.compileInstruction(s)
	}
	g.line("%s:", endLabel)
}

func (g *Generator) compileWhile(n *ast.While) {
	beginLabel := g.nextLabel()
	endLabel := g.nextLabel()

	g.line("%s:", beginLabel)
	g.compileExpr(n.Cond)
	g.line("\tcmp al,1")
	g.line("\tjne near %s", endLabel)
	for _, s := range n.Body {
		g.compileInstruction(s)
	}
	g.line("\tjmp %s", beginLabel)
	g.line("%s:", endLabel)
}

func (g *Generator) compileRepeat(n *ast.Repeat) {
	beginLabel := g.nextLabel()

	g.compileExpr(n.Count)
	g.line("\tmov ecx,eax")
	g.line("%s:", beginLabel)
	g.line("\tpush ecx")
	for _, s := range n.Body {
		g.compileInstruction(s)
	}
	g.line("\tpop ecx")
	g.line("\tloop %s", beginLabel)
}

// compileExpr emits e's evaluation, leaving its result in eax (NATURAL)
// or al (BOOLEAN), and returns the type of that result so callers that
// branch on it (Binop's `=`) can pick the right template. Write uses the
// type the checker recorded on the node instead.
func (g *Generator) compileExpr(e ast.Expression) types.Type {
	switch n := e.(type) {
	case *ast.Number:
		g.line("\tmov eax,%d", n.Value)
		return types.NATURAL
	case *ast.Boolean:
		v := 0
		if n.Value {
			v = 1
		}
		g.line("\tmov al,%d", v)
		return types.BOOLEAN
	case *ast.Id:
		sym, ok := g.syms.Lookup(n.Name)
		if !ok {
			panic(fmt.Sprintf("codegen: reference to undeclared variable %s", n.Name))
		}
		if sym.Type == types.BOOLEAN {
			g.line("\tmov al,[%s]", sym.Label)
		} else {
			g.line("\tmov eax,[%s]", sym.Label)
		}
		return sym.Type
	case *ast.Not:
		g.compileExpr(n.Operand)
		g.line("\txor al,1")
		return types.BOOLEAN
	case *ast.Ternary:
		return g.compileTernary(n)
	case *ast.Binop:
		return g.compileBinop(n)
	default:
		panic(fmt.Sprintf("codegen: unhandled expression %T", e))
	}
}

func (g *Generator) compileTernary(n *ast.Ternary) types.Type {
	elseLabel := g.nextLabel()
	endLabel := g.nextLabel()

	g.compileExpr(n.Cond)
	g.line("\tcmp al,1")
	g.line("\tjne near %s", elseLabel)
	thenType := g.compileExpr(n.Then)
	g.line("\tjmp %s", endLabel)
	g.line("%s:", elseLabel)
	g.compileExpr(n.Else)
	g.line("%s:", endLabel)
	return thenType
}

func (g *Generator) compileBinop(n *ast.Binop) types.Type {
	leftType := g.compileExpr(n.Left)
	g.line("\tpush eax")
	g.compileExpr(n.Right)
	g.line("\tmov ecx,eax")
	g.line("\tpop eax")

	switch {
	case n.Op == ast.Add:
		g.line("\tadd eax,ecx")
		return types.NATURAL
	case n.Op == ast.Sub:
		g.line("\tsub eax,ecx")
		return types.NATURAL
	case n.Op == ast.Mul:
		g.line("\txor edx,edx")
		g.line("\tmul ecx")
		return types.NATURAL
	case n.Op == ast.Div:
		g.line("\txor edx,edx")
		g.line("\tdiv ecx")
		return types.NATURAL
	case n.Op == ast.Mod:
		g.line("\txor edx,edx")
		g.line("\tdiv ecx")
		g.line("\tmov eax,edx")
		return types.NATURAL
	case n.Op == ast.Lt:
		g.compareAndSet("cmovb")
		return types.BOOLEAN
	case n.Op == ast.Le:
		g.compareAndSet("cmovbe")
		return types.BOOLEAN
	case n.Op == ast.Gt:
		g.compareAndSet("cmova")
		return types.BOOLEAN
	case n.Op == ast.Ge:
		g.compareAndSet("cmovae")
		return types.BOOLEAN
	case n.Op == ast.And:
		g.line("\tcmp al,1")
		g.line("\tcmove ax,cx")
		return types.BOOLEAN
	case n.Op == ast.Or:
		g.line("\tcmp al,0")
		g.line("\tcmove ax,cx")
		return types.BOOLEAN
	case n.Op == ast.Eq:
		if leftType == types.BOOLEAN {
			g.line("\tcmp al,cl")
		} else {
			g.line("\tcmp eax,ecx")
		}
		g.line("\tmov al,0")
		g.line("\tmov cx,1")
		g.line("\tcmove ax,cx")
		return types.BOOLEAN
	default:
		panic(fmt.Sprintf("codegen: unhandled operator %s", n.Op))
	}
}

func (g *Generator) compareAndSet(cmov string) {
	g.line("\tcmp eax,ecx")
	g.line("\tmov al,0")
	g.line("\tmov cx,1")
	g.line("\t%s ax,cx", cmov)
}
