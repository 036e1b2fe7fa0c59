// Package ast defines the while-language's abstract syntax tree: six
// expression cases and six instruction cases, matching spec.md §3.
//
// Expression trees own their children exclusively — no sharing, no
// cycles — so the optimizer can rewrite a subtree in place by assigning
// through the *Expression slot its parent holds, rather than searching
// for the old node by identity.
package ast

import (
	"github.com/natc-lang/natc/internal/token"
	"github.com/natc-lang/natc/internal/types"
)

// Expression is any node that produces a value.
type Expression interface {
	Pos() token.Position
	exprNode()
}

// Instruction is any node that performs an action.
type Instruction interface {
	Pos() token.Position
	instrNode()
}

// Number is a literal natural number.
type Number struct {
	Line  token.Position
	Value uint32
}

func (n *Number) Pos() token.Position { return n.Line }
func (*Number) exprNode()             {}

// Boolean is a literal true/false.
type Boolean struct {
	Line  token.Position
	Value bool
}

func (b *Boolean) Pos() token.Position { return b.Line }
func (*Boolean) exprNode()             {}

// Id is an identifier reference.
type Id struct {
	Line token.Position
	Name string
}

func (i *Id) Pos() token.Position { return i.Line }
func (*Id) exprNode()             {}

// Op is a binary operator symbol.
type Op string

const (
	Add Op = "+"
	Sub Op = "-"
	Mul Op = "*"
	Div Op = "/"
	Mod Op = "%"
	Lt  Op = "<"
	Gt  Op = ">"
	Le  Op = "<="
	Ge  Op = ">="
	And Op = "and"
	Or  Op = "or"
	Eq  Op = "="
)

// Arithmetic is the set of operators expecting and producing NATURAL.
func (op Op) Arithmetic() bool {
	switch op {
	case Add, Sub, Mul, Div, Mod:
		return true
	}
	return false
}

// Order is the set of NATURAL-comparing operators producing BOOLEAN.
func (op Op) Order() bool {
	switch op {
	case Lt, Gt, Le, Ge:
		return true
	}
	return false
}

// Logical is the set of operators expecting and producing BOOLEAN.
func (op Op) Logical() bool {
	return op == And || op == Or
}

// Flippable is the associative+commutative subset that permits operand
// reordering for constant hoisting (spec.md §4.3).
func (op Op) Flippable() bool {
	switch op {
	case Add, Mul, And, Or:
		return true
	}
	return false
}

// Binop is a binary operator expression. Note '=' denotes equality, not
// assignment.
type Binop struct {
	Line  token.Position
	Op    Op
	Left  Expression
	Right Expression
}

func (b *Binop) Pos() token.Position { return b.Line }
func (*Binop) exprNode()             {}

// Not is boolean negation.
type Not struct {
	Line    token.Position
	Operand Expression
}

func (n *Not) Pos() token.Position { return n.Line }
func (*Not) exprNode()             {}

// Ternary is the "(c ? t : e)" conditional expression.
type Ternary struct {
	Line token.Position
	Cond Expression
	Then Expression
	Else Expression
}

func (tn *Ternary) Pos() token.Position { return tn.Line }
func (*Ternary) exprNode()              {}

// Assign is "name := expr".
type Assign struct {
	Line   token.Position
	Target string
	Value  Expression
}

func (a *Assign) Pos() token.Position { return a.Line }
func (*Assign) instrNode()            {}

// Read is "read(name)".
type Read struct {
	Line   token.Position
	Target string
}

func (r *Read) Pos() token.Position { return r.Line }
func (*Read) instrNode()            {}

// Write is "write(expr)". Type is populated by the type checker and
// consumed by codegen; it is the zero value until then.
type Write struct {
	Line token.Position
	Expr Expression
	Type types.Type
}

func (w *Write) Pos() token.Position { return w.Line }
func (*Write) instrNode()            {}

// If is "if cond then Then else Else endif". Else is empty (nil as built
// by the parser) when there is no else clause.
type If struct {
	Line token.Position
	Cond Expression
	Then []Instruction
	Else []Instruction
}

func (i *If) Pos() token.Position { return i.Line }
func (*If) instrNode()            {}

// While is "while cond do Body done".
type While struct {
	Line token.Position
	Cond Expression
	Body []Instruction
}

func (w *While) Pos() token.Position { return w.Line }
func (*While) instrNode()            {}

// Repeat is "repeat count do Body done". Count is evaluated exactly once.
type Repeat struct {
	Line  token.Position
	Count Expression
	Body  []Instruction
}

func (r *Repeat) Pos() token.Position { return r.Line }
func (*Repeat) instrNode()            {}

// Program is the root node: a name and the fully-parsed instruction list.
// The symbol table lives alongside it (see internal/symtab), built during
// parsing and read-only thereafter.
type Program struct {
	Name         string
	Instructions []Instruction
}
