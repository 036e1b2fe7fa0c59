package parser

import (
	"testing"

	"github.com/natc-lang/natc/internal/ast"
	"github.com/natc-lang/natc/internal/diagnostics"
)

func parseOK(t *testing.T, src string) (*ast.Program, *Parser) {
	t.Helper()
	p := New(src)
	prog := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}
	return prog, p
}

func TestParseMinimalProgram(t *testing.T) {
	src := `program empty
begin
end`
	prog, _ := parseOK(t, src)
	if prog.Name != "empty" {
		t.Errorf("got name %q, want empty", prog.Name)
	}
	if len(prog.Instructions) != 0 {
		t.Errorf("expected no instructions, got %d", len(prog.Instructions))
	}
}

func TestParseDeclarationsAndSymbolTable(t *testing.T) {
	src := `program p
natural x
boolean y
begin
end`
	_, p := parseOK(t, src)
	syms := p.SymbolTable().InOrder()
	if len(syms) != 2 {
		t.Fatalf("got %d symbols, want 2", len(syms))
	}
	if syms[0].Name != "x" || syms[1].Name != "y" {
		t.Errorf("unexpected declaration order: %v", syms)
	}
	if syms[0].Label == syms[1].Label {
		t.Errorf("expected distinct labels, got %q twice", syms[0].Label)
	}
}

func TestRedeclarationIsReported(t *testing.T) {
	src := `program p
natural x
natural x
begin
end`
	p := New(src)
	p.ParseProgram()
	if len(p.Errors()) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(p.Errors()), p.Errors())
	}
	if p.Errors()[0].Kind != diagnostics.Redeclaration {
		t.Errorf("got kind %v, want Redeclaration", p.Errors()[0].Kind)
	}
}

func TestParseAssignReadWrite(t *testing.T) {
	src := `program p
natural x
begin
read(x)
x := x + 1
write(x)
end`
	prog, _ := parseOK(t, src)
	if len(prog.Instructions) != 3 {
		t.Fatalf("got %d instructions, want 3", len(prog.Instructions))
	}
	if _, ok := prog.Instructions[0].(*ast.Read); !ok {
		t.Errorf("instruction 0 is %T, want *ast.Read", prog.Instructions[0])
	}
	assign, ok := prog.Instructions[1].(*ast.Assign)
	if !ok {
		t.Fatalf("instruction 1 is %T, want *ast.Assign", prog.Instructions[1])
	}
	bin, ok := assign.Value.(*ast.Binop)
	if !ok || bin.Op != ast.Add {
		t.Errorf("expected x + 1, got %#v", assign.Value)
	}
	if _, ok := prog.Instructions[2].(*ast.Write); !ok {
		t.Errorf("instruction 2 is %T, want *ast.Write", prog.Instructions[2])
	}
}

func TestOperatorPrecedence(t *testing.T) {
	src := `program p
natural x
begin
x := 1 + 2 * 3
end`
	prog, _ := parseOK(t, src)
	assign := prog.Instructions[0].(*ast.Assign)
	top, ok := assign.Value.(*ast.Binop)
	if !ok || top.Op != ast.Add {
		t.Fatalf("expected top-level +, got %#v", assign.Value)
	}
	right, ok := top.Right.(*ast.Binop)
	if !ok || right.Op != ast.Mul {
		t.Fatalf("expected 2 * 3 nested on the right, got %#v", top.Right)
	}
}

func TestRelationalBelowArithmetic(t *testing.T) {
	src := `program p
boolean b
begin
b := 1 + 2 < 3 * 4
end`
	prog, _ := parseOK(t, src)
	assign := prog.Instructions[0].(*ast.Assign)
	top, ok := assign.Value.(*ast.Binop)
	if !ok || top.Op != ast.Lt {
		t.Fatalf("expected top-level <, got %#v", assign.Value)
	}
	if _, ok := top.Left.(*ast.Binop); !ok {
		t.Errorf("expected left side to be 1 + 2, got %#v", top.Left)
	}
	if _, ok := top.Right.(*ast.Binop); !ok {
		t.Errorf("expected right side to be 3 * 4, got %#v", top.Right)
	}
}

func TestAndOrPrecedence(t *testing.T) {
	src := `program p
boolean a
boolean b
boolean c
boolean d
begin
d := a or b and c
end`
	prog, _ := parseOK(t, src)
	assign := prog.Instructions[0].(*ast.Assign)
	top, ok := assign.Value.(*ast.Binop)
	if !ok || top.Op != ast.Or {
		t.Fatalf("expected top-level or, got %#v", assign.Value)
	}
	right, ok := top.Right.(*ast.Binop)
	if !ok || right.Op != ast.And {
		t.Fatalf("expected b and c nested on the right, got %#v", top.Right)
	}
}

func TestNotBindsTighterThanBinary(t *testing.T) {
	src := `program p
boolean a
boolean b
begin
b := not a and b
end`
	prog, _ := parseOK(t, src)
	assign := prog.Instructions[0].(*ast.Assign)
	top, ok := assign.Value.(*ast.Binop)
	if !ok || top.Op != ast.And {
		t.Fatalf("expected top-level and, got %#v", assign.Value)
	}
	if _, ok := top.Left.(*ast.Not); !ok {
		t.Errorf("expected left side to be not a, got %#v", top.Left)
	}
}

func TestParenGrouping(t *testing.T) {
	src := `program p
natural x
begin
x := (1 + 2) * 3
end`
	prog, _ := parseOK(t, src)
	assign := prog.Instructions[0].(*ast.Assign)
	top, ok := assign.Value.(*ast.Binop)
	if !ok || top.Op != ast.Mul {
		t.Fatalf("expected top-level *, got %#v", assign.Value)
	}
	if _, ok := top.Left.(*ast.Binop); !ok {
		t.Errorf("expected left side to be (1 + 2), got %#v", top.Left)
	}
}

func TestTernaryExpression(t *testing.T) {
	src := `program p
natural x
begin
x := (x > 0 ? 1 : 0)
end`
	prog, _ := parseOK(t, src)
	assign := prog.Instructions[0].(*ast.Assign)
	tern, ok := assign.Value.(*ast.Ternary)
	if !ok {
		t.Fatalf("expected ternary, got %#v", assign.Value)
	}
	if _, ok := tern.Cond.(*ast.Binop); !ok {
		t.Errorf("expected condition to be a binop, got %#v", tern.Cond)
	}
	if n, ok := tern.Then.(*ast.Number); !ok || n.Value != 1 {
		t.Errorf("expected then-branch 1, got %#v", tern.Then)
	}
	if n, ok := tern.Else.(*ast.Number); !ok || n.Value != 0 {
		t.Errorf("expected else-branch 0, got %#v", tern.Else)
	}
}

func TestIfWhileRepeatStructure(t *testing.T) {
	src := `program p
natural x
begin
if x > 0 then
  x := x - 1
else
  x := 0
endif
while x > 0 do
  x := x - 1
done
repeat 3 do
  x := x + 1
done
end`
	prog, _ := parseOK(t, src)
	if len(prog.Instructions) != 3 {
		t.Fatalf("got %d instructions, want 3", len(prog.Instructions))
	}
	ifStmt, ok := prog.Instructions[0].(*ast.If)
	if !ok {
		t.Fatalf("instruction 0 is %T, want *ast.If", prog.Instructions[0])
	}
	if len(ifStmt.Then) != 1 || len(ifStmt.Else) != 1 {
		t.Errorf("expected one instruction in each branch, got then=%d else=%d", len(ifStmt.Then), len(ifStmt.Else))
	}
	whileStmt, ok := prog.Instructions[1].(*ast.While)
	if !ok {
		t.Fatalf("instruction 1 is %T, want *ast.While", prog.Instructions[1])
	}
	if len(whileStmt.Body) != 1 {
		t.Errorf("expected one body instruction, got %d", len(whileStmt.Body))
	}
	repeatStmt, ok := prog.Instructions[2].(*ast.Repeat)
	if !ok {
		t.Fatalf("instruction 2 is %T, want *ast.Repeat", prog.Instructions[2])
	}
	if n, ok := repeatStmt.Count.(*ast.Number); !ok || n.Value != 3 {
		t.Errorf("expected repeat count 3, got %#v", repeatStmt.Count)
	}
}

func TestIfWithoutElseLeavesElseEmpty(t *testing.T) {
	src := `program p
natural x
begin
if x > 0 then
  x := 1
endif
end`
	prog, _ := parseOK(t, src)
	ifStmt := prog.Instructions[0].(*ast.If)
	if len(ifStmt.Else) != 0 {
		t.Errorf("expected empty else, got %d instructions", len(ifStmt.Else))
	}
}

func TestUnexpectedTokenIsReported(t *testing.T) {
	src := `program p
begin
+ 1
end`
	p := New(src)
	p.ParseProgram()
	if len(p.Errors()) == 0 {
		t.Fatalf("expected a parse error")
	}
}
