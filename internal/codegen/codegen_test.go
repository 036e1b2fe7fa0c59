package codegen

import (
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/natc-lang/natc/internal/optimizer"
	"github.com/natc-lang/natc/internal/parser"
	"github.com/natc-lang/natc/internal/semantic"
)

func compileSource(t *testing.T, src string) string {
	t.Helper()
	p := parser.New(src)
	prog := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}
	if errs := semantic.Check(prog, p.SymbolTable(), src); len(errs) != 0 {
		t.Fatalf("unexpected type errors: %v", errs)
	}
	optimizer.Optimize(prog)
	gen := New(p.SymbolTable(), p.Labels())
	return gen.Generate(prog)
}

func TestPreambleAndExternDeclarations(t *testing.T) {
	out := compileSource(t, `program p
begin
end`)
	for _, want := range []string{
		"global main",
		"extern read_natural",
		"extern write_natural",
		"extern read_boolean",
		"extern write_boolean",
		"section .bss",
		"section .text",
		"main:",
		"xor eax,eax",
		"ret",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestBSSReservationSizesAndComments(t *testing.T) {
	out := compileSource(t, `program p
natural n
boolean b
begin
end`)
	if !strings.Contains(out, "resb 4\t; variable: n") {
		t.Errorf("expected a 4-byte reservation for n, got:\n%s", out)
	}
	if !strings.Contains(out, "resb 1\t; variable: b") {
		t.Errorf("expected a 1-byte reservation for b, got:\n%s", out)
	}
}

// Scenario 1: constant-folded write emits `mov eax,6`.
func TestConstantFoldedWriteEmitsLiteral(t *testing.T) {
	out := compileSource(t, `program p
natural x
begin
x := 1 + 2 + 3
write(x)
end`)
	if !strings.Contains(out, "mov eax,6") {
		t.Errorf("expected a folded literal mov eax,6, got:\n%s", out)
	}
}

func TestGreaterOrEqualEmitsCmovae(t *testing.T) {
	out := compileSource(t, `program p
natural x
boolean b
begin
read(x)
b := x >= 1
end`)
	if !strings.Contains(out, "cmovae ax,cx") {
		t.Errorf("expected cmovae for >=, got:\n%s", out)
	}
}

func TestEqualityChoosesCompareWidthByType(t *testing.T) {
	natOut := compileSource(t, `program p
natural x
natural y
boolean r
begin
read(x)
read(y)
r := x = y
end`)
	if !strings.Contains(natOut, "cmp eax,ecx") {
		t.Errorf("expected 32-bit compare for NATURAL =, got:\n%s", natOut)
	}

	boolOut := compileSource(t, `program p
boolean a
boolean b
boolean r
begin
read(a)
read(b)
r := a = b
end`)
	if !strings.Contains(boolOut, "cmp al,cl") {
		t.Errorf("expected byte compare for BOOLEAN =, got:\n%s", boolOut)
	}
}

func TestRepeatEmitsLoopTemplate(t *testing.T) {
	out := compileSource(t, `program p
natural n
begin
n := 10
repeat n do
  write(n)
done
end`)
	for _, want := range []string{"mov ecx,eax", "push ecx", "pop ecx", "loop label"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected repeat template to contain %q, got:\n%s", want, out)
		}
	}
}

func TestIfEmitsElseAndEndLabels(t *testing.T) {
	out := compileSource(t, `program p
boolean b
begin
read(b)
if b then
  write(1)
else
  write(2)
endif
end`)
	if !strings.Contains(out, "jne near label") {
		t.Errorf("expected a near-jump to the else label, got:\n%s", out)
	}
	if !strings.Contains(out, "jmp label") {
		t.Errorf("expected a jump to the end label, got:\n%s", out)
	}
}

func TestWhileEmitsBeginAndEndLabels(t *testing.T) {
	out := compileSource(t, `program p
natural x
begin
x := 0
while x < 3 do
  x := x + 1
done
end`)
	if !strings.Contains(out, "jmp label") {
		t.Errorf("expected a back-jump to the begin label, got:\n%s", out)
	}
}

func TestBooleanWriteMasksToOneBit(t *testing.T) {
	out := compileSource(t, `program p
boolean b
begin
read(b)
write(b)
end`)
	if !strings.Contains(out, "and eax,1") {
		t.Errorf("expected and eax,1 before a boolean write, got:\n%s", out)
	}
	if !strings.Contains(out, "call write_boolean") {
		t.Errorf("expected call write_boolean, got:\n%s", out)
	}
}

func TestLabelsAreUniquePerGeneration(t *testing.T) {
	out := compileSource(t, `program p
natural x
begin
x := 0
if x = 0 then
  x := 1
endif
if x = 1 then
  x := 2
endif
end`)
	seen := map[string]int{}
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasSuffix(line, ":") && strings.HasPrefix(line, "label") {
			seen[line]++
		}
	}
	for label, count := range seen {
		if count != 1 {
			t.Errorf("label %q defined %d times, want exactly once", label, count)
		}
	}
}

// End-to-end golden snapshot of a representative program exercising every
// instruction kind, arithmetic, comparisons and a ternary, to catch
// incidental template drift.
func TestFullProgramSnapshot(t *testing.T) {
	out := compileSource(t, `program everything
natural x
natural y
boolean flag
begin
read(x)
y := x + 1
flag := x >= y
if flag then
  write(x)
else
  while x > 0 do
    x := x - 1
  done
endif
repeat 3 do
  write(y)
done
y := (flag ? x : y)
end`)
	snaps.MatchSnapshot(t, out)
}
