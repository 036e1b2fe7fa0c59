// Package optimizer implements the constant-propagation and algebraic
// rewriter described in spec.md §4.3: a single straight-line walk over
// an instruction list that tracks, per variable, either a known constant
// or an opaque state, folding and rewriting expressions bottom-up.
//
// The walk faithfully preserves two quirks of the original prototype
// that spec.md flags as open questions rather than bugs to fix: a later
// assignment inside a loop body does not retroactively invalidate a
// `known` fact recorded before the loop was entered, and entering a
// While/Repeat body never joins against an exit state — the body is
// optimized once, against whatever the opt-table held on entry. Both are
// inherited straight-line behavior, not something this package works
// around; see original_source/src/optimizer.py's own `OptStruct` walk,
// which has the identical shape.
package optimizer

import (
	"github.com/natc-lang/natc/internal/ast"
	"github.com/natc-lang/natc/internal/eval"
	"github.com/natc-lang/natc/internal/types"
)

// fold is the result descriptor spec.md §4.3 calls
// {optimizable, value, type}.
type fold struct {
	optimizable bool
	value       uint32
	typ         types.Type
}

// state is one variable's optimizability-table entry.
type state struct {
	known bool
	value uint32
	typ   types.Type
}

// optimizer holds no state of its own beyond the recursion; the live
// opt-table is threaded explicitly so callers can see exactly what is
// shared across If/While/Repeat bodies (see the package doc).
type optimizer struct{}

// Optimize rewrites prog's instructions in place.
func Optimize(prog *ast.Program) {
	o := &optimizer{}
	opt := make(map[string]*state)
	for _, instr := range prog.Instructions {
		o.optimizeInstruction(instr, opt)
	}
}

func (o *optimizer) optimizeInstruction(instr ast.Instruction, opt map[string]*state) {
	switch n := instr.(type) {
	case *ast.Assign:
		newVal, f := o.optimizeExpr(n.Value, opt)
		n.Value = newVal
		if f.optimizable {
			opt[n.Target] = &state{known: true, value: f.value, typ: f.typ}
		} else {
			opt[n.Target] = &state{known: false}
		}
	case *ast.Read:
		opt[n.Target] = &state{known: false}
	case *ast.Write:
		newExpr, _ := o.optimizeExpr(n.Expr, opt)
		n.Expr = newExpr
	case *ast.If:
		newCond, _ := o.optimizeExpr(n.Cond, opt)
		n.Cond = newCond
		for _, s := range n.Then {
			o.optimizeInstruction(s, opt)
		}
		for _, s := range n.Else {
			o.optimizeInstruction(s, opt)
		}
	case *ast.While:
		newCond, _ := o.optimizeExpr(n.Cond, opt)
		n.Cond = newCond
		for _, s := range n.Body {
			o.optimizeInstruction(s, opt)
		}
	case *ast.Repeat:
		newCount, _ := o.optimizeExpr(n.Count, opt)
		n.Count = newCount
		for _, s := range n.Body {
			o.optimizeInstruction(s, opt)
		}
	default:
		panic("optimizer: unhandled instruction")
	}
}

// optimizeExpr is the bottom-up expression rewriter. It returns the
// (possibly replaced) expression that should occupy the caller's slot,
// plus that expression's fold descriptor.
func (o *optimizer) optimizeExpr(e ast.Expression, opt map[string]*state) (ast.Expression, fold) {
	switch n := e.(type) {
	case *ast.Number:
		return n, fold{optimizable: true, value: n.Value, typ: types.NATURAL}
	case *ast.Boolean:
		return n, fold{optimizable: true, value: b2u(n.Value), typ: types.BOOLEAN}
	case *ast.Id:
		if st, ok := opt[n.Name]; ok && st.known {
			return literalFor(st.typ, st.value), fold{optimizable: true, value: st.value, typ: st.typ}
		}
		return n, fold{}
	case *ast.Not:
		return o.optimizeNot(n, opt)
	case *ast.Ternary:
		return o.optimizeTernary(n, opt)
	case *ast.Binop:
		return o.optimizeBinop(n, opt)
	default:
		panic("optimizer: unhandled expression")
	}
}

func (o *optimizer) optimizeNot(n *ast.Not, opt map[string]*state) (ast.Expression, fold) {
	newOperand, f := o.optimizeExpr(n.Operand, opt)
	n.Operand = newOperand
	if !f.optimizable {
		return n, fold{}
	}
	v := f.value == 0
	return &ast.Boolean{Line: n.Line, Value: v}, fold{optimizable: true, value: b2u(v), typ: types.BOOLEAN}
}

// optimizeTernary implements spec.md §4.3 rule 4 exactly: the unchosen
// branch is never visited by optimization (or, transitively, by the
// evaluator this package calls for folding) — see end-to-end scenario
// §8.6, where `(true ? 7 : 1/0)` must never trigger a division fault.
func (o *optimizer) optimizeTernary(n *ast.Ternary, opt map[string]*state) (ast.Expression, fold) {
	newCond, cf := o.optimizeExpr(n.Cond, opt)
	n.Cond = newCond

	if !cf.optimizable {
		return n, fold{}
	}

	if cf.value != 0 {
		newThen, tf := o.optimizeExpr(n.Then, opt)
		n.Then = newThen
		if tf.optimizable {
			return literalFor(tf.typ, tf.value), tf
		}
		return n, fold{}
	}

	newElse, ef := o.optimizeExpr(n.Else, opt)
	n.Else = newElse
	if ef.optimizable {
		return literalFor(ef.typ, ef.value), ef
	}
	return n, fold{}
}

func (o *optimizer) optimizeBinop(n *ast.Binop, opt map[string]*state) (ast.Expression, fold) {
	newLeft, lf := o.optimizeExpr(n.Left, opt)
	n.Left = newLeft
	newRight, rf := o.optimizeExpr(n.Right, opt)
	n.Right = newRight

	if lf.optimizable && rf.optimizable {
		v, err := eval.Apply(n.Op, lf.value, rf.value)
		if err != nil {
			// Division/modulus by zero discovered while folding two
			// known constants: leave the expression opaque rather than
			// fail compilation here — codegen still emits correct
			// (faulting-at-runtime) code for it.
			return n, fold{}
		}
		val := rawValue(v)
		return literalFor(v.Type, val), fold{optimizable: true, value: val, typ: v.Type}
	}

	if lf.optimizable != rf.optimizable {
		var cval uint32
		var nonConst ast.Expression
		var constOnLeft bool
		if lf.optimizable {
			cval, nonConst, constOnLeft = lf.value, n.Right, true
		} else {
			cval, nonConst, constOnLeft = rf.value, n.Left, false
		}

		if newExpr, f, ok := applyIdentity(n.Op, constOnLeft, cval, nonConst); ok {
			return newExpr, f
		}
		if n.Op.Flippable() {
			if hoisted, ok := hoistOneConst(n.Op, cval, nonConst); ok {
				return o.optimizeExpr(hoisted, opt)
			}
		}
		return n, fold{}
	}

	// Both sides opaque.
	if isSelfCancelOp(n.Op) {
		if leftID, ok := n.Left.(*ast.Id); ok {
			if rightID, ok := n.Right.(*ast.Id); ok && leftID.Name == rightID.Name {
				return selfCancel(n.Op, n.Left)
			}
		}
	}
	if n.Op.Flippable() {
		if hoisted, ok := hoistBothOpaque(n.Op, n.Left, n.Right); ok {
			return o.optimizeExpr(hoisted, opt)
		}
	}
	return n, fold{}
}

func rawValue(v eval.Value) uint32 {
	if v.Type == types.BOOLEAN {
		return b2u(v.Bool)
	}
	return v.Nat
}

func b2u(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

func literalFor(typ types.Type, value uint32) ast.Expression {
	if typ == types.BOOLEAN {
		return &ast.Boolean{Value: value != 0}
	}
	return &ast.Number{Value: value}
}

// classify reports whether e is already a literal node, and if so its
// raw value and type.
func classify(e ast.Expression) (value uint32, typ types.Type, isLiteral bool) {
	switch n := e.(type) {
	case *ast.Number:
		return n.Value, types.NATURAL, true
	case *ast.Boolean:
		return b2u(n.Value), types.BOOLEAN, true
	default:
		return 0, nil, false
	}
}

// applyIdentity implements spec.md §4.3's identity/absorbing-element
// table for the "exactly one side constant" case.
func applyIdentity(op ast.Op, constOnLeft bool, cval uint32, nonConst ast.Expression) (ast.Expression, fold, bool) {
	switch op {
	case ast.Add:
		if cval == 0 {
			return nonConst, fold{}, true
		}
	case ast.Sub:
		if !constOnLeft && cval == 0 {
			return nonConst, fold{}, true
		}
	case ast.Mul:
		if cval == 1 {
			return nonConst, fold{}, true
		}
	case ast.Div:
		if !constOnLeft && cval == 1 {
			return nonConst, fold{}, true
		}
	case ast.And:
		if cval == 1 {
			return nonConst, fold{}, true
		}
		if cval == 0 {
			return &ast.Boolean{Value: false}, fold{optimizable: true, value: 0, typ: types.BOOLEAN}, true
		}
	case ast.Or:
		if cval == 1 {
			return &ast.Boolean{Value: true}, fold{optimizable: true, value: 1, typ: types.BOOLEAN}, true
		}
		if cval == 0 {
			return nonConst, fold{}, true
		}
	}
	return nil, fold{}, false
}

// hoistOneConst handles spec.md §4.3's "exactly one side constant"
// hoisting rule: nonConst is itself a same-operator Binop with one
// literal child, so the two constants can be regrouped together.
func hoistOneConst(op ast.Op, cval uint32, nonConst ast.Expression) (ast.Expression, bool) {
	b, ok := nonConst.(*ast.Binop)
	if !ok || b.Op != op {
		return nil, false
	}
	if lv, lt, isLit := classify(b.Left); isLit {
		combined, err := eval.Apply(op, cval, lv)
		if err != nil {
			return nil, false
		}
		_ = lt
		return &ast.Binop{Op: op, Left: literalFor(combined.Type, rawValue(combined)), Right: b.Right}, true
	}
	if rv, rt, isLit := classify(b.Right); isLit {
		combined, err := eval.Apply(op, cval, rv)
		if err != nil {
			return nil, false
		}
		_ = rt
		return &ast.Binop{Op: op, Left: literalFor(combined.Type, rawValue(combined)), Right: b.Left}, true
	}
	return nil, false
}

// hoistBothOpaque handles the "both sides opaque" fallback hoist: one of
// the two operands is a same-operator Binop with a literal child; the
// opaque siblings combine first and the surviving constant is folded in
// on the subsequent recursive call.
func hoistBothOpaque(op ast.Op, left, right ast.Expression) (ast.Expression, bool) {
	if b, ok := left.(*ast.Binop); ok && b.Op == op {
		if lv, lt, isLit := classify(b.Left); isLit {
			newInner := &ast.Binop{Op: op, Left: b.Right, Right: right}
			return &ast.Binop{Op: op, Left: literalFor(lt, lv), Right: newInner}, true
		}
		if rv, rt, isLit := classify(b.Right); isLit {
			newInner := &ast.Binop{Op: op, Left: b.Left, Right: right}
			return &ast.Binop{Op: op, Left: literalFor(rt, rv), Right: newInner}, true
		}
	}
	if b, ok := right.(*ast.Binop); ok && b.Op == op {
		if lv, lt, isLit := classify(b.Left); isLit {
			newInner := &ast.Binop{Op: op, Left: left, Right: b.Right}
			return &ast.Binop{Op: op, Left: literalFor(lt, lv), Right: newInner}, true
		}
		if rv, rt, isLit := classify(b.Right); isLit {
			newInner := &ast.Binop{Op: op, Left: left, Right: b.Left}
			return &ast.Binop{Op: op, Left: literalFor(rt, rv), Right: newInner}, true
		}
	}
	return nil, false
}

func isSelfCancelOp(op ast.Op) bool {
	switch op {
	case ast.Sub, ast.Div, ast.Mod, ast.And, ast.Or:
		return true
	}
	return false
}

// selfCancel implements the "both sides opaque, syntactically identical
// Id" rewrites: x-x⇒0, x/x⇒1, x%x⇒0, x and x⇒x, x or x⇒x. The last two
// are not constants, so they fold to opaque — they just collapse the
// tree from a Binop down to the bare Id.
func selfCancel(op ast.Op, id ast.Expression) (ast.Expression, fold) {
	switch op {
	case ast.Sub:
		return &ast.Number{Value: 0}, fold{optimizable: true, value: 0, typ: types.NATURAL}
	case ast.Div:
		return &ast.Number{Value: 1}, fold{optimizable: true, value: 1, typ: types.NATURAL}
	case ast.Mod:
		return &ast.Number{Value: 0}, fold{optimizable: true, value: 0, typ: types.NATURAL}
	case ast.And, ast.Or:
		return id, fold{}
	default:
		panic("optimizer: selfCancel called with non-self-cancel op")
	}
}
