// Package parser implements a recursive-descent Pratt parser for the
// while-language described in spec.md §6, producing the internal/ast
// tree and populating an internal/symtab.Table as declarations are
// recognized.
//
// The precedence table and prefix/infix-function-map shape mirror the
// teacher compiler's parser (internal/parser/parser.go in go-dws); the
// grammar and precedence levels themselves come straight from spec.md §6
// and from the original prototype's parser, which pins the same
// left-associative levels: or < and < = < relational < +- < */% < not.
package parser

import (
	"fmt"

	"github.com/natc-lang/natc/internal/ast"
	"github.com/natc-lang/natc/internal/diagnostics"
	"github.com/natc-lang/natc/internal/lexer"
	"github.com/natc-lang/natc/internal/symtab"
	"github.com/natc-lang/natc/internal/token"
	"github.com/natc-lang/natc/internal/types"
)

// Precedence levels, lowest to highest.
const (
	_ int = iota
	lowest
	orPrec
	andPrec
	eqPrec
	relPrec
	sumPrec
	productPrec
	prefixPrec
)

var precedences = map[token.Type]int{
	token.OR:      orPrec,
	token.AND:     andPrec,
	token.EQ:      eqPrec,
	token.LT:      relPrec,
	token.GT:      relPrec,
	token.LE:      relPrec,
	token.GE:      relPrec,
	token.PLUS:    sumPrec,
	token.MINUS:   sumPrec,
	token.STAR:    productPrec,
	token.SLASH:   productPrec,
	token.PERCENT: productPrec,
}

var binaryOps = map[token.Type]ast.Op{
	token.PLUS:    ast.Add,
	token.MINUS:   ast.Sub,
	token.STAR:    ast.Mul,
	token.SLASH:   ast.Div,
	token.PERCENT: ast.Mod,
	token.LT:      ast.Lt,
	token.GT:      ast.Gt,
	token.LE:      ast.Le,
	token.GE:      ast.Ge,
	token.AND:     ast.And,
	token.OR:      ast.Or,
	token.EQ:      ast.Eq,
}

// Parser turns a token stream into a *ast.Program and a *symtab.Table.
// Errors are accumulated rather than stopping at the first one, following
// the teacher's error-recovery style; compile drivers should still treat
// any accumulated error as fatal per spec.md §7.
type Parser struct {
	l      *lexer.Lexer
	cur    token.Token
	peek   token.Token
	errors []*diagnostics.Error
	syms   *symtab.Table
	labels *symtab.Labels
	source string
}

// New creates a Parser over input.
func New(input string) *Parser {
	labels := symtab.NewLabels()
	p := &Parser{
		l:      lexer.New(input),
		syms:   symtab.New(labels),
		labels: labels,
		source: input,
	}
	p.next()
	p.next()
	return p
}

// Errors returns every error accumulated while parsing.
func (p *Parser) Errors() []*diagnostics.Error { return p.errors }

// SymbolTable returns the table built while parsing declarations.
func (p *Parser) SymbolTable() *symtab.Table { return p.syms }

// Labels returns the shared label counter, so callers (codegen) can keep
// drawing from the same sequence.
func (p *Parser) Labels() *symtab.Labels { return p.labels }

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) curIs(t token.Type) bool  { return p.cur.Type == t }
func (p *Parser) peekIs(t token.Type) bool { return p.peek.Type == t }

func (p *Parser) expect(t token.Type) token.Token {
	tok := p.cur
	if !p.curIs(t) {
		p.errorf(p.cur.Pos, "expected %s, got %s (%q)", t, p.cur.Type, p.cur.Literal)
	} else {
		p.next()
	}
	return tok
}

func (p *Parser) errorf(pos token.Position, format string, args ...interface{}) {
	e := diagnostics.New(diagnostics.LexicalError, pos, fmt.Sprintf(format, args...))
	e.Source = p.source
	p.errors = append(p.errors, e)
}

func (p *Parser) semanticErrorf(kind diagnostics.Kind, pos token.Position, format string, args ...interface{}) {
	e := diagnostics.New(kind, pos, fmt.Sprintf(format, args...))
	e.Source = p.source
	p.errors = append(p.errors, e)
}

// ParseProgram parses a full "program ID decl* begin cmd* end" unit.
func (p *Parser) ParseProgram() *ast.Program {
	p.expect(token.PROGRAM)
	name := p.cur.Literal
	p.expect(token.IDENT)

	for p.curIs(token.BOOLEAN) || p.curIs(token.NATURAL) {
		p.parseDeclaration()
	}

	p.expect(token.BEGIN)
	instrs := p.parseInstructions(token.END)
	p.expect(token.END)

	return &ast.Program{Name: name, Instructions: instrs}
}

func (p *Parser) parseDeclaration() {
	line := p.cur.Pos
	var typ types.Type
	if p.curIs(token.BOOLEAN) {
		typ = types.BOOLEAN
	} else {
		typ = types.NATURAL
	}
	p.next()

	name := p.cur.Literal
	namePos := p.cur.Pos
	p.expect(token.IDENT)

	if _, ok := p.syms.Declare(line.Line, name, typ); !ok {
		p.semanticErrorf(diagnostics.Redeclaration, namePos, "variable already declared: %s", name)
	}
}

// parseInstructions parses commands until one of the given terminator
// tokens is reached (not consumed).
func (p *Parser) parseInstructions(terminators ...token.Type) []ast.Instruction {
	var instrs []ast.Instruction
	for !p.atAny(terminators) && !p.curIs(token.EOF) {
		instrs = append(instrs, p.parseInstruction())
	}
	return instrs
}

func (p *Parser) atAny(terminators []token.Type) bool {
	for _, t := range terminators {
		if p.curIs(t) {
			return true
		}
	}
	return false
}

func (p *Parser) parseInstruction() ast.Instruction {
	switch p.cur.Type {
	case token.READ:
		return p.parseRead()
	case token.WRITE:
		return p.parseWrite()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.REPEAT:
		return p.parseRepeat()
	case token.IDENT:
		return p.parseAssign()
	default:
		p.errorf(p.cur.Pos, "unexpected token %s (%q) at start of instruction", p.cur.Type, p.cur.Literal)
		p.next()
		return nil
	}
}

func (p *Parser) parseRead() ast.Instruction {
	line := p.cur.Pos
	p.next() // 'read'
	p.expect(token.LPAREN)
	name := p.cur.Literal
	p.expect(token.IDENT)
	p.expect(token.RPAREN)
	return &ast.Read{Line: line, Target: name}
}

func (p *Parser) parseWrite() ast.Instruction {
	line := p.cur.Pos
	p.next() // 'write'
	p.expect(token.LPAREN)
	expr := p.parseExpression(lowest)
	p.expect(token.RPAREN)
	return &ast.Write{Line: line, Expr: expr}
}

func (p *Parser) parseAssign() ast.Instruction {
	line := p.cur.Pos
	name := p.cur.Literal
	p.expect(token.IDENT)
	p.expect(token.ASSIGN)
	value := p.parseExpression(lowest)
	return &ast.Assign{Line: line, Target: name, Value: value}
}

func (p *Parser) parseIf() ast.Instruction {
	line := p.cur.Pos
	p.next() // 'if'
	cond := p.parseExpression(lowest)
	p.expect(token.THEN)
	thenBody := p.parseInstructions(token.ELSE, token.ENDIF)

	var elseBody []ast.Instruction
	if p.curIs(token.ELSE) {
		p.next()
		elseBody = p.parseInstructions(token.ENDIF)
	}
	p.expect(token.ENDIF)

	return &ast.If{Line: line, Cond: cond, Then: thenBody, Else: elseBody}
}

func (p *Parser) parseWhile() ast.Instruction {
	line := p.cur.Pos
	p.next() // 'while'
	cond := p.parseExpression(lowest)
	p.expect(token.DO)
	body := p.parseInstructions(token.DONE)
	p.expect(token.DONE)
	return &ast.While{Line: line, Cond: cond, Body: body}
}

func (p *Parser) parseRepeat() ast.Instruction {
	line := p.cur.Pos
	p.next() // 'repeat'
	count := p.parseExpression(lowest)
	p.expect(token.DO)
	body := p.parseInstructions(token.DONE)
	p.expect(token.DONE)
	return &ast.Repeat{Line: line, Count: count, Body: body}
}

// parseExpression is the Pratt-parser core: parse one prefix term, then
// keep folding in infix binary operators whose precedence exceeds prec.
func (p *Parser) parseExpression(prec int) ast.Expression {
	left := p.parsePrefix()

	for !p.curIs(token.EOF) && prec < p.curPrecedence() {
		op, ok := binaryOps[p.cur.Type]
		if !ok {
			break
		}
		line := p.cur.Pos
		opPrec := p.curPrecedence()
		p.next()
		right := p.parseExpression(opPrec)
		left = &ast.Binop{Line: line, Op: op, Left: left, Right: right}
	}

	return left
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.cur.Type]; ok {
		return prec
	}
	return lowest
}

func (p *Parser) parsePrefix() ast.Expression {
	switch p.cur.Type {
	case token.NUMBER:
		return p.parseNumber()
	case token.TRUE:
		line := p.cur.Pos
		p.next()
		return &ast.Boolean{Line: line, Value: true}
	case token.FALSE:
		line := p.cur.Pos
		p.next()
		return &ast.Boolean{Line: line, Value: false}
	case token.IDENT:
		line := p.cur.Pos
		name := p.cur.Literal
		p.next()
		return &ast.Id{Line: line, Name: name}
	case token.NOT:
		line := p.cur.Pos
		p.next()
		operand := p.parseExpression(prefixPrec)
		return &ast.Not{Line: line, Operand: operand}
	case token.LPAREN:
		return p.parseParenOrTernary()
	default:
		p.errorf(p.cur.Pos, "unexpected token %s (%q) in expression", p.cur.Type, p.cur.Literal)
		p.next()
		return nil
	}
}

func (p *Parser) parseNumber() ast.Expression {
	line := p.cur.Pos
	lit := p.cur.Literal
	p.next()
	var value uint64
	for _, ch := range lit {
		value = value*10 + uint64(ch-'0')
	}
	return &ast.Number{Line: line, Value: uint32(value)}
}

// parseParenOrTernary handles both "(" expr ")" grouping and the
// parenthesized ternary "(" expr "?" expr ":" expr ")" — spec.md §6
// requires the ternary's enclosing parens, so the two productions share
// a prefix and are disambiguated by whether '?' follows the first
// sub-expression.
func (p *Parser) parseParenOrTernary() ast.Expression {
	line := p.cur.Pos
	p.expect(token.LPAREN)
	first := p.parseExpression(lowest)

	if p.curIs(token.QUESTION) {
		p.next()
		thenExpr := p.parseExpression(lowest)
		p.expect(token.COLON)
		elseExpr := p.parseExpression(lowest)
		p.expect(token.RPAREN)
		return &ast.Ternary{Line: line, Cond: first, Then: thenExpr, Else: elseExpr}
	}

	p.expect(token.RPAREN)
	return first
}
