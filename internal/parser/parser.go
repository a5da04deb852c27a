// Package parser implements a recursive-descent, Pratt-style expression
// parser for tsx source.
//
// Grounded on the teacher's internal/parser package: a precedence table
// plus prefix/infix parse-function maps dispatch expression parsing
// (internal/parser/parser.go), and a token cursor carries lookahead state
// (internal/parser/cursor.go). TS-specific constructs (type annotations,
// generics) additionally follow the shape of
// other_examples/.../go-typescript-eslint parser.go.
package parser

import (
	"fmt"

	"github.com/tsxlang/tsx/internal/lexer"
	"github.com/tsxlang/tsx/pkg/ast"
	"github.com/tsxlang/tsx/pkg/token"
)

// Precedence levels, lowest to highest.
const (
	_ int = iota
	LOWEST
	COMMA
	ASSIGN
	CONDITIONAL
	COALESCE
	OR
	AND
	BITOR
	BITXOR
	BITAND
	EQUALS
	LESSGREATER
	SHIFT
	SUM
	PRODUCT
	EXPONENT
	UNARY
	UPDATE
	CALL
	MEMBER
)

var precedences = map[token.Kind]int{
	token.ASSIGN: ASSIGN, token.PLUS_ASSIGN: ASSIGN, token.MINUS_ASSIGN: ASSIGN,
	token.STAR_ASSIGN: ASSIGN, token.SLASH_ASSIGN: ASSIGN, token.PERCENT_ASSIGN: ASSIGN,
	token.QUESTION: CONDITIONAL,
	token.QUESTION_QUESTION: COALESCE,
	token.OR_OR:             OR,
	token.AND_AND:           AND,
	token.PIPE:              BITOR,
	token.CARET:             BITXOR,
	token.AMP:               BITAND,
	token.EQ: EQUALS, token.NEQ: EQUALS, token.EQ_STRICT: EQUALS, token.NEQ_STRICT: EQUALS,
	token.LT: LESSGREATER, token.GT: LESSGREATER, token.LE: LESSGREATER, token.GE: LESSGREATER,
	token.INSTANCEOF: LESSGREATER, token.IN: LESSGREATER,
	token.SHL: SHIFT, token.SHR: SHIFT,
	token.PLUS: SUM, token.MINUS: SUM,
	token.STAR: PRODUCT, token.SLASH: PRODUCT, token.PERCENT: PRODUCT,
	token.STAR_STAR: EXPONENT,
	token.LPAREN:    CALL,
	token.LBRACK:    MEMBER,
	token.DOT:       MEMBER,
	token.QUESTION_DOT: MEMBER,
	token.AS:        LESSGREATER,
}

// Error is a single parse error.
type Error struct {
	Message string
	Pos     token.Position
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at %d:%d", e.Message, e.Pos.Line, e.Pos.Column)
}

type prefixFn func() ast.Expression
type infixFn func(ast.Expression) ast.Expression

// Parser parses a token stream from a Lexer into an *ast.Program.
type Parser struct {
	l      *lexer.Lexer
	cur    token.Token
	peek   token.Token
	errors []*Error

	strict bool // current strict-mode flag, inherited into nested functions

	prefixFns map[token.Kind]prefixFn
	infixFns  map[token.Kind]infixFn
}

// New creates a Parser over l and primes the first two tokens.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.prefixFns = map[token.Kind]prefixFn{}
	p.infixFns = map[token.Kind]infixFn{}
	p.registerExpressionParsers()
	p.next()
	p.next()
	return p
}

func (p *Parser) Errors() []*Error { return p.errors }

func (p *Parser) addError(msg string, pos token.Position) {
	p.errors = append(p.errors, &Error{Message: msg, Pos: pos})
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) curIs(k token.Kind) bool  { return p.cur.Kind == k }
func (p *Parser) peekIs(k token.Kind) bool { return p.peek.Kind == k }

func (p *Parser) expect(k token.Kind) bool {
	if p.peekIs(k) {
		p.next()
		return true
	}
	p.addError(fmt.Sprintf("expected next token to be %v, got %v (%q)", k, p.peek.Kind, p.peek.Lexeme), p.peek.Pos)
	return false
}

// consumeSemicolon implements automatic-semicolon-insertion-lite: a `;` is
// consumed if present, otherwise statement termination is permissive at a
// `}` / EOF / newline boundary (tsx does not model ASI edge cases beyond
// this — the test corpus always has explicit semicolons for ambiguous
// cases).
func (p *Parser) consumeSemicolon() {
	if p.peekIs(token.SEMICOLON) {
		p.next()
	}
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peek.Kind]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.cur.Kind]; ok {
		return pr
	}
	return LOWEST
}

// ParseProgram parses a full file: directive prologue, then statements.
// It classifies the file as a module if any top-level import/export is
// seen (spec.md §4.8).
func ParseProgram(l *lexer.Lexer) (*ast.Program, []*Error) {
	p := New(l)
	prog := &ast.Program{}
	startPos := p.cur.Pos

	prog.Directives = p.parseDirectivePrologue()
	if contains(prog.Directives, "use strict") {
		prog.Strict = true
		p.strict = true
		p.l.SetStrict(true)
	}

	for !p.curIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
			switch stmt.(type) {
			case *ast.ImportDecl, *ast.ExportDecl:
				prog.IsModule = true
			}
		}
		p.next()
	}

	for _, d := range l.Directives() {
		prog.References = append(prog.References, ast.Reference{Path: d.Path, Pos: d.Pos})
	}

	prog.StartPos = startPos
	prog.StopPos = p.cur.Pos
	return prog, p.errors
}

func contains(ss []string, s string) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}
	return false
}

// parseDirectivePrologue consumes the leading run of expression statements
// whose expression is a string literal (spec.md §4.2 Contracts).
func (p *Parser) parseDirectivePrologue() []string {
	var out []string
	for p.curIs(token.STRING) && (p.peekIs(token.SEMICOLON) || isStatementBoundary(p.peek.Kind)) {
		out = append(out, p.cur.Lexeme)
		if p.peekIs(token.SEMICOLON) {
			p.next()
		}
		p.next()
	}
	return out
}

func isStatementBoundary(k token.Kind) bool {
	switch k {
	case token.STRING, token.RBRACE, token.EOF:
		return true
	}
	return false
}
