package parser

import (
	"github.com/tsxlang/tsx/pkg/ast"
	"github.com/tsxlang/tsx/pkg/token"
)

// parseTypeAnnotation parses a type expression, entering with cur on its
// first token. Precedence, low to high: union (|) < intersection (&) <
// postfix (array/indexed-access).
func (p *Parser) parseTypeAnnotation() ast.TypeNode {
	return p.parseUnionType()
}

func (p *Parser) parseUnionType() ast.TypeNode {
	start := p.cur.Pos
	if p.curIs(token.PIPE) { // leading `|` is permitted before the first arm
		p.next()
	}
	first := p.parseIntersectionType()
	if !p.peekIs(token.PIPE) {
		return first
	}
	opts := []ast.TypeNode{first}
	for p.peekIs(token.PIPE) {
		p.next()
		p.next()
		opts = append(opts, p.parseIntersectionType())
	}
	return &ast.UnionType{Base: ast.NewBase(start, p.cur.Pos), Options: opts}
}

func (p *Parser) parseIntersectionType() ast.TypeNode {
	start := p.cur.Pos
	if p.curIs(token.AMP) {
		p.next()
	}
	first := p.parsePostfixType()
	if !p.peekIs(token.AMP) {
		return first
	}
	opts := []ast.TypeNode{first}
	for p.peekIs(token.AMP) {
		p.next()
		p.next()
		opts = append(opts, p.parsePostfixType())
	}
	return &ast.IntersectionType{Base: ast.NewBase(start, p.cur.Pos), Options: opts}
}

// parsePostfixType handles `T[]` (array) and `T[K]` (indexed access) applied
// left-to-right over a primary type.
func (p *Parser) parsePostfixType() ast.TypeNode {
	t := p.parsePrimaryType()
	for p.peekIs(token.LBRACK) {
		p.next()
		if p.peekIs(token.RBRACK) {
			p.next()
			t = &ast.ArrayType{Base: ast.NewBase(t.Pos(), p.cur.Pos), Element: t}
			continue
		}
		p.next()
		idx := p.parseTypeAnnotation()
		p.expect(token.RBRACK)
		t = &ast.IndexedAccessType{Base: ast.NewBase(t.Pos(), p.cur.Pos), Object: t, Index: idx}
	}
	return t
}

func (p *Parser) parsePrimaryType() ast.TypeNode {
	start := p.cur.Pos
	switch p.cur.Kind {
	case token.LPAREN:
		// Disambiguate a parenthesized type from a function type signature.
		if p.looksLikeFunctionType() {
			return p.parseFunctionType()
		}
		p.next()
		inner := p.parseTypeAnnotation()
		p.expect(token.RPAREN)
		return &ast.ParenType{Base: ast.NewBase(start, p.cur.Pos), Inner: inner}
	case token.LBRACK:
		return p.parseTupleType()
	case token.LBRACE:
		return p.parseObjectType()
	case token.KEYOF:
		p.next()
		operand := p.parsePostfixType()
		return &ast.KeyofType{Base: ast.NewBase(start, p.cur.Pos), Operand: operand}
	case token.STRING:
		return &ast.LiteralType{Base: ast.NewBase(start, start), Raw: p.cur.Lexeme}
	case token.NUMBER:
		return &ast.LiteralType{Base: ast.NewBase(start, start), Raw: p.cur.Lexeme}
	case token.TRUE, token.FALSE:
		return &ast.LiteralType{Base: ast.NewBase(start, start), Raw: p.cur.Lexeme}
	case token.VOID, token.ANY, token.NEVER, token.IDENT, token.THIS:
		return p.parseNamedType()
	case token.NEW:
		// constructor type `new (args) => T`, treated as a function type.
		p.next()
		return p.parseFunctionType()
	}
	p.addError("unexpected token in type annotation: "+p.cur.Lexeme, p.cur.Pos)
	return &ast.NamedType{Base: ast.NewBase(start, start), Name: "any"}
}

func (p *Parser) parseNamedType() ast.TypeNode {
	start := p.cur.Pos
	name := p.cur.Lexeme
	var args []ast.TypeNode
	if p.peekIs(token.LT) {
		p.next()
		p.next()
		for !p.curIs(token.GT) {
			args = append(args, p.parseTypeAnnotation())
			if p.peekIs(token.COMMA) {
				p.next()
				p.next()
			} else {
				p.next()
			}
		}
	}
	return &ast.NamedType{Base: ast.NewBase(start, p.cur.Pos), Name: name, TypeArgs: args}
}

func (p *Parser) parseTupleType() ast.TypeNode {
	start := p.cur.Pos
	var elems []ast.TypeNode
	for !p.peekIs(token.RBRACK) {
		p.next()
		elems = append(elems, p.parseTypeAnnotation())
		if p.peekIs(token.COMMA) {
			p.next()
		} else {
			break
		}
	}
	p.expect(token.RBRACK)
	return &ast.TupleType{Base: ast.NewBase(start, p.cur.Pos), Elements: elems}
}

func (p *Parser) parseObjectType() ast.TypeNode {
	start := p.cur.Pos
	var props []ast.ObjectTypeProperty
	for !p.peekIs(token.RBRACE) {
		p.next()
		if p.curIs(token.SEMICOLON) || p.curIs(token.COMMA) {
			continue
		}
		// index signature: [key: string]: T
		if p.curIs(token.LBRACK) {
			p.next()
			p.next() // skip index var name
			p.expect(token.COLON)
			p.next()
			keyKind := "string"
			switch p.cur.Kind {
			case token.NUMBER:
				keyKind = "number"
			}
			name := p.cur.Lexeme
			_ = name
			p.expect(token.RBRACK)
			p.expect(token.COLON)
			p.next()
			valType := p.parseTypeAnnotation()
			props = append(props, ast.ObjectTypeProperty{IsIndex: true, IndexKeyKind: keyKind, Type: valType})
			if p.peekIs(token.SEMICOLON) || p.peekIs(token.COMMA) {
				p.next()
			}
			continue
		}
		readonly := false
		if p.curIs(token.READONLY) {
			readonly = true
			p.next()
		}
		propName := p.cur.Lexeme
		optional := false
		if p.peekIs(token.QUESTION) {
			p.next()
			optional = true
		}
		p.expect(token.COLON)
		p.next()
		propType := p.parseTypeAnnotation()
		props = append(props, ast.ObjectTypeProperty{Name: propName, Optional: optional, Readonly: readonly, Type: propType})
		if p.peekIs(token.SEMICOLON) || p.peekIs(token.COMMA) {
			p.next()
		}
	}
	p.expect(token.RBRACE)
	return &ast.ObjectType{Base: ast.NewBase(start, p.cur.Pos), Properties: props}
}

// looksLikeFunctionType peeks ahead to decide whether a `(` starts a
// function type `(a: T) => R` rather than a parenthesized type, then
// restores lexer/parser state exactly, mirroring the expression parser's
// arrow disambiguation.
func (p *Parser) looksLikeFunctionType() bool {
	save := p.l.SaveState()
	curSave, peekSave := p.cur, p.peek
	depth := 0
	isFn := false
	for {
		if p.curIs(token.LPAREN) {
			depth++
		} else if p.curIs(token.RPAREN) {
			depth--
			if depth == 0 {
				isFn = p.peekIs(token.ARROW)
				break
			}
		} else if p.curIs(token.EOF) {
			break
		}
		p.next()
	}
	p.l.RestoreState(save)
	p.cur, p.peek = curSave, peekSave
	return isFn
}

func (p *Parser) parseFunctionType() ast.TypeNode {
	start := p.cur.Pos
	p.expect(token.LPAREN)
	params := p.parseParamList()
	p.expect(token.RPAREN)
	p.expect(token.ARROW)
	p.next()
	ret := p.parseTypeAnnotation()
	return &ast.FunctionType{Base: ast.NewBase(start, p.cur.Pos), Params: params, Return: ret}
}

// parseTypeParams parses `<T extends C = D, ...>` generic declarations. cur
// is positioned on the first type-parameter name on entry.
func (p *Parser) parseTypeParams() []ast.TypeParam {
	var out []ast.TypeParam
	for !p.curIs(token.GT) {
		tp := ast.TypeParam{Name: p.cur.Lexeme}
		if p.peekIs(token.EXTENDS) || p.peekIs(token.GENERIC_EXTENDS) {
			p.next()
			p.next()
			tp.Constraint = p.parseTypeAnnotation()
		}
		if p.peekIs(token.ASSIGN) {
			p.next()
			p.next()
			tp.Default = p.parseTypeAnnotation()
		}
		out = append(out, tp)
		if p.peekIs(token.COMMA) {
			p.next()
			p.next()
		} else {
			p.next()
		}
	}
	return out
}
