package parser

import (
	"github.com/tsxlang/tsx/pkg/ast"
	"github.com/tsxlang/tsx/pkg/token"
)

// parseBindingPattern parses a let/const/var/parameter/catch binding target:
// a plain identifier or an array/object destructuring pattern. cur is the
// first token of the pattern on entry and the last on return.
func (p *Parser) parseBindingPattern() ast.Pattern {
	switch p.cur.Kind {
	case token.LBRACK:
		return p.parseArrayPattern()
	case token.LBRACE:
		return p.parseObjectPattern()
	default:
		return &ast.IdentifierPattern{Base: ast.NewBase(p.cur.Pos, p.cur.Pos), Name: p.cur.Lexeme}
	}
}

func (p *Parser) parseArrayPattern() ast.Pattern {
	start := p.cur.Pos
	var elems []ast.ArrayPatternElement
	for !p.peekIs(token.RBRACK) {
		if p.peekIs(token.COMMA) {
			elems = append(elems, ast.ArrayPatternElement{})
			p.next()
			continue
		}
		p.next()
		rest := false
		if p.curIs(token.DOTDOTDOT) {
			rest = true
			p.next()
		}
		sub := p.parseBindingPattern()
		var def ast.Expression
		if p.peekIs(token.ASSIGN) {
			p.next()
			p.next()
			def = p.parseAssignExpression()
		}
		elems = append(elems, ast.ArrayPatternElement{Pattern: sub, Default: def, Rest: rest})
		if p.peekIs(token.COMMA) {
			p.next()
		} else {
			break
		}
	}
	p.expect(token.RBRACK)
	return &ast.ArrayPattern{Base: ast.NewBase(start, p.cur.Pos), Elements: elems}
}

func (p *Parser) parseObjectPattern() ast.Pattern {
	start := p.cur.Pos
	var props []ast.ObjectPatternProperty
	for !p.peekIs(token.RBRACE) {
		p.next()
		if p.curIs(token.DOTDOTDOT) {
			p.next()
			props = append(props, ast.ObjectPatternProperty{Key: p.cur.Lexeme, Rest: true})
			if p.peekIs(token.COMMA) {
				p.next()
			}
			continue
		}
		computed := false
		var keyExpr ast.Expression
		name := p.cur.Lexeme
		if p.curIs(token.LBRACK) {
			computed = true
			p.next()
			keyExpr = p.parseAssignExpression()
			p.expect(token.RBRACK)
		}
		prop := ast.ObjectPatternProperty{Key: name, Computed: computed, KeyExpr: keyExpr}
		if p.peekIs(token.COLON) {
			p.next()
			p.next()
			prop.Value = p.parseBindingPattern()
		} else {
			prop.Shorthand = true
			prop.Value = &ast.IdentifierPattern{Base: ast.NewBase(p.cur.Pos, p.cur.Pos), Name: name}
		}
		if p.peekIs(token.ASSIGN) {
			p.next()
			p.next()
			prop.Default = p.parseAssignExpression()
		}
		props = append(props, prop)
		if p.peekIs(token.COMMA) {
			p.next()
		} else {
			break
		}
	}
	p.expect(token.RBRACE)
	return &ast.ObjectPattern{Base: ast.NewBase(start, p.cur.Pos), Properties: props}
}
