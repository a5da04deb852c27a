package parser

import (
	"github.com/tsxlang/tsx/pkg/ast"
	"github.com/tsxlang/tsx/pkg/token"
)

// parseClassDecl parses `class Name<T> extends Base implements I { ... }`.
// cur is CLASS on entry.
func (p *Parser) parseClassDecl() ast.Statement {
	start := p.cur.Pos
	name := ""
	if p.peekIs(token.IDENT) {
		p.next()
		name = p.cur.Lexeme
	}
	var typeParams []ast.TypeParam
	if p.peekIs(token.LT) {
		p.next()
		p.next()
		typeParams = p.parseTypeParams()
	}
	var super ast.Expression
	var superArgs []ast.TypeNode
	if p.peekIs(token.EXTENDS) {
		p.next()
		p.next()
		super = p.parseExpression(MEMBER)
		if p.peekIs(token.LT) {
			p.next()
			p.next()
			for !p.curIs(token.GT) {
				superArgs = append(superArgs, p.parseTypeAnnotation())
				if p.peekIs(token.COMMA) {
					p.next()
					p.next()
				} else {
					p.next()
				}
			}
		}
	}
	var interfaces []ast.TypeNode
	if p.peekIs(token.IMPLEMENTS) {
		p.next()
		p.next()
		interfaces = append(interfaces, p.parseTypeAnnotation())
		for p.peekIs(token.COMMA) {
			p.next()
			p.next()
			interfaces = append(interfaces, p.parseTypeAnnotation())
		}
	}
	p.expect(token.LBRACE)
	members := p.parseClassMembers()
	return &ast.ClassDecl{
		Base: ast.NewBase(start, p.cur.Pos), Name: name, TypeParams: typeParams,
		SuperClass: super, SuperArgs: superArgs, Interfaces: interfaces, Members: members,
	}
}

func (p *Parser) parseClassMembers() []ast.ClassMember {
	var members []ast.ClassMember
	for !p.peekIs(token.RBRACE) {
		p.next()
		if p.curIs(token.SEMICOLON) {
			continue
		}
		members = append(members, p.parseClassMember())
	}
	p.expect(token.RBRACE)
	return members
}

func (p *Parser) parseClassMember() ast.ClassMember {
	m := ast.ClassMember{Access: ast.AccessPublic}

	if p.curIs(token.STATIC) && p.peekIs(token.LBRACE) {
		p.next()
		m.Kind = ast.MemberStaticBlock
		m.StaticBody = p.parseBlockStmt().Statements
		return m
	}

loop:
	for {
		switch p.cur.Kind {
		case token.STATIC:
			m.Static = true
		case token.ABSTRACT:
			m.Abstract = true
		case token.OVERRIDE:
			m.Override = true
		case token.READONLY:
			m.Readonly = true
		case token.PUBLIC:
			m.Access = ast.AccessPublic
		case token.PROTECTED:
			m.Access = ast.AccessProtected
		case token.PRIVATE:
			m.Access = ast.AccessPrivate
		default:
			break loop
		}
		p.next()
	}

	if p.curIs(token.ASYNC) {
		m.Async = true
		p.next()
	}
	if p.curIs(token.STAR) {
		m.Generator = true
		p.next()
	}
	if p.curIs(token.GET) && !p.peekIs(token.LPAREN) {
		m.Kind = ast.MemberGetter
		p.next()
	} else if p.curIs(token.SET) && !p.peekIs(token.LPAREN) {
		m.Kind = ast.MemberSetter
		p.next()
	}

	m.Name = p.cur.Lexeme
	if p.cur.Kind == token.LBRACK { // computed member name
		p.next()
		p.parseAssignExpression()
		p.expect(token.RBRACK)
		m.Name = ""
	}
	if m.Name == "constructor" {
		m.Kind = ast.MemberConstructor
	}

	if p.peekIs(token.LT) {
		p.next()
		p.next()
		m.TypeParams = p.parseTypeParams()
	}

	if p.peekIs(token.LPAREN) {
		if m.Kind != ast.MemberGetter && m.Kind != ast.MemberSetter && m.Kind != ast.MemberConstructor {
			m.Kind = ast.MemberMethod
		}
		p.next()
		m.Params = p.parseParamList()
		if p.peekIs(token.COLON) {
			p.next()
			p.next()
			m.Type = p.parseTypeAnnotation()
		}
		if p.peekIs(token.LBRACE) {
			p.next()
			m.Body = p.parseBlockStmt()
		} else {
			p.consumeSemicolon() // abstract/interface-like method signature
		}
		return m
	}

	// field
	if p.peekIs(token.QUESTION) {
		p.next()
	}
	if p.peekIs(token.NON_NULL) {
		p.next()
	}
	if p.peekIs(token.COLON) {
		p.next()
		p.next()
		m.Type = p.parseTypeAnnotation()
	}
	if p.peekIs(token.ASSIGN) {
		p.next()
		p.next()
		m.Value = p.parseAssignExpression()
	}
	p.consumeSemicolon()
	return m
}

func (p *Parser) parseInterfaceDecl() ast.Statement {
	start := p.cur.Pos
	p.expect(token.IDENT)
	name := p.cur.Lexeme
	var typeParams []ast.TypeParam
	if p.peekIs(token.LT) {
		p.next()
		p.next()
		typeParams = p.parseTypeParams()
	}
	var extends []ast.TypeNode
	if p.peekIs(token.EXTENDS) {
		p.next()
		p.next()
		extends = append(extends, p.parseTypeAnnotation())
		for p.peekIs(token.COMMA) {
			p.next()
			p.next()
			extends = append(extends, p.parseTypeAnnotation())
		}
	}
	p.expect(token.LBRACE)
	var members []ast.InterfaceMember
	for !p.peekIs(token.RBRACE) {
		p.next()
		if p.curIs(token.SEMICOLON) || p.curIs(token.COMMA) {
			continue
		}
		members = append(members, p.parseInterfaceMember())
	}
	p.expect(token.RBRACE)
	return &ast.InterfaceDecl{Base: ast.NewBase(start, p.cur.Pos), Name: name, TypeParams: typeParams, Extends: extends, Members: members}
}

func (p *Parser) parseInterfaceMember() ast.InterfaceMember {
	if p.curIs(token.LBRACK) {
		p.next()
		p.next() // index var name
		p.expect(token.COLON)
		p.next()
		keyType := p.parseTypeAnnotation()
		p.expect(token.RBRACK)
		p.expect(token.COLON)
		p.next()
		valType := p.parseTypeAnnotation()
		if p.peekIs(token.SEMICOLON) || p.peekIs(token.COMMA) {
			p.next()
		}
		return ast.InterfaceMember{IndexKey: keyType, IndexVal: valType}
	}
	name := p.cur.Lexeme
	optional := false
	if p.peekIs(token.QUESTION) {
		p.next()
		optional = true
	}
	if p.peekIs(token.LPAREN) {
		p.next()
		params := p.parseParamList()
		var ret ast.TypeNode
		if p.peekIs(token.COLON) {
			p.next()
			p.next()
			ret = p.parseTypeAnnotation()
		}
		if p.peekIs(token.SEMICOLON) || p.peekIs(token.COMMA) {
			p.next()
		}
		return ast.InterfaceMember{Name: name, Optional: optional, Params: params, Return: ret}
	}
	p.expect(token.COLON)
	p.next()
	typ := p.parseTypeAnnotation()
	if p.peekIs(token.SEMICOLON) || p.peekIs(token.COMMA) {
		p.next()
	}
	return ast.InterfaceMember{Name: name, Optional: optional, Type: typ}
}

func (p *Parser) parseTypeAliasDecl() ast.Statement {
	start := p.cur.Pos
	p.expect(token.IDENT)
	name := p.cur.Lexeme
	var typeParams []ast.TypeParam
	if p.peekIs(token.LT) {
		p.next()
		p.next()
		typeParams = p.parseTypeParams()
	}
	p.expect(token.ASSIGN)
	p.next()
	typ := p.parseTypeAnnotation()
	p.consumeSemicolon()
	return &ast.TypeAliasDecl{Base: ast.NewBase(start, p.cur.Pos), Name: name, TypeParams: typeParams, Type: typ}
}
