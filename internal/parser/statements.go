package parser

import (
	"github.com/tsxlang/tsx/pkg/ast"
	"github.com/tsxlang/tsx/pkg/token"
)

// parseStatement dispatches on the current token to the matching statement
// parse function. cur is the first token of the statement on entry and the
// last consumed token of the statement on return (consumeSemicolon, if
// applicable, has already run).
func (p *Parser) parseStatement() ast.Statement {
	switch p.cur.Kind {
	case token.LET, token.CONST, token.VAR:
		return p.parseVarDecl()
	case token.FUNCTION:
		return p.parseFunctionDecl()
	case token.ASYNC:
		if p.peekIs(token.FUNCTION) {
			return p.parseFunctionDecl()
		}
		return p.parseExprStmt()
	case token.CLASS:
		return p.parseClassDecl()
	case token.ABSTRACT:
		if p.peekIs(token.CLASS) {
			p.next()
			decl := p.parseClassDecl().(*ast.ClassDecl)
			decl.Abstract = true
			return decl
		}
		return p.parseExprStmt()
	case token.INTERFACE:
		return p.parseInterfaceDecl()
	case token.TYPE:
		return p.parseTypeAliasDecl()
	case token.IF:
		return p.parseIfStmt()
	case token.WHILE:
		return p.parseWhileStmt()
	case token.DO:
		return p.parseDoWhileStmt()
	case token.FOR:
		return p.parseForStmt()
	case token.RETURN:
		return p.parseReturnStmt()
	case token.THROW:
		return p.parseThrowStmt()
	case token.TRY:
		return p.parseTryStmt()
	case token.BREAK:
		return p.parseBreakStmt()
	case token.CONTINUE:
		return p.parseContinueStmt()
	case token.SWITCH:
		return p.parseSwitchStmt()
	case token.LBRACE:
		return p.parseBlockStmt()
	case token.IMPORT:
		return p.parseImportDecl()
	case token.EXPORT:
		return p.parseExportDecl()
	case token.SEMICOLON:
		return nil // empty statement
	case token.TRIPLE_SLASH_REF:
		return nil // surfaced via Program.References, not the statement list
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parseVarDecl() ast.Statement {
	start := p.cur.Pos
	var kind ast.DeclKind
	switch p.cur.Kind {
	case token.LET:
		kind = ast.DeclLet
	case token.CONST:
		kind = ast.DeclConst
	case token.VAR:
		kind = ast.DeclVar
	}
	var decls []ast.VarDeclarator
	for {
		p.next()
		pattern := p.parseBindingPattern()
		var typ ast.TypeNode
		if p.peekIs(token.COLON) {
			p.next()
			p.next()
			typ = p.parseTypeAnnotation()
		}
		var init ast.Expression
		if p.peekIs(token.ASSIGN) {
			p.next()
			p.next()
			init = p.parseAssignExpression()
		}
		decls = append(decls, ast.VarDeclarator{Pattern: pattern, Type: typ, Init: init})
		if p.peekIs(token.COMMA) {
			p.next()
			continue
		}
		break
	}
	p.consumeSemicolon()
	return &ast.VarDecl{Base: ast.NewBase(start, p.cur.Pos), Kind: kind, Declarators: decls}
}

func (p *Parser) parseFunctionDecl() ast.Statement {
	start := p.cur.Pos
	async := false
	if p.curIs(token.ASYNC) {
		async = true
		p.next()
	}
	fn := p.parseFunctionExpr().(*ast.FunctionExpr)
	fn.Async = async
	fn.StartPos = start
	return &ast.FunctionDecl{Base: ast.NewBase(start, p.cur.Pos), Function: fn}
}

func (p *Parser) parseIfStmt() ast.Statement {
	start := p.cur.Pos
	p.expect(token.LPAREN)
	p.next()
	cond := p.parseExpression(LOWEST)
	p.expect(token.RPAREN)
	p.next()
	then := p.parseStatement()
	var els ast.Statement
	if p.peekIs(token.ELSE) {
		p.next()
		p.next()
		els = p.parseStatement()
	}
	return &ast.IfStmt{Base: ast.NewBase(start, p.cur.Pos), Cond: cond, Then: then, Else: els}
}

func (p *Parser) parseWhileStmt() ast.Statement {
	start := p.cur.Pos
	p.expect(token.LPAREN)
	p.next()
	cond := p.parseExpression(LOWEST)
	p.expect(token.RPAREN)
	p.next()
	body := p.parseStatement()
	return &ast.WhileStmt{Base: ast.NewBase(start, p.cur.Pos), Cond: cond, Body: body}
}

func (p *Parser) parseDoWhileStmt() ast.Statement {
	start := p.cur.Pos
	p.next()
	body := p.parseStatement()
	p.expect(token.WHILE)
	p.expect(token.LPAREN)
	p.next()
	cond := p.parseExpression(LOWEST)
	p.expect(token.RPAREN)
	p.consumeSemicolon()
	return &ast.DoWhileStmt{Base: ast.NewBase(start, p.cur.Pos), Body: body, Cond: cond}
}

// parseForStmt parses the three `for` variants, disambiguating classic/
// for-of/for-in after parsing the loop-head declaration target.
func (p *Parser) parseForStmt() ast.Statement {
	start := p.cur.Pos
	await := false
	if p.peekIs(token.AWAIT) {
		p.next()
		await = true
	}
	p.expect(token.LPAREN)

	if p.peekIs(token.SEMICOLON) {
		p.next()
		return p.parseClassicForStmt(start, nil)
	}

	var kind ast.DeclKind
	hasDecl := false
	switch p.peek.Kind {
	case token.LET:
		kind, hasDecl = ast.DeclLet, true
	case token.CONST:
		kind, hasDecl = ast.DeclConst, true
	case token.VAR:
		kind, hasDecl = ast.DeclVar, true
	}
	if hasDecl {
		p.next()
	}
	p.next()
	pattern := p.parseBindingPattern()

	if p.peekIs(token.OF) {
		p.next()
		p.next()
		iterable := p.parseAssignExpression()
		p.expect(token.RPAREN)
		p.next()
		body := p.parseStatement()
		return &ast.ForOfStmt{Base: ast.NewBase(start, p.cur.Pos), Kind: kind, Pattern: pattern, Iterable: iterable, Body: body, Await: await}
	}
	if p.peekIs(token.IN) {
		p.next()
		p.next()
		obj := p.parseAssignExpression()
		p.expect(token.RPAREN)
		p.next()
		body := p.parseStatement()
		return &ast.ForInStmt{Base: ast.NewBase(start, p.cur.Pos), Kind: kind, Pattern: pattern, Object: obj, Body: body}
	}

	// Classic for: rebuild the init declarator(s) already partially parsed.
	var typ ast.TypeNode
	if p.peekIs(token.COLON) {
		p.next()
		p.next()
		typ = p.parseTypeAnnotation()
	}
	var init ast.Expression
	if p.peekIs(token.ASSIGN) {
		p.next()
		p.next()
		init = p.parseAssignExpression()
	}
	decls := []ast.VarDeclarator{{Pattern: pattern, Type: typ, Init: init}}
	for p.peekIs(token.COMMA) {
		p.next()
		p.next()
		pat := p.parseBindingPattern()
		var i2 ast.Expression
		if p.peekIs(token.ASSIGN) {
			p.next()
			p.next()
			i2 = p.parseAssignExpression()
		}
		decls = append(decls, ast.VarDeclarator{Pattern: pat, Init: i2})
	}
	var initNode ast.Node
	if hasDecl {
		initNode = &ast.VarDecl{Kind: kind, Declarators: decls}
	} else if len(decls) == 1 && decls[0].Init != nil {
		initNode = &ast.ExprStmt{Expr: decls[0].Init}
	}
	p.expect(token.SEMICOLON)
	return p.parseClassicForStmt(start, initNode)
}

func (p *Parser) parseClassicForStmt(start token.Position, init ast.Node) ast.Statement {
	var cond ast.Expression
	if !p.peekIs(token.SEMICOLON) {
		p.next()
		cond = p.parseExpression(LOWEST)
	}
	p.expect(token.SEMICOLON)
	var post ast.Expression
	if !p.peekIs(token.RPAREN) {
		p.next()
		post = p.parseExpression(LOWEST)
	}
	p.expect(token.RPAREN)
	p.next()
	body := p.parseStatement()
	return &ast.ForStmt{Base: ast.NewBase(start, p.cur.Pos), Init: init, Cond: cond, Post: post, Body: body}
}

func (p *Parser) parseReturnStmt() ast.Statement {
	start := p.cur.Pos
	var arg ast.Expression
	if !p.peekIs(token.SEMICOLON) && !p.peekIs(token.RBRACE) && !p.peekIs(token.EOF) {
		p.next()
		arg = p.parseExpression(LOWEST)
	}
	p.consumeSemicolon()
	return &ast.ReturnStmt{Base: ast.NewBase(start, p.cur.Pos), Argument: arg}
}

func (p *Parser) parseThrowStmt() ast.Statement {
	start := p.cur.Pos
	p.next()
	arg := p.parseExpression(LOWEST)
	p.consumeSemicolon()
	return &ast.ThrowStmt{Base: ast.NewBase(start, p.cur.Pos), Argument: arg}
}

func (p *Parser) parseTryStmt() ast.Statement {
	start := p.cur.Pos
	p.expect(token.LBRACE)
	block := p.parseBlockStmt()
	var catch *ast.CatchClause
	var fin *ast.BlockStmt
	if p.peekIs(token.CATCH) {
		p.next()
		cc := &ast.CatchClause{}
		if p.peekIs(token.LPAREN) {
			p.next()
			p.next()
			cc.Param = p.parseBindingPattern()
			if p.peekIs(token.COLON) {
				p.next()
				p.next()
				p.parseTypeAnnotation()
			}
			p.expect(token.RPAREN)
		}
		p.expect(token.LBRACE)
		cc.Body = p.parseBlockStmt()
		catch = cc
	}
	if p.peekIs(token.FINALLY) {
		p.next()
		p.expect(token.LBRACE)
		fin = p.parseBlockStmt()
	}
	return &ast.TryStmt{Base: ast.NewBase(start, p.cur.Pos), Block: block, Catch: catch, Finally: fin}
}

func (p *Parser) parseBreakStmt() ast.Statement {
	start := p.cur.Pos
	label := ""
	if p.peekIs(token.IDENT) {
		p.next()
		label = p.cur.Lexeme
	}
	p.consumeSemicolon()
	return &ast.BreakStmt{Base: ast.NewBase(start, p.cur.Pos), Label: label}
}

func (p *Parser) parseContinueStmt() ast.Statement {
	start := p.cur.Pos
	label := ""
	if p.peekIs(token.IDENT) {
		p.next()
		label = p.cur.Lexeme
	}
	p.consumeSemicolon()
	return &ast.ContinueStmt{Base: ast.NewBase(start, p.cur.Pos), Label: label}
}

func (p *Parser) parseSwitchStmt() ast.Statement {
	start := p.cur.Pos
	p.expect(token.LPAREN)
	p.next()
	disc := p.parseExpression(LOWEST)
	p.expect(token.RPAREN)
	p.expect(token.LBRACE)
	var cases []ast.SwitchCase
	for !p.peekIs(token.RBRACE) {
		p.next()
		var sc ast.SwitchCase
		if p.curIs(token.CASE) {
			p.next()
			sc.Test = p.parseExpression(LOWEST)
			p.expect(token.COLON)
		} else {
			p.expect(token.DEFAULT)
			p.expect(token.COLON)
		}
		for !p.peekIs(token.CASE) && !p.peekIs(token.DEFAULT) && !p.peekIs(token.RBRACE) {
			p.next()
			if stmt := p.parseStatement(); stmt != nil {
				sc.Statements = append(sc.Statements, stmt)
			}
		}
		cases = append(cases, sc)
	}
	p.expect(token.RBRACE)
	return &ast.SwitchStmt{Base: ast.NewBase(start, p.cur.Pos), Discriminant: disc, Cases: cases}
}

func (p *Parser) parseBlockStmt() *ast.BlockStmt {
	start := p.cur.Pos
	var stmts []ast.Statement
	for !p.peekIs(token.RBRACE) && !p.peekIs(token.EOF) {
		p.next()
		if stmt := p.parseStatement(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	p.expect(token.RBRACE)
	return &ast.BlockStmt{Base: ast.NewBase(start, p.cur.Pos), Statements: stmts}
}

func (p *Parser) parseExprStmt() ast.Statement {
	start := p.cur.Pos
	expr := p.parseExpression(LOWEST)
	for p.peekIs(token.COMMA) {
		p.next()
		p.next()
		rhs := p.parseExpression(LOWEST)
		expr = &ast.SequenceExpr{Base: ast.NewBase(expr.Pos(), rhs.EndPos()), Exprs: []ast.Expression{expr, rhs}}
	}
	p.consumeSemicolon()
	return &ast.ExprStmt{Base: ast.NewBase(start, p.cur.Pos), Expr: expr}
}

func (p *Parser) parseImportDecl() ast.Statement {
	start := p.cur.Pos
	var specs []ast.ImportSpecifier
	if p.peekIs(token.STRING) {
		p.next()
		src := p.cur.Lexeme
		p.consumeSemicolon()
		return &ast.ImportDecl{Base: ast.NewBase(start, p.cur.Pos), Source: src}
	}
	if p.peekIs(token.IDENT) {
		p.next()
		specs = append(specs, ast.ImportSpecifier{Local: p.cur.Lexeme, Default: true})
		if p.peekIs(token.COMMA) {
			p.next()
		}
	}
	if p.peekIs(token.STAR) {
		p.next()
		p.expect(token.AS)
		p.next()
		specs = append(specs, ast.ImportSpecifier{Local: p.cur.Lexeme, Namespace: true})
	} else if p.peekIs(token.LBRACE) {
		p.next()
		specs = append(specs, p.parseImportSpecifierList()...)
	}
	p.expect(token.FROM)
	p.next()
	src := p.cur.Lexeme
	p.consumeSemicolon()
	return &ast.ImportDecl{Base: ast.NewBase(start, p.cur.Pos), Specifiers: specs, Source: src}
}

func (p *Parser) parseImportSpecifierList() []ast.ImportSpecifier {
	var specs []ast.ImportSpecifier
	for !p.peekIs(token.RBRACE) {
		p.next()
		imported := p.cur.Lexeme
		local := imported
		if p.peekIs(token.AS) {
			p.next()
			p.next()
			local = p.cur.Lexeme
		}
		specs = append(specs, ast.ImportSpecifier{Imported: imported, Local: local})
		if p.peekIs(token.COMMA) {
			p.next()
		} else {
			break
		}
	}
	p.expect(token.RBRACE)
	return specs
}

func (p *Parser) parseExportDecl() ast.Statement {
	start := p.cur.Pos
	if p.peekIs(token.DEFAULT) {
		p.next()
		p.next()
		decl := p.parseStatement()
		return &ast.ExportDecl{Base: ast.NewBase(start, p.cur.Pos), Decl: decl, Default: true}
	}
	if p.peekIs(token.STAR) {
		p.next()
		p.expect(token.FROM)
		p.next()
		src := p.cur.Lexeme
		p.consumeSemicolon()
		return &ast.ExportDecl{Base: ast.NewBase(start, p.cur.Pos), All: true, Source: src}
	}
	if p.peekIs(token.LBRACE) {
		p.next()
		specs := p.parseImportSpecifierList()
		src := ""
		if p.peekIs(token.FROM) {
			p.next()
			p.next()
			src = p.cur.Lexeme
		}
		p.consumeSemicolon()
		return &ast.ExportDecl{Base: ast.NewBase(start, p.cur.Pos), Specifiers: specs, Source: src}
	}
	p.next()
	decl := p.parseStatement()
	return &ast.ExportDecl{Base: ast.NewBase(start, p.cur.Pos), Decl: decl}
}
