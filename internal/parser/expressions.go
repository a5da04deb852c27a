package parser

import (
	"strconv"
	"strings"

	"github.com/tsxlang/tsx/internal/lexer"
	"github.com/tsxlang/tsx/pkg/ast"
	"github.com/tsxlang/tsx/pkg/token"
)

func (p *Parser) registerExpressionParsers() {
	pf := p.prefixFns
	pf[token.NUMBER] = p.parseNumberLiteral
	pf[token.STRING] = p.parseStringLiteral
	pf[token.TEMPLATE_STRING] = p.parseTemplateLiteral
	pf[token.TRUE] = p.parseBoolLiteral
	pf[token.FALSE] = p.parseBoolLiteral
	pf[token.NULL] = p.parseNullLiteral
	pf[token.UNDEFINED] = p.parseUndefinedLiteral
	pf[token.REGEX] = p.parseRegexLiteral
	pf[token.IDENT] = p.parseIdentifier
	pf[token.ASYNC] = p.parseAsyncPrefixed
	pf[token.THIS] = p.parseThis
	pf[token.SUPER] = p.parseSuper
	pf[token.LPAREN] = p.parseGroupOrArrow
	pf[token.LBRACK] = p.parseArrayLiteral
	pf[token.LBRACE] = p.parseObjectLiteral
	pf[token.FUNCTION] = p.parseFunctionExpr
	pf[token.CLASS] = p.parseClassExpr
	pf[token.NEW] = p.parseNewExpr
	pf[token.YIELD] = p.parseYieldExpr
	pf[token.AWAIT] = p.parseAwaitExpr
	pf[token.TYPEOF] = p.parseUnaryKeyword
	pf[token.DELETE] = p.parseUnaryKeyword
	pf[token.MINUS] = p.parseUnary
	pf[token.PLUS] = p.parseUnary
	pf[token.BANG] = p.parseUnary
	pf[token.TILDE] = p.parseUnary
	pf[token.INC] = p.parsePrefixUpdate
	pf[token.DEC] = p.parsePrefixUpdate

	inf := p.infixFns
	for _, k := range []token.Kind{
		token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT, token.STAR_STAR,
		token.EQ, token.NEQ, token.EQ_STRICT, token.NEQ_STRICT,
		token.LT, token.GT, token.LE, token.GE,
		token.AMP, token.PIPE, token.CARET, token.SHL, token.SHR,
		token.INSTANCEOF, token.IN,
	} {
		inf[k] = p.parseBinaryExpr
	}
	inf[token.AND_AND] = p.parseLogicalExpr
	inf[token.OR_OR] = p.parseLogicalExpr
	inf[token.QUESTION_QUESTION] = p.parseLogicalExpr
	for _, k := range []token.Kind{
		token.ASSIGN, token.PLUS_ASSIGN, token.MINUS_ASSIGN,
		token.STAR_ASSIGN, token.SLASH_ASSIGN, token.PERCENT_ASSIGN,
	} {
		inf[k] = p.parseAssignmentExpr
	}
	inf[token.QUESTION] = p.parseConditionalExpr
	inf[token.LPAREN] = p.parseCallExpr
	inf[token.DOT] = p.parseMemberExpr
	inf[token.QUESTION_DOT] = p.parseMemberExpr
	inf[token.LBRACK] = p.parseMemberExpr
	inf[token.INC] = p.parsePostfixUpdate
	inf[token.DEC] = p.parsePostfixUpdate
	inf[token.AS] = p.parseAsExpr
	inf[token.NON_NULL] = p.parseNonNullExpr
}

// parseExpression is the Pratt-loop entry point: parse a prefix expression,
// then repeatedly fold in infix operators of higher precedence than prec.
func (p *Parser) parseExpression(prec int) ast.Expression {
	prefix, ok := p.prefixFns[p.cur.Kind]
	if !ok {
		p.addError("unexpected token in expression: "+p.cur.Lexeme, p.cur.Pos)
		return nil
	}
	left := prefix()

	for !p.peekIs(token.SEMICOLON) && prec < p.peekPrecedence() {
		infix, ok := p.infixFns[p.peek.Kind]
		if !ok {
			return left
		}
		p.next()
		left = infix(left)
	}
	return left
}

// parseAssignExpression parses a single assignment-level expression; it
// stops before a top-level comma, so argument lists and initializers can
// treat COMMA as a separator.
func (p *Parser) parseAssignExpression() ast.Expression {
	return p.parseExpression(ASSIGN - 1)
}

func (p *Parser) parseNumberLiteral() ast.Expression {
	raw := p.cur.Lexeme
	return &ast.NumberLiteral{Base: ast.NewBase(p.cur.Pos, p.cur.Pos), Value: parseNumberValue(raw), Raw: raw}
}

// parseNumberValue converts a lexed number literal (hex/octal/binary with
// `0x`/`0o`/`0b` prefixes, legacy octal, underscore separators, or a plain
// decimal/float) to its IEEE-754 double value.
func parseNumberValue(raw string) float64 {
	s := strings.ReplaceAll(raw, "_", "")
	switch {
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		if n, err := strconv.ParseUint(s[2:], 16, 64); err == nil {
			return float64(n)
		}
	case strings.HasPrefix(s, "0o") || strings.HasPrefix(s, "0O"):
		if n, err := strconv.ParseUint(s[2:], 8, 64); err == nil {
			return float64(n)
		}
	case strings.HasPrefix(s, "0b") || strings.HasPrefix(s, "0B"):
		if n, err := strconv.ParseUint(s[2:], 2, 64); err == nil {
			return float64(n)
		}
	case len(s) > 1 && s[0] == '0' && !strings.ContainsAny(s, ".eE"):
		// Legacy octal literal (e.g. `0755`); strict mode already rejected
		// this at lex time when applicable.
		if n, err := strconv.ParseUint(s, 8, 64); err == nil {
			return float64(n)
		}
	}
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Base: ast.NewBase(p.cur.Pos, p.cur.Pos), Value: p.cur.Lexeme}
}

func (p *Parser) parseTemplateLiteral() ast.Expression {
	raw := p.cur.Lexeme
	raw = strings.TrimPrefix(raw, "`")
	raw = strings.TrimSuffix(raw, "`")
	spans := parseTemplateSpans(p, raw)
	return &ast.TemplateLiteral{Base: ast.NewBase(p.cur.Pos, p.cur.Pos), Spans: spans}
}

// parseTemplateSpans splits the raw template body (lexer already stripped
// the surrounding backticks) on `${...}` boundaries and parses each
// interpolation with a fresh sub-parser.
func parseTemplateSpans(p *Parser, raw string) []ast.TemplateSpan {
	var spans []ast.TemplateSpan
	i := 0
	for i < len(raw) {
		start := strings.Index(raw[i:], "${")
		if start == -1 {
			spans = append(spans, ast.TemplateSpan{Text: raw[i:]})
			break
		}
		start += i
		if start > i {
			spans = append(spans, ast.TemplateSpan{Text: raw[i:start]})
		}
		depth := 1
		j := start + 2
		for j < len(raw) && depth > 0 {
			switch raw[j] {
			case '{':
				depth++
			case '}':
				depth--
			}
			if depth > 0 {
				j++
			}
		}
		exprSrc := raw[start+2 : j]
		spans = append(spans, ast.TemplateSpan{Expr: parseSubExpression(exprSrc)})
		i = j + 1
	}
	return spans
}

func (p *Parser) parseBoolLiteral() ast.Expression {
	return &ast.BoolLiteral{Base: ast.NewBase(p.cur.Pos, p.cur.Pos), Value: p.cur.Kind == token.TRUE}
}

func (p *Parser) parseNullLiteral() ast.Expression {
	return &ast.NullLiteral{Base: ast.NewBase(p.cur.Pos, p.cur.Pos)}
}

func (p *Parser) parseUndefinedLiteral() ast.Expression {
	return &ast.UndefinedLiteral{Base: ast.NewBase(p.cur.Pos, p.cur.Pos)}
}

func (p *Parser) parseRegexLiteral() ast.Expression {
	lit := p.cur.Lexeme
	lastSlash := strings.LastIndex(lit, "/")
	return &ast.RegexLiteral{
		Base:    ast.NewBase(p.cur.Pos, p.cur.Pos),
		Pattern: lit[1:lastSlash],
		Flags:   lit[lastSlash+1:],
	}
}

func (p *Parser) parseIdentifier() ast.Expression {
	if p.peekIs(token.ARROW) { // single-parameter arrow `x => body`
		start := p.cur.Pos
		param := ast.Param{Pattern: &ast.IdentifierPattern{Base: ast.NewBase(start, start), Name: p.cur.Lexeme}}
		p.next() // land on =>
		return p.parseArrowBody(start, []ast.Param{param})
	}
	return &ast.Identifier{Base: ast.NewBase(p.cur.Pos, p.cur.Pos), Name: p.cur.Lexeme}
}

func (p *Parser) parseThis() ast.Expression {
	return &ast.ThisExpr{Base: ast.NewBase(p.cur.Pos, p.cur.Pos)}
}

func (p *Parser) parseSuper() ast.Expression {
	return &ast.SuperExpr{Base: ast.NewBase(p.cur.Pos, p.cur.Pos)}
}

// parseAsyncPrefixed disambiguates `async function`, `async (params) =>`,
// and `async ident =>` from a plain identifier named "async".
func (p *Parser) parseAsyncPrefixed() ast.Expression {
	start := p.cur.Pos
	if p.peekIs(token.FUNCTION) {
		p.next()
		fn := p.parseFunctionExpr().(*ast.FunctionExpr)
		fn.Async = true
		fn.StartPos = start
		return fn
	}
	if p.peekIs(token.LPAREN) {
		save := p.l.SaveState()
		curSave, peekSave := p.cur, p.peek
		p.next()
		expr := p.parseGroupOrArrow()
		if arrow, ok := expr.(*ast.ArrowFunctionExpr); ok {
			arrow.Async = true
			arrow.StartPos = start
			return arrow
		}
		p.l.RestoreState(save)
		p.cur, p.peek = curSave, peekSave
	}
	if p.peekIs(token.IDENT) && p.peekAheadIsArrow() {
		p.next()
		param := p.cur.Lexeme
		paramPos := p.cur.Pos
		p.expect(token.ARROW)
		arrow := p.parseArrowBody(start, []ast.Param{{Pattern: &ast.IdentifierPattern{Base: ast.NewBase(paramPos, paramPos), Name: param}}})
		arrow.Async = true
		return arrow
	}
	return &ast.Identifier{Base: ast.NewBase(start, start), Name: "async"}
}

func (p *Parser) peekAheadIsArrow() bool {
	save := p.l.SaveState()
	curSave, peekSave := p.cur, p.peek
	p.next()
	isArrow := p.peekIs(token.ARROW)
	p.l.RestoreState(save)
	p.cur, p.peek = curSave, peekSave
	return isArrow
}

// parseGroupOrArrow disambiguates `(expr)` from `(params) => body` by
// attempting an arrow-parameter-list parse with backtracking, following
// the teacher's cursor Mark/ResetTo convention.
func (p *Parser) parseGroupOrArrow() ast.Expression {
	start := p.cur.Pos
	save := p.l.SaveState()
	curSave, peekSave := p.cur, p.peek
	errCount := len(p.errors)

	if params, ok := p.tryParseArrowParams(); ok {
		var retType ast.TypeNode
		if p.peekIs(token.COLON) {
			p.next()
			p.next()
			retType = p.parseTypeAnnotation()
		}
		if p.peekIs(token.ARROW) {
			p.next() // land on =>
			arrow := p.parseArrowBody(start, params)
			arrow.ReturnType = retType
			return arrow
		}
	}

	p.l.RestoreState(save)
	p.cur, p.peek = curSave, peekSave
	p.errors = p.errors[:errCount]

	p.next() // consume (
	if p.curIs(token.RPAREN) {
		p.addError("empty parenthesized expression", p.cur.Pos)
		return &ast.GroupingExpr{Base: ast.NewBase(start, p.cur.Pos)}
	}
	expr := p.parseExpression(COMMA)
	for p.peekIs(token.COMMA) {
		p.next()
		p.next()
		rhs := p.parseExpression(COMMA)
		expr = &ast.SequenceExpr{Base: ast.NewBase(start, rhs.EndPos()), Exprs: []ast.Expression{expr, rhs}}
	}
	p.expect(token.RPAREN)
	return &ast.GroupingExpr{Base: ast.NewBase(start, p.cur.Pos), Expr: expr}
}

// tryParseArrowParams attempts to parse `(params)` as an arrow parameter
// list. It does not validate a following `=>`; the caller checks that.
func (p *Parser) tryParseArrowParams() (params []ast.Param, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()
	if !p.curIs(token.LPAREN) {
		return nil, false
	}
	p.next()
	if p.curIs(token.RPAREN) {
		return nil, true
	}
	for {
		if !(p.curIs(token.IDENT) || p.curIs(token.DOTDOTDOT) || p.curIs(token.LBRACE) || p.curIs(token.LBRACK)) {
			return nil, false
		}
		param := p.parseParam()
		params = append(params, param)
		if !p.peekIs(token.COMMA) {
			break
		}
		p.next()
		p.next()
	}
	if !p.expect(token.RPAREN) {
		return nil, false
	}
	return params, true
}

// parseArrowBody parses the body of an arrow function. It expects cur to
// be positioned on the `=>` token and advances past it.
func (p *Parser) parseArrowBody(start token.Position, params []ast.Param) *ast.ArrowFunctionExpr {
	arrow := &ast.ArrowFunctionExpr{Params: params}
	p.next() // consume =>, land on body start
	if p.curIs(token.LBRACE) {
		arrow.Body = p.parseBlockStmt()
	} else {
		arrow.ExprBody = p.parseAssignExpression()
	}
	arrow.StartPos = start
	arrow.StopPos = p.cur.Pos
	return arrow
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	start := p.cur.Pos
	var elems []ast.Expression
	for !p.peekIs(token.RBRACK) {
		if p.peekIs(token.COMMA) {
			elems = append(elems, nil) // hole
			p.next()
			continue
		}
		p.next()
		if p.curIs(token.DOTDOTDOT) {
			spreadStart := p.cur.Pos
			p.next()
			arg := p.parseAssignExpression()
			elems = append(elems, &ast.SpreadElement{Base: ast.NewBase(spreadStart, arg.EndPos()), Argument: arg})
		} else {
			elems = append(elems, p.parseAssignExpression())
		}
		if p.peekIs(token.COMMA) {
			p.next()
		} else {
			break
		}
	}
	p.expect(token.RBRACK)
	return &ast.ArrayLiteral{Base: ast.NewBase(start, p.cur.Pos), Elements: elems}
}

func (p *Parser) parseObjectLiteral() ast.Expression {
	start := p.cur.Pos
	var props []ast.ObjectProperty
	for !p.peekIs(token.RBRACE) {
		p.next()
		props = append(props, p.parseObjectProperty())
		if p.peekIs(token.COMMA) {
			p.next()
		} else {
			break
		}
	}
	p.expect(token.RBRACE)
	return &ast.ObjectLiteral{Base: ast.NewBase(start, p.cur.Pos), Properties: props}
}

func (p *Parser) parseObjectProperty() ast.ObjectProperty {
	if p.curIs(token.DOTDOTDOT) {
		p.next()
		return ast.ObjectProperty{Spread: true, Value: p.parseAssignExpression()}
	}
	computed := false
	var key ast.Expression
	if p.curIs(token.LBRACK) {
		computed = true
		p.next()
		key = p.parseAssignExpression()
		p.expect(token.RBRACK)
	} else if p.curIs(token.STRING) {
		key = p.parseStringLiteral()
	} else if p.curIs(token.NUMBER) {
		key = p.parseNumberLiteral()
	} else {
		key = &ast.Identifier{Base: ast.NewBase(p.cur.Pos, p.cur.Pos), Name: p.cur.Lexeme}
	}
	if p.peekIs(token.LPAREN) {
		fn := p.parseMethodLike()
		return ast.ObjectProperty{Key: key, Computed: computed, Value: fn, Method: true}
	}
	if !computed && p.curIs(token.IDENT) && !p.peekIs(token.COLON) {
		name := key.(*ast.Identifier).Name
		return ast.ObjectProperty{Key: key, Value: &ast.Identifier{Base: ast.NewBase(key.Pos(), key.EndPos()), Name: name}, Shorthand: true}
	}
	p.expect(token.COLON)
	p.next()
	val := p.parseAssignExpression()
	return ast.ObjectProperty{Key: key, Computed: computed, Value: val}
}

func (p *Parser) parseMethodLike() *ast.FunctionExpr {
	start := p.cur.Pos
	p.next() // (
	params := p.parseParamList()
	var retType ast.TypeNode
	if p.peekIs(token.COLON) {
		p.next()
		p.next()
		retType = p.parseTypeAnnotation()
	}
	p.expect(token.LBRACE)
	body := p.parseBlockStmt()
	return &ast.FunctionExpr{Base: ast.NewBase(start, p.cur.Pos), Params: params, Body: body, ReturnType: retType}
}

func (p *Parser) parseFunctionExpr() ast.Expression {
	start := p.cur.Pos
	gen := false
	if p.peekIs(token.STAR) {
		p.next()
		gen = true
	}
	name := ""
	if p.peekIs(token.IDENT) {
		p.next()
		name = p.cur.Lexeme
	}
	var typeParams []ast.TypeParam
	if p.peekIs(token.LT) {
		p.next()
		typeParams = p.parseTypeParams()
	}
	p.expect(token.LPAREN)
	params := p.parseParamList()
	var retType ast.TypeNode
	if p.peekIs(token.COLON) {
		p.next()
		p.next()
		retType = p.parseTypeAnnotation()
	}
	p.expect(token.LBRACE)
	body := p.parseBlockStmt()
	return &ast.FunctionExpr{
		Base: ast.NewBase(start, p.cur.Pos), Name: name, Params: params, Body: body,
		ReturnType: retType, TypeParams: typeParams, Generator: gen, Strict: p.strict,
	}
}

func (p *Parser) parseParamList() []ast.Param {
	var params []ast.Param
	for !p.curIs(token.RPAREN) {
		p.next()
		if p.curIs(token.RPAREN) {
			break
		}
		params = append(params, p.parseParam())
		if p.peekIs(token.COMMA) {
			p.next()
		}
	}
	return params
}

func (p *Parser) parseParam() ast.Param {
	rest := false
	if p.curIs(token.DOTDOTDOT) {
		rest = true
		p.next()
	}
	pattern := p.parseBindingPattern()
	param := ast.Param{Pattern: pattern, Rest: rest}
	if p.peekIs(token.QUESTION) {
		p.next()
		param.Optional = true
	}
	if p.peekIs(token.COLON) {
		p.next()
		p.next()
		param.Type = p.parseTypeAnnotation()
	}
	if p.peekIs(token.ASSIGN) {
		p.next()
		p.next()
		param.Default = p.parseAssignExpression()
	}
	return param
}

func (p *Parser) parseClassExpr() ast.Expression {
	decl := p.parseClassDecl().(*ast.ClassDecl)
	return &ast.ClassExpr{Base: decl.Base, Decl: decl}
}

func (p *Parser) parseNewExpr() ast.Expression {
	start := p.cur.Pos
	p.next()
	callee := p.parseExpression(MEMBER)
	var args []ast.Expression
	if p.peekIs(token.LPAREN) {
		p.next()
		args = p.parseArgs()
	}
	return &ast.NewExpr{Base: ast.NewBase(start, p.cur.Pos), Callee: callee, Args: args}
}

func (p *Parser) parseYieldExpr() ast.Expression {
	start := p.cur.Pos
	delegate := false
	if p.peekIs(token.STAR) {
		p.next()
		delegate = true
	}
	var arg ast.Expression
	if !p.peekIs(token.SEMICOLON) && !p.peekIs(token.RPAREN) && !p.peekIs(token.RBRACE) &&
		!p.peekIs(token.RBRACK) && !p.peekIs(token.COMMA) && !p.peekIs(token.EOF) {
		p.next()
		arg = p.parseAssignExpression()
	}
	return &ast.YieldExpr{Base: ast.NewBase(start, p.cur.Pos), Argument: arg, Delegate: delegate}
}

func (p *Parser) parseAwaitExpr() ast.Expression {
	start := p.cur.Pos
	p.next()
	arg := p.parseExpression(UNARY)
	return &ast.AwaitExpr{Base: ast.NewBase(start, arg.EndPos()), Argument: arg}
}

func (p *Parser) parseUnaryKeyword() ast.Expression {
	op := p.cur.Lexeme
	start := p.cur.Pos
	p.next()
	operand := p.parseExpression(UNARY)
	return &ast.UnaryExpr{Base: ast.NewBase(start, operand.EndPos()), Operator: op, Operand: operand}
}

func (p *Parser) parseUnary() ast.Expression {
	op := p.cur.Lexeme
	start := p.cur.Pos
	p.next()
	operand := p.parseExpression(UNARY)
	return &ast.UnaryExpr{Base: ast.NewBase(start, operand.EndPos()), Operator: op, Operand: operand}
}

func (p *Parser) parsePrefixUpdate() ast.Expression {
	op := p.cur.Lexeme
	start := p.cur.Pos
	p.next()
	operand := p.parseExpression(UNARY)
	return &ast.UpdateExpr{Base: ast.NewBase(start, operand.EndPos()), Operator: op, Operand: operand, Prefix: true}
}

func (p *Parser) parsePostfixUpdate(left ast.Expression) ast.Expression {
	return &ast.UpdateExpr{Base: ast.NewBase(left.Pos(), p.cur.Pos), Operator: p.cur.Lexeme, Operand: left, Prefix: false}
}

func (p *Parser) parseBinaryExpr(left ast.Expression) ast.Expression {
	op := p.cur.Lexeme
	prec := p.curPrecedence()
	p.next()
	right := p.parseExpression(prec)
	return &ast.BinaryExpr{Base: ast.NewBase(left.Pos(), right.EndPos()), Operator: op, Left: left, Right: right}
}

func (p *Parser) parseLogicalExpr(left ast.Expression) ast.Expression {
	op := p.cur.Lexeme
	prec := p.curPrecedence()
	p.next()
	right := p.parseExpression(prec)
	return &ast.LogicalExpr{Base: ast.NewBase(left.Pos(), right.EndPos()), Operator: op, Left: left, Right: right}
}

func (p *Parser) parseAssignmentExpr(left ast.Expression) ast.Expression {
	op := p.cur.Lexeme
	p.next()
	right := p.parseExpression(ASSIGN - 1)
	return &ast.AssignmentExpr{Base: ast.NewBase(left.Pos(), right.EndPos()), Operator: op, Target: left, Value: right}
}

func (p *Parser) parseConditionalExpr(cond ast.Expression) ast.Expression {
	p.next()
	then := p.parseAssignExpression()
	p.expect(token.COLON)
	p.next()
	els := p.parseAssignExpression()
	return &ast.ConditionalExpr{Base: ast.NewBase(cond.Pos(), els.EndPos()), Cond: cond, Then: then, Else: els}
}

func (p *Parser) parseCallExpr(callee ast.Expression) ast.Expression {
	args := p.parseArgs()
	return &ast.CallExpr{Base: ast.NewBase(callee.Pos(), p.cur.Pos), Callee: callee, Args: args}
}

func (p *Parser) parseArgs() []ast.Expression {
	var args []ast.Expression
	for !p.peekIs(token.RPAREN) {
		p.next()
		if p.curIs(token.DOTDOTDOT) {
			start := p.cur.Pos
			p.next()
			arg := p.parseAssignExpression()
			args = append(args, &ast.SpreadElement{Base: ast.NewBase(start, arg.EndPos()), Argument: arg})
		} else {
			args = append(args, p.parseAssignExpression())
		}
		if p.peekIs(token.COMMA) {
			p.next()
		} else {
			break
		}
	}
	p.expect(token.RPAREN)
	return args
}

func (p *Parser) parseMemberExpr(obj ast.Expression) ast.Expression {
	switch p.cur.Kind {
	case token.DOT:
		p.next()
		name := &ast.Identifier{Base: ast.NewBase(p.cur.Pos, p.cur.Pos), Name: p.cur.Lexeme}
		return &ast.MemberExpr{Base: ast.NewBase(obj.Pos(), p.cur.Pos), Object: obj, Property: name}
	case token.QUESTION_DOT:
		p.next()
		if p.curIs(token.LPAREN) {
			args := p.parseArgs()
			return &ast.CallExpr{Base: ast.NewBase(obj.Pos(), p.cur.Pos), Callee: obj, Args: args, Optional: true}
		}
		if p.curIs(token.LBRACK) {
			p.next()
			idx := p.parseAssignExpression()
			p.expect(token.RBRACK)
			return &ast.MemberExpr{Base: ast.NewBase(obj.Pos(), p.cur.Pos), Object: obj, Property: idx, Computed: true, Optional: true}
		}
		name := &ast.Identifier{Base: ast.NewBase(p.cur.Pos, p.cur.Pos), Name: p.cur.Lexeme}
		return &ast.MemberExpr{Base: ast.NewBase(obj.Pos(), p.cur.Pos), Object: obj, Property: name, Optional: true}
	case token.LBRACK:
		p.next()
		idx := p.parseExpression(COMMA)
		p.expect(token.RBRACK)
		return &ast.MemberExpr{Base: ast.NewBase(obj.Pos(), p.cur.Pos), Object: obj, Property: idx, Computed: true}
	}
	return obj
}

func (p *Parser) parseAsExpr(left ast.Expression) ast.Expression {
	p.next()
	typ := p.parseTypeAnnotation()
	return &ast.TypeAssertionExpr{Base: ast.NewBase(left.Pos(), p.cur.Pos), Expr: left, Type: typ}
}

func (p *Parser) parseNonNullExpr(left ast.Expression) ast.Expression {
	return &ast.NonNullExpr{Base: ast.NewBase(left.Pos(), p.cur.Pos), Expr: left}
}

// parseSubExpression parses a standalone expression fragment (used for
// template-literal interpolations, which are re-lexed independently).
func parseSubExpression(src string) ast.Expression {
	sub := New(lexer.New(src))
	return sub.parseExpression(LOWEST)
}
