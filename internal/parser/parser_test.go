package parser

import (
	"testing"

	"github.com/tsxlang/tsx/internal/lexer"
	"github.com/tsxlang/tsx/pkg/ast"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, errs := ParseProgram(lexer.New(src))
	for _, e := range errs {
		t.Fatalf("parse error: %s", e)
	}
	return prog
}

func TestParseVarDecl(t *testing.T) {
	prog := parse(t, `let x: number = 1 + 2;`)
	if len(prog.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Statements))
	}
	decl, ok := prog.Statements[0].(*ast.VarDecl)
	if !ok {
		t.Fatalf("expected *ast.VarDecl, got %T", prog.Statements[0])
	}
	if decl.Kind != ast.DeclLet {
		t.Errorf("expected DeclLet")
	}
	if len(decl.Declarators) != 1 {
		t.Fatalf("expected 1 declarator")
	}
	bin, ok := decl.Declarators[0].Init.(*ast.BinaryExpr)
	if !ok || bin.Operator != "+" {
		t.Fatalf("expected binary + init, got %#v", decl.Declarators[0].Init)
	}
}

func TestParseArrowFunction(t *testing.T) {
	prog := parse(t, `const add = (a: number, b: number): number => a + b;`)
	decl := prog.Statements[0].(*ast.VarDecl)
	arrow, ok := decl.Declarators[0].Init.(*ast.ArrowFunctionExpr)
	if !ok {
		t.Fatalf("expected arrow function, got %#v", decl.Declarators[0].Init)
	}
	if len(arrow.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(arrow.Params))
	}
	if arrow.ReturnType == nil {
		t.Error("expected a parsed return type annotation")
	}
	if arrow.ExprBody == nil {
		t.Error("expected an expression body")
	}
}

func TestParseSingleIdentArrow(t *testing.T) {
	prog := parse(t, `const sq = x => x * x;`)
	decl := prog.Statements[0].(*ast.VarDecl)
	arrow, ok := decl.Declarators[0].Init.(*ast.ArrowFunctionExpr)
	if !ok {
		t.Fatalf("expected arrow function, got %#v", decl.Declarators[0].Init)
	}
	if len(arrow.Params) != 1 {
		t.Fatalf("expected 1 param, got %d", len(arrow.Params))
	}
}

func TestParseClassDecl(t *testing.T) {
	prog := parse(t, `
		class Animal {
			private name: string;
			constructor(name: string) { this.name = name; }
			speak(): string { return this.name; }
		}
	`)
	decl, ok := prog.Statements[0].(*ast.ClassDecl)
	if !ok {
		t.Fatalf("expected *ast.ClassDecl, got %T", prog.Statements[0])
	}
	if decl.Name != "Animal" {
		t.Errorf("expected class name Animal, got %s", decl.Name)
	}
	if len(decl.Members) != 3 {
		t.Fatalf("expected 3 members, got %d", len(decl.Members))
	}
	if decl.Members[1].Kind != ast.MemberConstructor {
		t.Errorf("expected member[1] to be constructor")
	}
}

func TestParseUnionAndArrayType(t *testing.T) {
	prog := parse(t, `let x: (number | string)[];`)
	decl := prog.Statements[0].(*ast.VarDecl)
	arr, ok := decl.Declarators[0].Type.(*ast.ArrayType)
	if !ok {
		t.Fatalf("expected array type, got %#v", decl.Declarators[0].Type)
	}
	paren, ok := arr.Element.(*ast.ParenType)
	if !ok {
		t.Fatalf("expected paren type, got %#v", arr.Element)
	}
	if _, ok := paren.Inner.(*ast.UnionType); !ok {
		t.Fatalf("expected union type inside parens, got %#v", paren.Inner)
	}
}

func TestParseForOfAndDestructuring(t *testing.T) {
	prog := parse(t, `for (const [a, b] of pairs) { total += a + b; }`)
	forOf, ok := prog.Statements[0].(*ast.ForOfStmt)
	if !ok {
		t.Fatalf("expected *ast.ForOfStmt, got %T", prog.Statements[0])
	}
	if _, ok := forOf.Pattern.(*ast.ArrayPattern); !ok {
		t.Fatalf("expected array pattern, got %#v", forOf.Pattern)
	}
}

func TestParseTryCatchFinally(t *testing.T) {
	prog := parse(t, `
		try {
			risky();
		} catch (e) {
			handle(e);
		} finally {
			cleanup();
		}
	`)
	try, ok := prog.Statements[0].(*ast.TryStmt)
	if !ok {
		t.Fatalf("expected *ast.TryStmt, got %T", prog.Statements[0])
	}
	if try.Catch == nil || try.Finally == nil {
		t.Fatalf("expected both catch and finally clauses")
	}
}

func TestParseModuleClassification(t *testing.T) {
	prog := parse(t, `import { a } from "./mod"; export const b = a + 1;`)
	if !prog.IsModule {
		t.Error("expected a file with import/export to be classified as a module")
	}
}

func TestParseUseStrictDirective(t *testing.T) {
	prog := parse(t, `"use strict"; let x = 1;`)
	if !prog.Strict {
		t.Error(`expected "use strict" directive prologue to set Strict`)
	}
	if len(prog.Statements) != 1 {
		t.Fatalf("directive prologue should not appear in Statements, got %d stmts", len(prog.Statements))
	}
}

func TestParseTernaryAndNullish(t *testing.T) {
	prog := parse(t, `let x = a ?? (b ? c : d);`)
	decl := prog.Statements[0].(*ast.VarDecl)
	logical, ok := decl.Declarators[0].Init.(*ast.LogicalExpr)
	if !ok || logical.Operator != "??" {
		t.Fatalf("expected ?? logical expr, got %#v", decl.Declarators[0].Init)
	}
}

func TestParseTemplateLiteral(t *testing.T) {
	prog := parse(t, "let s = `hello ${name}!`;")
	decl := prog.Statements[0].(*ast.VarDecl)
	tpl, ok := decl.Declarators[0].Init.(*ast.TemplateLiteral)
	if !ok {
		t.Fatalf("expected template literal, got %#v", decl.Declarators[0].Init)
	}
	if len(tpl.Spans) != 3 {
		t.Fatalf("expected 3 spans (text, expr, text), got %d", len(tpl.Spans))
	}
	if tpl.Spans[1].Expr == nil {
		t.Error("expected middle span to carry a parsed expression")
	}
}
