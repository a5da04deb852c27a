package checker

import (
	"github.com/tsxlang/tsx/internal/types"
	"github.com/tsxlang/tsx/pkg/ast"
)

func (a *Analyzer) checkStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		a.checkVarDecl(s)
	case *ast.FunctionDecl:
		a.checkFunctionBody(s.Function, nil)
	case *ast.ClassDecl:
		a.checkClassBody(s)
	case *ast.InterfaceDecl, *ast.TypeAliasDecl:
		// fully handled during hoisting
	case *ast.IfStmt:
		a.inferExpr(s.Cond)
		a.checkStatement(s.Then)
		if s.Else != nil {
			a.checkStatement(s.Else)
		}
	case *ast.WhileStmt:
		a.inferExpr(s.Cond)
		a.loopDepth++
		a.checkStatement(s.Body)
		a.loopDepth--
	case *ast.DoWhileStmt:
		a.loopDepth++
		a.checkStatement(s.Body)
		a.loopDepth--
		a.inferExpr(s.Cond)
	case *ast.ForStmt:
		a.withScope(func() {
			if vd, ok := s.Init.(*ast.VarDecl); ok {
				a.checkVarDecl(vd)
			} else if es, ok := s.Init.(*ast.ExprStmt); ok {
				a.inferExpr(es.Expr)
			}
			if s.Cond != nil {
				a.inferExpr(s.Cond)
			}
			if s.Post != nil {
				a.inferExpr(s.Post)
			}
			a.loopDepth++
			a.checkStatement(s.Body)
			a.loopDepth--
		})
	case *ast.ForOfStmt:
		a.withScope(func() {
			iterType := a.inferExpr(s.Iterable)
			elemType := types.Any
			if iterType.Tag == types.TArray {
				elemType = iterType.Elem
			}
			a.bindPattern(s.Pattern, elemType, s.Kind == ast.DeclConst)
			a.loopDepth++
			a.checkStatement(s.Body)
			a.loopDepth--
		})
	case *ast.ForInStmt:
		a.withScope(func() {
			a.inferExpr(s.Object)
			a.bindPattern(s.Pattern, types.String, s.Kind == ast.DeclConst)
			a.loopDepth++
			a.checkStatement(s.Body)
			a.loopDepth--
		})
	case *ast.ReturnStmt:
		if s.Argument != nil {
			rt := a.inferExpr(s.Argument)
			if a.currentReturn != nil && a.currentReturn != types.Void && !types.AssignableTo(rt, a.currentReturn) {
				a.addError("return value of type "+rt.String()+" is not assignable to return type "+a.currentReturn.String(), s.Argument)
			}
		}
	case *ast.ThrowStmt:
		a.inferExpr(s.Argument)
	case *ast.TryStmt:
		a.checkStatement(s.Block)
		if s.Catch != nil {
			a.withScope(func() {
				if s.Catch.Param != nil {
					a.bindPattern(s.Catch.Param, types.Any, false)
				}
				a.checkStatement(s.Catch.Body)
			})
		}
		if s.Finally != nil {
			a.checkStatement(s.Finally)
		}
	case *ast.BreakStmt:
		if a.loopDepth == 0 && s.Label == "" {
			a.addError("'break' outside of a loop or switch", s)
		}
	case *ast.ContinueStmt:
		if a.loopDepth == 0 {
			a.addError("'continue' outside of a loop", s)
		}
	case *ast.SwitchStmt:
		a.inferExpr(s.Discriminant)
		a.withScope(func() {
			for _, c := range s.Cases {
				if c.Test != nil {
					a.inferExpr(c.Test)
				}
				for _, st := range c.Statements {
					a.checkStatement(st)
				}
			}
		})
	case *ast.BlockStmt:
		a.withScope(func() {
			a.hoistDeclarations(s.Statements)
			for _, st := range s.Statements {
				a.checkStatement(st)
			}
		})
	case *ast.ExprStmt:
		a.inferExpr(s.Expr)
	case *ast.ImportDecl:
		for _, spec := range s.Specifiers {
			a.scope.Define(spec.Local, types.Any, false, false)
		}
	case *ast.ExportDecl:
		if s.Decl != nil {
			a.checkStatement(s.Decl)
		}
	case *ast.ReferenceDirective:
		// resolved by the loader, not the checker
	}
}

func (a *Analyzer) withScope(f func()) {
	outer := a.scope
	a.scope = outer.Enclosed()
	f()
	a.scope = outer
}

func (a *Analyzer) checkVarDecl(s *ast.VarDecl) {
	for _, d := range s.Declarators {
		declared := a.resolveType(d.Type, nil)
		var actual *types.Type
		if d.Init != nil {
			actual = a.inferExpr(d.Init)
		}
		var finalType *types.Type
		switch {
		case d.Type != nil:
			finalType = declared
			if actual != nil && !types.AssignableTo(actual, declared) {
				a.addError("type "+actual.String()+" is not assignable to type "+declared.String(), d.Init)
			}
		case actual != nil:
			finalType = actual
		default:
			finalType = types.Any
		}
		a.bindPattern(d.Pattern, finalType, s.Kind == ast.DeclConst)
	}
}

// bindPattern destructures a binding pattern against a static type as far
// as possible, falling back to any for computed/rest slots whose element
// type can't be narrowed structurally.
func (a *Analyzer) bindPattern(pat ast.Pattern, t *types.Type, isConst bool) {
	switch p := pat.(type) {
	case *ast.IdentifierPattern:
		a.scope.Define(p.Name, t, isConst, false)
	case *ast.ArrayPattern:
		elem := types.Any
		if t.Tag == types.TArray {
			elem = t.Elem
		}
		for i, el := range p.Elements {
			if el.Pattern == nil {
				continue
			}
			et := elem
			if t.Tag == types.TTuple && i < len(t.Elements) {
				et = t.Elements[i]
			}
			if el.Rest {
				et = types.ArrayOf(elem)
			}
			a.bindPattern(el.Pattern, et, isConst)
		}
	case *ast.ObjectPattern:
		for _, prop := range p.Properties {
			if prop.Rest {
				a.scope.Define(prop.Key, &types.Type{Tag: types.TObject}, isConst, false)
				continue
			}
			pt := types.Any
			if pp, ok := types.LookupProperty(t, prop.Key); ok {
				pt = pp.Type
			}
			a.bindPattern(prop.Value, pt, isConst)
		}
	}
}

func (a *Analyzer) checkFunctionBody(fn *ast.FunctionExpr, tparams map[string]*types.Type) {
	if fn.Body == nil {
		return
	}
	ft := a.functionType(fn, tparams)
	outerReturn := a.currentReturn
	a.currentReturn = ft.Return
	a.withScope(func() {
		for i, p := range fn.Params {
			a.bindPattern(p.Pattern, ft.Params[i].Type, false)
		}
		a.hoistDeclarations(fn.Body.Statements)
		for _, st := range fn.Body.Statements {
			a.checkStatement(st)
		}
	})
	a.currentReturn = outerReturn
}

func (a *Analyzer) checkClassBody(decl *ast.ClassDecl) {
	t := a.classes[decl.Name]
	outerClass := a.currentClass
	a.currentClass = t
	tparams := map[string]*types.Type{}
	for _, tp := range decl.TypeParams {
		tparams[tp.Name] = &types.Type{Tag: types.TTypeParam, Name: tp.Name}
	}
	a.withScope(func() {
		a.scope.Define("this", t, false, true)
		for _, m := range decl.Members {
			switch m.Kind {
			case ast.MemberMethod, ast.MemberConstructor, ast.MemberGetter, ast.MemberSetter:
				if m.Body != nil {
					fn := &ast.FunctionExpr{Params: m.Params, Body: m.Body, ReturnType: m.Type, Generator: m.Generator, Async: m.Async}
					a.checkFunctionBody(fn, tparams)
				}
			case ast.MemberField:
				if m.Value != nil {
					a.inferExpr(m.Value)
				}
			case ast.MemberStaticBlock:
				for _, st := range m.StaticBody {
					a.checkStatement(st)
				}
			}
		}
	})
	if !decl.Abstract {
		a.checkAbstractMembersImplemented(t, decl)
	}
	a.currentClass = outerClass
}

func (a *Analyzer) checkAbstractMembersImplemented(t *types.Type, decl *ast.ClassDecl) {
	for base := t.Base; base != nil; base = base.Base {
		for name := range base.AbstractMembers {
			// The abstract declaration itself is a property of base, so only
			// a non-abstract member declared below base counts.
			implemented := false
			for c := t; c != nil && c != base && !implemented; c = c.Base {
				for _, prop := range c.Properties {
					if prop.Name == name && !c.AbstractMembers[name] {
						implemented = true
					}
				}
			}
			if !implemented {
				a.addError("non-abstract class "+decl.Name+" does not implement abstract member "+name, decl)
			}
		}
	}
}
