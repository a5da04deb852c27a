package checker

import (
	"github.com/tsxlang/tsx/internal/types"
	"github.com/tsxlang/tsx/pkg/ast"
)

// inferExpr computes the static type of expr, reporting any assignability
// or resolution errors found along the way (spec.md §4.6).
func (a *Analyzer) inferExpr(expr ast.Expression) *types.Type {
	if expr == nil {
		return types.Any
	}
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		return types.Number
	case *ast.StringLiteral:
		return types.String
	case *ast.TemplateLiteral:
		for _, span := range e.Spans {
			if span.Expr != nil {
				a.inferExpr(span.Expr)
			}
		}
		return types.String
	case *ast.BoolLiteral:
		return types.Boolean
	case *ast.NullLiteral:
		return types.Null
	case *ast.UndefinedLiteral:
		return types.Undefined
	case *ast.RegexLiteral:
		return &types.Type{Tag: types.TClass, Name: "RegExp"}
	case *ast.Identifier:
		if sym, ok := a.scope.Resolve(e.Name); ok {
			return sym.Type
		}
		a.addError("undefined identifier "+e.Name, e)
		return types.Any
	case *ast.GroupingExpr:
		return a.inferExpr(e.Expr)
	case *ast.UnaryExpr:
		return a.inferUnary(e)
	case *ast.UpdateExpr:
		a.inferExpr(e.Operand)
		return types.Number
	case *ast.BinaryExpr:
		return a.inferBinary(e)
	case *ast.LogicalExpr:
		return a.inferLogical(e)
	case *ast.AssignmentExpr:
		return a.inferAssignment(e)
	case *ast.ConditionalExpr:
		a.inferExpr(e.Cond)
		return types.Union(a.inferExpr(e.Then), a.inferExpr(e.Else))
	case *ast.CallExpr:
		return a.inferCall(e)
	case *ast.NewExpr:
		return a.inferNew(e)
	case *ast.MemberExpr:
		return a.inferMember(e)
	case *ast.ArrayLiteral:
		return a.inferArrayLiteral(e)
	case *ast.ObjectLiteral:
		return a.inferObjectLiteral(e)
	case *ast.FunctionExpr:
		a.checkFunctionBody(e, nil)
		return a.functionType(e, nil)
	case *ast.ArrowFunctionExpr:
		return a.inferArrow(e)
	case *ast.ClassExpr:
		a.classes[e.Decl.Name] = a.buildClassShell(e.Decl)
		a.populateClassMembers(e.Decl, a.classes[e.Decl.Name])
		a.checkClassBody(e.Decl)
		return a.classes[e.Decl.Name]
	case *ast.SpreadElement:
		return a.inferExpr(e.Argument)
	case *ast.TypeAssertionExpr:
		a.inferExpr(e.Expr)
		return a.resolveType(e.Type, nil)
	case *ast.NonNullExpr:
		t := a.inferExpr(e.Expr)
		return nonNullable(t)
	case *ast.YieldExpr:
		if e.Argument != nil {
			a.inferExpr(e.Argument)
		}
		return types.Any
	case *ast.AwaitExpr:
		t := a.inferExpr(e.Argument)
		if t != nil && t.Tag == types.TClass && t.Name == "Promise" {
			return t.Base
		}
		return t
	case *ast.SuperExpr:
		if a.currentClass != nil {
			return a.currentClass.Base
		}
		return types.Any
	case *ast.ThisExpr:
		if sym, ok := a.scope.Resolve("this"); ok {
			return sym.Type
		}
		return types.Any
	case *ast.SequenceExpr:
		var last *types.Type = types.Undefined
		for _, sub := range e.Exprs {
			last = a.inferExpr(sub)
		}
		return last
	}
	return types.Any
}

func nonNullable(t *types.Type) *types.Type {
	if t == nil || t.Tag != types.TUnion {
		return t
	}
	var kept []*types.Type
	for _, o := range t.Options {
		if o.Tag != types.TNull && o.Tag != types.TUndefined {
			kept = append(kept, o)
		}
	}
	return types.Union(kept...)
}

func (a *Analyzer) inferUnary(e *ast.UnaryExpr) *types.Type {
	t := a.inferExpr(e.Operand)
	switch e.Operator {
	case "typeof":
		return types.String
	case "delete":
		return types.Boolean
	case "!":
		return types.Boolean
	case "-", "+", "~":
		return types.Number
	}
	return t
}

func (a *Analyzer) inferBinary(e *ast.BinaryExpr) *types.Type {
	lt := a.inferExpr(e.Left)
	rt := a.inferExpr(e.Right)
	switch e.Operator {
	case "+":
		if lt.Tag == types.TString || rt.Tag == types.TString {
			return types.String
		}
		return types.Number
	case "-", "*", "/", "%", "**", "&", "|", "^", "<<", ">>", ">>>":
		return types.Number
	case "==", "!=", "===", "!==", "<", ">", "<=", ">=", "instanceof", "in":
		return types.Boolean
	}
	return types.Any
}

func (a *Analyzer) inferLogical(e *ast.LogicalExpr) *types.Type {
	lt := a.inferExpr(e.Left)
	rt := a.inferExpr(e.Right)
	switch e.Operator {
	case "&&":
		return rt
	case "||":
		return types.Union(lt, rt)
	case "??":
		return types.Union(nonNullable(lt), rt)
	}
	return types.Any
}

func (a *Analyzer) inferAssignment(e *ast.AssignmentExpr) *types.Type {
	valType := a.inferExpr(e.Value)
	targetType := a.inferExpr(e.Target)
	if id, ok := e.Target.(*ast.Identifier); ok {
		if sym, ok := a.scope.Resolve(id.Name); ok {
			if sym.Const {
				a.addError("cannot assign to const binding "+id.Name, e)
			}
		}
	}
	if mem, ok := e.Target.(*ast.MemberExpr); ok && !mem.Computed {
		if prop, ok2 := mem.Property.(*ast.Identifier); ok2 {
			objType := a.inferExpr(mem.Object)
			if p, found := types.LookupProperty(objType, prop.Name); found && p.Readonly {
				a.addError("cannot assign to readonly property "+prop.Name, e)
			}
		}
	}
	if e.Operator == "=" && targetType.Tag != types.TAny && !types.AssignableTo(valType, targetType) {
		a.addError("type "+valType.String()+" is not assignable to type "+targetType.String(), e)
	}
	return valType
}

func (a *Analyzer) inferCall(e *ast.CallExpr) *types.Type {
	calleeType := a.inferExpr(e.Callee)
	for _, arg := range e.Args {
		a.inferExpr(arg)
	}
	if calleeType == nil || calleeType.Tag != types.TFunction {
		return types.Any
	}
	return a.resolveOverload(calleeType, e)
}

// resolveOverload implements first-match-by-source-order overload
// resolution: the receiver signature is tried first, then each entry of
// Overloads in declaration order; the first whose arity accepts the call
// site's argument count wins (spec.md §4.6). Argument types are not
// compared against parameter types, and when no candidate's arity fits,
// the receiver signature's return type is used without reporting an error.
func (a *Analyzer) resolveOverload(fn *types.Type, call *ast.CallExpr) *types.Type {
	candidates := append([]*types.Type{fn}, fn.Overloads...)
	for _, cand := range candidates {
		if callMatchesSignature(cand, call) {
			return cand.Return
		}
	}
	return fn.Return
}

func callMatchesSignature(sig *types.Type, call *ast.CallExpr) bool {
	required := 0
	for _, p := range sig.Params {
		if !p.Optional && !p.Rest {
			required++
		}
	}
	if len(call.Args) < required {
		return false
	}
	hasRest := len(sig.Params) > 0 && sig.Params[len(sig.Params)-1].Rest
	if !hasRest && len(call.Args) > len(sig.Params) {
		return false
	}
	return true
}

func (a *Analyzer) inferNew(e *ast.NewExpr) *types.Type {
	var t *types.Type
	if ident, ok := e.Callee.(*ast.Identifier); ok {
		if cls, found := a.classes[ident.Name]; found {
			t = cls
		}
	}
	if t == nil {
		t = a.inferExpr(e.Callee)
	}
	for _, arg := range e.Args {
		a.inferExpr(arg)
	}
	if t != nil && t.Tag == types.TClass && t.Abstract {
		a.addError("cannot construct abstract class "+t.Name, e)
	}
	return t
}

func (a *Analyzer) inferMember(e *ast.MemberExpr) *types.Type {
	objType := a.inferExpr(e.Object)
	if e.Computed {
		keyType := a.inferExpr(e.Property)
		return types.ResolveIndexedAccess(objType, keyType)
	}
	ident, ok := e.Property.(*ast.Identifier)
	if !ok {
		return types.Any
	}
	if objType == nil {
		return types.Any
	}
	if objType.Tag == types.TArray {
		switch ident.Name {
		case "length":
			return types.Number
		case "push", "pop", "shift", "unshift", "slice", "map", "filter", "forEach", "reduce", "includes", "indexOf", "join", "concat", "find", "findIndex", "sort", "reverse", "flat", "flatMap", "some", "every":
			return &types.Type{Tag: types.TFunction}
		}
	}
	if prop, found := types.LookupProperty(objType, ident.Name); found {
		return prop.Type
	}
	if e.Optional {
		return types.Undefined
	}
	if objType.Tag == types.TAny {
		return types.Any
	}
	a.addError("property "+ident.Name+" does not exist on type "+objType.String(), e)
	return types.Any
}

func (a *Analyzer) inferArrayLiteral(e *ast.ArrayLiteral) *types.Type {
	var elemTypes []*types.Type
	for _, el := range e.Elements {
		if el == nil {
			elemTypes = append(elemTypes, types.Undefined)
			continue
		}
		if spread, ok := el.(*ast.SpreadElement); ok {
			st := a.inferExpr(spread.Argument)
			if st != nil && st.Tag == types.TArray {
				elemTypes = append(elemTypes, st.Elem)
			}
			continue
		}
		elemTypes = append(elemTypes, a.inferExpr(el))
	}
	if len(elemTypes) == 0 {
		return types.ArrayOf(types.Any)
	}
	return types.ArrayOf(types.Union(elemTypes...))
}

func (a *Analyzer) inferObjectLiteral(e *ast.ObjectLiteral) *types.Type {
	obj := &types.Type{Tag: types.TObject}
	for _, p := range e.Properties {
		if p.Spread {
			st := a.inferExpr(p.Value)
			if st != nil {
				obj.Properties = append(obj.Properties, st.Properties...)
			}
			continue
		}
		name := ""
		if id, ok := p.Key.(*ast.Identifier); ok {
			name = id.Name
		} else if sl, ok := p.Key.(*ast.StringLiteral); ok {
			name = sl.Value
		}
		if p.Computed {
			a.inferExpr(p.Key)
		}
		valType := a.inferExpr(p.Value)
		if name != "" {
			obj.Properties = append(obj.Properties, types.Property{Name: name, Type: valType})
		}
	}
	return obj
}

func (a *Analyzer) inferArrow(e *ast.ArrowFunctionExpr) *types.Type {
	retType := a.resolveType(e.ReturnType, nil)
	if e.Async {
		retType = &types.Type{Tag: types.TClass, Name: "Promise", Base: retType}
	}
	ft := &types.Type{Tag: types.TFunction, Params: a.resolveParams(e.Params, nil), Return: retType}
	outerReturn := a.currentReturn
	a.currentReturn = ft.Return
	a.withScope(func() {
		for i, p := range e.Params {
			a.bindPattern(p.Pattern, ft.Params[i].Type, false)
		}
		if e.Body != nil {
			a.hoistDeclarations(e.Body.Statements)
			for _, st := range e.Body.Statements {
				a.checkStatement(st)
			}
		} else if e.ExprBody != nil {
			bodyType := a.inferExpr(e.ExprBody)
			if e.ReturnType == nil {
				ft.Return = bodyType
			}
		}
	})
	a.currentReturn = outerReturn
	return ft
}
