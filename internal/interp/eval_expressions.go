package interp

import (
	"fmt"
	"strings"

	"github.com/tsxlang/tsx/internal/interp/runtime"
	"github.com/tsxlang/tsx/pkg/ast"
)

// evalExpr evaluates expr against env, producing the resulting runtime
// value or propagating a thrown runtime.Exception.
func (it *Interpreter) evalExpr(expr ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		return runtime.Number(e.Value), nil
	case *ast.StringLiteral:
		return runtime.String(e.Value), nil
	case *ast.TemplateLiteral:
		return it.evalTemplate(e, env)
	case *ast.BoolLiteral:
		return runtime.Boolean(e.Value), nil
	case *ast.NullLiteral:
		return runtime.NullValue, nil
	case *ast.UndefinedLiteral:
		return runtime.UndefinedValue, nil
	case *ast.RegexLiteral:
		return runtime.String("/" + e.Pattern + "/" + e.Flags), nil
	case *ast.Identifier:
		if v, ok := env.Get(e.Name); ok {
			return v, nil
		}
		if ref, ok := it.Classes[e.Name]; ok {
			return classRef{ref}, nil
		}
		return nil, runtime.ThrowReferenceError("%s is not defined", e.Name)
	case *ast.GroupingExpr:
		return it.evalExpr(e.Expr, env)
	case *ast.UnaryExpr:
		if e.Operator == "delete" {
			return it.evalDelete(e.Operand, env)
		}
		operand, err := it.evalExpr(e.Operand, env)
		if err != nil {
			return nil, err
		}
		return it.evalUnary(e.Operator, operand)
	case *ast.UpdateExpr:
		return it.evalUpdate(e, env)
	case *ast.BinaryExpr:
		left, err := it.evalExpr(e.Left, env)
		if err != nil {
			return nil, err
		}
		right, err := it.evalExpr(e.Right, env)
		if err != nil {
			return nil, err
		}
		return it.evalBinary(e.Operator, left, right)
	case *ast.LogicalExpr:
		return it.evalLogical(e, env)
	case *ast.AssignmentExpr:
		return it.evalAssignment(e, env)
	case *ast.ConditionalExpr:
		cond, err := it.evalExpr(e.Cond, env)
		if err != nil {
			return nil, err
		}
		if runtime.Truthy(cond) {
			return it.evalExpr(e.Then, env)
		}
		return it.evalExpr(e.Else, env)
	case *ast.CallExpr:
		return it.evalCall(e, env)
	case *ast.NewExpr:
		return it.evalNew(e, env)
	case *ast.MemberExpr:
		v, _, err := it.evalMember(e, env)
		return v, err
	case *ast.ArrayLiteral:
		return it.evalArrayLiteral(e, env)
	case *ast.ObjectLiteral:
		return it.evalObjectLiteral(e, env)
	case *ast.FunctionExpr:
		return it.makeFunction(e, env), nil
	case *ast.ArrowFunctionExpr:
		this, _ := env.Get("this")
		return it.makeArrow(e, env, this), nil
	case *ast.ClassExpr:
		return it.evalClassExpr(e, env)
	case *ast.SpreadElement:
		return it.evalExpr(e.Argument, env)
	case *ast.TypeAssertionExpr:
		return it.evalExpr(e.Expr, env)
	case *ast.NonNullExpr:
		return it.evalExpr(e.Expr, env)
	case *ast.YieldExpr:
		return it.evalYield(e, env)
	case *ast.AwaitExpr:
		return it.evalAwait(e, env)
	case *ast.SuperExpr:
		if v, ok := env.Get("this"); ok {
			return v, nil
		}
		return runtime.UndefinedValue, nil
	case *ast.ThisExpr:
		if v, ok := env.Get("this"); ok {
			return v, nil
		}
		return runtime.UndefinedValue, nil
	case *ast.SequenceExpr:
		var last runtime.Value = runtime.UndefinedValue
		for _, sub := range e.Exprs {
			v, err := it.evalExpr(sub, env)
			if err != nil {
				return nil, err
			}
			last = v
		}
		return last, nil
	}
	return nil, fmt.Errorf("interp: unhandled expression %T", expr)
}

func (it *Interpreter) evalTemplate(e *ast.TemplateLiteral, env *runtime.Environment) (runtime.Value, error) {
	var sb strings.Builder
	for _, span := range e.Spans {
		if span.Expr == nil {
			sb.WriteString(span.Text)
			continue
		}
		v, err := it.evalExpr(span.Expr, env)
		if err != nil {
			return nil, err
		}
		sb.WriteString(v.String())
	}
	return runtime.String(sb.String()), nil
}

func (it *Interpreter) evalLogical(e *ast.LogicalExpr, env *runtime.Environment) (runtime.Value, error) {
	left, err := it.evalExpr(e.Left, env)
	if err != nil {
		return nil, err
	}
	switch e.Operator {
	case "&&":
		if !runtime.Truthy(left) {
			return left, nil
		}
	case "||":
		if runtime.Truthy(left) {
			return left, nil
		}
	case "??":
		if !isNullish(left) {
			return left, nil
		}
	default:
		return nil, fmt.Errorf("interp: unsupported logical operator %q", e.Operator)
	}
	return it.evalExpr(e.Right, env)
}

func (it *Interpreter) evalDelete(target ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	m, ok := target.(*ast.MemberExpr)
	if !ok {
		return runtime.True, nil
	}
	obj, err := it.evalExpr(m.Object, env)
	if err != nil {
		return nil, err
	}
	name, err := it.memberName(m, env)
	if err != nil {
		return nil, err
	}
	switch o := obj.(type) {
	case *runtime.Object:
		return runtime.Boolean(o.Delete(name)), nil
	case *runtime.Instance:
		return runtime.Boolean(o.Object.Delete(name)), nil
	}
	return runtime.True, nil
}

func (it *Interpreter) memberName(m *ast.MemberExpr, env *runtime.Environment) (string, error) {
	if !m.Computed {
		return m.Property.(*ast.Identifier).Name, nil
	}
	v, err := it.evalExpr(m.Property, env)
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

// evalMember resolves a member expression, returning the value plus the
// receiver object it was resolved against (needed by evalCall to bind
// `this` for method calls without re-evaluating m.Object).
func (it *Interpreter) evalMember(m *ast.MemberExpr, env *runtime.Environment) (runtime.Value, runtime.Value, error) {
	if _, ok := m.Object.(*ast.SuperExpr); ok {
		return it.evalSuperMember(m, env)
	}
	obj, err := it.evalExpr(m.Object, env)
	if err != nil {
		return nil, nil, err
	}
	if m.Optional && isNullish(obj) {
		return runtime.UndefinedValue, obj, nil
	}
	if m.Computed {
		idx, err := it.evalExpr(m.Property, env)
		if err != nil {
			return nil, nil, err
		}
		if arr, ok := obj.(*runtime.Array); ok {
			v, _ := arr.GetIndex(idx)
			return v, obj, nil
		}
		if indexable, ok := obj.(runtime.IndexableValue); ok {
			v, _ := indexable.GetIndex(idx)
			return v, obj, nil
		}
		return runtime.UndefinedValue, obj, nil
	}
	name := m.Property.(*ast.Identifier).Name
	v, err := it.getMemberByName(obj, name)
	return v, obj, err
}

func (it *Interpreter) evalSuperMember(m *ast.MemberExpr, env *runtime.Environment) (runtime.Value, runtime.Value, error) {
	thisVal, _ := env.Get("this")
	name, err := it.memberName(m, env)
	if err != nil {
		return nil, nil, err
	}
	refVal, ok := env.Get("@@superclass")
	if !ok {
		return runtime.UndefinedValue, thisVal, nil
	}
	ref := refVal.(classRef)
	if fn, ok := ref.info.LookupMethod(name); ok {
		return fn, thisVal, nil
	}
	if getter, ok := ref.info.LookupMethod("get " + name); ok {
		v, err := getter.Call(thisVal, nil)
		return v, thisVal, err
	}
	return runtime.UndefinedValue, thisVal, nil
}

// getMemberByName implements the property-resolution chain (for an
// instance: class accessor getter -> own/inherited data property -> class
// instance method table -> builtin prototype table -> undefined), grounded
// on DESIGN.md's
// internal/interp entry.
func (it *Interpreter) getMemberByName(obj runtime.Value, name string) (runtime.Value, error) {
	switch o := obj.(type) {
	case *runtime.Instance:
		if getter, ok := o.Class.LookupMethod("get " + name); ok {
			return getter.Call(o, nil)
		}
		if v, ok := lookupInstanceMember(o, name); ok {
			return v, nil
		}
		if v, ok := runtime.ObjectProto.Get(name, o); ok {
			return v, nil
		}
		return runtime.UndefinedValue, nil
	case *runtime.Object:
		if v, ok := o.Get(name, o); ok {
			return v, nil
		}
		if v, ok := runtime.ObjectProto.Get(name, o); ok {
			return v, nil
		}
		return runtime.UndefinedValue, nil
	case *runtime.Array:
		if name == "length" {
			return runtime.Number(o.Length()), nil
		}
		if v, ok := o.GetIndex(runtime.String(name)); ok {
			return v, nil
		}
		if v, ok := runtime.ArrayProto.Get(name, o); ok {
			return v, nil
		}
		return runtime.UndefinedValue, nil
	case runtime.String:
		if name == "length" {
			return runtime.Number(len([]rune(string(o)))), nil
		}
		if v, ok := runtime.StringProto.Get(name, o); ok {
			return v, nil
		}
		return runtime.UndefinedValue, nil
	case classRef:
		if v, ok := o.info.Static.Get(name, o.info.Static); ok {
			return v, nil
		}
		return runtime.UndefinedValue, nil
	case *Generator:
		return it.generatorMethod(o, name), nil
	case *Promise:
		return it.promiseMethod(o, name), nil
	case *runtime.MapValue:
		return mapMember(o, name), nil
	case *runtime.SetValue:
		return setMember(o, name), nil
	case *runtime.WeakMapValue:
		return weakMapMember(o, name), nil
	case *runtime.WeakSetValue:
		return weakSetMember(o, name), nil
	case *runtime.Symbol:
		return runtime.UndefinedValue, nil
	case runtime.Undefined, runtime.Null, nil:
		return nil, runtime.ThrowTypeError("cannot read properties of %s (reading %q)", obj.String(), name)
	}
	return runtime.UndefinedValue, nil
}

func (it *Interpreter) generatorMethod(g *Generator, name string) runtime.Value {
	switch name {
	case "next":
		return &runtime.Function{Name: "next", Native: func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
			var arg runtime.Value = runtime.UndefinedValue
			if len(args) > 0 {
				arg = args[0]
			}
			v, done, err := g.NextValue(arg)
			return iteratorResult(v, done), err
		}}
	case "return":
		return &runtime.Function{Name: "return", Native: func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
			var arg runtime.Value = runtime.UndefinedValue
			if len(args) > 0 {
				arg = args[0]
			}
			v, done, err := g.ReturnValue(arg)
			return iteratorResult(v, done), err
		}}
	case "throw":
		return &runtime.Function{Name: "throw", Native: func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
			var arg runtime.Value = runtime.UndefinedValue
			if len(args) > 0 {
				arg = args[0]
			}
			v, done, err := g.ThrowValue(arg)
			return iteratorResult(v, done), err
		}}
	}
	return runtime.UndefinedValue
}

func iteratorResult(v runtime.Value, done bool) *runtime.Object {
	obj := runtime.NewObject()
	obj.DefineData("value", v, true, true, true)
	obj.DefineData("done", runtime.Boolean(done), true, true, true)
	return obj
}

func (it *Interpreter) promiseMethod(p *Promise, name string) runtime.Value {
	switch name {
	case "then":
		return &runtime.Function{Name: "then", Native: func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
			var onF, onR *runtime.Function
			if len(args) > 0 {
				onF, _ = args[0].(*runtime.Function)
			}
			if len(args) > 1 {
				onR, _ = args[1].(*runtime.Function)
			}
			return p.Then(it, onF, onR), nil
		}}
	case "catch":
		return &runtime.Function{Name: "catch", Native: func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
			var onR *runtime.Function
			if len(args) > 0 {
				onR, _ = args[0].(*runtime.Function)
			}
			return p.Then(it, nil, onR), nil
		}}
	case "finally":
		return &runtime.Function{Name: "finally", Native: func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
			var onFinally *runtime.Function
			if len(args) > 0 {
				onFinally, _ = args[0].(*runtime.Function)
			}
			wrap := &runtime.Function{Native: func(this runtime.Value, wargs []runtime.Value) (runtime.Value, error) {
				if onFinally != nil {
					if _, err := onFinally.Call(runtime.UndefinedValue, nil); err != nil {
						return nil, err
					}
				}
				if len(wargs) > 0 {
					return wargs[0], nil
				}
				return runtime.UndefinedValue, nil
			}}
			return p.Then(it, wrap, wrap), nil
		}}
	}
	return runtime.UndefinedValue
}

func (it *Interpreter) evalArrayLiteral(e *ast.ArrayLiteral, env *runtime.Environment) (runtime.Value, error) {
	var elems []runtime.Value
	for _, el := range e.Elements {
		if el == nil {
			elems = append(elems, runtime.UndefinedValue)
			continue
		}
		if spread, ok := el.(*ast.SpreadElement); ok {
			v, err := it.evalExpr(spread.Argument, env)
			if err != nil {
				return nil, err
			}
			if arr, ok := v.(*runtime.Array); ok {
				elems = append(elems, arr.Elements...)
				continue
			}
			if iterable, ok := v.(runtime.IterableValue); ok {
				iter := iterable.Iterator()
				for {
					item, done := iter.Next()
					if done {
						break
					}
					elems = append(elems, item)
				}
				continue
			}
			return nil, runtime.ThrowTypeError("spread argument is not iterable")
		}
		v, err := it.evalExpr(el, env)
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
	}
	return runtime.NewArray(elems...), nil
}

func (it *Interpreter) evalObjectLiteral(e *ast.ObjectLiteral, env *runtime.Environment) (runtime.Value, error) {
	obj := runtime.NewObject()
	for _, prop := range e.Properties {
		if prop.Spread {
			v, err := it.evalExpr(prop.Value, env)
			if err != nil {
				return nil, err
			}
			if src, ok := v.(*runtime.Object); ok {
				for _, k := range src.OwnKeys() {
					sv, _ := src.Get(k, src)
					obj.DefineData(k, sv, true, true, true)
				}
			}
			continue
		}
		key, err := it.propertyKey(prop, env)
		if err != nil {
			return nil, err
		}
		v, err := it.evalExpr(prop.Value, env)
		if err != nil {
			return nil, err
		}
		obj.DefineData(key, v, true, true, true)
	}
	return obj, nil
}

func (it *Interpreter) evalClassExpr(e *ast.ClassExpr, env *runtime.Environment) (runtime.Value, error) {
	decl := e.Decl
	info := &runtime.ClassInfo{Name: decl.Name, Decl: decl, Methods: map[string]*runtime.Function{}, Static: runtime.NewObject(), Abstract: decl.Abstract}
	key := decl.Name
	if key == "" {
		key = fmt.Sprintf("<anonymous class %p>", decl)
	}
	prev := it.Classes[key]
	it.Classes[key] = info
	it.populateClass(decl, env)
	if err := it.execClassDecl(decl, env); err != nil {
		it.Classes[key] = prev
		return nil, err
	}
	return classRef{info}, nil
}
