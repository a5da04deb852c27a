package interp

import (
	"github.com/tsxlang/tsx/internal/interp/runtime"
	"github.com/tsxlang/tsx/pkg/ast"
)

func (it *Interpreter) evalArgs(args []ast.Expression, env *runtime.Environment) ([]runtime.Value, error) {
	var out []runtime.Value
	for _, a := range args {
		if spread, ok := a.(*ast.SpreadElement); ok {
			v, err := it.evalExpr(spread.Argument, env)
			if err != nil {
				return nil, err
			}
			if arr, ok := v.(*runtime.Array); ok {
				out = append(out, arr.Elements...)
				continue
			}
			if iterable, ok := v.(runtime.IterableValue); ok {
				iter := iterable.Iterator()
				for {
					item, done := iter.Next()
					if done {
						break
					}
					out = append(out, item)
				}
				continue
			}
			return nil, runtime.ThrowTypeError("spread argument is not iterable")
		}
		v, err := it.evalExpr(a, env)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (it *Interpreter) evalCall(e *ast.CallExpr, env *runtime.Environment) (runtime.Value, error) {
	if _, ok := e.Callee.(*ast.SuperExpr); ok {
		return it.evalSuperCall(e, env)
	}

	var callee runtime.Value
	var this runtime.Value = runtime.UndefinedValue
	var err error

	if m, ok := e.Callee.(*ast.MemberExpr); ok {
		callee, this, err = it.evalMember(m, env)
		if err != nil {
			return nil, err
		}
		if m.Optional && isNullish(this) {
			return runtime.UndefinedValue, nil
		}
	} else {
		callee, err = it.evalExpr(e.Callee, env)
		if err != nil {
			return nil, err
		}
	}

	if e.Optional && isNullish(callee) {
		return runtime.UndefinedValue, nil
	}

	fn, ok := callee.(runtime.CallableValue)
	if !ok {
		return nil, runtime.ThrowTypeError("%s is not a function", describeCallee(e.Callee))
	}
	args, err := it.evalArgs(e.Args, env)
	if err != nil {
		return nil, err
	}
	return fn.Call(this, args)
}

func describeCallee(expr ast.Expression) string {
	switch e := expr.(type) {
	case *ast.Identifier:
		return e.Name
	case *ast.MemberExpr:
		if ident, ok := e.Property.(*ast.Identifier); ok {
			return ident.Name
		}
	}
	return "value"
}

func (it *Interpreter) evalSuperCall(e *ast.CallExpr, env *runtime.Environment) (runtime.Value, error) {
	thisVal, ok := env.Get("this")
	if !ok {
		return nil, runtime.ThrowReferenceError("'super' keyword is only valid inside a derived class constructor")
	}
	instance, ok := thisVal.(*runtime.Instance)
	if !ok {
		return nil, runtime.ThrowReferenceError("'super' keyword is only valid inside a derived class constructor")
	}
	superRef, ok := env.Get("@@superclass")
	if !ok {
		return nil, runtime.ThrowReferenceError("'super' called outside a derived class constructor")
	}
	ownRef, _ := env.Get("@@ownclass")
	args, err := it.evalArgs(e.Args, env)
	if err != nil {
		return nil, err
	}
	if err := it.runConstructor(superRef.(classRef).info, instance, args); err != nil {
		return nil, err
	}
	if own, ok := ownRef.(classRef); ok {
		if err := it.initOwnFields(own.info, instance); err != nil {
			return nil, err
		}
	}
	return runtime.UndefinedValue, nil
}

func (it *Interpreter) evalNew(e *ast.NewExpr, env *runtime.Environment) (runtime.Value, error) {
	var classInfo *runtime.ClassInfo
	if ident, ok := e.Callee.(*ast.Identifier); ok {
		if info, found := it.Classes[ident.Name]; found {
			classInfo = info
		}
	}
	if classInfo == nil {
		v, err := it.evalExpr(e.Callee, env)
		if err != nil {
			return nil, err
		}
		if ctor, ok := v.(runtime.Constructor); ok {
			args, err := it.evalArgs(e.Args, env)
			if err != nil {
				return nil, err
			}
			return ctor.Construct(args)
		}
		ref, ok := v.(classRef)
		if !ok {
			return nil, runtime.ThrowTypeError("%s is not a constructor", describeCallee(e.Callee))
		}
		classInfo = ref.info
	}
	args, err := it.evalArgs(e.Args, env)
	if err != nil {
		return nil, err
	}
	return it.instantiate(classInfo, args)
}
