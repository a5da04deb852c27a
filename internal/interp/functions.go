package interp

import (
	"github.com/tsxlang/tsx/internal/interp/runtime"
	"github.com/tsxlang/tsx/pkg/ast"
	"github.com/tsxlang/tsx/pkg/token"
)

// makeFunction closes fn over env, producing the runtime.Function value
// bound to a let/const name, assigned to a class method slot, or passed as
// a callback. The actual body never runs here; invokeFunction does that
// lazily through runtime.Invoke.
func (it *Interpreter) makeFunction(fn *ast.FunctionExpr, env *runtime.Environment) *runtime.Function {
	return &runtime.Function{
		Name:    fn.Name,
		Params:  requiredParamCount(fn.Params),
		Node:    fn,
		Closure: env,
	}
}

func (it *Interpreter) makeArrow(fn *ast.ArrowFunctionExpr, env *runtime.Environment, this runtime.Value) *runtime.Function {
	f := &runtime.Function{
		Params:  requiredParamCount(fn.Params),
		IsArrow: true,
		Node:    fn,
		Closure: env,
	}
	if this != nil {
		f.BoundThis = this
		f.HasBound = true
	}
	return f
}

func requiredParamCount(params []ast.Param) int {
	n := 0
	for _, p := range params {
		if p.Default != nil || p.Rest || p.Optional {
			break
		}
		n++
	}
	return n
}

// invokeFunction is installed as runtime.Invoke by New, so runtime.Function.Call
// can run a user-defined body without the runtime package importing interp.
func (it *Interpreter) invokeFunction(fn *runtime.Function, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	name := fn.Name
	if name == "" {
		name = "<anonymous>"
	}
	pos := token.Position{}
	if err := it.CallStack.Push(name, pos); err != nil {
		return nil, err
	}
	defer it.CallStack.Pop()

	switch node := fn.Node.(type) {
	case *ast.FunctionExpr:
		if node.Generator {
			return it.startGenerator(fn, node.Body, node.Params, fn.Closure, this, args, node.Async)
		}
		if node.Async {
			return it.runAsync(fn, node.Body, node.Params, fn.Closure, this, args)
		}
		callEnv := runtime.NewEnclosedEnvironment(fn.Closure)
		if err := it.bindParams(node.Params, args, callEnv); err != nil {
			return nil, err
		}
		callEnv.Define("this", orUndefined(this), true)
		callEnv.Define("arguments", runtime.NewArray(args...), true)
		return it.runFunctionBody(node.Body, callEnv)
	case *ast.ArrowFunctionExpr:
		callEnv := runtime.NewEnclosedEnvironment(fn.Closure)
		if err := it.bindParams(node.Params, args, callEnv); err != nil {
			return nil, err
		}
		if node.ExprBody != nil {
			if node.Async {
				return it.runAsyncExpr(fn, node.ExprBody, callEnv)
			}
			return it.evalExpr(node.ExprBody, callEnv)
		}
		if node.Async {
			return it.runAsync(fn, node.Body, node.Params, fn.Closure, this, args)
		}
		return it.runFunctionBody(node.Body, callEnv)
	}
	return runtime.UndefinedValue, nil
}

func (it *Interpreter) runFunctionBody(body *ast.BlockStmt, env *runtime.Environment) (runtime.Value, error) {
	it.hoist(body.Statements, env)
	_, err := it.execStatements(body.Statements, env)
	if err == nil {
		return runtime.UndefinedValue, nil
	}
	if sig, ok := asSignal(err); ok && sig.kind == ctrlReturn {
		return sig.value, nil
	}
	return nil, err
}

func (it *Interpreter) bindParams(params []ast.Param, args []runtime.Value, env *runtime.Environment) error {
	for i, p := range params {
		if p.Rest {
			var rest []runtime.Value
			if i < len(args) {
				rest = append(rest, args[i:]...)
			}
			return it.bindPattern(p.Pattern, runtime.NewArray(rest...), env, false)
		}
		var val runtime.Value = runtime.UndefinedValue
		if i < len(args) && args[i] != nil {
			val = args[i]
		}
		if _, isUndef := val.(runtime.Undefined); isUndef && p.Default != nil {
			v, err := it.evalExpr(p.Default, env)
			if err != nil {
				return err
			}
			val = v
		}
		if err := it.bindPattern(p.Pattern, val, env, false); err != nil {
			return err
		}
	}
	return nil
}

func orUndefined(v runtime.Value) runtime.Value {
	if v == nil {
		return runtime.UndefinedValue
	}
	return v
}
