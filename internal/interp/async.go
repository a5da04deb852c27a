package interp

import (
	"fmt"

	"github.com/tsxlang/tsx/internal/interp/runtime"
	"github.com/tsxlang/tsx/pkg/ast"
)

type asyncResume struct {
	value runtime.Value
	err   error
}

type asyncResult struct {
	value runtime.Value
	err   error
}

// asyncCtx plumbs an async function body's suspension points back to the
// driving goroutine, mirroring Generator's resumeCh/yieldCh pair but
// resuming automatically (via the microtask queue) instead of waiting on
// an external .next() caller.
type asyncCtx struct {
	awaitCh  chan runtime.Value
	resumeCh chan asyncResume
	doneCh   chan asyncResult
}

// runAsync starts an async function's body on its own goroutine and pumps
// it once synchronously up to its first await/return, then returns the
// (possibly still-pending) Promise immediately — an async function call
// never blocks its caller (spec.md §5).
func (it *Interpreter) runAsync(fn *runtime.Function, body *ast.BlockStmt, params []ast.Param, closure *runtime.Environment, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	promise := NewPromise()
	ctx := &asyncCtx{
		awaitCh:  make(chan runtime.Value),
		resumeCh: make(chan asyncResume),
		doneCh:   make(chan asyncResult),
	}

	go func() {
		callEnv := runtime.NewEnclosedEnvironment(closure)
		if err := it.bindParams(params, args, callEnv); err != nil {
			ctx.doneCh <- asyncResult{err: err}
			return
		}
		callEnv.Define("this", orUndefined(this), true)
		callEnv.Define("@@await", it.makeAwaitFn(ctx), true)

		it.hoist(body.Statements, callEnv)
		_, err := it.execStatements(body.Statements, callEnv)
		if err != nil {
			if sig, ok := asSignal(err); ok && sig.kind == ctrlReturn {
				ctx.doneCh <- asyncResult{value: sig.value}
				return
			}
			ctx.doneCh <- asyncResult{err: err}
			return
		}
		ctx.doneCh <- asyncResult{value: runtime.UndefinedValue}
	}()

	it.pumpAsync(ctx, promise)
	return promise, nil
}

// runAsyncExpr is the arrow-function `async () => expr` variant, whose
// body is a single expression rather than a block.
func (it *Interpreter) runAsyncExpr(fn *runtime.Function, expr ast.Expression, callEnv *runtime.Environment) (runtime.Value, error) {
	promise := NewPromise()
	ctx := &asyncCtx{
		awaitCh:  make(chan runtime.Value),
		resumeCh: make(chan asyncResume),
		doneCh:   make(chan asyncResult),
	}
	callEnv.Define("@@await", it.makeAwaitFn(ctx), true)

	go func() {
		v, err := it.evalExpr(expr, callEnv)
		if err != nil {
			ctx.doneCh <- asyncResult{err: err}
			return
		}
		ctx.doneCh <- asyncResult{value: v}
	}()

	it.pumpAsync(ctx, promise)
	return promise, nil
}

func (it *Interpreter) makeAwaitFn(ctx *asyncCtx) *runtime.Function {
	return &runtime.Function{Native: func(_ runtime.Value, aargs []runtime.Value) (runtime.Value, error) {
		var av runtime.Value = runtime.UndefinedValue
		if len(aargs) > 0 {
			av = aargs[0]
		}
		ctx.awaitCh <- av
		res := <-ctx.resumeCh
		if res.err != nil {
			return nil, res.err
		}
		return res.value, nil
	}}
}

// pumpAsync advances an async body until it either finishes or suspends on
// an await, wiring the awaited promise's eventual settlement back to a
// resumption through ctx.resumeCh and a re-entrant pump.
func (it *Interpreter) pumpAsync(ctx *asyncCtx, promise *Promise) {
	select {
	case result := <-ctx.doneCh:
		if result.err != nil {
			promise.Reject(it, exceptionValue(result.err))
			return
		}
		promise.Resolve(it, result.value)
	case awaited := <-ctx.awaitCh:
		p := it.toPromise(awaited)
		p.Subscribe(it,
			func(v runtime.Value) {
				ctx.resumeCh <- asyncResume{value: v}
				it.pumpAsync(ctx, promise)
			},
			func(reason runtime.Value) {
				ctx.resumeCh <- asyncResume{err: &runtime.Exception{Thrown: reason}}
				it.pumpAsync(ctx, promise)
			},
		)
	}
}

// evalAwait evaluates `await expr`, resolved through the enclosing async
// function's @@await hook (installed by runAsync/runAsyncExpr).
func (it *Interpreter) evalAwait(e *ast.AwaitExpr, env *runtime.Environment) (runtime.Value, error) {
	awaitVal, ok := env.Get("@@await")
	if !ok {
		return nil, fmt.Errorf("interp: await used outside an async function")
	}
	awaitFn, ok := awaitVal.(*runtime.Function)
	if !ok {
		return nil, fmt.Errorf("interp: await used outside an async function")
	}
	v, err := it.evalExpr(e.Argument, env)
	if err != nil {
		return nil, err
	}
	return awaitFn.Call(runtime.UndefinedValue, []runtime.Value{v})
}
