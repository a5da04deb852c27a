package compiler

import (
	"fmt"

	"github.com/tsxlang/tsx/internal/interp/runtime"
)

// async function machinery, duplicated from internal/interp/async.go (see
// DESIGN.md): same asyncCtx/pumpAsync suspension design, just driving
// vm.runBlock over a compiled Chunk instead of the tree-walking evaluator
// over an *ast.BlockStmt. Unlike interp (which has a separate
// runAsyncExpr for an arrow's `async () => expr` body), compileArrowProto
// already lowers both arrow body shapes into one FunctionProto.Chunk, so a
// single runAsync entry point covers both.

type asyncResume struct {
	value runtime.Value
	err   error
}

type asyncResult struct {
	value runtime.Value
	err   error
}

type asyncCtx struct {
	awaitCh  chan runtime.Value
	resumeCh chan asyncResume
	doneCh   chan asyncResult
}

// runAsync starts chunk on its own goroutine against callEnv (params and
// `this` already bound by invoke/runConstructor) and pumps it synchronously
// up to its first await or completion, then returns the (possibly still
// pending) Promise immediately: an async function call never blocks its
// caller.
func (vm *VM) runAsync(chunk *Chunk, callEnv *runtime.Environment) (runtime.Value, error) {
	promise := NewPromise()
	ctx := &asyncCtx{
		awaitCh:  make(chan runtime.Value),
		resumeCh: make(chan asyncResume),
		doneCh:   make(chan asyncResult),
	}
	callEnv.Define("@@await", vm.makeAwaitFn(ctx), true)

	go func() {
		v, returned, err := vm.runBlock(chunk, callEnv)
		if err != nil {
			ctx.doneCh <- asyncResult{err: err}
			return
		}
		if returned {
			ctx.doneCh <- asyncResult{value: v}
			return
		}
		ctx.doneCh <- asyncResult{value: runtime.UndefinedValue}
	}()

	vm.pumpAsync(ctx, promise)
	return promise, nil
}

func (vm *VM) makeAwaitFn(ctx *asyncCtx) *runtime.Function {
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
func (vm *VM) pumpAsync(ctx *asyncCtx, promise *Promise) {
	select {
	case result := <-ctx.doneCh:
		if result.err != nil {
			promise.Reject(vm, exceptionValue(result.err))
			return
		}
		promise.Resolve(vm, result.value)
	case awaited := <-ctx.awaitCh:
		p := vm.toPromise(awaited)
		p.Subscribe(vm,
			func(v runtime.Value) {
				ctx.resumeCh <- asyncResume{value: v}
				vm.pumpAsync(ctx, promise)
			},
			func(reason runtime.Value) {
				ctx.resumeCh <- asyncResume{err: &runtime.Exception{Thrown: reason}}
				vm.pumpAsync(ctx, promise)
			},
		)
	}
}

// evalAwait is called by runBlock's OpAwait handler: arg is the already
// evaluated operand, resolved through the enclosing async function's
// @@await hook installed by runAsync.
func (vm *VM) evalAwait(arg runtime.Value, env *runtime.Environment) (runtime.Value, error) {
	awaitVal, ok := env.Get("@@await")
	if !ok {
		return nil, fmt.Errorf("compiler: await used outside an async function")
	}
	awaitFn, ok := awaitVal.(*runtime.Function)
	if !ok {
		return nil, fmt.Errorf("compiler: await used outside an async function")
	}
	return awaitFn.Call(runtime.UndefinedValue, []runtime.Value{arg})
}
