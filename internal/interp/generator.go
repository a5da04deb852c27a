package interp

import (
	"fmt"

	"github.com/tsxlang/tsx/internal/interp/runtime"
	"github.com/tsxlang/tsx/pkg/ast"
)

type resumeKind int

const (
	resumeNext resumeKind = iota
	resumeReturn
	resumeThrow
)

type genResume struct {
	kind  resumeKind
	value runtime.Value
}

type genYield struct {
	value runtime.Value
	done  bool
	err   error
}

// Generator is a suspended function* invocation: its body runs on its own
// goroutine, blocked on resumeCh between yields, communicating each
// yielded/returned value back over yieldCh. The goroutine's own stack is
// the saved continuation, so resuming never needs to replay any state —
// the idiomatic Go analogue of a reified continuation (DESIGN.md's
// generator/async state machine entry).
type Generator struct {
	name     string
	resumeCh chan genResume
	yieldCh  chan genYield
	started  bool
	finished bool
}

func (g *Generator) TypeOf() string { return "object" }
func (g *Generator) String() string { return "[object Generator]" }

// Iterator satisfies runtime.IterableValue for `for (const x of gen())`.
func (g *Generator) Iterator() runtime.Iterator { return g }

// Next implements runtime.Iterator, discarding a thrown error (for-of has
// no channel to surface it through); callers needing .throw()/.return()
// semantics should use NextValue/ThrowValue/ReturnValue directly.
func (g *Generator) Next() (runtime.Value, bool) {
	v, done, err := g.NextValue(runtime.UndefinedValue)
	if err != nil {
		return runtime.UndefinedValue, true
	}
	return v, done
}

func (g *Generator) NextValue(v runtime.Value) (runtime.Value, bool, error) {
	return g.resume(genResume{kind: resumeNext, value: v})
}

func (g *Generator) ReturnValue(v runtime.Value) (runtime.Value, bool, error) {
	return g.resume(genResume{kind: resumeReturn, value: v})
}

func (g *Generator) ThrowValue(v runtime.Value) (runtime.Value, bool, error) {
	return g.resume(genResume{kind: resumeThrow, value: v})
}

func (g *Generator) resume(r genResume) (runtime.Value, bool, error) {
	if g.finished {
		if r.kind == resumeThrow {
			return runtime.UndefinedValue, true, &runtime.Exception{Thrown: r.value}
		}
		return runtime.UndefinedValue, true, nil
	}
	g.started = true
	g.resumeCh <- r
	y := <-g.yieldCh
	if y.done {
		g.finished = true
	}
	return y.value, y.done, y.err
}

// startGenerator builds a Generator and launches its body goroutine, which
// blocks immediately waiting for the first resume (a generator's body
// never runs before its first .next() call).
func (it *Interpreter) startGenerator(fn *runtime.Function, body *ast.BlockStmt, params []ast.Param, closure *runtime.Environment, this runtime.Value, args []runtime.Value, async bool) (runtime.Value, error) {
	g := &Generator{
		name:     fn.Name,
		resumeCh: make(chan genResume),
		yieldCh:  make(chan genYield),
	}

	go func() {
		first := <-g.resumeCh
		if first.kind == resumeReturn {
			g.yieldCh <- genYield{value: first.value, done: true}
			return
		}
		if first.kind == resumeThrow {
			g.yieldCh <- genYield{value: runtime.UndefinedValue, done: true, err: &runtime.Exception{Thrown: first.value}}
			return
		}

		callEnv := runtime.NewEnclosedEnvironment(closure)
		if err := it.bindParams(params, args, callEnv); err != nil {
			g.yieldCh <- genYield{done: true, err: err}
			return
		}
		callEnv.Define("this", orUndefined(this), true)

		yieldFn := &runtime.Function{Native: func(_ runtime.Value, yargs []runtime.Value) (runtime.Value, error) {
			var yv runtime.Value = runtime.UndefinedValue
			if len(yargs) > 0 {
				yv = yargs[0]
			}
			g.yieldCh <- genYield{value: yv, done: false}
			r := <-g.resumeCh
			switch r.kind {
			case resumeReturn:
				return nil, &ctrlSignal{kind: ctrlReturn, value: r.value}
			case resumeThrow:
				return nil, &runtime.Exception{Thrown: r.value}
			default:
				return r.value, nil
			}
		}}
		callEnv.Define("@@yield", yieldFn, true)

		it.hoist(body.Statements, callEnv)
		_, err := it.execStatements(body.Statements, callEnv)
		if err != nil {
			if sig, ok := asSignal(err); ok && sig.kind == ctrlReturn {
				g.yieldCh <- genYield{value: sig.value, done: true}
				return
			}
			g.yieldCh <- genYield{value: runtime.UndefinedValue, done: true, err: err}
			return
		}
		g.yieldCh <- genYield{value: runtime.UndefinedValue, done: true}
	}()

	return g, nil
}

// evalYield sends through the generator's @@yield hook bound by
// startGenerator into the calling function's environment chain. yield*
// drains a delegate iterable one step at a time, re-yielding each value.
func (it *Interpreter) evalYield(e *ast.YieldExpr, env *runtime.Environment) (runtime.Value, error) {
	yieldVal, ok := env.Get("@@yield")
	if !ok {
		return nil, fmt.Errorf("interp: yield used outside a generator")
	}
	yieldFn, ok := yieldVal.(*runtime.Function)
	if !ok {
		return nil, fmt.Errorf("interp: yield used outside a generator")
	}

	if !e.Delegate {
		var arg runtime.Value = runtime.UndefinedValue
		if e.Argument != nil {
			v, err := it.evalExpr(e.Argument, env)
			if err != nil {
				return nil, err
			}
			arg = v
		}
		return yieldFn.Call(runtime.UndefinedValue, []runtime.Value{arg})
	}

	delegate, err := it.evalExpr(e.Argument, env)
	if err != nil {
		return nil, err
	}
	iterable, ok := delegate.(runtime.IterableValue)
	if !ok {
		return nil, runtime.ThrowTypeError("%s is not iterable", delegate.TypeOf())
	}
	iter := iterable.Iterator()

	// A *Generator delegate carries a real completion value on its
	// NextValue's done result; runtime.Iterator's plain Next() has no slot
	// for it, so drive through NextValue when the delegate exposes it, and
	// only fall back to the last re-yielded value for delegates (arrays,
	// Maps, Sets) that have no completion value of their own.
	if gd, ok := iter.(valueIterator); ok {
		sent := runtime.Value(runtime.UndefinedValue)
		for {
			val, done, err := gd.NextValue(sent)
			if err != nil {
				return nil, err
			}
			if done {
				return val, nil
			}
			resumeVal, err := yieldFn.Call(runtime.UndefinedValue, []runtime.Value{val})
			if err != nil {
				return nil, err
			}
			sent = resumeVal
		}
	}

	var last runtime.Value = runtime.UndefinedValue
	for {
		val, done := iter.Next()
		if done {
			return last, nil
		}
		resumeVal, err := yieldFn.Call(runtime.UndefinedValue, []runtime.Value{val})
		if err != nil {
			return nil, err
		}
		last = resumeVal
	}
}

// valueIterator is satisfied by *Generator, letting yield* recover a
// delegate generator's actual return value instead of approximating it.
type valueIterator interface {
	NextValue(runtime.Value) (runtime.Value, bool, error)
}
