package compiler

import (
	"fmt"

	"github.com/tsxlang/tsx/internal/interp/runtime"
)

// Generator, duplicated from internal/interp/generator.go (see DESIGN.md):
// a suspended function* invocation running its compiled body on its own
// goroutine, blocked on resumeCh between yields. Grounded on the same
// resumeCh/yieldCh reified-continuation design; the only difference is the
// goroutine drives vm.runBlock over a FunctionProto's Chunk instead of the
// tree-walking evaluator over an *ast.BlockStmt.

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

type Generator struct {
	name     string
	resumeCh chan genResume
	yieldCh  chan genYield
	started  bool
	finished bool
}

func (g *Generator) TypeOf() string { return "object" }
func (g *Generator) String() string { return "[object Generator]" }

func (g *Generator) Iterator() runtime.Iterator { return g }

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
// blocks immediately waiting for the first resume.
func (vm *VM) startGenerator(fn *runtime.Function, proto *FunctionProto, closure *runtime.Environment, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
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
		if err := vm.bindParams(proto, args, callEnv); err != nil {
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
				return nil, &genReturnSignal{value: r.value}
			case resumeThrow:
				return nil, &runtime.Exception{Thrown: r.value}
			default:
				return r.value, nil
			}
		}}
		callEnv.Define("@@yield", yieldFn, true)

		v, returned, err := vm.runBlock(proto.Chunk, callEnv)
		if err != nil {
			if ret, ok := err.(*genReturnSignal); ok {
				g.yieldCh <- genYield{value: ret.value, done: true}
				return
			}
			g.yieldCh <- genYield{value: runtime.UndefinedValue, done: true, err: err}
			return
		}
		if returned {
			g.yieldCh <- genYield{value: v, done: true}
			return
		}
		g.yieldCh <- genYield{value: runtime.UndefinedValue, done: true}
	}()

	return g, nil
}

// genReturnSignal propagates a .return(v) call through runBlock the same
// way an ordinary error would; OpTry's finally handling treats it like any
// other non-Exception error bubbling through (finally still runs), and the
// generator goroutine above unwraps it into a done yield rather than
// surfacing it to the caller as a thrown exception.
type genReturnSignal struct{ value runtime.Value }

func (s *genReturnSignal) Error() string { return fmt.Sprintf("generator return: %v", s.value) }

// evalYield is called by runBlock's OpYield/OpYieldDelegate handlers,
// resolved through the enclosing generator's @@yield hook bound by
// startGenerator.
func (vm *VM) evalYield(arg runtime.Value, env *runtime.Environment) (runtime.Value, error) {
	yieldVal, ok := env.Get("@@yield")
	if !ok {
		return nil, fmt.Errorf("compiler: yield used outside a generator")
	}
	yieldFn, ok := yieldVal.(*runtime.Function)
	if !ok {
		return nil, fmt.Errorf("compiler: yield used outside a generator")
	}
	return yieldFn.Call(runtime.UndefinedValue, []runtime.Value{arg})
}

func (vm *VM) evalYieldDelegate(delegate runtime.Value, env *runtime.Environment) (runtime.Value, error) {
	yieldVal, ok := env.Get("@@yield")
	if !ok {
		return nil, fmt.Errorf("compiler: yield used outside a generator")
	}
	yieldFn, ok := yieldVal.(*runtime.Function)
	if !ok {
		return nil, fmt.Errorf("compiler: yield used outside a generator")
	}
	iterable, ok := delegate.(runtime.IterableValue)
	if !ok {
		return nil, runtime.ThrowTypeError("%s is not iterable", delegate.TypeOf())
	}
	iter := iterable.Iterator()
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
