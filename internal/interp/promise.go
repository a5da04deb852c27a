package interp

import "github.com/tsxlang/tsx/internal/interp/runtime"

type promiseState int

const (
	promisePending promiseState = iota
	promiseFulfilled
	promiseRejected
)

// reaction is an internal (non-user-facing) callback subscribed to a
// Promise's settlement, used both to drive async-function resumption and
// to implement the public .then/.catch surface.
type reaction struct {
	onFulfill func(runtime.Value)
	onReject  func(runtime.Value)
}

// Promise implements spec.md §5's Promise semantics: a pending value that
// settles exactly once, notifying subscribers through the interpreter's
// FIFO microtask queue rather than synchronously (per the spec's
// single-threaded cooperative scheduling).
type Promise struct {
	state  promiseState
	value  runtime.Value
	chain  []reaction
}

func NewPromise() *Promise {
	return &Promise{state: promisePending}
}

func (p *Promise) TypeOf() string { return "object" }
func (p *Promise) String() string { return "[object Promise]" }

// Resolve settles p as fulfilled with v, or — if v is itself a thenable —
// adopts that promise's eventual state instead (the Promise Resolution
// Procedure).
func (p *Promise) Resolve(it *Interpreter, v runtime.Value) {
	if p.state != promisePending {
		return
	}
	if inner, ok := v.(*Promise); ok {
		inner.Subscribe(it, func(val runtime.Value) { p.Resolve(it, val) }, func(reason runtime.Value) { p.Reject(it, reason) })
		return
	}
	p.state = promiseFulfilled
	p.value = v
	p.flush(it)
}

func (p *Promise) Reject(it *Interpreter, reason runtime.Value) {
	if p.state != promisePending {
		return
	}
	p.state = promiseRejected
	p.value = reason
	p.flush(it)
}

func (p *Promise) flush(it *Interpreter) {
	reactions := p.chain
	p.chain = nil
	for _, r := range reactions {
		r := r
		it.QueueMicrotask(func() { p.notify(r) })
	}
}

func (p *Promise) notify(r reaction) {
	switch p.state {
	case promiseFulfilled:
		if r.onFulfill != nil {
			r.onFulfill(p.value)
		}
	case promiseRejected:
		if r.onReject != nil {
			r.onReject(p.value)
		}
	}
}

// Subscribe registers internal reactions, firing immediately (via the
// microtask queue) if p has already settled.
func (p *Promise) Subscribe(it *Interpreter, onFulfill, onReject func(runtime.Value)) {
	r := reaction{onFulfill: onFulfill, onReject: onReject}
	if p.state == promisePending {
		p.chain = append(p.chain, r)
		return
	}
	it.QueueMicrotask(func() { p.notify(r) })
}

// Then implements Promise.prototype.then: a derived promise resolved with
// the handler's return value, or rejected if the handler throws.
func (p *Promise) Then(it *Interpreter, onFulfill, onReject *runtime.Function) *Promise {
	derived := NewPromise()
	p.Subscribe(it,
		func(v runtime.Value) {
			if onFulfill == nil {
				derived.Resolve(it, v)
				return
			}
			result, err := onFulfill.Call(runtime.UndefinedValue, []runtime.Value{v})
			if err != nil {
				derived.Reject(it, exceptionValue(err))
				return
			}
			derived.Resolve(it, result)
		},
		func(reason runtime.Value) {
			if onReject == nil {
				derived.Reject(it, reason)
				return
			}
			result, err := onReject.Call(runtime.UndefinedValue, []runtime.Value{reason})
			if err != nil {
				derived.Reject(it, exceptionValue(err))
				return
			}
			derived.Resolve(it, result)
		},
	)
	return derived
}

// toPromise normalizes an awaited value into a Promise, wrapping a plain
// value in an already-fulfilled one (spec.md §5: "await on a non-promise
// value resolves immediately on the next microtask tick").
func (it *Interpreter) toPromise(v runtime.Value) *Promise {
	if p, ok := v.(*Promise); ok {
		return p
	}
	p := NewPromise()
	p.Resolve(it, v)
	return p
}

// exceptionValue extracts the thrown JS value from a Go error produced
// deeper in evaluation, so it can flow into a Promise's rejection reason.
func exceptionValue(err error) runtime.Value {
	if exc, ok := err.(*runtime.Exception); ok {
		return exc.Thrown
	}
	return runtime.String(err.Error())
}

// nativeConstructor is a `new`-able value built into the interpreter
// itself (just Promise, so far) rather than a user class, implementing
// runtime.Constructor so evalNew can dispatch to it the same way it
// dispatches to a builtins-package constructor or a classRef.
type nativeConstructor struct {
	name  string
	build func(args []runtime.Value) (runtime.Value, error)
}

func (c nativeConstructor) TypeOf() string { return "function" }
func (c nativeConstructor) String() string { return "function " + c.name + "() { [native code] }" }
func (c nativeConstructor) Construct(args []runtime.Value) (runtime.Value, error) {
	return c.build(args)
}

// installPromiseConstructor wires the `new Promise((resolve, reject) => ...)`
// executor form into the global scope. Only the executor form exists: the
// constructor value carries no static methods (no Promise.resolve,
// Promise.reject or Promise.all).
func (it *Interpreter) installPromiseConstructor() {
	ctor := nativeConstructor{name: "Promise", build: func(args []runtime.Value) (runtime.Value, error) {
		p := NewPromise()
		if len(args) == 0 {
			return p, nil
		}
		executor, ok := args[0].(runtime.CallableValue)
		if !ok {
			return nil, runtime.ThrowTypeError("Promise resolver is not a function")
		}
		resolveFn := &runtime.Function{Name: "resolve", Native: func(_ runtime.Value, rargs []runtime.Value) (runtime.Value, error) {
			var v runtime.Value = runtime.UndefinedValue
			if len(rargs) > 0 {
				v = rargs[0]
			}
			p.Resolve(it, v)
			return runtime.UndefinedValue, nil
		}}
		rejectFn := &runtime.Function{Name: "reject", Native: func(_ runtime.Value, rargs []runtime.Value) (runtime.Value, error) {
			var v runtime.Value = runtime.UndefinedValue
			if len(rargs) > 0 {
				v = rargs[0]
			}
			p.Reject(it, v)
			return runtime.UndefinedValue, nil
		}}
		if _, err := executor.Call(runtime.UndefinedValue, []runtime.Value{resolveFn, rejectFn}); err != nil {
			p.Reject(it, exceptionValue(err))
		}
		return p, nil
	}}
	it.Global.Define("Promise", ctor, true)
}
