package compiler

import "github.com/tsxlang/tsx/internal/interp/runtime"

// Promise, duplicated from internal/interp/promise.go rather than shared
// across packages (see DESIGN.md): identical state machine, driven by the
// VM's microtask queue instead of the tree-walking evaluator's.

type promiseState int

const (
	promisePending promiseState = iota
	promiseFulfilled
	promiseRejected
)

type reaction struct {
	onFulfill func(runtime.Value)
	onReject  func(runtime.Value)
}

// Promise implements the same settle-once, microtask-notified semantics as
// interp.Promise, so compiled and interpreted code share identical
// async/await and .then/.catch behavior.
type Promise struct {
	state promiseState
	value runtime.Value
	chain []reaction
}

func NewPromise() *Promise {
	return &Promise{state: promisePending}
}

func (p *Promise) TypeOf() string { return "object" }
func (p *Promise) String() string { return "[object Promise]" }

func (p *Promise) Resolve(vm *VM, v runtime.Value) {
	if p.state != promisePending {
		return
	}
	if inner, ok := v.(*Promise); ok {
		inner.Subscribe(vm, func(val runtime.Value) { p.Resolve(vm, val) }, func(reason runtime.Value) { p.Reject(vm, reason) })
		return
	}
	p.state = promiseFulfilled
	p.value = v
	p.flush(vm)
}

func (p *Promise) Reject(vm *VM, reason runtime.Value) {
	if p.state != promisePending {
		return
	}
	p.state = promiseRejected
	p.value = reason
	p.flush(vm)
}

func (p *Promise) flush(vm *VM) {
	reactions := p.chain
	p.chain = nil
	for _, r := range reactions {
		r := r
		vm.QueueMicrotask(func() { p.notify(r) })
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

func (p *Promise) Subscribe(vm *VM, onFulfill, onReject func(runtime.Value)) {
	r := reaction{onFulfill: onFulfill, onReject: onReject}
	if p.state == promisePending {
		p.chain = append(p.chain, r)
		return
	}
	vm.QueueMicrotask(func() { p.notify(r) })
}

func (p *Promise) Then(vm *VM, onFulfill, onReject *runtime.Function) *Promise {
	derived := NewPromise()
	p.Subscribe(vm,
		func(v runtime.Value) {
			if onFulfill == nil {
				derived.Resolve(vm, v)
				return
			}
			result, err := onFulfill.Call(runtime.UndefinedValue, []runtime.Value{v})
			if err != nil {
				derived.Reject(vm, exceptionValue(err))
				return
			}
			derived.Resolve(vm, result)
		},
		func(reason runtime.Value) {
			if onReject == nil {
				derived.Reject(vm, reason)
				return
			}
			result, err := onReject.Call(runtime.UndefinedValue, []runtime.Value{reason})
			if err != nil {
				derived.Reject(vm, exceptionValue(err))
				return
			}
			derived.Resolve(vm, result)
		},
	)
	return derived
}

func (vm *VM) toPromise(v runtime.Value) *Promise {
	if p, ok := v.(*Promise); ok {
		return p
	}
	p := NewPromise()
	p.Resolve(vm, v)
	return p
}

func exceptionValue(err error) runtime.Value {
	if exc, ok := err.(*runtime.Exception); ok {
		return exc.Thrown
	}
	return runtime.String(err.Error())
}

type nativeConstructor struct {
	name  string
	build func(args []runtime.Value) (runtime.Value, error)
}

func (c nativeConstructor) TypeOf() string { return "function" }
func (c nativeConstructor) String() string { return "function " + c.name + "() { [native code] }" }
func (c nativeConstructor) Construct(args []runtime.Value) (runtime.Value, error) {
	return c.build(args)
}

// installPromiseConstructor wires `new Promise((resolve, reject) => ...)`
// into the global scope, mirroring interp.installPromiseConstructor.
func (vm *VM) installPromiseConstructor() {
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
			p.Resolve(vm, v)
			return runtime.UndefinedValue, nil
		}}
		rejectFn := &runtime.Function{Name: "reject", Native: func(_ runtime.Value, rargs []runtime.Value) (runtime.Value, error) {
			var v runtime.Value = runtime.UndefinedValue
			if len(rargs) > 0 {
				v = rargs[0]
			}
			p.Reject(vm, v)
			return runtime.UndefinedValue, nil
		}}
		if _, err := executor.Call(runtime.UndefinedValue, []runtime.Value{resolveFn, rejectFn}); err != nil {
			p.Reject(vm, exceptionValue(err))
		}
		return p, nil
	}}
	vm.Global.Define("Promise", ctor, true)
}
