package compiler

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/tsxlang/tsx/internal/interp/builtins"
	"github.com/tsxlang/tsx/internal/interp/runtime"
	"github.com/tsxlang/tsx/pkg/ast"
	"github.com/tsxlang/tsx/pkg/token"
)

// VM executes a compiled Program: a stack-based interpreter over Chunks,
// sharing runtime.Environment/ClassInfo/Instance/Function with
// internal/interp so both execution modes produce identical observable
// behavior (spec.md's dual lexer/parser/checker front end feeding either
// a tree-walking evaluator or this bytecode engine).
//
// Grounded on the teacher's VM (vm.go/vm_core.go): one VM instance owning
// the global scope, call stack, and class registry for one program run,
// diverging from the teacher's register/slot machine by operating on a
// plain operand stack of runtime.Value and resolving variables through
// Environment instead of a frame's local-slot array (see chunk.go).
type VM struct {
	Global      *runtime.Environment
	CallStack   *runtime.CallStack
	Classes     map[string]*runtime.ClassInfo
	ClassExtras map[*runtime.ClassInfo]*classExtra
	classEnv    map[*runtime.ClassInfo]*runtime.Environment
	Out         io.Writer

	microtasks []func()
}

// New creates a VM with a fresh global scope and wires the tsx builtin
// surface into it via internal/interp/builtins.Install, the same call the
// engine makes on a tree-walking Interpreter before running it, so both
// execution modes start from an identical global environment.
func New() *VM {
	vm := &VM{
		Global:      runtime.NewEnvironment(),
		CallStack:   runtime.NewCallStack(2000),
		Classes:     map[string]*runtime.ClassInfo{},
		ClassExtras: map[*runtime.ClassInfo]*classExtra{},
		classEnv:    map[*runtime.ClassInfo]*runtime.Environment{},
		Out:         os.Stdout,
	}
	runtime.Invoke = vm.invoke
	vm.installPromiseConstructor()
	builtins.Install(vm)
	return vm
}

// GlobalEnv, Writer, and ClassRegistry satisfy internal/interp/builtins.Host,
// the same three accessors Interpreter exposes, so Install runs identically
// ahead of either execution mode.
func (vm *VM) GlobalEnv() *runtime.Environment             { return vm.Global }
func (vm *VM) Writer() io.Writer                           { return vm.Out }
func (vm *VM) ClassRegistry() map[string]*runtime.ClassInfo { return vm.Classes }

// Run adopts prog's classes and runs its entry Chunk against the global
// scope. OpDrainMicrotasks is already baked into the bytecode stream after
// every top-level statement (see CompileProgram), so a single runBlock call
// reproduces interp.Run's per-statement drain without any special casing
// here.
func (vm *VM) Run(prog *Program) error {
	for name, info := range prog.Classes {
		vm.Classes[name] = info
	}
	for info, extra := range prog.ClassExtras {
		vm.ClassExtras[info] = extra
	}
	_, _, err := vm.runBlock(prog.Chunk, vm.Global)
	return err
}

// QueueMicrotask schedules f to run once the current synchronous slice of
// bytecode finishes, backing Promise `.then` callback scheduling.
func (vm *VM) QueueMicrotask(f func()) {
	vm.microtasks = append(vm.microtasks, f)
}

func (vm *VM) drainMicrotasks() {
	for len(vm.microtasks) > 0 {
		task := vm.microtasks[0]
		vm.microtasks = vm.microtasks[1:]
		task()
	}
}

// loopSignal carries a pending break/continue across a try/catch/finally
// Chunk boundary: OpLoopSignal ends the clause Chunk's runBlock call with
// this as its error, OpTry absorbs it (see runTry), and runBlock's
// dispatch loop re-surfaces it to the enclosing Chunk's own
// OpJumpIfBreakSignal/OpJumpIfContinueSignal trampoline rather than
// treating it as a thrown exception.
type loopSignal struct{ isBreak bool }

func (s *loopSignal) Error() string {
	if s.isBreak {
		return "break signal"
	}
	return "continue signal"
}

// iterHandle is the opaque value OpIterNew/OpKeysIterNew push and
// OpIterNext drives: a runtime.Iterator wrapped just enough to live on the
// operand stack.
type iterHandle struct{ iter runtime.Iterator }

func (iterHandle) TypeOf() string { return "object" }
func (iterHandle) String() string { return "[object Iterator]" }

// sliceIterator iterates a precomputed []runtime.Value, backing
// OpKeysIterNew's for-in key enumeration.
type sliceIterator struct {
	vals []runtime.Value
	i    int
}

func (s *sliceIterator) Next() (runtime.Value, bool) {
	if s.i >= len(s.vals) {
		return runtime.UndefinedValue, true
	}
	v := s.vals[s.i]
	s.i++
	return v, false
}

// runBlock executes chunk's instruction stream against env, returning
// (value, true, nil) on an explicit OpReturn, (_, false, nil) on falling
// off the end, or (_, _, err) on a thrown exception or bubbling loop
// signal. pending holds a *loopSignal produced by a nested OpTry call
// until the matching trampoline opcode consumes it; it is local to this
// call (not VM-wide) so concurrently running generator/async goroutines
// never race over it.
func (vm *VM) runBlock(chunk *Chunk, env *runtime.Environment) (runtime.Value, bool, error) {
	var stack []runtime.Value
	var pending *loopSignal

	push := func(v runtime.Value) { stack = append(stack, v) }
	pop := func() runtime.Value {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return v
	}
	peek := func() runtime.Value { return stack[len(stack)-1] }

	binOp := func(sym string) error {
		r := pop()
		l := pop()
		v, err := evalBinary(sym, l, r)
		if err != nil {
			return err
		}
		push(v)
		return nil
	}
	unOp := func(sym string) error {
		v := pop()
		r, err := evalUnary(sym, v)
		if err != nil {
			return err
		}
		push(r)
		return nil
	}

	pc := 0
	for pc < len(chunk.Code) {
		startPC := pc
		inst, next := chunk.At(pc)

		if pending != nil && inst.Op != OpJumpIfBreakSignal && inst.Op != OpJumpIfContinueSignal {
			return runtime.UndefinedValue, false, pending
		}

		switch inst.Op {
		case OpConstant:
			push(chunk.Constants[inst.A])
		case OpNull:
			push(runtime.NullValue)
		case OpUndefined:
			push(runtime.UndefinedValue)
		case OpTrue:
			push(runtime.True)
		case OpFalse:
			push(runtime.False)
		case OpPop:
			pop()
		case OpDup:
			push(peek())

		case OpGetVar:
			name := string(chunk.Constants[inst.A].(runtime.String))
			v, ok := env.Get(name)
			if !ok {
				info, found := vm.Classes[name]
				if !found {
					return nil, false, runtime.ThrowReferenceError("%s is not defined", name)
				}
				v = classRef{info}
			}
			push(v)
		case OpSetVar:
			name := string(chunk.Constants[inst.A].(runtime.String))
			v := pop()
			if err := env.Set(name, v); err != nil {
				return nil, false, err
			}
			push(v)
		case OpDefineVar:
			name := string(chunk.Constants[inst.A].(runtime.String))
			v := pop()
			env.Define(name, v, inst.B != 0)
			push(v)

		case OpAdd:
			if err := binOp("+"); err != nil {
				return nil, false, err
			}
		case OpSub:
			if err := binOp("-"); err != nil {
				return nil, false, err
			}
		case OpMul:
			if err := binOp("*"); err != nil {
				return nil, false, err
			}
		case OpDiv:
			if err := binOp("/"); err != nil {
				return nil, false, err
			}
		case OpMod:
			if err := binOp("%"); err != nil {
				return nil, false, err
			}
		case OpPow:
			if err := binOp("**"); err != nil {
				return nil, false, err
			}
		case OpBitAnd:
			if err := binOp("&"); err != nil {
				return nil, false, err
			}
		case OpBitOr:
			if err := binOp("|"); err != nil {
				return nil, false, err
			}
		case OpBitXor:
			if err := binOp("^"); err != nil {
				return nil, false, err
			}
		case OpShl:
			if err := binOp("<<"); err != nil {
				return nil, false, err
			}
		case OpShr:
			if err := binOp(">>"); err != nil {
				return nil, false, err
			}
		case OpUShr:
			if err := binOp(">>>"); err != nil {
				return nil, false, err
			}
		case OpEq:
			if err := binOp("=="); err != nil {
				return nil, false, err
			}
		case OpNeq:
			if err := binOp("!="); err != nil {
				return nil, false, err
			}
		case OpStrictEq:
			if err := binOp("==="); err != nil {
				return nil, false, err
			}
		case OpStrictNeq:
			if err := binOp("!=="); err != nil {
				return nil, false, err
			}
		case OpLt:
			if err := binOp("<"); err != nil {
				return nil, false, err
			}
		case OpLte:
			if err := binOp("<="); err != nil {
				return nil, false, err
			}
		case OpGt:
			if err := binOp(">"); err != nil {
				return nil, false, err
			}
		case OpGte:
			if err := binOp(">="); err != nil {
				return nil, false, err
			}
		case OpInstanceof:
			if err := binOp("instanceof"); err != nil {
				return nil, false, err
			}
		case OpIn:
			if err := binOp("in"); err != nil {
				return nil, false, err
			}
		case OpNeg:
			if err := unOp("-"); err != nil {
				return nil, false, err
			}
		case OpPos:
			if err := unOp("+"); err != nil {
				return nil, false, err
			}
		case OpNot:
			if err := unOp("!"); err != nil {
				return nil, false, err
			}
		case OpBitNot:
			if err := unOp("~"); err != nil {
				return nil, false, err
			}
		case OpTypeof:
			v := pop()
			push(runtime.String(v.TypeOf()))
		case OpVoid:
			pop()
			push(runtime.UndefinedValue)
		case OpConcat:
			n := int(inst.A)
			parts := make([]string, n)
			for i := n - 1; i >= 0; i-- {
				parts[i] = pop().String()
			}
			joined := ""
			for _, p := range parts {
				joined += p
			}
			push(runtime.String(joined))

		case OpNewArray:
			push(runtime.NewArray())
		case OpArrayAppend:
			v := pop()
			arr := peek().(*runtime.Array)
			arr.Push(v)
		case OpArraySpread:
			v := pop()
			arr := peek().(*runtime.Array)
			if src, ok := v.(*runtime.Array); ok {
				arr.Push(src.Elements...)
			} else if iterable, ok := v.(runtime.IterableValue); ok {
				iter := iterable.Iterator()
				for {
					val, done := iter.Next()
					if done {
						break
					}
					arr.Push(val)
				}
			} else {
				return nil, false, runtime.ThrowTypeError("%s is not iterable", v.TypeOf())
			}
		case OpNewObject:
			push(runtime.NewObject())
		case OpObjectSet:
			name := string(chunk.Constants[inst.A].(runtime.String))
			v := pop()
			obj := peek().(*runtime.Object)
			if err := obj.Set(name, v, obj); err != nil {
				return nil, false, err
			}
		case OpObjectSetComputed:
			v := pop()
			key := pop()
			obj := peek().(*runtime.Object)
			if err := obj.Set(key.String(), v, obj); err != nil {
				return nil, false, err
			}
		case OpObjectSpread:
			v := pop()
			obj := peek().(*runtime.Object)
			if src, ok := v.(*runtime.Object); ok {
				for _, k := range src.OwnKeys() {
					if val, ok := src.Get(k, src); ok {
						obj.DefineData(k, val, true, true, true)
					}
				}
			}

		case OpGetProp:
			name := string(chunk.Constants[inst.A].(runtime.String))
			obj := pop()
			v, err := vm.getMemberByName(obj, name)
			if err != nil {
				return nil, false, err
			}
			push(v)
		case OpGetPropOptional:
			name := string(chunk.Constants[inst.A].(runtime.String))
			obj := pop()
			if isNullish(obj) {
				push(runtime.UndefinedValue)
				break
			}
			v, err := vm.getMemberByName(obj, name)
			if err != nil {
				return nil, false, err
			}
			push(v)
		case OpSetProp:
			name := string(chunk.Constants[inst.A].(runtime.String))
			v := pop()
			obj := pop()
			if err := vm.setMember(obj, name, v); err != nil {
				return nil, false, err
			}
			push(v)
		case OpGetIndex:
			idx := pop()
			obj := pop()
			v, err := vm.getIndex(obj, idx)
			if err != nil {
				return nil, false, err
			}
			push(v)
		case OpSetIndex:
			v := pop()
			idx := pop()
			obj := pop()
			if err := vm.setIndex(obj, idx, v); err != nil {
				return nil, false, err
			}
			push(v)
		case OpGetSuperProp:
			name := string(chunk.Constants[inst.A].(runtime.String))
			thisVal, _ := env.Get("this")
			v, err := vm.resolveSuperMember(env, name, thisVal)
			if err != nil {
				return nil, false, err
			}
			push(v)
		case OpDeleteProp:
			name := string(chunk.Constants[inst.A].(runtime.String))
			obj := pop()
			push(runtime.Boolean(vm.deleteProp(obj, name)))
		case OpDeleteIndex:
			idx := pop()
			obj := pop()
			push(runtime.Boolean(vm.deleteProp(obj, idx.String())))

		case OpAssignTarget:
			v := pop()
			node := chunk.ASTNodes[inst.A]
			if err := vm.assignTarget(chunk, node, v, env); err != nil {
				return nil, false, err
			}
			push(v)

		case OpUpdate:
			node := chunk.ASTNodes[inst.A]
			prefix := inst.B&1 != 0
			decrement := inst.B&2 != 0
			cur, writeBack, err := vm.readUpdateTarget(chunk, node, env)
			if err != nil {
				return nil, false, err
			}
			oldNum := runtime.ToNumberValue(cur)
			newNum := oldNum + 1
			if decrement {
				newNum = oldNum - 1
			}
			newVal := runtime.Number(newNum)
			if err := writeBack(newVal); err != nil {
				return nil, false, err
			}
			if prefix {
				push(newVal)
			} else {
				push(runtime.Number(oldNum))
			}

		case OpJump:
			pc = int(inst.A)
			continue
		case OpJumpIfFalse:
			v := pop()
			if !runtime.Truthy(v) {
				pc = int(inst.A)
				continue
			}
		case OpJumpIfFalseKeep:
			if !runtime.Truthy(peek()) {
				pc = int(inst.A)
				continue
			}
		case OpJumpIfTrueKeep:
			if runtime.Truthy(peek()) {
				pc = int(inst.A)
				continue
			}
		case OpJumpIfNullishKeep:
			if isNullish(peek()) {
				pc = int(inst.A)
				continue
			}
		case OpJumpIfNotNullishKeep:
			if !isNullish(peek()) {
				pc = int(inst.A)
				continue
			}

		case OpIterNew:
			v := pop()
			var iter runtime.Iterator
			if arr, ok := v.(*runtime.Array); ok {
				iter = arr.Iterator()
			} else if iterable, ok := v.(runtime.IterableValue); ok {
				iter = iterable.Iterator()
			} else {
				return nil, false, runtime.ThrowTypeError("%s is not iterable", v.TypeOf())
			}
			push(iterHandle{iter: iter})
		case OpKeysIterNew:
			obj := pop()
			var keys []string
			switch o := obj.(type) {
			case *runtime.Instance:
				keys = o.OwnKeys()
			case *runtime.Object:
				keys = o.OwnKeys()
			case *runtime.Array:
				for i := range o.Elements {
					keys = append(keys, strconv.Itoa(i))
				}
			}
			vals := make([]runtime.Value, len(keys))
			for i, k := range keys {
				vals[i] = runtime.String(k)
			}
			push(iterHandle{iter: &sliceIterator{vals: vals}})
		case OpIterNext:
			h := peek().(iterHandle)
			val, done := h.iter.Next()
			if done {
				pop()
				pc = int(inst.A)
				continue
			}
			push(val)

		case OpMakeFunction:
			proto := chunk.Protos[inst.A]
			push(vm.makeFunctionValue(proto, env))
		case OpMakeArrow:
			proto := chunk.Protos[inst.A]
			this, _ := env.Get("this")
			push(vm.makeArrowValue(proto, env, this))

		case OpCall:
			argsArr := pop().(*runtime.Array)
			callee := pop()
			fn, ok := callee.(runtime.CallableValue)
			if !ok {
				return nil, false, runtime.ThrowTypeError("%s is not a function", callee.String())
			}
			result, err := fn.Call(runtime.UndefinedValue, argsArr.Elements)
			if err != nil {
				return nil, false, err
			}
			push(result)
		case OpCallMethod:
			name := string(chunk.Constants[inst.A].(runtime.String))
			argsArr := pop().(*runtime.Array)
			obj := pop()
			calleeVal, err := vm.getMemberByName(obj, name)
			if err != nil {
				return nil, false, err
			}
			fn, ok := calleeVal.(runtime.CallableValue)
			if !ok {
				return nil, false, runtime.ThrowTypeError("%s is not a function", name)
			}
			result, err := fn.Call(obj, argsArr.Elements)
			if err != nil {
				return nil, false, err
			}
			push(result)
		case OpCallMethodComputed:
			argsArr := pop().(*runtime.Array)
			key := pop()
			obj := pop()
			calleeVal, err := vm.getIndex(obj, key)
			if err != nil {
				return nil, false, err
			}
			fn, ok := calleeVal.(runtime.CallableValue)
			if !ok {
				return nil, false, runtime.ThrowTypeError("%s is not a function", key.String())
			}
			result, err := fn.Call(obj, argsArr.Elements)
			if err != nil {
				return nil, false, err
			}
			push(result)
		case OpCallSuper:
			argsArr := pop().(*runtime.Array)
			result, err := vm.execSuperCall(env, argsArr.Elements)
			if err != nil {
				return nil, false, err
			}
			push(result)
		case OpCallSuperMethod:
			name := string(chunk.Constants[inst.A].(runtime.String))
			argsArr := pop().(*runtime.Array)
			thisVal, _ := env.Get("this")
			calleeVal, err := vm.resolveSuperMember(env, name, thisVal)
			if err != nil {
				return nil, false, err
			}
			fn, ok := calleeVal.(runtime.CallableValue)
			if !ok {
				return nil, false, runtime.ThrowTypeError("%s is not a function", name)
			}
			result, err := fn.Call(thisVal, argsArr.Elements)
			if err != nil {
				return nil, false, err
			}
			push(result)
		case OpNew:
			argsArr := pop().(*runtime.Array)
			callee := pop()
			var result runtime.Value
			var err error
			switch c := callee.(type) {
			case classRef:
				result, err = vm.instantiate(c.info, argsArr.Elements)
			case runtime.Constructor:
				result, err = c.Construct(argsArr.Elements)
			default:
				err = runtime.ThrowTypeError("%s is not a constructor", callee.String())
			}
			if err != nil {
				return nil, false, err
			}
			push(result)

		case OpReturn:
			return pop(), true, nil
		case OpThrow:
			v := pop()
			line := 0
			if startPC < len(chunk.Lines) {
				line = chunk.Lines[startPC]
			}
			return nil, false, &runtime.Exception{Thrown: v, Pos: token.Position{Line: line}, CallStack: vm.CallStack.Snapshot()}

		case OpYield:
			var arg runtime.Value = runtime.UndefinedValue
			if inst.A != 0 {
				arg = pop()
			}
			v, err := vm.evalYield(arg, env)
			if err != nil {
				return nil, false, err
			}
			push(v)
		case OpYieldDelegate:
			delegate := pop()
			v, err := vm.evalYieldDelegate(delegate, env)
			if err != nil {
				return nil, false, err
			}
			push(v)
		case OpAwait:
			arg := pop()
			v, err := vm.evalAwait(arg, env)
			if err != nil {
				return nil, false, err
			}
			push(v)

		case OpPushScope:
			env = runtime.NewEnclosedEnvironment(env)
		case OpPopScope:
			env = env.Outer()

		case OpTry:
			spec := chunk.ASTNodes[inst.A].(*tryHandlerSpec)
			val, returned, err := vm.runTry(chunk, spec, env)
			if err != nil {
				if sig, ok := err.(*loopSignal); ok {
					pending = sig
					pc = next
					continue
				}
				return nil, false, err
			}
			if returned {
				return val, true, nil
			}
		case OpLoopSignal:
			return runtime.UndefinedValue, false, &loopSignal{isBreak: inst.A == 0}
		case OpJumpIfBreakSignal:
			if pending != nil && pending.isBreak {
				pending = nil
				pc = int(inst.A)
				continue
			}
		case OpJumpIfContinueSignal:
			if pending != nil && !pending.isBreak {
				pending = nil
				pc = int(inst.A)
				continue
			}

		case OpDefineClassStatics:
			if err := vm.defineClassStatics(chunk, inst, env); err != nil {
				return nil, false, err
			}

		case OpDrainMicrotasks:
			vm.drainMicrotasks()

		default:
			return nil, false, fmt.Errorf("compiler: unhandled opcode %d", inst.Op)
		}

		pc = next
	}

	return runtime.UndefinedValue, false, nil
}

// runTry runs a try/catch/finally statement's precompiled clauses,
// mirroring interp/eval_statements.go's execTry: the catch clause only
// runs when the try clause's error is a thrown *runtime.Exception (a
// *loopSignal or any other control-flow error skips it by construction,
// via the type assertion below); the finally clause always runs, and a
// return/throw/signal surfacing from it overrides whatever the try/catch
// produced.
func (vm *VM) runTry(chunk *Chunk, spec *tryHandlerSpec, env *runtime.Environment) (runtime.Value, bool, error) {
	tryProto := chunk.Protos[spec.TryProto]
	val, returned, err := vm.runBlock(tryProto.Chunk, runtime.NewEnclosedEnvironment(env))

	if exc, ok := err.(*runtime.Exception); ok && spec.CatchProto >= 0 {
		catchProto := chunk.Protos[spec.CatchProto]
		catchEnv := runtime.NewEnclosedEnvironment(env)
		if spec.HasCatchParam {
			catchEnv.Define(spec.CatchParam, exc.Thrown, false)
		}
		val, returned, err = vm.runBlock(catchProto.Chunk, catchEnv)
	}

	if spec.FinallyProto >= 0 {
		finallyProto := chunk.Protos[spec.FinallyProto]
		fv, freturned, ferr := vm.runBlock(finallyProto.Chunk, runtime.NewEnclosedEnvironment(env))
		if ferr != nil || freturned {
			return fv, freturned, ferr
		}
	}

	return val, returned, err
}

// resolveSuperMember resolves `super.name` (as a plain property read, or as
// the callee of `super.name(...)`) through @@superclass, mirroring
// interp/eval_expressions.go's evalSuperMember: an own method wins, then a
// `get name` accessor invoked against thisVal, then undefined.
func (vm *VM) resolveSuperMember(env *runtime.Environment, name string, thisVal runtime.Value) (runtime.Value, error) {
	refVal, ok := env.Get("@@superclass")
	if !ok {
		return runtime.UndefinedValue, nil
	}
	ref, ok := refVal.(classRef)
	if !ok {
		return runtime.UndefinedValue, nil
	}
	if fn, ok := ref.info.LookupMethod(name); ok {
		return fn, nil
	}
	if getter, ok := ref.info.LookupMethod("get " + name); ok {
		return getter.Call(thisVal, nil)
	}
	return runtime.UndefinedValue, nil
}

// execSuperCall runs `super(...)`, mirroring interp/call.go's evalSuperCall:
// runs the superclass constructor chain against the already-allocated
// `this`, then (since the base constructor doesn't know about this class's
// own fields) initializes this class's own instance fields.
func (vm *VM) execSuperCall(env *runtime.Environment, args []runtime.Value) (runtime.Value, error) {
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
	ref, ok := superRef.(classRef)
	if !ok {
		return nil, runtime.ThrowReferenceError("'super' called outside a derived class constructor")
	}
	if err := vm.runConstructor(ref.info, instance, args); err != nil {
		return nil, err
	}
	if ownRef, ok := env.Get("@@ownclass"); ok {
		if own, ok := ownRef.(classRef); ok {
			if err := vm.initOwnFields(own.info, instance); err != nil {
				return nil, err
			}
		}
	}
	return runtime.UndefinedValue, nil
}

// readUpdateTarget reads the current value of a ++/-- operand (an
// Identifier or MemberExpr) and returns a closure to write the new value
// back, mirroring interp/assign.go's evalUpdate (which reads via evalExpr
// and writes via assignTo, the same two operations split out here so the
// VM can compute the new numeric value in between).
func (vm *VM) readUpdateTarget(chunk *Chunk, node interface{}, env *runtime.Environment) (runtime.Value, func(runtime.Value) error, error) {
	switch t := node.(type) {
	case *ast.Identifier:
		cur, ok := env.Get(t.Name)
		if !ok {
			return nil, nil, runtime.ThrowReferenceError("%s is not defined", t.Name)
		}
		return cur, func(v runtime.Value) error { return env.Set(t.Name, v) }, nil
	case *ast.MemberExpr:
		obj, err := vm.evalExprTarget(chunk, t.Object, env)
		if err != nil {
			return nil, nil, err
		}
		if t.Computed {
			idx, err := vm.evalExprTarget(chunk, t.Property, env)
			if err != nil {
				return nil, nil, err
			}
			cur, err := vm.getIndex(obj, idx)
			if err != nil {
				return nil, nil, err
			}
			return cur, func(v runtime.Value) error { return vm.setIndex(obj, idx, v) }, nil
		}
		name := t.Property.(*ast.Identifier).Name
		cur, err := vm.getMemberByName(obj, name)
		if err != nil {
			return nil, nil, err
		}
		return cur, func(v runtime.Value) error { return vm.setMember(obj, name, v) }, nil
	}
	return nil, nil, fmt.Errorf("compiler: unsupported update target %T", node)
}

// defineClassStatics runs OpDefineClassStatics: materializes classInfo's
// static fields/methods/blocks against a staticEnv with `this` bound to
// its static object, then binds the class name into env, mirroring
// interp/classes.go's execClassDecl.
func (vm *VM) defineClassStatics(chunk *Chunk, inst Instruction, env *runtime.Environment) error {
	name := string(chunk.Constants[inst.A].(runtime.String))
	info, ok := vm.Classes[name]
	if !ok {
		return nil
	}
	vm.classEnv[info] = env
	staticEnv := runtime.NewEnclosedEnvironment(env)
	staticEnv.Define("this", info.Static, true)

	if extra, ok := vm.ClassExtras[info]; ok {
		for _, fi := range extra.StaticFields {
			var val runtime.Value = runtime.UndefinedValue
			if fi.Chunk != nil {
				v, _, err := vm.runBlock(fi.Chunk, staticEnv)
				if err != nil {
					return err
				}
				val = v
			}
			info.Static.DefineData(fi.Name, val, !fi.Readonly, true, true)
		}
		for _, mi := range extra.StaticMethods {
			fn := &runtime.Function{Name: mi.Name, Params: len(mi.Proto.Params), Chunk: mi.Proto, Closure: env}
			switch mi.Kind {
			case ast.MemberGetter:
				info.Static.DefineAccessor(mi.Name, fn, nil, true, true)
			case ast.MemberSetter:
				info.Static.DefineAccessor(mi.Name, nil, fn, true, true)
			default:
				info.Static.DefineData(mi.Name, fn, true, true, true)
			}
		}
		for _, blockChunk := range extra.StaticBlocks {
			if _, _, err := vm.runBlock(blockChunk, runtime.NewEnclosedEnvironment(staticEnv)); err != nil {
				return err
			}
		}
	}

	if name != "" {
		env.Define(name, classRef{info}, true)
	}
	return nil
}
