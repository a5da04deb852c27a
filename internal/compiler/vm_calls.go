package compiler

import (
	"github.com/tsxlang/tsx/internal/interp/runtime"
	"github.com/tsxlang/tsx/pkg/ast"
	"github.com/tsxlang/tsx/pkg/token"
)

// Function creation, invocation, and class instantiation, duplicated from
// internal/interp/functions.go and internal/interp/classes.go (see
// DESIGN.md): same Environment-based closure model, just running a
// FunctionProto's compiled Chunk through runBlock instead of walking an
// *ast.FunctionExpr.

func orUndefined(v runtime.Value) runtime.Value {
	if v == nil {
		return runtime.UndefinedValue
	}
	return v
}

func (vm *VM) makeFunctionValue(proto *FunctionProto, env *runtime.Environment) *runtime.Function {
	return &runtime.Function{
		Name:    proto.Name,
		Params:  requiredParamCount(proto.Params),
		Chunk:   proto,
		Closure: env,
	}
}

func (vm *VM) makeArrowValue(proto *FunctionProto, env *runtime.Environment, this runtime.Value) *runtime.Function {
	f := &runtime.Function{
		Params:  requiredParamCount(proto.Params),
		IsArrow: true,
		Chunk:   proto,
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

// invoke is installed as runtime.Invoke by New, so runtime.Function.Call
// can run a compiled body without the runtime package importing compiler.
func (vm *VM) invoke(fn *runtime.Function, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	proto, ok := fn.Chunk.(*FunctionProto)
	if !ok {
		return runtime.UndefinedValue, nil
	}
	name := fn.Name
	if name == "" {
		name = "<anonymous>"
	}
	if err := vm.CallStack.Push(name, token.Position{}); err != nil {
		return nil, err
	}
	defer vm.CallStack.Pop()

	if proto.IsGenerator {
		return vm.startGenerator(fn, proto, fn.Closure, this, args)
	}

	callEnv := runtime.NewEnclosedEnvironment(fn.Closure)
	if err := vm.bindParams(proto, args, callEnv); err != nil {
		return nil, err
	}
	if !proto.IsArrow {
		callEnv.Define("this", orUndefined(this), true)
		callEnv.Define("arguments", runtime.NewArray(args...), true)
	}
	if proto.IsAsync {
		return vm.runAsync(proto.Chunk, callEnv)
	}
	return vm.runFunctionBody(proto.Chunk, callEnv)
}

// runFunctionBody runs chunk to completion, treating fallthrough
// (returned=false, no explicit `return` hit) as an implicit `undefined`
// return, matching interp's runFunctionBody.
func (vm *VM) runFunctionBody(chunk *Chunk, env *runtime.Environment) (runtime.Value, error) {
	v, returned, err := vm.runBlock(chunk, env)
	if err != nil {
		return nil, err
	}
	if returned {
		return v, nil
	}
	return runtime.UndefinedValue, nil
}

// bindParams binds proto's declared parameters against args into env,
// mirroring interp/functions.go's bindParams but resolving a Default
// expression by running its precompiled Chunk (proto.Defaults) rather than
// walking the AST.
func (vm *VM) bindParams(proto *FunctionProto, args []runtime.Value, env *runtime.Environment) error {
	for i, p := range proto.Params {
		if p.Rest {
			var rest []runtime.Value
			if i < len(args) {
				rest = append(rest, args[i:]...)
			}
			return vm.bindParamPattern(p.Pattern, runtime.NewArray(rest...), env, proto.Defaults)
		}
		var val runtime.Value = runtime.UndefinedValue
		if i < len(args) && args[i] != nil {
			val = args[i]
		}
		if _, isUndef := val.(runtime.Undefined); isUndef && p.Default != nil {
			v, err := vm.runDefault(proto.Defaults, p.Default, env)
			if err != nil {
				return err
			}
			val = v
		}
		if err := vm.bindParamPattern(p.Pattern, val, env, proto.Defaults); err != nil {
			return err
		}
	}
	return nil
}

func (vm *VM) runDefault(defaults map[ast.Expression]*Chunk, expr ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	chunk, ok := defaults[expr]
	if !ok {
		return runtime.UndefinedValue, nil
	}
	v, _, err := vm.runBlock(chunk, env)
	return v, err
}

// bindParamPattern defines (never reassigns) every name a parameter/
// destructuring pattern introduces, mirroring interp/eval_statements.go's
// bindPattern. Kept separate from vm_members.go's assignTarget family:
// that one assigns into already-existing bindings via env.Set, this one
// declares fresh ones via env.Define, and resolves defaults through
// proto.Defaults rather than chunk.ExprChunks.
func (vm *VM) bindParamPattern(pat ast.Pattern, val runtime.Value, env *runtime.Environment, defaults map[ast.Expression]*Chunk) error {
	switch p := pat.(type) {
	case *ast.IdentifierPattern:
		env.Define(p.Name, val, false)
		return nil
	case *ast.ArrayPattern:
		arr, _ := val.(*runtime.Array)
		for i, el := range p.Elements {
			if el.Pattern == nil {
				continue
			}
			if el.Rest {
				var rest []runtime.Value
				if arr != nil && i < len(arr.Elements) {
					rest = append(rest, arr.Elements[i:]...)
				}
				if err := vm.bindParamPattern(el.Pattern, runtime.NewArray(rest...), env, defaults); err != nil {
					return err
				}
				continue
			}
			var elemVal runtime.Value = runtime.UndefinedValue
			if arr != nil && i < len(arr.Elements) && arr.Elements[i] != nil {
				elemVal = arr.Elements[i]
			}
			if _, isUndef := elemVal.(runtime.Undefined); isUndef && el.Default != nil {
				v, err := vm.runDefault(defaults, el.Default, env)
				if err != nil {
					return err
				}
				elemVal = v
			}
			if err := vm.bindParamPattern(el.Pattern, elemVal, env, defaults); err != nil {
				return err
			}
		}
		return nil
	case *ast.ObjectPattern:
		obj, _ := val.(*runtime.Object)
		taken := map[string]bool{}
		for _, prop := range p.Properties {
			if prop.Rest {
				rest := runtime.NewObject()
				if obj != nil {
					for _, k := range obj.OwnKeys() {
						if !taken[k] {
							v, _ := obj.Get(k, obj)
							rest.DefineData(k, v, true, true, true)
						}
					}
				}
				if err := vm.bindParamPattern(prop.Value, rest, env, defaults); err != nil {
					return err
				}
				continue
			}
			taken[prop.Key] = true
			var v runtime.Value = runtime.UndefinedValue
			if obj != nil {
				if got, ok := obj.Get(prop.Key, obj); ok {
					v = got
				}
			}
			if _, isUndef := v.(runtime.Undefined); isUndef && prop.Default != nil {
				def, err := vm.runDefault(defaults, prop.Default, env)
				if err != nil {
					return err
				}
				v = def
			}
			if err := vm.bindParamPattern(prop.Value, v, env, defaults); err != nil {
				return err
			}
		}
		return nil
	}
	return nil
}

// instantiate builds a new instance of classInfo and runs its constructor
// chain, mirroring interp/classes.go's instantiate.
func (vm *VM) instantiate(classInfo *runtime.ClassInfo, args []runtime.Value) (*runtime.Instance, error) {
	if classInfo.Abstract {
		return nil, runtime.ThrowTypeError("cannot create an instance of abstract class %s", classInfo.Name)
	}
	instance := runtime.NewInstance(classInfo)
	if err := vm.runConstructor(classInfo, instance, args); err != nil {
		return nil, err
	}
	return instance, nil
}

// runConstructor runs classInfo's constructor (or, absent one, forwards
// args to the base constructor and initializes classInfo's own fields),
// mirroring interp/classes.go's runConstructor.
func (vm *VM) runConstructor(classInfo *runtime.ClassInfo, instance *runtime.Instance, args []runtime.Value) error {
	if classInfo.NativeConstruct != nil {
		return classInfo.NativeConstruct(instance, args)
	}
	ctor, hasCtor := classInfo.Methods["constructor"]
	if !hasCtor {
		if classInfo.Base != nil {
			if err := vm.runConstructor(classInfo.Base, instance, args); err != nil {
				return err
			}
		}
		return vm.initOwnFields(classInfo, instance)
	}
	proto, _ := ctor.Chunk.(*FunctionProto)
	if proto == nil {
		return vm.initOwnFields(classInfo, instance)
	}
	callEnv := runtime.NewEnclosedEnvironment(ctor.Closure)
	if err := vm.bindParams(proto, args, callEnv); err != nil {
		return err
	}
	callEnv.Define("this", instance, true)
	callEnv.Define("@@ownclass", classRef{classInfo}, true)
	if classInfo.Base != nil {
		callEnv.Define("@@superclass", classRef{classInfo.Base}, true)
	} else {
		if err := vm.initOwnFields(classInfo, instance); err != nil {
			return err
		}
	}
	_, _, err := vm.runBlock(proto.Chunk, callEnv)
	return err
}

// initOwnFields runs classInfo's own (non-static) field initializers
// against instance, using the classExtra built at compile time for that
// classInfo.
func (vm *VM) initOwnFields(classInfo *runtime.ClassInfo, instance *runtime.Instance) error {
	extra, ok := vm.ClassExtras[classInfo]
	if !ok {
		return nil
	}
	declEnv, ok := vm.classEnv[classInfo]
	if !ok {
		declEnv = vm.Global
	}
	fieldEnv := runtime.NewEnclosedEnvironment(declEnv)
	fieldEnv.Define("this", instance, true)
	for _, fi := range extra.OwnFields {
		var val runtime.Value = runtime.UndefinedValue
		if fi.Chunk != nil {
			v, _, err := vm.runBlock(fi.Chunk, fieldEnv)
			if err != nil {
				return err
			}
			val = v
		}
		instance.DefineData(fi.Name, val, !fi.Readonly, true, true)
	}
	return nil
}
