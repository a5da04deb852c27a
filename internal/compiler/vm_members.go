package compiler

import (
	"fmt"

	"github.com/tsxlang/tsx/internal/interp/runtime"
	"github.com/tsxlang/tsx/pkg/ast"
)

// Member access/assignment and destructuring, duplicated from
// internal/interp/eval_expressions.go's getMemberByName/evalMember and
// internal/interp/assign.go's assignTo family rather than imported (no
// shared unexported helpers across packages; see DESIGN.md).

// getMemberByName implements the same property-resolution chain as the
// tree-walking evaluator: for an instance, the class accessor getter, then
// the own/inherited data property, then the class method table, then the
// builtin prototype table.
func (vm *VM) getMemberByName(obj runtime.Value, name string) (runtime.Value, error) {
	switch o := obj.(type) {
	case *runtime.Instance:
		if getter, ok := o.Class.LookupMethod("get " + name); ok {
			return getter.Call(o, nil)
		}
		if v, ok := o.Object.Get(name, o); ok {
			return v, nil
		}
		if fn, ok := o.Class.LookupMethod(name); ok {
			return fn, nil
		}
		if v, ok := runtime.ObjectProto.Get(name, o); ok {
			return v, nil
		}
		return runtime.UndefinedValue, nil
	case *runtime.Object:
		if v, ok := o.Get(name, o); ok {
			return v, nil
		}
		if v, ok := runtime.ObjectProto.Get(name, o); ok {
			return v, nil
		}
		return runtime.UndefinedValue, nil
	case *runtime.Array:
		if name == "length" {
			return runtime.Number(o.Length()), nil
		}
		if v, ok := o.GetIndex(runtime.String(name)); ok {
			return v, nil
		}
		if v, ok := runtime.ArrayProto.Get(name, o); ok {
			return v, nil
		}
		return runtime.UndefinedValue, nil
	case runtime.String:
		if name == "length" {
			return runtime.Number(len([]rune(string(o)))), nil
		}
		if v, ok := runtime.StringProto.Get(name, o); ok {
			return v, nil
		}
		return runtime.UndefinedValue, nil
	case classRef:
		if v, ok := o.info.Static.Get(name, o.info.Static); ok {
			return v, nil
		}
		return runtime.UndefinedValue, nil
	case *Promise:
		switch name {
		case "then":
			return nativeMethod("then", func(args []runtime.Value) (runtime.Value, error) {
				onF, _ := argAt(args, 0).(*runtime.Function)
				onR, _ := argAt(args, 1).(*runtime.Function)
				return o.Then(vm, onF, onR), nil
			}), nil
		case "catch":
			return nativeMethod("catch", func(args []runtime.Value) (runtime.Value, error) {
				onR, _ := argAt(args, 0).(*runtime.Function)
				return o.Then(vm, nil, onR), nil
			}), nil
		}
		return runtime.UndefinedValue, nil
	case *runtime.MapValue:
		return mapMember(o, name), nil
	case *runtime.SetValue:
		return setMember(o, name), nil
	case *runtime.WeakMapValue:
		return weakMapMember(o, name), nil
	case *runtime.WeakSetValue:
		return weakSetMember(o, name), nil
	case *runtime.Symbol:
		return runtime.UndefinedValue, nil
	case runtime.Undefined, runtime.Null, nil:
		return nil, runtime.ThrowTypeError("cannot read properties of %s (reading %q)", obj.String(), name)
	}
	return runtime.UndefinedValue, nil
}

func (vm *VM) getIndex(obj, idx runtime.Value) (runtime.Value, error) {
	if arr, ok := obj.(*runtime.Array); ok {
		v, _ := arr.GetIndex(idx)
		return v, nil
	}
	if indexable, ok := obj.(runtime.IndexableValue); ok {
		v, _ := indexable.GetIndex(idx)
		return v, nil
	}
	if s, ok := obj.(runtime.String); ok {
		return vm.getMemberByName(s, idx.String())
	}
	return vm.getMemberByName(obj, idx.String())
}

func (vm *VM) setMember(obj runtime.Value, name string, val runtime.Value) error {
	switch o := obj.(type) {
	case *runtime.Object:
		return o.Set(name, val, o)
	case *runtime.Instance:
		return o.Object.Set(name, val, o)
	case classRef:
		return o.info.Static.Set(name, val, o.info.Static)
	}
	return runtime.ThrowTypeError("cannot set property %q on %s", name, obj.TypeOf())
}

func (vm *VM) setIndex(obj, idx, val runtime.Value) error {
	if indexable, ok := obj.(runtime.IndexableValue); ok {
		return indexable.SetIndex(idx, val)
	}
	return runtime.ThrowTypeError("cannot assign computed property on %s", obj.TypeOf())
}

func (vm *VM) deleteProp(obj runtime.Value, name string) bool {
	switch o := obj.(type) {
	case *runtime.Object:
		return o.Delete(name)
	case *runtime.Instance:
		return o.Object.Delete(name)
	}
	return true
}

// assignTarget writes val into node, an entry from chunk's ASTNodes side
// table. node is either an ast.Expression (an `=`-family AssignmentExpr's
// Target: Identifier, MemberExpr, or an ArrayLiteral/ObjectLiteral used as
// a destructuring target) or an ast.Pattern (a var-decl/for-loop binding
// pattern, pre-declared via OpDefineVar before the structural assignment
// runs). Both forms ultimately resolve to env.Set/obj.Set calls. chunk is
// threaded through so nested sub-expressions (a MemberExpr's object, a
// destructuring default) can be looked up in chunk.ExprChunks, precompiled
// there by compiler_targets.go's prepareAssignTarget.
func (vm *VM) assignTarget(chunk *Chunk, node interface{}, val runtime.Value, env *runtime.Environment) error {
	switch t := node.(type) {
	case *ast.Identifier:
		return env.Set(t.Name, val)
	case *ast.MemberExpr:
		return vm.assignMember(chunk, t, val, env)
	case *ast.ArrayLiteral:
		return vm.destructureArrayAssign(chunk, t, val, env)
	case *ast.ObjectLiteral:
		return vm.destructureObjectAssign(chunk, t, val, env)
	case *ast.IdentifierPattern:
		return env.Set(t.Name, val)
	case *ast.ArrayPattern:
		return vm.destructureArrayPattern(chunk, t, val, env)
	case *ast.ObjectPattern:
		return vm.destructureObjectPattern(chunk, t, val, env)
	}
	return fmt.Errorf("compiler: unsupported assignment target %T", node)
}

func (vm *VM) assignMember(chunk *Chunk, m *ast.MemberExpr, val runtime.Value, env *runtime.Environment) error {
	obj, err := vm.evalExprTarget(chunk, m.Object, env)
	if err != nil {
		return err
	}
	if m.Optional && isNullish(obj) {
		return nil
	}
	if m.Computed {
		idx, err := vm.evalExprTarget(chunk, m.Property, env)
		if err != nil {
			return err
		}
		return vm.setIndex(obj, idx, val)
	}
	name := m.Property.(*ast.Identifier).Name
	return vm.setMember(obj, name, val)
}

// evalExprTarget evaluates a sub-expression of an assignment target (the
// object/property of a MemberExpr, a destructuring default, a computed
// pattern key) by running its precompiled standalone Chunk, stored in
// chunk.ExprChunks by prepareAssignTarget at compile time.
func (vm *VM) evalExprTarget(chunk *Chunk, expr ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	sub, ok := chunk.ExprChunks[expr]
	if !ok {
		return nil, fmt.Errorf("compiler: no precompiled chunk for assignment sub-expression %T", expr)
	}
	val, _, err := vm.runBlock(sub, env)
	return val, err
}

func isNullish(v runtime.Value) bool {
	switch v.(type) {
	case runtime.Null, runtime.Undefined, nil:
		return true
	}
	return false
}

func (vm *VM) destructureArrayAssign(chunk *Chunk, pat *ast.ArrayLiteral, val runtime.Value, env *runtime.Environment) error {
	arr, _ := val.(*runtime.Array)
	for i, el := range pat.Elements {
		if el == nil {
			continue
		}
		if spread, ok := el.(*ast.SpreadElement); ok {
			var rest []runtime.Value
			if arr != nil && i < len(arr.Elements) {
				rest = append(rest, arr.Elements[i:]...)
			}
			if err := vm.assignTarget(chunk, spread.Argument, runtime.NewArray(rest...), env); err != nil {
				return err
			}
			continue
		}
		var elemVal runtime.Value = runtime.UndefinedValue
		if arr != nil && i < len(arr.Elements) && arr.Elements[i] != nil {
			elemVal = arr.Elements[i]
		}
		target := ast.Expression(el)
		if assign, ok := el.(*ast.AssignmentExpr); ok && assign.Operator == "=" {
			target = assign.Target
			if _, isUndef := elemVal.(runtime.Undefined); isUndef {
				v, err := vm.evalExprTarget(chunk, assign.Value, env)
				if err != nil {
					return err
				}
				elemVal = v
			}
		}
		if err := vm.assignTarget(chunk, target, elemVal, env); err != nil {
			return err
		}
	}
	return nil
}

func (vm *VM) destructureObjectAssign(chunk *Chunk, pat *ast.ObjectLiteral, val runtime.Value, env *runtime.Environment) error {
	taken := map[string]bool{}
	for _, prop := range pat.Properties {
		if prop.Spread {
			rest := runtime.NewObject()
			if obj, ok := val.(*runtime.Object); ok {
				for _, k := range obj.OwnKeys() {
					if !taken[k] {
						v, _ := obj.Get(k, obj)
						rest.DefineData(k, v, true, true, true)
					}
				}
			}
			if err := vm.assignTarget(chunk, prop.Value, rest, env); err != nil {
				return err
			}
			continue
		}
		key := propKeyName(prop.Key)
		if prop.Computed {
			kv, err := vm.evalExprTarget(chunk, prop.Key, env)
			if err != nil {
				return err
			}
			key = kv.String()
		}
		taken[key] = true
		v, err := vm.getMemberByName(val, key)
		if err != nil {
			return err
		}
		target := prop.Value
		if assign, ok := target.(*ast.AssignmentExpr); ok && assign.Operator == "=" {
			target = assign.Target
			if _, isUndef := v.(runtime.Undefined); isUndef {
				def, err := vm.evalExprTarget(chunk, assign.Value, env)
				if err != nil {
					return err
				}
				v = def
			}
		}
		if err := vm.assignTarget(chunk, target, v, env); err != nil {
			return err
		}
	}
	return nil
}

func (vm *VM) destructureArrayPattern(chunk *Chunk, pat *ast.ArrayPattern, val runtime.Value, env *runtime.Environment) error {
	arr, _ := val.(*runtime.Array)
	for i, el := range pat.Elements {
		if el.Pattern == nil {
			continue
		}
		if el.Rest {
			var rest []runtime.Value
			if arr != nil && i < len(arr.Elements) {
				rest = append(rest, arr.Elements[i:]...)
			}
			if err := vm.assignTarget(chunk, el.Pattern, runtime.NewArray(rest...), env); err != nil {
				return err
			}
			continue
		}
		var elemVal runtime.Value = runtime.UndefinedValue
		if arr != nil && i < len(arr.Elements) && arr.Elements[i] != nil {
			elemVal = arr.Elements[i]
		}
		if _, isUndef := elemVal.(runtime.Undefined); isUndef && el.Default != nil {
			v, err := vm.evalExprTarget(chunk, el.Default, env)
			if err != nil {
				return err
			}
			elemVal = v
		}
		if err := vm.assignTarget(chunk, el.Pattern, elemVal, env); err != nil {
			return err
		}
	}
	return nil
}

func (vm *VM) destructureObjectPattern(chunk *Chunk, pat *ast.ObjectPattern, val runtime.Value, env *runtime.Environment) error {
	obj, _ := val.(*runtime.Object)
	taken := map[string]bool{}
	for _, prop := range pat.Properties {
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
			if err := vm.assignTarget(chunk, prop.Value, rest, env); err != nil {
				return err
			}
			continue
		}
		key := prop.Key
		if prop.Computed {
			kv, err := vm.evalExprTarget(chunk, prop.KeyExpr, env)
			if err != nil {
				return err
			}
			key = kv.String()
		}
		taken[key] = true
		var v runtime.Value = runtime.UndefinedValue
		if obj != nil {
			if got, ok := obj.Get(key, obj); ok {
				v = got
			}
		}
		if _, isUndef := v.(runtime.Undefined); isUndef && prop.Default != nil {
			def, err := vm.evalExprTarget(chunk, prop.Default, env)
			if err != nil {
				return err
			}
			v = def
		}
		if err := vm.assignTarget(chunk, prop.Value, v, env); err != nil {
			return err
		}
	}
	return nil
}
