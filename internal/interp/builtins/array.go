package builtins

import (
	"sort"

	"github.com/tsxlang/tsx/internal/interp/runtime"
)

// installArrayPrototype populates runtime.ArrayProto with the
// Array.prototype surface tsx programs call on every array value,
// grounded on the teacher's internal/interp/builtins/array.go.
func installArrayPrototype() {
	method := func(name string, fn func(arr *runtime.Array, args []runtime.Value) (runtime.Value, error)) {
		runtime.ArrayProto.DefineData(name, &runtime.Function{Name: name, Native: func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
			arr, ok := this.(*runtime.Array)
			if !ok {
				return nil, runtime.ThrowTypeError("Array.prototype.%s called on non-array", name)
			}
			return fn(arr, args)
		}}, true, true, true)
	}

	method("push", func(arr *runtime.Array, args []runtime.Value) (runtime.Value, error) {
		return runtime.Number(arr.Push(args...)), nil
	})
	method("pop", func(arr *runtime.Array, args []runtime.Value) (runtime.Value, error) {
		return arr.Pop(), nil
	})
	method("shift", func(arr *runtime.Array, args []runtime.Value) (runtime.Value, error) {
		if len(arr.Elements) == 0 {
			return runtime.UndefinedValue, nil
		}
		first := arr.Elements[0]
		arr.Elements = arr.Elements[1:]
		return first, nil
	})
	method("unshift", func(arr *runtime.Array, args []runtime.Value) (runtime.Value, error) {
		arr.Elements = append(append([]runtime.Value{}, args...), arr.Elements...)
		return runtime.Number(int64(len(arr.Elements))), nil
	})
	method("slice", func(arr *runtime.Array, args []runtime.Value) (runtime.Value, error) {
		start, end := sliceBounds(len(arr.Elements), args)
		out := make([]runtime.Value, end-start)
		copy(out, arr.Elements[start:end])
		return runtime.NewArray(out...), nil
	})
	method("splice", func(arr *runtime.Array, args []runtime.Value) (runtime.Value, error) {
		n := len(arr.Elements)
		start := clampIndex(n, intArg(args, 0, 0))
		deleteCount := n - start
		if len(args) > 1 {
			deleteCount = int(runtime.ToNumberValue(args[1]))
			if deleteCount < 0 {
				deleteCount = 0
			}
			if start+deleteCount > n {
				deleteCount = n - start
			}
		}
		removed := append([]runtime.Value{}, arr.Elements[start:start+deleteCount]...)
		var inserted []runtime.Value
		if len(args) > 2 {
			inserted = args[2:]
		}
		tail := append([]runtime.Value{}, arr.Elements[start+deleteCount:]...)
		arr.Elements = append(append(arr.Elements[:start:start], inserted...), tail...)
		return runtime.NewArray(removed...), nil
	})
	method("concat", func(arr *runtime.Array, args []runtime.Value) (runtime.Value, error) {
		out := append([]runtime.Value{}, arr.Elements...)
		for _, a := range args {
			if other, ok := a.(*runtime.Array); ok {
				out = append(out, other.Elements...)
				continue
			}
			out = append(out, a)
		}
		return runtime.NewArray(out...), nil
	})
	method("join", func(arr *runtime.Array, args []runtime.Value) (runtime.Value, error) {
		sep := ","
		if len(args) > 0 {
			sep = args[0].String()
		}
		parts := make([]string, len(arr.Elements))
		for i, e := range arr.Elements {
			if e == nil || e == runtime.UndefinedValue || e == runtime.NullValue {
				parts[i] = ""
				continue
			}
			parts[i] = e.String()
		}
		return runtime.String(joinStrings(parts, sep)), nil
	})
	method("reverse", func(arr *runtime.Array, args []runtime.Value) (runtime.Value, error) {
		for i, j := 0, len(arr.Elements)-1; i < j; i, j = i+1, j-1 {
			arr.Elements[i], arr.Elements[j] = arr.Elements[j], arr.Elements[i]
		}
		return arr, nil
	})
	method("flat", func(arr *runtime.Array, args []runtime.Value) (runtime.Value, error) {
		depth := 1
		if len(args) > 0 {
			depth = int(runtime.ToNumberValue(args[0]))
		}
		return runtime.NewArray(flatten(arr.Elements, depth)...), nil
	})
	method("indexOf", func(arr *runtime.Array, args []runtime.Value) (runtime.Value, error) {
		target := arg(args, 0)
		for i, e := range arr.Elements {
			if strictEq(e, target) {
				return runtime.Number(i), nil
			}
		}
		return runtime.Number(-1), nil
	})
	method("includes", func(arr *runtime.Array, args []runtime.Value) (runtime.Value, error) {
		target := arg(args, 0)
		for _, e := range arr.Elements {
			if strictEq(e, target) {
				return runtime.Boolean(true), nil
			}
		}
		return runtime.Boolean(false), nil
	})

	callbackMethod := func(name string, run func(arr *runtime.Array, cb runtime.CallableValue) (runtime.Value, error)) {
		method(name, func(arr *runtime.Array, args []runtime.Value) (runtime.Value, error) {
			cb, ok := arg(args, 0).(runtime.CallableValue)
			if !ok {
				return nil, runtime.ThrowTypeError("%s callback is not a function", name)
			}
			return run(arr, cb)
		})
	}
	callbackMethod("forEach", func(arr *runtime.Array, cb runtime.CallableValue) (runtime.Value, error) {
		for i, e := range arr.Elements {
			if _, err := cb.Call(runtime.UndefinedValue, []runtime.Value{e, runtime.Number(i), arr}); err != nil {
				return nil, err
			}
		}
		return runtime.UndefinedValue, nil
	})
	callbackMethod("map", func(arr *runtime.Array, cb runtime.CallableValue) (runtime.Value, error) {
		out := make([]runtime.Value, len(arr.Elements))
		for i, e := range arr.Elements {
			v, err := cb.Call(runtime.UndefinedValue, []runtime.Value{e, runtime.Number(i), arr})
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return runtime.NewArray(out...), nil
	})
	callbackMethod("filter", func(arr *runtime.Array, cb runtime.CallableValue) (runtime.Value, error) {
		var out []runtime.Value
		for i, e := range arr.Elements {
			v, err := cb.Call(runtime.UndefinedValue, []runtime.Value{e, runtime.Number(i), arr})
			if err != nil {
				return nil, err
			}
			if runtime.Truthy(v) {
				out = append(out, e)
			}
		}
		return runtime.NewArray(out...), nil
	})
	callbackMethod("find", func(arr *runtime.Array, cb runtime.CallableValue) (runtime.Value, error) {
		for i, e := range arr.Elements {
			v, err := cb.Call(runtime.UndefinedValue, []runtime.Value{e, runtime.Number(i), arr})
			if err != nil {
				return nil, err
			}
			if runtime.Truthy(v) {
				return e, nil
			}
		}
		return runtime.UndefinedValue, nil
	})
	callbackMethod("findIndex", func(arr *runtime.Array, cb runtime.CallableValue) (runtime.Value, error) {
		for i, e := range arr.Elements {
			v, err := cb.Call(runtime.UndefinedValue, []runtime.Value{e, runtime.Number(i), arr})
			if err != nil {
				return nil, err
			}
			if runtime.Truthy(v) {
				return runtime.Number(i), nil
			}
		}
		return runtime.Number(-1), nil
	})
	callbackMethod("some", func(arr *runtime.Array, cb runtime.CallableValue) (runtime.Value, error) {
		for i, e := range arr.Elements {
			v, err := cb.Call(runtime.UndefinedValue, []runtime.Value{e, runtime.Number(i), arr})
			if err != nil {
				return nil, err
			}
			if runtime.Truthy(v) {
				return runtime.Boolean(true), nil
			}
		}
		return runtime.Boolean(false), nil
	})
	callbackMethod("every", func(arr *runtime.Array, cb runtime.CallableValue) (runtime.Value, error) {
		for i, e := range arr.Elements {
			v, err := cb.Call(runtime.UndefinedValue, []runtime.Value{e, runtime.Number(i), arr})
			if err != nil {
				return nil, err
			}
			if !runtime.Truthy(v) {
				return runtime.Boolean(false), nil
			}
		}
		return runtime.Boolean(true), nil
	})

	method("reduce", func(arr *runtime.Array, args []runtime.Value) (runtime.Value, error) {
		cb, ok := arg(args, 0).(runtime.CallableValue)
		if !ok {
			return nil, runtime.ThrowTypeError("reduce callback is not a function")
		}
		start := 0
		var acc runtime.Value
		if len(args) > 1 {
			acc = args[1]
		} else {
			if len(arr.Elements) == 0 {
				return nil, runtime.ThrowTypeError("Reduce of empty array with no initial value")
			}
			acc = arr.Elements[0]
			start = 1
		}
		for i := start; i < len(arr.Elements); i++ {
			v, err := cb.Call(runtime.UndefinedValue, []runtime.Value{acc, arr.Elements[i], runtime.Number(i), arr})
			if err != nil {
				return nil, err
			}
			acc = v
		}
		return acc, nil
	})
	method("sort", func(arr *runtime.Array, args []runtime.Value) (runtime.Value, error) {
		cmp, _ := arg(args, 0).(runtime.CallableValue)
		var sortErr error
		sort.SliceStable(arr.Elements, func(i, j int) bool {
			if sortErr != nil {
				return false
			}
			a, b := arr.Elements[i], arr.Elements[j]
			if cmp != nil {
				v, err := cmp.Call(runtime.UndefinedValue, []runtime.Value{a, b})
				if err != nil {
					sortErr = err
					return false
				}
				return runtime.ToNumberValue(v) < 0
			}
			return a.String() < b.String()
		})
		if sortErr != nil {
			return nil, sortErr
		}
		return arr, nil
	})
}

func sliceBounds(n int, args []runtime.Value) (int, int) {
	start := clampIndex(n, intArg(args, 0, 0))
	end := n
	if len(args) > 1 {
		end = clampIndex(n, int(runtime.ToNumberValue(args[1])))
	}
	if end < start {
		end = start
	}
	return start, end
}

func clampIndex(n, i int) int {
	if i < 0 {
		i += n
	}
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}

func intArg(args []runtime.Value, i, def int) int {
	if i >= len(args) {
		return def
	}
	return int(runtime.ToNumberValue(args[i]))
}

func flatten(elems []runtime.Value, depth int) []runtime.Value {
	var out []runtime.Value
	for _, e := range elems {
		if arr, ok := e.(*runtime.Array); ok && depth > 0 {
			out = append(out, flatten(arr.Elements, depth-1)...)
			continue
		}
		out = append(out, e)
	}
	return out
}

func joinStrings(parts []string, sep string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += sep
		}
		out += p
	}
	return out
}

func strictEq(a, b runtime.Value) bool {
	if cmp, ok := a.(runtime.ComparableValue); ok {
		return cmp.StrictEquals(b)
	}
	return a == b
}
