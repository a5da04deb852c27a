package builtins

import "github.com/tsxlang/tsx/internal/interp/runtime"

// mapSetConstructor is a `new`-able builtin that takes an optional
// iterable of initial entries, implementing runtime.Constructor directly
// (no ClassInfo/Instance machinery needed since Map/Set/WeakMap/WeakSet
// are opaque runtime values, not Object-backed instances).
type mapSetConstructor struct {
	name  string
	build func(args []runtime.Value) (runtime.Value, error)
}

func (c mapSetConstructor) TypeOf() string { return "function" }
func (c mapSetConstructor) String() string { return "function " + c.name + "() { [native code] }" }
func (c mapSetConstructor) Construct(args []runtime.Value) (runtime.Value, error) {
	return c.build(args)
}

// installCollections wires Map/Set/WeakMap/WeakSet, grounded on the
// teacher's internal/interp/builtins/collections.go for the per-constructor
// split, generalized from DWScript's fixed-schema collections to tsx's
// arbitrary-key Map/Set (runtime.MapValue/SetValue).
func installCollections(env *runtime.Environment) {
	env.Define("Map", mapSetConstructor{name: "Map", build: func(args []runtime.Value) (runtime.Value, error) {
		m := runtime.NewMapValue()
		if len(args) > 0 {
			if err := forEachEntry(args[0], func(entry runtime.Value) error {
				pair, ok := entry.(*runtime.Array)
				if !ok || len(pair.Elements) < 2 {
					return runtime.ThrowTypeError("Map constructor entry is not an iterable of length 2")
				}
				m.Set(pair.Elements[0], pair.Elements[1])
				return nil
			}); err != nil {
				return nil, err
			}
		}
		return m, nil
	}}, true)

	env.Define("Set", mapSetConstructor{name: "Set", build: func(args []runtime.Value) (runtime.Value, error) {
		s := runtime.NewSetValue()
		if len(args) > 0 {
			if err := forEachEntry(args[0], func(v runtime.Value) error {
				s.Add(v)
				return nil
			}); err != nil {
				return nil, err
			}
		}
		return s, nil
	}}, true)

	env.Define("WeakMap", mapSetConstructor{name: "WeakMap", build: func(args []runtime.Value) (runtime.Value, error) {
		w := runtime.NewWeakMapValue()
		if len(args) > 0 {
			if err := forEachEntry(args[0], func(entry runtime.Value) error {
				pair, ok := entry.(*runtime.Array)
				if !ok || len(pair.Elements) < 2 {
					return runtime.ThrowTypeError("WeakMap constructor entry is not an iterable of length 2")
				}
				key, err := weakKeyArg(pair.Elements[0])
				if err != nil {
					return err
				}
				w.Set(key, pair.Elements[1])
				return nil
			}); err != nil {
				return nil, err
			}
		}
		return w, nil
	}}, true)

	env.Define("WeakSet", mapSetConstructor{name: "WeakSet", build: func(args []runtime.Value) (runtime.Value, error) {
		w := runtime.NewWeakSetValue()
		if len(args) > 0 {
			if err := forEachEntry(args[0], func(v runtime.Value) error {
				key, err := weakKeyArg(v)
				if err != nil {
					return err
				}
				w.Add(key)
				return nil
			}); err != nil {
				return nil, err
			}
		}
		return w, nil
	}}, true)
}

func forEachEntry(v runtime.Value, fn func(runtime.Value) error) error {
	if arr, ok := v.(*runtime.Array); ok {
		for _, e := range arr.Elements {
			if err := fn(e); err != nil {
				return err
			}
		}
		return nil
	}
	iterable, ok := v.(runtime.IterableValue)
	if !ok {
		return runtime.ThrowTypeError("constructor argument is not iterable")
	}
	iter := iterable.Iterator()
	for {
		item, done := iter.Next()
		if done {
			break
		}
		if err := fn(item); err != nil {
			return err
		}
	}
	return nil
}

func weakKeyArg(v runtime.Value) (*runtime.Object, error) {
	obj, ok := v.(*runtime.Object)
	if !ok {
		return nil, runtime.ThrowTypeError("invalid value used as weak map key")
	}
	return obj, nil
}
