package interp

import "github.com/tsxlang/tsx/internal/interp/runtime"

// collectionIterator adapts a runtime.Iterator into a JS-visible iterator
// object (a `next()` method returning `{value, done}`), used for
// Map.prototype.keys/values/entries and Set.prototype.keys/values/entries.
// It also implements runtime.IterableValue so `for...of` over the result
// works the same way it does over the Map/Set itself.
type collectionIterator struct {
	inner runtime.Iterator
}

func (c *collectionIterator) TypeOf() string        { return "object" }
func (c *collectionIterator) String() string        { return "[object Map Iterator]" }
func (c *collectionIterator) Iterator() runtime.Iterator { return c.inner }
func (c *collectionIterator) Next() (runtime.Value, bool) { return c.inner.Next() }

func nativeMethod(name string, fn func(args []runtime.Value) (runtime.Value, error)) *runtime.Function {
	return &runtime.Function{Name: name, Native: func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return fn(args)
	}}
}

func arg(args []runtime.Value, i int) runtime.Value {
	if i < len(args) {
		return args[i]
	}
	return runtime.UndefinedValue
}

func mapMember(m *runtime.MapValue, name string) runtime.Value {
	switch name {
	case "size":
		return runtime.Number(m.Size())
	case "get":
		return nativeMethod("get", func(args []runtime.Value) (runtime.Value, error) {
			v, _ := m.Get(arg(args, 0))
			return v, nil
		})
	case "set":
		return nativeMethod("set", func(args []runtime.Value) (runtime.Value, error) {
			m.Set(arg(args, 0), arg(args, 1))
			return m, nil
		})
	case "has":
		return nativeMethod("has", func(args []runtime.Value) (runtime.Value, error) {
			return runtime.Boolean(m.Has(arg(args, 0))), nil
		})
	case "delete":
		return nativeMethod("delete", func(args []runtime.Value) (runtime.Value, error) {
			return runtime.Boolean(m.Delete(arg(args, 0))), nil
		})
	case "clear":
		return nativeMethod("clear", func(args []runtime.Value) (runtime.Value, error) {
			m.Clear()
			return runtime.UndefinedValue, nil
		})
	case "forEach":
		return nativeMethod("forEach", func(args []runtime.Value) (runtime.Value, error) {
			cb, ok := arg(args, 0).(runtime.CallableValue)
			if !ok {
				return nil, runtime.ThrowTypeError("callback is not a function")
			}
			for _, e := range m.Entries() {
				if _, err := cb.Call(runtime.UndefinedValue, []runtime.Value{e.value, e.key, m}); err != nil {
					return nil, err
				}
			}
			return runtime.UndefinedValue, nil
		})
	case "keys":
		return nativeMethod("keys", func(args []runtime.Value) (runtime.Value, error) {
			return &collectionIterator{inner: &keyIterator{entries: m.Entries()}}, nil
		})
	case "values":
		return nativeMethod("values", func(args []runtime.Value) (runtime.Value, error) {
			return &collectionIterator{inner: &valIterator{entries: m.Entries()}}, nil
		})
	case "entries":
		return nativeMethod("entries", func(args []runtime.Value) (runtime.Value, error) {
			return &collectionIterator{inner: m.Iterator()}, nil
		})
	}
	return runtime.UndefinedValue
}

type keyIterator struct {
	entries []*runtime.MapEntry
	pos     int
}

func (k *keyIterator) Next() (runtime.Value, bool) {
	if k.pos >= len(k.entries) {
		return runtime.UndefinedValue, true
	}
	v := k.entries[k.pos].Key
	k.pos++
	return v, false
}

type valIterator struct {
	entries []*runtime.MapEntry
	pos     int
}

func (v *valIterator) Next() (runtime.Value, bool) {
	if v.pos >= len(v.entries) {
		return runtime.UndefinedValue, true
	}
	val := v.entries[v.pos].Value
	v.pos++
	return val, false
}

func setMember(s *runtime.SetValue, name string) runtime.Value {
	switch name {
	case "size":
		return runtime.Number(s.Size())
	case "add":
		return nativeMethod("add", func(args []runtime.Value) (runtime.Value, error) {
			s.Add(arg(args, 0))
			return s, nil
		})
	case "has":
		return nativeMethod("has", func(args []runtime.Value) (runtime.Value, error) {
			return runtime.Boolean(s.Has(arg(args, 0))), nil
		})
	case "delete":
		return nativeMethod("delete", func(args []runtime.Value) (runtime.Value, error) {
			return runtime.Boolean(s.Delete(arg(args, 0))), nil
		})
	case "clear":
		return nativeMethod("clear", func(args []runtime.Value) (runtime.Value, error) {
			s.Clear()
			return runtime.UndefinedValue, nil
		})
	case "forEach":
		return nativeMethod("forEach", func(args []runtime.Value) (runtime.Value, error) {
			cb, ok := arg(args, 0).(runtime.CallableValue)
			if !ok {
				return nil, runtime.ThrowTypeError("callback is not a function")
			}
			for _, v := range s.Values() {
				if _, err := cb.Call(runtime.UndefinedValue, []runtime.Value{v, v, s}); err != nil {
					return nil, err
				}
			}
			return runtime.UndefinedValue, nil
		})
	case "values", "keys":
		return nativeMethod(name, func(args []runtime.Value) (runtime.Value, error) {
			return &collectionIterator{inner: s.Iterator()}, nil
		})
	case "entries":
		return nativeMethod("entries", func(args []runtime.Value) (runtime.Value, error) {
			return &collectionIterator{inner: &setEntryIterator{s: s}}, nil
		})
	}
	return runtime.UndefinedValue
}

type setEntryIterator struct {
	s   *runtime.SetValue
	pos int
}

func (it *setEntryIterator) Next() (runtime.Value, bool) {
	values := it.s.Values()
	if it.pos >= len(values) {
		return runtime.UndefinedValue, true
	}
	v := values[it.pos]
	it.pos++
	return runtime.NewArray(v, v), false
}

func weakMapMember(w *runtime.WeakMapValue, name string) runtime.Value {
	switch name {
	case "get":
		return nativeMethod("get", func(args []runtime.Value) (runtime.Value, error) {
			key, err := weakKey(arg(args, 0))
			if err != nil {
				return nil, err
			}
			v, _ := w.Get(key)
			return v, nil
		})
	case "set":
		return nativeMethod("set", func(args []runtime.Value) (runtime.Value, error) {
			key, err := weakKey(arg(args, 0))
			if err != nil {
				return nil, err
			}
			w.Set(key, arg(args, 1))
			return w, nil
		})
	case "has":
		return nativeMethod("has", func(args []runtime.Value) (runtime.Value, error) {
			key, err := weakKey(arg(args, 0))
			if err != nil {
				return runtime.Boolean(false), nil
			}
			return runtime.Boolean(w.Has(key)), nil
		})
	case "delete":
		return nativeMethod("delete", func(args []runtime.Value) (runtime.Value, error) {
			key, err := weakKey(arg(args, 0))
			if err != nil {
				return runtime.Boolean(false), nil
			}
			return runtime.Boolean(w.Delete(key)), nil
		})
	}
	return runtime.UndefinedValue
}

func weakSetMember(w *runtime.WeakSetValue, name string) runtime.Value {
	switch name {
	case "add":
		return nativeMethod("add", func(args []runtime.Value) (runtime.Value, error) {
			key, err := weakKey(arg(args, 0))
			if err != nil {
				return nil, err
			}
			w.Add(key)
			return w, nil
		})
	case "has":
		return nativeMethod("has", func(args []runtime.Value) (runtime.Value, error) {
			key, err := weakKey(arg(args, 0))
			if err != nil {
				return runtime.Boolean(false), nil
			}
			return runtime.Boolean(w.Has(key)), nil
		})
	case "delete":
		return nativeMethod("delete", func(args []runtime.Value) (runtime.Value, error) {
			key, err := weakKey(arg(args, 0))
			if err != nil {
				return runtime.Boolean(false), nil
			}
			return runtime.Boolean(w.Delete(key)), nil
		})
	}
	return runtime.UndefinedValue
}

// weakKey requires WeakMap/WeakSet keys to be plain objects, matching
// runtime.WeakMapValue/WeakSetValue's *runtime.Object-keyed storage.
func weakKey(v runtime.Value) (*runtime.Object, error) {
	obj, ok := v.(*runtime.Object)
	if !ok {
		return nil, runtime.ThrowTypeError("invalid value used as weak map key")
	}
	return obj, nil
}
