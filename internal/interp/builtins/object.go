package builtins

import "github.com/tsxlang/tsx/internal/interp/runtime"

// installObjectStatics wires the Object global's static surface
// (Object.keys/values/entries/assign/freeze/seal/isFrozen/isSealed), and
// populates runtime.ObjectProto with the handful of methods every plain
// object inherits (hasOwnProperty, toString).
func installObjectStatics(env *runtime.Environment) {
	obj := runtime.NewObject()
	obj.DefineData("keys", &runtime.Function{Name: "keys", Native: func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
		o, err := asObject(args, 0)
		if err != nil {
			return nil, err
		}
		keys := o.OwnKeys()
		out := make([]runtime.Value, len(keys))
		for i, k := range keys {
			out[i] = runtime.String(k)
		}
		return runtime.NewArray(out...), nil
	}}, true, true, true)
	obj.DefineData("values", &runtime.Function{Name: "values", Native: func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
		o, err := asObject(args, 0)
		if err != nil {
			return nil, err
		}
		var out []runtime.Value
		for _, k := range o.OwnKeys() {
			v, _ := o.Get(k, o)
			out = append(out, v)
		}
		return runtime.NewArray(out...), nil
	}}, true, true, true)
	obj.DefineData("entries", &runtime.Function{Name: "entries", Native: func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
		o, err := asObject(args, 0)
		if err != nil {
			return nil, err
		}
		var out []runtime.Value
		for _, k := range o.OwnKeys() {
			v, _ := o.Get(k, o)
			out = append(out, runtime.NewArray(runtime.String(k), v))
		}
		return runtime.NewArray(out...), nil
	}}, true, true, true)
	obj.DefineData("assign", &runtime.Function{Name: "assign", Native: func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
		if len(args) == 0 {
			return nil, runtime.ThrowTypeError("Object.assign requires a target")
		}
		target, err := asObject(args, 0)
		if err != nil {
			return nil, err
		}
		for _, src := range args[1:] {
			so, ok := src.(*runtime.Object)
			if !ok {
				continue
			}
			for _, k := range so.OwnKeys() {
				v, _ := so.Get(k, so)
				target.Set(k, v, target)
			}
		}
		return target, nil
	}}, true, true, true)
	obj.DefineData("freeze", &runtime.Function{Name: "freeze", Native: func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
		o, err := asObject(args, 0)
		if err != nil {
			return nil, err
		}
		o.Freeze()
		return o, nil
	}}, true, true, true)
	obj.DefineData("seal", &runtime.Function{Name: "seal", Native: func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
		o, err := asObject(args, 0)
		if err != nil {
			return nil, err
		}
		o.Seal()
		return o, nil
	}}, true, true, true)
	obj.DefineData("isFrozen", &runtime.Function{Name: "isFrozen", Native: func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
		o, err := asObject(args, 0)
		if err != nil {
			return runtime.Boolean(true), nil
		}
		return runtime.Boolean(o.IsFrozen()), nil
	}}, true, true, true)
	obj.DefineData("isSealed", &runtime.Function{Name: "isSealed", Native: func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
		o, err := asObject(args, 0)
		if err != nil {
			return runtime.Boolean(true), nil
		}
		return runtime.Boolean(o.IsSealed()), nil
	}}, true, true, true)
	env.Define("Object", obj, true)

	runtime.ObjectProto.DefineData("hasOwnProperty", &runtime.Function{Name: "hasOwnProperty", Native: func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		var o *runtime.Object
		switch t := this.(type) {
		case *runtime.Object:
			o = t
		case *runtime.Instance:
			o = t.Object
		default:
			return runtime.Boolean(false), nil
		}
		name := ""
		if len(args) > 0 {
			name = args[0].String()
		}
		return runtime.Boolean(o.HasOwn(name)), nil
	}}, true, true, true)
	runtime.ObjectProto.DefineData("toString", &runtime.Function{Name: "toString", Native: func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.String(this.String()), nil
	}}, true, true, true)
}

func asObject(args []runtime.Value, i int) (*runtime.Object, error) {
	if i >= len(args) {
		return nil, runtime.ThrowTypeError("expected an object argument")
	}
	if inst, ok := args[i].(*runtime.Instance); ok {
		return inst.Object, nil
	}
	o, ok := args[i].(*runtime.Object)
	if !ok {
		return nil, runtime.ThrowTypeError("expected an object argument")
	}
	return o, nil
}
