package builtins

import (
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/tsxlang/tsx/internal/interp/runtime"
)

// installJSON wires JSON.parse/JSON.stringify, grounded on SPEC_FULL.md's
// DOMAIN STACK: JSON.parse walks a gjson.Result tree into runtime values;
// JSON.stringify builds the JSON text incrementally with sjson.SetRaw
// rather than a single marshal pass, so one malformed nested value fails
// at the node that produced it instead of unwinding a whole tree.
func installJSON(env *runtime.Environment) {
	j := runtime.NewObject()
	j.DefineData("parse", &runtime.Function{Name: "parse", Native: func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
		if len(args) == 0 {
			return nil, runtime.ThrowTypeError("JSON.parse requires an argument")
		}
		src := args[0].String()
		if !gjson.Valid(src) {
			return nil, &runtime.Exception{Thrown: runtime.NewError("SyntaxError", "Unexpected token in JSON")}
		}
		return fromGJSON(gjson.Parse(src)), nil
	}}, true, true, true)
	j.DefineData("stringify", &runtime.Function{Name: "stringify", Native: func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
		if len(args) == 0 {
			return runtime.UndefinedValue, nil
		}
		out, err := marshalValue(args[0])
		if err != nil {
			return nil, err
		}
		return runtime.String(out), nil
	}}, true, true, true)
	env.Define("JSON", j, true)
}

func fromGJSON(r gjson.Result) runtime.Value {
	switch r.Type {
	case gjson.Null:
		return runtime.NullValue
	case gjson.False:
		return runtime.Boolean(false)
	case gjson.True:
		return runtime.Boolean(true)
	case gjson.Number:
		return runtime.Number(r.Num)
	case gjson.String:
		return runtime.String(r.Str)
	case gjson.JSON:
		if r.IsArray() {
			var elems []runtime.Value
			r.ForEach(func(_, v gjson.Result) bool {
				elems = append(elems, fromGJSON(v))
				return true
			})
			return runtime.NewArray(elems...)
		}
		obj := runtime.NewObject()
		r.ForEach(func(k, v gjson.Result) bool {
			obj.DefineData(k.String(), fromGJSON(v), true, true, true)
			return true
		})
		return obj
	}
	return runtime.UndefinedValue
}

func marshalValue(v runtime.Value) (string, error) {
	switch t := v.(type) {
	case nil, runtime.Undefined:
		return "null", nil
	case runtime.Null:
		return "null", nil
	case runtime.Boolean:
		if t {
			return "true", nil
		}
		return "false", nil
	case runtime.Number:
		return strconv.FormatFloat(float64(t), 'g', -1, 64), nil
	case runtime.String:
		return strconv.Quote(string(t)), nil
	case *runtime.Array:
		raw := "[]"
		for i, elem := range t.Elements {
			elemRaw, err := marshalValue(elem)
			if err != nil {
				return "", err
			}
			raw, err = sjson.SetRaw(raw, strconv.Itoa(i), elemRaw)
			if err != nil {
				return "", err
			}
		}
		return raw, nil
	case *runtime.Instance:
		return marshalKeys(t.Object)
	case *runtime.Object:
		return marshalKeys(t)
	}
	return "", runtime.ThrowTypeError("cannot stringify value of type %s", v.TypeOf())
}

func marshalKeys(o *runtime.Object) (string, error) {
	raw := "{}"
	for _, key := range o.OwnKeys() {
		val, _ := o.Get(key, o)
		valRaw, err := marshalValue(val)
		if err != nil {
			return "", err
		}
		raw, err = sjson.SetRaw(raw, key, valRaw)
		if err != nil {
			return "", err
		}
	}
	return raw, nil
}
