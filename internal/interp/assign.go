package interp

import (
	"fmt"

	"github.com/tsxlang/tsx/internal/interp/runtime"
	"github.com/tsxlang/tsx/pkg/ast"
)

func (it *Interpreter) evalAssignment(e *ast.AssignmentExpr, env *runtime.Environment) (runtime.Value, error) {
	if e.Operator == "=" {
		val, err := it.evalExpr(e.Value, env)
		if err != nil {
			return nil, err
		}
		if err := it.assignTo(e.Target, val, env); err != nil {
			return nil, err
		}
		return val, nil
	}

	switch e.Operator {
	case "&&=", "||=", "??=":
		cur, err := it.evalExpr(e.Target, env)
		if err != nil {
			return nil, err
		}
		switch e.Operator {
		case "&&=":
			if !runtime.Truthy(cur) {
				return cur, nil
			}
		case "||=":
			if runtime.Truthy(cur) {
				return cur, nil
			}
		case "??=":
			if !isNullish(cur) {
				return cur, nil
			}
		}
		val, err := it.evalExpr(e.Value, env)
		if err != nil {
			return nil, err
		}
		if err := it.assignTo(e.Target, val, env); err != nil {
			return nil, err
		}
		return val, nil
	}

	cur, err := it.evalExpr(e.Target, env)
	if err != nil {
		return nil, err
	}
	rhs, err := it.evalExpr(e.Value, env)
	if err != nil {
		return nil, err
	}
	result, err := it.evalBinary(compoundOp(e.Operator), cur, rhs)
	if err != nil {
		return nil, err
	}
	if err := it.assignTo(e.Target, result, env); err != nil {
		return nil, err
	}
	return result, nil
}

func isNullish(v runtime.Value) bool {
	switch v.(type) {
	case runtime.Null, runtime.Undefined, nil:
		return true
	}
	return false
}

// assignTo writes val into an assignment target expression: a plain
// identifier, a member expression (including computed/optional forms), or
// an array/object literal used as a destructuring target.
func (it *Interpreter) assignTo(target ast.Expression, val runtime.Value, env *runtime.Environment) error {
	switch t := target.(type) {
	case *ast.Identifier:
		return env.Set(t.Name, val)
	case *ast.MemberExpr:
		return it.assignMember(t, val, env)
	case *ast.ArrayLiteral:
		return it.destructureArrayAssign(t, val, env)
	case *ast.ObjectLiteral:
		return it.destructureObjectAssign(t, val, env)
	}
	return fmt.Errorf("interp: unsupported assignment target %T", target)
}

func (it *Interpreter) assignMember(m *ast.MemberExpr, val runtime.Value, env *runtime.Environment) error {
	obj, err := it.evalExpr(m.Object, env)
	if err != nil {
		return err
	}
	if m.Optional && isNullish(obj) {
		return nil
	}
	if m.Computed {
		idx, err := it.evalExpr(m.Property, env)
		if err != nil {
			return err
		}
		if indexable, ok := obj.(runtime.IndexableValue); ok {
			return indexable.SetIndex(idx, val)
		}
		return runtime.ThrowTypeError("cannot assign computed property on %s", obj.TypeOf())
	}
	name := m.Property.(*ast.Identifier).Name
	switch o := obj.(type) {
	case *runtime.Object:
		return o.Set(name, val, o)
	case *runtime.Instance:
		return o.Object.Set(name, val, o)
	}
	return runtime.ThrowTypeError("cannot set property %q on %s", name, obj.TypeOf())
}

func (it *Interpreter) destructureArrayAssign(pat *ast.ArrayLiteral, val runtime.Value, env *runtime.Environment) error {
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
			if err := it.assignTo(spread.Argument, runtime.NewArray(rest...), env); err != nil {
				return err
			}
			continue
		}
		var elemVal runtime.Value = runtime.UndefinedValue
		if arr != nil && i < len(arr.Elements) && arr.Elements[i] != nil {
			elemVal = arr.Elements[i]
		}
		target := el
		if assign, ok := el.(*ast.AssignmentExpr); ok && assign.Operator == "=" {
			target = assign.Target
			if _, isUndef := elemVal.(runtime.Undefined); isUndef {
				v, err := it.evalExpr(assign.Value, env)
				if err != nil {
					return err
				}
				elemVal = v
			}
		}
		if err := it.assignTo(target, elemVal, env); err != nil {
			return err
		}
	}
	return nil
}

func (it *Interpreter) destructureObjectAssign(pat *ast.ObjectLiteral, val runtime.Value, env *runtime.Environment) error {
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
			if err := it.assignTo(prop.Value, rest, env); err != nil {
				return err
			}
			continue
		}
		key, err := it.propertyKey(prop, env)
		if err != nil {
			return err
		}
		taken[key] = true
		v, err := it.getMemberByName(val, key)
		if err != nil {
			return err
		}
		target := prop.Value
		if assign, ok := target.(*ast.AssignmentExpr); ok && assign.Operator == "=" {
			target = assign.Target
			if _, isUndef := v.(runtime.Undefined); isUndef {
				def, err := it.evalExpr(assign.Value, env)
				if err != nil {
					return err
				}
				v = def
			}
		}
		if err := it.assignTo(target, v, env); err != nil {
			return err
		}
	}
	return nil
}

func (it *Interpreter) propertyKey(prop ast.ObjectProperty, env *runtime.Environment) (string, error) {
	if prop.Computed {
		v, err := it.evalExpr(prop.Key, env)
		if err != nil {
			return "", err
		}
		return v.String(), nil
	}
	if ident, ok := prop.Key.(*ast.Identifier); ok {
		return ident.Name, nil
	}
	if lit, ok := prop.Key.(*ast.StringLiteral); ok {
		return lit.Value, nil
	}
	return "", fmt.Errorf("interp: unsupported object key expression %T", prop.Key)
}

func (it *Interpreter) evalUpdate(e *ast.UpdateExpr, env *runtime.Environment) (runtime.Value, error) {
	cur, err := it.evalExpr(e.Operand, env)
	if err != nil {
		return nil, err
	}
	oldNum := runtime.ToNumberValue(cur)
	var newNum float64
	switch e.Operator {
	case "++":
		newNum = oldNum + 1
	case "--":
		newNum = oldNum - 1
	default:
		return nil, fmt.Errorf("interp: unsupported update operator %q", e.Operator)
	}
	newVal := runtime.Number(newNum)
	if err := it.assignTo(e.Operand, newVal, env); err != nil {
		return nil, err
	}
	if e.Prefix {
		return newVal, nil
	}
	return runtime.Number(oldNum), nil
}
