package interp

import (
	"fmt"
	"math"
	"strings"

	"github.com/tsxlang/tsx/internal/interp/runtime"
)

func (it *Interpreter) evalUnary(op string, operand runtime.Value) (runtime.Value, error) {
	switch op {
	case "-":
		return runtime.Number(-runtime.ToNumberValue(operand)), nil
	case "+":
		return runtime.Number(runtime.ToNumberValue(operand)), nil
	case "!":
		return runtime.Boolean(!runtime.Truthy(operand)), nil
	case "~":
		return runtime.Number(float64(^toInt32(operand))), nil
	case "typeof":
		return runtime.String(operand.TypeOf()), nil
	case "void":
		return runtime.UndefinedValue, nil
	}
	return nil, fmt.Errorf("interp: unsupported unary operator %q", op)
}

func toInt32(v runtime.Value) int32 {
	f := runtime.ToNumberValue(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int32(int64(f))
}

func toUint32(v runtime.Value) uint32 {
	return uint32(toInt32(v))
}

func isString(v runtime.Value) bool {
	_, ok := v.(runtime.String)
	return ok
}

func (it *Interpreter) evalBinary(op string, left, right runtime.Value) (runtime.Value, error) {
	switch op {
	case "+":
		if isString(left) || isString(right) {
			return runtime.String(left.String() + right.String()), nil
		}
		return runtime.Number(runtime.ToNumberValue(left) + runtime.ToNumberValue(right)), nil
	case "-":
		return runtime.Number(runtime.ToNumberValue(left) - runtime.ToNumberValue(right)), nil
	case "*":
		return runtime.Number(runtime.ToNumberValue(left) * runtime.ToNumberValue(right)), nil
	case "/":
		return runtime.Number(runtime.ToNumberValue(left) / runtime.ToNumberValue(right)), nil
	case "%":
		return runtime.Number(math.Mod(runtime.ToNumberValue(left), runtime.ToNumberValue(right))), nil
	case "**":
		return runtime.Number(math.Pow(runtime.ToNumberValue(left), runtime.ToNumberValue(right))), nil
	case "&":
		return runtime.Number(float64(toInt32(left) & toInt32(right))), nil
	case "|":
		return runtime.Number(float64(toInt32(left) | toInt32(right))), nil
	case "^":
		return runtime.Number(float64(toInt32(left) ^ toInt32(right))), nil
	case "<<":
		return runtime.Number(float64(toInt32(left) << (toUint32(right) & 31))), nil
	case ">>":
		return runtime.Number(float64(toInt32(left) >> (toUint32(right) & 31))), nil
	case ">>>":
		return runtime.Number(float64(toUint32(left) >> (toUint32(right) & 31))), nil
	case "==":
		return runtime.Boolean(looseEquals(left, right)), nil
	case "!=":
		return runtime.Boolean(!looseEquals(left, right)), nil
	case "===":
		return runtime.Boolean(strictEquals(left, right)), nil
	case "!==":
		return runtime.Boolean(!strictEquals(left, right)), nil
	case "<", "<=", ">", ">=":
		return compareValues(op, left, right), nil
	case "instanceof":
		return evalInstanceof(left, right)
	case "in":
		return evalIn(left, right)
	}
	return nil, fmt.Errorf("interp: unsupported binary operator %q", op)
}

func compareValues(op string, left, right runtime.Value) runtime.Value {
	if isString(left) && isString(right) {
		l, r := left.String(), right.String()
		switch op {
		case "<":
			return runtime.Boolean(l < r)
		case "<=":
			return runtime.Boolean(l <= r)
		case ">":
			return runtime.Boolean(l > r)
		case ">=":
			return runtime.Boolean(l >= r)
		}
	}
	l, r := runtime.ToNumberValue(left), runtime.ToNumberValue(right)
	if math.IsNaN(l) || math.IsNaN(r) {
		return runtime.False
	}
	switch op {
	case "<":
		return runtime.Boolean(l < r)
	case "<=":
		return runtime.Boolean(l <= r)
	case ">":
		return runtime.Boolean(l > r)
	case ">=":
		return runtime.Boolean(l >= r)
	}
	return runtime.False
}

// strictEquals implements ===: ComparableValue types compare by value,
// everything else (Object/Array/Function/Instance) by reference identity.
func strictEquals(a, b runtime.Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	if cmp, ok := a.(runtime.ComparableValue); ok {
		return cmp.StrictEquals(b)
	}
	return a == b
}

// looseEquals implements == with the usual JS coercions, minus the
// extremely rarely used document.all edge case.
func looseEquals(a, b runtime.Value) bool {
	if strictEquals(a, b) {
		return true
	}
	_, aNull := a.(runtime.Null)
	_, aUndef := a.(runtime.Undefined)
	_, bNull := b.(runtime.Null)
	_, bUndef := b.(runtime.Undefined)
	if (aNull || aUndef) && (bNull || bUndef) {
		return true
	}
	if aNull || aUndef || bNull || bUndef {
		return false
	}
	_, aNum := a.(runtime.Number)
	_, bNum := b.(runtime.Number)
	_, aStr := a.(runtime.String)
	_, bStr := b.(runtime.String)
	_, aBool := a.(runtime.Boolean)
	_, bBool := b.(runtime.Boolean)
	if (aNum && bStr) || (aStr && bNum) || aBool || bBool {
		return runtime.ToNumberValue(a) == runtime.ToNumberValue(b)
	}
	return false
}

func evalInstanceof(left, right runtime.Value) (runtime.Value, error) {
	ref, ok := right.(classRef)
	if !ok {
		return nil, runtime.ThrowTypeError("Right-hand side of 'instanceof' is not callable")
	}
	inst, ok := left.(*runtime.Instance)
	if !ok {
		return runtime.False, nil
	}
	return runtime.Boolean(inst.Class != nil && inst.Class.IsSubclassOf(ref.info)), nil
}

func evalIn(left, right runtime.Value) (runtime.Value, error) {
	key := left.String()
	switch obj := right.(type) {
	case *runtime.Object:
		return runtime.Boolean(obj.Has(key)), nil
	case *runtime.Instance:
		if obj.Object.Has(key) {
			return runtime.True, nil
		}
		_, ok := obj.Class.LookupMethod(key)
		return runtime.Boolean(ok), nil
	case *runtime.Array:
		_, ok := obj.GetIndex(left)
		return runtime.Boolean(ok), nil
	}
	return nil, runtime.ThrowTypeError("cannot use 'in' operator on %s", right.TypeOf())
}

// compoundOp strips a compound assignment operator's trailing "=" back to
// its binary/logical form ("+=" -> "+", "&&=" -> "&&").
func compoundOp(op string) string {
	return strings.TrimSuffix(op, "=")
}
