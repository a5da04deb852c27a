package builtins

import (
	"math"
	"math/rand"

	"github.com/tsxlang/tsx/internal/interp/runtime"
)

// installMath wires the Math global object, grounded on the teacher's
// internal/interp/builtins/{math_basic.go,math_advanced.go,math_trig.go}
// split of elementary/rounding/trig functions, collapsed into one file
// since tsx's Math surface is a single flat object rather than the
// teacher's per-category free-function registry.
func installMath(env *runtime.Environment) {
	m := runtime.NewObject()
	m.DefineData("PI", runtime.Number(math.Pi), false, true, true)
	m.DefineData("E", runtime.Number(math.E), false, true, true)
	m.DefineData("LN2", runtime.Number(math.Ln2), false, true, true)
	m.DefineData("LN10", runtime.Number(math.Log(10)), false, true, true)
	m.DefineData("SQRT2", runtime.Number(math.Sqrt2), false, true, true)

	unary := func(name string, fn func(float64) float64) {
		m.DefineData(name, &runtime.Function{Name: name, Native: func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
			return runtime.Number(fn(num(args, 0))), nil
		}}, true, true, true)
	}
	unary("abs", math.Abs)
	unary("floor", math.Floor)
	unary("ceil", math.Ceil)
	unary("trunc", math.Trunc)
	unary("sqrt", math.Sqrt)
	unary("cbrt", math.Cbrt)
	unary("sign", func(f float64) float64 {
		switch {
		case f > 0:
			return 1
		case f < 0:
			return -1
		default:
			return f
		}
	})
	unary("log", math.Log)
	unary("log2", math.Log2)
	unary("log10", math.Log10)
	unary("exp", math.Exp)
	unary("sin", math.Sin)
	unary("cos", math.Cos)
	unary("tan", math.Tan)
	unary("asin", math.Asin)
	unary("acos", math.Acos)
	unary("atan", math.Atan)
	unary("round", func(f float64) float64 { return math.Floor(f + 0.5) })

	m.DefineData("pow", &runtime.Function{Name: "pow", Native: func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.Number(math.Pow(num(args, 0), num(args, 1))), nil
	}}, true, true, true)
	m.DefineData("atan2", &runtime.Function{Name: "atan2", Native: func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.Number(math.Atan2(num(args, 0), num(args, 1))), nil
	}}, true, true, true)
	m.DefineData("hypot", &runtime.Function{Name: "hypot", Native: func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.Number(math.Hypot(num(args, 0), num(args, 1))), nil
	}}, true, true, true)
	m.DefineData("min", &runtime.Function{Name: "min", Native: func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
		if len(args) == 0 {
			return runtime.Number(math.Inf(1)), nil
		}
		best := num(args, 0)
		for i := 1; i < len(args); i++ {
			if n := num(args, i); n < best || math.IsNaN(n) {
				best = n
			}
		}
		return runtime.Number(best), nil
	}}, true, true, true)
	m.DefineData("max", &runtime.Function{Name: "max", Native: func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
		if len(args) == 0 {
			return runtime.Number(math.Inf(-1)), nil
		}
		best := num(args, 0)
		for i := 1; i < len(args); i++ {
			if n := num(args, i); n > best || math.IsNaN(n) {
				best = n
			}
		}
		return runtime.Number(best), nil
	}}, true, true, true)
	m.DefineData("random", &runtime.Function{Name: "random", Native: func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.Number(rand.Float64()), nil
	}}, true, true, true)

	env.Define("Math", m, true)
}

func num(args []runtime.Value, i int) float64 {
	if i >= len(args) {
		return math.NaN()
	}
	return runtime.ToNumberValue(args[i])
}

func arg(args []runtime.Value, i int) runtime.Value {
	if i < len(args) {
		return args[i]
	}
	return runtime.UndefinedValue
}
