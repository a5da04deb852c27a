package builtins

import (
	"math"
	"strconv"
	"strings"

	"github.com/tsxlang/tsx/internal/interp/runtime"
)

// installGlobalFunctions wires the handful of free-standing globals that
// aren't hung off a namespace object: parseInt/parseFloat/isNaN/isFinite,
// plus a globalThis pointing back at env itself as a plain object isn't
// representable (env isn't an Object), so globalThis is a best-effort
// empty object rather than a live view of the global scope.
func installGlobalFunctions(env *runtime.Environment) {
	env.Define("parseInt", &runtime.Function{Name: "parseInt", Native: func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
		if len(args) == 0 {
			return runtime.Number(math.NaN()), nil
		}
		s := strings.TrimSpace(args[0].String())
		radix := 10
		if len(args) > 1 {
			if r := int(runtime.ToNumberValue(args[1])); r != 0 {
				radix = r
			}
		}
		neg := false
		if strings.HasPrefix(s, "-") {
			neg = true
			s = s[1:]
		} else if strings.HasPrefix(s, "+") {
			s = s[1:]
		}
		if (radix == 16 || radix == 0) && (strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")) {
			s = s[2:]
			radix = 16
		}
		end := 0
		for end < len(s) && isDigitInRadix(s[end], radix) {
			end++
		}
		if end == 0 {
			return runtime.Number(math.NaN()), nil
		}
		n, err := strconv.ParseInt(s[:end], radix, 64)
		if err != nil {
			return runtime.Number(math.NaN()), nil
		}
		if neg {
			n = -n
		}
		return runtime.Number(float64(n)), nil
	}}, true)

	env.Define("parseFloat", &runtime.Function{Name: "parseFloat", Native: func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
		if len(args) == 0 {
			return runtime.Number(math.NaN()), nil
		}
		s := strings.TrimSpace(args[0].String())
		end := len(s)
		for end > 0 {
			if _, err := strconv.ParseFloat(s[:end], 64); err == nil {
				break
			}
			end--
		}
		if end == 0 {
			return runtime.Number(math.NaN()), nil
		}
		f, _ := strconv.ParseFloat(s[:end], 64)
		return runtime.Number(f), nil
	}}, true)

	env.Define("isNaN", &runtime.Function{Name: "isNaN", Native: func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
		n := num(args, 0)
		return runtime.Boolean(math.IsNaN(n)), nil
	}}, true)

	env.Define("isFinite", &runtime.Function{Name: "isFinite", Native: func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
		n := num(args, 0)
		return runtime.Boolean(!math.IsNaN(n) && !math.IsInf(n, 0)), nil
	}}, true)

	env.Define("globalThis", runtime.NewObject(), false)
}

func isDigitInRadix(b byte, radix int) bool {
	var v int
	switch {
	case b >= '0' && b <= '9':
		v = int(b - '0')
	case b >= 'a' && b <= 'z':
		v = int(b-'a') + 10
	case b >= 'A' && b <= 'Z':
		v = int(b-'A') + 10
	default:
		return false
	}
	return v < radix
}
