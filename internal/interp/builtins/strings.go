package builtins

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tsxlang/tsx/internal/interp/runtime"
)

// installStringPrototype populates runtime.StringProto, grounded on the
// teacher's internal/interp/builtins/{strings.go,strings_advanced.go}.
// Case conversion goes through golang.org/x/text/cases rather than
// strings.ToUpper/ToLower so locale-aware casing (e.g. Turkish dotless i)
// is available if tsx ever exposes a locale argument, per SPEC_FULL.md's
// DOMAIN STACK.
func installStringPrototype() {
	upper := cases.Upper(language.Und)
	lower := cases.Lower(language.Und)

	method := func(name string, fn func(s string, args []runtime.Value) (runtime.Value, error)) {
		runtime.StringProto.DefineData(name, &runtime.Function{Name: name, Native: func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
			return fn(this.String(), args)
		}}, true, true, true)
	}

	method("charAt", func(s string, args []runtime.Value) (runtime.Value, error) {
		runes := []rune(s)
		i := intArg(args, 0, 0)
		if i < 0 || i >= len(runes) {
			return runtime.String(""), nil
		}
		return runtime.String(string(runes[i])), nil
	})
	method("charCodeAt", func(s string, args []runtime.Value) (runtime.Value, error) {
		runes := []rune(s)
		i := intArg(args, 0, 0)
		if i < 0 || i >= len(runes) {
			return runtime.Number(nanValue()), nil
		}
		return runtime.Number(float64(runes[i])), nil
	})
	method("toUpperCase", func(s string, args []runtime.Value) (runtime.Value, error) {
		return runtime.String(upper.String(s)), nil
	})
	method("toLowerCase", func(s string, args []runtime.Value) (runtime.Value, error) {
		return runtime.String(lower.String(s)), nil
	})
	method("trim", func(s string, args []runtime.Value) (runtime.Value, error) {
		return runtime.String(strings.TrimSpace(s)), nil
	})
	method("trimStart", func(s string, args []runtime.Value) (runtime.Value, error) {
		return runtime.String(strings.TrimLeft(s, " \t\n\r")), nil
	})
	method("trimEnd", func(s string, args []runtime.Value) (runtime.Value, error) {
		return runtime.String(strings.TrimRight(s, " \t\n\r")), nil
	})
	method("includes", func(s string, args []runtime.Value) (runtime.Value, error) {
		return runtime.Boolean(strings.Contains(s, strArg(args, 0))), nil
	})
	method("startsWith", func(s string, args []runtime.Value) (runtime.Value, error) {
		return runtime.Boolean(strings.HasPrefix(s, strArg(args, 0))), nil
	})
	method("endsWith", func(s string, args []runtime.Value) (runtime.Value, error) {
		return runtime.Boolean(strings.HasSuffix(s, strArg(args, 0))), nil
	})
	method("indexOf", func(s string, args []runtime.Value) (runtime.Value, error) {
		return runtime.Number(strings.Index(s, strArg(args, 0))), nil
	})
	method("lastIndexOf", func(s string, args []runtime.Value) (runtime.Value, error) {
		return runtime.Number(strings.LastIndex(s, strArg(args, 0))), nil
	})
	method("slice", func(s string, args []runtime.Value) (runtime.Value, error) {
		runes := []rune(s)
		start, end := sliceBounds(len(runes), args)
		return runtime.String(string(runes[start:end])), nil
	})
	method("substring", func(s string, args []runtime.Value) (runtime.Value, error) {
		runes := []rune(s)
		n := len(runes)
		start := clampIndex(n, maxInt(0, intArg(args, 0, 0)))
		end := n
		if len(args) > 1 {
			end = clampIndex(n, maxInt(0, intArg(args, 1, n)))
		}
		if start > end {
			start, end = end, start
		}
		return runtime.String(string(runes[start:end])), nil
	})
	method("repeat", func(s string, args []runtime.Value) (runtime.Value, error) {
		n := intArg(args, 0, 0)
		if n < 0 {
			return nil, runtime.ThrowRangeError("Invalid count value")
		}
		return runtime.String(strings.Repeat(s, n)), nil
	})
	method("padStart", func(s string, args []runtime.Value) (runtime.Value, error) {
		return runtime.String(pad(s, args, true)), nil
	})
	method("padEnd", func(s string, args []runtime.Value) (runtime.Value, error) {
		return runtime.String(pad(s, args, false)), nil
	})
	method("split", func(s string, args []runtime.Value) (runtime.Value, error) {
		if len(args) == 0 {
			return runtime.NewArray(runtime.String(s)), nil
		}
		sep := strArg(args, 0)
		var parts []string
		if sep == "" {
			for _, r := range s {
				parts = append(parts, string(r))
			}
		} else {
			parts = strings.Split(s, sep)
		}
		out := make([]runtime.Value, len(parts))
		for i, p := range parts {
			out[i] = runtime.String(p)
		}
		return runtime.NewArray(out...), nil
	})
	method("replace", func(s string, args []runtime.Value) (runtime.Value, error) {
		return runtime.String(strings.Replace(s, strArg(args, 0), strArg(args, 1), 1)), nil
	})
	method("replaceAll", func(s string, args []runtime.Value) (runtime.Value, error) {
		return runtime.String(strings.ReplaceAll(s, strArg(args, 0), strArg(args, 1))), nil
	})
	method("concat", func(s string, args []runtime.Value) (runtime.Value, error) {
		out := s
		for _, a := range args {
			out += a.String()
		}
		return runtime.String(out), nil
	})
	method("toString", func(s string, args []runtime.Value) (runtime.Value, error) {
		return runtime.String(s), nil
	})
	method("at", func(s string, args []runtime.Value) (runtime.Value, error) {
		runes := []rune(s)
		i := intArg(args, 0, 0)
		if i < 0 {
			i += len(runes)
		}
		if i < 0 || i >= len(runes) {
			return runtime.NullValue, nil
		}
		return runtime.String(string(runes[i])), nil
	})
}

func strArg(args []runtime.Value, i int) string {
	if i >= len(args) {
		return ""
	}
	return args[i].String()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func pad(s string, args []runtime.Value, start bool) string {
	target := intArg(args, 0, 0)
	filler := " "
	if len(args) > 1 {
		filler = args[1].String()
	}
	runes := []rune(s)
	if filler == "" || len(runes) >= target {
		return s
	}
	need := target - len(runes)
	padding := buildPad(filler, need)
	if start {
		return padding + s
	}
	return s + padding
}

func buildPad(filler string, need int) string {
	fillRunes := []rune(filler)
	out := make([]rune, need)
	for i := 0; i < need; i++ {
		out[i] = fillRunes[i%len(fillRunes)]
	}
	return string(out)
}

func nanValue() float64 {
	var zero float64
	return zero / zero
}
