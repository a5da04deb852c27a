package builtins

import (
	"fmt"

	"github.com/tsxlang/tsx/internal/interp/runtime"
)

// installConsole wires console.log/info/warn/error/debug to host's writer,
// the same sink the engine facade points at stdout or a captured buffer for
// tests (spec.md §6.2's "console.log writes through a configurable sink").
func installConsole(host Host) {
	console := runtime.NewObject()
	logger := &runtime.Function{Name: "log", Native: func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
		parts := make([]interface{}, len(args))
		for i, a := range args {
			parts[i] = consoleFormat(a)
		}
		fmt.Fprintln(host.Writer(), parts...)
		return runtime.UndefinedValue, nil
	}}
	console.DefineData("log", logger, true, true, true)
	console.DefineData("info", logger, true, true, true)
	console.DefineData("debug", logger, true, true, true)
	console.DefineData("warn", logger, true, true, true)
	console.DefineData("error", logger, true, true, true)
	host.GlobalEnv().Define("console", console, true)
}

// consoleFormat renders a value the way console.log does: strings bare,
// everything else via its String() ToString representation.
func consoleFormat(v runtime.Value) string {
	if v == nil {
		return "undefined"
	}
	return v.String()
}
