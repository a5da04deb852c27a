package builtins

import (
	"github.com/tsxlang/tsx/internal/interp/runtime"
)

// installErrorConstructors registers Error and its subtypes into host's
// class registry as ordinary runtime.ClassInfo values with NativeConstruct
// set, so `new TypeError(...)`, `instanceof`, and a user class `extends
// Error` all flow through the same construction/super-call machinery as
// user-declared classes (see runtime.ClassInfo.NativeConstruct).
func installErrorConstructors(host Host) {
	runtime.ErrorClasses = map[string]*runtime.ClassInfo{}
	base := registerErrorClass(host, "Error", nil)
	for _, name := range []string{"TypeError", "RangeError", "ReferenceError", "SyntaxError", "EvalError", "URIError"} {
		registerErrorClass(host, name, base)
	}
	registerAggregateError(host, base)
}

func registerErrorClass(host Host, name string, base *runtime.ClassInfo) *runtime.ClassInfo {
	info := &runtime.ClassInfo{
		Name: name,
		Base: base,
		NativeConstruct: func(instance *runtime.Instance, args []runtime.Value) error {
			msg := ""
			if len(args) > 0 {
				msg = args[0].String()
			}
			instance.DefineData("name", runtime.String(name), true, true, true)
			instance.DefineData("message", runtime.String(msg), true, true, true)
			instance.DefineData("stack", runtime.String(name+": "+msg), true, true, true)
			return nil
		},
	}
	host.ClassRegistry()[name] = info
	runtime.ErrorClasses[name] = info
	return info
}

func registerAggregateError(host Host, base *runtime.ClassInfo) *runtime.ClassInfo {
	info := &runtime.ClassInfo{
		Name: "AggregateError",
		Base: base,
		NativeConstruct: func(instance *runtime.Instance, args []runtime.Value) error {
			var errs runtime.Value = runtime.NewArray()
			if len(args) > 0 {
				errs = args[0]
			}
			msg := ""
			if len(args) > 1 {
				msg = args[1].String()
			}
			instance.DefineData("name", runtime.String("AggregateError"), true, true, true)
			instance.DefineData("message", runtime.String(msg), true, true, true)
			instance.DefineData("errors", errs, true, true, true)
			instance.DefineData("stack", runtime.String("AggregateError: "+msg), true, true, true)
			return nil
		},
	}
	host.ClassRegistry()["AggregateError"] = info
	runtime.ErrorClasses["AggregateError"] = info
	return info
}
