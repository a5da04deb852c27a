// Package builtins installs the tsx global environment: console, Math,
// JSON, Object/Array/String prototype surfaces, the Error hierarchy, and
// Map/Set/WeakMap/WeakSet.
//
// Grounded on the teacher's internal/interp/builtins/{math.go,math_basic.go,
// strings.go,strings_advanced.go,array.go,collections.go} for the
// per-concern file split (math.go, strings.go, array.go, collections.go,
// json.go, errors.go, console.go here), adapted from the teacher's flat
// free-function Registry (DWScript has no object/prototype model) to JS's
// Math/JSON-object-plus-prototype-chain shape.
package builtins

import (
	"io"

	"github.com/tsxlang/tsx/internal/interp/runtime"
)

// Host is whatever owns a global environment, an output sink, and a class
// registry well enough to receive the builtin surface: both
// internal/interp.Interpreter (the tree-walking evaluator) and
// internal/compiler.VM (the bytecode engine) implement it, so Install runs
// identically ahead of either execution mode.
type Host interface {
	GlobalEnv() *runtime.Environment
	Writer() io.Writer
	ClassRegistry() map[string]*runtime.ClassInfo
}

// Install populates host's global environment with every tsx global, wires
// runtime.ArrayProto/StringProto/ObjectProto, and registers the Error
// hierarchy into host's class registry. compiler.New calls it for every VM;
// the engine facade calls it on an Interpreter before running a program.
func Install(host Host) {
	env := host.GlobalEnv()
	installConsole(host)
	installMath(env)
	installJSON(env)
	installObjectStatics(env)
	installArrayPrototype()
	installStringPrototype()
	installErrorConstructors(host)
	installCollections(env)
	installGlobalFunctions(env)
}
