package runtime

import "fmt"

// NativeImpl is a builtin function implemented in Go (Math.*, Array.prototype.*,
// console.log, etc).
type NativeImpl func(this Value, args []Value) (Value, error)

// Function is the runtime value backing every callable: user-defined
// closures (evaluated by the tree-walking interpreter or executed as
// bytecode by the VM) and native builtins, unified so CallableValue has a
// single concrete implementation regardless of origin.
//
// Node/Chunk are opaque (interface{}) to avoid an import cycle with
// pkg/ast and internal/compiler; the evaluator/VM type-assert them back to
// their concrete *ast.FunctionExpr / *compiler.FunctionProto before use.
type Function struct {
	Name    string
	Params  int  // declared parameter count, for .length
	IsArrow bool // arrow functions never rebind `this`

	Native NativeImpl

	Node    interface{} // *ast.FunctionExpr / *ast.ArrowFunctionExpr for the interpreter
	Chunk   interface{} // *compiler.FunctionProto for the VM, holding its Chunk plus param/default/generator/async metadata
	Closure *Environment

	// BoundThis is set on arrow functions and Function.prototype.bind
	// results, overriding the caller-supplied `this`.
	BoundThis Value
	HasBound  bool
}

// InvokeFn is the shape of the evaluator/VM hook installed below.
type InvokeFn func(fn *Function, this Value, args []Value) (Value, error)

// Invoke is installed by interp.New (and overridden by compiler.New when
// running compiled code) so Function.Call can run a
// user-defined body without this package importing either of them.
var Invoke InvokeFn

func (f *Function) TypeOf() string { return "function" }
func (f *Function) String() string {
	if f.Name == "" {
		return "function () { [native code] }"
	}
	return fmt.Sprintf("function %s() { ... }", f.Name)
}

// Call invokes a native function directly. User-defined functions are
// invoked by the evaluator/VM, which know how to run Node/Chunk against a
// fresh child Environment; this path exists so runtime code (builtins,
// Array.prototype.map's callback invocation) can call back into tsx
// functions without depending on the evaluator package.
func (f *Function) Call(this Value, args []Value) (Value, error) {
	if f.HasBound {
		this = f.BoundThis
	}
	if f.Native != nil {
		return f.Native(this, args)
	}
	if Invoke == nil {
		return nil, fmt.Errorf("TypeError: %s is not callable outside an evaluator context", f.String())
	}
	return Invoke(f, this, args)
}
