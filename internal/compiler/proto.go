package compiler

import "github.com/tsxlang/tsx/pkg/ast"

// FunctionProto is the compile-time description of one function/method/
// arrow body: its compiled Chunk plus enough of the original parameter list
// to bind arguments at call time (defaults, rest, and destructuring
// patterns are bound structurally against the live Environment rather than
// compiled to bytecode — see DESIGN.md's internal/compiler entry).
//
// Grounded on the teacher's functionInfo (compiler_core.go), trimmed of its
// constIndex/globalSlot bookkeeping since functions here are plain closure
// values rather than slots in a global table.
type FunctionProto struct {
	Name        string
	Params      []ast.Param
	Chunk       *Chunk // expression-bodied arrows end in OpReturn; other bodies have no trailing OpReturn, and runBlock reports returned=false on fallthrough, treated as an implicit `undefined` return by the caller
	IsArrow     bool
	IsGenerator bool
	IsAsync     bool

	// Defaults holds one precompiled Chunk per parameter/destructuring
	// Default expression found anywhere in Params, keyed by the AST node
	// pointer itself (stable for the proto's lifetime). Compiling these up
	// front at function-definition time, rather than walking the AST again
	// at every call, is what makes the "on-demand compile-and-run" of a
	// default expression cheap: binding just looks the chunk up and runs
	// it, same cost class as evaluating an already-parsed expression tree.
	Defaults map[ast.Expression]*Chunk
}
