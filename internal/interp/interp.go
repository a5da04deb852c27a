// Package interp implements the tree-walking evaluator: a single Interpreter
// walks a parsed (and optionally type-checked) Program, executing statements
// against a runtime.Environment scope chain and producing runtime.Value
// results for expressions.
//
// Grounded on the teacher's internal/interp/evaluator package: one
// evaluator type owning the global environment and call stack, dispatching
// per node kind across a handful of concern-split files
// (core_evaluator.go, visitor_expressions.go, visitor_statements.go,
// property_read.go, property_write.go, member_assignment.go,
// method_dispatch.go, oop_engine.go).
package interp

import (
	"io"
	"os"

	"github.com/tsxlang/tsx/internal/interp/runtime"
	"github.com/tsxlang/tsx/pkg/ast"
)

// Interpreter owns the global scope, call stack, class registry, and
// microtask queue for one program run.
type Interpreter struct {
	Global    *runtime.Environment
	CallStack *runtime.CallStack
	Classes   map[string]*runtime.ClassInfo
	Out       io.Writer

	microtasks []func()
	classEnv   map[*runtime.ClassInfo]*runtime.Environment
}

// New creates an Interpreter with a fresh global scope. Builtins are not
// installed here: the caller wires them in with
// internal/interp/builtins.Install(it), which reaches the Interpreter only
// through its GlobalEnv/Writer/ClassRegistry accessors.
func New() *Interpreter {
	it := &Interpreter{
		Global:    runtime.NewEnvironment(),
		CallStack: runtime.NewCallStack(2000),
		Classes:   map[string]*runtime.ClassInfo{},
		Out:       os.Stdout,
		classEnv:  map[*runtime.ClassInfo]*runtime.Environment{},
	}
	runtime.Invoke = it.invokeFunction
	it.installPromiseConstructor()
	return it
}

// Run type-hoists and executes every top-level statement of prog in order
// (spec.md §4.4), draining the microtask queue after each statement so
// pending `.then` callbacks run before the next statement (spec.md §5's
// single-threaded cooperative scheduling).
func (it *Interpreter) Run(prog *ast.Program) error {
	it.hoist(prog.Statements, it.Global)
	for _, stmt := range prog.Statements {
		if _, err := it.execStatement(stmt, it.Global); err != nil {
			if sig, ok := err.(*ctrlSignal); ok {
				_ = sig
				continue
			}
			return err
		}
		it.drainMicrotasks()
	}
	return nil
}

// GlobalEnv, Writer, and ClassRegistry satisfy internal/interp/builtins.Host
// so builtins.Install can wire the global surface into an Interpreter the
// same way it does for a compiler.VM.
func (it *Interpreter) GlobalEnv() *runtime.Environment          { return it.Global }
func (it *Interpreter) Writer() io.Writer                        { return it.Out }
func (it *Interpreter) ClassRegistry() map[string]*runtime.ClassInfo { return it.Classes }

// QueueMicrotask schedules f to run once the current synchronous slice of
// work finishes, backing Promise `.then` callback scheduling.
func (it *Interpreter) QueueMicrotask(f func()) {
	it.microtasks = append(it.microtasks, f)
}

func (it *Interpreter) drainMicrotasks() {
	for len(it.microtasks) > 0 {
		task := it.microtasks[0]
		it.microtasks = it.microtasks[1:]
		task()
	}
}
