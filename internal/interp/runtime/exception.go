package runtime

import (
	"fmt"

	"github.com/tsxlang/tsx/pkg/token"
)

// Exception is a thrown tsx value caught by the interpreter's Go error
// channel, carrying the thrown Value plus the source position and call
// stack at the point of the throw (spec.md §7's error/exception model).
//
// Grounded on the teacher's ExceptionValue (runtime/exception.go), adapted
// from a fixed class-metadata exception model to tsx's `throw <any
// expression>` semantics (a throw can raise a string, a plain object, or
// an Error instance).
type Exception struct {
	Thrown    Value
	Pos       token.Position
	CallStack []StackFrame
}

func (e *Exception) Error() string {
	text := e.Thrown.String()
	if inst, ok := e.Thrown.(*Instance); ok && inst.Object.HasOwn("name") {
		name, _ := inst.Object.Get("name", inst)
		msg, _ := inst.Object.Get("message", inst)
		text = name.String() + ": " + msg.String()
	}
	return fmt.Sprintf("%s at %d:%d", text, e.Pos.Line, e.Pos.Column)
}

// StackFrame records one call-site for Error.stack rendering.
type StackFrame struct {
	FunctionName string
	Pos          token.Position
}

// ErrorClasses is populated by internal/interp/builtins.installErrorConstructors
// with the registered Error-hierarchy ClassInfo values, so NewError's
// internally-thrown instances (TypeError from a bad coercion, and the
// like) satisfy `instanceof TypeError` the same way a user's `new
// TypeError(...)` does.
var ErrorClasses map[string]*ClassInfo

// NewError constructs a builtin Error-hierarchy instance (Error, TypeError,
// RangeError, SyntaxError, ReferenceError), matching the {name, message,
// stack} shape every tsx Error exposes.
func NewError(kind, message string) *Instance {
	obj := NewObject()
	obj.DefineData("name", String(kind), true, true, true)
	obj.DefineData("message", String(message), true, true, true)
	obj.DefineData("stack", String(kind+": "+message), true, true, true)
	return &Instance{Object: obj, Class: ErrorClasses[kind]}
}

// ThrowTypeError is a convenience constructor used throughout the builtins
// and evaluator for coercion/call failures.
func ThrowTypeError(format string, args ...interface{}) error {
	return &Exception{Thrown: NewError("TypeError", fmt.Sprintf(format, args...))}
}

func ThrowRangeError(format string, args ...interface{}) error {
	return &Exception{Thrown: NewError("RangeError", fmt.Sprintf(format, args...))}
}

func ThrowReferenceError(format string, args ...interface{}) error {
	return &Exception{Thrown: NewError("ReferenceError", fmt.Sprintf(format, args...))}
}
