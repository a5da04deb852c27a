// Package runtime provides the core runtime value system for the tsx
// interpreter: value type definitions, interfaces for type operations, and
// scope/heap storage used by both the tree-walking evaluator and the
// bytecode VM.
package runtime

// Value represents a runtime value in the tsx interpreter. All runtime
// values must implement this interface.
type Value interface {
	// TypeOf returns the JS typeof-style type name ("number", "string",
	// "boolean", "object", "function", "undefined", "symbol").
	TypeOf() string
	// String returns the ToString() representation of the value.
	String() string
}

// NumericValue represents values that can participate in arithmetic
// (numbers, and strings/booleans via ToNumber coercion).
type NumericValue interface {
	Value
	ToNumber() float64
}

// ComparableValue supports the strict-equality relation (===).
type ComparableValue interface {
	Value
	StrictEquals(other Value) bool
}

// IndexableValue represents values that can be indexed with [] (arrays,
// strings, plain objects).
type IndexableValue interface {
	Value
	GetIndex(index Value) (Value, bool)
	SetIndex(index Value, value Value) error
}

// CallableValue represents values invocable with call/apply semantics.
type CallableValue interface {
	Value
	Call(this Value, args []Value) (Value, error)
}

// IterableValue represents values iterable with for-of (arrays, strings,
// Map, Set, generators).
type IterableValue interface {
	Value
	Iterator() Iterator
}

// Iterator is the runtime counterpart of the JS iterator protocol.
type Iterator interface {
	Next() (value Value, done bool)
}

// Constructor is implemented by any `new`-able value that isn't a
// user-declared class (Promise, Map, Set, WeakMap, WeakSet), letting
// the evaluator's `new` dispatch handle builtins and classes uniformly
// without the runtime package needing to know about the class-instance
// model at all.
type Constructor interface {
	Value
	Construct(args []Value) (Value, error)
}
