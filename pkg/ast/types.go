package ast

// TypeNode is a parsed type annotation (spec.md §3 "Types"). These are
// syntax, not resolved types — the checker (internal/checker) resolves a
// TypeNode plus a scope into a types.Type.
type TypeNode interface {
	Node
	typeNode()
}

func (*NamedType) typeNode()       {}
func (*ArrayType) typeNode()       {}
func (*TupleType) typeNode()       {}
func (*UnionType) typeNode()       {}
func (*IntersectionType) typeNode() {}
func (*ObjectType) typeNode()      {}
func (*FunctionType) typeNode()    {}
func (*KeyofType) typeNode()       {}
func (*IndexedAccessType) typeNode() {}
func (*LiteralType) typeNode()     {}
func (*ParenType) typeNode()       {}

// NamedType is a reference to a primitive, class, interface, type alias,
// or type-parameter name, with optional generic instantiation arguments.
type NamedType struct {
	Base
	Name     string
	TypeArgs []TypeNode
}

// ArrayType is `T[]`.
type ArrayType struct {
	Base
	Element TypeNode
}

// TupleType is `[T1, T2, ...]`.
type TupleType struct {
	Base
	Elements []TypeNode
}

// UnionType is `A | B | ...`.
type UnionType struct {
	Base
	Options []TypeNode
}

// IntersectionType is `A & B & ...`.
type IntersectionType struct {
	Base
	Options []TypeNode
}

// ObjectTypeProperty is one member of an object type literal or index
// signature.
type ObjectTypeProperty struct {
	Name     string
	Optional bool
	Readonly bool
	Type     TypeNode
	// Index signature: Name == "", IsIndex true and IndexKeyKind set.
	IndexKeyKind string // "string" | "number" | "symbol"
	IsIndex      bool
}

// ObjectType is `{ a: number; b?: string }`.
type ObjectType struct {
	Base
	Properties []ObjectTypeProperty
}

// FunctionType is `(a: T, b?: U) => R`.
type FunctionType struct {
	Base
	Params     []Param
	Return     TypeNode
	TypeParams []TypeParam
}

// KeyofType is `keyof T`.
type KeyofType struct {
	Base
	Operand TypeNode
}

// IndexedAccessType is `T[K]`.
type IndexedAccessType struct {
	Base
	Object TypeNode
	Index  TypeNode
}

// LiteralType is a literal-singleton type, e.g. `"a"` or `42`.
type LiteralType struct {
	Base
	Raw string
}

// ParenType is a parenthesized type, preserved for precedence in unions
// of functions, e.g. `(() => void) | null`.
type ParenType struct {
	Base
	Inner TypeNode
}

// TypeParam is one generic type-parameter declaration, e.g. `T extends U`.
type TypeParam struct {
	Name       string
	Constraint TypeNode // nil if unconstrained
	Default    TypeNode // nil if no default
}
