// Package types implements the tsx structural type system: primitive,
// literal, array, tuple, union, intersection, object, function, class,
// interface, type-parameter, keyof, and indexed-access types, plus the
// assignability relation (spec.md §4.3).
//
// Grounded on the teacher's internal/types package (primitive/class/
// interface/function type shapes) generalized with the union/intersection/
// keyof machinery modeled after sunholo-data-ailang's row-unification
// typechecker, the nearest pack analogue to structural record typing.
package types

import "fmt"

// Tag identifies the broad kind of a Type.
type Tag int

const (
	TAny Tag = iota
	TNever
	TVoid
	TNumber
	TString
	TBoolean
	TSymbol
	TNull
	TUndefined
	TLiteral
	TArray
	TTuple
	TUnion
	TIntersection
	TObject
	TFunction
	TClass
	TInterface
	TTypeParam
	TKeyof
	TIndexedAccess
)

// Type is the resolved type of an expression or declaration.
type Type struct {
	Tag Tag

	// TLiteral
	LiteralValue any // string, float64, or bool

	// TArray
	Elem *Type

	// TTuple
	Elements []*Type

	// TUnion / TIntersection
	Options []*Type

	// TObject / TInterface / TClass
	Name       string
	Properties []Property
	IndexSigs  []IndexSignature

	// TClass
	Base       *Type   // nil for a root class
	Interfaces []*Type // implemented interfaces
	Abstract   bool
	AbstractMembers map[string]bool

	// TFunction
	Params     []Param
	Return     *Type
	TypeParams []TypeParamDecl
	Overloads  []*Type // additional signatures; the receiver is the first

	// TTypeParam
	Constraint *Type

	// TKeyof / TIndexedAccess
	Operand *Type // TKeyof operand, or TIndexedAccess object type
	Index   *Type // TIndexedAccess index type
}

// Property is one named member of an object/interface/class type.
type Property struct {
	Name     string
	Type     *Type
	Optional bool
	Readonly bool
}

// IndexSignature is `[key: string]: T` (or number/symbol keyed).
type IndexSignature struct {
	KeyKind string // "string" | "number" | "symbol"
	Value   *Type
}

// Param is one resolved function parameter.
type Param struct {
	Name     string
	Type     *Type
	Optional bool
	Rest     bool
}

// TypeParamDecl is a resolved generic type-parameter declaration.
type TypeParamDecl struct {
	Name       string
	Constraint *Type
	Default    *Type
}

var (
	Any       = &Type{Tag: TAny}
	Never     = &Type{Tag: TNever}
	Void      = &Type{Tag: TVoid}
	Number    = &Type{Tag: TNumber}
	String    = &Type{Tag: TString}
	Boolean   = &Type{Tag: TBoolean}
	Symbol    = &Type{Tag: TSymbol}
	Null      = &Type{Tag: TNull}
	Undefined = &Type{Tag: TUndefined}
)

func Literal(v any) *Type { return &Type{Tag: TLiteral, LiteralValue: v} }
func ArrayOf(elem *Type) *Type { return &Type{Tag: TArray, Elem: elem} }
func TupleOf(elems ...*Type) *Type { return &Type{Tag: TTuple, Elements: elems} }

// Union builds a union type, flattening nested unions and collapsing to a
// single member / Never for zero members.
func Union(opts ...*Type) *Type {
	var flat []*Type
	for _, o := range opts {
		if o == nil {
			continue
		}
		if o.Tag == TUnion {
			flat = append(flat, o.Options...)
		} else {
			flat = append(flat, o)
		}
	}
	flat = dedupTypes(flat)
	if len(flat) == 0 {
		return Never
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return &Type{Tag: TUnion, Options: flat}
}

func Intersection(opts ...*Type) *Type {
	if len(opts) == 1 {
		return opts[0]
	}
	return &Type{Tag: TIntersection, Options: opts}
}

func dedupTypes(ts []*Type) []*Type {
	var out []*Type
	for _, t := range ts {
		dup := false
		for _, o := range out {
			if Identical(t, o) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, t)
		}
	}
	return out
}

// String renders a human-readable type name, used in diagnostics.
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Tag {
	case TAny:
		return "any"
	case TNever:
		return "never"
	case TVoid:
		return "void"
	case TNumber:
		return "number"
	case TString:
		return "string"
	case TBoolean:
		return "boolean"
	case TSymbol:
		return "symbol"
	case TNull:
		return "null"
	case TUndefined:
		return "undefined"
	case TLiteral:
		return fmt.Sprintf("%v", t.LiteralValue)
	case TArray:
		return t.Elem.String() + "[]"
	case TTuple:
		s := "["
		for i, e := range t.Elements {
			if i > 0 {
				s += ", "
			}
			s += e.String()
		}
		return s + "]"
	case TUnion:
		s := ""
		for i, o := range t.Options {
			if i > 0 {
				s += " | "
			}
			s += o.String()
		}
		return s
	case TIntersection:
		s := ""
		for i, o := range t.Options {
			if i > 0 {
				s += " & "
			}
			s += o.String()
		}
		return s
	case TObject:
		return "object"
	case TFunction:
		return "function"
	case TClass:
		return t.Name
	case TInterface:
		return t.Name
	case TTypeParam:
		return t.Name
	case TKeyof:
		return "keyof " + t.Operand.String()
	case TIndexedAccess:
		return t.Operand.String() + "[" + t.Index.String() + "]"
	}
	return "?"
}
