package types

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// typeCmpOpts bounds cmp.Diff/cmp.Equal to the acyclic Type values built by
// these tests. *Type can be self-referential (TestIdentical_RecursiveObjectDoesNotInfinitelyRecurse
// constructs one), and go-cmp has no built-in cycle detection, so every
// comparison goes through a seen-pair set that treats a revisited pointer
// pair as equal rather than descending into it again.
func typeCmpOpts() cmp.Option {
	seen := map[[2]*Type]bool{}
	var cmpType func(a, b *Type) bool
	cmpType = func(a, b *Type) bool {
		if a == b {
			return true
		}
		if a == nil || b == nil {
			return false
		}
		pair := [2]*Type{a, b}
		if seen[pair] {
			return true
		}
		seen[pair] = true
		return cmp.Equal(*a, *b, cmp.Comparer(cmpType))
	}
	return cmp.Comparer(cmpType)
}

func TestAssignableTo_Primitives(t *testing.T) {
	tests := []struct {
		name string
		a, b *Type
		want bool
	}{
		{"number to number", Number, Number, true},
		{"number to string", Number, String, false},
		{"any from number", Number, Any, true},
		{"any to number", Any, Number, true},
		{"never to number", Never, Number, true},
		{"number to never", Number, Never, false},
		{"null to number", Null, Number, false},
		{"null to nullable union", Null, Union(Number, Null), true},
		{"undefined to null union", Undefined, Union(Null, Undefined), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AssignableTo(tt.a, tt.b); got != tt.want {
				t.Errorf("AssignableTo(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestAssignableTo_UnionRules(t *testing.T) {
	numOrStr := Union(Number, String)
	if !AssignableTo(Number, numOrStr) {
		t.Error("Number should be assignable to number|string")
	}
	if AssignableTo(Boolean, numOrStr) {
		t.Error("Boolean should not be assignable to number|string")
	}
	if !AssignableTo(numOrStr, Union(Number, String, Boolean)) {
		t.Error("number|string should be assignable to number|string|boolean")
	}
	if AssignableTo(numOrStr, Number) {
		t.Error("number|string should not be assignable to number alone")
	}
}

func TestAssignableTo_Tuple(t *testing.T) {
	a := TupleOf(Number, String)
	b := TupleOf(Number, String)
	if !AssignableTo(a, b) {
		t.Error("identical tuples should be assignable")
	}
	c := TupleOf(String, Number)
	if AssignableTo(a, c) {
		t.Error("reordered tuple should not be assignable (positional only)")
	}
	if AssignableTo(TupleOf(Number), b) {
		t.Error("different-arity tuples should not be assignable")
	}
}

func TestAssignableTo_Object_ExcessPropertiesAllowedStructurally(t *testing.T) {
	a := &Type{Tag: TObject, Properties: []Property{
		{Name: "x", Type: Number},
		{Name: "y", Type: Number},
	}}
	b := &Type{Tag: TObject, Properties: []Property{
		{Name: "x", Type: Number},
	}}
	if !AssignableTo(a, b) {
		t.Error("object with extra property should be structurally assignable to a narrower shape")
	}
	bOptional := &Type{Tag: TObject, Properties: []Property{
		{Name: "x", Type: Number},
		{Name: "z", Type: String, Optional: true},
	}}
	if !AssignableTo(a, bOptional) {
		t.Error("missing optional property should not block assignability")
	}
}

func TestAssignableTo_Class_BaseToDerivedRejected(t *testing.T) {
	base := &Type{Tag: TClass, Name: "Animal"}
	derived := &Type{Tag: TClass, Name: "Dog", Base: base}

	if !AssignableTo(derived, base) {
		t.Error("Dog should be assignable to Animal")
	}
	if AssignableTo(base, derived) {
		t.Error("Animal should NOT be assignable to Dog (base-to-derived rejected)")
	}
}

func TestAssignableTo_Function_Contravariance(t *testing.T) {
	// (x: number) => void  assignable to  (x: number, y: string) => void
	// because the target expects more args than the source requires.
	a := &Type{Tag: TFunction, Params: []Param{{Name: "x", Type: Number}}, Return: Void}
	b := &Type{Tag: TFunction, Params: []Param{{Name: "x", Type: Number}, {Name: "y", Type: String}}, Return: Void}
	if !AssignableTo(a, b) {
		t.Error("fewer-param function should be assignable to more-param function type")
	}
	if AssignableTo(b, a) {
		t.Error("more-param function should not be assignable to fewer-param function type")
	}
}

func TestResolveKeyof(t *testing.T) {
	obj := &Type{Tag: TObject, Properties: []Property{{Name: "a", Type: Number}, {Name: "b", Type: String}}}
	k := ResolveKeyof(obj)
	if k.Tag != TUnion || len(k.Options) != 2 {
		t.Fatalf("keyof should be a 2-member union, got %s", k)
	}
}

func TestResolveIndexedAccess_Literal(t *testing.T) {
	obj := &Type{Tag: TObject, Properties: []Property{{Name: "a", Type: Number}}}
	got := ResolveIndexedAccess(obj, Literal("a"))
	if got != Number {
		t.Fatalf("T['a'] = %s, want number", got)
	}
}

func TestResolveKeyof_StructuralShape(t *testing.T) {
	obj := &Type{Tag: TObject, Properties: []Property{
		{Name: "a", Type: Number},
		{Name: "b", Type: String},
	}}
	got := ResolveKeyof(obj)
	want := &Type{Tag: TUnion, Options: []*Type{Literal("a"), Literal("b")}}
	if diff := cmp.Diff(want, got, typeCmpOpts()); diff != "" {
		t.Errorf("ResolveKeyof(obj) mismatch (-want +got):\n%s", diff)
	}
}

func TestTupleOf_StructuralShape(t *testing.T) {
	got := TupleOf(Number, String, Boolean)
	want := &Type{Tag: TTuple, Elements: []*Type{Number, String, Boolean}}
	if diff := cmp.Diff(want, got, typeCmpOpts()); diff != "" {
		t.Errorf("TupleOf(Number, String, Boolean) mismatch (-want +got):\n%s", diff)
	}
}

func TestUnion_FlattensAndDedupesStructurally(t *testing.T) {
	got := Union(Union(Number, String), Number, Boolean)
	want := &Type{Tag: TUnion, Options: []*Type{Number, String, Boolean}}
	if diff := cmp.Diff(want, got, typeCmpOpts()); diff != "" {
		t.Errorf("Union(Union(Number, String), Number, Boolean) mismatch (-want +got):\n%s", diff)
	}
}

func TestIdentical_RecursiveObjectDoesNotInfinitelyRecurse(t *testing.T) {
	node := &Type{Tag: TObject, Name: "Node"}
	node.Properties = []Property{{Name: "next", Type: node}}
	if !Identical(node, node) {
		t.Error("recursive self-type should compare identical without infinite recursion")
	}
}
