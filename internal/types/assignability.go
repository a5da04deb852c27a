package types

// pairKey identifies a (lhs, rhs) type pair for the memoized recursion
// guard used by both AssignableTo and Identical (spec.md §9: "use deep
// structural comparison with memoization on a (lhs, rhs) pair set to
// handle recursive object types without infinite recursion").
type pairKey struct{ a, b *Type }

// AssignableTo reports whether a value of type a may be stored where b is
// expected (spec.md §4.3). This is the `⊑` relation from the GLOSSARY.
func AssignableTo(a, b *Type) bool {
	return assignable(a, b, map[pairKey]bool{})
}

func assignable(a, b *Type, seen map[pairKey]bool) bool {
	if a == nil || b == nil {
		return false
	}
	key := pairKey{a, b}
	if v, ok := seen[key]; ok {
		return v
	}
	seen[key] = true // assume true while recursing; corrected below if false

	ok := assignableUncached(a, b, seen)
	seen[key] = ok
	return ok
}

func assignableUncached(a, b *Type, seen map[pairKey]bool) bool {
	// any is assignable to and from everything.
	if a.Tag == TAny || b.Tag == TAny {
		return true
	}
	// never is assignable to everything but receives nothing (spec.md §4.3).
	if a.Tag == TNever {
		return true
	}
	if b.Tag == TNever {
		return false
	}

	// Union source: assignable to b iff every arm is.
	if a.Tag == TUnion {
		for _, opt := range a.Options {
			if !assignable(opt, b, seen) {
				return false
			}
		}
		return true
	}
	// Union target: assignable from a iff some arm accepts a.
	if b.Tag == TUnion {
		for _, opt := range b.Options {
			if assignable(a, opt, seen) {
				return true
			}
		}
		return false
	}

	if a.Tag == TIntersection {
		for _, opt := range a.Options {
			if assignable(opt, b, seen) {
				return true
			}
		}
		return false
	}
	if b.Tag == TIntersection {
		for _, opt := range b.Options {
			if !assignable(a, opt, seen) {
				return false
			}
		}
		return true
	}

	// null/undefined are only assignable to null/undefined/any/unions
	// containing them (spec.md §4.3: "not assignable to non-nullable
	// primitives").
	if a.Tag == TNull || a.Tag == TUndefined {
		return a.Tag == b.Tag
	}

	// Literal singleton assignable to its widened primitive, or an
	// identical literal.
	if a.Tag == TLiteral {
		if b.Tag == TLiteral {
			return a.LiteralValue == b.LiteralValue
		}
		return assignable(widen(a), b, seen)
	}

	if a.Tag != b.Tag {
		switch {
		case a.Tag == TArray && b.Tag == TArray:
		case a.Tag == TTuple && b.Tag == TTuple:
		default:
			return false
		}
	}

	switch a.Tag {
	case TNumber, TString, TBoolean, TSymbol, TVoid:
		return true

	case TArray:
		if b.Tag != TArray {
			return false
		}
		return assignable(a.Elem, b.Elem, seen)

	case TTuple:
		if b.Tag != TTuple || len(a.Elements) != len(b.Elements) {
			return false
		}
		for i := range a.Elements {
			if !assignable(a.Elements[i], b.Elements[i], seen) {
				return false
			}
		}
		return true

	case TObject, TInterface:
		return objectAssignable(a, b, seen)

	case TClass:
		// Class C assignable to D iff C == D or D is a transitive base of
		// C (spec.md §4.3: "Base-to-derived is rejected").
		if b.Tag != TClass {
			// A class value may also satisfy a structural interface/object
			// target if its members are assignable.
			if b.Tag == TInterface || b.Tag == TObject {
				return objectAssignable(a, b, seen)
			}
			return false
		}
		cur := a
		for cur != nil {
			if cur.Name == b.Name {
				return true
			}
			cur = cur.Base
		}
		return false

	case TFunction:
		return functionAssignable(a, b, seen)

	case TTypeParam:
		if b.Tag == TTypeParam {
			return a.Name == b.Name
		}
		if a.Constraint != nil {
			return assignable(a.Constraint, b, seen)
		}
		return false

	case TKeyof, TIndexedAccess:
		return Identical(a, b)
	}
	return false
}

func widen(t *Type) *Type {
	if t.Tag != TLiteral {
		return t
	}
	switch t.LiteralValue.(type) {
	case string:
		return String
	case float64:
		return Number
	case bool:
		return Boolean
	}
	return Any
}

// objectAssignable implements spec.md §4.3's object assignability: every
// required property of b must exist on a with an assignable type; optional
// properties of b need not exist on a.
func objectAssignable(a, b *Type, seen map[pairKey]bool) bool {
	for _, pb := range b.Properties {
		pa, ok := lookupProperty(a, pb.Name)
		if !ok {
			if pb.Optional {
				continue
			}
			return false
		}
		if !assignable(pa.Type, pb.Type, seen) {
			return false
		}
	}
	for _, ib := range b.IndexSigs {
		if !indexSatisfiable(a, ib, seen) {
			return false
		}
	}
	return true
}

// LookupProperty finds a named property on an object/interface/class type,
// walking the class base chain. Used by the checker for member and
// destructuring-pattern type resolution.
func LookupProperty(t *Type, name string) (Property, bool) {
	return lookupProperty(t, name)
}

func lookupProperty(t *Type, name string) (Property, bool) {
	for _, p := range t.Properties {
		if p.Name == name {
			return p, true
		}
	}
	if t.Tag == TClass && t.Base != nil {
		return lookupProperty(t.Base, name)
	}
	return Property{}, false
}

func indexSatisfiable(a *Type, ib IndexSignature, seen map[pairKey]bool) bool {
	for _, ia := range a.IndexSigs {
		if ia.KeyKind == ib.KeyKind && assignable(ia.Value, ib.Value, seen) {
			return true
		}
	}
	// Every declared property whose key kind matches must also be
	// assignable to the index signature's value type.
	for _, p := range a.Properties {
		if ib.KeyKind == "string" {
			if !assignable(p.Type, ib.Value, seen) {
				return false
			}
		}
	}
	return true
}

// functionAssignable implements spec.md §4.3: (p1..pn)=>R assignable to
// (q1..qm)=>S iff m >= n (fewer-expected callable as more-expected), each
// corresponding parameter is contravariantly assignable, and R assignable
// to S.
func functionAssignable(a, b *Type, seen map[pairKey]bool) bool {
	if b.Tag != TFunction {
		return false
	}
	if len(b.Params) < len(a.Params) {
		return false
	}
	for i, pa := range a.Params {
		pb := b.Params[i]
		// contravariant: b's declared param type must be assignable to a's
		if !assignable(pb.Type, pa.Type, seen) {
			return false
		}
	}
	return assignable(a.Return, b.Return, seen)
}

// Identical reports deep structural equality, used for literal-type
// equality, dedup, and overload/class identity checks.
func Identical(a, b *Type) bool {
	return identical(a, b, map[pairKey]bool{})
}

func identical(a, b *Type, seen map[pairKey]bool) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.Tag != b.Tag {
		return false
	}
	key := pairKey{a, b}
	if v, ok := seen[key]; ok {
		return v
	}
	seen[key] = true

	result := identicalUncached(a, b, seen)
	seen[key] = result
	return result
}

func identicalUncached(a, b *Type, seen map[pairKey]bool) bool {
	switch a.Tag {
	case TAny, TNever, TVoid, TNumber, TString, TBoolean, TSymbol, TNull, TUndefined:
		return true
	case TLiteral:
		return a.LiteralValue == b.LiteralValue
	case TArray:
		return identical(a.Elem, b.Elem, seen)
	case TTuple:
		if len(a.Elements) != len(b.Elements) {
			return false
		}
		for i := range a.Elements {
			if !identical(a.Elements[i], b.Elements[i], seen) {
				return false
			}
		}
		return true
	case TUnion, TIntersection:
		if len(a.Options) != len(b.Options) {
			return false
		}
		used := make([]bool, len(b.Options))
		for _, oa := range a.Options {
			found := false
			for j, ob := range b.Options {
				if !used[j] && identical(oa, ob, seen) {
					used[j] = true
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	case TClass, TInterface:
		return a.Name == b.Name
	case TObject:
		if len(a.Properties) != len(b.Properties) {
			return false
		}
		for _, pa := range a.Properties {
			pb, ok := lookupProperty(b, pa.Name)
			if !ok || pa.Optional != pb.Optional || !identical(pa.Type, pb.Type, seen) {
				return false
			}
		}
		return true
	case TFunction:
		if len(a.Params) != len(b.Params) {
			return false
		}
		for i := range a.Params {
			if !identical(a.Params[i].Type, b.Params[i].Type, seen) {
				return false
			}
		}
		return identical(a.Return, b.Return, seen)
	case TTypeParam:
		return a.Name == b.Name
	case TKeyof:
		return identical(a.Operand, b.Operand, seen)
	case TIndexedAccess:
		return identical(a.Operand, b.Operand, seen) && identical(a.Index, b.Index, seen)
	}
	return false
}
