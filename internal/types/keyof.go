package types

// ResolveKeyof computes `keyof T`: the union of string-literal types of
// T's known property names plus the domain types of its index signatures
// (spec.md §4.3).
func ResolveKeyof(t *Type) *Type {
	var lits []*Type
	collectProperties(t, map[string]bool{}, &lits)
	for _, idx := range allIndexSigs(t) {
		switch idx.KeyKind {
		case "string":
			lits = append(lits, String)
		case "number":
			lits = append(lits, Number)
		case "symbol":
			lits = append(lits, Symbol)
		}
	}
	return Union(lits...)
}

func collectProperties(t *Type, seen map[string]bool, out *[]*Type) {
	if t == nil {
		return
	}
	for _, p := range t.Properties {
		if !seen[p.Name] {
			seen[p.Name] = true
			*out = append(*out, Literal(p.Name))
		}
	}
	if t.Tag == TClass && t.Base != nil {
		collectProperties(t.Base, seen, out)
	}
}

func allIndexSigs(t *Type) []IndexSignature {
	if t == nil {
		return nil
	}
	sigs := append([]IndexSignature{}, t.IndexSigs...)
	if t.Tag == TClass && t.Base != nil {
		sigs = append(sigs, allIndexSigs(t.Base)...)
	}
	return sigs
}

// ResolveIndexedAccess computes `T[K]`: the property type when K is a
// literal, else the union across the matched index signature (spec.md
// §4.3).
func ResolveIndexedAccess(object, index *Type) *Type {
	if index.Tag == TLiteral {
		if name, ok := index.LiteralValue.(string); ok {
			if p, found := lookupProperty(object, name); found {
				return p.Type
			}
		}
	}
	if index.Tag == TUnion {
		var opts []*Type
		for _, o := range index.Options {
			opts = append(opts, ResolveIndexedAccess(object, o))
		}
		return Union(opts...)
	}
	keyKind := "string"
	if index.Tag == TNumber {
		keyKind = "number"
	} else if index.Tag == TSymbol {
		keyKind = "symbol"
	}
	for _, sig := range allIndexSigs(object) {
		if sig.KeyKind == keyKind {
			return sig.Value
		}
	}
	return Any
}
