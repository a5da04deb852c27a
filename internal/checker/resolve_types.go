package checker

import (
	"strconv"

	"github.com/tsxlang/tsx/internal/types"
	"github.com/tsxlang/tsx/pkg/ast"
)

// resolveType turns a parsed ast.TypeNode into a types.Type, substituting
// any name bound in tparams (the enclosing generic declaration's type
// parameters) before falling back to primitives, aliases, classes, and
// interfaces registered on the Analyzer.
func (a *Analyzer) resolveType(node ast.TypeNode, tparams map[string]*types.Type) *types.Type {
	if node == nil {
		return types.Any
	}
	switch n := node.(type) {
	case *ast.NamedType:
		return a.resolveNamedType(n, tparams)
	case *ast.ArrayType:
		return types.ArrayOf(a.resolveType(n.Element, tparams))
	case *ast.TupleType:
		var elems []*types.Type
		for _, e := range n.Elements {
			elems = append(elems, a.resolveType(e, tparams))
		}
		return types.TupleOf(elems...)
	case *ast.UnionType:
		var opts []*types.Type
		for _, o := range n.Options {
			opts = append(opts, a.resolveType(o, tparams))
		}
		return types.Union(opts...)
	case *ast.IntersectionType:
		var opts []*types.Type
		for _, o := range n.Options {
			opts = append(opts, a.resolveType(o, tparams))
		}
		return types.Intersection(opts...)
	case *ast.ObjectType:
		obj := &types.Type{Tag: types.TObject}
		for _, p := range n.Properties {
			if p.IsIndex {
				obj.IndexSigs = append(obj.IndexSigs, types.IndexSignature{KeyKind: p.IndexKeyKind, Value: a.resolveType(p.Type, tparams)})
				continue
			}
			obj.Properties = append(obj.Properties, types.Property{
				Name: p.Name, Type: a.resolveType(p.Type, tparams), Optional: p.Optional, Readonly: p.Readonly,
			})
		}
		return obj
	case *ast.FunctionType:
		return &types.Type{Tag: types.TFunction, Params: a.resolveParams(n.Params, tparams), Return: a.resolveType(n.Return, tparams)}
	case *ast.KeyofType:
		return types.ResolveKeyof(a.resolveType(n.Operand, tparams))
	case *ast.IndexedAccessType:
		return types.ResolveIndexedAccess(a.resolveType(n.Object, tparams), a.resolveType(n.Index, tparams))
	case *ast.LiteralType:
		return resolveLiteralType(n.Raw)
	case *ast.ParenType:
		return a.resolveType(n.Inner, tparams)
	}
	return types.Any
}

func resolveLiteralType(raw string) *types.Type {
	if raw == "true" {
		return types.Literal(true)
	}
	if raw == "false" {
		return types.Literal(false)
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return types.Literal(f)
	}
	return types.Literal(raw)
}

func (a *Analyzer) resolveParams(params []ast.Param, tparams map[string]*types.Type) []types.Param {
	var out []types.Param
	for _, p := range params {
		name := ""
		if ip, ok := p.Pattern.(*ast.IdentifierPattern); ok {
			name = ip.Name
		}
		out = append(out, types.Param{Name: name, Type: a.resolveType(p.Type, tparams), Optional: p.Optional, Rest: p.Rest})
	}
	return out
}

func (a *Analyzer) resolveNamedType(n *ast.NamedType, tparams map[string]*types.Type) *types.Type {
	if t, ok := tparams[n.Name]; ok {
		return t
	}
	switch n.Name {
	case "number":
		return types.Number
	case "string":
		return types.String
	case "boolean":
		return types.Boolean
	case "void":
		return types.Void
	case "any":
		return types.Any
	case "never":
		return types.Never
	case "null":
		return types.Null
	case "undefined":
		return types.Undefined
	case "symbol":
		return types.Symbol
	case "object":
		return &types.Type{Tag: types.TObject}
	}
	if alias, ok := a.aliases[n.Name]; ok {
		sub := map[string]*types.Type{}
		for k, v := range tparams {
			sub[k] = v
		}
		for i, tp := range alias.typeParams {
			if i < len(n.TypeArgs) {
				sub[tp.Name] = a.resolveType(n.TypeArgs[i], tparams)
			} else if tp.Default != nil {
				sub[tp.Name] = a.resolveType(tp.Default, tparams)
			}
		}
		return a.resolveType(alias.node, sub)
	}
	if t, ok := a.classes[n.Name]; ok {
		return t
	}
	if t, ok := a.interfaces[n.Name]; ok {
		return t
	}
	if _, ok := tparams[n.Name]; !ok {
		// An unresolved bare name is treated as an implicit type parameter
		// (e.g. a generic declaration's own parameter name used recursively)
		// rather than an error, matching permissive forward-reference of
		// class/interface declarations hoisted later in the same file.
		return &types.Type{Tag: types.TTypeParam, Name: n.Name}
	}
	return types.Any
}
