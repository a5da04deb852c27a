package checker

import (
	"github.com/tsxlang/tsx/internal/types"
	"github.com/tsxlang/tsx/pkg/ast"
)

type aliasEntry struct {
	typeParams []ast.TypeParam
	node       ast.TypeNode
}

// Analyzer walks a parsed Program accumulating type-checking diagnostics.
type Analyzer struct {
	scope   *SymbolTable
	classes map[string]*types.Type
	// interfaces holds both interface declarations and aliases that resolve
	// to an object shape, used during property/method resolution.
	interfaces map[string]*types.Type
	aliases    map[string]*aliasEntry

	currentReturn *types.Type
	currentClass  *types.Type
	loopDepth     int
	inFunction    bool

	errors []*Error
}

// New creates an Analyzer with empty global scope and registries.
func New() *Analyzer {
	return &Analyzer{
		scope:      NewSymbolTable(),
		classes:    map[string]*types.Type{},
		interfaces: map[string]*types.Type{},
		aliases:    map[string]*aliasEntry{},
	}
}

func (a *Analyzer) addError(msg string, pos ast.Node) {
	a.errors = append(a.errors, &Error{Message: msg, Pos: pos.Pos()})
}

// Check type-checks prog and returns all diagnostics found. A non-empty
// result is always fatal: pkg/engine calls Check unconditionally and aborts
// before running any statement when it reports anything (spec.md §7 — type
// errors are never raised at run time).
func Check(prog *ast.Program) []*Error {
	a := New()
	a.hoistDeclarations(prog.Statements)
	for _, stmt := range prog.Statements {
		a.checkStatement(stmt)
	}
	return a.errors
}

func (a *Analyzer) Errors() []*Error { return a.errors }

// hoistDeclarations performs a first pass registering every type alias,
// interface, class, and function declared in a statement list before any
// statement is type-checked, so forward references and mutual recursion
// between declarations resolve (spec.md §4.8 hoisting semantics).
func (a *Analyzer) hoistDeclarations(stmts []ast.Statement) {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.TypeAliasDecl:
			a.aliases[s.Name] = &aliasEntry{typeParams: s.TypeParams, node: s.Type}
		}
	}
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.InterfaceDecl:
			a.interfaces[s.Name] = a.buildInterfaceType(s)
		}
	}
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.ClassDecl:
			a.classes[s.Name] = a.buildClassShell(s)
		}
	}
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.ClassDecl:
			a.populateClassMembers(s, a.classes[s.Name])
		case *ast.FunctionDecl:
			a.scope.Define(s.Function.Name, a.functionType(s.Function, nil), true, true)
		}
	}
}

func (a *Analyzer) buildInterfaceType(decl *ast.InterfaceDecl) *types.Type {
	t := &types.Type{Tag: types.TInterface, Name: decl.Name}
	tparams := map[string]*types.Type{}
	for _, tp := range decl.TypeParams {
		tparams[tp.Name] = &types.Type{Tag: types.TTypeParam, Name: tp.Name}
	}
	for _, m := range decl.Members {
		if m.IndexKey != nil {
			keyKind := "string"
			if nt, ok := m.IndexKey.(*ast.NamedType); ok && nt.Name == "number" {
				keyKind = "number"
			}
			t.IndexSigs = append(t.IndexSigs, types.IndexSignature{KeyKind: keyKind, Value: a.resolveType(m.IndexVal, tparams)})
			continue
		}
		if m.Params != nil {
			fn := &types.Type{Tag: types.TFunction, Params: a.resolveParams(m.Params, tparams), Return: a.resolveType(m.Return, tparams)}
			t.Properties = append(t.Properties, types.Property{Name: m.Name, Type: fn, Optional: m.Optional})
			continue
		}
		t.Properties = append(t.Properties, types.Property{Name: m.Name, Type: a.resolveType(m.Type, tparams), Optional: m.Optional})
	}
	for _, base := range decl.Extends {
		if bt := a.resolveType(base, tparams); bt != nil {
			t.Properties = append(t.Properties, bt.Properties...)
		}
	}
	return t
}

// buildClassShell registers the class name with an empty member set so
// self-referential and mutually-recursive class members resolve during
// populateClassMembers.
func (a *Analyzer) buildClassShell(decl *ast.ClassDecl) *types.Type {
	return &types.Type{Tag: types.TClass, Name: decl.Name, Abstract: decl.Abstract}
}

func (a *Analyzer) populateClassMembers(decl *ast.ClassDecl, t *types.Type) {
	tparams := map[string]*types.Type{}
	for _, tp := range decl.TypeParams {
		tparams[tp.Name] = &types.Type{Tag: types.TTypeParam, Name: tp.Name}
	}
	if decl.SuperClass != nil {
		if ident, ok := decl.SuperClass.(*ast.Identifier); ok {
			if base, ok := a.classes[ident.Name]; ok {
				t.Base = base
			}
		}
	}
	for _, ifaceNode := range decl.Interfaces {
		t.Interfaces = append(t.Interfaces, a.resolveType(ifaceNode, tparams))
	}
	for _, m := range decl.Members {
		switch m.Kind {
		case ast.MemberField:
			t.Properties = append(t.Properties, types.Property{Name: m.Name, Type: a.resolveType(m.Type, tparams), Readonly: m.Readonly})
		case ast.MemberMethod, ast.MemberConstructor:
			fn := &types.Type{Tag: types.TFunction, Params: a.resolveParams(m.Params, tparams), Return: a.resolveType(m.Type, tparams)}
			if m.Kind == ast.MemberConstructor {
				fn.Return = t
			}
			t.Properties = append(t.Properties, types.Property{Name: m.Name, Type: fn})
			if m.Abstract {
				if t.AbstractMembers == nil {
					t.AbstractMembers = map[string]bool{}
				}
				t.AbstractMembers[m.Name] = true
			}
		case ast.MemberGetter:
			t.Properties = append(t.Properties, types.Property{Name: m.Name, Type: a.resolveType(m.Type, tparams)})
		case ast.MemberSetter:
			// A setter alone doesn't add a new readable property; if a
			// getter for the same name already registered, leave it be.
		}
	}
}

func (a *Analyzer) functionType(fn *ast.FunctionExpr, tparams map[string]*types.Type) *types.Type {
	ret := a.resolveType(fn.ReturnType, tparams)
	if fn.Generator {
		ret = &types.Type{Tag: types.TClass, Name: "Generator"}
	} else if fn.Async {
		ret = &types.Type{Tag: types.TClass, Name: "Promise", Base: ret}
	}
	return &types.Type{Tag: types.TFunction, Params: a.resolveParams(fn.Params, tparams), Return: ret}
}
