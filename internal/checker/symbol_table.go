package checker

import "github.com/tsxlang/tsx/internal/types"

// Symbol is a resolved binding's compile-time record.
type Symbol struct {
	Name     string
	Type     *types.Type
	Const    bool
	ReadOnly bool
}

// SymbolTable is a lexically scoped symbol table. Unlike the teacher's
// case-insensitive identifier table, tsx identifiers are case-sensitive
// (spec.md §3, and see DESIGN.md's Open Question decision), so lookups key
// directly on the source name.
type SymbolTable struct {
	symbols map[string]*Symbol
	outer   *SymbolTable
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: make(map[string]*Symbol)}
}

func (st *SymbolTable) Enclosed() *SymbolTable {
	return &SymbolTable{symbols: make(map[string]*Symbol), outer: st}
}

// Define declares name in the current scope, shadowing any outer binding.
func (st *SymbolTable) Define(name string, t *types.Type, isConst, readOnly bool) {
	st.symbols[name] = &Symbol{Name: name, Type: t, Const: isConst, ReadOnly: readOnly}
}

// Resolve looks up name in this scope or any enclosing scope.
func (st *SymbolTable) Resolve(name string) (*Symbol, bool) {
	for s := st; s != nil; s = s.outer {
		if sym, ok := s.symbols[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// ResolveLocal looks up name only in this exact scope (used to detect
// illegal re-declaration within a single block).
func (st *SymbolTable) ResolveLocal(name string) (*Symbol, bool) {
	sym, ok := st.symbols[name]
	return sym, ok
}
