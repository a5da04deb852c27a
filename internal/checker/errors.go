// Package checker performs static type analysis over a parsed tsx program:
// scope-aware symbol resolution, type-annotation resolution, expression
// type inference, and the assignability/overload rules of spec.md §4.3/§4.6.
//
// Grounded on the teacher's internal/semantic package: a single Analyzer
// walks the AST accumulating *SemanticError diagnostics
// (internal/semantic/analyzer.go, internal/semantic/errors.go), backed by a
// scope-chain SymbolTable (internal/semantic/symbol_table.go). The
// union/intersection/generic-inference machinery has no teacher analogue
// and instead follows sunholo-data-ailang's unification-based inference
// (internal/types/inference.go, internal/types/unification.go).
package checker

import (
	"fmt"

	"github.com/tsxlang/tsx/pkg/token"
)

// Error is a single diagnostic produced by the checker.
type Error struct {
	Message string
	Pos     token.Position
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at %d:%d", e.Message, e.Pos.Line, e.Pos.Column)
}
