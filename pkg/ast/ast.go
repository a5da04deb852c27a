// Package ast defines the tsx abstract syntax tree. Nodes are represented
// as tagged-union-style Go interfaces with a closed set of implementing
// structs rather than a deep class hierarchy (spec.md §9 Design Notes);
// dispatch is exhaustive type-switch, not a visitor interface per node.
package ast

import "github.com/tsxlang/tsx/pkg/token"

// Node is the root interface implemented by every AST node.
type Node interface {
	Pos() token.Position
	EndPos() token.Position
}

// Expression is implemented by every expression node.
type Expression interface {
	Node
	expressionNode()
}

// Statement is implemented by every statement node.
type Statement interface {
	Node
	statementNode()
}

// Base embeds common position bookkeeping.
type Base struct {
	StartPos token.Position
	StopPos  token.Position
}

func (b Base) Pos() token.Position    { return b.StartPos }
func (b Base) EndPos() token.Position { return b.StopPos }

// Program is the root node of a parsed file.
type Program struct {
	Base
	Statements []Statement
	// Directives holds the leading directive-prologue string literals in
	// source order (spec.md §4.2); "use strict" activates strict mode.
	Directives []string
	Strict     bool
	// References holds triple-slash `/// <reference path="...">`
	// directives captured by the lexer, valid only in script files.
	References []Reference
	// IsModule is true when the file contains any top-level import/export
	// (spec.md §4.8 module-vs-script classification).
	IsModule bool
}

// Reference is a parsed triple-slash reference directive.
type Reference struct {
	Path string
	Pos  token.Position
}
