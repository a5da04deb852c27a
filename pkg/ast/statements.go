package ast

func (*VarDecl) statementNode()         {}
func (*FunctionDecl) statementNode()    {}
func (*ClassDecl) statementNode()       {}
func (*InterfaceDecl) statementNode()   {}
func (*TypeAliasDecl) statementNode()   {}
func (*IfStmt) statementNode()          {}
func (*WhileStmt) statementNode()       {}
func (*DoWhileStmt) statementNode()     {}
func (*ForStmt) statementNode()         {}
func (*ForOfStmt) statementNode()       {}
func (*ForInStmt) statementNode()       {}
func (*ReturnStmt) statementNode()      {}
func (*ThrowStmt) statementNode()       {}
func (*TryStmt) statementNode()         {}
func (*BreakStmt) statementNode()       {}
func (*ContinueStmt) statementNode()    {}
func (*SwitchStmt) statementNode()      {}
func (*BlockStmt) statementNode()       {}
func (*ExprStmt) statementNode()        {}
func (*ImportDecl) statementNode()      {}
func (*ExportDecl) statementNode()      {}
func (*ReferenceDirective) statementNode() {}

// DeclKind distinguishes let/const/var binding semantics.
type DeclKind int

const (
	DeclLet DeclKind = iota
	DeclConst
	DeclVar
)

// VarDeclarator is one `pattern = init` binding within a declaration.
type VarDeclarator struct {
	Pattern Pattern
	Type    TypeNode
	Init    Expression // nil if uninitialized
}

// VarDecl is a let/const/var statement, possibly declaring several
// bindings (`let a = 1, b = 2;`).
type VarDecl struct {
	Base
	Kind         DeclKind
	Declarators  []VarDeclarator
}

// FunctionDecl is a top-level/nested named function declaration.
type FunctionDecl struct {
	Base
	Function *FunctionExpr
}

// ClassMember kinds.
type MemberKind int

const (
	MemberField MemberKind = iota
	MemberMethod
	MemberGetter
	MemberSetter
	MemberConstructor
	MemberStaticBlock
)

// Access is a member's declared visibility.
type Access int

const (
	AccessPublic Access = iota
	AccessProtected
	AccessPrivate
)

// ClassMember is one field/method/accessor/constructor/static-block member.
type ClassMember struct {
	Kind       MemberKind
	Name       string
	Static     bool
	Abstract   bool
	Override   bool
	Readonly   bool
	Access     Access
	Type       TypeNode  // field type, or method return type
	Params     []Param   // method/constructor/setter parameters
	Body       *BlockStmt
	Value      Expression // field initializer
	TypeParams []TypeParam
	Generator  bool
	Async      bool
	StaticBody []Statement // for MemberStaticBlock
}

// ClassDecl is a class declaration or the payload of a ClassExpr.
type ClassDecl struct {
	Base
	Name       string
	Abstract   bool
	TypeParams []TypeParam
	SuperClass Expression // nil if none
	SuperArgs  []TypeNode
	Interfaces []TypeNode
	Members    []ClassMember
}

// InterfaceDecl declares a structural interface type.
type InterfaceDecl struct {
	Base
	Name       string
	TypeParams []TypeParam
	Extends    []TypeNode
	Members    []InterfaceMember
}

// InterfaceMember is one property or method signature of an interface.
type InterfaceMember struct {
	Name     string
	Optional bool
	Type     TypeNode // property type, or nil for a method signature
	Params   []Param  // non-nil for a method signature
	Return   TypeNode
	IndexKey TypeNode // non-nil for an index signature
	IndexVal TypeNode
}

// TypeAliasDecl is `type Name<T> = ...;`.
type TypeAliasDecl struct {
	Base
	Name       string
	TypeParams []TypeParam
	Type       TypeNode
}

// IfStmt is `if (cond) then else`.
type IfStmt struct {
	Base
	Cond Expression
	Then Statement
	Else Statement // nil if absent
}

// WhileStmt is `while (cond) body`.
type WhileStmt struct {
	Base
	Cond Expression
	Body Statement
}

// DoWhileStmt is `do body while (cond);`.
type DoWhileStmt struct {
	Base
	Body Statement
	Cond Expression
}

// ForStmt is the C-style `for (init; cond; post) body`.
type ForStmt struct {
	Base
	Init Node // VarDecl or ExprStmt or nil
	Cond Expression
	Post Expression
	Body Statement
}

// ForOfStmt is `for (decl of iterable) body`.
type ForOfStmt struct {
	Base
	Kind     DeclKind
	Pattern  Pattern
	Iterable Expression
	Body     Statement
	Await    bool // for-await-of, inside async generators
}

// ForInStmt is `for (decl in obj) body`.
type ForInStmt struct {
	Base
	Kind    DeclKind
	Pattern Pattern
	Object  Expression
	Body    Statement
}

// ReturnStmt is `return expr;`.
type ReturnStmt struct {
	Base
	Argument Expression // nil for bare `return;`
}

// ThrowStmt is `throw expr;`.
type ThrowStmt struct {
	Base
	Argument Expression
}

// CatchClause is the `catch (param) { body }` part of a try statement.
type CatchClause struct {
	Param Pattern // nil for a parameterless `catch { ... }`
	Body  *BlockStmt
}

// TryStmt is `try { } catch (e) { } finally { }`.
type TryStmt struct {
	Base
	Block   *BlockStmt
	Catch   *CatchClause // nil if absent
	Finally *BlockStmt   // nil if absent
}

// BreakStmt is `break;` or a labeled `break label;`.
type BreakStmt struct {
	Base
	Label string
}

// ContinueStmt is `continue;` or a labeled `continue label;`.
type ContinueStmt struct {
	Base
	Label string
}

// SwitchCase is one `case expr:` or `default:` arm.
type SwitchCase struct {
	Test       Expression // nil for `default`
	Statements []Statement
}

// SwitchStmt is `switch (disc) { case ...: ... }`.
type SwitchStmt struct {
	Base
	Discriminant Expression
	Cases        []SwitchCase
}

// BlockStmt is a `{ ... }` statement list with its own lexical scope.
type BlockStmt struct {
	Base
	Statements []Statement
}

// ExprStmt is an expression used as a statement.
type ExprStmt struct {
	Base
	Expr Expression
}

// ImportSpecifier is one named/default/namespace import binding.
type ImportSpecifier struct {
	Imported  string // source-side name; "" for default/namespace
	Local     string
	Default   bool
	Namespace bool
}

// ImportDecl is `import { a, b as c } from "mod";` and its variants.
type ImportDecl struct {
	Base
	Specifiers []ImportSpecifier
	Source     string
}

// ExportDecl wraps a declaration or re-export as exported. Decl is nil for
// `export { a, b };` / `export * from "mod";` re-export forms.
type ExportDecl struct {
	Base
	Decl       Statement
	Specifiers []ImportSpecifier // for named/re-export forms
	Source     string            // non-"" for re-exports
	Default    bool
	All        bool
}

// ReferenceDirective is a parsed `/// <reference path="...">` as a
// statement-position node so it participates in source-ordered execution
// (spec.md §4.8: "References execute before the referencing script's own
// body, in source order").
type ReferenceDirective struct {
	Base
	Path string
}
