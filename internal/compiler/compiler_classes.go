package compiler

import (
	"fmt"

	"github.com/tsxlang/tsx/internal/interp/runtime"
	"github.com/tsxlang/tsx/pkg/ast"
)

// classRef wraps a *runtime.ClassInfo as a runtime.Value, the compiler's
// equivalent of interp/classes.go's classRef: it travels through an
// Environment binding so super(...)/super.method() calls can find their
// base class, and so `instanceof`/`new` can recognize a class name used as
// a value.
type classRef struct{ info *runtime.ClassInfo }

func (classRef) TypeOf() string { return "object" }
func (classRef) String() string { return "[object Function]" }

// fieldInit is one field initializer (instance or static), precompiled at
// compile time into its own tiny Chunk so the VM can simply run it (via
// vm.runBlock) at instantiation/class-definition time rather than
// recompiling an expression every time a class is instantiated.
type fieldInit struct {
	Name     string
	Chunk    *Chunk // nil means "no initializer" (defaults to undefined)
	Readonly bool
}

type methodInit struct {
	Kind  ast.MemberKind // MemberMethod/MemberGetter/MemberSetter
	Name  string
	Proto *FunctionProto
}

// classExtra holds everything about a class ClassInfo alone can't carry:
// instance field initializers (run by vm_calls.go's initOwnFields) and the
// static surface (run once, by OpDefineClassStatics, the moment the class
// declaration/expression executes) — mirroring the split between interp's
// populateClass (instance method table + base link, built during hoist)
// and execClassDecl (static fields/methods/blocks, built when the
// declaration statement runs).
type classExtra struct {
	OwnFields     []fieldInit
	StaticFields  []fieldInit
	StaticMethods []methodInit
	StaticBlocks  []*Chunk
}

// populateClass builds decl's ClassInfo (instance methods as compiled
// *runtime.Function values; Closure is left nil until the class statement
// actually runs and OpDefineClassStatics binds it, mirroring interp's
// makeFunction(fnExpr, env) call happening against the env active when the
// class's declaration runs, not when it's hoisted) and registers both the
// ClassInfo and its classExtra in the Compiler's shared registries.
func (c *Compiler) populateClass(decl *ast.ClassDecl) error {
	info := &runtime.ClassInfo{Name: decl.Name, Decl: decl, Methods: map[string]*runtime.Function{}, Static: runtime.NewObject(), Abstract: decl.Abstract}
	c.classes[decl.Name] = info
	extra := &classExtra{}
	c.classExtras[info] = extra

	if decl.SuperClass != nil {
		if ident, ok := decl.SuperClass.(*ast.Identifier); ok {
			if base, ok := c.classes[ident.Name]; ok {
				info.Base = base
			}
		}
	}

	for _, m := range decl.Members {
		switch {
		case m.Kind == ast.MemberField && !m.Static:
			var chunk *Chunk
			if m.Value != nil {
				ch, err := c.compileStandaloneExpr(m.Value)
				if err != nil {
					return err
				}
				chunk = ch
			}
			extra.OwnFields = append(extra.OwnFields, fieldInit{Name: m.Name, Chunk: chunk, Readonly: m.Readonly})
		case m.Kind == ast.MemberField && m.Static:
			var chunk *Chunk
			if m.Value != nil {
				ch, err := c.compileStandaloneExpr(m.Value)
				if err != nil {
					return err
				}
				chunk = ch
			}
			extra.StaticFields = append(extra.StaticFields, fieldInit{Name: m.Name, Chunk: chunk, Readonly: m.Readonly})
		case m.Kind == ast.MemberStaticBlock:
			if err := c.checkStaticBlockThisCall(m.StaticBody); err != nil {
				return err
			}
			chunk, err := c.compileStandaloneBlock(m.StaticBody)
			if err != nil {
				return err
			}
			extra.StaticBlocks = append(extra.StaticBlocks, chunk)
		case m.Kind == ast.MemberMethod, m.Kind == ast.MemberConstructor, m.Kind == ast.MemberGetter, m.Kind == ast.MemberSetter:
			if m.Body == nil {
				continue
			}
			fnExpr := &ast.FunctionExpr{Name: m.Name, Params: m.Params, Body: m.Body, Generator: m.Generator, Async: m.Async}
			proto, err := c.compileFunctionProto(fnExpr)
			if err != nil {
				return err
			}
			if m.Static {
				extra.StaticMethods = append(extra.StaticMethods, methodInit{Kind: m.Kind, Name: m.Name, Proto: proto})
			} else {
				info.Methods[methodKey(m)] = &runtime.Function{Name: m.Name, Params: len(m.Params), Chunk: proto}
			}
		}
	}
	return nil
}

func methodKey(m ast.ClassMember) string {
	switch m.Kind {
	case ast.MemberGetter:
		return "get " + m.Name
	case ast.MemberSetter:
		return "set " + m.Name
	case ast.MemberConstructor:
		return "constructor"
	}
	return m.Name
}

// checkStaticBlockThisCall rejects `this.method(...)` dispatch inside a
// static initialization block at compile time (an Open Question decided in
// SPEC_FULL.md's favor of a predictable diagnostic over silently-undefined
// runtime dispatch): static blocks run while sibling statics elsewhere in
// the class body may still be mid-initialization, so routing through
// `this` instead of the class's own static name is rejected up front.
func (c *Compiler) checkStaticBlockThisCall(stmts []ast.Statement) error {
	var walkExpr func(ast.Expression) error
	var walkStmt func(ast.Statement) error

	walkExpr = func(e ast.Expression) error {
		if e == nil {
			return nil
		}
		if call, ok := e.(*ast.CallExpr); ok {
			if m, ok := call.Callee.(*ast.MemberExpr); ok {
				if _, isThis := m.Object.(*ast.ThisExpr); isThis {
					return fmt.Errorf("compiler: static initialization block cannot call instance methods via `this` at %d:%d", e.Pos().Line, e.Pos().Column)
				}
			}
		}
		switch ex := e.(type) {
		case *ast.BinaryExpr:
			if err := walkExpr(ex.Left); err != nil {
				return err
			}
			return walkExpr(ex.Right)
		case *ast.LogicalExpr:
			if err := walkExpr(ex.Left); err != nil {
				return err
			}
			return walkExpr(ex.Right)
		case *ast.AssignmentExpr:
			return walkExpr(ex.Value)
		case *ast.CallExpr:
			for _, a := range ex.Args {
				if err := walkExpr(a); err != nil {
					return err
				}
			}
			return nil
		case *ast.ConditionalExpr:
			if err := walkExpr(ex.Cond); err != nil {
				return err
			}
			if err := walkExpr(ex.Then); err != nil {
				return err
			}
			return walkExpr(ex.Else)
		}
		return nil
	}

	walkStmt = func(s ast.Statement) error {
		switch st := s.(type) {
		case *ast.ExprStmt:
			return walkExpr(st.Expr)
		case *ast.VarDecl:
			for _, d := range st.Declarators {
				if err := walkExpr(d.Init); err != nil {
					return err
				}
			}
			return nil
		case *ast.IfStmt:
			if err := walkExpr(st.Cond); err != nil {
				return err
			}
			if err := walkStmt(st.Then); err != nil {
				return err
			}
			if st.Else != nil {
				return walkStmt(st.Else)
			}
			return nil
		case *ast.BlockStmt:
			for _, sub := range st.Statements {
				if err := walkStmt(sub); err != nil {
					return err
				}
			}
			return nil
		}
		return nil
	}

	for _, s := range stmts {
		if err := walkStmt(s); err != nil {
			return err
		}
	}
	return nil
}

// compileClassExpr compiles a class expression: populate its ClassInfo
// inline (class expressions have no forward-reference need the way hoisted
// declarations do), then emit OpDefineClassStatics to materialize its
// static surface and bind its name, and read that binding back as the
// expression's value.
func (c *Compiler) compileClassExpr(e *ast.ClassExpr) error {
	decl := e.Decl
	if err := c.populateClass(decl); err != nil {
		return err
	}
	line := e.Pos().Line
	c.chunk.emit(OpDefineClassStatics, line, c.chunk.addName(decl.Name))
	c.chunk.emit(OpGetVar, line, c.chunk.addName(decl.Name))
	return nil
}
