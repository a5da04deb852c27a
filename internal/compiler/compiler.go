package compiler

import (
	"fmt"

	"github.com/tsxlang/tsx/internal/interp/runtime"
	"github.com/tsxlang/tsx/pkg/ast"
)

// loopCtx tracks the backpatch lists for one active loop/switch so break/
// continue (compiled as unresolved forward jumps) can be patched once the
// construct's exit/continue target addresses are known, the standard
// single-pass bytecode-compiler technique (grounded on the teacher's
// loopContext, compiler_core.go).
type loopCtx struct {
	breaks    []int
	continues []int
	// chunk is the Chunk this loop/switch's body is being compiled into.
	// break/continue compiled in that same Chunk resolve to an ordinary
	// OpJump appended to breaks/continues for patchJump. A break/continue
	// lexically inside a try/catch/finally clause nested in a different
	// (standalone) Chunk can't be patched directly into this Chunk, so it
	// compiles to OpLoopSignal instead; compileTry appends the resulting
	// trampoline jump positions to breaks/continues on loop's behalf.
	chunk *Chunk
	// isSwitch marks a loopCtx pushed for a switch statement's break
	// target only; continue must skip over it to find the nearest actual
	// loop, matching the tree-walking evaluator's execSwitch not handling
	// continue itself.
	isSwitch bool
}

// Compiler lowers one Program (or, recursively, one function body) into a
// Chunk. classes is shared across every Compiler spawned for the same
// program so method/nested-function chunks can resolve sibling class names.
type Compiler struct {
	chunk       *Chunk
	classes     map[string]*runtime.ClassInfo
	classExtras map[*runtime.ClassInfo]*classExtra
	loopStack   []*loopCtx
}

// NewCompiler creates a root Compiler with a fresh class registry.
func NewCompiler() *Compiler {
	return &Compiler{classes: map[string]*runtime.ClassInfo{}, classExtras: map[*runtime.ClassInfo]*classExtra{}}
}

// childCompiler compiles a nested function/method body, sharing the class
// registries but starting a fresh Chunk and loop stack (break/continue
// never cross a function boundary).
func (c *Compiler) childCompiler(name string) *Compiler {
	return &Compiler{chunk: NewChunk(name), classes: c.classes, classExtras: c.classExtras}
}

// nestedBlockCompiler compiles a try/catch/finally clause or static block
// body into its own Chunk, sharing the loop stack with c so break/continue
// targeting a loop outside the clause still resolve (as OpLoopSignal, since
// the target loop's Chunk differs from this one — see loopCtx.chunk).
func (c *Compiler) nestedBlockCompiler(name string) *Compiler {
	return &Compiler{chunk: NewChunk(name), classes: c.classes, classExtras: c.classExtras, loopStack: c.loopStack}
}

// Program is the output of CompileProgram: the entry Chunk plus every
// class registered anywhere in the compiled program, keyed for the VM to
// materialize statics and bind instance fields against.
type Program struct {
	Chunk       *Chunk
	Classes     map[string]*runtime.ClassInfo
	ClassExtras map[*runtime.ClassInfo]*classExtra
}

// CompileProgram compiles every top-level statement into one Chunk, the
// module/script entry point pkg/engine runs through VM.Run.
func CompileProgram(prog *ast.Program) (*Program, error) {
	c := NewCompiler()
	c.chunk = NewChunk("<program>")
	if err := c.hoist(prog.Statements); err != nil {
		return nil, err
	}
	for _, s := range prog.Statements {
		if err := c.compileStatement(s); err != nil {
			return nil, err
		}
		c.chunk.emit(OpDrainMicrotasks, s.Pos().Line)
	}
	return &Program{Chunk: c.chunk, Classes: c.classes, ClassExtras: c.classExtras}, nil
}

// compileBlockBody hoists function/class declarations (so forward
// references resolve, mirroring interp's Interpreter.hoist) and then
// compiles every statement in source order.
func (c *Compiler) compileBlockBody(stmts []ast.Statement) error {
	if err := c.hoist(stmts); err != nil {
		return err
	}
	for _, s := range stmts {
		if err := c.compileStatement(s); err != nil {
			return err
		}
	}
	return nil
}

// hoist registers function declarations (as callable bindings, bytecode
// emitted up front so forward calls resolve) and class declarations (their
// ClassInfo built now so methods can reference each other and forward
// `extends` targets resolve) before the block's statements run.
func (c *Compiler) hoist(stmts []ast.Statement) error {
	for _, s := range stmts {
		switch d := s.(type) {
		case *ast.FunctionDecl:
			proto, err := c.compileFunctionProto(d.Function)
			if err != nil {
				return err
			}
			idx := c.chunk.addProto(proto)
			c.chunk.emit(OpMakeFunction, d.Pos().Line, idx)
			nameIdx := c.chunk.addName(d.Function.Name)
			c.chunk.emit(OpDefineVar, d.Pos().Line, nameIdx, 1)
		case *ast.ClassDecl:
			if err := c.populateClass(d); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Compiler) pushLoop(isSwitch bool) *loopCtx {
	l := &loopCtx{chunk: c.chunk, isSwitch: isSwitch}
	c.loopStack = append(c.loopStack, l)
	return l
}

func (c *Compiler) popLoop() *loopCtx {
	l := c.loopStack[len(c.loopStack)-1]
	c.loopStack = c.loopStack[:len(c.loopStack)-1]
	return l
}

// currentLoop returns the innermost enclosing loop or switch, for break.
func (c *Compiler) currentLoop() (*loopCtx, bool) {
	if len(c.loopStack) == 0 {
		return nil, false
	}
	return c.loopStack[len(c.loopStack)-1], true
}

// currentContinueLoop returns the innermost enclosing actual loop, skipping
// any switch markers, for continue.
func (c *Compiler) currentContinueLoop() (*loopCtx, bool) {
	for i := len(c.loopStack) - 1; i >= 0; i-- {
		if !c.loopStack[i].isSwitch {
			return c.loopStack[i], true
		}
	}
	return nil, false
}

// compileFunctionProto compiles fn's body into its own Chunk/Compiler,
// sharing the class registry. Generator/async bodies compile the same way
// as plain ones — suspension is implemented by the VM running the Chunk on
// its own goroutine (vm_generator.go/vm_async.go), not by special opcodes.
func (c *Compiler) compileFunctionProto(fn *ast.FunctionExpr) (*FunctionProto, error) {
	fc := c.childCompiler(fn.Name)
	if err := fc.compileBlockBody(fn.Body.Statements); err != nil {
		return nil, err
	}
	defaults, err := c.compileParamDefaults(fn.Params)
	if err != nil {
		return nil, err
	}
	return &FunctionProto{Name: fn.Name, Params: fn.Params, Chunk: fc.chunk, IsGenerator: fn.Generator, IsAsync: fn.Async, Defaults: defaults}, nil
}

func (c *Compiler) compileArrowProto(fn *ast.ArrowFunctionExpr) (*FunctionProto, error) {
	fc := c.childCompiler("")
	if fn.Body != nil {
		if err := fc.compileBlockBody(fn.Body.Statements); err != nil {
			return nil, err
		}
	} else {
		if err := fc.compileExpr(fn.ExprBody); err != nil {
			return nil, err
		}
		fc.chunk.emit(OpReturn, fn.ExprBody.Pos().Line)
	}
	defaults, err := c.compileParamDefaults(fn.Params)
	if err != nil {
		return nil, err
	}
	return &FunctionProto{Params: fn.Params, Chunk: fc.chunk, IsArrow: true, IsAsync: fn.Async, Defaults: defaults}, nil
}

// compileParamDefaults precompiles every Default expression reachable from
// params (direct parameter defaults and nested destructuring-pattern
// element/property defaults) into its own standalone Chunk, keyed by the
// originating AST expression node.
func (c *Compiler) compileParamDefaults(params []ast.Param) (map[ast.Expression]*Chunk, error) {
	out := map[ast.Expression]*Chunk{}
	var visitPattern func(p ast.Pattern) error
	visitPattern = func(p ast.Pattern) error {
		switch pat := p.(type) {
		case *ast.ArrayPattern:
			for _, el := range pat.Elements {
				if el.Pattern == nil {
					continue
				}
				if el.Default != nil {
					ch, err := c.compileStandaloneExpr(el.Default)
					if err != nil {
						return err
					}
					out[el.Default] = ch
				}
				if err := visitPattern(el.Pattern); err != nil {
					return err
				}
			}
		case *ast.ObjectPattern:
			for _, prop := range pat.Properties {
				if prop.Value == nil {
					continue
				}
				if prop.Default != nil {
					ch, err := c.compileStandaloneExpr(prop.Default)
					if err != nil {
						return err
					}
					out[prop.Default] = ch
				}
				if err := visitPattern(prop.Value); err != nil {
					return err
				}
			}
		}
		return nil
	}
	for _, p := range params {
		if p.Default != nil {
			ch, err := c.compileStandaloneExpr(p.Default)
			if err != nil {
				return nil, err
			}
			out[p.Default] = ch
		}
		if err := visitPattern(p.Pattern); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// compileStandaloneExpr compiles one expression that is evaluated on demand
// (parameter defaults, destructuring defaults, class field initializers)
// into its own small chunk ending in OpReturn. The chunk is built once at
// compile time, stored by the caller and run each time the value is needed,
// reusing the exact same expression-compilation logic as function bodies
// instead of a second, parallel AST-walking evaluator.
func (c *Compiler) compileStandaloneExpr(expr ast.Expression) (*Chunk, error) {
	fc := c.childCompiler("<expr>")
	if err := fc.compileExpr(expr); err != nil {
		return nil, err
	}
	fc.chunk.emit(OpReturn, expr.Pos().Line)
	return fc.chunk, nil
}

// compileStandaloneBlock compiles a statement list (a static block's body,
// or a try/catch/finally clause's body) for on-demand execution via
// runBlock. No trailing OpReturn is appended: falling off the end without
// hitting a real `return` statement must be distinguishable (runBlock's
// returned=false) from an explicit return, which matters for try/finally
// control flow (see vm.go's OpTry handling).
func (c *Compiler) compileStandaloneBlock(stmts []ast.Statement) (*Chunk, error) {
	fc := c.nestedBlockCompiler("<block>")
	if err := fc.compileBlockBody(stmts); err != nil {
		return nil, err
	}
	return fc.chunk, nil
}

func unsupported(what string, node ast.Node) error {
	return fmt.Errorf("compiler: unsupported %s at %d:%d", what, node.Pos().Line, node.Pos().Column)
}
