package compiler

import "github.com/tsxlang/tsx/pkg/ast"

// compileStatement emits bytecode for one statement, leaving the operand
// stack exactly as it found it (statements never leave a dangling value;
// compileExprStmt pops its expression's result).
func (c *Compiler) compileStatement(stmt ast.Statement) error {
	line := stmt.Pos().Line
	switch s := stmt.(type) {
	case *ast.VarDecl:
		return c.compileVarDecl(s)
	case *ast.FunctionDecl:
		return nil // handled during hoist
	case *ast.ClassDecl:
		// ClassInfo/instance methods were already built during hoist; this
		// statement position is where the static surface materializes and
		// the class name binds into scope, mirroring interp's
		// execClassDecl running after populateClass.
		c.chunk.emit(OpDefineClassStatics, line, c.chunk.addName(s.Name))
		return nil
	case *ast.InterfaceDecl, *ast.TypeAliasDecl, *ast.ReferenceDirective:
		return nil
	case *ast.IfStmt:
		return c.compileIf(s)
	case *ast.WhileStmt:
		return c.compileWhile(s)
	case *ast.DoWhileStmt:
		return c.compileDoWhile(s)
	case *ast.ForStmt:
		return c.compileFor(s)
	case *ast.ForOfStmt:
		return c.compileForOf(s)
	case *ast.ForInStmt:
		return c.compileForIn(s)
	case *ast.ReturnStmt:
		if s.Argument != nil {
			if err := c.compileExpr(s.Argument); err != nil {
				return err
			}
		} else {
			c.chunk.emit(OpUndefined, line)
		}
		c.chunk.emit(OpReturn, line)
		return nil
	case *ast.ThrowStmt:
		if err := c.compileExpr(s.Argument); err != nil {
			return err
		}
		c.chunk.emit(OpThrow, line)
		return nil
	case *ast.TryStmt:
		return c.compileTry(s)
	case *ast.BreakStmt:
		if s.Label != "" {
			return unsupported("labeled break", s)
		}
		loop, ok := c.currentLoop()
		if !ok {
			return unsupported("break outside a loop/switch", s)
		}
		if loop.chunk == c.chunk {
			loop.breaks = append(loop.breaks, c.chunk.emit(OpJump, line, 0))
		} else {
			// The target loop/switch lives in an enclosing Chunk (this break
			// is inside a try/catch/finally clause); end this Chunk's
			// execution with a pending signal for OpTry to relay.
			c.chunk.emit(OpLoopSignal, line, 0)
		}
		return nil
	case *ast.ContinueStmt:
		if s.Label != "" {
			return unsupported("labeled continue", s)
		}
		loop, ok := c.currentContinueLoop()
		if !ok {
			return unsupported("continue outside a loop", s)
		}
		if loop.chunk == c.chunk {
			loop.continues = append(loop.continues, c.chunk.emit(OpJump, line, 0))
		} else {
			c.chunk.emit(OpLoopSignal, line, 1)
		}
		return nil
	case *ast.SwitchStmt:
		return c.compileSwitch(s)
	case *ast.BlockStmt:
		c.chunk.emit(OpPushScope, line)
		err := c.compileBlockBody(s.Statements)
		c.chunk.emit(OpPopScope, line)
		return err
	case *ast.ExprStmt:
		if err := c.compileExpr(s.Expr); err != nil {
			return err
		}
		c.chunk.emit(OpPop, line)
		return nil
	case *ast.ImportDecl:
		return nil // module resolution happens in internal/loader before compilation
	case *ast.ExportDecl:
		if s.Decl != nil {
			return c.compileStatement(s.Decl)
		}
		return nil
	default:
		return unsupported("statement", stmt)
	}
}

func (c *Compiler) compileVarDecl(s *ast.VarDecl) error {
	for _, d := range s.Declarators {
		if err := c.compileDeclarator(d, s.Kind == ast.DeclConst); err != nil {
			return err
		}
	}
	return nil
}

func (c *Compiler) compileDeclarator(d ast.VarDeclarator, isConst bool) error {
	line := 0
	if ident, ok := d.Pattern.(*ast.IdentifierPattern); ok {
		line = ident.Pos().Line
		if d.Init != nil {
			if err := c.compileExpr(d.Init); err != nil {
				return err
			}
		} else {
			c.chunk.emit(OpUndefined, line)
		}
		constFlag := uint16(0)
		if isConst {
			constFlag = 1
		}
		c.chunk.emit(OpDefineVar, line, c.chunk.addName(ident.Name), constFlag)
		return nil
	}
	// Destructuring declarator: evaluate the initializer, then drive it
	// through OpAssignTarget against the pattern recast as an assignment
	// target — every binding it declares must already exist, so each name
	// is pre-declared (OpDefineVar with undefined) before the structural
	// assignment runs.
	for _, name := range patternNames(d.Pattern) {
		c.chunk.emit(OpUndefined, line)
		c.chunk.emit(OpDefineVar, line, c.chunk.addName(name), 0)
	}
	if d.Init != nil {
		if err := c.compileExpr(d.Init); err != nil {
			return err
		}
	} else {
		c.chunk.emit(OpUndefined, line)
	}
	astIdx := c.chunk.addAST(d.Pattern)
	if err := c.prepareAssignTarget(d.Pattern); err != nil {
		return err
	}
	c.chunk.emit(OpAssignTarget, line, astIdx)
	c.chunk.emit(OpPop, line)
	return nil
}

// patternNames collects every identifier a destructuring pattern binds, in
// declaration order, so compileDeclarator can pre-declare them.
func patternNames(p ast.Pattern) []string {
	switch pat := p.(type) {
	case *ast.IdentifierPattern:
		return []string{pat.Name}
	case *ast.ArrayPattern:
		var out []string
		for _, el := range pat.Elements {
			if el.Pattern != nil {
				out = append(out, patternNames(el.Pattern)...)
			}
		}
		return out
	case *ast.ObjectPattern:
		var out []string
		for _, prop := range pat.Properties {
			if prop.Value != nil {
				out = append(out, patternNames(prop.Value)...)
			}
		}
		return out
	}
	return nil
}

func (c *Compiler) compileIf(s *ast.IfStmt) error {
	line := s.Pos().Line
	if err := c.compileExpr(s.Cond); err != nil {
		return err
	}
	jElse := c.chunk.emit(OpJumpIfFalse, line, 0)
	if err := c.compileStatement(s.Then); err != nil {
		return err
	}
	if s.Else == nil {
		c.chunk.patchJump(jElse)
		return nil
	}
	jEnd := c.chunk.emit(OpJump, line, 0)
	c.chunk.patchJump(jElse)
	if err := c.compileStatement(s.Else); err != nil {
		return err
	}
	c.chunk.patchJump(jEnd)
	return nil
}

func (c *Compiler) compileWhile(s *ast.WhileStmt) error {
	line := s.Pos().Line
	loop := c.pushLoop(false)
	condPos := len(c.chunk.Code)
	if err := c.compileExpr(s.Cond); err != nil {
		c.popLoop()
		return err
	}
	exitJmp := c.chunk.emit(OpJumpIfFalse, line, 0)
	if err := c.compileStatement(s.Body); err != nil {
		c.popLoop()
		return err
	}
	c.chunk.emit(OpJump, line, uint16(condPos))
	c.chunk.patchJump(exitJmp)
	c.finishLoop(loop, condPos)
	return nil
}

func (c *Compiler) compileDoWhile(s *ast.DoWhileStmt) error {
	line := s.Pos().Line
	loop := c.pushLoop(false)
	bodyPos := len(c.chunk.Code)
	if err := c.compileStatement(s.Body); err != nil {
		c.popLoop()
		return err
	}
	condPos := len(c.chunk.Code)
	if err := c.compileExpr(s.Cond); err != nil {
		c.popLoop()
		return err
	}
	exitJmp := c.chunk.emit(OpJumpIfFalse, line, 0)
	c.chunk.emit(OpJump, line, uint16(bodyPos))
	c.chunk.patchJump(exitJmp)
	c.finishLoop(loop, condPos)
	return nil
}

func (c *Compiler) compileFor(s *ast.ForStmt) error {
	line := s.Pos().Line
	c.chunk.emit(OpPushScope, line)
	switch init := s.Init.(type) {
	case *ast.VarDecl:
		if err := c.compileVarDecl(init); err != nil {
			return err
		}
	case *ast.ExprStmt:
		if err := c.compileExpr(init.Expr); err != nil {
			return err
		}
		c.chunk.emit(OpPop, line)
	}
	loop := c.pushLoop(false)
	condPos := len(c.chunk.Code)
	var exitJmp int
	hasCond := s.Cond != nil
	if hasCond {
		if err := c.compileExpr(s.Cond); err != nil {
			c.popLoop()
			return err
		}
		exitJmp = c.chunk.emit(OpJumpIfFalse, line, 0)
	}
	if err := c.compileStatement(s.Body); err != nil {
		c.popLoop()
		return err
	}
	postPos := len(c.chunk.Code)
	if s.Post != nil {
		if err := c.compileExpr(s.Post); err != nil {
			c.popLoop()
			return err
		}
		c.chunk.emit(OpPop, line)
	}
	c.chunk.emit(OpJump, line, uint16(condPos))
	if hasCond {
		c.chunk.patchJump(exitJmp)
	}
	c.finishLoop(loop, postPos)
	c.chunk.emit(OpPopScope, line)
	return nil
}

// finishLoop patches every collected break (to the loop's current end) and
// continue (to continueTarget, the post-expression/condition recheck).
func (c *Compiler) finishLoop(loop *loopCtx, continueTarget int) {
	c.popLoop()
	end := len(c.chunk.Code)
	for _, pos := range loop.breaks {
		c.chunk.patchJumpTo(pos, end)
	}
	for _, pos := range loop.continues {
		c.chunk.patchJumpTo(pos, continueTarget)
	}
}

// compileForOf lowers to the shared iterator protocol: OpIterNew pushes a
// handle, and a loop around OpIterNext pulls values until exhausted,
// binding each to the loop pattern in a fresh per-iteration scope (so
// closures captured inside the body see their own binding, matching let's
// per-iteration semantics).
func (c *Compiler) compileForOf(s *ast.ForOfStmt) error {
	line := s.Pos().Line
	if err := c.compileExpr(s.Iterable); err != nil {
		return err
	}
	c.chunk.emit(OpIterNew, line)
	loop := c.pushLoop(false)
	topPos := len(c.chunk.Code)
	exitJmp := c.chunk.emit(OpIterNext, line, 0)
	c.chunk.emit(OpPushScope, line)
	if err := c.bindForPattern(s.Pattern, line); err != nil {
		c.popLoop()
		return err
	}
	if err := c.compileStatement(s.Body); err != nil {
		c.popLoop()
		return err
	}
	c.chunk.emit(OpPopScope, line)
	c.chunk.emit(OpJump, line, uint16(topPos))
	c.chunk.patchJump(exitJmp)
	c.chunk.emit(OpPop, line) // drop the iterator handle
	c.finishLoop(loop, topPos)
	return nil
}

func (c *Compiler) compileForIn(s *ast.ForInStmt) error {
	line := s.Pos().Line
	if err := c.compileExpr(s.Object); err != nil {
		return err
	}
	c.chunk.emit(OpKeysIterNew, line)
	loop := c.pushLoop(false)
	topPos := len(c.chunk.Code)
	exitJmp := c.chunk.emit(OpIterNext, line, 0)
	c.chunk.emit(OpPushScope, line)
	if err := c.bindForPattern(s.Pattern, line); err != nil {
		c.popLoop()
		return err
	}
	if err := c.compileStatement(s.Body); err != nil {
		c.popLoop()
		return err
	}
	c.chunk.emit(OpPopScope, line)
	c.chunk.emit(OpJump, line, uint16(topPos))
	c.chunk.patchJump(exitJmp)
	c.chunk.emit(OpPop, line)
	c.finishLoop(loop, topPos)
	return nil
}

// bindForPattern binds the value OpIterNext just pushed to the loop's
// declared pattern.
func (c *Compiler) bindForPattern(p ast.Pattern, line int) error {
	if ident, ok := p.(*ast.IdentifierPattern); ok {
		c.chunk.emit(OpDefineVar, line, c.chunk.addName(ident.Name), 0)
		return nil
	}
	for _, name := range patternNames(p) {
		c.chunk.emit(OpUndefined, line)
		c.chunk.emit(OpDefineVar, line, c.chunk.addName(name), 0)
	}
	astIdx := c.chunk.addAST(p)
	if err := c.prepareAssignTarget(p); err != nil {
		return err
	}
	c.chunk.emit(OpAssignTarget, line, astIdx)
	c.chunk.emit(OpPop, line)
	return nil
}

func (c *Compiler) compileSwitch(s *ast.SwitchStmt) error {
	line := s.Pos().Line
	if err := c.compileExpr(s.Discriminant); err != nil {
		return err
	}
	loop := c.pushLoop(true)
	var caseJumps []int
	defaultIdx := -1
	for i, cs := range s.Cases {
		if cs.Test == nil {
			defaultIdx = i
			caseJumps = append(caseJumps, -1)
			continue
		}
		c.chunk.emit(OpDup, line)
		if err := c.compileExpr(cs.Test); err != nil {
			c.popLoop()
			return err
		}
		c.chunk.emit(OpStrictEq, line)
		caseJumps = append(caseJumps, c.chunk.emit(OpJumpIfTrueKeep, line, 0))
		c.chunk.emit(OpPop, line)
	}
	fallthroughToDefault := c.chunk.emit(OpJump, line, 0)
	bodyStarts := make([]int, len(s.Cases))
	for i, cs := range s.Cases {
		if caseJumps[i] >= 0 {
			c.chunk.patchJump(caseJumps[i])
			c.chunk.emit(OpPop, line) // drop the bool from JumpIfTrueKeep
		}
		bodyStarts[i] = len(c.chunk.Code)
		for _, st := range cs.Statements {
			if err := c.compileStatement(st); err != nil {
				c.popLoop()
				return err
			}
		}
	}
	if defaultIdx >= 0 {
		c.chunk.patchJumpTo(fallthroughToDefault, bodyStarts[defaultIdx])
	} else {
		c.chunk.patchJump(fallthroughToDefault)
	}
	end := len(c.chunk.Code)
	c.chunk.emit(OpPop, line) // drop the discriminant
	c.popLoop()
	for _, pos := range loop.breaks {
		c.chunk.patchJumpTo(pos, end)
	}
	return nil
}

// compileTry compiles each clause into its own nested Chunk, run by the VM's
// runBlock via OpTry rather than inline bytecode. A break/continue lexically
// inside a clause whose nearest loop/switch lives in this same Chunk (i.e.
// the loop encloses the try, rather than the try enclosing the loop) can't
// be patched as an ordinary jump into that clause's own separate Chunk, so
// it compiles to OpLoopSignal there instead; the trampoline emitted here
// right after OpTry converts the resulting pending signal back into the
// same kind of backpatched jump an ordinary break/continue would use.
func (c *Compiler) compileTry(s *ast.TryStmt) error {
	line := s.Pos().Line
	tryChunk, err := c.compileStandaloneBlock(s.Block.Statements)
	if err != nil {
		return err
	}
	tryIdx := c.chunk.addProto(&FunctionProto{Chunk: tryChunk})
	var catchIdx, finallyIdx int = -1, -1
	var catchParamName string
	hasCatchParam := false
	if s.Catch != nil {
		catchChunk, err := c.compileStandaloneBlock(s.Catch.Body.Statements)
		if err != nil {
			return err
		}
		catchIdx = int(c.chunk.addProto(&FunctionProto{Chunk: catchChunk}))
		if s.Catch.Param != nil {
			if ident, ok := s.Catch.Param.(*ast.IdentifierPattern); ok {
				catchParamName = ident.Name
				hasCatchParam = true
			}
		}
	}
	if s.Finally != nil {
		finallyChunk, err := c.compileStandaloneBlock(s.Finally.Statements)
		if err != nil {
			return err
		}
		finallyIdx = int(c.chunk.addProto(&FunctionProto{Chunk: finallyChunk}))
	}
	spec := &tryHandlerSpec{
		TryProto:       int(tryIdx),
		CatchProto:     catchIdx,
		FinallyProto:   finallyIdx,
		CatchParam:     catchParamName,
		HasCatchParam:  hasCatchParam,
	}
	astIdx := c.chunk.addAST(spec)
	c.chunk.emit(OpTry, line, astIdx)
	if breakLoop, ok := c.currentLoop(); ok && breakLoop.chunk == c.chunk {
		breakLoop.breaks = append(breakLoop.breaks, c.chunk.emit(OpJumpIfBreakSignal, line, 0))
	}
	if contLoop, ok := c.currentContinueLoop(); ok && contLoop.chunk == c.chunk {
		contLoop.continues = append(contLoop.continues, c.chunk.emit(OpJumpIfContinueSignal, line, 0))
	}
	return nil
}

// tryHandlerSpec is stashed in the AST side table (it isn't an
// ast.Expression, but ASTNodes is an interface{} slice precisely so
// compiler-internal payloads like this one can ride along too) describing
// which Protos index holds each clause's compiled Chunk.
type tryHandlerSpec struct {
	TryProto      int
	CatchProto    int // -1 if absent
	FinallyProto  int // -1 if absent
	CatchParam    string
	HasCatchParam bool
}
