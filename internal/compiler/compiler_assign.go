package compiler

import "github.com/tsxlang/tsx/pkg/ast"

// compileAssignment mirrors interp/assign.go's evalAssignment: `=` assigns
// the evaluated RHS directly; &&=/||=/??= only evaluate and assign the RHS
// when the short-circuit check passes; every other compound operator
// evaluates the combined value via the plain binary operator and assigns
// that.
func (c *Compiler) compileAssignment(e *ast.AssignmentExpr) error {
	line := e.Pos().Line
	astIdx := c.chunk.addAST(e.Target)
	if err := c.prepareAssignTarget(e.Target); err != nil {
		return err
	}

	switch e.Operator {
	case "=":
		if err := c.compileExpr(e.Value); err != nil {
			return err
		}
		c.chunk.emit(OpAssignTarget, line, astIdx)
		return nil
	case "&&=", "||=", "??=":
		if err := c.compileExpr(e.Target); err != nil {
			return err
		}
		var jmp int
		switch e.Operator {
		case "&&=":
			jmp = c.chunk.emit(OpJumpIfFalseKeep, line, 0)
		case "||=":
			jmp = c.chunk.emit(OpJumpIfTrueKeep, line, 0)
		case "??=":
			jmp = c.chunk.emit(OpJumpIfNotNullishKeep, line, 0)
		}
		c.chunk.emit(OpPop, line)
		if err := c.compileExpr(e.Value); err != nil {
			return err
		}
		c.chunk.emit(OpAssignTarget, line, astIdx)
		endJmp := c.chunk.emit(OpJump, line, 0)
		c.chunk.patchJump(jmp)
		// short-circuited: target's current value is already on the stack
		c.chunk.patchJump(endJmp)
		return nil
	default:
		if err := c.compileExpr(e.Target); err != nil {
			return err
		}
		if err := c.compileExpr(e.Value); err != nil {
			return err
		}
		c.emitBinaryOp(compoundOp(e.Operator), line)
		c.chunk.emit(OpAssignTarget, line, astIdx)
		return nil
	}
}

func compoundOp(op string) string {
	if len(op) > 0 && op[len(op)-1] == '=' {
		return op[:len(op)-1]
	}
	return op
}

// compileUpdate packs {prefix, decrement} into OpUpdate's B operand and
// stashes the operand expression in the chunk's AST side table so the VM
// can read-modify-write it for any of the three target shapes
// (identifier/member/index) without per-shape opcodes.
func (c *Compiler) compileUpdate(e *ast.UpdateExpr) error {
	line := e.Pos().Line
	astIdx := c.chunk.addAST(e.Operand)
	if err := c.prepareAssignTarget(e.Operand); err != nil {
		return err
	}
	var b uint16
	if e.Prefix {
		b |= 1
	}
	if e.Operator == "--" {
		b |= 2
	}
	c.chunk.emit(OpUpdate, line, astIdx, b)
	return nil
}
