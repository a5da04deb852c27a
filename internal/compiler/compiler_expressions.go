package compiler

import (
	"github.com/tsxlang/tsx/internal/interp/runtime"
	"github.com/tsxlang/tsx/pkg/ast"
)

// compileExpr emits bytecode leaving exactly one value on the stack: expr's
// result. Mirrors interp/eval_expressions.go's evalExpr switch, one case
// per ast.Expression kind.
func (c *Compiler) compileExpr(expr ast.Expression) error {
	line := expr.Pos().Line
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		c.chunk.emit(OpConstant, line, c.chunk.addConstant(runtime.Number(e.Value)))
	case *ast.StringLiteral:
		c.chunk.emit(OpConstant, line, c.chunk.addConstant(runtime.String(e.Value)))
	case *ast.BoolLiteral:
		if e.Value {
			c.chunk.emit(OpTrue, line)
		} else {
			c.chunk.emit(OpFalse, line)
		}
	case *ast.NullLiteral:
		c.chunk.emit(OpNull, line)
	case *ast.UndefinedLiteral:
		c.chunk.emit(OpUndefined, line)
	case *ast.RegexLiteral:
		// Regex values are constructed the same way the interpreter does,
		// via the RegExp constructor; compiled the same as `new
		// RegExp(pattern, flags)` would be (see DESIGN.md).
		c.chunk.emit(OpGetVar, line, c.chunk.addName("RegExp"))
		c.chunk.emit(OpNewArray, line)
		c.chunk.emit(OpConstant, line, c.chunk.addConstant(runtime.String(e.Pattern)))
		c.chunk.emit(OpArrayAppend, line)
		c.chunk.emit(OpConstant, line, c.chunk.addConstant(runtime.String(e.Flags)))
		c.chunk.emit(OpArrayAppend, line)
		c.chunk.emit(OpNew, line)
	case *ast.TemplateLiteral:
		return c.compileTemplate(e)
	case *ast.Identifier:
		c.chunk.emit(OpGetVar, line, c.chunk.addName(e.Name))
	case *ast.ThisExpr:
		c.chunk.emit(OpGetVar, line, c.chunk.addName("this"))
	case *ast.SuperExpr:
		return unsupported("bare super reference", e)
	case *ast.GroupingExpr:
		return c.compileExpr(e.Expr)
	case *ast.UnaryExpr:
		return c.compileUnary(e)
	case *ast.UpdateExpr:
		return c.compileUpdate(e)
	case *ast.BinaryExpr:
		if err := c.compileExpr(e.Left); err != nil {
			return err
		}
		if err := c.compileExpr(e.Right); err != nil {
			return err
		}
		c.emitBinaryOp(e.Operator, line)
	case *ast.LogicalExpr:
		return c.compileLogical(e)
	case *ast.AssignmentExpr:
		return c.compileAssignment(e)
	case *ast.ConditionalExpr:
		return c.compileConditional(e)
	case *ast.CallExpr:
		return c.compileCall(e)
	case *ast.NewExpr:
		return c.compileNew(e)
	case *ast.MemberExpr:
		return c.compileMemberGet(e)
	case *ast.ArrayLiteral:
		return c.compileArrayLiteral(e)
	case *ast.ObjectLiteral:
		return c.compileObjectLiteral(e)
	case *ast.FunctionExpr:
		proto, err := c.compileFunctionProto(e)
		if err != nil {
			return err
		}
		c.chunk.emit(OpMakeFunction, line, c.chunk.addProto(proto))
	case *ast.ArrowFunctionExpr:
		proto, err := c.compileArrowProto(e)
		if err != nil {
			return err
		}
		c.chunk.emit(OpMakeArrow, line, c.chunk.addProto(proto))
	case *ast.ClassExpr:
		return c.compileClassExpr(e)
	case *ast.SpreadElement:
		return unsupported("bare spread expression", e)
	case *ast.TypeAssertionExpr:
		return c.compileExpr(e.Expr)
	case *ast.NonNullExpr:
		return c.compileExpr(e.Expr)
	case *ast.YieldExpr:
		return c.compileYield(e)
	case *ast.AwaitExpr:
		if err := c.compileExpr(e.Argument); err != nil {
			return err
		}
		c.chunk.emit(OpAwait, line)
	case *ast.SequenceExpr:
		for i, sub := range e.Exprs {
			if i > 0 {
				c.chunk.emit(OpPop, line)
			}
			if err := c.compileExpr(sub); err != nil {
				return err
			}
		}
	default:
		return unsupported("expression", expr)
	}
	return nil
}

func (c *Compiler) compileTemplate(e *ast.TemplateLiteral) error {
	line := e.Pos().Line
	for _, span := range e.Spans {
		if span.Expr == nil {
			c.chunk.emit(OpConstant, line, c.chunk.addConstant(runtime.String(span.Text)))
			continue
		}
		if err := c.compileExpr(span.Expr); err != nil {
			return err
		}
	}
	c.chunk.emit(OpConcat, line, uint16(len(e.Spans)))
	return nil
}

func (c *Compiler) compileUnary(e *ast.UnaryExpr) error {
	line := e.Pos().Line
	if e.Operator == "delete" {
		return c.compileDelete(e.Operand)
	}
	if err := c.compileExpr(e.Operand); err != nil {
		return err
	}
	switch e.Operator {
	case "-":
		c.chunk.emit(OpNeg, line)
	case "+":
		c.chunk.emit(OpPos, line)
	case "!":
		c.chunk.emit(OpNot, line)
	case "~":
		c.chunk.emit(OpBitNot, line)
	case "typeof":
		c.chunk.emit(OpTypeof, line)
	case "void":
		c.chunk.emit(OpPop, line)
		c.chunk.emit(OpUndefined, line)
	default:
		return unsupported("unary operator "+e.Operator, e)
	}
	return nil
}

func (c *Compiler) compileDelete(target ast.Expression) error {
	line := target.Pos().Line
	m, ok := target.(*ast.MemberExpr)
	if !ok {
		c.chunk.emit(OpTrue, line)
		return nil
	}
	if err := c.compileExpr(m.Object); err != nil {
		return err
	}
	if m.Computed {
		if err := c.compileExpr(m.Property); err != nil {
			return err
		}
		c.chunk.emit(OpDeleteIndex, line)
		return nil
	}
	name := m.Property.(*ast.Identifier).Name
	c.chunk.emit(OpDeleteProp, line, c.chunk.addName(name))
	return nil
}

func (c *Compiler) emitBinaryOp(op string, line int) {
	switch op {
	case "+":
		c.chunk.emit(OpAdd, line)
	case "-":
		c.chunk.emit(OpSub, line)
	case "*":
		c.chunk.emit(OpMul, line)
	case "/":
		c.chunk.emit(OpDiv, line)
	case "%":
		c.chunk.emit(OpMod, line)
	case "**":
		c.chunk.emit(OpPow, line)
	case "&":
		c.chunk.emit(OpBitAnd, line)
	case "|":
		c.chunk.emit(OpBitOr, line)
	case "^":
		c.chunk.emit(OpBitXor, line)
	case "<<":
		c.chunk.emit(OpShl, line)
	case ">>":
		c.chunk.emit(OpShr, line)
	case ">>>":
		c.chunk.emit(OpUShr, line)
	case "==":
		c.chunk.emit(OpEq, line)
	case "!=":
		c.chunk.emit(OpNeq, line)
	case "===":
		c.chunk.emit(OpStrictEq, line)
	case "!==":
		c.chunk.emit(OpStrictNeq, line)
	case "<":
		c.chunk.emit(OpLt, line)
	case "<=":
		c.chunk.emit(OpLte, line)
	case ">":
		c.chunk.emit(OpGt, line)
	case ">=":
		c.chunk.emit(OpGte, line)
	case "instanceof":
		c.chunk.emit(OpInstanceof, line)
	case "in":
		c.chunk.emit(OpIn, line)
	}
}

// compileLogical implements &&/||/?? short-circuiting with JumpIf*Keep: the
// RHS is only compiled/executed when the LHS doesn't already decide the
// result, leaving exactly one value (LHS or RHS) on the stack either way.
func (c *Compiler) compileLogical(e *ast.LogicalExpr) error {
	line := e.Pos().Line
	if err := c.compileExpr(e.Left); err != nil {
		return err
	}
	var jmp int
	switch e.Operator {
	case "&&":
		jmp = c.chunk.emit(OpJumpIfFalseKeep, line, 0)
	case "||":
		jmp = c.chunk.emit(OpJumpIfTrueKeep, line, 0)
	case "??":
		jmp = c.chunk.emit(OpJumpIfNotNullishKeep, line, 0)
	default:
		return unsupported("logical operator "+e.Operator, e)
	}
	c.chunk.emit(OpPop, line)
	if err := c.compileExpr(e.Right); err != nil {
		return err
	}
	c.chunk.patchJump(jmp)
	return nil
}

func (c *Compiler) compileConditional(e *ast.ConditionalExpr) error {
	line := e.Pos().Line
	if err := c.compileExpr(e.Cond); err != nil {
		return err
	}
	jElse := c.chunk.emit(OpJumpIfFalse, line, 0)
	if err := c.compileExpr(e.Then); err != nil {
		return err
	}
	jEnd := c.chunk.emit(OpJump, line, 0)
	c.chunk.patchJump(jElse)
	if err := c.compileExpr(e.Else); err != nil {
		return err
	}
	c.chunk.patchJump(jEnd)
	return nil
}

// compileArgs builds a single array value on the stack holding every
// argument, spreading SpreadElement entries in place — the convention every
// call/new/super opcode relies on (see chunk.go).
func (c *Compiler) compileArgs(args []ast.Expression) error {
	line := 0
	if len(args) > 0 {
		line = args[0].Pos().Line
	}
	c.chunk.emit(OpNewArray, line)
	for _, a := range args {
		if sp, ok := a.(*ast.SpreadElement); ok {
			if err := c.compileExpr(sp.Argument); err != nil {
				return err
			}
			c.chunk.emit(OpArraySpread, sp.Pos().Line)
			continue
		}
		if err := c.compileExpr(a); err != nil {
			return err
		}
		c.chunk.emit(OpArrayAppend, a.Pos().Line)
	}
	return nil
}

func (c *Compiler) compileCall(e *ast.CallExpr) error {
	line := e.Pos().Line
	if sup, ok := e.Callee.(*ast.SuperExpr); ok {
		_ = sup
		if err := c.compileArgs(e.Args); err != nil {
			return err
		}
		c.chunk.emit(OpCallSuper, line)
		return nil
	}
	if m, ok := e.Callee.(*ast.MemberExpr); ok {
		if _, isSuper := m.Object.(*ast.SuperExpr); isSuper {
			if err := c.compileArgs(e.Args); err != nil {
				return err
			}
			if m.Computed {
				return unsupported("computed super method call", e)
			}
			name := m.Property.(*ast.Identifier).Name
			c.chunk.emit(OpCallSuperMethod, line, c.chunk.addName(name))
			return nil
		}
		if err := c.compileExpr(m.Object); err != nil {
			return err
		}
		var shortJmp int
		if m.Optional {
			shortJmp = c.chunk.emit(OpJumpIfNullishKeep, line, 0)
		}
		if m.Computed {
			if err := c.compileExpr(m.Property); err != nil {
				return err
			}
			if err := c.compileArgs(e.Args); err != nil {
				return err
			}
			c.chunk.emit(OpCallMethodComputed, line)
		} else {
			name := m.Property.(*ast.Identifier).Name
			if err := c.compileArgs(e.Args); err != nil {
				return err
			}
			c.chunk.emit(OpCallMethod, line, c.chunk.addName(name))
		}
		if m.Optional {
			endJmp := c.chunk.emit(OpJump, line, 0)
			c.chunk.patchJump(shortJmp)
			c.chunk.emit(OpPop, line)
			c.chunk.emit(OpUndefined, line)
			c.chunk.patchJump(endJmp)
		}
		return nil
	}
	if err := c.compileExpr(e.Callee); err != nil {
		return err
	}
	if e.Optional {
		shortJmp := c.chunk.emit(OpJumpIfNullishKeep, line, 0)
		if err := c.compileArgs(e.Args); err != nil {
			return err
		}
		c.chunk.emit(OpCall, line)
		endJmp := c.chunk.emit(OpJump, line, 0)
		c.chunk.patchJump(shortJmp)
		c.chunk.emit(OpPop, line)
		c.chunk.emit(OpUndefined, line)
		c.chunk.patchJump(endJmp)
		return nil
	}
	if err := c.compileArgs(e.Args); err != nil {
		return err
	}
	c.chunk.emit(OpCall, line)
	return nil
}

func (c *Compiler) compileNew(e *ast.NewExpr) error {
	line := e.Pos().Line
	if err := c.compileExpr(e.Callee); err != nil {
		return err
	}
	if err := c.compileArgs(e.Args); err != nil {
		return err
	}
	c.chunk.emit(OpNew, line)
	return nil
}

// compileMemberGet compiles `obj.prop`/`obj[idx]` read access, honoring a
// single level of optional-chaining short-circuit — matching, not fixing,
// interp/eval_expressions.go's evalMember (a chained `a?.b.c` only
// short-circuits the immediate link; see DESIGN.md).
func (c *Compiler) compileMemberGet(m *ast.MemberExpr) error {
	line := m.Pos().Line
	if _, isSuper := m.Object.(*ast.SuperExpr); isSuper {
		if m.Computed {
			return unsupported("computed super property access", m)
		}
		name := m.Property.(*ast.Identifier).Name
		c.chunk.emit(OpGetSuperProp, line, c.chunk.addName(name))
		return nil
	}
	if err := c.compileExpr(m.Object); err != nil {
		return err
	}
	if m.Computed {
		if err := c.compileExpr(m.Property); err != nil {
			return err
		}
		c.chunk.emit(OpGetIndex, line)
		return nil
	}
	name := m.Property.(*ast.Identifier).Name
	if m.Optional {
		c.chunk.emit(OpGetPropOptional, line, c.chunk.addName(name))
		return nil
	}
	c.chunk.emit(OpGetProp, line, c.chunk.addName(name))
	return nil
}

func (c *Compiler) compileArrayLiteral(e *ast.ArrayLiteral) error {
	line := e.Pos().Line
	c.chunk.emit(OpNewArray, line)
	for _, el := range e.Elements {
		if el == nil {
			c.chunk.emit(OpUndefined, line)
			c.chunk.emit(OpArrayAppend, line)
			continue
		}
		if sp, ok := el.(*ast.SpreadElement); ok {
			if err := c.compileExpr(sp.Argument); err != nil {
				return err
			}
			c.chunk.emit(OpArraySpread, sp.Pos().Line)
			continue
		}
		if err := c.compileExpr(el); err != nil {
			return err
		}
		c.chunk.emit(OpArrayAppend, el.Pos().Line)
	}
	return nil
}

func (c *Compiler) compileObjectLiteral(e *ast.ObjectLiteral) error {
	line := e.Pos().Line
	c.chunk.emit(OpNewObject, line)
	for _, prop := range e.Properties {
		if prop.Spread {
			if err := c.compileExpr(prop.Value); err != nil {
				return err
			}
			c.chunk.emit(OpObjectSpread, line)
			continue
		}
		if prop.Computed {
			if err := c.compileExpr(prop.Key); err != nil {
				return err
			}
			if err := c.compileExpr(prop.Value); err != nil {
				return err
			}
			c.chunk.emit(OpObjectSetComputed, line)
			continue
		}
		name := propKeyName(prop.Key)
		if err := c.compileExpr(prop.Value); err != nil {
			return err
		}
		c.chunk.emit(OpObjectSet, line, c.chunk.addName(name))
	}
	return nil
}

func propKeyName(key ast.Expression) string {
	switch k := key.(type) {
	case *ast.Identifier:
		return k.Name
	case *ast.StringLiteral:
		return k.Value
	case *ast.NumberLiteral:
		return k.Raw
	}
	return ""
}

func (c *Compiler) compileYield(e *ast.YieldExpr) error {
	line := e.Pos().Line
	if e.Delegate {
		if err := c.compileExpr(e.Argument); err != nil {
			return err
		}
		c.chunk.emit(OpYieldDelegate, line)
		return nil
	}
	if e.Argument != nil {
		if err := c.compileExpr(e.Argument); err != nil {
			return err
		}
		c.chunk.emit(OpYield, line, 1)
	} else {
		c.chunk.emit(OpYield, line, 0)
	}
	return nil
}
