package compiler

import "github.com/tsxlang/tsx/pkg/ast"

// prepareAssignTarget walks an OpAssignTarget/OpUpdate operand (an
// assignment-target expression or a binding pattern) and precompiles, into
// c.chunk.ExprChunks, every nested expression the VM will need to evaluate
// at runtime to carry out the structural assignment: a MemberExpr's
// object/computed property, a destructuring default, a computed
// object-pattern/object-literal key. Mirrors compileParamDefaults' "compile
// once, run via runBlock" strategy so vm_members.go never walks raw AST.
func (c *Compiler) prepareAssignTarget(node interface{}) error {
	switch t := node.(type) {
	case *ast.Identifier, *ast.IdentifierPattern, nil:
		return nil
	case *ast.MemberExpr:
		if err := c.precompileExprChunk(t.Object); err != nil {
			return err
		}
		if t.Computed {
			return c.precompileExprChunk(t.Property)
		}
		return nil
	case *ast.ArrayLiteral:
		for _, el := range t.Elements {
			if el == nil {
				continue
			}
			if sp, ok := el.(*ast.SpreadElement); ok {
				if err := c.prepareAssignTarget(sp.Argument); err != nil {
					return err
				}
				continue
			}
			target := ast.Expression(el)
			if assign, ok := el.(*ast.AssignmentExpr); ok && assign.Operator == "=" {
				if err := c.precompileExprChunk(assign.Value); err != nil {
					return err
				}
				target = assign.Target
			}
			if err := c.prepareAssignTarget(target); err != nil {
				return err
			}
		}
		return nil
	case *ast.ObjectLiteral:
		for _, prop := range t.Properties {
			if prop.Spread {
				if err := c.prepareAssignTarget(prop.Value); err != nil {
					return err
				}
				continue
			}
			if prop.Computed {
				if err := c.precompileExprChunk(prop.Key); err != nil {
					return err
				}
			}
			target := prop.Value
			if assign, ok := target.(*ast.AssignmentExpr); ok && assign.Operator == "=" {
				if err := c.precompileExprChunk(assign.Value); err != nil {
					return err
				}
				target = assign.Target
			}
			if err := c.prepareAssignTarget(target); err != nil {
				return err
			}
		}
		return nil
	case *ast.ArrayPattern:
		for _, el := range t.Elements {
			if el.Pattern == nil {
				continue
			}
			if el.Default != nil {
				if err := c.precompileExprChunk(el.Default); err != nil {
					return err
				}
			}
			if err := c.prepareAssignTarget(el.Pattern); err != nil {
				return err
			}
		}
		return nil
	case *ast.ObjectPattern:
		for _, prop := range t.Properties {
			if prop.Computed {
				if err := c.precompileExprChunk(prop.KeyExpr); err != nil {
					return err
				}
			}
			if prop.Default != nil {
				if err := c.precompileExprChunk(prop.Default); err != nil {
					return err
				}
			}
			if err := c.prepareAssignTarget(prop.Value); err != nil {
				return err
			}
		}
		return nil
	}
	return nil
}

func (c *Compiler) precompileExprChunk(expr ast.Expression) error {
	ch, err := c.compileStandaloneExpr(expr)
	if err != nil {
		return err
	}
	c.chunk.setExprChunk(expr, ch)
	return nil
}
