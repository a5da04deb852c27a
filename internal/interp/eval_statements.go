package interp

import (
	"fmt"

	"github.com/tsxlang/tsx/internal/interp/runtime"
	"github.com/tsxlang/tsx/pkg/ast"
)

// hoist registers every function and class declared in stmts before any
// statement executes, so forward references and mutual recursion between
// top-level/block-level declarations resolve regardless of source order
// (mirrors internal/checker's hoistDeclarations pass ordering).
func (it *Interpreter) hoist(stmts []ast.Statement, env *runtime.Environment) {
	for _, stmt := range stmts {
		if cd, ok := stmt.(*ast.ClassDecl); ok {
			it.Classes[cd.Name] = &runtime.ClassInfo{Name: cd.Name, Decl: cd, Methods: map[string]*runtime.Function{}, Static: runtime.NewObject(), Abstract: cd.Abstract}
		}
	}
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.ClassDecl:
			it.populateClass(s, env)
		case *ast.FunctionDecl:
			fn := it.makeFunction(s.Function, env)
			env.Define(s.Function.Name, fn, true)
		}
	}
}

func (it *Interpreter) populateClass(decl *ast.ClassDecl, env *runtime.Environment) {
	info := it.Classes[decl.Name]
	it.classEnv[info] = env
	if decl.SuperClass != nil {
		if ident, ok := decl.SuperClass.(*ast.Identifier); ok {
			if base, ok := it.Classes[ident.Name]; ok {
				info.Base = base
			}
		}
	}
	for _, m := range decl.Members {
		if m.Static {
			continue // static members are materialized by execClassDecl below
		}
		switch m.Kind {
		case ast.MemberMethod, ast.MemberConstructor, ast.MemberGetter, ast.MemberSetter:
			if m.Body == nil {
				continue
			}
			fnExpr := &ast.FunctionExpr{Name: m.Name, Params: m.Params, Body: m.Body, Generator: m.Generator, Async: m.Async}
			info.Methods[methodKey(m)] = it.makeFunction(fnExpr, env)
		}
	}
}

// methodKey disambiguates getter/setter pairs sharing a property name.
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

// execStatement executes one statement. A non-nil *ctrlSignal error is
// used for return/break/continue; any other error is a thrown
// runtime.Exception or an internal Go error (stack overflow etc).
func (it *Interpreter) execStatement(stmt ast.Statement, env *runtime.Environment) (runtime.Value, error) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		return nil, it.execVarDecl(s, env)
	case *ast.FunctionDecl:
		return nil, nil // handled during hoist
	case *ast.ClassDecl:
		return nil, it.execClassDecl(s, env)
	case *ast.InterfaceDecl, *ast.TypeAliasDecl:
		return nil, nil
	case *ast.IfStmt:
		cond, err := it.evalExpr(s.Cond, env)
		if err != nil {
			return nil, err
		}
		if runtime.Truthy(cond) {
			return it.execStatement(s.Then, env)
		} else if s.Else != nil {
			return it.execStatement(s.Else, env)
		}
		return nil, nil
	case *ast.WhileStmt:
		return it.execWhile(s, env)
	case *ast.DoWhileStmt:
		return it.execDoWhile(s, env)
	case *ast.ForStmt:
		return it.execFor(s, env)
	case *ast.ForOfStmt:
		return it.execForOf(s, env)
	case *ast.ForInStmt:
		return it.execForIn(s, env)
	case *ast.ReturnStmt:
		var val runtime.Value = runtime.UndefinedValue
		if s.Argument != nil {
			v, err := it.evalExpr(s.Argument, env)
			if err != nil {
				return nil, err
			}
			val = v
		}
		return nil, &ctrlSignal{kind: ctrlReturn, value: val}
	case *ast.ThrowStmt:
		v, err := it.evalExpr(s.Argument, env)
		if err != nil {
			return nil, err
		}
		return nil, &runtime.Exception{Thrown: v, Pos: s.Pos()}
	case *ast.TryStmt:
		return it.execTry(s, env)
	case *ast.BreakStmt:
		return nil, &ctrlSignal{kind: ctrlBreak, label: s.Label}
	case *ast.ContinueStmt:
		return nil, &ctrlSignal{kind: ctrlContinue, label: s.Label}
	case *ast.SwitchStmt:
		return it.execSwitch(s, env)
	case *ast.BlockStmt:
		inner := runtime.NewEnclosedEnvironment(env)
		it.hoist(s.Statements, inner)
		return it.execStatements(s.Statements, inner)
	case *ast.ExprStmt:
		_, err := it.evalExpr(s.Expr, env)
		return nil, err
	case *ast.ImportDecl, *ast.ReferenceDirective:
		return nil, nil // resolved by internal/loader before Run
	case *ast.ExportDecl:
		if s.Decl != nil {
			return it.execStatement(s.Decl, env)
		}
		return nil, nil
	}
	return nil, fmt.Errorf("interp: unhandled statement %T", stmt)
}

func (it *Interpreter) execStatements(stmts []ast.Statement, env *runtime.Environment) (runtime.Value, error) {
	for _, s := range stmts {
		if _, err := it.execStatement(s, env); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func (it *Interpreter) execVarDecl(s *ast.VarDecl, env *runtime.Environment) error {
	for _, d := range s.Declarators {
		var val runtime.Value = runtime.UndefinedValue
		if d.Init != nil {
			v, err := it.evalExpr(d.Init, env)
			if err != nil {
				return err
			}
			val = v
		}
		if err := it.bindPattern(d.Pattern, val, env, s.Kind == ast.DeclConst); err != nil {
			return err
		}
	}
	return nil
}

func (it *Interpreter) bindPattern(pat ast.Pattern, val runtime.Value, env *runtime.Environment, isConst bool) error {
	switch p := pat.(type) {
	case *ast.IdentifierPattern:
		env.Define(p.Name, val, isConst)
		return nil
	case *ast.ArrayPattern:
		arr, _ := val.(*runtime.Array)
		for i, el := range p.Elements {
			if el.Pattern == nil {
				continue
			}
			if el.Rest {
				var rest []runtime.Value
				if arr != nil && i < len(arr.Elements) {
					rest = append(rest, arr.Elements[i:]...)
				}
				if err := it.bindPattern(el.Pattern, runtime.NewArray(rest...), env, isConst); err != nil {
					return err
				}
				continue
			}
			var elemVal runtime.Value = runtime.UndefinedValue
			if arr != nil && i < len(arr.Elements) && arr.Elements[i] != nil {
				elemVal = arr.Elements[i]
			}
			if _, isUndef := elemVal.(runtime.Undefined); isUndef && el.Default != nil {
				v, err := it.evalExpr(el.Default, env)
				if err != nil {
					return err
				}
				elemVal = v
			}
			if err := it.bindPattern(el.Pattern, elemVal, env, isConst); err != nil {
				return err
			}
		}
		return nil
	case *ast.ObjectPattern:
		obj, _ := val.(*runtime.Object)
		taken := map[string]bool{}
		for _, prop := range p.Properties {
			if prop.Rest {
				rest := runtime.NewObject()
				if obj != nil {
					for _, k := range obj.OwnKeys() {
						if !taken[k] {
							v, _ := obj.Get(k, obj)
							rest.DefineData(k, v, true, true, true)
						}
					}
				}
				if err := it.bindPattern(prop.Value, rest, env, isConst); err != nil {
					return err
				}
				continue
			}
			taken[prop.Key] = true
			var v runtime.Value = runtime.UndefinedValue
			if obj != nil {
				if got, ok := obj.Get(prop.Key, obj); ok {
					v = got
				}
			}
			if _, isUndef := v.(runtime.Undefined); isUndef && prop.Default != nil {
				def, err := it.evalExpr(prop.Default, env)
				if err != nil {
					return err
				}
				v = def
			}
			if err := it.bindPattern(prop.Value, v, env, isConst); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("interp: unsupported binding pattern %T", pat)
}

func (it *Interpreter) execWhile(s *ast.WhileStmt, env *runtime.Environment) (runtime.Value, error) {
	for {
		cond, err := it.evalExpr(s.Cond, env)
		if err != nil {
			return nil, err
		}
		if !runtime.Truthy(cond) {
			return nil, nil
		}
		if _, err := it.execStatement(s.Body, env); err != nil {
			if sig, ok := asSignal(err); ok {
				if sig.kind == ctrlBreak && sig.label == "" {
					return nil, nil
				}
				if sig.kind == ctrlContinue && sig.label == "" {
					continue
				}
			}
			return nil, err
		}
	}
}

func (it *Interpreter) execDoWhile(s *ast.DoWhileStmt, env *runtime.Environment) (runtime.Value, error) {
	for {
		if _, err := it.execStatement(s.Body, env); err != nil {
			if sig, ok := asSignal(err); ok {
				if sig.kind == ctrlBreak && sig.label == "" {
					return nil, nil
				}
				if sig.kind == ctrlContinue && sig.label == "" {
					goto checkCond
				}
			}
			return nil, err
		}
	checkCond:
		cond, err := it.evalExpr(s.Cond, env)
		if err != nil {
			return nil, err
		}
		if !runtime.Truthy(cond) {
			return nil, nil
		}
	}
}

func (it *Interpreter) execFor(s *ast.ForStmt, env *runtime.Environment) (runtime.Value, error) {
	loopEnv := runtime.NewEnclosedEnvironment(env)
	if vd, ok := s.Init.(*ast.VarDecl); ok {
		if err := it.execVarDecl(vd, loopEnv); err != nil {
			return nil, err
		}
	} else if es, ok := s.Init.(*ast.ExprStmt); ok {
		if _, err := it.evalExpr(es.Expr, loopEnv); err != nil {
			return nil, err
		}
	}
	for {
		if s.Cond != nil {
			cond, err := it.evalExpr(s.Cond, loopEnv)
			if err != nil {
				return nil, err
			}
			if !runtime.Truthy(cond) {
				return nil, nil
			}
		}
		if _, err := it.execStatement(s.Body, loopEnv); err != nil {
			if sig, ok := asSignal(err); ok {
				if sig.kind == ctrlBreak && sig.label == "" {
					return nil, nil
				}
				if sig.kind == ctrlContinue && sig.label == "" {
					goto post
				}
			}
			return nil, err
		}
	post:
		if s.Post != nil {
			if _, err := it.evalExpr(s.Post, loopEnv); err != nil {
				return nil, err
			}
		}
	}
}

func (it *Interpreter) execForOf(s *ast.ForOfStmt, env *runtime.Environment) (runtime.Value, error) {
	iterable, err := it.evalExpr(s.Iterable, env)
	if err != nil {
		return nil, err
	}
	it2, ok := iterable.(runtime.IterableValue)
	if !ok {
		return nil, runtime.ThrowTypeError("%s is not iterable", iterable.TypeOf())
	}
	iter := it2.Iterator()
	for {
		val, done := iter.Next()
		if done {
			return nil, nil
		}
		loopEnv := runtime.NewEnclosedEnvironment(env)
		if err := it.bindPattern(s.Pattern, val, loopEnv, s.Kind == ast.DeclConst); err != nil {
			return nil, err
		}
		if _, err := it.execStatement(s.Body, loopEnv); err != nil {
			if sig, ok := asSignal(err); ok {
				if sig.kind == ctrlBreak && sig.label == "" {
					return nil, nil
				}
				if sig.kind == ctrlContinue && sig.label == "" {
					continue
				}
			}
			return nil, err
		}
	}
}

func (it *Interpreter) execForIn(s *ast.ForInStmt, env *runtime.Environment) (runtime.Value, error) {
	obj, err := it.evalExpr(s.Object, env)
	if err != nil {
		return nil, err
	}
	var keys []string
	switch o := obj.(type) {
	case *runtime.Object:
		keys = o.OwnKeys()
	case *runtime.Instance:
		keys = o.OwnKeys()
	case *runtime.Array:
		for i := range o.Elements {
			keys = append(keys, fmt.Sprintf("%d", i))
		}
	}
	for _, k := range keys {
		loopEnv := runtime.NewEnclosedEnvironment(env)
		if err := it.bindPattern(s.Pattern, runtime.String(k), loopEnv, s.Kind == ast.DeclConst); err != nil {
			return nil, err
		}
		if _, err := it.execStatement(s.Body, loopEnv); err != nil {
			if sig, ok := asSignal(err); ok {
				if sig.kind == ctrlBreak && sig.label == "" {
					return nil, nil
				}
				if sig.kind == ctrlContinue && sig.label == "" {
					continue
				}
			}
			return nil, err
		}
	}
	return nil, nil
}

func (it *Interpreter) execTry(s *ast.TryStmt, env *runtime.Environment) (runtime.Value, error) {
	_, err := it.execStatement(s.Block, env)
	if err != nil {
		if _, isSignal := asSignal(err); !isSignal {
			if exc, ok := err.(*runtime.Exception); ok && s.Catch != nil {
				catchEnv := runtime.NewEnclosedEnvironment(env)
				if s.Catch.Param != nil {
					if bindErr := it.bindPattern(s.Catch.Param, exc.Thrown, catchEnv, false); bindErr != nil {
						return nil, bindErr
					}
				}
				_, err = it.execStatement(s.Catch.Body, catchEnv)
			}
		}
	}
	if s.Finally != nil {
		if _, ferr := it.execStatement(s.Finally, env); ferr != nil {
			return nil, ferr
		}
	}
	return nil, err
}

func (it *Interpreter) execSwitch(s *ast.SwitchStmt, env *runtime.Environment) (runtime.Value, error) {
	disc, err := it.evalExpr(s.Discriminant, env)
	if err != nil {
		return nil, err
	}
	switchEnv := runtime.NewEnclosedEnvironment(env)
	matched := false
	for _, c := range s.Cases {
		if !matched {
			if c.Test == nil {
				continue // defer default until no case matches
			}
			testVal, err := it.evalExpr(c.Test, switchEnv)
			if err != nil {
				return nil, err
			}
			if !strictEquals(disc, testVal) {
				continue
			}
			matched = true
		}
		for _, st := range c.Statements {
			if _, err := it.execStatement(st, switchEnv); err != nil {
				if sig, ok := asSignal(err); ok && sig.kind == ctrlBreak && sig.label == "" {
					return nil, nil
				}
				return nil, err
			}
		}
	}
	if matched {
		return nil, nil
	}
	// No case matched: run the default arm (and everything after it).
	inDefault := false
	for _, c := range s.Cases {
		if c.Test == nil {
			inDefault = true
		}
		if !inDefault {
			continue
		}
		for _, st := range c.Statements {
			if _, err := it.execStatement(st, switchEnv); err != nil {
				if sig, ok := asSignal(err); ok && sig.kind == ctrlBreak && sig.label == "" {
					return nil, nil
				}
				return nil, err
			}
		}
	}
	return nil, nil
}
