package interp

import (
	"github.com/tsxlang/tsx/internal/interp/runtime"
	"github.com/tsxlang/tsx/pkg/ast"
)

// classRef wraps a *runtime.ClassInfo as a runtime.Value so it can travel
// through an Environment the same way @@yield/@@await do, giving super(...)
// and super.method() calls a way to find their base class without a
// dedicated construction-context parameter threaded through every eval call.
type classRef struct{ info *runtime.ClassInfo }

func (classRef) TypeOf() string { return "object" }
func (classRef) String() string { return "[object Function]" }

// execClassDecl materializes a class's static surface (hoist's populateClass
// pass already built the instance method table and base link, since those
// must be visible before the class's own body runs for forward references).
func (it *Interpreter) execClassDecl(decl *ast.ClassDecl, env *runtime.Environment) error {
	info, ok := it.Classes[decl.Name]
	if !ok {
		return nil
	}
	it.classEnv[info] = env
	staticEnv := runtime.NewEnclosedEnvironment(env)
	staticEnv.Define("this", info.Static, true)
	for _, m := range decl.Members {
		if !m.Static {
			continue
		}
		switch m.Kind {
		case ast.MemberField:
			var val runtime.Value = runtime.UndefinedValue
			if m.Value != nil {
				v, err := it.evalExpr(m.Value, staticEnv)
				if err != nil {
					return err
				}
				val = v
			}
			info.Static.DefineData(m.Name, val, !m.Readonly, true, true)
		case ast.MemberMethod, ast.MemberGetter, ast.MemberSetter:
			if m.Body == nil {
				continue
			}
			fnExpr := &ast.FunctionExpr{Name: m.Name, Params: m.Params, Body: m.Body, Generator: m.Generator, Async: m.Async}
			fn := it.makeFunction(fnExpr, env)
			switch m.Kind {
			case ast.MemberGetter:
				info.Static.DefineAccessor(m.Name, fn, nil, true, true)
			case ast.MemberSetter:
				info.Static.DefineAccessor(m.Name, nil, fn, true, true)
			default:
				info.Static.DefineData(m.Name, fn, true, true, true)
			}
		case ast.MemberStaticBlock:
			blockEnv := runtime.NewEnclosedEnvironment(staticEnv)
			if _, err := it.execStatements(m.StaticBody, blockEnv); err != nil {
				return err
			}
		}
	}
	if name := decl.Name; name != "" {
		env.Define(name, classRef{info}, true)
	}
	return nil
}

// instantiate builds a new instance of classInfo and runs its constructor
// chain, rejecting construction of an abstract class as a runtime backstop
// to the checker's static abstract-class check.
func (it *Interpreter) instantiate(classInfo *runtime.ClassInfo, args []runtime.Value) (*runtime.Instance, error) {
	if classInfo.Abstract {
		return nil, runtime.ThrowTypeError("cannot create an instance of abstract class %s", classInfo.Name)
	}
	instance := runtime.NewInstance(classInfo)
	if err := it.runConstructor(classInfo, instance, args); err != nil {
		return nil, err
	}
	return instance, nil
}

// runConstructor runs classInfo's constructor (or, absent one, forwards
// args to the base constructor and initializes classInfo's own fields —
// the implicit default-constructor behavior).
func (it *Interpreter) runConstructor(classInfo *runtime.ClassInfo, instance *runtime.Instance, args []runtime.Value) error {
	if classInfo.NativeConstruct != nil {
		return classInfo.NativeConstruct(instance, args)
	}
	ctor, hasCtor := classInfo.Methods["constructor"]
	if !hasCtor {
		if classInfo.Base != nil {
			if err := it.runConstructor(classInfo.Base, instance, args); err != nil {
				return err
			}
		}
		return it.initOwnFields(classInfo, instance)
	}
	fnExpr, _ := ctor.Node.(*ast.FunctionExpr)
	if fnExpr == nil {
		return it.initOwnFields(classInfo, instance)
	}
	callEnv := runtime.NewEnclosedEnvironment(ctor.Closure)
	if err := it.bindParams(fnExpr.Params, args, callEnv); err != nil {
		return err
	}
	callEnv.Define("this", instance, true)
	callEnv.Define("@@ownclass", classRef{classInfo}, true)
	if classInfo.Base != nil {
		callEnv.Define("@@superclass", classRef{classInfo.Base}, true)
	} else {
		if err := it.initOwnFields(classInfo, instance); err != nil {
			return err
		}
	}
	it.hoist(fnExpr.Body.Statements, callEnv)
	_, err := it.execStatements(fnExpr.Body.Statements, callEnv)
	if err != nil {
		if sig, ok := asSignal(err); ok && sig.kind == ctrlReturn {
			return nil
		}
		return err
	}
	return nil
}

// initOwnFields runs classInfo's own (non-static) field initializers
// against instance, in the environment classInfo was declared in so field
// initializers can close over module-level bindings.
func (it *Interpreter) initOwnFields(classInfo *runtime.ClassInfo, instance *runtime.Instance) error {
	declEnv, ok := it.classEnv[classInfo]
	if !ok {
		declEnv = it.Global
	}
	if classInfo.Decl == nil {
		return nil
	}
	fieldEnv := runtime.NewEnclosedEnvironment(declEnv)
	fieldEnv.Define("this", instance, true)
	for _, m := range classInfo.Decl.Members {
		if m.Static || m.Kind != ast.MemberField {
			continue
		}
		var val runtime.Value = runtime.UndefinedValue
		if m.Value != nil {
			v, err := it.evalExpr(m.Value, fieldEnv)
			if err != nil {
				return err
			}
			val = v
		}
		instance.DefineData(m.Name, val, !m.Readonly, true, true)
	}
	return nil
}

// lookupInstanceMember implements the property-resolution chain for
// instances: own/inherited data properties first, then the class method
// table, mirroring DESIGN.md's "own props -> symbol map -> class method
// table -> builtin method table -> undefined" order (the builtin table is
// consulted by evalMember once this returns a miss).
func lookupInstanceMember(instance *runtime.Instance, name string) (runtime.Value, bool) {
	if v, ok := instance.Object.Get(name, instance); ok {
		return v, true
	}
	if instance.Class != nil {
		if fn, ok := instance.Class.LookupMethod(name); ok {
			return fn, true
		}
	}
	return nil, false
}
