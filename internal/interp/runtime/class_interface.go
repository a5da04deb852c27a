package runtime

import "github.com/tsxlang/tsx/pkg/ast"

// ClassInfo is the runtime metadata for a declared class: its own methods,
// static members, and a link to its base class for prototype-chain-style
// method/property lookup (spec.md §5's single-inheritance class model).
//
// Grounded on the teacher's IClassInfo/ClassInfo split (class_interface.go,
// interp/class.go), collapsed to a single concrete struct since tsx has no
// migration-era legacy-field-map concern to abstract away.
type ClassInfo struct {
	Name    string
	Decl    *ast.ClassDecl
	Base    *ClassInfo
	Methods map[string]*Function // instance methods, keyed by name
	Static  *Object               // static fields/methods live on a class-level Object
	Abstract bool

	// NativeConstruct, when set, marks a builtins-package class (the Error
	// hierarchy) whose constructor is Go code rather than a parsed function
	// body. The evaluator's runConstructor calls this instead of walking
	// Methods/Decl, so `new TypeError(...)`, `instanceof`, and a user class
	// `extends`-ing a native class all go through the same ClassInfo/classRef
	// machinery as user-declared classes.
	NativeConstruct func(instance *Instance, args []Value) error
}

// LookupMethod walks the base chain for a named instance method.
func (c *ClassInfo) LookupMethod(name string) (*Function, bool) {
	for cur := c; cur != nil; cur = cur.Base {
		if m, ok := cur.Methods[name]; ok {
			return m, true
		}
	}
	return nil, false
}

// IsSubclassOf implements `instanceof` for class instances: c is assignable
// to target iff target is c or a transitive base of c.
func (c *ClassInfo) IsSubclassOf(target *ClassInfo) bool {
	for cur := c; cur != nil; cur = cur.Base {
		if cur == target {
			return true
		}
	}
	return false
}

// Instance is a constructed `new C()` value: an Object carrying field
// storage plus a back-reference to its ClassInfo for method dispatch and
// `instanceof`.
type Instance struct {
	*Object
	Class *ClassInfo
}

func NewInstance(class *ClassInfo) *Instance {
	obj := NewObject()
	return &Instance{Object: obj, Class: class}
}

func (i *Instance) TypeOf() string { return "object" }
func (i *Instance) String() string {
	if i.Class != nil {
		return "[object " + i.Class.Name + "]"
	}
	return "[object Object]"
}
