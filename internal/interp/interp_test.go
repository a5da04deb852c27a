package interp

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tsxlang/tsx/internal/interp/runtime"
	"github.com/tsxlang/tsx/internal/lexer"
	"github.com/tsxlang/tsx/internal/parser"
	"github.com/tsxlang/tsx/pkg/ast"
)

func parseSource(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, errs := parser.ParseProgram(lexer.New(src))
	if len(errs) > 0 {
		t.Fatalf("parser errors: %v", errs)
	}
	return prog
}

func runSource(t *testing.T, src string) (*Interpreter, *bytes.Buffer, error) {
	t.Helper()
	it := New()
	var out bytes.Buffer
	it.Out = &out
	err := it.Run(parseSource(t, src))
	return it, &out, err
}

func TestVariableAndArithmetic(t *testing.T) {
	it, _, err := runSource(t, `let x = 2 + 3 * 4; let y = x;`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, ok := it.Global.Get("y")
	if !ok {
		t.Fatal("y not defined")
	}
	if v.String() != "14" {
		t.Errorf("expected 14, got %s", v.String())
	}
}

func TestConstReassignmentThrows(t *testing.T) {
	_, _, err := runSource(t, `const x = 1; x = 2;`)
	if err == nil {
		t.Fatal("expected error reassigning const")
	}
}

func TestIfElseBranching(t *testing.T) {
	it, _, err := runSource(t, `let result = 0; if (1 < 2) { result = 10; } else { result = 20; }`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := it.Global.Get("result")
	if v.String() != "10" {
		t.Errorf("expected 10, got %s", v.String())
	}
}

func TestWhileLoopAccumulates(t *testing.T) {
	it, _, err := runSource(t, `
		let i = 0;
		let sum = 0;
		while (i < 5) {
			sum = sum + i;
			i = i + 1;
		}
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := it.Global.Get("sum")
	if v.String() != "10" {
		t.Errorf("expected 10, got %s", v.String())
	}
}

func TestForLoopBreakContinue(t *testing.T) {
	it, _, err := runSource(t, `
		let total = 0;
		for (let i = 0; i < 10; i = i + 1) {
			if (i === 5) { break; }
			if (i % 2 === 0) { continue; }
			total = total + i;
		}
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := it.Global.Get("total")
	if v.String() != "4" {
		t.Errorf("expected 4 (1+3), got %s", v.String())
	}
}

// runtimeCmpOpts lets cmp.Diff compare runtime.Value trees (array/object
// elements) structurally instead of by String() rendering, which would
// hide a wrong element type behind an identical-looking string.
var runtimeCmpOpts = cmp.Comparer(func(a, b runtime.Value) bool {
	return a == b
})

func TestArrayLiteralElementsStructuralShape(t *testing.T) {
	it, _, err := runSource(t, `let xs = [1, "two", true];`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, ok := it.Global.Get("xs")
	if !ok {
		t.Fatal("xs not defined")
	}
	arr, ok := v.(*runtime.Array)
	if !ok {
		t.Fatalf("xs is a %T, want *runtime.Array", v)
	}
	want := []runtime.Value{runtime.Number(1), runtime.String("two"), runtime.True}
	if diff := cmp.Diff(want, arr.Elements, runtimeCmpOpts); diff != "" {
		t.Errorf("array elements mismatch (-want +got):\n%s", diff)
	}
}

func TestFunctionCallAndReturn(t *testing.T) {
	it, _, err := runSource(t, `
		function add(a, b) { return a + b; }
		let result = add(3, 4);
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := it.Global.Get("result")
	if v.String() != "7" {
		t.Errorf("expected 7, got %s", v.String())
	}
}

func TestClosureCapturesEnclosingScope(t *testing.T) {
	it, _, err := runSource(t, `
		function makeCounter() {
			let count = 0;
			return function() {
				count = count + 1;
				return count;
			};
		}
		let counter = makeCounter();
		let a = counter();
		let b = counter();
		let c = counter();
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := it.Global.Get("c")
	if v.String() != "3" {
		t.Errorf("expected 3, got %s", v.String())
	}
}

func TestArrowFunctionLexicalThis(t *testing.T) {
	it, _, err := runSource(t, `
		class Counter {
			value;
			constructor() { this.value = 0; }
			makeIncrementer() {
				return () => { this.value = this.value + 1; return this.value; };
			}
		}
		let c = new Counter();
		let inc = c.makeIncrementer();
		inc();
		inc();
		let final = inc();
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := it.Global.Get("final")
	if v.String() != "3" {
		t.Errorf("expected 3, got %s", v.String())
	}
}

func TestClassInheritanceAndSuper(t *testing.T) {
	it, _, err := runSource(t, `
		class Animal {
			name;
			constructor(name) { this.name = name; }
			speak() { return this.name + " makes a sound"; }
		}
		class Dog extends Animal {
			constructor(name) { super(name); }
			speak() { return super.speak() + " (bark)"; }
		}
		let d = new Dog("Rex");
		let msg = d.speak();
		let isAnimal = d instanceof Animal;
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := it.Global.Get("msg")
	if v.String() != "Rex makes a sound (bark)" {
		t.Errorf("unexpected message: %s", v.String())
	}
	b, _ := it.Global.Get("isAnimal")
	if b.String() != "true" {
		t.Errorf("expected instanceof true, got %s", b.String())
	}
}

func TestThrowCaughtByTryCatch(t *testing.T) {
	it, _, err := runSource(t, `
		let caught = "";
		try {
			throw "boom";
		} catch (e) {
			caught = e;
		} finally {
			caught = caught + "!";
		}
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := it.Global.Get("caught")
	if v.String() != "boom!" {
		t.Errorf("expected boom!, got %s", v.String())
	}
}

func TestUncaughtThrowPropagates(t *testing.T) {
	_, _, err := runSource(t, `throw "uncaught";`)
	if err == nil {
		t.Fatal("expected an uncaught throw to propagate")
	}
}

func TestArrayDestructuringAndSpread(t *testing.T) {
	it, _, err := runSource(t, `
		let [a, b, ...rest] = [1, 2, 3, 4, 5];
		let combined = [0, ...rest, 99];
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a, _ := it.Global.Get("a")
	b, _ := it.Global.Get("b")
	if a.String() != "1" || b.String() != "2" {
		t.Errorf("expected a=1 b=2, got a=%s b=%s", a.String(), b.String())
	}
}

func TestObjectDestructuringWithDefault(t *testing.T) {
	it, _, err := runSource(t, `
		let { x, y = 10 } = { x: 1 };
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	x, _ := it.Global.Get("x")
	y, _ := it.Global.Get("y")
	if x.String() != "1" || y.String() != "10" {
		t.Errorf("expected x=1 y=10, got x=%s y=%s", x.String(), y.String())
	}
}

func TestGeneratorYieldsSequence(t *testing.T) {
	it, _, err := runSource(t, `
		function* counter() {
			yield 1;
			yield 2;
			yield 3;
		}
		let gen = counter();
		let total = 0;
		for (const v of gen) {
			total = total + v;
		}
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := it.Global.Get("total")
	if v.String() != "6" {
		t.Errorf("expected 6, got %s", v.String())
	}
}

func TestAsyncAwaitResolvesThroughMicrotasks(t *testing.T) {
	it, _, err := runSource(t, `
		function resolved(v) {
			return new Promise((resolve, reject) => { resolve(v); });
		}
		async function compute() {
			let a = await resolved(2);
			let b = await resolved(3);
			return a + b;
		}
		let finalValue = 0;
		compute().then((v) => { finalValue = v; });
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := it.Global.Get("finalValue")
	if v.String() != "5" {
		t.Errorf("expected 5, got %s", v.String())
	}
}

func TestSwitchStatementFallthrough(t *testing.T) {
	it, _, err := runSource(t, `
		let out = "";
		let day = 2;
		switch (day) {
			case 1:
				out = out + "a";
			case 2:
				out = out + "b";
				break;
			case 3:
				out = out + "c";
				break;
			default:
				out = out + "z";
		}
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := it.Global.Get("out")
	if v.String() != "b" {
		t.Errorf("expected 'b', got %q", v.String())
	}
}
