package compiler

import (
	"bytes"
	"testing"

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

func runSource(t *testing.T, src string) (*VM, *bytes.Buffer, error) {
	t.Helper()
	prog, err := CompileProgram(parseSource(t, src))
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	vm := New()
	var out bytes.Buffer
	vm.Out = &out
	return vm, &out, vm.Run(prog)
}

func TestVariableAndArithmetic(t *testing.T) {
	vm, _, err := runSource(t, `let x = 2 + 3 * 4; let y = x;`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, ok := vm.Global.Get("y")
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
	vm, _, err := runSource(t, `let result = 0; if (1 < 2) { result = 10; } else { result = 20; }`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := vm.Global.Get("result")
	if v.String() != "10" {
		t.Errorf("expected 10, got %s", v.String())
	}
}

func TestWhileLoopAccumulates(t *testing.T) {
	vm, _, err := runSource(t, `
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
	v, _ := vm.Global.Get("sum")
	if v.String() != "10" {
		t.Errorf("expected 10, got %s", v.String())
	}
}

func TestForLoopBreakContinue(t *testing.T) {
	vm, _, err := runSource(t, `
		let sum = 0;
		for (let i = 0; i < 10; i = i + 1) {
			if (i === 5) { break; }
			if (i % 2 === 0) { continue; }
			sum = sum + i;
		}
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := vm.Global.Get("sum")
	if v.String() != "4" {
		t.Errorf("expected 4, got %s", v.String())
	}
}

func TestFunctionClosureCapturesEnv(t *testing.T) {
	vm, _, err := runSource(t, `
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
	v, _ := vm.Global.Get("c")
	if v.String() != "3" {
		t.Errorf("expected 3, got %s", v.String())
	}
}

func TestArrowFunctionLexicalThis(t *testing.T) {
	vm, _, err := runSource(t, `
		class Box {
			value = 10;
			makeGetter() {
				return () => this.value;
			}
		}
		let box = new Box();
		let getter = box.makeGetter();
		let result = getter();
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := vm.Global.Get("result")
	if v.String() != "10" {
		t.Errorf("expected 10, got %s", v.String())
	}
}

func TestTryCatchFinally(t *testing.T) {
	vm, _, err := runSource(t, `
		let log = "";
		try {
			log = log + "t";
			throw new Error("boom");
		} catch (e) {
			log = log + "c:" + e.message;
		} finally {
			log = log + "f";
		}
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := vm.Global.Get("log")
	if v.String() != "tc:boomf" {
		t.Errorf("expected tc:boomf, got %s", v.String())
	}
}

func TestBreakEscapesTryFinally(t *testing.T) {
	vm, _, err := runSource(t, `
		let log = "";
		for (let i = 0; i < 3; i = i + 1) {
			try {
				if (i === 1) { break; }
				log = log + i;
			} finally {
				log = log + "f";
			}
		}
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := vm.Global.Get("log")
	if v.String() != "0ff" {
		t.Errorf("expected 0ff, got %s", v.String())
	}
}

func TestClassInheritanceAndSuper(t *testing.T) {
	vm, _, err := runSource(t, `
		class Animal {
			name;
			constructor(name) {
				this.name = name;
			}
			speak() {
				return this.name + " makes a sound";
			}
		}
		class Dog extends Animal {
			constructor(name) {
				super(name);
			}
			speak() {
				return super.speak() + " (bark)";
			}
		}
		let d = new Dog("Rex");
		let result = d.speak();
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := vm.Global.Get("result")
	if v.String() != "Rex makes a sound (bark)" {
		t.Errorf("unexpected result: %s", v.String())
	}
}

func TestClassStaticMembers(t *testing.T) {
	vm, _, err := runSource(t, `
		class Counter {
			static count = 0;
			static increment() {
				Counter.count = Counter.count + 1;
				return Counter.count;
			}
		}
		let a = Counter.increment();
		let b = Counter.increment();
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := vm.Global.Get("b")
	if v.String() != "2" {
		t.Errorf("expected 2, got %s", v.String())
	}
}

func TestArrayAndObjectDestructuring(t *testing.T) {
	vm, _, err := runSource(t, `
		let [a, b, ...rest] = [1, 2, 3, 4];
		let { x, y: renamed = 99 } = { x: 5 };
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	restVal, _ := vm.Global.Get("rest")
	if restVal.String() != "3,4" {
		t.Errorf("expected rest=3,4, got %s", restVal.String())
	}
	renamed, _ := vm.Global.Get("renamed")
	if renamed.String() != "99" {
		t.Errorf("expected renamed default 99, got %s", renamed.String())
	}
}

func TestSpreadInArrayAndObject(t *testing.T) {
	vm, _, err := runSource(t, `
		let a = [1, 2];
		let b = [...a, 3];
		let o1 = { x: 1 };
		let o2 = { ...o1, y: 2 };
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _ := vm.Global.Get("b")
	if b.String() != "1,2,3" {
		t.Errorf("expected 1,2,3, got %s", b.String())
	}
}

func TestForOfIteratesArray(t *testing.T) {
	vm, _, err := runSource(t, `
		let sum = 0;
		for (const v of [1, 2, 3]) {
			sum = sum + v;
		}
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := vm.Global.Get("sum")
	if v.String() != "6" {
		t.Errorf("expected 6, got %s", v.String())
	}
}

func TestForInIteratesKeys(t *testing.T) {
	vm, _, err := runSource(t, `
		let keys = "";
		for (const k in { a: 1, b: 2 }) {
			keys = keys + k;
		}
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := vm.Global.Get("keys")
	if v.String() != "ab" {
		t.Errorf("expected ab, got %s", v.String())
	}
}

func TestGeneratorYieldsSequence(t *testing.T) {
	vm, _, err := runSource(t, `
		function* counter() {
			yield 1;
			yield 2;
			yield 3;
		}
		let total = 0;
		for (const v of counter()) {
			total = total + v;
		}
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := vm.Global.Get("total")
	if v.String() != "6" {
		t.Errorf("expected 6, got %s", v.String())
	}
}

func TestAsyncAwaitResolvesPromiseChain(t *testing.T) {
	vm, _, err := runSource(t, `
		async function fetchValue() {
			return 41;
		}
		async function run() {
			const v = await fetchValue();
			return v + 1;
		}
		let result;
		run().then(function(v) { result = v; });
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, ok := vm.Global.Get("result")
	if !ok {
		t.Fatal("result not defined")
	}
	if v.String() != "42" {
		t.Errorf("expected 42, got %s", v.String())
	}
}

func TestUpdateExpressionsOnMemberTargets(t *testing.T) {
	vm, _, err := runSource(t, `
		let obj = { count: 0 };
		let pre = ++obj.count;
		let post = obj.count++;
		let final = obj.count;
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pre, _ := vm.Global.Get("pre")
	post, _ := vm.Global.Get("post")
	final, _ := vm.Global.Get("final")
	if pre.String() != "1" || post.String() != "1" || final.String() != "2" {
		t.Errorf("expected pre=1 post=1 final=2, got pre=%s post=%s final=%s", pre.String(), post.String(), final.String())
	}
}

func TestConsoleLogWritesToHostSink(t *testing.T) {
	_, out, err := runSource(t, `console.log("hello", 42);`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "hello 42\n" {
		t.Errorf("unexpected console output: %q", out.String())
	}
}

func TestThrownErrorIsInstanceOfError(t *testing.T) {
	vm, _, err := runSource(t, `
		let caught = false;
		try {
			throw new TypeError("nope");
		} catch (e) {
			caught = e instanceof Error;
		}
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := vm.Global.Get("caught")
	if v.String() != "true" {
		t.Errorf("expected caught=true, got %s", v.String())
	}
}
