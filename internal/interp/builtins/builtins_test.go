package builtins_test

import (
	"bytes"
	"testing"

	"github.com/tsxlang/tsx/internal/interp"
	"github.com/tsxlang/tsx/internal/interp/builtins"
	"github.com/tsxlang/tsx/internal/lexer"
	"github.com/tsxlang/tsx/internal/parser"
)

func run(t *testing.T, src string) (*interp.Interpreter, *bytes.Buffer, error) {
	t.Helper()
	prog, errs := parser.ParseProgram(lexer.New(src))
	if len(errs) > 0 {
		t.Fatalf("parser errors: %v", errs)
	}
	it := interp.New()
	var out bytes.Buffer
	it.Out = &out
	builtins.Install(it)
	err := it.Run(prog)
	return it, &out, err
}

func global(t *testing.T, it *interp.Interpreter, name string) string {
	t.Helper()
	v, ok := it.Global.Get(name)
	if !ok {
		t.Fatalf("%s not defined", name)
	}
	return v.String()
}

func TestConsoleLogWritesToOut(t *testing.T) {
	_, out, err := run(t, `console.log("hello", 42);`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "hello 42\n" {
		t.Errorf("unexpected console output: %q", out.String())
	}
}

func TestMathBasics(t *testing.T) {
	it, _, err := run(t, `
		let a = Math.floor(4.7);
		let b = Math.max(1, 5, 3);
		let c = Math.min(1, 5, 3);
		let d = Math.pow(2, 10);
		let e = Math.abs(-3);
		let pi = Math.PI;
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if global(t, it, "a") != "4" {
		t.Errorf("floor: got %s", global(t, it, "a"))
	}
	if global(t, it, "b") != "5" {
		t.Errorf("max: got %s", global(t, it, "b"))
	}
	if global(t, it, "c") != "1" {
		t.Errorf("min: got %s", global(t, it, "c"))
	}
	if global(t, it, "d") != "1024" {
		t.Errorf("pow: got %s", global(t, it, "d"))
	}
	if global(t, it, "e") != "3" {
		t.Errorf("abs: got %s", global(t, it, "e"))
	}
	if global(t, it, "pi") != "3.141592653589793" {
		t.Errorf("PI: got %s", global(t, it, "pi"))
	}
}

func TestJSONRoundTrip(t *testing.T) {
	it, _, err := run(t, `
		let obj = { a: 1, b: "two", c: [1, 2, 3], d: true, e: null };
		let text = JSON.stringify(obj);
		let back = JSON.parse(text);
		let ok = back.a === 1 && back.b === "two" && back.c[2] === 3 && back.d === true;
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if global(t, it, "ok") != "true" {
		t.Errorf("round trip mismatch")
	}
}

func TestObjectStatics(t *testing.T) {
	it, _, err := run(t, `
		let o = { x: 1, y: 2 };
		let keys = Object.keys(o);
		let values = Object.values(o);
		let hasX = o.hasOwnProperty("x");
		let hasZ = o.hasOwnProperty("z");
		let frozen = Object.freeze(o);
		let isFrozen = Object.isFrozen(o);
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if global(t, it, "keys") != "x,y" {
		t.Errorf("keys: got %s", global(t, it, "keys"))
	}
	if global(t, it, "values") != "1,2" {
		t.Errorf("values: got %s", global(t, it, "values"))
	}
	if global(t, it, "hasX") != "true" || global(t, it, "hasZ") != "false" {
		t.Errorf("hasOwnProperty mismatch")
	}
	if global(t, it, "isFrozen") != "true" {
		t.Errorf("isFrozen: got %s", global(t, it, "isFrozen"))
	}
}

func TestArrayPrototypeMethods(t *testing.T) {
	it, _, err := run(t, `
		let a = [3, 1, 2];
		a.push(4);
		let sorted = [...a].sort();
		let mapped = a.map((x) => x * 2);
		let sum = a.reduce((acc, x) => acc + x, 0);
		let found = a.find((x) => x > 2);
		let joined = a.join("-");
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if global(t, it, "sorted") != "1,2,3,4" {
		t.Errorf("sort: got %s", global(t, it, "sorted"))
	}
	if global(t, it, "mapped") != "6,2,4,8" {
		t.Errorf("map: got %s", global(t, it, "mapped"))
	}
	if global(t, it, "sum") != "10" {
		t.Errorf("reduce: got %s", global(t, it, "sum"))
	}
	if global(t, it, "found") != "3" {
		t.Errorf("find: got %s", global(t, it, "found"))
	}
	if global(t, it, "joined") != "3-1-2-4" {
		t.Errorf("join: got %s", global(t, it, "joined"))
	}
}

func TestStringPrototypeMethods(t *testing.T) {
	it, _, err := run(t, `
		let s = "  Hello World  ";
		let trimmed = s.trim();
		let upper = trimmed.toUpperCase();
		let lower = trimmed.toLowerCase();
		let has = trimmed.includes("World");
		let padded = "7".padStart(3, "0");
		let parts = "a,b,c".split(",");
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if global(t, it, "trimmed") != "Hello World" {
		t.Errorf("trim: got %q", global(t, it, "trimmed"))
	}
	if global(t, it, "upper") != "HELLO WORLD" {
		t.Errorf("toUpperCase: got %q", global(t, it, "upper"))
	}
	if global(t, it, "lower") != "hello world" {
		t.Errorf("toLowerCase: got %q", global(t, it, "lower"))
	}
	if global(t, it, "has") != "true" {
		t.Errorf("includes: got %s", global(t, it, "has"))
	}
	if global(t, it, "padded") != "007" {
		t.Errorf("padStart: got %q", global(t, it, "padded"))
	}
	if global(t, it, "parts") != "a,b,c" {
		t.Errorf("split: got %s", global(t, it, "parts"))
	}
}

func TestErrorHierarchyAndInstanceof(t *testing.T) {
	it, _, err := run(t, `
		let caught = null;
		try {
			throw new TypeError("bad type");
		} catch (e) {
			caught = e;
		}
		let isTypeError = caught instanceof TypeError;
		let isError = caught instanceof Error;
		let message = caught.message;
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if global(t, it, "isTypeError") != "true" {
		t.Errorf("instanceof TypeError: got %s", global(t, it, "isTypeError"))
	}
	if global(t, it, "isError") != "true" {
		t.Errorf("instanceof Error: got %s", global(t, it, "isError"))
	}
	if global(t, it, "message") != "bad type" {
		t.Errorf("message: got %s", global(t, it, "message"))
	}
}

func TestInternalThrowSatisfiesInstanceof(t *testing.T) {
	it, _, err := run(t, `
		let caught = null;
		try {
			null.foo;
		} catch (e) {
			caught = e;
		}
		let isTypeError = caught instanceof TypeError;
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if global(t, it, "isTypeError") != "true" {
		t.Errorf("internally-thrown TypeError should satisfy instanceof, got %s", global(t, it, "isTypeError"))
	}
}

func TestSubclassingNativeError(t *testing.T) {
	it, _, err := run(t, `
		class MyError extends Error {
			constructor(msg) { super(msg); this.name = "MyError"; }
		}
		let e = new MyError("custom");
		let isError = e instanceof Error;
		let name = e.name;
		let message = e.message;
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if global(t, it, "isError") != "true" {
		t.Errorf("expected MyError instanceof Error, got %s", global(t, it, "isError"))
	}
	if global(t, it, "name") != "MyError" {
		t.Errorf("name: got %s", global(t, it, "name"))
	}
	if global(t, it, "message") != "custom" {
		t.Errorf("message: got %s", global(t, it, "message"))
	}
}

func TestMapBasics(t *testing.T) {
	it, _, err := run(t, `
		let m = new Map();
		m.set("a", 1);
		m.set("b", 2);
		let size = m.size;
		let hasA = m.has("a");
		m.delete("a");
		let hasAAfter = m.has("a");
		let fromEntries = new Map([["x", 1], ["y", 2]]);
		let sizeFromEntries = fromEntries.size;
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if global(t, it, "size") != "2" {
		t.Errorf("size: got %s", global(t, it, "size"))
	}
	if global(t, it, "hasA") != "true" {
		t.Errorf("has before delete: got %s", global(t, it, "hasA"))
	}
	if global(t, it, "hasAAfter") != "false" {
		t.Errorf("has after delete: got %s", global(t, it, "hasAAfter"))
	}
	if global(t, it, "sizeFromEntries") != "2" {
		t.Errorf("sizeFromEntries: got %s", global(t, it, "sizeFromEntries"))
	}
}

func TestSetBasics(t *testing.T) {
	it, _, err := run(t, `
		let s = new Set([1, 2, 2, 3]);
		let size = s.size;
		let hasTwo = s.has(2);
		s.delete(2);
		let hasTwoAfter = s.has(2);
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if global(t, it, "size") != "3" {
		t.Errorf("size (dedup): got %s", global(t, it, "size"))
	}
	if global(t, it, "hasTwo") != "true" {
		t.Errorf("has before delete: got %s", global(t, it, "hasTwo"))
	}
	if global(t, it, "hasTwoAfter") != "false" {
		t.Errorf("has after delete: got %s", global(t, it, "hasTwoAfter"))
	}
}

func TestWeakMapRequiresObjectKey(t *testing.T) {
	_, _, err := run(t, `
		let w = new WeakMap();
		w.set("not an object", 1);
	`)
	if err == nil {
		t.Fatal("expected WeakMap.set with a primitive key to throw")
	}
}

func TestGlobalParseFunctions(t *testing.T) {
	it, _, err := run(t, `
		let n = parseInt("42px");
		let hex = parseInt("ff", 16);
		let f = parseFloat("3.14abc");
		let nan = isNaN(parseInt("notanumber"));
		let finite = isFinite(1);
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if global(t, it, "n") != "42" {
		t.Errorf("parseInt: got %s", global(t, it, "n"))
	}
	if global(t, it, "hex") != "255" {
		t.Errorf("parseInt radix 16: got %s", global(t, it, "hex"))
	}
	if global(t, it, "f") != "3.14" {
		t.Errorf("parseFloat: got %s", global(t, it, "f"))
	}
	if global(t, it, "nan") != "true" {
		t.Errorf("isNaN: got %s", global(t, it, "nan"))
	}
	if global(t, it, "finite") != "true" {
		t.Errorf("isFinite: got %s", global(t, it, "finite"))
	}
}
