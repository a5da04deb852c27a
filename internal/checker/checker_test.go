package checker

import (
	"strings"
	"testing"

	"github.com/tsxlang/tsx/internal/lexer"
	"github.com/tsxlang/tsx/internal/parser"
)

func checkSource(t *testing.T, src string) []*Error {
	t.Helper()
	l := lexer.New(src)
	prog, perrs := parser.ParseProgram(l)
	if len(perrs) > 0 {
		t.Fatalf("parser errors: %v", perrs)
	}
	return Check(prog)
}

func hasErrorContaining(errs []*Error, substr string) bool {
	for _, e := range errs {
		if strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func TestVarDeclTypeMismatch(t *testing.T) {
	errs := checkSource(t, `let x: number = "hello";`)
	if !hasErrorContaining(errs, "not assignable") {
		t.Errorf("expected assignability error, got: %v", errs)
	}
}

func TestVarDeclInference(t *testing.T) {
	errs := checkSource(t, `let x = 5; let y: number = x;`)
	if len(errs) > 0 {
		t.Errorf("unexpected errors: %v", errs)
	}
}

func TestConstReassignmentRejected(t *testing.T) {
	errs := checkSource(t, `const x = 1; x = 2;`)
	if !hasErrorContaining(errs, "cannot assign to const") {
		t.Errorf("expected const-assignment error, got: %v", errs)
	}
}

func TestUndefinedIdentifier(t *testing.T) {
	errs := checkSource(t, `let x = y;`)
	if !hasErrorContaining(errs, "undefined identifier") {
		t.Errorf("expected undefined identifier error, got: %v", errs)
	}
}

func TestForwardReferencedInterface(t *testing.T) {
	errs := checkSource(t, `
class Box implements Container {
  value: number = 0;
}

interface Container {
  value: number;
}
`)
	if len(errs) > 0 {
		t.Errorf("unexpected errors for forward-referenced interface: %v", errs)
	}
}

func TestMutuallyRecursiveClasses(t *testing.T) {
	errs := checkSource(t, `
class Node {
  next: Link = null as any;
}

class Link extends Node {
}
`)
	if len(errs) > 0 {
		t.Errorf("unexpected errors for mutually recursive classes: %v", errs)
	}
}

func TestAbstractClassCannotBeConstructed(t *testing.T) {
	errs := checkSource(t, `
abstract class Shape {
  abstract area(): number;
}
let s = new Shape();
`)
	if !hasErrorContaining(errs, "cannot construct abstract class") {
		t.Errorf("expected abstract-construction error, got: %v", errs)
	}
}

func TestAbstractMemberMustBeImplemented(t *testing.T) {
	errs := checkSource(t, `
abstract class Shape {
  abstract area(): number;
}
class Circle extends Shape {
}
`)
	if !hasErrorContaining(errs, "does not implement abstract member") {
		t.Errorf("expected abstract-member error, got: %v", errs)
	}
}

func TestAbstractMemberImplementedNoError(t *testing.T) {
	errs := checkSource(t, `
abstract class Shape {
  abstract area(): number;
}
class Circle extends Shape {
  area(): number {
    return 1;
  }
}
`)
	if len(errs) > 0 {
		t.Errorf("unexpected errors: %v", errs)
	}
}

func TestPropertyAccessOnUnknownMember(t *testing.T) {
	errs := checkSource(t, `
class Point {
  x: number = 0;
}
let p = new Point();
let z = p.y;
`)
	if !hasErrorContaining(errs, "does not exist on type") {
		t.Errorf("expected property-resolution error, got: %v", errs)
	}
}

func TestOptionalChainingSuppressesMissingPropertyError(t *testing.T) {
	errs := checkSource(t, `
class Point {
  x: number = 0;
}
let p = new Point();
let z = p?.y;
`)
	if hasErrorContaining(errs, "does not exist on type") {
		t.Errorf("optional chaining should not report missing-property errors: %v", errs)
	}
}

func TestBreakOutsideLoop(t *testing.T) {
	errs := checkSource(t, `break;`)
	if !hasErrorContaining(errs, "'break' outside") {
		t.Errorf("expected break-outside-loop error, got: %v", errs)
	}
}

func TestBreakInsideLoopAllowed(t *testing.T) {
	errs := checkSource(t, `while (true) { break; }`)
	if len(errs) > 0 {
		t.Errorf("unexpected errors: %v", errs)
	}
}

func TestTypeAliasUnion(t *testing.T) {
	errs := checkSource(t, `
type ID = string | number;
let a: ID = "x";
let b: ID = 1;
`)
	if len(errs) > 0 {
		t.Errorf("unexpected errors: %v", errs)
	}
}

func TestArrayDestructuringInFor(t *testing.T) {
	errs := checkSource(t, `
let pairs: number[][] = [[1, 2]];
for (const [a, b] of pairs) {
  let sum: number = a + b;
}
`)
	if len(errs) > 0 {
		t.Errorf("unexpected errors: %v", errs)
	}
}
