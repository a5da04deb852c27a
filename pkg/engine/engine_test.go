package engine

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunInterpretMode(t *testing.T) {
	out, err := Run(`console.log(2 + 3 * 4);`, "", Options{Mode: Interpret})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "14\n" {
		t.Errorf("expected 14\\n, got %q", out)
	}
}

func TestRunCompileMode(t *testing.T) {
	out, err := Run(`console.log(2 + 3 * 4);`, "", Options{Mode: Compile})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "14\n" {
		t.Errorf("expected 14\\n, got %q", out)
	}
}

func TestRunBothModesProduceIdenticalStdout(t *testing.T) {
	source := `
		function fib(n) {
			if (n < 2) { return n; }
			return fib(n - 1) + fib(n - 2);
		}
		console.log(fib(10));
		let arr = [1, 2, 3].map(function(x) { return x * 2; });
		console.log(arr.join(","));
	`
	interpOut, err := Run(source, "", Options{Mode: Interpret})
	if err != nil {
		t.Fatalf("interpret mode error: %v", err)
	}
	compileOut, err := Run(source, "", Options{Mode: Compile})
	if err != nil {
		t.Fatalf("compile mode error: %v", err)
	}
	if interpOut != compileOut {
		t.Errorf("mode divergence:\ninterpret: %q\ncompile:   %q", interpOut, compileOut)
	}
}

func TestRunSyntaxErrorIsReported(t *testing.T) {
	_, err := Run(`let x = ;`, "bad.ts", Options{})
	if err == nil {
		t.Fatal("expected syntax error")
	}
	if !strings.Contains(err.Error(), "SyntaxError") {
		t.Errorf("expected SyntaxError in message, got %v", err)
	}
}

func TestRunTypeErrorAbortsBeforeExecution(t *testing.T) {
	out, err := Run(`console.log("unreached"); let x: number = "not a number";`, "", Options{})
	if err == nil {
		t.Fatal("expected type error")
	}
	if !strings.Contains(err.Error(), "Type Error") {
		t.Errorf("expected Type Error in message, got %v", err)
	}
	if out != "" {
		t.Errorf("expected no output before a type error aborts, got %q", out)
	}
}

func TestRunFileResolvesReferences(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "util.ts"), []byte(`let helper = 21;`), 0644); err != nil {
		t.Fatalf("failed to write util.ts: %v", err)
	}
	entry := filepath.Join(dir, "main.ts")
	if err := os.WriteFile(entry, []byte("/// <reference path=\"util.ts\">\nconsole.log(helper * 2);"), 0644); err != nil {
		t.Fatalf("failed to write main.ts: %v", err)
	}

	out, err := RunFile(entry, Options{Mode: Interpret})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "42\n" {
		t.Errorf("expected 42\\n, got %q", out)
	}
}
