package cmd

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

func TestRunEvalInterpretMode(t *testing.T) {
	out := runCLI(t, []string{"run", "-e", `console.log(2 + 3 * 4);`})
	snaps.MatchSnapshot(t, out)
}

func TestRunEvalCompileMode(t *testing.T) {
	out := runCLI(t, []string{"run", "--mode", "compile", "-e", `console.log(2 + 3 * 4);`})
	snaps.MatchSnapshot(t, out)
}

func TestRunModesAgree(t *testing.T) {
	source := `
		function fact(n) {
			if (n <= 1) { return 1; }
			return n * fact(n - 1);
		}
		console.log(fact(6));
	`
	interpOut := runCLI(t, []string{"run", "-e", source})
	compileOut := runCLI(t, []string{"run", "--mode", "compile", "-e", source})
	if interpOut != compileOut {
		t.Errorf("interpret/compile mode mismatch:\ninterpret: %q\ncompile:   %q", interpOut, compileOut)
	}
}

func TestRunFromFile(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/greet.ts"
	if err := writeTestFile(path, `console.log("hello " + "tsx");`); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	out := runCLI(t, []string{"run", path})
	snaps.MatchSnapshot(t, out)
}

func TestRunUnknownModeFails(t *testing.T) {
	resetFlags()
	modeFlag = "bogus"
	evalExpr = `console.log(1);`
	if err := runScript(nil, nil); err == nil {
		t.Fatal("expected an error for an unknown --mode value")
	}
}
