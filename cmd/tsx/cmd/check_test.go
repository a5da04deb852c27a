package cmd

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

func TestCheckValidFile(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/valid.ts"
	if err := writeTestFile(path, `let x: number = 42;`); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	out := runCLI(t, []string{"check", path})
	snaps.MatchSnapshot(t, out)
}

func TestCheckTypeErrorFails(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/invalid.ts"
	if err := writeTestFile(path, `let x: number = "nope";`); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	resetFlags()
	if err := runCheck(nil, []string{path}); err == nil {
		t.Fatal("expected a type error")
	}
}

func TestCheckSyntaxErrorFails(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/syntax.ts"
	if err := writeTestFile(path, `let x = ;`); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	resetFlags()
	if err := runCheck(nil, []string{path}); err == nil {
		t.Fatal("expected a syntax error")
	}
}
