package cmd

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

func TestBuildValidFile(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/ok.ts"
	if err := writeTestFile(path, `
		function square(n: number): number {
			return n * n;
		}
		console.log(square(5));
	`); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	out := runCLI(t, []string{"build", path})
	if out == "" {
		t.Fatal("expected build to print an OK summary")
	}
	snaps.MatchSnapshot(t, out)
}

func TestBuildTypeErrorFails(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/bad.ts"
	if err := writeTestFile(path, `let x: number = "not a number";`); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	resetFlags()
	if err := buildFile(nil, []string{path}); err == nil {
		t.Fatal("expected a type error")
	}
}

func TestBuildMissingFileFails(t *testing.T) {
	resetFlags()
	if err := buildFile(nil, []string{"/nonexistent/path/does-not-exist.ts"}); err == nil {
		t.Fatal("expected a file-not-found error")
	}
}
