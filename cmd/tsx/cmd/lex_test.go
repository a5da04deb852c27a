package cmd

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

func TestLexEvalTokens(t *testing.T) {
	out := runCLI(t, []string{"lex", "-e", `let x = 42;`})
	snaps.MatchSnapshot(t, out)
}

func TestLexShowTypeAndPos(t *testing.T) {
	out := runCLI(t, []string{"lex", "--show-type", "--show-pos", "-e", `x + 1`})
	snaps.MatchSnapshot(t, out)
}

func TestLexOnlyErrorsWithNoIllegalTokens(t *testing.T) {
	out := runCLI(t, []string{"lex", "--only-errors", "-e", `let x = 1;`})
	if out != "" {
		t.Errorf("expected no output when there are no illegal tokens, got %q", out)
	}
}

func TestLexNoInputFails(t *testing.T) {
	resetFlags()
	if err := lexScript(nil, nil); err == nil {
		t.Fatal("expected an error when neither a file nor -e is given")
	}
}
