package cmd

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

func TestParseExpressionDumpsTree(t *testing.T) {
	out := runCLI(t, []string{"parse", "-e", `1 + 2 * 3`})
	snaps.MatchSnapshot(t, out)
}

func TestParseFunctionDeclaration(t *testing.T) {
	out := runCLI(t, []string{"parse", "-e", `function add(a, b) { return a + b; }`})
	snaps.MatchSnapshot(t, out)
}

func TestParseSyntaxErrorFails(t *testing.T) {
	resetFlags()
	parseExpression = true
	if _, err := parseAndDump(t, []string{`let x = ;`}); err == nil {
		t.Fatal("expected a parser error")
	}
}

// parseAndDump is a thin wrapper so TestParseSyntaxErrorFails can assert on
// runParse's returned error without also asserting on captured stdout.
func parseAndDump(t *testing.T, args []string) (string, error) {
	t.Helper()
	var err error
	out := captureStdout(t, func() {
		err = runParse(nil, args)
	})
	return out, err
}
