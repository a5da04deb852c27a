package diag

import (
	"strings"
	"testing"

	"github.com/tsxlang/tsx/pkg/token"
)

func TestFormatWithFile(t *testing.T) {
	err := NewCompilerError(token.Position{Line: 1, Column: 10}, "undefined variable 'x'", "let y = x + 5;", "test.ts")
	got := err.Format(false)
	for _, want := range []string{
		"Error in test.ts:1:10",
		"   1 | let y = x + 5;",
		"^",
		"undefined variable 'x'",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Format() missing %q\ngot:\n%s", want, got)
		}
	}
}

func TestFormatWithoutFile(t *testing.T) {
	source := "line1\nline2\nline3\nline4\nline5 with error here\nline6"
	err := NewCompilerError(token.Position{Line: 5, Column: 15}, "type mismatch", source, "")
	got := err.Format(false)
	for _, want := range []string{
		"Error at line 5:15",
		"   5 | line5 with error here",
		"^",
		"type mismatch",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Format() missing %q\ngot:\n%s", want, got)
		}
	}
}

func TestFormatWithContext(t *testing.T) {
	source := "let x = 5;\nlet y = \"\";\ny = 10;\nconsole.log(y);"
	err := NewCompilerError(token.Position{Line: 3, Column: 1}, "cannot assign number to string", source, "test.ts")
	got := err.FormatWithContext(1, false)
	for _, want := range []string{
		"Error in test.ts:3:1",
		"   2 | let y = \"\";",
		"   3 | y = 10;",
		"   4 | console.log(y);",
		"^",
		"cannot assign number to string",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatWithContext() missing %q\ngot:\n%s", want, got)
		}
	}
}

func TestGetSourceLineOutOfRange(t *testing.T) {
	err := NewCompilerError(token.Position{}, "", "line1\nline2\nline3\nline4", "")
	tests := []struct {
		lineNum int
		want    string
	}{
		{1, "line1"},
		{4, "line4"},
		{10, ""},
		{0, ""},
		{-1, ""},
	}
	for _, tt := range tests {
		if got := err.getSourceLine(tt.lineNum); got != tt.want {
			t.Errorf("getSourceLine(%d) = %q, want %q", tt.lineNum, got, tt.want)
		}
	}
}
