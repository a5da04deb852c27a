package lexer

import (
	"testing"

	"github.com/tsxlang/tsx/pkg/token"
)

func TestNextToken_Operators(t *testing.T) {
	input := `let x = 10 + 5; x += 1; x === 10; x ?? 0; x?.y;`

	tests := []struct {
		kind   token.Kind
		lexeme string
	}{
		{token.LET, "let"},
		{token.IDENT, "x"},
		{token.ASSIGN, "="},
		{token.NUMBER, "10"},
		{token.PLUS, "+"},
		{token.NUMBER, "5"},
		{token.SEMICOLON, ";"},
		{token.IDENT, "x"},
		{token.PLUS_ASSIGN, "+="},
		{token.NUMBER, "1"},
		{token.SEMICOLON, ";"},
		{token.IDENT, "x"},
		{token.EQ_STRICT, "==="},
		{token.NUMBER, "10"},
		{token.SEMICOLON, ";"},
		{token.IDENT, "x"},
		{token.QUESTION_QUESTION, "??"},
		{token.NUMBER, "0"},
		{token.SEMICOLON, ";"},
		{token.IDENT, "x"},
		{token.QUESTION_DOT, "?."},
		{token.IDENT, "y"},
		{token.SEMICOLON, ";"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Kind != tt.kind {
			t.Fatalf("test[%d] - wrong kind. expected=%v, got=%v (%q)", i, tt.kind, tok.Kind, tok.Lexeme)
		}
		if tok.Lexeme != tt.lexeme {
			t.Fatalf("test[%d] - wrong lexeme. expected=%q, got=%q", i, tt.lexeme, tok.Lexeme)
		}
	}
}

func TestNextToken_Numbers(t *testing.T) {
	input := `10 3.14 0x1F 0o17 0b101 1_000 1e10`
	l := New(input)
	var got []string
	for {
		tok := l.NextToken()
		if tok.Kind == token.EOF {
			break
		}
		got = append(got, tok.Lexeme)
	}
	want := []string{"10", "3.14", "0x1F", "0o17", "0b101", "1_000", "1e10"}
	if len(got) != len(want) {
		t.Fatalf("expected %d numbers, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("number[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestStrictMode_RejectsLegacyOctalLiteral(t *testing.T) {
	l := New(`0777`)
	l.SetStrict(true)
	l.NextToken()
	errs := l.Errors()
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d", len(errs))
	}
	if want := "octal literals are not allowed in strict mode"; errs[0].Message != want {
		t.Errorf("got %q, want %q", errs[0].Message, want)
	}
}

func TestStrictMode_AllowsNulByteEscapeNotFollowedByDigit(t *testing.T) {
	l := New(`"a\0b"`)
	l.SetStrict(true)
	l.NextToken()
	if len(l.Errors()) != 0 {
		t.Fatalf("expected no errors, got %v", l.Errors())
	}
}

func TestStrictMode_RejectsOctalEscape(t *testing.T) {
	l := New(`"a\1b"`)
	l.SetStrict(true)
	l.NextToken()
	if len(l.Errors()) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(l.Errors()), l.Errors())
	}
}

func TestTripleSlashReferenceDirective(t *testing.T) {
	input := "/// <reference path=\"foo.ts\">\nlet x = 1;"
	l := New(input)
	for {
		tok := l.NextToken()
		if tok.Kind == token.EOF {
			break
		}
	}
	dirs := l.Directives()
	if len(dirs) != 1 {
		t.Fatalf("expected 1 directive, got %d", len(dirs))
	}
	if dirs[0].Path != "foo.ts" {
		t.Errorf("got path %q, want foo.ts", dirs[0].Path)
	}
}

func TestRegexVsDivisionDisambiguation(t *testing.T) {
	// after an identifier, `/` is division
	l := New(`x / y`)
	l.NextToken() // x
	tok := l.NextToken()
	if tok.Kind != token.SLASH {
		t.Fatalf("expected SLASH after identifier, got %v", tok.Kind)
	}

	// at start of expression, `/` begins a regex literal
	l2 := New(`/abc/g`)
	tok2 := l2.NextToken()
	if tok2.Kind != token.REGEX {
		t.Fatalf("expected REGEX at expression start, got %v (%q)", tok2.Kind, tok2.Lexeme)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	l := New(`a b c`)
	first := l.Peek(0)
	if first.Lexeme != "a" {
		t.Fatalf("Peek(0) = %q, want a", first.Lexeme)
	}
	second := l.Peek(1)
	if second.Lexeme != "b" {
		t.Fatalf("Peek(1) = %q, want b", second.Lexeme)
	}
	// Consuming must still yield a, b, c in order.
	if tok := l.NextToken(); tok.Lexeme != "a" {
		t.Fatalf("NextToken() = %q, want a", tok.Lexeme)
	}
	if tok := l.NextToken(); tok.Lexeme != "b" {
		t.Fatalf("NextToken() = %q, want b", tok.Lexeme)
	}
}

func TestSaveRestoreState(t *testing.T) {
	l := New(`abc def`)
	l.NextToken() // abc
	state := l.SaveState()
	l.NextToken() // def
	l.RestoreState(state)
	tok := l.NextToken()
	if tok.Lexeme != "def" {
		t.Fatalf("after restore, NextToken() = %q, want def", tok.Lexeme)
	}
}
