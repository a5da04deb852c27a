// Package diag renders a source-line-and-caret error excerpt, the shape
// every host-level error (lex, parse, type-check, loader) is surfaced in
// when a file/source pair is available.
//
// Grounded directly on the teacher's errors.CompilerError (errors/errors.go,
// tested by errors/errors_test.go): NewCompilerError(pos, message, source,
// file), Format(colorize bool), FormatWithContext(contextLines int,
// colorize bool) — same constructor shape and output layout
// ("Error in FILE:LINE:COL" / "Error at line LINE:COL", a right-aligned
// line-numbered source excerpt, a caret line, then the message), with
// colorization added via fatih/color (new relative to the teacher, which
// prints plain text; grounded on sunholo-data-ailang's CLI, which
// colorizes diagnostics with the same library).
package diag

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/tsxlang/tsx/pkg/token"
)

// CompilerError pairs a message and position with the source text needed
// to render a caret excerpt.
type CompilerError struct {
	Pos     token.Position
	Message string
	Source  string
	File    string
}

// NewCompilerError constructs a CompilerError ready for Format/
// FormatWithContext.
func NewCompilerError(pos token.Position, message, source, file string) *CompilerError {
	return &CompilerError{Pos: pos, Message: message, Source: source, File: file}
}

func (e *CompilerError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Pos.Line, e.Pos.Column, e.Message)
	}
	return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Format renders a single-line source excerpt with no surrounding context.
func (e *CompilerError) Format(colorize bool) string {
	return e.FormatWithContext(0, colorize)
}

// FormatWithContext renders contextLines of source before and after the
// error line in addition to the error line itself, each right-aligned with
// its line number, followed by a caret line and the message.
func (e *CompilerError) FormatWithContext(contextLines int, colorize bool) string {
	var b strings.Builder

	header := fmt.Sprintf("Error at line %d:%d", e.Pos.Line, e.Pos.Column)
	if e.File != "" {
		header = fmt.Sprintf("Error in %s:%d:%d", e.File, e.Pos.Line, e.Pos.Column)
	}
	if colorize {
		header = color.RedString(header)
	}
	b.WriteString(header)
	b.WriteString("\n")

	lines := strings.Split(e.Source, "\n")
	start := e.Pos.Line - contextLines
	if start < 1 {
		start = 1
	}
	end := e.Pos.Line + contextLines
	if end > len(lines) {
		end = len(lines)
	}
	for n := start; n <= end; n++ {
		fmt.Fprintf(&b, "%4d | %s\n", n, e.getSourceLine(n))
		if n == e.Pos.Line {
			col := e.Pos.Column - 1
			if col < 0 {
				col = 0
			}
			caret := strings.Repeat(" ", col) + "^"
			if colorize {
				caret = color.YellowString(caret)
			}
			fmt.Fprintf(&b, "       %s\n", caret)
		}
	}

	b.WriteString(e.Message)
	return b.String()
}

// getSourceLine returns the 1-indexed line of Source, or "" if out of
// range.
func (e *CompilerError) getSourceLine(lineNum int) string {
	if lineNum < 1 {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}
