// Package engine is the public facade tying lexer → parser → checker →
// loader → (interpreter | compiler) together behind one entry point, the
// way pkg/dwscript does for the teacher.
//
// Grounded on pkg/dwscript's test-described contract
// (parse_test.go/compile_mode_test.go/integration_test.go: a functional-
// options constructed engine exposing Eval/Compile, with CompileModeBytecode
// selecting the VM backend) adapted to this language's simpler, spec-named
// entry point (spec.md §6: "a host-level choice between 'interpret' and
// 'compile-then-run'... a shared test harness asserts identical stdout
// across modes").
package engine

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/tsxlang/tsx/internal/checker"
	"github.com/tsxlang/tsx/internal/compiler"
	"github.com/tsxlang/tsx/internal/config"
	"github.com/tsxlang/tsx/internal/interp"
	"github.com/tsxlang/tsx/internal/interp/builtins"
	"github.com/tsxlang/tsx/internal/lexer"
	"github.com/tsxlang/tsx/internal/loader"
	"github.com/tsxlang/tsx/internal/parser"
	"github.com/tsxlang/tsx/pkg/ast"
)

// Mode selects which execution back-end Run uses.
type Mode int

const (
	// Interpret runs the parsed AST directly through internal/interp.
	Interpret Mode = iota
	// Compile lowers the AST to bytecode (internal/compiler) and runs
	// that instead; both modes must produce identical stdout for any
	// supported program (spec.md §6).
	Compile
)

// Options configures one Run/Compile call.
type Options struct {
	Mode            Mode
	StrictByDefault bool
	ModulePaths     []string
}

// FromConfig builds Options from a loaded project configuration
// (spec.md §6.9).
func FromConfig(cfg *config.Config) Options {
	mode := Interpret
	if cfg.DefaultMode == "compile" {
		mode = Compile
	}
	return Options{
		Mode:            mode,
		StrictByDefault: cfg.StrictByDefault,
		ModulePaths:     cfg.ModulePaths,
	}
}

// Run parses, type-checks, and executes source (read from filename, which
// may be empty for an anonymous in-memory script), returning everything
// written to console.log during the run. A lex/parse error is a
// SyntaxError; a type error aborts before any statement executes; an
// uncaught runtime throw is returned as a host-level error whose message
// begins with the thrown value's error name (spec.md §6/§7).
func Run(source, filename string, opts Options) (string, error) {
	prog, err := parseAndCheck(source, filename, opts.StrictByDefault)
	if err != nil {
		return "", err
	}

	var out bytes.Buffer
	if err := runProgram(prog, opts, &out); err != nil {
		return out.String(), err
	}
	return out.String(), nil
}

// RunFile loads filename (and every script/module it transitively
// references or imports, via internal/loader) and executes the whole
// graph in dependency-first order against one shared program run.
func RunFile(filename string, opts Options) (string, error) {
	l := loader.New(nil)
	files, err := l.Load(filename)
	if err != nil {
		return "", err
	}

	var out bytes.Buffer
	var it *interp.Interpreter
	var vm *compiler.VM
	if opts.Mode == Compile {
		vm = compiler.New()
		vm.Out = &out
	} else {
		it = interp.New()
		it.Out = &out
		builtins.Install(it)
	}

	for _, f := range files {
		if errs := checker.Check(f.Program); len(errs) > 0 {
			return out.String(), typeError(errs, f.Path)
		}
		if opts.Mode == Compile {
			compiled, err := compiler.CompileProgram(f.Program)
			if err != nil {
				return out.String(), fmt.Errorf("compiler: %w", err)
			}
			if err := vm.Run(compiled); err != nil {
				return out.String(), err
			}
		} else {
			if err := it.Run(f.Program); err != nil {
				return out.String(), err
			}
		}
	}
	return out.String(), nil
}

// parseAndCheck lexes and parses source, honoring strictByDefault as an
// implicit leading "use strict" (spec.md §4.2 directive prologue) even when
// the source has no directive of its own — the lexer is put in strict mode
// before the first token is read, so octal-literal rejection and the
// parser's own strict-mode bookkeeping both take effect from the start of
// the file rather than only after a literal directive is seen. RunFile's
// per-file loader graph does not thread this through: each loaded file's
// own directive prologue is authoritative there, since scripts in a graph
// can legitimately differ on strictness the way require'd files can today.
func parseAndCheck(source, filename string, strictByDefault bool) (*ast.Program, error) {
	l := lexer.New(source)
	if strictByDefault {
		l.SetStrict(true)
	}
	prog, errs := parser.ParseProgram(l)
	if len(errs) > 0 {
		return nil, fmt.Errorf("SyntaxError: %s: %s", filename, errs[0].Error())
	}
	if strictByDefault {
		prog.Strict = true
	}
	if errs := checker.Check(prog); len(errs) > 0 {
		return nil, typeError(errs, filename)
	}
	return prog, nil
}

func typeError(errs []*checker.Error, filename string) error {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	prefix := "Type Error"
	if filename != "" {
		prefix = fmt.Sprintf("Type Error in %s", filename)
	}
	return fmt.Errorf("%s: %s", prefix, strings.Join(msgs, "; "))
}

func runProgram(prog *ast.Program, opts Options, out *bytes.Buffer) error {
	if opts.Mode == Compile {
		compiled, err := compiler.CompileProgram(prog)
		if err != nil {
			return fmt.Errorf("compiler: %w", err)
		}
		vm := compiler.New()
		vm.Out = out
		return vm.Run(compiled)
	}
	it := interp.New()
	it.Out = out
	builtins.Install(it)
	return it.Run(prog)
}
