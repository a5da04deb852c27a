package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tsxlang/tsx/internal/checker"
	"github.com/tsxlang/tsx/internal/compiler"
	"github.com/tsxlang/tsx/internal/lexer"
	"github.com/tsxlang/tsx/internal/parser"
)

var buildCmd = &cobra.Command{
	Use:   "build <file>",
	Short: "Type-check and compile a tsx file to bytecode, without running it",
	Long: `Parse, type-check, and compile a tsx program the same way "tsx run
--mode compile" would, but stop short of executing it — useful for
validating a file ahead of shipping it.`,
	Args: cobra.ExactArgs(1),
	RunE: buildFile,
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

func buildFile(_ *cobra.Command, args []string) error {
	path := args[0]
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	prog, errs := parser.ParseProgram(lexer.New(string(src)))
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "SyntaxError: %s\n", e.Error())
		}
		return fmt.Errorf("parsing failed with %d error(s)", len(errs))
	}

	if typeErrs := checker.Check(prog); len(typeErrs) > 0 {
		for _, e := range typeErrs {
			fmt.Fprintf(os.Stderr, "Type Error: %s\n", e.Error())
		}
		return fmt.Errorf("type checking failed with %d error(s)", len(typeErrs))
	}

	compiled, err := compiler.CompileProgram(prog)
	if err != nil {
		return fmt.Errorf("compiler: %w", err)
	}

	fmt.Printf("%s: OK (%d top-level instructions, %d class(es))\n", path, len(compiled.Chunk.Code), len(compiled.Classes))
	return nil
}
