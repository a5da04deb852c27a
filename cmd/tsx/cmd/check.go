package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tsxlang/tsx/internal/checker"
	"github.com/tsxlang/tsx/internal/lexer"
	"github.com/tsxlang/tsx/internal/parser"
)

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Type-check a tsx file without running it",
	Long: `Parse and type-check a tsx program and report diagnostics, without
executing anything.

If no file is provided, reads from stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(_ *cobra.Command, args []string) error {
	var input, filename string

	if len(args) == 1 {
		filename = args[0]
		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("error reading file: %w", err)
		}
		input = string(data)
	} else {
		filename = "<stdin>"
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("error reading stdin: %w", err)
		}
		input = string(data)
	}

	prog, errs := parser.ParseProgram(lexer.New(input))
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "%s: SyntaxError: %s\n", filename, e.Error())
		}
		return fmt.Errorf("parsing failed with %d error(s)", len(errs))
	}

	typeErrs := checker.Check(prog)
	if len(typeErrs) > 0 {
		for _, e := range typeErrs {
			fmt.Fprintf(os.Stderr, "%s: Type Error: %s\n", filename, e.Error())
		}
		return fmt.Errorf("type checking failed with %d error(s)", len(typeErrs))
	}

	fmt.Printf("%s: no errors\n", filename)
	return nil
}
