package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/tsxlang/tsx/internal/checker"
	"github.com/tsxlang/tsx/internal/compiler"
	"github.com/tsxlang/tsx/internal/interp"
	"github.com/tsxlang/tsx/internal/lexer"
	"github.com/tsxlang/tsx/internal/parser"
)

var replMode string

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive tsx session",
	Long: `Start a read-eval-print loop. Each line is lexed, parsed,
type-checked, and run against a session that persists bindings across
lines, the same way a program's top-level scripts share one global
scope (spec.md §4.8).`,
	Args: cobra.NoArgs,
	RunE: runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
	replCmd.Flags().StringVar(&replMode, "mode", "interpret", "execution mode: interpret | compile")
}

var (
	replGreen = color.New(color.FgGreen).SprintFunc()
	replRed   = color.New(color.FgRed).SprintFunc()
	replDim   = color.New(color.Faint).SprintFunc()
)

func runRepl(_ *cobra.Command, _ []string) error {
	var isCompile bool
	switch replMode {
	case "interpret", "":
		isCompile = false
	case "compile":
		isCompile = true
	default:
		return fmt.Errorf("unknown mode %q (want interpret or compile)", replMode)
	}

	var it *interp.Interpreter
	var vm *compiler.VM
	if isCompile {
		vm = compiler.New()
		vm.Out = os.Stdout
	} else {
		it = interp.New()
		it.Out = os.Stdout
	}

	line := liner.NewLiner()
	defer line.Close()

	historyFile := filepath.Join(os.TempDir(), ".tsx_history")
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}
	line.SetMultiLineMode(true)

	fmt.Println(replDim("tsx repl — type :quit to exit"))

	for {
		input, err := line.Prompt("tsx> ")
		if err == io.EOF {
			fmt.Println(replGreen("\ngoodbye"))
			break
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", replRed("error"), err)
			continue
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if input == ":quit" || input == ":q" || input == ":exit" {
			fmt.Println(replGreen("goodbye"))
			break
		}

		line.AppendHistory(input)
		evalLine(input, it, vm)
	}

	if f, err := os.Create(historyFile); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
	return nil
}

func evalLine(input string, it *interp.Interpreter, vm *compiler.VM) {
	prog, errs := parser.ParseProgram(lexer.New(input))
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "%s: %s\n", replRed("SyntaxError"), e.Error())
		}
		return
	}
	if typeErrs := checker.Check(prog); len(typeErrs) > 0 {
		for _, e := range typeErrs {
			fmt.Fprintf(os.Stderr, "%s: %s\n", replRed("Type Error"), e.Error())
		}
		return
	}

	if vm != nil {
		compiled, err := compiler.CompileProgram(prog)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", replRed("compiler"), err)
			return
		}
		if err := vm.Run(compiled); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", replRed("runtime error"), err)
		}
		return
	}

	if err := it.Run(prog); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", replRed("runtime error"), err)
	}
}
