package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tsxlang/tsx/pkg/engine"
)

var (
	evalExpr string
	modeFlag string
	noColor  bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a tsx file or expression",
	Long: `Execute a tsx program from a file or inline expression.

Examples:
  tsx run script.ts
  tsx run -e "console.log('hello');"
  tsx run --mode compile script.ts`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading from file")
	runCmd.Flags().StringVar(&modeFlag, "mode", "interpret", "execution mode: interpret | compile")
	runCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colorized diagnostics")
}

func parseMode(s string) (engine.Mode, error) {
	switch s {
	case "interpret", "":
		return engine.Interpret, nil
	case "compile":
		return engine.Compile, nil
	default:
		return engine.Interpret, fmt.Errorf("unknown mode %q (want interpret or compile)", s)
	}
}

func runScript(_ *cobra.Command, args []string) error {
	mode, err := parseMode(modeFlag)
	if err != nil {
		return err
	}
	opts := engine.Options{Mode: mode}

	if evalExpr != "" {
		out, err := engine.Run(evalExpr, "<eval>", opts)
		fmt.Print(out)
		if err != nil {
			reportError(err)
			return fmt.Errorf("execution failed")
		}
		return nil
	}
	if len(args) != 1 {
		return fmt.Errorf("either provide a file path or use -e for inline code")
	}

	out, err := engine.RunFile(args[0], opts)
	fmt.Print(out)
	if err != nil {
		reportError(err)
		return fmt.Errorf("execution failed")
	}
	return nil
}

// reportError prints a run failure to stderr, colorized unless --no-color
// was given or the diagnostic itself came without a terminal to render to.
func reportError(err error) {
	msg := err.Error()
	if noColor {
		fmt.Fprintln(os.Stderr, msg)
		return
	}
	fmt.Fprintln(os.Stderr, color.RedString(msg))
}
