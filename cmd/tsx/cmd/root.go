// Package cmd wires the tsx CLI's Cobra command tree: run, build, check,
// lex, parse, repl.
//
// Grounded on cmd/dwscript/cmd/root.go for the package-level rootCmd +
// Execute() + persistent-flag shape.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "tsx",
	Short: "tsx interpreter and compiler",
	Long: `tsx is a dual-mode execution engine for a typed scripting language:
a tree-walking interpreter and a bytecode compiler/VM sharing one lexer,
parser, and type checker.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
