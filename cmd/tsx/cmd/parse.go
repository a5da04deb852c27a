package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tsxlang/tsx/internal/lexer"
	"github.com/tsxlang/tsx/internal/parser"
	"github.com/tsxlang/tsx/pkg/ast"
)

var parseExpression bool

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a tsx file and print its abstract syntax tree",
	Long: `Parse tsx source code and dump the resulting AST.

If no file is provided, reads from stdin. Use -e to parse a single
expression-bearing snippet given on the command line.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().BoolVarP(&parseExpression, "expression", "e", false, "parse a snippet given as an argument instead of a file")
}

func runParse(_ *cobra.Command, args []string) error {
	var input string

	switch {
	case parseExpression:
		if len(args) == 0 {
			return fmt.Errorf("no expression provided")
		}
		input = args[0]
	case len(args) > 0:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("error reading file: %w", err)
		}
		input = string(data)
	default:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("error reading stdin: %w", err)
		}
		input = string(data)
	}

	prog, errs := parser.ParseProgram(lexer.New(input))
	if len(errs) > 0 {
		fmt.Fprintln(os.Stderr, "Parser errors:")
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "  %s\n", e.Error())
		}
		return fmt.Errorf("parsing failed with %d error(s)", len(errs))
	}

	dumpNode(prog, 0)
	return nil
}

func dumpNode(node any, indent int) {
	pad := ""
	for i := 0; i < indent; i++ {
		pad += "  "
	}

	switch n := node.(type) {
	case *ast.Program:
		fmt.Printf("%sProgram (%d statements, module=%v)\n", pad, len(n.Statements), n.IsModule)
		for _, s := range n.Statements {
			dumpNode(s, indent+1)
		}
	case *ast.BlockStmt:
		fmt.Printf("%sBlockStmt (%d statements)\n", pad, len(n.Statements))
		for _, s := range n.Statements {
			dumpNode(s, indent+1)
		}
	case *ast.ExprStmt:
		fmt.Printf("%sExprStmt\n", pad)
		dumpNode(n.Expr, indent+1)
	case *ast.VarDecl:
		fmt.Printf("%sVarDecl (kind=%d, %d declarator(s))\n", pad, n.Kind, len(n.Declarators))
		for _, d := range n.Declarators {
			if d.Init != nil {
				dumpNode(d.Init, indent+1)
			}
		}
	case *ast.IfStmt:
		fmt.Printf("%sIfStmt\n", pad)
		dumpNode(n.Cond, indent+1)
		dumpNode(n.Then, indent+1)
		if n.Else != nil {
			dumpNode(n.Else, indent+1)
		}
	case *ast.ReturnStmt:
		fmt.Printf("%sReturnStmt\n", pad)
		if n.Argument != nil {
			dumpNode(n.Argument, indent+1)
		}
	case *ast.FunctionDecl:
		fmt.Printf("%sFunctionDecl: %s\n", pad, n.Name)
		dumpNode(n.Body, indent+1)
	case *ast.BinaryExpr:
		fmt.Printf("%sBinaryExpr (%s)\n", pad, n.Operator)
		dumpNode(n.Left, indent+1)
		dumpNode(n.Right, indent+1)
	case *ast.LogicalExpr:
		fmt.Printf("%sLogicalExpr (%s)\n", pad, n.Operator)
		dumpNode(n.Left, indent+1)
		dumpNode(n.Right, indent+1)
	case *ast.UnaryExpr:
		fmt.Printf("%sUnaryExpr (%s)\n", pad, n.Operator)
		dumpNode(n.Operand, indent+1)
	case *ast.AssignmentExpr:
		fmt.Printf("%sAssignmentExpr (%s)\n", pad, n.Operator)
		dumpNode(n.Target, indent+1)
		dumpNode(n.Value, indent+1)
	case *ast.CallExpr:
		fmt.Printf("%sCallExpr (%d arg(s))\n", pad, len(n.Args))
		dumpNode(n.Callee, indent+1)
		for _, a := range n.Args {
			dumpNode(a, indent+1)
		}
	case *ast.MemberExpr:
		fmt.Printf("%sMemberExpr (computed=%v)\n", pad, n.Computed)
		dumpNode(n.Object, indent+1)
		dumpNode(n.Property, indent+1)
	case *ast.NumberLiteral:
		fmt.Printf("%sNumberLiteral: %v\n", pad, n.Value)
	case *ast.StringLiteral:
		fmt.Printf("%sStringLiteral: %q\n", pad, n.Value)
	case *ast.BoolLiteral:
		fmt.Printf("%sBoolLiteral: %v\n", pad, n.Value)
	case *ast.Identifier:
		fmt.Printf("%sIdentifier: %s\n", pad, n.Name)
	case *ast.NullLiteral:
		fmt.Printf("%sNullLiteral\n", pad)
	case *ast.UndefinedLiteral:
		fmt.Printf("%sUndefinedLiteral\n", pad)
	default:
		fmt.Printf("%s%T\n", pad, node)
	}
}
