package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tsxlang/tsx/internal/lexer"
	"github.com/tsxlang/tsx/pkg/token"
)

var (
	showPos    bool
	showType   bool
	onlyErrors bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a tsx file or expression",
	Long: `Tokenize a tsx program and print the resulting tokens, one per line.

Examples:
  tsx lex script.ts
  tsx lex -e "let x = 42;"
  tsx lex --show-type --show-pos script.ts
  tsx lex --only-errors script.ts`,
	Args: cobra.MaximumNArgs(1),
	RunE: lexScript,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "tokenize inline code instead of reading from file")
	lexCmd.Flags().BoolVar(&showPos, "show-pos", false, "show token positions (line:column)")
	lexCmd.Flags().BoolVar(&showType, "show-type", false, "show token kind numbers")
	lexCmd.Flags().BoolVar(&onlyErrors, "only-errors", false, "show only illegal tokens")
}

func lexScript(cmd *cobra.Command, args []string) error {
	var input, filename string

	if evalExpr != "" {
		input, filename = evalExpr, "<eval>"
	} else if len(args) == 1 {
		filename = args[0]
		content, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", filename, err)
		}
		input = string(content)
	} else {
		return fmt.Errorf("either provide a file path or use -e flag for inline code")
	}

	if verbose {
		fmt.Printf("Tokenizing: %s\n", filename)
		fmt.Printf("Input length: %d bytes\n", len(input))
		fmt.Println("---")
	}

	l := lexer.New(input)

	tokenCount, errorCount := 0, 0
	for {
		tok := l.NextToken()

		if onlyErrors && tok.Kind != token.ILLEGAL {
			if tok.Kind == token.EOF {
				break
			}
			continue
		}

		tokenCount++
		if tok.Kind == token.ILLEGAL {
			errorCount++
		}

		printToken(tok)

		if tok.Kind == token.EOF {
			break
		}
	}

	if verbose {
		fmt.Println("---")
		fmt.Printf("Total tokens: %d\n", tokenCount)
		if errorCount > 0 {
			fmt.Printf("Errors: %d\n", errorCount)
		}
	}

	if onlyErrors && errorCount > 0 {
		return fmt.Errorf("found %d illegal token(s)", errorCount)
	}
	return nil
}

func printToken(tok token.Token) {
	var output string
	if showType {
		output = fmt.Sprintf("[kind=%-3d]", tok.Kind)
	}

	switch tok.Kind {
	case token.EOF:
		output += " EOF"
	case token.ILLEGAL:
		output += fmt.Sprintf(" ILLEGAL: %q", tok.Lexeme)
	default:
		output += fmt.Sprintf(" %q", tok.Lexeme)
	}

	if showPos {
		output += fmt.Sprintf(" @%d:%d", tok.Pos.Line, tok.Pos.Column)
	}

	fmt.Println(output)
}
