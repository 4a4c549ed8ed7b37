package main

import (
	"fmt"

	"github.com/dhamidi/alang/parser"
	"github.com/spf13/cobra"
)

func newTokensCmd() *cobra.Command {
	var includeTrivia bool

	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Dump the token stream of an a-lang file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, filename, err := readSource(args)
			if err != nil {
				return err
			}

			lexer := parser.NewLexer(source, filename)
			for {
				tok := lexer.NextToken()
				if tok.Kind == parser.TokenWhitespace || tok.Kind == parser.TokenLineComment {
					if !includeTrivia {
						continue
					}
				}
				fmt.Printf("%s\t%s\t%q\n", tok.Span, tok.Kind, tok.Literal)
				if tok.Kind == parser.TokenEOF {
					return nil
				}
			}
		},
	}

	cmd.Flags().BoolVar(&includeTrivia, "trivia", false, "include whitespace and comment tokens")

	return cmd
}
