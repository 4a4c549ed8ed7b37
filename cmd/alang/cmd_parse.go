package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/dhamidi/alang/format"
	"github.com/dhamidi/alang/parser"
	"github.com/spf13/cobra"
)

func newParseCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse an a-lang file and dump the syntax tree",
		Long: `Parse an a-lang file and dump the syntax tree to stdout.

If no file is provided, reads source from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, filename, err := readSource(args)
			if err != nil {
				return err
			}

			program, err := parser.Parse(bytes.NewReader(source), parser.WithFile(filename))
			if err != nil {
				return err
			}

			var encoder format.Encoder
			switch outputFormat {
			case "json":
				encoder = format.NewASTJSONEncoder(os.Stdout)
			case "tree":
				encoder = format.NewTreeEncoder(os.Stdout)
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}

			if err := encoder.Encode(program); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			if outputFormat == "json" {
				fmt.Println()
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "output format (json, tree)")

	return cmd
}

// readSource loads the single optional file argument, falling back to
// stdin. The returned name feeds diagnostic positions.
func readSource(args []string) ([]byte, string, error) {
	if len(args) == 0 {
		source, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, "", fmt.Errorf("read stdin: %w", err)
		}
		return source, "<stdin>", nil
	}
	filename := args[0]
	source, err := os.ReadFile(filename)
	if err != nil {
		return nil, "", fmt.Errorf("read file: %w", err)
	}
	return source, filename, nil
}
