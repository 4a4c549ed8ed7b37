package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/dhamidi/alang/format"
	"github.com/dhamidi/alang/parser"
	"github.com/spf13/cobra"
)

func newFmtCmd() *cobra.Command {
	var fmtOverwrite bool

	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Print an a-lang file in canonical form",
		Long: `Parse an a-lang file and print its canonical rendering to stdout.

If no file is provided, reads source from stdin.

Use -w to overwrite the file in place (requires a file argument).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if fmtOverwrite && len(args) == 0 {
				return fmt.Errorf("-w requires a file argument")
			}

			source, filename, err := readSource(args)
			if err != nil {
				return err
			}

			program, err := parser.Parse(bytes.NewReader(source), parser.WithFile(filename))
			if err != nil {
				return err
			}

			output := format.Unparse(program)
			if fmtOverwrite {
				return os.WriteFile(filename, []byte(output), 0644)
			}
			_, err = os.Stdout.WriteString(output)
			return err
		},
	}

	cmd.Flags().BoolVarP(&fmtOverwrite, "write", "w", false, "overwrite the file in place")

	return cmd
}
