package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"mcq-generator/internal/parser"

	"github.com/spf13/cobra"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Parse a saved generation reply into question records",
		Long:  "Extracts the fenced JSON block from a saved model reply and prints the questions. No LLM is called.",
		RunE: func(cmd *cobra.Command, args []string) error {
			replyPath, _ := cmd.Flags().GetString("reply")
			outPath, _ := cmd.Flags().GetString("out")
			asJSON, _ := cmd.Flags().GetBool("json")

			var (
				content []byte
				err     error
			)
			if replyPath == "-" {
				content, err = io.ReadAll(cmd.InOrStdin())
			} else {
				content, err = os.ReadFile(replyPath)
			}
			if err != nil {
				return fmt.Errorf("read reply: %w", err)
			}

			records, err := parser.Parse(string(content))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No MCQs generated.")
				return nil
			}

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				enc.SetEscapeHTML(false)
				if err := enc.Encode(records); err != nil {
					return fmt.Errorf("encode records: %w", err)
				}
			} else {
				printTable(out, records)
			}

			if outPath != "" {
				if err := writeCSVFile(out, outPath, records); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().String("reply", "", "File holding the raw generation reply (- for stdin)")
	cmd.Flags().String("out", "", "Also write the records as CSV to this path (- for stdout)")
	cmd.Flags().Bool("json", false, "Print records as JSON instead of a table")
	_ = cmd.MarkFlagRequired("reply")
	return cmd
}
