package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"mcq-generator/internal/domain"
	"mcq-generator/internal/export"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "mcqgen",
		Short:         "Generate multiple choice quizzes from documents",
		Long:          "mcqgen turns a PDF or text document into a reviewed multiple choice quiz using an LLM.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("config", "", "Path to config.yaml (default: ./config.yaml or ./configs/config.yaml)")

	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newParseCmd())
	return rootCmd
}

// printTable writes records as a numbered, human readable table.
func printTable(w io.Writer, records []domain.QuestionRecord) {
	fmt.Fprintf(w, "%-4s  %-50s  %-40s  %s\n", "#", export.ColumnMCQ, export.ColumnChoices, export.ColumnCorrectAnswer)
	fmt.Fprintln(w, strings.Repeat("─", 110))
	for i, row := range export.Table(records) {
		fmt.Fprintf(w, "%-4d  %-50s  %-40s  %s\n", row.Index, truncate(row.MCQ, 50), truncate(choicesText(records[i], row.Choices), 40), row.CorrectAnswer)
	}
}

// choicesText renders choices as "a) x; b) y", falling back to the raw cell
// when the choices cannot be listed.
func choicesText(rec domain.QuestionRecord, fallback string) string {
	choices, err := rec.ChoiceList()
	if err != nil {
		return fallback
	}
	parts := make([]string, 0, len(choices))
	for _, c := range choices {
		if c.Key == "" {
			parts = append(parts, c.Text)
			continue
		}
		parts = append(parts, c.Key+") "+c.Text)
	}
	return strings.Join(parts, "; ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// writeCSVFile writes records to path, or to w when path is "-".
func writeCSVFile(w io.Writer, path string, records []domain.QuestionRecord) error {
	if path == "-" {
		return export.WriteCSV(w, records)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := export.WriteCSV(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
