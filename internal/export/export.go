// Package export flattens question records into the tabular and CSV forms
// offered for download.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"mcq-generator/internal/domain"
)

// Column headers, in output order.
const (
	ColumnMCQ           = "MCQ"
	ColumnChoices       = "CHOICES"
	ColumnCorrectAnswer = "CORRECT ANSWER"
)

// FileName is the download name used for CSV exports.
const FileName = "mcq.csv"

// Header returns the stable column order shared by Table and WriteCSV.
func Header() []string {
	return []string{ColumnMCQ, ColumnChoices, ColumnCorrectAnswer}
}

// Row is one flattened question. Index starts at 1.
type Row struct {
	Index         int    `json:"index"`
	MCQ           string `json:"mcq"`
	Choices       string `json:"choices"`
	CorrectAnswer string `json:"correct_answer"`
}

// Table flattens records into display rows, keeping record order.
func Table(records []domain.QuestionRecord) []Row {
	rows := make([]Row, 0, len(records))
	for i, rec := range records {
		rows = append(rows, Row{
			Index:         i + 1,
			MCQ:           rec.Question(),
			Choices:       choicesCell(rec.Choices),
			CorrectAnswer: rec.CorrectAnswer(),
		})
	}
	return rows
}

// WriteCSV writes a header row followed by one row per record. The index
// column is not written.
func WriteCSV(w io.Writer, records []domain.QuestionRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range Table(records) {
		if err := cw.Write([]string{row.MCQ, row.Choices, row.CorrectAnswer}); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", row.Index, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

// CSV renders records into an in-memory CSV document.
func CSV(records []domain.QuestionRecord) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// choicesCell renders choices as compact JSON so the cell keeps both keys and
// order. A plain JSON string is written unquoted; null is empty.
func choicesCell(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return string(trimmed)
	}
	return buf.String()
}
