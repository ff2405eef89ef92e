package export_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"testing"

	"mcq-generator/internal/domain"
	"mcq-generator/internal/export"
	"mcq-generator/internal/parser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords(t *testing.T) []domain.QuestionRecord {
	t.Helper()
	reply := "```json\n" + `[
		{"1": {"mcq": "2+2?", "options": {"b": "4", "a": "3"}, "correct": "b"}},
		{"2": {"mcq": "Capital, of \"France\"?", "options": ["Paris", "Rome"], "correct": "1"}}
	]` + "\n```"
	records, err := parser.Parse(reply)
	require.NoError(t, err)
	return records
}

func TestTable(t *testing.T) {
	rows := export.Table(sampleRecords(t))
	require.Len(t, rows, 2)

	assert.Equal(t, export.Row{Index: 1, MCQ: "2+2?", Choices: `{"b":"4","a":"3"}`, CorrectAnswer: "b"}, rows[0])
	assert.Equal(t, export.Row{Index: 2, MCQ: `Capital, of "France"?`, Choices: `["Paris","Rome"]`, CorrectAnswer: "1"}, rows[1])
}

func TestTable_NullFields(t *testing.T) {
	rows := export.Table([]domain.QuestionRecord{{
		MCQ:     json.RawMessage("null"),
		Choices: json.RawMessage("null"),
		Correct: json.RawMessage("null"),
	}})
	require.Len(t, rows, 1)
	assert.Equal(t, export.Row{Index: 1}, rows[0])
}

func TestTable_Empty(t *testing.T) {
	rows := export.Table(nil)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, sampleRecords(t)))

	got, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"MCQ", "CHOICES", "CORRECT ANSWER"},
		{"2+2?", `{"b":"4","a":"3"}`, "b"},
		{`Capital, of "France"?`, `["Paris","Rome"]`, "1"},
	}, got)
}

func TestCSV_HeaderOnlyForNoRecords(t *testing.T) {
	out, err := export.CSV([]domain.QuestionRecord{})
	require.NoError(t, err)
	assert.Equal(t, "MCQ,CHOICES,CORRECT ANSWER\n", string(out))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestWriteCSV_WriterError(t *testing.T) {
	err := export.WriteCSV(failingWriter{}, sampleRecords(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
