package parser_test

import (
	"encoding/json"
	"testing"

	"mcq-generator/internal/domain"
	"mcq-generator/internal/parser"
	"mcq-generator/internal/prompt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_SingleQuestion(t *testing.T) {
	reply := "```json\n[{\"1\": {\"mcq\":\"2+2?\",\"options\":{\"a\":\"3\",\"b\":\"4\"},\"correct\":\"b\"}}]\n```"

	records, err := parser.Parse(reply)
	require.NoError(t, err)
	require.Len(t, records, 1)

	out, err := json.Marshal(records)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"MCQ":"2+2?","CHOICES":{"a":"3","b":"4"},"CORRECT ANSWER":"b"}]`, string(out))
	assert.Equal(t, "2+2?", records[0].Question())
	assert.Equal(t, "b", records[0].CorrectAnswer())
}

func TestParse_NoMarker(t *testing.T) {
	records, err := parser.Parse("no json here")
	assert.Nil(t, records)
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.CodeMarkerNotFound))
}

func TestParse_OpenMarkerWithoutClose(t *testing.T) {
	replies := []string{
		"```json\n[{\"1\": {\"mcq\":\"q\"}}]",
		"intro text ```json",
		"``` stray fence then ```json [] and nothing after",
	}
	for _, reply := range replies {
		records, err := parser.Parse(reply)
		assert.Nil(t, records, reply)
		assert.True(t, domain.HasCode(err, domain.CodeMarkerNotFound), reply)
	}
}

func TestParse_EmptyArray(t *testing.T) {
	records, err := parser.Parse("```json\n[]\n```")
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)

	out, err := json.Marshal(records)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(out))
}

func TestParse_InvalidJSON(t *testing.T) {
	testCases := []struct {
		name  string
		reply string
	}{
		{"not json", "```json\nthis is not json\n```"},
		{"top level object", "```json\n{\"1\": {\"mcq\":\"q\"}}\n```"},
		{"array of strings", "```json\n[\"a\", \"b\"]\n```"},
		{"question not an object", "```json\n[{\"1\": \"just text\"}]\n```"},
		{"truncated", "```json\n[{\"1\": {\"mcq\":\"q\"\n```"},
		{"null", "```json\nnull\n```"},
		{"number", "```json\n42\n```"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			records, err := parser.Parse(tc.reply)
			assert.Nil(t, records)
			require.Error(t, err)
			assert.True(t, domain.HasCode(err, domain.CodeInvalidJSON))
		})
	}
}

func TestParse_MissingFieldsBecomeNull(t *testing.T) {
	reply := "```json\n[{\"1\": {\"mcq\":\"Only a question\"}}]\n```"

	records, err := parser.Parse(reply)
	require.NoError(t, err)
	require.Len(t, records, 1)

	out, err := json.Marshal(records[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"MCQ":"Only a question","CHOICES":null,"CORRECT ANSWER":null}`, string(out))
	assert.Equal(t, "", records[0].CorrectAnswer())
}

func TestParse_KeepsDocumentOrder(t *testing.T) {
	reply := "Here is your quiz:\n```json\n[" +
		"{\"9\": {\"mcq\":\"first\",\"options\":{\"d\":\"x\",\"a\":\"y\"},\"correct\":\"d\"}," +
		" \"2\": {\"mcq\":\"second\",\"options\":{\"b\":\"z\"},\"correct\":\"b\"}}," +
		"{\"1\": {\"mcq\":\"third\",\"options\":{\"c\":\"w\"},\"correct\":\"c\"}}" +
		"]\n```\nGood luck!"

	records, err := parser.Parse(reply)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "first", records[0].Question())
	assert.Equal(t, "second", records[1].Question())
	assert.Equal(t, "third", records[2].Question())

	choices, err := records[0].ChoiceList()
	require.NoError(t, err)
	require.Len(t, choices, 2)
	assert.Equal(t, "d", choices[0].Key)
	assert.Equal(t, "a", choices[1].Key)
}

func TestParse_DuplicateKeysKeepLastValue(t *testing.T) {
	reply := "```json\n[{\"1\": {\"mcq\":\"A\"}, \"2\": {\"mcq\":\"C\"}, \"1\": {\"mcq\":\"B\"}}]\n```"

	records, err := parser.Parse(reply)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "B", records[0].Question())
	assert.Equal(t, "C", records[1].Question())
}

func TestExtractJSON_Lossless(t *testing.T) {
	payload := `[{"1": {"mcq": "Which gas do plants absorb?", "options": {"a": "CO2", "b": "O2"}, "correct": "a"}}]`
	reply := "Sure!\n```json\n" + payload + "\n```\ntrailing ```"

	extracted, err := parser.ExtractJSON(reply)
	require.NoError(t, err)
	assert.Equal(t, payload, extracted)

	var direct, viaExtract interface{}
	require.NoError(t, json.Unmarshal([]byte(payload), &direct))
	require.NoError(t, json.Unmarshal([]byte(extracted), &viaExtract))
	assert.Equal(t, direct, viaExtract)
}

func TestParse_Idempotent(t *testing.T) {
	reply := "```json\n[{\"1\": {\"mcq\":\"q1\",\"options\":{\"a\":\"1\"},\"correct\":\"a\"}, \"2\": {\"mcq\":\"q2\",\"options\":[\"x\",\"y\"],\"correct\":\"x\"}}]\n```"

	first, err := parser.Parse(reply)
	require.NoError(t, err)
	second, err := parser.Parse(reply)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDecode_ShippedResponseSchema(t *testing.T) {
	schema, err := prompt.LoadResponseSchema("../../configs/response.json")
	require.NoError(t, err)

	records, err := parser.Decode(schema)
	require.NoError(t, err)
	require.Len(t, records, 3)
	for _, r := range records {
		assert.Equal(t, "multiple choice question", r.Question())
		choices, err := r.ChoiceList()
		require.NoError(t, err)
		assert.Len(t, choices, 4)
		assert.Equal(t, "a", choices[0].Key)
	}
}
