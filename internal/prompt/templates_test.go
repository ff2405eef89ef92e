package prompt_test

import (
	"os"
	"path/filepath"
	"testing"

	"mcq-generator/internal/prompt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_RenderGeneration(t *testing.T) {
	tmpl := prompt.Default()

	schema := `{"1":{"mcq":"multiple choice question","options":{"a":"choice here"},"correct":"correct answer"}}`
	rendered, err := tmpl.RenderGeneration("Photosynthesis converts light.", 5, "biology", "simple", schema)
	require.NoError(t, err)

	assert.Contains(t, rendered, "Text: Photosynthesis converts light.")
	assert.Contains(t, rendered, "create a quiz of 5 multiple choice questions for biology students in simple tone")
	assert.Contains(t, rendered, "Ensure to make 5 MCQs")
	assert.Contains(t, rendered, schema)
	assert.NotContains(t, rendered, "{response_json}")
}

func TestDefault_RenderEvaluation(t *testing.T) {
	tmpl := prompt.Default()

	quiz := "```json\n[{\"1\": {\"mcq\": \"2+2?\"}}]\n```"
	rendered, err := tmpl.RenderEvaluation("maths", quiz)
	require.NoError(t, err)

	assert.Contains(t, rendered, "Multiple Choice Quiz for maths students")
	assert.Contains(t, rendered, "Quiz_MCQs:\n"+quiz)
	assert.Contains(t, rendered, "at max 50 words")
	assert.NotContains(t, rendered, "{quiz}")
}

func TestNew_RejectsMissingPlaceholder(t *testing.T) {
	// The evaluation template must reference the quiz under its real name.
	_, err := prompt.New(prompt.GenerationTemplate, "Review for {subject} students:\n{quiz'}")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "{quiz}")

	_, err = prompt.New("Text: {text} for {subject}", prompt.EvaluationTemplate)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generation template")
}

func TestNew_RejectsUnknownPlaceholder(t *testing.T) {
	_, err := prompt.New(prompt.GenerationTemplate, "{subject} {quiz} {grade_level}")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not render")
}

func TestLoad_Overrides(t *testing.T) {
	dir := t.TempDir()
	evalPath := filepath.Join(dir, "eval.txt")
	require.NoError(t, os.WriteFile(evalPath, []byte("Grade this {subject} quiz:\n{quiz}"), 0o600))

	tmpl, err := prompt.Load("", evalPath)
	require.NoError(t, err)

	rendered, err := tmpl.RenderEvaluation("history", "Q1")
	require.NoError(t, err)
	assert.Equal(t, "Grade this history quiz:\nQ1", rendered)

	_, err = prompt.Load(filepath.Join(dir, "missing.txt"), "")
	require.Error(t, err)
}

func TestLoadResponseSchema(t *testing.T) {
	dir := t.TempDir()

	validPath := filepath.Join(dir, "response.json")
	require.NoError(t, os.WriteFile(validPath, []byte("{\n  \"1\": {\n    \"mcq\": \"q\",\n    \"correct\": \"a\"\n  }\n}\n"), 0o600))
	schema, err := prompt.LoadResponseSchema(validPath)
	require.NoError(t, err)
	assert.Equal(t, `{"1":{"mcq":"q","correct":"a"}}`, schema)

	invalidPath := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(invalidPath, []byte("{not json"), 0o600))
	_, err = prompt.LoadResponseSchema(invalidPath)
	require.Error(t, err)

	_, err = prompt.LoadResponseSchema(filepath.Join(dir, "absent.json"))
	require.Error(t, err)
}
