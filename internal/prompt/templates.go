// Package prompt holds the generation and evaluation prompt templates and the
// response schema hint embedded into the generation prompt.
package prompt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/tmc/langchaingo/prompts"
)

// Placeholder names used by the templates.
const (
	VarText         = "text"
	VarNumber       = "number"
	VarSubject      = "subject"
	VarTone         = "tone"
	VarResponseJSON = "response_json"
	VarQuiz         = "quiz"
)

// GenerationTemplate asks the model to author the quiz.
const GenerationTemplate = `
Text: {text}
You are an expert MCQ maker. Given the above text, it is your job to create a quiz of {number} multiple choice questions for {subject} students in {tone} tone.
Make sure the questions are not repeated and check all the questions to be conforming the text as well.
Make sure to format your response like RESPONSE_JSON below with appropriate json structure and use it as a guide.
Ensure to make {number} MCQs

{response_json}
`

// EvaluationTemplate asks the model to review the quiz produced by the
// generation stage.
const EvaluationTemplate = `
You are an expert english grammarian and writer. Given a Multiple Choice Quiz for {subject} students.
You need to evaluate the complexity of the question and give a complete analysis of the quiz. Only use at max 50 words for complexity analysis.
If the quiz is not at par with the cognitive and analytical abilities of the students,
update the quiz questions which needs to be changed and change the tone such that it perfectly fits the student abilities
Quiz_MCQs:
{quiz}

Check from an expert English Writer of the above quiz:
`

var (
	generationVars = []string{VarText, VarNumber, VarSubject, VarTone, VarResponseJSON}
	evaluationVars = []string{VarSubject, VarQuiz}
)

// Templates is the immutable pair of pipeline prompts.
type Templates struct {
	generation prompts.PromptTemplate
	evaluation prompts.PromptTemplate
}

// Default returns the built-in templates.
func Default() *Templates {
	t, err := New(GenerationTemplate, EvaluationTemplate)
	if err != nil {
		panic(fmt.Sprintf("built-in prompt templates are invalid: %v", err))
	}
	return t
}

// New builds Templates from raw f-string template text. Every placeholder the
// pipeline fills must appear in the template, and the template must render
// with exactly those values.
func New(generationText, evaluationText string) (*Templates, error) {
	generation, err := newTemplate("generation", generationText, generationVars)
	if err != nil {
		return nil, err
	}
	evaluation, err := newTemplate("evaluation", evaluationText, evaluationVars)
	if err != nil {
		return nil, err
	}
	return &Templates{generation: generation, evaluation: evaluation}, nil
}

// Load reads template overrides from disk. An empty path keeps the built-in
// template for that stage.
func Load(generationPath, evaluationPath string) (*Templates, error) {
	generationText := GenerationTemplate
	evaluationText := EvaluationTemplate

	if generationPath != "" {
		content, err := os.ReadFile(generationPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read generation template from %s: %w", generationPath, err)
		}
		generationText = string(content)
	}
	if evaluationPath != "" {
		content, err := os.ReadFile(evaluationPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read evaluation template from %s: %w", evaluationPath, err)
		}
		evaluationText = string(content)
	}
	return New(generationText, evaluationText)
}

func newTemplate(name, text string, vars []string) (prompts.PromptTemplate, error) {
	for _, v := range vars {
		if !strings.Contains(text, "{"+v+"}") {
			return prompts.PromptTemplate{}, fmt.Errorf("%s template is missing the {%s} placeholder", name, v)
		}
	}

	tmpl := prompts.PromptTemplate{
		Template:       text,
		InputVariables: vars,
		TemplateFormat: prompts.TemplateFormatFString,
	}

	// A trial render catches placeholders the pipeline never fills.
	probe := make(map[string]any, len(vars))
	for _, v := range vars {
		probe[v] = v
	}
	if _, err := tmpl.Format(probe); err != nil {
		return prompts.PromptTemplate{}, fmt.Errorf("%s template does not render: %w", name, err)
	}
	return tmpl, nil
}

// RenderGeneration renders the stage-1 prompt.
func (t *Templates) RenderGeneration(text string, number int, subject, tone, responseJSON string) (string, error) {
	return t.generation.Format(map[string]any{
		VarText:         text,
		VarNumber:       strconv.Itoa(number),
		VarSubject:      subject,
		VarTone:         tone,
		VarResponseJSON: responseJSON,
	})
}

// RenderEvaluation renders the stage-2 prompt from the stage-1 reply.
func (t *Templates) RenderEvaluation(subject, quiz string) (string, error) {
	return t.evaluation.Format(map[string]any{
		VarSubject: subject,
		VarQuiz:    quiz,
	})
}

// LoadResponseSchema reads the example response JSON and returns it in
// compact form, ready to embed into the generation prompt.
func LoadResponseSchema(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read response schema from %s: %w", path, err)
	}
	return CompactSchema(content)
}

// CompactSchema validates and compacts a response schema document.
func CompactSchema(content []byte) (string, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, content); err != nil {
		return "", fmt.Errorf("response schema is not valid JSON: %w", err)
	}
	return buf.String(), nil
}
