package domain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

const (
	MinQuestionCount = 3
	MaxQuestionCount = 10
)

// Stage identifies one step of the generation pipeline.
type Stage string

const (
	StageGenerate Stage = "generate"
	StageEvaluate Stage = "evaluate"
)

// SourceDocument is the text extracted from one upload.
type SourceDocument struct {
	Name string
	Text string
}

// GenerationRequest holds everything the pipeline needs for one run.
type GenerationRequest struct {
	Text         string
	Number       int
	Subject      string
	Tone         string
	ResponseJSON string
}

// NewGenerationRequest creates a validated GenerationRequest
func NewGenerationRequest(text string, number int, subject, tone, responseJSON string) (GenerationRequest, error) {
	req := GenerationRequest{
		Text:         text,
		Number:       number,
		Subject:      subject,
		Tone:         tone,
		ResponseJSON: responseJSON,
	}
	if err := req.Validate(); err != nil {
		return GenerationRequest{}, err
	}
	return req, nil
}

// Validate validates the generation request
func (r GenerationRequest) Validate() error {
	var errs ValidationErrors
	if strings.TrimSpace(r.Text) == "" {
		errs = append(errs, NewMissingFieldError("text"))
	}
	if r.Number < MinQuestionCount || r.Number > MaxQuestionCount {
		errs = append(errs, NewOutOfRangeError("number", r.Number, MinQuestionCount, MaxQuestionCount))
	}
	if strings.TrimSpace(r.Subject) == "" {
		errs = append(errs, NewMissingFieldError("subject"))
	}
	if strings.TrimSpace(r.Tone) == "" {
		errs = append(errs, NewMissingFieldError("tone"))
	}
	if strings.TrimSpace(r.ResponseJSON) == "" {
		errs = append(errs, NewMissingFieldError("response_json"))
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// GenerationResult holds the raw replies of both pipeline stages.
// Review is free-form commentary and is never parsed.
type GenerationResult struct {
	Quiz   string
	Review string
}

// QuestionRecord is one row of the generated quiz. Each field keeps the raw
// JSON value from the model reply so choice order survives; a field the model
// left out is JSON null.
type QuestionRecord struct {
	MCQ     json.RawMessage `json:"MCQ"`
	Choices json.RawMessage `json:"CHOICES"`
	Correct json.RawMessage `json:"CORRECT ANSWER"`
}

// Choice is a single answer option.
type Choice struct {
	Key  string
	Text string
}

// Question returns the question text for display.
func (q QuestionRecord) Question() string {
	return rawToText(q.MCQ)
}

// CorrectAnswer returns the correct-answer identifier for display.
func (q QuestionRecord) CorrectAnswer() string {
	return rawToText(q.Correct)
}

// ChoiceList returns the answer choices in the order the model wrote them.
// Arrays are keyed by position starting at 1; null yields no choices.
func (q QuestionRecord) ChoiceList() ([]Choice, error) {
	raw := bytes.TrimSpace(q.Choices)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	switch raw[0] {
	case '{':
		members, err := DecodeOrderedObject(raw)
		if err != nil {
			return nil, err
		}
		choices := make([]Choice, 0, len(members))
		for _, m := range members {
			choices = append(choices, Choice{Key: m.Key, Text: rawToText(m.Value)})
		}
		return choices, nil
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
		choices := make([]Choice, 0, len(items))
		for i, item := range items {
			choices = append(choices, Choice{Key: fmt.Sprintf("%d", i+1), Text: rawToText(item)})
		}
		return choices, nil
	default:
		return []Choice{{Text: rawToText(raw)}}, nil
	}
}

// Member is a key/value pair of a JSON object in document order.
type Member struct {
	Key   string
	Value json.RawMessage
}

// DecodeOrderedObject decodes a JSON object keeping its members in the order
// they appear in the input. A repeated key keeps its first position and its
// last value.
func DecodeOrderedObject(raw []byte) ([]Member, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected JSON object, got %v", tok)
	}

	var members []Member
	index := make(map[string]int)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", keyTok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		if i, seen := index[key]; seen {
			members[i].Value = value
			continue
		}
		index[key] = len(members)
		members = append(members, Member{Key: key, Value: value})
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after JSON object")
	}
	return members, nil
}

func rawToText(raw json.RawMessage) string {
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
	return string(trimmed)
}

// QuizOutcome is what one upload produces for the presentation layer.
type QuizOutcome struct {
	RequestID string
	Records   []QuestionRecord
	Review    string
	// Empty marks the soft EMPTY_RESULT outcome.
	Empty bool
}

// CompletionClient sends one fully rendered prompt to the LLM provider and
// returns the text completion.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
	// Model returns the model identifier used for completions.
	Model() string
}
