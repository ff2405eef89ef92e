// Package parser turns the free-form generation reply of the model into
// question records.
package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"mcq-generator/internal/domain"
)

const (
	openMarker  = "```json"
	closeMarker = "```"
)

// questionPayload is the shape of each question object in the reply.
type questionPayload struct {
	MCQ     json.RawMessage `json:"mcq"`
	Options json.RawMessage `json:"options"`
	Correct json.RawMessage `json:"correct"`
}

// Parse extracts the fenced JSON block from reply and flattens it into
// question records.
func Parse(reply string) ([]domain.QuestionRecord, error) {
	payload, err := ExtractJSON(reply)
	if err != nil {
		return nil, err
	}
	return Decode(payload)
}

// ExtractJSON returns the text between the first ```json marker and the first
// closing ``` after it, trimmed of surrounding whitespace.
func ExtractJSON(reply string) (string, error) {
	start := strings.Index(reply, openMarker)
	if start == -1 {
		return "", domain.NewMarkerNotFoundError("JSON opening marker not found in the response")
	}
	start += len(openMarker)

	end := strings.Index(reply[start:], closeMarker)
	if end == -1 {
		return "", domain.NewMarkerNotFoundError("JSON closing marker not found in the response")
	}

	return strings.TrimSpace(reply[start : start+end]), nil
}

// Decode decodes a JSON array of objects whose values are question objects.
// Keys of the outer objects are ignored; records follow document order.
func Decode(payload string) ([]domain.QuestionRecord, error) {
	trimmed := strings.TrimSpace(payload)
	if !strings.HasPrefix(trimmed, "[") {
		return nil, domain.NewInvalidJSONError(errors.New("top-level value is not a JSON array"))
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &items); err != nil {
		return nil, domain.NewInvalidJSONError(err)
	}

	records := make([]domain.QuestionRecord, 0, len(items))
	for i, item := range items {
		members, err := domain.DecodeOrderedObject(item)
		if err != nil {
			return nil, domain.NewInvalidJSONError(fmt.Errorf("item %d: %w", i, err))
		}
		for _, m := range members {
			record, err := decodeQuestion(m.Value)
			if err != nil {
				return nil, domain.NewInvalidJSONError(fmt.Errorf("item %d key %q: %w", i, m.Key, err))
			}
			records = append(records, record)
		}
	}
	return records, nil
}

func decodeQuestion(raw json.RawMessage) (domain.QuestionRecord, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return domain.QuestionRecord{}, errors.New("question is not a JSON object")
	}

	var q questionPayload
	if err := json.Unmarshal(trimmed, &q); err != nil {
		return domain.QuestionRecord{}, err
	}
	return domain.QuestionRecord{
		MCQ:     nullIfMissing(q.MCQ),
		Choices: nullIfMissing(q.Options),
		Correct: nullIfMissing(q.Correct),
	}, nil
}

func nullIfMissing(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage("null")
	}
	return raw
}
