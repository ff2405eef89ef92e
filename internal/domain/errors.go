package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeValidation   ErrorCode = "VALIDATION_ERROR"
	CodeFileTooLarge ErrorCode = "FILE_TOO_LARGE"
	CodeBusy         ErrorCode = "SERVICE_BUSY"

	// Document loading errors
	CodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	CodeReadError         ErrorCode = "READ_ERROR"

	// Generation and parsing errors
	CodeGenerationFailed ErrorCode = "GENERATION_FAILED"
	CodeMarkerNotFound   ErrorCode = "MARKER_NOT_FOUND"
	CodeInvalidJSON      ErrorCode = "INVALID_JSON"
	CodeEmptyResult      ErrorCode = "EMPTY_RESULT"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	// Stage is set only for generation failures.
	Stage Stage `json:"stage,omitempty"`
	Err   error `json:"-"`
}

func (e *DomainError) Error() string {
	msg := e.Message
	if e.Stage != "" {
		msg = fmt.Sprintf("%s (stage=%s)", msg, e.Stage)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Stage   string `json:"stage,omitempty"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
		Stage:   string(e.Stage),
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// CodeOf returns the code of the first DomainError in err's chain, or
// CodeInternal when there is none.
func CodeOf(err error) ErrorCode {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return CodeInternal
}

// HasCode reports whether err carries a DomainError with the given code.
func HasCode(err error, code ErrorCode) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Code == code
}

// Helper functions for common errors
func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(CodeInternal, message, err)
}

func NewFileTooLargeError(size, limit int64) *DomainError {
	return NewError(CodeFileTooLarge, fmt.Sprintf("File is too large: %d bytes exceeds the %d byte limit", size, limit), nil)
}

func NewBusyError() *DomainError {
	return NewError(CodeBusy, "Too many quizzes are being generated right now, try again shortly", nil)
}

func NewUnsupportedFormatError(fileName string) *DomainError {
	return NewError(CodeUnsupportedFormat, fmt.Sprintf("Unsupported file format for %q: only .pdf and .txt files are supported", fileName), nil)
}

func NewReadError(fileName string, err error) *DomainError {
	return NewError(CodeReadError, fmt.Sprintf("Error reading the file %q", fileName), err)
}

// ErrNoText marks a readable document that yielded only whitespace.
var ErrNoText = errors.New("document contains no extractable text")

// NewEmptyDocumentError reports a document that was read successfully but
// holds no text. It shares READ_ERROR with corrupt files; the message and
// cause tell the two apart.
func NewEmptyDocumentError(fileName string) *DomainError {
	return NewError(CodeReadError, fmt.Sprintf("The file %q contains no extractable text", fileName), ErrNoText)
}

func NewGenerationFailedError(stage Stage, err error) *DomainError {
	return &DomainError{
		Code:    CodeGenerationFailed,
		Message: "Failed to generate quiz with LLM service",
		Stage:   stage,
		Err:     err,
	}
}

func NewMarkerNotFoundError(message string) *DomainError {
	return NewError(CodeMarkerNotFound, message, nil)
}

func NewInvalidJSONError(err error) *DomainError {
	return NewError(CodeInvalidJSON, "Invalid JSON format in LLM response", err)
}

func NewEmptyResultError() *DomainError {
	return NewError(CodeEmptyResult, "No MCQs generated", nil)
}
