package dto

import (
	"mcq-generator/internal/domain"
	"mcq-generator/internal/export"
)

// GenerateMCQRequest holds the form fields of an upload
// @Description Quiz settings sent alongside the uploaded file
type GenerateMCQRequest struct {
	Count   int    `form:"count" validate:"min=3,max=10"`
	Subject string `form:"subject" validate:"notblank,max=25"`
	Tone    string `form:"tone" validate:"notblank,max=20"`
}

// GenerateMCQResponse is returned for a successful upload
// @Description Generated quiz with the reviewer commentary
type GenerateMCQResponse struct {
	RequestID string                  `json:"request_id"`
	Count     int                     `json:"count"`
	Questions []domain.QuestionRecord `json:"questions"`
	Table     []export.Row            `json:"table"`
	Review    string                  `json:"review"`
	Warning   *WarningResponse        `json:"warning,omitempty"`
}

// WarningResponse describes a soft failure that still returns 200
type WarningResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ExportRequest is the body of a CSV export
// @Description Question records to convert to CSV
type ExportRequest struct {
	Records []domain.QuestionRecord `json:"records" validate:"required,max=100"`
}

// HealthResponse reports liveness and the configured model
type HealthResponse struct {
	Status   string `json:"status"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// NewGenerateMCQResponse builds the response body from a service outcome
func NewGenerateMCQResponse(outcome *domain.QuizOutcome) GenerateMCQResponse {
	records := outcome.Records
	if records == nil {
		records = []domain.QuestionRecord{}
	}
	resp := GenerateMCQResponse{
		RequestID: outcome.RequestID,
		Count:     len(records),
		Questions: records,
		Table:     export.Table(records),
		Review:    outcome.Review,
	}
	if outcome.Empty {
		empty := domain.NewEmptyResultError()
		resp.Warning = &WarningResponse{Code: string(empty.Code), Message: empty.Message}
	}
	return resp
}
