package handler

import (
	"fmt"

	"mcq-generator/internal/domain"
	"mcq-generator/internal/dto"
	"mcq-generator/internal/export"
	"mcq-generator/internal/logger"
	"mcq-generator/internal/middleware"
	"mcq-generator/internal/service"
	"mcq-generator/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// MCQHandler handles quiz generation HTTP requests
type MCQHandler struct {
	service   service.MCQService
	validator *validation.Validator
	slots     *semaphore.Weighted
	provider  string
	model     string
}

// NewMCQHandler creates a new MCQHandler instance. maxConcurrent caps the
// number of uploads generating at once.
func NewMCQHandler(service service.MCQService, maxConcurrent int64, provider, model string) *MCQHandler {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &MCQHandler{
		service:   service,
		validator: validation.NewValidator(),
		slots:     semaphore.NewWeighted(maxConcurrent),
		provider:  provider,
		model:     model,
	}
}

// RegisterRoutes mounts the MCQ endpoints on the api group.
func (h *MCQHandler) RegisterRoutes(api fiber.Router, vm *middleware.ValidationMiddleware) {
	api.Get("/health", h.Health)
	api.Post("/mcq", vm.ValidateMCQForm(), h.GenerateMCQ)
	api.Post("/mcq/export", h.ExportCSV)
}

// GenerateMCQ godoc
// @Summary Generate a multiple choice quiz
// @Description Uploads a .pdf or .txt document and generates a reviewed quiz from it
// @Tags mcq
// @Accept multipart/form-data
// @Produce json
// @Produce text/csv
// @Param file formData file true "Source document (.pdf or .txt)"
// @Param count formData int false "Number of questions (3-10)" default(5)
// @Param subject formData string true "Subject of the quiz"
// @Param tone formData string true "Complexity level, e.g. simple"
// @Param format query string false "Set to csv to download mcq.csv instead of JSON"
// @Success 200 {object} dto.GenerateMCQResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 413 {object} middleware.ErrorResponse
// @Failure 415 {object} middleware.ErrorResponse
// @Failure 422 {object} middleware.ErrorResponse
// @Failure 429 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Router /mcq [post]
func (h *MCQHandler) GenerateMCQ(c *fiber.Ctx) error {
	req, ok := middleware.ValidatedMCQRequest(c)
	if !ok {
		return domain.NewInternalError("validated request missing from context", nil)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return domain.ValidationErrors{domain.NewMissingFieldError("file")}
	}

	if !h.slots.TryAcquire(1) {
		return domain.NewBusyError()
	}
	defer h.slots.Release(1)

	file, err := fileHeader.Open()
	if err != nil {
		return domain.NewReadError(fileHeader.Filename, err)
	}
	defer file.Close()

	ctx := service.WithRequestID(c.UserContext(), middleware.RequestIDFrom(c))
	outcome, err := h.service.Generate(ctx, service.GenerateInput{
		FileName: fileHeader.Filename,
		Size:     fileHeader.Size,
		File:     file,
		Count:    req.Count,
		Subject:  req.Subject,
		Tone:     req.Tone,
	})
	if err != nil {
		return err // This will be handled by ErrorHandler middleware
	}

	if c.Query("format") == "csv" {
		return sendCSV(c, outcome.Records)
	}
	return c.JSON(dto.NewGenerateMCQResponse(outcome))
}

// ExportCSV godoc
// @Summary Export question records as CSV
// @Description Converts question records into mcq.csv with columns MCQ, CHOICES, CORRECT ANSWER
// @Tags mcq
// @Accept json
// @Produce text/csv
// @Param request body dto.ExportRequest true "Records to export"
// @Success 200 {string} string "CSV document"
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /mcq/export [post]
func (h *MCQHandler) ExportCSV(c *fiber.Ctx) error {
	var req dto.ExportRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Get().Warn("Failed to parse export request", zap.Error(err))
		return domain.NewInvalidInputError("Request body must be a JSON object with a records array")
	}
	if errs := h.validator.ValidateStruct(req); len(errs) > 0 {
		return errs
	}
	return sendCSV(c, req.Records)
}

// Health godoc
// @Summary Health check
// @Description Reports liveness and the configured LLM model
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func (h *MCQHandler) Health(c *fiber.Ctx) error {
	return c.JSON(dto.HealthResponse{Status: "ok", Provider: h.provider, Model: h.model})
}

func sendCSV(c *fiber.Ctx, records []domain.QuestionRecord) error {
	body, err := export.CSV(records)
	if err != nil {
		return domain.NewInternalError("Failed to export CSV", err)
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", export.FileName))
	return c.Send(body)
}
