package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"mcq-generator/internal/domain"
	"mcq-generator/internal/parser"
	"mcq-generator/internal/util"

	"go.uber.org/zap"
)

type requestIDKey struct{}

// WithRequestID attaches a request id used to correlate diagnostic logs.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFromContext returns the request id set by WithRequestID.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	requestID, ok := ctx.Value(requestIDKey{}).(string)
	return requestID, ok && requestID != ""
}

// DocumentLoader extracts text from an uploaded file.
type DocumentLoader interface {
	Load(ctx context.Context, name string, r io.Reader) (domain.SourceDocument, error)
}

// Pipeline runs the two LLM stages.
type Pipeline interface {
	Run(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error)
}

// MCQService defines the upload-to-quiz operation used by the HTTP and CLI layers
type MCQService interface {
	Generate(ctx context.Context, input GenerateInput) (*domain.QuizOutcome, error)
}

// GenerateInput is one upload together with the quiz settings.
type GenerateInput struct {
	FileName string
	Size     int64
	File     io.Reader
	Count    int
	Subject  string
	Tone     string
}

// Settings is the read-only process configuration the service needs.
type Settings struct {
	ResponseJSON   string
	MaxUploadBytes int64
	// Timeout bounds the whole pipeline; zero means no limit.
	Timeout time.Duration
}

type mcqService struct {
	loader   DocumentLoader
	pipeline Pipeline
	settings Settings
	logger   *zap.Logger
}

// NewMCQService creates a new MCQService.
func NewMCQService(loader DocumentLoader, pipeline Pipeline, settings Settings, logger *zap.Logger) (MCQService, error) {
	if loader == nil {
		return nil, errors.New("document loader cannot be nil")
	}
	if pipeline == nil {
		return nil, errors.New("generation pipeline cannot be nil")
	}
	if strings.TrimSpace(settings.ResponseJSON) == "" {
		return nil, errors.New("response schema cannot be empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &mcqService{loader: loader, pipeline: pipeline, settings: settings, logger: logger}, nil
}

// Generate runs Loader -> generate -> evaluate -> Parser for one upload. The
// first failure is returned unchanged; an empty quiz is reported through
// QuizOutcome.Empty rather than as an error.
func (s *mcqService) Generate(ctx context.Context, input GenerateInput) (*domain.QuizOutcome, error) {
	requestID, ok := RequestIDFromContext(ctx)
	if !ok {
		requestID = util.NewULID()
		ctx = WithRequestID(ctx, requestID)
	}
	l := s.logger.With(zap.String("request_id", requestID), zap.String("file_name", input.FileName))

	if s.settings.MaxUploadBytes > 0 && input.Size > s.settings.MaxUploadBytes {
		l.Warn("Rejected upload over size limit", zap.Int64("size_bytes", input.Size))
		return nil, domain.NewFileTooLargeError(input.Size, s.settings.MaxUploadBytes)
	}

	// Validate settings before spending time on extraction.
	if _, err := domain.NewGenerationRequest("-", input.Count, input.Subject, input.Tone, s.settings.ResponseJSON); err != nil {
		return nil, err
	}

	if s.settings.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.settings.Timeout)
		defer cancel()
	}

	doc, err := s.loader.Load(ctx, input.FileName, input.File)
	if err != nil {
		l.Error("Failed to load document", zap.Error(err))
		return nil, err
	}
	if strings.TrimSpace(doc.Text) == "" {
		l.Warn("Document contains no extractable text")
		return nil, domain.NewEmptyDocumentError(input.FileName)
	}

	req, err := domain.NewGenerationRequest(doc.Text, input.Count, input.Subject, input.Tone, s.settings.ResponseJSON)
	if err != nil {
		return nil, err
	}

	l.Info("Generating quiz",
		zap.Int("count", req.Number),
		zap.String("subject", req.Subject),
		zap.String("tone", req.Tone),
		zap.Int("text_length", len(req.Text)))

	result, err := s.pipeline.Run(ctx, req)
	if err != nil {
		l.Error("Generation pipeline failed", zap.Error(err))
		return nil, err
	}

	outcome := &domain.QuizOutcome{RequestID: requestID, Review: result.Review}
	if strings.TrimSpace(result.Quiz) == "" {
		l.Warn("LLM returned an empty quiz")
		outcome.Records = []domain.QuestionRecord{}
		outcome.Empty = true
		return outcome, nil
	}

	records, err := parser.Parse(result.Quiz)
	if err != nil {
		l.Error("Failed to parse quiz from LLM reply", zap.Error(err), zap.String("quiz", result.Quiz))
		return nil, err
	}

	outcome.Records = records
	outcome.Empty = len(records) == 0
	if outcome.Empty {
		l.Warn("Parsed quiz contains no questions")
	} else {
		l.Info("Quiz generated", zap.Int("num_questions", len(records)))
	}
	return outcome, nil
}
