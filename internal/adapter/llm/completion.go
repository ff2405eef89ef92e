// Package llm adapts langchaingo models to the domain completion port.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"mcq-generator/internal/config"
	"mcq-generator/internal/domain"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// langchainCompleter implements domain.CompletionClient on top of any
// langchaingo model.
type langchainCompleter struct {
	model       llms.Model
	modelName   string
	temperature float64
	timeout     time.Duration
	logger      *zap.Logger
}

// NewLangchainCompleter wraps an already constructed langchaingo model.
func NewLangchainCompleter(model llms.Model, modelName string, temperature float64, timeout time.Duration, logger *zap.Logger) (domain.CompletionClient, error) {
	if model == nil {
		return nil, errors.New("LLM model cannot be nil")
	}
	if modelName == "" {
		return nil, errors.New("LLM model name cannot be empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &langchainCompleter{
		model:       model,
		modelName:   modelName,
		temperature: temperature,
		timeout:     timeout,
		logger:      logger,
	}, nil
}

// NewCompletionClient builds the provider selected in cfg.
func NewCompletionClient(ctx context.Context, cfg config.LLMConfig, logger *zap.Logger) (domain.CompletionClient, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		model llms.Model
		err   error
	)
	switch cfg.Provider {
	case config.ProviderGoogleAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("Google AI API key cannot be empty")
		}
		model, err = googleai.New(ctx,
			googleai.WithAPIKey(cfg.APIKey),
			googleai.WithDefaultModel(cfg.Model),
		)
	case config.ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("OpenAI API key cannot be empty")
		}
		opts := []openai.Option{openai.WithToken(cfg.APIKey), openai.WithModel(cfg.Model)}
		if cfg.ServerURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.ServerURL))
		}
		model, err = openai.New(opts...)
	case config.ProviderOllama:
		httpClient := &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     10 * time.Second,
			},
		}
		model, err = ollama.New(
			ollama.WithServerURL(cfg.ServerURL),
			ollama.WithModel(cfg.Model),
			ollama.WithHTTPClient(httpClient),
		)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
	if err != nil {
		logger.Error("Failed to create LLM client", zap.String("provider", cfg.Provider), zap.Error(err))
		return nil, fmt.Errorf("failed to create %s LLM client: %w", cfg.Provider, err)
	}

	logger.Info("Initialized LLM client",
		zap.String("provider", cfg.Provider),
		zap.String("model", cfg.Model),
		zap.Float64("temperature", cfg.Temperature))
	return NewLangchainCompleter(model, cfg.Model, cfg.Temperature, cfg.Timeout, logger)
}

// Complete sends prompt as a single human message and returns the first
// choice. Failures are returned as-is; the pipeline decides how to wrap them.
func (c *langchainCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	response, err := llms.GenerateFromSinglePrompt(ctx, c.model, prompt,
		llms.WithModel(c.modelName),
		llms.WithTemperature(c.temperature),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			c.logger.Error("LLM request timed out", zap.Duration("timeout", c.timeout), zap.Error(err))
			return "", fmt.Errorf("LLM request timed out: %w", err)
		}
		c.logger.Error("Failed to get response from LLM", zap.Error(err))
		return "", fmt.Errorf("LLM call failed: %w", err)
	}
	return response, nil
}

func (c *langchainCompleter) Model() string {
	return c.modelName
}

// Static assertion to ensure langchainCompleter implements CompletionClient
var _ domain.CompletionClient = (*langchainCompleter)(nil)
