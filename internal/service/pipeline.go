package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mcq-generator/internal/domain"
	"mcq-generator/internal/prompt"

	"go.uber.org/zap"
)

// GenerationPipeline runs the generate and evaluate stages in order against
// one completion client. It holds no per-request state.
type GenerationPipeline struct {
	client    domain.CompletionClient
	templates *prompt.Templates
	logger    *zap.Logger
}

// NewGenerationPipeline creates a new GenerationPipeline.
func NewGenerationPipeline(client domain.CompletionClient, templates *prompt.Templates, logger *zap.Logger) (*GenerationPipeline, error) {
	if client == nil {
		return nil, errors.New("completion client cannot be nil")
	}
	if templates == nil {
		return nil, errors.New("prompt templates cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GenerationPipeline{client: client, templates: templates, logger: logger}, nil
}

// Run executes stage 1 (generate) and, only if it succeeds, stage 2
// (evaluate) with the stage-1 reply as its quiz input.
func (p *GenerationPipeline) Run(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	generationPrompt, err := p.templates.RenderGeneration(req.Text, req.Number, req.Subject, req.Tone, req.ResponseJSON)
	if err != nil {
		return nil, domain.NewGenerationFailedError(domain.StageGenerate, fmt.Errorf("render prompt: %w", err))
	}
	quiz, err := p.runStage(ctx, domain.StageGenerate, generationPrompt)
	if err != nil {
		return nil, err
	}

	evaluationPrompt, err := p.templates.RenderEvaluation(req.Subject, quiz)
	if err != nil {
		return nil, domain.NewGenerationFailedError(domain.StageEvaluate, fmt.Errorf("render prompt: %w", err))
	}
	review, err := p.runStage(ctx, domain.StageEvaluate, evaluationPrompt)
	if err != nil {
		return nil, err
	}

	return &domain.GenerationResult{Quiz: quiz, Review: review}, nil
}

func (p *GenerationPipeline) runStage(ctx context.Context, stage domain.Stage, renderedPrompt string) (string, error) {
	l := p.logger.With(zap.String("stage", string(stage)), zap.String("model", p.client.Model()))
	if requestID, ok := RequestIDFromContext(ctx); ok {
		l = l.With(zap.String("request_id", requestID))
	}

	if err := ctx.Err(); err != nil {
		l.Warn("Skipping pipeline stage, context already done", zap.Error(err))
		return "", domain.NewGenerationFailedError(stage, err)
	}

	l.Debug("Sending prompt to LLM", zap.String("prompt", renderedPrompt))
	start := time.Now()
	reply, err := p.client.Complete(ctx, renderedPrompt)
	duration := time.Since(start)
	if err != nil {
		l.Error("Pipeline stage failed",
			zap.Duration("duration", duration),
			zap.Int("prompt_length", len(renderedPrompt)),
			zap.Error(err))
		return "", domain.NewGenerationFailedError(stage, err)
	}

	l.Info("Pipeline stage completed",
		zap.Duration("duration", duration),
		zap.Int("prompt_length", len(renderedPrompt)),
		zap.Int("reply_length", len(reply)))
	l.Debug("Raw LLM reply received", zap.String("reply", reply))
	return reply, nil
}
