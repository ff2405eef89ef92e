// @title MCQ Generator API
// @version 1.0
// @description Turns an uploaded PDF or text document into a reviewed multiple choice quiz.
// @termsOfService http://swagger.io/terms/
// @contact.name API Support
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8090
// @BasePath /api
// @schemes http https
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"mcq-generator/internal/adapter/llm"
	"mcq-generator/internal/config"
	"mcq-generator/internal/handler"
	"mcq-generator/internal/loader"
	"mcq-generator/internal/logger"
	"mcq-generator/internal/middleware"
	"mcq-generator/internal/prompt"
	"mcq-generator/internal/service"

	_ "mcq-generator/cmd/api/docs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (default: ./config.yaml or ./configs/config.yaml)")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Prompt templates and the response schema are read once and never change.
	templates, err := prompt.Load(cfg.Prompt.GenerationPath, cfg.Prompt.EvaluationPath)
	if err != nil {
		appLogger.Fatal("Failed to load prompt templates", zap.Error(err))
	}
	responseJSON, err := prompt.LoadResponseSchema(cfg.Prompt.ResponseSchemaPath)
	if err != nil {
		appLogger.Fatal("Failed to load response schema", zap.String("path", cfg.Prompt.ResponseSchemaPath), zap.Error(err))
	}

	// Initialize LLM client
	completionClient, err := llm.NewCompletionClient(context.Background(), cfg.LLM, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create LLM client", zap.Error(err))
	}

	// Initialize services
	pipeline, err := service.NewGenerationPipeline(completionClient, templates, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create generation pipeline", zap.Error(err))
	}
	mcqService, err := service.NewMCQService(loader.NewDocumentLoader(nil, appLogger), pipeline, service.Settings{
		ResponseJSON:   responseJSON,
		MaxUploadBytes: cfg.Generation.MaxUploadBytes,
		Timeout:        cfg.Generation.Timeout,
	}, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create MCQ service", zap.Error(err))
	}
	appLogger.Info("MCQService initialized")

	// Initialize handlers
	mcqHandler := handler.NewMCQHandler(mcqService, cfg.Generation.MaxConcurrent, cfg.LLM.Provider, cfg.LLM.Model)
	validationMiddleware := middleware.NewValidationMiddleware(cfg.Generation.DefaultCount)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
		BodyLimit:    cfg.Server.BodyLimit,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept,X-Request-ID", ExposeHeaders: "X-Request-ID,Content-Disposition", MaxAge: 300}))

	// Swagger handler
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API group
	mcqHandler.RegisterRoutes(app.Group("/api"), validationMiddleware)

	// Start server
	go func() {
		appLogger.Info("Starting server",
			zap.Int("port", cfg.Server.Port),
			zap.String("env", cfg.Logger.Env),
			zap.String("provider", cfg.LLM.Provider),
			zap.String("model", cfg.LLM.Model))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
