package main

import (
	"fmt"
	"os"
	"path/filepath"

	"mcq-generator/internal/adapter/llm"
	"mcq-generator/internal/config"
	"mcq-generator/internal/loader"
	"mcq-generator/internal/logger"
	"mcq-generator/internal/prompt"
	"mcq-generator/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a quiz from a PDF or text file",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			filePath, _ := cmd.Flags().GetString("file")
			count, _ := cmd.Flags().GetInt("count")
			subject, _ := cmd.Flags().GetString("subject")
			tone, _ := cmd.Flags().GetString("tone")
			outPath, _ := cmd.Flags().GetString("out")

			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if !cmd.Flags().Changed("count") {
				count = cfg.Generation.DefaultCount
			}

			if err := logger.Initialize(cfg.Logger); err != nil {
				return fmt.Errorf("initialize logger: %w", err)
			}
			defer logger.Sync()
			log := logger.Get()

			svc, err := buildService(cmd, cfg, log)
			if err != nil {
				return err
			}

			f, err := os.Open(filePath)
			if err != nil {
				return fmt.Errorf("open %s: %w", filePath, err)
			}
			defer f.Close()
			info, err := f.Stat()
			if err != nil {
				return fmt.Errorf("stat %s: %w", filePath, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Generating %d MCQs from %s, please wait...\n", count, filepath.Base(filePath))

			outcome, err := svc.Generate(cmd.Context(), service.GenerateInput{
				FileName: filepath.Base(filePath),
				Size:     info.Size(),
				File:     f,
				Count:    count,
				Subject:  subject,
				Tone:     tone,
			})
			if err != nil {
				return err
			}

			if outcome.Empty {
				fmt.Fprintln(out, "No MCQs generated.")
				return nil
			}

			printTable(out, outcome.Records)
			if outcome.Review != "" {
				fmt.Fprintf(out, "\nReview:\n%s\n", outcome.Review)
			}

			if err := writeCSVFile(out, outPath, outcome.Records); err != nil {
				return err
			}
			if outPath != "-" {
				fmt.Fprintf(out, "\nSaved %d questions to %s\n", len(outcome.Records), outPath)
			}
			return nil
		},
	}

	cmd.Flags().String("file", "", "Source document (.pdf or .txt)")
	cmd.Flags().Int("count", 5, "Number of questions (3-10)")
	cmd.Flags().String("subject", "", "Subject of the quiz")
	cmd.Flags().String("tone", "simple", "Complexity level, e.g. simple, mid, hard")
	cmd.Flags().String("out", "mcq.csv", "CSV output path (- for stdout)")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}

func buildService(cmd *cobra.Command, cfg *config.Config, log *zap.Logger) (service.MCQService, error) {
	templates, err := prompt.Load(cfg.Prompt.GenerationPath, cfg.Prompt.EvaluationPath)
	if err != nil {
		return nil, fmt.Errorf("load prompt templates: %w", err)
	}
	responseJSON, err := prompt.LoadResponseSchema(cfg.Prompt.ResponseSchemaPath)
	if err != nil {
		return nil, err
	}
	client, err := llm.NewCompletionClient(cmd.Context(), cfg.LLM, log)
	if err != nil {
		return nil, fmt.Errorf("create LLM client: %w", err)
	}
	pipeline, err := service.NewGenerationPipeline(client, templates, log)
	if err != nil {
		return nil, err
	}
	return service.NewMCQService(loader.NewDocumentLoader(nil, log), pipeline, service.Settings{
		ResponseJSON:   responseJSON,
		MaxUploadBytes: cfg.Generation.MaxUploadBytes,
		Timeout:        cfg.Generation.Timeout,
	}, log)
}
