package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	ProviderGoogleAI = "googleai"
	ProviderOpenAI   = "openai"
	ProviderOllama   = "ollama"
)

type Config struct {
	Server     ServerConfig
	Logger     LoggerConfig
	LLM        LLMConfig
	Prompt     PromptConfig
	Generation GenerationConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	BodyLimit    int
}

type LoggerConfig struct {
	Level string
	Env   string
	// Dir, when set, also writes each run's log to a timestamped file there.
	Dir string
}

type LLMConfig struct {
	Provider    string
	Model       string
	Temperature float64
	APIKey      string
	// ServerURL is the base URL for ollama or an OpenAI-compatible endpoint.
	ServerURL string
	Timeout   time.Duration
}

type PromptConfig struct {
	GenerationPath     string
	EvaluationPath     string
	ResponseSchemaPath string
}

type GenerationConfig struct {
	DefaultCount   int
	MaxUploadBytes int64
	MaxConcurrent  int64
	Timeout        time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", 120)
	v.SetDefault("server.write_timeout", 120)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.env", "development")
	v.SetDefault("logger.dir", "")

	v.SetDefault("llm.provider", ProviderGoogleAI)
	v.SetDefault("llm.model", "gemini-1.5-flash")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.server_url", "")
	v.SetDefault("llm.timeout", 60)

	v.SetDefault("prompt.generation_path", "")
	v.SetDefault("prompt.evaluation_path", "")
	v.SetDefault("prompt.response_schema_path", "./configs/response.json")

	v.SetDefault("generation.default_count", 5)
	v.SetDefault("generation.max_upload_mb", 50)
	v.SetDefault("generation.max_concurrent", 4)
	v.SetDefault("generation.timeout", 150)
}

// LoadConfig reads config.yaml from the working directory or ./configs, when
// present, and applies environment overrides (e.g. LLM_MODEL for llm.model).
// An explicit path skips the search.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The original deployment exported the Gemini key as KEY.
	if err := v.BindEnv("llm.api_key", "LLM_API_KEY", "GOOGLE_API_KEY", "OPENAI_API_KEY", "KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind API key env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	config := &Config{
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  time.Duration(v.GetInt("server.read_timeout")) * time.Second,
			WriteTimeout: time.Duration(v.GetInt("server.write_timeout")) * time.Second,
		},
		Logger: LoggerConfig{
			Level: v.GetString("logger.level"),
			Env:   v.GetString("logger.env"),
			Dir:   v.GetString("logger.dir"),
		},
		LLM: LLMConfig{
			Provider:    strings.ToLower(v.GetString("llm.provider")),
			Model:       v.GetString("llm.model"),
			Temperature: v.GetFloat64("llm.temperature"),
			APIKey:      v.GetString("llm.api_key"),
			ServerURL:   v.GetString("llm.server_url"),
			Timeout:     time.Duration(v.GetInt("llm.timeout")) * time.Second,
		},
		Prompt: PromptConfig{
			GenerationPath:     v.GetString("prompt.generation_path"),
			EvaluationPath:     v.GetString("prompt.evaluation_path"),
			ResponseSchemaPath: v.GetString("prompt.response_schema_path"),
		},
		Generation: GenerationConfig{
			DefaultCount:   v.GetInt("generation.default_count"),
			MaxUploadBytes: v.GetInt64("generation.max_upload_mb") * 1024 * 1024,
			MaxConcurrent:  v.GetInt64("generation.max_concurrent"),
			Timeout:        time.Duration(v.GetInt("generation.timeout")) * time.Second,
		},
	}
	// Multipart overhead on top of the largest accepted file.
	config.Server.BodyLimit = int(config.Generation.MaxUploadBytes) + 1024*1024

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks settings whose absence must stop the process at startup.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderGoogleAI, ProviderOpenAI:
		if c.LLM.APIKey == "" {
			return fmt.Errorf("llm.api_key is required for provider %q (set LLM_API_KEY)", c.LLM.Provider)
		}
	case ProviderOllama:
		if c.LLM.ServerURL == "" {
			return errors.New("llm.server_url is required for provider \"ollama\"")
		}
	default:
		return fmt.Errorf("unsupported llm.provider %q", c.LLM.Provider)
	}

	if c.LLM.Model == "" {
		return errors.New("llm.model cannot be empty")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature %.2f out of range [0, 2]", c.LLM.Temperature)
	}
	if c.Prompt.ResponseSchemaPath == "" {
		return errors.New("prompt.response_schema_path cannot be empty")
	}
	if c.Generation.DefaultCount < 3 || c.Generation.DefaultCount > 10 {
		return fmt.Errorf("generation.default_count %d out of range [3, 10]", c.Generation.DefaultCount)
	}
	if c.Generation.MaxUploadBytes <= 0 {
		return errors.New("generation.max_upload_mb must be positive")
	}
	if c.Generation.MaxConcurrent <= 0 {
		return errors.New("generation.max_concurrent must be positive")
	}
	return nil
}
