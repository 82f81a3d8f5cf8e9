package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderOpenRouter = "openrouter"
	ProviderGigaChat   = "gigachat"

	PDFEngineFitz   = "fitz"
	PDFEngineNative = "native"
)

type Config struct {
	Server     ServerConfig
	LLM        LLMConfig
	GigaChat   GigaChatConfig
	OCR        OCRConfig
	Extraction ExtractionConfig
	Limits     LimitsConfig
	Logger     LoggerConfig
}

type LoggerConfig struct {
	Level  string
	Format string // json | console
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	StaticDir    string
}

// LLMConfig configures the chat-completion provider used for both
// relatedness and discrepancy prompts.
type LLMConfig struct {
	Provider         string
	APIKey           string
	BaseURL          string
	Model            string
	Timeout          time.Duration
	MaxTokens        int
	Temperature      float64
	RetryInvalidJSON int
	HTTPReferer      string
	AppTitle         string
}

type GigaChatConfig struct {
	APIKey             string
	Scope              string
	Model              string
	InsecureSkipVerify bool
}

type OCRConfig struct {
	APIKey  string
	URL     string
	Timeout time.Duration
}

type ExtractionConfig struct {
	PDFEngine string
}

type LimitsConfig struct {
	MaxUploadBytes int64
	MaxChars       int
}

func Load() (*Config, error) {
	// .env is optional; plain environment variables work as well (Docker/K8s)
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8000"),
			ReadTimeout:  time.Duration(getEnvInt("SERVER_READ_TIMEOUT", 30)) * time.Second,
			WriteTimeout: time.Duration(getEnvInt("SERVER_WRITE_TIMEOUT", 120)) * time.Second,
			StaticDir:    getEnv("WEB_STATIC_DIR", ""),
		},
		LLM: LLMConfig{
			Provider:         strings.ToLower(getEnv("LLM_PROVIDER", ProviderOpenRouter)),
			APIKey:           getEnv("LLM_API_KEY", ""),
			BaseURL:          getEnv("LLM_BASE_URL", "https://openrouter.ai/api/v1"),
			Model:            getEnv("LLM_MODEL", "mistralai/mistral-7b-instruct:free"),
			Timeout:          time.Duration(getEnvInt("LLM_TIMEOUT", 30)) * time.Second,
			MaxTokens:        getEnvInt("LLM_MAX_TOKENS", 4000),
			Temperature:      getEnvFloat("LLM_TEMPERATURE", 0.1),
			RetryInvalidJSON: getEnvInt("LLM_RETRY_ON_INVALID_JSON", 1),
			HTTPReferer:      getEnv("LLM_HTTP_REFERER", "http://localhost:8000"),
			AppTitle:         getEnv("LLM_APP_TITLE", "Two-Doc Checker"),
		},
		GigaChat: GigaChatConfig{
			APIKey:             getEnv("GIGACHAT_API_KEY", ""),
			Scope:              getEnv("GIGACHAT_SCOPE", "GIGACHAT_API_PERS"),
			Model:              getEnv("GIGACHAT_MODEL", "GigaChat"),
			InsecureSkipVerify: getEnvBool("GIGACHAT_INSECURE_SKIP_VERIFY", false),
		},
		OCR: OCRConfig{
			APIKey:  getEnv("OCR_API_KEY", getEnv("MISTRAL_API_KEY", "")),
			URL:     getEnv("OCR_URL", "https://api.mistral.ai/v1/ocr"),
			Timeout: time.Duration(getEnvInt("OCR_TIMEOUT", 60)) * time.Second,
		},
		Extraction: ExtractionConfig{
			PDFEngine: strings.ToLower(getEnv("PDF_ENGINE", PDFEngineFitz)),
		},
		Limits: LimitsConfig{
			MaxUploadBytes: getEnvInt64("MAX_UPLOAD_BYTES", 10*1024*1024),
			MaxChars:       getEnvInt("MAX_CHARS", 120_000),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderOpenRouter, ProviderGigaChat:
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.LLM.Provider)
	}
	switch c.Extraction.PDFEngine {
	case PDFEngineFitz, PDFEngineNative:
	default:
		return fmt.Errorf("unknown PDF_ENGINE %q", c.Extraction.PDFEngine)
	}
	if c.Limits.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.Limits.MaxUploadBytes)
	}
	if c.Limits.MaxChars <= 0 {
		return fmt.Errorf("MAX_CHARS must be positive, got %d", c.Limits.MaxChars)
	}
	if c.LLM.RetryInvalidJSON < 0 {
		return fmt.Errorf("LLM_RETRY_ON_INVALID_JSON must not be negative, got %d", c.LLM.RetryInvalidJSON)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
