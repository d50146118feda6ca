package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	DatabaseURL string `envconfig:"DATABASE_URL" default:""`
	DBMinConns  int32  `envconfig:"NA_DB_MIN_CONNS" default:"1"`
	DBMaxConns  int32  `envconfig:"NA_DB_MAX_CONNS" default:"8"`

	DefaultLanguage          string  `envconfig:"DEFAULT_LANGUAGE" default:"pt"`
	SentimentThreshold       float64 `envconfig:"SENTIMENT_THRESHOLD" default:"0.02"`
	SentimentConfidenceScale float64 `envconfig:"SENTIMENT_CONFIDENCE_SCALE" default:"2"`
	EntityCap                int     `envconfig:"ENTITY_CAP" default:"10"`
	ContextMinHits           int     `envconfig:"CONTEXT_MIN_HITS" default:"1"`

	CategoryConfidenceDivisor float64 `envconfig:"CATEGORY_CONFIDENCE_DIVISOR" default:"10"`
	DynamicCategories         bool    `envconfig:"DYNAMIC_CATEGORIES" default:"false"`
	AutoAssignThreshold       float64 `envconfig:"AUTO_ASSIGN_THRESHOLD" default:"0.3"`
	AnalysisWorkers           int     `envconfig:"ANALYSIS_WORKERS" default:"4"`

	GenerativeProvider string        `envconfig:"GENERATIVE_PROVIDER" default:"openai"`
	GenerativeTimeout  time.Duration `envconfig:"GENERATIVE_TIMEOUT" default:"30s"`
	GenerativeRPS      float64       `envconfig:"GENERATIVE_RPS" default:"2"`
	OpenAIAPIKey       string        `envconfig:"OPENAI_API_KEY" default:""`
	OpenAIBaseURL      string        `envconfig:"OPENAI_BASE_URL" default:""`
	OpenAIModel        string        `envconfig:"OPENAI_MODEL" default:""`
	GeminiAPIKey       string        `envconfig:"GEMINI_API_KEY" default:""`
	GeminiModel        string        `envconfig:"GEMINI_MODEL" default:""`

	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:""`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate checks settings every command needs. DATABASE_URL is checked
// separately by RequireDatabase since text-only commands run without it.
func (c *Config) Validate() error {
	if c.DBMinConns < 0 {
		return fmt.Errorf("NA_DB_MIN_CONNS must be >= 0")
	}
	if c.DBMaxConns < 1 {
		return fmt.Errorf("NA_DB_MAX_CONNS must be >= 1")
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("NA_DB_MIN_CONNS (%d) cannot exceed NA_DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	if strings.TrimSpace(c.DefaultLanguage) == "" {
		return fmt.Errorf("DEFAULT_LANGUAGE is required")
	}
	if c.SentimentThreshold < 0 {
		return fmt.Errorf("SENTIMENT_THRESHOLD must be >= 0")
	}
	if c.SentimentConfidenceScale <= 0 {
		return fmt.Errorf("SENTIMENT_CONFIDENCE_SCALE must be > 0")
	}
	if c.EntityCap < 1 {
		return fmt.Errorf("ENTITY_CAP must be >= 1")
	}
	if c.ContextMinHits < 1 {
		return fmt.Errorf("CONTEXT_MIN_HITS must be >= 1")
	}
	if c.CategoryConfidenceDivisor <= 0 {
		return fmt.Errorf("CATEGORY_CONFIDENCE_DIVISOR must be > 0")
	}
	if c.AutoAssignThreshold < 0 || c.AutoAssignThreshold > 1 {
		return fmt.Errorf("AUTO_ASSIGN_THRESHOLD must be between 0 and 1")
	}
	if c.AnalysisWorkers < 1 {
		return fmt.Errorf("ANALYSIS_WORKERS must be >= 1")
	}
	if c.GenerativeTimeout <= 0 {
		return fmt.Errorf("GENERATIVE_TIMEOUT must be > 0")
	}
	if c.GenerativeRPS < 0 {
		return fmt.Errorf("GENERATIVE_RPS must be >= 0")
	}
	return nil
}

// RequireDatabase reports whether store-backed commands can run.
func (c *Config) RequireDatabase() error {
	if c == nil || strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	return nil
}

// HasGenerativeBackend reports whether any generative credential is set.
func (c *Config) HasGenerativeBackend() bool {
	if c == nil {
		return false
	}
	return strings.TrimSpace(c.OpenAIAPIKey) != "" || strings.TrimSpace(c.GeminiAPIKey) != ""
}

func (c *Config) CORSAllowedOriginsList() []string {
	if c == nil {
		return nil
	}

	parts := strings.Split(c.CORSAllowedOrigins, ",")
	origins := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin == "" {
			continue
		}
		if _, exists := seen[origin]; exists {
			continue
		}
		seen[origin] = struct{}{}
		origins = append(origins, origin)
	}
	return origins
}
