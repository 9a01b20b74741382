package config

import (
	"log/slog"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds runtime configuration for the trend pipeline.
type Config struct {
	// Server
	Port      int    `env:"PORT" envDefault:"8080"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"` // "json" or "text"

	// Bounds a whole gateway request, both stages included.
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"300s"`

	// Search
	SearchProvider   string        `env:"SEARCH_PROVIDER" envDefault:"tavily"` // "tavily" (only supported backend)
	TavilyKey        string        `env:"TAVILY_API_KEY"`
	TavilyBaseURL    string        `env:"TAVILY_BASE_URL" envDefault:"https://api.tavily.com"`
	SearchDepth      string        `env:"SEARCH_DEPTH" envDefault:"basic"`
	SearchMaxResults int           `env:"SEARCH_MAX_RESULTS" envDefault:"5"`
	SearchTimeout    time.Duration `env:"SEARCH_TIMEOUT" envDefault:"30s"`

	// LLM
	LLMProvider   string        `env:"LLM_PROVIDER" envDefault:"ollama"` // "ollama" (local, OpenAI-compatible) or "openai"
	LLMBaseURL    string        `env:"LLM_BASE_URL"`
	OpenAIKey     string        `env:"OPENAI_API_KEY"`
	LLMModel      string        `env:"LLM_MODEL" envDefault:"mistral"`
	AnalysisModel string        `env:"ANALYSIS_LLM_MODEL"` // empty means LLMModel
	LLMTimeout    time.Duration `env:"LLM_TIMEOUT" envDefault:"120s"`

	// Prompting
	SummaryYear int `env:"SUMMARY_YEAR" envDefault:"2025"`
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		slog.Warn("failed to parse env; using defaults where set", "err", err)
	}
	return cfg
}

// AnalysisLLMModel returns the model used by the analysis stage.
func (c Config) AnalysisLLMModel() string {
	if c.AnalysisModel != "" {
		return c.AnalysisModel
	}
	return c.LLMModel
}
