package app

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"

	"trend-agents/internal/agent"
	"trend-agents/internal/config"
	"trend-agents/internal/llm"
	"trend-agents/internal/logger"
	"trend-agents/internal/pipeline"
	"trend-agents/internal/search"
)

// Deps bundles common runtime dependencies for the entry points. Each stage
// gets its own model client.
type Deps struct {
	Config      config.Config
	Log         *slog.Logger
	Search      search.Provider
	SummaryLLM  llm.Client
	AnalysisLLM llm.Client
}

// Build loads env, config, and shared components.
func Build() (Deps, error) {
	// A missing .env is fine; the process environment still applies.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Deps{}, fmt.Errorf("failed to load environment variables: %w", err)
	}
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	return BuildFromConfig(cfg, log)
}

// BuildFromConfig builds dependencies from an already loaded configuration.
func BuildFromConfig(cfg config.Config, log *slog.Logger) (Deps, error) {
	provider, err := buildSearch(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize search: %w", err)
	}
	summaryLLM, err := buildLLM(cfg, cfg.LLMModel, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize summary LLM: %w", err)
	}
	analysisLLM, err := buildLLM(cfg, cfg.AnalysisLLMModel(), log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize analysis LLM: %w", err)
	}
	return Deps{
		Config:      cfg,
		Log:         log,
		Search:      provider,
		SummaryLLM:  summaryLLM,
		AnalysisLLM: analysisLLM,
	}, nil
}

// Pipeline assembles the search and analysis stages from the bundle.
func (d Deps) Pipeline() *pipeline.Pipeline {
	searchStage := agent.NewSearchStage(d.Search, d.SummaryLLM,
		agent.WithSummaryYear(d.Config.SummaryYear),
		agent.WithSearchLogger(d.Log.With("stage", "search")),
	)
	analysisStage := agent.NewAnalysisStage(d.AnalysisLLM, d.Log.With("stage", "analysis"))
	return pipeline.New(d.Log, searchStage, analysisStage)
}

func buildSearch(cfg config.Config, log *slog.Logger) (search.Provider, error) {
	switch cfg.SearchProvider {
	case "tavily":
		if cfg.TavilyKey == "" {
			return nil, fmt.Errorf("TAVILY_API_KEY is required when SEARCH_PROVIDER=tavily")
		}
		log.Info("using Tavily search", "depth", cfg.SearchDepth, "max_results", cfg.SearchMaxResults)
		return search.NewTavily(search.TavilyOptions{
			APIKey:     cfg.TavilyKey,
			BaseURL:    cfg.TavilyBaseURL,
			Depth:      cfg.SearchDepth,
			MaxResults: cfg.SearchMaxResults,
			Timeout:    cfg.SearchTimeout,
		}), nil
	default:
		return nil, fmt.Errorf("invalid SEARCH_PROVIDER: %s (valid option: tavily)", cfg.SearchProvider)
	}
}

func buildLLM(cfg config.Config, model string, log *slog.Logger) (llm.Client, error) {
	opts := llm.Options{
		APIKey:  cfg.OpenAIKey,
		BaseURL: cfg.LLMBaseURL,
		Model:   model,
		Timeout: cfg.LLMTimeout,
	}
	switch cfg.LLMProvider {
	case "ollama":
		// OPENAI_API_KEY must not reach a third-party host.
		opts.APIKey = ""
		client, err := llm.NewOllamaClient(opts)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Ollama client: %w", err)
		}
		log.Info("using Ollama LLM client", "model", client.Model())
		return client, nil
	case "openai":
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required when LLM_PROVIDER=openai")
		}
		client, err := llm.NewOpenAIClient(opts)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize OpenAI client: %w", err)
		}
		log.Info("using OpenAI LLM client", "model", client.Model())
		return client, nil
	default:
		return nil, fmt.Errorf("invalid LLM_PROVIDER: %s (valid options: ollama, openai)", cfg.LLMProvider)
	}
}
