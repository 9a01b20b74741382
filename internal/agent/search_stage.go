package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"trend-agents/internal/llm"
	"trend-agents/internal/search"
)

const (
	// NoResults is returned instead of a summary when the search matched nothing.
	NoResults = "No results found for this query."

	// MaxSnippetChars bounds each result's content inside the prompt.
	MaxSnippetChars = 500
	// MaxContextChars bounds the whole formatted result block.
	MaxContextChars = 4000

	DefaultSummaryYear = 2025
)

// ErrEmptyQuery is returned for a blank query.
var ErrEmptyQuery = errors.New("search query is empty")

// SearchStage searches the web and has a model summarize the findings.
type SearchStage struct {
	search search.Provider
	model  llm.Client
	year   int
	log    *slog.Logger
}

// SearchOption customizes a SearchStage.
type SearchOption func(*SearchStage)

// WithSummaryYear sets the year named in the summary prompt.
func WithSummaryYear(year int) SearchOption {
	return func(s *SearchStage) {
		if year > 0 {
			s.year = year
		}
	}
}

// WithSearchLogger sets the stage logger.
func WithSearchLogger(log *slog.Logger) SearchOption {
	return func(s *SearchStage) {
		if log != nil {
			s.log = log
		}
	}
}

// NewSearchStage builds a stage that owns the given search and model clients.
func NewSearchStage(provider search.Provider, model llm.Client, opts ...SearchOption) *SearchStage {
	s := &SearchStage{
		search: provider,
		model:  model,
		year:   DefaultSummaryYear,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run searches for query and returns the model's summary verbatim. When the
// search returns nothing it returns NoResults without calling the model.
// Search and model errors are returned to the caller.
func (s *SearchStage) Run(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", ErrEmptyQuery
	}

	s.log.InfoContext(ctx, "searching", "query", query)
	results, err := s.search.Search(ctx, query)
	if err != nil {
		return "", fmt.Errorf("search %q: %w", query, err)
	}
	if len(results) == 0 {
		s.log.InfoContext(ctx, "no search results", "query", query)
		return NoResults, nil
	}

	webContent := FormatResults(results)
	s.log.InfoContext(ctx, "summarizing", "results", len(results), "chars", utf8.RuneCountInString(webContent))

	summary, err := s.model.Invoke(ctx, []llm.Message{llm.UserMessage(SummaryPrompt(s.year, webContent))})
	if err != nil {
		return "", fmt.Errorf("summarize search results: %w", err)
	}
	return summary, nil
}

// FormatResults renders results in provider order as Title/URL/Snippet blocks,
// each snippet cut to MaxSnippetChars and the whole block to MaxContextChars.
func FormatResults(results []search.Result) string {
	var builder strings.Builder
	for _, r := range results {
		title := r.Title
		if title == "" {
			title = "No title"
		}
		url := r.URL
		if url == "" {
			url = "No URL"
		}
		fmt.Fprintf(&builder, "\n\nTitle: %s\nURL: %s\nSnippet: %s", title, url, truncate(r.Content, MaxSnippetChars))
	}
	return truncate(builder.String(), MaxContextChars)
}

// SummaryPrompt is the instruction sent to the model for a formatted result block.
func SummaryPrompt(year int, webContent string) string {
	return fmt.Sprintf("Summarize the following recent consumer trend information for %d:\n%s", year, webContent)
}
