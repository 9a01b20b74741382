package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultTavilyBaseURL    = "https://api.tavily.com"
	defaultTavilyDepth      = "basic"
	defaultTavilyMaxResults = 5
	defaultTavilyTopic      = "general"
	defaultTavilyTimeout    = 30 * time.Second

	// Upper bound on error bodies copied into returned errors.
	maxErrorBody = 512
)

// ErrMissingAPIKey is returned when a Tavily provider has no credential.
var ErrMissingAPIKey = errors.New("tavily: API key is missing")

// TavilyOptions configures a Tavily provider. Zero values take the Tavily
// client defaults.
type TavilyOptions struct {
	APIKey     string
	BaseURL    string
	Depth      string // "basic" or "advanced"
	MaxResults int
	Topic      string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Tavily calls the Tavily search API.
type Tavily struct {
	apiKey     string
	endpoint   string
	depth      string
	maxResults int
	topic      string
	client     *http.Client
}

// NewTavily constructs a Tavily search provider.
func NewTavily(opts TavilyOptions) *Tavily {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultTavilyBaseURL
	}
	if opts.Depth == "" {
		opts.Depth = defaultTavilyDepth
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = defaultTavilyMaxResults
	}
	if opts.Topic == "" {
		opts.Topic = defaultTavilyTopic
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTavilyTimeout
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	return &Tavily{
		apiKey:     opts.APIKey,
		endpoint:   strings.TrimRight(opts.BaseURL, "/") + "/search",
		depth:      opts.Depth,
		maxResults: opts.MaxResults,
		topic:      opts.Topic,
		client:     client,
	}
}

type tavilyRequest struct {
	Query       string `json:"query"`
	SearchDepth string `json:"search_depth"`
	MaxResults  int    `json:"max_results"`
	Topic       string `json:"topic"`
}

type tavilyResponse struct {
	Query   string `json:"query"`
	Results []struct {
		Title   string  `json:"title"`
		URL     string  `json:"url"`
		Content string  `json:"content"`
		Score   float64 `json:"score"`
	} `json:"results"`
}

// Search posts a query to Tavily. Results keep the order Tavily returned.
func (t *Tavily) Search(ctx context.Context, query string) ([]Result, error) {
	if strings.TrimSpace(t.apiKey) == "" {
		return nil, ErrMissingAPIKey
	}

	payload, err := json.Marshal(tavilyRequest{
		Query:       query,
		SearchDepth: t.depth,
		MaxResults:  t.maxResults,
		Topic:       t.topic,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.apiKey)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tavily request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("tavily http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var response tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("tavily decode: %w", err)
	}

	results := make([]Result, 0, len(response.Results))
	for _, r := range response.Results {
		results = append(results, Result{Title: r.Title, URL: r.URL, Content: r.Content})
	}
	return results, nil
}
