package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"trend-agents/internal/app"
	"trend-agents/internal/config"
	"trend-agents/internal/llm"
	"trend-agents/internal/search"
)

func newTestDeps(s search.Provider, summaryLLM, analysisLLM llm.Client) app.Deps {
	return app.Deps{
		Config:      config.Config{SummaryYear: 2025},
		Log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		Search:      s,
		SummaryLLM:  summaryLLM,
		AnalysisLLM: analysisLLM,
	}
}

func TestRun(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(*search.MockProvider, *llm.MockClient, *llm.MockClient)
		wantOut []string
		wantErr bool
	}{
		{
			name: "prints summary then analysis",
			setup: func(p *search.MockProvider, s *llm.MockClient, a *llm.MockClient) {
				p.On("Search", mock.Anything, "consumer trends 2025 global").Return([]search.Result{
					{Title: "One", URL: "https://1.example", Content: "first"},
					{Title: "Two", URL: "https://2.example", Content: "second"},
					{Title: "Three", URL: "https://3.example", Content: "third"},
				}, nil).Once()
				s.On("Invoke", mock.Anything, mock.Anything).Return("SUMMARY-BODY", nil).Once()
				a.On("Invoke", mock.Anything, mock.Anything).Return("ANALYSIS-BODY", nil).Once()
			},
			wantOut: []string{"=== SUMMARY FROM WEB AGENT ===", "SUMMARY-BODY", "=== ANALYSIS FROM ANALYSIS AGENT ===", "ANALYSIS-BODY"},
		},
		{
			name: "analysis failure still completes",
			setup: func(p *search.MockProvider, s *llm.MockClient, a *llm.MockClient) {
				p.On("Search", mock.Anything, mock.Anything).Return([]search.Result{}, nil).Once()
				a.On("Invoke", mock.Anything, mock.Anything).Return("", errors.New("ollama down")).Once()
			},
			wantOut: []string{
				"=== SUMMARY FROM WEB AGENT ===", "No results found for this query.",
				"=== ANALYSIS FROM ANALYSIS AGENT ===", "AnalysisStage encountered an error while analyzing the trends.",
			},
		},
		{
			name: "search failure aborts without output",
			setup: func(p *search.MockProvider, s *llm.MockClient, a *llm.MockClient) {
				p.On("Search", mock.Anything, mock.Anything).Return(nil, errors.New("tavily http 401")).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := new(search.MockProvider)
			summaryLLM := new(llm.MockClient)
			analysisLLM := new(llm.MockClient)
			tt.setup(provider, summaryLLM, analysisLLM)

			var out bytes.Buffer
			err := run(context.Background(), newTestDeps(provider, summaryLLM, analysisLLM).Pipeline(), &out)

			if tt.wantErr {
				require.Error(t, err)
				assert.Empty(t, out.String())
			} else {
				require.NoError(t, err)
				// Sections appear in order.
				last := -1
				for _, want := range tt.wantOut {
					idx := strings.Index(out.String(), want)
					require.GreaterOrEqual(t, idx, 0, "missing %q in output", want)
					assert.Greater(t, idx, last, "%q out of order", want)
					last = idx
				}
			}
			provider.AssertExpectations(t)
			summaryLLM.AssertExpectations(t)
			analysisLLM.AssertExpectations(t)
		})
	}
}
