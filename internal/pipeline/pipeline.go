package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
)

const (
	summaryHeader  = "=== SUMMARY FROM WEB AGENT ==="
	analysisHeader = "=== ANALYSIS FROM ANALYSIS AGENT ==="
)

// Searcher produces a summary for a query. Errors abort the run.
type Searcher interface {
	Run(ctx context.Context, query string) (string, error)
}

// Analyzer turns a summary into an analysis and cannot fail.
type Analyzer interface {
	Run(ctx context.Context, text string) string
}

// Report carries the outputs of one run.
type Report struct {
	RunID    uuid.UUID `json:"run_id"`
	Query    string    `json:"query"`
	Summary  string    `json:"summary"`
	Analysis string    `json:"analysis"`
}

// Pipeline runs the search stage and then the analysis stage on its output.
type Pipeline struct {
	log      *slog.Logger
	search   Searcher
	analysis Analyzer
}

// New wires the two stages.
func New(log *slog.Logger, search Searcher, analysis Analyzer) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{log: log, search: search, analysis: analysis}
}

// Run executes both stages sequentially. A search failure is returned and
// analysis is skipped.
func (p *Pipeline) Run(ctx context.Context, query string) (Report, error) {
	report := Report{RunID: uuid.New(), Query: query}
	log := p.log.With("run_id", report.RunID.String())

	log.InfoContext(ctx, "pipeline started", "query", query)
	summary, err := p.search.Run(ctx, query)
	if err != nil {
		log.DebugContext(ctx, "search stage failed", "err", err)
		return report, fmt.Errorf("search stage: %w", err)
	}
	report.Summary = summary

	report.Analysis = p.analysis.Run(ctx, summary)
	log.InfoContext(ctx, "pipeline finished")
	return report, nil
}

// WriteText prints the summary and analysis under their section headers.
func (r Report) WriteText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "\n%s\n\n%s\n\n%s\n\n%s\n", summaryHeader, r.Summary, analysisHeader, r.Analysis)
	return err
}
