package agent

import (
	"context"
	"log/slog"
	"unicode/utf8"

	"trend-agents/internal/llm"
)

// AnalysisFallback is what AnalysisStage returns when the model call fails.
const AnalysisFallback = "AnalysisStage encountered an error while analyzing the trends."

const analysisInstruction = "Analyze the following consumer trend summary. " +
	"Identify key themes, industries, sentiment, and potential opportunities.\n\n"

// AnalysisStage asks a model for themes, sentiment and opportunities in a text.
type AnalysisStage struct {
	model llm.Client
	log   *slog.Logger
}

// NewAnalysisStage builds a stage that owns the given model client.
func NewAnalysisStage(model llm.Client, log *slog.Logger) *AnalysisStage {
	if log == nil {
		log = slog.Default()
	}
	return &AnalysisStage{model: model, log: log}
}

// Run analyzes text and always returns prose. Any input is accepted as is,
// including the NoResults sentinel. Failures yield AnalysisFallback.
func (a *AnalysisStage) Run(ctx context.Context, text string) (analysis string) {
	defer func() {
		if rec := recover(); rec != nil {
			a.log.ErrorContext(ctx, "analysis panicked", "panic", rec)
			analysis = AnalysisFallback
		}
	}()

	a.log.InfoContext(ctx, "analyzing", "chars", utf8.RuneCountInString(text))
	if a.model == nil {
		a.log.WarnContext(ctx, "analysis failed", "err", "no model client")
		return AnalysisFallback
	}
	out, err := a.model.Invoke(ctx, []llm.Message{llm.UserMessage(AnalysisPrompt(text))})
	if err != nil {
		a.log.WarnContext(ctx, "analysis failed", "err", err)
		return AnalysisFallback
	}
	return out
}

// AnalysisPrompt wraps text in the analysis instruction.
func AnalysisPrompt(text string) string {
	return analysisInstruction + text
}
