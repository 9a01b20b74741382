package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"trend-agents/internal/app"
	"trend-agents/internal/pipeline"
)

const query = "consumer trends 2025 global"

func main() {
	deps, err := app.Build()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}

	if err := run(context.Background(), deps.Pipeline(), os.Stdout); err != nil {
		deps.Log.Error("pipeline failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, p *pipeline.Pipeline, out io.Writer) error {
	report, err := p.Run(ctx, query)
	if err != nil {
		return err
	}
	return report.WriteText(out)
}
