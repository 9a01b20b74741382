package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"trend-agents/internal/agent"
	"trend-agents/internal/app"
	"trend-agents/internal/httputil"
	"trend-agents/internal/pipeline"
)

const (
	shutdownTimeout = 10 * time.Second
	maxRequestBytes = 4 << 10
)

type trendsRequest struct {
	Query string `json:"query" validate:"required,min=3,max=400"`
}

func main() {
	deps, err := app.Build()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}

	r := httputil.NewRouter(deps.Log, deps.Config.RequestTimeout)
	r.Post("/api/trends", trendsHandler(deps.Log, deps.Pipeline()))
	r.Get("/healthz", httputil.HealthHandler(deps.Log))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", deps.Config.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		deps.Log.Info("gateway listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		deps.Log.Error("gateway stopped", "err", err)
		os.Exit(1)
	}
	deps.Log.Info("gateway stopped")
}

type runner interface {
	Run(ctx context.Context, query string) (pipeline.Report, error)
}

func trendsHandler(log *slog.Logger, p runner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req trendsRequest
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				httputil.Fail(log, w, "payload too large", err, http.StatusRequestEntityTooLarge)
				return
			}
			httputil.Fail(log, w, "invalid payload", err, http.StatusBadRequest)
			return
		}
		if err := httputil.Validator.Struct(&req); err != nil {
			httputil.ValidationError(log, w, err)
			return
		}

		report, err := p.Run(r.Context(), req.Query)
		switch {
		case errors.Is(err, agent.ErrEmptyQuery):
			httputil.Fail(log, w, "query is empty", err, http.StatusBadRequest)
			return
		case err != nil:
			httputil.Fail(log, w, "search stage failed", err, http.StatusBadGateway)
			return
		}

		httputil.WriteJSON(w, http.StatusOK, report)
	}
}
