package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/documind-ai/documind/internal/bootstrap"
	"github.com/documind-ai/documind/internal/config"
	"github.com/documind-ai/documind/internal/observability/logging"
	"github.com/documind-ai/documind/internal/observability/metrics"
)

const workerService = "documind-worker"

func main() {
	cfg := config.Load()
	logger := logging.NewJSONLogger(workerService, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics(workerService)
	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: workerMetrics.Handler(),
	}
	go func() {
		logger.Info("worker metrics listening", "port", cfg.WorkerMetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("worker metrics server error", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	go runBackfillLoop(ctx, app, cfg, logger)

	processTimeout := time.Duration(cfg.ProcessTimeoutSeconds) * time.Second
	logger.Info("worker subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeDocumentIngested(ctx, func(handlerCtx context.Context, documentID string) error {
		workerMetrics.StartDocument()
		start := time.Now()

		processCtx, cancel := context.WithTimeout(handlerCtx, processTimeout)
		defer cancel()
		processErr := app.ProcessUC.ProcessByID(processCtx, documentID)

		workerMetrics.FinishDocument(workerService, time.Since(start), processErr)
		return processErr
	})
	if err != nil {
		log.Fatalf("worker subscribe error: %v", err)
	}
}

// runBackfillLoop periodically retries indexing for chunks whose embedding
// failed during processing.
func runBackfillLoop(ctx context.Context, app *bootstrap.App, cfg config.Config, logger *slog.Logger) {
	interval := time.Duration(cfg.BackfillIntervalSecs) * time.Second
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			indexed, err := app.BackfillUC.Backfill(ctx)
			if err != nil {
				logger.Warn("embedding backfill failed", "error", err)
				continue
			}
			if indexed > 0 {
				logger.Info("embedding backfill indexed chunks", "count", indexed)
			}
		}
	}
}
