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

	"github.com/AnshAggr1303/loan-agent-system/internal/bootstrap"
	"github.com/AnshAggr1303/loan-agent-system/internal/config"
	"github.com/AnshAggr1303/loan-agent-system/internal/observability/logging"
	"github.com/AnshAggr1303/loan-agent-system/internal/observability/metrics"
)

func main() {
	cfg := config.Load()
	logger := logging.NewJSONLogger("loan-worker", cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, logger, nil)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics("loan-worker")
	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: metricsMux(workerMetrics),
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

	logger.Info("worker subscribed", "subject", cfg.NATSDecisionsSubject)
	err = app.Queue.SubscribeDecisions(ctx, func(handlerCtx context.Context, applicationID string) error {
		renderCtx, cancel := context.WithTimeout(handlerCtx, 1*time.Minute)
		defer cancel()

		application, err := app.Applications.GetByID(renderCtx, applicationID)
		if err != nil {
			return err
		}
		workerMetrics.ObserveQueueLag("loan-worker", time.Since(application.CreatedAt))

		if !application.Decision.Approved {
			logger.Info("skipping letter for rejected application", "application_id", applicationID)
			return nil
		}

		workerMetrics.StartLetter()
		start := time.Now()
		key, err := app.Renderer.RenderSanctionLetter(renderCtx, application)
		workerMetrics.FinishLetter("loan-worker", time.Since(start), err)
		if err != nil {
			return err
		}
		logger.Info("sanction letter rendered", "application_id", applicationID, "key", key)
		return nil
	})
	if err != nil {
		log.Fatalf("worker subscribe error: %v", err)
	}
}

func metricsMux(m *metrics.WorkerMetrics) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}
