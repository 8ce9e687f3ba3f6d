package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/VarunUmapathy/Urbanlytic/internal/adapter/httpapi"
	kafkaadapter "github.com/VarunUmapathy/Urbanlytic/internal/adapter/kafka"
	"github.com/VarunUmapathy/Urbanlytic/internal/adapter/webhook"
	"github.com/VarunUmapathy/Urbanlytic/internal/config"
	"github.com/VarunUmapathy/Urbanlytic/internal/domain"
	"github.com/VarunUmapathy/Urbanlytic/internal/ingest"
	"github.com/VarunUmapathy/Urbanlytic/internal/observability"
	"github.com/VarunUmapathy/Urbanlytic/internal/store"
	"github.com/jonboulle/clockwork"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	db, err := store.Open(cfg.DBPath, clockwork.NewRealClock())
	if err != nil {
		logger.Error("failed to open store", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}

	resolver := domain.NewLocationResolver(
		domain.LatLng{Lat: cfg.FallbackLat, Lng: cfg.FallbackLng}, logger)
	normalizer := domain.NewNormalizer(resolver, func(field string) {
		metrics.NormalizeFallbacks.WithLabelValues(field).Inc()
	})

	// Secondary sinks are feature-flagged by the presence of their settings.
	var forwarders []ingest.Forwarder
	if cfg.WebhookEnabled {
		forwarders = append(forwarders, webhook.NewClient(cfg.WebhookURL, cfg.WebhookTimeout, logger))
		logger.Info("webhook forwarding enabled", "timeout", cfg.WebhookTimeout)
	}
	var kafkaWriter *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		kafkaWriter = kafkaadapter.NewWriter(cfg.KafkaBrokers, cfg.KafkaSinkTopic, logger)
		forwarders = append(forwarders, kafkaWriter)
		logger.Info("kafka forwarding enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaSinkTopic)
	}
	if len(forwarders) == 0 {
		logger.Info("secondary forwarding disabled")
	}

	dispatcher := ingest.NewDispatcher(forwarders, db, cfg.ForwardQueueSize,
		cfg.WebhookTimeout, logger, metrics)

	reader := ingest.NewReader(db, db, normalizer, cfg.ReportListLimit, logger, metrics)
	writer := ingest.NewWriter(db, dispatcher, logger, metrics)

	srv := httpapi.NewServer(cfg.HTTPAddr, reader, writer, db, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		if err := dispatcher.Run(ctx); err != nil {
			logger.Error("dispatcher error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaWriter != nil {
		if err := kafkaWriter.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}
	if err := db.Close(); err != nil {
		logger.Error("store close error", "error", err)
	}

	logger.Info("shutdown complete")
}
