package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/storm-data-conditions/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/storm-data-conditions/internal/adapter/kafka"
	"github.com/couchcryptid/storm-data-conditions/internal/adapter/mapbox"
	"github.com/couchcryptid/storm-data-conditions/internal/adapter/nws"
	"github.com/couchcryptid/storm-data-conditions/internal/config"
	"github.com/couchcryptid/storm-data-conditions/internal/domain"
	"github.com/couchcryptid/storm-data-conditions/internal/observability"
	"github.com/couchcryptid/storm-data-conditions/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Outermost first: cache, rate limiter, breaker, client.
	var fetcher domain.Fetcher = nws.NewClient(cfg, metrics, logger)
	fetcher = nws.NewBreakerFetcher(fetcher, cfg.NWSBreakerOpen, logger)
	fetcher = nws.NewRateLimitedFetcher(fetcher, cfg.NWSRateLimit, max(1, int(cfg.NWSRateLimit)))
	fetcher = nws.NewCachedFetcher(fetcher, cfg.NWSCacheSize, cfg.NWSCacheTTL, nil, metrics)

	// Initialize geocoder (feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN).
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		geocoder = mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled")
	}

	var (
		publisher pipeline.Publisher
		kafkaPub  *kafkaadapter.Publisher
	)
	if cfg.KafkaEnabled {
		kafkaPub = kafkaadapter.NewPublisher(cfg, logger)
		publisher = kafkaPub
		logger.Info("snapshot publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	p := pipeline.New(fetcher, publisher, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, httpadapter.Deps{
		Service:         p,
		Geocoder:        geocoder,
		DefaultLocation: cfg.DefaultLocation,
		Metrics:         metrics,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaPub != nil {
		if err := kafkaPub.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
