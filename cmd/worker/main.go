package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/smartodonto/clinic-api/internal/config"
	"github.com/smartodonto/clinic-api/internal/worker"
	"github.com/smartodonto/clinic-api/pkg/logger"
	"github.com/smartodonto/clinic-api/pkg/messaging/redis"
)

func setupHealthCheck(port int, broker *redis.RedisBroker, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := broker.Ping(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("health check server failed")
		}
	}()

	return srv
}

func main() {
	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Initialize logger
	l := logger.Setup(&logger.Config{
		Level:      logger.ParseLevel(cfg.Log.Level),
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
		JSON:       cfg.Log.JSON,
	})
	l = l.With().Str("component", "event-worker").Logger()

	if cfg.Redis.URL == "" {
		l.Fatal().Msg("redis.url is required by the event worker")
	}

	// Initialize Redis broker
	broker, err := redis.NewRedisBroker(redis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: cfg.Redis.RetryBackoff,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, &l)
	if err != nil {
		l.Fatal().Err(err).Msg("failed to create Redis broker")
	}
	defer broker.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	events := worker.NewEventLogger(cfg.Metrics.Namespace, reg)

	ctx, cancel := context.WithCancel(l.WithContext(context.Background()))
	defer cancel()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		l.Info().Msg("shutting down...")
		cancel()
	}()

	msgs, err := broker.Subscribe(ctx, cfg.Redis.Channel)
	if err != nil {
		l.Fatal().Err(err).Str("channel", cfg.Redis.Channel).Msg("failed to subscribe")
	}

	// Setup health check endpoints
	srv := setupHealthCheck(cfg.Worker.Port, broker, reg)

	events.Run(ctx, msgs)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Error().Err(err).Msg("health check server forced to shutdown")
	}
}
