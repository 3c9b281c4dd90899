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
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/smartodonto/clinic-api/internal/config"
	"github.com/smartodonto/clinic-api/internal/handler"
	appointmentHandler "github.com/smartodonto/clinic-api/internal/handler/appointment"
	availabilityHandler "github.com/smartodonto/clinic-api/internal/handler/availability"
	scheduleHandler "github.com/smartodonto/clinic-api/internal/handler/schedule"
	"github.com/smartodonto/clinic-api/internal/middleware"
	"github.com/smartodonto/clinic-api/internal/repository/postgres"
	"github.com/smartodonto/clinic-api/internal/router"
	appointmentService "github.com/smartodonto/clinic-api/internal/service/appointment"
	availabilityService "github.com/smartodonto/clinic-api/internal/service/availability"
	scheduleService "github.com/smartodonto/clinic-api/internal/service/schedule"
	"github.com/smartodonto/clinic-api/pkg/logger"
	"github.com/smartodonto/clinic-api/pkg/messaging"
	"github.com/smartodonto/clinic-api/pkg/messaging/redis"
	"github.com/smartodonto/clinic-api/pkg/metrics"
	"github.com/smartodonto/clinic-api/pkg/validator"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger.Setup(&logger.Config{
		Level:      logger.ParseLevel(cfg.Log.Level),
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
		JSON:       cfg.Log.JSON,
	})

	if err := validator.Register(); err != nil {
		log.Fatal().Err(err).Msg("failed to register validators")
	}

	// Initialize database
	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Initialize metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(cfg.Metrics.Namespace, reg)

	// Initialize repositories
	providerRepo := postgres.NewProviderRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	procedureRepo := postgres.NewProcedureRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	availabilityRepo := postgres.NewAvailabilityRepository(db)
	scheduleRepo := postgres.NewScheduleRepository(db)

	// Initialize event publisher
	var publisher messaging.Publisher = messaging.NopPublisher{}
	if cfg.Redis.URL != "" {
		broker, err := redis.NewRedisBroker(redis.Config{
			URL:          cfg.Redis.URL,
			MaxRetries:   cfg.Redis.MaxRetries,
			RetryBackoff: cfg.Redis.RetryBackoff,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		}, &log.Logger)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, appointment events disabled")
		} else {
			defer broker.Close()
			publisher = messaging.NewChannelPublisher(broker, cfg.Redis.Channel)
		}
	}

	// Initialize services
	allocator := scheduleService.NewAllocator(scheduleService.Config{
		BusinessFloor:        cfg.Schedule.BusinessFloor,
		BusinessCeiling:      cfg.Schedule.BusinessCeiling,
		ClampToBusinessHours: cfg.Schedule.ClampToBusinessHours,
		CountryCode:          cfg.Schedule.CountryCode,
		MaxRangeDays:         cfg.Schedule.MaxRangeDays,
	})
	scheduleSvc := scheduleService.NewService(scheduleRepo, providerRepo, allocator, cfg.Schedule.TemplateID, m)
	appointmentSvc := appointmentService.NewService(
		appointmentRepo,
		patientRepo,
		providerRepo,
		procedureRepo,
		publisher,
		m,
		appointmentService.Config{
			DefaultInsuranceID: cfg.Schedule.DefaultInsuranceID,
			BookingRetries:     cfg.Schedule.BookingRetries,
		},
	)
	availabilitySvc := availabilityService.NewService(availabilityRepo, providerRepo)

	// Initialize handlers
	h := handler.NewHandler(db, reg)

	// Setup router
	r := router.NewRouter(h, router.RouterConfig{
		RateLimitEnabled: cfg.RateLimit.Enabled,
		RateLimit:        rate.Limit(cfg.RateLimit.RequestsPerSecond),
		RateBurst:        cfg.RateLimit.Burst,
		RateLimitIdleTTL: cfg.RateLimit.IdleTTL,
		RequestTimeout:   cfg.Server.RequestTimeout,
		CORSConfig:       middleware.DefaultCORSConfig(),
		SecurityConfig:   middleware.DefaultSecurityConfig(),
		MetricsPrefix:    cfg.Metrics.Namespace,
		Registerer:       reg,
	},
		scheduleHandler.NewHandler(scheduleSvc),
		appointmentHandler.NewHandler(appointmentSvc),
		availabilityHandler.NewHandler(availabilitySvc),
	)
	r.Setup()

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
