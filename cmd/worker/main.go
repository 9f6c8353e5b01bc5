package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.temporal.io/sdk/worker"
	"golang.org/x/sync/errgroup"

	"github.com/ghuser/auctionhouse/pkg/app"
	"github.com/ghuser/auctionhouse/pkg/cache"
	"github.com/ghuser/auctionhouse/pkg/config"
	"github.com/ghuser/auctionhouse/pkg/database"
	"github.com/ghuser/auctionhouse/pkg/events"
	"github.com/ghuser/auctionhouse/pkg/httpx"
	"github.com/ghuser/auctionhouse/pkg/logger"
	"github.com/ghuser/auctionhouse/pkg/realtime"
	"github.com/ghuser/auctionhouse/pkg/telemetry"
	"github.com/ghuser/auctionhouse/pkg/workflows"
	"github.com/ghuser/auctionhouse/services/auction/application/scheduler"
	auctionsvcs "github.com/ghuser/auctionhouse/services/auction/application/services"
	sweepwf "github.com/ghuser/auctionhouse/services/auction/application/workflows"
	notificationsvcs "github.com/ghuser/auctionhouse/services/notification/application/services"
	"github.com/ghuser/auctionhouse/services/notification/application/subscribers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	otelShutdown, metricsHandler, err := telemetry.Setup(ctx, cfg, registry)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(context.Background()) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer pool.Close()
	log.Info("database pool connected")

	// One consumer group for every worker replica: each event is dispatched once.
	eventBus, err := events.NewEventBus(cfg, log,
		events.WithConsumerGroup(cfg.ServiceName+"-notifications"),
		events.WithMetrics(events.NewMetrics(registry)),
	)
	if err != nil {
		log.Error("failed to setup event bus", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer eventBus.Close() //nolint:errcheck

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer redisClient.Close() //nolint:errcheck
	log.Info("redis connected")
	if err := redisClient.RegisterPoolMetrics(registry); err != nil {
		log.Warn("redis pool metrics unavailable", "error", err)
	}

	appConfig := &app.Application{
		Config:   cfg,
		Db:       pool,
		Logger:   log,
		EventBus: eventBus,
		Redis:    redisClient,
		Metrics:  registry,
		Realtime: realtime.NewRedisBus(redisClient, cfg.RealtimeChannel, log),
	}

	if cfg.SchedulerBackend == config.SchedulerTemporal {
		temporalClient, err := workflows.NewTemporalClient(ctx, cfg.TemporalHostPort, cfg.TemporalNamespace, log)
		if err != nil {
			log.Error("failed to initialize temporal client", "error", err)
			os.Exit(1) //nolint:gocritic
		}
		defer temporalClient.Close()
		appConfig.TemporalClient = temporalClient
	}

	notifications := notificationsvcs.New(appConfig)
	if err := subscribers.Register(ctx, eventBus, notifications.Dispatcher, log); err != nil {
		log.Error("failed to register subscribers", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	auctions := auctionsvcs.New(appConfig)

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", metricsHandler)
	mux.Handle("GET /health", httpx.HealthHandler(httpx.HealthChecks{
		Database: pool,
		Redis:    redisClient,
		EventBus: eventBus,
	}))
	srv := httpx.NewServer(cfg.WorkerAddr, mux)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return runExpiration(gctx, appConfig, auctions.Registry)
	})
	g.Go(func() error {
		log.Info("worker metrics listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	log.Info("worker started", "scheduler", cfg.SchedulerBackend)
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("worker stopped with error", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	// EventBus.Close() (via defer) waits up to 30s for in-flight handlers.
	log.Info("worker stopped")
}

// runExpiration drives the expiration sweep with the configured backend until
// ctx is cancelled.
func runExpiration(ctx context.Context, a *app.Application, sweeper scheduler.Sweeper) error {
	cfg := a.Config
	if a.TemporalClient == nil {
		return scheduler.NewExpiration(sweeper, cfg.SweepInterval, cfg.DependencyTimeout, a.Logger).Run(ctx)
	}

	if err := sweepwf.EnsureSchedule(ctx, a.TemporalClient.Client, cfg.TemporalTaskQueue, cfg.SweepInterval); err != nil {
		return err
	}
	return a.TemporalClient.RunWorker(ctx, cfg.TemporalTaskQueue, func(w worker.Registry) {
		sweepwf.Register(w, &sweepwf.Activities{Sweeper: sweeper, Log: a.Logger})
	})
}
