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

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"github.com/arenakit/match-replay-service/internal/config"
	"github.com/arenakit/match-replay-service/internal/domain"
	"github.com/arenakit/match-replay-service/internal/event"
	"github.com/arenakit/match-replay-service/internal/handler"
	"github.com/arenakit/match-replay-service/internal/health"
	"github.com/arenakit/match-replay-service/internal/infra/replayaudit"
	"github.com/arenakit/match-replay-service/internal/infra/replaybackend"
	"github.com/arenakit/match-replay-service/internal/infra/repository"
	"github.com/arenakit/match-replay-service/internal/observability"
	"github.com/arenakit/match-replay-service/internal/observability/metrics"
	"github.com/arenakit/match-replay-service/internal/service/anchor"
	"github.com/arenakit/match-replay-service/internal/service/listing"
	"github.com/arenakit/match-replay-service/internal/service/replay"
	"github.com/arenakit/match-replay-service/internal/store"
)

// Version is set via ldflags at build time
var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		return 1
	}

	if err := config.ValidateForRun(cfg); err != nil {
		slog.Error("configuration validation error", slog.String("error", err.Error()))
		return 1
	}

	serviceName := os.Getenv("SERVICE_NAME")
	if serviceName == "" {
		serviceName = "match-replay"
	}

	obs, err := observability.Init(ctx, observability.Config{
		ServiceName:  serviceName,
		Version:      Version,
		LogLevel:     cfg.LogLevel,
		SamplingRate: 1.0,
	})
	if err != nil {
		slog.Error("failed to initialize observability", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			slog.Warn("observability shutdown error", slog.String("error", err.Error()))
		}
	}()

	slog.SetDefault(obs.Logger())

	replayMetrics, err := metrics.NewReplayMetrics()
	if err != nil {
		slog.Error("failed to initialize replay metrics", slog.String("error", err.Error()))
		return 1
	}

	// Audit recorder (InfluxDB for local, BigQuery for gcloud)
	auditCfg := replayaudit.LoadConfig()
	auditRecorder, err := replayaudit.NewRecorder(ctx, auditCfg)
	if err != nil {
		slog.Error("failed to initialize replay audit recorder", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		if err := auditRecorder.Close(); err != nil {
			slog.Warn("failed to close replay audit recorder", slog.String("error", err.Error()))
		}
	}()

	// Replay history store: in-process by default, redis when configured
	var (
		replayStore domain.ReplayHistory
		redisClient *redis.Client
	)
	switch cfg.Replay.Store {
	case config.StoreRedis:
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		if err := redisotel.InstrumentTracing(redisClient); err != nil {
			slog.Error("failed to instrument redis tracing",
				slog.String("event", "redis.otel.tracing.fail"),
				slog.String("error", err.Error()),
			)
			return 1
		}
		if err := redisotel.InstrumentMetrics(redisClient); err != nil {
			slog.Error("failed to instrument redis metrics",
				slog.String("event", "redis.otel.metrics.fail"),
				slog.String("error", err.Error()),
			)
			return 1
		}

		if err := redisClient.Ping(ctx).Err(); err != nil {
			slog.Error("failed to connect redis",
				slog.String("event", "redis.connect.fail"),
				slog.String("error", err.Error()),
			)
			return 1
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				slog.Warn("failed to close redis client", slog.String("error", err.Error()))
			}
		}()

		slog.Info("redis connected", slog.String("addr", cfg.Redis.Addr))
		replayStore = repository.NewReplayRepository(redisClient, cfg.Replay.MaxReplaysPerUser)
	default:
		replayStore = store.NewMemory(cfg.Replay.MaxReplaysPerUser)
	}

	// Capability adapter: without a backend URL the capability is absent
	// and recording degrades to listing-only operation.
	var backend replaybackend.Backend
	if cfg.Backend.URL != "" {
		backend = replaybackend.NewClient(cfg.Backend.URL, cfg.Backend.Timeout)
	} else {
		slog.Warn("REPLAY_BACKEND_URL not set, replay capture disabled")
		backend = replaybackend.NewNoopBackend()
	}
	adapter := replaybackend.NewAdapter(backend)
	adapter.Initialize(ctx)

	bus := event.NewBus()

	orchestrator := replay.NewService(cfg.Replay, adapter, replayStore, anchor.NewResolver(), replayMetrics, auditRecorder)
	orchestrator.Subscribe(bus)

	listingService := listing.NewService(cfg.Replay, adapter, replayStore)

	matchEventHandler := handler.NewMatchEventHandler(bus)
	replayHandler := handler.NewReplayHandler(listingService)

	r := gin.New()
	r.Use(gin.Recovery())

	healthChecker := health.NewChecker(redisClient, adapter, Version)
	r.GET("/health/live", healthChecker.LiveHandler())
	r.GET("/health/ready", healthChecker.ReadyHandler())
	r.GET("/health", healthChecker.ReadyHandler())

	v1 := r.Group("/api/v1")
	{
		v1.POST("/matches/start", matchEventHandler.HandleMatchStart)
		v1.POST("/matches/end", matchEventHandler.HandleMatchEnd)
		v1.GET("/users/:userID/replays", replayHandler.HandleListUserReplays)
		v1.GET("/replays/feature", replayHandler.HandleFeatureStatus)
		v1.GET("/replays/:recordingID", replayHandler.HandleGetReplay)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Port),
			slog.Bool("replay_enabled", cfg.Replay.Enabled),
			slog.Int("max_replays_per_user", cfg.Replay.MaxReplaysPerUser),
			slog.String("store", cfg.Replay.Store),
		)
		serverErr <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		// Settle in-flight recordings before the process goes away.
		orchestrator.Shutdown(shutdownCtx)

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown server", slog.String("error", err.Error()))
			return 1
		}

		slog.Info("server exited properly")
		return 0

	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return 0
		}
		slog.Error("server exited with error", slog.String("error", err.Error()))
		return 1
	}
}
