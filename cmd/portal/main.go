package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/Omjadhav321/bhaskar-solar-platform/internal/config"
	"github.com/Omjadhav321/bhaskar-solar-platform/internal/handler"
	"github.com/Omjadhav321/bhaskar-solar-platform/internal/infra/observability"
	"github.com/Omjadhav321/bhaskar-solar-platform/internal/infra/resilience"
	"github.com/Omjadhav321/bhaskar-solar-platform/internal/repository"
	"github.com/Omjadhav321/bhaskar-solar-platform/internal/service"
	"github.com/Omjadhav321/bhaskar-solar-platform/internal/storage"
	"github.com/Omjadhav321/bhaskar-solar-platform/internal/store"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = godotenv.Load(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("data_dir", cfg.DataDir),
		zap.Bool("redis_fallback", cfg.RedisAddr != ""),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
		zap.Duration("jwt_access_ttl", cfg.JWTAccessTTL),
	)

	// --- Tracing (optional: no endpoint, no exporter) ---
	if cfg.OTLPEndpoint != "" {
		shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "bhaskar-solar-portal")
		if err != nil {
			logger.Warn("tracer init failed, continuing without traces", zap.Error(err))
		} else {
			defer shutdown(context.Background())
		}
	}

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Storage mediums ---
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		logger.Fatal("data dir", zap.Error(err))
	}

	var fallback storage.Medium
	if cfg.RedisAddr != "" {
		redisMedium, err := storage.OpenRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Fatal("redis fallback unavailable", zap.Error(err))
		}
		fallback = redisMedium
	} else {
		fileMedium, err := storage.OpenFile(filepath.Join(cfg.DataDir, "fallback.json"))
		if err != nil {
			logger.Fatal("file fallback unavailable", zap.Error(err))
		}
		fallback = fileMedium
	}

	retryCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
	}
	adapter := storage.NewAdapter(fallback, retryCfg, logger, metrics)
	adapter.Open(func() (storage.Medium, error) {
		return storage.OpenBolt(filepath.Join(cfg.DataDir, "bhaskar.db"))
	})
	if adapter.Degraded() {
		logger.Warn("running on fallback medium only")
	}

	// --- Store & repositories ---
	st := store.New(adapter, logger, metrics)
	repos := repository.New(st, adapter, logger, metrics)

	bootCtx, bootCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer bootCancel()

	// Session restores from its fallback duplicate before the cache loads.
	if session, ok := repos.Session.Bootstrap(bootCtx); ok {
		logger.Info("session restored", zap.String("user_id", session.UserID))
	}

	if err := st.Initialize(bootCtx); err != nil {
		logger.Fatal("store initialize", zap.Error(err))
	}

	// --- Services ---
	authSvc := service.NewAuthService(
		repos.Users, repos.Customers, repos.Session,
		cfg.JWTSecret, cfg.JWTAccessTTL, logger,
	)
	prodSvc := service.NewProductionService(repos.Production, logger)
	calcSvc := service.NewCalculatorService(repos.CalcHistory, logger)

	// --- Router ---
	router := handler.NewRouter(handler.Deps{
		Repos:   repos,
		Auth:    authSvc,
		Prod:    prodSvc,
		Calc:    calcSvc,
		Store:   st,
		Adapter: adapter,
		Metrics: metrics,
		Logger:  logger,
	})

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced shutdown", zap.Error(err))
	}

	// Drain the write queue and release the mediums last.
	if err := st.Shutdown(ctx); err != nil {
		logger.Error("store shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
