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

	"github.com/DanielPopoola/connector-gateway/api"
	"github.com/DanielPopoola/connector-gateway/internal/application/services"
	"github.com/DanielPopoola/connector-gateway/internal/config"
	"github.com/DanielPopoola/connector-gateway/internal/connector/executor"
	"github.com/DanielPopoola/connector-gateway/internal/connectors"
	"github.com/DanielPopoola/connector-gateway/internal/interfaces/rest/handlers"
	"github.com/DanielPopoola/connector-gateway/internal/observability"
	"github.com/DanielPopoola/connector-gateway/internal/storage/postgres"
	"github.com/DanielPopoola/connector-gateway/internal/storage/tokencache"
	"github.com/DanielPopoola/connector-gateway/internal/worker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting connector gateway",
		"env", cfg.Primary.Env,
		"port", cfg.Server.Port,
		"log_level", cfg.Logger.Level,
	)

	ctx := context.Background()

	shutdownTracing, err := observability.SetupTracing(ctx, cfg.Tracing.Endpoint, cfg.Tracing.ServiceName)
	if err != nil {
		logger.Error("failed to set up tracing", "error", err)
		os.Exit(1)
	}

	db, err := postgres.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var (
		tokenStore executor.TokenStore
		rdb        *redis.Client
	)
	if cfg.Redis.URL != "" {
		rdb, err = tokencache.Connect(ctx, cfg.Redis, logger)
		if err != nil {
			logger.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
		tokenStore = tokencache.NewRedisStore(rdb, cfg.Redis.TokenPrefix)
	} else {
		logger.Warn("redis not configured, caching access tokens in memory")
		tokenStore = tokencache.NewMemoryStore()
	}

	registry, err := connectors.Default()
	if err != nil {
		logger.Error("failed to build connector registry", "error", err)
		os.Exit(1)
	}

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)

	httpClient := executor.NewHTTPClient(cfg.HTTPClient, logger)
	retryClient, err := executor.NewRetryClient(httpClient, cfg.Retry, logger)
	if err != nil {
		logger.Error("invalid retry policy", "error", err)
		os.Exit(1)
	}
	exec := executor.New(retryClient, &cfg.Connectors, metrics, logger)
	tokens := executor.NewAccessTokenProvider(tokenStore, exec, logger)

	refundRepo := postgres.NewRefundRepository(db)
	disputeRepo := postgres.NewDisputeRepository(db)
	accountRepo := postgres.NewMerchantConnectorAccountRepository(db)

	flowService := services.NewFlowService(registry, accountRepo, tokens, exec, logger)
	refundService := services.NewRefundService(registry, refundRepo, accountRepo, tokens, db, exec, logger)
	disputeService := services.NewDisputeService(disputeRepo)
	webhookService := services.NewWebhookService(registry, accountRepo, refundRepo, disputeRepo, db, metrics, logger)
	accountService := services.NewAccountService(registry, accountRepo)

	h := handlers.NewHandlers(
		registry,
		flowService,
		refundService,
		disputeService,
		webhookService,
		accountService,
		logger,
	)

	router, err := handlers.NewRouter(h, handlers.RouterConfig{
		ServiceName:    cfg.Tracing.ServiceName,
		RequestTimeout: cfg.Server.RequestTimeout,
		OpenAPI:        api.OpenAPI,
		Metrics:        promhttp.Handler(),
		Health: func(ctx context.Context) error {
			if err := db.Ping(ctx); err != nil {
				return err
			}
			if rdb != nil {
				return rdb.Ping(ctx).Err()
			}
			return nil
		},
	}, logger)
	if err != nil {
		logger.Error("failed to build router", "error", err)
		os.Exit(1)
	}

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	refundSync := worker.NewRefundSyncWorker(refundService, cfg.Worker.Interval, cfg.Worker.BatchSize, logger)

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	go refundSync.Start(workerCtx)

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	cancelWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("failed to flush traces", "error", err)
	}

	logger.Info("server exited")
}
