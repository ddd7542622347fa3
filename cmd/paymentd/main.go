package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sule1997/cinema-stream/internal/adapters/cache"
	"github.com/sule1997/cinema-stream/internal/adapters/gateway"
	"github.com/sule1997/cinema-stream/internal/adapters/handler"
	"github.com/sule1997/cinema-stream/internal/adapters/middleware"
	"github.com/sule1997/cinema-stream/internal/adapters/postgres"
	"github.com/sule1997/cinema-stream/internal/config"
	"github.com/sule1997/cinema-stream/internal/core/domain"
	"github.com/sule1997/cinema-stream/internal/core/service"
	"github.com/sule1997/cinema-stream/internal/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting payment service",
		"port", cfg.Server.Port,
		"log_level", cfg.Logger.Level,
	)

	ctx := context.Background()
	db, err := postgres.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	accountCache := cache.NewRedisAccountCache(cfg.Redis, logger)
	defer accountCache.Close()

	transactionRepo := postgres.NewTransactionRepository(db)
	accountRepo := postgres.NewAccountRepository(db)
	uow := postgres.NewUnitOfWork(db)

	gatewayClient := gateway.NewGatewayClient(cfg.Gateway)
	retryGateway := gateway.NewRetryGatewayClient(gatewayClient, cfg.Retry)

	statuses := domain.NewStatusMap(domain.ParseStatusOverrides(cfg.Gateway.StatusMap))

	settler := service.NewSettlementService(uow, accountCache, cfg.Payment.SubscriptionPeriod, logger)

	reconciler := worker.NewReconciler(
		retryGateway,
		statuses,
		settler,
		cfg.Payment.PollInterval,
		cfg.Payment.MaxPollAttempts,
		logger,
	)

	initiateService := service.NewInitiateService(
		transactionRepo,
		accountRepo,
		retryGateway,
		reconciler,
		cfg.Payment,
		logger,
	)
	statusService := service.NewStatusService(transactionRepo, retryGateway, statuses, settler, logger)
	queryService := service.NewQueryService(transactionRepo, accountRepo, accountCache, retryGateway)

	h := handler.NewPaymentHandler(initiateService, statusService, queryService)

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	router := http.Handler(mux)

	httpHandler := middleware.Recovery(logger)(router)
	httpHandler = middleware.Logging(logger)(httpHandler)
	httpHandler = middleware.Timeout(cfg.Server.ReadTimeout)(httpHandler)

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      httpHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	sweeper := worker.NewSweeper(
		transactionRepo,
		reconciler,
		cfg.Payment.SweepInterval,
		cfg.Payment.SweepGraceAge,
		cfg.Payment.SweepBatchSize,
		logger,
	)

	sweeperCtx, cancelSweeper := context.WithCancel(context.Background())
	defer cancelSweeper()

	go sweeper.Start(sweeperCtx)

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	cancelSweeper()
	reconciler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
