package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"finboard/internal/amqp"
	"finboard/internal/cli"
	"finboard/internal/core"
	apphttp "finboard/internal/http"
	"finboard/internal/log"
	"finboard/internal/middleware/ratelimit"
	"finboard/internal/services"
	"finboard/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	cli.LoadEnvFile()

	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg.LogLevel, cfg.LogFormat)

	result := cli.InitBackend(context.Background(), logger, cfg)
	store := result.Provider

	// Change notifications are optional
	var publisher services.ChangePublisher
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without notifications", "error", err)
		} else {
			amqpClient = client
			publisher = client
			logger.Info("Initialized AMQP client", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	txs := services.NewCollectionService[core.Transaction](store, storage.Transactions, publisher)
	cards := services.NewCollectionService[core.CreditCard](store, storage.CreditCards, publisher)
	recs := services.NewCollectionService[core.ReceivableAmount](store, storage.Receivables, publisher)

	var limiter *ratelimit.Limiter
	if cfg.RateLimitPerMinute > 0 {
		limiter = ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: cfg.RateLimitPerMinute})
	}

	router := apphttp.NewRouter(&apphttp.Deps{
		Log:          logger,
		Store:        store,
		Transactions: txs,
		CreditCards:  cards,
		Receivables:  recs,
		Dashboard:    services.NewDashboardService(txs, cards, recs),
		Migrator:     services.NewMigrationService(store),
		RateLimiter:  limiter,
	})
	srv := apphttp.NewServer(":"+cfg.Port, router)

	ctx, done := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		if limiter != nil {
			limiter.Stop()
		}
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				logger.Warn("AMQP close error", "error", err)
			}
		}
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Error("Storage cleanup error", "error", err)
			}
		}
	})

	logger.Info("Starting finboard server",
		"port", cfg.Port,
		log.FieldBackend, store.Kind().String(),
		"amqp_enabled", amqpClient != nil)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
