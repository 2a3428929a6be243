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

	"github.com/quillbooks/quillbooks/internal/app"
	"github.com/quillbooks/quillbooks/internal/approval"
	"github.com/quillbooks/quillbooks/internal/directory"
	"github.com/quillbooks/quillbooks/internal/ledger"
	"github.com/quillbooks/quillbooks/internal/platform/kv"
	"github.com/quillbooks/quillbooks/internal/rbac"
	"github.com/quillbooks/quillbooks/internal/reports"
	"github.com/quillbooks/quillbooks/internal/txn"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	redisClient, err := kv.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	evaluator := rbac.NewEvaluator(rbac.DefaultMatrix())
	rbacMiddleware := rbac.Middleware{Evaluator: evaluator, Logger: logger}

	directoryRepo := directory.NewRepository(redisClient)
	resolver := approval.NewResolver(directoryRepo)

	ledgerRepo := ledger.NewRedisRepository(redisClient)
	ledgerService := ledger.NewService(ledgerRepo, logger)
	ledgerHandler := ledger.NewHandler(logger, ledgerService)

	txnRepo := txn.NewRedisRepository(redisClient)
	txnService := txn.NewService(txnRepo, ledgerService, resolver, logger)
	txnHandler := txn.NewHandler(logger, txnService)

	reportsService := reports.NewService(ledgerService, txnRepo, logger)
	reportsHandler := reports.NewHandler(logger, reportsService)

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		RBACMiddleware: rbacMiddleware,
		LedgerHandler:  ledgerHandler,
		TxnHandler:     txnHandler,
		ReportsHandler: reportsHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("server listening", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", slog.Any("error", err))
	}
}
