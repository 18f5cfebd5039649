package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"diaria/internal/amqp"
	"diaria/internal/config"
	"diaria/internal/log"
	"diaria/internal/sheets"
	gsheet "diaria/internal/sheets/google"
	mem "diaria/internal/sheets/memory"
	"diaria/internal/storage"
	"diaria/internal/worker"
)

func main() {
	// Load .env for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logCfg := log.DefaultConfig()
	logCfg.Component = log.ComponentWorker
	logger := log.New(logCfg)
	log.SetDefault(logger)

	logger.Info("Starting diaria-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err.Error())
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository",
			log.FieldError, err.Error(), "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The export target defaults to an in-memory store so the worker can run
	// without Google credentials during development.
	var (
		appender sheets.EntryAppender
		remover  sheets.EntryRemover
	)
	if cfg.SheetsConfigured() {
		client, err := gsheet.New(ctx, gsheet.Options{
			SpreadsheetID: cfg.GoogleSpreadsheetID,
			SheetName:     cfg.GoogleSheetName,
			ClientJSON:    cfg.GoogleOAuthClientJSON,
			ClientFile:    cfg.GoogleOAuthClientFile,
			TokenJSON:     cfg.GoogleOAuthTokenJSON,
			TokenFile:     cfg.GoogleOAuthTokenFile,
		})
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", log.FieldError, err.Error())
			os.Exit(1)
		}
		appender, remover = client, client
		logger.Info("Google Sheets export target initialized",
			"spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		store := mem.New()
		appender, remover = store, store
		logger.Info("Google Sheets not configured, using in-memory export target")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err.Error())
		os.Exit(1)
	}
	defer amqpClient.Close()

	exportWorker := worker.NewExportWorker(repo, appender, remover, cfg.ExportBatchSize)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return amqpClient.ConsumeEntryExports(ctx, func(msg *amqp.EntryExportMessage) error {
			return exportWorker.HandleMessage(ctx, msg)
		})
	})
	// Periodic re-scan catches entries whose publish was lost.
	g.Go(func() error {
		return exportWorker.Run(ctx, cfg.ExportInterval)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", log.FieldError, err.Error())
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
