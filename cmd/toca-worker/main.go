package main

import (
	"context"
	"errors"
	"os"
	"time"

	"toca/internal/amqp"
	"toca/internal/cli"
	"toca/internal/storage"
	"toca/internal/worker"
)

// The worker exports the financial ledger to an Excel workbook. It always
// reads from SQLite: that is the durable store the server writes through.
func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("failed to connect to AMQP", "error", err, "url", cfg.AMQPURL)
		repo.Close()
		os.Exit(1)
	}

	w := worker.NewExportWorker(repo, amqpClient, cfg.LedgerExportPath, cfg.ExportInterval)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		if err := amqpClient.Close(); err != nil {
			logger.Error("amqp close error", "error", err)
		}
		if err := repo.Close(); err != nil {
			logger.Error("storage close error", "error", err)
		}
	})

	logger.Info("starting export worker",
		"export_path", cfg.LedgerExportPath,
		"interval", cfg.ExportInterval.String())

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker error", "error", err)
	}

	cli.WaitForShutdown(ctx, done)
}
