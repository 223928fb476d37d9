package backend

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"toca/internal/amqp"
	applog "toca/internal/log"
	"toca/internal/services"
	"toca/internal/storage"
	"toca/internal/store/memory"
)

type DefaultFactory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

func (f *DefaultFactory) CreateBackend(_ context.Context, config Config) (*Result, error) {
	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case MemoryBackend:
		return f.createMemoryBackend()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*Result, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("initialize SQLite repository: %w", err)
	}

	// AMQP is optional: without it the API still works, the ledger
	// export just goes stale until the worker's periodic pass.
	var amqpClient *amqp.Client
	if config.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.Warn("failed to initialize AMQP client, continuing without sync",
				applog.FieldError, err)
		} else {
			f.logger.Info("initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	ledger := services.NewLedgerService(repo, amqpClient, repo.Close)

	f.logger.Info("initialized SQLite backend",
		applog.FieldBackend, SQLiteBackend.String(),
		"db_path", config.SQLiteDBPath,
		"amqp_enabled", amqpClient != nil)

	return &Result{
		Store:   ledger,
		Cleanup: ledger.Close,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend() (*Result, error) {
	st := memory.NewSeeded(time.Now())

	f.logger.Info("initialized memory backend",
		applog.FieldBackend, MemoryBackend.String())

	return &Result{
		Store:   st,
		Cleanup: nil,
	}, nil
}
