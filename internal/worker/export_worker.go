// Package worker keeps the Excel ledger in step with the store. It
// rewrites the workbook when a sync message arrives and on a timer, so
// a lost message only delays the export by one interval.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"toca/internal/amqp"
	"toca/internal/export"
	applog "toca/internal/log"
	"toca/internal/store"
)

type ExportWorker struct {
	store      store.Store
	amqpClient *amqp.Client
	exportPath string
	interval   time.Duration

	mu sync.Mutex // one export at a time
}

func NewExportWorker(st store.Store, amqpClient *amqp.Client, exportPath string, interval time.Duration) *ExportWorker {
	return &ExportWorker{
		store:      st,
		amqpClient: amqpClient,
		exportPath: exportPath,
		interval:   interval,
	}
}

// Run blocks until the context ends, consuming sync messages and
// re-exporting on the configured interval.
func (w *ExportWorker) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := w.amqpClient.ConsumeRecordSync(ctx, func(msg *amqp.RecordSyncMessage) error {
			slog.InfoContext(ctx, "record changed, exporting ledger",
				applog.FieldCollection, msg.Collection,
				applog.FieldRecordID, msg.ID)
			return w.export(ctx)
		})
		if err != nil && ctx.Err() != nil {
			return nil
		}
		return err
	})

	g.Go(func() error {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if err := w.export(ctx); err != nil {
					slog.ErrorContext(ctx, "periodic export failed", applog.FieldError, err)
				}
			}
		}
	})

	return g.Wait()
}

func (w *ExportWorker) export(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	start := time.Now()
	if err := export.WriteLedger(ctx, w.store, w.exportPath); err != nil {
		return fmt.Errorf("write ledger: %w", err)
	}

	slog.InfoContext(ctx, "ledger exported",
		applog.FieldOperation, applog.OpExport,
		"path", w.exportPath,
		applog.FieldDuration, time.Since(start).Milliseconds())
	return nil
}
