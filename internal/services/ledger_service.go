// Package services layers cross-cutting behavior over a store. The
// ledger service announces financial writes to the export worker.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"toca/internal/amqp"
	"toca/internal/core"
	applog "toca/internal/log"
	"toca/internal/store"
)

// LedgerService forwards every store call and publishes a record-sync
// event after each successful financial write. A failed publish never
// fails the request; the record is already saved.
type LedgerService struct {
	store.Store
	amqpClient *amqp.Client
	closeStore func() error
}

func NewLedgerService(st store.Store, amqpClient *amqp.Client, closeStore func() error) *LedgerService {
	return &LedgerService{
		Store:      st,
		amqpClient: amqpClient,
		closeStore: closeStore,
	}
}

func (s *LedgerService) AddPayment(ctx context.Context, p core.Payment) (string, error) {
	id, err := s.Store.AddPayment(ctx, p)
	if err != nil {
		return "", err
	}
	s.publish(ctx, "payments", id)
	return id, nil
}

func (s *LedgerService) AddExpense(ctx context.Context, e core.Expense) (string, error) {
	id, err := s.Store.AddExpense(ctx, e)
	if err != nil {
		return "", err
	}
	s.publish(ctx, "expenses", id)
	return id, nil
}

func (s *LedgerService) AddOtherRevenue(ctx context.Context, r core.OtherRevenue) (string, error) {
	id, err := s.Store.AddOtherRevenue(ctx, r)
	if err != nil {
		return "", err
	}
	s.publish(ctx, "revenues", id)
	return id, nil
}

func (s *LedgerService) publish(ctx context.Context, collection, id string) {
	if s.amqpClient == nil {
		return
	}
	if err := s.amqpClient.PublishRecordSync(ctx, collection, id); err != nil {
		slog.ErrorContext(ctx, "failed to publish sync message",
			applog.FieldError, err,
			applog.FieldCollection, collection,
			applog.FieldRecordID, id)
	}
}

// Close releases the AMQP connection and the wrapped store.
func (s *LedgerService) Close() error {
	var errs []error

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}
	if s.closeStore != nil {
		if err := s.closeStore(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %v", errs)
	}
	return nil
}
