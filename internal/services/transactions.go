package services

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/core"
	"fintrack/internal/events"
	"fintrack/internal/storage"
	"fintrack/internal/summary"
)

// Publisher is the slice of the events client the service needs.
type Publisher interface {
	Publish(ctx context.Context, event *events.TransactionEvent) error
}

// TransactionService orchestrates the store, the summary aggregator and the
// event stream. Mutations are durable in the store before any event is
// published; a failed publish is logged and absorbed because the periodic
// export sweep picks the record up anyway.
type TransactionService struct {
	store      storage.Store
	aggregator *summary.Aggregator
	publisher  Publisher // nil disables events
}

func NewTransactionService(store storage.Store, publisher Publisher) *TransactionService {
	return &TransactionService{
		store:      store,
		aggregator: summary.NewAggregator(store),
		publisher:  publisher,
	}
}

// Create persists the draft and announces the new transaction.
func (s *TransactionService) Create(ctx context.Context, d core.Draft) (core.Transaction, error) {
	tx, err := s.store.Create(ctx, d)
	if err != nil {
		return core.Transaction{}, err
	}

	s.publish(ctx, events.NewTransactionEvent(tx.ID, tx.UserID, events.ActionCreated))
	return tx, nil
}

// ListWithSummary returns the user's ordered transactions together with the
// freshly recomputed summary, the way a client refresh consumes them. The
// summary is folded from the same read as the list, so the totals always
// match the transactions in the response.
func (s *TransactionService) ListWithSummary(ctx context.Context, userID string) ([]core.Transaction, core.Summary, error) {
	txs, sum, err := s.aggregator.ListAndSummarize(ctx, userID)
	if err != nil {
		return nil, core.Summary{}, fmt.Errorf("list transactions: %w", err)
	}
	return txs, sum, nil
}

// Delete removes the user's transaction and announces the removal.
// core.ErrNotFound propagates untouched so callers can map it to 404.
func (s *TransactionService) Delete(ctx context.Context, id, userID string) error {
	if err := s.store.Delete(ctx, id, userID); err != nil {
		return err
	}

	s.publish(ctx, events.NewTransactionEvent(id, userID, events.ActionDeleted))
	return nil
}

func (s *TransactionService) publish(ctx context.Context, event *events.TransactionEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"id", event.ID,
			"action", event.Action,
			"error", err)
	}
}

// Close releases the store. The events client is owned by the caller that
// constructed it and is closed there.
func (s *TransactionService) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}
