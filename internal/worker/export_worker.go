// Package worker drives the background statement export: it consumes
// transaction events and sweeps the store for rows whose export is still
// pending.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fintrack/internal/core"
	"fintrack/internal/events"
	"fintrack/internal/export"
	"fintrack/internal/storage"
)

type ExportWorker struct {
	store     storage.Store
	writer    export.StatementWriter
	batchSize int
}

func NewExportWorker(store storage.Store, writer export.StatementWriter, batchSize int) *ExportWorker {
	if batchSize <= 0 {
		batchSize = 25
	}
	return &ExportWorker{
		store:     store,
		writer:    writer,
		batchSize: batchSize,
	}
}

// HandleEvent processes a single transaction event from AMQP.
func (w *ExportWorker) HandleEvent(ctx context.Context, evt *events.TransactionEvent) error {
	slog.InfoContext(ctx, "Processing transaction event",
		"id", evt.ID,
		"user_id", evt.UserID,
		"action", evt.Action)

	switch evt.Action {
	case events.ActionCreated:
		tx, err := w.store.GetByID(ctx, evt.ID)
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				// Deleted before the event arrived; nothing to export.
				slog.WarnContext(ctx, "Transaction gone before export", "id", evt.ID)
				return nil
			}
			return fmt.Errorf("get transaction: %w", err)
		}
		return w.exportTransaction(ctx, tx)
	case events.ActionDeleted:
		// The statement is append-only; deletions stay in the ledger as-is.
		slog.InfoContext(ctx, "Transaction deleted, statement row kept",
			"id", evt.ID, "user_id", evt.UserID)
		return nil
	default:
		slog.WarnContext(ctx, "Unknown event action, dropping", "action", evt.Action, "id", evt.ID)
		return nil
	}
}

// ProcessPending exports any transactions whose statement row was never
// written. Backup mechanism in case AMQP messages are lost.
func (w *ExportWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.store.ListPendingExport(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list pending exports: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending exports", "count", len(pending))

	for _, tx := range pending {
		if err := w.exportTransaction(ctx, tx); err != nil {
			slog.ErrorContext(ctx, "Failed to export transaction", "id", tx.ID, "error", err)
		}
	}
	return nil
}

// StartupCheck drains the pending backlog once at worker startup. Useful to
// recover from missed AMQP messages or worker downtime.
func (w *ExportWorker) StartupCheck(ctx context.Context) error {
	pending, err := w.store.ListPendingExport(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("list pending exports for startup check: %w", err)
	}
	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending exports found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending exports on startup, processing...",
		"count", len(pending))

	exported := 0
	failed := 0
	for _, tx := range pending {
		if err := w.exportTransaction(ctx, tx); err != nil {
			slog.ErrorContext(ctx, "Failed to export transaction during startup",
				"id", tx.ID, "error", err)
			failed++
			continue
		}
		exported++
	}

	slog.InfoContext(ctx, "Startup export completed",
		"total", len(pending),
		"exported", exported,
		"errors", failed)
	return nil
}

func (w *ExportWorker) exportTransaction(ctx context.Context, tx core.Transaction) error {
	ref, err := w.writer.AppendTransaction(ctx, tx)
	if err != nil {
		if markErr := w.store.MarkExportError(ctx, tx.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark export error", "id", tx.ID, "error", markErr)
		}
		return fmt.Errorf("append statement row: %w", err)
	}

	if err := w.store.MarkExported(ctx, tx.ID); err != nil {
		// The row was written; only the bookkeeping failed.
		slog.ErrorContext(ctx, "Failed to mark as exported", "id", tx.ID, "error", err)
	}

	slog.InfoContext(ctx, "Exported transaction",
		"id", tx.ID,
		"row_ref", ref,
		"amount_cents", tx.Amount.Cents)
	return nil
}
