package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/events"
	"fintrack/internal/export"
	"fintrack/internal/storage"
)

func newTestStore(t *testing.T) *storage.MemoryStore {
	t.Helper()
	return storage.NewMemoryStore()
}

func draft(userID, title string, cents int64) core.Draft {
	return core.Draft{
		UserID:   userID,
		Title:    title,
		Category: core.CategoryFood,
		Amount:   core.Money{Cents: cents},
		Date:     time.Date(2026, 5, 2, 12, 0, 0, 0, time.UTC),
	}
}

func TestHandleEventCreatedExports(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	writer := export.NewMemoryWriter()
	w := NewExportWorker(store, writer, 10)

	tx, err := store.Create(ctx, draft("user-1", "Coffee", -450))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	evt := events.NewTransactionEvent(tx.ID, tx.UserID, events.ActionCreated)
	if err := w.HandleEvent(ctx, evt); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}

	if rows := writer.Rows(); len(rows) != 1 || rows[0].ID != tx.ID {
		t.Fatalf("unexpected statement rows: %+v", rows)
	}

	pending, err := store.ListPendingExport(ctx, 10)
	if err != nil {
		t.Fatalf("ListPendingExport: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected no pending exports, got %d", len(pending))
	}
}

func TestHandleEventCreatedMissingTransaction(t *testing.T) {
	ctx := context.Background()
	w := NewExportWorker(newTestStore(t), export.NewMemoryWriter(), 10)

	evt := events.NewTransactionEvent("gone", "user-1", events.ActionCreated)
	if err := w.HandleEvent(ctx, evt); err != nil {
		t.Fatalf("missing transaction should not fail the event: %v", err)
	}
}

func TestHandleEventDeletedIsNoop(t *testing.T) {
	ctx := context.Background()
	writer := export.NewMemoryWriter()
	w := NewExportWorker(newTestStore(t), writer, 10)

	evt := events.NewTransactionEvent("tx-1", "user-1", events.ActionDeleted)
	if err := w.HandleEvent(ctx, evt); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if len(writer.Rows()) != 0 {
		t.Fatal("delete events must not append statement rows")
	}
}

func TestProcessPendingDrainsBacklog(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	writer := export.NewMemoryWriter()
	w := NewExportWorker(store, writer, 10)

	for i := 0; i < 3; i++ {
		if _, err := store.Create(ctx, draft("user-1", "Groceries", -1000)); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	if err := w.ProcessPending(ctx); err != nil {
		t.Fatalf("ProcessPending: %v", err)
	}
	if len(writer.Rows()) != 3 {
		t.Fatalf("exported %d rows, want 3", len(writer.Rows()))
	}

	// A second sweep finds nothing left.
	if err := w.ProcessPending(ctx); err != nil {
		t.Fatalf("ProcessPending (second): %v", err)
	}
	if len(writer.Rows()) != 3 {
		t.Fatalf("second sweep re-exported rows: %d", len(writer.Rows()))
	}
}

type failingWriter struct{ err error }

func (f failingWriter) AppendTransaction(context.Context, core.Transaction) (string, error) {
	return "", f.err
}

func TestExportFailureMarksError(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	w := NewExportWorker(store, failingWriter{err: errors.New("sheets down")}, 10)

	tx, err := store.Create(ctx, draft("user-1", "Rent", -90000))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := w.ProcessPending(ctx); err != nil {
		t.Fatalf("ProcessPending: %v", err)
	}

	// The failed row leaves the pending queue until someone intervenes.
	pending, err := store.ListPendingExport(ctx, 10)
	if err != nil {
		t.Fatalf("ListPendingExport: %v", err)
	}
	for _, p := range pending {
		if p.ID == tx.ID {
			t.Fatal("failed export should be marked error, not pending")
		}
	}
}

func TestStartupCheckExportsBacklog(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	writer := export.NewMemoryWriter()
	w := NewExportWorker(store, writer, 2)

	for i := 0; i < 5; i++ {
		if _, err := store.Create(ctx, draft("user-1", "Lunch", -1200)); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	if err := w.StartupCheck(ctx); err != nil {
		t.Fatalf("StartupCheck: %v", err)
	}
	if len(writer.Rows()) != 5 {
		t.Fatalf("exported %d rows, want 5", len(writer.Rows()))
	}
}
