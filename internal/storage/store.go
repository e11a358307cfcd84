package storage

import (
	"context"

	"fintrack/internal/core"
)

// Export bookkeeping states for the statement-export pipeline.
const (
	ExportPending = "pending"
	ExportDone    = "done"
	ExportError   = "error"
)

// Store is the authoritative transaction collection. Every operation is
// scoped to one user; there is no cross-user listing.
//
// Implementations must make each mutation atomic for a single record:
// Create persists the full row or nothing, and Delete matches id and user
// in one check-and-delete so a record can never be deleted through another
// user's identifier.
type Store interface {
	// Create validates the draft, assigns id and timestamps, and persists
	// the transaction durably before returning it.
	Create(ctx context.Context, d core.Draft) (core.Transaction, error)

	// ListByUser returns the user's transactions ordered by date descending,
	// ties broken by insertion order. No transactions is an empty slice,
	// not an error.
	ListByUser(ctx context.Context, userID string) ([]core.Transaction, error)

	// GetByID returns a single transaction regardless of owner. Used by the
	// export worker, which operates on store-assigned ids only.
	GetByID(ctx context.Context, id string) (core.Transaction, error)

	// Delete removes the transaction matching both id and userID.
	// Returns core.ErrNotFound when the pair matches nothing.
	Delete(ctx context.Context, id, userID string) error

	// ListPendingExport returns up to limit transactions whose statement
	// export has not completed, oldest first.
	ListPendingExport(ctx context.Context, limit int) ([]core.Transaction, error)

	// MarkExported records a successful statement export.
	MarkExported(ctx context.Context, id string) error

	// MarkExportError records a failed statement export.
	MarkExportError(ctx context.Context, id string) error

	Close() error
}
