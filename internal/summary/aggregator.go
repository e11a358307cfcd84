// Package summary derives income/expense/balance figures for one user.
//
// The aggregator recomputes from the store on every call instead of
// maintaining an incremental counter. Counters drift under concurrent
// writes and partial failures; a full recompute from source records cannot.
// Keep it that way.
package summary

import (
	"context"
	"fmt"

	"fintrack/internal/core"
)

// Lister is the slice of the store the aggregator needs.
type Lister interface {
	ListByUser(ctx context.Context, userID string) ([]core.Transaction, error)
}

type Aggregator struct {
	store Lister
}

func NewAggregator(store Lister) *Aggregator {
	return &Aggregator{store: store}
}

// Summarize reads the user's transactions and folds them into a Summary.
// A user with no transactions gets the zero summary, not an error.
func (a *Aggregator) Summarize(ctx context.Context, userID string) (core.Summary, error) {
	txs, err := a.store.ListByUser(ctx, userID)
	if err != nil {
		return core.Summary{}, fmt.Errorf("list transactions for summary: %w", err)
	}
	return core.Summarize(txs), nil
}

// ListAndSummarize reads the user's transactions once and folds the summary
// from that same snapshot. Callers that return both the list and the totals
// must use this instead of a separate Summarize call, otherwise a write
// landing between the two reads leaves the totals disagreeing with the list.
func (a *Aggregator) ListAndSummarize(ctx context.Context, userID string) ([]core.Transaction, core.Summary, error) {
	txs, err := a.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, core.Summary{}, fmt.Errorf("list transactions for summary: %w", err)
	}
	return txs, core.Summarize(txs), nil
}
