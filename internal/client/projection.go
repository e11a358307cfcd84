package client

import (
	"context"
	"sync"
	"sync/atomic"

	"fintrack/internal/core"
)

// ProjectionCache mirrors one user's server-side state. It never computes
// totals itself: every refresh replaces the whole projection with what the
// server returned, and mutations always trigger a refresh afterwards.
type ProjectionCache struct {
	client *Client

	mu         sync.Mutex
	userID     string
	projection Projection

	// loading is shared across overlapping fetches and mutations.
	inflight atomic.Int32
}

func NewProjectionCache(client *Client, userID string) *ProjectionCache {
	return &ProjectionCache{client: client, userID: userID}
}

// SetUser switches the cache to another user. The old projection is
// discarded immediately so a stale view is never attributed to the new user.
func (p *ProjectionCache) SetUser(userID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.userID == userID {
		return
	}
	p.userID = userID
	p.projection = Projection{}
}

// Refresh re-fetches the projection. On failure the previous projection
// stays in place untouched.
func (p *ProjectionCache) Refresh(ctx context.Context) error {
	p.mu.Lock()
	userID := p.userID
	p.mu.Unlock()

	p.inflight.Add(1)
	defer p.inflight.Add(-1)

	fresh, err := p.client.FetchTransactions(ctx, userID)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	// A SetUser may have happened while the fetch was in flight.
	if p.userID != userID {
		return nil
	}
	p.projection = fresh
	return nil
}

// Add creates a transaction for the cached user and refreshes afterwards,
// whether or not the create succeeded.
func (p *ProjectionCache) Add(ctx context.Context, d core.Draft) error {
	p.mu.Lock()
	d.UserID = p.userID
	p.mu.Unlock()

	p.inflight.Add(1)
	_, createErr := p.client.CreateTransaction(ctx, d)
	p.inflight.Add(-1)

	if refreshErr := p.Refresh(ctx); createErr == nil {
		return refreshErr
	}
	return createErr
}

// Delete removes a transaction and refreshes afterwards, whether or not the
// delete succeeded.
func (p *ProjectionCache) Delete(ctx context.Context, id string) error {
	p.mu.Lock()
	userID := p.userID
	p.mu.Unlock()

	p.inflight.Add(1)
	deleteErr := p.client.DeleteTransaction(ctx, id, userID)
	p.inflight.Add(-1)

	if refreshErr := p.Refresh(ctx); deleteErr == nil {
		return refreshErr
	}
	return deleteErr
}

// Snapshot returns the current projection. The slice is copied so callers
// can hold it across refreshes.
func (p *ProjectionCache) Snapshot() Projection {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := Projection{
		Transactions: append([]core.Transaction(nil), p.projection.Transactions...),
		Summary:      p.projection.Summary,
	}
	return out
}

// Loading reports whether any fetch or mutation is in flight.
func (p *ProjectionCache) Loading() bool {
	return p.inflight.Load() > 0
}

// UserID returns the user the cache currently tracks.
func (p *ProjectionCache) UserID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.userID
}
