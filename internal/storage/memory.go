package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
)

type memoryRecord struct {
	tx          core.Transaction
	seq         int64
	exportState string
}

// MemoryStore keeps transactions in process memory. Used for tests and
// local runs without a database.
type MemoryStore struct {
	mu      sync.Mutex
	records []memoryRecord
	nextSeq int64
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextSeq: 1}
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) Create(_ context.Context, d core.Draft) (core.Transaction, error) {
	if err := d.Validate(); err != nil {
		return core.Transaction{}, err
	}

	now := time.Now().UTC()
	tx := core.Transaction{
		ID:          uuid.NewString(),
		UserID:      d.UserID,
		Title:       d.Title,
		Description: d.Description,
		Category:    d.Category,
		Amount:      d.Amount,
		Date:        d.Date.UTC().Truncate(time.Second),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, memoryRecord{tx: tx, seq: s.nextSeq, exportState: ExportPending})
	s.nextSeq++
	return tx, nil
}

func (s *MemoryStore) ListByUser(_ context.Context, userID string) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]memoryRecord, 0)
	for _, r := range s.records {
		if r.tx.UserID == userID {
			matched = append(matched, r)
		}
	}
	// Date descending, insertion order on equal dates.
	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].tx.Date.Equal(matched[j].tx.Date) {
			return matched[i].tx.Date.After(matched[j].tx.Date)
		}
		return matched[i].seq < matched[j].seq
	})

	txs := make([]core.Transaction, len(matched))
	for i, r := range matched {
		txs[i] = r.tx
	}
	return txs, nil
}

func (s *MemoryStore) GetByID(_ context.Context, id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.tx.ID == id {
			return r.tx, nil
		}
	}
	return core.Transaction{}, core.ErrNotFound
}

func (s *MemoryStore) Delete(_ context.Context, id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.records {
		if r.tx.ID == id && r.tx.UserID == userID {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return nil
		}
	}
	return core.ErrNotFound
}

func (s *MemoryStore) ListPendingExport(_ context.Context, limit int) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	txs := make([]core.Transaction, 0)
	for _, r := range s.records {
		if r.exportState != ExportPending {
			continue
		}
		txs = append(txs, r.tx)
		if len(txs) == limit {
			break
		}
	}
	return txs, nil
}

func (s *MemoryStore) MarkExported(_ context.Context, id string) error {
	return s.setExportState(id, ExportDone)
}

func (s *MemoryStore) MarkExportError(_ context.Context, id string) error {
	return s.setExportState(id, ExportError)
}

func (s *MemoryStore) setExportState(id, state string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].tx.ID == id {
			s.records[i].exportState = state
			return nil
		}
	}
	return core.ErrNotFound
}
