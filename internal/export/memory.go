package export

import (
	"context"
	"fmt"
	"sync"

	"fintrack/internal/core"
)

// MemoryWriter keeps appended statement rows in memory. Used in tests and
// when the app runs without Google credentials.
type MemoryWriter struct {
	mu   sync.Mutex
	rows []core.Transaction
}

var _ StatementWriter = (*MemoryWriter)(nil)

func NewMemoryWriter() *MemoryWriter {
	return &MemoryWriter{}
}

// AppendTransaction stores the transaction and returns a synthetic row reference.
func (w *MemoryWriter) AppendTransaction(_ context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.rows = append(w.rows, tx)
	return fmt.Sprintf("mem:%d", len(w.rows)), nil
}

// Rows returns a copy of everything appended so far.
func (w *MemoryWriter) Rows() []core.Transaction {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]core.Transaction(nil), w.rows...)
}
