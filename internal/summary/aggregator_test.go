package summary

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

func mustCreate(t *testing.T, store storage.Store, userID, title string, cents int64) core.Transaction {
	t.Helper()
	tx, err := store.Create(context.Background(), core.Draft{
		UserID:   userID,
		Title:    title,
		Category: core.CategoryOther,
		Amount:   core.Money{Cents: cents},
		Date:     time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return tx
}

func TestSummarizeEmptyUser(t *testing.T) {
	agg := NewAggregator(storage.NewMemoryStore())
	s, err := agg.Summarize(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, core.Summary{}, s)
}

func TestSummarizeScenarios(t *testing.T) {
	store := storage.NewMemoryStore()
	agg := NewAggregator(store)

	// Single expense: Coffee -150.
	mustCreate(t, store, "u1", "Coffee", -15000)
	s, err := agg.Summarize(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), s.TotalIncome.Cents)
	assert.Equal(t, int64(-15000), s.TotalExpense.Cents)
	assert.Equal(t, int64(-15000), s.Balance.Cents)

	// Salary 50000 then Rent -20000 for a second user.
	mustCreate(t, store, "u2", "Salary", 5_000_000)
	mustCreate(t, store, "u2", "Rent", -2_000_000)
	s, err = agg.Summarize(context.Background(), "u2")
	require.NoError(t, err)
	assert.Equal(t, int64(5_000_000), s.TotalIncome.Cents)
	assert.Equal(t, int64(-2_000_000), s.TotalExpense.Cents)
	assert.Equal(t, int64(3_000_000), s.Balance.Cents)

	// u1's summary is unaffected by u2's records.
	s, err = agg.Summarize(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(-15000), s.Balance.Cents)
}

func TestBalanceMatchesSumAfterMutations(t *testing.T) {
	store := storage.NewMemoryStore()
	agg := NewAggregator(store)
	ctx := context.Background()

	amounts := []int64{1200, -300, 987654, -54321, 1, -1, 250000}
	ids := make([]string, 0, len(amounts))
	var sum int64
	for i, cents := range amounts {
		tx := mustCreate(t, store, "u1", "tx", cents)
		ids = append(ids, tx.ID)
		sum += cents

		s, err := agg.Summarize(ctx, "u1")
		require.NoError(t, err, "after create %d", i)
		assert.Equal(t, sum, s.Balance.Cents, "after create %d", i)
		assert.Equal(t, s.Balance, s.TotalIncome.Add(s.TotalExpense))
	}

	// Deletes hold the invariant too.
	require.NoError(t, store.Delete(ctx, ids[0], "u1"))
	sum -= amounts[0]
	s, err := agg.Summarize(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, sum, s.Balance.Cents)
}

type failingLister struct{}

func (failingLister) ListByUser(context.Context, string) ([]core.Transaction, error) {
	return nil, errors.New("store unavailable")
}

func TestSummarizePropagatesStoreError(t *testing.T) {
	agg := NewAggregator(failingLister{})
	_, err := agg.Summarize(context.Background(), "u1")
	require.Error(t, err)
}

func TestListAndSummarizeShareOneSnapshot(t *testing.T) {
	store := storage.NewMemoryStore()
	agg := NewAggregator(store)
	ctx := context.Background()

	mustCreate(t, store, "u1", "Salary", 5_000_000)
	mustCreate(t, store, "u1", "Rent", -2_000_000)

	txs, s, err := agg.ListAndSummarize(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, txs, 2)

	var listSum int64
	for _, tx := range txs {
		listSum += tx.Amount.Cents
	}
	assert.Equal(t, listSum, s.Balance.Cents)
	assert.Equal(t, core.Summarize(txs), s)
}
