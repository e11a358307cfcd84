package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
	"fintrack/internal/httpapi"
	"fintrack/internal/services"
	"fintrack/internal/storage"
)

func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()
	svc := services.NewTransactionService(storage.NewMemoryStore(), nil)
	api := httpapi.NewServer(":0", svc, httpapi.Options{})
	ts := httptest.NewServer(api.Server.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func draft(title string, cents int64) core.Draft {
	return core.Draft{
		Title:    title,
		Category: core.CategoryFood,
		Amount:   core.Money{Cents: cents},
		Date:     time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestFetchTransactionsEmptyUser(t *testing.T) {
	ts := newAPIServer(t)
	c := NewClient(ts.URL, ts.Client())

	// The server answers 404 for unknown users; the client reads that as
	// an empty projection.
	proj, err := c.FetchTransactions(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Empty(t, proj.Transactions)
	assert.Equal(t, core.Summary{}, proj.Summary)
}

func TestCreateAndFetch(t *testing.T) {
	ts := newAPIServer(t)
	c := NewClient(ts.URL, ts.Client())
	ctx := context.Background()

	d := draft("Coffee", -450)
	d.UserID = "user-1"
	tx, err := c.CreateTransaction(ctx, d)
	require.NoError(t, err)
	assert.NotEmpty(t, tx.ID)
	assert.Equal(t, int64(-450), tx.Amount.Cents)

	proj, err := c.FetchTransactions(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, proj.Transactions, 1)
	assert.Equal(t, "Coffee", proj.Transactions[0].Title)
	assert.Equal(t, int64(-450), proj.Summary.Balance.Cents)
}

func TestCreateValidationError(t *testing.T) {
	ts := newAPIServer(t)
	c := NewClient(ts.URL, ts.Client())

	d := draft("Bad", 0)
	d.UserID = "user-1"
	_, err := c.CreateTransaction(context.Background(), d)
	require.ErrorIs(t, err, core.ErrValidation)
}

func TestDeleteTransaction(t *testing.T) {
	ts := newAPIServer(t)
	c := NewClient(ts.URL, ts.Client())
	ctx := context.Background()

	d := draft("Lunch", -1200)
	d.UserID = "user-1"
	tx, err := c.CreateTransaction(ctx, d)
	require.NoError(t, err)

	require.NoError(t, c.DeleteTransaction(ctx, tx.ID, "user-1"))
	assert.ErrorIs(t, c.DeleteTransaction(ctx, tx.ID, "user-1"), core.ErrNotFound)
}

func TestTransportFailureIsTransient(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", &http.Client{Timeout: time.Second})

	_, err := c.FetchTransactions(context.Background(), "user-1")
	require.ErrorIs(t, err, ErrTransient)
}

func TestServerErrorIsTransient(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Internal server error"})
	}))
	defer ts.Close()

	c := NewClient(ts.URL, ts.Client())
	_, err := c.FetchTransactions(context.Background(), "user-1")
	require.ErrorIs(t, err, ErrTransient)
}

func TestRateLimitIsTransient(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "60")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	c := NewClient(ts.URL, ts.Client())
	d := draft("Coffee", -450)
	d.UserID = "user-1"
	_, err := c.CreateTransaction(context.Background(), d)
	require.ErrorIs(t, err, ErrTransient)
}
