package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fintrack/internal/core"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS transactions (
    seq           BIGSERIAL PRIMARY KEY,
    id            TEXT NOT NULL UNIQUE,
    user_id       TEXT NOT NULL,
    title         TEXT NOT NULL,
    description   TEXT NOT NULL DEFAULT '',
    category      TEXT NOT NULL,
    amount_cents  BIGINT NOT NULL,
    tx_date       TIMESTAMPTZ NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL,
    updated_at    TIMESTAMPTZ NOT NULL,
    export_state  TEXT NOT NULL DEFAULT 'pending'
);
CREATE INDEX IF NOT EXISTS idx_transactions_user_date ON transactions (user_id, tx_date DESC, seq);
CREATE UNIQUE INDEX IF NOT EXISTS idx_transactions_id_user ON transactions (id, user_id);
CREATE INDEX IF NOT EXISTS idx_transactions_export_pending ON transactions (seq) WHERE export_state = 'pending';
`

// PostgresStore backs the Store with a pgx connection pool. Semantics match
// SQLiteStore; single-row statements keep each mutation atomic.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ Store = (*PostgresStore)(nil)

func NewPostgresStore(ctx context.Context, url string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply postgres schema: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) Create(ctx context.Context, d core.Draft) (core.Transaction, error) {
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

	_, err := s.pool.Exec(ctx, `
		INSERT INTO transactions (id, user_id, title, description, category, amount_cents, tx_date, created_at, updated_at, export_state)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		tx.ID, tx.UserID, tx.Title, tx.Description, tx.Category.String(),
		tx.Amount.Cents, tx.Date, tx.CreatedAt, tx.UpdatedAt, ExportPending,
	)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", tx.ID,
		"user_id", tx.UserID,
		"amount_cents", tx.Amount.Cents,
		"category", tx.Category.String())

	return tx, nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID string) ([]core.Transaction, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, title, description, category, amount_cents, tx_date, created_at, updated_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY tx_date DESC, seq ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	return scanPgxTransactions(rows)
}

func (s *PostgresStore) GetByID(ctx context.Context, id string) (core.Transaction, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, user_id, title, description, category, amount_cents, tx_date, created_at, updated_at
		FROM transactions
		WHERE id = $1`,
		id,
	)
	tx, err := scanPgxTransaction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Transaction{}, core.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return tx, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id, userID string) error {
	res, err := s.pool.Exec(ctx,
		`DELETE FROM transactions WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if res.RowsAffected() == 0 {
		return core.ErrNotFound
	}

	slog.InfoContext(ctx, "Transaction deleted", "id", id, "user_id", userID)
	return nil
}

func (s *PostgresStore) ListPendingExport(ctx context.Context, limit int) ([]core.Transaction, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, title, description, category, amount_cents, tx_date, created_at, updated_at
		FROM transactions
		WHERE export_state = $1
		ORDER BY seq ASC
		LIMIT $2`,
		ExportPending, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list pending export: %w", err)
	}
	defer rows.Close()

	return scanPgxTransactions(rows)
}

func (s *PostgresStore) MarkExported(ctx context.Context, id string) error {
	return s.setExportState(ctx, id, ExportDone)
}

func (s *PostgresStore) MarkExportError(ctx context.Context, id string) error {
	return s.setExportState(ctx, id, ExportError)
}

func (s *PostgresStore) setExportState(ctx context.Context, id, state string) error {
	res, err := s.pool.Exec(ctx,
		`UPDATE transactions SET export_state = $1 WHERE id = $2`,
		state, id,
	)
	if err != nil {
		return fmt.Errorf("set export state: %w", err)
	}
	if res.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func scanPgxTransaction(row pgx.Row) (core.Transaction, error) {
	var (
		tx       core.Transaction
		category string
	)
	err := row.Scan(&tx.ID, &tx.UserID, &tx.Title, &tx.Description, &category,
		&tx.Amount.Cents, &tx.Date, &tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		return core.Transaction{}, err
	}
	tx.Category = core.Category(category)
	return tx, nil
}

func scanPgxTransactions(rows pgx.Rows) ([]core.Transaction, error) {
	txs := []core.Transaction{}
	for rows.Next() {
		tx, err := scanPgxTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txs, nil
}
