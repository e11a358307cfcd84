package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteStore is the default Store backend. Rows are written with single
// INSERT/DELETE statements, so each mutation is atomic at the database
// level without explicit transactions.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) Create(ctx context.Context, d core.Draft) (core.Transaction, error) {
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

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (id, user_id, title, description, category, amount_cents, tx_date, created_at, updated_at, export_state)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.UserID, tx.Title, tx.Description, tx.Category.String(),
		tx.Amount.Cents, formatDate(tx.Date), formatTime(tx.CreatedAt), formatTime(tx.UpdatedAt),
		ExportPending,
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

func (s *SQLiteStore) ListByUser(ctx context.Context, userID string) ([]core.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, title, description, category, amount_cents, tx_date, created_at, updated_at
		FROM transactions
		WHERE user_id = ?
		ORDER BY tx_date DESC, seq ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func (s *SQLiteStore) GetByID(ctx context.Context, id string) (core.Transaction, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, title, description, category, amount_cents, tx_date, created_at, updated_at
		FROM transactions
		WHERE id = ?`,
		id,
	)
	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return tx, nil
}

// Delete matches id and user in a single statement. A record owned by a
// different user is indistinguishable from a missing one.
func (s *SQLiteStore) Delete(ctx context.Context, id, userID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}

	slog.InfoContext(ctx, "Transaction deleted", "id", id, "user_id", userID)
	return nil
}

func (s *SQLiteStore) ListPendingExport(ctx context.Context, limit int) ([]core.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, title, description, category, amount_cents, tx_date, created_at, updated_at
		FROM transactions
		WHERE export_state = ?
		ORDER BY seq ASC
		LIMIT ?`,
		ExportPending, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list pending export: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func (s *SQLiteStore) MarkExported(ctx context.Context, id string) error {
	return s.setExportState(ctx, id, ExportDone)
}

func (s *SQLiteStore) MarkExportError(ctx context.Context, id string) error {
	return s.setExportState(ctx, id, ExportError)
}

func (s *SQLiteStore) setExportState(ctx context.Context, id, state string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE transactions SET export_state = ? WHERE id = ?`,
		state, id,
	)
	if err != nil {
		return fmt.Errorf("set export state: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		tx       core.Transaction
		category string
		date     string
		created  string
		updated  string
	)
	err := row.Scan(&tx.ID, &tx.UserID, &tx.Title, &tx.Description, &category,
		&tx.Amount.Cents, &date, &created, &updated)
	if err != nil {
		return core.Transaction{}, err
	}
	tx.Category = core.Category(category)
	if tx.Date, err = parseTime(date); err != nil {
		return core.Transaction{}, fmt.Errorf("parse tx_date: %w", err)
	}
	if tx.CreatedAt, err = parseTime(created); err != nil {
		return core.Transaction{}, fmt.Errorf("parse created_at: %w", err)
	}
	if tx.UpdatedAt, err = parseTime(updated); err != nil {
		return core.Transaction{}, fmt.Errorf("parse updated_at: %w", err)
	}
	return tx, nil
}

func scanTransactions(rows *sql.Rows) ([]core.Transaction, error) {
	txs := []core.Transaction{}
	for rows.Next() {
		tx, err := scanTransaction(rows)
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

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// formatDate keeps a fixed-width second precision so that the textual
// tx_date column sorts chronologically.
func formatDate(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(time.RFC3339)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
