// Package backend selects and constructs the transaction store configured
// for this process.
package backend

import (
	"context"
	"fmt"

	"fintrack/internal/config"
	"fintrack/internal/storage"
)

// Type names a store implementation.
type Type string

const (
	SQLite   Type = "sqlite"
	Postgres Type = "postgres"
	Memory   Type = "memory"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	switch t {
	case SQLite, Postgres, Memory:
		return true
	default:
		return false
	}
}

// Types returns all valid backend types.
func Types() []Type {
	return []Type{SQLite, Postgres, Memory}
}

// Open builds the store named by the app config. The returned store owns
// its connections; callers close it through Store.Close.
func Open(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app config is nil")
	}

	t := Type(cfg.DataBackend)
	switch t {
	case SQLite:
		store, err := storage.NewSQLiteStore(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite store: %w", err)
		}
		return store, nil
	case Postgres:
		store, err := storage.NewPostgresStore(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("initialize postgres store: %w", err)
		}
		return store, nil
	case Memory:
		return storage.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("invalid backend type: %s (valid: %v)", cfg.DataBackend, Types())
	}
}
