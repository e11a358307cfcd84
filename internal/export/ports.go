package export

import (
	"context"

	"fintrack/internal/core"
)

// Ports for outbound statement adapters.
type (
	StatementWriter interface {
		AppendTransaction(ctx context.Context, tx core.Transaction) (rowRef string, err error)
	}
)
