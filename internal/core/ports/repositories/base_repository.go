package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TransactionManager hands out the transactions that every read-modify-write of a
// currency, product price or regional override runs inside.
type TransactionManager interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Commit(ctx context.Context, tx pgx.Tx) error
	// Rollback must tolerate an already committed transaction.
	Rollback(ctx context.Context, tx pgx.Tx) error
}
