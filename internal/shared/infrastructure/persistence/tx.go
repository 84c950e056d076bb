package persistence

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgTxKey struct{}

type pgTxState struct {
	tx    pgx.Tx
	owned bool
}

func pgTxFromContext(ctx context.Context) (pgTxState, bool) {
	st, ok := ctx.Value(pgTxKey{}).(pgTxState)
	if !ok || st.tx == nil {
		return pgTxState{}, false
	}
	return st, true
}

// DBExecutor is the query surface shared by pgxpool.Pool and pgx.Tx.
type DBExecutor interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Executor returns the context's transaction when one is open, otherwise
// the pool. Repositories route every query through this so they behave
// the same inside and outside a unit of work.
func Executor(ctx context.Context, pool *pgxpool.Pool) DBExecutor {
	if st, ok := pgTxFromContext(ctx); ok {
		return st.tx
	}
	return pool
}
