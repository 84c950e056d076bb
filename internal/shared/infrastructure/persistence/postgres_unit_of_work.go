package persistence

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresUnitOfWork runs a scheduling request's writes in one pgx
// transaction carried through the context. Nested Begin calls borrow the
// outer transaction; only the outermost scope commits or rolls back.
type PostgresUnitOfWork struct {
	pool *pgxpool.Pool
}

// NewPostgresUnitOfWork creates a new PostgresUnitOfWork.
func NewPostgresUnitOfWork(pool *pgxpool.Pool) *PostgresUnitOfWork {
	return &PostgresUnitOfWork{pool: pool}
}

// Begin opens a transaction, or joins the one already in the context.
func (u *PostgresUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	if st, ok := pgTxFromContext(ctx); ok {
		return context.WithValue(ctx, pgTxKey{}, pgTxState{tx: st.tx}), nil
	}

	tx, err := u.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}

	return context.WithValue(ctx, pgTxKey{}, pgTxState{tx: tx, owned: true}), nil
}

// Commit commits the transaction when this scope owns it.
func (u *PostgresUnitOfWork) Commit(ctx context.Context) error {
	st, ok := pgTxFromContext(ctx)
	if !ok {
		return errors.New("commit outside a transaction scope")
	}
	if !st.owned {
		return nil
	}
	return st.tx.Commit(ctx)
}

// Rollback rolls back the transaction when this scope owns it.
func (u *PostgresUnitOfWork) Rollback(ctx context.Context) error {
	st, ok := pgTxFromContext(ctx)
	if !ok {
		return errors.New("rollback outside a transaction scope")
	}
	if !st.owned {
		return nil
	}
	return st.tx.Rollback(ctx)
}
