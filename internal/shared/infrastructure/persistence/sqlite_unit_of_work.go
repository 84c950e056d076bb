package persistence

import (
	"context"
	"database/sql"
	"errors"
)

type sqliteTxKey struct{}

type sqliteTxState struct {
	tx    *sql.Tx
	owned bool
}

func sqliteTxFromContext(ctx context.Context) (sqliteTxState, bool) {
	st, ok := ctx.Value(sqliteTxKey{}).(sqliteTxState)
	if !ok || st.tx == nil {
		return sqliteTxState{}, false
	}
	return st, true
}

// SQLiteQuerier is the subset of database/sql shared by *sql.DB and *sql.Tx.
type SQLiteQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// SQLiteExecutor returns the context's transaction when one is open,
// otherwise db. Repositories route every statement through this so they
// behave the same inside and outside a unit of work.
func SQLiteExecutor(ctx context.Context, db *sql.DB) SQLiteQuerier {
	if st, ok := sqliteTxFromContext(ctx); ok {
		return st.tx
	}
	return db
}

// SQLiteUnitOfWork runs a scheduling request's writes in one SQLite
// transaction carried through the context. Nested Begin calls borrow the
// outer transaction; only the outermost scope commits or rolls back.
type SQLiteUnitOfWork struct {
	db *sql.DB
}

// NewSQLiteUnitOfWork creates a new SQLiteUnitOfWork.
func NewSQLiteUnitOfWork(db *sql.DB) *SQLiteUnitOfWork {
	return &SQLiteUnitOfWork{db: db}
}

// Begin opens a transaction, or joins the one already in the context.
func (u *SQLiteUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	if st, ok := sqliteTxFromContext(ctx); ok {
		return context.WithValue(ctx, sqliteTxKey{}, sqliteTxState{tx: st.tx}), nil
	}

	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	return context.WithValue(ctx, sqliteTxKey{}, sqliteTxState{tx: tx, owned: true}), nil
}

// Commit commits the transaction when this scope owns it.
func (u *SQLiteUnitOfWork) Commit(ctx context.Context) error {
	st, ok := sqliteTxFromContext(ctx)
	if !ok {
		return errors.New("commit outside a transaction scope")
	}
	if !st.owned {
		return nil
	}
	return st.tx.Commit()
}

// Rollback rolls back the transaction when this scope owns it.
func (u *SQLiteUnitOfWork) Rollback(ctx context.Context) error {
	st, ok := sqliteTxFromContext(ctx)
	if !ok {
		return errors.New("rollback outside a transaction scope")
	}
	if !st.owned {
		return nil
	}
	return st.tx.Rollback()
}
