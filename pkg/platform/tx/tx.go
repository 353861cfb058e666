// Package tx carries a SQL transaction through context so a service can span
// an existence check, a procedure call, and a reconciliation read over one
// transaction without stores knowing who opened it.
package tx

import (
	"context"
	"database/sql"
	"fmt"
)

type ctxKey struct{}

var txKey = ctxKey{}

// WithTx stores a SQL transaction in context for downstream store usage.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey, tx)
}

// From extracts a SQL transaction from context if present.
func From(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey).(*sql.Tx)
	return tx, ok
}

// Queryer is the subset of database/sql that stores and gateways use,
// satisfied by both *sql.DB and *sql.Tx.
type Queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Executor returns the transaction from context when one is open, otherwise
// the plain database handle.
func Executor(ctx context.Context, db *sql.DB) Queryer {
	if sqlTx, ok := From(ctx); ok {
		return sqlTx
	}
	return db
}

// Runner executes a function inside a database transaction. The transaction is
// committed when fn returns nil and rolled back otherwise. Nested calls join
// the transaction already in context.
type Runner struct {
	db *sql.DB
}

// NewRunner creates a transaction runner over the given database handle.
func NewRunner(db *sql.DB) *Runner {
	return &Runner{db: db}
}

// RunInTx runs fn with a transaction stashed in the context.
func (r *Runner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := From(ctx); ok {
		return fn(ctx)
	}

	sqlTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(WithTx(ctx, sqlTx)); err != nil {
		_ = sqlTx.Rollback()
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Passthrough satisfies the same RunInTx contract without a database. It backs
// in-memory stores in tests, where operations are already atomic.
type Passthrough struct{}

// RunInTx invokes fn directly.
func (Passthrough) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
