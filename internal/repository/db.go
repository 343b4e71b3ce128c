package repository

import (
	"context"
	"database/sql"
)

// SQLExecutor is the query surface shared by sql.DB and sql.Tx. Repositories
// are written against it so the same code runs inside and outside a unit of
// work. All methods are context-aware: a cancelled request aborts the
// round-trip and the enclosing transaction rolls back, releasing any row
// locks it held.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

var (
	_ SQLExecutor = (*sql.DB)(nil)
	_ SQLExecutor = (*sql.Tx)(nil)
)
