package domain

import "context"

// UnitOfWork owns one database transaction and exposes the repositories
// bound to it. Nothing is committed implicitly: the caller must invoke
// Commit, and any other exit path ends in Rollback so a row lock is never
// left held. Units of work are not nested or shared across requests.
type UnitOfWork interface {
	Wallets() WalletRepository
	Transactions() TransactionRepository
	Commit() error
	Rollback() error
}

// Store opens units of work. Keeping it as an interface lets the operation
// and service layers run against Postgres or the in-memory store unchanged.
type Store interface {
	Begin(ctx context.Context) (UnitOfWork, error)

	// WithTx runs fn inside a fresh unit of work, committing on nil error
	// and rolling back on error or panic.
	WithTx(ctx context.Context, fn func(uow UnitOfWork) error) error
}
