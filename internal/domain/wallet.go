package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wallet is an account holding a non-negative monetary balance.
type Wallet struct {
	ID        uuid.UUID       `json:"id"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// WalletRepository provides access to wallet rows. Implementations bound to
// a unit of work run every call inside that unit's database transaction.
type WalletRepository interface {
	// CreateWallet inserts a wallet with the given starting balance and
	// returns the persisted row including the generated id and timestamps.
	// The caller validates that initialBalance is non-negative.
	CreateWallet(ctx context.Context, initialBalance decimal.Decimal) (*Wallet, error)

	// GetWallet reads a wallet without locking it.
	GetWallet(ctx context.Context, id uuid.UUID) (*Wallet, error)

	// GetWalletForUpdate reads a wallet and takes an exclusive row lock
	// held until the enclosing transaction commits or rolls back. Every
	// balance-mutating path must read through this method: without the
	// lock two concurrent mutations can compute new balances from the
	// same stale read and one update silently overwrites the other.
	GetWalletForUpdate(ctx context.Context, id uuid.UUID) (*Wallet, error)

	// UpdateWalletBalance persists a new balance and refreshes updated_at.
	UpdateWalletBalance(ctx context.Context, id uuid.UUID, newBalance decimal.Decimal) (*Wallet, error)
}
