package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OperationKind enumerates the two balance-changing operations. Direction
// is carried by the kind, not by the sign of the amount.
type OperationKind string

const (
	OperationDeposit  OperationKind = "deposit"
	OperationWithdraw OperationKind = "withdraw"
)

// ParseOperationKind validates a wire value against the closed kind set.
func ParseOperationKind(s string) (OperationKind, error) {
	switch OperationKind(s) {
	case OperationDeposit, OperationWithdraw:
		return OperationKind(s), nil
	default:
		return "", fmt.Errorf("unknown operation kind %q", s)
	}
}

// Transaction is an immutable ledger entry recording one deposit or
// withdrawal against a wallet. Rows are append-only: once created they are
// never updated or deleted, except by cascade when the wallet is removed.
type Transaction struct {
	ID        uuid.UUID       `json:"id"`
	WalletID  uuid.UUID       `json:"wallet_id"`
	Amount    decimal.Decimal `json:"amount"`
	Kind      OperationKind   `json:"kind"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TransactionRepository appends and lists ledger entries. No update or
// delete is exposed.
type TransactionRepository interface {
	CreateTransaction(ctx context.Context, walletID uuid.UUID, amount decimal.Decimal, kind OperationKind) (*Transaction, error)

	// ListTransactions returns entries for a wallet in chronological
	// order, oldest first.
	ListTransactions(ctx context.Context, walletID uuid.UUID, offset, limit int) ([]Transaction, error)
}
