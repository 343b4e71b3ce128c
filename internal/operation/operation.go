// Package operation implements the deposit and withdraw strategies. Both
// share one shape: lock-read the wallet, apply the arithmetic, persist the
// new balance, append the ledger entry. The caller owns the unit of work
// and commits after the strategy returns.
package operation

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/RocketMenace/Wallet/internal/domain"
	apperrors "github.com/RocketMenace/Wallet/internal/errors"
)

// Strategy executes one balance-changing operation inside the given unit of
// work. Amount is validated as strictly positive before a strategy runs.
type Strategy interface {
	Execute(ctx context.Context, uow domain.UnitOfWork, walletID uuid.UUID, amount decimal.Decimal) (*domain.Transaction, error)
}

// ForKind maps an operation kind to its strategy. The kind set is closed;
// anything else is a validation error.
func ForKind(kind domain.OperationKind) (Strategy, error) {
	switch kind {
	case domain.OperationDeposit:
		return Deposit{}, nil
	case domain.OperationWithdraw:
		return Withdraw{}, nil
	default:
		return nil, apperrors.NewAppErrorf(apperrors.ValidationError, "unknown operation kind %q", kind)
	}
}

// Deposit adds the amount to the wallet balance. It has no upper bound and
// always succeeds once the wallet exists.
type Deposit struct{}

func (Deposit) Execute(ctx context.Context, uow domain.UnitOfWork, walletID uuid.UUID, amount decimal.Decimal) (*domain.Transaction, error) {
	wallet, err := uow.Wallets().GetWalletForUpdate(ctx, walletID)
	if err != nil {
		return nil, err
	}

	newBalance := wallet.Balance.Add(amount)
	if _, err := uow.Wallets().UpdateWalletBalance(ctx, walletID, newBalance); err != nil {
		return nil, err
	}

	return uow.Transactions().CreateTransaction(ctx, walletID, amount, domain.OperationDeposit)
}

// Withdraw subtracts the amount from the wallet balance, rejecting the
// operation when the balance does not cover it. On rejection no row is
// written and the balance stays untouched.
type Withdraw struct{}

func (Withdraw) Execute(ctx context.Context, uow domain.UnitOfWork, walletID uuid.UUID, amount decimal.Decimal) (*domain.Transaction, error) {
	wallet, err := uow.Wallets().GetWalletForUpdate(ctx, walletID)
	if err != nil {
		return nil, err
	}

	if wallet.Balance.LessThan(amount) {
		return nil, apperrors.ErrInsufficientFunds
	}

	newBalance := wallet.Balance.Sub(amount)
	if _, err := uow.Wallets().UpdateWalletBalance(ctx, walletID, newBalance); err != nil {
		return nil, err
	}

	return uow.Transactions().CreateTransaction(ctx, walletID, amount, domain.OperationWithdraw)
}
