package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/RocketMenace/Wallet/internal/domain"
	apperrors "github.com/RocketMenace/Wallet/internal/errors"
	"github.com/RocketMenace/Wallet/internal/operation"
)

const defaultListLimit = 100

// TransactionService runs balance-changing operations and serves the
// ledger history for a wallet.
type TransactionService struct {
	store  domain.Store
	logger *slog.Logger
}

func NewTransactionService(store domain.Store, logger *slog.Logger) *TransactionService {
	return &TransactionService{
		store:  store,
		logger: logger,
	}
}

// ApplyOperation validates the request, selects the strategy for the kind
// and runs it inside a single unit of work. The wallet row lock taken by
// the strategy is held until that unit of work commits or rolls back.
func (s *TransactionService) ApplyOperation(ctx context.Context, walletID uuid.UUID, amount decimal.Decimal, kind domain.OperationKind) (*domain.Transaction, error) {
	if !amount.IsPositive() {
		return nil, apperrors.ErrNonPositiveAmount
	}
	// Money is stored at scale 2. A sub-cent amount would round differently
	// in the balance column and the ledger row, breaking the ledger sum.
	if !amount.Equal(amount.Round(2)) {
		return nil, apperrors.ErrAmountScale
	}

	strategy, err := operation.ForKind(kind)
	if err != nil {
		return nil, err
	}

	var tx *domain.Transaction
	err = s.store.WithTx(ctx, func(uow domain.UnitOfWork) error {
		executed, err := strategy.Execute(ctx, uow, walletID, amount)
		if err != nil {
			return err
		}
		tx = executed
		return nil
	})
	if err != nil {
		s.logger.Warn("operation rejected",
			"wallet_id", walletID, "amount", amount, "kind", kind, "error", err)
		return nil, err
	}

	s.logger.Info("operation applied",
		"transaction_id", tx.ID, "wallet_id", walletID, "amount", amount, "kind", kind)
	return tx, nil
}

// ListTransactions returns the wallet's ledger entries in chronological
// order. The wallet must exist.
func (s *TransactionService) ListTransactions(ctx context.Context, walletID uuid.UUID, offset, limit int) ([]domain.Transaction, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = defaultListLimit
	}

	var transactions []domain.Transaction
	err := s.store.WithTx(ctx, func(uow domain.UnitOfWork) error {
		if _, err := uow.Wallets().GetWallet(ctx, walletID); err != nil {
			return err
		}
		listed, err := uow.Transactions().ListTransactions(ctx, walletID, offset, limit)
		if err != nil {
			return err
		}
		transactions = listed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return transactions, nil
}
