package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/RocketMenace/Wallet/internal/domain"
	apperrors "github.com/RocketMenace/Wallet/internal/errors"
)

// WalletService orchestrates wallet creation and retrieval. Each call opens
// one unit of work and closes it before returning.
type WalletService struct {
	store  domain.Store
	logger *slog.Logger
}

func NewWalletService(store domain.Store, logger *slog.Logger) *WalletService {
	return &WalletService{
		store:  store,
		logger: logger,
	}
}

// CreateWallet provisions a wallet with the given starting balance.
// A negative balance is rejected before any storage work happens.
func (s *WalletService) CreateWallet(ctx context.Context, initialBalance decimal.Decimal) (*domain.Wallet, error) {
	if initialBalance.IsNegative() {
		return nil, apperrors.ErrNegativeBalance
	}
	if !initialBalance.Equal(initialBalance.Round(2)) {
		return nil, apperrors.ErrBalanceScale
	}

	var wallet *domain.Wallet
	err := s.store.WithTx(ctx, func(uow domain.UnitOfWork) error {
		created, err := uow.Wallets().CreateWallet(ctx, initialBalance)
		if err != nil {
			return err
		}
		wallet = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("wallet created", "wallet_id", wallet.ID, "balance", wallet.Balance)
	return wallet, nil
}

// GetWallet reads a wallet without locking it. A read racing a mutation may
// observe the balance from before or after the concurrent commit.
func (s *WalletService) GetWallet(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	var wallet *domain.Wallet
	err := s.store.WithTx(ctx, func(uow domain.UnitOfWork) error {
		found, err := uow.Wallets().GetWallet(ctx, id)
		if err != nil {
			return err
		}
		wallet = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return wallet, nil
}
