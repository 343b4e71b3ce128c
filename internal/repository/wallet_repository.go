package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/RocketMenace/Wallet/internal/domain"
	apperrors "github.com/RocketMenace/Wallet/internal/errors"
)

type walletRepository struct {
	db     SQLExecutor
	logger *slog.Logger
}

func NewWalletRepository(db SQLExecutor, logger *slog.Logger) domain.WalletRepository {
	return &walletRepository{
		db:     db,
		logger: logger,
	}
}

func (r *walletRepository) CreateWallet(ctx context.Context, initialBalance decimal.Decimal) (*domain.Wallet, error) {
	query := `
		INSERT INTO wallets (balance)
		VALUES ($1)
		RETURNING id, balance, created_at, updated_at
	`

	wallet, err := r.scanWallet(ctx, query, initialBalance.StringFixed(2))
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23514" { // check_violation
			r.logger.Warn("wallet insert rejected by check constraint", "constraint", pqErr.Constraint)
			return nil, apperrors.ErrNegativeBalance
		}
		r.logger.Error("failed to create wallet", "error", err)
		return nil, storageFailure("failed to create wallet", err)
	}

	r.logger.Info("wallet created", "wallet_id", wallet.ID, "balance", wallet.Balance)
	return wallet, nil
}

func (r *walletRepository) GetWallet(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	query := `
		SELECT id, balance, created_at, updated_at
		FROM wallets WHERE id = $1
	`

	return r.getWallet(ctx, query, id)
}

// GetWalletForUpdate takes the exclusive row lock that serializes
// concurrent mutations of one wallet. A second transaction calling this
// blocks until the holder commits or rolls back, then re-reads the
// now-current balance.
func (r *walletRepository) GetWalletForUpdate(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	query := `
		SELECT id, balance, created_at, updated_at
		FROM wallets WHERE id = $1 FOR UPDATE
	`

	return r.getWallet(ctx, query, id)
}

func (r *walletRepository) getWallet(ctx context.Context, query string, id uuid.UUID) (*domain.Wallet, error) {
	wallet, err := r.scanWallet(ctx, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			r.logger.Warn("wallet not found", "wallet_id", id)
			return nil, apperrors.ErrWalletNotFound
		}
		r.logger.Error("failed to get wallet", "wallet_id", id, "error", err)
		return nil, storageFailure("failed to get wallet", err)
	}
	return wallet, nil
}

func (r *walletRepository) UpdateWalletBalance(ctx context.Context, id uuid.UUID, newBalance decimal.Decimal) (*domain.Wallet, error) {
	query := `
		UPDATE wallets
		SET balance = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id, balance, created_at, updated_at
	`

	wallet, err := r.scanWallet(ctx, query, newBalance.StringFixed(2), id)
	if err != nil {
		if err == sql.ErrNoRows {
			r.logger.Warn("no wallet to update", "wallet_id", id)
			return nil, apperrors.ErrWalletNotFound
		}
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23514" { // check_violation
			// The withdraw strategy guards this before writing; hitting
			// the constraint means a business-rule bug upstream.
			r.logger.Error("balance update rejected by check constraint",
				"wallet_id", id, "constraint", pqErr.Constraint)
			return nil, storageFailure("balance update violated non_negative_balance", err)
		}
		r.logger.Error("failed to update wallet balance", "wallet_id", id, "error", err)
		return nil, storageFailure("failed to update wallet balance", err)
	}

	r.logger.Info("wallet balance updated", "wallet_id", id, "new_balance", wallet.Balance)
	return wallet, nil
}

func (r *walletRepository) scanWallet(ctx context.Context, query string, args ...interface{}) (*domain.Wallet, error) {
	var wallet domain.Wallet
	var balanceStr string

	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&wallet.ID,
		&balanceStr,
		&wallet.CreatedAt,
		&wallet.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	balance, err := decimal.NewFromString(balanceStr)
	if err != nil {
		return nil, err
	}
	wallet.Balance = balance

	return &wallet, nil
}

func storageFailure(message string, err error) *apperrors.AppError {
	return apperrors.NewAppError(apperrors.StorageFailure, message).WithDetails(err.Error())
}
