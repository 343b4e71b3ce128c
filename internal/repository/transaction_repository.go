package repository

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/RocketMenace/Wallet/internal/domain"
	apperrors "github.com/RocketMenace/Wallet/internal/errors"
)

type transactionRepository struct {
	db     SQLExecutor
	logger *slog.Logger
}

func NewTransactionRepository(db SQLExecutor, logger *slog.Logger) domain.TransactionRepository {
	return &transactionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *transactionRepository) CreateTransaction(ctx context.Context, walletID uuid.UUID, amount decimal.Decimal, kind domain.OperationKind) (*domain.Transaction, error) {
	query := `
		INSERT INTO transactions (wallet_id, amount, kind)
		VALUES ($1, $2, $3)
		RETURNING id, wallet_id, amount, kind, created_at, updated_at
	`

	var tx domain.Transaction
	var amountStr string

	err := r.db.QueryRowContext(ctx, query, walletID, amount.StringFixed(2), string(kind)).Scan(
		&tx.ID,
		&tx.WalletID,
		&amountStr,
		&tx.Kind,
		&tx.CreatedAt,
		&tx.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23503": // foreign_key_violation
				r.logger.Warn("transaction references missing wallet", "wallet_id", walletID)
				return nil, apperrors.ErrWalletNotFound
			case "23514": // check_violation
				r.logger.Warn("transaction rejected by check constraint",
					"wallet_id", walletID, "constraint", pqErr.Constraint)
				return nil, apperrors.ErrNonPositiveAmount
			}
		}
		r.logger.Error("failed to create transaction",
			"wallet_id", walletID, "amount", amount, "kind", kind, "error", err)
		return nil, storageFailure("failed to create transaction", err)
	}

	parsed, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, storageFailure("failed to parse transaction amount", err)
	}
	tx.Amount = parsed

	r.logger.Info("transaction recorded",
		"transaction_id", tx.ID, "wallet_id", walletID, "amount", tx.Amount, "kind", kind)
	return &tx, nil
}

func (r *transactionRepository) ListTransactions(ctx context.Context, walletID uuid.UUID, offset, limit int) ([]domain.Transaction, error) {
	query := `
		SELECT id, wallet_id, amount, kind, created_at, updated_at
		FROM transactions
		WHERE wallet_id = $1
		ORDER BY created_at
		OFFSET $2 LIMIT $3
	`

	rows, err := r.db.QueryContext(ctx, query, walletID, offset, limit)
	if err != nil {
		r.logger.Error("failed to list transactions", "wallet_id", walletID, "error", err)
		return nil, storageFailure("failed to list transactions", err)
	}
	defer rows.Close()

	transactions := make([]domain.Transaction, 0)
	for rows.Next() {
		var tx domain.Transaction
		var amountStr string

		if err := rows.Scan(&tx.ID, &tx.WalletID, &amountStr, &tx.Kind, &tx.CreatedAt, &tx.UpdatedAt); err != nil {
			return nil, storageFailure("failed to scan transaction", err)
		}

		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, storageFailure("failed to parse transaction amount", err)
		}
		tx.Amount = amount

		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, storageFailure("failed to iterate transactions", err)
	}

	return transactions, nil
}
