package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/RocketMenace/Wallet/internal/domain"
	apperrors "github.com/RocketMenace/Wallet/internal/errors"
)

// Store hands out units of work backed by a Postgres connection pool.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewStore(db *sql.DB, logger *slog.Logger) *Store {
	return &Store{
		db:     db,
		logger: logger,
	}
}

var _ domain.Store = (*Store)(nil)

// Begin opens a database transaction and returns a unit of work bound to
// it. The transaction is tied to ctx: if the caller disconnects or times
// out, database/sql rolls the transaction back and the row locks it held
// are released.
func (s *Store) Begin(ctx context.Context) (domain.UnitOfWork, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("failed to begin transaction", "error", err)
		return nil, apperrors.NewAppError(apperrors.StorageFailure, "failed to begin transaction").WithDetails(err.Error())
	}
	return &unitOfWork{tx: tx, logger: s.logger}, nil
}

// WithTx runs fn in a unit of work. On nil error the work is committed; on
// error or panic it is rolled back and the panic rethrown.
func (s *Store) WithTx(ctx context.Context, fn func(uow domain.UnitOfWork) error) error {
	uow, err := s.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = uow.Rollback()
			panic(p)
		}
	}()

	if err := fn(uow); err != nil {
		if rbErr := uow.Rollback(); rbErr != nil {
			s.logger.Error("rollback failed", "error", rbErr)
		}
		return err
	}

	return uow.Commit()
}

type unitOfWork struct {
	tx     *sql.Tx
	logger *slog.Logger
}

func (u *unitOfWork) Wallets() domain.WalletRepository {
	return NewWalletRepository(u.tx, u.logger)
}

func (u *unitOfWork) Transactions() domain.TransactionRepository {
	return NewTransactionRepository(u.tx, u.logger)
}

func (u *unitOfWork) Commit() error {
	if err := u.tx.Commit(); err != nil {
		u.logger.Error("commit failed", "error", err)
		return apperrors.NewAppError(apperrors.StorageFailure, "failed to commit transaction").WithDetails(err.Error())
	}
	return nil
}

func (u *unitOfWork) Rollback() error {
	if err := u.tx.Rollback(); err != nil && err != sql.ErrTxDone {
		u.logger.Error("rollback failed", "error", err)
		return apperrors.NewAppError(apperrors.StorageFailure, "failed to roll back transaction").WithDetails(err.Error())
	}
	return nil
}
