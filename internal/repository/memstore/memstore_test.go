package memstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RocketMenace/Wallet/internal/domain"
	apperrors "github.com/RocketMenace/Wallet/internal/errors"
	"github.com/RocketMenace/Wallet/internal/repository/memstore"
)

func createWallet(t *testing.T, store *memstore.Store, balance string) *domain.Wallet {
	t.Helper()

	var wallet *domain.Wallet
	err := store.WithTx(context.Background(), func(uow domain.UnitOfWork) error {
		created, err := uow.Wallets().CreateWallet(context.Background(), decimal.RequireFromString(balance))
		if err != nil {
			return err
		}
		wallet = created
		return nil
	})
	require.NoError(t, err)
	return wallet
}

func TestCommitMakesWritesVisible(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	wallet := createWallet(t, store, "5.00")

	uow, err := store.Begin(ctx)
	require.NoError(t, err)

	_, err = uow.Wallets().UpdateWalletBalance(ctx, wallet.ID, decimal.RequireFromString("9.00"))
	require.NoError(t, err)
	require.NoError(t, uow.Commit())

	other, err := store.Begin(ctx)
	require.NoError(t, err)
	defer other.Rollback()

	updated, err := other.Wallets().GetWallet(ctx, wallet.ID)
	require.NoError(t, err)
	assert.True(t, updated.Balance.Equal(decimal.RequireFromString("9.00")))
}

func TestRollbackDiscardsStagedWrites(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	wallet := createWallet(t, store, "5.00")

	err := store.WithTx(ctx, func(uow domain.UnitOfWork) error {
		if _, err := uow.Wallets().GetWalletForUpdate(ctx, wallet.ID); err != nil {
			return err
		}
		if _, err := uow.Wallets().UpdateWalletBalance(ctx, wallet.ID, decimal.RequireFromString("99.00")); err != nil {
			return err
		}
		if _, err := uow.Transactions().CreateTransaction(ctx, wallet.ID, decimal.RequireFromString("94.00"), domain.OperationDeposit); err != nil {
			return err
		}
		return errors.New("boom")
	})
	require.Error(t, err)

	err = store.WithTx(ctx, func(uow domain.UnitOfWork) error {
		updated, err := uow.Wallets().GetWallet(ctx, wallet.ID)
		if err != nil {
			return err
		}
		assert.True(t, updated.Balance.Equal(decimal.RequireFromString("5.00")))

		history, err := uow.Transactions().ListTransactions(ctx, wallet.ID, 0, 10)
		if err != nil {
			return err
		}
		assert.Empty(t, history)
		return nil
	})
	require.NoError(t, err)
}

func TestPanicRollsBackAndReleasesLock(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	wallet := createWallet(t, store, "5.00")

	require.Panics(t, func() {
		_ = store.WithTx(ctx, func(uow domain.UnitOfWork) error {
			if _, err := uow.Wallets().GetWalletForUpdate(ctx, wallet.ID); err != nil {
				return err
			}
			_, _ = uow.Wallets().UpdateWalletBalance(ctx, wallet.ID, decimal.RequireFromString("1.00"))
			panic("mid-operation failure")
		})
	})

	// The lock must be released and the balance unchanged, otherwise every
	// future operation on this wallet would block forever.
	err := store.WithTx(ctx, func(uow domain.UnitOfWork) error {
		locked, err := uow.Wallets().GetWalletForUpdate(ctx, wallet.ID)
		if err != nil {
			return err
		}
		assert.True(t, locked.Balance.Equal(decimal.RequireFromString("5.00")))
		return nil
	})
	require.NoError(t, err)
}

// Wallet existence is decided under the row lock, so a lookup that fails
// must not leave the lock behind for the next caller.
func TestGetWalletForUpdateMissingWalletLeavesLockFree(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	missing := uuid.New()

	err := store.WithTx(ctx, func(uow domain.UnitOfWork) error {
		_, err := uow.Wallets().GetWalletForUpdate(ctx, missing)
		return err
	})
	require.ErrorIs(t, err, apperrors.ErrWalletNotFound)

	done := make(chan error, 1)
	go func() {
		done <- store.WithTx(ctx, func(uow domain.UnitOfWork) error {
			_, err := uow.Wallets().GetWalletForUpdate(ctx, missing)
			return err
		})
	}()

	select {
	case err := <-done:
		require.ErrorIs(t, err, apperrors.ErrWalletNotFound)
	case <-time.After(time.Second):
		t.Fatal("second lookup blocked on a lock left behind by the first")
	}
}

func TestReadsWithinUnitOfWorkSeeStagedState(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	wallet := createWallet(t, store, "20.00")

	err := store.WithTx(ctx, func(uow domain.UnitOfWork) error {
		if _, err := uow.Wallets().UpdateWalletBalance(ctx, wallet.ID, decimal.RequireFromString("35.00")); err != nil {
			return err
		}
		inside, err := uow.Wallets().GetWallet(ctx, wallet.ID)
		if err != nil {
			return err
		}
		assert.True(t, inside.Balance.Equal(decimal.RequireFromString("35.00")))
		return nil
	})
	require.NoError(t, err)
}
