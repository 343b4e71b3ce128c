package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/RocketMenace/Wallet/internal/errors"
	"github.com/RocketMenace/Wallet/internal/logging"
	"github.com/RocketMenace/Wallet/internal/repository/memstore"
	"github.com/RocketMenace/Wallet/internal/service"
)

func newWalletService() *service.WalletService {
	return service.NewWalletService(memstore.New(), logging.Discard())
}

func TestCreateWalletDefaultBalance(t *testing.T) {
	svc := newWalletService()

	wallet, err := svc.CreateWallet(context.Background(), decimal.Zero)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, wallet.ID)
	assert.True(t, wallet.Balance.IsZero())
	assert.False(t, wallet.CreatedAt.IsZero())
}

func TestCreateWalletCustomBalance(t *testing.T) {
	svc := newWalletService()

	wallet, err := svc.CreateWallet(context.Background(), decimal.RequireFromString("1000.50"))
	require.NoError(t, err)
	assert.True(t, wallet.Balance.Equal(decimal.RequireFromString("1000.50")))
}

func TestCreateWalletNegativeBalance(t *testing.T) {
	svc := newWalletService()

	_, err := svc.CreateWallet(context.Background(), decimal.RequireFromString("-50.00"))
	require.ErrorIs(t, err, apperrors.ErrNegativeBalance)
}

func TestCreateWalletRejectsSubCentBalance(t *testing.T) {
	svc := newWalletService()

	_, err := svc.CreateWallet(context.Background(), decimal.RequireFromString("10.005"))
	require.ErrorIs(t, err, apperrors.ErrBalanceScale)

	// A trailing zero is still a scale-2 value.
	wallet, err := svc.CreateWallet(context.Background(), decimal.RequireFromString("10.010"))
	require.NoError(t, err)
	assert.True(t, wallet.Balance.Equal(decimal.RequireFromString("10.01")))
}

func TestGetWalletRoundTrip(t *testing.T) {
	svc := newWalletService()
	ctx := context.Background()

	created, err := svc.CreateWallet(ctx, decimal.RequireFromString("42.00"))
	require.NoError(t, err)

	fetched, err := svc.GetWallet(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, created.ID, fetched.ID)
	assert.True(t, created.Balance.Equal(fetched.Balance))
	assert.Equal(t, created.CreatedAt, fetched.CreatedAt)
}

func TestGetWalletRepeatedReadsAreIdentical(t *testing.T) {
	svc := newWalletService()
	ctx := context.Background()

	created, err := svc.CreateWallet(ctx, decimal.RequireFromString("7.77"))
	require.NoError(t, err)

	first, err := svc.GetWallet(ctx, created.ID)
	require.NoError(t, err)
	second, err := svc.GetWallet(ctx, created.ID)
	require.NoError(t, err)

	assert.True(t, first.Balance.Equal(second.Balance))
	assert.Equal(t, first.UpdatedAt, second.UpdatedAt)
}

func TestGetWalletNotFound(t *testing.T) {
	svc := newWalletService()

	_, err := svc.GetWallet(context.Background(), uuid.New())
	require.ErrorIs(t, err, apperrors.ErrWalletNotFound)
}
