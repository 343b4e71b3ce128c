// Package memstore provides an in-memory implementation of the storage
// contracts for tests. It honors the same discipline as the Postgres store:
// writes are staged inside a unit of work and applied on commit, and a
// wallet read through GetWalletForUpdate stays exclusively locked until the
// unit of work ends.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/RocketMenace/Wallet/internal/domain"
	apperrors "github.com/RocketMenace/Wallet/internal/errors"
)

// Store keeps wallets and transactions in maps guarded by a mutex.
type Store struct {
	mu           sync.Mutex
	wallets      map[uuid.UUID]domain.Wallet
	transactions map[uuid.UUID][]domain.Transaction
	rowLocks     map[uuid.UUID]*sync.Mutex
}

func New() *Store {
	return &Store{
		wallets:      make(map[uuid.UUID]domain.Wallet),
		transactions: make(map[uuid.UUID][]domain.Transaction),
		rowLocks:     make(map[uuid.UUID]*sync.Mutex),
	}
}

var _ domain.Store = (*Store)(nil)

func (s *Store) Begin(_ context.Context) (domain.UnitOfWork, error) {
	return &unitOfWork{
		store:         s,
		stagedWallets: make(map[uuid.UUID]domain.Wallet),
		stagedCreates: make(map[uuid.UUID]domain.Wallet),
		heldLocks:     make(map[uuid.UUID]*sync.Mutex),
	}, nil
}

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
		_ = uow.Rollback()
		return err
	}

	return uow.Commit()
}

// rowLock returns the lock serializing mutations of one wallet, creating it
// on first use.
func (s *Store) rowLock(id uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.rowLocks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.rowLocks[id] = lock
	}
	return lock
}

type unitOfWork struct {
	store *Store
	done  bool

	// stagedWallets holds balance updates not yet committed;
	// stagedCreates holds wallets inserted in this unit of work.
	stagedWallets map[uuid.UUID]domain.Wallet
	stagedCreates map[uuid.UUID]domain.Wallet
	stagedTxs     []domain.Transaction
	heldLocks     map[uuid.UUID]*sync.Mutex
}

func (u *unitOfWork) Wallets() domain.WalletRepository {
	return &walletRepository{uow: u}
}

func (u *unitOfWork) Transactions() domain.TransactionRepository {
	return &transactionRepository{uow: u}
}

func (u *unitOfWork) Commit() error {
	if u.done {
		return nil
	}
	u.done = true

	u.store.mu.Lock()
	for id, w := range u.stagedCreates {
		u.store.wallets[id] = w
	}
	for id, w := range u.stagedWallets {
		u.store.wallets[id] = w
	}
	for _, tx := range u.stagedTxs {
		u.store.transactions[tx.WalletID] = append(u.store.transactions[tx.WalletID], tx)
	}
	u.store.mu.Unlock()

	u.releaseLocks()
	return nil
}

func (u *unitOfWork) Rollback() error {
	if u.done {
		return nil
	}
	u.done = true

	u.stagedWallets = nil
	u.stagedCreates = nil
	u.stagedTxs = nil
	u.releaseLocks()
	return nil
}

func (u *unitOfWork) releaseLocks() {
	for _, lock := range u.heldLocks {
		lock.Unlock()
	}
	u.heldLocks = make(map[uuid.UUID]*sync.Mutex)
}

type walletRepository struct {
	uow *unitOfWork
}

func (r *walletRepository) CreateWallet(_ context.Context, initialBalance decimal.Decimal) (*domain.Wallet, error) {
	now := time.Now().UTC()
	wallet := domain.Wallet{
		ID:        uuid.New(),
		Balance:   initialBalance,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.uow.stagedCreates[wallet.ID] = wallet
	return &wallet, nil
}

func (r *walletRepository) GetWallet(_ context.Context, id uuid.UUID) (*domain.Wallet, error) {
	return r.uow.readWallet(id)
}

func (r *walletRepository) GetWalletForUpdate(_ context.Context, id uuid.UUID) (*domain.Wallet, error) {
	if _, ok := r.uow.heldLocks[id]; ok {
		return r.uow.readWallet(id)
	}

	// Existence is checked only after the lock is acquired: a wallet
	// committed while this caller was waiting must be visible here.
	lock := r.uow.store.rowLock(id)
	lock.Lock()
	wallet, err := r.uow.readWallet(id)
	if err != nil {
		lock.Unlock()
		return nil, err
	}
	r.uow.heldLocks[id] = lock
	return wallet, nil
}

func (r *walletRepository) UpdateWalletBalance(_ context.Context, id uuid.UUID, newBalance decimal.Decimal) (*domain.Wallet, error) {
	wallet, err := r.uow.readWallet(id)
	if err != nil {
		return nil, err
	}
	wallet.Balance = newBalance
	wallet.UpdatedAt = time.Now().UTC()
	r.uow.stagedWallets[id] = *wallet
	return wallet, nil
}

func (u *unitOfWork) readWallet(id uuid.UUID) (*domain.Wallet, error) {
	if w, ok := u.stagedWallets[id]; ok {
		return &w, nil
	}
	if w, ok := u.stagedCreates[id]; ok {
		return &w, nil
	}
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	if w, ok := u.store.wallets[id]; ok {
		return &w, nil
	}
	return nil, apperrors.ErrWalletNotFound
}

type transactionRepository struct {
	uow *unitOfWork
}

func (r *transactionRepository) CreateTransaction(_ context.Context, walletID uuid.UUID, amount decimal.Decimal, kind domain.OperationKind) (*domain.Transaction, error) {
	if _, err := r.uow.readWallet(walletID); err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, apperrors.ErrNonPositiveAmount
	}

	now := time.Now().UTC()
	tx := domain.Transaction{
		ID:        uuid.New(),
		WalletID:  walletID,
		Amount:    amount,
		Kind:      kind,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.uow.stagedTxs = append(r.uow.stagedTxs, tx)
	return &tx, nil
}

func (r *transactionRepository) ListTransactions(_ context.Context, walletID uuid.UUID, offset, limit int) ([]domain.Transaction, error) {
	r.uow.store.mu.Lock()
	defer r.uow.store.mu.Unlock()

	all := r.uow.store.transactions[walletID]
	if offset >= len(all) {
		return []domain.Transaction{}, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}

	out := make([]domain.Transaction, end-offset)
	copy(out, all[offset:end])
	return out, nil
}
