// Package memstore provides in-memory account and ledger stores.
//
// The stores are safe for concurrent use. They hold no transactions, so
// TxManager runs units of work as plain function calls.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/moneypkg"
)

// TxManager is a pass-through unit of work.
type TxManager struct{}

// WithinTx runs fn with ctx.
func (TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// AccountRepo keeps accounts in memory.
type AccountRepo struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]domain.Account
	numbers  map[string]uuid.UUID
	last     time.Time
	now      func() time.Time
}

// NewAccountRepo returns an empty AccountRepo.
func NewAccountRepo() *AccountRepo {
	return &AccountRepo{
		accounts: make(map[uuid.UUID]domain.Account),
		numbers:  make(map[string]uuid.UUID),
		now:      time.Now,
	}
}

// Create creates the account with zero balance and then returns it.
func (r *AccountRepo) Create(ctx context.Context, arg domain.CreateAccountParams) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.numbers[arg.AccountNumber]; ok {
		return domain.Account{}, domain.ErrAccountNumberTaken
	}

	now := r.now().UTC()
	if !now.After(r.last) {
		now = r.last.Add(time.Microsecond)
	}

	r.last = now

	a := domain.Account{
		ID:            uuid.New(),
		OwnerID:       arg.OwnerID,
		AccountNumber: arg.AccountNumber,
		Balance:       moneypkg.Zero,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	r.accounts[a.ID] = a
	r.numbers[a.AccountNumber] = a.ID

	return a, nil
}

// Get returns the account with the given id.
func (r *AccountRepo) Get(ctx context.Context, id uuid.UUID) (domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.accounts[id]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}

	return a, nil
}

// AddBalance atomically adds delta to the account's balance and returns the changed account.
func (r *AccountRepo) AddBalance(ctx context.Context, id uuid.UUID, delta moneypkg.Money) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.accounts[id]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}

	balance := a.Balance.Add(delta)
	if balance.IsNegative() {
		return domain.Account{}, domain.ErrInsufficientBalance
	}

	a.Balance = balance
	a.UpdatedAt = r.now().UTC()
	r.accounts[id] = a

	return a, nil
}

// ListByOwner returns all accounts of the given owner, newest first.
func (r *AccountRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := []domain.Account{}

	for _, a := range r.accounts {
		if a.OwnerID == ownerID {
			items = append(items, a)
		}
	}

	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}

		return items[i].AccountNumber < items[j].AccountNumber
	})

	return items, nil
}

// NumberExists reports whether an account with the given number exists.
func (r *AccountRepo) NumberExists(ctx context.Context, number string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.numbers[number]

	return ok, nil
}

// LedgerRepo keeps transactions in memory in append order.
type LedgerRepo struct {
	mu      sync.RWMutex
	records []domain.Transaction
	byID    map[uuid.UUID]int
	now     func() time.Time
}

// NewLedgerRepo returns an empty LedgerRepo.
func NewLedgerRepo() *LedgerRepo {
	return &LedgerRepo{
		byID: make(map[uuid.UUID]int),
		now:  time.Now,
	}
}

// Append records the transaction and then returns it.
//
// CreatedAt is strictly increasing in append order.
func (r *LedgerRepo) Append(ctx context.Context, arg domain.AppendTransactionParams) (domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	createdAt := r.now().UTC()
	if n := len(r.records); n > 0 {
		if last := r.records[n-1].CreatedAt; !createdAt.After(last) {
			createdAt = last.Add(time.Microsecond)
		}
	}

	t := domain.Transaction{
		ID:            uuid.New(),
		Type:          arg.Type,
		Amount:        arg.Amount,
		FromAccountID: arg.FromAccountID,
		ToAccountID:   arg.ToAccountID,
		CreatedAt:     createdAt,
	}

	r.byID[t.ID] = len(r.records)
	r.records = append(r.records, t)

	return t, nil
}

// Get returns the transaction with the given id.
func (r *LedgerRepo) Get(ctx context.Context, id uuid.UUID) (domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.byID[id]
	if !ok {
		return domain.Transaction{}, domain.ErrTransactionNotFound
	}

	return r.records[i], nil
}

// ListByAccount returns the history of the account, newest first.
func (r *LedgerRepo) ListByAccount(ctx context.Context, arg domain.ListTransactionsParams) ([]domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := []domain.Transaction{}
	skipped := int32(0)

	for i := len(r.records) - 1; i >= 0 && int32(len(items)) < arg.Limit; i-- {
		t := r.records[i]
		if !t.Involves(arg.AccountID) {
			continue
		}

		if skipped < arg.Offset {
			skipped++
			continue
		}

		items = append(items, t)
	}

	return items, nil
}

// Len returns the number of recorded transactions.
func (r *LedgerRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.records)
}
