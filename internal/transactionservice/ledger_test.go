package transactionservice

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/eventpkg"
	"github.com/go-petr/pet-ledger/internal/lockpkg"
	"github.com/go-petr/pet-ledger/internal/memstore"
	"github.com/go-petr/pet-ledger/pkg/moneypkg"
	"github.com/go-petr/pet-ledger/pkg/randompkg"
)

type ledgerFixture struct {
	service  *Service
	accounts *memstore.AccountRepo
	ledger   *memstore.LedgerRepo
}

func newLedgerFixture() ledgerFixture {
	accounts := memstore.NewAccountRepo()
	ledger := memstore.NewLedgerRepo()

	return ledgerFixture{
		service:  New(accounts, ledger, memstore.TxManager{}, lockpkg.NewMemoryManager(5*time.Second), eventpkg.NopPublisher{}),
		accounts: accounts,
		ledger:   ledger,
	}
}

func (f ledgerFixture) seed(t *testing.T, ownerID uuid.UUID, balance string) domain.Account {
	t.Helper()

	account, err := f.accounts.Create(context.Background(), domain.CreateAccountParams{
		OwnerID:       ownerID,
		AccountNumber: randompkg.AccountNumber(),
	})
	require.NoError(t, err)

	if balance != "" {
		account, err = f.accounts.AddBalance(context.Background(), account.ID, moneypkg.MustParse(balance))
		require.NoError(t, err)
	}

	return account
}

func (f ledgerFixture) balance(t *testing.T, id uuid.UUID) moneypkg.Money {
	t.Helper()

	account, err := f.accounts.Get(context.Background(), id)
	require.NoError(t, err)

	return account.Balance
}

func requireMoney(t *testing.T, want string, got moneypkg.Money) {
	t.Helper()
	require.Truef(t, moneypkg.MustParse(want).Equal(got), "want %s, got %s", want, got)
}

func TestDepositWithdrawTransferFlow(t *testing.T) {
	t.Parallel()

	f := newLedgerFixture()
	ctx := context.Background()

	u1, u2 := randompkg.OwnerID(), randompkg.OwnerID()
	a := f.seed(t, u1, "500000")
	b := f.seed(t, u2, "")

	deposit, err := f.service.Deposit(ctx, u2, a.ID, moneypkg.MustParse("100000"))
	require.NoError(t, err)
	require.Equal(t, domain.TransactionDeposit, deposit.Type)
	require.False(t, deposit.FromAccountID.Valid)
	require.Equal(t, a.ID, deposit.ToAccountID.UUID)
	requireMoney(t, "600000", f.balance(t, a.ID))

	_, err = f.service.Withdraw(ctx, u2, a.ID, moneypkg.MustParse("20000"))
	require.ErrorIs(t, err, domain.ErrAccountOwnerMismatch)
	requireMoney(t, "600000", f.balance(t, a.ID))

	transfer, err := f.service.Transfer(ctx, u1, a.ID, b.ID, moneypkg.MustParse("10000"))
	require.NoError(t, err)
	require.Equal(t, domain.TransactionTransfer, transfer.Type)
	require.Equal(t, a.ID, transfer.FromAccountID.UUID)
	require.Equal(t, b.ID, transfer.ToAccountID.UUID)
	requireMoney(t, "590000", f.balance(t, a.ID))
	requireMoney(t, "10000", f.balance(t, b.ID))

	require.Equal(t, 2, f.ledger.Len())

	history, err := f.service.ListAccountTransactions(ctx, u2, b.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, transfer, history[0])

	got, err := f.service.GetTransaction(ctx, u2, transfer.ID)
	require.NoError(t, err)
	require.Equal(t, transfer, got)

	_, err = f.service.GetTransaction(ctx, u2, deposit.ID)
	require.ErrorIs(t, err, domain.ErrTransactionForbidden)
}

func TestFailedOperationLeavesNoTrace(t *testing.T) {
	t.Parallel()

	f := newLedgerFixture()
	ctx := context.Background()

	owner := randompkg.OwnerID()
	a := f.seed(t, owner, "15000")
	b := f.seed(t, randompkg.OwnerID(), "")

	_, err := f.service.Transfer(ctx, owner, a.ID, b.ID, moneypkg.MustParse("20000"))
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)

	_, err = f.service.Withdraw(ctx, owner, a.ID, moneypkg.MustParse("20000"))
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)

	_, err = f.service.Transfer(ctx, owner, a.ID, uuid.New(), moneypkg.MustParse("10000"))
	require.ErrorIs(t, err, domain.ErrAccountNotFound)

	requireMoney(t, "15000", f.balance(t, a.ID))
	requireMoney(t, "0", f.balance(t, b.ID))
	require.Zero(t, f.ledger.Len())
}

func TestConcurrentTransfersConserveMoney(t *testing.T) {
	t.Parallel()

	f := newLedgerFixture()
	ctx := context.Background()

	const (
		accounts  = 5
		transfers = 200
	)

	owners := make([]uuid.UUID, accounts)
	ids := make([]uuid.UUID, accounts)

	for i := range ids {
		owners[i] = randompkg.OwnerID()
		ids[i] = f.seed(t, owners[i], "100000").ID
	}

	var wg sync.WaitGroup

	for n := 0; n < transfers; n++ {
		from := n % accounts
		to := (n*3 + 1) % accounts

		if from == to {
			to = (to + 1) % accounts
		}

		wg.Add(1)

		go func(from, to int) {
			defer wg.Done()

			_, err := f.service.Transfer(ctx, owners[from], ids[from], ids[to], moneypkg.MustParse("10000"))
			if err != nil {
				assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
			}
		}(from, to)
	}

	wg.Wait()

	total := moneypkg.Money{}

	for _, id := range ids {
		b := f.balance(t, id)
		require.False(t, b.IsNegative())
		total = total.Add(b)
	}

	requireMoney(t, "500000", total)
}

func TestConcurrentWithdrawalsNeverOverdraw(t *testing.T) {
	t.Parallel()

	f := newLedgerFixture()
	ctx := context.Background()

	const n = 10

	owner := randompkg.OwnerID()
	account := f.seed(t, owner, moneypkg.NewFromInt(20000*(n-1)).String())

	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		insufficient int
	)

	for i := 0; i < n; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := f.service.Withdraw(ctx, owner, account.ID, moneypkg.MustParse("20000"))
			if errors.Is(err, domain.ErrInsufficientBalance) {
				mu.Lock()
				insufficient++
				mu.Unlock()

				return
			}

			assert.NoError(t, err)
		}()
	}

	wg.Wait()

	require.Equal(t, 1, insufficient)
	requireMoney(t, "0", f.balance(t, account.ID))
	require.Equal(t, n-1, f.ledger.Len())
}

func TestOppositeTransfersDoNotDeadlock(t *testing.T) {
	t.Parallel()

	f := newLedgerFixture()
	ctx := context.Background()

	u1, u2 := randompkg.OwnerID(), randompkg.OwnerID()
	a := f.seed(t, u1, "1000000")
	b := f.seed(t, u2, "1000000")

	const rounds = 50

	done := make(chan struct{})

	go func() {
		defer close(done)

		var wg sync.WaitGroup

		for i := 0; i < rounds; i++ {
			wg.Add(2)

			go func() {
				defer wg.Done()

				_, err := f.service.Transfer(ctx, u1, a.ID, b.ID, moneypkg.MustParse("10000"))
				assert.NoError(t, err)
			}()

			go func() {
				defer wg.Done()

				_, err := f.service.Transfer(ctx, u2, b.ID, a.ID, moneypkg.MustParse("10000"))
				assert.NoError(t, err)
			}()
		}

		wg.Wait()
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("opposite transfers did not finish")
	}

	requireMoney(t, "1000000", f.balance(t, a.ID))
	requireMoney(t, "1000000", f.balance(t, b.ID))
	require.Equal(t, 2*rounds, f.ledger.Len())
}

func TestHistoryNewestFirst(t *testing.T) {
	t.Parallel()

	f := newLedgerFixture()
	ctx := context.Background()

	owner := randompkg.OwnerID()
	a := f.seed(t, owner, "")
	other := f.seed(t, randompkg.OwnerID(), "")

	var want []domain.Transaction

	for i := 0; i < 5; i++ {
		record, err := f.service.Deposit(ctx, owner, a.ID, moneypkg.MustParse("100000"))
		require.NoError(t, err)

		want = append([]domain.Transaction{record}, want...)

		_, err = f.service.Deposit(ctx, owner, other.ID, moneypkg.MustParse("100000"))
		require.NoError(t, err)
	}

	got, err := f.service.ListAccountTransactions(ctx, owner, a.ID, 0, 0)
	require.NoError(t, err)
	require.Equal(t, want, got)

	for i := 1; i < len(got); i++ {
		require.True(t, got[i-1].CreatedAt.After(got[i].CreatedAt))
	}

	page, err := f.service.ListAccountTransactions(ctx, owner, a.ID, 2, 1)
	require.NoError(t, err)
	require.Equal(t, want[1:3], page)
}
