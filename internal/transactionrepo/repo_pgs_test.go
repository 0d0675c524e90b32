//go:build integration

package transactionrepo_test

import (
	"context"
	"errors"
	"log"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/integrationtest"
	"github.com/go-petr/pet-ledger/internal/integrationtest/helpers"
	"github.com/go-petr/pet-ledger/internal/middleware"
	"github.com/go-petr/pet-ledger/internal/transactionrepo"
	"github.com/go-petr/pet-ledger/pkg/configpkg"
	"github.com/go-petr/pet-ledger/pkg/moneypkg"
	"github.com/go-petr/pet-ledger/pkg/randompkg"
)

var (
	dbDriver string
	dbSource string
	ctx      context.Context
)

func TestMain(m *testing.M) {
	config, err := configpkg.Load("../../configs")
	if err != nil {
		log.Fatal("cannot load config:", err)
	}

	dbDriver = config.DBDriver
	dbSource = config.DBSource

	logger := middleware.CreateLogger(config)
	ctx = logger.WithContext(context.Background())

	os.Exit(m.Run())
}

func TestAppend(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		arg     func(from, to domain.Account) domain.AppendTransactionParams
		wantErr error
	}{
		{
			name: "Deposit",
			arg: func(from, to domain.Account) domain.AppendTransactionParams {
				return domain.AppendTransactionParams{
					Type:        domain.TransactionDeposit,
					Amount:      moneypkg.MustParse("100000"),
					ToAccountID: domain.NullableID(to.ID),
				}
			},
		},
		{
			name: "Withdraw",
			arg: func(from, to domain.Account) domain.AppendTransactionParams {
				return domain.AppendTransactionParams{
					Type:          domain.TransactionWithdraw,
					Amount:        moneypkg.MustParse("20000.50"),
					FromAccountID: domain.NullableID(from.ID),
				}
			},
		},
		{
			name: "Transfer",
			arg: func(from, to domain.Account) domain.AppendTransactionParams {
				return domain.AppendTransactionParams{
					Type:          domain.TransactionTransfer,
					Amount:        moneypkg.MustParse("10000"),
					FromAccountID: domain.NullableID(from.ID),
					ToAccountID:   domain.NullableID(to.ID),
				}
			},
		},
		{
			name: "ErrAccountNotFound",
			arg: func(from, to domain.Account) domain.AppendTransactionParams {
				return domain.AppendTransactionParams{
					Type:          domain.TransactionTransfer,
					Amount:        moneypkg.MustParse("10000"),
					FromAccountID: domain.NullableID(from.ID),
					ToAccountID:   domain.NullableID(uuid.New()),
				}
			},
			wantErr: domain.ErrAccountNotFound,
		},
		{
			name: "ErrStorageFailure",
			arg: func(from, to domain.Account) domain.AppendTransactionParams {
				// Violates transactions_shape_check.
				return domain.AppendTransactionParams{
					Type:   domain.TransactionDeposit,
					Amount: moneypkg.MustParse("100000"),
				}
			},
			wantErr: domain.ErrStorageFailure,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tx := integrationtest.SetupTX(t, dbDriver, dbSource)
			transactionRepo := transactionrepo.NewRepoPGS(tx)
			from := helpers.SeedAccount(t, tx, randompkg.OwnerID())
			to := helpers.SeedAccount(t, tx, randompkg.OwnerID())

			arg := tc.arg(from, to)

			got, err := transactionRepo.Append(ctx, arg)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("transactionRepo.Append(ctx, %+v) err = %v, want %v", arg, err, tc.wantErr)
			}

			if tc.wantErr != nil {
				return
			}

			want := domain.Transaction{
				Type:          arg.Type,
				Amount:        arg.Amount,
				FromAccountID: arg.FromAccountID,
				ToAccountID:   arg.ToAccountID,
				CreatedAt:     time.Now(),
			}

			ignoreID := cmpopts.IgnoreFields(domain.Transaction{}, "ID")
			compareTime := cmpopts.EquateApproxTime(time.Minute)

			if diff := cmp.Diff(want, got, ignoreID, compareTime); diff != "" {
				t.Errorf("transactionRepo.Append(ctx, %+v) returned unexpected diff (-want +got):\n%s", arg, diff)
			}

			stored, err := transactionRepo.Get(ctx, got.ID)
			if err != nil {
				t.Fatalf("transactionRepo.Get(ctx, %v) returned error: %v", got.ID, err)
			}

			if diff := cmp.Diff(got, stored); diff != "" {
				t.Errorf("transactionRepo.Get(ctx, %v) returned unexpected diff (-want +got):\n%s", got.ID, diff)
			}
		})
	}
}

func TestGetNotFound(t *testing.T) {
	t.Parallel()

	tx := integrationtest.SetupTX(t, dbDriver, dbSource)
	transactionRepo := transactionrepo.NewRepoPGS(tx)

	if _, err := transactionRepo.Get(ctx, uuid.New()); !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Errorf("transactionRepo.Get(ctx, random) err = %v, want %v", err, domain.ErrTransactionNotFound)
	}
}

func TestListByAccount(t *testing.T) {
	t.Parallel()

	tx := integrationtest.SetupTX(t, dbDriver, dbSource)
	transactionRepo := transactionrepo.NewRepoPGS(tx)

	account := helpers.SeedAccount(t, tx, randompkg.OwnerID())
	other := helpers.SeedAccount(t, tx, randompkg.OwnerID())

	deposit := helpers.SeedTransaction(t, tx, domain.AppendTransactionParams{
		Type:        domain.TransactionDeposit,
		Amount:      moneypkg.MustParse("500000"),
		ToAccountID: domain.NullableID(account.ID),
	})
	outgoing := helpers.SeedTransaction(t, tx, domain.AppendTransactionParams{
		Type:          domain.TransactionTransfer,
		Amount:        moneypkg.MustParse("10000"),
		FromAccountID: domain.NullableID(account.ID),
		ToAccountID:   domain.NullableID(other.ID),
	})
	helpers.SeedTransaction(t, tx, domain.AppendTransactionParams{
		Type:        domain.TransactionDeposit,
		Amount:      moneypkg.MustParse("100000"),
		ToAccountID: domain.NullableID(other.ID),
	})
	withdraw := helpers.SeedTransaction(t, tx, domain.AppendTransactionParams{
		Type:          domain.TransactionWithdraw,
		Amount:        moneypkg.MustParse("20000"),
		FromAccountID: domain.NullableID(account.ID),
	})

	testCases := []struct {
		name   string
		limit  int32
		offset int32
		want   []domain.Transaction
	}{
		{name: "All", limit: 20, want: []domain.Transaction{withdraw, outgoing, deposit}},
		{name: "Limit", limit: 2, want: []domain.Transaction{withdraw, outgoing}},
		{name: "Offset", limit: 20, offset: 2, want: []domain.Transaction{deposit}},
		{name: "PastEnd", limit: 20, offset: 3, want: []domain.Transaction{}},
	}

	for _, tc := range testCases {
		arg := domain.ListTransactionsParams{AccountID: account.ID, Limit: tc.limit, Offset: tc.offset}

		got, err := transactionRepo.ListByAccount(ctx, arg)
		if err != nil {
			t.Fatalf("%s: transactionRepo.ListByAccount(ctx, %+v) returned error: %v", tc.name, arg, err)
		}

		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("%s: transactionRepo.ListByAccount(ctx, %+v) returned unexpected diff (-want +got):\n%s",
				tc.name, arg, diff)
		}
	}
}
