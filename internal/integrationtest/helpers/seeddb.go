package helpers

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/go-petr/pet-ledger/internal/accountrepo"
	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/transactionrepo"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"
	"github.com/go-petr/pet-ledger/pkg/moneypkg"
	"github.com/go-petr/pet-ledger/pkg/randompkg"
)

// SeedAccount creates an account with zero balance inside a test transaction.
func SeedAccount(t *testing.T, tx dbpkg.SQLInterface, ownerID uuid.UUID) domain.Account {
	t.Helper()

	arg := domain.CreateAccountParams{
		OwnerID:       ownerID,
		AccountNumber: randompkg.AccountNumber(),
	}

	accountRepo := accountrepo.NewRepoPGS(tx)

	account, err := accountRepo.Create(context.Background(), arg)
	if err != nil {
		t.Fatalf("accountRepo.Create(context.Background(), %+v) returned error: %v", arg, err)
	}

	return account
}

// SeedAccountWithBalance creates an account and funds it with a deposit record.
func SeedAccountWithBalance(t *testing.T, tx dbpkg.SQLInterface, ownerID uuid.UUID, balance moneypkg.Money) domain.Account {
	t.Helper()

	account := SeedAccount(t, tx, ownerID)

	accountRepo := accountrepo.NewRepoPGS(tx)

	funded, err := accountRepo.AddBalance(context.Background(), account.ID, balance)
	if err != nil {
		t.Fatalf("accountRepo.AddBalance(context.Background(), %v, %v) returned error: %v",
			account.ID, balance, err)
	}

	SeedTransaction(t, tx, domain.AppendTransactionParams{
		Type:        domain.TransactionDeposit,
		Amount:      balance,
		ToAccountID: domain.NullableID(account.ID),
	})

	return funded
}

// SeedTransaction appends a ledger record inside a test transaction.
func SeedTransaction(t *testing.T, tx dbpkg.SQLInterface, arg domain.AppendTransactionParams) domain.Transaction {
	t.Helper()

	transactionRepo := transactionrepo.NewRepoPGS(tx)

	record, err := transactionRepo.Append(context.Background(), arg)
	if err != nil {
		t.Fatalf("transactionRepo.Append(context.Background(), %+v) returned error: %v", arg, err)
	}

	return record
}
