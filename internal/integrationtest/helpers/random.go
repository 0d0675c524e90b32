// Package helpers provides shared test fixtures.
package helpers

import (
	"time"

	"github.com/google/uuid"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/moneypkg"
	"github.com/go-petr/pet-ledger/pkg/randompkg"
)

// RandomAccount returns random account owned by the given owner.
func RandomAccount(ownerID uuid.UUID) domain.Account {
	now := time.Now().Truncate(time.Second).UTC()

	return domain.Account{
		ID:            uuid.New(),
		OwnerID:       ownerID,
		AccountNumber: randompkg.AccountNumber(),
		Balance:       randompkg.MoneyAmountBetween(1_000_000, 10_000_000),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// RandomDeposit returns random deposit into the given account.
func RandomDeposit(toAccountID uuid.UUID) domain.Transaction {
	return domain.Transaction{
		ID:          uuid.New(),
		Type:        domain.TransactionDeposit,
		Amount:      randompkg.MoneyAmountBetween(100_000, 1_000_000),
		ToAccountID: domain.NullableID(toAccountID),
		CreatedAt:   time.Now().Truncate(time.Second).UTC(),
	}
}

// RandomWithdraw returns random withdrawal from the given account.
func RandomWithdraw(fromAccountID uuid.UUID) domain.Transaction {
	return domain.Transaction{
		ID:            uuid.New(),
		Type:          domain.TransactionWithdraw,
		Amount:        randompkg.MoneyAmountBetween(20_000, 100_000),
		FromAccountID: domain.NullableID(fromAccountID),
		CreatedAt:     time.Now().Truncate(time.Second).UTC(),
	}
}

// RandomTransfer returns random transfer between the given accounts.
func RandomTransfer(fromAccountID, toAccountID uuid.UUID) domain.Transaction {
	return domain.Transaction{
		ID:            uuid.New(),
		Type:          domain.TransactionTransfer,
		Amount:        randompkg.MoneyAmountBetween(10_000, 100_000),
		FromAccountID: domain.NullableID(fromAccountID),
		ToAccountID:   domain.NullableID(toAccountID),
		CreatedAt:     time.Now().Truncate(time.Second).UTC(),
	}
}

// Amount parses s and panics on failure.
func Amount(s string) moneypkg.Money {
	return moneypkg.MustParse(s)
}
