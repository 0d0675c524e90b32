package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/go-petr/pet-ledger/pkg/errorspkg"
	"github.com/go-petr/pet-ledger/pkg/moneypkg"
)

// TransactionType is the kind of balance mutation recorded by the ledger.
type TransactionType string

// Transaction types.
const (
	TransactionDeposit  TransactionType = "DEPOSIT"
	TransactionWithdraw TransactionType = "WITHDRAW"
	TransactionTransfer TransactionType = "TRANSFER"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionDeposit, TransactionWithdraw, TransactionTransfer:
		return true
	}

	return false
}

// Minimum amounts per transaction type.
var (
	MinDepositAmount  = moneypkg.NewFromInt(100_000)
	MinWithdrawAmount = moneypkg.NewFromInt(20_000)
	MinTransferAmount = moneypkg.NewFromInt(10_000)
)

// Pagination of account history.
const (
	DefaultTransactionsLimit = 20
	MaxTransactionsLimit     = 100
)

var (
	// ErrTransactionNotFound indicates that the transaction is not found.
	ErrTransactionNotFound = errorspkg.New(errorspkg.ErrNotFound, "transaction not found")
	// ErrInvalidTransactionID indicates that the transaction id is empty or malformed.
	ErrInvalidTransactionID = errorspkg.New(errorspkg.ErrValidation, "invalid transaction id")
	// ErrTransactionForbidden indicates that the transaction does not involve any account of the requester.
	ErrTransactionForbidden = errorspkg.New(errorspkg.ErrForbidden, "you do not have permission to access this transaction")
	// ErrNonPositiveAmount indicates zero or negative amount.
	ErrNonPositiveAmount = errorspkg.New(errorspkg.ErrValidation, "amount must be a positive number")
	// ErrDepositBelowMinimum indicates deposit amount under MinDepositAmount.
	ErrDepositBelowMinimum = errorspkg.New(errorspkg.ErrValidation, "minimum deposit amount is "+MinDepositAmount.String())
	// ErrWithdrawBelowMinimum indicates withdraw amount under MinWithdrawAmount.
	ErrWithdrawBelowMinimum = errorspkg.New(errorspkg.ErrValidation, "minimum withdraw amount is "+MinWithdrawAmount.String())
	// ErrTransferBelowMinimum indicates transfer amount under MinTransferAmount.
	ErrTransferBelowMinimum = errorspkg.New(errorspkg.ErrValidation, "minimum transfer amount is "+MinTransferAmount.String())
	// ErrSameAccount indicates a transfer from an account to itself.
	ErrSameAccount = errorspkg.New(errorspkg.ErrValidation, "cannot transfer to the same account")
	// ErrInvalidPagination indicates negative limit or offset.
	ErrInvalidPagination = errorspkg.New(errorspkg.ErrValidation, "limit and offset must not be negative")
)

// Transaction is an immutable ledger record of an applied balance mutation.
//
// FromAccountID is set for WITHDRAW and TRANSFER, ToAccountID for DEPOSIT and TRANSFER.
type Transaction struct {
	ID            uuid.UUID       `json:"id"`
	Type          TransactionType `json:"type"`
	Amount        moneypkg.Money  `json:"amount"`
	FromAccountID uuid.NullUUID   `json:"fromAccountId"`
	ToAccountID   uuid.NullUUID   `json:"toAccountId"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// Involves reports whether the account is the source or destination of the transaction.
func (t Transaction) Involves(accountID uuid.UUID) bool {
	return (t.FromAccountID.Valid && t.FromAccountID.UUID == accountID) ||
		(t.ToAccountID.Valid && t.ToAccountID.UUID == accountID)
}

// AppendTransactionParams is the input data to record a transaction.
type AppendTransactionParams struct {
	Type          TransactionType
	Amount        moneypkg.Money
	FromAccountID uuid.NullUUID
	ToAccountID   uuid.NullUUID
}

// ListTransactionsParams is the input data to list the history of an account.
type ListTransactionsParams struct {
	AccountID uuid.UUID
	Limit     int32
	Offset    int32
}

// NormalizePagination validates limit and offset and applies the default and maximum limit.
func NormalizePagination(limit, offset int32) (int32, int32, error) {
	if limit < 0 || offset < 0 {
		return 0, 0, ErrInvalidPagination
	}

	switch {
	case limit == 0:
		limit = DefaultTransactionsLimit
	case limit > MaxTransactionsLimit:
		limit = MaxTransactionsLimit
	}

	return limit, offset, nil
}

// NullableID wraps id as a present uuid.NullUUID.
func NullableID(id uuid.UUID) uuid.NullUUID {
	return uuid.NullUUID{UUID: id, Valid: true}
}
