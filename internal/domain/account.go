// Package domain provides defenitions of all entities.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/go-petr/pet-ledger/pkg/errorspkg"
	"github.com/go-petr/pet-ledger/pkg/moneypkg"
)

var (
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = errorspkg.New(errorspkg.ErrNotFound, "account not found")
	// ErrAccountOwnerMismatch indicates that the account does not belong to the requester.
	ErrAccountOwnerMismatch = errorspkg.New(errorspkg.ErrForbidden, "you do not have permission to access this account")
	// ErrInvalidAccountID indicates that the account id is empty or malformed.
	ErrInvalidAccountID = errorspkg.New(errorspkg.ErrValidation, "invalid account id")
	// ErrInvalidOwnerID indicates that the owner id is empty.
	ErrInvalidOwnerID = errorspkg.New(errorspkg.ErrValidation, "invalid owner id")
	// ErrAccountNumberTaken indicates that the account number is already used by another account.
	ErrAccountNumberTaken = errorspkg.New(errorspkg.ErrValidation, "account number already exists")
	// ErrAccountNumberExhausted indicates that no free account number was found.
	ErrAccountNumberExhausted = errorspkg.New(errorspkg.ErrInternal, "cannot generate unique account number")
	// ErrInsufficientBalance indicates that the account does not have sufficient balance.
	ErrInsufficientBalance = errorspkg.New(errorspkg.ErrInsufficientFunds, "insufficient balance")
	// ErrStorageFailure indicates that the backing store failed to serve the request.
	ErrStorageFailure = errorspkg.New(errorspkg.ErrStorage, "storage failure")
)

// Account holds user balance data.
type Account struct {
	ID            uuid.UUID      `json:"id"`
	OwnerID       uuid.UUID      `json:"userId"`
	AccountNumber string         `json:"accountNumber"`
	Balance       moneypkg.Money `json:"balance"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// CreateAccountParams is the input data to create an account.
type CreateAccountParams struct {
	OwnerID       uuid.UUID
	AccountNumber string
}
