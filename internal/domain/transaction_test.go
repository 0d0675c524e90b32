package domain

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/go-petr/pet-ledger/pkg/errorspkg"
)

func TestNormalizePagination(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		limit      int32
		offset     int32
		wantLimit  int32
		wantOffset int32
		wantErr    error
	}{
		{name: "Defaults", wantLimit: DefaultTransactionsLimit},
		{name: "Keep", limit: 10, offset: 5, wantLimit: 10, wantOffset: 5},
		{name: "Clamp", limit: 1000, wantLimit: MaxTransactionsLimit},
		{name: "NegativeLimit", limit: -1, wantErr: ErrInvalidPagination},
		{name: "NegativeOffset", offset: -1, wantErr: ErrInvalidPagination},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			limit, offset, err := NormalizePagination(tc.limit, tc.offset)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) || !errors.Is(err, errorspkg.ErrValidation) {
					t.Errorf("NormalizePagination(%d, %d) err = %v, want %v", tc.limit, tc.offset, err, tc.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("NormalizePagination(%d, %d) returned error: %v", tc.limit, tc.offset, err)
			}

			if limit != tc.wantLimit || offset != tc.wantOffset {
				t.Errorf("NormalizePagination(%d, %d) = (%d, %d), want (%d, %d)",
					tc.limit, tc.offset, limit, offset, tc.wantLimit, tc.wantOffset)
			}
		})
	}
}

func TestTransactionInvolves(t *testing.T) {
	t.Parallel()

	from, to, other := uuid.New(), uuid.New(), uuid.New()

	transfer := Transaction{Type: TransactionTransfer, FromAccountID: NullableID(from), ToAccountID: NullableID(to)}
	deposit := Transaction{Type: TransactionDeposit, ToAccountID: NullableID(to)}

	if !transfer.Involves(from) || !transfer.Involves(to) {
		t.Error("transfer.Involves(from|to) = false, want true")
	}

	if transfer.Involves(other) {
		t.Error("transfer.Involves(other) = true, want false")
	}

	if deposit.Involves(uuid.Nil) {
		t.Error("deposit.Involves(uuid.Nil) = true, want false")
	}
}

func TestErrorKinds(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		err  error
		kind error
	}{
		{err: ErrAccountNotFound, kind: errorspkg.ErrNotFound},
		{err: ErrTransactionNotFound, kind: errorspkg.ErrNotFound},
		{err: ErrAccountOwnerMismatch, kind: errorspkg.ErrForbidden},
		{err: ErrInsufficientBalance, kind: errorspkg.ErrInsufficientFunds},
		{err: ErrSameAccount, kind: errorspkg.ErrValidation},
		{err: ErrDepositBelowMinimum, kind: errorspkg.ErrValidation},
		{err: ErrStorageFailure, kind: errorspkg.ErrStorage},
	}

	for _, tc := range testCases {
		if got := errorspkg.Kind(tc.err); got != tc.kind {
			t.Errorf("errorspkg.Kind(%v) = %v, want %v", tc.err, got, tc.kind)
		}
	}
}
