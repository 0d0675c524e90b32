package dbpkg

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestConstraintName(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "PQ",
			err:  &pq.Error{Constraint: "accounts_balance_check"},
			want: "accounts_balance_check",
		},
		{
			name: "PGX",
			err:  fmt.Errorf("exec: %w", &pgconn.PgError{ConstraintName: "accounts_account_number_key"}),
			want: "accounts_account_number_key",
		},
		{
			name: "Other",
			err:  errors.New("connection refused"),
			want: "",
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := ConstraintName(tc.err); got != tc.want {
				t.Errorf("ConstraintName(%v) = %q, want %q", tc.err, got, tc.want)
			}
		})
	}
}

func TestIsNoRows(t *testing.T) {
	t.Parallel()

	if !IsNoRows(fmt.Errorf("get: %w", sql.ErrNoRows)) {
		t.Error("IsNoRows(wrapped sql.ErrNoRows) = false, want true")
	}

	if IsNoRows(errors.New("other")) {
		t.Error("IsNoRows(other) = true, want false")
	}
}
