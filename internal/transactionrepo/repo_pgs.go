// Package transactionrepo manages repository layer of the transaction ledger.
package transactionrepo

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"
)

// Foreign keys declared by the transactions table.
const (
	constraintFromAccountFkey = "transactions_from_account_id_fkey"
	constraintToAccountFkey   = "transactions_to_account_id_fkey"
)

// RepoPGS facilitates transaction repository layer logic.
//
// Records are append only, RepoPGS never updates or deletes them.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns transaction RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row scanner) (domain.Transaction, error) {
	var t domain.Transaction

	err := row.Scan(
		&t.ID,
		&t.Type,
		&t.Amount,
		&t.FromAccountID,
		&t.ToAccountID,
		&t.CreatedAt,
	)

	return t, err
}

const appendQuery = `
INSERT INTO
    transactions (type, amount, from_account_id, to_account_id)
VALUES
    ($1, $2, $3, $4)
RETURNING id, type, amount, from_account_id, to_account_id, created_at
`

// Append records the transaction and then returns it.
func (r *RepoPGS) Append(ctx context.Context, arg domain.AppendTransactionParams) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	row := dbpkg.Conn(ctx, r.db).QueryRowContext(ctx, appendQuery,
		string(arg.Type), arg.Amount, arg.FromAccountID, arg.ToAccountID)

	t, err := scanTransaction(row)
	if err != nil {
		switch dbpkg.ConstraintName(err) {
		case constraintFromAccountFkey, constraintToAccountFkey:
			l.Info().Err(err).Send()
			return domain.Transaction{}, domain.ErrAccountNotFound
		}

		l.Error().Err(err).Send()

		return domain.Transaction{}, domain.ErrStorageFailure
	}

	return t, nil
}

const getQuery = `
SELECT
    id, type, amount, from_account_id, to_account_id, created_at
FROM transactions
WHERE id = $1
`

// Get returns the transaction with the given id.
func (r *RepoPGS) Get(ctx context.Context, id uuid.UUID) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	row := dbpkg.Conn(ctx, r.db).QueryRowContext(ctx, getQuery, id)

	t, err := scanTransaction(row)
	if err != nil {
		if dbpkg.IsNoRows(err) {
			return domain.Transaction{}, domain.ErrTransactionNotFound
		}

		l.Error().Err(err).Send()

		return domain.Transaction{}, domain.ErrStorageFailure
	}

	return t, nil
}

const listByAccountQuery = `
SELECT
    id, type, amount, from_account_id, to_account_id, created_at
FROM transactions
WHERE from_account_id = $1 OR to_account_id = $1
ORDER BY created_at DESC, seq DESC
LIMIT $2 OFFSET $3
`

// ListByAccount returns the history of the account, newest first.
func (r *RepoPGS) ListByAccount(ctx context.Context, arg domain.ListTransactionsParams) ([]domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	rows, err := dbpkg.Conn(ctx, r.db).QueryContext(ctx, listByAccountQuery, arg.AccountID, arg.Limit, arg.Offset)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, domain.ErrStorageFailure
	}
	defer rows.Close()

	items := []domain.Transaction{}

	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, domain.ErrStorageFailure
		}

		items = append(items, t)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, domain.ErrStorageFailure
	}

	return items, nil
}
