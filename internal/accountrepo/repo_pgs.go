// Package accountrepo manages repository layer of accounts.
package accountrepo

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"
	"github.com/go-petr/pet-ledger/pkg/moneypkg"
)

// Constraint names declared by the accounts table.
const (
	constraintAccountNumberKey = "accounts_account_number_key"
	constraintBalanceCheck     = "accounts_balance_check"
)

// RepoPGS facilitates account repository layer logic.
//
// Every query runs on the transaction carried by ctx, if any.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns account RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(row scanner) (domain.Account, error) {
	var a domain.Account

	err := row.Scan(
		&a.ID,
		&a.OwnerID,
		&a.AccountNumber,
		&a.Balance,
		&a.CreatedAt,
		&a.UpdatedAt,
	)

	return a, err
}

const createQuery = `
INSERT INTO
    accounts (owner_id, account_number)
VALUES
    ($1, $2)
RETURNING id, owner_id, account_number, balance, created_at, updated_at
`

// Create creates the account with zero balance and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateAccountParams) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := dbpkg.Conn(ctx, r.db).QueryRowContext(ctx, createQuery, arg.OwnerID, arg.AccountNumber)

	a, err := scanAccount(row)
	if err != nil {
		if dbpkg.ConstraintName(err) == constraintAccountNumberKey {
			l.Info().Err(err).Str("account_number", arg.AccountNumber).Msg("account number collision")
			return domain.Account{}, domain.ErrAccountNumberTaken
		}

		l.Error().Err(err).Send()

		return domain.Account{}, domain.ErrStorageFailure
	}

	return a, nil
}

const getQuery = `
SELECT
    id, owner_id, account_number, balance, created_at, updated_at
FROM accounts
WHERE id = $1
`

// Get returns the account with the given id.
func (r *RepoPGS) Get(ctx context.Context, id uuid.UUID) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := dbpkg.Conn(ctx, r.db).QueryRowContext(ctx, getQuery, id)

	a, err := scanAccount(row)
	if err != nil {
		if dbpkg.IsNoRows(err) {
			return domain.Account{}, domain.ErrAccountNotFound
		}

		l.Error().Err(err).Send()

		return domain.Account{}, domain.ErrStorageFailure
	}

	return a, nil
}

const addBalanceQuery = `
UPDATE accounts
SET balance = balance + $1, updated_at = now()
WHERE id = $2 AND balance + $1 >= 0
RETURNING id, owner_id, account_number, balance, created_at, updated_at
`

const existsQuery = `
SELECT EXISTS (SELECT 1 FROM accounts WHERE id = $1)
`

// AddBalance atomically adds delta to the account's balance and returns the changed account.
//
// The row is left untouched when the resulting balance would be negative.
func (r *RepoPGS) AddBalance(ctx context.Context, id uuid.UUID, delta moneypkg.Money) (domain.Account, error) {
	l := zerolog.Ctx(ctx)
	conn := dbpkg.Conn(ctx, r.db)

	row := conn.QueryRowContext(ctx, addBalanceQuery, delta, id)

	a, err := scanAccount(row)
	if err == nil {
		return a, nil
	}

	if dbpkg.ConstraintName(err) == constraintBalanceCheck {
		return domain.Account{}, domain.ErrInsufficientBalance
	}

	if !dbpkg.IsNoRows(err) {
		l.Error().Err(err).Send()
		return domain.Account{}, domain.ErrStorageFailure
	}

	var exists bool
	if err := conn.QueryRowContext(ctx, existsQuery, id).Scan(&exists); err != nil {
		l.Error().Err(err).Send()
		return domain.Account{}, domain.ErrStorageFailure
	}

	if !exists {
		return domain.Account{}, domain.ErrAccountNotFound
	}

	return domain.Account{}, domain.ErrInsufficientBalance
}

const listByOwnerQuery = `
SELECT
    id, owner_id, account_number, balance, created_at, updated_at
FROM accounts
WHERE owner_id = $1
ORDER BY created_at DESC, id
`

// ListByOwner returns all accounts of the given owner, newest first.
func (r *RepoPGS) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Account, error) {
	l := zerolog.Ctx(ctx)

	rows, err := dbpkg.Conn(ctx, r.db).QueryContext(ctx, listByOwnerQuery, ownerID)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, domain.ErrStorageFailure
	}
	defer rows.Close()

	items := []domain.Account{}

	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, domain.ErrStorageFailure
		}

		items = append(items, a)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, domain.ErrStorageFailure
	}

	return items, nil
}

const numberExistsQuery = `
SELECT EXISTS (SELECT 1 FROM accounts WHERE account_number = $1)
`

// NumberExists reports whether an account with the given number exists.
func (r *RepoPGS) NumberExists(ctx context.Context, number string) (bool, error) {
	l := zerolog.Ctx(ctx)

	var exists bool
	if err := dbpkg.Conn(ctx, r.db).QueryRowContext(ctx, numberExistsQuery, number).Scan(&exists); err != nil {
		l.Error().Err(err).Send()
		return false, domain.ErrStorageFailure
	}

	return exists, nil
}
