package dbpkg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

type txKey struct{}

// WithTx returns a copy of ctx carrying tx.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// Conn returns the transaction stored in ctx, or db when ctx carries none.
//
// Repositories call it per query so that they join a unit of work started by TxManager.
func Conn(ctx context.Context, db SQLInterface) SQLInterface {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok && tx != nil {
		return tx
	}

	return db
}

// TxManager runs functions inside a database transaction.
type TxManager struct {
	db *sql.DB
}

// NewTxManager returns TxManager for db.
func NewTxManager(db *sql.DB) *TxManager {
	return &TxManager{db: db}
}

// WithinTx executes fn within a database transaction.
//
// The transaction is committed when fn returns nil and rolled back otherwise.
// Nested calls join the outer transaction.
func (m *TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	l := zerolog.Ctx(ctx)

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Msg("cannot begin transaction")
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			l.Error().Err(err).Msg("cannot rollback transaction")
		}
	}()

	if err := fn(WithTx(ctx, tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Msg("cannot commit transaction")
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
