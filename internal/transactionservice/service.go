// Package transactionservice executes deposits, withdrawals and transfers.
//
// Every mutation follows the same path: validate, resolve and authorize the
// accounts, lock them in ascending id order, adjust the balances and append
// one ledger record inside a unit of work. A failed step undoes the balance
// adjustments already applied, so no debit outlives its missing credit.
package transactionservice

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/lockpkg"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
	"github.com/go-petr/pet-ledger/pkg/moneypkg"
)

// AccountStore provides account access needed by the engine.
//
//go:generate mockgen -source service.go -destination service_mock.go -package transactionservice
type AccountStore interface {
	Get(ctx context.Context, id uuid.UUID) (domain.Account, error)
	AddBalance(ctx context.Context, id uuid.UUID, delta moneypkg.Money) (domain.Account, error)
}

// Ledger provides the append-only transaction log.
type Ledger interface {
	Append(ctx context.Context, arg domain.AppendTransactionParams) (domain.Transaction, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Transaction, error)
	ListByAccount(ctx context.Context, arg domain.ListTransactionsParams) ([]domain.Transaction, error)
}

// TxManager runs a unit of work.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Publisher notifies other systems about executed transactions.
type Publisher interface {
	PublishTransaction(ctx context.Context, t domain.Transaction) error
}

// Service facilitates transaction service layer logic.
type Service struct {
	accounts AccountStore
	ledger   Ledger
	tx       TxManager
	locker   lockpkg.Manager
	events   Publisher
}

// New returns transaction service. events may be nil.
func New(accounts AccountStore, ledger Ledger, tx TxManager, locker lockpkg.Manager, events Publisher) *Service {
	return &Service{
		accounts: accounts,
		ledger:   ledger,
		tx:       tx,
		locker:   locker,
		events:   events,
	}
}

type adjustment struct {
	accountID uuid.UUID
	delta     moneypkg.Money
}

type operation struct {
	record      domain.AppendTransactionParams
	adjustments []adjustment
}

func (op operation) lockIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(op.adjustments))
	for _, adj := range op.adjustments {
		ids = append(ids, adj.accountID)
	}

	return ids
}

// Deposit credits amount to the account. Any user may deposit into any account.
func (s *Service) Deposit(ctx context.Context, requesterID, toAccountID uuid.UUID, amount moneypkg.Money) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	if err := validateAmount(amount, domain.MinDepositAmount, domain.ErrDepositBelowMinimum); err != nil {
		l.Info().Err(err).Str("amount", amount.String()).Msg("deposit rejected")
		return domain.Transaction{}, err
	}

	if toAccountID == uuid.Nil {
		return domain.Transaction{}, domain.ErrInvalidAccountID
	}

	if _, err := s.accounts.Get(ctx, toAccountID); err != nil {
		return domain.Transaction{}, s.classify(ctx, err)
	}

	return s.execute(ctx, operation{
		record: domain.AppendTransactionParams{
			Type:        domain.TransactionDeposit,
			Amount:      amount,
			ToAccountID: domain.NullableID(toAccountID),
		},
		adjustments: []adjustment{
			{accountID: toAccountID, delta: amount},
		},
	})
}

// Withdraw debits amount from the account owned by the requester.
func (s *Service) Withdraw(ctx context.Context, requesterID, fromAccountID uuid.UUID, amount moneypkg.Money) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	if err := validateAmount(amount, domain.MinWithdrawAmount, domain.ErrWithdrawBelowMinimum); err != nil {
		l.Info().Err(err).Str("amount", amount.String()).Msg("withdraw rejected")
		return domain.Transaction{}, err
	}

	if fromAccountID == uuid.Nil {
		return domain.Transaction{}, domain.ErrInvalidAccountID
	}

	if err := s.authorizeOwner(ctx, requesterID, fromAccountID); err != nil {
		return domain.Transaction{}, err
	}

	return s.execute(ctx, operation{
		record: domain.AppendTransactionParams{
			Type:          domain.TransactionWithdraw,
			Amount:        amount,
			FromAccountID: domain.NullableID(fromAccountID),
		},
		adjustments: []adjustment{
			{accountID: fromAccountID, delta: amount.Neg()},
		},
	})
}

// Transfer moves amount from the requester's account to another account.
func (s *Service) Transfer(
	ctx context.Context,
	requesterID, fromAccountID, toAccountID uuid.UUID,
	amount moneypkg.Money,
) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	if err := validateAmount(amount, domain.MinTransferAmount, domain.ErrTransferBelowMinimum); err != nil {
		l.Info().Err(err).Str("amount", amount.String()).Msg("transfer rejected")
		return domain.Transaction{}, err
	}

	if fromAccountID == uuid.Nil || toAccountID == uuid.Nil {
		return domain.Transaction{}, domain.ErrInvalidAccountID
	}

	if fromAccountID == toAccountID {
		l.Info().Str("account_id", fromAccountID.String()).Msg("transfer to the same account rejected")
		return domain.Transaction{}, domain.ErrSameAccount
	}

	if err := s.authorizeOwner(ctx, requesterID, fromAccountID); err != nil {
		return domain.Transaction{}, err
	}

	if _, err := s.accounts.Get(ctx, toAccountID); err != nil {
		return domain.Transaction{}, s.classify(ctx, err)
	}

	// Debit first: a failed debit leaves nothing to undo.
	return s.execute(ctx, operation{
		record: domain.AppendTransactionParams{
			Type:          domain.TransactionTransfer,
			Amount:        amount,
			FromAccountID: domain.NullableID(fromAccountID),
			ToAccountID:   domain.NullableID(toAccountID),
		},
		adjustments: []adjustment{
			{accountID: fromAccountID, delta: amount.Neg()},
			{accountID: toAccountID, delta: amount},
		},
	})
}

// GetTransaction returns the transaction if the requester owns its source or destination account.
func (s *Service) GetTransaction(ctx context.Context, requesterID, id uuid.UUID) (domain.Transaction, error) {
	if id == uuid.Nil {
		return domain.Transaction{}, domain.ErrInvalidTransactionID
	}

	record, err := s.ledger.Get(ctx, id)
	if err != nil {
		return domain.Transaction{}, s.classify(ctx, err)
	}

	for _, accountID := range []uuid.NullUUID{record.FromAccountID, record.ToAccountID} {
		if !accountID.Valid {
			continue
		}

		account, err := s.accounts.Get(ctx, accountID.UUID)
		if errors.Is(err, domain.ErrAccountNotFound) {
			continue
		}

		if err != nil {
			return domain.Transaction{}, s.classify(ctx, err)
		}

		if account.OwnerID == requesterID {
			return record, nil
		}
	}

	zerolog.Ctx(ctx).Info().
		Str("transaction_id", id.String()).
		Str("requester_id", requesterID.String()).
		Msg("transaction access rejected")

	return domain.Transaction{}, domain.ErrTransactionForbidden
}

// ListAccountTransactions returns the history of the requester's account, newest first.
//
// limit 0 selects the default page size, larger limits are clamped to the maximum.
func (s *Service) ListAccountTransactions(
	ctx context.Context,
	requesterID, accountID uuid.UUID,
	limit, offset int32,
) ([]domain.Transaction, error) {
	limit, offset, err := domain.NormalizePagination(limit, offset)
	if err != nil {
		return nil, err
	}

	if accountID == uuid.Nil {
		return nil, domain.ErrInvalidAccountID
	}

	if err := s.authorizeOwner(ctx, requesterID, accountID); err != nil {
		return nil, err
	}

	records, err := s.ledger.ListByAccount(ctx, domain.ListTransactionsParams{
		AccountID: accountID,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		return nil, s.classify(ctx, err)
	}

	return records, nil
}

func validateAmount(amount, min moneypkg.Money, errBelowMin error) error {
	if !amount.IsPositive() {
		return domain.ErrNonPositiveAmount
	}

	if amount.LessThan(min) {
		return errBelowMin
	}

	return nil
}

// authorizeOwner resolves the account and checks that it belongs to the requester.
func (s *Service) authorizeOwner(ctx context.Context, requesterID, accountID uuid.UUID) error {
	account, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return s.classify(ctx, err)
	}

	if account.OwnerID != requesterID {
		zerolog.Ctx(ctx).Info().
			Str("account_id", accountID.String()).
			Str("requester_id", requesterID.String()).
			Msg("account owner mismatch")

		return domain.ErrAccountOwnerMismatch
	}

	return nil
}

func (s *Service) execute(ctx context.Context, op operation) (domain.Transaction, error) {
	var record domain.Transaction

	err := s.locker.WithLock(ctx, op.lockIDs(), func(lctx context.Context) error {
		// Once the locks are held the unit of work runs to completion or compensation.
		uctx := context.WithoutCancel(lctx)

		return s.tx.WithinTx(uctx, func(txctx context.Context) error {
			var err error
			record, err = s.apply(txctx, op)

			return err
		})
	})
	if err != nil {
		return domain.Transaction{}, s.classify(ctx, err)
	}

	s.publish(ctx, record)

	return record, nil
}

func (s *Service) apply(ctx context.Context, op operation) (domain.Transaction, error) {
	applied := make([]adjustment, 0, len(op.adjustments))

	for _, adj := range op.adjustments {
		if _, err := s.accounts.AddBalance(ctx, adj.accountID, adj.delta); err != nil {
			s.compensate(ctx, applied)
			return domain.Transaction{}, err
		}

		applied = append(applied, adj)
	}

	record, err := s.ledger.Append(ctx, op.record)
	if err != nil {
		s.compensate(ctx, applied)
		return domain.Transaction{}, err
	}

	return record, nil
}

// compensate reverses applied adjustments, newest first.
func (s *Service) compensate(ctx context.Context, applied []adjustment) {
	l := zerolog.Ctx(ctx)

	for i := len(applied) - 1; i >= 0; i-- {
		adj := applied[i]

		l.Warn().
			Str("account_id", adj.accountID.String()).
			Str("delta", adj.delta.Neg().String()).
			Msg("compensating balance adjustment")

		if _, err := s.accounts.AddBalance(ctx, adj.accountID, adj.delta.Neg()); err != nil {
			l.Error().Err(err).
				Str("account_id", adj.accountID.String()).
				Str("delta", adj.delta.Neg().String()).
				Msg("compensation failed")
		}
	}
}

func (s *Service) publish(ctx context.Context, record domain.Transaction) {
	if s.events == nil {
		return
	}

	if err := s.events.PublishTransaction(ctx, record); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("transaction_id", record.ID.String()).Msg("cannot publish transaction event")
	}
}

// classify keeps classified errors and context errors as they are and turns
// anything else into ErrStorageFailure.
func (s *Service) classify(ctx context.Context, err error) error {
	if errorspkg.HasKind(err) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	zerolog.Ctx(ctx).Error().Err(err).Msg("unclassified storage error")

	return domain.ErrStorageFailure
}
