// Package accountservice manages business logic layer of accounts.
package accountservice

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/randompkg"
)

// maxNumberAttempts bounds account number generation.
const maxNumberAttempts = 10

// Repo provides data access layer interface needed by account service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package accountservice
type Repo interface {
	Create(ctx context.Context, arg domain.CreateAccountParams) (domain.Account, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Account, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Account, error)
	NumberExists(ctx context.Context, number string) (bool, error)
}

// Service facilitates account service layer logic.
type Service struct {
	repo      Repo
	newNumber func() string
}

// New returns account service struct to manage account bussines logic.
func New(ar Repo) *Service {
	return &Service{
		repo:      ar,
		newNumber: randompkg.AccountNumber,
	}
}

// Create creates an account with zero balance and a unique 10-digit number for the given owner.
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	if ownerID == uuid.Nil {
		return domain.Account{}, domain.ErrInvalidOwnerID
	}

	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		number := s.newNumber()

		exists, err := s.repo.NumberExists(ctx, number)
		if err != nil {
			return domain.Account{}, err
		}

		if exists {
			continue
		}

		account, err := s.repo.Create(ctx, domain.CreateAccountParams{
			OwnerID:       ownerID,
			AccountNumber: number,
		})
		if errors.Is(err, domain.ErrAccountNumberTaken) {
			continue
		}

		if err != nil {
			return domain.Account{}, err
		}

		return account, nil
	}

	l.Error().Int("attempts", maxNumberAttempts).Msg("account number generation exhausted")

	return domain.Account{}, domain.ErrAccountNumberExhausted
}

// Get returns the account with the given id if it belongs to the requester.
func (s *Service) Get(ctx context.Context, requesterID, id uuid.UUID) (domain.Account, error) {
	if id == uuid.Nil {
		return domain.Account{}, domain.ErrInvalidAccountID
	}

	account, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Account{}, err
	}

	if account.OwnerID != requesterID {
		zerolog.Ctx(ctx).Info().
			Str("account_id", id.String()).
			Str("requester_id", requesterID.String()).
			Msg("account owner mismatch")

		return domain.Account{}, domain.ErrAccountOwnerMismatch
	}

	return account, nil
}

// List returns accounts that are owned by the given user, newest first.
func (s *Service) List(ctx context.Context, ownerID uuid.UUID) ([]domain.Account, error) {
	accounts, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	return accounts, nil
}
