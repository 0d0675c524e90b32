// Package lockpkg serializes balance mutations per account.
//
// Managers acquire the locks of all accounts touched by one operation in
// ascending id order, so two operations over the same pair of accounts can
// never wait on each other in a cycle.
package lockpkg

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/pkg/errorspkg"
)

// ErrLockTimeout indicates that an account lock was not acquired in time.
var ErrLockTimeout = errorspkg.New(errorspkg.ErrBusy, "account is busy, try again later")

// DefaultTimeout bounds the wait for all locks of one operation.
const DefaultTimeout = 5 * time.Second

// Manager runs functions while holding account locks.
type Manager interface {
	// WithLock acquires the locks of ids, runs fn and releases the locks on every exit path.
	WithLock(ctx context.Context, ids []uuid.UUID, fn func(ctx context.Context) error) error
}

// Ordered returns ids without duplicates sorted ascending by their bytes.
func Ordered(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))

	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}

		seen[id] = struct{}{}
		out = append(out, id)
	}

	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(out[i][:], out[j][:]) < 0
	})

	return out
}

type acquireFunc func(ctx context.Context, id uuid.UUID) (release func(), err error)

// withOrderedLocks is shared by all managers. The caller's ctx is checked
// separately from the acquisition deadline so cancellation surfaces as-is.
func withOrderedLocks(
	ctx context.Context,
	ids []uuid.UUID,
	timeout time.Duration,
	acquire acquireFunc,
	fn func(ctx context.Context) error,
) error {
	l := zerolog.Ctx(ctx)

	actx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ordered := Ordered(ids)
	releases := make([]func(), 0, len(ordered))

	defer func() {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
	}()

	for _, id := range ordered {
		if err := ctx.Err(); err != nil {
			return err
		}

		release, err := acquire(actx, id)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}

			if !errors.Is(err, context.DeadlineExceeded) {
				l.Warn().Err(err).Str("account_id", id.String()).Msg("cannot acquire account lock")
			} else {
				l.Warn().Str("account_id", id.String()).Dur("timeout", timeout).Msg("account lock timeout")
			}

			return ErrLockTimeout
		}

		releases = append(releases, release)
	}

	return fn(ctx)
}
