// Package errorspkg provides common app errors.
//
// Every error surfaced by the ledger belongs to exactly one kind. Callers
// classify errors with errors.Is against the kind sentinels below.
package errorspkg

import "errors"

// Error kinds.
var (
	// ErrValidation indicates a malformed request: bad amount, bad id, minimum not met.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound indicates that the requested entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden indicates that the requester does not own the resource.
	ErrForbidden = errors.New("forbidden")
	// ErrInsufficientFunds indicates that a debit would make a balance negative.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrBusy indicates that a resource is temporarily locked. The request is safe to retry.
	ErrBusy = errors.New("resource busy")
	// ErrStorage indicates a failed read or write against the backing store.
	ErrStorage = errors.New("storage failure")
	// ErrInternal indicates internal server error.
	ErrInternal = errors.New("internal")
)

var kinds = []error{
	ErrValidation,
	ErrNotFound,
	ErrForbidden,
	ErrInsufficientFunds,
	ErrBusy,
	ErrStorage,
	ErrInternal,
}

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

// New returns an error with the given message that unwraps to kind.
func New(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

// Kind returns the kind err belongs to. Unclassified errors are ErrInternal.
func Kind(err error) error {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}

	return ErrInternal
}

// HasKind reports whether err belongs to any known kind.
func HasKind(err error) bool {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return true
		}
	}

	return false
}
