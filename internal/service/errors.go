package service

import (
	"errors"
	"fmt"

	"freelance-marketplace-api/internal/repo/repo_errors"
)

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindForbidden
	KindConflict
	KindInvalidOperation
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindForbidden:
		return "Forbidden"
	case KindConflict:
		return "Conflict"
	case KindInvalidOperation:
		return "InvalidOperation"
	case KindUnavailable:
		return "Unavailable"
	}

	return "Internal"
}

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var (
	ErrGigNotFound = &Error{KindNotFound, "gig not found"}
	ErrBidNotFound = &Error{KindNotFound, "bid not found"}

	ErrNotGigOwner = &Error{KindForbidden, "only the gig owner can do this"}

	ErrGigAlreadyAssigned  = &Error{KindConflict, "this gig has already been assigned"}
	ErrGigNotAcceptingBids = &Error{KindConflict, "this gig is no longer accepting bids"}
	ErrAlreadyBid          = &Error{KindConflict, "you have already bid on this gig"}
	ErrBidAlreadyDecided   = &Error{KindConflict, "bid is no longer pending"}

	ErrCannotBidOnOwnGig = &Error{KindInvalidOperation, "you cannot bid on your own gig"}
	ErrInvalidAmount     = &Error{KindInvalidOperation, "value is out of the accepted range"}

	ErrStoreUnavailable = &Error{KindUnavailable, "store is busy, retry later"}
)

// KindOf classifies any error returned by this package. Unknown errors are Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindInternal
}

// storeError maps repository failures that callers could act on; everything
// else is wrapped as an internal fault.
func storeError(op string, err error) error {
	if errors.Is(err, repo_errors.ErrUnavailable) {
		return fmt.Errorf("%s: %w: %v", op, ErrStoreUnavailable, err)
	}
	if errors.Is(err, repo_errors.ErrInvalidValue) {
		return fmt.Errorf("%s: %w: %v", op, ErrInvalidAmount, err)
	}

	return fmt.Errorf("%s: %w", op, err)
}
