package repo_errors

import "errors"

var (
	ErrNotFound        = errors.New("record not found")
	ErrUniqueViolation = errors.New("unique constraint violated")
	ErrUnavailable     = errors.New("store unavailable: lock or transaction could not be acquired in time")
	ErrStaleStatus     = errors.New("record status changed concurrently")
	ErrInvalidValue    = errors.New("value rejected by store constraints")
)
