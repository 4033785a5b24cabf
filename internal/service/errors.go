package service

import "errors"

var (
	// ErrNotFound covers any lookup that does not resolve to a record the
	// requester may see.
	ErrNotFound = errors.New("record not found")
	// ErrForbidden: requester is neither the owning student nor an
	// approved teacher.
	ErrForbidden = errors.New("permission denied")
	// ErrAlreadySubmitted: the exam was submitted before; callers treat
	// this as a benign redirect to the archived view, not a failure.
	ErrAlreadySubmitted = errors.New("exam already submitted")
)
