package services

import "errors"

// Terminal-state and caller-fault errors. The HTTP layer maps these to status
// codes; anything not in this list is treated as an internal failure and
// sanitized before it reaches the caller.
var (
	ErrNotFound            = errors.New("not found")
	ErrSecretExpired       = errors.New("secret expired")
	ErrSecretAlreadyViewed = errors.New("secret already viewed")
	// ErrRequestAlreadyFulfilled is deliberately distinct from
	// ErrSecretAlreadyViewed: a completed request and an exhausted secret are
	// different terminal states.
	ErrRequestAlreadyFulfilled = errors.New("secret request already fulfilled")
	ErrValidation              = errors.New("validation error")
	ErrForbidden               = errors.New("forbidden")
	ErrConflict                = errors.New("token conflict")
	ErrStorage                 = errors.New("storage error")
)
