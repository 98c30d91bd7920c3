package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
	ErrInvalidExecContext = errors.New("invalid execution context")

	// Activation code issuance
	ErrDuplicateKey       = errors.New("activation code already assigned")
	ErrCodeSpaceExhausted = errors.New("activation code space exhausted")
	ErrStoreUnavailable   = errors.New("store unavailable")
)
