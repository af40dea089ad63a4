package models

import "errors"

// Custom errors
var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicateKey     = errors.New("duplicate key violation")
	ErrInvalidID        = errors.New("invalid ID format")
	ErrMalformedInput   = errors.New("malformed input")
	ErrDomainViolation  = errors.New("domain violation")
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionLimit     = errors.New("session limit reached")
	ErrUnknownSport     = errors.New("unknown sport")
	ErrInsufficientLegs = errors.New("not enough legs")
)
