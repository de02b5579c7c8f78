// Package common defines the sentinel errors shared across handlers and
// stores. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrDuplicateUser = errors.New("username already taken")

	// Auth flow errors.
	ErrValidation         = errors.New("required field is empty")
	ErrInvalidCredentials = errors.New("invalid username or password")

	// Reset flow errors.
	ErrUnknownUser       = errors.New("unknown user")
	ErrCodeMismatch      = errors.New("reset code does not match")
	ErrPasswordMismatch  = errors.New("passwords do not match")
	ErrNoActiveChallenge = errors.New("no active reset challenge")

	// External delivery channel failure. Non-fatal: the local state
	// transition that requested delivery is kept.
	ErrDeliveryFailure = errors.New("code delivery failed")
)
