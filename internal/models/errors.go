package models

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrClaimNotFound is returned when no claim exists for the requested id.
	ErrClaimNotFound = errors.New("claim not found")
	// ErrVersionConflict is returned by storage when the persisted version moved
	// between load and save.
	ErrVersionConflict = errors.New("claim version conflict")
)

// StatusConflictError means a well-formed command was refused because of the
// claim's current state.
type StatusConflictError struct {
	Action Action
	Status ClaimStatus
	Reason string
}

func (e *StatusConflictError) Error() string {
	msg := fmt.Sprintf("cannot %s claim in status %s", e.Action, e.Status)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func conflict(action Action, status ClaimStatus, reason string) error {
	return &StatusConflictError{Action: action, Status: status, Reason: reason}
}

// ValidationError means the command input itself is malformed.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrClaimNotFound)
}

func IsStatusConflict(err error) bool {
	var sc *StatusConflictError
	return errors.As(err, &sc)
}
