package services

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailInUse         = errors.New("email already in use")
	ErrUserNotFound       = errors.New("user not found")
	ErrProjectExists      = errors.New("project already exists")

	// ErrOperationFailed wraps infrastructure failures so the HTTP layer
	// never sees a bare persistence or dispatch error.
	ErrOperationFailed = errors.New("operation failed")
)

// ConcurrencyError is the terminal outcome of a mutating operation whose
// optimistic-lock retries were exhausted. Kind names the entity that could
// not be processed.
type ConcurrencyError struct {
	Kind string
}

func (e *ConcurrencyError) Error() string {
	return fmt.Sprintf("could not process %s: concurrent modification conflict", e.Kind)
}
