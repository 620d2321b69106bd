package service

import (
	"errors"
	"fmt"
)

// Domain errors. Every authentication failure wraps ErrUnauthenticated.
var (
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrUserNotFound      = fmt.Errorf("%w: user not found", ErrUnauthenticated)
	ErrInvalidPassword   = fmt.Errorf("%w: invalid password", ErrUnauthenticated)
	ErrInvalidToken      = fmt.Errorf("%w: invalid token", ErrUnauthenticated)
	ErrSessionNotFound   = fmt.Errorf("%w: session not found or expired", ErrUnauthenticated)
	ErrDuplicateUsername = errors.New("username already exists")
	ErrValidation        = errors.New("validation failed")
)

func validationError(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}
