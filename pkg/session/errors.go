package session

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrEmailExists          = errors.New("email already registered")
	ErrAlreadyAuthenticated = errors.New("already authenticated")
	ErrNotRestored          = errors.New("session not restored")
)

type AuthErrorKind string

const (
	InvalidCredentials   AuthErrorKind = "InvalidCredentials"
	EmailExists          AuthErrorKind = "EmailExists"
	AlreadyAuthenticated AuthErrorKind = "AlreadyAuthenticated"
	NotRestored          AuthErrorKind = "NotRestored"
)

// AuthError is an expected failure of a session operation. Message is safe to show to the user
// verbatim.
type AuthError struct {
	Kind    AuthErrorKind
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

func (e *AuthError) Unwrap() error {
	switch e.Kind {
	case InvalidCredentials:
		return ErrInvalidCredentials
	case EmailExists:
		return ErrEmailExists
	case AlreadyAuthenticated:
		return ErrAlreadyAuthenticated
	case NotRestored:
		return ErrNotRestored
	}

	return nil
}

func newInvalidCredentialsError(demoEmails []string) *AuthError {
	return &AuthError{
		Kind:    InvalidCredentials,
		Message: fmt.Sprintf("Invalid credentials. Try one of the demo accounts: %s", strings.Join(demoEmails, ", ")),
	}
}

func newEmailExistsError(email string) *AuthError {
	return &AuthError{
		Kind:    EmailExists,
		Message: fmt.Sprintf("An account for %s already exists.", email),
	}
}

func newAlreadyAuthenticatedError() *AuthError {
	return &AuthError{
		Kind:    AlreadyAuthenticated,
		Message: "You are already logged in. Log out first.",
	}
}

func newNotRestoredError() *AuthError {
	return &AuthError{
		Kind:    NotRestored,
		Message: "Session is still loading, try again shortly.",
	}
}
