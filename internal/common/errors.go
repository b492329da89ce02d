// Package common defines shared sentinel errors used across the server and
// the CLI client. Callers should use errors.Is to match these values.
package common

import (
	"errors"
	"strings"
)

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors, one per client-facing failure class.
	ErrorValidation   = errors.New("validation error")
	ErrorConflict     = errors.New("email already in use")
	ErrorUserNotFound = errors.New("user not found")
	ErrorUnauthorized = errors.New("invalid credentials")
	ErrorInternal     = errors.New("internal error")

	// Token errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// ValidationError reports rejected client input. Message is safe to return
// to the caller as is. It matches ErrorValidation under errors.Is.
type ValidationError struct {
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrorValidation
}

// NewMissingFieldsError builds a ValidationError naming every missing field,
// e.g. "email is required" or "name, email and password are required".
func NewMissingFieldsError(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields, Message: joinFields(fields) + verb(len(fields)) + " required"}
}

func verb(n int) string {
	if n == 1 {
		return " is"
	}
	return " are"
}

func joinFields(fields []string) string {
	switch len(fields) {
	case 0:
		return ""
	case 1:
		return fields[0]
	}
	return strings.Join(fields[:len(fields)-1], ", ") + " and " + fields[len(fields)-1]
}
