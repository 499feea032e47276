package application

import (
	"errors"
	"strings"
)

var (
	// ErrUnauthorized is returned when the acting principal lacks permission for an operation.
	ErrUnauthorized = errors.New("application: unauthorized")
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrAlreadyExists is returned when a unique attribute is already taken.
	ErrAlreadyExists = errors.New("application: already exists")
	// ErrRoomUnavailable is returned when the requested room conflicts with an existing booking.
	ErrRoomUnavailable = errors.New("application: room unavailable")
	// ErrInvalidCredentials is returned when authentication fails.
	ErrInvalidCredentials = errors.New("application: invalid credentials")
	// ErrAccountDisabled is returned when a disabled account attempts to sign in.
	ErrAccountDisabled = errors.New("application: account disabled")
	// ErrSessionExpired is returned when a session token is past its expiry.
	ErrSessionExpired = errors.New("application: session expired")
	// ErrSessionRevoked is returned when a session token has been revoked.
	ErrSessionRevoked = errors.New("application: session revoked")
)

// FieldError names one violated validation rule.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError carries every violated rule of one request in validation
// order, so callers can mark all offending fields in a single pass.
type ValidationError struct {
	Fields []FieldError
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil || len(v.Fields) == 0 {
		return "validation failed"
	}
	return "validation failed: " + strings.Join(v.Messages(), "; ")
}

// HasErrors reports whether any rule was violated.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.Fields) > 0
}

// Messages returns the human-readable messages in validation order.
func (v *ValidationError) Messages() []string {
	if v == nil {
		return nil
	}
	out := make([]string, 0, len(v.Fields))
	for _, fe := range v.Fields {
		out = append(out, fe.Message)
	}
	return out
}

// ErrorFor returns the first message recorded for a field.
func (v *ValidationError) ErrorFor(field string) (string, bool) {
	if v == nil {
		return "", false
	}
	for _, fe := range v.Fields {
		if fe.Field == field {
			return fe.Message, true
		}
	}
	return "", false
}

// add records a violated rule.
func (v *ValidationError) add(field, message string) {
	v.Fields = append(v.Fields, FieldError{Field: field, Message: message})
}
