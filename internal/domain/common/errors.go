package common

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the election core. Handlers translate these into
// HTTP statuses; services and repositories wrap them with %w so callers
// can match with errors.Is.
var (
	ErrNotFound          = errors.New("not found")
	ErrAlreadyVoted      = errors.New("voter has already submitted a ballot")
	ErrElectionNotActive = errors.New("election is not active for voting")
	ErrInvalidTransition = errors.New("invalid election status transition")
	ErrUnauthorized      = errors.New("requester is not the resource owner")
	ErrDuplicateVoter    = errors.New("email already registered for this election")
	ErrAuthDelivery      = errors.New("failed to deliver login link")
	ErrStorage           = errors.New("storage failure")
)

// ValidationError carries per-field constraint violations. It is resolved
// before any persistence call and surfaced field by field to the client.
type ValidationError struct {
	Fields map[string][]string
}

func NewValidationError(field, message string) *ValidationError {
	e := &ValidationError{Fields: make(map[string][]string)}
	e.Add(field, message)
	return e
}

// Add appends a message for the given field.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
}

// HasErrors reports whether any field failed validation.
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	if !e.HasErrors() {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for field, messages := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(messages, "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
