package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a lookup by id or slug yields nothing.
	ErrNotFound = errors.New("not found")
	// ErrEventNotFound is returned when a booking references an event that does not exist.
	ErrEventNotFound = errors.New("event does not exist")
	// ErrDuplicateBooking is returned when the same email books the same event twice.
	ErrDuplicateBooking = errors.New("booking already exists for this event and email")
	// ErrInvalidFormat is returned (wrapped) when a date or time string cannot be parsed.
	ErrInvalidFormat = errors.New("invalid format")
	// ErrSlugConflict signals a slug unique-constraint violation; the event service
	// resolves it internally by retrying with the next candidate.
	ErrSlugConflict = errors.New("slug already in use")
	// ErrStorageUnavailable is returned when the storage layer does not respond.
	// Callers may treat it as transient and retry.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// ValidationError aggregates every violated field of a request, not just the first.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}

// Add records a violation for the named field.
func (e *ValidationError) Add(field, reason string) {
	e.Fields = append(e.Fields, fmt.Sprintf("%s %s", field, reason))
}

// Err returns the error if any violation was recorded, nil otherwise.
func (e *ValidationError) Err() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
