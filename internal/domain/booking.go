package domain

import (
	"context"
	"regexp"
	"time"
)

// EmailRe matches a simple email format (local@domain with at least one dot in domain).
var EmailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Booking represents a visitor's email-based booking for an event. Bookings
// reference but do not own their event, and are immutable once created.
// swagger:model Booking
type Booking struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewBooking returns a Booking for the given event and email. ID is set by the
// repository on create.
func NewBooking(eventID, email string, createdAt, updatedAt time.Time) *Booking {
	return &Booking{
		EventID:   eventID,
		Email:     email,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// BookingRepository defines storage for bookings. Create returns
// ErrDuplicateBooking when the (event_id, email) unique constraint is violated
// and ErrEventNotFound when the event foreign key does not resolve; those
// constraints, not the service's pre-checks, are the authoritative guard.
type BookingRepository interface {
	Create(ctx context.Context, booking *Booking) error
	GetByEventAndEmail(ctx context.Context, eventID, email string) (*Booking, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Booking, error)
}

// BookingService defines the booking operations.
type BookingService interface {
	CreateBooking(ctx context.Context, eventID, email string) (*Booking, error)
	ListBookingsByEvent(ctx context.Context, eventID string) ([]*Booking, error)
}
