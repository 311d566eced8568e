package domain

import (
	"context"
	"time"
)

// Event modes.
const (
	ModeOnline  = "online"
	ModeOffline = "offline"
	ModeHybrid  = "hybrid"
)

// ValidModes is the fixed set of accepted event modes.
var ValidModes = map[string]struct{}{
	ModeOnline:  {},
	ModeOffline: {},
	ModeHybrid:  {},
}

// Event represents a published developer event.
// The slug is derived from the title and unique across all events; date and
// time are stored in canonical YYYY-MM-DD / HH:MM form.
// swagger:model Event
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Overview    string    `json:"overview"`
	Organizer   string    `json:"organizer"`
	Venue       string    `json:"venue"`
	Location    string    `json:"location"`
	Audience    string    `json:"audience"`
	Image       string    `json:"image"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Mode        string    `json:"mode"`
	Agenda      []string  `json:"agenda"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EventInput carries the organizer-supplied fields for creating an event.
// Slug, id, and timestamps are never caller-supplied.
type EventInput struct {
	Title       string
	Description string
	Overview    string
	Organizer   string
	Venue       string
	Location    string
	Audience    string
	Image       string
	Date        string
	Time        string
	Mode        string
	Agenda      []string
	Tags        []string
}

// EventPatch carries the fields of an update request. Nil means unchanged;
// only changed fields are re-normalized, and the slug is re-derived only when
// the title changes.
type EventPatch struct {
	Title       *string
	Description *string
	Overview    *string
	Organizer   *string
	Venue       *string
	Location    *string
	Audience    *string
	Image       *string
	Date        *string
	Time        *string
	Mode        *string
	Agenda      []string
	Tags        []string
}

// EventRepository defines the storage contract for events. Create and Update
// return ErrSlugConflict when the slug unique constraint is violated so the
// service can retry with the next candidate.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	Update(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	GetBySlug(ctx context.Context, slug string) (*Event, error)
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
	List(ctx context.Context, params PaginationParams) ([]*Event, int, error)
	ListByAnyTag(ctx context.Context, tags []string, excludeID string) ([]*Event, error)
}

// EventService defines the event lifecycle operations.
type EventService interface {
	CreateEvent(ctx context.Context, input *EventInput) (*Event, error)
	UpdateEvent(ctx context.Context, id string, patch *EventPatch) (*Event, error)
	GetEventBySlug(ctx context.Context, slug string) (*Event, error)
	ListEvents(ctx context.Context, params PaginationParams) ([]*Event, int, error)
	ListSimilarEvents(ctx context.Context, eventID string) ([]*Event, error)
}
