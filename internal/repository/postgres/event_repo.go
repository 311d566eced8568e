package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"deveventshub/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

const eventColumns = `id, title, slug, description, overview, organizer, venue, location, audience, image, date, time, mode, agenda, tags, created_at, updated_at`

func scanEvent(row interface{ Scan(...any) error }) (*domain.Event, error) {
	e := &domain.Event{}
	err := row.Scan(
		&e.ID, &e.Title, &e.Slug, &e.Description, &e.Overview, &e.Organizer,
		&e.Venue, &e.Location, &e.Audience, &e.Image, &e.Date, &e.Time,
		&e.Mode, pq.Array(&e.Agenda), pq.Array(&e.Tags), &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (title, slug, description, overview, organizer, venue, location, audience, image, date, time, mode, agenda, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		e.Title, e.Slug, e.Description, e.Overview, e.Organizer, e.Venue,
		e.Location, e.Audience, e.Image, e.Date, e.Time, e.Mode,
		pq.Array(e.Agenda), pq.Array(e.Tags), e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
	return mapError(err)
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	query := `
		UPDATE events
		SET title = $1, slug = $2, description = $3, overview = $4, organizer = $5,
		    venue = $6, location = $7, audience = $8, image = $9, date = $10,
		    time = $11, mode = $12, agenda = $13, tags = $14, updated_at = $15
		WHERE id = $16
	`
	result, err := r.DB.ExecContext(ctx, query,
		e.Title, e.Slug, e.Description, e.Overview, e.Organizer, e.Venue,
		e.Location, e.Audience, e.Image, e.Date, e.Time, e.Mode,
		pq.Array(e.Agenda), pq.Array(e.Tags), e.UpdatedAt, e.ID,
	)
	if err != nil {
		return mapError(err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, mapError(err)
	}
	return e, nil
}

func (r *eventRepository) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE LOWER(slug) = LOWER($1)`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, slug))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, mapError(err)
	}
	return e, nil
}

func (r *eventRepository) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	var exists bool
	var err error
	if excludeID == "" {
		query := `SELECT EXISTS (SELECT 1 FROM events WHERE slug = $1)`
		err = r.DB.QueryRowContext(ctx, query, slug).Scan(&exists)
	} else {
		query := `SELECT EXISTS (SELECT 1 FROM events WHERE slug = $1 AND id <> $2)`
		err = r.DB.QueryRowContext(ctx, query, slug, excludeID).Scan(&exists)
	}
	if err != nil {
		return false, mapError(err)
	}
	return exists, nil
}

func (r *eventRepository) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Event, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&total); err != nil {
		return nil, 0, mapError(err)
	}
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.DB.QueryContext(ctx, query, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, mapError(err)
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, e)
	}
	return events, total, rows.Err()
}

func (r *eventRepository) ListByAnyTag(ctx context.Context, tags []string, excludeID string) ([]*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE tags && $1 AND id <> $2
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(tags), excludeID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
