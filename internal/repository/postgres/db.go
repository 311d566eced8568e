package postgres

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/lib/pq"

	"deveventshub/internal/domain"
)

var (
	dbOnce sync.Once
	dbConn *sql.DB
	dbErr  error
)

// Open returns the process-wide database handle, lazily initialized on first
// use. Concurrent first callers share a single initialization via sync.Once,
// so hot paths never race to create redundant connections.
func Open(dbURL string) (*sql.DB, error) {
	dbOnce.Do(func() {
		dbConn, dbErr = sql.Open("postgres", dbURL)
		if dbErr != nil {
			dbErr = fmt.Errorf("open postgres: %w", dbErr)
			return
		}
		dbConn.SetMaxOpenConns(25)
		dbConn.SetMaxIdleConns(5)
		dbConn.SetConnMaxLifetime(5 * time.Minute)
	})
	return dbConn, dbErr
}

// Postgres constraint names the repositories map to domain errors.
const (
	constraintEventsSlug       = "events_slug_key"
	constraintBookingsPerEmail = "bookings_event_id_email_key"
	constraintBookingsEventFK  = "bookings_event_id_fkey"
)

// mapError translates driver-level failures into domain errors: unique and
// foreign-key violations by constraint name, connection-class failures to
// ErrStorageUnavailable. Anything else passes through unchanged.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case pqErr.Code == "23505" && pqErr.Constraint == constraintEventsSlug:
			return domain.ErrSlugConflict
		case pqErr.Code == "23505" && pqErr.Constraint == constraintBookingsPerEmail:
			return domain.ErrDuplicateBooking
		case pqErr.Code == "23503" && pqErr.Constraint == constraintBookingsEventFK:
			return domain.ErrEventNotFound
		case pqErr.Code.Class() == "08":
			return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
		}
		return err
	}
	if errors.Is(err, sql.ErrConnDone) || errors.Is(err, driver.ErrBadConn) {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return err
}
