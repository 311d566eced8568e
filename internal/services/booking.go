package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"deveventshub/internal/domain"
)

// notifyTimeout bounds the detached contexts used for fire-and-forget
// analytics and confirmation email delivery.
const notifyTimeout = 5 * time.Second

type bookingService struct {
	bookingRepo    domain.BookingRepository
	eventRepo      domain.EventRepository
	emailService   domain.EmailService
	analytics      domain.AnalyticsSink
	contextTimeout time.Duration
}

func NewBookingService(
	bookingRepo domain.BookingRepository,
	eventRepo domain.EventRepository,
	emailService domain.EmailService,
	analytics domain.AnalyticsSink,
	timeout time.Duration,
) domain.BookingService {
	return &bookingService{
		bookingRepo:    bookingRepo,
		eventRepo:      eventRepo,
		emailService:   emailService,
		analytics:      analytics,
		contextTimeout: timeout,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, eventID, email string) (*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	email = strings.ToLower(strings.TrimSpace(email))
	v := &domain.ValidationError{}
	if email == "" {
		v.Add("email", "is required")
	} else if !domain.EmailRe.MatchString(email) {
		v.Add("email", "must be a valid address")
	}
	if err := v.Err(); err != nil {
		s.notify(domain.AnalyticsBookingFailed, eventID, email, err.Error())
		return nil, err
	}

	// Best-effort early referential check for a friendlier error; the foreign
	// key constraint remains the authoritative guard against the
	// check-then-write race.
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.notify(domain.AnalyticsBookingFailed, eventID, email, domain.ErrEventNotFound.Error())
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	// Same best-effort pre-check for duplicates; the (event_id, email) unique
	// constraint still guards the insert itself.
	if _, err := s.bookingRepo.GetByEventAndEmail(ctx, event.ID, email); err == nil {
		s.notify(domain.AnalyticsBookingFailed, eventID, email, domain.ErrDuplicateBooking.Error())
		return nil, domain.ErrDuplicateBooking
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("check booking: %w", err)
	}

	now := time.Now()
	booking := domain.NewBooking(event.ID, email, now, now)
	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		if errors.Is(err, domain.ErrDuplicateBooking) || errors.Is(err, domain.ErrEventNotFound) {
			s.notify(domain.AnalyticsBookingFailed, eventID, email, err.Error())
			return nil, err
		}
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.notify(domain.AnalyticsBookingCreated, event.ID, email, "")
	s.sendConfirmation(event, email)
	return booking, nil
}

func (s *bookingService) ListBookingsByEvent(ctx context.Context, eventID string) ([]*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	bookings, err := s.bookingRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	if bookings == nil {
		bookings = []*domain.Booking{}
	}
	return bookings, nil
}

// notify sends a booking outcome to the analytics sink without ever blocking
// or influencing the booking result.
func (s *bookingService) notify(action, eventID, email, reason string) {
	if s.analytics == nil {
		return
	}
	n := &domain.AnalyticsNotification{
		ID:         uuid.NewString(),
		Action:     action,
		EventID:    eventID,
		Email:      email,
		Reason:     reason,
		OccurredAt: time.Now(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		s.analytics.Notify(ctx, n)
	}()
}

// sendConfirmation emails the visitor after a successful booking. Delivery is
// fire-and-forget; failures are logged and never surfaced to the caller.
func (s *bookingService) sendConfirmation(event *domain.Event, email string) {
	if s.emailService == nil {
		return
	}
	data := &domain.BookingConfirmationEmailData{
		Email:      email,
		EventTitle: event.Title,
		EventDate:  event.Date,
		EventTime:  event.Time,
		Venue:      event.Venue,
		Location:   event.Location,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := s.emailService.SendBookingConfirmation(ctx, data); err != nil {
			log.Printf("[EMAIL] booking confirmation to %s failed: %v", email, err)
		}
	}()
}
