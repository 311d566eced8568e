package domain

import (
	"context"
	"time"
)

// Analytics actions emitted by the booking service.
const (
	AnalyticsBookingCreated = "booking_created"
	AnalyticsBookingFailed  = "booking_failed"
)

// AnalyticsNotification is a fire-and-forget record of a booking outcome.
type AnalyticsNotification struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	EventID    string    `json:"event_id"`
	Email      string    `json:"email"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// AnalyticsSink receives booking notifications. Implementations must never
// block booking outcomes; errors are logged and dropped.
type AnalyticsSink interface {
	Notify(ctx context.Context, n *AnalyticsNotification)
}
