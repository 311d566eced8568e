package controllers

import (
	"log/slog"
	"net/http"

	"deveventshub/internal/delivery/http/helpers"
	"deveventshub/internal/domain"
)

type BookingController struct {
	Logger  *slog.Logger
	Service domain.BookingService
}

func NewBookingController(logger *slog.Logger, svc domain.BookingService) *BookingController {
	return &BookingController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateBookingRequest is the request body for POST /events/{eventID}/bookings.
type CreateBookingRequest struct {
	Email string `json:"email"`
}

// Validate implements Validator.
func (c CreateBookingRequest) Validate() []string {
	var errs []string
	if c.Email == "" {
		errs = append(errs, "email is required")
	}
	return errs
}

// CreateBookingSuccessResponse is the success response envelope for POST /events/{eventID}/bookings (201).
type CreateBookingSuccessResponse struct {
	Data  *domain.Booking   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// CreateBooking godoc
// @Summary Book a spot at an event
// @Description Creates an email-based booking for the event. The email is lower-cased for storage. One booking per event and email; the referenced event must exist.
// @Tags bookings
// @Accept json
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Param booking body CreateBookingRequest true "Booking data"
// @Success 201 {object} controllers.CreateBookingSuccessResponse "data contains the created booking"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (event does not exist)"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already booked)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/bookings [post]
func (c *BookingController) CreateBooking(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event does not exist")
		return
	}
	var req CreateBookingRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	booking, err := c.Service.CreateBooking(r.Context(), eventID, req.Email)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, booking)
}

// ListBookingsSuccessResponse is the success response envelope for GET /events/{eventID}/bookings (200).
type ListBookingsSuccessResponse struct {
	Data  []*domain.Booking `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListBookings godoc
// @Summary List bookings for an event
// @Description Returns all bookings for the event, newest first.
// @Tags bookings
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.ListBookingsSuccessResponse "data contains the bookings"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/bookings [get]
func (c *BookingController) ListBookings(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
		return
	}
	bookings, err := c.Service.ListBookingsByEvent(r.Context(), eventID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, bookings)
}
