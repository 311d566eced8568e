package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"deveventshub/internal/delivery/http/controllers"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(eventController *controllers.EventController, bookingController *controllers.BookingController) *http.ServeMux {
	mux := http.NewServeMux()

	// Events
	mux.HandleFunc("POST /events", eventController.CreateEvent)
	mux.HandleFunc("GET /events", eventController.ListEvents)
	mux.HandleFunc("GET /events/{slug}", eventController.GetEventBySlug)
	mux.HandleFunc("PATCH /events/{eventID}", eventController.UpdateEvent)
	mux.HandleFunc("GET /events/{eventID}/similar", eventController.ListSimilarEvents)

	// Bookings
	mux.HandleFunc("POST /events/{eventID}/bookings", bookingController.CreateBooking)
	mux.HandleFunc("GET /events/{eventID}/bookings", bookingController.ListBookings)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
