package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"deveventshub/internal/delivery/http/helpers"
	"deveventshub/internal/domain"
	"deveventshub/internal/services"
)

// maxUploadSize caps multipart event submissions, image included.
const maxUploadSize = 10 << 20

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
	Images  domain.ImageStore
}

func NewEventController(logger *slog.Logger, svc domain.EventService, images domain.ImageStore) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
		Images:  images,
	}
}

// CreateEventSuccessResponse is the success response envelope for POST /events (201).
type CreateEventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// CreateEvent godoc
// @Summary Publish a new event
// @Description Create an event from a multipart form. The image file is uploaded to the image store first; the event is not created unless a durable image URL is obtained. Slug, id, and timestamps are server-generated. Agenda and tags accept repeated form fields or a single comma-separated value.
// @Tags events
// @Accept mpfd
// @Produce json
// @Param title formData string true "Event title (min 3 characters)"
// @Param description formData string true "Short description"
// @Param overview formData string true "Long-form overview"
// @Param organizer formData string true "Organizer name"
// @Param venue formData string true "Venue"
// @Param location formData string true "Location"
// @Param audience formData string true "Intended audience"
// @Param date formData string true "Event date (e.g. 2025-03-03 or March 3, 2025)"
// @Param time formData string true "Event time (e.g. 14:30 or 2:30 PM)"
// @Param mode formData string true "One of online, offline, hybrid"
// @Param agenda formData string true "Agenda items"
// @Param tags formData string true "Tags"
// @Param image formData file true "Event image"
// @Success 201 {object} controllers.CreateEventSuccessResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (lists every violated field)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Failure 503 {object} helpers.APIResponse "error.code: unavailable"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "image file is required")
		return
	}
	defer file.Close()

	input := &domain.EventInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Overview:    r.FormValue("overview"),
		Organizer:   r.FormValue("organizer"),
		Venue:       r.FormValue("venue"),
		Location:    r.FormValue("location"),
		Audience:    r.FormValue("audience"),
		Image:       "pending-upload",
		Date:        r.FormValue("date"),
		Time:        r.FormValue("time"),
		Mode:        r.FormValue("mode"),
		Agenda:      formList(r, "agenda"),
		Tags:        formList(r, "tags"),
	}
	// The durable image URL is only known after the upload; validate the rest
	// of the form against a stand-in first so a bad submission never leaves an
	// orphaned object in the image store.
	if err := services.ValidateEventInput(input); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}

	imageURL, err := c.Images.Upload(r.Context(), header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "image upload failed", "filename", header.Filename, "err", err)
		helpers.WriteJSONError(w, http.StatusServiceUnavailable, helpers.ErrCodeUnavailable, "image upload failed")
		return
	}
	input.Image = imageURL

	event, err := c.Service.CreateEvent(r.Context(), input)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// formList reads a repeated form field, splitting a single comma-separated
// value for clients that submit the list as one string.
func formList(r *http.Request, name string) []string {
	values := r.MultipartForm.Value[name]
	if len(values) == 1 && strings.Contains(values[0], ",") {
		return strings.Split(values[0], ",")
	}
	return values
}

// ListEventsResponse is the data payload for GET /events.
type ListEventsResponse struct {
	Events     []*domain.Event        `json:"events"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListEventsSuccessResponse is the success response envelope for GET /events (200).
type ListEventsSuccessResponse struct {
	Data  ListEventsResponse `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// ListEvents godoc
// @Summary List events
// @Description Returns published events, newest first, with pagination metadata.
// @Tags events
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListEventsSuccessResponse "data contains events and pagination"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r)
	events, total, err := c.Service.ListEvents(r.Context(), params)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ListEventsResponse{
		Events:     events,
		Pagination: helpers.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}

// GetEventSuccessResponse is the success response envelope for GET /events/{slug} (200).
type GetEventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// GetEventBySlug godoc
// @Summary Get an event by slug
// @Description Case-insensitive lookup of a single event by its URL slug.
// @Tags events
// @Produce json
// @Param slug path string true "Event slug"
// @Success 200 {object} controllers.GetEventSuccessResponse "data contains the event"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{slug} [get]
func (c *EventController) GetEventBySlug(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing slug")
		return
	}
	event, err := c.Service.GetEventBySlug(r.Context(), slug)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// UpdateEventRequest is the request body for PATCH /events/{eventID}. All
// fields optional; omitted fields are unchanged. The slug cannot be set
// directly; it is re-derived when the title changes.
type UpdateEventRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Overview    *string  `json:"overview"`
	Organizer   *string  `json:"organizer"`
	Venue       *string  `json:"venue"`
	Location    *string  `json:"location"`
	Audience    *string  `json:"audience"`
	Image       *string  `json:"image"`
	Date        *string  `json:"date"`
	Time        *string  `json:"time"`
	Mode        *string  `json:"mode"`
	Agenda      []string `json:"agenda"`
	Tags        []string `json:"tags"`
}

// UpdateEventSuccessResponse is the success response envelope for PATCH /events/{eventID} (200).
type UpdateEventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// UpdateEvent godoc
// @Summary Update event details
// @Description Applies a partial update. Only changed fields are re-normalized; the slug is re-derived only when the title changes, so no-op edits are idempotent.
// @Tags events
// @Accept json
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Param body body UpdateEventRequest true "Fields to update (all optional)"
// @Success 200 {object} controllers.UpdateEventSuccessResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [patch]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "eventID must be a UUID")
		return
	}
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	patch := &domain.EventPatch{
		Title:       req.Title,
		Description: req.Description,
		Overview:    req.Overview,
		Organizer:   req.Organizer,
		Venue:       req.Venue,
		Location:    req.Location,
		Audience:    req.Audience,
		Image:       req.Image,
		Date:        req.Date,
		Time:        req.Time,
		Mode:        req.Mode,
		Agenda:      req.Agenda,
		Tags:        req.Tags,
	}
	event, err := c.Service.UpdateEvent(r.Context(), eventID, patch)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// ListSimilarEventsSuccessResponse is the success response envelope for GET /events/{eventID}/similar (200).
type ListSimilarEventsSuccessResponse struct {
	Data  []*domain.Event   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListSimilarEvents godoc
// @Summary List similar events
// @Description Returns every other event sharing at least one tag with the given event. An unknown event yields an empty list, not an error.
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.ListSimilarEventsSuccessResponse "data contains the similar events (possibly empty)"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/similar [get]
func (c *EventController) ListSimilarEvents(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "eventID must be a UUID")
		return
	}
	events, err := c.Service.ListSimilarEvents(r.Context(), eventID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}
