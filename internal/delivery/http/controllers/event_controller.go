package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"iamin/internal/delivery/http/helpers"
	"iamin/internal/domain"
)

// EventController handles event creation, lookup, listing, and attendance
// registration.
type EventController struct {
	Logger       *slog.Logger
	Events       domain.EventService
	Registration domain.RegistrationService
}

func NewEventController(logger *slog.Logger, events domain.EventService, registration domain.RegistrationService) *EventController {
	return &EventController{
		Logger:       logger,
		Events:       events,
		Registration: registration,
	}
}

// CreateEventRequest is the request body for POST /events.
type CreateEventRequest struct {
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Creator      domain.Identity   `json:"creator"`
	Participants []domain.Identity `json:"participants"`
}

// Validate implements helpers.Validator.
func (c *CreateEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Title) == "" {
		errs = append(errs, "title is required")
	}
	if strings.TrimSpace(c.Description) == "" {
		errs = append(errs, "description is required")
	}
	creator := c.Creator
	creator.Normalize()
	for _, m := range domain.ValidateIdentity(creator) {
		errs = append(errs, "creator: "+m)
	}
	return errs
}

// EventPayload is the data object wrapping a single event.
type EventPayload struct {
	Event *domain.Event `json:"event"`
}

// EventListPayload is the data object for GET /events.
type EventListPayload struct {
	Events  []*domain.Event `json:"events"`
	HasMore bool            `json:"hasMore"`
}

// CreateEventSuccessResponse is the success envelope for POST /events (201).
type CreateEventSuccessResponse struct {
	Success bool              `json:"success"`
	Data    EventPayload      `json:"data"`
	Error   *helpers.APIError `json:"error"`
}

// CreateEvent godoc
// @Summary Create a new event
// @Description Creates an event with an optional seed participant list. Seed participants are deduplicated by fid, keeping first occurrence.
// @Tags events
// @Accept json
// @Produce json
// @Param event body CreateEventRequest true "Event data"
// @Success 201 {object} controllers.CreateEventSuccessResponse "data.event contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error or store_not_configured"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Events.Create(r.Context(), req.Title, req.Description, req.Creator, req.Participants)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.writeStoreError(w, r, err, "Failed to create event")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, EventPayload{Event: event})
}

// ListEventsSuccessResponse is the success envelope for GET /events (200).
type ListEventsSuccessResponse struct {
	Success bool              `json:"success"`
	Data    EventListPayload  `json:"data"`
	Error   *helpers.APIError `json:"error"`
}

// ListEvents godoc
// @Summary List events
// @Description Returns one page of events, newest first. Optional filters by creator fid and/or participant fid. hasMore reports whether another page exists.
// @Tags events
// @Produce json
// @Param creatorFid query int false "Only events created by this fid"
// @Param participantFid query int false "Only events this fid participates in"
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 50, max 100)"
// @Success 200 {object} controllers.ListEventsSuccessResponse "data contains events and hasMore"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error or store_not_configured"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	filter := helpers.ParseEventFilter(r)
	params := helpers.ParsePagination(r)
	events, hasMore, err := c.Events.List(r.Context(), filter, params)
	if err != nil {
		c.writeStoreError(w, r, err, "Failed to list events")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, EventListPayload{Events: events, HasMore: hasMore})
}

// GetEventSuccessResponse is the success envelope for GET /events/{eventID} (200).
type GetEventSuccessResponse struct {
	Success bool              `json:"success"`
	Data    EventPayload      `json:"data"`
	Error   *helpers.APIError `json:"error"`
}

// GetEventByID godoc
// @Summary Get an event by ID
// @Description Returns a single event. Malformed ids report not found, same as missing ones.
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.GetEventSuccessResponse "data.event contains the event"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error or store_not_configured"
// @Router /events/{eventID} [get]
func (c *EventController) GetEventByID(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	event, err := c.Events.Get(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "Event not found")
			return
		}
		c.writeStoreError(w, r, err, "Failed to get event")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, EventPayload{Event: event})
}

// RegisterRequest is the request body for POST /events/{eventID}/register.
// The identity is accepted either wrapped under "participant" or as bare
// top-level fields.
type RegisterRequest struct {
	Participant *domain.Identity `json:"participant"`
	domain.Identity
}

// Resolve returns the identity the request carries, preferring the wrapped
// form.
func (r *RegisterRequest) Resolve() domain.Identity {
	if r.Participant != nil {
		return *r.Participant
	}
	return r.Identity
}

// Validate implements helpers.Validator.
func (r *RegisterRequest) Validate() []string {
	p := r.Resolve()
	p.Normalize()
	return domain.ValidateIdentity(p)
}

// RegisterSuccessResponse is the success envelope for POST /events/{eventID}/register and /join (200).
type RegisterSuccessResponse struct {
	Success bool              `json:"success"`
	Data    EventPayload      `json:"data"`
	Error   *helpers.APIError `json:"error"`
}

// Register godoc
// @Summary Register a participant for an event
// @Description Adds the identity to the event's participant list. Idempotent: registering an identity that is already a participant returns the unchanged event with 200. The identity may be sent wrapped under "participant" or as bare top-level fields.
// @Tags events
// @Accept json
// @Produce json
// @Param eventID path string true "Event ID"
// @Param body body RegisterRequest true "Participant identity"
// @Success 200 {object} controllers.RegisterSuccessResponse "data.event contains the full updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error or store_not_configured"
// @Router /events/{eventID}/register [post]
func (c *EventController) Register(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	var req RegisterRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, _, err := c.Registration.Register(r.Context(), eventID, req.Resolve())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "Event not found")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.writeStoreError(w, r, err, "Failed to register for event")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, EventPayload{Event: event})
}

// JoinRequest is the request body for POST /events/{eventID}/join.
type JoinRequest struct {
	FID int64 `json:"fid"`
}

// Validate implements helpers.Validator.
func (r *JoinRequest) Validate() []string {
	if r.FID < 1 {
		return []string{"Valid fid is required"}
	}
	return nil
}

// Join godoc
// @Summary Register for an event by fid only
// @Description Alias for register that accepts just a fid; handle and display name are fid-derived placeholders. Same idempotence contract as register.
// @Tags events
// @Accept json
// @Produce json
// @Param eventID path string true "Event ID"
// @Param body body JoinRequest true "Participant fid"
// @Success 200 {object} controllers.RegisterSuccessResponse "data.event contains the full updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error or store_not_configured"
// @Router /events/{eventID}/join [post]
func (c *EventController) Join(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	var req JoinRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, _, err := c.Registration.JoinByFID(r.Context(), eventID, req.FID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "Event not found")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.writeStoreError(w, r, err, "Failed to join event")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, EventPayload{Event: event})
}

// writeStoreError maps store failures to 500. The configured-ness of the
// store gets its own code; everything else is a generic internal error so
// driver detail never leaks to callers.
func (c *EventController) writeStoreError(w http.ResponseWriter, r *http.Request, err error, message string) {
	if errors.Is(err, domain.ErrStoreNotConfigured) {
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeStoreNotConfigured, "MongoDB is not configured")
		return
	}
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, message)
}
