package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"lumo-assistant-api/internal/middleware"
	"lumo-assistant-api/internal/model"
	"lumo-assistant-api/internal/service"
	"lumo-assistant-api/pkg/apierror"
	"lumo-assistant-api/pkg/response"

	"github.com/go-chi/chi/v5"
)

// EventHandler handles calendar event HTTP requests.
type EventHandler struct {
	events *service.EventService
}

// NewEventHandler creates a new event handler.
func NewEventHandler(events *service.EventService) *EventHandler {
	return &EventHandler{events: events}
}

// EventRequest is the create/update request body.
type EventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
}

// Create handles POST /api/v1/events
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	var details []apierror.FieldError
	if req.Title == "" {
		details = append(details, apierror.FieldError{Field: "title", Message: "title is required"})
	}
	if req.StartsAt.IsZero() {
		details = append(details, apierror.FieldError{Field: "starts_at", Message: "starts_at is required"})
	}
	if !req.EndsAt.IsZero() && req.EndsAt.Before(req.StartsAt) {
		details = append(details, apierror.FieldError{Field: "ends_at", Message: "ends_at must be after starts_at"})
	}
	if len(details) > 0 {
		response.Error(w, apierror.ValidationError("validation failed", details...))
		return
	}
	if req.EndsAt.IsZero() {
		req.EndsAt = req.StartsAt.Add(time.Hour)
	}

	e, err := h.events.Create(r.Context(), middleware.GetActor(r.Context()), service.EventInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
	})
	if err != nil {
		serviceError(w, err)
		return
	}

	response.Created(w, e)
}

// List handles GET /api/v1/events
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	f := model.EventFilter{
		Page:     intQuery(q.Get("page"), 1),
		PageSize: intQuery(q.Get("page_size"), 20),
	}
	if v := q.Get("from"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			f.From = &t
		}
	}
	if v := q.Get("to"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			f.To = &t
		}
	}

	page, err := h.events.List(r.Context(), middleware.GetActor(r.Context()), f)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.JSONWithMeta(w, http.StatusOK, page.Items, f.Page, f.PageSize, page.Total)
}

// Get handles GET /api/v1/events/{id}
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	e, err := h.events.Get(r.Context(), middleware.GetActor(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		serviceError(w, err)
		return
	}
	response.OK(w, e)
}

// Update handles PUT /api/v1/events/{id}
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	e, err := h.events.Update(r.Context(), middleware.GetActor(r.Context()), chi.URLParam(r, "id"),
		service.EventInput{
			Title:       req.Title,
			Description: req.Description,
			Location:    req.Location,
			StartsAt:    req.StartsAt,
			EndsAt:      req.EndsAt,
		})
	if err != nil {
		serviceError(w, err)
		return
	}

	response.OK(w, e)
}

// Delete handles DELETE /api/v1/events/{id}
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.events.Delete(r.Context(), middleware.GetActor(r.Context()), chi.URLParam(r, "id")); err != nil {
		serviceError(w, err)
		return
	}
	response.NoContent(w)
}
