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

// ReminderHandler handles reminder HTTP requests.
type ReminderHandler struct {
	reminders *service.ReminderService
}

// NewReminderHandler creates a new reminder handler.
func NewReminderHandler(reminders *service.ReminderService) *ReminderHandler {
	return &ReminderHandler{reminders: reminders}
}

// ReminderRequest is the create/update request body.
type ReminderRequest struct {
	Message  string     `json:"message"`
	RemindAt *time.Time `json:"remind_at"`
	Done     *bool      `json:"done"`
}

// Create handles POST /api/v1/reminders
func (h *ReminderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	var details []apierror.FieldError
	if req.Message == "" {
		details = append(details, apierror.FieldError{Field: "message", Message: "message is required"})
	}
	if req.RemindAt == nil {
		details = append(details, apierror.FieldError{Field: "remind_at", Message: "remind_at is required"})
	}
	if len(details) > 0 {
		response.Error(w, apierror.ValidationError("validation failed", details...))
		return
	}

	rem, err := h.reminders.Create(r.Context(), middleware.GetActor(r.Context()), req.Message, *req.RemindAt)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.Created(w, rem)
}

// List handles GET /api/v1/reminders
func (h *ReminderHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	f := model.ReminderFilter{
		Page:     intQuery(q.Get("page"), 1),
		PageSize: intQuery(q.Get("page_size"), 20),
	}
	if v := q.Get("done"); v != "" {
		done := v == "true"
		f.Done = &done
	}

	page, err := h.reminders.List(r.Context(), middleware.GetActor(r.Context()), f)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.JSONWithMeta(w, http.StatusOK, page.Items, f.Page, f.PageSize, page.Total)
}

// Get handles GET /api/v1/reminders/{id}
func (h *ReminderHandler) Get(w http.ResponseWriter, r *http.Request) {
	rem, err := h.reminders.Get(r.Context(), middleware.GetActor(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		serviceError(w, err)
		return
	}
	response.OK(w, rem)
}

// Update handles PUT /api/v1/reminders/{id}
func (h *ReminderHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req ReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	rem, err := h.reminders.Update(r.Context(), middleware.GetActor(r.Context()), chi.URLParam(r, "id"),
		req.Message, req.RemindAt, req.Done)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.OK(w, rem)
}

// Delete handles DELETE /api/v1/reminders/{id}
func (h *ReminderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.reminders.Delete(r.Context(), middleware.GetActor(r.Context()), chi.URLParam(r, "id")); err != nil {
		serviceError(w, err)
		return
	}
	response.NoContent(w)
}
