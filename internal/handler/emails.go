package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"lumo-assistant-api/internal/middleware"
	"lumo-assistant-api/internal/service"
	"lumo-assistant-api/pkg/apierror"
	"lumo-assistant-api/pkg/response"

	"github.com/go-chi/chi/v5"
)

// EmailHandler handles email draft and scheduling HTTP requests.
type EmailHandler struct {
	emails *service.EmailService
}

// NewEmailHandler creates a new email handler.
func NewEmailHandler(emails *service.EmailService) *EmailHandler {
	return &EmailHandler{emails: emails}
}

// EmailRequest is the body for drafts and scheduled emails.
type EmailRequest struct {
	To      string     `json:"to"`
	Subject string     `json:"subject"`
	Body    string     `json:"body"`
	SendAt  *time.Time `json:"send_at,omitempty"`
}

func (req *EmailRequest) validate(requireSendAt bool) []apierror.FieldError {
	var details []apierror.FieldError
	if req.To == "" {
		details = append(details, apierror.FieldError{Field: "to", Message: "to is required"})
	}
	if req.Subject == "" {
		details = append(details, apierror.FieldError{Field: "subject", Message: "subject is required"})
	}
	if requireSendAt && req.SendAt == nil {
		details = append(details, apierror.FieldError{Field: "send_at", Message: "send_at is required"})
	}
	return details
}

// CreateDraft handles POST /api/v1/emails/drafts
func (h *EmailHandler) CreateDraft(w http.ResponseWriter, r *http.Request) {
	var req EmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	if details := req.validate(false); len(details) > 0 {
		response.Error(w, apierror.ValidationError("validation failed", details...))
		return
	}

	d, err := h.emails.CreateDraft(r.Context(), middleware.GetActor(r.Context()), service.EmailInput{
		To:      req.To,
		Subject: req.Subject,
		Body:    req.Body,
	})
	if err != nil {
		serviceError(w, err)
		return
	}

	response.Created(w, d)
}

// ListDrafts handles GET /api/v1/emails/drafts
func (h *EmailHandler) ListDrafts(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.emails.ListDrafts(r.Context(), middleware.GetActor(r.Context())))
}

// GetDraft handles GET /api/v1/emails/drafts/{id}
func (h *EmailHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	d, err := h.emails.GetDraft(r.Context(), middleware.GetActor(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		serviceError(w, err)
		return
	}
	response.OK(w, d)
}

// UpdateDraft handles PUT /api/v1/emails/drafts/{id}
func (h *EmailHandler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	var req EmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	d, err := h.emails.UpdateDraft(r.Context(), middleware.GetActor(r.Context()), chi.URLParam(r, "id"),
		service.EmailInput{To: req.To, Subject: req.Subject, Body: req.Body})
	if err != nil {
		serviceError(w, err)
		return
	}

	response.OK(w, d)
}

// DeleteDraft handles DELETE /api/v1/emails/drafts/{id}
func (h *EmailHandler) DeleteDraft(w http.ResponseWriter, r *http.Request) {
	if err := h.emails.DeleteDraft(r.Context(), middleware.GetActor(r.Context()), chi.URLParam(r, "id")); err != nil {
		serviceError(w, err)
		return
	}
	response.NoContent(w)
}

// SendDraft handles POST /api/v1/emails/drafts/{id}/send
func (h *EmailHandler) SendDraft(w http.ResponseWriter, r *http.Request) {
	d, err := h.emails.Send(r.Context(), middleware.GetActor(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		serviceError(w, err)
		return
	}
	response.OK(w, d)
}

// Schedule handles POST /api/v1/emails/scheduled
func (h *EmailHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	var req EmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	if details := req.validate(true); len(details) > 0 {
		response.Error(w, apierror.ValidationError("validation failed", details...))
		return
	}

	e, err := h.emails.Schedule(r.Context(), middleware.GetActor(r.Context()),
		service.EmailInput{To: req.To, Subject: req.Subject, Body: req.Body}, *req.SendAt)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.Created(w, e)
}

// ListScheduled handles GET /api/v1/emails/scheduled
func (h *EmailHandler) ListScheduled(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.emails.ListScheduled(r.Context(), middleware.GetActor(r.Context())))
}

// CancelScheduled handles DELETE /api/v1/emails/scheduled/{id}
func (h *EmailHandler) CancelScheduled(w http.ResponseWriter, r *http.Request) {
	if err := h.emails.CancelScheduled(r.Context(), middleware.GetActor(r.Context()), chi.URLParam(r, "id")); err != nil {
		serviceError(w, err)
		return
	}
	response.NoContent(w)
}
