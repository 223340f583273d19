package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"lumo-assistant-api/internal/middleware"
	"lumo-assistant-api/internal/model"
	"lumo-assistant-api/internal/service"
	"lumo-assistant-api/pkg/apierror"
	"lumo-assistant-api/pkg/response"

	"github.com/go-chi/chi/v5"
)

// TaskHandler handles task-related HTTP requests.
type TaskHandler struct {
	tasks *service.TaskService
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(tasks *service.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// TaskRequest is the create/update request body.
type TaskRequest struct {
	Title     string     `json:"title"`
	Notes     string     `json:"notes"`
	Priority  string     `json:"priority"`
	DueAt     *time.Time `json:"due_at"`
	Completed *bool      `json:"completed"`
}

// Create handles POST /api/v1/tasks
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req TaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	if req.Title == "" {
		response.Error(w, apierror.ValidationError("validation failed",
			apierror.FieldError{Field: "title", Message: "title is required"}))
		return
	}

	t, err := h.tasks.Create(r.Context(), middleware.GetActor(r.Context()), service.TaskCreateInput{
		Title:    req.Title,
		Notes:    req.Notes,
		Priority: req.Priority,
		DueAt:    req.DueAt,
	})
	if err != nil {
		serviceError(w, err)
		return
	}

	response.Created(w, t)
}

// List handles GET /api/v1/tasks
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	f := model.TaskFilter{
		Priority: q.Get("priority"),
		Page:     intQuery(q.Get("page"), 1),
		PageSize: intQuery(q.Get("page_size"), 20),
	}
	if v := q.Get("completed"); v != "" {
		completed := v == "true"
		f.Completed = &completed
	}

	page, err := h.tasks.List(r.Context(), middleware.GetActor(r.Context()), f)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.JSONWithMeta(w, http.StatusOK, page.Items, f.Page, f.PageSize, page.Total)
}

// Get handles GET /api/v1/tasks/{id}
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	t, err := h.tasks.Get(r.Context(), middleware.GetActor(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		serviceError(w, err)
		return
	}
	response.OK(w, t)
}

// Update handles PUT /api/v1/tasks/{id}
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req TaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	t, err := h.tasks.Update(r.Context(), middleware.GetActor(r.Context()), chi.URLParam(r, "id"),
		service.TaskCreateInput{
			Title:    req.Title,
			Notes:    req.Notes,
			Priority: req.Priority,
			DueAt:    req.DueAt,
		}, req.Completed)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.OK(w, t)
}

// Delete handles DELETE /api/v1/tasks/{id}
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.tasks.Delete(r.Context(), middleware.GetActor(r.Context()), chi.URLParam(r, "id")); err != nil {
		serviceError(w, err)
		return
	}
	response.NoContent(w)
}

// intQuery parses a positive integer query param with a fallback.
func intQuery(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
