package handler

import (
	"encoding/json"
	"net/http"

	"lumo-assistant-api/internal/middleware"
	"lumo-assistant-api/internal/model"
	"lumo-assistant-api/internal/service"
	"lumo-assistant-api/pkg/apierror"
	"lumo-assistant-api/pkg/response"

	"github.com/go-chi/chi/v5"
)

// OrderHandler handles food order HTTP requests.
type OrderHandler struct {
	orders *service.OrderService
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// OrderRequest is the body for placing an order.
type OrderRequest struct {
	Restaurant string            `json:"restaurant"`
	Items      []model.OrderItem `json:"items"`
}

// Place handles POST /api/v1/orders
func (h *OrderHandler) Place(w http.ResponseWriter, r *http.Request) {
	var req OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	var details []apierror.FieldError
	if req.Restaurant == "" {
		details = append(details, apierror.FieldError{Field: "restaurant", Message: "restaurant is required"})
	}
	if len(req.Items) == 0 {
		details = append(details, apierror.FieldError{Field: "items", Message: "at least one item is required"})
	}
	if len(details) > 0 {
		response.Error(w, apierror.ValidationError("validation failed", details...))
		return
	}

	o, err := h.orders.Place(r.Context(), middleware.GetActor(r.Context()), service.OrderInput{
		Restaurant: req.Restaurant,
		Items:      req.Items,
	})
	if err != nil {
		serviceError(w, err)
		return
	}

	response.Created(w, o)
}

// List handles GET /api/v1/orders
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders := h.orders.List(r.Context(), middleware.GetActor(r.Context()))
	response.OK(w, orders)
}

// Get handles GET /api/v1/orders/{id}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.Get(r.Context(), middleware.GetActor(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		serviceError(w, err)
		return
	}
	response.OK(w, o)
}

// Cancel handles DELETE /api/v1/orders/{id}
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.Cancel(r.Context(), middleware.GetActor(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		serviceError(w, err)
		return
	}
	response.OK(w, o)
}
