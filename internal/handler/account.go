package handler

import (
	"net/http"

	"lumo-assistant-api/internal/middleware"
	"lumo-assistant-api/internal/repository"
	"lumo-assistant-api/pkg/response"

	"go.uber.org/zap"
)

// AccountHandler resolves the acting user against the optional
// directory. Without a directory it simply reflects the actor ID.
type AccountHandler struct {
	accounts repository.AccountRepository // nil when MySQL is not configured
	log      *zap.Logger
}

// NewAccountHandler creates a new account handler.
func NewAccountHandler(accounts repository.AccountRepository, log *zap.Logger) *AccountHandler {
	return &AccountHandler{accounts: accounts, log: log}
}

// Me handles GET /api/v1/me
func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	if h.accounts != nil {
		acc, err := h.accounts.GetByUserID(r.Context(), actor)
		if err != nil {
			h.log.Warn("account lookup failed", zap.String("user_id", actor), zap.Error(err))
		} else if acc != nil {
			response.OK(w, acc)
			return
		}
	}

	response.OK(w, map[string]string{"user_id": actor})
}
