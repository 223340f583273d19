package handler

import (
	"errors"
	"net/http"

	"lumo-assistant-api/internal/service"
	"lumo-assistant-api/pkg/apierror"
	"lumo-assistant-api/pkg/response"
)

// serviceError translates service sentinel errors into API responses.
func serviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		response.Error(w, apierror.NotFound(""))
	case errors.Is(err, service.ErrRateLimited):
		response.Error(w, apierror.TooManyRequests(""))
	case errors.Is(err, service.ErrUnavailable):
		response.Error(w, apierror.ServiceUnavailable(""))
	case errors.Is(err, service.ErrConflict):
		response.Error(w, apierror.Conflict(err.Error()))
	default:
		response.Error(w, apierror.InternalError(""))
	}
}
