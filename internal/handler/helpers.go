package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"treehouse/internal/domain"
	"treehouse/internal/httputil"
)

// statusClientClosedRequest is the nginx convention for requests the
// client abandoned before a response was written.
const statusClientClosedRequest = 499

// handleError converts domain errors to HTTP responses. Internal failures
// are logged with their detail and answered with a generic message.
func handleError(logger *slog.Logger, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrQuotaExceeded):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrCancelled):
		httputil.RespondError(w, statusClientClosedRequest, "request cancelled")
	case errors.Is(err, domain.ErrCyclicHierarchy):
		logger.Error("hierarchy integrity violation", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	default:
		logger.Error("unhandled error", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// messageResponse is the body for operations with no resource to return
type messageResponse struct {
	Message string `json:"message"`
}
