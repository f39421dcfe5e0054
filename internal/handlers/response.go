package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sbilibin2017/gw-user-directory/internal/logger"
	"github.com/sbilibin2017/gw-user-directory/internal/middlewares"
	"github.com/sbilibin2017/gw-user-directory/internal/models"
	"github.com/sbilibin2017/gw-user-directory/internal/services"
	"github.com/sbilibin2017/gw-user-directory/internal/validators"
)

const (
	msgInvalidBody    = "Invalid request body"
	msgInvalidID      = "Invalid user id"
	msgDuplicateEmail = "Email already exists"
	msgInvalidRecord  = "Invalid user record"
	msgNotFound       = "User not found"
	msgInternal       = "Internal server error"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, models.ErrorResponse{Error: msg})
}

// logRequestError logs err tagged with the request id of r.
func logRequestError(r *http.Request, msg string, err error) {
	logger.Log.Errorw(msg, "request_id", middlewares.RequestIDFromContext(r.Context()), "err", err)
}

// writeUserError maps service errors to HTTP responses.
func writeUserError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validators.ValidationError

	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, services.ErrDuplicateEmail):
		writeError(w, http.StatusBadRequest, msgDuplicateEmail)
	case errors.Is(err, services.ErrInvalidRecord):
		writeError(w, http.StatusBadRequest, msgInvalidRecord)
	case errors.Is(err, services.ErrUserNotFound):
		writeError(w, http.StatusNotFound, msgNotFound)
	default:
		logRequestError(r, "internal server error", err)
		writeError(w, http.StatusInternalServerError, msgInternal)
	}
}
