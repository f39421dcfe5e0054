package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-user-directory/internal/logger"
	"github.com/sbilibin2017/gw-user-directory/internal/middlewares"
	"github.com/sbilibin2017/gw-user-directory/internal/models"
)

// UserUpdater defines the interface that the service must implement.
type UserUpdater interface {
	Update(ctx context.Context, id uuid.UUID, candidate models.UserCandidate) (*models.UserDB, error)
}

// NewUpdateUserHandler returns an HTTP handler that replaces a user.
// @Summary Update a user
// @Description Replaces every field of the user. Partial updates are not supported, the full record must be sent.
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param user body models.UserCandidate true "Replacement user"
// @Success 200 {object} models.UserResponse "User updated"
// @Failure 400 {object} models.ErrorResponse "Invalid user / invalid id / email already exists"
// @Failure 404 {object} models.ErrorResponse "User not found"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /users/{id} [put]
func NewUpdateUserHandler(svc UserUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, msgInvalidID)
			return
		}

		var candidate models.UserCandidate
		if err := json.NewDecoder(r.Body).Decode(&candidate); err != nil {
			logger.Log.Infow("invalid update request body", "request_id", middlewares.RequestIDFromContext(r.Context()), "err", err)
			writeError(w, http.StatusBadRequest, msgInvalidBody)
			return
		}

		user, err := svc.Update(r.Context(), id, candidate)
		if err != nil {
			writeUserError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, models.UserResponse{
			Message: "User updated successfully",
			Data:    user,
		})
	}
}
