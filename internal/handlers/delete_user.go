package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-user-directory/internal/models"
)

// UserDeleter defines the interface that the service must implement.
type UserDeleter interface {
	Delete(ctx context.Context, id uuid.UUID) error
}

// NewDeleteUserHandler returns an HTTP handler for user removal.
// @Summary Delete a user
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} models.MessageResponse "User deleted"
// @Failure 400 {object} models.ErrorResponse "Invalid id"
// @Failure 404 {object} models.ErrorResponse "User not found"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /users/{id} [delete]
func NewDeleteUserHandler(svc UserDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, msgInvalidID)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			writeUserError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, models.MessageResponse{
			Message: "User deleted successfully",
		})
	}
}
