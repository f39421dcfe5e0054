package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sbilibin2017/gw-user-directory/internal/logger"
	"github.com/sbilibin2017/gw-user-directory/internal/middlewares"
	"github.com/sbilibin2017/gw-user-directory/internal/models"
)

// UserCreator defines the interface that the service must implement.
type UserCreator interface {
	Create(ctx context.Context, candidate models.UserCandidate) (*models.UserDB, error)
}

// NewCreateUserHandler returns an HTTP handler for user creation.
// @Summary Create a user
// @Description Validates and stores a new user. Email is trimmed, lowercased and must be unique.
// @Tags users
// @Accept json
// @Produce json
// @Param user body models.UserCandidate true "User to create"
// @Success 201 {object} models.UserResponse "User created"
// @Failure 400 {object} models.ErrorResponse "Invalid user / email already exists"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /users [post]
func NewCreateUserHandler(svc UserCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var candidate models.UserCandidate

		if err := json.NewDecoder(r.Body).Decode(&candidate); err != nil {
			logger.Log.Infow("invalid create request body", "request_id", middlewares.RequestIDFromContext(r.Context()), "err", err)
			writeError(w, http.StatusBadRequest, msgInvalidBody)
			return
		}

		user, err := svc.Create(r.Context(), candidate)
		if err != nil {
			writeUserError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, models.UserResponse{
			Message: "User created successfully",
			Data:    user,
		})
	}
}
