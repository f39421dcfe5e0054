package handlers

import (
	"context"
	"net/http"

	"github.com/sbilibin2017/gw-user-directory/internal/models"
)

// UserLister defines the interface that the service must implement.
type UserLister interface {
	List(ctx context.Context, params models.ListParams) (*models.UserPage, error)
}

// NewListUsersHandler returns an HTTP handler for listing users page by page.
// @Summary List users
// @Description Returns one page of users. The search term matches name, email or address as a case-insensitive substring. Order is the store's default and is not guaranteed to be stable.
// @Tags users
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(5)
// @Param search query string false "Search term"
// @Success 200 {object} models.UserPage "Page of users"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /users [get]
func NewListUsersHandler(svc UserLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		params := models.ParseListParams(q.Get("page"), q.Get("limit"), q.Get("search"))

		page, err := svc.List(r.Context(), params)
		if err != nil {
			writeUserError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, page)
	}
}
