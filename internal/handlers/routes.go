package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

//go:generate mockgen -destination=handlers_mock.go -package=handlers github.com/sbilibin2017/gw-user-directory/internal/handlers UserLister,UserCreator,UserUpdater,UserDeleter

// UserHandlers groups the handlers served under /users.
type UserHandlers struct {
	List   http.HandlerFunc
	Create http.HandlerFunc
	Update http.HandlerFunc
	Delete http.HandlerFunc
}

// RegisterUserHandlers registers routes for user CRUD
func RegisterUserHandlers(r chi.Router, h UserHandlers) {
	r.Route("/users", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}
