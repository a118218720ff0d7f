package session

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes вешает маршруты сессий; limit — опциональный rate limiter
// (nil в development).
func RegisterRoutes(r *mux.Router, h *Handler, limit mux.MiddlewareFunc) {
	sub := r.PathPrefix("/api/auth").Subrouter()
	if limit != nil {
		sub.Use(limit)
	}
	sub.HandleFunc("/register", h.Register).Methods(http.MethodPost)
	sub.HandleFunc("/login", h.Login).Methods(http.MethodPost)
	sub.HandleFunc("/refresh", h.Refresh).Methods(http.MethodPost)
	sub.HandleFunc("/logout", h.Logout).Methods(http.MethodPost)
	sub.HandleFunc("/me", h.Me).Methods(http.MethodGet)
}
