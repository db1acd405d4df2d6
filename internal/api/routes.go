package api

import (
	"net/http"
)

// RegisterRoutes регистрирует все маршруты API.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Middleware chain
	chain := Chain(
		Recovery(h.logger),
		Logging(h.logger),
	)

	// Users
	mux.Handle("POST /api/v1/users", chain(http.HandlerFunc(h.RegisterUser)))
	mux.Handle("GET /api/v1/users", chain(http.HandlerFunc(h.ListUsers)))
	mux.Handle("GET /api/v1/users/{id}", chain(http.HandlerFunc(h.GetUser)))

	// Flow
	mux.Handle("GET /api/v1/flow", chain(http.HandlerFunc(h.GetFlow)))
	mux.Handle("GET /api/v1/users/{id}/flow", chain(http.HandlerFunc(h.GetUserFlow)))

	// Progress
	mux.Handle("GET /api/v1/users/{id}/position", chain(http.HandlerFunc(h.GetPosition)))
	mux.Handle("GET /api/v1/users/{id}/status", chain(http.HandlerFunc(h.GetStatus)))
	mux.Handle("POST /api/v1/users/{id}/steps/{step}/complete", chain(http.HandlerFunc(h.CompleteStep)))
}
