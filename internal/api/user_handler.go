package api

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// RegisterUser регистрирует нового абитуриента.
// POST /api/v1/users
func (h *Handler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req RegisterUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	user, err := h.users.Register(r.Context(), req.Email)
	if HandleServiceError(w, h.logger, err, "") {
		return
	}

	Created(w, UserFromDomain(*user))
}

// GetUser возвращает пользователя по ID.
// GET /api/v1/users/{id}
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Get(r.Context(), r.PathValue("id"))
	if HandleServiceError(w, h.logger, err, "user not found") {
		return
	}

	Success(w, UserFromDomain(*user))
}

// ListUsers возвращает список пользователей.
// GET /api/v1/users?limit=...&offset=...
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	users, err := h.users.List(r.Context(), limit, offset)
	if HandleServiceError(w, h.logger, err, "") {
		return
	}

	result := make([]UserResponse, len(users))
	for i, u := range users {
		result[i] = UserFromDomain(u)
	}

	List(w, result, len(result))
}

// queryInt читает целочисленный query-параметр с дефолтом.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
