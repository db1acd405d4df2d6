package api

import "net/http"

// GetFlow возвращает процесс глазами нового пользователя:
// все шаги с задачами, видимыми без накопленных фактов.
// GET /api/v1/flow
func (h *Handler) GetFlow(w http.ResponseWriter, r *http.Request) {
	views, err := h.progress.VisibleFlow(r.Context(), "")
	if HandleServiceError(w, h.logger, err, "") {
		return
	}

	Success(w, StepsFromViews(views))
}

// GetUserFlow возвращает процесс глазами конкретного пользователя.
// GET /api/v1/users/{id}/flow
func (h *Handler) GetUserFlow(w http.ResponseWriter, r *http.Request) {
	views, err := h.progress.VisibleFlow(r.Context(), r.PathValue("id"))
	if HandleServiceError(w, h.logger, err, "user not found") {
		return
	}

	Success(w, StepsFromViews(views))
}
