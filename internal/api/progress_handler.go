package api

import (
	"encoding/json"
	"net/http"

	"github.com/shaiso/Enrolla/internal/domain"
)

// GetPosition возвращает текущую позицию абитуриента.
// GET /api/v1/users/{id}/position
func (h *Handler) GetPosition(w http.ResponseWriter, r *http.Request) {
	pos, err := h.progress.CurrentPosition(r.Context(), r.PathValue("id"))
	if HandleServiceError(w, h.logger, err, "user not found") {
		return
	}

	Success(w, PositionFromEngine(pos))
}

// GetStatus возвращает итоговый статус абитуриента.
// GET /api/v1/users/{id}/status
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.progress.OverallStatus(r.Context(), r.PathValue("id"))
	if HandleServiceError(w, h.logger, err, "user not found") {
		return
	}

	Success(w, StatusResponse{Status: status})
}

// CompleteStep обрабатывает сабмит шага. Тело запроса целиком
// трактуется как payload сабмита.
// POST /api/v1/users/{id}/steps/{step}/complete
func (h *Handler) CompleteStep(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	stepName := r.PathValue("step")

	payload := domain.Payload{}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			BadRequest(w, "invalid request body")
			return
		}
	}

	result, err := h.progress.CompleteStep(r.Context(), userID, stepName, payload)
	if HandleServiceError(w, h.logger, err, "step not found") {
		return
	}

	Success(w, SubmissionFromService(result))
}
