package api

import (
	"time"

	"github.com/shaiso/Enrolla/internal/domain"
	"github.com/shaiso/Enrolla/internal/engine"
	"github.com/shaiso/Enrolla/internal/service"
)

// User DTOs

// RegisterUserRequest — запрос на регистрацию абитуриента.
type RegisterUserRequest struct {
	Email string `json:"email"`
}

// UserResponse — ответ с пользователем.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// UserFromDomain конвертирует domain.User в UserResponse.
func UserFromDomain(u domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// Flow DTOs

// TaskResponse — задача шага.
type TaskResponse struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// StepResponse — шаг с видимыми задачами.
type StepResponse struct {
	ID     int            `json:"id"`
	Name   string         `json:"name"`
	Status string         `json:"status"`
	Tasks  []TaskResponse `json:"tasks"`
}

// StepsFromViews конвертирует service.StepView в ответ API.
func StepsFromViews(views []service.StepView) []StepResponse {
	steps := make([]StepResponse, len(views))
	for i, v := range views {
		step := StepResponse{
			ID:     v.ID,
			Name:   v.Name,
			Status: string(v.Status),
			Tasks:  make([]TaskResponse, len(v.Tasks)),
		}
		for j, t := range v.Tasks {
			step.Tasks[j] = TaskResponse{
				ID:     t.ID,
				Name:   t.Name,
				Status: string(t.Status),
			}
		}
		steps[i] = step
	}
	return steps
}

// Progress DTOs

// PositionResponse — текущая позиция абитуриента.
// Пустой step_name означает завершённый процесс.
type PositionResponse struct {
	StepName string `json:"step_name,omitempty"`
	TaskName string `json:"task_name,omitempty"`
	Finished bool   `json:"finished"`
}

// PositionFromEngine конвертирует engine.Position в ответ API.
func PositionFromEngine(p engine.Position) PositionResponse {
	return PositionResponse{
		StepName: p.StepName,
		TaskName: p.TaskName,
		Finished: p.StepName == "",
	}
}

// StatusResponse — итоговый статус абитуриента.
type StatusResponse struct {
	Status domain.OverallStatus `json:"status"`
}

// SubmissionResponse — исход обработки сабмита.
type SubmissionResponse struct {
	StepName string               `json:"step_name"`
	TaskName string               `json:"task_name,omitempty"`
	Applied  bool                 `json:"applied"`
	Accepted bool                 `json:"accepted"`
	Overall  domain.OverallStatus `json:"overall_status"`
}

// SubmissionFromService конвертирует service.SubmissionResult в ответ API.
func SubmissionFromService(r *service.SubmissionResult) SubmissionResponse {
	return SubmissionResponse{
		StepName: r.StepName,
		TaskName: r.TaskName,
		Applied:  r.Applied,
		Accepted: r.Accepted,
		Overall:  r.Overall,
	}
}
