package api

import (
	"log/slog"

	"github.com/shaiso/Enrolla/internal/service"
)

// Handler — главный обработчик API с зависимостями.
type Handler struct {
	users    *service.UserService
	progress *service.ProgressService
	logger   *slog.Logger
}

// Config — конфигурация для создания Handler.
type Config struct {
	Users    *service.UserService
	Progress *service.ProgressService
	Logger   *slog.Logger
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		users:    cfg.Users,
		progress: cfg.Progress,
		logger:   cfg.Logger,
	}
}
