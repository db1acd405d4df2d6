package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shaiso/Enrolla/internal/domain"
	"github.com/shaiso/Enrolla/internal/repo"
	"github.com/shaiso/Enrolla/internal/telemetry"
)

// UserEvents — публикуемые сервисом события пользователей.
// Реализуется mq.Publisher; nil отключает публикацию.
type UserEvents interface {
	PublishUserRegistered(ctx context.Context, user *domain.User) error
}

// UserService регистрирует абитуриентов и отдаёт их данные.
type UserService struct {
	store  repo.UserStore
	events UserEvents
	logger *slog.Logger
}

// UserConfig — конфигурация для создания UserService.
type UserConfig struct {
	Store  repo.UserStore
	Events UserEvents
	Logger *slog.Logger
}

// NewUserService создаёт новый UserService.
func NewUserService(cfg UserConfig) *UserService {
	return &UserService{
		store:  cfg.Store,
		events: cfg.Events,
		logger: cfg.Logger,
	}
}

// Register создаёт пользователя по email.
// Занятый email — repo.ErrAlreadyExists. Ошибка публикации события
// логируется и не отменяет регистрацию.
func (s *UserService) Register(ctx context.Context, email string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("email %q: %w", email, ErrInvalidEmail)
	}

	user := domain.NewUser(email)
	if err := s.store.Create(ctx, user); err != nil {
		return nil, err
	}

	telemetry.RegistrationsTotal.Inc()
	telemetry.WithUserID(s.logger, user.ID).Info("user registered", "email", user.Email)

	if s.events != nil {
		if err := s.events.PublishUserRegistered(ctx, user); err != nil {
			s.logger.Warn("publish user.registered failed", "user_id", user.ID, "error", err)
		}
	}

	return user, nil
}

// Get возвращает пользователя по ID.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.store.GetByID(ctx, id)
}

// GetByEmail возвращает пользователя по email.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.store.GetByEmail(ctx, email)
}

// List возвращает пользователей постранично, новые первыми.
func (s *UserService) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.List(ctx, limit, offset)
}
