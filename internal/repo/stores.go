package repo

import (
	"context"
	"time"

	"github.com/shaiso/Enrolla/internal/domain"
)

// ProgressStore — хранилище прогресса абитуриентов.
//
// Реализации: ProgressRepo (Postgres) и MemoryProgressStore.
type ProgressStore interface {
	// Get возвращает запись прогресса. ErrNotFound, если записи нет.
	Get(ctx context.Context, userID string) (*domain.UserProgress, error)

	// GetOrCreate возвращает запись, создавая пустую при её отсутствии.
	// Конкурентные вызовы для одного пользователя получают одну запись.
	GetOrCreate(ctx context.Context, userID string) (*domain.UserProgress, error)

	// Save перезаписывает запись целиком.
	Save(ctx context.Context, progress *domain.UserProgress) error

	// ListStale возвращает незавершённые записи, кэш которых
	// не обновлялся после before. Используется планировщиком напоминаний.
	ListStale(ctx context.Context, before time.Time, limit int) ([]domain.UserProgress, error)
}

// UserStore — хранилище зарегистрированных пользователей.
type UserStore interface {
	// Create сохраняет пользователя. ErrAlreadyExists при занятом email.
	Create(ctx context.Context, user *domain.User) error

	// GetByID возвращает пользователя по ID. ErrNotFound, если нет.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail возвращает пользователя по email. ErrNotFound, если нет.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// List возвращает пользователей постранично, новые первыми.
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
}
