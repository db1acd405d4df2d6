package repo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shaiso/Enrolla/internal/domain"
)

// MemoryProgressStore — потокобезопасное хранилище прогресса в памяти.
// Используется в тестах и при запуске без DB_URL.
type MemoryProgressStore struct {
	mu      sync.RWMutex
	records map[string]*domain.UserProgress
}

// NewMemoryProgressStore создаёт пустое хранилище.
func NewMemoryProgressStore() *MemoryProgressStore {
	return &MemoryProgressStore{records: make(map[string]*domain.UserProgress)}
}

// Get возвращает копию записи. ErrNotFound, если записи нет.
func (s *MemoryProgressStore) Get(_ context.Context, userID string) (*domain.UserProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.records[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return p.Clone(), nil
}

// GetOrCreate возвращает копию записи, создавая пустую при отсутствии.
func (s *MemoryProgressStore) GetOrCreate(_ context.Context, userID string) (*domain.UserProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.records[userID]
	if !ok {
		p = domain.NewUserProgress(userID)
		s.records[userID] = p
	}
	return p.Clone(), nil
}

// Save перезаписывает запись копией переданной.
func (s *MemoryProgressStore) Save(_ context.Context, progress *domain.UserProgress) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[progress.UserID] = progress.Clone()
	return nil
}

// ListStale возвращает незавершённые записи, не менявшиеся после before.
func (s *MemoryProgressStore) ListStale(_ context.Context, before time.Time, limit int) ([]domain.UserProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.UserProgress
	for _, p := range s.records {
		if p.CachedOverallStatus != domain.OverallInProgress {
			continue
		}
		if !p.CacheUpdatedAt.Before(before) {
			continue
		}
		result = append(result, *p.Clone())
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CacheUpdatedAt.Before(result[j].CacheUpdatedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// MemoryUserStore — потокобезопасное хранилище пользователей в памяти.
type MemoryUserStore struct {
	mu      sync.RWMutex
	byID    map[string]*domain.User
	byEmail map[string]*domain.User
}

// NewMemoryUserStore создаёт пустое хранилище.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

// Create сохраняет пользователя. ErrAlreadyExists при занятом email.
func (s *MemoryUserStore) Create(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, exists := s.byEmail[key]; exists {
		return ErrAlreadyExists
	}
	cp := *user
	cp.Email = key
	s.byID[cp.ID] = &cp
	s.byEmail[key] = &cp
	return nil
}

// GetByID возвращает пользователя по ID.
func (s *MemoryUserStore) GetByID(_ context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

// GetByEmail возвращает пользователя по email без учёта регистра.
func (s *MemoryUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

// List возвращает пользователей постранично, новые первыми.
func (s *MemoryUserStore) List(_ context.Context, limit, offset int) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]domain.User, 0, len(s.byID))
	for _, u := range s.byID {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})

	if offset >= len(users) {
		return nil, nil
	}
	users = users[offset:]
	if limit > 0 && len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}
