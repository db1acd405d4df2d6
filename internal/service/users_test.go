package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shaiso/Enrolla/internal/domain"
	"github.com/shaiso/Enrolla/internal/repo"
)

type captureUserEvents struct {
	mu         sync.Mutex
	registered []*domain.User
}

func (c *captureUserEvents) PublishUserRegistered(_ context.Context, user *domain.User) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.registered = append(c.registered, user)
	return nil
}

func newUserService() (*UserService, *captureUserEvents) {
	events := &captureUserEvents{}
	svc := NewUserService(UserConfig{
		Store:  repo.NewMemoryUserStore(),
		Events: events,
		Logger: testLogger(),
	})
	return svc, events
}

func TestRegister_NormalizesEmail(t *testing.T) {
	svc, events := newUserService()

	user, err := svc.Register(context.Background(), "  Ada@Example.COM ")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Email != "ada@example.com" {
		t.Errorf("email = %q", user.Email)
	}
	if user.ID == "" {
		t.Error("empty user ID")
	}
	if len(events.registered) != 1 {
		t.Errorf("registered events = %d, want 1", len(events.registered))
	}
}

func TestRegister_InvalidEmail(t *testing.T) {
	svc, _ := newUserService()

	for _, email := range []string{"", "   ", "not-an-email"} {
		if _, err := svc.Register(context.Background(), email); !errors.Is(err, ErrInvalidEmail) {
			t.Errorf("Register(%q) err = %v, want ErrInvalidEmail", email, err)
		}
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, events := newUserService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "ada@example.com"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	// Регистр не спасает: email нормализуется до сравнения.
	if _, err := svc.Register(ctx, "ADA@example.com"); !errors.Is(err, repo.ErrAlreadyExists) {
		t.Errorf("err = %v, want ErrAlreadyExists", err)
	}
	if len(events.registered) != 1 {
		t.Errorf("registered events = %d, want 1", len(events.registered))
	}
}

func TestUserService_GetAndList(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	created, err := svc.Register(ctx, "ada@example.com")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	byID, err := svc.Get(ctx, created.ID)
	if err != nil || byID.Email != created.Email {
		t.Errorf("Get = %+v, %v", byID, err)
	}

	byEmail, err := svc.GetByEmail(ctx, "ada@example.com")
	if err != nil || byEmail.ID != created.ID {
		t.Errorf("GetByEmail = %+v, %v", byEmail, err)
	}

	if _, err := svc.Get(ctx, "missing"); !errors.Is(err, repo.ErrNotFound) {
		t.Errorf("Get missing err = %v", err)
	}

	users, err := svc.List(ctx, 0, -1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(users) != 1 {
		t.Errorf("users = %d, want 1", len(users))
	}
}
