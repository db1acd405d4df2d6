package repo

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shaiso/Enrolla/internal/domain"
)

func TestMemoryProgressStore_GetOrCreate(t *testing.T) {
	store := NewMemoryProgressStore()
	ctx := context.Background()

	if _, err := store.Get(ctx, "u1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get before create: %v", err)
	}

	p, err := store.GetOrCreate(ctx, "u1")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if p.UserID != "u1" || len(p.NodeStatuses) != 0 {
		t.Errorf("fresh record = %+v", p)
	}

	again, err := store.GetOrCreate(ctx, "u1")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if again.UserID != "u1" {
		t.Errorf("record = %+v", again)
	}
}

func TestMemoryProgressStore_GetOrCreateConcurrent(t *testing.T) {
	store := NewMemoryProgressStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.GetOrCreate(ctx, "u1"); err != nil {
				t.Errorf("GetOrCreate: %v", err)
			}
		}()
	}
	wg.Wait()

	if _, err := store.Get(ctx, "u1"); err != nil {
		t.Fatalf("Get: %v", err)
	}
}

func TestMemoryProgressStore_CloneIsolation(t *testing.T) {
	store := NewMemoryProgressStore()
	ctx := context.Background()
	now := time.Now()

	p, _ := store.GetOrCreate(ctx, "u1")
	p.SetStatus(1, domain.StatusAccepted, now)
	p.DerivedFacts["iq_score"] = 90

	// Мутации копии не видны до Save.
	stored, _ := store.Get(ctx, "u1")
	if len(stored.NodeStatuses) != 0 || len(stored.DerivedFacts) != 0 {
		t.Fatalf("mutation leaked into store: %+v", stored)
	}

	if err := store.Save(ctx, p); err != nil {
		t.Fatalf("Save: %v", err)
	}
	stored, _ = store.Get(ctx, "u1")
	if stored.StatusOf(1) != domain.StatusAccepted {
		t.Errorf("saved record = %+v", stored)
	}

	// И наоборот: мутация уже сохранённой копии не трогает хранилище.
	p.SetStatus(2, domain.StatusRejected, now)
	stored, _ = store.Get(ctx, "u1")
	if stored.HasStatus(2) {
		t.Error("post-save mutation leaked into store")
	}
}

func TestMemoryProgressStore_ListStale(t *testing.T) {
	store := NewMemoryProgressStore()
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	save := func(userID string, status domain.OverallStatus, updatedAt time.Time) {
		p := domain.NewUserProgress(userID)
		p.CachedOverallStatus = status
		p.CacheUpdatedAt = updatedAt
		if err := store.Save(ctx, p); err != nil {
			t.Fatalf("Save %s: %v", userID, err)
		}
	}

	save("old", domain.OverallInProgress, base)
	save("older", domain.OverallInProgress, base.Add(-time.Hour))
	save("fresh", domain.OverallInProgress, base.Add(48*time.Hour))
	save("done", domain.OverallAccepted, base)

	stale, err := store.ListStale(ctx, base.Add(time.Hour), 10)
	if err != nil {
		t.Fatalf("ListStale: %v", err)
	}
	if len(stale) != 2 {
		t.Fatalf("stale = %d, want 2", len(stale))
	}
	// Старейшие первыми.
	if stale[0].UserID != "older" || stale[1].UserID != "old" {
		t.Errorf("order = %s, %s", stale[0].UserID, stale[1].UserID)
	}

	limited, err := store.ListStale(ctx, base.Add(time.Hour), 1)
	if err != nil {
		t.Fatalf("ListStale: %v", err)
	}
	if len(limited) != 1 || limited[0].UserID != "older" {
		t.Errorf("limited = %+v", limited)
	}
}

func TestMemoryUserStore_CreateAndLookup(t *testing.T) {
	store := NewMemoryUserStore()
	ctx := context.Background()

	user := domain.NewUser("ada@example.com")
	if err := store.Create(ctx, user); err != nil {
		t.Fatalf("Create: %v", err)
	}

	dup := domain.NewUser("ADA@example.com")
	if err := store.Create(ctx, dup); !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("duplicate err = %v", err)
	}

	byID, err := store.GetByID(ctx, user.ID)
	if err != nil || byID.Email != "ada@example.com" {
		t.Errorf("GetByID = %+v, %v", byID, err)
	}

	byEmail, err := store.GetByEmail(ctx, "Ada@Example.com")
	if err != nil || byEmail.ID != user.ID {
		t.Errorf("GetByEmail = %+v, %v", byEmail, err)
	}

	if _, err := store.GetByID(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing err = %v", err)
	}
}

func TestMemoryUserStore_ListPagination(t *testing.T) {
	store := NewMemoryUserStore()
	ctx := context.Background()

	for i, email := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		u := domain.NewUser(email)
		u.CreatedAt = time.Date(2026, 8, 1+i, 0, 0, 0, 0, time.UTC)
		if err := store.Create(ctx, u); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	users, err := store.List(ctx, 2, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(users) != 2 || users[0].Email != "c@x.com" {
		t.Errorf("page 1 = %+v", users)
	}

	users, err = store.List(ctx, 2, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(users) != 1 || users[0].Email != "a@x.com" {
		t.Errorf("page 2 = %+v", users)
	}

	users, err = store.List(ctx, 2, 10)
	if err != nil || users != nil {
		t.Errorf("past end = %+v, %v", users, err)
	}
}
