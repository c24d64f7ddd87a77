package repository

import (
	"context"
	"testing"
)

func TestMemoryRepository_InsertIfAbsent_Idempotent(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	if err := repo.InsertIfAbsent(ctx, "ana@example.com", "Ana", "h1"); err != nil {
		t.Fatalf("InsertIfAbsent: %v", err)
	}
	if err := repo.InsertIfAbsent(ctx, "ana@example.com", "Other", "h2"); err != nil {
		t.Fatalf("second InsertIfAbsent: %v", err)
	}

	u, err := repo.GetByEmail(ctx, "ana@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if u == nil {
		t.Fatal("expected user")
	}
	if u.Name != "Ana" || u.PasswordHash != "h1" {
		t.Errorf("existing user was overwritten: %+v", u)
	}
	if u.ID == "" || u.CreatedAt.IsZero() {
		t.Error("ID and CreatedAt should be set")
	}
}

func TestMemoryRepository_GetByEmail_Missing(t *testing.T) {
	repo := NewMemoryRepository()
	u, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	if err != nil || u != nil {
		t.Errorf("GetByEmail = %v, %v; want nil, nil", u, err)
	}
}

func TestMemoryRepository_GetByEmail_ReturnsCopy(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	_ = repo.InsertIfAbsent(ctx, "ana@example.com", "Ana", "")

	u, _ := repo.GetByEmail(ctx, "ana@example.com")
	u.Name = "changed"
	again, _ := repo.GetByEmail(ctx, "ana@example.com")
	if again.Name != "Ana" {
		t.Errorf("Name = %q, stored user must not be aliased", again.Name)
	}
}
