package users

import (
	"context"
	"testing"
)

func TestMemoryRepoUpsertAndGet(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	user := User{ID: "google:123", Username: "alice@example.com"}
	if err := repo.Upsert(ctx, user); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, err := repo.GetByID(ctx, "google:123")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Username != "alice@example.com" {
		t.Fatalf("expected username alice@example.com, got %s", got.Username)
	}

	got, err = repo.GetByUsername(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if got.ID != "google:123" {
		t.Fatalf("expected id google:123, got %s", got.ID)
	}

	if _, err := repo.GetByID(ctx, "missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryRepoUpsertOverwrites(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	repo.Upsert(ctx, User{ID: "u1", Username: "old@example.com"})
	repo.Upsert(ctx, User{ID: "u1", Username: "new@example.com"})

	got, err := repo.GetByID(ctx, "u1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Username != "new@example.com" {
		t.Fatalf("expected updated username, got %s", got.Username)
	}
}

func TestServiceValidatesInput(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	if err := svc.UpsertFromAuth(ctx, User{ID: "", Username: "x"}); err == nil {
		t.Fatalf("expected error for missing id")
	}
	if err := svc.UpsertFromAuth(ctx, User{ID: "u1", Username: " "}); err == nil {
		t.Fatalf("expected error for missing username")
	}
	if err := svc.UpsertFromAuth(ctx, User{ID: "u1", Username: "a@b.c"}); err != nil {
		t.Fatalf("UpsertFromAuth: %v", err)
	}
}
