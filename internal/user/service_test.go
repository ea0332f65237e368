package user

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestServiceRegister(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{
		Username:  "alice",
		Email:     "alice@example.com",
		FirstName: "Alice",
		LastName:  "Doe",
		Password:  "correct horse",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.ID == 0 {
		t.Fatal("expected an assigned id")
	}
	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte("correct horse")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestServiceRegisterValidation(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Username: "", Password: "long enough"}); err == nil {
		t.Fatal("expected error for empty username")
	}
	if _, err := svc.Register(ctx, RegisterInput{Username: "bob", Password: "short"}); err == nil {
		t.Fatal("expected error for short password")
	}
}

func TestServiceRegisterDuplicateUsername(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Username: "alice", Password: "correct horse"}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(ctx, RegisterInput{Username: "alice", Password: "correct horse"}); err != ErrUsernameTaken {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestServiceListOrdersByID(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	for _, name := range []string{"carol", "alice", "bob"} {
		if _, err := svc.Register(ctx, RegisterInput{Username: name, Password: "correct horse"}); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}

	users, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("expected 3 users, got %d", len(users))
	}
	for i := 1; i < len(users); i++ {
		if users[i-1].ID >= users[i].ID {
			t.Fatalf("users not ascending by id: %+v", users)
		}
	}
}
