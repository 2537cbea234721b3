package store

import (
	"errors"
	"testing"

	"github.com/andywinn76/todo-app/internal/apperr"
)

func TestUserCreateAndAuthenticate(t *testing.T) {
	us := NewUserStore(setupTestDB(t))

	user, err := us.Create("Alice", "Alice@Example.com", "password123", "Alice", "Smith")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("username = %q, want lowercased %q", user.Username, "alice")
	}
	if user.Email != "alice@example.com" {
		t.Errorf("email = %q, want lowercased %q", user.Email, "alice@example.com")
	}

	got, err := us.Authenticate("alice", "password123")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got == nil || got.ID != user.ID {
		t.Fatal("expected matching user from authenticate")
	}

	bad, err := us.Authenticate("alice", "wrongpass")
	if err != nil {
		t.Fatalf("authenticate wrong password: %v", err)
	}
	if bad != nil {
		t.Error("expected nil user for wrong password")
	}
}

func TestUserDuplicateUsername(t *testing.T) {
	us := NewUserStore(setupTestDB(t))

	createTestUser(t, us, "alice")
	_, err := us.Create("alice", "other@example.com", "password123", "", "")
	if err == nil {
		t.Fatal("expected error for duplicate username")
	}
	var ae *apperr.Error
	if !errors.As(err, &ae) || ae.Kind != apperr.Conflict {
		t.Errorf("expected Conflict, got %v", err)
	}
}

func TestFindByIdentifier(t *testing.T) {
	us := NewUserStore(setupTestDB(t))
	user := createTestUser(t, us, "alice")

	byHandle, err := us.FindByIdentifier("alice")
	if err != nil {
		t.Fatalf("find by handle: %v", err)
	}
	if byHandle == nil || byHandle.ID != user.ID {
		t.Fatal("expected user by handle")
	}

	byEmail, err := us.FindByIdentifier("alice@example.com")
	if err != nil {
		t.Fatalf("find by email: %v", err)
	}
	if byEmail == nil || byEmail.ID != user.ID {
		t.Fatal("expected user by email")
	}

	missing, err := us.FindByIdentifier("nobody")
	if err != nil {
		t.Fatalf("find missing: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown identifier")
	}
}

func TestProfilesBatchLookup(t *testing.T) {
	us := NewUserStore(setupTestDB(t))
	alice := createTestUser(t, us, "alice")
	bob := createTestUser(t, us, "bob")

	profiles, err := us.Profiles([]int64{alice.ID, bob.ID})
	if err != nil {
		t.Fatalf("profiles: %v", err)
	}
	if len(profiles) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(profiles))
	}
	if profiles[alice.ID].Username != "alice" {
		t.Errorf("alice profile username = %q", profiles[alice.ID].Username)
	}

	empty, err := us.Profiles(nil)
	if err != nil {
		t.Fatalf("profiles empty: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected empty map, got %d entries", len(empty))
	}
}
