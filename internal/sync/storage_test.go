package sync

import (
	"path/filepath"
	"testing"
)

func TestFileStorageRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "selections.json")
	s := NewFileStorage(path)

	if v, err := s.Load("u1"); err != nil || v != "" {
		t.Fatalf("load before save = %q, %v; want empty, nil", v, err)
	}

	if err := s.Save("u1", "42"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Save("u2", "7"); err != nil {
		t.Fatalf("save u2: %v", err)
	}

	// A fresh instance reads the same file.
	reopened := NewFileStorage(path)
	if v, _ := reopened.Load("u1"); v != "42" {
		t.Errorf("u1 = %q, want 42", v)
	}
	if v, _ := reopened.Load("u2"); v != "7" {
		t.Errorf("u2 = %q, want 7", v)
	}

	if err := reopened.Clear("u1"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if v, _ := reopened.Load("u1"); v != "" {
		t.Errorf("u1 = %q after clear, want empty", v)
	}
	if v, _ := reopened.Load("u2"); v != "7" {
		t.Errorf("u2 = %q, want untouched", v)
	}

	// Clearing an absent key is a no-op.
	if err := reopened.Clear("u3"); err != nil {
		t.Fatalf("clear absent: %v", err)
	}
}
