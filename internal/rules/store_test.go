package rules

import (
	"testing"
)

func TestStore_RoundTrip(t *testing.T) {
	s := NewStore(t.TempDir())

	if s.Exists() {
		t.Fatal("fresh store must not report rules")
	}
	if _, err := s.Load(); err == nil {
		t.Fatal("loading missing rules must fail")
	}

	if err := s.Save([]byte("Always use typed GDScript.")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !s.Exists() {
		t.Fatal("store must report rules after save")
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != "Always use typed GDScript." {
		t.Errorf("load mismatch: %q", got)
	}
}

func TestStore_SaveOverwrites(t *testing.T) {
	s := NewStore(t.TempDir())
	if err := s.Save([]byte("first")); err != nil {
		t.Fatal(err)
	}
	if err := s.Save([]byte("second")); err != nil {
		t.Fatal(err)
	}
	got, _ := s.Load()
	if got != "second" {
		t.Errorf("expected overwrite, got %q", got)
	}
}

func TestStore_EmptyDocumentStillExists(t *testing.T) {
	s := NewStore(t.TempDir())
	if err := s.Save(nil); err != nil {
		t.Fatal(err)
	}
	// Presence, not non-emptiness, gates rules attachment.
	if !s.Exists() {
		t.Fatal("empty rules document must still exist")
	}
	got, err := s.Load()
	if err != nil || got != "" {
		t.Errorf("load empty: %q, %v", got, err)
	}
}
