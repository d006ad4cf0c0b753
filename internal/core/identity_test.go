package core

import (
	"errors"
	"testing"
)

func TestGuestNamesAreSequentialAndNeverReused(t *testing.T) {
	r := NewIdentityRegistry()

	if got := r.AssignGuestName("a"); got != "Guest1" {
		t.Fatalf("first guest name = %q, want Guest1", got)
	}
	if got := r.AssignGuestName("b"); got != "Guest2" {
		t.Fatalf("second guest name = %q, want Guest2", got)
	}

	r.Release("a")
	if got := r.AssignGuestName("c"); got != "Guest3" {
		t.Fatalf("guest name after release = %q, want Guest3", got)
	}
}

func TestAttemptRename(t *testing.T) {
	tests := []struct {
		name      string
		requested string
		wantErr   error
	}{
		{name: "free name", requested: "Alice"},
		{name: "reserved prefix", requested: "Guest42", wantErr: ErrReservedPrefix},
		{name: "bare prefix", requested: "Guest", wantErr: ErrReservedPrefix},
		{name: "taken by other", requested: "Bob", wantErr: ErrNameTaken},
		{name: "own current name", requested: "Carol", wantErr: ErrNameTaken},
		{name: "case differs", requested: "bob"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewIdentityRegistry()
			r.AssignGuestName("me")
			r.AssignGuestName("other")
			if _, err := r.AttemptRename("other", "Bob"); err != nil {
				t.Fatalf("seed rename: %v", err)
			}
			if _, err := r.AttemptRename("me", "Carol"); err != nil {
				t.Fatalf("seed rename: %v", err)
			}

			previous, err := r.AttemptRename("me", tt.requested)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if got := r.NameOf("me"); got != "Carol" {
					t.Fatalf("name changed on failure: %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if previous != "Carol" {
				t.Fatalf("previous = %q, want Carol", previous)
			}
			if got := r.NameOf("me"); got != tt.requested {
				t.Fatalf("name = %q, want %q", got, tt.requested)
			}
		})
	}
}

func TestRenameFreesPreviousName(t *testing.T) {
	r := NewIdentityRegistry()
	r.AssignGuestName("a")
	r.AssignGuestName("b")

	if _, err := r.AttemptRename("a", "Alice"); err != nil {
		t.Fatalf("rename a: %v", err)
	}
	if _, err := r.AttemptRename("a", "Alicia"); err != nil {
		t.Fatalf("rename a again: %v", err)
	}
	if r.InUse("Alice") {
		t.Fatalf("Alice should be free after renaming away from it")
	}
	if _, err := r.AttemptRename("b", "Alice"); err != nil {
		t.Fatalf("b should be able to take Alice: %v", err)
	}
}

func TestReleaseFreesNameAndIsIdempotent(t *testing.T) {
	r := NewIdentityRegistry()
	r.AssignGuestName("a")
	if _, err := r.AttemptRename("a", "Alice"); err != nil {
		t.Fatalf("rename: %v", err)
	}

	r.Release("a")
	r.Release("a")
	r.Release("never-seen")

	if r.InUse("Alice") {
		t.Fatalf("Alice should be free after release")
	}
	if _, ok := r.Lookup("a"); ok {
		t.Fatalf("mapping should be gone after release")
	}
	if r.Len() != 0 {
		t.Fatalf("Len = %d, want 0", r.Len())
	}
}

func TestNameOfUnknownConnectionPanics(t *testing.T) {
	r := NewIdentityRegistry()

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for unknown connection")
		}
	}()
	r.NameOf("ghost")
}
