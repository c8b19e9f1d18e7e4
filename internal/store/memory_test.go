package store

import (
	"context"
	"errors"
	"testing"

	"jujujam/backend/internal/models"
)

func TestMemoryAccountsUniqueness(t *testing.T) {
	s := NewMemoryAccounts()
	ctx := context.Background()

	gid := "g-1"
	base := &models.User{Username: "alice", Email: "a@x.com", DisplayName: "Alice", GoogleID: &gid}
	if err := s.Create(ctx, base); err != nil {
		t.Fatalf("Create: %v", err)
	}

	gidAgain := "g-1"
	tests := []struct {
		name string
		u    *models.User
	}{
		{"username", &models.User{Username: "alice", Email: "b@x.com", DisplayName: "B"}},
		{"email", &models.User{Username: "bob", Email: "a@x.com", DisplayName: "B"}},
		{"google id", &models.User{Username: "carol", Email: "c@x.com", DisplayName: "C", GoogleID: &gidAgain}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.Create(ctx, tt.u); !errors.Is(err, ErrDuplicate) {
				t.Errorf("error = %v, want ErrDuplicate", err)
			}
		})
	}

	// Absent keys never collide: two accounts without a google id are fine.
	if err := s.Create(ctx, &models.User{Username: "dave", Email: "d@x.com", DisplayName: "D"}); err != nil {
		t.Fatalf("Create without keys: %v", err)
	}
	if err := s.Create(ctx, &models.User{Username: "eve", Email: "e@x.com", DisplayName: "E"}); err != nil {
		t.Fatalf("Create without keys: %v", err)
	}
}

func TestMemoryFriendshipsPairUniqueness(t *testing.T) {
	s := NewMemoryFriendships()
	ctx := context.Background()

	if err := s.Create(ctx, &models.Friendship{RequesterID: 1, RecipientID: 2, Status: models.StatusPending}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// The same pair collides regardless of direction.
	if err := s.Create(ctx, &models.Friendship{RequesterID: 1, RecipientID: 2, Status: models.StatusPending}); !errors.Is(err, ErrDuplicate) {
		t.Errorf("same direction: error = %v, want ErrDuplicate", err)
	}
	if err := s.Create(ctx, &models.Friendship{RequesterID: 2, RecipientID: 1, Status: models.StatusPending}); !errors.Is(err, ErrDuplicate) {
		t.Errorf("reverse direction: error = %v, want ErrDuplicate", err)
	}

	edge, err := s.ByPair(ctx, 2, 1)
	if err != nil {
		t.Fatalf("ByPair reversed: %v", err)
	}
	if edge.RequesterID != 1 || edge.RecipientID != 2 {
		t.Errorf("ByPair returned %+v, want the stored 1→2 edge", edge)
	}
}

func TestPairKeyOrderInsensitive(t *testing.T) {
	if models.PairKeyFor(7, 3) != models.PairKeyFor(3, 7) {
		t.Error("PairKeyFor must normalize the pair order")
	}
	if models.PairKeyFor(3, 7) != "3:7" {
		t.Errorf("PairKeyFor(3,7) = %q, want 3:7", models.PairKeyFor(3, 7))
	}
}
