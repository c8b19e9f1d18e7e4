package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"jujujam/backend/internal/models"
)

// MemoryAccounts is an in-memory Accounts implementation with the same
// uniqueness behavior as the Postgres-backed store. Intended for tests and
// local development without a database.
type MemoryAccounts struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]models.User
}

func NewMemoryAccounts() *MemoryAccounts {
	return &MemoryAccounts{nextID: 1, users: make(map[uint]models.User)}
}

func (s *MemoryAccounts) Create(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return ErrDuplicate
		}
		if u.GoogleID != nil && existing.GoogleID != nil && *existing.GoogleID == *u.GoogleID {
			return ErrDuplicate
		}
		if u.FirebaseID != nil && existing.FirebaseID != nil && *existing.FirebaseID == *u.FirebaseID {
			return ErrDuplicate
		}
	}

	u.ID = s.nextID
	s.nextID++
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	s.users[u.ID] = *u
	return nil
}

func (s *MemoryAccounts) Update(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[u.ID]; !ok {
		return ErrNotFound
	}
	for id, existing := range s.users {
		if id == u.ID {
			continue
		}
		if existing.Username == u.Username || existing.Email == u.Email {
			return ErrDuplicate
		}
		if u.GoogleID != nil && existing.GoogleID != nil && *existing.GoogleID == *u.GoogleID {
			return ErrDuplicate
		}
		if u.FirebaseID != nil && existing.FirebaseID != nil && *existing.FirebaseID == *u.FirebaseID {
			return ErrDuplicate
		}
	}
	s.users[u.ID] = *u
	return nil
}

func (s *MemoryAccounts) ByID(_ context.Context, id uint) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemoryAccounts) ByIDs(_ context.Context, ids []uint) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.User
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *MemoryAccounts) ByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.match(func(u models.User) bool { return u.Email == email })
}

func (s *MemoryAccounts) ByGoogleID(_ context.Context, googleID string) (*models.User, error) {
	return s.match(func(u models.User) bool { return u.GoogleID != nil && *u.GoogleID == googleID })
}

func (s *MemoryAccounts) ByFirebaseID(_ context.Context, firebaseID string) (*models.User, error) {
	return s.match(func(u models.User) bool { return u.FirebaseID != nil && *u.FirebaseID == firebaseID })
}

func (s *MemoryAccounts) ByEmailOrUsername(_ context.Context, email, username string) (*models.User, error) {
	return s.match(func(u models.User) bool { return u.Email == email || u.Username == username })
}

func (s *MemoryAccounts) match(pred func(models.User) bool) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if pred(u) {
			u := u
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryAccounts) Search(_ context.Context, excludeID uint, search string, page, limit int) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	needle := strings.ToLower(search)
	var matched []models.User
	for _, u := range s.users {
		if u.ID == excludeID {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(u.Username), needle) &&
			!strings.Contains(strings.ToLower(u.DisplayName), needle) &&
			!strings.Contains(strings.ToLower(u.Email), needle) {
			continue
		}
		matched = append(matched, u)
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	start := (page - 1) * limit
	if start >= len(matched) {
		return nil, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], nil
}

// MemoryFriendships is an in-memory Friendships implementation enforcing the
// unordered-pair uniqueness invariant.
type MemoryFriendships struct {
	mu     sync.Mutex
	nextID uint
	edges  map[uint]models.Friendship
}

func NewMemoryFriendships() *MemoryFriendships {
	return &MemoryFriendships{nextID: 1, edges: make(map[uint]models.Friendship)}
}

func (s *MemoryFriendships) Create(_ context.Context, f *models.Friendship) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f.PairKey = models.PairKeyFor(f.RequesterID, f.RecipientID)
	for _, existing := range s.edges {
		if existing.PairKey == f.PairKey {
			return ErrDuplicate
		}
	}

	f.ID = s.nextID
	s.nextID++
	if f.RequestedAt.IsZero() {
		f.RequestedAt = time.Now()
	}
	s.edges[f.ID] = *f
	return nil
}

func (s *MemoryFriendships) Update(_ context.Context, f *models.Friendship) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.edges[f.ID]; !ok {
		return ErrNotFound
	}
	s.edges[f.ID] = *f
	return nil
}

func (s *MemoryFriendships) Delete(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.edges[id]; !ok {
		return ErrNotFound
	}
	delete(s.edges, id)
	return nil
}

func (s *MemoryFriendships) ByID(_ context.Context, id uint) (*models.Friendship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.edges[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &f, nil
}

func (s *MemoryFriendships) ByPair(_ context.Context, a, b uint) (*models.Friendship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := models.PairKeyFor(a, b)
	for _, f := range s.edges {
		if f.PairKey == key {
			f := f
			return &f, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryFriendships) Accepted(_ context.Context, userID uint) ([]models.Friendship, error) {
	return s.filter(func(f models.Friendship) bool {
		return f.Status == models.StatusAccepted && (f.RequesterID == userID || f.RecipientID == userID)
	})
}

func (s *MemoryFriendships) PendingTo(_ context.Context, userID uint) ([]models.Friendship, error) {
	return s.filter(func(f models.Friendship) bool {
		return f.Status == models.StatusPending && f.RecipientID == userID
	})
}

func (s *MemoryFriendships) PendingFrom(_ context.Context, userID uint) ([]models.Friendship, error) {
	return s.filter(func(f models.Friendship) bool {
		return f.Status == models.StatusPending && f.RequesterID == userID
	})
}

func (s *MemoryFriendships) Touching(_ context.Context, userID uint) ([]models.Friendship, error) {
	return s.filter(func(f models.Friendship) bool {
		return f.RequesterID == userID || f.RecipientID == userID
	})
}

func (s *MemoryFriendships) filter(pred func(models.Friendship) bool) ([]models.Friendship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Friendship
	for _, f := range s.edges {
		if pred(f) {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
