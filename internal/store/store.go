// Package store persists accounts and friendship edges. Both stores enforce
// their uniqueness invariants with unique indexes rather than check-then-
// insert, so concurrent writers surface as ErrDuplicate for callers to
// translate.
package store

import (
	"context"
	"errors"

	"jujujam/backend/internal/models"
)

var (
	// ErrNotFound means the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate means an insert or update violated a uniqueness
	// constraint (username, email, external identity key, or pair key).
	ErrDuplicate = errors.New("duplicate key")

	// ErrUnavailable wraps infrastructure failures. It is the only store
	// error callers may retry.
	ErrUnavailable = errors.New("store unavailable")
)

// Accounts is the canonical user table.
type Accounts interface {
	Create(ctx context.Context, u *models.User) error
	Update(ctx context.Context, u *models.User) error
	ByID(ctx context.Context, id uint) (*models.User, error)
	ByIDs(ctx context.Context, ids []uint) ([]models.User, error)
	ByEmail(ctx context.Context, email string) (*models.User, error)
	ByGoogleID(ctx context.Context, googleID string) (*models.User, error)
	ByFirebaseID(ctx context.Context, firebaseID string) (*models.User, error)
	// ByEmailOrUsername matches either column; used for duplicate checks.
	ByEmailOrUsername(ctx context.Context, email, username string) (*models.User, error)
	// Search lists accounts other than excludeID, optionally filtered by a
	// case-insensitive substring over username, display name and email,
	// newest first.
	Search(ctx context.Context, excludeID uint, search string, page, limit int) ([]models.User, error)
}

// Friendships is the relationship-edge table.
type Friendships interface {
	Create(ctx context.Context, f *models.Friendship) error
	Update(ctx context.Context, f *models.Friendship) error
	Delete(ctx context.Context, id uint) error
	ByID(ctx context.Context, id uint) (*models.Friendship, error)
	// ByPair looks the pair up order-insensitively.
	ByPair(ctx context.Context, a, b uint) (*models.Friendship, error)
	// Accepted returns accepted edges touching the user in either role.
	Accepted(ctx context.Context, userID uint) ([]models.Friendship, error)
	// PendingTo returns pending edges where the user is the recipient.
	PendingTo(ctx context.Context, userID uint) ([]models.Friendship, error)
	// PendingFrom returns pending edges where the user is the requester.
	PendingFrom(ctx context.Context, userID uint) ([]models.Friendship, error)
	// Touching returns every edge the user participates in, any status.
	Touching(ctx context.Context, userID uint) ([]models.Friendship, error)
}
