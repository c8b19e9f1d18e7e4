package store

import (
	"context"
	"errors"
	"fmt"

	"jujujam/backend/internal/models"

	"gorm.io/gorm"
)

// translate maps gorm errors onto the store's sentinel errors. Requires the
// connection to be opened with TranslateError so unique-index violations
// arrive as gorm.ErrDuplicatedKey.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
}

// GormAccounts implements Accounts on a gorm connection.
type GormAccounts struct {
	db *gorm.DB
}

func NewGormAccounts(db *gorm.DB) *GormAccounts {
	return &GormAccounts{db: db}
}

func (s *GormAccounts) Create(ctx context.Context, u *models.User) error {
	return translate(s.db.WithContext(ctx).Create(u).Error)
}

func (s *GormAccounts) Update(ctx context.Context, u *models.User) error {
	return translate(s.db.WithContext(ctx).Save(u).Error)
}

func (s *GormAccounts) ByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *GormAccounts) ByIDs(ctx context.Context, ids []uint) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []models.User
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, translate(err)
	}
	return users, nil
}

func (s *GormAccounts) ByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.first(ctx, "email = ?", email)
}

func (s *GormAccounts) ByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	return s.first(ctx, "google_id = ?", googleID)
}

func (s *GormAccounts) ByFirebaseID(ctx context.Context, firebaseID string) (*models.User, error) {
	return s.first(ctx, "firebase_id = ?", firebaseID)
}

func (s *GormAccounts) ByEmailOrUsername(ctx context.Context, email, username string) (*models.User, error) {
	return s.first(ctx, "email = ? OR username = ?", email, username)
}

func (s *GormAccounts) first(ctx context.Context, query string, args ...any) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where(query, args...).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *GormAccounts) Search(ctx context.Context, excludeID uint, search string, page, limit int) ([]models.User, error) {
	q := s.db.WithContext(ctx).Model(&models.User{}).Where("id <> ?", excludeID)
	if search != "" {
		pattern := "%" + search + "%"
		q = q.Where("username ILIKE ? OR display_name ILIKE ? OR email ILIKE ?", pattern, pattern, pattern)
	}

	var users []models.User
	offset := (page - 1) * limit
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&users).Error
	if err != nil {
		return nil, translate(err)
	}
	return users, nil
}

// GormFriendships implements Friendships on a gorm connection.
type GormFriendships struct {
	db *gorm.DB
}

func NewGormFriendships(db *gorm.DB) *GormFriendships {
	return &GormFriendships{db: db}
}

func (s *GormFriendships) Create(ctx context.Context, f *models.Friendship) error {
	return translate(s.db.WithContext(ctx).Create(f).Error)
}

func (s *GormFriendships) Update(ctx context.Context, f *models.Friendship) error {
	return translate(s.db.WithContext(ctx).Save(f).Error)
}

func (s *GormFriendships) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Friendship{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormFriendships) ByID(ctx context.Context, id uint) (*models.Friendship, error) {
	var f models.Friendship
	if err := s.db.WithContext(ctx).First(&f, id).Error; err != nil {
		return nil, translate(err)
	}
	return &f, nil
}

func (s *GormFriendships) ByPair(ctx context.Context, a, b uint) (*models.Friendship, error) {
	var f models.Friendship
	err := s.db.WithContext(ctx).Where("pair_key = ?", models.PairKeyFor(a, b)).First(&f).Error
	if err != nil {
		return nil, translate(err)
	}
	return &f, nil
}

func (s *GormFriendships) Accepted(ctx context.Context, userID uint) ([]models.Friendship, error) {
	return s.find(ctx, "(requester_id = ? OR recipient_id = ?) AND status = ?", userID, userID, models.StatusAccepted)
}

func (s *GormFriendships) PendingTo(ctx context.Context, userID uint) ([]models.Friendship, error) {
	return s.find(ctx, "recipient_id = ? AND status = ?", userID, models.StatusPending)
}

func (s *GormFriendships) PendingFrom(ctx context.Context, userID uint) ([]models.Friendship, error) {
	return s.find(ctx, "requester_id = ? AND status = ?", userID, models.StatusPending)
}

func (s *GormFriendships) Touching(ctx context.Context, userID uint) ([]models.Friendship, error) {
	return s.find(ctx, "requester_id = ? OR recipient_id = ?", userID, userID)
}

func (s *GormFriendships) find(ctx context.Context, query string, args ...any) ([]models.Friendship, error) {
	var edges []models.Friendship
	if err := s.db.WithContext(ctx).Where(query, args...).Find(&edges).Error; err != nil {
		return nil, translate(err)
	}
	return edges, nil
}
