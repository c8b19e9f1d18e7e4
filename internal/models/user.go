package models

import (
	"time"

	"gorm.io/gorm"
)

// DefaultAvatar is the sentinel avatar reference assigned at creation until a
// provider claim backfills a real picture URL.
const DefaultAvatar = "default-avatar.png"

// User is the canonical account record. An account may be reachable through a
// local password, a federated-provider identity, a Google identity, or any
// combination, but always through at least one of them.
type User struct {
	gorm.Model
	Username    string `gorm:"size:30;uniqueIndex;not null"`
	Email       string `gorm:"size:255;uniqueIndex;not null"`
	DisplayName string `gorm:"size:50;not null"`
	Bio         string `gorm:"size:200;not null;default:''"`
	Avatar      string `gorm:"size:512;not null;default:'default-avatar.png'"`
	IsVerified  bool   `gorm:"not null;default:false"`
	LastActive  time.Time

	// PasswordHash is nil for accounts created by a federated or OAuth
	// first-login; local password login is impossible for them until a
	// local secret is registered.
	PasswordHash *string `gorm:"size:255"`

	// External identity keys. Unique when present: the unique indexes
	// ignore NULL rows, so any number of accounts may lack a key but no
	// two may share one.
	FirebaseID *string `gorm:"size:128;uniqueIndex"`
	GoogleID   *string `gorm:"size:128;uniqueIndex"`
}

// HasProof reports whether at least one authentication method is attached.
// An account with none would be unreachable and must never be stored.
func (u *User) HasProof() bool {
	return u.PasswordHash != nil || u.FirebaseID != nil || u.GoogleID != nil
}
