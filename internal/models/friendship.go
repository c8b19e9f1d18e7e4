package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// FriendshipStatus is the state of a stored relationship edge.
type FriendshipStatus string

const (
	// StatusPending means a friend request has been sent but not yet answered.
	StatusPending FriendshipStatus = "pending"

	// StatusAccepted means the two users are friends.
	StatusAccepted FriendshipStatus = "accepted"

	// StatusBlocked is representable but inert: no operation here creates it,
	// and a pair carrying it refuses new requests. Rejection deletes the row
	// instead of using a terminal status, so a declined request never blocks
	// a future one.
	StatusBlocked FriendshipStatus = "blocked"
)

// Friendship is a directed relationship edge: RequesterID initiated the
// request towards RecipientID. Lookups treat the pair as unordered; PairKey
// normalizes the two ids so a unique index can enforce at most one edge per
// pair regardless of direction.
type Friendship struct {
	ID          uint             `gorm:"primaryKey"`
	RequesterID uint             `gorm:"not null;index"`
	RecipientID uint             `gorm:"not null;index"`
	Status      FriendshipStatus `gorm:"type:varchar(20);not null"`
	PairKey     string           `gorm:"size:41;uniqueIndex;not null"`
	RequestedAt time.Time        `gorm:"autoCreateTime"`
	// RespondedAt stays nil until the recipient acts on the request.
	RespondedAt *time.Time

	Requester User `gorm:"foreignKey:RequesterID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Recipient User `gorm:"foreignKey:RecipientID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// PairKeyFor normalizes an unordered pair of user ids into the value stored
// in PairKey.
func PairKeyFor(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}

// BeforeCreate keeps PairKey consistent with the edge's endpoints.
func (f *Friendship) BeforeCreate(tx *gorm.DB) error {
	f.PairKey = PairKeyFor(f.RequesterID, f.RecipientID)
	return nil
}

// OtherID returns the endpoint of the edge that is not the given user.
func (f *Friendship) OtherID(userID uint) uint {
	if f.RequesterID == userID {
		return f.RecipientID
	}
	return f.RequesterID
}
