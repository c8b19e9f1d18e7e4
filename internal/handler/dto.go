package handler

import (
	"time"

	"jujujam/backend/internal/friendship"
	"jujujam/backend/internal/models"
)

// region --- Inputs ---

// RegisterInput defines the structure for user registration.
type RegisterInput struct {
	Username    string `json:"username" binding:"required,min=3,max=30" example:"alice"`
	Email       string `json:"email" binding:"required,email" example:"alice@example.com"`
	Password    string `json:"password" binding:"required,min=8" example:"password123"`
	DisplayName string `json:"displayName" binding:"required,max=50" example:"Alice"`
	FirebaseID  string `json:"firebaseId,omitempty"`
}

// LoginInput defines the structure for user login. Password may be omitted
// when a federated id is supplied.
type LoginInput struct {
	Email      string `json:"email" binding:"required,email" example:"alice@example.com"`
	Password   string `json:"password"`
	FirebaseID string `json:"firebaseId,omitempty"`
}

// GoogleAuthInput carries the raw Google ID token.
type GoogleAuthInput struct {
	IDToken string `json:"idToken" binding:"required"`
}

// FriendRequestInput names the account to send a request to.
type FriendRequestInput struct {
	RecipientID uint `json:"recipientId" binding:"required"`
}

// endregion

// region --- Responses ---

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"An error message"`
}

// UserResponse is the authenticated user's own profile.
type UserResponse struct {
	ID             uint      `json:"id" example:"1"`
	Username       string    `json:"username" example:"alice"`
	Email          string    `json:"email" example:"alice@example.com"`
	DisplayName    string    `json:"displayName" example:"Alice"`
	ProfilePicture string    `json:"profilePicture"`
	Bio            string    `json:"bio"`
	IsVerified     bool      `json:"isVerified"`
	CreatedAt      time.Time `json:"createdAt"`
}

// PublicUserResponse is the profile embedded in friend and request listings.
type PublicUserResponse struct {
	ID             uint   `json:"id" example:"2"`
	Username       string `json:"username" example:"bob"`
	DisplayName    string `json:"displayName" example:"Bob"`
	ProfilePicture string `json:"profilePicture"`
	Bio            string `json:"bio"`
}

// FriendshipResponse is a relationship edge.
type FriendshipResponse struct {
	ID          uint                `json:"id" example:"1"`
	RequesterID uint                `json:"requesterId" example:"1"`
	RecipientID uint                `json:"recipientId" example:"2"`
	Status      string              `json:"status" example:"pending"`
	RequestedAt time.Time           `json:"requestedAt"`
	RespondedAt *time.Time          `json:"respondedAt,omitempty"`
	User        *PublicUserResponse `json:"user,omitempty"`
}

// DiscoveredUserResponse is a candidate account annotated with the viewer's
// relationship status towards it.
type DiscoveredUserResponse struct {
	PublicUserResponse
	RelationshipStatus string `json:"relationshipStatus" example:"none"`
}

// DiscoverPagination reports discover paging; HasMore uses the page-full
// heuristic.
type DiscoverPagination struct {
	Page    int  `json:"page" example:"1"`
	Limit   int  `json:"limit" example:"20"`
	HasMore bool `json:"hasMore"`
}

// endregion

func buildUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		DisplayName:    u.DisplayName,
		ProfilePicture: u.Avatar,
		Bio:            u.Bio,
		IsVerified:     u.IsVerified,
		CreatedAt:      u.CreatedAt,
	}
}

func buildPublicUserResponse(u models.User) PublicUserResponse {
	return PublicUserResponse{
		ID:             u.ID,
		Username:       u.Username,
		DisplayName:    u.DisplayName,
		ProfilePicture: u.Avatar,
		Bio:            u.Bio,
	}
}

func buildFriendshipResponse(f *models.Friendship, counterpart *models.User) FriendshipResponse {
	resp := FriendshipResponse{
		ID:          f.ID,
		RequesterID: f.RequesterID,
		RecipientID: f.RecipientID,
		Status:      string(f.Status),
		RequestedAt: f.RequestedAt,
		RespondedAt: f.RespondedAt,
	}
	if counterpart != nil {
		pub := buildPublicUserResponse(*counterpart)
		resp.User = &pub
	}
	return resp
}

func buildPendingResponses(reqs []friendship.PendingRequest) []FriendshipResponse {
	out := make([]FriendshipResponse, 0, len(reqs))
	for _, r := range reqs {
		u := r.User
		out = append(out, buildFriendshipResponse(&r.Edge, &u))
	}
	return out
}
