package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"jujujam/backend/internal/friendship"
	"jujujam/backend/internal/identity"
	"jujujam/backend/internal/store"

	"github.com/gin-gonic/gin"
)

// respondError owns the domain-error to HTTP-status mapping. Unknown errors
// are reported as a generic 500 without leaking internals.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, identity.ErrDuplicateIdentity):
		status, message = http.StatusConflict, "User already exists with that email or username"
	case errors.Is(err, identity.ErrInvalidCredentials):
		status, message = http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, identity.ErrVerification):
		status, message = http.StatusUnauthorized, "Token verification failed"
	case errors.Is(err, friendship.ErrSelfRequest):
		status, message = http.StatusBadRequest, "You cannot send a friend request to yourself"
	case errors.Is(err, friendship.ErrRecipientNotFound):
		status, message = http.StatusNotFound, "User not found"
	case errors.Is(err, friendship.ErrAlreadyFriends):
		status, message = http.StatusBadRequest, "You are already friends with this user"
	case errors.Is(err, friendship.ErrRequestAlreadyPending):
		status, message = http.StatusBadRequest, "Friend request already sent or received"
	case errors.Is(err, friendship.ErrBlocked):
		status, message = http.StatusBadRequest, "Cannot send friend request to this user"
	case errors.Is(err, friendship.ErrNotPending):
		status, message = http.StatusBadRequest, "This friend request has already been processed"
	case errors.Is(err, friendship.ErrForbidden):
		status, message = http.StatusForbidden, "You can only act on requests sent to you"
	case errors.Is(err, friendship.ErrNotFound):
		status, message = http.StatusNotFound, "Friendship not found"
	case errors.Is(err, store.ErrUnavailable):
		status, message = http.StatusServiceUnavailable, "Service temporarily unavailable"
	default:
		slog.Error("unhandled error at HTTP boundary", "error", err, "path", c.FullPath())
	}

	c.JSON(status, ErrorResponse{Success: false, Message: message})
}
