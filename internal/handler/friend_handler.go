package handler

import (
	"net/http"
	"strconv"

	"jujujam/backend/internal/friendship"

	"github.com/gin-gonic/gin"
)

// FriendHandler serves the friendship lifecycle and discovery.
type FriendHandler struct {
	friends *friendship.Service
}

func NewFriendHandler(friends *friendship.Service) *FriendHandler {
	return &FriendHandler{friends: friends}
}

// SendRequest godoc
// @Summary      Send a friend request
// @Tags         friends
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body FriendRequestInput true "Recipient"
// @Success      201  {object}  map[string]interface{} "{"success": true, "friendship": {...}}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /friends/request [post]
func (h *FriendHandler) SendRequest(c *gin.Context) {
	viewerID := c.MustGet("userID").(uint)

	var input FriendRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Message: err.Error()})
		return
	}

	edge, err := h.friends.Request(c.Request.Context(), viewerID, input.RecipientID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"message":    "Friend request sent successfully",
		"friendship": buildFriendshipResponse(edge, nil),
	})
}

// AcceptRequest godoc
// @Summary      Accept a friend request
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Param        friendshipId path int true "Friendship ID"
// @Success      200  {object}  map[string]interface{} "{"success": true, "friendship": {...}}"
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /friends/accept/{friendshipId} [put]
func (h *FriendHandler) AcceptRequest(c *gin.Context) {
	viewerID := c.MustGet("userID").(uint)
	edgeID, err := parseID(c, "friendshipId")
	if err != nil {
		return
	}

	edge, err := h.friends.Accept(c.Request.Context(), edgeID, viewerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Friend request accepted",
		"friendship": buildFriendshipResponse(edge, nil),
	})
}

// RejectRequest godoc
// @Summary      Reject a friend request
// @Description  Rejects and deletes a pending request; either side may request again later.
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Param        friendshipId path int true "Friendship ID"
// @Success      200  {object}  map[string]interface{} "{"success": true}"
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /friends/reject/{friendshipId} [put]
func (h *FriendHandler) RejectRequest(c *gin.Context) {
	viewerID := c.MustGet("userID").(uint)
	edgeID, err := parseID(c, "friendshipId")
	if err != nil {
		return
	}

	if err := h.friends.Reject(c.Request.Context(), edgeID, viewerID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Friend request rejected and removed"})
}

// RemoveFriend godoc
// @Summary      Remove a friend
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Param        friendId path int true "Friend's user ID"
// @Success      200  {object}  map[string]interface{} "{"success": true}"
// @Failure      404  {object}  ErrorResponse
// @Router       /friends/{friendId} [delete]
func (h *FriendHandler) RemoveFriend(c *gin.Context) {
	viewerID := c.MustGet("userID").(uint)
	friendID, err := parseID(c, "friendId")
	if err != nil {
		return
	}

	if err := h.friends.Remove(c.Request.Context(), viewerID, friendID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Friend removed successfully"})
}

// GetFriends godoc
// @Summary      List friends
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{} "{"success": true, "count": 1, "friends": [...]}"
// @Failure      401  {object}  ErrorResponse
// @Router       /friends [get]
func (h *FriendHandler) GetFriends(c *gin.Context) {
	viewerID := c.MustGet("userID").(uint)

	users, err := h.friends.ListFriends(c.Request.Context(), viewerID)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]PublicUserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, buildPublicUserResponse(u))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(out), "friends": out})
}

// GetIncomingRequests godoc
// @Summary      List received pending friend requests
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{} "{"success": true, "count": 1, "requests": [...]}"
// @Failure      401  {object}  ErrorResponse
// @Router       /friends/requests/incoming [get]
func (h *FriendHandler) GetIncomingRequests(c *gin.Context) {
	viewerID := c.MustGet("userID").(uint)

	reqs, err := h.friends.ListIncoming(c.Request.Context(), viewerID)
	if err != nil {
		respondError(c, err)
		return
	}
	out := buildPendingResponses(reqs)
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(out), "requests": out})
}

// GetOutgoingRequests godoc
// @Summary      List sent pending friend requests
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{} "{"success": true, "count": 1, "requests": [...]}"
// @Failure      401  {object}  ErrorResponse
// @Router       /friends/requests/outgoing [get]
func (h *FriendHandler) GetOutgoingRequests(c *gin.Context) {
	viewerID := c.MustGet("userID").(uint)

	reqs, err := h.friends.ListOutgoing(c.Request.Context(), viewerID)
	if err != nil {
		respondError(c, err)
		return
	}
	out := buildPendingResponses(reqs)
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(out), "requests": out})
}

// DiscoverUsers godoc
// @Summary      Discover users
// @Description  Lists candidate accounts (excluding the viewer), optionally filtered by a case-insensitive search over username, display name and email, annotated with the viewer's relationship status.
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Param        search query string false "Search text"
// @Param        page   query int    false "Page number" default(1)
// @Param        limit  query int    false "Items per page" default(20)
// @Success      200  {object}  map[string]interface{} "{"success": true, "users": [...], "pagination": {...}}"
// @Failure      401  {object}  ErrorResponse
// @Router       /friends/discover [get]
func (h *FriendHandler) DiscoverUsers(c *gin.Context) {
	viewerID := c.MustGet("userID").(uint)
	search := c.Query("search")

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	discovered, err := h.friends.Discover(c.Request.Context(), viewerID, search, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]DiscoveredUserResponse, 0, len(discovered))
	for _, d := range discovered {
		out = append(out, DiscoveredUserResponse{
			PublicUserResponse: buildPublicUserResponse(d.User),
			RelationshipStatus: string(d.Status),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"users":   out,
		"pagination": DiscoverPagination{
			Page:    page,
			Limit:   limit,
			HasMore: len(out) == limit,
		},
	})
}

func parseID(c *gin.Context, param string) (uint, error) {
	raw := c.Param(param)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Message: "Invalid " + param})
		return 0, err
	}
	return uint(id), nil
}
