package handler

import (
	"net/http"

	"jujujam/backend/internal/identity"
	"jujujam/backend/internal/models"
	"jujujam/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// AuthHandler serves registration, the three login paths and the current-user
// endpoint. Secrets and tokens are never logged here or below.
type AuthHandler struct {
	identity *identity.Service
	issuer   *jwt.Issuer
}

func NewAuthHandler(identitySvc *identity.Service, issuer *jwt.Issuer) *AuthHandler {
	return &AuthHandler{identity: identitySvc, issuer: issuer}
}

// Register godoc
// @Summary      Register a new user
// @Description  Creates a new user with a local password and returns a session token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body RegisterInput true "Registration Info"
// @Success      201  {object}  map[string]interface{} "{"success": true, "token": "...", "user": {...}}"
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Message: err.Error()})
		return
	}

	user, err := h.identity.Register(c.Request.Context(), identity.RegisterInput{
		Username:    input.Username,
		Email:       input.Email,
		Password:    input.Password,
		DisplayName: input.DisplayName,
		FirebaseID:  input.FirebaseID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.respondWithToken(c, http.StatusCreated, "User registered successfully", user)
}

// Login godoc
// @Summary      Log in a user
// @Description  Authenticates with email and password, or with a federated identity id.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body LoginInput true "Login Info"
// @Success      200  {object}  map[string]interface{} "{"success": true, "token": "...", "user": {...}}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Message: err.Error()})
		return
	}

	user, err := h.identity.Login(c.Request.Context(), input.Email, input.Password, input.FirebaseID)
	if err != nil {
		respondError(c, err)
		return
	}

	h.respondWithToken(c, http.StatusOK, "Login successful", user)
}

// GoogleAuth godoc
// @Summary      Authenticate with a Google ID token
// @Description  Verifies the token, reconciles it onto an account (creating one on first login) and returns a session token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body GoogleAuthInput true "Google ID token"
// @Success      200  {object}  map[string]interface{} "{"success": true, "token": "...", "user": {...}}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /auth/google [post]
func (h *AuthHandler) GoogleAuth(c *gin.Context) {
	var input GoogleAuthInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Message: "Google token is required"})
		return
	}

	user, err := h.identity.OAuthLogin(c.Request.Context(), input.IDToken)
	if err != nil {
		respondError(c, err)
		return
	}

	h.respondWithToken(c, http.StatusOK, "Google authentication successful", user)
}

// Me godoc
// @Summary      Get current user's profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{} "{"success": true, "user": {...}}"
// @Failure      401  {object}  ErrorResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user := c.MustGet("user").(*models.User)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    buildUserResponse(user),
	})
}

func (h *AuthHandler) respondWithToken(c *gin.Context, status int, message string, user *models.User) {
	token, err := h.issuer.Generate(user.ID, user.Username)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, gin.H{
		"success": true,
		"message": message,
		"token":   token,
		"user":    buildUserResponse(user),
	})
}
