package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"travel-vault-server/internal/auth"
	"travel-vault-server/internal/middleware"
	"travel-vault-server/internal/model"
	"travel-vault-server/internal/vault"
)

type AuthHandler struct {
	Sessions      *vault.SessionStore
	TokenConfig   auth.TokenConfig
	SignInLimiter *middleware.RateLimiter
}

type signInBody struct {
	Credential *auth.Credential `json:"credential"`
	ErrorCode  auth.ErrorCode   `json:"errorCode,omitempty"`
}

// SignIn completes a Sign in with Apple exchange. The client forwards either
// the credential or the failure code it got from the OS flow.
func (h *AuthHandler) SignIn(c *gin.Context) {
	if h.SignInLimiter != nil && !h.SignInLimiter.Allow(c.ClientIP()) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
		return
	}

	var body signInBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if body.ErrorCode != "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": body.ErrorCode.Message()})
		return
	}
	if body.Credential == nil || !body.Credential.Validate() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credential"})
		return
	}

	h.Sessions.SetLoading(true)
	defer h.Sessions.SetLoading(false)

	user := model.User{
		ID:             body.Credential.ID,
		Name:           body.Credential.DisplayName(),
		Email:          body.Credential.Email,
		IsPrivateEmail: body.Credential.IsPrivateEmail,
	}

	token, err := auth.CreateToken(user.ID, user.Name, h.TokenConfig)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Token creation failed"})
		return
	}

	h.Sessions.Login(user)
	c.JSON(http.StatusOK, gin.H{"success": true, "token": token, "user": user})
}

// SignOut clears the session. Signing out while signed out still succeeds.
func (h *AuthHandler) SignOut(c *gin.Context) {
	h.Sessions.Logout()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authentication token"})
		return
	}

	user, ok := h.Sessions.Current()
	if !ok || user.ID != userID {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session is no longer active"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
