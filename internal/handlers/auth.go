package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/sm2control/backend/internal/middleware"
	"github.com/sm2control/backend/internal/services"
	"github.com/sm2control/backend/pkg/response"
)

type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login exchanges credentials for a JWT.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "username and password are required")
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		response.Unauthorized(c, "invalid username or password")
		return
	}
	response.Success(c, result)
}

// Logout records the sign-out; the client is responsible for discarding
// its token.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.auth.Logout(middleware.GetUsername(c))
	response.Success(c, nil)
}

// Me returns the identity carried by the current token.
func (h *AuthHandler) Me(c *gin.Context) {
	response.Success(c, gin.H{
		"id":       middleware.GetUserID(c),
		"username": middleware.GetUsername(c),
		"role":     middleware.GetRole(c),
	})
}
