package handlers

import (
	"errors"
	"net/http"

	"tradelink/middleware"
	"tradelink/services/user"
	"tradelink/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	Service user.UserService
}

func NewAuthHandler(svc user.UserService) *AuthHandler {
	return &AuthHandler{Service: svc}
}

type loginRequest struct {
	Name  string `json:"name"`
	Email string `json:"email" binding:"required"`
}

// LoginHandler handles POST /api/auth/login.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid login request", err.Error())
		return
	}
	u, err := h.Service.SignIn(c.Request.Context(), req.Name, req.Email)
	if errors.Is(err, user.ErrInvalidEmail) {
		utils.JSONFieldError(c, err.Error(), []string{"email"})
		return
	}
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to sign in", err.Error())
		return
	}
	token, err := utils.GenerateToken(*u, utils.IdentityTokenTTL)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to issue token", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u, "token": token})
}

// LogoutHandler handles POST /api/auth/logout.
func (h *AuthHandler) LogoutHandler(c *gin.Context) {
	if err := h.Service.SignOut(c.Request.Context()); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to sign out", err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}

// MeHandler handles GET /api/auth/me. A bearer token wins over the stored
// user.
func (h *AuthHandler) MeHandler(c *gin.Context) {
	if u, ok := middleware.CurrentIdentity(c); ok {
		c.JSON(http.StatusOK, u)
		return
	}
	u, err := h.Service.Current(c.Request.Context())
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load user", err.Error())
		return
	}
	if u == nil {
		utils.JSONError(c, http.StatusUnauthorized, "Not signed in", "")
		return
	}
	c.JSON(http.StatusOK, u)
}
