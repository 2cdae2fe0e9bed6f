package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mirasocial/mira-client/internal/api"
	"github.com/mirasocial/mira-client/internal/appstate"
	"github.com/mirasocial/mira-client/internal/model"
)

// AuthHandler handles login, logout and session inspection on the control
// API.
type AuthHandler struct {
	api   *api.Client
	state *appstate.State

	// onLogin runs after a successful login (socket connect).
	onLogin func(sess *model.Session)
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(apiClient *api.Client, state *appstate.State, onLogin func(*model.Session)) *AuthHandler {
	return &AuthHandler{api: apiClient, state: state, onLogin: onLogin}
}

// Login handles POST /login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "message": err.Error()})
		return
	}
	sess, err := h.api.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	if h.onLogin != nil {
		h.onLogin(sess)
	}
	c.JSON(http.StatusOK, gin.H{"user": sess.User})
}

// Logout handles POST /logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.api.Logout(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Session handles GET /session.
func (h *AuthHandler) Session(c *gin.Context) {
	sess := h.state.Session()
	if sess == nil {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"user":          sess.User,
		"theme":         h.state.Theme(),
		"language":      h.state.Language(),
	})
}
