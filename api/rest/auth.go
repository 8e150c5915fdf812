package rest

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gamestaff/itemadmin/cache"
	"github.com/gamestaff/itemadmin/config"
	mw "github.com/gamestaff/itemadmin/middleware"
	"github.com/gamestaff/itemadmin/users"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler handles login and logout.
type AuthHandler struct {
	users  *users.Store
	cache  cache.Cache
	sec    config.SecurityConfig
	render *Renderer
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(u *users.Store, c cache.Cache, sec config.SecurityConfig, render *Renderer) *AuthHandler {
	return &AuthHandler{users: u, cache: c, sec: sec, render: render}
}

type loginRequest struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

// LoginPage handles GET /login.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	h.render.Page(c, http.StatusOK, "login.html", nil, gin.H{"login_required": true})
}

// Login handles POST /login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil || !h.users.Verify(req.Username, req.Password) {
		h.render.Logger.Info("login failed",
			zap.String("username", req.Username),
			zap.String("client_ip", c.ClientIP()))
		h.render.Form(c, http.StatusUnauthorized, "login.html",
			gin.H{"Error": h.render.T.LoginFailed, "Username": req.Username},
			gin.H{"error": "invalid credentials"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	s, err := mw.IssueSession(ctx, h.sec, h.cache, req.Username)
	if err != nil {
		h.render.Fail(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(mw.SessionCookie, s.Token, int(h.sec.SessionTTL/time.Second), "/", "", h.sec.SecureCookie, true)
	h.render.Redirect(c, http.StatusOK, "/", gin.H{
		"token":    s.Token,
		"username": s.Username,
	})
}

// Logout handles GET /logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	token, _ := c.Cookie(mw.SessionCookie)
	if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		token = strings.TrimPrefix(auth, "Bearer ")
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := mw.RevokeSession(ctx, h.cache, token); err != nil {
		h.render.Logger.Warn("revoke session", zap.Error(err))
	}
	c.SetCookie(mw.SessionCookie, "", -1, "/", "", h.sec.SecureCookie, true)
	h.render.Redirect(c, http.StatusOK, mw.LoginPath, gin.H{"message": "logged out"})
}
