package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gamestaff/itemadmin/cache"
	"github.com/gamestaff/itemadmin/config"
	"github.com/gin-gonic/gin"
)

const SessionKey = "session"

// LoginPath is where browsers without a session are sent.
const LoginPath = "/login"

// WantsJSON reports whether the client asked for a JSON response rather
// than an HTML page.
func WantsJSON(c *gin.Context) bool {
	if strings.Contains(c.GetHeader("Accept"), "application/json") {
		return true
	}
	if c.GetHeader("X-Requested-With") == "XMLHttpRequest" {
		return true
	}
	return strings.HasPrefix(c.GetHeader("Authorization"), "Bearer ")
}

func requestToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if tok, err := c.Cookie(SessionCookie); err == nil {
		return tok
	}
	return ""
}

// RequireLogin validates the session token (cookie or Bearer header)
// against the session registry. Each authenticated request renews the
// idle timeout.
func RequireLogin(sec config.SecurityConfig, store cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := requestToken(c)
		if token == "" {
			unauthorized(c, "login required")
			return
		}
		claims, err := ParseToken(token, sec.Secret)
		if err != nil {
			unauthorized(c, "invalid token")
			return
		}

		cacheCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		username, err := store.Get(cacheCtx, sessionKey(token))
		switch {
		case cache.IsNotFound(err):
			unauthorized(c, "session expired")
			return
		case err != nil:
			_ = c.Error(fmt.Errorf("session lookup: %w", err))
			abortWith(c, http.StatusInternalServerError, "session store unavailable")
			return
		case username != claims.Username:
			unauthorized(c, "session expired")
			return
		}
		if err := store.Expire(cacheCtx, sessionKey(token), idleTTL(sec)); err != nil {
			_ = c.Error(fmt.Errorf("session renew: %w", err))
		}

		c.Set(SessionKey, &Session{Username: username, Token: token})
		c.Next()
	}
}

// GetSession retrieves the authenticated session from the Gin context.
func GetSession(c *gin.Context) *Session {
	if v, exists := c.Get(SessionKey); exists {
		return v.(*Session)
	}
	return nil
}

// RequireAdmin rejects every user except the built-in admin.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetSession(c).IsAdmin() {
			abortWith(c, http.StatusForbidden, "admin only")
			return
		}
		c.Next()
	}
}

// RequireFeature rejects requests to a route whose feature flag is off.
func RequireFeature(enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled {
			abortWith(c, http.StatusForbidden, "feature disabled")
			return
		}
		c.Next()
	}
}

func unauthorized(c *gin.Context, msg string) {
	if WantsJSON(c) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
		return
	}
	c.Redirect(http.StatusFound, LoginPath)
	c.Abort()
}

// abortWith stops the chain with status: a JSON {"error": msg} for API
// clients, plain text for browsers.
func abortWith(c *gin.Context, status int, msg string) {
	if WantsJSON(c) {
		c.AbortWithStatusJSON(status, gin.H{"error": msg})
		return
	}
	c.String(status, "%d %s", status, msg)
	c.Abort()
}
