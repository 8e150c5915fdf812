package middleware

import (
	"context"
	"time"

	"github.com/gamestaff/itemadmin/cache"
	"github.com/gamestaff/itemadmin/config"
	"github.com/gamestaff/itemadmin/users"
	"github.com/google/uuid"
)

// SessionCookie is the cookie holding the session token.
const SessionCookie = "session"

// Session is the authenticated user of a request.
type Session struct {
	Username string
	Token    string
}

// IsAdmin reports whether the session belongs to the built-in admin.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Username == users.AdminUsername
}

func sessionKey(token string) string { return "session:" + token }

func newTokenID() string { return uuid.NewString() }

// idleTTL is how long a session survives without requests.
func idleTTL(sec config.SecurityConfig) time.Duration {
	if sec.SessionIdle > 0 && sec.SessionIdle < sec.SessionTTL {
		return sec.SessionIdle
	}
	return sec.SessionTTL
}

// IssueSession signs a token for username and registers it in the cache.
func IssueSession(ctx context.Context, sec config.SecurityConfig, c cache.Cache, username string) (*Session, error) {
	token, err := GenerateToken(username, sec.Secret, sec.SessionTTL)
	if err != nil {
		return nil, err
	}
	if err := c.Set(ctx, sessionKey(token), username, idleTTL(sec)); err != nil {
		return nil, err
	}
	return &Session{Username: username, Token: token}, nil
}

// RevokeSession removes token from the registry. Revoking an unknown
// token is not an error.
func RevokeSession(ctx context.Context, c cache.Cache, token string) error {
	if token == "" {
		return nil
	}
	return c.Del(ctx, sessionKey(token))
}
