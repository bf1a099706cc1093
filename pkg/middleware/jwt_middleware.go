package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"blogpress/pkg/utils"
)

const sessionKey = "session"

// SessionResolver turns a bearer token into the caller's session.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*utils.Session, error)
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	return token, token != ""
}

func JWTAuthMiddleware(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			utils.RespondError(c, http.StatusUnauthorized, "Authorization header missing or invalid")
			c.Abort()
			return
		}

		session, err := resolver.ResolveSession(c.Request.Context(), token)
		if err != nil || session == nil {
			utils.RespondError(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(sessionKey, session)
		c.Next()
	}
}

// OptionalAuthMiddleware attaches a session when a valid token is present and
// otherwise lets the request through anonymously.
func OptionalAuthMiddleware(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if session, err := resolver.ResolveSession(c.Request.Context(), token); err == nil && session != nil {
				c.Set(sessionKey, session)
			}
		}
		c.Next()
	}
}

// AdminMiddleware must run after JWTAuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := SessionFrom(c)
		if !ok || !session.IsAdmin {
			utils.RespondError(c, http.StatusForbidden, "Forbidden: insufficient permissions")
			c.Abort()
			return
		}
		c.Next()
	}
}

func SessionFrom(c *gin.Context) (*utils.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil, false
	}
	session, ok := v.(*utils.Session)
	return session, ok && session != nil
}
