package middleware

import (
	"log"
	"net/http"
	"strings"

	"helpdesk/backend/internal/auth"
	"helpdesk/backend/internal/models"
	"helpdesk/backend/internal/storage"

	"github.com/gin-gonic/gin"
)

// SessionKey is the gin context key under which the authenticated
// session is stored. Handlers read it through SessionFrom, never from
// any ambient state.
const SessionKey = "session"

// Auth validates the session token from the cookie or the Authorization
// header, checks the Redis session record still exists (logout revokes
// it immediately) and attaches the Session to the request context.
func Auth(authSvc *auth.Service, store storage.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string

		if cookie, err := c.Cookie("session"); err == nil {
			tokenString = cookie
		}
		if tokenString == "" {
			authHeader := c.GetHeader("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				tokenString = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		sid, err := authSvc.ParseToken(tokenString)
		if err != nil {
			log.Printf("ERROR: Invalid session token: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		session, err := store.GetSession(sid)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session lookup failed"})
			return
		}
		if session == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
			return
		}

		c.Set(SessionKey, session)
		c.Next()
	}
}

// RoleOnly rejects any session whose role is not in the allowed set.
func RoleOnly(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := SessionFrom(c)
		if session == nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "no session"})
			return
		}
		for _, role := range allowedRoles {
			if session.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden: role mismatch"})
	}
}

// SessionFrom returns the session the Auth middleware attached, or nil
// on an unauthenticated request.
func SessionFrom(c *gin.Context) *models.Session {
	value, ok := c.Get(SessionKey)
	if !ok {
		return nil
	}
	session, _ := value.(*models.Session)
	return session
}
