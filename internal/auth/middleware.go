package auth

import (
	"net/http"
	"strings"

	"deployment-tracker/internal/logger"

	"github.com/gin-gonic/gin"
)

const sessionKey = "auth_session"

// AuthMiddleware provides JWT authentication middleware
type AuthMiddleware struct {
	service *AuthService
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(service *AuthService) *AuthMiddleware {
	return &AuthMiddleware{service: service}
}

// RequireAuth validates the bearer token and stores the session in the context
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := m.service.ValidateJWT(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token", "details": err.Error()})
			c.Abort()
			return
		}

		session, err := SessionFromClaims(tokenString, claims)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token", "details": err.Error()})
			c.Abort()
			return
		}

		SetSession(c, session)
		c.Next()
	}
}

// RequireAdmin rejects sessions without the admin role. It must run after RequireAuth.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := GetSession(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}
		if !session.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin role required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetSession is a helper function to extract the session from context
func GetSession(c *gin.Context) (Session, bool) {
	value, exists := c.Get(sessionKey)
	if !exists {
		return Session{}, false
	}
	session, ok := value.(Session)
	return session, ok && session.Authenticated()
}

// SetSession stores session in the context; used by tests and trusted callers
func SetSession(c *gin.Context, session Session) {
	c.Set(sessionKey, session)
	c.Set(logger.UsernameKey, session.Username)
	c.Set(logger.RoleKey, string(session.Role))
}
