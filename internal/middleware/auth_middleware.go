package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/wijk-raffle/kupon-backend/internal/models"
	"github.com/wijk-raffle/kupon-backend/internal/services"
)

// SessionKey is the gin context key holding the authenticated *models.Session
const SessionKey = "session"

// TokenValidator resolves a bearer token into a session
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*models.Session, error)
}

// JWTAuthMiddleware creates a gin middleware for JWT authentication.
func JWTAuthMiddleware(validator TokenValidator, logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const BearerSchema = "Bearer "
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		if !strings.HasPrefix(authHeader, BearerSchema) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header must start with Bearer "})
			return
		}

		tokenString := strings.TrimSpace(authHeader[len(BearerSchema):])

		session, err := validator.ValidateToken(c.Request.Context(), tokenString)
		if err != nil {
			if errors.Is(err, services.ErrSessionExpired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session has expired, please log in again", "code": services.KindSessionExpired})
				return
			}
			logger.WithError(err).WithField("client_ip", c.ClientIP()).Warn("Token validation failed")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(SessionKey, session)
		c.Next()
	}
}

// CurrentSession returns the session set by JWTAuthMiddleware, or nil
func CurrentSession(c *gin.Context) *models.Session {
	v, ok := c.Get(SessionKey)
	if !ok {
		return nil
	}
	session, _ := v.(*models.Session)
	return session
}
