package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/bakehouse/internal/domain/models"
	"github.com/mamadbah2/bakehouse/internal/service/auth"
)

// userKey is the gin context key holding the authenticated account.
const userKey = "currentUser"

// RequireAuth authenticates the request from a bearer token or the session
// cookie and stores the account in the request context.
func RequireAuth(authSvc *auth.Service, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Not authorized to access this route",
			})
			return
		}

		user, err := authSvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			logger.Debug("authentication rejected", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Not authorized to access this route",
			})
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// RequireRoles rejects authenticated requests whose account holds none of
// the allowed roles.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Not authorized to access this route",
			})
			return
		}

		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success": false,
			"message": "User role " + user.Role + " is not authorized to access this route",
		})
	}
}

// CurrentUser returns the authenticated account, or nil outside RequireAuth.
func CurrentUser(c *gin.Context) *models.User {
	value, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := c.Cookie("token"); err == nil {
		return cookie
	}
	return ""
}
