package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/summit-companion/backend/internal/auth"
	"github.com/summit-companion/backend/internal/models"
	"github.com/summit-companion/backend/pkg/response"
)

const (
	// ContextUserID is the key for the moderator's user ID in gin context.
	ContextUserID = "user_id"
	// ContextUserRole is the key for the moderator's role in gin context.
	ContextUserRole = "user_role"
	// ContextUserEmail is the key for the moderator's email in gin context.
	ContextUserEmail = "user_email"
)

// RequireModerator validates the session cookie (or a Bearer header) and
// aborts with 401 before any handler runs. Every moderator-scoped route
// sits behind this guard so unauthorized requests can never mutate state
// or trigger a broadcast.
func RequireModerator(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		if token == "" {
			response.Unauthorized(c, "moderator login required")
			c.Abort()
			return
		}
		claims, err := jwtService.Validate(token)
		if err != nil {
			response.Unauthorized(c, "invalid or expired session")
			c.Abort()
			return
		}
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserRole, claims.Role)
		c.Set(ContextUserEmail, claims.Email)
		c.Next()
	}
}

// RequireRole allows only the given roles; composed after RequireModerator.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	allowed := make(map[string]struct{})
	for _, r := range roles {
		allowed[string(r)] = struct{}{}
	}
	return func(c *gin.Context) {
		roleVal, ok := c.Get(ContextUserRole)
		if !ok {
			response.Unauthorized(c, "missing user context")
			c.Abort()
			return
		}
		role, _ := roleVal.(string)
		if _, ok := allowed[role]; !ok {
			response.Forbidden(c, "insufficient permissions")
			c.Abort()
			return
		}
		c.Next()
	}
}

func sessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(auth.SessionCookie); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}
