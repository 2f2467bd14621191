package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dthaibinhF/chemist-FE-sub000/internal/model"
	"github.com/dthaibinhF/chemist-FE-sub000/pkg/jwt"
	"github.com/dthaibinhF/chemist-FE-sub000/pkg/response"
)

// JWTAuth extracts and verifies the access token from
// Authorization: Bearer <token>, then injects the caller's identity
// into the context. The raw role string is parsed into the closed Role
// enum here; an unrecognized role is logged and carried as
// RoleUnknown, which downstream resolvers treat as student-level.
func JWTAuth(jwtMgr *jwt.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, 10002, "invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtMgr.Parse(parts[1])
		if err != nil {
			response.Unauthorized(c, 10002, "token is invalid or expired")
			c.Abort()
			return
		}

		role := model.ParseRole(claims.Role)
		if role == model.RoleUnknown {
			logger.Warn("unknown role in token, treating as student-level",
				zap.String("role", claims.Role),
				zap.Int64("user_id", claims.UserID),
			)
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_name", claims.Name)
		c.Set("role", role)

		c.Next()
	}
}

// RoleAuth allows only the listed roles past. Runs after JWTAuth.
func RoleAuth(allowed ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get("role")
		if !exists {
			response.Unauthorized(c, 10002, "not authenticated")
			c.Abort()
			return
		}

		role := v.(model.Role)
		for _, r := range allowed {
			if role == r {
				c.Next()
				return
			}
		}

		response.Forbidden(c, 10003, "insufficient role")
		c.Abort()
	}
}
