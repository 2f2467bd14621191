package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dthaibinhF/chemist-FE-sub000/pkg/redis"
	"github.com/dthaibinhF/chemist-FE-sub000/pkg/response"
)

// RateLimit applies a fixed-window per-client limit on a route group.
// Without redis (rdb nil) the limiter is a pass-through, and a redis
// error fails open: losing the limiter must not take the API down.
func RateLimit(rdb *redis.Client, logger *zap.Logger, name string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}

		key := fmt.Sprintf("ratelimit:%s:%s", name, c.ClientIP())
		ok, err := rdb.CheckRateLimit(c.Request.Context(), key, limit, window)
		if err != nil {
			logger.Warn("rate limit check failed", zap.Error(err), zap.String("name", name))
			c.Next()
			return
		}
		if !ok {
			response.Error(c, http.StatusTooManyRequests, 10006, "too many requests")
			c.Abort()
			return
		}

		c.Next()
	}
}
