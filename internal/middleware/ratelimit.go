package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
)

// RateLimit throttles callers per client IP within scope, so separate route groups
// sharing one limiter store keep separate quotas.
func RateLimit(limiterInstance *limiter.Limiter, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := scope + ":" + c.ClientIP()
		logger := GetLoggerFromCtx(c.Request.Context()).With(slog.String("rate_limit_key", key))

		quota, err := limiterInstance.Get(c.Request.Context(), key)
		if err != nil {
			// A broken limiter store must not take the storefront down.
			logger.Error("Rate limit store unavailable, letting request through", slog.String("error", err.Error()))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(quota.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(quota.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(quota.Reset, 10))

		if quota.Reached {
			retryAfter := max(time.Until(time.Unix(quota.Reset, 0)).Round(time.Second), time.Second)
			c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
			logger.Warn("Rate limit exceeded", slog.Int64("limit", quota.Limit))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many price lookups. Please try again later."})
			return
		}

		c.Next()
	}
}
