package middleware

import (
	"math"
	"net/http"
	"strconv"

	"evidencias/internal/apierror"
	"evidencias/internal/metrics"
	"evidencias/internal/rate"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// RateLimit rejects a client IP with 429 once limiter says its window is full.
// A limiter error lets the request through: an unavailable Redis must not
// take the API down with it.
func RateLimit(limiter rate.Limiter, scope, msg string, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := limiter.Allow(c.Request.Context(), scope+":"+c.ClientIP())
		if err != nil {
			log.Warn().Err(err).Str("scope", scope).Msg("rate limiter unavailable, allowing request")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
		if !res.Allowed {
			m.RateLimited(scope)
			secs := int(math.Ceil(res.RetryAfter.Seconds()))
			if secs < 1 {
				secs = 1
			}
			c.Header("Retry-After", strconv.Itoa(secs))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(http.StatusTooManyRequests, msg))
			return
		}
		c.Next()
	}
}
