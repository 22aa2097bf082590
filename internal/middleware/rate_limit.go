package middleware

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"conversational-recommendation/pkg/response"
)

// RateLimit throttles per client IP. Each client gets its own token
// bucket; buckets for idle clients age out of the LRU on their own.
func (m Middleware) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()

		limiter, ok := m.limiters.Get(key)
		if !ok {
			limiter = rate.NewLimiter(m.rate, m.burst)
			m.limiters.Add(key, limiter)
		}

		if !limiter.Allow() {
			m.l.Warnf(c.Request.Context(), "middleware: rate limit exceeded for %s", key)
			response.TooManyRequests(c)
			c.Abort()
			return
		}

		c.Next()
	}
}
