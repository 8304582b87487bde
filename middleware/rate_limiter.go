package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"tablebook/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// rateLimiterStore holds a map of IP addresses to their rate limiters.
type rateLimiterStore struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	perMin   int
}

// getLimiter returns the rate limiter for a given IP, creating one if it doesn't exist.
func (s *rateLimiterStore) getLimiter(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, exists := s.limiters[ip]
	if !exists {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(s.perMin)), s.perMin)
		s.limiters[ip] = limiter
	}
	return limiter
}

// RateLimitMiddleware limits requests per IP address to perMin per minute.
func RateLimitMiddleware(perMin int) gin.HandlerFunc {
	if perMin <= 0 {
		perMin = 200
	}
	store := &rateLimiterStore{limiters: make(map[string]*rate.Limiter), perMin: perMin}
	return func(c *gin.Context) {
		ip := clientKey(c)
		if !store.getLimiter(ip).Allow() {
			utils.JSONError(c, http.StatusTooManyRequests, "Rate limit exceeded. Try again later.", ip)
			c.Abort()
			return
		}
		c.Next()
	}
}

// clientKey picks the address the limiter buckets by. The mini app is served through a
// proxy, so the first X-Forwarded-For hop wins over the socket address.
func clientKey(c *gin.Context) string {
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		if first, _, _ := strings.Cut(xff, ","); strings.TrimSpace(first) != "" {
			return strings.TrimSpace(first)
		}
	}
	if xri := strings.TrimSpace(c.GetHeader("X-Real-IP")); xri != "" {
		return xri
	}
	return c.ClientIP()
}
