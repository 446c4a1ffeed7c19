package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/EricaRose1/Blogly/config"
	"github.com/EricaRose1/Blogly/utils"
)

type rateLimiter struct {
	limiter *rate.Limiter
	expires time.Time
	mu      sync.Mutex
}

var (
	limiters   = map[string]*rateLimiter{}
	limitersMu sync.Mutex
)

// RateLimitMiddleware applies a simple IP based rate limiter using a token bucket.
func RateLimitMiddleware() gin.HandlerFunc {
	cfg := config.Get()
	r := rate.Every(time.Minute / time.Duration(max(cfg.RateLimitPerMinute, 1)))
	burst := max(cfg.RateLimitPerMinute/2, 1)

	return func(ctx *gin.Context) {
		ip := ctx.ClientIP()
		limiter := getLimiter(ip, r, burst)

		limiter.mu.Lock()
		allowed := limiter.limiter.Allow()
		limiter.mu.Unlock()

		if !allowed {
			utils.RenderError(ctx, http.StatusTooManyRequests, "Too many requests, slow down.")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

func getLimiter(ip string, r rate.Limit, burst int) *rateLimiter {
	limitersMu.Lock()
	defer limitersMu.Unlock()

	now := time.Now()
	if entry, ok := limiters[ip]; ok && now.Before(entry.expires) {
		return entry
	}

	entry := &rateLimiter{
		limiter: rate.NewLimiter(r, burst),
		expires: now.Add(time.Hour),
	}
	limiters[ip] = entry

	// Opportunistic cleanup of stale entries
	for key, e := range limiters {
		if now.After(e.expires) {
			delete(limiters, key)
		}
	}
	return entry
}
