package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/hexpertify/moodlift/utils"
)

const limiterIdleTTL = 5 * time.Minute

type rateLimiter struct {
	limiter *rate.Limiter
	expires time.Time
}

// limiterSet holds per-client token buckets for one rate limit.
type limiterSet struct {
	mu       sync.Mutex
	limiters map[string]*rateLimiter
	limit    rate.Limit
	burst    int
}

func newLimiterSet(perMinute int) *limiterSet {
	perMinute = max(perMinute, 1)
	return &limiterSet{
		limiters: map[string]*rateLimiter{},
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    max(perMinute/2, 1),
	}
}

// RateLimitMiddleware applies a per-IP token bucket allowing perMinute requests.
func RateLimitMiddleware(perMinute int) gin.HandlerFunc {
	set := newLimiterSet(perMinute)

	return func(ctx *gin.Context) {
		if !set.allow(ctx.ClientIP(), time.Now()) {
			ctx.Header("Retry-After", "60")
			utils.AbortWithError(ctx, 429, 42901, "rate limit exceeded")
			return
		}
		ctx.Next()
	}
}

func (s *limiterSet) allow(key string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cleanupExpiredLocked(now)

	l, ok := s.limiters[key]
	if !ok {
		l = &rateLimiter{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.limiters[key] = l
	}
	l.expires = now.Add(limiterIdleTTL)
	return l.limiter.AllowN(now, 1)
}

func (s *limiterSet) cleanupExpiredLocked(now time.Time) {
	for key, l := range s.limiters {
		if now.After(l.expires) {
			delete(s.limiters, key)
		}
	}
}
