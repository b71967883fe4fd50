package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type userLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter giới hạn theo (tên middleware, identity); mỗi route có bucket riêng. Đặt sau AuthMiddleware
type RateLimiter struct {
	limit rate.Limit
	burst int
	ttl   time.Duration
	log   *zap.Logger

	mu       sync.Mutex
	limiters map[string]*userLimiter
}

// perMinute request mỗi phút, burst request liên tiếp
func NewRateLimiter(perMinute float64, burst int, log *zap.Logger) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limit:    rate.Limit(perMinute / 60.0),
		burst:    burst,
		ttl:      30 * time.Minute,
		log:      log,
		limiters: make(map[string]*userLimiter),
	}
}

func (rl *RateLimiter) get(name, identityID string) *rate.Limiter {
	key := name + ":" + identityID
	rl.mu.Lock()
	defer rl.mu.Unlock()
	ul, ok := rl.limiters[key]
	if !ok {
		ul = &userLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[key] = ul
	}
	ul.lastAccess = time.Now()
	return ul.limiter
}

func (rl *RateLimiter) Middleware(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identityID := IdentityID(c)
		if identityID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if !rl.get(name, identityID).Allow() {
			retry := 1
			if rl.limit > 0 {
				retry = int(math.Ceil(1 / float64(rl.limit)))
			}
			c.Header("Retry-After", strconv.Itoa(retry))
			rl.log.Warn("rate limit exceeded", zap.String("identity_id", identityID), zap.String("limit_type", name))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Bạn thao tác quá nhanh, vui lòng thử lại sau"})
			return
		}
		c.Next()
	}
}

// Cleanup xoá limiter không dùng lâu hơn ttl
func (rl *RateLimiter) Cleanup(now time.Time) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	removed := 0
	for id, ul := range rl.limiters {
		if now.Sub(ul.lastAccess) > rl.ttl {
			delete(rl.limiters, id)
			removed++
		}
	}
	return removed
}

// StartCleanup chạy Cleanup định kỳ tới khi stop bị đóng
func (rl *RateLimiter) StartCleanup(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case now := <-ticker.C:
				rl.Cleanup(now)
			case <-stop:
				return
			}
		}
	}()
}
