package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/Xyleee/api-devguidance/pkg/logger"
)

// KeyFunc picks the bucket a request is charged to.
type KeyFunc func(c *gin.Context) string

// ByIP charges the client address. Used on unauthenticated routes.
func ByIP(c *gin.Context) string {
	return "ip:" + c.ClientIP()
}

// ByUser charges the authenticated account so a sender cannot dodge the
// limit by switching networks. Falls back to the client address.
func ByUser(c *gin.Context) string {
	if uid := c.GetString("userId"); uid != "" {
		return "user:" + uid
	}
	return ByIP(c)
}

// KeyedLimiter holds one token bucket per key and forgets idle keys.
type KeyedLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   rate.Limit
	burst   int
	idle    time.Duration
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewKeyedLimiter allows perMinute requests per key, with bursts of burst.
func NewKeyedLimiter(perMinute float64, burst int) *KeyedLimiter {
	l := &KeyedLimiter{
		buckets: make(map[string]*bucket),
		limit:   rate.Limit(perMinute / 60),
		burst:   burst,
		idle:    3 * time.Minute,
	}
	go l.sweep()
	return l
}

func (l *KeyedLimiter) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		l.mu.Lock()
		for key, b := range l.buckets {
			if time.Since(b.lastSeen) > l.idle {
				delete(l.buckets, key)
			}
		}
		l.mu.Unlock()
	}
}

// Allow spends one token from key's bucket.
func (l *KeyedLimiter) Allow(key string) bool {
	l.mu.Lock()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = time.Now()
	l.mu.Unlock()
	return b.limiter.Allow()
}

var (
	AuthLimiter    = NewKeyedLimiter(20, 10)
	GeneralLimiter = NewKeyedLimiter(600, 50)
	// Enough for a live conversation, not for flooding a mentor's inbox
	MessageLimiter = NewKeyedLimiter(30, 10)
	UploadLimiter  = NewKeyedLimiter(10, 3)
)

// RateLimitMiddleware rejects requests once key's bucket is empty.
func RateLimitMiddleware(limiter *KeyedLimiter, key KeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		k := key(c)
		if !limiter.Allow(k) {
			logger.Warn().
				Str("key", k).
				Str("path", c.Request.URL.Path).
				Msg("Rate limit exceeded")

			c.JSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   "Too many requests",
				"message": "Rate limit exceeded. Please slow down.",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func AuthRateLimit() gin.HandlerFunc {
	return RateLimitMiddleware(AuthLimiter, ByIP)
}

func GeneralRateLimit() gin.HandlerFunc {
	return RateLimitMiddleware(GeneralLimiter, ByIP)
}

// MessageRateLimit must run after AuthMiddleware to charge the sender.
func MessageRateLimit() gin.HandlerFunc {
	return RateLimitMiddleware(MessageLimiter, ByUser)
}

// UploadRateLimit charges the account when there is one. Resume uploads
// happen before an adviser account exists, so those fall back to IP.
func UploadRateLimit() gin.HandlerFunc {
	return RateLimitMiddleware(UploadLimiter, ByUser)
}
