package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	resp "go-portfolio-api/internal/transport/http/response"
)

// RateLimit 全局令牌桶限速
func RateLimit(rps rate.Limit, burst int) gin.HandlerFunc {
	lim := rate.NewLimiter(rps, burst)
	return func(c *gin.Context) {
		if lim.Allow() {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusTooManyRequests, resp.Error(resp.CodeServerError, "too many requests"))
	}
}

// 每 IP 桶的回收参数：闲置即清，防止扫段请求把映射撑大
const (
	ipIdleTTL    = 10 * time.Minute
	ipSweepEvery = time.Minute
)

type ipEntry struct {
	lim  *rate.Limiter
	seen time.Time
}

type ipBuckets struct {
	mu        sync.Mutex
	entries   map[string]*ipEntry
	lastSweep time.Time
}

func newIPBuckets() *ipBuckets {
	return &ipBuckets{entries: make(map[string]*ipEntry), lastSweep: time.Now()}
}

func (b *ipBuckets) get(ip string, rps rate.Limit, burst int) *rate.Limiter {
	now := time.Now()
	b.mu.Lock()
	defer b.mu.Unlock()
	if now.Sub(b.lastSweep) >= ipSweepEvery {
		b.sweep(now)
	}
	e, ok := b.entries[ip]
	if !ok {
		e = &ipEntry{lim: rate.NewLimiter(rps, burst)}
		b.entries[ip] = e
	}
	e.seen = now
	return e.lim
}

// sweep 调用方须持锁
func (b *ipBuckets) sweep(now time.Time) {
	for ip, e := range b.entries {
		if now.Sub(e.seen) > ipIdleTTL {
			delete(b.entries, ip)
		}
	}
	b.lastSweep = now
}

// RateLimitPerIP 每 IP 限速；登录/联系表单等易被刷的入口用
func RateLimitPerIP(rps rate.Limit, burst int) gin.HandlerFunc {
	buckets := newIPBuckets()
	return func(c *gin.Context) {
		if buckets.get(c.ClientIP(), rps, burst).Allow() {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusTooManyRequests, resp.Error(resp.CodeServerError, "too many requests"))
	}
}
