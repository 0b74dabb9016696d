package middleware

import (
	"net/http"
	"sync"
	"time"

	"mgnrega-api/internal/logger"
	"mgnrega-api/internal/metrics"

	"github.com/patrickmn/go-cache"
)

// TokenBucket：每秒整桶补满的令牌桶
type TokenBucket struct {
	capacity int
	tokens   int
	lastSec  int64
	mu       sync.Mutex
}

func NewTokenBucket(capacity int) *TokenBucket {
	return &TokenBucket{capacity: capacity, tokens: capacity, lastSec: time.Now().Unix()}
}

func (tb *TokenBucket) allow(now time.Time) bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	if s := now.Unix(); tb.lastSec != s {
		tb.lastSec = s
		tb.tokens = tb.capacity
	}
	if tb.tokens > 0 {
		tb.tokens--
		return true
	}
	return false
}

// 文档注释：按访问者分桶的限流器
// 背景：反地理入口背后是按次计费的外部服务，单个来源的突发请求不应耗尽全部配额；
// 桶保存在 go-cache 中，访问者空闲 idle 后自动回收。
// 约束：不排队，超限直接返回 429；qps<=0 时不限流。
type Limiter struct {
	qps     int
	buckets *cache.Cache
	now     func() time.Time
	mu      sync.Mutex
}

func NewLimiter(qps int, idle time.Duration) *Limiter {
	if idle <= 0 {
		idle = 5 * time.Minute
	}
	return &Limiter{qps: qps, buckets: cache.New(idle, 2*idle), now: time.Now}
}

func (l *Limiter) bucket(key string) *TokenBucket {
	l.mu.Lock()
	defer l.mu.Unlock()
	if v, ok := l.buckets.Get(key); ok {
		tb := v.(*TokenBucket)
		l.buckets.SetDefault(key, tb)
		return tb
	}
	tb := NewTokenBucket(l.qps)
	l.buckets.SetDefault(key, tb)
	return tb
}

// Allow：访问者 key 在当前秒内是否还有令牌
func (l *Limiter) Allow(key string) bool {
	if l == nil || l.qps <= 0 {
		return true
	}
	return l.bucket(key).allow(l.now())
}

// Wrap：限流中间件，按 VisitorIP 分桶
func (l *Limiter) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := VisitorIP(r)
		if !l.Allow(ip) {
			metrics.RateLimitedTotal.Inc()
			logger.L().Debug("rate_limited", "visitor", ip, "path", r.URL.Path)
			w.Header().Set("content-type", "application/json; charset=utf-8")
			w.Header().Set("retry-after", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"rate_limited"}` + "\n"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
