package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mgnrega-api/internal/logger"
	"mgnrega-api/internal/metrics"

	"github.com/redis/go-redis/v9"
)

// 文档注释：带 Redis 热点缓存的解析入口
// 背景：同一村镇的重复定位请求很多，坐标量化到 0.001°（约 110m）作为键，命中时不触达外部服务。
// 约束：rc 为 nil 时直接透传；缓存读写错误只记日志不影响解析；全部失败的结果不缓存。
type CachedResolver struct {
	next Locator
	rc   *redis.Client
	ttl  time.Duration
}

func NewCachedResolver(next Locator, rc *redis.Client, ttl time.Duration) *CachedResolver {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &CachedResolver{next: next, rc: rc, ttl: ttl}
}

func cacheKey(c Coordinate) string { return fmt.Sprintf("geo:%.3f:%.3f", c.Lat, c.Lon) }

func (r *CachedResolver) Resolve(ctx context.Context, c Coordinate) (Result, error) {
	if r.rc == nil {
		return r.next.Resolve(ctx, c)
	}
	key := cacheKey(c)
	if s, err := r.rc.Get(ctx, key).Result(); err == nil && s != "" {
		var out Result
		if jerr := json.Unmarshal([]byte(s), &out); jerr == nil {
			metrics.GeoCacheHitsTotal.Inc()
			logger.L().Debug("geo_cache_hit", "key", key, "provider", out.Provider)
			out.Coordinates = c
			return out, nil
		}
		logger.L().Warn("geo_cache_decode_error", "key", key)
	} else if err != nil && err != redis.Nil {
		logger.L().Warn("geo_cache_get_error", "key", key, "err", err)
	}
	metrics.GeoCacheMissesTotal.Inc()
	res, err := r.next.Resolve(ctx, c)
	if err != nil {
		return res, err
	}
	b, _ := json.Marshal(res)
	if err := r.rc.Set(ctx, key, string(b), r.ttl).Err(); err != nil {
		logger.L().Warn("geo_cache_set_error", "key", key, "err", err)
	}
	return res, nil
}
