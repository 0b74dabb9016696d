package utils

import (
	"context"
	"time"

	"mgnrega-api/internal/config"
	"mgnrega-api/internal/logger"

	"github.com/redis/go-redis/v9"
)

// OpenRedis：按配置打开 Redis 客户端
// 约束：未启用或地址为空时返回 nil（调用方据此跳过缓存）；连通性检查失败只记日志，客户端照常返回，
// 缓存层会把读写错误当作未命中处理。
func OpenRedis(ctx context.Context, rc config.Redis) *redis.Client {
	if !rc.Enabled || rc.Addr == "" {
		return nil
	}
	cli := redis.NewClient(&redis.Options{Addr: rc.Addr, Password: rc.Pass, DB: rc.DB})
	pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := cli.Ping(pctx).Err(); err != nil {
		logger.L().Warn("redis_ping_failed", "addr", rc.Addr, "err", err)
	} else {
		logger.L().Debug("redis_open", "addr", rc.Addr, "db", rc.DB)
	}
	return cli
}
