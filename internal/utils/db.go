// 包 utils：数据库与 Redis 连接工具，参数统一来自 config
package utils

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"mgnrega-api/internal/config"
	"mgnrega-api/internal/logger"

	_ "github.com/lib/pq"
)

// OpenPostgres：按配置打开连接池并做一次带超时的连通性检查
// 约束：MaxOpenConns/MaxIdleConns 为 0 时使用 20/10
func OpenPostgres(ctx context.Context, pc config.Postgres) (*sql.DB, error) {
	db, err := sql.Open("postgres", pc.DSN())
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	maxOpen, maxIdle := pc.MaxOpenConns, pc.MaxIdleConns
	if maxOpen <= 0 {
		maxOpen = 20
	}
	if maxIdle <= 0 {
		maxIdle = 10
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres %s:%s/%s: %w", pc.Host, pc.Port, pc.DB, err)
	}
	logger.L().Debug("pg_open", "host", pc.Host, "db", pc.DB, "max_open", maxOpen, "max_idle", maxIdle)
	return db, nil
}
