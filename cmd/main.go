// 程序入口：仅负责读取配置、初始化依赖并启动服务；API 注册在 internal/api 以便扩展
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"mgnrega-api/internal/api"
	"mgnrega-api/internal/config"
	"mgnrega-api/internal/geocode"
	"mgnrega-api/internal/leaderboard"
	"mgnrega-api/internal/logger"
	"mgnrega-api/internal/metrics"
	"mgnrega-api/internal/middleware"
	"mgnrega-api/internal/migrate"
	"mgnrega-api/internal/store"
	"mgnrega-api/internal/utils"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))
	// 日志初始化
	l := logger.Setup()
	l.Debug("log_init_ok")
	cfg := config.Load()
	l.Debug("config_api_base", "base", cfg.APIBase, "region", cfg.Region)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := utils.OpenPostgres(ctx, cfg.Postgres)
	if err != nil {
		l.Error("db_open_error", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	l.Info("db_open_ok", "db", cfg.Postgres.DB)
	if err := migrate.EnsureSchema(ctx, db); err != nil {
		l.Error("schema_error", "err", err)
		os.Exit(1)
	}
	st := store.AttachDB(db)

	rc := utils.OpenRedis(ctx, cfg.Redis)
	if rc == nil {
		l.Info("redis_disabled")
	} else {
		defer rc.Close()
	}

	// 文档注释：反地理解析链
	// 背景：服务顺序即配置顺序；凭据缺失的服务在启动日志中标明，运行时被跳过而非报错。
	client := &http.Client{Transport: &http.Transport{MaxIdleConnsPerHost: 8, IdleConnTimeout: 90 * time.Second}}
	resolver := geocode.NewFromConfig(cfg.Geo, cfg.Region, client)
	for _, pc := range cfg.Geo.Providers {
		l.Info("geo_provider", "name", pc.Name, "credential", pc.Credential.String(), "keyless", pc.Keyless, "disabled", pc.Disabled, "timeout", pc.Timeout.String())
	}
	l.Info("geo_chain", "providers", resolver.Providers())
	var loc geocode.Locator = resolver
	if rc != nil {
		loc = geocode.NewCachedResolver(resolver, rc, cfg.Geo.CacheTTL)
	}

	boards := leaderboard.NewService(st, cfg.Leaderboard.CacheTTL, cfg.Leaderboard.DefaultFinYear)
	// 数据导入完成后 kill -HUP 清空榜单缓存
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go boards.WatchReload(ctx, hup)

	deps := api.Deps{Geo: loc, Leaderboard: boards, Region: cfg.Region, DB: st}
	if cfg.RateLimit.Enabled {
		lim := middleware.NewLimiter(cfg.RateLimit.QPS, 5*time.Minute)
		deps.GeoLimit = lim.Wrap
		l.Info("geo_rate_limit", "qps", cfg.RateLimit.QPS)
	}

	mux := http.NewServeMux()
	apiMux := api.BuildRoutes(deps)
	mux.Handle(cfg.APIBase+"/", http.StripPrefix(cfg.APIBase, apiMux))
	mux.Handle(cfg.APIBase+"/metrics", metrics.Handler())

	handler := logger.AccessMiddleware(l)(mux)
	s := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		// 整条解析链最坏耗时为各服务超时之和
		WriteTimeout: 60 * time.Second,
	}
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		l.Info("shutdown_begin")
		_ = s.Shutdown(sctx)
	}()
	l.Info("listening", "addr", cfg.Addr)
	if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		l.Error("listen_error", "err", err)
		os.Exit(1)
	}
	l.Info("shutdown_done")
}
