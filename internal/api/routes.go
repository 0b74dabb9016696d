// 包 api：集中注册 HTTP API 路由以解耦主入口，便于后续扩展与替换
package api

import (
	"context"
	"net/http"

	"mgnrega-api/internal/geocode"
)

// Pinger：健康检查依赖（数据库）
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps：路由依赖；GeoLimit 为空时 /geo 不限流，DB 为空时健康检查只报告进程存活
type Deps struct {
	Geo         geocode.Locator
	Leaderboard BoardSource
	Region      string
	GeoLimit    func(http.Handler) http.Handler
	DB          Pinger
}

// 构建并返回 API 路由：独立 ServeMux 便于在主入口挂载到 /api 前缀
func BuildRoutes(d Deps) *http.ServeMux {
	apiMux := http.NewServeMux()

	var geo http.Handler = geoResolveHandler(d.Geo, d.Region)
	if d.GeoLimit != nil {
		geo = d.GeoLimit(geo)
	}
	apiMux.Handle("GET /geo/resolve", geo)

	lb := &leaderboardHandlers{src: d.Leaderboard, region: d.Region}
	apiMux.HandleFunc("GET /leaderboard", lb.full)
	apiMux.HandleFunc("GET /leaderboard/top", lb.top)
	apiMux.HandleFunc("GET /leaderboard/category", lb.category)
	apiMux.HandleFunc("GET /leaderboard/district", lb.rank)

	apiMux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		m := map[string]any{"status": "ok"}
		if d.DB != nil {
			if err := d.DB.Ping(r.Context()); err != nil {
				m["status"] = "degraded"
				m["db"] = err.Error()
				writeJSON(w, http.StatusServiceUnavailable, m)
				return
			}
			m["db"] = "ok"
		}
		writeJSON(w, http.StatusOK, m)
	})

	return apiMux
}
