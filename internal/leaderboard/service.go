package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"mgnrega-api/internal/logger"
	"mgnrega-api/internal/metrics"

	"github.com/patrickmn/go-cache"
)

// ErrNoFinancialYear：未指定财年且数据源中没有任何财年
var ErrNoFinancialYear = errors.New("no financial year available")

// RowSource：排行榜原始数据来源（由 store 实现）
// 约束：PerformanceRows 返回的县名已规范化；FinancialYears 按新到旧排序
type RowSource interface {
	PerformanceRows(ctx context.Context, state, finYear string) ([]Record, error)
	FinancialYears(ctx context.Context, state string) ([]string, error)
}

// 文档注释：排行榜服务
// 背景：同一邦同一财年的榜单在数据刷新前不会变化，按 邦:财年 在进程内缓存构建结果。
// 约束：缓存的 *Board 只读，可被多个请求共享；数据导入后向进程发送 SIGHUP 触发 Invalidate（见 WatchReload）。
type Service struct {
	src         RowSource
	memo        *cache.Cache
	defaultYear string
}

// NewService：ttl<=0 时取 10 分钟；defaultYear 为空时使用数据源中最新的财年
func NewService(src RowSource, ttl time.Duration, defaultYear string) *Service {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Service{src: src, memo: cache.New(ttl, 2*ttl), defaultYear: defaultYear}
}

func memoKey(state, finYear string) string { return state + ":" + finYear }

// FinYear：解析请求财年，空值依次回退到默认财年与最新财年
func (s *Service) FinYear(ctx context.Context, state, finYear string) (string, error) {
	if finYear != "" {
		return finYear, nil
	}
	if s.defaultYear != "" {
		return s.defaultYear, nil
	}
	years, err := s.src.FinancialYears(ctx, state)
	if err != nil {
		return "", fmt.Errorf("list financial years: %w", err)
	}
	if len(years) == 0 {
		return "", fmt.Errorf("%w for %s", ErrNoFinancialYear, state)
	}
	return years[0], nil
}

// 文档注释：获取排行榜
// 返回：实际使用的财年与榜单；数据源无数据时得到空榜
func (s *Service) Board(ctx context.Context, state, finYear string) (string, *Board, error) {
	fy, err := s.FinYear(ctx, state, finYear)
	if err != nil {
		return "", nil, err
	}
	key := memoKey(state, fy)
	if v, ok := s.memo.Get(key); ok {
		metrics.LeaderboardCacheHitsTotal.Inc()
		return fy, v.(*Board), nil
	}
	t0 := time.Now()
	rows, err := s.src.PerformanceRows(ctx, state, fy)
	if err != nil {
		return "", nil, fmt.Errorf("load rows %s: %w", key, err)
	}
	b := Build(rows)
	s.memo.SetDefault(key, b)
	metrics.LeaderboardBuildsTotal.Inc()
	metrics.LeaderboardDistricts.Set(float64(b.Len()))
	logger.L().Info("leaderboard_built", "state", state, "fin_year", fy, "rows", len(rows), "districts", b.Len(), "ms", time.Since(t0).Milliseconds())
	return fy, b, nil
}

// Invalidate：清空全部缓存榜单
func (s *Service) Invalidate() {
	s.memo.Flush()
	logger.L().Info("leaderboard_cache_flushed")
}

// 文档注释：监听重载信号
// 背景：导入任务写库后通过 SIGHUP 通知服务，下一次请求即按新数据重建榜单。
// 约束：阻塞至 ctx 结束；reload 关闭时同样退出。
func (s *Service) WatchReload(ctx context.Context, reload <-chan os.Signal) {
	for {
		select {
		case <-ctx.Done():
			return
		case sig, ok := <-reload:
			if !ok {
				return
			}
			logger.L().Info("leaderboard_reload_signal", "signal", sig.String())
			s.Invalidate()
		}
	}
}
