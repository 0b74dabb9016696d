package geocode

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"mgnrega-api/internal/config"
	"mgnrega-api/internal/district"
	"mgnrega-api/internal/logger"
	"mgnrega-api/internal/metrics"
)

// Locator：解析入口的最小契约（Resolver 与 CachedResolver 均实现）
type Locator interface {
	Resolve(ctx context.Context, c Coordinate) (Result, error)
}

// 文档注释：反地理解析链
// 背景：按配置顺序逐个调用服务，首个同时给出邦与县的结果立即返回，其余服务不再请求（节省付费配额）。
// 约束：构造后只读，可并发调用；失败不重试；仅当邦名与 region 大小写无关相等时才做县名规范化。
type Resolver struct {
	providers []Provider
	region    string
	rules     *district.Rules
}

// NewResolver：rules 为空时使用默认县名规则表
func NewResolver(region string, rules *district.Rules, providers ...Provider) *Resolver {
	if rules == nil {
		rules = district.DefaultRules()
	}
	return &Resolver{providers: providers, region: region, rules: rules}
}

// NewFromConfig：按配置组装在线服务链，启用时在末尾追加离线县治所兜底
func NewFromConfig(cfg config.Geo, region string, client *http.Client) *Resolver {
	if client == nil {
		client = &http.Client{}
	}
	var ps []Provider
	for _, pc := range cfg.Providers {
		switch pc.Name {
		case "google":
			ps = append(ps, NewGoogle(pc, region, client))
		case "locationiq":
			ps = append(ps, NewLocationIQ(pc, region, client))
		case "opencage":
			ps = append(ps, NewOpenCage(pc, region, client))
		case "nominatim":
			ps = append(ps, NewNominatim(pc, region, client))
		default:
			logger.L().Warn("geo_provider_unknown", "name", pc.Name)
		}
	}
	if cfg.CentroidEnabled {
		ps = append(ps, NewCentroid(cfg.CentroidMaxKm))
	}
	return NewResolver(region, nil, ps...)
}

// Providers：按优先级返回服务名，用于启动日志
func (r *Resolver) Providers() []string {
	out := make([]string, len(r.providers))
	for i, p := range r.providers {
		out[i] = p.Name()
	}
	return out
}

// 文档注释：解析坐标
// 返回：首个充分结果；全部失败时返回 *ExhaustedError（errors.Is(err, ErrAllProvidersExhausted) 为真）。
// 异常：调用方 ctx 取消时立即停止并返回 ctx 错误，不再尝试后续服务。
func (r *Resolver) Resolve(ctx context.Context, c Coordinate) (Result, error) {
	t0 := time.Now()
	defer func() { metrics.GeoResolveDurationMs.Observe(float64(time.Since(t0).Milliseconds())) }()

	attempts := make([]Attempt, 0, len(r.providers))
	for _, p := range r.providers {
		if !p.Configured() {
			attempts = append(attempts, Attempt{Provider: p.Name(), Outcome: OutcomeSkipped, Reason: "unconfigured", Err: ErrProviderUnconfigured})
			metrics.GeoProviderRequestsTotal.WithLabelValues(p.Name(), string(OutcomeSkipped)).Inc()
			logger.L().Info("geo_provider_skipped", "provider", p.Name())
			continue
		}
		res, err := r.try(ctx, p, c)
		if err == nil {
			attempts = append(attempts, Attempt{Provider: p.Name(), Outcome: OutcomeOK})
			metrics.GeoProviderRequestsTotal.WithLabelValues(p.Name(), string(OutcomeOK)).Inc()
			metrics.GeoResolveTotal.WithLabelValues("ok").Inc()
			logger.L().Debug("geo_resolve_ok", "provider", p.Name(), "state", res.State, "district", res.District, "attempts", len(attempts))
			return res, nil
		}
		if ctx.Err() != nil {
			metrics.GeoResolveTotal.WithLabelValues("canceled").Inc()
			return Result{}, fmt.Errorf("resolve %s: %w", c, ctx.Err())
		}
		a := Attempt{Provider: p.Name(), Outcome: classify(err), Reason: err.Error(), Err: err}
		attempts = append(attempts, a)
		metrics.GeoProviderRequestsTotal.WithLabelValues(p.Name(), string(a.Outcome)).Inc()
		logger.L().Warn("geo_provider_failed", "provider", p.Name(), "outcome", a.Outcome, "err", err)
	}
	metrics.GeoResolveTotal.WithLabelValues("exhausted").Inc()
	e := &ExhaustedError{Coordinate: c, Attempts: attempts}
	logger.L().Warn("geo_resolve_exhausted", "coord", c.String(), "skipped", e.Skipped(), "failed", e.Failed())
	return Result{}, e
}

func (r *Resolver) try(ctx context.Context, p Provider, c Coordinate) (Result, error) {
	t0 := time.Now()
	f, err := p.Reverse(ctx, c)
	metrics.GeoProviderDurationMs.WithLabelValues(p.Name()).Observe(float64(time.Since(t0).Milliseconds()))
	if err != nil {
		return Result{}, err
	}
	f.State = strings.TrimSpace(f.State)
	f.District = strings.TrimSpace(f.District)
	if f.State == "" && f.District == "" {
		return Result{}, fmt.Errorf("%s: %w: no state or district", p.Name(), ErrProviderInsufficientData)
	}
	if strings.EqualFold(f.State, r.region) {
		f.District, _ = r.rules.Normalize(f.District)
	}
	if f.State == "" || f.District == "" {
		missing := "state"
		if f.District == "" {
			missing = "district"
		}
		return Result{}, fmt.Errorf("%s: %w: missing %s", p.Name(), ErrProviderInsufficientData, missing)
	}
	return Result{
		State:            f.State,
		District:         f.District,
		City:             strings.TrimSpace(f.City),
		Country:          strings.TrimSpace(f.Country),
		FormattedAddress: f.FormattedAddress,
		Coordinates:      c,
		Accuracy:         f.Accuracy,
		Provider:         p.Name(),
	}, nil
}

// IsExhausted：取出终态错误中的尝试记录
func IsExhausted(err error) (*ExhaustedError, bool) {
	var e *ExhaustedError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
