package geocode

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"mgnrega-api/internal/config"
	"mgnrega-api/internal/logger"
)

// 文档注释：反地理服务接口（统一契约）
// 背景：各服务的请求参数与响应层级差异由实现自行吸收，解析链只依赖提取后的 Fields。
// 约束：Configured=false 的服务不会被调用；Reverse 需遵守自身超时并返回可被 errors.Is 归类的错误。
type Provider interface {
	Name() string
	Configured() bool
	Reverse(ctx context.Context, c Coordinate) (Fields, error)
}

// Extractor：单个服务响应形态的字段提取策略
type Extractor interface {
	Extract(body []byte, region string) (Fields, error)
}

// requestBuilder：按坐标与凭据构造查询参数
type requestBuilder func(c Coordinate, key string) url.Values

// 文档注释：通用 HTTP 反地理适配器
// 背景：所有在线服务均为单次 GET + JSON；差异仅在查询参数与提取策略，故共用请求、超时与错误归类。
// 约束：不重试；超时由 timeout 控制（与调用方 ctx 取较早者）；响应体上限 1MiB。
type httpProvider struct {
	name      string
	endpoint  string
	cred      config.Credential
	keyless   bool
	disabled  bool
	timeout   time.Duration
	userAgent string
	region    string
	build     requestBuilder
	extract   Extractor
	client    *http.Client
}

const maxBody = 1 << 20

func (p *httpProvider) Name() string { return p.name }

func (p *httpProvider) Configured() bool {
	if p.disabled {
		return false
	}
	return p.keyless || p.cred.Present()
}

func (p *httpProvider) Reverse(ctx context.Context, c Coordinate) (Fields, error) {
	if !p.Configured() {
		return Fields{}, fmt.Errorf("%s: %w", p.name, ErrProviderUnconfigured)
	}
	timeout := p.timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	u := p.endpoint + "?" + p.build(c, p.cred.Value()).Encode()
	req, err := http.NewRequestWithContext(cctx, http.MethodGet, u, nil)
	if err != nil {
		return Fields{}, fmt.Errorf("%s: build request: %w", p.name, err)
	}
	req.Header.Set("Accept", "application/json")
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}
	client := p.client
	if client == nil {
		client = http.DefaultClient
	}
	logger.L().Debug("geo_provider_req", "provider", p.name, "lat", c.Lat, "lon", c.Lon)
	resp, err := client.Do(req)
	if err != nil {
		if isTimeout(err) && ctx.Err() == nil {
			return Fields{}, fmt.Errorf("%s: after %s: %w", p.name, timeout, ErrProviderTimeout)
		}
		// *url.Error 的文本含完整请求地址（带 key），只保留底层原因
		var ue *url.Error
		if errors.As(err, &ue) {
			err = ue.Err
		}
		return Fields{}, fmt.Errorf("%s: %w: %v", p.name, ErrProviderHTTP, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
		return Fields{}, &HTTPStatusError{Provider: p.name, Code: resp.StatusCode}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		if isTimeout(err) && ctx.Err() == nil {
			return Fields{}, fmt.Errorf("%s: reading body: %w", p.name, ErrProviderTimeout)
		}
		return Fields{}, fmt.Errorf("%s: %w: read body: %v", p.name, ErrProviderHTTP, err)
	}
	f, err := p.extract.Extract(body, p.region)
	if err != nil {
		return Fields{}, fmt.Errorf("%s: %w", p.name, err)
	}
	return f, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
