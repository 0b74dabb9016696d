package middleware

import (
	"net"
	"net/http"
	"strings"
)

// 文档注释：获取访问者 IP（用于限流分桶）
// 背景：部署在反向代理之后，优先常见代理头，最后回退远端地址。
// 约束：头部可被伪造，仅用于分桶限流，不作鉴权依据；部署于不可信链路时应由网关覆盖这些头。
func VisitorIP(r *http.Request) string {
	h := r.Header
	if x := h.Get("x-forwarded-for"); x != "" {
		return strings.TrimSpace(strings.Split(x, ",")[0])
	}
	for _, k := range []string{"cf-connecting-ip", "x-real-ip", "x-client-ip"} {
		if x := strings.TrimSpace(h.Get(k)); x != "" {
			return x
		}
	}
	if x := h.Get("forwarded"); x != "" {
		if i := strings.Index(strings.ToLower(x), "for="); i >= 0 {
			y := strings.Trim(x[i+4:], "\" ")
			if p := strings.IndexAny(y, ";,"); p >= 0 {
				y = y[:p]
			}
			y = strings.Trim(y, "\"")
			// for="[2001:db8::1]:4711" 或 for=192.0.2.60:8080：去掉端口，同一客户端共用一个桶
			if host, _, err := net.SplitHostPort(y); err == nil {
				return host
			}
			return strings.Trim(y, "[]")
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
