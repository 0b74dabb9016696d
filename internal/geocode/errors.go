package geocode

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrProviderUnconfigured：凭据缺失或被禁用，属于主动跳过
	ErrProviderUnconfigured = errors.New("provider unconfigured")
	// ErrProviderTimeout：单个服务超过自身超时
	ErrProviderTimeout = errors.New("provider timeout")
	// ErrProviderHTTP：网络错误、非 2xx 或服务返回错误状态
	ErrProviderHTTP = errors.New("provider http error")
	// ErrProviderInsufficientData：响应成功但缺少邦或县
	ErrProviderInsufficientData = errors.New("provider insufficient data")
	// ErrAllProvidersExhausted：全部服务均未给出可用结果
	ErrAllProvidersExhausted = errors.New("all geocoding providers exhausted")
)

// HTTPStatusError：非 2xx 响应
type HTTPStatusError struct {
	Provider string
	Code     int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Provider, e.Code)
}

func (e *HTTPStatusError) Unwrap() error { return ErrProviderHTTP }

// Outcome：单次尝试的结论
type Outcome string

const (
	OutcomeOK           Outcome = "ok"
	OutcomeSkipped      Outcome = "skipped"
	OutcomeTimeout      Outcome = "timeout"
	OutcomeHTTPError    Outcome = "http_error"
	OutcomeInsufficient Outcome = "insufficient"
	OutcomeError        Outcome = "error"
)

// Attempt：解析链中某个服务的尝试记录
type Attempt struct {
	Provider string  `json:"provider"`
	Outcome  Outcome `json:"outcome"`
	Reason   string  `json:"reason,omitempty"`
	Err      error   `json:"-"`
}

func classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrProviderUnconfigured):
		return OutcomeSkipped
	case errors.Is(err, ErrProviderTimeout):
		return OutcomeTimeout
	case errors.Is(err, ErrProviderHTTP):
		return OutcomeHTTPError
	case errors.Is(err, ErrProviderInsufficientData):
		return OutcomeInsufficient
	}
	return OutcomeError
}

// ExhaustedError：Resolve 的终态错误，按尝试顺序携带每个服务的结论
type ExhaustedError struct {
	Coordinate Coordinate
	Attempts   []Attempt
}

func (e *ExhaustedError) Error() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		if a.Reason != "" {
			parts = append(parts, fmt.Sprintf("%s=%s (%s)", a.Provider, a.Outcome, a.Reason))
		} else {
			parts = append(parts, fmt.Sprintf("%s=%s", a.Provider, a.Outcome))
		}
	}
	return fmt.Sprintf("%s for %s: %s", ErrAllProvidersExhausted, e.Coordinate, strings.Join(parts, "; "))
}

func (e *ExhaustedError) Is(target error) bool { return target == ErrAllProvidersExhausted }

// Skipped / Failed：按结论筛选尝试记录
func (e *ExhaustedError) Skipped() []string { return e.filter(func(o Outcome) bool { return o == OutcomeSkipped }) }

func (e *ExhaustedError) Failed() []string { return e.filter(func(o Outcome) bool { return o != OutcomeSkipped }) }

func (e *ExhaustedError) filter(keep func(Outcome) bool) []string {
	var out []string
	for _, a := range e.Attempts {
		if keep(a.Outcome) {
			out = append(out, a.Provider)
		}
	}
	return out
}
