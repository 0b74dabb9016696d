package config

import "strings"

// Credential：可缺省的 API 凭据；零值即“未配置”
type Credential struct {
	value string
}

// ParseCredential：解析原始凭据文本
// 约束：空白、YOUR_*、*_HERE、CHANGEME、<...> 等占位写法一律视为未配置
func ParseCredential(raw string) Credential {
	s := strings.TrimSpace(raw)
	if s == "" || isPlaceholder(s) {
		return Credential{}
	}
	return Credential{value: s}
}

func isPlaceholder(s string) bool {
	u := strings.ToUpper(s)
	switch {
	case strings.HasPrefix(u, "YOUR_"), strings.HasPrefix(u, "YOUR-"):
		return true
	case strings.HasSuffix(u, "_HERE"):
		return true
	case u == "CHANGEME", u == "CHANGE_ME", u == "XXX", u == "TODO", u == "NONE", u == "NULL":
		return true
	case strings.HasPrefix(u, "<") && strings.HasSuffix(u, ">"):
		return true
	}
	return false
}

// Present：凭据是否可用
func (c Credential) Present() bool { return c.value != "" }

// Value：凭据明文
func (c Credential) Value() string { return c.value }

// String：脱敏输出，避免凭据进入日志
func (c Credential) String() string {
	if c.value == "" {
		return "<unset>"
	}
	return "***"
}
