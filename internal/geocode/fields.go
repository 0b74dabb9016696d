package geocode

import (
	"strings"
)

// FieldRule：县字段候选；RequireRegion 表示仅当提取到的邦属于目标邦时才采用（如把大城市名当作县）
type FieldRule struct {
	Key           string
	RequireRegion bool
}

// FieldPriority：县字段按序取第一个非空值
type FieldPriority []FieldRule

// 文档注释：解析字段优先级配置
// 格式：逗号分隔的字段名，字段名后缀 "?region" 表示仅目标邦内采用，如 "state_district,city?region,county"。
// 返回：空串或全部为空白时返回 def。
func ParseFieldPriority(s string, def FieldPriority) FieldPriority {
	var out FieldPriority
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		rule := FieldRule{Key: part}
		if k, ok := strings.CutSuffix(part, "?region"); ok {
			rule = FieldRule{Key: strings.TrimSpace(k), RequireRegion: true}
		}
		if rule.Key != "" {
			out = append(out, rule)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// String：与 ParseFieldPriority 互逆的文本形式
func (p FieldPriority) String() string {
	parts := make([]string, len(p))
	for i, r := range p {
		parts[i] = r.Key
		if r.RequireRegion {
			parts[i] += "?region"
		}
	}
	return strings.Join(parts, ",")
}

// pick：按优先级从扁平字段表中挑选县名
func (p FieldPriority) pick(fields map[string]string, inRegion bool) string {
	for _, r := range p {
		if r.RequireRegion && !inRegion {
			continue
		}
		if v := strings.TrimSpace(fields[r.Key]); v != "" {
			return v
		}
	}
	return ""
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
