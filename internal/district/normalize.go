package district

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// adminSuffixes：行政单元后缀，按顺序逐个尝试剥离（互不排斥）
var adminSuffixes = []string{" DISTRICT", " TALUK", " TALUKA", " TEHSIL"}

// minSimilarity：模糊匹配的最低相似度
const minSimilarity = 0.8

func clean(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), " "))
}

// stripSuffixes：循环剥离后缀直到不再变化，保证多重后缀（如 "X TALUKA DISTRICT"）一次处理干净
func stripSuffixes(s string) string {
	for {
		prev := s
		for _, suf := range adminSuffixes {
			if len(s) > len(suf) && strings.HasSuffix(s, suf) {
				s = strings.TrimSpace(strings.TrimSuffix(s, suf))
			}
		}
		if s == prev {
			return s
		}
	}
}

// 文档注释：县名规范化
// 步骤：去首尾空白并折叠内部空白、转大写；剥离 DISTRICT/TALUK/TALUKA/TEHSIL 后缀；查更正表。
// 返回：规范名与 ok；输入为空（或仅空白）时返回 ("", false)。
// 约束：幂等；大小写不敏感；输出恒为大写。
func (r *Rules) Normalize(raw string) (string, bool) {
	s := clean(raw)
	if s == "" {
		return "", false
	}
	s = stripSuffixes(s)
	v, _ := r.Lookup(s)
	return v, true
}

// Normalize：使用默认规则表规范化
func Normalize(raw string) (string, bool) { return defaultTable.Normalize(raw) }

// Match：模糊对齐结果
type Match struct {
	Input      string  `json:"input"`
	District   string  `json:"district"`
	Similarity float64 `json:"similarity"`
	Exact      bool    `json:"exact"`
}

// 文档注释：将任意拼写对齐到规范县名
// 背景：数据集与用户输入的县名拼写不一，排行榜按规范名精确匹配；未命中时以编辑距离给出候选。
// 约束：先走 Normalize；相似度 = 1 - 距离/较长串长度，低于 0.8 视为无匹配；并列时取 Canonical 顺序靠前者。
func (r *Rules) Reconcile(name string) (Match, bool) {
	n, ok := r.Normalize(name)
	if !ok {
		return Match{Input: name}, false
	}
	for _, c := range Canonical {
		if c == n {
			return Match{Input: name, District: c, Similarity: 1, Exact: true}, true
		}
	}
	best := Match{Input: name}
	for _, c := range Canonical {
		d := levenshtein.ComputeDistance(n, c)
		longest := len(n)
		if len(c) > longest {
			longest = len(c)
		}
		sim := 1 - float64(d)/float64(longest)
		if sim > best.Similarity {
			best.District = c
			best.Similarity = sim
		}
	}
	if best.Similarity < minSimilarity {
		return Match{Input: name}, false
	}
	return best, true
}

// Reconcile：使用默认规则表对齐
func Reconcile(name string) (Match, bool) { return defaultTable.Reconcile(name) }

// IsCanonical：是否为规范县名（大小写不敏感）
func IsCanonical(name string) bool {
	n := clean(name)
	for _, c := range Canonical {
		if c == n {
			return true
		}
	}
	return false
}
