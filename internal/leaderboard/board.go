package leaderboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// ErrDistrictNotFound：排行榜中没有该县，属于正常的查询结果
var ErrDistrictNotFound = errors.New("district not found in leaderboard")

// ErrUnknownCategory：分档名称无法识别
var ErrUnknownCategory = errors.New("unknown leaderboard category")

// 得分权重：人日 60%，支出 40%
const (
	personDaysWeight  = 0.6
	expenditureWeight = 0.4
)

// Category：得分分档
type Category int

const (
	Excellent Category = iota
	Good
	Average
	NeedsImprovement
)

var categoryNames = [...]string{"Excellent", "Good", "Average", "NeedsImprovement"}

func (c Category) String() string {
	if c < Excellent || c > NeedsImprovement {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

func (c Category) MarshalJSON() ([]byte, error) { return json.Marshal(c.String()) }

func (c *Category) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseCategory(s)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// ParseCategory：大小写无关，接受 "needs improvement"、"needs_improvement"、"needs-improvement"
func ParseCategory(s string) (Category, error) {
	k := strings.ToLower(strings.TrimSpace(s))
	k = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(k)
	for i, n := range categoryNames {
		if strings.ToLower(n) == k {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// categorize：阈值自高到低，首个满足者生效
func categorize(score float64) Category {
	switch {
	case score >= 80:
		return Excellent
	case score >= 60:
		return Good
	case score >= 40:
		return Average
	}
	return NeedsImprovement
}

func round2(x float64) float64 { return math.Round(x*100) / 100 }

// Entry：排行榜条目
type Entry struct {
	Rank     int      `json:"rank"`
	District string   `json:"districtName"`
	Score    float64  `json:"score"`
	Category Category `json:"category"`
	Metrics  Record   `json:"metrics"`
}

// Board：已排名的排行榜；构建后只读，可并发查询
type Board struct {
	entries []Entry
}

// 文档注释：构建排行榜
// 步骤：按县聚合 → 取人日与支出的最大值（下限 1，避免全 0 时除零）→ 加权得分保留两位小数 → 分档 →
// 按得分降序稳定排序 → 名次 1..N 连续无并列。
// 返回：空输入得到空榜，不是错误。
func Build(rows []Record) *Board {
	agg := Aggregate(rows)
	maxPD, maxExp := 1.0, 1.0
	for _, r := range agg {
		maxPD = math.Max(maxPD, r.TotalPersonDays)
		maxExp = math.Max(maxExp, r.TotalExpenditure)
	}
	entries := make([]Entry, len(agg))
	for i, r := range agg {
		score := round2((r.TotalPersonDays/maxPD*personDaysWeight + r.TotalExpenditure/maxExp*expenditureWeight) * 100)
		entries[i] = Entry{District: r.District, Score: score, Category: categorize(score), Metrics: r}
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Score > entries[j].Score })
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return &Board{entries: entries}
}

// Entries：完整排行榜副本
func (b *Board) Entries() []Entry { return b.TopN(b.Len()) }

func (b *Board) Len() int { return len(b.entries) }

// RankOf：县名大小写无关的精确匹配；未找到返回 ErrDistrictNotFound
func (b *Board) RankOf(name string) (Entry, error) {
	name = strings.TrimSpace(name)
	for _, e := range b.entries {
		if strings.EqualFold(e.District, name) {
			return e, nil
		}
	}
	return Entry{}, fmt.Errorf("%w: %q", ErrDistrictNotFound, name)
}

// TopN：前 n 名，n 截断到 [0, N]
func (b *Board) TopN(n int) []Entry {
	n = max(0, min(n, len(b.entries)))
	out := make([]Entry, n)
	copy(out, b.entries[:n])
	return out
}

// ByCategory：指定分档的全部条目，保持名次顺序
func (b *Board) ByCategory(c Category) []Entry {
	out := []Entry{}
	for _, e := range b.entries {
		if e.Category == c {
			out = append(out, e)
		}
	}
	return out
}

// ByCategoryName：按分档名称查询，名称规则同 ParseCategory
func (b *Board) ByCategoryName(s string) ([]Entry, error) {
	c, err := ParseCategory(s)
	if err != nil {
		return nil, err
	}
	return b.ByCategory(c), nil
}
