// 包 leaderboard：按县汇总 MGNREGA 绩效数据，计算综合得分、排名与分档
package leaderboard

// Record：单行县级绩效数据（通常为某县某月）；缺失的数值字段视为 0
// 约束：District 需为上游已规范化的县名，分组按精确字符串匹配
type Record struct {
	District           string  `json:"districtName"`
	TotalPersonDays    float64 `json:"totalPersonDays"`
	TotalExpenditure   float64 `json:"totalExpenditure"`
	EmploymentProvided float64 `json:"employmentProvided"`
	HouseholdsWorked   float64 `json:"householdsWorked"`
	WorksCompleted     float64 `json:"worksCompleted"`
	WorksInProgress    float64 `json:"worksInProgress"`
	AvgWageRate        float64 `json:"avgWageRate"`
	FinYear            string  `json:"finYear,omitempty"`
	Month              string  `json:"month,omitempty"`
}

type group struct {
	rec      Record
	wageSum  float64
	wageRows int
}

// 文档注释：按县聚合
// 规则：人日、支出、就业人数、完工/在建工程求和；户数取最大值（该字段为累计口径，求和会重复计数）；
// 工资率只对大于 0 的行取平均，无有效行时为 0。
// 返回：按县首次出现的顺序输出，该顺序即并列得分时的决胜顺序；Month 清空，FinYear 取首行。
func Aggregate(rows []Record) []Record {
	idx := make(map[string]int, len(rows))
	var groups []*group
	for _, r := range rows {
		i, ok := idx[r.District]
		if !ok {
			i = len(groups)
			idx[r.District] = i
			groups = append(groups, &group{rec: Record{District: r.District, FinYear: r.FinYear}})
		}
		g := groups[i]
		g.rec.TotalPersonDays += r.TotalPersonDays
		g.rec.TotalExpenditure += r.TotalExpenditure
		g.rec.EmploymentProvided += r.EmploymentProvided
		g.rec.WorksCompleted += r.WorksCompleted
		g.rec.WorksInProgress += r.WorksInProgress
		if r.HouseholdsWorked > g.rec.HouseholdsWorked {
			g.rec.HouseholdsWorked = r.HouseholdsWorked
		}
		if r.AvgWageRate > 0 {
			g.wageSum += r.AvgWageRate
			g.wageRows++
		}
	}
	out := make([]Record, len(groups))
	for i, g := range groups {
		if g.wageRows > 0 {
			g.rec.AvgWageRate = g.wageSum / float64(g.wageRows)
		}
		out[i] = g.rec
	}
	return out
}
