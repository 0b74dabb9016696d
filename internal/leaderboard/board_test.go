package leaderboard

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildScenarioTwoDistricts(t *testing.T) {
	b := Build([]Record{
		{District: "A", TotalPersonDays: 100000, TotalExpenditure: 0},
		{District: "B", TotalPersonDays: 50000, TotalExpenditure: 100000000},
	})
	es := b.Entries()
	require.Len(t, es, 2)
	assert.Equal(t, "B", es[0].District)
	assert.Equal(t, 1, es[0].Rank)
	assert.Equal(t, 70.00, es[0].Score)
	assert.Equal(t, Good, es[0].Category)
	assert.Equal(t, "A", es[1].District)
	assert.Equal(t, 2, es[1].Rank)
	assert.Equal(t, 60.00, es[1].Score)
	assert.Equal(t, Good, es[1].Category)
}

func TestBuildEmpty(t *testing.T) {
	b := Build(nil)
	assert.Equal(t, 0, b.Len())
	assert.Empty(t, b.Entries())
	assert.Empty(t, b.TopN(3))

	_, err := b.RankOf("PUNE")
	assert.ErrorIs(t, err, ErrDistrictNotFound)
}

func TestBuildAllZero(t *testing.T) {
	b := Build([]Record{{District: "X"}, {District: "Y"}})
	for _, e := range b.Entries() {
		assert.Equal(t, 0.0, e.Score)
		assert.Equal(t, NeedsImprovement, e.Category)
	}
	assert.Equal(t, "X", b.Entries()[0].District)
}

func TestBuildTopDistrictScores100(t *testing.T) {
	b := Build([]Record{
		{District: "LATUR", TotalPersonDays: 10, TotalExpenditure: 30},
		{District: "PUNE", TotalPersonDays: 900, TotalExpenditure: 5000},
		{District: "BEED", TotalPersonDays: 450, TotalExpenditure: 100},
	})
	top := b.Entries()[0]
	assert.Equal(t, "PUNE", top.District)
	assert.Equal(t, 100.0, top.Score)
	assert.Equal(t, Excellent, top.Category)
	for _, e := range b.Entries() {
		assert.GreaterOrEqual(t, e.Score, 0.0)
		assert.LessOrEqual(t, e.Score, 100.0)
	}
}

func TestBuildRanksAreContiguous(t *testing.T) {
	var rows []Record
	for i := 0; i < 36; i++ {
		rows = append(rows, Record{District: fmt.Sprintf("D%02d", i), TotalPersonDays: float64(i % 7), TotalExpenditure: float64(i % 5)})
	}
	es := Build(rows).Entries()
	require.Len(t, es, 36)
	seen := map[int]bool{}
	for i, e := range es {
		assert.Equal(t, i+1, e.Rank)
		seen[e.Rank] = true
		if i > 0 {
			assert.GreaterOrEqual(t, es[i-1].Score, e.Score)
		}
	}
	assert.Len(t, seen, 36)
}

func TestBuildTiesKeepInputOrder(t *testing.T) {
	b := Build([]Record{
		{District: "SATARA", TotalPersonDays: 50, TotalExpenditure: 50},
		{District: "NAGPUR", TotalPersonDays: 100, TotalExpenditure: 100},
		{District: "SANGLI", TotalPersonDays: 50, TotalExpenditure: 50},
		{District: "SATARA", TotalPersonDays: 0, TotalExpenditure: 0},
	})
	es := b.Entries()
	require.Len(t, es, 3)
	assert.Equal(t, []string{"NAGPUR", "SATARA", "SANGLI"}, []string{es[0].District, es[1].District, es[2].District})
	assert.Equal(t, es[1].Score, es[2].Score)
	assert.Equal(t, 2, es[1].Rank)
	assert.Equal(t, 3, es[2].Rank)
}

func TestAggregate(t *testing.T) {
	agg := Aggregate([]Record{
		{District: "PUNE", TotalPersonDays: 100, TotalExpenditure: 10, EmploymentProvided: 5, HouseholdsWorked: 40, WorksCompleted: 2, WorksInProgress: 3, AvgWageRate: 250, FinYear: "2024-2025", Month: "Apr"},
		{District: "THANE", TotalPersonDays: 7, AvgWageRate: 0},
		{District: "PUNE", TotalPersonDays: 50, TotalExpenditure: 5, EmploymentProvided: 1, HouseholdsWorked: 60, WorksCompleted: 1, WorksInProgress: 1, AvgWageRate: 0, Month: "May"},
		{District: "PUNE", HouseholdsWorked: 55, AvgWageRate: 270},
	})
	require.Len(t, agg, 2)
	p := agg[0]
	assert.Equal(t, "PUNE", p.District)
	assert.Equal(t, 150.0, p.TotalPersonDays)
	assert.Equal(t, 15.0, p.TotalExpenditure)
	assert.Equal(t, 6.0, p.EmploymentProvided)
	assert.Equal(t, 60.0, p.HouseholdsWorked)
	assert.Equal(t, 3.0, p.WorksCompleted)
	assert.Equal(t, 4.0, p.WorksInProgress)
	assert.InDelta(t, 260.0, p.AvgWageRate, 1e-9)
	assert.Equal(t, "2024-2025", p.FinYear)
	assert.Empty(t, p.Month)

	assert.Equal(t, "THANE", agg[1].District)
	assert.Equal(t, 0.0, agg[1].AvgWageRate)
}

func TestAggregateGroupsByExactName(t *testing.T) {
	agg := Aggregate([]Record{{District: "Pune"}, {District: "PUNE"}})
	assert.Len(t, agg, 2)
}

func TestCategorizeThresholds(t *testing.T) {
	cases := map[float64]Category{
		100: Excellent, 80: Excellent, 79.99: Good, 60: Good,
		59.99: Average, 40: Average, 39.99: NeedsImprovement, 0: NeedsImprovement,
	}
	for score, want := range cases {
		assert.Equal(t, want, categorize(score), "score %.2f", score)
	}
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 33.33, round2(33.3333))
	assert.Equal(t, 66.67, round2(66.666))
	assert.Equal(t, 60.0, round2((0.6*1+0.4*0)*100))
}

func sampleBoard() *Board {
	return Build([]Record{
		{District: "PUNE", TotalPersonDays: 1000, TotalExpenditure: 1000},
		{District: "NASHIK", TotalPersonDays: 800, TotalExpenditure: 700},
		{District: "LATUR", TotalPersonDays: 600, TotalExpenditure: 500},
		{District: "BEED", TotalPersonDays: 300, TotalExpenditure: 600},
		{District: "WASHIM", TotalPersonDays: 100, TotalExpenditure: 50},
	})
}

func TestRankOf(t *testing.T) {
	b := sampleBoard()
	e, err := b.RankOf("  nashik ")
	require.NoError(t, err)
	assert.Equal(t, 2, e.Rank)
	assert.Equal(t, "NASHIK", e.District)

	_, err = b.RankOf("Unknown District")
	assert.ErrorIs(t, err, ErrDistrictNotFound)
}

func TestTopN(t *testing.T) {
	b := sampleBoard()
	assert.Equal(t, b.Entries()[:3], b.TopN(3))
	assert.Empty(t, b.TopN(0))
	assert.Empty(t, b.TopN(-4))
	assert.Len(t, b.TopN(99), b.Len())

	// 返回副本，不影响榜单
	top := b.TopN(1)
	top[0].District = "MUTATED"
	assert.Equal(t, "PUNE", b.Entries()[0].District)
}

func TestByCategory(t *testing.T) {
	b := sampleBoard()
	total := 0
	for _, c := range []Category{Excellent, Good, Average, NeedsImprovement} {
		es := b.ByCategory(c)
		for _, e := range es {
			assert.Equal(t, c, e.Category)
		}
		total += len(es)
	}
	assert.Equal(t, b.Len(), total)

	es, err := b.ByCategoryName("needs improvement")
	require.NoError(t, err)
	require.Len(t, es, 1)
	assert.Equal(t, "WASHIM", es[0].District)

	_, err = b.ByCategoryName("stellar")
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestParseCategory(t *testing.T) {
	for in, want := range map[string]Category{
		"excellent": Excellent, "GOOD": Good, " Average ": Average,
		"NeedsImprovement": NeedsImprovement, "needs_improvement": NeedsImprovement, "needs-improvement": NeedsImprovement,
	} {
		got, err := ParseCategory(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	assert.Equal(t, "NeedsImprovement", NeedsImprovement.String())
}

func TestEntryJSON(t *testing.T) {
	b, err := json.Marshal(sampleBoard().TopN(1)[0])
	require.NoError(t, err)
	assert.Contains(t, string(b), `"category":"Excellent"`)
	assert.Contains(t, string(b), `"districtName":"PUNE"`)
	assert.Contains(t, string(b), `"rank":1`)
}
