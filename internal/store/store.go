// 包 store: 提供与 PostgreSQL 的数据访问层，读取县级 MGNREGA 绩效数据
package store

import (
	"context"
	"database/sql"
	"fmt"

	"mgnrega-api/internal/leaderboard"
	"mgnrega-api/internal/logger"

	_ "github.com/lib/pq"
)

// Store: 数据库访问入口，持有连接池
type Store struct {
	db *sql.DB
}

var _ leaderboard.RowSource = (*Store)(nil)

func AttachDB(db *sql.DB) *Store { return &Store{db: db} }

// Close: 关闭数据库连接
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

// 文档注释：读取某邦某财年的全部月度行
// 背景：导入时县名已规范化，这里按 id 顺序返回，保证排行榜分组顺序稳定可复现。
// 返回：无数据时返回空切片与 nil。
func (s *Store) PerformanceRows(ctx context.Context, state, finYear string) ([]leaderboard.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT district_name, fin_year, month,
               total_person_days, total_expenditure, employment_provided,
               households_worked, works_completed, works_in_progress, avg_wage_rate
        FROM mgnrega_district_performance
        WHERE state_name=$1 AND fin_year=$2
        ORDER BY id`, state, finYear)
	if err != nil {
		return nil, fmt.Errorf("query performance rows: %w", err)
	}
	defer rows.Close()
	out := []leaderboard.Record{}
	for rows.Next() {
		var r leaderboard.Record
		if err := rows.Scan(&r.District, &r.FinYear, &r.Month,
			&r.TotalPersonDays, &r.TotalExpenditure, &r.EmploymentProvided,
			&r.HouseholdsWorked, &r.WorksCompleted, &r.WorksInProgress, &r.AvgWageRate); err != nil {
			return nil, fmt.Errorf("scan performance row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate performance rows: %w", err)
	}
	logger.L().Debug("db_performance_rows", "state", state, "fin_year", finYear, "rows", len(out))
	return out, nil
}

// FinancialYears: 某邦已有数据的财年，新到旧（财年格式 YYYY-YYYY，按文本倒序即时间倒序）
func (s *Store) FinancialYears(ctx context.Context, state string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT DISTINCT fin_year FROM mgnrega_district_performance
        WHERE state_name=$1
        ORDER BY fin_year DESC`, state)
	if err != nil {
		return nil, fmt.Errorf("query financial years: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var fy string
		if err := rows.Scan(&fy); err != nil {
			return nil, fmt.Errorf("scan financial year: %w", err)
		}
		out = append(out, fy)
	}
	return out, rows.Err()
}

// Ping: 健康检查
func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }
