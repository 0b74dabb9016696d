package migrate

import (
	"context"
	"database/sql"
	"fmt"

	"mgnrega-api/internal/logger"
)

// 背景：首次运行自动创建县级绩效表与索引；数据由外部导入流程写入
// 约束：使用 IF NOT EXISTS 避免与既有结构冲突；同一 邦/财年/月份/县 只保留一行
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS mgnrega_district_performance (
            id BIGSERIAL PRIMARY KEY,
            state_name TEXT NOT NULL,
            district_name TEXT NOT NULL,
            fin_year TEXT NOT NULL,
            month TEXT NOT NULL DEFAULT '',
            total_person_days DOUBLE PRECISION NOT NULL DEFAULT 0,
            total_expenditure DOUBLE PRECISION NOT NULL DEFAULT 0,
            employment_provided DOUBLE PRECISION NOT NULL DEFAULT 0,
            households_worked DOUBLE PRECISION NOT NULL DEFAULT 0,
            works_completed DOUBLE PRECISION NOT NULL DEFAULT 0,
            works_in_progress DOUBLE PRECISION NOT NULL DEFAULT 0,
            avg_wage_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uniq_district_period ON mgnrega_district_performance(state_name, fin_year, month, district_name)`,
		`CREATE INDEX IF NOT EXISTS idx_state_year ON mgnrega_district_performance(state_name, fin_year)`,
	}
	for i, s := range stmts {
		logger.L().Debug("schema_exec", "idx", i)
		if _, err := db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("schema stmt %d: %w", i, err)
		}
	}
	logger.L().Debug("schema_done")
	return nil
}
