package main

import (
	"fmt"
	"strconv"

	"mgnrega-api/internal/leaderboard"
	"mgnrega-api/internal/migrate"
	"mgnrega-api/internal/store"
	"mgnrega-api/internal/utils"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
)

func newLeaderboardCmd() *cobra.Command {
	var (
		state, finYear, category, district string
		top                                int
	)
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Build and print the district leaderboard from the performance database",
		Example: "  mgnrega-cli leaderboard --fin-year 2024-2025 --top 10\n" +
			"  mgnrega-cli leaderboard --category good\n" +
			"  mgnrega-cli leaderboard --district Aurangabad",
		RunE: func(cmd *cobra.Command, args []string) error {
			if state == "" {
				state = cfg.Region
			}
			db, err := utils.OpenPostgres(cmd.Context(), cfg.Postgres)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := migrate.EnsureSchema(cmd.Context(), db); err != nil {
				return err
			}
			svc := leaderboard.NewService(store.AttachDB(db), cfg.Leaderboard.CacheTTL, cfg.Leaderboard.DefaultFinYear)
			fy, b, err := svc.Board(cmd.Context(), state, finYear)
			if err != nil {
				return err
			}
			var entries []leaderboard.Entry
			switch {
			case district != "":
				e, err := b.RankOf(district)
				if err != nil {
					return err
				}
				entries = []leaderboard.Entry{e}
			case category != "":
				if entries, err = b.ByCategoryName(category); err != nil {
					return err
				}
			case top > 0:
				entries = b.TopN(top)
			default:
				entries = b.Entries()
			}
			fmt.Fprintln(cmd.OutOrStdout(), dimColor.Sprintf("%s %s: %d districts ranked", state, fy, b.Len()))
			return printEntries(cmd, entries)
		},
	}
	cmd.Flags().StringVar(&state, "state", "", "State name (default GEO_REGION)")
	cmd.Flags().StringVar(&finYear, "fin-year", "", "Financial year such as 2024-2025 (default latest)")
	cmd.Flags().IntVar(&top, "top", 0, "Only print the first N entries")
	cmd.Flags().StringVar(&category, "category", "", "Only print one category (excellent, good, average, needs_improvement)")
	cmd.Flags().StringVar(&district, "district", "", "Print the rank of a single district")
	cmd.MarkFlagsMutuallyExclusive("top", "category", "district")
	return cmd
}

func printEntries(cmd *cobra.Command, entries []leaderboard.Entry) error {
	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.Header([]string{"Rank", "District", "Score", "Category", "Person-days", "Expenditure", "Households", "Avg wage"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})
	var rows [][]string
	for _, e := range entries {
		m := e.Metrics
		rows = append(rows, []string{
			strconv.Itoa(e.Rank),
			e.District,
			fmt.Sprintf("%.2f", e.Score),
			categoryColor(e.Category).Sprint(e.Category.String()),
			fmt.Sprintf("%.0f", m.TotalPersonDays),
			fmt.Sprintf("%.2f", m.TotalExpenditure),
			fmt.Sprintf("%.0f", m.HouseholdsWorked),
			fmt.Sprintf("%.2f", m.AvgWageRate),
		})
	}
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}
