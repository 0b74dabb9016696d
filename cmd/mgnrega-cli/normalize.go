package main

import (
	"fmt"
	"sort"

	"mgnrega-api/internal/district"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newNormalizeCmd() *cobra.Command {
	var showRules bool
	cmd := &cobra.Command{
		Use:   "normalize [name...]",
		Short: "Normalize raw district names to the canonical Maharashtra names",
		Example: "  mgnrega-cli normalize Aurangabad \"Haveli Taluka\" Kolhapr\n" +
			"  mgnrega-cli normalize --rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			if showRules {
				return printRules(cmd)
			}
			if len(args) == 0 {
				return fmt.Errorf("at least one name is required")
			}
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header([]string{"Input", "Normalized", "Canonical", "Match", "Similarity"})
			var rows [][]string
			for _, raw := range args {
				norm, _ := district.Normalize(raw)
				row := []string{raw, norm, "", failColor.Sprint("none"), "-"}
				if m, ok := district.Reconcile(raw); ok {
					row[2] = m.District
					row[3] = warnColor.Sprint("fuzzy")
					if m.Exact {
						row[3] = okColor.Sprint("exact")
					}
					row[4] = fmt.Sprintf("%.2f", m.Similarity)
				}
				rows = append(rows, row)
			}
			if err := table.Bulk(rows); err != nil {
				return err
			}
			return table.Render()
		},
	}
	cmd.Flags().BoolVar(&showRules, "rules", false, "Print the correction table instead of normalizing")
	return cmd
}

func printRules(cmd *cobra.Command) error {
	entries := district.DefaultRules().Entries()
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.Header([]string{"Variant", "District"})
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{k, entries[k]})
	}
	if err := table.Bulk(rows); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), dimColor.Sprintf("rules %s, %d entries, %d districts", district.RulesVersion, len(keys), len(district.Canonical)))
	return err
}
