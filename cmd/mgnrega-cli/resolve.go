package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"mgnrega-api/internal/geocode"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newResolveCmd() *cobra.Command {
	var (
		lat, lon float64
		asJSON   bool
		timeout  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve a coordinate to state and district through the provider chain",
		Example: "  mgnrega-cli resolve --lat 19.8762 --lon 75.3433\n" +
			"  mgnrega-cli resolve --lat 18.52 --lon 73.85 --json",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := geocode.Coordinate{Lat: lat, Lon: lon}
			if !c.Valid() {
				return fmt.Errorf("invalid coordinate %s", c)
			}
			r := geocode.NewFromConfig(cfg.Geo, cfg.Region, &http.Client{})
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			res, err := r.Resolve(ctx, c)
			out := cmd.OutOrStdout()
			if e, ok := geocode.IsExhausted(err); ok {
				if asJSON {
					return json.NewEncoder(out).Encode(map[string]any{"error": "location_undetermined", "attempts": e.Attempts})
				}
				fmt.Fprintln(out, failColor.Sprint("location undetermined"))
				return printAttempts(cmd, e.Attempts)
			}
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			table := tablewriter.NewWriter(out)
			table.Header([]string{"Field", "Value"})
			rows := [][]string{
				{"State", res.State},
				{"District", okColor.Sprint(res.District)},
				{"City", res.City},
				{"Country", res.Country},
				{"Address", res.FormattedAddress},
				{"Accuracy", res.Accuracy},
				{"Provider", res.Provider},
				{"In region", strconv.FormatBool(res.InRegion(cfg.Region))},
			}
			if err := table.Bulk(rows); err != nil {
				return err
			}
			return table.Render()
		},
	}
	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude (WGS84)")
	cmd.Flags().Float64Var(&lon, "lon", 0, "Longitude (WGS84)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	cmd.Flags().DurationVar(&timeout, "timeout", 60*time.Second, "Overall deadline for the provider chain")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")
	return cmd
}

func printAttempts(cmd *cobra.Command, attempts []geocode.Attempt) error {
	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.Header([]string{"#", "Provider", "Outcome", "Reason"})
	var rows [][]string
	for i, a := range attempts {
		outcome := failColor.Sprint(a.Outcome)
		if a.Outcome == geocode.OutcomeSkipped {
			outcome = dimColor.Sprint(a.Outcome)
		}
		rows = append(rows, []string{strconv.Itoa(i + 1), a.Provider, outcome, a.Reason})
	}
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

func newProvidersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List the provider chain in priority order with credential status",
		RunE: func(cmd *cobra.Command, args []string) error {
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header([]string{"#", "Provider", "Status", "Credential", "Timeout", "District fields"})
			var rows [][]string
			for i, p := range cfg.Geo.Providers {
				status := okColor.Sprint("ready")
				switch {
				case p.Disabled:
					status = dimColor.Sprint("disabled")
				case !p.Keyless && !p.Credential.Present():
					status = warnColor.Sprint("unconfigured")
				}
				cred := p.Credential.String()
				if p.Keyless {
					cred = "(keyless)"
				}
				fields := p.DistrictFields
				if fields == "" {
					fields = "(default)"
				}
				rows = append(rows, []string{strconv.Itoa(i + 1), p.Name, status, cred, p.Timeout.String(), fields})
			}
			if cfg.Geo.CentroidEnabled {
				rows = append(rows, []string{strconv.Itoa(len(rows) + 1), "centroid", okColor.Sprint("ready"), "(offline)", "-",
					fmt.Sprintf("max %.0fkm", cfg.Geo.CentroidMaxKm)})
			}
			if err := table.Bulk(rows); err != nil {
				return err
			}
			return table.Render()
		},
	}
}
