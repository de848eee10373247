package commands

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/jengzang/casemap-backend-go/internal/casedata"
	"github.com/jengzang/casemap-backend-go/internal/models"
	"github.com/jengzang/casemap-backend-go/internal/viz"
)

// NewTopCommand creates the top command
func NewTopCommand() *cobra.Command {
	var (
		metric string
		date   string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "top",
		Short: "Rank locations by a metric at a date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := models.ParseMetricName(metric)
			if err != nil {
				return err
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if limit <= 0 {
				limit = cfg.Pipeline.TopN
			}

			ds, err := loadDataset(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			d, err := ds.Timeline.Resolve(date, nil)
			if err != nil {
				return err
			}

			entries := casedata.TopN(ds.Records(), m, d, limit)
			totals := casedata.ComputeTotals(ds.Records(), d)

			tbl := table.NewWriter()
			tbl.SetOutputMirror(cmd.OutOrStdout())
			tbl.SetStyle(table.StyleLight)
			tbl.SetTitle("%s (%s)", viz.ChartTitle(len(entries), m), d)
			tbl.AppendHeader(table.Row{"#", "Location", "Identity", string(m)})
			for _, e := range entries {
				tbl.AppendRow(table.Row{e.Rank, e.Label, e.Identity, viz.FormatCount(e.Value)})
			}
			tbl.AppendFooter(table.Row{"", "All locations", humanize.Comma(int64(ds.Len())), viz.FormatCount(metricTotal(totals, m))})
			tbl.SetColumnConfigs([]table.ColumnConfig{
				{Number: 1, Align: text.AlignRight},
				{Number: 4, Align: text.AlignRight, AlignFooter: text.AlignRight},
			})
			tbl.Render()

			fmt.Fprintf(cmd.OutOrStdout(), "Coerced cells: %d, loaded in %s\n",
				ds.Report.CoercedCells(), ds.Report.Duration.Round(1e6))
			return nil
		},
	}

	cmd.Flags().StringVarP(&metric, "metric", "m", string(models.MetricConfirmed), "Confirmed, Recovered, Deaths or Active")
	cmd.Flags().StringVarP(&date, "date", "d", "", "date key such as 3/1/20 (default: latest)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "number of locations (default: pipeline.top_n)")

	return cmd
}

func metricTotal(t models.Totals, m models.MetricName) float64 {
	switch m {
	case models.MetricRecovered:
		return t.Recovered
	case models.MetricDeaths:
		return t.Deaths
	case models.MetricActive:
		return t.Active
	default:
		return t.Confirmed
	}
}
