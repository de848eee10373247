package viz

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/jengzang/casemap-backend-go/internal/models"
)

const (
	chartWidth     = "100%"
	chartRowHeight = 36
	chartMinHeight = 200
	labelFontSize  = 12
)

// ChartTitle is the heading of the top-N bar chart
func ChartTitle(n int, metric models.MetricName) string {
	return fmt.Sprintf("Top %d %s cases by location", n, metric)
}

// TopChart builds a horizontal bar chart of ranked entries, largest on top
func TopChart(entries []models.RankEntry, metric models.MetricName, date models.DateKey) *charts.Bar {
	// Category axes draw bottom-up, so feed the ranking in reverse
	labels := make([]string, len(entries))
	values := make([]opts.BarData, len(entries))
	for i, e := range entries {
		j := len(entries) - 1 - i
		labels[j] = e.Label
		values[j] = opts.BarData{Name: e.Label, Value: e.Value}
	}

	height := chartRowHeight * len(entries)
	if height < chartMinHeight {
		height = chartMinHeight
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: ChartTitle(len(entries), metric),
			Width:     chartWidth,
			Height:    fmt.Sprintf("%dpx", height),
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    ChartTitle(len(entries), metric),
			Subtitle: string(date),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithGridOpts(opts.Grid{Left: "25%", Right: "8%", Top: "60", Bottom: "5%"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:      "category",
			Data:      labels,
			AxisLabel: &opts.AxisLabel{FontSize: labelFontSize},
		}),
	)

	bar.AddSeries(string(metric), values,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: MetricColors[metric]}),
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "right"}),
	)

	return bar
}

// RenderTopChart writes the chart page as HTML
func RenderTopChart(w io.Writer, entries []models.RankEntry, metric models.MetricName, date models.DateKey) error {
	if err := TopChart(entries, metric, date).Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
