package viz

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/jengzang/casemap-backend-go/internal/models"
	"github.com/jengzang/casemap-backend-go/internal/stats"
)

// Layer names accepted by the render endpoint
const (
	LayerBubbles   = "bubbles"
	LayerHeatmap   = "heatmap"
	LayerPieCharts = "piecharts"
)

// ParseLayer validates a layer name
func ParseLayer(s string) (string, error) {
	switch s {
	case LayerBubbles, LayerHeatmap, LayerPieCharts:
		return s, nil
	}
	return "", fmt.Errorf("unknown layer %q", s)
}

// MetricColors align bubble fills and pie slices
var MetricColors = map[models.MetricName]string{
	models.MetricConfirmed: "DodgerBlue",
	models.MetricActive:    "DarkOrange",
	models.MetricRecovered: "LimeGreen",
	models.MetricDeaths:    "Red",
}

const (
	bubbleMinRadius = 5
	bubbleMaxRadius = 40
	bubbleMaxValue  = 10000
	bubbleOpacity   = 0.75

	heatMinRadius = 5
	heatMaxRadius = 20
	heatMaxValue  = 1000
	heatMinWeight = 0.1
)

// Bubbles styles every record for the bubble layer
func Bubbles(records []*models.GeoRecord, metric models.MetricName, date models.DateKey) []models.BubbleStyle {
	out := make([]models.BubbleStyle, 0, len(records))
	for _, r := range records {
		v := r.Value(metric, date)
		opacity := 0.0
		if v > 0 {
			opacity = bubbleOpacity
		}
		out = append(out, models.BubbleStyle{
			Identity: r.Identity,
			Lat:      r.Geometry.Lat,
			Lng:      r.Geometry.Lon,
			Radius:   stats.Interpolate(v, 0, bubbleMaxValue, bubbleMinRadius, bubbleMaxRadius),
			Opacity:  opacity,
			Color:    MetricColors[metric],
			Value:    v,
		})
	}
	return out
}

// Heatmap builds the heat layer from records with a positive value
func Heatmap(records []*models.GeoRecord, metric models.MetricName, date models.DateKey) models.HeatmapResponse {
	resp := models.HeatmapResponse{Metric: metric, Date: date, Points: []models.HeatmapPoint{}}

	var values []float64
	for _, r := range records {
		v := r.Value(metric, date)
		if v <= 0 {
			continue
		}
		values = append(values, v)
		resp.Points = append(resp.Points, models.HeatmapPoint{
			Identity: r.Identity,
			Lat:      r.Geometry.Lat,
			Lng:      r.Geometry.Lon,
			Radius:   stats.Interpolate(v, 0, heatMaxValue, heatMinRadius, heatMaxRadius),
			Weight:   stats.Interpolate(v, 1, heatMaxValue, heatMinWeight, 1),
			Value:    v,
		})
	}

	if len(values) == 0 {
		return resp
	}

	intensity := stats.Normalize(values)
	if stats.Min(values) == stats.Max(values) {
		for i := range intensity {
			intensity[i] = 1
		}
	}
	for i := range resp.Points {
		resp.Points[i].Intensity = intensity[i]
	}

	resp.Count = len(resp.Points)
	resp.MinValue = stats.Min(values)
	resp.MaxValue = stats.Max(values)
	return resp
}

// PieRadius sizes a pie marker by the selected metric value
func PieRadius(m float64) float64 {
	switch {
	case m < 1000:
		return 25
	case m < 10000:
		return 40
	default:
		return 50
	}
}

// Pie builds one pie marker from Confirmed, Recovered and Deaths values
func Pie(id string, at models.Point, c, r, d float64, metric models.MetricName) models.PieMarker {
	m := c
	switch metric {
	case models.MetricRecovered:
		m = r
	case models.MetricDeaths:
		m = d
	case models.MetricActive:
		m = c - r - d
	}

	p := models.PieMarker{
		ID:     id,
		Lat:    at.Lat,
		Lng:    at.Lon,
		Values: [3]float64{c, r, d},
		Colors: [3]string{
			MetricColors[models.MetricConfirmed],
			MetricColors[models.MetricRecovered],
			MetricColors[models.MetricDeaths],
		},
		Radius:  PieRadius(m),
		Visible: c > 0,
	}
	for i := range p.Labels {
		p.Labels[i] = SliceLabel(p, i)
	}
	return p
}

// Pies builds a marker per record
func Pies(records []*models.GeoRecord, metric models.MetricName, date models.DateKey) []models.PieMarker {
	out := make([]models.PieMarker, 0, len(records))
	for _, r := range records {
		out = append(out, Pie(r.Identity, r.Geometry,
			r.Value(models.MetricConfirmed, date),
			r.Value(models.MetricRecovered, date),
			r.Value(models.MetricDeaths, date),
			metric))
	}
	return out
}

// SliceLabel is the tooltip text of one pie slice, e.g. "Deaths: 12 (3.5%)"
func SliceLabel(p models.PieMarker, slice int) string {
	names := [3]models.MetricName{models.MetricConfirmed, models.MetricRecovered, models.MetricDeaths}
	if slice < 0 || slice >= len(names) {
		return ""
	}

	total := stats.Sum(p.Values[:])
	pct := 0.0
	if total > 0 {
		pct = p.Values[slice] / total * 100
	}
	return fmt.Sprintf("%s: %s (%.1f%%)", names[slice], FormatCount(p.Values[slice]), pct)
}

// FormatCount renders a case count with thousands separators
func FormatCount(v float64) string {
	return humanize.Commaf(v)
}

// BuildPopup formats the detail view of one record at date
func BuildPopup(r *models.GeoRecord, date models.DateKey) models.Popup {
	return models.Popup{
		Title:     r.Title(),
		Date:      date,
		Confirmed: FormatCount(r.Value(models.MetricConfirmed, date)),
		Recovered: FormatCount(r.Value(models.MetricRecovered, date)),
		Deaths:    FormatCount(r.Value(models.MetricDeaths, date)),
		Active:    FormatCount(r.Value(models.MetricActive, date)),
	}
}
