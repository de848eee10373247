package casedata

import (
	"encoding/json"

	"github.com/jengzang/casemap-backend-go/internal/models"
)

// ClusterKey identifies one rollup property
type ClusterKey struct {
	Metric models.MetricName
	Date   models.DateKey
}

// String returns the cluster property name, e.g. "ConfirmedSeries|1/22/20"
func (k ClusterKey) String() string {
	return k.Metric.SeriesProperty() + IdentitySeparator + string(k.Date)
}

// ClusterAggregateExpr sums series[Metric][Date] over the members of a
// cluster, treating absent values as 0
type ClusterAggregateExpr struct {
	Metric models.MetricName
	Date   models.DateKey
}

// Expression returns the map-style expression
// ["+", ["coalesce", ["get", date, ["get", "<Metric>Series"]], 0]]
func (e ClusterAggregateExpr) Expression() []any {
	get := []any{"get", string(e.Date), []any{"get", e.Metric.SeriesProperty()}}
	return []any{"+", []any{"coalesce", get, 0}}
}

// MarshalJSON encodes the expression form
func (e ClusterAggregateExpr) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Expression())
}

// Evaluate computes the rollup over the given records
func (e ClusterAggregateExpr) Evaluate(records []*models.GeoRecord) float64 {
	var sum float64
	for _, r := range records {
		sum += r.Value(e.Metric, e.Date)
	}
	return sum
}

// ClusterAggregates maps every (metric, date) pair to its rollup expression
type ClusterAggregates map[ClusterKey]ClusterAggregateExpr

// BuildClusterAggregates creates rollups for all four metrics at every date.
// The result depends only on dateKeys.
func BuildClusterAggregates(dateKeys []models.DateKey) ClusterAggregates {
	aggs := make(ClusterAggregates, len(dateKeys)*len(models.AllMetrics))
	for _, d := range dateKeys {
		for _, m := range models.AllMetrics {
			k := ClusterKey{Metric: m, Date: d}
			aggs[k] = ClusterAggregateExpr{Metric: m, Date: d}
		}
	}
	return aggs
}

// Properties returns the rollups keyed by property name, ready to configure
// a clustering source
func (c ClusterAggregates) Properties() map[string]ClusterAggregateExpr {
	props := make(map[string]ClusterAggregateExpr, len(c))
	for k, e := range c {
		props[k.String()] = e
	}
	return props
}

// Rollup evaluates every metric's expression for one date over the members
func (c ClusterAggregates) Rollup(members []*models.GeoRecord, date models.DateKey) map[models.MetricName]float64 {
	out := make(map[models.MetricName]float64, len(models.AllMetrics))
	for _, m := range models.AllMetrics {
		if e, ok := c[ClusterKey{Metric: m, Date: date}]; ok {
			out[m] = e.Evaluate(members)
		}
	}
	return out
}
