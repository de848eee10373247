package casedata_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/casemap-backend-go/internal/casedata"
	"github.com/jengzang/casemap-backend-go/internal/models"
)

func record(id string, confirmed float64) *models.GeoRecord {
	r := models.NewGeoRecord(id, id, "", models.Point{})
	r.Series[models.MetricConfirmed] = models.TimeSeries{"1/22/20": confirmed}
	return r
}

func TestRankIsStableAndDescending(t *testing.T) {
	t.Parallel()

	input := []*models.GeoRecord{
		record("a", 5), record("b", 9), record("c", 5), record("d", 0), record("e", 9),
	}

	ranked := casedata.Rank(input, models.MetricConfirmed, "1/22/20")

	ids := make([]string, len(ranked))
	for i, r := range ranked {
		ids[i] = r.Identity
	}
	assert.Equal(t, []string{"b", "e", "a", "c", "d"}, ids)
	assert.Equal(t, "a", input[0].Identity, "input must be untouched")

	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t,
			ranked[i-1].Value(models.MetricConfirmed, "1/22/20"),
			ranked[i].Value(models.MetricConfirmed, "1/22/20"))
	}
}

func TestTopNLabelsAndLimit(t *testing.T) {
	t.Parallel()

	hubei := models.NewGeoRecord("China|Hubei", "China", "Hubei", models.Point{})
	hubei.Series[models.MetricConfirmed] = models.TimeSeries{"1/22/20": 444}

	entries := casedata.TopN([]*models.GeoRecord{record("Testland", 1), hubei, record("Other", 2)},
		models.MetricConfirmed, "1/22/20", 2)

	require.Len(t, entries, 2)
	assert.Equal(t, models.RankEntry{Rank: 1, Identity: "China|Hubei", Label: "Hubei", Value: 444}, entries[0])
	assert.Equal(t, "Other", entries[1].Label)

	all := casedata.TopN([]*models.GeoRecord{record("x", 1)}, models.MetricConfirmed, "1/22/20", 0)
	assert.Len(t, all, 1)
}

func TestComputeTotals(t *testing.T) {
	t.Parallel()

	a := record("a", 10)
	a.Series[models.MetricRecovered] = models.TimeSeries{"1/22/20": 4}
	a.Series[models.MetricDeaths] = models.TimeSeries{"1/22/20": 1}
	b := record("b", 5)

	totals := casedata.ComputeTotals([]*models.GeoRecord{a, b}, "1/22/20")
	assert.Equal(t, models.Totals{Date: "1/22/20", Confirmed: 15, Recovered: 4, Deaths: 1, Active: 10}, totals)
}

func TestBuildClusterAggregatesIsIdempotent(t *testing.T) {
	t.Parallel()

	keys := []models.DateKey{"1/22/20", "1/23/20"}
	first := casedata.BuildClusterAggregates(keys)
	second := casedata.BuildClusterAggregates(keys)

	assert.Equal(t, first, second)
	assert.Len(t, first, len(keys)*len(models.AllMetrics))

	props := first.Properties()
	require.Contains(t, props, "ActiveSeries|1/23/20")

	raw, err := json.Marshal(props["ConfirmedSeries|1/22/20"])
	require.NoError(t, err)
	assert.JSONEq(t, `["+", ["coalesce", ["get", "1/22/20", ["get", "ConfirmedSeries"]], 0]]`, string(raw))
}

func TestClusterRollupTreatsAbsentAsZero(t *testing.T) {
	t.Parallel()

	aggs := casedata.BuildClusterAggregates([]models.DateKey{"1/22/20"})
	members := []*models.GeoRecord{record("a", 3), record("b", 4)}

	rollup := aggs.Rollup(members, "1/22/20")
	assert.InDelta(t, 7, rollup[models.MetricConfirmed], 0)
	assert.InDelta(t, 0, rollup[models.MetricDeaths], 0)

	assert.Empty(t, aggs.Rollup(members, "9/9/99"))
}
