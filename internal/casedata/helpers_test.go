package casedata_test

import (
	"context"
	"errors"

	"github.com/jengzang/casemap-backend-go/internal/models"
)

var testColumns = []string{models.ColumnSubRegion, models.ColumnRegion, models.ColumnLat, models.ColumnLon, "1/22/20", "1/23/20"}

// row builds a raw row; values map date columns to cell text, absent keys stay absent
func row(region, subRegion string, values map[string]string) models.RawRow {
	props := map[string]string{
		models.ColumnRegion: region,
		models.ColumnLat:    "1",
		models.ColumnLon:    "2",
	}
	if subRegion != "" {
		props[models.ColumnSubRegion] = subRegion
	}
	for k, v := range values {
		props[k] = v
	}
	return models.RawRow{
		Geometry:   models.Point{Lat: 1, Lon: 2},
		Columns:    testColumns,
		Properties: props,
	}
}

type staticFetcher struct {
	tables map[models.MetricName][]models.RawRow
	errs   map[models.MetricName]error
	calls  []models.MetricName
}

func (f *staticFetcher) Fetch(_ context.Context, metric models.MetricName) (*models.RawTable, error) {
	f.calls = append(f.calls, metric)
	if err := f.errs[metric]; err != nil {
		return nil, err
	}
	rows, ok := f.tables[metric]
	if !ok {
		return nil, errors.New("no table")
	}
	return &models.RawTable{Metric: metric, Columns: testColumns, Rows: rows}, nil
}

func testlandFetcher() *staticFetcher {
	return &staticFetcher{tables: map[models.MetricName][]models.RawRow{
		models.MetricConfirmed: {row("Testland", "", map[string]string{"1/22/20": "100", "1/23/20": ""})},
		models.MetricRecovered: {row("Testland", "", map[string]string{"1/22/20": "40", "1/23/20": "0"})},
		models.MetricDeaths:    {row("Testland", "", map[string]string{"1/22/20": "10", "1/23/20": "0"})},
	}}
}
