package casedata_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/casemap-backend-go/internal/casedata"
	"github.com/jengzang/casemap-backend-go/internal/models"
)

func TestPipelineTestlandEndToEnd(t *testing.T) {
	t.Parallel()

	fetcher := testlandFetcher()
	ds, err := casedata.NewPipeline(fetcher, casedata.DefaultOptions()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, models.FetchedMetrics, fetcher.calls)
	require.Equal(t, 1, ds.Len())

	testland, ok := ds.Record("Testland")
	require.True(t, ok)
	assert.InDelta(t, 50, testland.Value(models.MetricActive, "1/22/20"), 0)
	assert.InDelta(t, 0, testland.Value(models.MetricConfirmed, "1/23/20"), 0)

	ranked := casedata.Rank(ds.Records(), models.MetricConfirmed, "1/22/20")
	require.Len(t, ranked, 1)
	assert.Same(t, testland, ranked[0])

	assert.Equal(t, models.DateKey("1/23/20"), ds.Timeline.Selected())
	assert.Len(t, ds.Clusters, 2*len(models.AllMetrics))
	assert.Equal(t, 1, ds.Report.CoercedCells())
	assert.Len(t, ds.Report.Passes, 3)
}

func TestPipelineStopsOnFetchError(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection reset")
	fetcher := testlandFetcher()
	fetcher.errs = map[models.MetricName]error{models.MetricRecovered: boom}

	_, err := casedata.NewPipeline(fetcher, casedata.DefaultOptions()).Run(context.Background())

	var fetchErr *casedata.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, models.MetricRecovered, fetchErr.Metric)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []models.MetricName{models.MetricConfirmed, models.MetricRecovered}, fetcher.calls)
}

func TestPipelineHonorsCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := testlandFetcher()
	_, err := casedata.NewPipeline(fetcher, casedata.DefaultOptions()).Run(ctx)

	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, fetcher.calls)
}

func TestPipelineReportsDrift(t *testing.T) {
	t.Parallel()

	fetcher := testlandFetcher()
	fetcher.tables[models.MetricDeaths] = []models.RawRow{row("Elsewhere", "", nil)}

	_, err := casedata.NewPipeline(fetcher, casedata.DefaultOptions()).Run(context.Background())

	var drift *casedata.SchemaDriftError
	require.ErrorAs(t, err, &drift)
	assert.Equal(t, models.MetricDeaths, drift.Metric)
}
