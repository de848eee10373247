package service_test

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/casemap-backend-go/internal/casedata"
	"github.com/jengzang/casemap-backend-go/internal/database"
	"github.com/jengzang/casemap-backend-go/internal/metrics"
	"github.com/jengzang/casemap-backend-go/internal/models"
	"github.com/jengzang/casemap-backend-go/internal/repository"
	"github.com/jengzang/casemap-backend-go/internal/service"
	"github.com/jengzang/casemap-backend-go/internal/source/sourcetest"
	"github.com/jengzang/casemap-backend-go/internal/viz"
)

func newService(t *testing.T, fetcher *sourcetest.Fetcher) (*service.DashboardService, *metrics.Collector) {
	t.Helper()

	db, err := database.Open(database.Config{Path: "file:" + uuid.NewString() + "?mode=memory&cache=shared"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	collector := metrics.NewCollector()
	svc := service.NewDashboardService(
		casedata.NewPipeline(fetcher, casedata.DefaultOptions()),
		repository.NewCaseRepository(db),
		repository.NewLoadRepository(db),
		collector,
		10,
	)
	return svc, collector
}

func loadedService(t *testing.T) *service.DashboardService {
	t.Helper()

	svc, _ := newService(t, sourcetest.NewFetcher())
	_, err := svc.Reload(context.Background(), models.TriggerStartup)
	require.NoError(t, err)
	return svc
}

func intPtr(i int) *int { return &i }

func TestQueriesBeforeLoad(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t, sourcetest.NewFetcher())

	_, err := svc.Timeline()
	require.ErrorIs(t, err, service.ErrNotLoaded)
	_, err = svc.Rank(models.RankFilter{})
	require.ErrorIs(t, err, service.ErrNotLoaded)
	_, err = svc.Records(context.Background(), models.RecordFilter{}, models.DateFilter{})
	require.ErrorIs(t, err, service.ErrNotLoaded)

	status, err := svc.Status(context.Background())
	require.NoError(t, err)
	assert.False(t, status.Loaded)
	assert.Nil(t, status.LastRun)
}

func TestReloadRecordsRunAndMetrics(t *testing.T) {
	t.Parallel()

	fetcher := sourcetest.NewFetcher()
	svc, collector := newService(t, fetcher)

	run, err := svc.Reload(context.Background(), models.TriggerAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.LoadStatusCompleted, run.Status)
	assert.Equal(t, 3, run.RecordCount)
	assert.Equal(t, 3, run.DateCount)
	assert.Equal(t, 1, run.CoercedCells)
	assert.Equal(t, models.FetchedMetrics, fetcher.Calls)

	status, err := svc.Status(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Loaded)
	assert.Equal(t, models.DateKey("1/22/20"), status.FirstDate)
	assert.Equal(t, models.DateKey("1/24/20"), status.Selected)
	require.NotNil(t, status.LastRun)
	assert.Equal(t, run.ID, status.LastRun.ID)

	assert.InDelta(t, 1, testutil.ToFloat64(collector.Loads.WithLabelValues("completed")), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(collector.Records), 0)
}

func TestFailedReloadKeepsPreviousDataset(t *testing.T) {
	t.Parallel()

	fetcher := sourcetest.NewFetcher()
	svc, collector := newService(t, fetcher)
	_, err := svc.Reload(context.Background(), models.TriggerStartup)
	require.NoError(t, err)

	boom := errors.New("upstream down")
	fetcher.Fail(models.MetricDeaths, boom)

	run, err := svc.Reload(context.Background(), models.TriggerSchedule)
	require.ErrorIs(t, err, boom)
	var fetchErr *casedata.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, models.LoadStatusFailed, run.Status)
	assert.NotEmpty(t, run.ErrorMessage)

	state, err := svc.Timeline()
	require.NoError(t, err)
	assert.Len(t, state.Dates, 3)

	loads, err := svc.Loads(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, loads, 2)
	assert.Equal(t, models.LoadStatusFailed, loads[0].Status)
	assert.InDelta(t, 1, testutil.ToFloat64(collector.Loads.WithLabelValues("failed")), 0)
}

func TestTimelineSelection(t *testing.T) {
	t.Parallel()

	svc := loadedService(t)

	state, err := svc.SelectDate(models.DateFilter{Index: intPtr(0)})
	require.NoError(t, err)
	assert.Equal(t, models.DateKey("1/22/20"), state.Selected)

	state, err = svc.SelectDate(models.DateFilter{Date: "1/23/20"})
	require.NoError(t, err)
	assert.Equal(t, 1, state.SelectedIndex)

	_, err = svc.SelectDate(models.DateFilter{Index: intPtr(3)})
	var oor *casedata.OutOfRangeError
	require.ErrorAs(t, err, &oor)

	_, err = svc.SelectDate(models.DateFilter{})
	require.ErrorIs(t, err, service.ErrNoSelection)

	state, err = svc.Step(false)
	require.NoError(t, err)
	assert.Equal(t, models.DateKey("1/24/20"), state.Selected)

	_, err = svc.Step(false)
	require.ErrorAs(t, err, &oor)

	state, err = svc.Step(true)
	require.NoError(t, err)
	assert.Equal(t, models.DateKey("1/22/20"), state.Selected)
}

func TestRecordsAndPopup(t *testing.T) {
	t.Parallel()

	svc := loadedService(t)
	ctx := context.Background()

	fc, err := svc.Records(ctx, models.RecordFilter{Region: "China"}, models.DateFilter{})
	require.NoError(t, err)
	require.Len(t, fc.Features, 2)
	assert.Equal(t, "China|Hubei", fc.Features[0].ID)
	assert.Equal(t, [2]float64{112.2707, 30.9756}, fc.Features[0].Geometry.Coordinates)
	assert.InDelta(t, 761-32-24, fc.Features[0].Properties["Active"], 0)
	require.Len(t, fc.BBox, 4)

	popup, err := svc.Popup("China|Hubei", models.DateFilter{Index: intPtr(0)})
	require.NoError(t, err)
	assert.Equal(t, "Hubei, China", popup.Title)
	assert.Equal(t, "444", popup.Confirmed)
	assert.Equal(t, "399", popup.Active)

	_, err = svc.Popup("Atlantis", models.DateFilter{})
	require.ErrorIs(t, err, service.ErrRecordNotFound)

	series, err := svc.Series(ctx, "Testland", "Confirmed")
	require.NoError(t, err)
	require.Len(t, series, 3)
	assert.InDelta(t, 0, series[1].Value, 0)
}

func TestRankTotalsAndClusters(t *testing.T) {
	t.Parallel()

	svc := loadedService(t)

	rank, err := svc.Rank(models.RankFilter{Metric: "Confirmed", Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, models.DateKey("1/24/20"), rank.Date)
	require.Len(t, rank.Entries, 2)
	assert.Equal(t, "Hubei", rank.Entries[0].Label)
	assert.Equal(t, "Testland", rank.Entries[1].Label)
	assert.InDelta(t, 761+36+120, rank.Summary.Total, 0)

	_, err = svc.Rank(models.RankFilter{Metric: "Hospitalized"})
	require.ErrorIs(t, err, service.ErrInvalidArgument)

	totals, err := svc.Totals(context.Background(), models.DateFilter{Date: "1/22/20"})
	require.NoError(t, err)
	assert.Equal(t, models.Totals{Date: "1/22/20", Confirmed: 558, Recovered: 68, Deaths: 27, Active: 463}, totals)

	_, err = svc.Totals(context.Background(), models.DateFilter{Date: "2/30/20"})
	var oor *casedata.OutOfRangeError
	require.ErrorAs(t, err, &oor)

	clusters, err := svc.Clusters(models.ClusterFilter{Zoom: 0})
	require.NoError(t, err)
	var sum float64
	for _, c := range clusters.Clusters {
		sum += c.Totals[models.MetricConfirmed]
	}
	assert.InDelta(t, 917, sum, 0)

	props, err := svc.ClusterProperties()
	require.NoError(t, err)
	assert.Len(t, props, 3*len(models.AllMetrics))
	assert.Contains(t, props, "DeathsSeries|1/23/20")
}

func TestRenderLayers(t *testing.T) {
	t.Parallel()

	svc := loadedService(t)

	bubbles, err := svc.Render(models.RenderFilter{})
	require.NoError(t, err)
	assert.Equal(t, viz.LayerBubbles, bubbles.Layer)
	assert.Len(t, bubbles.Data, 3)

	heat, err := svc.Render(models.RenderFilter{Layer: viz.LayerHeatmap, Metric: "Deaths"})
	require.NoError(t, err)
	assert.Equal(t, 2, heat.Data.(models.HeatmapResponse).Count)

	pies, err := svc.Render(models.RenderFilter{Layer: viz.LayerPieCharts})
	require.NoError(t, err)
	assert.Len(t, pies.Data, 3)

	_, err = svc.Render(models.RenderFilter{Layer: "contours"})
	require.ErrorIs(t, err, service.ErrInvalidArgument)

	var buf bytes.Buffer
	require.NoError(t, svc.WriteTopChart(&buf, models.RankFilter{Limit: 3}))
	assert.Contains(t, buf.String(), "Top 3 Confirmed cases by location")
}

func TestReadsDuringReloadSeeOneLoad(t *testing.T) {
	t.Parallel()

	const (
		january  = "1/22/20,1/23/20,1/24/20"
		february = "2/1/20,2/2/20,2/3/20"
	)

	ctx := context.Background()
	fetcher := sourcetest.NewFetcher()
	svc, _ := newService(t, fetcher)
	_, err := svc.Reload(ctx, models.TriggerStartup)
	require.NoError(t, err)

	var (
		wg    sync.WaitGroup
		mixed atomic.Int64
		reads atomic.Int64
		done  = make(chan struct{})
	)
	stop := sync.OnceFunc(func() {
		close(done)
		wg.Wait()
	})
	defer stop()

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				totals, err := svc.Totals(ctx, models.DateFilter{})
				if err != nil || totals.Confirmed != 917 {
					mixed.Add(1)
				}
				fc, err := svc.Records(ctx, models.RecordFilter{}, models.DateFilter{})
				if err != nil || len(fc.Features) != 3 {
					mixed.Add(1)
				}
				reads.Add(1)

				select {
				case <-done:
					return
				default:
				}
			}
		}()
	}

	for i := 0; i < 20; i++ {
		if i%2 == 0 {
			fetcher.Replace(january, february)
		} else {
			fetcher.Replace(february, january)
		}
		_, err := svc.Reload(ctx, models.TriggerSchedule)
		require.NoError(t, err)
	}
	stop()

	assert.Positive(t, reads.Load())
	assert.Zero(t, mixed.Load(), "a read paired one load's timeline with another load's rows")
}
