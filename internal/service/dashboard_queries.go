package service

import (
	"context"
	"fmt"
	"io"

	"github.com/jengzang/casemap-backend-go/internal/casedata"
	"github.com/jengzang/casemap-backend-go/internal/models"
	"github.com/jengzang/casemap-backend-go/internal/spatial"
	"github.com/jengzang/casemap-backend-go/internal/stats"
	"github.com/jengzang/casemap-backend-go/internal/viz"
)

// Records returns the stored records matching filter as GeoJSON features
func (s *DashboardService) Records(ctx context.Context, filter models.RecordFilter, df models.DateFilter) (models.FeatureCollection, error) {
	fc := models.FeatureCollection{Type: models.GeoJSONFeatureCollection, Features: []models.Feature{}}

	err := s.read(func(ds *casedata.Dataset) error {
		date, err := resolveDate(ds, df)
		if err != nil {
			return err
		}

		summaries, err := s.caseRepo.SearchRegions(ctx, filter)
		if err != nil {
			return fmt.Errorf("failed to search regions: %w", err)
		}

		points := make([]models.Point, 0, len(summaries))
		for _, sum := range summaries {
			rec, ok := ds.Record(sum.Identity)
			if !ok {
				continue
			}
			fc.Features = append(fc.Features, models.NewFeature(rec, date))
			points = append(points, rec.Geometry)
		}

		if len(points) > 0 {
			bbox := spatial.Bounds(points)
			fc.BBox = bbox[:]
		}
		return nil
	})
	return fc, err
}

// Popup formats one record at the requested date
func (s *DashboardService) Popup(identity string, df models.DateFilter) (models.Popup, error) {
	var popup models.Popup
	err := s.read(func(ds *casedata.Dataset) error {
		rec, ok := ds.Record(identity)
		if !ok {
			return fmt.Errorf("%w: %s", ErrRecordNotFound, identity)
		}
		date, err := resolveDate(ds, df)
		if err != nil {
			return err
		}
		popup = viz.BuildPopup(rec, date)
		return nil
	})
	return popup, err
}

// Series returns one stored series of a record
func (s *DashboardService) Series(ctx context.Context, identity, metric string) ([]models.SeriesPoint, error) {
	m, err := parseMetric(metric)
	if err != nil {
		return nil, err
	}

	var points []models.SeriesPoint
	err = s.read(func(ds *casedata.Dataset) error {
		if _, ok := ds.Record(identity); !ok {
			return fmt.Errorf("%w: %s", ErrRecordNotFound, identity)
		}
		var err error
		points, err = s.caseRepo.Series(ctx, identity, m)
		return err
	})
	return points, err
}

// ClusterProperties returns the cluster aggregate expressions keyed by
// "<Metric>Series|<date>"
func (s *DashboardService) ClusterProperties() (map[string]casedata.ClusterAggregateExpr, error) {
	var props map[string]casedata.ClusterAggregateExpr
	err := s.read(func(ds *casedata.Dataset) error {
		props = ds.Clusters.Properties()
		return nil
	})
	return props, err
}

// Clusters groups records into S2 cells at the requested zoom and rolls up
// every metric per cell
func (s *DashboardService) Clusters(filter models.ClusterFilter) (models.ClusterResponse, error) {
	resp := models.ClusterResponse{Zoom: filter.Zoom, Level: spatial.LevelForZoom(filter.Zoom)}

	metric, err := parseMetric(filter.Metric)
	if err != nil {
		return resp, err
	}

	err = s.read(func(ds *casedata.Dataset) error {
		date, err := resolveDate(ds, filter.DateFilter)
		if err != nil {
			return err
		}
		resp.Date = date

		cells := spatial.ClusterRecords(ds.Records(), filter.Zoom)
		spatial.SortBySize(cells)

		resp.Clusters = make([]models.Cluster, 0, len(cells))
		for _, cell := range cells {
			totals := ds.Clusters.Rollup(cell.Members, date)
			members := make([]string, len(cell.Members))
			for i, m := range cell.Members {
				members[i] = m.Identity
			}

			resp.Clusters = append(resp.Clusters, models.Cluster{
				Token:       cell.Token(),
				Level:       cell.Level,
				Center:      cell.Center,
				PointCount:  len(cell.Members),
				MaxDistance: cell.MaxDistance,
				Members:     members,
				Totals:      totals,
				Pie: viz.Pie(cell.Token(), cell.Center,
					totals[models.MetricConfirmed],
					totals[models.MetricRecovered],
					totals[models.MetricDeaths],
					metric),
			})
		}
		return nil
	})
	return resp, err
}

// Rank returns the top-N records by metric at the requested date
func (s *DashboardService) Rank(filter models.RankFilter) (models.RankResponse, error) {
	resp := models.RankResponse{}

	metric, err := parseMetric(filter.Metric)
	if err != nil {
		return resp, err
	}
	resp.Metric = metric

	limit := filter.Limit
	if limit <= 0 {
		limit = s.topN
	}

	err = s.read(func(ds *casedata.Dataset) error {
		date, err := resolveDate(ds, filter.DateFilter)
		if err != nil {
			return err
		}
		resp.Date = date

		records := ds.Records()
		resp.Entries = casedata.TopN(records, metric, date, limit)

		values := make([]float64, len(records))
		for i, r := range records {
			values[i] = r.Value(metric, date)
		}
		resp.Summary = models.RankSummary{
			Total:  stats.Sum(values),
			Mean:   stats.Mean(values),
			Median: stats.Median(values),
			P90:    stats.Quantile(values, 0.9),
		}
		return nil
	})
	return resp, err
}

// Totals sums every metric across all records at the requested date
func (s *DashboardService) Totals(ctx context.Context, df models.DateFilter) (models.Totals, error) {
	var totals models.Totals
	err := s.read(func(ds *casedata.Dataset) error {
		date, err := resolveDate(ds, df)
		if err != nil {
			return err
		}
		totals, err = s.caseRepo.Totals(ctx, date)
		return err
	})
	return totals, err
}

// Render computes the styling of one map layer
func (s *DashboardService) Render(filter models.RenderFilter) (models.RenderResponse, error) {
	resp := models.RenderResponse{}

	layer := filter.Layer
	if layer == "" {
		layer = viz.LayerBubbles
	}
	layer, err := viz.ParseLayer(layer)
	if err != nil {
		return resp, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	metric, err := parseMetric(filter.Metric)
	if err != nil {
		return resp, err
	}
	resp.Layer = layer
	resp.Metric = metric

	err = s.read(func(ds *casedata.Dataset) error {
		date, err := resolveDate(ds, filter.DateFilter)
		if err != nil {
			return err
		}
		resp.Date = date

		records := ds.Records()
		switch layer {
		case viz.LayerHeatmap:
			resp.Data = viz.Heatmap(records, metric, date)
		case viz.LayerPieCharts:
			resp.Data = viz.Pies(records, metric, date)
		default:
			resp.Data = viz.Bubbles(records, metric, date)
		}
		return nil
	})
	return resp, err
}

// WriteTopChart renders the top-N bar chart page to w
func (s *DashboardService) WriteTopChart(w io.Writer, filter models.RankFilter) error {
	rank, err := s.Rank(filter)
	if err != nil {
		return err
	}
	return viz.RenderTopChart(w, rank.Entries, rank.Metric, rank.Date)
}
