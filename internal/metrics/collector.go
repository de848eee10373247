package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jengzang/casemap-backend-go/internal/casedata"
)

const namespace = "casemap"

// Collector holds the dataset metrics on a private registry so repeated
// construction in tests never collides with the default registry.
type Collector struct {
	registry *prometheus.Registry

	Loads        *prometheus.CounterVec
	CoercedCells prometheus.Counter
	SchemaDrift  prometheus.Counter
	Records      prometheus.Gauge
	DateKeys     prometheus.Gauge
	LoadDuration prometheus.Histogram
}

// NewCollector creates and registers every metric
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		Loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_loads_total",
			Help:      "Dataset load attempts by final status.",
		}, []string{"status"}),
		CoercedCells: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coerced_cells_total",
			Help:      "Date cells that were absent or non-numeric and read as 0.",
		}),
		SchemaDrift: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schema_drift_total",
			Help:      "Schema drift findings tolerated in lenient mode.",
		}),
		Records: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "records",
			Help:      "Records in the served dataset.",
		}),
		DateKeys: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "date_keys",
			Help:      "Dates in the served timeline.",
		}),
		LoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "load_duration_seconds",
			Help:      "Wall time of pipeline runs.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
	}

	c.registry.MustRegister(
		c.Loads, c.CoercedCells, c.SchemaDrift, c.Records, c.DateKeys, c.LoadDuration,
		collectors.NewGoCollector(),
	)
	return c
}

// Registry exposes the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the scrape endpoint
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveLoad records a finished pipeline run; ds is nil on failure
func (c *Collector) ObserveLoad(ds *casedata.Dataset, elapsed time.Duration, err error) {
	c.LoadDuration.Observe(elapsed.Seconds())

	if err != nil {
		c.Loads.WithLabelValues("failed").Inc()
		return
	}

	c.Loads.WithLabelValues("completed").Inc()
	c.CoercedCells.Add(float64(ds.Report.CoercedCells()))
	c.SchemaDrift.Add(float64(ds.Report.SchemaDrift()))
	c.Records.Set(float64(ds.Len()))
	c.DateKeys.Set(float64(ds.Timeline.Len()))
}
