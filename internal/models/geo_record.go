package models

import "fmt"

// MetricName identifies one case-count series
type MetricName string

const (
	MetricConfirmed MetricName = "Confirmed"
	MetricRecovered MetricName = "Recovered"
	MetricDeaths    MetricName = "Deaths"
	MetricActive    MetricName = "Active" // Derived: Confirmed - Recovered - Deaths
)

// FetchedMetrics lists the metrics loaded from source tables, in load order
var FetchedMetrics = []MetricName{MetricConfirmed, MetricRecovered, MetricDeaths}

// AllMetrics lists every metric, fetched ones first
var AllMetrics = []MetricName{MetricConfirmed, MetricRecovered, MetricDeaths, MetricActive}

// ParseMetricName converts a query value into a MetricName
func ParseMetricName(s string) (MetricName, error) {
	for _, m := range AllMetrics {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown metric %q", s)
}

// SeriesProperty returns the property name the map layers read the series from
func (m MetricName) SeriesProperty() string {
	return string(m) + "Series"
}

// IsDerived reports whether the metric is computed rather than fetched
func (m MetricName) IsDerived() bool {
	return m == MetricActive
}

// DateKey labels one sampled date column, e.g. "1/22/20"
type DateKey string

// TimeSeries maps each known date to its value
type TimeSeries map[DateKey]float64

// Point is a WGS84 position
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// GeoRecord holds all series for one region/sub-region identity
type GeoRecord struct {
	Identity  string                    `json:"identity"`
	Region    string                    `json:"region"`
	SubRegion string                    `json:"sub_region,omitempty"`
	Geometry  Point                     `json:"geometry"`
	Series    map[MetricName]TimeSeries `json:"series"`
}

// NewGeoRecord creates a record with no series attached
func NewGeoRecord(identity, region, subRegion string, geometry Point) *GeoRecord {
	return &GeoRecord{
		Identity:  identity,
		Region:    region,
		SubRegion: subRegion,
		Geometry:  geometry,
		Series:    make(map[MetricName]TimeSeries, len(AllMetrics)),
	}
}

// HasSeries reports whether the metric series has been attached
func (r *GeoRecord) HasSeries(metric MetricName) bool {
	_, ok := r.Series[metric]
	return ok
}

// Value returns the metric value at date, 0 when absent
func (r *GeoRecord) Value(metric MetricName, date DateKey) float64 {
	return r.Series[metric][date]
}

// Label returns the display name used in charts: sub-region when present
func (r *GeoRecord) Label() string {
	if r.SubRegion != "" {
		return r.SubRegion
	}
	return r.Region
}

// Title returns the popup title, "SubRegion, Region" unless they coincide
func (r *GeoRecord) Title() string {
	if r.SubRegion != "" && r.SubRegion != r.Region {
		return r.SubRegion + ", " + r.Region
	}
	return r.Region
}
