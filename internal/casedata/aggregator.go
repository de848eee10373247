package casedata

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/jengzang/casemap-backend-go/internal/models"
)

// Options controls how strictly tables are merged
type Options struct {
	// StrictSchema rejects Recovered/Deaths tables whose dates or identities
	// diverge from Confirmed. When false, drift is logged and merged best-effort.
	StrictSchema bool
}

// DefaultOptions returns strict merging
func DefaultOptions() Options {
	return Options{StrictSchema: true}
}

// IngestStats summarizes one ingest pass
type IngestStats struct {
	Metric        models.MetricName `json:"metric"`
	Rows          int               `json:"rows"`
	Skipped       int               `json:"skipped"`        // Rows without a region
	NewIdentities int               `json:"new_identities"` // Identities first seen after Confirmed
	Duplicates    int               `json:"duplicates"`     // Repeated identities within the table
	CoercedCells  int               `json:"coerced_cells"`
	SchemaDrift   int               `json:"schema_drift"`
}

// Aggregator merges the per-metric tables into one record per identity.
// It is not safe for concurrent use.
type Aggregator struct {
	opts      Options
	records   []*models.GeoRecord
	index     map[string]int
	dateKeys  []models.DateKey
	baseline  int // records created by the Confirmed pass
	next      int // position in FetchedMetrics of the next table to ingest
	finalized bool
}

// NewAggregator creates an empty aggregator
func NewAggregator(opts Options) *Aggregator {
	return &Aggregator{
		opts:  opts,
		index: make(map[string]int),
	}
}

// Ingest merges one metric table. Tables must arrive as Confirmed, Recovered,
// Deaths; the Deaths pass finalizes the records.
func (a *Aggregator) Ingest(metric models.MetricName, rows []models.RawRow) (IngestStats, error) {
	stats := IngestStats{Metric: metric, Rows: len(rows)}

	if metric.IsDerived() {
		return stats, fmt.Errorf("%w: %s", ErrDerivedMetric, metric)
	}
	if a.next >= len(models.FetchedMetrics) || models.FetchedMetrics[a.next] != metric {
		return stats, fmt.Errorf("%w: got %s, want %s", ErrIngestOrder, metric, a.expected())
	}

	if a.next == 0 {
		if len(rows) > 0 {
			a.dateKeys = DetectDateKeys(rows[0].Columns)
		}
		if len(a.dateKeys) == 0 {
			return stats, ErrNoDateColumns
		}
		if dups := DuplicateDateKeys(a.dateKeys); len(dups) > 0 {
			a.dateKeys = nil
			return stats, fmt.Errorf("%w in %s table: %s",
				ErrDuplicateDateColumn, metric, preview(dateStrings(dups)))
		}
	} else {
		drifts := a.checkSchema(metric, rows)
		stats.SchemaDrift = len(drifts)
		if len(drifts) > 0 {
			if a.opts.StrictSchema {
				return stats, drifts[0]
			}
			for _, d := range drifts {
				log.Printf("[Aggregator] %v; merging best-effort", d)
			}
		}
	}

	seen := make(map[string]bool, len(rows))
	for _, row := range rows {
		region := strings.TrimSpace(row.Properties[models.ColumnRegion])
		subRegion := strings.TrimSpace(row.Properties[models.ColumnSubRegion])
		if region == "" {
			stats.Skipped++
			continue
		}

		id := ResolveIdentity(region, subRegion)
		rec, ok := a.Record(id)
		if !ok {
			rec = models.NewGeoRecord(id, region, subRegion, row.Geometry)
			a.index[id] = len(a.records)
			a.records = append(a.records, rec)
			if a.next > 0 {
				stats.NewIdentities++
				log.Printf("[Aggregator] %s table introduced unseen identity %q", metric, id)
			}
		}
		if seen[id] {
			stats.Duplicates++
		}
		seen[id] = true

		series, coerced := ParseSeries(row, a.dateKeys)
		stats.CoercedCells += coerced
		rec.Series[metric] = series
	}

	if a.next == 0 {
		a.baseline = len(a.records)
	}
	a.next++

	if metric == models.MetricDeaths {
		if err := a.Finalize(); err != nil {
			return stats, err
		}
	}
	return stats, nil
}

// Finalize computes the Active series for every record. It fails with
// MissingMetricError when a fetched table or (in strict mode) a record's
// series is missing. Calling it again after success is a no-op.
func (a *Aggregator) Finalize() error {
	if a.finalized {
		return nil
	}
	for i, m := range models.FetchedMetrics {
		if a.next <= i {
			return &MissingMetricError{Metric: m}
		}
	}

	for _, rec := range a.records {
		for _, m := range models.FetchedMetrics {
			if rec.HasSeries(m) {
				continue
			}
			if a.opts.StrictSchema {
				return &MissingMetricError{Identity: rec.Identity, Metric: m}
			}
		}
	}

	for _, rec := range a.records {
		for _, m := range models.FetchedMetrics {
			if !rec.HasSeries(m) {
				log.Printf("[Aggregator] record %q has no %s series; using zeros", rec.Identity, m)
				rec.Series[m] = zeroSeries(a.dateKeys)
			}
		}

		confirmed := rec.Series[models.MetricConfirmed]
		recovered := rec.Series[models.MetricRecovered]
		deaths := rec.Series[models.MetricDeaths]

		active := make(models.TimeSeries, len(a.dateKeys))
		for _, d := range a.dateKeys {
			active[d] = confirmed[d] - recovered[d] - deaths[d]
		}
		rec.Series[models.MetricActive] = active
	}

	a.finalized = true
	return nil
}

// Finalized reports whether the Active series has been computed
func (a *Aggregator) Finalized() bool {
	return a.finalized
}

// Record looks up a record by identity
func (a *Aggregator) Record(identity string) (*models.GeoRecord, bool) {
	i, ok := a.index[identity]
	if !ok {
		return nil, false
	}
	return a.records[i], true
}

// Records returns the records in first-seen order
func (a *Aggregator) Records() []*models.GeoRecord {
	out := make([]*models.GeoRecord, len(a.records))
	copy(out, a.records)
	return out
}

// DateKeys returns the canonical date order established by the Confirmed table
func (a *Aggregator) DateKeys() []models.DateKey {
	out := make([]models.DateKey, len(a.dateKeys))
	copy(out, a.dateKeys)
	return out
}

func (a *Aggregator) expected() string {
	if a.next >= len(models.FetchedMetrics) {
		return "nothing (all tables ingested)"
	}
	return string(models.FetchedMetrics[a.next])
}

// checkSchema compares a later table with the Confirmed baseline
func (a *Aggregator) checkSchema(metric models.MetricName, rows []models.RawRow) []*SchemaDriftError {
	var drifts []*SchemaDriftError

	var columns []string
	if len(rows) > 0 {
		columns = rows[0].Columns
	}
	if got := DetectDateKeys(columns); !sameDateKeys(got, a.dateKeys) {
		missing, unexpected := diffKeys(dateStrings(a.dateKeys), dateStrings(got))
		if len(missing) == 0 && len(unexpected) == 0 {
			if dups := DuplicateDateKeys(got); len(dups) > 0 {
				for _, d := range dups {
					unexpected = append(unexpected, "duplicate "+string(d))
				}
			} else {
				// Same set, different order
				unexpected = []string{"(column order differs)"}
			}
		}
		drifts = append(drifts, &SchemaDriftError{
			Metric:     metric,
			Kind:       DriftDateKeys,
			Missing:    missing,
			Unexpected: unexpected,
		})
	}

	want := make([]string, 0, a.baseline)
	for _, rec := range a.records[:a.baseline] {
		want = append(want, rec.Identity)
	}
	got := make([]string, 0, len(rows))
	for _, row := range rows {
		region := strings.TrimSpace(row.Properties[models.ColumnRegion])
		if region == "" {
			continue
		}
		got = append(got, ResolveIdentity(region, strings.TrimSpace(row.Properties[models.ColumnSubRegion])))
	}
	if missing, unexpected := diffKeys(want, got); len(missing) > 0 || len(unexpected) > 0 {
		drifts = append(drifts, &SchemaDriftError{
			Metric:     metric,
			Kind:       DriftIdentities,
			Missing:    missing,
			Unexpected: unexpected,
		})
	}

	return drifts
}

func zeroSeries(dateKeys []models.DateKey) models.TimeSeries {
	s := make(models.TimeSeries, len(dateKeys))
	for _, d := range dateKeys {
		s[d] = 0
	}
	return s
}

func sameDateKeys(a, b []models.DateKey) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func dateStrings(keys []models.DateKey) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = string(k)
	}
	return out
}

// diffKeys returns the sorted values of want absent from got, and of got absent from want
func diffKeys(want, got []string) (missing, unexpected []string) {
	wantSet := make(map[string]bool, len(want))
	for _, w := range want {
		wantSet[w] = true
	}
	gotSet := make(map[string]bool, len(got))
	for _, g := range got {
		gotSet[g] = true
	}
	for w := range wantSet {
		if !gotSet[w] {
			missing = append(missing, w)
		}
	}
	for g := range gotSet {
		if !wantSet[g] {
			unexpected = append(unexpected, g)
		}
	}
	sort.Strings(missing)
	sort.Strings(unexpected)
	return missing, unexpected
}
