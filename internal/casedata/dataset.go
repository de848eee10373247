package casedata

import (
	"time"

	"github.com/jengzang/casemap-backend-go/internal/models"
)

// Dataset is the output of one pipeline run: the finalized records, the
// timeline, and the cluster rollups. Only the timeline selection changes
// after construction.
type Dataset struct {
	records  []*models.GeoRecord
	index    map[string]int
	Timeline *Timeline
	Clusters ClusterAggregates
	Report   LoadReport
	LoadedAt time.Time
}

// NewDataset assembles a dataset from finalized records
func NewDataset(records []*models.GeoRecord, dateKeys []models.DateKey, report LoadReport) (*Dataset, error) {
	timeline, err := NewTimeline(dateKeys)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(records))
	for i, r := range records {
		index[r.Identity] = i
	}

	return &Dataset{
		records:  records,
		index:    index,
		Timeline: timeline,
		Clusters: BuildClusterAggregates(dateKeys),
		Report:   report,
		LoadedAt: time.Now(),
	}, nil
}

// Records returns the records in first-seen order
func (d *Dataset) Records() []*models.GeoRecord {
	out := make([]*models.GeoRecord, len(d.records))
	copy(out, d.records)
	return out
}

// Record looks up one record by identity
func (d *Dataset) Record(identity string) (*models.GeoRecord, bool) {
	i, ok := d.index[identity]
	if !ok {
		return nil, false
	}
	return d.records[i], true
}

// Len returns the number of records
func (d *Dataset) Len() int {
	return len(d.records)
}
