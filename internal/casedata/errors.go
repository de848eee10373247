package casedata

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jengzang/casemap-backend-go/internal/models"
)

var (
	ErrIngestOrder   = errors.New("metric tables must be ingested in order Confirmed, Recovered, Deaths")
	ErrDerivedMetric = errors.New("derived metric cannot be ingested")
	ErrNoDateColumns = errors.New("no date columns found in first row")
	ErrEmptyTimeline = errors.New("timeline has no dates")

	ErrDuplicateDateColumn = errors.New("duplicate date column")
)

// Drift kinds reported by SchemaDriftError
const (
	DriftDateKeys   = "date_keys"
	DriftIdentities = "identities"
)

// SchemaDriftError reports a metric table whose dates or identities diverge from Confirmed
type SchemaDriftError struct {
	Metric     models.MetricName
	Kind       string
	Missing    []string
	Unexpected []string
}

func (e *SchemaDriftError) Error() string {
	return fmt.Sprintf("schema drift in %s table (%s): missing [%s], unexpected [%s]",
		e.Metric, e.Kind, preview(e.Missing), preview(e.Unexpected))
}

// OutOfRangeError reports a timeline selection outside the known dates
type OutOfRangeError struct {
	Index int
	Date  models.DateKey
	Len   int
}

func (e *OutOfRangeError) Error() string {
	if e.Date != "" {
		return fmt.Sprintf("date %q is not in the timeline (%d dates)", e.Date, e.Len)
	}
	return fmt.Sprintf("index %d out of range [0, %d)", e.Index, e.Len)
}

// FetchError wraps a failure to load one metric table
type FetchError struct {
	Metric models.MetricName
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s table: %v", e.Metric, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// MissingMetricError reports finalization before a required series is present.
// Identity is empty when the whole table was never ingested.
type MissingMetricError struct {
	Identity string
	Metric   models.MetricName
}

func (e *MissingMetricError) Error() string {
	if e.Identity == "" {
		return fmt.Sprintf("cannot finalize: %s table not ingested", e.Metric)
	}
	return fmt.Sprintf("cannot finalize: record %q has no %s series", e.Identity, e.Metric)
}

// preview joins at most five values for error messages
func preview(values []string) string {
	const max = 5
	if len(values) <= max {
		return strings.Join(values, ", ")
	}
	return fmt.Sprintf("%s, ... %d more", strings.Join(values[:max], ", "), len(values)-max)
}
