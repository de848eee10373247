package casedata

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/jengzang/casemap-backend-go/internal/models"
)

// dateColumnRx matches date-shaped column names such as "1/22/20"
var dateColumnRx = regexp.MustCompile(`^[0-9]+/[0-9]+/[0-9]+$`)

// IsDateColumn reports whether a column name is a date key. Names are
// matched as given; the source layer trims headers.
func IsDateColumn(name string) bool {
	return dateColumnRx.MatchString(name)
}

// DetectDateKeys returns the date-shaped columns in source order. The key
// is the column name itself, so ParseSeries finds the cell under it.
func DetectDateKeys(columns []string) []models.DateKey {
	keys := make([]models.DateKey, 0, len(columns))
	for _, c := range columns {
		if IsDateColumn(c) {
			keys = append(keys, models.DateKey(c))
		}
	}
	return keys
}

// DuplicateDateKeys returns each key that occurs more than once, in order
// of its second occurrence
func DuplicateDateKeys(keys []models.DateKey) []models.DateKey {
	seen := make(map[models.DateKey]int, len(keys))
	var dups []models.DateKey
	for _, k := range keys {
		seen[k]++
		if seen[k] == 2 {
			dups = append(dups, k)
		}
	}
	return dups
}

// CoerceValue parses a cell as float64. Absent, blank and non-numeric cells
// become 0; ok is false when coercion replaced the cell.
func CoerceValue(raw string, present bool) (value float64, ok bool) {
	if !present {
		return 0, false
	}
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ParseSeries builds a TimeSeries for the given dates from one row.
// It returns the number of cells coerced to 0.
func ParseSeries(row models.RawRow, dateKeys []models.DateKey) (models.TimeSeries, int) {
	series := make(models.TimeSeries, len(dateKeys))
	coerced := 0
	for _, d := range dateKeys {
		raw, present := row.Get(string(d))
		v, ok := CoerceValue(raw, present)
		if !ok {
			coerced++
		}
		series[d] = v
	}
	return series, coerced
}
