package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/jengzang/casemap-backend-go/internal/models"
)

// ErrMissingColumn is returned when a required header column is absent
var ErrMissingColumn = errors.New("missing required column")

// ReadTable parses a wide-format metric CSV. The header must contain
// Country/Region, Lat and Long; every other column is kept as a property in
// header order. Unparseable coordinates fall back to 0.
func ReadTable(metric models.MetricName, r io.Reader) (*models.RawTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	head, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%s table is empty", metric)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s header: %w", metric, err)
	}

	columns := make([]string, len(head))
	cx := make(map[string]int, len(head))
	for i, h := range head {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		columns[i] = h
		if _, dup := cx[h]; !dup {
			cx[h] = i
		}
	}

	for _, required := range []string{models.ColumnRegion, models.ColumnLat, models.ColumnLon} {
		if _, ok := cx[required]; !ok {
			return nil, fmt.Errorf("%s table: %w %q", metric, ErrMissingColumn, required)
		}
	}
	lati, loni := cx[models.ColumnLat], cx[models.ColumnLon]

	table := &models.RawTable{Metric: metric, Columns: columns}
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read %s line %d: %w", metric, line, err)
		}

		props := make(map[string]string, len(columns))
		for i, c := range columns {
			// Short rows leave trailing columns absent
			if i < len(rec) {
				props[c] = rec[i]
			}
		}

		table.Rows = append(table.Rows, models.RawRow{
			Geometry: models.Point{
				Lat: coordinate(rec, lati, metric, line),
				Lon: coordinate(rec, loni, metric, line),
			},
			Columns:    columns,
			Properties: props,
		})
	}

	return table, nil
}

func coordinate(rec []string, p int, metric models.MetricName, line int) float64 {
	if p >= len(rec) {
		return 0
	}
	s := strings.TrimSpace(rec[p])
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		log.Printf("[Source] %s line %d: invalid coordinate %q, using 0", metric, line, s)
		return 0
	}
	return v
}
