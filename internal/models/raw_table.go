package models

// Source column names in the wide-format tables
const (
	ColumnRegion    = "Country/Region"
	ColumnSubRegion = "Province/State"
	ColumnLat       = "Lat"
	ColumnLon       = "Long"
)

// RawRow is one row of a wide-format metric table
type RawRow struct {
	Geometry Point
	// Columns holds property names in source order; shared by all rows of a table
	Columns    []string
	Properties map[string]string
}

// Get returns a property value and whether it was present
func (r RawRow) Get(name string) (string, bool) {
	v, ok := r.Properties[name]
	return v, ok
}

// RawTable is one fetched metric table
type RawTable struct {
	Metric  MetricName
	Columns []string
	Rows    []RawRow
}
