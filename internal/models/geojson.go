package models

// GeoJSON type names
const (
	GeoJSONFeatureCollection = "FeatureCollection"
	GeoJSONFeature           = "Feature"
	GeoJSONPoint             = "Point"
)

// PointGeometry is a GeoJSON point; coordinates are [lon, lat]
type PointGeometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// Feature is a GeoJSON feature with free-form properties
type Feature struct {
	Type       string                 `json:"type"`
	ID         string                 `json:"id"`
	Geometry   PointGeometry          `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

// FeatureCollection is the map data source payload
type FeatureCollection struct {
	Type     string    `json:"type"`
	BBox     []float64 `json:"bbox,omitempty"`
	Features []Feature `json:"features"`
}

// NewFeature converts a record into a point feature carrying every series
// under its "<Metric>Series" property plus the values at date
func NewFeature(r *GeoRecord, date DateKey) Feature {
	props := map[string]interface{}{
		"identity":      r.Identity,
		ColumnRegion:    r.Region,
		ColumnSubRegion: r.SubRegion,
		"date":          date,
	}
	for _, m := range AllMetrics {
		props[m.SeriesProperty()] = r.Series[m]
		props[string(m)] = r.Value(m, date)
	}

	return Feature{
		Type: GeoJSONFeature,
		ID:   r.Identity,
		Geometry: PointGeometry{
			Type:        GeoJSONPoint,
			Coordinates: [2]float64{r.Geometry.Lon, r.Geometry.Lat},
		},
		Properties: props,
	}
}
