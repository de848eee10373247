package models

// Cluster is a server-side grouping of records sharing one S2 cell
type Cluster struct {
	Token       string                 `json:"token"`
	Level       int                    `json:"level"`
	Center      Point                  `json:"center"`
	PointCount  int                    `json:"point_count"`
	MaxDistance float64                `json:"max_distance_m"`
	Members     []string               `json:"members"`
	Totals      map[MetricName]float64 `json:"totals"`
	Pie         PieMarker              `json:"pie"`
}

// ClusterResponse is the payload of a cluster query
type ClusterResponse struct {
	Zoom     int       `json:"zoom"`
	Level    int       `json:"level"`
	Date     DateKey   `json:"date"`
	Clusters []Cluster `json:"clusters"`
}
