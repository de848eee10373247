package models

// RecordFilter represents filter parameters for listing records
type RecordFilter struct {
	Region string `form:"region"` // Exact Country/Region match
	Query  string `form:"q"`      // Substring of region or sub-region
	Limit  int    `form:"limit"`  // Max records to return
}

// DateFilter selects a timeline position; empty means the selected date
type DateFilter struct {
	Date  string `form:"date"`
	Index *int   `form:"index"`
}

// RankFilter represents parameters for top-N rankings
type RankFilter struct {
	DateFilter
	Metric string `form:"metric"` // Confirmed, Recovered, Deaths, Active
	Limit  int    `form:"limit"`
}

// RenderFilter represents parameters for rendering metadata
type RenderFilter struct {
	DateFilter
	Layer  string `form:"layer"`  // bubbles, heatmap, piecharts
	Metric string `form:"metric"`
}

// ClusterFilter represents parameters for server-side clusters
type ClusterFilter struct {
	DateFilter
	Zoom   int    `form:"zoom"`   // Map zoom, clamped to S2 levels 0-30
	Metric string `form:"metric"` // Sizes the cluster pie markers
}
