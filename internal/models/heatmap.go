package models

// HeatmapPoint represents a single point in the heatmap
type HeatmapPoint struct {
	Identity  string  `json:"identity"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Radius    float64 `json:"radius"`    // Pixels
	Weight    float64 `json:"weight"`    // 0.1-1
	Intensity float64 `json:"intensity"` // Normalized 0-1
	Value     float64 `json:"value"`     // Raw value
}

// HeatmapResponse represents the heatmap layer payload
type HeatmapResponse struct {
	Points   []HeatmapPoint `json:"points"`
	Count    int            `json:"count"`
	MaxValue float64        `json:"max_value"`
	MinValue float64        `json:"min_value"`
	Metric   MetricName     `json:"metric"`
	Date     DateKey        `json:"date"`
}

// BubbleStyle is the bubble-layer styling of one record
type BubbleStyle struct {
	Identity string  `json:"identity"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Radius   float64 `json:"radius"`
	Opacity  float64 `json:"opacity"`
	Color    string  `json:"color"`
	Value    float64 `json:"value"`
}

// PieMarker is the pie-chart marker of one record or cluster
type PieMarker struct {
	ID      string     `json:"id"`
	Lat     float64    `json:"lat"`
	Lng     float64    `json:"lng"`
	Values  [3]float64 `json:"values"` // Confirmed, Recovered, Deaths
	Colors  [3]string  `json:"colors"`
	Labels  [3]string  `json:"labels"` // slice tooltips
	Radius  float64    `json:"radius"`
	Visible bool       `json:"visible"`
}

// Popup is the formatted detail view of one record
type Popup struct {
	Title     string  `json:"title"`
	Date      DateKey `json:"date"`
	Confirmed string  `json:"confirmed"`
	Recovered string  `json:"recovered"`
	Deaths    string  `json:"deaths"`
	Active    string  `json:"active"`
}
