package models

// Totals holds metric sums across all records at one date
type Totals struct {
	Date      DateKey `json:"date"`
	Confirmed float64 `json:"confirmed"`
	Recovered float64 `json:"recovered"`
	Deaths    float64 `json:"deaths"`
	Active    float64 `json:"active"`
}

// RankEntry is one row of a top-N ranking
type RankEntry struct {
	Rank     int     `json:"rank"`
	Identity string  `json:"identity"`
	Label    string  `json:"label"`
	Value    float64 `json:"value"`
}

// RegionSummary is a record row as stored in the snapshot tables
type RegionSummary struct {
	Identity  string  `json:"identity" db:"identity"`
	Seq       int     `json:"seq" db:"seq"`
	Region    string  `json:"region" db:"region"`
	SubRegion string  `json:"sub_region,omitempty" db:"sub_region"`
	Lat       float64 `json:"lat" db:"lat"`
	Lon       float64 `json:"lon" db:"lon"`
}

// DatasetStatus summarizes the dataset currently served
type DatasetStatus struct {
	Loaded    bool     `json:"loaded"`
	Records   int      `json:"records"`
	DateKeys  int      `json:"date_keys"`
	FirstDate DateKey  `json:"first_date,omitempty"`
	LastDate  DateKey  `json:"last_date,omitempty"`
	Selected  DateKey  `json:"selected,omitempty"`
	LastRun   *LoadRun `json:"last_run,omitempty"`
}

// SeriesPoint is one dated value of a stored series
type SeriesPoint struct {
	Date  DateKey `json:"date"`
	Value float64 `json:"value"`
}

// TimelineState describes the timeline and its selection
type TimelineState struct {
	Dates         []DateKey `json:"dates"`
	Selected      DateKey   `json:"selected"`
	SelectedIndex int       `json:"selected_index"`
}

// RankSummary describes the distribution behind a ranking
type RankSummary struct {
	Total  float64 `json:"total"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	P90    float64 `json:"p90"`
}

// RankResponse is a top-N ranking at one date
type RankResponse struct {
	Metric  MetricName  `json:"metric"`
	Date    DateKey     `json:"date"`
	Entries []RankEntry `json:"entries"`
	Summary RankSummary `json:"summary"`
}

// RenderResponse carries one layer's styling at one date
type RenderResponse struct {
	Layer  string      `json:"layer"`
	Metric MetricName  `json:"metric"`
	Date   DateKey     `json:"date"`
	Data   interface{} `json:"data"`
}
