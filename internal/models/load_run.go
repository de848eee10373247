package models

import "time"

// LoadRun records one attempt to load the three metric tables
type LoadRun struct {
	ID string `json:"id" db:"id"`

	// Trigger
	Trigger string `json:"trigger" db:"trigger_by"` // startup, schedule, admin, cli

	// Status
	Status string `json:"status" db:"status"` // running, completed, failed

	// Results
	RecordCount  int    `json:"record_count" db:"record_count"`
	DateCount    int    `json:"date_count" db:"date_count"`
	CoercedCells int    `json:"coerced_cells" db:"coerced_cells"`
	ErrorMessage string `json:"error_message,omitempty" db:"error_message"`

	StartedAt  time.Time  `json:"started_at" db:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty" db:"finished_at"`
}

// LoadRun status constants
const (
	LoadStatusRunning   = "running"
	LoadStatusCompleted = "completed"
	LoadStatusFailed    = "failed"
)

// LoadRun trigger constants
const (
	TriggerStartup  = "startup"
	TriggerSchedule = "schedule"
	TriggerAdmin    = "admin"
)
