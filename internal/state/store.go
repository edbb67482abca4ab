// Package state records pipeline run metadata in a local SQLite database:
// one row per run with its status, timings, row counts and captured log text.
package state

import "time"

// RunStatus is the lifecycle status of a pipeline run.
type RunStatus string

const (
	// RunStatusRunning marks a run that has started and not yet finished.
	RunStatusRunning RunStatus = "running"
	// RunStatusSuccess marks a run that completed cleanly.
	RunStatusSuccess RunStatus = "success"
	// RunStatusFailure marks a run that aborted with an error.
	RunStatusFailure RunStatus = "failure"
)

// Run is one pipeline run record. Created at run start with status running,
// completed at run end with the outcome, row counts and log text.
type Run struct {
	ID          string
	Pipeline    string
	Status      RunStatus
	StartedAt   time.Time
	FinishedAt  *time.Time
	RowsLoaded  int64
	RowsDropped int64
	Error       string
	LogText     string
}

// RunResult carries the outcome fields written when a run completes.
type RunResult struct {
	Status      RunStatus
	RowsLoaded  int64
	RowsDropped int64
	Error       string
	LogText     string
}

// Store is the run-metadata store contract.
type Store interface {
	CreateRun(pipeline string) (*Run, error)
	CompleteRun(id string, result RunResult) error
	GetRun(id string) (*Run, error)
	ListRuns(limit int) ([]*Run, error)
	Close() error
}
