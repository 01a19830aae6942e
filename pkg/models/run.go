package models

import "time"

// RunStatus represents the outcome of a generation run.
type RunStatus string

const (
	// RunStatusRunning indicates the pipeline is still executing.
	RunStatusRunning RunStatus = "running"
	// RunStatusApproved indicates the article passed validation.
	RunStatusApproved RunStatus = "approved"
	// RunStatusRejected indicates validation failed after all iterations.
	RunStatusRejected RunStatus = "rejected"
	// RunStatusFailed indicates a phase errored before validation completed.
	RunStatusFailed RunStatus = "failed"
)

// Valid returns true if the status is a known value.
func (s RunStatus) Valid() bool {
	switch s {
	case RunStatusRunning, RunStatusApproved, RunStatusRejected, RunStatusFailed:
		return true
	default:
		return false
	}
}

// RunRecord is one row in the run ledger.
type RunRecord struct {
	// ID is the unique identifier for this run.
	ID string `json:"id"`
	// Topic is the requested article topic.
	Topic string `json:"topic"`
	// Slug is the directory slug derived from the topic.
	Slug string `json:"slug"`
	// Status is the run outcome.
	Status RunStatus `json:"status"`
	// WordCount is the word count of the generated article.
	WordCount int `json:"word_count"`
	// Iterations is how many revision rounds ran.
	Iterations int `json:"iterations"`
	// TokensIn is the total prompt tokens consumed.
	TokensIn int64 `json:"tokens_in"`
	// TokensOut is the total completion tokens consumed.
	TokensOut int64 `json:"tokens_out"`
	// Cost is the estimated spend in USD.
	Cost float64 `json:"cost"`
	// OutputDir is the bundle directory, if the run got that far.
	OutputDir string `json:"output_dir,omitempty"`
	// Error holds the failure message for failed runs.
	Error string `json:"error,omitempty"`
	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`
	// FinishedAt is when the run ended, if it has.
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}
