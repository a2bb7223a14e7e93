package domain

import "time"

// RunStatus tracks the lifecycle of a sync run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusAborted   RunStatus = "aborted"
)

// Run is one invocation of the sync workflow.
type Run struct {
	ID           string     `json:"id"`
	Source       string     `json:"source"`
	Destinations []string   `json:"destinations"`
	Status       RunStatus  `json:"status"`
	DryRun       bool       `json:"dry_run"`
	Discovered   int        `json:"discovered"`
	Published    int        `json:"published"`
	Failed       int        `json:"failed"`
	Error        *string    `json:"error,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
}

// RunSummary carries the final counters written when a run ends.
type RunSummary struct {
	Status     RunStatus
	Discovered int
	Published  int
	Failed     int
	Error      string
	FinishedAt time.Time
}

// Outcome is the result of attempting to publish one product.
type Outcome struct {
	RunID       string    `json:"run_id"`
	ProductID   string    `json:"product_id"`
	Position    int       `json:"position"`
	Published   bool      `json:"published"`
	Error       *string   `json:"error,omitempty"`
	AttemptedAt time.Time `json:"attempted_at"`
}

// UserError is a business-level error embedded in a mutation payload.
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}
