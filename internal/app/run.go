package app

import (
	"time"

	"github.com/google/uuid"
)

// Run describes one CLI invocation. Its ID tags every log line the
// invocation writes, so concurrent surfaces sharing a log stay apart.
type Run struct {
	ID      string
	Command string
	Started time.Time
	Status  string // "success" or "error"
}

// NewRun starts a run for command at now.
func NewRun(command string, now time.Time) *Run {
	return &Run{
		ID:      uuid.New().String(),
		Command: command,
		Started: now,
		Status:  "success",
	}
}

// Fail marks the run as failed.
func (r *Run) Fail() { r.Status = "error" }

// Failed reports whether Fail was called.
func (r *Run) Failed() bool { return r.Status == "error" }

// Elapsed returns the time since the run started.
func (r *Run) Elapsed(now time.Time) time.Duration { return now.Sub(r.Started) }
