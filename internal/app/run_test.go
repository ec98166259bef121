package app

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestRun(t *testing.T) {
	start := time.Date(2025, 3, 14, 6, 30, 0, 0, time.FixedZone("UTC-5", -5*3600))
	r := NewRun("anchor sync", start)

	if _, err := uuid.Parse(r.ID); err != nil {
		t.Errorf("ID = %q is not a uuid: %v", r.ID, err)
	}
	if r.Command != "anchor sync" || !r.Started.Equal(start) {
		t.Errorf("run = %+v", r)
	}
	if r.Failed() || r.Status != "success" {
		t.Errorf("new run status = %q", r.Status)
	}
	r.Fail()
	if !r.Failed() {
		t.Error("Failed() = false after Fail()")
	}
	if got := r.Elapsed(start.Add(2 * time.Second)); got != 2*time.Second {
		t.Errorf("Elapsed() = %v", got)
	}
}

func TestRun_SameInstantDistinctIDs(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	a, b := NewRun("anchor sync", now), NewRun("widget timeline", now)
	if a.ID == b.ID {
		t.Errorf("runs started together share ID %q", a.ID)
	}
}
