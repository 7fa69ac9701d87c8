package task

import (
	"fmt"
	"math"
	"strings"
)

// Status represents the state of a task.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusPending, StatusRunning, StatusCompleted, StatusFailed}

// ParseStatus maps a status name (any case) to a Status.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending, nil
	case StatusRunning:
		return StatusRunning, nil
	case StatusCompleted:
		return StatusCompleted, nil
	case StatusFailed:
		return StatusFailed, nil
	}
	return "", fmt.Errorf("unknown task status %q", s)
}

// Terminal reports whether no further transition is defined from s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Title returns the display label.
func (s Status) Title() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusRunning:
		return "Running"
	case StatusCompleted:
		return "Completed"
	case StatusFailed:
		return "Failed"
	}
	return "Unknown"
}

// Task is a monitored unit of work.
type Task struct {
	ID          string
	Name        string
	Status      Status
	Progress    float64 // 0.0 to 1.0
	CPUUsage    float64
	MemoryUsage float64
}

// normalize clamps fractional fields into [0,1] and enforces progress 1.0 for
// completed tasks.
func (t Task) normalize() Task {
	t.Progress = clamp01(t.Progress)
	t.CPUUsage = clamp01(t.CPUUsage)
	t.MemoryUsage = clamp01(t.MemoryUsage)
	if t.Status == StatusCompleted {
		t.Progress = 1.0
	}
	return t
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
