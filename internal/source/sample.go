package source

import (
	"context"
	"fmt"

	"github.com/jask/crankshaft/internal/task"
)

// DefaultSampleSize is the number of demo tasks generated.
const DefaultSampleSize = 19

// Sample generates a fixed set of demo tasks.
type Sample struct {
	Size int
}

func (s Sample) Load(context.Context) ([]task.Task, error) {
	n := s.Size
	if n <= 0 {
		n = DefaultSampleSize
	}
	out := make([]task.Task, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, sampleTask(i))
	}
	return out, nil
}

func sampleTask(i int) task.Task {
	var status task.Status
	switch i % 4 {
	case 0:
		status = task.StatusPending
	case 1:
		status = task.StatusRunning
	case 2:
		status = task.StatusCompleted
	default:
		status = task.StatusFailed
	}

	var progress float64
	switch status {
	case task.StatusRunning, task.StatusFailed:
		progress = float64(i%10) / 10
	case task.StatusCompleted:
		progress = 1
	}

	return task.Task{
		ID:          fmt.Sprintf("task-%d", i),
		Name:        fmt.Sprintf("Sample Task %d", i),
		Status:      status,
		Progress:    progress,
		CPUUsage:    float64(i%100) / 100,
		MemoryUsage: float64(i%80) / 100,
	}
}
