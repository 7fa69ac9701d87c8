package repository

import "time"

// Task represents a tasks row.
type Task struct {
	ID          string
	Position    int
	Name        string
	Status      string
	Progress    float64
	CPUUsage    float64
	MemoryUsage float64
	UpdatedAt   time.Time
}
