package source

import (
	"context"
	"fmt"

	"github.com/jask/crankshaft/internal/task"
)

// Source provides the initial task set. It is read once at startup.
type Source interface {
	Load(ctx context.Context) ([]task.Task, error)
}

// Populate loads tasks from src into reg in source order.
func Populate(ctx context.Context, src Source, reg *task.Registry) error {
	tasks, err := src.Load(ctx)
	if err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}
	for _, t := range tasks {
		if err := reg.Add(t); err != nil {
			return fmt.Errorf("add task: %w", err)
		}
	}
	return nil
}
