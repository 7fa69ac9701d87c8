package source

import (
	"context"
	"fmt"

	"github.com/jask/crankshaft/internal/database/repository"
	"github.com/jask/crankshaft/internal/task"
)

// SQLite reads the current task snapshot from the tasks table.
type SQLite struct {
	Repo *repository.TaskRepo
}

func (s SQLite) Load(ctx context.Context) ([]task.Task, error) {
	if s.Repo == nil {
		return nil, fmt.Errorf("task repository is required")
	}
	rows, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	out := make([]task.Task, 0, len(rows))
	for _, r := range rows {
		status, err := task.ParseStatus(r.Status)
		if err != nil {
			return nil, fmt.Errorf("task %s: %w", r.ID, err)
		}
		out = append(out, task.Task{
			ID:          r.ID,
			Name:        r.Name,
			Status:      status,
			Progress:    r.Progress,
			CPUUsage:    r.CPUUsage,
			MemoryUsage: r.MemoryUsage,
		})
	}
	return out, nil
}

// Seed replaces the stored snapshot with tasks, keeping their order as the
// stored position.
func Seed(ctx context.Context, repo *repository.TaskRepo, tasks []task.Task) error {
	if err := repo.ReplaceAll(ctx, taskRows(tasks)); err != nil {
		return fmt.Errorf("seed tasks: %w", err)
	}
	return nil
}

// Merge upserts tasks by id into the stored snapshot. Rows for other ids are
// kept.
func Merge(ctx context.Context, repo *repository.TaskRepo, tasks []task.Task) error {
	for _, row := range taskRows(tasks) {
		if err := repo.Upsert(ctx, row); err != nil {
			return fmt.Errorf("merge task %s: %w", row.ID, err)
		}
	}
	return nil
}

func taskRows(tasks []task.Task) []repository.Task {
	rows := make([]repository.Task, 0, len(tasks))
	for i, t := range tasks {
		rows = append(rows, repository.Task{
			ID:          t.ID,
			Position:    i + 1,
			Name:        t.Name,
			Status:      string(t.Status),
			Progress:    t.Progress,
			CPUUsage:    t.CPUUsage,
			MemoryUsage: t.MemoryUsage,
		})
	}
	return rows
}
