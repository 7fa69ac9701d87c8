package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jask/crankshaft/internal/database"
)

// TaskRepo handles the task snapshot table.
type TaskRepo struct {
	db *sql.DB
}

func NewTaskRepo(db *sql.DB) *TaskRepo { return &TaskRepo{db: db} }

func (r *TaskRepo) Upsert(ctx context.Context, t Task) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO tasks(id, position, name, status, progress, cpu_usage, memory_usage, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(id) DO UPDATE SET
	 position=excluded.position,
	 name=excluded.name,
	 status=excluded.status,
	 progress=excluded.progress,
	 cpu_usage=excluded.cpu_usage,
	 memory_usage=excluded.memory_usage,
	 updated_at=CURRENT_TIMESTAMP;
	`, t.ID, t.Position, t.Name, t.Status, t.Progress, t.CPUUsage, t.MemoryUsage)
	return err
}

// ReplaceAll swaps the stored snapshot for rows in a single transaction.
func (r *TaskRepo) ReplaceAll(ctx context.Context, rows []Task) error {
	now := database.Now()
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
			return fmt.Errorf("clear tasks: %w", err)
		}
		for _, t := range rows {
			_, err := tx.ExecContext(ctx, `
			INSERT INTO tasks(id, position, name, status, progress, cpu_usage, memory_usage, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				t.ID, t.Position, t.Name, t.Status, t.Progress, t.CPUUsage, t.MemoryUsage, now)
			if err != nil {
				return fmt.Errorf("insert task %s: %w", t.ID, err)
			}
		}
		return nil
	})
}

// List returns every task in display order.
func (r *TaskRepo) List(ctx context.Context) ([]Task, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, position, name, status, progress, cpu_usage, memory_usage, updated_at
	FROM tasks ORDER BY position, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Task
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.Position, &t.Name, &t.Status, &t.Progress, &t.CPUUsage, &t.MemoryUsage, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TaskRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
