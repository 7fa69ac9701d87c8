package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jask/crankshaft/internal/database"
	"github.com/jask/crankshaft/internal/database/repository"
	"github.com/jask/crankshaft/internal/source"
)

func TestRunSeedCommand(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CRANKSHAFT_CONFIG", "")
	dbPath := filepath.Join(t.TempDir(), "data", "tasks.db")

	var stdout, stderr bytes.Buffer
	err := Run(context.Background(), []string{"crankshaft", "--db-path", dbPath, "seed", "--size", "5"}, &stdout, &stderr)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Seeded 5 tasks")
	assert.Contains(t, stdout.String(), "(5 stored)")

	// Merging a smaller set keeps the rows it does not touch.
	stdout.Reset()
	err = Run(context.Background(), []string{"crankshaft", "--db-path", dbPath, "seed", "--size", "2", "--merge"}, &stdout, &stderr)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Seeded 2 tasks")
	assert.Contains(t, stdout.String(), "(5 stored)")

	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	tasks, err := source.SQLite{Repo: repository.NewTaskRepo(db)}.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 5)
	assert.Equal(t, "task-1", tasks[0].ID)
}

func TestRunInvalidArguments(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CRANKSHAFT_CONFIG", "")

	tests := map[string][]string{
		"unknown command should fail": {"crankshaft", "explode"},
		"unknown source should fail":  {"crankshaft", "--source", "http", "seed"},
		"bad tick rate should fail":   {"crankshaft", "--tick-rate", "soon", "seed"},
	}

	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			var out bytes.Buffer
			err := Run(context.Background(), args, &out, &out)
			assert.Error(t, err)
		})
	}
}
