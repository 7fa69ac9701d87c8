package task_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jask/crankshaft/internal/task"
)

func newRegistry(t *testing.T, tasks ...task.Task) *task.Registry {
	t.Helper()
	r := task.NewRegistry(task.DefaultStep)
	for _, tk := range tasks {
		require.NoError(t, r.Add(tk))
	}
	return r
}

func pendingTasks(n int) []task.Task {
	out := make([]task.Task, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, task.Task{ID: fmt.Sprintf("task-%d", i), Name: fmt.Sprintf("Task %d", i), Status: task.StatusPending})
	}
	return out
}

func selected(t *testing.T, r *task.Registry) string {
	t.Helper()
	id, ok := r.Selected()
	require.True(t, ok, "expected a selection")
	return id
}

func TestRegistryAdd(t *testing.T) {
	tests := map[string]struct {
		existing []task.Task
		add      task.Task
		expErr   error
		exp      task.Task
	}{
		"a new task should be stored as is": {
			add: task.Task{ID: "a", Name: "A", Status: task.StatusRunning, Progress: 0.5, CPUUsage: 0.2, MemoryUsage: 0.3},
			exp: task.Task{ID: "a", Name: "A", Status: task.StatusRunning, Progress: 0.5, CPUUsage: 0.2, MemoryUsage: 0.3},
		},
		"an empty id should fail": {
			add:    task.Task{Name: "A"},
			expErr: task.ErrEmptyID,
		},
		"a duplicated id should fail": {
			existing: []task.Task{{ID: "a"}},
			add:      task.Task{ID: "a"},
			expErr:   task.ErrDuplicateID,
		},
		"out of range fields should be clamped": {
			add: task.Task{ID: "a", Status: task.StatusRunning, Progress: 1.7, CPUUsage: -1, MemoryUsage: math.NaN()},
			exp: task.Task{ID: "a", Status: task.StatusRunning, Progress: 1, CPUUsage: 0, MemoryUsage: 0},
		},
		"a completed task should have full progress": {
			add: task.Task{ID: "a", Status: task.StatusCompleted, Progress: 0.2},
			exp: task.Task{ID: "a", Status: task.StatusCompleted, Progress: 1},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			r := newRegistry(t, test.existing...)

			err := r.Add(test.add)
			if test.expErr != nil {
				require.ErrorIs(t, err, test.expErr)
				assert.Equal(t, len(test.existing), r.Len())
				return
			}
			require.NoError(t, err)

			got, ok := r.Get(test.add.ID)
			require.True(t, ok)
			assert.Equal(t, test.exp, got)
		})
	}
}

func TestRegistryKeepsInsertionOrder(t *testing.T) {
	r := newRegistry(t,
		task.Task{ID: "c"},
		task.Task{ID: "a"},
		task.Task{ID: "b"},
	)

	snap := r.Snapshot()
	ids := make([]string, 0, len(snap.Tasks))
	for _, tk := range snap.Tasks {
		ids = append(ids, tk.ID)
	}
	assert.Equal(t, []string{"c", "a", "b"}, ids)
}

func TestSelectionWithoutCursorSelectsFirst(t *testing.T) {
	r := newRegistry(t, pendingTasks(3)...)
	r.SelectNext()
	assert.Equal(t, "task-1", selected(t, r))

	r = newRegistry(t, pendingTasks(3)...)
	r.SelectPrevious()
	assert.Equal(t, "task-1", selected(t, r))
}

func TestSelectionWrapsAround(t *testing.T) {
	r := newRegistry(t, pendingTasks(3)...)

	r.SelectNext() // task-1
	r.SelectPrevious()
	assert.Equal(t, "task-3", selected(t, r))

	r.SelectNext()
	assert.Equal(t, "task-1", selected(t, r))
}

func TestSelectionCycleCloses(t *testing.T) {
	for _, n := range []int{1, 2, 5, 19} {
		t.Run(fmt.Sprintf("size %d", n), func(t *testing.T) {
			r := newRegistry(t, pendingTasks(n)...)
			r.SelectNext()
			r.SelectNext()
			start := selected(t, r)

			for i := 0; i < n; i++ {
				r.SelectNext()
				_, ok := r.Get(selected(t, r))
				require.True(t, ok, "selection left the task set")
			}
			assert.Equal(t, start, selected(t, r))

			for i := 0; i < n; i++ {
				r.SelectPrevious()
			}
			assert.Equal(t, start, selected(t, r))
		})
	}
}

func TestSelectionOnEmptyRegistry(t *testing.T) {
	r := task.NewRegistry(0)

	r.SelectNext()
	r.SelectPrevious()

	_, ok := r.Selected()
	assert.False(t, ok)
	assert.Equal(t, 0, r.Len())
	assert.Empty(t, r.Snapshot().Tasks)
}

func TestAdvanceTick(t *testing.T) {
	tests := map[string]struct {
		task task.Task
		exp  task.Task
	}{
		"running task should advance by one step": {
			task: task.Task{ID: "a", Status: task.StatusRunning, Progress: 0.5},
			exp:  task.Task{ID: "a", Status: task.StatusRunning, Progress: 0.51},
		},
		"running task near the end should clamp and complete": {
			task: task.Task{ID: "a", Status: task.StatusRunning, Progress: 0.991},
			exp:  task.Task{ID: "a", Status: task.StatusCompleted, Progress: 1.0},
		},
		"pending task should be untouched": {
			task: task.Task{ID: "a", Status: task.StatusPending, Progress: 0.3},
			exp:  task.Task{ID: "a", Status: task.StatusPending, Progress: 0.3},
		},
		"failed task should be untouched": {
			task: task.Task{ID: "a", Status: task.StatusFailed, Progress: 0.3},
			exp:  task.Task{ID: "a", Status: task.StatusFailed, Progress: 0.3},
		},
		"completed task should be untouched": {
			task: task.Task{ID: "a", Status: task.StatusCompleted, Progress: 1},
			exp:  task.Task{ID: "a", Status: task.StatusCompleted, Progress: 1},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			r := newRegistry(t, test.task)
			r.AdvanceTick()

			got, ok := r.Get(test.task.ID)
			require.True(t, ok)
			assert.Equal(t, test.exp.Status, got.Status)
			assert.InDelta(t, test.exp.Progress, got.Progress, 1e-9)
		})
	}
}

func TestAdvanceTickIsMonotoneUntilCompleted(t *testing.T) {
	r := newRegistry(t, task.Task{ID: "a", Status: task.StatusRunning, Progress: 0.9})

	prev := 0.9
	for i := 0; i < 50; i++ {
		r.AdvanceTick()
		got, _ := r.Get("a")
		require.GreaterOrEqual(t, got.Progress, prev)
		require.LessOrEqual(t, got.Progress, 1.0)
		prev = got.Progress
	}

	got, _ := r.Get("a")
	assert.Equal(t, task.StatusCompleted, got.Status)
	assert.Equal(t, 1.0, got.Progress)
}

func TestAdvanceTickUsesConfiguredStep(t *testing.T) {
	r := task.NewRegistry(0.25)
	assert.Equal(t, 0.25, r.Step())
	assert.Equal(t, task.DefaultStep, task.NewRegistry(0).Step(), "non-positive step falls back to the default")
	require.NoError(t, r.Add(task.Task{ID: "a", Status: task.StatusRunning}))

	r.AdvanceTick()
	r.AdvanceTick()

	got, _ := r.Get("a")
	assert.InDelta(t, 0.5, got.Progress, 1e-9)
}

func TestAdvanceTickKeepsSelection(t *testing.T) {
	r := newRegistry(t,
		task.Task{ID: "a", Status: task.StatusRunning, Progress: 0.995},
		task.Task{ID: "b", Status: task.StatusPending},
	)
	r.SelectNext()
	r.AdvanceTick()

	assert.Equal(t, "a", selected(t, r))
}

func TestSnapshotIsACopy(t *testing.T) {
	r := newRegistry(t, task.Task{ID: "a", Status: task.StatusRunning, Progress: 0.1})
	r.SelectNext()

	snap := r.Snapshot()
	snap.Tasks[0].Progress = 0.9
	r.AdvanceTick()

	got, _ := r.Get("a")
	assert.InDelta(t, 0.11, got.Progress, 1e-9)
	assert.InDelta(t, 0.9, snap.Tasks[0].Progress, 1e-9)

	sel, ok := snap.SelectedTask()
	require.True(t, ok)
	assert.Equal(t, "a", sel.ID)
	assert.Equal(t, 0, snap.SelectedIndex())
}

func TestSnapshotStats(t *testing.T) {
	r := newRegistry(t,
		task.Task{ID: "a", Status: task.StatusPending},
		task.Task{ID: "b", Status: task.StatusRunning},
		task.Task{ID: "c", Status: task.StatusCompleted},
		task.Task{ID: "d", Status: task.StatusFailed},
	)

	st := r.Snapshot().Stats()
	assert.Equal(t, 4, st.Total)
	assert.Equal(t, 1, st.Counts[task.StatusRunning])
	assert.InDelta(t, 25.0, st.Percent(task.StatusPending), 1e-9)
	assert.InDelta(t, 0.25, st.CompletionRate(), 1e-9)
	assert.InDelta(t, 0.25, st.FailureRate(), 1e-9)

	empty := task.Snapshot{}.Stats()
	assert.Zero(t, empty.Percent(task.StatusFailed))
}

func TestParseStatus(t *testing.T) {
	for _, s := range task.Statuses {
		got, err := task.ParseStatus(s.Title())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	_, err := task.ParseStatus("paused")
	assert.Error(t, err)

	assert.True(t, task.StatusCompleted.Terminal())
	assert.True(t, task.StatusFailed.Terminal())
	assert.False(t, task.StatusRunning.Terminal())
	assert.False(t, task.StatusPending.Terminal())
}
