package task

import (
	"errors"
	"fmt"
)

// DefaultStep is the progress added to every running task per tick.
const DefaultStep = 0.01

var (
	ErrEmptyID     = errors.New("task id is required")
	ErrDuplicateID = errors.New("duplicate task id")
)

// Registry holds the known tasks in insertion order plus the selection cursor.
//
// The id map and the ordered id list are only mutated through Registry
// methods, which keep them in lockstep. The selection is either unset or an id
// present in the ordered list.
type Registry struct {
	tasks    map[string]Task
	order    []string
	selected string
	step     float64
}

// NewRegistry returns an empty registry advancing running tasks by step on
// each tick. A non-positive step falls back to DefaultStep.
func NewRegistry(step float64) *Registry {
	if step <= 0 {
		step = DefaultStep
	}
	return &Registry{
		tasks: make(map[string]Task),
		step:  step,
	}
}

// Add appends a task. It is the only insertion path.
func (r *Registry) Add(t Task) error {
	if t.ID == "" {
		return ErrEmptyID
	}
	if _, ok := r.tasks[t.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateID, t.ID)
	}
	r.tasks[t.ID] = t.normalize()
	r.order = append(r.order, t.ID)
	return nil
}

func (r *Registry) Len() int { return len(r.order) }

func (r *Registry) Step() float64 { return r.step }

func (r *Registry) Get(id string) (Task, bool) {
	t, ok := r.tasks[id]
	return t, ok
}

// Selected returns the selected id, if any.
func (r *Registry) Selected() (string, bool) {
	return r.selected, r.selected != ""
}

// SelectNext moves the cursor forward, wrapping from the last task to the
// first. With no selection the first task is selected.
func (r *Registry) SelectNext() {
	if len(r.order) == 0 {
		return
	}
	idx, ok := r.selectedIndex()
	if !ok {
		r.selected = r.order[0]
		return
	}
	r.selected = r.order[(idx+1)%len(r.order)]
}

// SelectPrevious moves the cursor backward, wrapping from the first task to
// the last. With no selection the first task is selected.
func (r *Registry) SelectPrevious() {
	if len(r.order) == 0 {
		return
	}
	idx, ok := r.selectedIndex()
	if !ok {
		r.selected = r.order[0]
		return
	}
	if idx == 0 {
		idx = len(r.order)
	}
	r.selected = r.order[idx-1]
}

// selectedIndex treats an id missing from the order as index 0.
func (r *Registry) selectedIndex() (int, bool) {
	if r.selected == "" {
		return 0, false
	}
	for i, id := range r.order {
		if id == r.selected {
			return i, true
		}
	}
	return 0, true
}

// AdvanceTick adds the step to every running task. A task reaching 1.0 is
// clamped to exactly 1.0 and marked completed. Other statuses are untouched.
func (r *Registry) AdvanceTick() {
	for id, t := range r.tasks {
		if t.Status != StatusRunning {
			continue
		}
		t.Progress = clamp01(t.Progress + r.step)
		if t.Progress >= 1.0 {
			t.Progress = 1.0
			t.Status = StatusCompleted
		}
		r.tasks[id] = t
	}
}

// Snapshot returns a copy of the tasks in display order and the selection.
func (r *Registry) Snapshot() Snapshot {
	tasks := make([]Task, 0, len(r.order))
	for _, id := range r.order {
		tasks = append(tasks, r.tasks[id])
	}
	return Snapshot{Tasks: tasks, Selected: r.selected}
}
