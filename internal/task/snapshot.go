package task

// Snapshot is a read-only copy of a registry.
type Snapshot struct {
	Tasks    []Task
	Selected string
}

// SelectedTask returns the selected task, if any.
func (s Snapshot) SelectedTask() (Task, bool) {
	if s.Selected == "" {
		return Task{}, false
	}
	for _, t := range s.Tasks {
		if t.ID == s.Selected {
			return t, true
		}
	}
	return Task{}, false
}

// SelectedIndex returns the position of the selected task, or -1.
func (s Snapshot) SelectedIndex() int {
	for i, t := range s.Tasks {
		if t.ID == s.Selected {
			return i
		}
	}
	return -1
}

// Stats counts the snapshot tasks per status.
func (s Snapshot) Stats() Stats {
	st := Stats{Counts: make(map[Status]int, len(Statuses))}
	for _, t := range s.Tasks {
		st.Counts[t.Status]++
		st.Total++
	}
	return st
}

// Stats holds per-status task counts.
type Stats struct {
	Counts map[Status]int
	Total  int
}

// Percent returns the share of tasks in status s, 0 to 100.
func (s Stats) Percent(status Status) float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Counts[status]) / float64(s.Total) * 100
}

// CompletionRate is the completed fraction, 0 to 1.
func (s Stats) CompletionRate() float64 { return s.Percent(StatusCompleted) / 100 }

// FailureRate is the failed fraction, 0 to 1.
func (s Stats) FailureRate() float64 { return s.Percent(StatusFailed) / 100 }
