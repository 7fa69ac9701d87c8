package dashboard

import (
	"github.com/jask/crankshaft/internal/event"
	"github.com/jask/crankshaft/internal/keymap"
	"github.com/jask/crankshaft/internal/task"
)

// Tab is one of the dashboard views.
type Tab int

const (
	TabTasks Tab = iota
	TabStatistics
	TabHelp

	tabCount = 3
)

// Tabs lists the tabs in display order.
var Tabs = []Tab{TabTasks, TabStatistics, TabHelp}

func (t Tab) Title() string {
	switch t {
	case TabTasks:
		return "Tasks"
	case TabStatistics:
		return "Statistics"
	case TabHelp:
		return "Help"
	}
	return ""
}

// State is the read-only view of the app handed to the renderer.
type State struct {
	Tasks      task.Snapshot
	Tab        Tab
	ShouldQuit bool
}

// App is the dashboard state machine. Each event touches a single field set:
// tab switches only the tab, navigation and ticks only the registry.
type App struct {
	tasks      *task.Registry
	keys       *keymap.Registry
	tab        Tab
	shouldQuit bool
}

// NewApp returns an app over tasks. A nil keys registry uses the defaults.
func NewApp(tasks *task.Registry, keys *keymap.Registry) *App {
	if tasks == nil {
		tasks = task.NewRegistry(task.DefaultStep)
	}
	if keys == nil {
		keys = keymap.NewRegistry()
	}
	return &App{tasks: tasks, keys: keys}
}

// Apply runs the transition for ev and reports whether the app should quit.
func (a *App) Apply(ev event.Event) bool {
	switch e := ev.(type) {
	case event.InputEvent:
		a.handleKey(e.Key)
	case event.TickEvent:
		a.tasks.AdvanceTick()
	}
	return a.shouldQuit
}

func (a *App) handleKey(k event.Key) {
	switch a.keys.Lookup(k) {
	case keymap.ActionQuit:
		a.shouldQuit = true
	case keymap.ActionNextTab:
		a.tab = (a.tab + 1) % tabCount
	case keymap.ActionPrevTab:
		a.tab = (a.tab + tabCount - 1) % tabCount
	case keymap.ActionMoveDown:
		a.tasks.SelectNext()
	case keymap.ActionMoveUp:
		a.tasks.SelectPrevious()
	}
}

func (a *App) ShouldQuit() bool { return a.shouldQuit }

func (a *App) Tab() Tab { return a.tab }

func (a *App) Keys() *keymap.Registry { return a.keys }

// State returns a snapshot safe to hand to another goroutine.
func (a *App) State() State {
	return State{
		Tasks:      a.tasks.Snapshot(),
		Tab:        a.tab,
		ShouldQuit: a.shouldQuit,
	}
}
