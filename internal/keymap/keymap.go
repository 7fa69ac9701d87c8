package keymap

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/jask/crankshaft/internal/event"
)

type Action string

const (
	ActionNone     Action = ""
	ActionQuit     Action = "quit"
	ActionNextTab  Action = "next_tab"
	ActionPrevTab  Action = "prev_tab"
	ActionMoveDown Action = "move_down"
	ActionMoveUp   Action = "move_up"
)

// Actions lists every bindable action in help order.
var Actions = []Action{ActionQuit, ActionNextTab, ActionPrevTab, ActionMoveDown, ActionMoveUp}

type Binding struct {
	Action Action
	Keys   []string
	Help   string
}

// Registry resolves normalized key names to actions.
type Registry struct {
	bindings []*Binding
	index    map[string]*Binding
}

func NewRegistry() *Registry {
	r := &Registry{index: make(map[string]*Binding)}
	r.Register(Binding{Action: ActionQuit, Keys: []string{"q", "esc", "ctrl+c"}, Help: "quit"})
	r.Register(Binding{Action: ActionNextTab, Keys: []string{"tab"}, Help: "next tab"})
	r.Register(Binding{Action: ActionPrevTab, Keys: []string{"shift+tab"}, Help: "prev tab"})
	r.Register(Binding{Action: ActionMoveDown, Keys: []string{"down", "j"}, Help: "next task"})
	r.Register(Binding{Action: ActionMoveUp, Keys: []string{"up", "k"}, Help: "previous task"})
	return r
}

// Register adds a binding. Keys already bound to another action are skipped,
// first registration wins.
func (r *Registry) Register(b Binding) {
	keys := make([]string, 0, len(b.Keys))
	for _, k := range normalizeKeyList(b.Keys) {
		if _, exists := r.index[k]; exists {
			continue
		}
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return
	}

	copyBinding := b
	copyBinding.Keys = keys
	r.bindings = append(r.bindings, &copyBinding)
	for _, k := range keys {
		r.index[k] = &copyBinding
	}
}

// Lookup returns the action bound to k, or ActionNone.
func (r *Registry) Lookup(k event.Key) Action {
	if r == nil {
		return ActionNone
	}
	if b := r.index[normalizeKeyName(string(k))]; b != nil {
		return b.Action
	}
	return ActionNone
}

func (r *Registry) Bindings() []Binding {
	if r == nil {
		return nil
	}
	out := make([]Binding, 0, len(r.bindings))
	for _, b := range r.bindings {
		out = append(out, *b)
	}
	return out
}

// HelpBindings returns the bindings as bubbles key bindings for help rendering.
func (r *Registry) HelpBindings() []key.Binding {
	items := r.Bindings()
	out := make([]key.Binding, 0, len(items))
	for _, b := range items {
		labels := make([]string, 0, len(b.Keys))
		for _, k := range b.Keys {
			labels = append(labels, keyLabel(k))
		}
		out = append(out, key.NewBinding(key.WithKeys(b.Keys...), key.WithHelp(strings.Join(labels, "/"), b.Help)))
	}
	return out
}

// ApplyOverrides replaces the keys of the named actions. Unknown actions,
// empty key lists and keys claimed by two actions are rejected and leave the
// registry untouched.
func (r *Registry) ApplyOverrides(overrides map[string][]string) error {
	if r == nil || len(overrides) == 0 {
		return nil
	}

	next := make(map[Action][]string, len(overrides))
	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		action := Action(strings.TrimSpace(name))
		if r.binding(action) == nil {
			return fmt.Errorf("key override action=%q: unknown action", name)
		}
		keys := normalizeKeyList(overrides[name])
		if len(keys) == 0 {
			return fmt.Errorf("key override action=%q: keys are required", name)
		}
		next[action] = keys
	}

	seen := make(map[string]Action)
	for _, b := range r.bindings {
		keys := b.Keys
		if o, ok := next[b.Action]; ok {
			keys = o
		}
		for _, k := range keys {
			if prev, ok := seen[k]; ok {
				return fmt.Errorf("key override conflict: key %q used by both %q and %q", k, prev, b.Action)
			}
			seen[k] = b.Action
		}
	}

	for action, keys := range next {
		r.binding(action).Keys = keys
	}
	r.rebuildIndex()
	return nil
}

func (r *Registry) binding(action Action) *Binding {
	for _, b := range r.bindings {
		if b.Action == action {
			return b
		}
	}
	return nil
}

func (r *Registry) rebuildIndex() {
	r.index = make(map[string]*Binding, len(r.index))
	for _, b := range r.bindings {
		for _, k := range b.Keys {
			r.index[k] = b
		}
	}
}

func keyLabel(k string) string {
	switch k {
	case "up":
		return "↑"
	case "down":
		return "↓"
	}
	return k
}

func normalizeKeyList(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]bool)
	for _, k := range keys {
		n := normalizeKeyName(k)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// NormalizeKey maps a raw key name to the form used by the registry.
func NormalizeKey(k string) event.Key {
	return event.Key(normalizeKeyName(k))
}

func normalizeKeyName(k string) string {
	if k == " " {
		return "space"
	}
	trimmed := strings.TrimSpace(k)
	if trimmed == "" {
		return ""
	}
	if len(trimmed) == 1 {
		ch := trimmed[0]
		if ch >= 'A' && ch <= 'Z' {
			// Preserve single uppercase rune so Q and q can differ.
			return trimmed
		}
	}
	s := strings.ToLower(trimmed)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "control+", "ctrl+")
	s = strings.ReplaceAll(s, "ctl+", "ctrl+")
	s = strings.ReplaceAll(s, "escape", "esc")
	s = strings.ReplaceAll(s, "backtab", "shift+tab")
	s = strings.ReplaceAll(s, "return", "enter")
	s = strings.ReplaceAll(s, "spacebar", "space")
	return s
}
