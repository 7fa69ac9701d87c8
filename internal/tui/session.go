package tui

import (
	"errors"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/crankshaft/internal/dashboard"
	"github.com/jask/crankshaft/internal/event"
	"github.com/jask/crankshaft/internal/keymap"
	"github.com/jask/crankshaft/internal/log"
)

const DefaultKeyBuffer = 64

var ErrAlreadyEntered = errors.New("terminal session already entered")

// SessionConfig is the configuration for the terminal session.
type SessionConfig struct {
	// Keys is used for the footer and the Help tab. Defaults to the
	// built-in bindings.
	Keys      *keymap.Registry
	Logger    log.Logger
	KeyBuffer int
	// ProgramOptions replace the default bubbletea options (alt screen,
	// no signal handler).
	ProgramOptions []tea.ProgramOption
}

func (c *SessionConfig) defaults() error {
	if c.Keys == nil {
		c.Keys = keymap.NewRegistry()
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	if c.KeyBuffer == 0 {
		c.KeyBuffer = DefaultKeyBuffer
	}
	if c.KeyBuffer < 0 {
		return fmt.Errorf("key buffer can't be negative")
	}

	if c.ProgramOptions == nil {
		// Signals are handled by the process, not by the program.
		c.ProgramOptions = []tea.ProgramOption{tea.WithAltScreen(), tea.WithoutSignalHandler()}
	}

	return nil
}

// Session owns the terminal while the dashboard runs. It draws the states it
// is given and forwards decoded keystrokes to Keys. It never touches the
// task registry.
type Session struct {
	program *tea.Program
	keys    chan event.Key
	logger  log.Logger

	mu      sync.Mutex
	entered bool
	left    bool
	done    chan struct{}
	err     error
}

func NewSession(cfg SessionConfig) (*Session, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := cfg.Logger.WithValues(log.Kv{"svc": "tui.Session"})
	keys := make(chan event.Key, cfg.KeyBuffer)
	m := model{keys: cfg.Keys, out: keys, logger: logger}

	return &Session{
		program: tea.NewProgram(m, cfg.ProgramOptions...),
		keys:    keys,
		logger:  logger,
		done:    make(chan struct{}),
	}, nil
}

// Keys returns the operator keystrokes. The channel is closed once the
// terminal session ends.
func (s *Session) Keys() <-chan event.Key { return s.keys }

// Enter switches the terminal into the dashboard screen. A program that
// fails to start ends the session, which closes Keys; the failure is
// returned by Leave.
func (s *Session) Enter() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entered {
		return ErrAlreadyEntered
	}
	s.entered = true

	go func() {
		defer close(s.done)
		defer close(s.keys)
		if _, err := s.program.Run(); err != nil {
			s.logger.Errorf("terminal session ended: %s", err)
			s.err = fmt.Errorf("terminal session: %w", err)
		}
	}()
	s.logger.Debugf("terminal session entered")
	return nil
}

// Leave restores the terminal and waits for the session to end. It is safe
// to call more than once and before Enter.
func (s *Session) Leave() error {
	s.mu.Lock()
	if !s.entered {
		s.mu.Unlock()
		return nil
	}
	if !s.left {
		s.left = true
		s.program.Quit()
	}
	s.mu.Unlock()

	<-s.done
	s.logger.Debugf("terminal session left")
	return s.err
}

// Render implements dashboard.Renderer. States sent before Enter or after
// the session ended are dropped.
func (s *Session) Render(st dashboard.State) {
	s.mu.Lock()
	entered := s.entered
	s.mu.Unlock()
	if !entered {
		return
	}

	select {
	case <-s.done:
		return
	default:
	}
	// Send returns once the program has exited.
	s.program.Send(stateMsg(st))
}

type stateMsg dashboard.State

type model struct {
	keys   *keymap.Registry
	out    chan<- event.Key
	logger log.Logger

	state  dashboard.State
	ready  bool
	width  int
	height int
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case stateMsg:
		m.state = dashboard.State(msg)
		m.ready = true
	case tea.KeyMsg:
		k := keymap.NormalizeKey(msg.String())
		select {
		case m.out <- k:
		default:
			m.logger.Warningf("key buffer full, dropping %q", k)
		}
	}
	return m, nil
}

func (m model) View() string {
	if !m.ready {
		return ""
	}
	return Render(m.state, m.keys, m.width, m.height)
}
