package event

import (
	"fmt"
	"sync"
	"time"

	"github.com/jask/crankshaft/internal/log"
)

const (
	DefaultTickRate = 250 * time.Millisecond
	DefaultBuffer   = 256
)

// SourceConfig is the configuration for the event source.
type SourceConfig struct {
	Input    Input
	TickRate time.Duration
	// Buffer is the event channel capacity. Ticks queue up in it when the
	// consumer is slow; once full the producer blocks.
	Buffer int
	Logger log.Logger
	Now    func() time.Time
}

func (c *SourceConfig) defaults() error {
	if c.Input == nil {
		return fmt.Errorf("input is required")
	}

	if c.TickRate < 0 {
		return fmt.Errorf("tick rate must be positive")
	}

	if c.TickRate == 0 {
		c.TickRate = DefaultTickRate
	}

	if c.Buffer <= 0 {
		c.Buffer = DefaultBuffer
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	if c.Now == nil {
		c.Now = time.Now
	}

	return nil
}

// Source merges operator input and a periodic tick into one ordered stream.
//
// A single background goroutine produces the events; the consumer reads
// Events() and calls Close when it stops reading.
type Source struct {
	input    Input
	tickRate time.Duration
	logger   log.Logger
	now      func() time.Time

	events    chan Event
	done      chan struct{}
	startOnce sync.Once
	closeOnce sync.Once

	// err is written before events is closed and read after.
	err error
}

// NewSource creates a new event source. It does not start producing until
// Start is called.
func NewSource(cfg SourceConfig) (*Source, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Source{
		input:    cfg.Input,
		tickRate: cfg.TickRate,
		logger:   cfg.Logger.WithValues(log.Kv{"svc": "event.Source"}),
		now:      cfg.Now,
		events:   make(chan Event, cfg.Buffer),
		done:     make(chan struct{}),
	}, nil
}

// Start launches the producer. Calling it more than once has no effect.
func (s *Source) Start() {
	s.startOnce.Do(func() {
		go s.run()
	})
}

// Events returns the merged stream. It is closed when the producer stops.
func (s *Source) Events() <-chan Event { return s.events }

// Close signals that the consumer went away. The producer exits on its next
// emission attempt, at the latest one tick period later.
func (s *Source) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// Err returns the input failure that stopped the producer, if any. Only valid
// once Events() is closed.
func (s *Source) Err() error { return s.err }

func (s *Source) run() {
	defer close(s.events)

	lastTick := s.now()
	for {
		timeout := s.tickRate - s.now().Sub(lastTick)
		if timeout < 0 {
			timeout = 0
		}

		key, ok, err := s.input.Poll(timeout)
		if err != nil {
			s.err = fmt.Errorf("could not poll input: %w", err)
			select {
			case <-s.done:
				s.logger.Debugf("input ended after consumer left: %s", err)
			default:
				s.logger.Errorf("event producer aborted: %s", err)
			}
			return
		}
		if ok && !s.emit(InputEvent{Key: key}) {
			return
		}

		if s.now().Sub(lastTick) >= s.tickRate {
			if !s.emit(TickEvent{}) {
				return
			}
			lastTick = s.now()
		}
	}
}

// emit reports false when the consumer has closed the source.
func (s *Source) emit(ev Event) bool {
	select {
	case <-s.done:
		s.logger.Debugf("consumer gone, stopping event producer")
		return false
	default:
	}

	select {
	case s.events <- ev:
		return true
	case <-s.done:
		s.logger.Debugf("consumer gone, stopping event producer")
		return false
	}
}
