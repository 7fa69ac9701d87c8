package dashboard

import (
	"context"
	"fmt"

	"github.com/jask/crankshaft/internal/event"
	"github.com/jask/crankshaft/internal/log"
)

// Renderer draws a state. It is called synchronously once per processed
// event and must not retain or mutate the state's task slice.
type Renderer interface {
	Render(State)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(State)

func (f RendererFunc) Render(s State) { f(s) }

// EventStream is the consumer side of an event source.
type EventStream interface {
	Events() <-chan event.Event
	// Err reports why the stream closed. Only called after Events is closed.
	Err() error
}

// LoopConfig is the configuration for the loop.
type LoopConfig struct {
	App      *App
	Renderer Renderer
	Logger   log.Logger
}

func (c *LoopConfig) defaults() error {
	if c.App == nil {
		return fmt.Errorf("app is required")
	}

	if c.Renderer == nil {
		return fmt.Errorf("renderer is required")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	return nil
}

// Loop pulls events, applies them to the app and renders after each one.
type Loop struct {
	app      *App
	renderer Renderer
	logger   log.Logger
}

func NewLoop(cfg LoopConfig) (*Loop, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Loop{
		app:      cfg.App,
		renderer: cfg.Renderer,
		logger:   cfg.Logger.WithValues(log.Kv{"svc": "dashboard.Loop"}),
	}, nil
}

// Run blocks until the operator quits, the stream closes or ctx is done.
// A stream closed because of an input failure is returned as an error.
func (l *Loop) Run(ctx context.Context, stream EventStream) error {
	events := stream.Events()
	l.renderer.Render(l.app.State())

	for {
		select {
		case <-ctx.Done():
			l.logger.Infof("dashboard interrupted")
			return nil
		case ev, ok := <-events:
			if !ok {
				if err := stream.Err(); err != nil {
					l.logger.Errorf("event stream failed: %s", err)
					return fmt.Errorf("event stream failed: %w", err)
				}
				l.logger.Warningf("event stream closed, stopping dashboard")
				return nil
			}

			quit := l.app.Apply(ev)
			l.renderer.Render(l.app.State())
			if quit {
				l.logger.Infof("quit requested")
				return nil
			}
		}
	}
}
