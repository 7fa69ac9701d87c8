package commands

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jask/crankshaft/internal/config"
	"github.com/jask/crankshaft/internal/event"
	"github.com/jask/crankshaft/internal/log"
	"github.com/jask/crankshaft/internal/tui"
)

var errTerminalGone = errors.New("terminal gone")

type brokenInput struct{}

func (brokenInput) Read([]byte) (int, error) { return 0, errTerminalGone }

func testRootCommand() *RootCommand {
	return &RootCommand{
		Config: config.Config{
			Dashboard: config.DashboardConfig{TickRate: time.Hour, ProgressStep: 0.01, EventBuffer: 16},
			Source:    config.SourceConfig{Kind: config.SourceSample, SampleSize: 3},
			Log:       config.LogConfig{Level: "info", Format: config.LogFormatText},
		},
		Logger: log.Noop,
	}
}

func TestRunCommandLeavesTerminalOnEveryExit(t *testing.T) {
	tests := map[string]struct {
		input     func(t *testing.T) io.Reader
		cancelCtx bool
		expErr    bool
		expErrIs  []error
	}{
		"quit key should stop the dashboard": {
			input: func(t *testing.T) io.Reader {
				r, w := io.Pipe()
				t.Cleanup(func() { _ = w.Close() })
				go func() { _, _ = w.Write([]byte("q")) }()
				return r
			},
		},
		"context cancel should stop the dashboard": {
			input: func(t *testing.T) io.Reader {
				r, w := io.Pipe()
				t.Cleanup(func() { _ = w.Close() })
				return r
			},
			cancelCtx: true,
		},
		"broken terminal input should fail with both errors": {
			input:    func(*testing.T) io.Reader { return brokenInput{} },
			expErr:   true,
			expErrIs: []error{event.ErrInputClosed, errTerminalGone},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			var session *tui.Session
			cmd := RunCommand{
				rootCmd: testRootCommand(),
				SessionOptions: []tea.ProgramOption{
					tea.WithInput(test.input(t)),
					tea.WithOutput(io.Discard),
					tea.WithoutSignalHandler(),
				},
				onSession: func(s *tui.Session) { session = s },
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			if test.cancelCtx {
				cancel()
			}

			done := make(chan error, 1)
			go func() { done <- cmd.Run(ctx) }()

			var err error
			select {
			case err = <-done:
			case <-time.After(5 * time.Second):
				t.Fatal("run did not return")
			}

			if test.expErr {
				require.Error(t, err)
				for _, target := range test.expErrIs {
					assert.ErrorIs(t, err, target)
				}
			} else {
				require.NoError(t, err)
			}

			// The key channel only closes once the session has been left.
			require.NotNil(t, session)
			timeout := time.After(2 * time.Second)
			for {
				select {
				case _, ok := <-session.Keys():
					if !ok {
						return
					}
				case <-timeout:
					t.Fatal("terminal session was not left")
				}
			}
		})
	}
}

func TestRunCommandRejectsBadKeyOverrides(t *testing.T) {
	root := testRootCommand()
	root.Config.Keys = map[string][]string{"explode": {"x"}}
	called := false
	cmd := RunCommand{rootCmd: root, onSession: func(*tui.Session) { called = true }}

	err := cmd.Run(context.Background())
	assert.Error(t, err)
	assert.False(t, called, "no terminal session should be opened")
}
