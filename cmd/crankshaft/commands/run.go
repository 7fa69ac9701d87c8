package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/alecthomas/kingpin/v2"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/crankshaft/internal/config"
	"github.com/jask/crankshaft/internal/dashboard"
	"github.com/jask/crankshaft/internal/event"
	"github.com/jask/crankshaft/internal/keymap"
	"github.com/jask/crankshaft/internal/source"
	"github.com/jask/crankshaft/internal/task"
	"github.com/jask/crankshaft/internal/tui"
)

type RunCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	// SessionOptions replace the terminal session's bubbletea options when set.
	SessionOptions []tea.ProgramOption

	onSession func(*tui.Session)
}

// NewRunCommand returns the run command, the default one.
func NewRunCommand(rootCmd *RootCommand, app *kingpin.Application) *RunCommand {
	c := &RunCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("run", "Open the task monitor dashboard.").Default()

	return c
}

func (c RunCommand) Name() string { return c.Cmd.FullCommand() }

func (c RunCommand) Run(ctx context.Context) (err error) {
	cfg := c.rootCmd.Config
	logger := c.rootCmd.Logger

	keys := keymap.NewRegistry()
	if err := keys.ApplyOverrides(cfg.Keys); err != nil {
		return fmt.Errorf("invalid key bindings: %w", err)
	}

	// Initial task set.
	src, closeSrc, err := c.taskSource()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeSrc(); cerr != nil {
			logger.Warningf("could not close task source: %s", cerr)
		}
	}()

	tasks := task.NewRegistry(cfg.Dashboard.ProgressStep)
	if err := source.Populate(ctx, src, tasks); err != nil {
		return fmt.Errorf("could not load tasks: %w", err)
	}
	logger.Infof("loaded %d tasks from %s source, progress step %v per tick", tasks.Len(), cfg.Source.Kind, tasks.Step())

	app := dashboard.NewApp(tasks, keys)

	// Terminal session.
	session, err := tui.NewSession(tui.SessionConfig{
		Keys:           keys,
		Logger:         logger,
		ProgramOptions: c.SessionOptions,
	})
	if err != nil {
		return fmt.Errorf("could not create terminal session: %w", err)
	}
	if c.onSession != nil {
		c.onSession(session)
	}
	if err := session.Enter(); err != nil {
		return fmt.Errorf("could not enter terminal session: %w", err)
	}
	defer func() {
		err = errors.Join(err, session.Leave())
	}()

	// Event producer.
	events, err := event.NewSource(event.SourceConfig{
		Input:    event.NewChanInput(session.Keys()),
		TickRate: cfg.Dashboard.TickRate,
		Buffer:   cfg.Dashboard.EventBuffer,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("could not create event source: %w", err)
	}
	events.Start()
	defer events.Close()

	loop, err := dashboard.NewLoop(dashboard.LoopConfig{
		App:      app,
		Renderer: session,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("could not create dashboard loop: %w", err)
	}

	return loop.Run(ctx, events)
}

func (c RunCommand) taskSource() (source.Source, func() error, error) {
	cfg := c.rootCmd.Config
	switch cfg.Source.Kind {
	case config.SourceSQLite:
		repo, closeDB, err := openTaskRepo(cfg.Source.DBPath, c.rootCmd.Logger)
		if err != nil {
			return nil, nil, err
		}
		return source.SQLite{Repo: repo}, closeDB, nil
	default:
		return source.Sample{Size: cfg.Source.SampleSize}, func() error { return nil }, nil
	}
}
