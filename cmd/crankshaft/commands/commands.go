package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kingpin/v2"

	"github.com/jask/crankshaft/internal/config"
	"github.com/jask/crankshaft/internal/database"
	"github.com/jask/crankshaft/internal/database/repository"
	"github.com/jask/crankshaft/internal/log"
)

// Command represents an application command, all commands that want to be executed
// should implement and setup on main.
type Command interface {
	Name() string
	Run(ctx context.Context) error
}

// RootCommand represents the root command configuration and global configuration
// for all the commands.
type RootCommand struct {
	// Global flags. Zero values leave the config file settings untouched.
	ConfigPath string
	Debug      bool
	TickRate   time.Duration
	Source     string
	DBPath     string

	// Global instances.
	Stdout io.Writer
	Stderr io.Writer
	Config config.Config
	Logger log.Logger
}

// NewRootCommand initializes the main root configuration.
func NewRootCommand(app *kingpin.Application) *RootCommand {
	c := &RootCommand{}

	app.Flag("config", "Path to the TOML config file.").Envar("CRANKSHAFT_CONFIG").StringVar(&c.ConfigPath)
	app.Flag("debug", "Enable debug logging.").BoolVar(&c.Debug)
	app.Flag("tick-rate", "Period between progress ticks.").DurationVar(&c.TickRate)
	app.Flag("source", "Where the initial task set comes from.").EnumVar(&c.Source, config.SourceSample, config.SourceSQLite)
	app.Flag("db-path", "Path to the SQLite task snapshot database.").StringVar(&c.DBPath)

	return c
}

// LoadConfig reads the config file and env, then applies the global flags
// on top.
func (c *RootCommand) LoadConfig() (config.Config, error) {
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return config.Config{}, err
	}

	if c.Debug {
		cfg.Log.Level = "debug"
	}
	if c.TickRate != 0 {
		cfg.Dashboard.TickRate = c.TickRate
	}
	if c.Source != "" {
		cfg.Source.Kind = c.Source
	}
	if c.DBPath != "" {
		cfg.Source.DBPath = c.DBPath
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// openTaskRepo migrates the database at path and returns a repository over it.
// The returned closer releases the connection.
func openTaskRepo(path string, logger log.Logger) (*repository.TaskRepo, func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("could not create db dir: %w", err)
	}
	if err := database.RunMigrations(path); err != nil {
		return nil, nil, fmt.Errorf("could not migrate db: %w", err)
	}

	db, err := database.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("could not open db: %w", err)
	}
	logger.Debugf("task database ready at %s", path)

	return repository.NewTaskRepo(db), db.Close, nil
}
