package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/jask/crankshaft/internal/source"
)

type SeedCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	size  int
	merge bool
}

// NewSeedCommand returns the seed command.
func NewSeedCommand(rootCmd *RootCommand, app *kingpin.Application) *SeedCommand {
	c := &SeedCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("seed", "Write the sample tasks into the SQLite task snapshot database.")
	c.Cmd.Flag("size", "Number of sample tasks, defaults to source.sample_size.").IntVar(&c.size)
	c.Cmd.Flag("merge", "Update the sample tasks in place and keep other stored tasks.").BoolVar(&c.merge)

	return c
}

func (c SeedCommand) Name() string { return c.Cmd.FullCommand() }

func (c SeedCommand) Run(ctx context.Context) error {
	cfg := c.rootCmd.Config
	logger := c.rootCmd.Logger

	size := c.size
	if size <= 0 {
		size = cfg.Source.SampleSize
	}

	repo, closeDB, err := openTaskRepo(cfg.Source.DBPath, logger)
	if err != nil {
		return err
	}
	defer func() { _ = closeDB() }()

	tasks, err := source.Sample{Size: size}.Load(ctx)
	if err != nil {
		return fmt.Errorf("could not build sample tasks: %w", err)
	}
	write := source.Seed
	if c.merge {
		write = source.Merge
	}
	if err := write(ctx, repo, tasks); err != nil {
		return fmt.Errorf("could not seed tasks: %w", err)
	}

	stored, err := repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("could not count stored tasks: %w", err)
	}
	logger.Infof("seeded %d tasks, %d stored", len(tasks), stored)

	fmt.Fprintf(c.rootCmd.Stdout, "Seeded %d tasks into %s (%d stored)\n", len(tasks), cfg.Source.DBPath, stored)
	return nil
}
