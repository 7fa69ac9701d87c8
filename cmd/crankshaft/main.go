package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/google/uuid"
	"github.com/oklog/run"
	"github.com/sirupsen/logrus"

	"github.com/jask/crankshaft/cmd/crankshaft/commands"
	"github.com/jask/crankshaft/internal/config"
	"github.com/jask/crankshaft/internal/log"
	loglogrus "github.com/jask/crankshaft/internal/log/logrus"
)

const (
	// Version is the application version (set via ldflags).
	Version = "dev"
)

// Run runs the main application.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) (err error) {
	app := kingpin.New("crankshaft", "Terminal dashboard for monitoring tasks.")
	app.Version(Version)
	rootCmd := commands.NewRootCommand(app)

	runCmd := commands.NewRunCommand(rootCmd, app)
	seedCmd := commands.NewSeedCommand(rootCmd, app)

	cmds := map[string]commands.Command{
		runCmd.Name():  runCmd,
		seedCmd.Name(): seedCmd,
	}

	cmdName, err := app.Parse(args[1:])
	if err != nil {
		return fmt.Errorf("invalid command configuration: %w", err)
	}

	rootCmd.Stdout = stdout
	rootCmd.Stderr = stderr

	cfg, err := rootCmd.LoadConfig()
	if err != nil {
		return fmt.Errorf("could not load config: %w", err)
	}
	rootCmd.Config = cfg

	// The dashboard owns the terminal, its logs go to a file.
	logOut := stderr
	if cmdName == runCmd.Name() {
		f, err := openLogFile(cfg.Log.Path)
		if err != nil {
			return err
		}
		defer f.Close()
		logOut = f
	}

	logger, err := getLogger(cfg.Log, logOut)
	if err != nil {
		return err
	}
	rootCmd.Logger = logger.WithValues(log.Kv{"cmd": cmdName})

	var g run.Group

	// OS signals.
	{
		signalCtx, signalCancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer signalCancel()

		g.Add(
			func() error {
				<-signalCtx.Done()
				rootCmd.Logger.Debugf("Termination signal received")
				return nil
			},
			func(_ error) {
				signalCancel()
			},
		)
	}

	// Execute command.
	{
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		g.Add(
			func() error {
				err := cmds[cmdName].Run(ctx)
				if err != nil {
					return fmt.Errorf("%q command failed: %w", cmdName, err)
				}
				return nil
			},
			func(_ error) {
				cancel()
			},
		)
	}

	return g.Run()
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("could not create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("could not open log file: %w", err)
	}
	return f, nil
}

// getLogger returns the application logger.
func getLogger(cfg config.LogConfig, out io.Writer) (log.Logger, error) {
	logrusLog := logrus.New()
	logrusLog.Out = out
	logrusLogEntry := logrus.NewEntry(logrusLog)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	logrusLogEntry.Logger.SetLevel(level)

	switch cfg.Format {
	case config.LogFormatJSON:
		logrusLogEntry.Logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logrusLogEntry.Logger.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	}

	logger := loglogrus.NewLogrus(logrusLogEntry).WithValues(log.Kv{
		"version": Version,
		"run":     uuid.NewString(),
	})

	logger.Debugf("Debug level is enabled") // Will log only when debug enabled.

	return logger, nil
}

func main() {
	ctx := context.Background()
	err := Run(ctx, os.Args, os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
