package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/hrmslite/internal/config"
)

// Global carries process-wide handles into every command.
type Global struct {
	Logger *slog.Logger
	Out    io.Writer
	In     io.Reader
	Ctx    context.Context
}

func (g *Global) out() io.Writer {
	if g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

func (g *Global) in() io.Reader {
	if g.In == nil {
		return os.Stdin
	}
	return g.In
}

func (g *Global) context() context.Context {
	if g.Ctx == nil {
		return context.Background()
	}
	return g.Ctx
}

func (g *Global) logger() *slog.Logger {
	if g.Logger == nil {
		return slog.Default()
	}
	return g.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (default: ./hrmslite.yaml when present)"`
	Verbose bool             `short:"v" help:"Enable verbose logging and detailed errors"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Init       InitCmd       `cmd:"" help:"Write an example configuration file"`
	Employees  EmployeesCmd  `cmd:"" help:"List, add and delete employees"`
	Attendance AttendanceCmd `cmd:"" help:"Mark and inspect attendance"`
	Watch      WatchCmd      `cmd:"" help:"Keep the roster refreshed and serve metrics"`
	History    HistoryCmd    `cmd:"" help:"Show the local activity journal"`
	Health     HealthCmd     `cmd:"" help:"Check that the record service is reachable"`
}

// AfterApply runs after flag parsing; it installs a provisional logger until
// a command loads the configuration.
func (c *CLI) AfterApply(g *Global) error {
	level := slog.LevelWarn
	if c.Verbose {
		level = slog.LevelDebug
	}
	g.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(g.Logger)
	return nil
}

// loadConfig loads the configuration and applies its logging section.
func (c *CLI) loadConfig(g *Global) (*config.Config, error) {
	cfg, err := config.Load(config.Resolve(c.Config))
	if err != nil {
		return nil, err
	}
	g.Logger = newLogger(cfg.Logging, c.Verbose, os.Stderr)
	slog.SetDefault(g.Logger)
	return cfg, nil
}

func newLogger(lc config.LoggingConfig, verbose bool, w io.Writer) *slog.Logger {
	level := lc.Level.SlogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if lc.Format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
