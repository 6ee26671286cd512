package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fintrack-dev/fintrack/internal/clock"
	"github.com/fintrack-dev/fintrack/internal/config"
	"github.com/fintrack-dev/fintrack/internal/engine"
	"github.com/fintrack-dev/fintrack/internal/logger"
	"github.com/fintrack-dev/fintrack/internal/notify"
	"github.com/fintrack-dev/fintrack/internal/period"
	"github.com/fintrack-dev/fintrack/internal/runlog"
	"github.com/fintrack-dev/fintrack/internal/store"
)

// DataDirEnv overrides the default data directory.
const DataDirEnv = "FINTRACK_DATA"

// globals holds the persistent flags.
type globals struct {
	dataDir    string
	configPath string
	today      string
	logLevel   string
}

func defaultDataDir() string {
	if dir := os.Getenv(DataDirEnv); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".fintrack"
	}
	return filepath.Join(home, ".fintrack")
}

func (g *globals) resolvedConfigPath(dataDir string) string {
	if g.configPath != "" {
		return g.configPath
	}
	return filepath.Join(dataDir, config.FileName)
}

func (g *globals) clock() (clock.Clock, error) {
	if g.today == "" {
		return clock.System{}, nil
	}
	t, err := period.ParseDay(g.today)
	if err != nil {
		return nil, fmt.Errorf("--today: %w", err)
	}
	return clock.Fixed(t), nil
}

// app is everything a command needs for one invocation.
type app struct {
	dataDir string
	cfg     *config.Config
	store   *store.Store
	clock   clock.Clock
	out     io.Writer
	ctx     context.Context
}

// open loads the config and store for cmd. The data directory must have been
// initialized.
func (g *globals) open(cmd *cobra.Command) (*app, error) {
	dataDir, err := filepath.Abs(g.dataDir)
	if err != nil {
		return nil, fmt.Errorf("resolving data dir: %w", err)
	}
	cfg, err := config.Load(g.resolvedConfigPath(dataDir))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("no fintrack data at %s; run `fintrack init` first", dataDir)
	}
	if err != nil {
		return nil, err
	}

	clk, err := g.clock()
	if err != nil {
		return nil, err
	}

	log, err := logger.NewConsole(cmd.ErrOrStderr(), g.logLevel)
	if err != nil {
		return nil, err
	}
	log = logger.WithFields(log, map[string]any{
		"command": cmd.CommandPath(),
		"backend": cfg.Storage.Backend,
	})

	st, err := store.Open(dataDir, cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	return &app{
		dataDir: dataDir,
		cfg:     cfg,
		store:   st,
		clock:   clk,
		out:     cmd.OutOrStdout(),
		ctx:     logger.WithContext(cmd.Context(), log),
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// audit records a manual change in the run log.
func (a *app) audit(component, action, details, ref, amount string) error {
	return runlog.Append(a.dataDir, []runlog.Entry{{
		Timestamp: a.clock.Now(),
		Component: component,
		Action:    action,
		Details:   details,
		Ref:       ref,
		Amount:    amount,
	}})
}

// load runs one application load pass, printing notifications to the
// command's output.
func (a *app) load() (engine.Report, error) {
	toaster := notify.NewToaster(a.out, a.cfg.Notify.Duration())
	e := engine.New(a.store, toaster, a.clock, engine.OptionsFromConfig(a.cfg, a.dataDir))
	return e.Load(a.ctx)
}

// run opens the app, optionally runs a load pass, and calls fn.
func (g *globals) run(cmd *cobra.Command, pass bool, fn func(a *app) error) error {
	a, err := g.open(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if pass {
		if _, err := a.load(); err != nil {
			return err
		}
	}
	return fn(a)
}
