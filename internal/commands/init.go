package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fintrack-dev/fintrack/internal/config"
	"github.com/fintrack-dev/fintrack/internal/gitops"
	"github.com/fintrack-dev/fintrack/internal/model"
	"github.com/fintrack-dev/fintrack/internal/store"
)

func newInitCommand(g *globals) *cobra.Command {
	var backend string
	var withGit bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a fintrack data directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(g.dataDir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			return runInit(cmd, g, absDir, backend, withGit)
		},
	}

	cmd.Flags().StringVar(&backend, "backend", store.BackendFile, "storage backend (file or sqlite)")
	cmd.Flags().BoolVar(&withGit, "git", false, "version the data directory with git and auto-commit each pass")

	return cmd
}

func runInit(cmd *cobra.Command, g *globals, dir, backend string, withGit bool) error {
	cfgPath := g.resolvedConfigPath(dir)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking config: %w", err)
	}

	if err := os.MkdirAll(filepath.Join(dir, "logs"), 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	cfg := config.Default()
	cfg.Storage.Backend = backend
	if backend == store.BackendSQLite {
		cfg.Storage.Path = store.DefaultSQLiteFile
	}
	cfg.Git.AutoCommit = withGit
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	st, err := store.Open(dir, cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()
	if err := writeEmpty(cmd, st); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if withGit {
		if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("*.tmp\n"), 0o644); err != nil {
			return fmt.Errorf("writing .gitignore: %w", err)
		}
		if err := gitops.Init(cmd.Context(), dir); err != nil {
			return err
		}
		author := gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail}
		hash, err := gitops.CommitAll(cmd.Context(), dir, "init: fintrack data directory", author)
		if err != nil {
			return fmt.Errorf("initial commit: %w", err)
		}
		fmt.Fprintf(out, "Initialized fintrack data directory at %s (%s)\n", dir, hash)
		return nil
	}

	fmt.Fprintf(out, "Initialized fintrack data directory at %s\n", dir)
	return nil
}

func writeEmpty(cmd *cobra.Command, st *store.Store) error {
	ctx := cmd.Context()
	steps := []func() error{
		func() error { return st.SaveAssets(ctx, nil) },
		func() error { return st.SaveTransactions(ctx, nil) },
		func() error { return st.SaveRecurringItems(ctx, nil) },
		func() error { return st.SaveExecutionLog(ctx, model.ExecutionLog{}) },
		func() error { return st.SaveHistory(ctx, nil) },
		func() error { return st.SaveBudgets(ctx, nil) },
		func() error { return st.SaveStockSnapshots(ctx, nil) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return fmt.Errorf("writing empty data: %w", err)
		}
	}
	return nil
}
