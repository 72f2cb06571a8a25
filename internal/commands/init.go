package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kkb-dev/kkb/internal/accounts"
	"github.com/kkb-dev/kkb/internal/config"
	"github.com/kkb-dev/kkb/internal/gitops"
	"github.com/kkb-dev/kkb/internal/id"
	"github.com/kkb-dev/kkb/internal/importer"
	"github.com/kkb-dev/kkb/internal/model"
)

type initOptions struct {
	currency string
	backend  string
	chart    string
	empty    bool
	git      bool
}

func newInitCommand(opts *options) *cobra.Command {
	var flags initOptions

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new ledger",
		Long: "Initialize a new ledger: writes kkb.yaml, seeds the household chart of accounts\n" +
			"(or the accounts of --chart) and saves an empty journal.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.dataDir = args[0]
			}
			dir, err := opts.resolveDataDir()
			if err != nil {
				return err
			}
			return runInit(cmd, dir, flags)
		},
	}

	cmd.Flags().StringVar(&flags.currency, "currency", model.DefaultCurrency, "default currency for new accounts")
	cmd.Flags().StringVar(&flags.backend, "backend", config.BackendFile, "storage backend (file or badger)")
	cmd.Flags().StringVar(&flags.chart, "chart", "", "chart of accounts CSV to start from")
	cmd.Flags().BoolVar(&flags.empty, "empty", false, "start without any accounts")
	cmd.Flags().BoolVar(&flags.git, "git", false, "version the data directory with git")
	cmd.MarkFlagsMutuallyExclusive("chart", "empty")

	return cmd
}

func runInit(cmd *cobra.Command, dir string, flags initOptions) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", cfgPath, err)
	}

	if err := os.MkdirAll(filepath.Join(dir, importer.ProcessedDir), 0o755); err != nil {
		return fmt.Errorf("creating directories: %w", err)
	}

	cfg := config.Default()
	cfg.Ledger.DefaultCurrency = flags.currency
	cfg.Storage.Backend = flags.backend
	if flags.backend == config.BackendBadger {
		cfg.Storage.Path = "kkb.db"
	}
	cfg.Git.AutoCommit = flags.git
	if err := cfg.Validate(); err != nil {
		return err
	}

	e, err := newEnv(cmd, dir, cfg, false)
	if err != nil {
		return err
	}
	defer e.Close()

	if err := seedAccounts(e, flags); err != nil {
		return err
	}
	if err := config.Save(cfgPath, cfg); err != nil {
		return err
	}

	if flags.git {
		repo := gitops.Open(dir, cfg.Git.AuthorName, cfg.Git.AuthorEmail)
		if err := repo.Init(cmd.Context()); err != nil {
			return err
		}
	}
	if err := e.save(cmd, "init: new ledger"); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized kkb ledger at %s (%d accounts)\n", dir, len(e.store.Accounts(false)))
	return nil
}

func seedAccounts(e *env, flags initOptions) error {
	switch {
	case flags.empty:
		return nil

	case flags.chart != "":
		f, err := os.Open(flags.chart)
		if err != nil {
			return fmt.Errorf("opening chart: %w", err)
		}
		defer f.Close()

		accts, err := accounts.ReadAccounts(f)
		if err != nil {
			return err
		}
		now := id.Now()
		for i := range accts {
			if accts[i].Currency == "" {
				accts[i].Currency = e.cfg.Ledger.DefaultCurrency
			}
			accts[i].CreatedAt, accts[i].UpdatedAt = now, now
		}
		// Loading keeps the ids from the file, so parent_id references hold.
		return e.store.LoadSnapshot(model.Snapshot{
			Version:      model.DataVersion,
			LastModified: now,
			Accounts:     accts,
		})

	default:
		for _, in := range accounts.DefaultChart() {
			in.Currency = e.cfg.Ledger.DefaultCurrency
			if _, err := e.store.CreateAccount(in); err != nil {
				return err
			}
		}
		return nil
	}
}
