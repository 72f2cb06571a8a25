package commands

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/kkb-dev/kkb/internal/config"
	"github.com/kkb-dev/kkb/internal/gitops"
	"github.com/kkb-dev/kkb/internal/ledger"
	"github.com/kkb-dev/kkb/internal/logger"
	"github.com/kkb-dev/kkb/internal/persist"
)

// env is everything a command needs to read and change the ledger.
type env struct {
	dataDir string
	cfg     *config.Config
	log     zerolog.Logger
	store   *ledger.Store
	adapter *persist.Adapter
	closer  io.Closer
}

func (o *options) resolveDataDir() (string, error) {
	dir, err := filepath.Abs(config.DataDir(o.dataDir))
	if err != nil {
		return "", fmt.Errorf("resolving data dir: %w", err)
	}
	return dir, nil
}

// open loads configuration and the stored ledger. The caller must Close it.
func (o *options) open(cmd *cobra.Command) (*env, error) {
	dataDir, err := o.resolveDataDir()
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadDir(dataDir)
	if err != nil {
		return nil, err
	}
	return newEnv(cmd, dataDir, cfg, true)
}

func newEnv(cmd *cobra.Command, dataDir string, cfg *config.Config, load bool) (*env, error) {
	log, err := logger.New(cfg.Logger(), cmd.ErrOrStderr())
	if err != nil {
		return nil, fmt.Errorf("configuring logger: %w", err)
	}

	blob, closer, err := openBlob(cfg, dataDir, log)
	if err != nil {
		return nil, err
	}

	e := &env{
		dataDir: dataDir,
		cfg:     cfg,
		log:     log,
		store:   ledger.New(),
		adapter: persist.NewAdapter(blob, logger.WithComponent(log, "persist")),
		closer:  closer,
	}
	if cfg.Git.AutoCommit {
		e.adapter.OnSave(e.commit)
	}
	if load {
		e.adapter.Load(cmd.Context(), e.store)
	}
	return e, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func openBlob(cfg *config.Config, dataDir string, log zerolog.Logger) (persist.Blob, io.Closer, error) {
	path := cfg.StoragePath(dataDir)
	switch cfg.Storage.Backend {
	case config.BackendBadger:
		badgerLog := logger.WithComponent(log, "badger")
		db, err := persist.OpenBadger(persist.BadgerConfig{
			Path:       path,
			SyncWrites: true,
			Logger:     &badgerLog,
		})
		if err != nil {
			return nil, nil, err
		}
		return db, db, nil
	default:
		return persist.NewFileBlob(path), nopCloser{}, nil
	}
}

// commit records a save in git when the data directory is a repository.
func (e *env) commit(ctx context.Context, message string) error {
	repo := gitops.Open(e.dataDir, e.cfg.Git.AuthorName, e.cfg.Git.AuthorEmail)
	if !repo.IsRepo() {
		e.log.Debug().Str("dir", e.dataDir).Msg("auto commit skipped, not a git repository")
		return nil
	}
	hash, err := repo.Commit(ctx, message)
	if err != nil {
		return err
	}
	if hash != "" {
		e.log.Debug().Str("commit", hash).Msg("ledger committed")
	}
	return nil
}

// save persists the ledger after a successful mutation.
func (e *env) save(cmd *cobra.Command, message string) error {
	return e.adapter.Save(cmd.Context(), e.store, message)
}

// Close releases the storage backend.
func (e *env) Close() error {
	return e.closer.Close()
}
