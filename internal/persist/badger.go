package persist

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
)

// DefaultKey is the key the snapshot is stored under.
const DefaultKey = "kkb-data"

// BadgerConfig holds configuration for an embedded BadgerDB.
type BadgerConfig struct {
	// Path is the database directory. Ignored when InMemory is true.
	Path string

	// InMemory keeps everything in RAM. Used by tests.
	InMemory bool

	// SyncWrites fsyncs every write.
	SyncWrites bool

	// Key overrides DefaultKey.
	Key string

	// Logger receives BadgerDB's own log output. Nil silences it.
	Logger *zerolog.Logger
}

// BadgerBlob stores the snapshot as a single value in BadgerDB.
type BadgerBlob struct {
	db  *badger.DB
	key []byte
}

// badgerLogger adapts zerolog to BadgerDB's Logger interface.
type badgerLogger struct {
	log *zerolog.Logger
}

func (l badgerLogger) Errorf(format string, args ...any) { l.log.Error().Msgf(format, args...) }

func (l badgerLogger) Warningf(format string, args ...any) { l.log.Warn().Msgf(format, args...) }

func (l badgerLogger) Infof(format string, args ...any) { l.log.Debug().Msgf(format, args...) }

func (l badgerLogger) Debugf(format string, args ...any) { l.log.Trace().Msgf(format, args...) }

// OpenBadger opens (creating if needed) a BadgerDB and returns a blob on it.
// The caller must Close it.
func OpenBadger(cfg BadgerConfig) (*BadgerBlob, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent database")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)

	if cfg.Logger != nil {
		opts = opts.WithLogger(badgerLogger{log: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}

	key := cfg.Key
	if key == "" {
		key = DefaultKey
	}
	return &BadgerBlob{db: db, key: []byte(key)}, nil
}

// Read returns the stored snapshot, or ErrNotFound.
func (b *BadgerBlob) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var data []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(b.key)
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", b.key, err)
	}
	return data, nil
}

// Write stores data under the blob's key.
func (b *BadgerBlob) Write(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(b.key, data)
	})
	if err != nil {
		return fmt.Errorf("writing %s: %w", b.key, err)
	}
	return nil
}

// Close closes the underlying database.
func (b *BadgerBlob) Close() error {
	return b.db.Close()
}
